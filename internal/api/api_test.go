package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"gochat/internal/chat"
	"gochat/internal/common"
	"gochat/internal/config"
	"gochat/internal/friend"
	"gochat/internal/gateway"
	"gochat/internal/group"
	"gochat/internal/room"
	"gochat/internal/session"
	"gochat/internal/store"
)

type env struct {
	router *mux.Router
	mem    *store.Memory
	tokens *common.TokenManager
	chats  chat.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mem := store.NewMemory()
	tokens := common.NewTokenManager("test-secret", time.Hour)

	chats := chat.NewService(mem, mem, mem, mem, chat.DefaultConfig())
	groups := group.NewService(mem, mem, mem)
	friends := friend.NewService(mem, mem)
	gw := gateway.New(session.NewRegistry(), room.NewManager(), chats, groups, friends, mem, tokens, config.GatewayConfig{
		SendQueueSize: 16, IntentRate: 100, IntentBurst: 100,
		PingInterval: 30, WriteDeadline: 10, MaxMessageSize: 65536,
	})

	router := NewRouter(
		NewAuthHandler(mem, tokens),
		NewGroupHandler(groups, gw),
		NewMessageHandler(chats),
		NewFriendHandler(friends),
		gw,
		tokens,
	)
	return &env{router: router, mem: mem, tokens: tokens, chats: chats}
}

func (e *env) addUser(t *testing.T, email string) string {
	t.Helper()
	hash, err := common.HashPassword("hunter2!")
	require.NoError(t, err)
	require.NoError(t, e.mem.CreateUser(context.Background(), &store.User{
		Email: email, FullName: "User " + email, PasswordHash: hash,
	}))
	token, err := e.tokens.Generate(email, "User "+email)
	require.NoError(t, err)
	return token
}

func (e *env) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "alice@example.com", "fullName": "Alice", "password": "hunter2!",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created authResponse
	decodeBody(t, rec, &created)
	require.NotEmpty(t, created.Token)
	require.Equal(t, "alice@example.com", created.User.Email)
	require.Empty(t, created.User.PasswordHash)

	// Duplicate registration is rejected.
	rec = e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "alice@example.com", "fullName": "Alice", "password": "hunter2!",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "hunter2!",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unknown accounts answer identically to bad passwords.
	rec = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ghost@example.com", "password": "hunter2!",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"email": "nope", "fullName": "X", "password": "hunter2!"}},
		{"short password", map[string]string{"email": "a@example.com", "fullName": "X", "password": "abc"}},
		{"missing name", map[string]string{"email": "a@example.com", "password": "hunter2!"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/api/auth/register", "", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	e := newEnv(t)
	token := e.addUser(t, "alice@example.com")

	rec := e.do(t, http.MethodGet, "/api/friends", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/friends", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/friends", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMe(t *testing.T) {
	e := newEnv(t)
	token := e.addUser(t, "alice@example.com")

	rec := e.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user store.User
	decodeBody(t, rec, &user)
	require.Equal(t, "alice@example.com", user.Email)
	require.Empty(t, user.PasswordHash)
}

func TestGroupLifecycle(t *testing.T) {
	e := newEnv(t)
	aliceToken := e.addUser(t, "alice@example.com")
	bobToken := e.addUser(t, "bob@example.com")
	carolToken := e.addUser(t, "carol@example.com")

	rec := e.do(t, http.MethodPost, "/api/groups", aliceToken, map[string]interface{}{
		"name": "engineering", "members": []string{"bob@example.com"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var grp store.Group
	decodeBody(t, rec, &grp)
	require.NotEmpty(t, grp.GroupID)
	require.True(t, grp.HasMember("bob@example.com"))

	// Non-members see neither the group nor its history.
	rec = e.do(t, http.MethodGet, "/api/groups/"+grp.GroupID, carolToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = e.do(t, http.MethodGet, "/api/groups/"+grp.GroupID+"/messages", carolToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/groups", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []*store.Group
	decodeBody(t, rec, &list)
	require.Len(t, list, 1)

	// Only admins manage membership.
	rec = e.do(t, http.MethodPost, "/api/groups/"+grp.GroupID+"/members", bobToken, map[string]string{
		"email": "carol@example.com",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/groups/"+grp.GroupID+"/members", aliceToken, map[string]string{
		"email": "carol@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodDelete, "/api/groups/"+grp.GroupID+"/members", aliceToken, map[string]string{
		"email": "carol@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodDelete, "/api/groups/"+grp.GroupID, bobToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = e.do(t, http.MethodDelete, "/api/groups/"+grp.GroupID, aliceToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDirectHistoryEndpoint(t *testing.T) {
	e := newEnv(t)
	aliceToken := e.addUser(t, "alice@example.com")
	e.addUser(t, "bob@example.com")

	_, err := e.chats.Send(context.Background(), "alice@example.com",
		chat.DirectScope("bob@example.com"), chat.Draft{Content: "hey"})
	require.NoError(t, err)

	rec := e.do(t, http.MethodGet, "/api/messages/bob@example.com", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var msgs []store.Message
	decodeBody(t, rec, &msgs)
	require.Len(t, msgs, 1)
	require.Equal(t, "hey", msgs[0].Content)
}

func TestGroupHistoryEndpointPaging(t *testing.T) {
	e := newEnv(t)
	aliceToken := e.addUser(t, "alice@example.com")

	rec := e.do(t, http.MethodPost, "/api/groups", aliceToken, map[string]interface{}{"name": "eng"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var grp store.Group
	decodeBody(t, rec, &grp)

	for _, content := range []string{"one", "two", "three"} {
		_, err := e.chats.Send(context.Background(), "alice@example.com",
			chat.GroupScope(grp.GroupID), chat.Draft{Content: content})
		require.NoError(t, err)
	}

	rec = e.do(t, http.MethodGet, "/api/groups/"+grp.GroupID+"/messages?limit=2", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msgs []store.Message
	decodeBody(t, rec, &msgs)
	require.Len(t, msgs, 2)
	require.Equal(t, "two", msgs[0].Content)
	require.Equal(t, "three", msgs[1].Content)
}
