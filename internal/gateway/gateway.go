// Package gateway is the websocket transport and event distribution engine:
// it authenticates connections, decodes intents, validates them against the
// chat/group/friend services, and fans the resulting events out to every
// affected live connection.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"gochat/internal/chat"
	"gochat/internal/common"
	"gochat/internal/config"
	"gochat/internal/friend"
	"gochat/internal/group"
	"gochat/internal/metrics"
	"gochat/internal/room"
	"gochat/internal/session"
	"gochat/internal/store"
)

// intentTimeout bounds the persistence work of one intent. It is detached
// from the connection's lifetime: a disconnect must not cancel an in-flight
// mutation, whose fan-out then simply no-ops against the gone connection.
const intentTimeout = 15 * time.Second

type Gateway struct {
	registry *session.Registry
	rooms    *room.Manager
	chats    chat.Service
	groups   group.Service
	friends  friend.Service
	users    store.UserStore
	tokens   *common.TokenManager
	cfg      config.GatewayConfig

	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]*conn // connID → conn
}

func New(registry *session.Registry, rooms *room.Manager, chats chat.Service, groups group.Service, friends friend.Service, users store.UserStore, tokens *common.TokenManager, cfg config.GatewayConfig) *Gateway {
	return &Gateway{
		registry: registry,
		rooms:    rooms,
		chats:    chats,
		groups:   groups,
		friends:  friends,
		users:    users,
		tokens:   tokens,
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[string]*conn),
	}
}

// HandleWS is the upgrade endpoint. Authentication is validated before the
// upgrade and before any registry mutation; a bad credential never touches
// shared state.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		if parts := strings.Fields(r.Header.Get("Authorization")); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			token = parts[1]
		}
	}

	claims, err := g.tokens.Validate(token)
	if err != nil {
		metrics.AuthFailures.Inc()
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}
	identity := common.NormalizeEmail(claims.Email)

	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &conn{
		id:       uuid.NewString(),
		identity: identity,
		ws:       ws,
		sendq:    make(chan ServerEvent, g.cfg.SendQueueSize),
		limiter:  rate.NewLimiter(rate.Limit(g.cfg.IntentRate), g.cfg.IntentBurst),
		gw:       g,
		closed:   make(chan struct{}),
	}

	g.mu.Lock()
	g.conns[c.id] = c
	g.mu.Unlock()

	first := g.registry.Register(identity, c)
	metrics.ConnectionsActive.Inc()
	if first {
		metrics.IdentitiesOnline.Inc()
	}

	logrus.WithFields(logrus.Fields{
		"connId":   c.id,
		"identity": identity,
		"first":    first,
	}).Info("client connected")

	go c.writePump(time.Duration(g.cfg.PingInterval)*time.Second, time.Duration(g.cfg.WriteDeadline)*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), intentTimeout)
	if first {
		g.broadcastPresence(ctx, identity, true)
	}
	g.pushGroupList(ctx, c)
	cancel()

	// pongWait is a bit more than the ping interval so one lost pong does
	// not kill the connection.
	pongWait := time.Duration(g.cfg.PingInterval)*time.Second + 10*time.Second
	c.readPump(g.cfg.MaxMessageSize, pongWait)

	g.disconnect(c)
}

// disconnect tears down everything the connection touched. Room membership
// and registry entries go first so any concurrent fan-out no-ops against
// this connection.
func (g *Gateway) disconnect(c *conn) {
	g.rooms.DropConn(c.id)

	g.mu.Lock()
	delete(g.conns, c.id)
	g.mu.Unlock()

	offline := g.registry.Unregister(c.identity, c.id)
	metrics.ConnectionsActive.Dec()
	if offline {
		metrics.IdentitiesOnline.Dec()
		ctx, cancel := context.WithTimeout(context.Background(), intentTimeout)
		g.broadcastPresence(ctx, c.identity, false)
		cancel()
	}

	logrus.WithFields(logrus.Fields{
		"connId":   c.id,
		"identity": c.identity,
		"offline":  offline,
	}).Info("client disconnected")
}

// dispatch handles one client frame: decode, validate+mutate through the
// services, persist, fan out, ack. The type switch is exhaustive over the
// intent union.
func (g *Gateway) dispatch(c *conn, f Frame) {
	in, err := DecodeIntent(f)
	if err != nil {
		g.ack(c, f, nil, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), intentTimeout)
	defer cancel()

	var data interface{}
	switch intent := in.(type) {
	case SendIntent:
		data, err = g.handleSend(ctx, c, intent)
	case MarkReadIntent:
		data, err = g.handleMarkRead(ctx, c, intent)
	case TypingIntent:
		g.handleTyping(c, intent)
	case ReactIntent:
		data, err = g.handleReact(ctx, c, intent)
	case RecallIntent:
		data, err = g.handleRecall(ctx, c, intent)
	case DeleteIntent:
		data, err = g.handleDelete(ctx, c, intent)
	case ForwardIntent:
		data, err = g.handleForward(ctx, c, intent)
	case JoinGroupIntent:
		err = g.handleJoinGroup(ctx, c, intent)
	case LeaveGroupIntent:
		g.rooms.Leave(roomName(intent.GroupID), c.id)
	case SendFriendRequestIntent:
		err = g.handleSendFriendRequest(ctx, c, intent)
	case RespondFriendRequestIntent:
		err = g.handleRespondFriendRequest(ctx, c, intent)
	case WithdrawFriendRequestIntent:
		err = g.handleWithdrawFriendRequest(ctx, c, intent)
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.IntentsTotal.WithLabelValues(f.Event, outcome).Inc()

	g.ack(c, f, data, err)
}

func (g *Gateway) ack(c *conn, f Frame, data interface{}, err error) {
	ack := Ack{OK: err == nil, Data: data}
	if err != nil {
		ack.Error = ackError(err)
		logrus.WithFields(logrus.Fields{
			"event":    f.Event,
			"identity": c.identity,
			"code":     ack.Error.Code,
		}).WithError(err).Debug("intent rejected")
	}
	c.Send(ServerEvent{Event: EvtAck, AckID: f.AckID, Data: ack})
}

func ackError(err error) *AckError {
	code := "internal"
	switch {
	case errors.Is(err, common.ErrAuthentication):
		code = "unauthenticated"
	case errors.Is(err, common.ErrNotFound):
		code = "not_found"
	case errors.Is(err, common.ErrPermission):
		code = "permission_denied"
	case errors.Is(err, common.ErrPolicy):
		code = "policy_violation"
	case errors.Is(err, common.ErrInvalid):
		code = "bad_request"
	case common.IsPersistence(err):
		code = "persistence_failure"
	}
	return &AckError{Code: code, Message: err.Error()}
}

// --- intent handlers ---

func scopeOf(peer, groupID string) (chat.Scope, error) {
	switch {
	case peer != "" && groupID == "":
		return chat.DirectScope(common.NormalizeEmail(peer)), nil
	case peer == "" && groupID != "":
		return chat.GroupScope(groupID), nil
	default:
		return chat.Scope{}, errors.Join(common.ErrInvalid, errors.New("exactly one of peer email and group id must be set"))
	}
}

func (g *Gateway) handleSend(ctx context.Context, c *conn, in SendIntent) (interface{}, error) {
	scope, err := scopeOf(in.ReceiverEmail, in.GroupID)
	if err != nil {
		return nil, err
	}

	msg, err := g.chats.Send(ctx, c.identity, scope, chat.Draft{
		Content:  in.Content,
		Type:     in.Type,
		FileURL:  in.FileURL,
		FileName: in.FileName,
		FileSize: in.FileSize,
		FileType: in.FileType,
	})
	if err != nil {
		return nil, err
	}

	ev := ServerEvent{Event: EvtMessage, Data: msg}
	g.fanOut(scope, c, ev)
	return msg, nil
}

func (g *Gateway) handleMarkRead(ctx context.Context, c *conn, in MarkReadIntent) (interface{}, error) {
	msg, err := g.chats.MarkRead(ctx, c.identity, common.NormalizeEmail(in.PeerEmail), in.MessageID)
	if err != nil {
		return nil, err
	}
	g.sendToIdentity(msg.SenderEmail, ServerEvent{Event: EvtMessageRead, Data: msg})
	return msg, nil
}

func (g *Gateway) handleTyping(c *conn, in TypingIntent) {
	ev := ServerEvent{Event: EvtTyping, Data: typingEvent{
		From:    c.identity,
		GroupID: in.GroupID,
		Active:  in.Active,
	}}
	if in.GroupID != "" {
		g.sendToRoom(in.GroupID, c.id, ev)
		return
	}
	if in.ReceiverEmail != "" {
		g.sendToIdentity(common.NormalizeEmail(in.ReceiverEmail), ev)
	}
}

func (g *Gateway) handleReact(ctx context.Context, c *conn, in ReactIntent) (interface{}, error) {
	scope, err := scopeOf(in.PeerEmail, in.GroupID)
	if err != nil {
		return nil, err
	}
	msg, err := g.chats.React(ctx, c.identity, scope, in.MessageID, in.Reaction)
	if err != nil {
		return nil, err
	}
	g.fanOut(scope, c, ServerEvent{Event: EvtReactionUpdate, Data: msg})
	return msg, nil
}

func (g *Gateway) handleRecall(ctx context.Context, c *conn, in RecallIntent) (interface{}, error) {
	scope, err := scopeOf(in.PeerEmail, in.GroupID)
	if err != nil {
		return nil, err
	}
	msg, err := g.chats.Recall(ctx, c.identity, scope, in.MessageID)
	if err != nil {
		return nil, err
	}
	g.fanOut(scope, c, ServerEvent{Event: EvtMessageRecalled, Data: msg})
	return msg, nil
}

func (g *Gateway) handleDelete(ctx context.Context, c *conn, in DeleteIntent) (interface{}, error) {
	scope, err := scopeOf(in.PeerEmail, in.GroupID)
	if err != nil {
		return nil, err
	}
	msg, err := g.chats.Delete(ctx, c.identity, scope, in.MessageID)
	if err != nil {
		return nil, err
	}

	// Group deletes are soft and acked only; the flagged message stays in
	// place. Direct deletes remove the message, so the peer is told.
	if scope.Kind == chat.ScopeDirect {
		g.sendToIdentity(scope.Peer, ServerEvent{Event: EvtMessageDeleted, Data: deletedEvent{
			ScopeID:   msg.ScopeID,
			MessageID: msg.MessageID,
		}})
	}
	return msg, nil
}

func (g *Gateway) handleForward(ctx context.Context, c *conn, in ForwardIntent) (interface{}, error) {
	src, err := scopeOf(in.SourcePeerEmail, in.SourceGroupID)
	if err != nil {
		return nil, err
	}
	dst, err := scopeOf(in.TargetPeerEmail, in.TargetGroupID)
	if err != nil {
		return nil, err
	}

	msg, err := g.chats.Forward(ctx, c.identity, src, in.MessageID, dst)
	if err != nil {
		return nil, err
	}
	g.fanOut(dst, c, ServerEvent{Event: EvtMessage, Data: msg})
	return msg, nil
}

func (g *Gateway) handleJoinGroup(ctx context.Context, c *conn, in JoinGroupIntent) error {
	// Room subscription is gated on persisted membership, checked here
	// against freshly fetched group state.
	if _, err := g.groups.Get(ctx, c.identity, in.GroupID); err != nil {
		return err
	}
	g.rooms.Join(roomName(in.GroupID), c.id)
	return nil
}

func (g *Gateway) handleSendFriendRequest(ctx context.Context, c *conn, in SendFriendRequestIntent) error {
	to := common.NormalizeEmail(in.Email)
	if err := g.friends.SendRequest(ctx, c.identity, to); err != nil {
		return err
	}

	ev := friendRequestEvent{Type: "newRequest", Email: c.identity}
	if sender, err := g.users.GetUserByEmail(ctx, c.identity); err == nil {
		ev.FullName = sender.FullName
		ev.Avatar = sender.Avatar
	}
	g.sendToIdentity(to, ServerEvent{Event: EvtFriendRequestUpdate, Data: ev})
	return nil
}

func (g *Gateway) handleRespondFriendRequest(ctx context.Context, c *conn, in RespondFriendRequestIntent) error {
	from := common.NormalizeEmail(in.Email)
	if err := g.friends.Respond(ctx, c.identity, from, in.Accept); err != nil {
		return err
	}

	g.sendToIdentity(from, ServerEvent{Event: EvtFriendRequestUpdate, Data: friendRequestEvent{
		Type:   "responded",
		Email:  c.identity,
		Accept: &in.Accept,
	}})

	if in.Accept {
		g.pushFriendList(ctx, c.identity)
		g.pushFriendList(ctx, from)
	}
	return nil
}

func (g *Gateway) handleWithdrawFriendRequest(ctx context.Context, c *conn, in WithdrawFriendRequestIntent) error {
	to := common.NormalizeEmail(in.Email)
	if err := g.friends.Withdraw(ctx, c.identity, to); err != nil {
		return err
	}
	g.sendToIdentity(to, ServerEvent{Event: EvtFriendRequestUpdate, Data: friendRequestEvent{
		Type:  "withdrawn",
		Email: c.identity,
	}})
	return nil
}

// --- fan-out ---

func roomName(groupID string) string { return "group:" + groupID }

// fanOut delivers an event to everyone affected by a thread mutation except
// the originating connection (which gets the ack): the room for group
// scopes, and both the peer's and the actor's other connections for direct
// scopes.
func (g *Gateway) fanOut(scope chat.Scope, origin *conn, ev ServerEvent) {
	if scope.Kind == chat.ScopeGroup {
		g.sendToRoom(scope.GroupID, origin.ID(), ev)
		return
	}
	g.sendToIdentity(scope.Peer, ev)
	g.sendToIdentityExcept(origin.Identity(), origin.ID(), ev)
}

func (g *Gateway) sendToIdentity(identity string, ev ServerEvent) {
	for _, c := range g.registry.ConnectionsOf(identity) {
		c.Send(ev)
	}
}

func (g *Gateway) sendToIdentityExcept(identity, exceptConnID string, ev ServerEvent) {
	for _, c := range g.registry.ConnectionsOf(identity) {
		if c.ID() != exceptConnID {
			c.Send(ev)
		}
	}
}

func (g *Gateway) sendToRoom(groupID, exceptConnID string, ev ServerEvent) {
	members := g.rooms.MembersOf(roomName(groupID))
	if len(members) == 0 {
		return
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, connID := range members {
		if connID == exceptConnID {
			continue
		}
		// A connection that disconnected between the membership snapshot and
		// here is simply absent from the map: fan-out no-ops.
		if c, ok := g.conns[connID]; ok {
			c.Send(ev)
		}
	}
}

// Notify pushes a named event to every live connection of an identity. Used
// by the HTTP handlers for group lifecycle broadcasts.
func (g *Gateway) Notify(identity, event string, data interface{}) {
	g.sendToIdentity(common.NormalizeEmail(identity), ServerEvent{Event: event, Data: data})
}

// NotifyMany pushes one event to every identity in the list.
func (g *Gateway) NotifyMany(identities []string, event string, data interface{}) {
	for _, id := range identities {
		g.Notify(id, event, data)
	}
}

func (g *Gateway) broadcastPresence(ctx context.Context, identity string, online bool) {
	entries, err := g.friends.Friends(ctx, identity)
	if err != nil {
		logrus.WithField("identity", identity).WithError(err).Warn("presence broadcast skipped")
		return
	}
	ev := ServerEvent{Event: EvtFriendStatusUpdate, Data: presenceEvent{Email: identity, Online: online}}
	for _, f := range entries {
		g.sendToIdentity(f.Email, ev)
	}
}

func (g *Gateway) pushGroupList(ctx context.Context, c *conn) {
	groups, err := g.groups.ListFor(ctx, c.identity)
	if err != nil {
		logrus.WithField("identity", c.identity).WithError(err).Warn("group list push skipped")
		return
	}
	c.Send(ServerEvent{Event: EvtGroupList, Data: groups})
}

func (g *Gateway) pushFriendList(ctx context.Context, identity string) {
	entries, err := g.friends.Friends(ctx, identity)
	if err != nil {
		logrus.WithField("identity", identity).WithError(err).Warn("friend list push skipped")
		return
	}
	g.sendToIdentity(identity, ServerEvent{Event: EvtFriendListUpdate, Data: entries})
}

// --- event payloads ---

type typingEvent struct {
	From    string `json:"from"`
	GroupID string `json:"groupId,omitempty"`
	Active  bool   `json:"active"`
}

type presenceEvent struct {
	Email  string `json:"email"`
	Online bool   `json:"online"`
}

type deletedEvent struct {
	ScopeID   string `json:"scopeId"`
	MessageID string `json:"messageId"`
}

type friendRequestEvent struct {
	Type     string `json:"type"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Accept   *bool  `json:"accept,omitempty"`
}
