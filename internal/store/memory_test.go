package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gochat/internal/common"
)

func TestMemoryUserRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.GetUserByEmail(ctx, "alice@example.com")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, m.CreateUser(ctx, &User{Email: "alice@example.com", FullName: "Alice"}))
	u, err := m.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "Alice", u.FullName)

	u.FullName = "Mallory"
	again, err := m.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "Alice", again.FullName, "callers must not share state with the store")
}

func TestMemoryConversationIsolation(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	conv := &Conversation{
		ConversationID: "a_b",
		Participants:   []string{"a", "b"},
		Messages:       []Message{{MessageID: "m1", Content: "hi"}},
	}
	require.NoError(t, m.PutConversation(ctx, conv))

	// Mutating the original after Put must not leak into the store.
	conv.Messages[0].Content = "changed"
	got, err := m.GetConversation(ctx, "a_b")
	require.NoError(t, err)
	require.Equal(t, "hi", got.Messages[0].Content)

	// Mutating a returned copy must not leak either.
	got.Messages[0].Reactions = append(got.Messages[0].Reactions, Reaction{SenderEmail: "b"})
	fresh, err := m.GetConversation(ctx, "a_b")
	require.NoError(t, err)
	require.Empty(t, fresh.Messages[0].Reactions)
}

func TestMemoryGroupLifecycle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	g := &Group{GroupID: "g1", Name: "eng", CreatorID: "a", Members: []string{"a", "b"}, Admins: []string{"a"}}
	require.NoError(t, m.PutGroup(ctx, g))

	list, err := m.ListGroupsFor(ctx, "b")
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = m.ListGroupsFor(ctx, "z")
	require.NoError(t, err)
	require.Empty(t, list)

	require.NoError(t, m.DeleteGroup(ctx, "g1"))
	require.ErrorIs(t, m.DeleteGroup(ctx, "g1"), common.ErrNotFound)
	_, err = m.GetGroup(ctx, "g1")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryGroupMessagesDefaultEmpty(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	msgs, err := m.GetGroupMessages(ctx, "g1")
	require.NoError(t, err)
	require.Empty(t, msgs)

	require.NoError(t, m.UpdateGroupMessages(ctx, "g1", []Message{{MessageID: "m1"}}))
	msgs, err = m.GetGroupMessages(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	require.NoError(t, m.DeleteGroupMessages(ctx, "g1"))
	msgs, err = m.GetGroupMessages(ctx, "g1")
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestMemoryFriendListsDefaultDocument(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	lists, err := m.GetFriendLists(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, lists)
	require.Equal(t, "alice@example.com", lists.Email)
	require.Empty(t, lists.Friends)

	lists.Friends = append(lists.Friends, FriendEntry{Email: "bob@example.com", Since: time.Now()})
	require.NoError(t, m.SetFriendLists(ctx, lists))

	got, err := m.GetFriendLists(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, got.Friends, 1)
}
