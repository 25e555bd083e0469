package store

import (
	"context"
	"sync"

	"gochat/internal/common"
)

// Memory is an in-process Store used for development and tests. All values
// are deep-copied on the way in and out so callers never share state with the
// store.
type Memory struct {
	mu            sync.RWMutex
	users         map[string]*User
	conversations map[string]*Conversation
	groups        map[string]*Group
	groupMessages map[string][]Message
	friends       map[string]*FriendLists
}

func NewMemory() *Memory {
	return &Memory{
		users:         make(map[string]*User),
		conversations: make(map[string]*Conversation),
		groups:        make(map[string]*Group),
		groupMessages: make(map[string][]Message),
		friends:       make(map[string]*FriendLists),
	}
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) CreateUser(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

func (m *Memory) UpdateUser(ctx context.Context, user *User) error {
	return m.CreateUser(ctx, user)
}

func (m *Memory) GetConversation(_ context.Context, conversationID string) (*Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conversations[conversationID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneConversation(c), nil
}

func (m *Memory) PutConversation(_ context.Context, conv *Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations[conv.ConversationID] = cloneConversation(conv)
	return nil
}

func (m *Memory) GetGroup(_ context.Context, groupID string) (*Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groups[groupID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneGroup(g), nil
}

func (m *Memory) PutGroup(_ context.Context, group *Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[group.GroupID] = cloneGroup(group)
	return nil
}

func (m *Memory) DeleteGroup(_ context.Context, groupID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.groups[groupID]; !ok {
		return common.ErrNotFound
	}
	delete(m.groups, groupID)
	return nil
}

func (m *Memory) ListGroupsFor(_ context.Context, email string) ([]*Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Group
	for _, g := range m.groups {
		if g.HasMember(email) {
			out = append(out, cloneGroup(g))
		}
	}
	return out, nil
}

func (m *Memory) GetGroupMessages(_ context.Context, groupID string) ([]Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneMessages(m.groupMessages[groupID]), nil
}

func (m *Memory) UpdateGroupMessages(_ context.Context, groupID string, messages []Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groupMessages[groupID] = cloneMessages(messages)
	return nil
}

func (m *Memory) DeleteGroupMessages(_ context.Context, groupID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.groupMessages, groupID)
	return nil
}

func (m *Memory) GetFriendLists(_ context.Context, email string) (*FriendLists, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fl, ok := m.friends[email]
	if !ok {
		return &FriendLists{Email: email}, nil
	}
	return cloneFriendLists(fl), nil
}

func (m *Memory) SetFriendLists(_ context.Context, lists *FriendLists) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.friends[lists.Email] = cloneFriendLists(lists)
	return nil
}

func cloneMessages(in []Message) []Message {
	out := make([]Message, len(in))
	for i, msg := range in {
		out[i] = msg
		out[i].Reactions = append([]Reaction(nil), msg.Reactions...)
	}
	return out
}

func cloneConversation(c *Conversation) *Conversation {
	cp := *c
	cp.Participants = append([]string(nil), c.Participants...)
	cp.Messages = cloneMessages(c.Messages)
	return &cp
}

func cloneGroup(g *Group) *Group {
	cp := *g
	cp.Members = append([]string(nil), g.Members...)
	cp.Admins = append([]string(nil), g.Admins...)
	return &cp
}

func cloneFriendLists(fl *FriendLists) *FriendLists {
	cp := *fl
	cp.Friends = append([]FriendEntry(nil), fl.Friends...)
	cp.Sent = append([]FriendRequest(nil), fl.Sent...)
	cp.Received = append([]FriendRequest(nil), fl.Received...)
	return &cp
}
