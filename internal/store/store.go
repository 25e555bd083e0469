// Package store defines the document-store collaborator contracts and their
// backends. Every operation is a single-key read or write; there are no
// multi-key transactions, which is why the friend service runs its own
// apply-then-verify protocol on top.
package store

import (
	"context"
)

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
}

type ConversationStore interface {
	// GetConversation returns common.ErrNotFound when the thread does not
	// exist yet.
	GetConversation(ctx context.Context, conversationID string) (*Conversation, error)
	PutConversation(ctx context.Context, conv *Conversation) error
}

type GroupStore interface {
	GetGroup(ctx context.Context, groupID string) (*Group, error)
	PutGroup(ctx context.Context, group *Group) error
	DeleteGroup(ctx context.Context, groupID string) error
	ListGroupsFor(ctx context.Context, email string) ([]*Group, error)
}

type GroupMessageStore interface {
	// GetGroupMessages returns an empty list for a group with no messages.
	GetGroupMessages(ctx context.Context, groupID string) ([]Message, error)
	UpdateGroupMessages(ctx context.Context, groupID string, messages []Message) error
	DeleteGroupMessages(ctx context.Context, groupID string) error
}

type FriendStore interface {
	// GetFriendLists returns an empty document (never nil) for an identity
	// with no recorded edges.
	GetFriendLists(ctx context.Context, email string) (*FriendLists, error)
	SetFriendLists(ctx context.Context, lists *FriendLists) error
}

// Store is the full persistence surface consumed by the services.
type Store interface {
	UserStore
	ConversationStore
	GroupStore
	GroupMessageStore
	FriendStore
}
