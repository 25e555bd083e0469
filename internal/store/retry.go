package store

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"gochat/internal/common"
)

// Retry decorates a Store with bounded retries for transient backend
// failures. Not-found results pass through untouched; exhausted retries
// surface as a PersistenceError so the engine knows the mutation was never
// durably recorded.
type Retry struct {
	inner    Store
	attempts int
	delay    time.Duration
}

func WithRetry(inner Store, attempts int, delay time.Duration) *Retry {
	if attempts < 1 {
		attempts = 1
	}
	return &Retry{inner: inner, attempts: attempts, delay: delay}
}

func (r *Retry) do(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		err = fn()
		if err == nil || errors.Is(err, common.ErrNotFound) {
			return err
		}
		if ctx.Err() != nil {
			break
		}
		if attempt < r.attempts {
			logrus.WithFields(logrus.Fields{
				"op":      op,
				"attempt": attempt,
			}).WithError(err).Warn("store operation failed, retrying")
			select {
			case <-time.After(r.delay):
			case <-ctx.Done():
				return common.NewPersistenceError(op, ctx.Err())
			}
		}
	}
	return common.NewPersistenceError(op, err)
}

func (r *Retry) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var out *User
	err := r.do(ctx, "GetUserByEmail", func() (e error) {
		out, e = r.inner.GetUserByEmail(ctx, email)
		return e
	})
	return out, err
}

func (r *Retry) CreateUser(ctx context.Context, user *User) error {
	return r.do(ctx, "CreateUser", func() error { return r.inner.CreateUser(ctx, user) })
}

func (r *Retry) UpdateUser(ctx context.Context, user *User) error {
	return r.do(ctx, "UpdateUser", func() error { return r.inner.UpdateUser(ctx, user) })
}

func (r *Retry) GetConversation(ctx context.Context, conversationID string) (*Conversation, error) {
	var out *Conversation
	err := r.do(ctx, "GetConversation", func() (e error) {
		out, e = r.inner.GetConversation(ctx, conversationID)
		return e
	})
	return out, err
}

func (r *Retry) PutConversation(ctx context.Context, conv *Conversation) error {
	return r.do(ctx, "PutConversation", func() error { return r.inner.PutConversation(ctx, conv) })
}

func (r *Retry) GetGroup(ctx context.Context, groupID string) (*Group, error) {
	var out *Group
	err := r.do(ctx, "GetGroup", func() (e error) {
		out, e = r.inner.GetGroup(ctx, groupID)
		return e
	})
	return out, err
}

func (r *Retry) PutGroup(ctx context.Context, group *Group) error {
	return r.do(ctx, "PutGroup", func() error { return r.inner.PutGroup(ctx, group) })
}

func (r *Retry) DeleteGroup(ctx context.Context, groupID string) error {
	return r.do(ctx, "DeleteGroup", func() error { return r.inner.DeleteGroup(ctx, groupID) })
}

func (r *Retry) ListGroupsFor(ctx context.Context, email string) ([]*Group, error) {
	var out []*Group
	err := r.do(ctx, "ListGroupsFor", func() (e error) {
		out, e = r.inner.ListGroupsFor(ctx, email)
		return e
	})
	return out, err
}

func (r *Retry) GetGroupMessages(ctx context.Context, groupID string) ([]Message, error) {
	var out []Message
	err := r.do(ctx, "GetGroupMessages", func() (e error) {
		out, e = r.inner.GetGroupMessages(ctx, groupID)
		return e
	})
	return out, err
}

func (r *Retry) UpdateGroupMessages(ctx context.Context, groupID string, messages []Message) error {
	return r.do(ctx, "UpdateGroupMessages", func() error {
		return r.inner.UpdateGroupMessages(ctx, groupID, messages)
	})
}

func (r *Retry) DeleteGroupMessages(ctx context.Context, groupID string) error {
	return r.do(ctx, "DeleteGroupMessages", func() error {
		return r.inner.DeleteGroupMessages(ctx, groupID)
	})
}

func (r *Retry) GetFriendLists(ctx context.Context, email string) (*FriendLists, error) {
	var out *FriendLists
	err := r.do(ctx, "GetFriendLists", func() (e error) {
		out, e = r.inner.GetFriendLists(ctx, email)
		return e
	})
	return out, err
}

func (r *Retry) SetFriendLists(ctx context.Context, lists *FriendLists) error {
	return r.do(ctx, "SetFriendLists", func() error { return r.inner.SetFriendLists(ctx, lists) })
}
