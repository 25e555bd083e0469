// Package friend keeps the symmetric friend graph consistent. Every edge is
// materialized twice (once per identity) over a store with no multi-key
// transactions, so mutations follow an apply-then-verify order and reads run
// a compensating repair pass for half-written edges.
package friend

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"gochat/internal/common"
	"gochat/internal/store"
)

type Service interface {
	SendRequest(ctx context.Context, from, to string) error
	Respond(ctx context.Context, to, from string, accept bool) error
	Withdraw(ctx context.Context, from, to string) error
	Friends(ctx context.Context, identity string) ([]store.FriendEntry, error)
	Lists(ctx context.Context, identity string) (*store.FriendLists, error)
}

type service struct {
	users   store.UserStore
	friends store.FriendStore
}

func NewService(users store.UserStore, friends store.FriendStore) Service {
	return &service{users: users, friends: friends}
}

func (s *service) SendRequest(ctx context.Context, from, to string) error {
	if from == to {
		return fmt.Errorf("cannot send a friend request to yourself: %w", common.ErrInvalid)
	}
	if _, err := s.users.GetUserByEmail(ctx, to); err != nil {
		return err
	}

	fromLists, err := s.friends.GetFriendLists(ctx, from)
	if err != nil {
		return err
	}
	if hasFriend(fromLists.Friends, to) {
		return fmt.Errorf("already friends with %s: %w", to, common.ErrPolicy)
	}
	if hasRequest(fromLists.Sent, to) {
		return fmt.Errorf("request to %s is already pending: %w", to, common.ErrPolicy)
	}

	toLists, err := s.friends.GetFriendLists(ctx, to)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	fromLists.Sent = append(fromLists.Sent, store.FriendRequest{Email: to, SentAt: now})
	toLists.Received = append(toLists.Received, store.FriendRequest{Email: from, SentAt: now})

	// Apply-then-verify: write the sender side first; if the receiver side
	// fails, compensate the first write so the edge is considered not sent.
	if err := s.friends.SetFriendLists(ctx, fromLists); err != nil {
		return err
	}
	if err := s.friends.SetFriendLists(ctx, toLists); err != nil {
		fromLists.Sent = removeRequest(fromLists.Sent, to)
		if cerr := s.friends.SetFriendLists(ctx, fromLists); cerr != nil {
			logrus.WithFields(logrus.Fields{"from": from, "to": to}).
				WithError(cerr).Error("failed to compensate half-written friend request")
			return &common.PartialConsistencyError{Applied: from, Failed: to, Err: err}
		}
		return err
	}
	return nil
}

func (s *service) Respond(ctx context.Context, to, from string, accept bool) error {
	toLists, err := s.friends.GetFriendLists(ctx, to)
	if err != nil {
		return err
	}
	if !hasRequest(toLists.Received, from) {
		return fmt.Errorf("no pending request from %s: %w", from, common.ErrNotFound)
	}
	fromLists, err := s.friends.GetFriendLists(ctx, from)
	if err != nil {
		return err
	}

	toLists.Received = removeRequest(toLists.Received, from)
	fromLists.Sent = removeRequest(fromLists.Sent, to)

	if accept {
		now := time.Now().UTC()
		toUser, _ := s.users.GetUserByEmail(ctx, to)
		fromUser, _ := s.users.GetUserByEmail(ctx, from)
		if !hasFriend(toLists.Friends, from) {
			entry := store.FriendEntry{Email: from, Since: now}
			if fromUser != nil {
				entry.FullName = fromUser.FullName
				entry.Avatar = fromUser.Avatar
			}
			toLists.Friends = append(toLists.Friends, entry)
		}
		if !hasFriend(fromLists.Friends, to) {
			entry := store.FriendEntry{Email: to, Since: now}
			if toUser != nil {
				entry.FullName = toUser.FullName
				entry.Avatar = toUser.Avatar
			}
			fromLists.Friends = append(fromLists.Friends, entry)
		}
	}

	if err := s.friends.SetFriendLists(ctx, toLists); err != nil {
		return err
	}
	if err := s.friends.SetFriendLists(ctx, fromLists); err != nil {
		// The responder's side is committed but the requester's is not; the
		// read-repair pass resolves the dangling half on next access.
		logrus.WithFields(logrus.Fields{"to": to, "from": from, "accept": accept}).
			WithError(err).Error("friend response half-applied")
		return &common.PartialConsistencyError{Applied: to, Failed: from, Err: err}
	}
	return nil
}

func (s *service) Withdraw(ctx context.Context, from, to string) error {
	fromLists, err := s.friends.GetFriendLists(ctx, from)
	if err != nil {
		return err
	}
	if !hasRequest(fromLists.Sent, to) {
		return fmt.Errorf("no pending request to %s: %w", to, common.ErrNotFound)
	}
	toLists, err := s.friends.GetFriendLists(ctx, to)
	if err != nil {
		return err
	}

	fromLists.Sent = removeRequest(fromLists.Sent, to)
	toLists.Received = removeRequest(toLists.Received, from)

	if err := s.friends.SetFriendLists(ctx, fromLists); err != nil {
		return err
	}
	if err := s.friends.SetFriendLists(ctx, toLists); err != nil {
		logrus.WithFields(logrus.Fields{"from": from, "to": to}).
			WithError(err).Error("friend withdrawal half-applied")
		return &common.PartialConsistencyError{Applied: from, Failed: to, Err: err}
	}
	return nil
}

func (s *service) Friends(ctx context.Context, identity string) ([]store.FriendEntry, error) {
	lists, err := s.Lists(ctx, identity)
	if err != nil {
		return nil, err
	}
	return lists.Friends, nil
}

// Lists returns the identity's friend document after a read-repair pass:
// any friend or pending entry whose mirror is missing on the counterpart
// side is dropped and the cleaned document written back.
func (s *service) Lists(ctx context.Context, identity string) (*store.FriendLists, error) {
	lists, err := s.friends.GetFriendLists(ctx, identity)
	if err != nil {
		return nil, err
	}

	repaired := false

	keptFriends := lists.Friends[:0]
	for _, f := range lists.Friends {
		other, err := s.friends.GetFriendLists(ctx, f.Email)
		if err != nil || hasFriend(other.Friends, identity) {
			keptFriends = append(keptFriends, f)
			continue
		}
		repaired = true
		logrus.WithFields(logrus.Fields{"identity": identity, "peer": f.Email}).
			Warn("read-repair: dropping one-sided friend entry")
	}
	lists.Friends = keptFriends

	keptSent := lists.Sent[:0]
	for _, r := range lists.Sent {
		other, err := s.friends.GetFriendLists(ctx, r.Email)
		if err != nil || hasRequest(other.Received, identity) {
			keptSent = append(keptSent, r)
			continue
		}
		repaired = true
		logrus.WithFields(logrus.Fields{"identity": identity, "peer": r.Email}).
			Warn("read-repair: dropping one-sided sent request")
	}
	lists.Sent = keptSent

	keptReceived := lists.Received[:0]
	for _, r := range lists.Received {
		other, err := s.friends.GetFriendLists(ctx, r.Email)
		if err != nil || hasRequest(other.Sent, identity) {
			keptReceived = append(keptReceived, r)
			continue
		}
		repaired = true
		logrus.WithFields(logrus.Fields{"identity": identity, "peer": r.Email}).
			Warn("read-repair: dropping one-sided received request")
	}
	lists.Received = keptReceived

	if repaired {
		if err := s.friends.SetFriendLists(ctx, lists); err != nil {
			logrus.WithField("identity", identity).WithError(err).Warn("read-repair write failed")
		}
	}
	return lists, nil
}

func hasFriend(friends []store.FriendEntry, email string) bool {
	for _, f := range friends {
		if f.Email == email {
			return true
		}
	}
	return false
}

func hasRequest(reqs []store.FriendRequest, email string) bool {
	for _, r := range reqs {
		if r.Email == email {
			return true
		}
	}
	return false
}

func removeRequest(reqs []store.FriendRequest, email string) []store.FriendRequest {
	out := reqs[:0]
	for _, r := range reqs {
		if r.Email != email {
			out = append(out, r)
		}
	}
	return out
}
