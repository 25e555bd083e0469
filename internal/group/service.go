// Package group implements group lifecycle: creation, membership, admin
// management and deletion, holding the invariant creatorId ∈ admins ⊆ members
// at every step.
package group

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gochat/internal/common"
	"gochat/internal/store"
)

type Service interface {
	Create(ctx context.Context, creator, name, description, avatar string, members []string) (*store.Group, error)
	Get(ctx context.Context, actor, groupID string) (*store.Group, error)
	ListFor(ctx context.Context, actor string) ([]*store.Group, error)
	Update(ctx context.Context, actor, groupID, name, description, avatar string) (*store.Group, error)
	AddMember(ctx context.Context, actor, groupID, memberEmail string) (*store.Group, error)
	RemoveMember(ctx context.Context, actor, groupID, memberEmail string) (*store.Group, error)
	AddAdmin(ctx context.Context, actor, groupID, adminEmail string) (*store.Group, error)
	RemoveAdmin(ctx context.Context, actor, groupID, adminEmail string) (*store.Group, error)
	Delete(ctx context.Context, actor, groupID string) error
}

type service struct {
	users     store.UserStore
	groups    store.GroupStore
	groupMsgs store.GroupMessageStore
}

func NewService(users store.UserStore, groups store.GroupStore, groupMsgs store.GroupMessageStore) Service {
	return &service{users: users, groups: groups, groupMsgs: groupMsgs}
}

func (s *service) Create(ctx context.Context, creator, name, description, avatar string, members []string) (*store.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("group name is required: %w", common.ErrInvalid)
	}

	// Only known identities become members; unknown emails are skipped the
	// way the invite flow skips unregistered addresses.
	memberSet := map[string]struct{}{creator: {}}
	for _, email := range members {
		email = common.NormalizeEmail(email)
		if email == creator {
			continue
		}
		if _, err := s.users.GetUserByEmail(ctx, email); err != nil {
			if common.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		memberSet[email] = struct{}{}
	}

	now := time.Now().UTC()
	group := &store.Group{
		GroupID:     uuid.NewString(),
		Name:        name,
		Description: description,
		Avatar:      avatar,
		CreatorID:   creator,
		Members:     setToList(memberSet, creator),
		Admins:      []string{creator},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.groups.PutGroup(ctx, group); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"groupId": group.GroupID,
		"creator": creator,
		"members": len(group.Members),
	}).Info("group created")
	return group, nil
}

func (s *service) Get(ctx context.Context, actor, groupID string) (*store.Group, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actor) {
		return nil, fmt.Errorf("not a member of group %s: %w", groupID, common.ErrPermission)
	}
	return group, nil
}

func (s *service) ListFor(ctx context.Context, actor string) ([]*store.Group, error) {
	return s.groups.ListGroupsFor(ctx, actor)
}

func (s *service) Update(ctx context.Context, actor, groupID, name, description, avatar string) (*store.Group, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasAdmin(actor) {
		return nil, fmt.Errorf("only admins can update group details: %w", common.ErrPermission)
	}

	if name != "" {
		group.Name = name
	}
	if description != "" {
		group.Description = description
	}
	if avatar != "" {
		group.Avatar = avatar
	}
	group.UpdatedAt = time.Now().UTC()

	if err := s.groups.PutGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *service) AddMember(ctx context.Context, actor, groupID, memberEmail string) (*store.Group, error) {
	memberEmail = common.NormalizeEmail(memberEmail)
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasAdmin(actor) {
		return nil, fmt.Errorf("only admins can add members: %w", common.ErrPermission)
	}
	if _, err := s.users.GetUserByEmail(ctx, memberEmail); err != nil {
		return nil, err
	}
	if group.HasMember(memberEmail) {
		return group, nil
	}

	group.Members = append(group.Members, memberEmail)
	group.UpdatedAt = time.Now().UTC()
	if err := s.groups.PutGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *service) RemoveMember(ctx context.Context, actor, groupID, memberEmail string) (*store.Group, error) {
	memberEmail = common.NormalizeEmail(memberEmail)
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasAdmin(actor) {
		return nil, fmt.Errorf("only admins can remove members: %w", common.ErrPermission)
	}
	if memberEmail == group.CreatorID {
		return nil, fmt.Errorf("the creator cannot be removed from the group: %w", common.ErrPolicy)
	}
	if !group.HasMember(memberEmail) {
		return nil, fmt.Errorf("member %s: %w", memberEmail, common.ErrNotFound)
	}

	group.Members = removeFrom(group.Members, memberEmail)
	// A removed member loses any admin role with the membership.
	group.Admins = removeFrom(group.Admins, memberEmail)
	group.UpdatedAt = time.Now().UTC()
	if err := s.groups.PutGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *service) AddAdmin(ctx context.Context, actor, groupID, adminEmail string) (*store.Group, error) {
	adminEmail = common.NormalizeEmail(adminEmail)
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if actor != group.CreatorID {
		return nil, fmt.Errorf("only the group creator can add admins: %w", common.ErrPermission)
	}
	if !group.HasMember(adminEmail) {
		return nil, fmt.Errorf("admins must already be members: %w", common.ErrPolicy)
	}
	if group.HasAdmin(adminEmail) {
		return group, nil
	}

	group.Admins = append(group.Admins, adminEmail)
	group.UpdatedAt = time.Now().UTC()
	if err := s.groups.PutGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *service) RemoveAdmin(ctx context.Context, actor, groupID, adminEmail string) (*store.Group, error) {
	adminEmail = common.NormalizeEmail(adminEmail)
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if actor != group.CreatorID {
		return nil, fmt.Errorf("only the group creator can remove admins: %w", common.ErrPermission)
	}
	if adminEmail == group.CreatorID {
		return nil, fmt.Errorf("the creator cannot lose the admin role: %w", common.ErrPolicy)
	}
	if !group.HasAdmin(adminEmail) {
		return nil, fmt.Errorf("admin %s: %w", adminEmail, common.ErrNotFound)
	}

	group.Admins = removeFrom(group.Admins, adminEmail)
	group.UpdatedAt = time.Now().UTC()
	if err := s.groups.PutGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *service) Delete(ctx context.Context, actor, groupID string) error {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if actor != group.CreatorID {
		return fmt.Errorf("only the group creator can delete the group: %w", common.ErrPermission)
	}

	if err := s.groups.DeleteGroup(ctx, groupID); err != nil {
		return err
	}
	// Message cleanup is best effort; a failure leaves an orphaned document
	// that no reader can reach once the group is gone.
	if err := s.groupMsgs.DeleteGroupMessages(ctx, groupID); err != nil {
		logrus.WithField("groupId", groupID).WithError(err).Warn("failed to delete group messages")
	}

	logrus.WithFields(logrus.Fields{"groupId": groupID, "actor": actor}).Info("group deleted")
	return nil
}

func setToList(set map[string]struct{}, first string) []string {
	out := []string{first}
	for email := range set {
		if email != first {
			out = append(out, email)
		}
	}
	return out
}

func removeFrom(list []string, email string) []string {
	out := list[:0]
	for _, e := range list {
		if e != email {
			out = append(out, e)
		}
	}
	return out
}
