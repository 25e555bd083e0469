package group

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gochat/internal/common"
	"gochat/internal/store"
)

const (
	alice = "alice@example.com"
	bob   = "bob@example.com"
	carol = "carol@example.com"
)

func newTestService(t *testing.T) (Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	ctx := context.Background()
	for _, email := range []string{alice, bob, carol} {
		require.NoError(t, mem.CreateUser(ctx, &store.User{Email: email, FullName: email}))
	}
	return NewService(mem, mem, mem), mem
}

func TestCreateGroup(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	grp, err := svc.Create(ctx, alice, "engineering", "daily standup", "", []string{bob, "ghost@example.com", alice})
	require.NoError(t, err)
	require.NotEmpty(t, grp.GroupID)

	// Unknown invitees are skipped, the creator is always the first member
	// and the sole initial admin.
	require.Equal(t, []string{alice, bob}, grp.Members)
	require.Equal(t, []string{alice}, grp.Admins)
	require.Equal(t, alice, grp.CreatorID)
}

func TestCreateGroupRequiresName(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), alice, "", "", "", nil)
	require.ErrorIs(t, err, common.ErrInvalid)
}

func TestGetIsMemberGated(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	grp, err := svc.Create(ctx, alice, "engineering", "", "", []string{bob})
	require.NoError(t, err)

	_, err = svc.Get(ctx, carol, grp.GroupID)
	require.ErrorIs(t, err, common.ErrPermission)

	got, err := svc.Get(ctx, bob, grp.GroupID)
	require.NoError(t, err)
	require.Equal(t, grp.GroupID, got.GroupID)
}

func TestUpdateIsAdminOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	grp, err := svc.Create(ctx, alice, "engineering", "", "", []string{bob})
	require.NoError(t, err)

	_, err = svc.Update(ctx, bob, grp.GroupID, "renamed", "", "")
	require.ErrorIs(t, err, common.ErrPermission)

	updated, err := svc.Update(ctx, alice, grp.GroupID, "renamed", "new desc", "")
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Name)
	require.Equal(t, "new desc", updated.Description)
}

func TestAddMember(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	grp, err := svc.Create(ctx, alice, "engineering", "", "", []string{bob})
	require.NoError(t, err)

	_, err = svc.AddMember(ctx, bob, grp.GroupID, carol)
	require.ErrorIs(t, err, common.ErrPermission)

	_, err = svc.AddMember(ctx, alice, grp.GroupID, "ghost@example.com")
	require.ErrorIs(t, err, common.ErrNotFound)

	updated, err := svc.AddMember(ctx, alice, grp.GroupID, carol)
	require.NoError(t, err)
	require.True(t, updated.HasMember(carol))

	// Adding twice is a no-op, not an error.
	again, err := svc.AddMember(ctx, alice, grp.GroupID, carol)
	require.NoError(t, err)
	require.Len(t, again.Members, 3)
}

func TestRemoveMember(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	grp, err := svc.Create(ctx, alice, "engineering", "", "", []string{bob, carol})
	require.NoError(t, err)
	_, err = svc.AddAdmin(ctx, alice, grp.GroupID, bob)
	require.NoError(t, err)

	// The creator can never be removed, even by another admin.
	_, err = svc.RemoveMember(ctx, bob, grp.GroupID, alice)
	require.ErrorIs(t, err, common.ErrPolicy)

	// Removing a member also strips any admin role they held.
	updated, err := svc.RemoveMember(ctx, alice, grp.GroupID, bob)
	require.NoError(t, err)
	require.False(t, updated.HasMember(bob))
	require.False(t, updated.HasAdmin(bob))

	_, err = svc.RemoveMember(ctx, alice, grp.GroupID, bob)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestAdminRoleManagement(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	grp, err := svc.Create(ctx, alice, "engineering", "", "", []string{bob, carol})
	require.NoError(t, err)
	_, err = svc.AddAdmin(ctx, alice, grp.GroupID, bob)
	require.NoError(t, err)

	// Only the creator manages the admin set; admins themselves cannot.
	_, err = svc.AddAdmin(ctx, bob, grp.GroupID, carol)
	require.ErrorIs(t, err, common.ErrPermission)

	// Admins must already be members.
	_, err = svc.AddAdmin(ctx, alice, grp.GroupID, "ghost@example.com")
	require.ErrorIs(t, err, common.ErrPolicy)

	// The creator keeps the admin role unconditionally.
	_, err = svc.RemoveAdmin(ctx, alice, grp.GroupID, alice)
	require.ErrorIs(t, err, common.ErrPolicy)

	updated, err := svc.RemoveAdmin(ctx, alice, grp.GroupID, bob)
	require.NoError(t, err)
	require.False(t, updated.HasAdmin(bob))
	require.True(t, updated.HasAdmin(alice))
}

func TestDeleteGroup(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	grp, err := svc.Create(ctx, alice, "engineering", "", "", []string{bob})
	require.NoError(t, err)
	require.NoError(t, mem.UpdateGroupMessages(ctx, grp.GroupID, []store.Message{{MessageID: "m1"}}))

	require.ErrorIs(t, svc.Delete(ctx, bob, grp.GroupID), common.ErrPermission)

	require.NoError(t, svc.Delete(ctx, alice, grp.GroupID))
	_, err = mem.GetGroup(ctx, grp.GroupID)
	require.ErrorIs(t, err, common.ErrNotFound)

	msgs, err := mem.GetGroupMessages(ctx, grp.GroupID)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestListFor(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	g1, err := svc.Create(ctx, alice, "one", "", "", []string{bob})
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice, "two", "", "", nil)
	require.NoError(t, err)

	forBob, err := svc.ListFor(ctx, bob)
	require.NoError(t, err)
	require.Len(t, forBob, 1)
	require.Equal(t, g1.GroupID, forBob[0].GroupID)

	forAlice, err := svc.ListFor(ctx, alice)
	require.NoError(t, err)
	require.Len(t, forAlice, 2)
}
