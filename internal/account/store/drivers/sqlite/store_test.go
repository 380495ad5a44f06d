package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/store"
	"github.com/aussiebroadwan/tenantry/internal/account/store/drivers/sqlite"
	"github.com/aussiebroadwan/tenantry/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedBusiness(t *testing.T, st store.Store, ownerEmail string) (domain.User, domain.Business) {
	t.Helper()
	ctx := context.Background()

	owner := domain.User{ID: idx.New().String(), Email: ownerEmail}
	require.NoError(t, st.Users().CreateUser(ctx, owner))

	biz := domain.Business{ID: idx.New().String(), Name: "Acme", Slug: "acme"}
	require.NoError(t, st.Businesses().CreateBusiness(ctx, biz))
	require.NoError(t, st.Members().CreateMembership(ctx, domain.Membership{
		UserID: owner.ID, BusinessID: biz.ID, Role: domain.RoleOwner,
	}))
	return owner, biz
}

func newInvite(owner domain.User, biz domain.Business, email string) domain.Invite {
	now := time.Now().UTC()
	return domain.Invite{
		ID:           idx.New().String(),
		TokenHash:    idx.New().String(),
		InviterID:    owner.ID,
		InviterEmail: owner.Email,
		BusinessID:   biz.ID,
		BusinessName: biz.Name,
		Email:        email,
		Role:         domain.RoleMember,
		SentAt:       now,
		ExpiresAt:    now.Add(time.Hour),
	}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	u := domain.User{ID: idx.New().String(), Email: "alice@x.com", Metadata: domain.Metadata{Invited: "inv"}}
	require.NoError(t, st.Users().CreateUser(ctx, u))

	t.Run("duplicate email is allowed until reconciled", func(t *testing.T) {
		dup := domain.User{ID: idx.New().String(), Email: "alice@x.com"}
		require.NoError(t, st.Users().CreateUser(ctx, dup))

		all, err := st.Users().ListUsersByEmail(ctx, "alice@x.com")
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, u.ID, all[0].ID, "oldest first")
		require.Equal(t, dup.ID, all[1].ID)

		require.NoError(t, st.Users().DeleteUser(ctx, dup.ID))
	})

	t.Run("lookup by email", func(t *testing.T) {
		got, err := st.Users().GetUserByEmail(ctx, "alice@x.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, "inv", got.Metadata.Invited)
	})

	t.Run("password identity is unique per email", func(t *testing.T) {
		id := domain.Identity{UserID: u.ID, Provider: domain.ProviderEmail, Subject: "alice@x.com", Email: "alice@x.com"}
		require.NoError(t, st.Identities().CreateIdentity(ctx, id))

		other := domain.User{ID: idx.New().String(), Email: "alice@x.com"}
		require.NoError(t, st.Users().CreateUser(ctx, other))
		id.UserID = other.ID
		require.ErrorIs(t, st.Identities().CreateIdentity(ctx, id), store.ErrAlreadyExists)
		require.NoError(t, st.Users().DeleteUser(ctx, other.ID))
	})

	t.Run("update credentials", func(t *testing.T) {
		md := domain.Metadata{PasswordSet: true, Invited: "inv"}
		require.NoError(t, st.Users().UpdateCredentials(ctx, u.ID, "hash", md))

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "hash", got.PasswordHash)
		require.True(t, got.Metadata.PasswordSet)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := st.Users().GetUserByID(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestIdentitiesMoveAndCascade(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	a := domain.User{ID: idx.New().String(), Email: "a@x.com"}
	b := domain.User{ID: idx.New().String(), Email: "b@x.com"}
	require.NoError(t, st.Users().CreateUser(ctx, a))
	require.NoError(t, st.Users().CreateUser(ctx, b))

	require.NoError(t, st.Identities().CreateIdentity(ctx, domain.Identity{
		UserID: b.ID, Provider: domain.ProviderGoogle, Subject: "g-1", Email: "a@x.com",
	}))
	err := st.Identities().CreateIdentity(ctx, domain.Identity{
		UserID: a.ID, Provider: domain.ProviderGoogle, Subject: "g-1", Email: "a@x.com",
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	require.NoError(t, st.Identities().MoveIdentities(ctx, b.ID, a.ID))
	require.NoError(t, st.Users().DeleteUser(ctx, b.ID))

	ids, err := st.Identities().ListIdentitiesByUser(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	require.Equal(t, domain.ProviderGoogle, ids[0].Provider)

	// Deleting the owner cascades its identities.
	require.NoError(t, st.Users().DeleteUser(ctx, a.ID))
	_, err = st.Identities().GetIdentity(ctx, domain.ProviderGoogle, "g-1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMembershipIsSingular(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	owner, biz := seedBusiness(t, st, "owner@x.com")
	other := domain.Business{ID: idx.New().String(), Name: "Other", Slug: "other"}
	require.NoError(t, st.Businesses().CreateBusiness(ctx, other))

	err := st.Members().CreateMembership(ctx, domain.Membership{
		UserID: owner.ID, BusinessID: other.ID, Role: domain.RoleMember,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	m, err := st.Members().GetMembershipByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, biz.ID, m.BusinessID)
	require.Equal(t, domain.RoleOwner, m.Role)
}

func TestOrphanBusinesses(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	_, biz := seedBusiness(t, st, "owner@x.com")
	orphan := domain.Business{ID: idx.New().String(), Name: "Orphan", Slug: "orphan"}
	require.NoError(t, st.Businesses().CreateBusiness(ctx, orphan))

	got, err := st.Businesses().ListOrphanBusinesses(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, orphan.ID, got[0].ID)
	require.NotEqual(t, biz.ID, got[0].ID)

	got, err = st.Businesses().ListOrphanBusinesses(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestInvites(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	owner, biz := seedBusiness(t, st, "owner@x.com")

	inv := newInvite(owner, biz, "bob@x.com")
	require.NoError(t, st.Invites().CreateInvite(ctx, inv))

	t.Run("one outstanding invite per business and email", func(t *testing.T) {
		err := st.Invites().CreateInvite(ctx, newInvite(owner, biz, "bob@x.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		got, err := st.Invites().GetOutstandingInvite(ctx, biz.ID, "bob@x.com")
		require.NoError(t, err)
		require.Equal(t, inv.ID, got.ID)
		require.Equal(t, "Acme", got.BusinessName)
	})

	t.Run("accept is compare-and-set", func(t *testing.T) {
		bob := domain.User{ID: idx.New().String(), Email: "bob@x.com"}
		require.NoError(t, st.Users().CreateUser(ctx, bob))

		require.NoError(t, st.Invites().MarkInviteAccepted(ctx, inv.ID, bob.ID, time.Now()))
		err := st.Invites().MarkInviteAccepted(ctx, inv.ID, bob.ID, time.Now())
		require.ErrorIs(t, err, store.ErrConflict)

		got, err := st.Invites().GetInviteByTokenHash(ctx, inv.TokenHash)
		require.NoError(t, err)
		require.Equal(t, domain.InviteAccepted, got.State(time.Now()))
		require.Equal(t, bob.ID, got.AcceptedBy)
	})

	t.Run("accepted invites free the outstanding slot", func(t *testing.T) {
		require.NoError(t, st.Invites().CreateInvite(ctx, newInvite(owner, biz, "bob@x.com")))
	})

	t.Run("rotate keeps the row", func(t *testing.T) {
		carol := newInvite(owner, biz, "carol@x.com")
		require.NoError(t, st.Invites().CreateInvite(ctx, carol))
		require.NoError(t, st.Invites().MarkInviteDelivered(ctx, carol.ID, time.Now()))

		now := time.Now().UTC()
		require.NoError(t, st.Invites().RotateInviteToken(ctx, carol.ID, "new-hash", now, now.Add(time.Hour)))

		got, err := st.Invites().GetInviteByTokenHash(ctx, "new-hash")
		require.NoError(t, err)
		require.Equal(t, carol.ID, got.ID)
		require.Nil(t, got.DeliveredAt)
	})

	t.Run("delete expired", func(t *testing.T) {
		old := newInvite(owner, biz, "old@x.com")
		old.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(t, st.Invites().CreateInvite(ctx, old))

		n, err := st.Invites().DeleteExpiredInvites(ctx, time.Now())
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		_, err = st.Invites().GetInviteByID(ctx, old.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	u := domain.User{ID: idx.New().String(), Email: "tx@x.com"}
	err := st.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Users().CreateUser(ctx, u))
		return store.ErrConflict
	})
	require.ErrorIs(t, err, store.ErrConflict)

	_, err = st.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
