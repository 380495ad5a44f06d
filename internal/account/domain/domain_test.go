package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	got, err := domain.NormalizeEmail("  Bob@X.com ")
	require.NoError(t, err)
	require.Equal(t, "bob@x.com", got)

	for _, bad := range []string{"", "bob", "Bob <bob@x.com>", "bob@x.com, eve@x.com"} {
		_, err := domain.NormalizeEmail(bad)
		require.ErrorIs(t, err, domain.ErrValidation, bad)
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	r, err := domain.ParseRole("")
	require.NoError(t, err)
	require.Equal(t, domain.RoleMember, r)

	r, err = domain.ParseRole("Admin")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, r)

	_, err = domain.ParseRole("superuser")
	require.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestInviteState(t *testing.T) {
	t.Parallel()

	now := time.Now()
	inv := domain.Invite{ExpiresAt: now.Add(time.Hour)}
	require.Equal(t, domain.InviteOutstanding, inv.State(now))
	require.Equal(t, domain.InviteExpired, inv.State(now.Add(time.Hour)))

	inv.AcceptedAt = &now
	require.Equal(t, domain.InviteAccepted, inv.State(now.Add(2*time.Hour)))
}

func TestMetadataMerge(t *testing.T) {
	t.Parallel()

	set := true
	invited := "inv-1"
	m := domain.Metadata{}.Merge(domain.MetadataPatch{PasswordSet: &set})
	require.True(t, m.PasswordSet)
	require.Empty(t, m.Invited)

	m = m.Merge(domain.MetadataPatch{Invited: &invited})
	require.True(t, m.PasswordSet)
	require.Equal(t, "inv-1", m.Invited)
}
