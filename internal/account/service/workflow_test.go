package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/identity"
	"github.com/aussiebroadwan/tenantry/internal/account/service"
	"github.com/aussiebroadwan/tenantry/internal/account/store"
	"github.com/aussiebroadwan/tenantry/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestSignUp(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	res, err := h.wf.SignUp(ctx(), "Owner@Acme.test", "secret1")
	require.NoError(t, err)
	require.Equal(t, domain.RouteDashboard, res.Next)
	require.Equal(t, "owner@acme.test's Company", res.Business.Name)
	require.True(t, res.Classification.IsOwner())
	require.NotEmpty(t, res.Session.Token)
	require.Equal(t, 1, h.memberCount(t, res.Business.ID))

	t.Run("duplicate email", func(t *testing.T) {
		_, err := h.wf.SignUp(ctx(), "owner@acme.test", "another1")
		requireKind(t, domain.KindDuplicateEmail, err)
	})

	t.Run("weak password creates nothing", func(t *testing.T) {
		_, err := h.wf.SignUp(ctx(), "weak@acme.test", "12345")
		requireKind(t, domain.KindValidation, err)
		require.ErrorIs(t, err, domain.ErrWeakPassword)

		users, err := h.raw.Users().ListUsersByEmail(context.Background(), "weak@acme.test")
		require.NoError(t, err)
		require.Empty(t, users)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := h.wf.SignUp(ctx(), "nope", "secret1")
		requireKind(t, domain.KindValidation, err)
	})
}

func TestSignUpLongEmailBusinessName(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	local := strings.Repeat("a", 60)
	email := local + "@" + strings.Repeat("b", 60) + ".test"
	res, err := h.wf.SignUp(ctx(), email, "secret1")
	require.NoError(t, err)
	require.Equal(t, local+"'s Company", res.Business.Name)
}

func TestSignUpPartialFailure(t *testing.T) {
	t.Parallel()
	h := newHarness(t, withStore(func(s store.Store) store.Store {
		return &faultStore{Store: s, membershipErr: errStoreDown}
	}))

	_, err := h.wf.SignUp(ctx(), "owner@acme.test", "secret1")
	requireKind(t, domain.KindPartialFailure, err)

	var pf *domain.PartialFailureError
	require.True(t, errors.As(err, &pf))
	require.Equal(t, "owner_membership", pf.Step)
	require.NotEmpty(t, pf.BusinessID)
	require.NotEmpty(t, pf.UserID)

	// The business row exists without members.
	biz, err := h.raw.Businesses().GetBusinessByID(context.Background(), pf.BusinessID)
	require.NoError(t, err)
	require.Zero(t, h.memberCount(t, biz.ID))

	// The account exists too, so a retry is a duplicate rather than a fresh sign-up.
	_, err = h.wf.SignUp(ctx(), "owner@acme.test", "secret1")
	requireKind(t, domain.KindDuplicateEmail, err)

	time.Sleep(10 * time.Millisecond)
	hk := service.NewHousekeepingService(h.raw, h.invites, h.metrics, slogx.Discard(), 0, time.Millisecond)
	report := hk.RunOnce(ctx())
	require.Equal(t, 1, report.OrphanBusinesses)

	_, err = h.raw.Businesses().GetBusinessByID(context.Background(), pf.BusinessID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSignIn(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.owner(t, "owner@acme.test")

	_, err := h.wf.SignIn(ctx(), "owner@acme.test", "wrong-password")
	requireKind(t, domain.KindInvalidCredentials, err)

	_, err = h.wf.SignIn(ctx(), "nobody@acme.test", "secret1")
	requireKind(t, domain.KindInvalidCredentials, err)

	res, err := h.wf.SignIn(ctx(), "OWNER@acme.test", "secret1")
	require.NoError(t, err)
	require.Equal(t, domain.RouteDashboard, res.Next)
	require.Equal(t, domain.StatusReady, res.Classification.Status)
}

func TestSessionMissingOrInvalid(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	sess, err := h.wf.Session(ctx(), "")
	require.NoError(t, err)
	require.Nil(t, sess)

	sess, err = h.wf.Session(ctx(), "not.a.jwt")
	require.NoError(t, err)
	require.Nil(t, sess)

	cls, err := h.wf.Status(ctx(), nil)
	require.NoError(t, err)
	require.Equal(t, domain.StatusUnauthenticated, cls.Status)
}

func TestOAuthNewAccountNeedsPassword(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	res := h.oauthUser(t, "g-new", "new@acme.test")
	require.False(t, res.Reconciled)
	require.Equal(t, domain.StatusNeedsPassword, res.Classification.Status)
	require.Equal(t, domain.RoutePassword, res.Next)
}

func TestOAuthReconciliation(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	owner, biz := h.owner(t, "ann@acme.test")

	res := h.oauthUser(t, "g-ann", "ann@acme.test")
	require.True(t, res.Reconciled)
	require.Equal(t, owner.UserID, res.Session.Session.UserID)
	require.Equal(t, domain.RouteDashboard, res.Next)
	require.Equal(t, biz.ID, res.Classification.Membership.BusinessID)

	users, err := h.raw.Users().ListUsersByEmail(context.Background(), "ann@acme.test")
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, owner.UserID, users[0].ID)

	sess := h.session(t, res.Session)
	require.True(t, sess.HasMethod(domain.ProviderGoogle))
	require.True(t, sess.HasMethod(domain.ProviderEmail))

	// The linked identity signs straight into the surviving account.
	again := h.oauthUser(t, "g-ann", "ann@acme.test")
	require.False(t, again.Reconciled)
	require.Equal(t, owner.UserID, again.Session.Session.UserID)
}

func TestOAuthRejectsEmailProvider(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, err := h.wf.StartOAuth(ctx(), "email", "")
	requireKind(t, domain.KindValidation, err)

	_, err = h.wf.StartOAuth(ctx(), "myspace", "")
	requireKind(t, domain.KindValidation, err)

	_, err = h.wf.OAuthCallback(ctx(), "google", "unknown-state", "code")
	requireKind(t, domain.KindValidation, err)
}

func TestSetPassword(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	res := h.oauthUser(t, "g-1", "new@acme.test")
	sess := h.session(t, res.Session)

	_, err := h.wf.SetPassword(ctx(), sess, "12345", "12345")
	requireKind(t, domain.KindValidation, err)

	_, err = h.wf.SetPassword(ctx(), sess, "secret1", "secret2")
	require.ErrorIs(t, err, domain.ErrPasswordMismatch)

	_, err = h.wf.SetPassword(ctx(), nil, "secret1", "secret1")
	requireKind(t, domain.KindNotAuthenticated, err)

	require.Zero(t, h.idp.updates)
	user, err := h.raw.Users().GetUserByID(context.Background(), sess.UserID)
	require.NoError(t, err)
	require.Empty(t, user.PasswordHash)
	require.False(t, user.Metadata.PasswordSet)

	cls, err := h.wf.SetPassword(ctx(), sess, "secret1", "secret1")
	require.NoError(t, err)
	require.Equal(t, 1, h.idp.updates)
	require.Equal(t, domain.StatusNeedsOnboarding, cls.Status)

	_, err = h.wf.SignIn(ctx(), "new@acme.test", "secret1")
	require.NoError(t, err)
}

func TestCompleteOnboarding(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	attrs := domain.BusinessAttrs{Name: " <b>Acme</b>  Pty ", Industry: "Retail", Size: "11-50"}

	res := h.oauthUser(t, "g-1", "founder@acme.test")
	sess := h.session(t, res.Session)

	_, err := h.wf.CompleteOnboarding(ctx(), sess, attrs)
	require.ErrorIs(t, err, service.ErrPasswordRequired)

	_, err = h.wf.SetPassword(ctx(), sess, "secret1", "secret1")
	require.NoError(t, err)
	sess = h.session(t, res.Session)

	t.Run("incomplete attributes", func(t *testing.T) {
		_, err := h.wf.CompleteOnboarding(ctx(), sess, domain.BusinessAttrs{Name: "Acme"})
		requireKind(t, domain.KindValidation, err)

		_, err = h.wf.CompleteOnboarding(ctx(), sess, domain.BusinessAttrs{Name: "Acme", Industry: "Retail", Size: "huge"})
		requireKind(t, domain.KindValidation, err)
	})

	out, err := h.wf.CompleteOnboarding(ctx(), sess, attrs)
	require.NoError(t, err)
	require.Equal(t, domain.RouteDashboard, out.Next)
	require.Equal(t, "Acme Pty", out.Business.Name)
	require.Equal(t, "acme-pty", out.Business.Slug)
	require.Equal(t, "Retail", out.Business.Industry)
	require.Equal(t, "11-50", out.Business.Size)

	again, err := h.wf.CompleteOnboarding(ctx(), sess, attrs)
	requireKind(t, domain.KindAlreadyMember, err)
	require.Equal(t, out.Business.ID, again.Business.ID)
	require.Equal(t, 1, h.memberCount(t, out.Business.ID))
}

func TestCompleteOnboardingConcurrent(t *testing.T) {
	t.Parallel()
	h := newHarness(t, withStore(func(s store.Store) store.Store {
		return &slowStore{Store: s, delay: 50 * time.Millisecond}
	}))

	res := h.oauthUser(t, "g-1", "founder@acme.test")
	sess := h.session(t, res.Session)
	_, err := h.wf.SetPassword(ctx(), sess, "secret1", "secret1")
	require.NoError(t, err)
	sess = h.session(t, res.Session)

	attrs := domain.BusinessAttrs{Name: "Acme", Industry: "Retail", Size: "1-10"}

	const n = 4
	var (
		wg   sync.WaitGroup
		outs [n]service.OnboardingResult
		errs [n]error
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outs[i], errs[i] = h.wf.CompleteOnboarding(ctx(), sess, attrs)
		}()
	}
	wg.Wait()

	var created int
	for i := range n {
		if errs[i] == nil {
			created++
			continue
		}
		requireKind(t, domain.KindAlreadyMember, errs[i])
		require.True(t, domain.IsBenign(errs[i]))
		require.Equal(t, domain.RouteDashboard, outs[i].Next)
	}
	require.Equal(t, 1, created)

	for i := 1; i < n; i++ {
		require.Equal(t, outs[0].Business.ID, outs[i].Business.ID)
	}
	require.Equal(t, 1, h.memberCount(t, outs[0].Business.ID))

	orphans, err := h.raw.Businesses().ListOrphanBusinesses(context.Background(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Empty(t, orphans)
}

func TestWorkflowTimeoutBoundsStoreCalls(t *testing.T) {
	t.Parallel()
	var hang atomic.Bool
	h := newHarness(t, withStore(func(s store.Store) store.Store {
		return &hangingStore{Store: s, hang: &hang}
	}))

	owner, _ := h.owner(t, "owner@acme.test")

	wf := *h.wf
	wf.Timeout = 50 * time.Millisecond
	hang.Store(true)

	t.Run("status", func(t *testing.T) {
		start := time.Now()
		_, err := wf.Status(ctx(), owner)
		require.Less(t, time.Since(start), 2*time.Second)
		requireKind(t, domain.KindTransport, err)
	})

	t.Run("send invite", func(t *testing.T) {
		start := time.Now()
		_, err := wf.SendInvite(ctx(), owner, "bob@acme.test", "member")
		require.Less(t, time.Since(start), 2*time.Second)
		requireKind(t, domain.KindTransport, err)
	})
}

func TestAcceptInviteSignedIn(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	owner, biz := h.owner(t, "owner@acme.test")
	inv := h.invite(t, owner, "bob@acme.test", domain.RoleAdmin)

	t.Run("different email", func(t *testing.T) {
		carol := h.session(t, h.oauthUser(t, "g-carol", "carol@acme.test").Session)
		_, err := h.wf.AcceptInvite(ctx(), carol, inv.Token)
		requireKind(t, domain.KindNotAuthorized, err)
		require.Equal(t, 1, h.memberCount(t, biz.ID))
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := h.wf.AcceptInvite(ctx(), nil, inv.Token)
		requireKind(t, domain.KindNotAuthenticated, err)
	})

	signIn := h.oauthUser(t, "g-bob", "bob@acme.test")
	require.Equal(t, domain.RoutePassword, signIn.Next)
	bob := h.session(t, signIn.Session)

	res, err := h.wf.AcceptInvite(ctx(), bob, inv.Token)
	require.NoError(t, err)
	require.Equal(t, biz.ID, res.BusinessID)
	require.Equal(t, domain.RoleAdmin, res.Role)
	require.Equal(t, domain.RouteDashboard, res.Next)
	require.Equal(t, 2, h.memberCount(t, biz.ID))

	// The invited flag now skips the password step.
	bob = h.session(t, signIn.Session)
	require.Equal(t, inv.Invite.ID, bob.Metadata.Invited)
	cls, err := h.wf.Status(ctx(), bob)
	require.NoError(t, err)
	require.Equal(t, domain.StatusReady, cls.Status)

	_, err = h.wf.AcceptInvite(ctx(), bob, inv.Token)
	requireKind(t, domain.KindAlreadyAccepted, err)
}

func TestClaimInvite(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	owner, biz := h.owner(t, "owner@acme.test")
	inv := h.invite(t, owner, "bob@acme.test", domain.RoleMember)

	_, err := h.wf.ClaimInvite(ctx(), inv.Token, "12345", "12345")
	requireKind(t, domain.KindValidation, err)

	_, err = h.wf.ClaimInvite(ctx(), inv.Token, "secret1", "secret2")
	require.ErrorIs(t, err, domain.ErrPasswordMismatch)

	_, err = h.wf.ClaimInvite(ctx(), "bogus", "secret1", "secret1")
	requireKind(t, domain.KindNotFound, err)

	users, err := h.raw.Users().ListUsersByEmail(context.Background(), "bob@acme.test")
	require.NoError(t, err)
	require.Empty(t, users)

	res, err := h.wf.ClaimInvite(ctx(), inv.Token, "secret1", "secret1")
	require.NoError(t, err)
	require.Equal(t, domain.RouteDashboard, res.Next)
	require.True(t, res.Classification.Invited)
	require.Equal(t, biz.ID, res.Classification.Membership.BusinessID)
	require.Equal(t, domain.RoleMember, res.Classification.Membership.Role)

	_, err = h.wf.ClaimInvite(ctx(), inv.Token, "secret1", "secret1")
	requireKind(t, domain.KindAlreadyAccepted, err)
}

// signUpHook runs after each successful sign-up.
type signUpHook struct {
	identity.Provider
	after func(domain.User)
}

func (p signUpHook) SignUp(ctx context.Context, email, password string, md domain.Metadata) (domain.User, error) {
	u, err := p.Provider.SignUp(ctx, email, password, md)
	if err == nil {
		p.after(u)
	}
	return u, err
}

func TestClaimInviteAcceptFailureReportsCause(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	owner, biz := h.owner(t, "owner@acme.test")
	inv := h.invite(t, owner, "bob@acme.test", domain.RoleMember)
	rival := h.oauthUser(t, "g-rival", "rival@acme.test")

	// Another redemption lands between account creation and accept.
	wf := *h.wf
	wf.Identity = signUpHook{Provider: h.wf.Identity, after: func(domain.User) {
		_, err := h.invites.Accept(ctx(), inv.Token, rival.Session.Session.UserID)
		require.NoError(t, err)
	}}

	_, err := wf.ClaimInvite(ctx(), inv.Token, "secret1", "secret1")
	requireKind(t, domain.KindPartialFailure, err)

	var pf *domain.PartialFailureError
	require.ErrorAs(t, err, &pf)
	require.Equal(t, "accept_invite", pf.Step)
	require.Equal(t, biz.ID, pf.BusinessID)
	require.Equal(t, inv.Invite.ID, pf.InviteID)
	require.NotEmpty(t, pf.UserID)
	require.Equal(t, domain.KindAlreadyAccepted, domain.KindOf(pf.Err))
	require.Contains(t, err.Error(), "already accepted")
}

func TestClaimInviteExistingAccount(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	owner, _ := h.owner(t, "owner@acme.test")
	inv := h.invite(t, owner, "bob@acme.test", domain.RoleMember)
	h.oauthUser(t, "g-bob", "bob@acme.test")

	_, err := h.wf.ClaimInvite(ctx(), inv.Token, "secret1", "secret1")
	requireKind(t, domain.KindDuplicateEmail, err)

	_, err = h.wf.FetchInvite(ctx(), inv.Token)
	require.NoError(t, err)
}

func TestBusinessReadAndUpdate(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	owner, biz := h.owner(t, "owner@acme.test")

	got, m, err := h.wf.Business(ctx(), owner)
	require.NoError(t, err)
	require.Equal(t, biz.ID, got.ID)
	require.Equal(t, domain.RoleOwner, m.Role)

	name, size := "<script>x</script>Acme &amp; Co", "201+"
	updated, err := h.wf.UpdateBusiness(ctx(), owner, service.BusinessPatch{Name: &name, Size: &size})
	require.NoError(t, err)
	require.Equal(t, "Acme & Co", updated.Name)
	require.Equal(t, "201+", updated.Size)
	require.Equal(t, "acme-and-co", updated.Slug)

	bad := "enormous"
	_, err = h.wf.UpdateBusiness(ctx(), owner, service.BusinessPatch{Size: &bad})
	requireKind(t, domain.KindValidation, err)

	inv := h.invite(t, owner, "bob@acme.test", domain.RoleMember)
	claimed, err := h.wf.ClaimInvite(ctx(), inv.Token, "secret1", "secret1")
	require.NoError(t, err)
	member := h.session(t, claimed.Session)

	_, err = h.wf.UpdateBusiness(ctx(), member, service.BusinessPatch{Name: &name})
	requireKind(t, domain.KindNotAuthorized, err)

	_, _, err = h.wf.Business(ctx(), member)
	require.NoError(t, err)

	loner := h.session(t, h.oauthUser(t, "g-loner", "loner@acme.test").Session)
	_, _, err = h.wf.Business(ctx(), loner)
	requireKind(t, domain.KindNotFound, err)
}
