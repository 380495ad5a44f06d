package account_test

import (
	"net/http"
	"sync"
	"testing"

	"github.com/aussiebroadwan/tenantry/pkg/accountsdk"
	"github.com/stretchr/testify/require"
)

// TestInviteClaimFlow walks an owner inviting a teammate who claims the
// invite with a new password.
func TestInviteClaimFlow(t *testing.T) {
	client := setupStack(t, stackOptions{})
	ctx := t.Context()

	owner, signedUp := signUpOwner(t, client)

	sent, err := owner.SendInvite(ctx, accountsdk.SendInviteRequest{Email: "bob@acme.test", Role: "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, sent.Token)
	require.True(t, sent.Delivered)

	dup, err := owner.SendInvite(ctx, accountsdk.SendInviteRequest{Email: "BOB@acme.test", Role: "admin"})
	require.NoError(t, err)
	require.True(t, dup.Deduplicated)
	require.Equal(t, sent.ID, dup.ID)

	view, err := client.FetchInvite(ctx, sent.Token)
	require.NoError(t, err)
	require.Equal(t, ownerEmail, view.InviterEmail)
	require.Equal(t, "admin", view.Role)

	claimed, err := client.ClaimInvite(ctx, sent.Token, accountsdk.ClaimInviteRequest{Password: "bobpass", Confirm: "bobpass"})
	require.NoError(t, err)
	require.Equal(t, "dashboard", claimed.Next)
	require.Equal(t, signedUp.BusinessID, claimed.BusinessID)

	bob := client.WithToken(claimed.AccessToken)
	status, err := bob.Session(ctx)
	require.NoError(t, err)
	require.Equal(t, "admin", status.Role)
	require.True(t, status.Invited)

	_, err = bob.AcceptInvite(ctx, sent.Token)
	requireKind(t, err, accountsdk.KindAlreadyAccepted)
	require.True(t, accountsdk.IsBenign(err))

	// Admins cannot invite unless the deployment allows it.
	_, err = bob.SendInvite(ctx, accountsdk.SendInviteRequest{Email: "carol@acme.test"})
	requireKind(t, err, accountsdk.KindNotAuthorized)
}

// TestConcurrentClaimsAcceptOnce races several claims of one invite; exactly
// one creates a membership.
func TestConcurrentClaimsAcceptOnce(t *testing.T) {
	client := setupStack(t, stackOptions{})
	ctx := t.Context()

	owner, _ := signUpOwner(t, client)
	sent, err := owner.SendInvite(ctx, accountsdk.SendInviteRequest{Email: "race@acme.test"})
	require.NoError(t, err)

	const n = 5
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.ClaimInvite(ctx, sent.Token, accountsdk.ClaimInviteRequest{Password: "racepass", Confirm: "racepass"})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, wins)

	listed, err := owner.ListInvites(ctx)
	require.NoError(t, err)
	require.Empty(t, listed.Invites)
}

func TestOnboardingIsIdempotent(t *testing.T) {
	client := setupStack(t, stackOptions{})
	ctx := t.Context()

	owner, signedUp := signUpOwner(t, client)

	_, err := owner.CompleteOnboarding(ctx, accountsdk.OnboardingRequest{Name: "Acme", Industry: "Retail", Size: "1-10"})
	requireKind(t, err, accountsdk.KindAlreadyMember)

	var apiErr *accountsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusOK, apiErr.StatusCode)
	require.Equal(t, signedUp.BusinessID, apiErr.BusinessID)

	name := "Acme & Sons"
	biz, err := owner.UpdateBusiness(ctx, accountsdk.UpdateBusinessRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "acme-and-sons", biz.Slug)
}

// TestSQLiteStack runs the default single-container deployment.
func TestSQLiteStack(t *testing.T) {
	client := setupStack(t, stackOptions{sqlite: true})
	ctx := t.Context()

	owner, _ := signUpOwner(t, client)

	_, err := client.SignUp(ctx, accountsdk.SignUpRequest{Email: ownerEmail, Password: ownerPassword})
	requireKind(t, err, accountsdk.KindDuplicateEmail)

	_, err = client.SignUp(ctx, accountsdk.SignUpRequest{Email: "weak@acme.test", Password: "12345"})
	requireKind(t, err, accountsdk.KindValidation)

	_, err = client.Login(ctx, accountsdk.LoginRequest{Email: "weak@acme.test", Password: "12345"})
	requireKind(t, err, accountsdk.KindInvalidCredentials)

	require.NoError(t, owner.Logout(ctx))
}

// TestCredentialRateLimit uses the production limits.
func TestCredentialRateLimit(t *testing.T) {
	client := setupStack(t, stackOptions{sqlite: true, defaultLimits: true})
	ctx := t.Context()

	var limited bool
	for range 10 {
		_, err := client.Login(ctx, accountsdk.LoginRequest{Email: ownerEmail, Password: "wrong-pass"})
		if accountsdk.IsKind(err, accountsdk.KindRateLimited) {
			limited = true
			break
		}
		requireKind(t, err, accountsdk.KindInvalidCredentials)
	}
	require.True(t, limited, "expected login attempts to be rate limited")
}
