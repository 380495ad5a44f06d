package service

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/identity"
	"github.com/aussiebroadwan/tenantry/internal/account/metrics"
	"github.com/aussiebroadwan/tenantry/internal/account/policy"
	"github.com/aussiebroadwan/tenantry/pkg/slogx"
)

var (
	ErrPasswordRequired    = &domain.Error{Kind: domain.KindValidation, Msg: "set a password before creating a company"}
	ErrInviteEmailMismatch = &domain.Error{Kind: domain.KindNotAuthorized, Msg: "this invite was sent to a different email address"}
	ErrEmailProvider       = &domain.Error{Kind: domain.KindValidation, Msg: "email is not an OAuth provider"}
)

// AuthResult is a signed-in session and where the client goes next.
type AuthResult struct {
	Session        domain.IssuedSession
	Classification domain.Classification
	Next           domain.Route
	ReturnTo       string
	Reconciled     bool
}

type SignUpResult struct {
	AuthResult
	Business domain.Business
}

type AcceptInviteResult struct {
	BusinessID string
	Role       domain.Role
	Next       domain.Route
}

type OnboardingResult struct {
	Business domain.Business
	Next     domain.Route
}

// Workflow sequences the account flows. Every operation takes the caller's
// session explicitly; nil means unauthenticated. A Next route is only
// returned once the state it depends on is committed.
type Workflow struct {
	Identity    identity.Provider
	Memberships *MembershipService
	Invites     *InviteService
	Policy      *policy.Policy
	Metrics     *metrics.Metrics

	// Timeout bounds each call into a collaborator.
	Timeout time.Duration
}

// Session resolves a bearer token; (nil, nil) when there is none.
func (w *Workflow) Session(ctx context.Context, token string) (*domain.Session, error) {
	return within(ctx, w.Timeout, func(ctx context.Context) (*domain.Session, error) {
		return w.Identity.GetSession(ctx, token)
	})
}

// Status classifies the caller.
func (w *Workflow) Status(ctx context.Context, sess *domain.Session) (domain.Classification, error) {
	if sess == nil {
		return Classify(nil, nil), nil
	}
	m, err := w.membership(ctx, sess.UserID)
	if err != nil {
		return domain.Classification{}, err
	}
	return Classify(sess, m), nil
}

// SignUp creates a password account and bootstraps its business. A failure
// after the account exists is a PartialFailureError, never a plain sign-up
// failure.
func (w *Workflow) SignUp(ctx context.Context, email, password string) (SignUpResult, error) {
	log := slogx.FromContext(ctx)

	email, err := domain.NormalizeEmail(email)
	if err != nil {
		return SignUpResult{}, err
	}
	if len(password) < identity.MinPasswordLength {
		return SignUpResult{}, domain.ErrWeakPassword
	}

	user, err := within(ctx, w.Timeout, func(ctx context.Context) (domain.User, error) {
		return w.Identity.SignUp(ctx, email, password, domain.Metadata{})
	})
	if err != nil {
		return SignUpResult{}, err
	}

	biz, err := within(ctx, w.Timeout, func(ctx context.Context) (domain.Business, error) {
		return w.Memberships.CreateBusiness(ctx, user.ID, domain.BusinessAttrs{Name: defaultBusinessName(email)})
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindPartialFailure {
			return SignUpResult{}, err
		}
		return SignUpResult{}, w.partial(ctx, &domain.PartialFailureError{
			Step:   "business_bootstrap",
			UserID: user.ID,
			Err:    err,
		})
	}

	auth, err := w.signedIn(ctx, user.ID, domain.ProviderEmail)
	if err != nil {
		return SignUpResult{}, err
	}

	log.Info("sign-up completed", slog.String("user_id", user.ID), slog.String("business_id", biz.ID))
	return SignUpResult{AuthResult: auth, Business: biz}, nil
}

func (w *Workflow) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	issued, err := within(ctx, w.Timeout, func(ctx context.Context) (domain.IssuedSession, error) {
		return w.Identity.SignInWithPassword(ctx, email, password)
	})
	if err != nil {
		return AuthResult{}, err
	}
	return w.classified(ctx, issued)
}

// StartOAuth returns the provider redirect URL.
func (w *Workflow) StartOAuth(ctx context.Context, providerName, returnTo string) (string, error) {
	provider, err := domain.ParseProvider(providerName)
	if err != nil {
		return "", err
	}
	if provider == domain.ProviderEmail {
		return "", ErrEmailProvider
	}
	return within(ctx, w.Timeout, func(ctx context.Context) (string, error) {
		return w.Identity.SignInWithOAuth(ctx, provider, returnTo)
	})
}

// OAuthCallback completes the provider flow, folds a duplicate account into
// the oldest account with the same email, then classifies.
func (w *Workflow) OAuthCallback(ctx context.Context, providerName, state, code string) (AuthResult, error) {
	provider, err := domain.ParseProvider(providerName)
	if err != nil {
		return AuthResult{}, err
	}
	if provider == domain.ProviderEmail {
		return AuthResult{}, ErrEmailProvider
	}

	res, err := within(ctx, w.Timeout, func(ctx context.Context) (identity.OAuthResult, error) {
		return w.Identity.CompleteOAuth(ctx, provider, state, code)
	})
	if err != nil {
		return AuthResult{}, err
	}

	issued, reconciled, err := w.reconcile(ctx, res.Session, provider)
	if err != nil {
		return AuthResult{}, err
	}

	auth, err := w.classified(ctx, issued)
	if err != nil {
		return AuthResult{}, err
	}
	auth.ReturnTo = res.ReturnTo
	auth.Reconciled = reconciled
	return auth, nil
}

// reconcile keeps one account per email. When the OAuth session belongs to
// a newer account than the oldest one holding its email, the newer account's
// identities move to the oldest, the newer account is deleted and a session
// for the oldest is issued instead.
func (w *Workflow) reconcile(ctx context.Context, issued domain.IssuedSession, provider domain.Provider) (domain.IssuedSession, bool, error) {
	log := slogx.FromContext(ctx)
	dupID := issued.Session.UserID

	users, err := within(ctx, w.Timeout, func(ctx context.Context) ([]domain.User, error) {
		return w.Identity.FindUsersByEmail(ctx, issued.Session.Email)
	})
	if err != nil {
		return domain.IssuedSession{}, false, err
	}
	if len(users) < 2 || users[0].ID == dupID {
		return issued, false, nil
	}
	keepID := users[0].ID

	m, err := w.membership(ctx, dupID)
	if err != nil {
		return domain.IssuedSession{}, false, err
	}
	if m != nil {
		log.Warn("duplicate account holds a membership, left for manual reconciliation",
			slog.String("user_id", dupID),
			slog.String("existing_user_id", keepID),
			slog.String("business_id", m.BusinessID),
		)
		return issued, false, nil
	}

	err = withinErr(ctx, w.Timeout, func(ctx context.Context) error {
		return w.Identity.LinkIdentity(ctx, dupID, keepID)
	})
	if err != nil {
		return domain.IssuedSession{}, false, err
	}

	err = withinErr(ctx, w.Timeout, func(ctx context.Context) error {
		return w.Identity.DeleteUser(ctx, dupID)
	})
	if err != nil {
		return domain.IssuedSession{}, false, w.partial(ctx, &domain.PartialFailureError{
			Step:   "delete_duplicate_account",
			UserID: dupID,
			Err:    err,
		})
	}

	kept, err := within(ctx, w.Timeout, func(ctx context.Context) (domain.IssuedSession, error) {
		return w.Identity.IssueSession(ctx, keepID, provider)
	})
	if err != nil {
		return domain.IssuedSession{}, false, err
	}

	w.Metrics.Reconciliation()
	log.Info("duplicate account reconciled",
		slog.String("deleted_user_id", dupID),
		slog.String("user_id", keepID),
		slog.String("provider", string(provider)),
	)
	return kept, true, nil
}

// SendInvite creates or re-issues an invite from the caller's business.
func (w *Workflow) SendInvite(ctx context.Context, sess *domain.Session, email, role string) (domain.IssuedInvite, error) {
	if sess == nil {
		return domain.IssuedInvite{}, domain.ErrNotAuthenticated
	}
	return within(ctx, w.Timeout, func(ctx context.Context) (domain.IssuedInvite, error) {
		return w.Invites.Create(ctx, Inviter{UserID: sess.UserID, Email: sess.Email}, email, role)
	})
}

func (w *Workflow) FetchInvite(ctx context.Context, token string) (domain.InviteView, error) {
	return within(ctx, w.Timeout, func(ctx context.Context) (domain.InviteView, error) {
		return w.Invites.Fetch(ctx, token)
	})
}

// AcceptInvite redeems token for a signed-in caller whose email matches the
// invite. AlreadyMember comes back with a populated result.
func (w *Workflow) AcceptInvite(ctx context.Context, sess *domain.Session, token string) (AcceptInviteResult, error) {
	if sess == nil {
		return AcceptInviteResult{}, domain.ErrNotAuthenticated
	}

	view, err := w.FetchInvite(ctx, token)
	if err != nil {
		return AcceptInviteResult{}, err
	}
	if view.Email != sess.Email {
		slogx.FromContext(ctx).Warn("invite accept by a different email", slog.String("user_id", sess.UserID))
		return AcceptInviteResult{}, ErrInviteEmailMismatch
	}

	res, err := within(ctx, w.Timeout, func(ctx context.Context) (AcceptResult, error) {
		return w.Invites.Accept(ctx, token, sess.UserID)
	})
	benign := err
	if err != nil && domain.KindOf(err) != domain.KindAlreadyMember {
		return AcceptInviteResult{}, err
	}

	inviteID := res.Invite.ID
	err = withinErr(ctx, w.Timeout, func(ctx context.Context) error {
		return w.Identity.TagMetadata(ctx, sess.UserID, domain.MetadataPatch{Invited: &inviteID})
	})
	if err != nil {
		return AcceptInviteResult{}, w.partial(ctx, &domain.PartialFailureError{
			Step:       "tag_invited",
			BusinessID: res.Membership.BusinessID,
			UserID:     sess.UserID,
			InviteID:   inviteID,
			Err:        err,
		})
	}

	updated := *sess
	updated.Metadata.Invited = inviteID
	return AcceptInviteResult{
		BusinessID: res.Membership.BusinessID,
		Role:       res.Membership.Role,
		Next:       Classify(&updated, &res.Membership).Status.Route(),
	}, benign
}

// ClaimInvite is the unauthenticated accept path: create a password account
// for the invited email, redeem the invite and sign in.
func (w *Workflow) ClaimInvite(ctx context.Context, token, password, confirm string) (AuthResult, error) {
	if password != confirm {
		return AuthResult{}, domain.ErrPasswordMismatch
	}
	if len(password) < identity.MinPasswordLength {
		return AuthResult{}, domain.ErrWeakPassword
	}

	inv, err := within(ctx, w.Timeout, func(ctx context.Context) (domain.Invite, error) {
		return w.Invites.Lookup(ctx, token)
	})
	if err != nil {
		return AuthResult{}, err
	}

	user, err := within(ctx, w.Timeout, func(ctx context.Context) (domain.User, error) {
		return w.Identity.SignUp(ctx, inv.Email, password, domain.Metadata{Invited: inv.ID})
	})
	if err != nil {
		return AuthResult{}, err
	}

	_, err = within(ctx, w.Timeout, func(ctx context.Context) (AcceptResult, error) {
		return w.Invites.Accept(ctx, token, user.ID)
	})
	if err != nil {
		return AuthResult{}, w.partial(ctx, &domain.PartialFailureError{
			Step:       "accept_invite",
			BusinessID: inv.BusinessID,
			UserID:     user.ID,
			InviteID:   inv.ID,
			Err:        err,
		})
	}

	return w.signedIn(ctx, user.ID, domain.ProviderEmail)
}

// SetPassword is the password step of onboarding. Validation happens before
// any call into the identity provider.
func (w *Workflow) SetPassword(ctx context.Context, sess *domain.Session, password, confirm string) (domain.Classification, error) {
	if sess == nil {
		return domain.Classification{}, domain.ErrNotAuthenticated
	}
	if password != confirm {
		return domain.Classification{}, domain.ErrPasswordMismatch
	}
	if len(password) < identity.MinPasswordLength {
		return domain.Classification{}, domain.ErrWeakPassword
	}

	set := true
	err := withinErr(ctx, w.Timeout, func(ctx context.Context) error {
		return w.Identity.UpdateCredentials(ctx, sess.UserID, password, domain.MetadataPatch{PasswordSet: &set})
	})
	if err != nil {
		return domain.Classification{}, err
	}
	slogx.FromContext(ctx).Info("password set", slog.String("user_id", sess.UserID))

	updated := *sess
	updated.Metadata.PasswordSet = true
	if !updated.HasMethod(domain.ProviderEmail) {
		updated.Methods = append(append([]domain.Provider(nil), sess.Methods...), domain.ProviderEmail)
	}
	return w.Status(ctx, &updated)
}

// CompleteOnboarding creates the caller's business. It requires the
// NeedsOnboarding status: NeedsPassword is rejected and Ready returns the
// existing business with AlreadyMember.
func (w *Workflow) CompleteOnboarding(ctx context.Context, sess *domain.Session, attrs domain.BusinessAttrs) (OnboardingResult, error) {
	if sess == nil {
		return OnboardingResult{}, domain.ErrNotAuthenticated
	}
	attrs, err := w.Memberships.CleanAttrs(attrs, true)
	if err != nil {
		return OnboardingResult{}, err
	}

	cls, err := w.Status(ctx, sess)
	if err != nil {
		return OnboardingResult{}, err
	}
	switch cls.Status {
	case domain.StatusNeedsPassword:
		return OnboardingResult{}, ErrPasswordRequired
	case domain.StatusReady:
		biz, err := within(ctx, w.Timeout, func(ctx context.Context) (domain.Business, error) {
			return w.Memberships.GetBusiness(ctx, cls.Membership.BusinessID)
		})
		if err != nil {
			return OnboardingResult{}, err
		}
		return OnboardingResult{Business: biz, Next: domain.RouteDashboard}, domain.ErrAlreadyMember
	}

	biz, err := within(ctx, w.Timeout, func(ctx context.Context) (domain.Business, error) {
		return w.Memberships.CreateBusiness(ctx, sess.UserID, attrs)
	})
	if domain.KindOf(err) == domain.KindAlreadyMember {
		// Lost a race with another onboarding request from the same user.
		existing, _, berr := w.Business(ctx, sess)
		if berr != nil {
			return OnboardingResult{}, berr
		}
		return OnboardingResult{Business: existing, Next: domain.RouteDashboard}, domain.ErrAlreadyMember
	}
	if err != nil {
		return OnboardingResult{}, err
	}

	m := domain.Membership{UserID: sess.UserID, BusinessID: biz.ID, Role: domain.RoleOwner}
	return OnboardingResult{Business: biz, Next: Classify(sess, &m).Status.Route()}, nil
}

// Business returns the caller's business and membership.
func (w *Workflow) Business(ctx context.Context, sess *domain.Session) (domain.Business, domain.Membership, error) {
	if sess == nil {
		return domain.Business{}, domain.Membership{}, domain.ErrNotAuthenticated
	}
	m, err := w.membership(ctx, sess.UserID)
	if err != nil {
		return domain.Business{}, domain.Membership{}, err
	}
	if m == nil {
		return domain.Business{}, domain.Membership{}, domain.ErrBusinessNotFound
	}
	biz, err := within(ctx, w.Timeout, func(ctx context.Context) (domain.Business, error) {
		return w.Memberships.GetBusiness(ctx, m.BusinessID)
	})
	return biz, *m, err
}

// UpdateBusiness lets an owner edit the business attributes.
func (w *Workflow) UpdateBusiness(ctx context.Context, sess *domain.Session, patch BusinessPatch) (domain.Business, error) {
	if sess == nil {
		return domain.Business{}, domain.ErrNotAuthenticated
	}
	m, err := w.membership(ctx, sess.UserID)
	if err != nil {
		return domain.Business{}, err
	}
	if m == nil || !w.Policy.CanEditBusiness(m.Role) {
		return domain.Business{}, domain.ErrNotAuthorized
	}
	return within(ctx, w.Timeout, func(ctx context.Context) (domain.Business, error) {
		return w.Memberships.UpdateBusiness(ctx, m.BusinessID, patch)
	})
}

func (w *Workflow) ListInvites(ctx context.Context, sess *domain.Session) ([]domain.Invite, error) {
	if sess == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return within(ctx, w.Timeout, func(ctx context.Context) ([]domain.Invite, error) {
		return w.Invites.ListOutstanding(ctx, sess.UserID)
	})
}

func (w *Workflow) RevokeInvite(ctx context.Context, sess *domain.Session, inviteID string) error {
	if sess == nil {
		return domain.ErrNotAuthenticated
	}
	return withinErr(ctx, w.Timeout, func(ctx context.Context) error {
		return w.Invites.Revoke(ctx, sess.UserID, inviteID)
	})
}

func (w *Workflow) membership(ctx context.Context, userID string) (*domain.Membership, error) {
	return within(ctx, w.Timeout, func(ctx context.Context) (*domain.Membership, error) {
		return w.Memberships.GetMembership(ctx, userID)
	})
}

func (w *Workflow) signedIn(ctx context.Context, userID string, method domain.Provider) (AuthResult, error) {
	issued, err := within(ctx, w.Timeout, func(ctx context.Context) (domain.IssuedSession, error) {
		return w.Identity.IssueSession(ctx, userID, method)
	})
	if err != nil {
		return AuthResult{}, err
	}
	return w.classified(ctx, issued)
}

func (w *Workflow) classified(ctx context.Context, issued domain.IssuedSession) (AuthResult, error) {
	cls, err := w.Status(ctx, &issued.Session)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Session: issued, Classification: cls, Next: cls.Status.Route()}, nil
}

// defaultBusinessName names the business bootstrapped at sign-up.
func defaultBusinessName(email string) string {
	const suffix = "'s Company"
	name := email + suffix
	if utf8.RuneCountInString(name) > maxBusinessName {
		local, _, _ := strings.Cut(email, "@")
		name = local + suffix
	}
	if r := []rune(name); len(r) > maxBusinessName {
		name = string(r[:maxBusinessName])
	}
	return name
}

// partial logs a PartialFailureError with everything needed to repair it by hand.
func (w *Workflow) partial(ctx context.Context, pf *domain.PartialFailureError) error {
	slogx.FromContext(ctx).Error("partial failure",
		slog.String("step", pf.Step),
		slog.String("business_id", pf.BusinessID),
		slog.String("user_id", pf.UserID),
		slog.String("invite_id", pf.InviteID),
		slog.String("cause_kind", string(domain.KindOf(pf.Err))),
		slog.Any("error", pf.Err),
	)
	w.Metrics.PartialFailure(pf.Step)
	return pf
}
