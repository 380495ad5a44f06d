package service_test

import (
	"context"
	"crypto/ed25519"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/identity"
	"github.com/aussiebroadwan/tenantry/internal/account/metrics"
	"github.com/aussiebroadwan/tenantry/internal/account/oauthstate"
	"github.com/aussiebroadwan/tenantry/internal/account/policy"
	"github.com/aussiebroadwan/tenantry/internal/account/service"
	"github.com/aussiebroadwan/tenantry/internal/account/store"
	"github.com/aussiebroadwan/tenantry/internal/account/store/drivers/sqlite"
	"github.com/aussiebroadwan/tenantry/pkg/cryptox"
	"github.com/aussiebroadwan/tenantry/pkg/jwtx"
	"github.com/aussiebroadwan/tenantry/pkg/slogx"
	"github.com/stretchr/testify/require"
)

// fakeMailer records sends and fails while err is set.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

type sentMail struct {
	To, Subject, Body string
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return "msg", nil
}

func (m *fakeMailer) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// fakeOAuth vouches for whatever identity is configured.
type fakeOAuth struct {
	mu  sync.Mutex
	ext identity.ExternalIdentity
}

func (f *fakeOAuth) AuthCodeURL(state, _, _ string) string {
	return "https://idp.test/auth?state=" + url.QueryEscape(state)
}

func (f *fakeOAuth) Exchange(context.Context, string, string, string) (identity.ExternalIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ext, nil
}

func (f *fakeOAuth) as(subject, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ext = identity.ExternalIdentity{Subject: subject, Email: email, EmailVerified: true}
}

// faultStore fails owner/member inserts while membershipErr is set.
type faultStore struct {
	store.Store
	membershipErr error
}

func (f *faultStore) Members() store.Members {
	return faultMembers{Members: f.Store.Members(), err: f.membershipErr}
}

type faultMembers struct {
	store.Members
	err error
}

func (m faultMembers) CreateMembership(ctx context.Context, mm domain.Membership) error {
	if m.err != nil {
		return m.err
	}
	return m.Members.CreateMembership(ctx, mm)
}

// hangingMailer never delivers; it returns once the caller gives up.
type hangingMailer struct{}

func (hangingMailer) Send(ctx context.Context, _, _, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

// slowStore delays business inserts so concurrent requests overlap.
type slowStore struct {
	store.Store
	delay time.Duration
}

func (s *slowStore) Businesses() store.Businesses {
	return slowBusinesses{Businesses: s.Store.Businesses(), delay: s.delay}
}

type slowBusinesses struct {
	store.Businesses
	delay time.Duration
}

func (b slowBusinesses) CreateBusiness(ctx context.Context, biz domain.Business) error {
	select {
	case <-time.After(b.delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return b.Businesses.CreateBusiness(ctx, biz)
}

// hangingStore blocks membership reads while hang is set.
type hangingStore struct {
	store.Store
	hang *atomic.Bool
}

func (s *hangingStore) Members() store.Members {
	return hangingMembers{Members: s.Store.Members(), hang: s.hang}
}

type hangingMembers struct {
	store.Members
	hang *atomic.Bool
}

func (m hangingMembers) GetMembershipByUser(ctx context.Context, userID string) (domain.Membership, error) {
	if m.hang.Load() {
		<-ctx.Done()
		return domain.Membership{}, ctx.Err()
	}
	return m.Members.GetMembershipByUser(ctx, userID)
}

// spyProvider counts credential mutations.
type spyProvider struct {
	identity.Provider
	mu      sync.Mutex
	updates int
}

func (s *spyProvider) UpdateCredentials(ctx context.Context, userID, pw string, patch domain.MetadataPatch) error {
	s.mu.Lock()
	s.updates++
	s.mu.Unlock()
	return s.Provider.UpdateCredentials(ctx, userID, pw, patch)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	st      store.Store
	raw     *sqlite.Store
	idp     *spyProvider
	oauth   *fakeOAuth
	mailer  *fakeMailer
	clock   *clock
	invites *service.InviteService
	members *service.MembershipService
	wf      *service.Workflow
	policy  *policy.Policy
	metrics *metrics.Metrics
}

type harnessOpt func(*harnessConfig)

type harnessConfig struct {
	wrap        func(store.Store) store.Store
	allowAdmins bool
}

func withStore(wrap func(store.Store) store.Store) harnessOpt {
	return func(c *harnessConfig) { c.wrap = wrap }
}

func withAdminInvites() harnessOpt {
	return func(c *harnessConfig) { c.allowAdmins = true }
}

func newHarness(t *testing.T, opts ...harnessOpt) *harness {
	t.Helper()

	var cfg harnessConfig
	for _, o := range opts {
		o(&cfg)
	}

	raw, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	require.NoError(t, raw.ApplyMigrations())

	var st store.Store = raw
	if cfg.wrap != nil {
		st = cfg.wrap(raw)
	}

	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	signer, err := jwtx.NewSigner(priv)
	require.NoError(t, err)

	oauth := &fakeOAuth{}
	local := identity.NewLocal(st, cryptox.NewHasher("pepper"), signer, oauthstate.NewMemoryStore(),
		identity.WithIssuer("https://tenantry.test"),
		identity.WithOAuth(domain.ProviderGoogle, oauth),
	)
	idp := &spyProvider{Provider: local}

	pol, err := policy.New(policy.Options{AllowAdminInvites: cfg.allowAdmins})
	require.NoError(t, err)

	m := metrics.New()
	clk := &clock{now: time.Now().UTC()}
	mailer := &fakeMailer{}
	members := service.NewMembershipService(st, m)
	invites := &service.InviteService{
		Store:   st,
		Policy:  pol,
		Mailer:  mailer,
		Metrics: m,
		TTL:     service.DefaultInviteTTL,
		BaseURL: "https://app.tenantry.test/",
		Now:     clk.Now,
	}

	return &harness{
		st:      st,
		raw:     raw,
		idp:     idp,
		oauth:   oauth,
		mailer:  mailer,
		clock:   clk,
		invites: invites,
		members: members,
		policy:  pol,
		metrics: m,
		wf: &service.Workflow{
			Identity:    idp,
			Memberships: members,
			Invites:     invites,
			Policy:      pol,
			Metrics:     m,
			Timeout:     5 * time.Second,
		},
	}
}

func ctx() context.Context {
	return slogx.WithContext(context.Background(), slogx.Discard())
}

// session resolves the token of an issued session back into a Session.
func (h *harness) session(t *testing.T, issued domain.IssuedSession) *domain.Session {
	t.Helper()
	sess, err := h.wf.Session(ctx(), issued.Token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	return sess
}

// owner signs up a password account with its bootstrapped business.
func (h *harness) owner(t *testing.T, email string) (*domain.Session, domain.Business) {
	t.Helper()
	res, err := h.wf.SignUp(ctx(), email, "secret1")
	require.NoError(t, err)
	return h.session(t, res.Session), res.Business
}

// oauthUser signs in through the fake provider.
func (h *harness) oauthUser(t *testing.T, subject, email string) service.AuthResult {
	t.Helper()
	h.oauth.as(subject, email)

	redirect, err := h.wf.StartOAuth(ctx(), "google", "")
	require.NoError(t, err)
	u, err := url.Parse(redirect)
	require.NoError(t, err)

	res, err := h.wf.OAuthCallback(ctx(), "google", u.Query().Get("state"), "code")
	require.NoError(t, err)
	return res
}

// invite sends an invite and returns its token.
func (h *harness) invite(t *testing.T, inviter *domain.Session, email string, role domain.Role) domain.IssuedInvite {
	t.Helper()
	issued, err := h.wf.SendInvite(ctx(), inviter, email, role.String())
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)
	return issued
}

func (h *harness) memberCount(t *testing.T, businessID string) int {
	t.Helper()
	ms, err := h.raw.Members().ListMembersByBusiness(context.Background(), businessID)
	require.NoError(t, err)
	return len(ms)
}

func (h *harness) outstanding(t *testing.T, businessID string) []domain.Invite {
	t.Helper()
	invs, err := h.raw.Invites().ListOutstandingInvites(context.Background(), businessID)
	require.NoError(t, err)
	return invs
}

func requireKind(t *testing.T, want domain.Kind, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, domain.KindOf(err), "error: %v", err)
}

var errStoreDown = errors.New("store unreachable")
