package identity

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/oauthstate"
	"github.com/aussiebroadwan/tenantry/internal/account/store"
	"github.com/aussiebroadwan/tenantry/pkg/cryptox"
	"github.com/aussiebroadwan/tenantry/pkg/idx"
	"github.com/aussiebroadwan/tenantry/pkg/jwtx"
	"github.com/aussiebroadwan/tenantry/pkg/slogx"
	"golang.org/x/oauth2"
)

var (
	ErrProviderNotConfigured = &domain.Error{Kind: domain.KindValidation, Msg: "sign-in provider is not configured"}
	ErrOAuthState            = &domain.Error{Kind: domain.KindValidation, Msg: "sign-in link expired, please try again"}
	ErrUnverifiedEmail       = &domain.Error{Kind: domain.KindNotAuthenticated, Msg: "provider has not verified this email"}
)

const sessionLeeway = 30 * time.Second

// Local is a Provider backed by the account store. Sessions are EdDSA JWTs
// carrying only the subject; user facts are reloaded on every lookup.
type Local struct {
	store    store.Store
	hasher   *cryptox.Hasher
	signer   *jwtx.Signer
	verifier *jwtx.Verifier
	states   oauthstate.Store
	oauth    map[domain.Provider]OAuthClient
	issuer   string
	ttl      time.Duration
	now      func() time.Time
}

var _ Provider = (*Local)(nil)

type Option func(*Local)

func WithIssuer(iss string) Option { return func(l *Local) { l.issuer = iss } }

func WithSessionTTL(ttl time.Duration) Option { return func(l *Local) { l.ttl = ttl } }

// WithOAuth enables an OAuth provider.
func WithOAuth(p domain.Provider, c OAuthClient) Option {
	return func(l *Local) { l.oauth[p] = c }
}

func WithClock(now func() time.Time) Option { return func(l *Local) { l.now = now } }

func NewLocal(st store.Store, hasher *cryptox.Hasher, signer *jwtx.Signer, states oauthstate.Store, opts ...Option) *Local {
	l := &Local{
		store:  st,
		hasher: hasher,
		signer: signer,
		states: states,
		oauth:  make(map[domain.Provider]OAuthClient),
		ttl:    jwtx.DefaultSessionTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	keys := jwtx.NewKeySet()
	keys.Add(signer.Public())
	l.verifier = jwtx.NewVerifier(keys, l.issuer, jwtx.WithLeeway(sessionLeeway), jwtx.WithClock(l.now))
	return l
}

// OAuthEnabled reports whether p has a configured client.
func (l *Local) OAuthEnabled(p domain.Provider) bool {
	_, ok := l.oauth[p]
	return ok
}

func (l *Local) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := l.verifier.Verify(token)
	if err != nil {
		slogx.FromContext(ctx).Debug("session token rejected", slog.Any("error", err))
		return nil, nil
	}

	user, err := l.store.Users().GetUserByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		// Deleted during reconciliation or by an operator.
		return nil, nil
	}
	if err != nil {
		return nil, domain.Transport("identity.get_session", err)
	}

	methods, err := l.methods(ctx, l.store, user.ID)
	if err != nil {
		return nil, err
	}

	return &domain.Session{
		ID:        claims.SID,
		UserID:    user.ID,
		Email:     user.Email,
		Methods:   methods,
		Metadata:  user.Metadata,
		IssuedAt:  claims.Issued(),
		ExpiresAt: claims.Expiry(),
	}, nil
}

func (l *Local) IssueSession(ctx context.Context, userID string, method domain.Provider) (domain.IssuedSession, error) {
	user, err := l.store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.IssuedSession{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.IssuedSession{}, domain.Transport("identity.issue_session", err)
	}

	methods, err := l.methods(ctx, l.store, user.ID)
	if err != nil {
		return domain.IssuedSession{}, err
	}

	sid := idx.New().String()
	claims := jwtx.NewSessionClaims(user.ID, sid, user.Email, []string{string(method)}, l.issuer, l.ttl, l.now())
	token, err := l.signer.Sign(claims)
	if err != nil {
		return domain.IssuedSession{}, err
	}

	return domain.IssuedSession{
		Session: domain.Session{
			ID:        sid,
			UserID:    user.ID,
			Email:     user.Email,
			Methods:   methods,
			Metadata:  user.Metadata,
			IssuedAt:  claims.Issued(),
			ExpiresAt: claims.Expiry(),
		},
		Token: token,
	}, nil
}

func (l *Local) SignUp(ctx context.Context, email, password string, md domain.Metadata) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email, err := domain.NormalizeEmail(email)
	if err != nil {
		return domain.User{}, err
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, domain.ErrWeakPassword
	}

	hash, err := l.hasher.Hash(password)
	if err != nil {
		return domain.User{}, err
	}

	now := l.now().UTC()
	md.PasswordSet = true
	user := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		PasswordHash: hash,
		Metadata:     md,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = l.store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByEmail(ctx, email)
		if err == nil {
			return domain.ErrDuplicateEmail
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.Identities().CreateIdentity(ctx, domain.Identity{
			UserID:    user.ID,
			Provider:  domain.ProviderEmail,
			Subject:   email,
			Email:     email,
			CreatedAt: now,
		})
	})
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail), errors.Is(err, store.ErrAlreadyExists):
		log.Warn("sign-up rejected, email already registered", slog.String("email", email))
		return domain.User{}, domain.ErrDuplicateEmail
	case err != nil:
		log.Error("failed to create password account", slog.Any("error", err))
		return domain.User{}, domain.Transport("identity.sign_up", err)
	}

	log.Info("password account created", slog.String("user_id", user.ID))
	return user, nil
}

func (l *Local) SignInWithPassword(ctx context.Context, email, password string) (domain.IssuedSession, error) {
	email, err := domain.NormalizeEmail(email)
	if err != nil || password == "" {
		return domain.IssuedSession{}, domain.ErrInvalidCredentials
	}

	ident, err := l.store.Identities().GetIdentity(ctx, domain.ProviderEmail, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.IssuedSession{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.IssuedSession{}, domain.Transport("identity.sign_in", err)
	}

	user, err := l.store.Users().GetUserByID(ctx, ident.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.IssuedSession{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.IssuedSession{}, domain.Transport("identity.sign_in", err)
	}

	if err := l.hasher.Verify(password, user.PasswordHash); err != nil {
		slogx.FromContext(ctx).Warn("password sign-in failed", slog.String("user_id", user.ID))
		return domain.IssuedSession{}, domain.ErrInvalidCredentials
	}

	return l.IssueSession(ctx, user.ID, domain.ProviderEmail)
}

func (l *Local) SignInWithOAuth(ctx context.Context, provider domain.Provider, returnTo string) (string, error) {
	client, ok := l.oauth[provider]
	if !ok {
		return "", ErrProviderNotConfigured
	}

	state, err := cryptox.GenerateToken(cryptox.TokenSize)
	if err != nil {
		return "", err
	}
	nonce, err := cryptox.GenerateToken(16)
	if err != nil {
		return "", err
	}
	verifier := oauth2.GenerateVerifier()

	err = l.states.Save(ctx, state, oauthstate.State{
		Provider: string(provider),
		Verifier: verifier,
		Nonce:    nonce,
		ReturnTo: safeReturnTo(returnTo),
	}, oauthstate.DefaultTTL)
	if err != nil {
		return "", domain.Transport("identity.oauth_state", err)
	}

	return client.AuthCodeURL(state, verifier, nonce), nil
}

func (l *Local) CompleteOAuth(ctx context.Context, provider domain.Provider, state, code string) (OAuthResult, error) {
	log := slogx.FromContext(ctx)

	client, ok := l.oauth[provider]
	if !ok {
		return OAuthResult{}, ErrProviderNotConfigured
	}
	if state == "" || code == "" {
		return OAuthResult{}, ErrOAuthState
	}

	st, err := l.states.Take(ctx, state)
	if errors.Is(err, oauthstate.ErrNotFound) {
		log.Warn("unknown or expired oauth state", slog.String("provider", string(provider)))
		return OAuthResult{}, ErrOAuthState
	}
	if err != nil {
		return OAuthResult{}, domain.Transport("identity.oauth_state", err)
	}
	if st.Provider != string(provider) {
		return OAuthResult{}, ErrOAuthState
	}

	ext, err := client.Exchange(ctx, code, st.Verifier, st.Nonce)
	if err != nil {
		log.Error("oauth code exchange failed", slog.String("provider", string(provider)), slog.Any("error", err))
		return OAuthResult{}, domain.Transport("identity.oauth_exchange", err)
	}
	if !ext.EmailVerified {
		return OAuthResult{}, ErrUnverifiedEmail
	}
	email, err := domain.NormalizeEmail(ext.Email)
	if err != nil {
		return OAuthResult{}, err
	}

	existing, err := l.store.Identities().GetIdentity(ctx, provider, ext.Subject)
	if err == nil {
		sess, err := l.IssueSession(ctx, existing.UserID, provider)
		if err != nil {
			return OAuthResult{}, err
		}
		return OAuthResult{Session: sess, ReturnTo: st.ReturnTo}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return OAuthResult{}, domain.Transport("identity.oauth_lookup", err)
	}

	now := l.now().UTC()
	user := domain.User{
		ID:        idx.NewAt(now).String(),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = l.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.Identities().CreateIdentity(ctx, domain.Identity{
			UserID:    user.ID,
			Provider:  provider,
			Subject:   ext.Subject,
			Email:     email,
			CreatedAt: now,
		})
	})
	if err != nil {
		log.Error("failed to create oauth account", slog.Any("error", err))
		return OAuthResult{}, domain.Transport("identity.oauth_create", err)
	}

	log.Info("oauth account created",
		slog.String("user_id", user.ID),
		slog.String("provider", string(provider)),
	)

	sess, err := l.IssueSession(ctx, user.ID, provider)
	if err != nil {
		return OAuthResult{}, err
	}
	return OAuthResult{Session: sess, Created: true, ReturnTo: st.ReturnTo}, nil
}

func (l *Local) UpdateCredentials(ctx context.Context, userID, newPassword string, patch domain.MetadataPatch) error {
	if len(newPassword) < MinPasswordLength {
		return domain.ErrWeakPassword
	}

	hash, err := l.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	err = l.store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}

		if err := tx.Users().UpdateCredentials(ctx, userID, hash, user.Metadata.Merge(patch)); err != nil {
			return err
		}

		// First password for an OAuth-only account links the email method.
		_, err = tx.Identities().GetIdentity(ctx, domain.ProviderEmail, user.Email)
		if err == nil || !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.Identities().CreateIdentity(ctx, domain.Identity{
			UserID:    userID,
			Provider:  domain.ProviderEmail,
			Subject:   user.Email,
			Email:     user.Email,
			CreatedAt: l.now().UTC(),
		})
	})
	return mapUserErr("identity.update_credentials", err)
}

func (l *Local) TagMetadata(ctx context.Context, userID string, patch domain.MetadataPatch) error {
	err := l.store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		return tx.Users().UpdateMetadata(ctx, userID, user.Metadata.Merge(patch))
	})
	return mapUserErr("identity.tag_metadata", err)
}

func (l *Local) FindUsersByEmail(ctx context.Context, email string) ([]domain.User, error) {
	email, err := domain.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	users, err := l.store.Users().ListUsersByEmail(ctx, email)
	if err != nil {
		return nil, domain.Transport("identity.find_users", err)
	}
	return users, nil
}

func (l *Local) LinkIdentity(ctx context.Context, fromUserID, toUserID string) error {
	if fromUserID == toUserID {
		return nil
	}
	err := l.store.Identities().MoveIdentities(ctx, fromUserID, toUserID)
	return mapUserErr("identity.link", err)
}

func (l *Local) DeleteUser(ctx context.Context, userID string) error {
	return mapUserErr("identity.delete_user", l.store.Users().DeleteUser(ctx, userID))
}

func (l *Local) methods(ctx context.Context, q store.Store, userID string) ([]domain.Provider, error) {
	idents, err := q.Identities().ListIdentitiesByUser(ctx, userID)
	if err != nil {
		return nil, domain.Transport("identity.list_identities", err)
	}
	out := make([]domain.Provider, 0, len(idents))
	for _, id := range idents {
		if !slices.Contains(out, id.Provider) {
			out = append(out, id.Provider)
		}
	}
	return out, nil
}

func mapUserErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return domain.ErrNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.ErrDuplicateEmail
	default:
		return domain.Transport(op, err)
	}
}

// safeReturnTo keeps same-origin absolute paths only.
func safeReturnTo(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return ""
	}
	return p
}
