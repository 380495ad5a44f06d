// Package identity is the identity provider adapter. It answers "who is the
// caller" and performs credential mutations; it knows nothing about
// businesses, memberships or invites.
package identity

import (
	"context"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
)

// MinPasswordLength is the credential policy enforced on sign-up and password changes.
const MinPasswordLength = 6

// Provider is the contract the workflow depends on. Implementations wrap an
// authentication service; Local keeps everything in the account store.
type Provider interface {
	// GetSession resolves a bearer token. A missing, expired or revoked
	// token is not an error: it returns (nil, nil).
	GetSession(ctx context.Context, token string) (*domain.Session, error)

	// IssueSession mints a session for userID authenticated by method.
	IssueSession(ctx context.Context, userID string, method domain.Provider) (domain.IssuedSession, error)

	// SignUp creates a password account. DuplicateEmail when any account
	// already holds the address.
	SignUp(ctx context.Context, email, password string, md domain.Metadata) (domain.User, error)

	SignInWithPassword(ctx context.Context, email, password string) (domain.IssuedSession, error)

	// SignInWithOAuth returns the provider consent URL. It records only the
	// short-lived redirect state.
	SignInWithOAuth(ctx context.Context, provider domain.Provider, returnTo string) (string, error)

	// CompleteOAuth finishes the redirect. An unknown provider subject always
	// yields a fresh account, even when the email is already taken.
	CompleteOAuth(ctx context.Context, provider domain.Provider, state, code string) (OAuthResult, error)

	// UpdateCredentials sets a password and merges patch into the metadata.
	UpdateCredentials(ctx context.Context, userID, newPassword string, patch domain.MetadataPatch) error

	// TagMetadata merges patch without touching credentials.
	TagMetadata(ctx context.Context, userID string, patch domain.MetadataPatch) error

	// FindUsersByEmail lists every account holding the address, oldest first.
	FindUsersByEmail(ctx context.Context, email string) ([]domain.User, error)

	// LinkIdentity re-points every linked method of fromUserID to toUserID.
	LinkIdentity(ctx context.Context, fromUserID, toUserID string) error

	DeleteUser(ctx context.Context, userID string) error
}

// OAuthResult is the outcome of a provider callback.
type OAuthResult struct {
	Session  domain.IssuedSession
	Created  bool // a new account was created for this provider subject
	ReturnTo string
}

// ExternalIdentity is what an OAuth provider vouches for.
type ExternalIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
}

// OAuthClient drives one provider's authorization code flow.
type OAuthClient interface {
	AuthCodeURL(state, verifier, nonce string) string
	Exchange(ctx context.Context, code, verifier, nonce string) (ExternalIdentity, error)
}
