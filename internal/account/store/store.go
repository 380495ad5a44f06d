package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	// ErrConflict is returned when a conditional update matched no row.
	ErrConflict = errors.New("store: conditional update lost")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories are methods so a Tx-scoped Store hands out
// repos bound to the transaction and nobody opens a transaction inside one.
type Store interface {
	Users() Users
	Identities() Identities
	Businesses() Businesses
	Members() Members
	Invites() Invites

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. fn returning an error rolls
	// back, nil commits. Repos used inside fn must come from tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a user. Emails are not unique here; an OAuth sign-in
	// can create a second account for an address until it is reconciled.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns the oldest account with the normalized email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsersByEmail returns every account with the email, oldest first.
	ListUsersByEmail(ctx context.Context, email string) ([]domain.User, error)

	// UpdateCredentials sets password_hash and metadata and bumps updated_at.
	UpdateCredentials(ctx context.Context, userID, passwordHash string, md domain.Metadata) error

	// UpdateMetadata replaces metadata and bumps updated_at.
	UpdateMetadata(ctx context.Context, userID string, md domain.Metadata) error

	// DeleteUser cascades to identities.
	DeleteUser(ctx context.Context, userID string) error
}

type Identities interface {
	// CreateIdentity links a provider account. Existing (provider, subject) yields ErrAlreadyExists.
	CreateIdentity(ctx context.Context, id domain.Identity) error

	GetIdentity(ctx context.Context, provider domain.Provider, subject string) (domain.Identity, error)

	// ListIdentitiesByUser returns every method linked to a user, oldest first.
	ListIdentitiesByUser(ctx context.Context, userID string) ([]domain.Identity, error)

	// MoveIdentities re-points every identity of one user to another.
	MoveIdentities(ctx context.Context, fromUserID, toUserID string) error
}

type Businesses interface {
	CreateBusiness(ctx context.Context, b domain.Business) error
	GetBusinessByID(ctx context.Context, id string) (domain.Business, error)
	UpdateBusiness(ctx context.Context, b domain.Business) error
	DeleteBusiness(ctx context.Context, id string) error

	// ListOrphanBusinesses returns businesses without members created before cutoff.
	ListOrphanBusinesses(ctx context.Context, cutoff time.Time) ([]domain.Business, error)
}

type Members interface {
	// CreateMembership inserts a membership. A user already holding any
	// membership yields ErrAlreadyExists.
	CreateMembership(ctx context.Context, m domain.Membership) error

	// GetMembershipByUser returns the single membership of a user.
	GetMembershipByUser(ctx context.Context, userID string) (domain.Membership, error)

	ListMembersByBusiness(ctx context.Context, businessID string) ([]domain.Membership, error)
}

type Invites interface {
	// CreateInvite inserts an outstanding invite. A second outstanding invite
	// for the same (business, email) yields ErrAlreadyExists.
	CreateInvite(ctx context.Context, inv domain.Invite) error

	GetInviteByID(ctx context.Context, id string) (domain.Invite, error)

	// GetInviteByTokenHash returns the invite in any state.
	GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error)

	// GetOutstandingInvite returns the unaccepted invite for (business, email), expired or not.
	GetOutstandingInvite(ctx context.Context, businessID, email string) (domain.Invite, error)

	ListOutstandingInvites(ctx context.Context, businessID string) ([]domain.Invite, error)

	// RotateInviteToken replaces the token hash of an outstanding invite and resets sent_at.
	RotateInviteToken(ctx context.Context, id, tokenHash string, sentAt, expiresAt time.Time) error

	// MarkInviteDelivered records a confirmed send.
	MarkInviteDelivered(ctx context.Context, id string, at time.Time) error

	// MarkInviteAccepted is the compare-and-set transition: it only matches
	// while accepted_at is NULL and returns ErrConflict otherwise.
	MarkInviteAccepted(ctx context.Context, id, userID string, at time.Time) error

	DeleteInvite(ctx context.Context, id string) error

	// DeleteExpiredInvites removes outstanding invites past expires_at and
	// reports how many were removed.
	DeleteExpiredInvites(ctx context.Context, now time.Time) (int64, error)
}
