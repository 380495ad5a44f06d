package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/store"
	"github.com/aussiebroadwan/tenantry/internal/account/store/drivers/sqlite/gen"
	msqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

// NewStore opens a SQLite database. Pragmas are applied per connection and
// the pool is capped at one connection so writers queue instead of failing
// with SQLITE_BUSY, which also keeps ":memory:" databases shared.
func NewStore(dsn string) (*Store, error) {
	dsn = withPragmas(dsn)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func withPragmas(dsn string) string {
	params := []string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_time_format=sqlite",
	}
	if !strings.HasPrefix(dsn, ":memory:") && !strings.Contains(dsn, "mode=memory") {
		params = append(params, "_pragma=journal_mode(WAL)")
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Ensure rollback is called if we panic or return early with error
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users           { return &usersRepo{q: s.q} }
func (s *Store) Identities() store.Identities { return &identitiesRepo{q: s.q} }
func (s *Store) Businesses() store.Businesses { return &businessesRepo{q: s.q} }
func (s *Store) Members() store.Members       { return &membersRepo{q: s.q} }
func (s *Store) Invites() store.Invites       { return &invitesRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapWriteErr turns unique and primary key violations into ErrAlreadyExists.
func mapWriteErr(err error) error {
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlitelib.SQLITE_CONSTRAINT_UNIQUE, sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", store.ErrAlreadyExists, err)
		}
	}
	return err
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time.UTC()
		return &val
	}
	return nil
}

func mapTimeNull(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func mapUser(row gen.User) domain.User {
	return domain.User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Metadata: domain.Metadata{
			PasswordSet: row.PasswordSet,
			Invited:     row.Invited,
		},
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

func mapIdentity(row gen.Identity) domain.Identity {
	return domain.Identity{
		UserID:    row.UserID,
		Provider:  domain.Provider(row.Provider),
		Subject:   row.Subject,
		Email:     row.Email,
		CreatedAt: row.CreatedAt.UTC(),
	}
}

func mapBusiness(row gen.Business) domain.Business {
	return domain.Business{
		ID:        row.ID,
		Name:      row.Name,
		Slug:      row.Slug,
		Industry:  row.Industry,
		Size:      row.Size,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

func mapMembership(row gen.BusinessMember) domain.Membership {
	return domain.Membership{
		UserID:     row.UserID,
		BusinessID: row.BusinessID,
		Role:       domain.Role(row.Role),
		CreatedAt:  row.CreatedAt.UTC(),
	}
}

func mapInvite(row gen.Invite) domain.Invite {
	return domain.Invite{
		ID:           row.ID,
		TokenHash:    row.TokenHash,
		InviterID:    row.InviterID,
		InviterEmail: row.InviterEmail,
		BusinessID:   row.BusinessID,
		BusinessName: row.BusinessName,
		Email:        row.Email,
		Role:         domain.Role(row.Role),
		SentAt:       row.SentAt.UTC(),
		ExpiresAt:    row.ExpiresAt.UTC(),
		DeliveredAt:  mapNullTimePtr(row.DeliveredAt),
		AcceptedAt:   mapNullTimePtr(row.AcceptedAt),
		AcceptedBy:   mapNullString(row.AcceptedBy),
	}
}
