package postgres

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/tenantry/internal/account/store"
	"github.com/jackc/pgx/v5"
)

var errNestedTx = errors.New("postgres: nested transactions are not supported")

type txStore struct {
	tx  pgx.Tx
	ctx context.Context
}

// Commit and Rollback use the context the transaction was opened with.
func (t *txStore) Commit() error { return t.tx.Commit(t.ctx) }

func (t *txStore) Rollback() error {
	err := t.tx.Rollback(context.WithoutCancel(t.ctx))
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
func (t *txStore) ApplyMigrations() error         { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, errNestedTx }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return errNestedTx
}

func (t *txStore) Users() store.Users           { return &usersRepo{db: t.tx} }
func (t *txStore) Identities() store.Identities { return &identitiesRepo{db: t.tx} }
func (t *txStore) Businesses() store.Businesses { return &businessesRepo{db: t.tx} }
func (t *txStore) Members() store.Members       { return &membersRepo{db: t.tx} }
func (t *txStore) Invites() store.Invites       { return &invitesRepo{db: t.tx} }
