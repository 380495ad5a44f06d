package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/jackc/pgx/v5"
)

const (
	createIdentitySQL = `INSERT INTO identities (provider, subject, user_id, email, created_at)
VALUES ($1, $2, $3, $4, $5)`

	selectIdentitySQL = `SELECT provider, subject, user_id, email, created_at FROM identities`

	moveIdentitiesSQL = `UPDATE identities SET user_id = $2 WHERE user_id = $1`
)

type identitiesRepo struct {
	db querier
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, id domain.Identity) error {
	createdAt := id.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, createIdentitySQL,
		string(id.Provider), id.Subject, id.UserID, id.Email, createdAt,
	)
	return mapWriteErr(err)
}

func (r *identitiesRepo) GetIdentity(ctx context.Context, provider domain.Provider, subject string) (domain.Identity, error) {
	row := r.db.QueryRow(ctx, selectIdentitySQL+` WHERE provider = $1 AND subject = $2`, string(provider), subject)
	id, err := scanIdentity(row)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return id, nil
}

func (r *identitiesRepo) ListIdentitiesByUser(ctx context.Context, userID string) ([]domain.Identity, error) {
	rows, err := r.db.Query(ctx, selectIdentitySQL+` WHERE user_id = $1 ORDER BY created_at, provider`, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Identity, error) {
		return scanIdentity(row)
	})
}

func (r *identitiesRepo) MoveIdentities(ctx context.Context, fromUserID, toUserID string) error {
	_, err := r.db.Exec(ctx, moveIdentitiesSQL, fromUserID, toUserID)
	return mapWriteErr(err)
}

func scanIdentity(row pgx.Row) (domain.Identity, error) {
	var (
		id       domain.Identity
		provider string
	)
	err := row.Scan(&provider, &id.Subject, &id.UserID, &id.Email, &id.CreatedAt)
	id.Provider = domain.Provider(provider)
	return id, err
}
