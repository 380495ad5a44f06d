package postgres

import (
	"context"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/jackc/pgx/v5"
)

const (
	createUserSQL = `INSERT INTO users (id, email, password_hash, password_set, invited)
VALUES ($1, $2, $3, $4, $5)`

	selectUserSQL = `SELECT id, email, password_hash, password_set, invited, created_at, updated_at FROM users`

	updateUserCredentialsSQL = `UPDATE users
SET password_hash = $2, password_set = $3, invited = $4, updated_at = NOW()
WHERE id = $1`

	updateUserMetadataSQL = `UPDATE users
SET password_set = $2, invited = $3, updated_at = NOW()
WHERE id = $1`

	deleteUserSQL = `DELETE FROM users WHERE id = $1`
)

type usersRepo struct {
	db querier
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.Exec(ctx, createUserSQL,
		u.ID, u.Email, u.PasswordHash, u.Metadata.PasswordSet, u.Metadata.Invited,
	)
	return mapWriteErr(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, selectUserSQL+` WHERE id = $1`, id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, selectUserSQL+` WHERE email = $1 ORDER BY created_at, id LIMIT 1`, email)
}

func (r *usersRepo) ListUsersByEmail(ctx context.Context, email string) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, selectUserSQL+` WHERE email = $1 ORDER BY created_at, id`, email)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.User, error) {
		return scanUser(row)
	})
}

func (r *usersRepo) getOne(ctx context.Context, sql string, arg string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, sql, arg))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Metadata.PasswordSet,
		&u.Metadata.Invited,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *usersRepo) UpdateCredentials(ctx context.Context, userID, passwordHash string, md domain.Metadata) error {
	_, err := r.db.Exec(ctx, updateUserCredentialsSQL, userID, passwordHash, md.PasswordSet, md.Invited)
	return err
}

func (r *usersRepo) UpdateMetadata(ctx context.Context, userID string, md domain.Metadata) error {
	_, err := r.db.Exec(ctx, updateUserMetadataSQL, userID, md.PasswordSet, md.Invited)
	return err
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, deleteUserSQL, userID)
	return err
}
