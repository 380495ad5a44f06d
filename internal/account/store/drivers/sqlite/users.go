package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	return mapWriteErr(r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		PasswordSet:  u.Metadata.PasswordSet,
		Invited:      u.Metadata.Invited,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) ListUsersByEmail(ctx context.Context, email string) ([]domain.User, error) {
	rows, err := r.q.ListUsersByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapUser(row))
	}
	return out, nil
}

func (r *usersRepo) UpdateCredentials(
	ctx context.Context,
	userID, passwordHash string,
	md domain.Metadata,
) error {
	return r.q.UpdateUserCredentials(ctx, gen.UpdateUserCredentialsParams{
		PasswordHash: passwordHash,
		PasswordSet:  md.PasswordSet,
		Invited:      md.Invited,
		UpdatedAt:    time.Now().UTC(),
		ID:           userID,
	})
}

func (r *usersRepo) UpdateMetadata(ctx context.Context, userID string, md domain.Metadata) error {
	return r.q.UpdateUserMetadata(ctx, gen.UpdateUserMetadataParams{
		PasswordSet: md.PasswordSet,
		Invited:     md.Invited,
		UpdatedAt:   time.Now().UTC(),
		ID:          userID,
	})
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return r.q.DeleteUser(ctx, userID)
}
