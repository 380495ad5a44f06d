package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/store/drivers/sqlite/gen"
)

type identitiesRepo struct {
	q *gen.Queries
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, id domain.Identity) error {
	createdAt := id.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return mapWriteErr(r.q.CreateIdentity(ctx, gen.CreateIdentityParams{
		Provider:  string(id.Provider),
		Subject:   id.Subject,
		UserID:    id.UserID,
		Email:     id.Email,
		CreatedAt: createdAt.UTC(),
	}))
}

func (r *identitiesRepo) GetIdentity(
	ctx context.Context,
	provider domain.Provider,
	subject string,
) (domain.Identity, error) {
	row, err := r.q.GetIdentity(ctx, gen.GetIdentityParams{
		Provider: string(provider),
		Subject:  subject,
	})
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return mapIdentity(row), nil
}

func (r *identitiesRepo) ListIdentitiesByUser(ctx context.Context, userID string) ([]domain.Identity, error) {
	rows, err := r.q.ListIdentitiesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Identity, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapIdentity(row))
	}
	return out, nil
}

func (r *identitiesRepo) MoveIdentities(ctx context.Context, fromUserID, toUserID string) error {
	return mapWriteErr(r.q.MoveIdentities(ctx, gen.MoveIdentitiesParams{
		ToUserID:   toUserID,
		FromUserID: fromUserID,
	}))
}
