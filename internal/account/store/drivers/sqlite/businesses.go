package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/store"
	"github.com/aussiebroadwan/tenantry/internal/account/store/drivers/sqlite/gen"
)

type businessesRepo struct {
	q *gen.Queries
}

func (r *businessesRepo) CreateBusiness(ctx context.Context, b domain.Business) error {
	now := time.Now().UTC()
	return mapWriteErr(r.q.CreateBusiness(ctx, gen.CreateBusinessParams{
		ID:        b.ID,
		Name:      b.Name,
		Slug:      b.Slug,
		Industry:  b.Industry,
		Size:      b.Size,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func (r *businessesRepo) GetBusinessByID(ctx context.Context, id string) (domain.Business, error) {
	row, err := r.q.GetBusinessByID(ctx, id)
	if err != nil {
		return domain.Business{}, mapNotFound(err)
	}
	return mapBusiness(row), nil
}

func (r *businessesRepo) UpdateBusiness(ctx context.Context, b domain.Business) error {
	n, err := r.q.UpdateBusiness(ctx, gen.UpdateBusinessParams{
		Name:      b.Name,
		Slug:      b.Slug,
		Industry:  b.Industry,
		Size:      b.Size,
		UpdatedAt: time.Now().UTC(),
		ID:        b.ID,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *businessesRepo) DeleteBusiness(ctx context.Context, id string) error {
	return r.q.DeleteBusiness(ctx, id)
}

func (r *businessesRepo) ListOrphanBusinesses(ctx context.Context, cutoff time.Time) ([]domain.Business, error) {
	rows, err := r.q.ListOrphanBusinesses(ctx, cutoff.UTC())
	if err != nil {
		return nil, err
	}

	out := make([]domain.Business, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapBusiness(row))
	}
	return out, nil
}
