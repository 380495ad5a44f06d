package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/store"
	"github.com/jackc/pgx/v5"
)

const (
	createBusinessSQL = `INSERT INTO businesses (id, name, slug, industry, size)
VALUES ($1, $2, $3, $4, $5)`

	selectBusinessSQL = `SELECT b.id, b.name, b.slug, b.industry, b.size, b.created_at, b.updated_at FROM businesses b`

	updateBusinessSQL = `UPDATE businesses
SET name = $2, slug = $3, industry = $4, size = $5, updated_at = NOW()
WHERE id = $1`

	deleteBusinessSQL = `DELETE FROM businesses WHERE id = $1`

	orphanBusinessesSQL = selectBusinessSQL + `
WHERE b.created_at < $1
  AND NOT EXISTS (SELECT 1 FROM business_members m WHERE m.business_id = b.id)
ORDER BY b.created_at`
)

type businessesRepo struct {
	db querier
}

func (r *businessesRepo) CreateBusiness(ctx context.Context, b domain.Business) error {
	_, err := r.db.Exec(ctx, createBusinessSQL, b.ID, b.Name, b.Slug, b.Industry, b.Size)
	return mapWriteErr(err)
}

func (r *businessesRepo) GetBusinessByID(ctx context.Context, id string) (domain.Business, error) {
	b, err := scanBusiness(r.db.QueryRow(ctx, selectBusinessSQL+` WHERE b.id = $1`, id))
	if err != nil {
		return domain.Business{}, mapNotFound(err)
	}
	return b, nil
}

func (r *businessesRepo) UpdateBusiness(ctx context.Context, b domain.Business) error {
	tag, err := r.db.Exec(ctx, updateBusinessSQL, b.ID, b.Name, b.Slug, b.Industry, b.Size)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *businessesRepo) DeleteBusiness(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, deleteBusinessSQL, id)
	return err
}

func (r *businessesRepo) ListOrphanBusinesses(ctx context.Context, cutoff time.Time) ([]domain.Business, error) {
	rows, err := r.db.Query(ctx, orphanBusinessesSQL, cutoff.UTC())
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Business, error) {
		return scanBusiness(row)
	})
}

func scanBusiness(row pgx.Row) (domain.Business, error) {
	var b domain.Business
	err := row.Scan(&b.ID, &b.Name, &b.Slug, &b.Industry, &b.Size, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}
