package postgres

import (
	"context"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/jackc/pgx/v5"
)

const (
	createMembershipSQL = `INSERT INTO business_members (user_id, business_id, role)
VALUES ($1, $2, $3)`

	selectMembershipSQL = `SELECT user_id, business_id, role, created_at FROM business_members`
)

type membersRepo struct {
	db querier
}

func (r *membersRepo) CreateMembership(ctx context.Context, m domain.Membership) error {
	_, err := r.db.Exec(ctx, createMembershipSQL, m.UserID, m.BusinessID, string(m.Role))
	return mapWriteErr(err)
}

func (r *membersRepo) GetMembershipByUser(ctx context.Context, userID string) (domain.Membership, error) {
	m, err := scanMembership(r.db.QueryRow(ctx, selectMembershipSQL+` WHERE user_id = $1`, userID))
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membersRepo) ListMembersByBusiness(ctx context.Context, businessID string) ([]domain.Membership, error) {
	rows, err := r.db.Query(ctx, selectMembershipSQL+` WHERE business_id = $1 ORDER BY created_at`, businessID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Membership, error) {
		return scanMembership(row)
	})
}

func scanMembership(row pgx.Row) (domain.Membership, error) {
	var (
		m    domain.Membership
		role string
	)
	err := row.Scan(&m.UserID, &m.BusinessID, &role, &m.CreatedAt)
	m.Role = domain.Role(role)
	return m, err
}
