package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/store/drivers/sqlite/gen"
)

type membersRepo struct {
	q *gen.Queries
}

func (r *membersRepo) CreateMembership(ctx context.Context, m domain.Membership) error {
	return mapWriteErr(r.q.CreateMembership(ctx, gen.CreateMembershipParams{
		UserID:     m.UserID,
		BusinessID: m.BusinessID,
		Role:       string(m.Role),
		CreatedAt:  time.Now().UTC(),
	}))
}

func (r *membersRepo) GetMembershipByUser(ctx context.Context, userID string) (domain.Membership, error) {
	row, err := r.q.GetMembershipByUser(ctx, userID)
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}
	return mapMembership(row), nil
}

func (r *membersRepo) ListMembersByBusiness(ctx context.Context, businessID string) ([]domain.Membership, error) {
	rows, err := r.q.ListMembersByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapMembership(row))
	}
	return out, nil
}
