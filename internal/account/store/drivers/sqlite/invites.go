package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/store"
	"github.com/aussiebroadwan/tenantry/internal/account/store/drivers/sqlite/gen"
)

type invitesRepo struct {
	q *gen.Queries
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	return mapWriteErr(r.q.CreateInvite(ctx, gen.CreateInviteParams{
		ID:           inv.ID,
		TokenHash:    inv.TokenHash,
		InviterID:    inv.InviterID,
		InviterEmail: inv.InviterEmail,
		BusinessID:   inv.BusinessID,
		BusinessName: inv.BusinessName,
		Email:        inv.Email,
		Role:         string(inv.Role),
		SentAt:       inv.SentAt.UTC(),
		ExpiresAt:    inv.ExpiresAt.UTC(),
	}))
}

func (r *invitesRepo) GetInviteByID(ctx context.Context, id string) (domain.Invite, error) {
	row, err := r.q.GetInviteByID(ctx, id)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return mapInvite(row), nil
}

func (r *invitesRepo) GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	row, err := r.q.GetInviteByTokenHash(ctx, hash)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return mapInvite(row), nil
}

func (r *invitesRepo) GetOutstandingInvite(
	ctx context.Context,
	businessID, email string,
) (domain.Invite, error) {
	row, err := r.q.GetOutstandingInvite(ctx, gen.GetOutstandingInviteParams{
		BusinessID: businessID,
		Email:      email,
	})
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return mapInvite(row), nil
}

func (r *invitesRepo) ListOutstandingInvites(ctx context.Context, businessID string) ([]domain.Invite, error) {
	rows, err := r.q.ListOutstandingInvites(ctx, businessID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Invite, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapInvite(row))
	}
	return out, nil
}

func (r *invitesRepo) RotateInviteToken(
	ctx context.Context,
	id, tokenHash string,
	sentAt, expiresAt time.Time,
) error {
	n, err := r.q.RotateInviteToken(ctx, gen.RotateInviteTokenParams{
		TokenHash: tokenHash,
		SentAt:    sentAt.UTC(),
		ExpiresAt: expiresAt.UTC(),
		ID:        id,
	})
	if err != nil {
		return mapWriteErr(err)
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

func (r *invitesRepo) MarkInviteDelivered(ctx context.Context, id string, at time.Time) error {
	return r.q.MarkInviteDelivered(ctx, gen.MarkInviteDeliveredParams{
		DeliveredAt: mapTimeNull(at),
		ID:          id,
	})
}

func (r *invitesRepo) MarkInviteAccepted(ctx context.Context, id, userID string, at time.Time) error {
	n, err := r.q.MarkInviteAccepted(ctx, gen.MarkInviteAcceptedParams{
		AcceptedAt: mapTimeNull(at),
		AcceptedBy: mapStringNull(userID),
		ID:         id,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

func (r *invitesRepo) DeleteInvite(ctx context.Context, id string) error {
	return r.q.DeleteInvite(ctx, id)
}

func (r *invitesRepo) DeleteExpiredInvites(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredInvites(ctx, now.UTC())
}
