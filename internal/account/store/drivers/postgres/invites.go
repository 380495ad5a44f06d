package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/store"
	"github.com/jackc/pgx/v5"
)

const (
	createInviteSQL = `INSERT INTO invites (
    id, token_hash, inviter_id, inviter_email, business_id, business_name,
    email, role, sent_at, expires_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	selectInviteSQL = `SELECT id, token_hash, inviter_id, inviter_email, business_id, business_name,
    email, role, sent_at, expires_at, delivered_at, accepted_at, accepted_by FROM invites`

	rotateInviteTokenSQL = `UPDATE invites
SET token_hash = $2, sent_at = $3, expires_at = $4, delivered_at = NULL
WHERE id = $1 AND accepted_at IS NULL`

	markInviteDeliveredSQL = `UPDATE invites SET delivered_at = $2 WHERE id = $1`

	markInviteAcceptedSQL = `UPDATE invites
SET accepted_at = $2, accepted_by = $3
WHERE id = $1 AND accepted_at IS NULL`

	deleteInviteSQL = `DELETE FROM invites WHERE id = $1`

	deleteExpiredInvitesSQL = `DELETE FROM invites WHERE accepted_at IS NULL AND expires_at <= $1`
)

type invitesRepo struct {
	db querier
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	_, err := r.db.Exec(ctx, createInviteSQL,
		inv.ID,
		inv.TokenHash,
		inv.InviterID,
		inv.InviterEmail,
		inv.BusinessID,
		inv.BusinessName,
		inv.Email,
		string(inv.Role),
		inv.SentAt.UTC(),
		inv.ExpiresAt.UTC(),
	)
	return mapWriteErr(err)
}

func (r *invitesRepo) GetInviteByID(ctx context.Context, id string) (domain.Invite, error) {
	return r.getOne(ctx, selectInviteSQL+` WHERE id = $1`, id)
}

func (r *invitesRepo) GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	return r.getOne(ctx, selectInviteSQL+` WHERE token_hash = $1`, hash)
}

func (r *invitesRepo) GetOutstandingInvite(ctx context.Context, businessID, email string) (domain.Invite, error) {
	return r.getOne(ctx,
		selectInviteSQL+` WHERE business_id = $1 AND email = $2 AND accepted_at IS NULL`,
		businessID, email,
	)
}

func (r *invitesRepo) getOne(ctx context.Context, sql string, args ...any) (domain.Invite, error) {
	inv, err := scanInvite(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitesRepo) ListOutstandingInvites(ctx context.Context, businessID string) ([]domain.Invite, error) {
	rows, err := r.db.Query(ctx,
		selectInviteSQL+` WHERE business_id = $1 AND accepted_at IS NULL ORDER BY sent_at`,
		businessID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Invite, error) {
		return scanInvite(row)
	})
}

func (r *invitesRepo) RotateInviteToken(ctx context.Context, id, tokenHash string, sentAt, expiresAt time.Time) error {
	tag, err := r.db.Exec(ctx, rotateInviteTokenSQL, id, tokenHash, sentAt.UTC(), expiresAt.UTC())
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrConflict
	}
	return nil
}

func (r *invitesRepo) MarkInviteDelivered(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.Exec(ctx, markInviteDeliveredSQL, id, at.UTC())
	return err
}

func (r *invitesRepo) MarkInviteAccepted(ctx context.Context, id, userID string, at time.Time) error {
	tag, err := r.db.Exec(ctx, markInviteAcceptedSQL, id, at.UTC(), userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrConflict
	}
	return nil
}

func (r *invitesRepo) DeleteInvite(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, deleteInviteSQL, id)
	return err
}

func (r *invitesRepo) DeleteExpiredInvites(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteExpiredInvitesSQL, now.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanInvite(row pgx.Row) (domain.Invite, error) {
	var (
		inv        domain.Invite
		role       string
		acceptedBy *string
	)
	err := row.Scan(
		&inv.ID,
		&inv.TokenHash,
		&inv.InviterID,
		&inv.InviterEmail,
		&inv.BusinessID,
		&inv.BusinessName,
		&inv.Email,
		&role,
		&inv.SentAt,
		&inv.ExpiresAt,
		&inv.DeliveredAt,
		&inv.AcceptedAt,
		&acceptedBy,
	)
	inv.Role = domain.Role(role)
	if acceptedBy != nil {
		inv.AcceptedBy = *acceptedBy
	}
	return inv, err
}
