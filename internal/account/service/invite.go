package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	"github.com/aussiebroadwan/tenantry/internal/account/mail"
	"github.com/aussiebroadwan/tenantry/internal/account/metrics"
	"github.com/aussiebroadwan/tenantry/internal/account/policy"
	"github.com/aussiebroadwan/tenantry/internal/account/store"
	"github.com/aussiebroadwan/tenantry/pkg/cryptox"
	"github.com/aussiebroadwan/tenantry/pkg/idx"
	"github.com/aussiebroadwan/tenantry/pkg/slogx"
)

const (
	DefaultInviteTTL = 7 * 24 * time.Hour

	// resendAfter is how long an undelivered invite is left alone before a
	// repeated create may rotate its token and send again. It keeps two
	// racing creates from both mailing.
	resendAfter = time.Minute
)

var (
	ErrInviteOwner = &domain.Error{Kind: domain.KindValidation, Msg: "invites cannot grant ownership"}
	ErrInviteSelf  = &domain.Error{Kind: domain.KindValidation, Msg: "you cannot invite yourself"}
)

// Inviter identifies the caller creating an invite.
type Inviter struct {
	UserID string
	Email  string
}

// AcceptResult reports what an accept produced.
type AcceptResult struct {
	Invite     domain.Invite
	Membership domain.Membership
}

type InviteService struct {
	Store   store.Store
	Policy  *policy.Policy
	Mailer  mail.Sender
	Metrics *metrics.Metrics

	// TTL is the validity window of a new or re-sent invite.
	TTL time.Duration

	// BaseURL prefixes the accept link: BaseURL + "/invite/" + token.
	BaseURL string

	// MailTimeout bounds a single send.
	MailTimeout time.Duration

	Now func() time.Time
}

func (s *InviteService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *InviteService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultInviteTTL
	}
	return s.TTL
}

// Create issues an invite for targetEmail into the inviter's business.
//
// Order: validate, authorize, member guard, dedup, insert, send. A repeated
// create for the same (business, email) returns the outstanding invite
// without a token and without mail. The mail is sent after the row commits;
// a failed send returns the stored invite together with a DeliveryError.
func (s *InviteService) Create(ctx context.Context, inviter Inviter, targetEmail, roleName string) (domain.IssuedInvite, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	email, err := domain.NormalizeEmail(targetEmail)
	if err != nil {
		return domain.IssuedInvite{}, err
	}
	role, err := domain.ParseRole(roleName)
	if err != nil {
		return domain.IssuedInvite{}, err
	}
	if role == domain.RoleOwner {
		return domain.IssuedInvite{}, ErrInviteOwner
	}
	if strings.EqualFold(email, inviter.Email) {
		return domain.IssuedInvite{}, ErrInviteSelf
	}

	// 2. Authorize against the inviter's own membership.
	m, err := s.Store.Members().GetMembershipByUser(ctx, inviter.UserID)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("invite attempted without a business", slog.String("user_id", inviter.UserID))
		return domain.IssuedInvite{}, domain.ErrNotAuthorized
	}
	if err != nil {
		return domain.IssuedInvite{}, domain.Transport("invite.membership", err)
	}
	if !s.Policy.CanGrant(m.Role, role) {
		log.Warn("invite rejected by policy",
			slog.String("user_id", inviter.UserID),
			slog.String("inviter_role", m.Role.String()),
			slog.String("target_role", role.String()),
		)
		return domain.IssuedInvite{}, domain.ErrNotAuthorized
	}

	// 3. Someone with this email already in the business needs no invite.
	if err := s.guardExistingMember(ctx, m.BusinessID, email); err != nil {
		return domain.IssuedInvite{}, err
	}

	biz, err := s.Store.Businesses().GetBusinessByID(ctx, m.BusinessID)
	if err != nil {
		return domain.IssuedInvite{}, storeErr("invite.business", err)
	}

	// 4. Dedup on (business, email).
	now := s.now()
	existing, err := s.Store.Invites().GetOutstandingInvite(ctx, biz.ID, email)
	switch {
	case err == nil && existing.State(now) == domain.InviteExpired:
		if err := s.Store.Invites().DeleteInvite(ctx, existing.ID); err != nil {
			return domain.IssuedInvite{}, domain.Transport("invite.replace_expired", err)
		}
		log.Debug("expired invite replaced", slog.String("invite_id", existing.ID))

	case err == nil && existing.DeliveredAt == nil && now.Sub(existing.SentAt) >= resendAfter:
		return s.resend(ctx, existing)

	case err == nil:
		s.Metrics.Invite(metrics.InviteDeduplicated)
		log.Debug("invite deduplicated", slog.String("invite_id", existing.ID))
		return domain.IssuedInvite{Invite: existing, Deduped: true}, nil

	case !errors.Is(err, store.ErrNotFound):
		return domain.IssuedInvite{}, domain.Transport("invite.dedup", err)
	}

	// 5. Insert.
	token, hash, err := cryptox.NewOpaqueToken()
	if err != nil {
		return domain.IssuedInvite{}, err
	}
	inv := domain.Invite{
		ID:           idx.NewAt(now).String(),
		TokenHash:    hash,
		InviterID:    inviter.UserID,
		InviterEmail: inviter.Email,
		BusinessID:   biz.ID,
		BusinessName: biz.Name,
		Email:        email,
		Role:         role,
		SentAt:       now,
		ExpiresAt:    now.Add(s.ttl()),
	}
	if err := s.Store.Invites().CreateInvite(ctx, inv); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost the race to a concurrent create; converge on its row.
			winner, ferr := s.Store.Invites().GetOutstandingInvite(ctx, biz.ID, email)
			if ferr != nil {
				return domain.IssuedInvite{}, storeErr("invite.dedup_refetch", ferr)
			}
			s.Metrics.Invite(metrics.InviteDeduplicated)
			return domain.IssuedInvite{Invite: winner, Deduped: true}, nil
		}
		log.Error("failed to store invite", slog.Any("error", err))
		return domain.IssuedInvite{}, domain.Transport("invite.create", err)
	}

	s.Metrics.Invite(metrics.InviteCreated)
	log.Info("invite created",
		slog.String("invite_id", inv.ID),
		slog.String("business_id", inv.BusinessID),
		slog.String("role", inv.Role.String()),
	)

	// 6. Send.
	issued := domain.IssuedInvite{Invite: inv, Token: token}
	return s.deliver(ctx, issued)
}

// resend rotates the token of an undelivered invite and mails it again.
func (s *InviteService) resend(ctx context.Context, inv domain.Invite) (domain.IssuedInvite, error) {
	token, hash, err := cryptox.NewOpaqueToken()
	if err != nil {
		return domain.IssuedInvite{}, err
	}

	now := s.now()
	err = s.Store.Invites().RotateInviteToken(ctx, inv.ID, hash, now, now.Add(s.ttl()))
	if errors.Is(err, store.ErrConflict) {
		// Accepted between the lookup and the rotation.
		return domain.IssuedInvite{}, domain.ErrAlreadyAccepted
	}
	if err != nil {
		return domain.IssuedInvite{}, domain.Transport("invite.rotate", err)
	}

	inv.TokenHash, inv.SentAt, inv.ExpiresAt = hash, now, now.Add(s.ttl())
	slogx.FromContext(ctx).Info("undelivered invite re-sent", slog.String("invite_id", inv.ID))
	return s.deliver(ctx, domain.IssuedInvite{Invite: inv, Token: token, Deduped: true})
}

func (s *InviteService) deliver(ctx context.Context, issued domain.IssuedInvite) (domain.IssuedInvite, error) {
	log := slogx.FromContext(ctx)
	inv := issued.Invite

	subject, body, err := mail.RenderInvite(mail.InviteEmail{
		BusinessName: inv.BusinessName,
		InviterEmail: inv.InviterEmail,
		Role:         inv.Role.String(),
		Link:         s.AcceptLink(issued.Token),
		ExpiresAt:    inv.ExpiresAt,
	})
	if err != nil {
		return issued, &domain.DeliveryError{InviteID: inv.ID, Err: err}
	}

	msgID, err := within(ctx, s.MailTimeout, func(ctx context.Context) (string, error) {
		return s.Mailer.Send(ctx, inv.Email, subject, body)
	})
	if err != nil {
		s.Metrics.Invite(metrics.InviteDeliveryFailed)
		log.Error("invite stored but mail delivery failed",
			slog.String("invite_id", inv.ID),
			slog.Any("error", err),
		)
		return issued, &domain.DeliveryError{InviteID: inv.ID, Err: err}
	}

	at := s.now()
	if err := s.Store.Invites().MarkInviteDelivered(ctx, inv.ID, at); err != nil {
		// The mail went out; a missing mark only allows one extra resend later.
		log.Warn("failed to record invite delivery", slog.String("invite_id", inv.ID), slog.Any("error", err))
	} else {
		issued.Invite.DeliveredAt = &at
	}

	s.Metrics.Invite(metrics.InviteDelivered)
	log.Info("invite delivered", slog.String("invite_id", inv.ID), slog.String("message_id", msgID))
	return issued, nil
}

// AcceptLink is the URL mailed to the invitee.
func (s *InviteService) AcceptLink(token string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/invite/" + url.PathEscape(token)
}

func (s *InviteService) guardExistingMember(ctx context.Context, businessID, email string) error {
	users, err := s.Store.Users().ListUsersByEmail(ctx, email)
	if err != nil {
		return domain.Transport("invite.member_guard", err)
	}
	for _, u := range users {
		m, err := s.Store.Members().GetMembershipByUser(ctx, u.ID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return domain.Transport("invite.member_guard", err)
		}
		if m.BusinessID == businessID {
			return domain.ErrAlreadyMember
		}
	}
	return nil
}

// Lookup resolves a token to an outstanding invite.
func (s *InviteService) Lookup(ctx context.Context, token string) (domain.Invite, error) {
	if token == "" {
		return domain.Invite{}, domain.ErrInviteNotFound
	}

	inv, err := s.Store.Invites().GetInviteByTokenHash(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Invite{}, domain.ErrInviteNotFound
	}
	if err != nil {
		return domain.Invite{}, domain.Transport("invite.lookup", err)
	}
	return inv, checkRedeemable(inv, s.now())
}

// Fetch is the public, read-only view of an invite.
func (s *InviteService) Fetch(ctx context.Context, token string) (domain.InviteView, error) {
	inv, err := s.Lookup(ctx, token)
	if err != nil {
		return domain.InviteView{}, err
	}
	return inv.View(), nil
}

func checkRedeemable(inv domain.Invite, now time.Time) error {
	switch inv.State(now) {
	case domain.InviteAccepted:
		return domain.ErrAlreadyAccepted
	case domain.InviteExpired:
		return domain.ErrInviteNotFound
	default:
		return nil
	}
}

// Accept redeems token for userID in one transaction: the conditional
// accepted_at transition runs first and only its winner inserts the
// membership. A user already in the same business consumes the invite and
// gets the benign AlreadyMember; a member of another business gets Conflict
// and nothing is written.
func (s *InviteService) Accept(ctx context.Context, token, userID string) (AcceptResult, error) {
	log := slogx.FromContext(ctx)
	if token == "" {
		return AcceptResult{}, domain.ErrInviteNotFound
	}
	hash := cryptox.FingerprintToken(token)

	var (
		res    AcceptResult
		benign error
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		now := s.now()

		inv, err := tx.Invites().GetInviteByTokenHash(ctx, hash)
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrInviteNotFound
		}
		if err != nil {
			return err
		}
		if err := checkRedeemable(inv, now); err != nil {
			return err
		}

		current, err := tx.Members().GetMembershipByUser(ctx, userID)
		switch {
		case err == nil && current.BusinessID != inv.BusinessID:
			return fmt.Errorf("%w: already a member of another business", domain.ErrConflict)
		case err == nil:
			benign = domain.ErrAlreadyMember
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		if err := tx.Invites().MarkInviteAccepted(ctx, inv.ID, userID, now); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return domain.ErrAlreadyAccepted
			}
			return err
		}
		inv.AcceptedAt, inv.AcceptedBy = &now, userID
		res.Invite = inv

		if benign != nil {
			res.Membership = current
			return nil
		}

		m := domain.Membership{UserID: userID, BusinessID: inv.BusinessID, Role: inv.Role, CreatedAt: now}
		if err := tx.Members().CreateMembership(ctx, m); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return fmt.Errorf("%w: membership changed concurrently", domain.ErrConflict)
			}
			return err
		}
		res.Membership = m
		return nil
	})
	if err != nil {
		switch domain.KindOf(err) {
		case domain.KindAlreadyAccepted:
			s.Metrics.Invite(metrics.InviteAcceptConflict)
			log.Warn("invite already accepted", slog.String("user_id", userID))
		case domain.KindNotFound, domain.KindConflict:
			log.Warn("invite accept rejected", slog.String("user_id", userID), slog.Any("error", err))
		default:
			log.Error("invite accept failed", slog.String("user_id", userID), slog.Any("error", err))
			err = domain.Transport("invite.accept", err)
		}
		return AcceptResult{}, err
	}

	s.Metrics.Invite(metrics.InviteAccepted)
	log.Info("invite accepted",
		slog.String("invite_id", res.Invite.ID),
		slog.String("business_id", res.Invite.BusinessID),
		slog.String("user_id", userID),
		slog.Bool("already_member", benign != nil),
	)
	return res, benign
}

// ListOutstanding returns the open invites of the actor's business.
func (s *InviteService) ListOutstanding(ctx context.Context, actorID string) ([]domain.Invite, error) {
	m, err := s.authorizedMembership(ctx, actorID, s.Policy.CanListInvites)
	if err != nil {
		return nil, err
	}
	invs, err := s.Store.Invites().ListOutstandingInvites(ctx, m.BusinessID)
	if err != nil {
		return nil, domain.Transport("invite.list", err)
	}
	return invs, nil
}

// Revoke deletes an outstanding invite of the actor's business.
func (s *InviteService) Revoke(ctx context.Context, actorID, inviteID string) error {
	m, err := s.authorizedMembership(ctx, actorID, s.Policy.CanRevokeInvite)
	if err != nil {
		return err
	}

	inv, err := s.Store.Invites().GetInviteByID(ctx, inviteID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && inv.BusinessID != m.BusinessID) {
		return domain.ErrInviteNotFound
	}
	if err != nil {
		return domain.Transport("invite.revoke", err)
	}
	if inv.AcceptedAt != nil {
		return domain.ErrAlreadyAccepted
	}

	if err := s.Store.Invites().DeleteInvite(ctx, inv.ID); err != nil {
		return domain.Transport("invite.revoke", err)
	}

	s.Metrics.Invite(metrics.InviteRevoked)
	slogx.FromContext(ctx).Info("invite revoked", slog.String("invite_id", inv.ID), slog.String("user_id", actorID))
	return nil
}

func (s *InviteService) authorizedMembership(ctx context.Context, userID string, allow func(domain.Role) bool) (domain.Membership, error) {
	m, err := s.Store.Members().GetMembershipByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Membership{}, domain.ErrNotAuthorized
	}
	if err != nil {
		return domain.Membership{}, domain.Transport("invite.membership", err)
	}
	if !allow(m.Role) {
		return domain.Membership{}, domain.ErrNotAuthorized
	}
	return m, nil
}

// DeleteExpired removes outstanding invites past their expiry.
func (s *InviteService) DeleteExpired(ctx context.Context) (int64, error) {
	n, err := s.Store.Invites().DeleteExpiredInvites(ctx, s.now())
	if err != nil {
		return 0, domain.Transport("invite.delete_expired", err)
	}
	return n, nil
}
