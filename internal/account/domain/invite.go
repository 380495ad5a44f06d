package domain

import "time"

type InviteState string

const (
	InviteOutstanding InviteState = "outstanding"
	InviteAccepted    InviteState = "accepted"
	InviteExpired     InviteState = "expired"
)

type Invite struct {
	ID           string
	TokenHash    string
	InviterID    string
	InviterEmail string
	BusinessID   string
	BusinessName string
	Email        string
	Role         Role
	SentAt       time.Time
	ExpiresAt    time.Time
	DeliveredAt  *time.Time // nil until the mail transport confirmed a send
	AcceptedAt   *time.Time
	AcceptedBy   string
}

// State reports the lifecycle state at now. Acceptance wins over expiry.
func (i Invite) State(now time.Time) InviteState {
	switch {
	case i.AcceptedAt != nil:
		return InviteAccepted
	case !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt):
		return InviteExpired
	default:
		return InviteOutstanding
	}
}

// View is the public projection shown to whoever holds the token.
func (i Invite) View() InviteView {
	return InviteView{
		Email:        i.Email,
		Role:         i.Role,
		InviterEmail: i.InviterEmail,
		BusinessName: i.BusinessName,
		ExpiresAt:    i.ExpiresAt,
	}
}

type InviteView struct {
	Email        string
	Role         Role
	InviterEmail string
	BusinessName string
	ExpiresAt    time.Time
}

// IssuedInvite is returned to the inviter. Token is only set when a new token was minted.
type IssuedInvite struct {
	Invite  Invite
	Token   string
	Deduped bool
}
