package accountsdk

import "time"

// ErrorResponse is the body of every non-2xx response, and of 200 responses
// reporting a benign "already done" outcome.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`

	// Kind is the machine-checkable error kind, e.g. "not_authorized".
	Kind string `json:"kind"`

	// Benign marks idempotence outcomes (already_accepted, already_member).
	Benign bool `json:"benign,omitempty"`

	// BusinessID is set on partial_failure so the orphan can be reconciled.
	BusinessID string `json:"business_id,omitempty"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ============================================================================
// Sessions
// ============================================================================

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by every endpoint that signs the caller in. The
// same token is also set as the session cookie.
type SessionResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      string    `json:"user_id"`

	// Next is the step the client should route to: password, onboarding or dashboard.
	Next string `json:"next"`

	BusinessID string `json:"business_id,omitempty"`
}

// StatusResponse describes the caller's classification.
type StatusResponse struct {
	UserID           string   `json:"user_id"`
	Email            string   `json:"email"`
	Methods          []string `json:"methods"`
	HasEmailIdentity bool     `json:"has_email_identity"`
	PasswordSet      bool     `json:"password_set"`
	Invited          bool     `json:"invited"`
	Status           string   `json:"status"`
	Next             string   `json:"next"`
	BusinessID       string   `json:"business_id,omitempty"`
	Role             string   `json:"role,omitempty"`
	IsOwner          bool     `json:"is_owner"`
}

type SetPasswordRequest struct {
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type NextResponse struct {
	Next string `json:"next"`
}

// ============================================================================
// Invites
// ============================================================================

type SendInviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"` // defaults to member
}

type SendInviteResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	BusinessName string    `json:"business_name"`
	SentAt       time.Time `json:"sent_at"`
	ExpiresAt    time.Time `json:"expires_at"`

	// Token is only returned when a new token was minted. A deduplicated
	// request returns the existing invite without one.
	Token        string `json:"token,omitempty"`
	Deduplicated bool   `json:"deduplicated"`

	// Delivered is false when the mail transport failed; the invite still exists.
	Delivered bool `json:"delivered"`
}

// InviteView is the public projection of an invite.
type InviteView struct {
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	InviterEmail string    `json:"inviter_email"`
	BusinessName string    `json:"business_name"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AcceptInviteResponse struct {
	BusinessID string `json:"business_id"`
	Role       string `json:"role"`
	Next       string `json:"next"`
}

// ClaimInviteRequest creates the invited account and accepts in one call.
type ClaimInviteRequest struct {
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type InviteSummary struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	InviterEmail string    `json:"inviter_email"`
	SentAt       time.Time `json:"sent_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	Delivered    bool      `json:"delivered"`
	Expired      bool      `json:"expired"`
}

type ListInvitesResponse struct {
	Invites []InviteSummary `json:"invites"`
}

// ============================================================================
// Businesses
// ============================================================================

type OnboardingRequest struct {
	Name     string `json:"name"`
	Industry string `json:"industry,omitempty"`
	Size     string `json:"size,omitempty"`
}

type OnboardingResponse struct {
	BusinessID string `json:"business_id"`
	Next       string `json:"next"`
}

type BusinessResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Industry string `json:"industry"`
	Size     string `json:"size"`
	Role     string `json:"role"`
}

// UpdateBusinessRequest is a partial update. Nil fields are left unchanged.
type UpdateBusinessRequest struct {
	Name     *string `json:"name,omitempty"`
	Industry *string `json:"industry,omitempty"`
	Size     *string `json:"size,omitempty"`
}
