package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL bounds a session cookie when no TTL is configured.
const DefaultSessionTTL = 24 * time.Hour

// Claims are the session claims carried by the tenantry session cookie.
// Anything that can change during a session (metadata, membership) is looked
// up on every request and is deliberately absent here.
type Claims struct {
	jwt.RegisteredClaims

	// SID identifies the login event so logout can be traced in logs.
	SID string `json:"sid"`

	Email string `json:"email"`

	// AMR lists the method used for this login: "email" or "google".
	AMR []string `json:"amr,omitempty"`
}

// NewSessionClaims builds claims for subject valid for ttl from now.
func NewSessionClaims(subject, sid, email string, amr []string, issuer string, ttl time.Duration, now time.Time) Claims {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        sid,
		},
		SID:   sid,
		Email: email,
		AMR:   amr,
	}
}

// Expiry returns exp or the zero time.
func (c Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Issued returns iat or the zero time.
func (c Claims) Issued() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}
