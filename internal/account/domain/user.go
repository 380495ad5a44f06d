package domain

import (
	"fmt"
	"time"
)

// Provider names an authentication method linked to a user.
type Provider string

const (
	ProviderEmail  Provider = "email"
	ProviderGoogle Provider = "google"
)

func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderEmail, ProviderGoogle:
		return Provider(s), nil
	default:
		return "", fmt.Errorf("%w: unknown provider %q", ErrValidation, s)
	}
}

// Metadata is the flag set the identity provider keeps per user.
type Metadata struct {
	PasswordSet bool   `json:"password_set,omitempty"`
	Invited     string `json:"invited,omitempty"` // invite id the account originated from
}

// MetadataPatch merges into Metadata. Nil fields are left untouched.
type MetadataPatch struct {
	PasswordSet *bool
	Invited     *string
}

func (m Metadata) Merge(p MetadataPatch) Metadata {
	if p.PasswordSet != nil {
		m.PasswordSet = *p.PasswordSet
	}
	if p.Invited != nil {
		m.Invited = *p.Invited
	}
	return m
}

type User struct {
	ID           string
	Email        string
	PasswordHash string // argon2 encoded, empty for OAuth-only accounts
	Metadata     Metadata
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity links a user to one authentication method.
type Identity struct {
	UserID    string
	Provider  Provider
	Subject   string // provider account id; the email for password identities
	Email     string
	CreatedAt time.Time
}
