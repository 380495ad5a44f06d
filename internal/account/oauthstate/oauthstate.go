// Package oauthstate keeps the short-lived state of an OAuth redirect between
// the start and callback requests. Every state is single use.
package oauthstate

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is how long a user has to finish the provider consent screen.
const DefaultTTL = 10 * time.Minute

var ErrNotFound = errors.New("oauthstate: state not found or expired")

// State is what the callback needs to finish the flow.
type State struct {
	Provider string `json:"provider"`

	// Verifier is the PKCE code verifier sent with the token exchange.
	Verifier string `json:"verifier"`

	// Nonce is matched against the id_token nonce claim.
	Nonce string `json:"nonce"`

	// ReturnTo is a same-origin path to send the user to afterwards.
	ReturnTo string `json:"return_to,omitempty"`
}

type Store interface {
	Save(ctx context.Context, key string, st State, ttl time.Duration) error

	// Take returns and deletes the state. A second Take of the same key
	// returns ErrNotFound.
	Take(ctx context.Context, key string) (State, error)
}
