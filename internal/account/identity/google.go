package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleIssuer = "https://accounts.google.com"

var errNonceMismatch = errors.New("identity: id_token nonce mismatch")

// GoogleClient signs users in with Google using PKCE and verifies the
// returned id_token against Google's published keys.
type GoogleClient struct {
	config   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewGoogleClient discovers Google's OIDC metadata. It needs network access.
func NewGoogleClient(ctx context.Context, clientID, clientSecret, redirectURL string) (*GoogleClient, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("discover google oidc: %w", err)
	}

	return &GoogleClient{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (g *GoogleClient) AuthCodeURL(state, verifier, nonce string) string {
	return g.config.AuthCodeURL(state,
		oauth2.S256ChallengeOption(verifier),
		oidc.Nonce(nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

func (g *GoogleClient) Exchange(ctx context.Context, code, verifier, nonce string) (ExternalIdentity, error) {
	tok, err := g.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("exchange code: %w", err)
	}

	raw, ok := tok.Extra("id_token").(string)
	if !ok {
		return ExternalIdentity{}, errors.New("identity: missing id_token")
	}

	idToken, err := g.verifier.Verify(ctx, raw)
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("verify id_token: %w", err)
	}
	if idToken.Nonce != nonce {
		return ExternalIdentity{}, errNonceMismatch
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return ExternalIdentity{}, fmt.Errorf("decode id_token claims: %w", err)
	}

	return ExternalIdentity{
		Subject:       idToken.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
	}, nil
}
