package accountsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the tenantry HTTP API. A Client with Token set acts on
// behalf of that session.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithToken returns a copy of c authenticated with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*SessionResponse, error) {
	return call[SessionResponse](ctx, c, http.MethodPost, "/v1/signup", req, http.StatusCreated)
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	return call[SessionResponse](ctx, c, http.MethodPost, "/v1/login", req, http.StatusOK)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/v1/logout", nil, nil, http.StatusNoContent)
}

func (c *Client) Session(ctx context.Context) (*StatusResponse, error) {
	return call[StatusResponse](ctx, c, http.MethodGet, "/v1/session", nil, http.StatusOK)
}

func (c *Client) SetPassword(ctx context.Context, req SetPasswordRequest) (*NextResponse, error) {
	return call[NextResponse](ctx, c, http.MethodPost, "/v1/password", req, http.StatusOK)
}

func (c *Client) SendInvite(ctx context.Context, req SendInviteRequest) (*SendInviteResponse, error) {
	return call[SendInviteResponse](ctx, c, http.MethodPost, "/v1/invite", req, http.StatusCreated)
}

// FetchInvite is public and ignores Token.
func (c *Client) FetchInvite(ctx context.Context, token string) (*InviteView, error) {
	return call[InviteView](ctx, c, http.MethodGet, "/v1/invite/"+url.PathEscape(token), nil, http.StatusOK)
}

func (c *Client) AcceptInvite(ctx context.Context, token string) (*AcceptInviteResponse, error) {
	return call[AcceptInviteResponse](ctx, c, http.MethodPost, "/v1/invite/"+url.PathEscape(token)+"/accept", nil, http.StatusOK)
}

func (c *Client) ClaimInvite(ctx context.Context, token string, req ClaimInviteRequest) (*SessionResponse, error) {
	return call[SessionResponse](ctx, c, http.MethodPost, "/v1/invite/"+url.PathEscape(token)+"/claim", req, http.StatusCreated)
}

func (c *Client) CompleteOnboarding(ctx context.Context, req OnboardingRequest) (*OnboardingResponse, error) {
	return call[OnboardingResponse](ctx, c, http.MethodPost, "/v1/onboarding/company", req, http.StatusCreated)
}

func (c *Client) Business(ctx context.Context) (*BusinessResponse, error) {
	return call[BusinessResponse](ctx, c, http.MethodGet, "/v1/business", nil, http.StatusOK)
}

func (c *Client) UpdateBusiness(ctx context.Context, req UpdateBusinessRequest) (*BusinessResponse, error) {
	return call[BusinessResponse](ctx, c, http.MethodPatch, "/v1/business", req, http.StatusOK)
}

func (c *Client) ListInvites(ctx context.Context) (*ListInvitesResponse, error) {
	return call[ListInvitesResponse](ctx, c, http.MethodGet, "/v1/business/invites", nil, http.StatusOK)
}

func (c *Client) RevokeInvite(ctx context.Context, inviteID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/business/invites/"+url.PathEscape(inviteID), nil, nil, http.StatusNoContent)
}

func (c *Client) Liveness(ctx context.Context) (*HealthResponse, error) {
	return call[HealthResponse](ctx, c, http.MethodGet, "/livez", nil, http.StatusOK)
}

func (c *Client) Readiness(ctx context.Context) (*HealthResponse, error) {
	return call[HealthResponse](ctx, c, http.MethodGet, "/readyz", nil, http.StatusOK)
}

func call[T any](ctx context.Context, c *Client, method, path string, in any, want int) (*T, error) {
	var out T
	if err := c.do(ctx, method, path, in, &out, want); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, want int) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != want {
		return parseErrorResponse(resp, raw)
	}

	// Benign outcomes arrive as 200 with an error body.
	var probe struct {
		Benign bool `json:"benign"`
	}
	if len(raw) > 0 && json.Unmarshal(raw, &probe) == nil && probe.Benign {
		return parseErrorResponse(resp, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
