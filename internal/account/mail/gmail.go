package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenantry/pkg/slogx"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailSender sends through the Gmail API as an impersonated workspace user.
type GmailSender struct {
	svc  *gmail.Service
	from string
}

// NewGmailSender builds a sender from a service account key with domain-wide
// delegation. credentials is either the key JSON or a path to it.
func NewGmailSender(ctx context.Context, credentials, impersonate string) (*GmailSender, error) {
	key := []byte(credentials)
	if !strings.HasPrefix(strings.TrimSpace(credentials), "{") {
		b, err := os.ReadFile(credentials)
		if err != nil {
			return nil, fmt.Errorf("read mailer credentials: %w", err)
		}
		key = b
	}

	cfg, err := google.JWTConfigFromJSON(key, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parse mailer credentials: %w", err)
	}
	cfg.Subject = impersonate

	return NewGmailSenderWithOptions(ctx, impersonate, option.WithTokenSource(cfg.TokenSource(ctx)))
}

// NewGmailSenderWithOptions is NewGmailSender with explicit client options.
func NewGmailSenderWithOptions(ctx context.Context, from string, opts ...option.ClientOption) (*GmailSender, error) {
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &GmailSender{svc: svc, from: from}, nil
}

func (g *GmailSender) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	raw, err := buildMessage(g.from, to, subject, htmlBody, newMessageID(g.from), time.Now())
	if err != nil {
		return "", err
	}

	msg, err := g.svc.Users.Messages.
		Send("me", &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)}).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("gmail send: %w", err)
	}

	slogx.FromContext(ctx).Debug("gmail accepted message", slog.String("message_id", msg.Id))
	return msg.Id, nil
}
