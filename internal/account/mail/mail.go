// Package mail delivers invite emails. The workflow only ever hands it a
// recipient, a subject and a rendered HTML body.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/mail"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenantry/pkg/idx"
)

// Sender is the mail transport. Send returns the transport's message id.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// buildMessage renders a minimal RFC 822 HTML message.
func buildMessage(from, to, subject, htmlBody, msgID string, now time.Time) ([]byte, error) {
	fromAddr, err := mail.ParseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("mail: bad from address: %w", err)
	}
	toAddr, err := mail.ParseAddress(to)
	if err != nil {
		return nil, fmt.Errorf("mail: bad recipient: %w", err)
	}

	var b bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&b, "%s: %s\r\n", k, v) }
	header("From", fromAddr.String())
	header("To", toAddr.String())
	header("Subject", mime.QEncoding.Encode("utf-8", subject))
	header("Date", now.Format(time.RFC1123Z))
	header("Message-ID", msgID)
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="UTF-8"`)
	header("Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(htmlBody, "\n", "\r\n"))
	return b.Bytes(), nil
}

// newMessageID returns an RFC 5322 msg-id for the domain of from.
func newMessageID(from string) string {
	domain := "localhost"
	if at := strings.LastIndexByte(from, '@'); at >= 0 {
		domain = strings.Trim(from[at+1:], "> ")
	}
	return fmt.Sprintf("<%s@%s>", idx.New().String(), domain)
}

func envelopeAddr(s string) (string, error) {
	a, err := mail.ParseAddress(s)
	if err != nil {
		return "", fmt.Errorf("mail: bad address %q: %w", s, err)
	}
	return a.Address, nil
}
