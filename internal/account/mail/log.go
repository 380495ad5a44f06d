package mail

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/tenantry/pkg/idx"
	"github.com/aussiebroadwan/tenantry/pkg/slogx"
)

// LogSender writes mail to the request logger instead of sending it. Use in development only.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	id := "log-" + idx.New().String()
	slogx.FromContext(ctx).Info("mail not sent (log driver)",
		slog.String("message_id", id),
		slog.String("to", to),
		slog.String("subject", subject),
		slog.Int("body_bytes", len(htmlBody)),
	)
	return id, nil
}
