// internal/notifier/notifier.go
package notifier

import (
	"context"
	"log/slog"
)

// Notifier delivers a notification to a user. Delivery is best-effort:
// callers log failures and never treat them as fatal.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogNotifier writes notifications to the structured log instead of
// delivering them. Used in development and whenever SMTP is not configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the notification and reports success.
func (n *LogNotifier) Send(_ context.Context, to, subject, body string) error {
	n.logger.Info("Notification (log only)", "to", to, "subject", subject, "body", body)
	return nil
}
