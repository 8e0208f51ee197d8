package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the structured log instead of sending
// them. It is used when no SMTP server is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier writing to logger, or to the default
// logger when nil.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) NotifyAssignment(_ context.Context, msg Message) error {
	subject, body, err := Render(msg)
	if err != nil {
		return err
	}
	l.logger.Info("role assignment notification",
		"to", msg.Email,
		"variant", msg.Variant(),
		"subject", subject,
		"body", body,
	)
	return nil
}
