package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	TLS      bool
	Username string
	Password string
	From     string
}

// EmailNotifier sends assignment notifications over SMTP.
type EmailNotifier struct {
	cfg    SMTPConfig
	client *mail.Client
}

// NewEmailNotifier creates the SMTP client. Authentication is only enabled
// when both username and password are set.
func NewEmailNotifier(cfg SMTPConfig) (*EmailNotifier, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("smtp from address is required")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(30 * time.Second),
	}

	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	if cfg.TLS {
		opts = append(opts,
			mail.WithTLSConfig(&tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}),
			mail.WithTLSPolicy(mail.TLSMandatory),
		)
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating mail client: %w", err)
	}

	slog.Info("email notifier configured", "host", cfg.Host, "port", cfg.Port, "tls", cfg.TLS)
	return &EmailNotifier{cfg: cfg, client: client}, nil
}

// NotifyAssignment renders the message and sends it to msg.Email.
func (e *EmailNotifier) NotifyAssignment(ctx context.Context, msg Message) error {
	if msg.Email == "" {
		return errors.New("email notification requires a recipient")
	}

	subject, body, err := Render(msg)
	if err != nil {
		return err
	}

	m := mail.NewMsg()
	if err := m.From(e.cfg.From); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := m.To(msg.Email); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, body)

	if err := e.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	slog.Info("sent role assignment notification", "to", msg.Email, "variant", msg.Variant())
	return nil
}
