// Package email sends account notification mail. Sending is best effort:
// callers log failures and continue, a broken mail server must never fail
// the operation the mail was attached to.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Sender delivers account mail.
type Sender interface {
	SendWelcome(ctx context.Context, to string) error
}

// =============================================================================
// Noop Sender
// =============================================================================

// NoopSender logs instead of sending. Used when SMTP is not configured.
type NoopSender struct {
	logger *slog.Logger
}

// NewNoopSender creates a sender that only logs.
func NewNoopSender(logger *slog.Logger) *NoopSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopSender{logger: logger}
}

func (s *NoopSender) SendWelcome(_ context.Context, to string) error {
	s.logger.Info("smtp not configured, skipping welcome email", "to", to)
	return nil
}

// =============================================================================
// SMTP Sender
// =============================================================================

// SMTPConfig holds mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers mail over plain SMTP.
type SMTPSender struct {
	config SMTPConfig
	logger *slog.Logger
}

// NewSMTPSender creates an SMTP-backed sender.
func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.From == "" {
		cfg.From = "no-reply@example.com"
	}
	return &SMTPSender{config: cfg, logger: logger}
}

func (s *SMTPSender) SendWelcome(_ context.Context, to string) error {
	body := fmt.Sprintf("From: The Sandwich <%s>\r\nTo: %s\r\nSubject: Welcome to The Sandwich\r\n\r\n"+
		"Thanks for signing up. Build your first sandwich whenever you're hungry.\r\n",
		s.config.From, to)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	if err := smtp.SendMail(addr, auth, s.config.From, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	s.logger.Info("welcome email sent", "to", to)
	return nil
}
