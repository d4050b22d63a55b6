// Package mailer sends transactional email over SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"recipe-blog-cms/config"

	"gopkg.in/gomail.v2"
)

type Sender interface {
	Send(ctx context.Context, toEmail, subject, body string) error
}

// New returns an SMTP sender, or a log-only sender when SMTP is not configured.
func New(cfg config.MailConfig, logger *slog.Logger) Sender {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Enabled() {
		return &logSender{logger: logger.With("component", "mailer")}
	}
	return &smtpSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword),
	}
}

type smtpSender struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
}

func (s *smtpSender) Send(ctx context.Context, toEmail, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.SMTPEmail, s.cfg.SMTPSender)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", toEmail, err)
	}
	return nil
}

type logSender struct {
	logger *slog.Logger
}

func (s *logSender) Send(_ context.Context, toEmail, subject, _ string) error {
	s.logger.Info("smtp not configured, mail skipped", "to", toEmail, "subject", subject)
	return nil
}
