// Package mailer delivers one-time login codes. Without SMTP configuration it
// degrades to logging the code, which keeps local development passwordless.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// Sender delivers an OTP to a recipient.
type Sender interface {
	SendOTP(ctx context.Context, email, code string) error
}

// Config holds SMTP settings. An empty Host selects the logging sender.
type Config struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// New picks an SMTP sender when a host is configured, otherwise a log sender.
func New(cfg Config, logger *zap.Logger) Sender {
	if cfg.Host == "" {
		return &LogSender{logger: logger}
	}
	return &SMTPSender{cfg: cfg, logger: logger}
}

// SMTPSender delivers codes over plain-auth SMTP.
type SMTPSender struct {
	cfg    Config
	logger *zap.Logger
}

// SendOTP sends the code as a short plain-text email.
func (s *SMTPSender) SendOTP(_ context.Context, email, code string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your ChargeHub login code\r\n\r\nYour one-time code is %s. It expires in 5 minutes.\r\n",
		s.cfg.From, email, code,
	)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("mailer: send otp: %w", err)
	}
	return nil
}

// LogSender writes the code to the log instead of sending mail.
type LogSender struct {
	logger *zap.Logger
}

// SendOTP logs the code.
func (s *LogSender) SendOTP(_ context.Context, email, code string) error {
	s.logger.Info("otp code issued", zap.String("email", email), zap.String("code", code))
	return nil
}
