package senders

import (
	"context"

	"github.com/ilindan-dev/alertgate/internal/config"
	"github.com/ilindan-dev/alertgate/internal/domain/model"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// EmailSender delivers notifications via SMTP to a fixed recipient.
type EmailSender struct {
	dialer *gomail.Dialer
	from   string
	to     string
	logger zerolog.Logger
}

// NewEmailSender creates a new instance of EmailSender.
func NewEmailSender(cfg config.EmailConfig, logger *zerolog.Logger) *EmailSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &EmailSender{
		dialer: d,
		from:   cfg.From,
		to:     cfg.To,
		logger: logger.With().Str("component", "email_sender").Logger(),
	}
}

// Send implements the Sender interface for email.
func (s *EmailSender) Send(_ context.Context, msg *model.Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", msg.Title)
	m.SetBody("text/plain", msg.Body)

	// DialAndSend opens a connection, sends the email, and closes it.
	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error().Err(err).Stringer("request_id", msg.RequestID).Msg("failed to send email")
		return err
	}

	s.logger.Info().Stringer("request_id", msg.RequestID).Str("recipient", s.to).Msg("email sent successfully")
	return nil
}
