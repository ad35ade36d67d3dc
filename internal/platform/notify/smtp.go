package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// SMTPSender sends plain-text email over SMTP with STARTTLS. One message is
// sent per recipient address.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	logger zerolog.Logger
}

func NewSMTPSender(host string, port int, user, password string, logger zerolog.Logger) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   user,
		logger: logger,
	}
}

// SendEmail implements EmailSender. Per-recipient failures are logged and do
// not stop delivery to the remaining addresses.
func (s *SMTPSender) SendEmail(_ context.Context, to []string, subject, body string) error {
	var firstErr error
	for _, addr := range to {
		m := gomail.NewMessage()
		m.SetHeader("From", s.from)
		m.SetHeader("To", addr)
		m.SetHeader("Subject", subject)
		m.SetBody("text/plain", body)

		if err := s.dialer.DialAndSend(m); err != nil {
			s.logger.Error().Err(err).Str("to", addr).Msg("email failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("send email to %s: %w", addr, err)
			}
			continue
		}
		s.logger.Info().Str("to", addr).Msg("email sent")
	}
	return firstErr
}
