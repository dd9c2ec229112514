package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	mail "github.com/go-mail/mail"

	"github.com/Ganeshsaykara/email-wallet/internal/domain"
)

// SMTP TLS modes.
const (
	TLSModeAuto     = "auto"
	TLSModeStartTLS = "starttls"
	TLSModeSSL      = "ssl"
	TLSModeNone     = "none"
)

// SMTPConfig holds configuration for an SMTP relay.
type SMTPConfig struct {
	Host               string
	Port               int
	Username           string
	Password           string
	TLSMode            string
	InsecureSkipVerify bool
}

// dialer is the subset of *mail.Dialer used by smtpMailer.
type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type smtpMailer struct {
	dialer dialer
	from   string
	logger *slog.Logger
}

func newSMTPMailer(config MailerConfig, logger *slog.Logger) (*smtpMailer, error) {
	c := config.SMTP
	if c.Host == "" {
		return nil, fmt.Errorf("smtp host: %w", domain.ErrConfigurationMissing)
	}
	if config.FromAddress == "" {
		return nil, fmt.Errorf("smtp from address: %w", domain.ErrConfigurationMissing)
	}
	d := mail.NewDialer(c.Host, c.Port, c.Username, c.Password)
	d.TLSConfig = &tls.Config{
		ServerName:         c.Host,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
	// NewDialer turns on implicit TLS for port 465; explicit modes override it.
	switch c.TLSMode {
	case TLSModeSSL:
		d.SSL = true
	case TLSModeNone:
		d.SSL = false
		d.StartTLSPolicy = mail.NoStartTLS
	case TLSModeStartTLS:
		d.SSL = false
		d.StartTLSPolicy = mail.MandatoryStartTLS
	case "", TLSModeAuto:
		// Port 465 dials implicit TLS; otherwise STARTTLS is used when offered.
	default:
		return nil, fmt.Errorf("unknown smtp tls mode %q", c.TLSMode)
	}
	return &smtpMailer{dialer: d, from: config.Source(), logger: logger}, nil
}

func (s *smtpMailer) Send(ctx context.Context, to, subject, html, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)

	// multipart/alternative when both bodies are present
	if text != "" {
		m.SetBody("text/plain", text)
	}
	if html != "" {
		if text == "" {
			m.SetBody("text/html", html)
		} else {
			m.AddAlternative("text/html", html)
		}
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	s.logger.InfoContext(ctx, "email sent via SMTP", "to", to)
	return nil
}
