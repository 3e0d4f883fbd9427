package notification

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/lihess/lihess-backend/internal"
)

// Mailer delivers a message to an email address.
type Mailer interface {
	Send(to, subject, message string) error
}

// SMTPMailer sends plain text mail over SMTP with PLAIN auth. When the host
// is not configured it logs and drops the message, so development setups run
// without a mail server.
type SMTPMailer struct {
	cfg    internal.SMTPConfig
	logger *slog.Logger
}

func NewSMTPMailer(cfg internal.SMTPConfig, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

func (m *SMTPMailer) Send(to, subject, message string) error {
	if m.cfg.Host == "" || m.cfg.User == "" {
		m.logger.Warn("smtp not configured, dropping email", "to", to, "subject", subject)
		return nil
	}

	auth := sasl.NewPlainClient("", m.cfg.User, m.cfg.Password)
	addr := m.cfg.Host + ":" + m.cfg.Port

	headers := "MIME-version: 1.0;\nContent-Type: text/plain; charset=\"UTF-8\";\r\n"
	body := strings.NewReader(fmt.Sprintf("Subject: %s\n%s\r\n%s\r\n", subject, headers, message))

	var err error
	if m.cfg.TLSEnabled {
		err = smtp.SendMailTLS(addr, auth, m.cfg.From, []string{to}, body)
	} else {
		err = smtp.SendMail(addr, auth, m.cfg.From, []string{to}, body)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("email sent", "to", to, "subject", subject)
	return nil
}
