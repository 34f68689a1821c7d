package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"consignment-backend/internal/config"
)

// Notifier delivers a message to a recipient set. Delivery is best effort:
// callers log failures and carry on, they never fail the business transition
// that triggered the send.
type Notifier interface {
	Send(recipients []string, subject, body string) error
}

type smtpNotifier struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func New(cfg *config.Config) Notifier {
	return &smtpNotifier{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

func (n *smtpNotifier) Send(recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return nil
	}
	if n.host == "" {
		return fmt.Errorf("smtp is not configured")
	}

	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + strings.Join(recipients, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	var a smtp.Auth
	if n.username != "" {
		a = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	return smtp.SendMail(n.host+":"+n.port, a, n.from, recipients, []byte(msg))
}
