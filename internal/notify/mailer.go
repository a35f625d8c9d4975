package notify

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/courtwatch/courtwatch/internal/watch"
)

// Mailer sends plain-text mail over SMTP with PLAIN auth (STARTTLS is
// negotiated by net/smtp when the server offers it, which covers the Gmail
// app-password setup the original tool used).
type Mailer struct {
	host       string
	port       int
	sender     string
	password   string
	recipients []string
	logger     *slog.Logger
}

// NewMailer creates an SMTP mailer. Returns nil when sender or recipients
// are missing (delivery disabled) — the notifier treats a nil mailer as a
// logging no-op.
func NewMailer(host string, port int, sender, password string, recipients []string, logger *slog.Logger) *Mailer {
	if sender == "" || len(recipients) == 0 {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{
		host:       host,
		port:       port,
		sender:     sender,
		password:   password,
		recipients: recipients,
		logger:     logger,
	}
}

// Send delivers one message to all configured recipients.
func (m *Mailer) Send(subject, body string) error {
	msg := buildMIME(m.sender, m.recipients, subject, body)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.sender, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.sender, m.recipients, msg); err != nil {
		return fmt.Errorf("smtp send via %s: %w", addr, err)
	}
	m.logger.Info("email sent", "recipients", len(m.recipients), "subject", subject)
	return nil
}

// buildMIME assembles a minimal UTF-8 plain-text message.
func buildMIME(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// EmailNotifier is the watch.Notifier used in production: format the cycle's
// slots and mail them. With no mailer configured it logs the message instead,
// so a dry-run deployment still shows what would have been sent.
type EmailNotifier struct {
	Mailer   *Mailer
	Location *time.Location
	Logger   *slog.Logger
}

func (n *EmailNotifier) NotifySlots(slots []watch.Slot) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	subject, body := BuildMessage(slots, n.Location)

	if n.Mailer == nil {
		logger.Info("email delivery disabled, printing message instead",
			"subject", subject, "body", body)
		return nil
	}
	return n.Mailer.Send(subject, body)
}
