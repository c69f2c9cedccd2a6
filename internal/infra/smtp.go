package infra

import (
	"bytes"
	"errors"
	"fmt"
	"net/smtp"

	"meubleerp/internal/config"

	"github.com/jordan-wright/email"
)

// ErrSMTPNonConfigure is returned by Send when no SMTP host is configured.
var ErrSMTPNonConfigure = errors.New("mailer: SMTP_HOST non configuré")

// Mailer wraps SMTP configuration for sending documents as PDF attachments.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Send mails body to `to` with the PDF bytes attached as filename.
func (m *Mailer) Send(to, subject, body, filename string, attachment []byte) error {
	if m.host == "" {
		return ErrSMTPNonConfigure
	}
	e, err := m.message(to, subject, body, filename, attachment)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}

func (m *Mailer) message(to, subject, body, filename string, attachment []byte) (*email.Email, error) {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if len(attachment) > 0 {
		if _, err := e.Attach(bytes.NewReader(attachment), filename, "application/pdf"); err != nil {
			return nil, fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}
	return e, nil
}

// MailSender delivers one e-mail with a PDF attachment.
type MailSender interface {
	Send(to, subject, body, filename string, attachment []byte) error
}

// GuardedMailer sends through a circuit breaker so a dead relay fails fast.
type GuardedMailer struct {
	sender  MailSender
	breaker *CircuitBreaker
}

func NewGuardedMailer(sender MailSender, cfg BreakerConfig) *GuardedMailer {
	return &GuardedMailer{sender: sender, breaker: NewCircuitBreaker(cfg)}
}

// Send returns ErrCircuitOpen without contacting the relay while it is suspended.
func (g *GuardedMailer) Send(to, subject, body, filename string, attachment []byte) error {
	return g.breaker.Execute(func() error {
		return g.sender.Send(to, subject, body, filename, attachment)
	})
}

// Status reports the breaker state for health checks.
func (g *GuardedMailer) Status() BreakerStatus {
	return g.breaker.Status()
}
