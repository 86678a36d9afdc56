// Package email provides the send_email tool: one plain-text message
// submitted through an SMTP relay with mandatory STARTTLS and
// authentication. Retries, if any, belong to the orchestration layer;
// this adapter performs none.
package email

import (
	"context"
	"fmt"
	"time"

	mail "gopkg.in/mail.v2"

	"github.com/calebsh/toolchat/tool"
)

// Config holds the mail relay settings loaded once at startup.
type Config struct {
	Host     string
	Port     int
	From     string // sender address, doubles as the SMTP username
	Password string
	Timeout  time.Duration // dial/IO bound, 0 = 10s
}

// Mailer submits a single plain-text message. Abstracted so tests can
// substitute the SMTP transport.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	dialer *mail.Dialer
	from   string
}

// NewSMTPMailer creates a Mailer that dials cfg.Host, upgrades the session
// via STARTTLS, authenticates and submits the message.
func NewSMTPMailer(cfg Config) Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	dialer := mail.NewDialer(cfg.Host, cfg.Port, cfg.From, cfg.Password)
	dialer.Timeout = cfg.Timeout
	dialer.StartTLSPolicy = mail.MandatoryStartTLS
	return &smtpMailer{dialer: dialer, from: cfg.From}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// Tool implements tool.Tool for sending email.
type Tool struct {
	mailer Mailer
}

// New creates the email tool over the given mailer.
func New(mailer Mailer) *Tool {
	return &Tool{mailer: mailer}
}

// Name implements tool.Tool.
func (t *Tool) Name() string { return "send_email" }

// Description implements tool.Tool.
func (t *Tool) Description() string {
	return "Send a plain-text email to a recipient"
}

// Parameters implements tool.Tool.
func (t *Tool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to": map[string]any{
				"type":        "string",
				"description": "Recipient email address",
			},
			"subject": map[string]any{
				"type":        "string",
				"description": "Email subject line",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Email body text",
			},
		},
		"required": []string{"to", "subject", "content"},
	}
}

// Receipt is the send_email result payload.
type Receipt struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	SentAt  string `json:"sent_at"`
	Message string `json:"message"`
}

// Call implements tool.Tool.
func (t *Tool) Call(_ context.Context, args map[string]any) (any, error) {
	to, err := tool.RequireString(args, "to")
	if err != nil {
		return nil, err
	}
	subject, err := tool.RequireString(args, "subject")
	if err != nil {
		return nil, err
	}
	content, err := tool.RequireString(args, "content")
	if err != nil {
		return nil, err
	}

	if t.mailer == nil {
		return nil, fmt.Errorf("mail transport not configured")
	}
	if err := t.mailer.Send(to, subject, content); err != nil {
		return nil, fmt.Errorf("email delivery failed: %w", err)
	}

	return Receipt{
		To:      to,
		Subject: subject,
		SentAt:  time.Now().UTC().Format(time.RFC3339),
		Message: "email sent",
	}, nil
}
