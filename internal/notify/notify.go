package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/studyhub/studyhub-server/internal/config"
)

// Notifier sends an email to a single recipient.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPNotifier sends mail through a plain-auth SMTP relay.
type SMTPNotifier struct {
	log  zerolog.Logger
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTPNotifier builds a notifier from SMTP configuration. Returns nil
// when no host is configured, which callers treat as notifications disabled.
func NewSMTPNotifier(cfg config.SMTPConfig, logger *zerolog.Logger) *SMTPNotifier {
	if cfg.Host == "" {
		return nil
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPNotifier{
		log:  *logger,
		host: cfg.Host,
		port: cfg.Port,
		user: cfg.Username,
		pass: cfg.Password,
		from: from,
	}
}

// Send delivers one message. The context is not threaded through net/smtp;
// the call is bounded by the SMTP server's own timeouts.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	auth := smtp.PlainAuth("", n.user, n.pass, n.host)
	if err := smtp.SendMail(addr, auth, n.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	n.log.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}
