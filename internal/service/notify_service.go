package service

import (
	"fmt"

	"github.com/rs/zerolog/log"
	gomail "gopkg.in/gomail.v2"

	"github.com/retailnet/retail_api/internal/config"
)

// MailNotifier sends messages over SMTP.
type MailNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailNotifier constructs a MailNotifier from SMTP config.
func NewMailNotifier(cfg *config.SMTPConfig) *MailNotifier {
	return &MailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers one plain-text message.
func (n *MailNotifier) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// notify sends best-effort: failures are logged, never escalated to callers.
func notify(n Notifier, to, subject, body string) {
	if n == nil {
		return
	}
	if err := n.Send(to, subject, body); err != nil {
		log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("notification send failed")
	}
}

// Message templates for the three confirmation flows.
const (
	subjectActivation   = "Email confirmation"
	subjectPasswordRst  = "Password reset"
	subjectOrderConfirm = "Order confirmation"
)

func activationBody(key string) string {
	return fmt.Sprintf("Your registration confirmation code:\n\n%s", key)
}

func passwordResetBody(key string) string {
	return fmt.Sprintf("Your password reset code:\n\n%s", key)
}

func orderConfirmBody(key string) string {
	return fmt.Sprintf("Your order confirmation code:\n\n%s", key)
}
