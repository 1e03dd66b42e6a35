// Package mailer delivers notification emails over SMTP.  It is the only
// place in the codebase that talks to a mail relay; everything else goes
// through the auth.Notifier interface.
package mailer

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/catalogstudio/auth-service/internal/config"
)

// Sender sends HTML mail through a single configured relay.  It satisfies
// auth.Notifier, so it can be wired directly into the service for
// deployments that run without a message broker.
type Sender struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewSender builds a Sender from server config.
func NewSender(cfg config.Config) *Sender {
	return &Sender{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.SMTPFrom,
	}
}

// Send delivers one message.  The body is sent as HTML because the product
// templates (OTP code, welcome mail) use markup.
func (s *Sender) Send(to, subject, body string) error {
	if s.host == "" || s.from == "" {
		return errors.New("smtp not configured")
	}
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var a smtp.Auth
	if s.user != "" {
		a = smtp.PlainAuth("", s.user, s.pass, s.host)
	}
	return smtp.SendMail(s.host+":"+s.port, a, s.from, []string{to}, []byte(msg.String()))
}
