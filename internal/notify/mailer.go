package notify

import (
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Email is one transactional message.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer is the narrow interface to the email transport.
type Mailer interface {
	Send(msg Email) error
}

// SMTPMailer delivers mail through a configured SMTP account.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, pass string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   user,
	}
}

func (m *SMTPMailer) Send(msg Email) error {
	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", msg.Body)
	return m.dialer.DialAndSend(mail)
}

// LogMailer is the fallback when no SMTP account is configured; it only
// records what would have been sent.
type LogMailer struct {
	Log *zap.Logger
}

func (m *LogMailer) Send(msg Email) error {
	m.Log.Info("email (not sent, SMTP unconfigured)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
