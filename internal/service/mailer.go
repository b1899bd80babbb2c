package service

import (
	"regexp"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Mail is a single outbound message. Plain carries the text fallback
// for clients that don't render HTML.
type Mail struct {
	To      string
	Subject string
	HTML    string
	Plain   string
}

// Mailer hands mail to a transport. Send blocks until the transport
// accepted or rejected the message, errors are never swallowed.
type Mailer interface {
	Send(m *Mail) error
}

// SMTPMailer delivers through the SMTP relay from the mail.* config
// section
type SMTPMailer struct{}

func (SMTPMailer) Send(m *Mail) error {
	msg := gomail.NewMessage()

	msg.SetHeader("From", viper.GetString("mail.from"))
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Plain)
	msg.AddAlternative("text/html", m.HTML)

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		viper.GetString("mail.username"),
		viper.GetString("mail.password"),
	)

	return d.DialAndSend(msg)
}

// MemoryMailer records messages instead of sending them. Used in
// tests to assert on what would have gone out.
type MemoryMailer struct {
	mu   sync.Mutex
	sent []*Mail

	// FailWith makes every Send return this error
	FailWith error
}

func (m *MemoryMailer) Send(mail *Mail) error {
	if m.FailWith != nil {
		return m.FailWith
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, mail)
	return nil
}

func (m *MemoryMailer) Sent() []*Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Mail(nil), m.sent...)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags derives the plain-text body from an HTML one
func StripTags(html string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(html, ""))
}
