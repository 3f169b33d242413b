// Package notify holds the best-effort delivery channels behind the
// notification dispatcher. Channels may fail; the persisted notification
// row is the durable record and delivery errors are the caller's to log.
package notify

import (
	"context"
	"fmt"

	"github.com/go-gomail/gomail"

	"github.com/campuswell/counselbook/internal/model"
)

// EmailChannel delivers notifications over SMTP.
type EmailChannel struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailChannel(host string, port int, from, password string) *EmailChannel {
	return &EmailChannel{
		dialer: gomail.NewDialer(host, port, from, password),
		from:   from,
	}
}

func (c *EmailChannel) Name() string { return "email" }

// Deliver composes and sends the notification as a plain-text email.
// Recipients without an email address are skipped silently.
func (c *EmailChannel) Deliver(ctx context.Context, n *model.Notification, recipient *model.User) error {
	if recipient.Email == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", recipient.Email)
	m.SetHeader("Subject", n.Title)
	m.SetBody("text/plain", fmt.Sprintf("Hello %s,\n\n%s\n", recipient.FullName, n.Message))

	if err := c.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", recipient.Email, err)
	}
	return nil
}
