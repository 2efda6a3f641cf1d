// Package mailer sends transactional email. Delivery is fire-and-forget
// from the caller's point of view: failures are logged at the dispatch
// site and never fail the primary operation.
package mailer

import (
	"context"
	"io"
	"log"

	gomail "gopkg.in/gomail.v2"
)

// Message is one outbound email. Text and HTML are alternatives; either
// may be empty.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTP sends through an SMTP relay using gomail.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
	logger *log.Logger
}

// NewSMTP builds an SMTP mailer.
func NewSMTP(host string, port int, username, password, from string, logger *log.Logger) *SMTP {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &SMTP{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		logger: logger,
	}
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
	}
	if msg.HTML != "" {
		if msg.Text != "" {
			m.AddAlternative("text/html", msg.HTML)
		} else {
			m.SetBody("text/html", msg.HTML)
		}
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Printf("mailer: send to=%s subject=%q error=%v", msg.To, msg.Subject, err)
		return err
	}
	s.logger.Printf("mailer: sent to=%s subject=%q", msg.To, msg.Subject)
	return nil
}

// Discard logs messages instead of delivering them. Used when SMTP is not
// configured.
type Discard struct {
	Logger *log.Logger
}

func (d Discard) Send(_ context.Context, msg Message) error {
	if d.Logger != nil {
		d.Logger.Printf("mailer: smtp not configured, dropping mail to=%s subject=%q", msg.To, msg.Subject)
	}
	return nil
}
