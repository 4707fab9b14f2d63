// Package mail sends plain-text email over SMTP with gomail.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

var (
	ErrNoRecipient = errors.New("mail: no recipient")
	ErrNoHost      = errors.New("mail: smtp host not configured")
)

// Config holds SMTP settings.
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	NoVerify    bool
	SendTimeout time.Duration
}

// DialFunc opens an SMTP session.
type DialFunc func() (gomail.SendCloser, error)

// Mailer sends one message per call on a fresh SMTP session.
type Mailer struct {
	from    string
	timeout time.Duration
	dial    DialFunc
}

// New creates a Mailer that dials the configured SMTP server.
func New(c Config) (*Mailer, error) {
	if c.Host == "" {
		return nil, ErrNoHost
	}
	var d *gomail.Dialer
	if c.Username == "" {
		d = &gomail.Dialer{Host: c.Host, Port: c.Port}
	} else {
		d = gomail.NewDialer(c.Host, c.Port, c.Username, c.Password)
	}
	if c.NoVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	from := c.From
	if from == "" {
		from = c.Username
	}
	return NewWithDialer(from, c.SendTimeout, d.Dial), nil
}

// NewWithDialer builds a Mailer around an arbitrary session factory.
func NewWithDialer(from string, timeout time.Duration, dial DialFunc) *Mailer {
	return &Mailer{from: from, timeout: timeout, dial: dial}
}

// Send delivers a single message and reports the SMTP outcome.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return ErrNoRecipient
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- m.deliver(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("mail: send to %s: %w", to, ctx.Err())
	}
}

func (m *Mailer) deliver(msg *gomail.Message) error {
	conn, err := m.dial()
	if err != nil {
		return fmt.Errorf("mail: dial: %w", err)
	}
	if err := gomail.Send(conn, msg); err != nil {
		_ = conn.Close()
		return fmt.Errorf("mail: send: %w", err)
	}
	return conn.Close()
}
