// Package notify implements the EMAIL and SMS channel senders.
package notify

import (
	"context"

	"TradeFire/internal/domain/models"
	domrepo "TradeFire/internal/domain/repository"
)

// Mailer sends a single plain-text email. pkg/mail.Mailer implements it.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EmailSender delivers alerts over SMTP.
type EmailSender struct {
	mailer Mailer
}

var _ domrepo.ChannelSender = (*EmailSender)(nil)

func NewEmailSender(m Mailer) *EmailSender {
	return &EmailSender{mailer: m}
}

func (s *EmailSender) Send(ctx context.Context, destination, subject, body string) error {
	if err := s.mailer.Send(ctx, destination, subject, body); err != nil {
		return &models.DeliveryError{Channel: models.ChannelEmail, Destination: destination, Err: err}
	}
	return nil
}
