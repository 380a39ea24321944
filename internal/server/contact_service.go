package server

import (
	"context"
	"strings"

	"sumpro/internal/mail"
	"sumpro/internal/models"
)

// ContactService relays contact-form submissions by email. Messages are
// not persisted; delivery is the whole operation.
type ContactService struct {
	sender mail.Sender
}

func NewContactService(sender mail.Sender) *ContactService {
	if sender == nil {
		return nil
	}
	return &ContactService{sender: sender}
}

func (c *ContactService) Relay(ctx context.Context, cm models.ContactMessage) error {
	var err error
	if cm.FirstName, err = requireField(cm.FirstName, "first_name"); err != nil {
		return err
	}
	if cm.Email, err = requireEmail(cm.Email); err != nil {
		return err
	}
	if cm.Subject = strings.TrimSpace(cm.Subject); cm.Subject == "" {
		cm.Subject = "General Inquiry"
	}
	if cm.Message, err = requireField(cm.Message, "message"); err != nil {
		return err
	}

	if err := c.sender.Send(ctx, mail.ContactMessage(cm)); err != nil {
		return mailFailure(err)
	}
	return nil
}
