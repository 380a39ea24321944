package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"sumpro/internal/mail"
	"sumpro/internal/models"
)

type fakeSender struct {
	sent    []mail.Message
	sendErr error
}

func (f *fakeSender) Send(ctx context.Context, msg mail.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func validContact() models.ContactMessage {
	return models.ContactMessage{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Subject:   "Open positions",
		Message:   "Are you hiring?",
	}
}

func TestContactServiceRelay(t *testing.T) {
	sender := &fakeSender{}
	svc := NewContactService(sender)

	if err := svc.Relay(context.Background(), validContact()); err != nil {
		t.Fatalf("Relay: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.ReplyTo != "ada@example.com" {
		t.Errorf("ReplyTo = %q", msg.ReplyTo)
	}
	if !strings.Contains(msg.HTMLBody, "Are you hiring?") {
		t.Errorf("body missing message text:\n%s", msg.HTMLBody)
	}
}

func TestContactServiceRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.ContactMessage)
	}{
		{"first name", func(c *models.ContactMessage) { c.FirstName = "" }},
		{"email", func(c *models.ContactMessage) { c.Email = "" }},
		{"message", func(c *models.ContactMessage) { c.Message = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sender := &fakeSender{}
			svc := NewContactService(sender)
			cm := validContact()
			tc.mutate(&cm)
			err := svc.Relay(context.Background(), cm)
			if err == nil {
				t.Fatalf("Relay accepted contact with missing %s", tc.name)
			}
			if status := httpStatusFromError(err); status != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", status)
			}
			if len(sender.sent) != 0 {
				t.Errorf("invalid contact still sent mail")
			}
		})
	}
}

func TestContactServiceRelaysUnusualEmail(t *testing.T) {
	sender := &fakeSender{}
	svc := NewContactService(sender)
	cm := validContact()
	cm.Email = "ada at example dot com"
	if err := svc.Relay(context.Background(), cm); err != nil {
		t.Fatalf("Relay: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].ReplyTo != "ada at example dot com" {
		t.Errorf("sent = %+v", sender.sent)
	}
}

func TestContactServiceMailFailure(t *testing.T) {
	svc := NewContactService(&fakeSender{sendErr: errors.New("smtp down")})
	err := svc.Relay(context.Background(), validContact())
	if err == nil {
		t.Fatal("Relay succeeded with failing sender")
	}
	if status := httpStatusFromError(err); status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", status)
	}
}

func TestContactServiceDefaultsSubject(t *testing.T) {
	sender := &fakeSender{}
	svc := NewContactService(sender)
	cm := validContact()
	cm.Subject = "  "
	if err := svc.Relay(context.Background(), cm); err != nil {
		t.Fatalf("Relay: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages", len(sender.sent))
	}
	if got := sender.sent[0].Subject; got != "Contact form: General Inquiry" {
		t.Errorf("Subject = %q", got)
	}
}
