package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"reviseai-backend/pkg/email"
)

// ContactQueue carries contact-form submissions from the HTTP handler to the
// mail worker.
const ContactQueue = "mail.contact_messages"

type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Mailer consumes mail events from the queue and delivers them over SMTP.
type Mailer struct {
	smtpClient  *email.SMTPClient
	destination string
}

func NewMailer(smtpClient *email.SMTPClient, destination string) *Mailer {
	return &Mailer{
		smtpClient:  smtpClient,
		destination: destination,
	}
}

func (m *Mailer) HandleContactMessage(ctx context.Context, body []byte) error {
	var msg ContactMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		// A malformed payload will never parse on redelivery, so drop it
		// instead of returning an error that would requeue it.
		log.Printf("Dropping malformed contact message: %v", err)
		return nil
	}

	if m.destination == "" {
		log.Printf("No contact destination configured, dropping message from %s", msg.Email)
		return nil
	}

	if err := m.smtpClient.SendContactMessage(m.destination, msg.Name, msg.Email, msg.Message); err != nil {
		return fmt.Errorf("failed to send contact email: %w", err)
	}

	log.Printf("Delivered contact message from %s", msg.Email)
	return nil
}
