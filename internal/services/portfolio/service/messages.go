package service

import (
	"context"

	"github.com/louisbranch/portfolio/internal/services/portfolio/content"
)

const entityMessage = "message"

func messages(doc *content.Document) *[]content.ContactMessage { return &doc.Messages }

// MessageInput is what a visitor submits through the contact form.
type MessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SubmitMessage stores a new unread message at the front of the inbox.
func (s *Service) SubmitMessage(ctx context.Context, input MessageInput) (content.ContactMessage, error) {
	msg := content.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Message: input.Message,
	}
	msg.Normalize()
	if err := msg.Validate(); err != nil {
		return content.ContactMessage{}, err
	}
	msg.Date = s.now()

	var created content.ContactMessage
	err := s.update(ctx, func(doc *content.Document) error {
		recordID, err := s.newID()
		if err != nil {
			return err
		}
		m := msg
		m.ID = recordID
		doc.Messages = append([]content.ContactMessage{m}, doc.Messages...)
		created = m
		return nil
	})
	if err != nil {
		return content.ContactMessage{}, err
	}
	return created, nil
}

// ListMessages returns the inbox, newest first.
func (s *Service) ListMessages(ctx context.Context) ([]content.ContactMessage, error) {
	return list(ctx, s, messages)
}

// MarkMessageRead flags a message as read.
func (s *Service) MarkMessageRead(ctx context.Context, recordID string) (content.ContactMessage, error) {
	return modify(ctx, s, entityMessage, recordID, messages, func(_ *content.Document, m *content.ContactMessage) error {
		m.Read = true
		return nil
	})
}

// DeleteMessage removes a message.
func (s *Service) DeleteMessage(ctx context.Context, recordID string) error {
	return remove(ctx, s, entityMessage, recordID, messages, nil)
}
