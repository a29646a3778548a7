// internal/app/store/messages/messagestore.go
package messagestore

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/inputval"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
)

const path = "/" + models.TypeContactMessages

var (
	// ErrStatus is returned for a status outside models.MessageStatuses.
	ErrStatus = errors.New("messagestore: unknown message status")
	// ErrEmptyReply is returned when a reply is blank.
	ErrEmptyReply = errors.New("messagestore: reply is empty")
)

// NewMessage is a visitor's message from the "write to us" page.
type NewMessage struct {
	Name    string `validate:"required,max=100" label:"Name"`
	Email   string `validate:"required,mailbox" label:"Email"`
	Message string `validate:"required,min=10,max=2000" label:"Message"`
}

// Enquiry is the shorter contact form on the contact page.
type Enquiry struct {
	Name    string `validate:"required,max=100" label:"Name"`
	Email   string `validate:"omitempty,mailbox" label:"Email"`
	Mobile  string `validate:"phone" label:"Mobile"`
	Message string `validate:"required,max=2000" label:"Message"`
}

// Normalize trims every field and lower-cases the email.
func (m NewMessage) Normalize() NewMessage {
	return NewMessage{
		Name:    strings.TrimSpace(m.Name),
		Email:   inputval.NormalizeEmail(m.Email),
		Message: strings.TrimSpace(m.Message),
	}
}

// Normalize trims every field and lower-cases the email.
func (e Enquiry) Normalize() Enquiry {
	return Enquiry{
		Name:    strings.TrimSpace(e.Name),
		Email:   inputval.NormalizeEmail(e.Email),
		Mobile:  strings.TrimSpace(e.Mobile),
		Message: strings.TrimSpace(e.Message),
	}
}

// Stats are the counters shown above the admin message list.
type Stats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Read    int `json:"read"`
	Replied int `json:"replied"`
	Closed  int `json:"closed"`
	Unread  int `json:"unread"`
}

// Store wraps the contact message endpoints.
type Store struct {
	sess *apiclient.Session
}

// New creates a store bound to one caller's session.
func New(sess *apiclient.Session) *Store {
	return &Store{sess: sess}
}

// Send posts a visitor message. The caller validates first.
func (s *Store) Send(ctx context.Context, m NewMessage) error {
	m = m.Normalize()
	body := apiclient.NewBody().
		Set("name", m.Name).
		Set("email", m.Email).
		Set("message", m.Message)
	return s.sess.Post(ctx, path, body, nil)
}

// SendEnquiry posts the contact page form.
func (s *Store) SendEnquiry(ctx context.Context, e Enquiry) error {
	e = e.Normalize()
	body := apiclient.NewBody().
		Set("name", e.Name).
		Set("email", e.Email).
		Set("mobile", e.Mobile).
		Set("message", e.Message)
	return s.sess.Post(ctx, "/contact-form", body, nil)
}

// Stats fetches the counters. Missing counters stay zero.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var res struct {
		Data Stats `json:"data"`
	}
	if err := s.sess.Get(ctx, path+"/stats", nil, &res); err != nil {
		return Stats{}, err
	}
	return res.Data, nil
}

// MarkRead flags a message as read.
func (s *Store) MarkRead(ctx context.Context, id string) error {
	return s.sess.Patch(ctx, path+"/"+id+"/mark-read", nil, nil)
}

// MarkUnread clears the read flag.
func (s *Store) MarkUnread(ctx context.Context, id string) error {
	return s.sess.Patch(ctx, path+"/"+id+"/mark-unread", nil, nil)
}

// SetStatus moves a message to status.
func (s *Store) SetStatus(ctx context.Context, id, status string) error {
	if !slices.Contains(models.MessageStatuses, status) {
		return ErrStatus
	}
	return s.sess.Put(ctx, path+"/"+id, apiclient.NewBody().Set("status", status), nil)
}

// Reply stores the admin's reply and marks the message replied.
func (s *Store) Reply(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyReply
	}
	body := apiclient.NewBody().
		Set("status", "replied").
		Set("adminReply", text)
	return s.sess.Put(ctx, path+"/"+id, body, nil)
}
