package domain

import (
	"context"
	"time"
)

// ContactStatus is the lifecycle of a stored contact message. A message starts
// at received and moves at most once, to sent or error.
type ContactStatus string

const (
	ContactStatusReceived ContactStatus = "received"
	ContactStatusSent     ContactStatus = "sent"
	ContactStatusError    ContactStatus = "error"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusReceived, ContactStatusSent, ContactStatusError:
		return true
	}
	return false
}

// ContactSubmission is the public contact form payload.
type ContactSubmission struct {
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Message  string `json:"message" validate:"required,min=10,max=5000"`
	Honeypot string `json:"hp"`
	// Started is the form render time in milliseconds since the epoch.
	Started int64 `json:"started"`
}

// RequestMeta is best-effort information about the submitting client.
type RequestMeta struct {
	IP        string
	UserAgent string
}

type ContactMessage struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Message    string        `json:"message"`
	Status     ContactStatus `json:"status"`
	ProviderID *string       `json:"provider_id,omitempty"`
	Error      *string       `json:"error,omitempty"`
	IP         *string       `json:"ip,omitempty"`
	UserAgent  *string       `json:"user_agent,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// ContactListFilter selects messages for the admin inbox. An empty Status
// returns every message.
type ContactListFilter struct {
	Status ContactStatus
	Limit  int
	Offset int
}

const (
	DefaultMessageLimit = 50
	MaxMessageLimit     = 200
)

// Normalized returns the filter with paging clamped to the values the
// inbox actually serves.
func (f ContactListFilter) Normalized() ContactListFilter {
	if f.Limit < 1 {
		f.Limit = DefaultMessageLimit
	}
	if f.Limit > MaxMessageLimit {
		f.Limit = MaxMessageLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// ContactResult is returned for an accepted submission.
type ContactResult struct {
	MessageID *int64        `json:"-"`
	Status    ContactStatus `json:"-"`
}

type ContactRepository interface {
	Create(ctx context.Context, msg *ContactMessage) error
	// MarkSent and MarkFailed only touch rows still at received.
	MarkSent(ctx context.Context, id int64, providerID string) error
	MarkFailed(ctx context.Context, id int64, errText string) error
	List(ctx context.Context, filter ContactListFilter) ([]ContactMessage, int64, error)
}

// ContactUsecase defines the contact form operations
type ContactUsecase interface {
	// Submit runs a submission through spam checks, validation, storage and delivery.
	Submit(ctx context.Context, req *ContactSubmission, meta RequestMeta) (*ContactResult, error)
	ListMessages(ctx context.Context, filter ContactListFilter) ([]ContactMessage, int64, error)
}
