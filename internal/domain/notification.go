package domain

import (
	"context"
	"time"
)

// NotificationStatus is the delivery outcome recorded for a notification.
type NotificationStatus string

const (
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// Notification is a transaction email that the relayer attempted to deliver.
// swagger:model Notification
type Notification struct {
	ID              string             `json:"id"`
	Recipient       string             `json:"recipient"`
	Subject         string             `json:"subject"`
	MessageText     string             `json:"message_text"`
	TransactionHash string             `json:"transaction_hash"`
	Status          NotificationStatus `json:"status"`
	Error           string             `json:"error,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// NewNotification returns a new Notification with the given fields. Status and
// Error are set once the delivery attempt finishes.
func NewNotification(id, recipient, subject, messageText, transactionHash string, createdAt time.Time) *Notification {
	return &Notification{
		ID:              id,
		Recipient:       recipient,
		Subject:         subject,
		MessageText:     messageText,
		TransactionHash: transactionHash,
		CreatedAt:       createdAt,
	}
}

// TransactionEmailData holds data for the transaction notification email.
type TransactionEmailData struct {
	Recipient       string
	MessageText     string
	TransactionHash string
}

// NotificationFilter narrows a notification listing. An empty TransactionHash
// matches every notification.
type NotificationFilter struct {
	TransactionHash string
	Pagination      PaginationParams
}

// NotificationRepository defines the interface for notification storage.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	List(ctx context.Context, filter NotificationFilter) ([]*Notification, int, error)
}

// NotificationService renders, delivers and records transaction emails.
type NotificationService interface {
	Preview(ctx context.Context, messageText, transactionHash string) (string, error)
	Send(ctx context.Context, data *TransactionEmailData) (*Notification, error)
	GetByID(ctx context.Context, id string) (*Notification, error)
	List(ctx context.Context, filter NotificationFilter) ([]*Notification, int, error)
}
