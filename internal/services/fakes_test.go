package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Ganeshsaykara/email-wallet/internal/domain"
)

// fakeRenderer implements domain.TransactionEmailRenderer for tests.
type fakeRenderer struct {
	out   string
	err   error
	calls int
}

func (f *fakeRenderer) Render(_ context.Context, messageText, transactionHash string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.out != "" {
		return f.out, nil
	}
	return "<p>" + messageText + "</p><p>" + transactionHash + "</p>", nil
}

type sentMail struct {
	to, subject, html, text string
}

// fakeMailer implements domain.Mailer for tests.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, html, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, html: html, text: text})
	return nil
}

// fakeNotificationRepo is an in-memory NotificationRepository for tests.
type fakeNotificationRepo struct {
	byID      map[string]*domain.Notification
	order     []string
	createErr error
	listErr   error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{byID: make(map[string]*domain.Notification)}
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *n
	f.byID[n.ID] = &cp
	f.order = append(f.order, n.ID)
	return nil
}

func (f *fakeNotificationRepo) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	if n, ok := f.byID[id]; ok {
		cp := *n
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeNotificationRepo) List(_ context.Context, filter domain.NotificationFilter) ([]*domain.Notification, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var matched []*domain.Notification
	for i := len(f.order) - 1; i >= 0; i-- {
		n := f.byID[f.order[i]]
		if filter.TransactionHash == "" || n.TransactionHash == filter.TransactionHash {
			matched = append(matched, n)
		}
	}
	start := filter.Pagination.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Pagination.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], len(matched), nil
}

// fakeHasher implements domain.APIKeyHasher for tests.
type fakeHasher struct{}

func (fakeHasher) Hash(apiKey string) (string, error) { return "hash-" + apiKey, nil }

func (fakeHasher) Compare(hash, apiKey string) error {
	if hash != "hash-"+apiKey {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err        error
	lastExpiry time.Duration
}

func (f *fakeTokenIssuer) Issue(clientID string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.lastExpiry = expiry
	return "token-" + clientID, nil
}
