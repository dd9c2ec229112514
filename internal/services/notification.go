package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ganeshsaykara/email-wallet/internal/domain"
	"github.com/Ganeshsaykara/email-wallet/internal/metrics"
)

// DefaultSubject is used when no notification subject is configured.
const DefaultSubject = "Email Wallet Notification"

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type notificationService struct {
	renderer domain.TransactionEmailRenderer
	mailer   domain.Mailer
	repo     domain.NotificationRepository
	subject  string
	logger   *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewNotificationService returns a NotificationService that renders email.html
// with renderer, delivers through mailer and records every attempt in repo.
func NewNotificationService(renderer domain.TransactionEmailRenderer, mailer domain.Mailer, repo domain.NotificationRepository, subject string, logger *slog.Logger) domain.NotificationService {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &notificationService{
		renderer: renderer,
		mailer:   mailer,
		repo:     repo,
		subject:  subject,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Preview renders the transaction email without sending or recording it.
func (s *notificationService) Preview(ctx context.Context, messageText, transactionHash string) (string, error) {
	return s.render(ctx, messageText, transactionHash)
}

// Send renders and delivers the transaction email to data.Recipient. Nothing is
// sent or recorded when rendering fails. A delivery failure is recorded with
// status failed and returned wrapped in domain.ErrMailDelivery together with
// the recorded notification.
func (s *notificationService) Send(ctx context.Context, data *domain.TransactionEmailData) (*domain.Notification, error) {
	if data == nil {
		return nil, fmt.Errorf("transaction email data is nil")
	}
	recipient := strings.TrimSpace(strings.ToLower(data.Recipient))
	if !emailRegexp.MatchString(recipient) {
		return nil, domain.ErrInvalidRecipient
	}

	html, err := s.render(ctx, data.MessageText, data.TransactionHash)
	if err != nil {
		return nil, fmt.Errorf("failed to render transaction email: %w", err)
	}

	n := domain.NewNotification(s.newID(), recipient, s.subject, data.MessageText, data.TransactionHash, s.now().UTC())
	sendErr := s.mailer.Send(ctx, recipient, s.subject, html, plainText(data))
	if sendErr != nil {
		n.Status = domain.NotificationFailed
		n.Error = sendErr.Error()
	} else {
		n.Status = domain.NotificationSent
	}
	metrics.NotificationsSent.WithLabelValues(string(n.Status)).Inc()

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "failed to record notification",
			"id", n.ID, "transaction_hash", n.TransactionHash, "status", n.Status, "err", err)
		if sendErr != nil {
			return n, fmt.Errorf("%w: %v (record: %v)", domain.ErrMailDelivery, sendErr, err)
		}
		return n, fmt.Errorf("failed to record notification: %w", err)
	}
	if sendErr != nil {
		s.logger.WarnContext(ctx, "transaction email delivery failed",
			"id", n.ID, "transaction_hash", n.TransactionHash, "err", sendErr)
		return n, fmt.Errorf("%w: %v", domain.ErrMailDelivery, sendErr)
	}
	s.logger.InfoContext(ctx, "transaction email sent", "id", n.ID, "transaction_hash", n.TransactionHash)
	return n, nil
}

func (s *notificationService) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *notificationService) List(ctx context.Context, filter domain.NotificationFilter) ([]*domain.Notification, int, error) {
	filter.Pagination = filter.Pagination.Normalize()
	return s.repo.List(ctx, filter)
}

func (s *notificationService) render(ctx context.Context, messageText, transactionHash string) (string, error) {
	start := time.Now()
	out, err := s.renderer.Render(ctx, messageText, transactionHash)
	metrics.EmailRenderDuration.Observe(time.Since(start).Seconds())
	metrics.EmailRenders.WithLabelValues(renderResult(err)).Inc()
	if err != nil {
		return "", err
	}
	return out, nil
}

func renderResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrConfigurationMissing):
		return "config_error"
	case errors.Is(err, domain.ErrTemplateIO):
		return "io_error"
	case errors.Is(err, domain.ErrTemplateRender):
		return "template_error"
	default:
		return "error"
	}
}

// plainText is the text/plain alternative sent next to the rendered HTML.
func plainText(data *domain.TransactionEmailData) string {
	if data.TransactionHash == "" {
		return data.MessageText
	}
	return data.MessageText + "\n\nTransaction: " + data.TransactionHash
}
