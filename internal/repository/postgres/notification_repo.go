package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Ganeshsaykara/email-wallet/internal/domain"
)

type notificationRepository struct {
	DB *sql.DB
}

// NewNotificationRepository returns a domain.NotificationRepository implemented with Postgres.
func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient, subject, message_text, transaction_hash, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		n.ID, n.Recipient, n.Subject, n.MessageText, n.TransactionHash, string(n.Status), n.Error, n.CreatedAt)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23505" {
			return fmt.Errorf("notification %s already exists: %w", n.ID, err)
		}
		return err
	}
	return nil
}

const notificationColumns = `id, recipient, subject, message_text, transaction_hash, status, error, created_at`

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	// Postgres rejects non-UUID input for the id column with 22P02.
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	n, err := scanNotification(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

func (r *notificationRepository) List(ctx context.Context, filter domain.NotificationFilter) ([]*domain.Notification, int, error) {
	where := ""
	args := []any{}
	if filter.TransactionHash != "" {
		where = ` WHERE transaction_hash = $1`
		args = append(args, filter.TransactionHash)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM notifications%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		notificationColumns, where, n+1, n+2)
	args = append(args, filter.Pagination.PageSize, filter.Pagination.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		item, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var n domain.Notification
	var status string
	if err := row.Scan(&n.ID, &n.Recipient, &n.Subject, &n.MessageText, &n.TransactionHash, &status, &n.Error, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.Status = domain.NotificationStatus(status)
	return &n, nil
}
