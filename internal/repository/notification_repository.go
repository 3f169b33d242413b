package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuswell/counselbook/internal/apperr"
	"github.com/campuswell/counselbook/internal/model"
	"github.com/campuswell/counselbook/internal/repository/base"
)

type NotificationRepository struct {
	*base.Repository
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{Repository: base.NewRepository(pool)}
}

// Create persists one notification row.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications
			(recipient_id, sender_id, type, title, message, priority, payload, expires_at, dedupe_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err := r.Pool().QueryRow(
		ctx, query,
		n.RecipientID,
		n.SenderID,
		n.Type,
		n.Title,
		n.Message,
		n.Priority,
		n.Payload,
		n.ExpiresAt,
		n.DedupeKey,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListByRecipient returns the recipient's notifications, newest first,
// skipping already-expired rows the sweep has not collected yet.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID int64) ([]*model.Notification, error) {
	query := `
		SELECT id, recipient_id, sender_id, type, title, message, priority, payload, is_read, expires_at, dedupe_key, created_at
		FROM notifications
		WHERE recipient_id = $1
		  AND (expires_at IS NULL OR expires_at > now())
		ORDER BY created_at DESC
	`
	rows, err := r.Pool().Query(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		var n model.Notification
		err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.SenderID,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.Priority,
			&n.Payload,
			&n.IsRead,
			&n.ExpiresAt,
			&n.DedupeKey,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// MarkRead flips the read flag, scoped to the recipient so one user can
// never acknowledge another's notifications.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID int64) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`

	tag, err := r.Pool().Exec(ctx, query, id, recipientID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("notification")
	}
	return nil
}

// DeleteExpired removes notifications past their expiry instant. Called
// by the background sweep.
func (r *NotificationRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM notifications WHERE expires_at IS NOT NULL AND expires_at <= now()`

	tag, err := r.Pool().Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("delete expired notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}
