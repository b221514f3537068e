package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/college-adp-api/internal/models"
)

// NotificationRepository persists in-app notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create stores a notification using exec.
func (r *NotificationRepository) Create(ctx context.Context, exec sqlx.ExtContext, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notifications (id, user_id, title, message, notification_type, is_read, created_at)
        VALUES (:id, :user_id, :title, :message, :notification_type, :is_read, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// CreateBatch stores several notifications in one statement.
func (r *NotificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range notifications {
		if notifications[i].ID == "" {
			notifications[i].ID = uuid.NewString()
		}
		if notifications[i].CreatedAt.IsZero() {
			notifications[i].CreatedAt = now
		}
	}
	const query = `INSERT INTO notifications (id, user_id, title, message, notification_type, is_read, created_at)
        VALUES (:id, :user_id, :title, :message, :notification_type, :is_read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notifications); err != nil {
		return fmt.Errorf("create notifications: %w", err)
	}
	return nil
}

// ListByUser returns a user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	const query = `SELECT id, user_id, title, message, notification_type, is_read, created_at FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, id ASC`
	var rows []models.Notification
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return rows, nil
}

// MarkAllRead flags every unread notification of a user as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}
