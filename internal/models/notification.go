package models

import "time"

// NotificationType tags what produced a notification.
type NotificationType string

const (
	NotificationKT          NotificationType = "kt"
	NotificationRevaluation NotificationType = "revaluation"
	NotificationGeneral     NotificationType = "general"
)

// Notification is an in-app message for one user.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"user_id"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	Type      NotificationType `db:"notification_type" json:"notification_type"`
	IsRead    bool             `db:"is_read" json:"is_read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
