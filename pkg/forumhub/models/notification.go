package models

import (
	"errors"
	"time"
)

// NotificationType is the kind of event a notification describes
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationGeneral NotificationType = "general"
)

var (
	// ErrInvalidNotificationType is returned for a type outside {like, comment, general}
	ErrInvalidNotificationType = errors.New("notification type must be like, comment or general")
	// ErrMessageRequired is returned when a notification is constructed without a message
	ErrMessageRequired = errors.New("notification message is required")
)

// Notification is an append-only per-user record. It is created by the
// notification service, mutated only by the owning user (mark-read), and
// never deleted. PostID may dangle after the referenced post is deleted;
// readers treat a missing post as absent.
type Notification struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Message   string           `gorm:"not null" json:"message"`
	PostID    *uint            `json:"post_id,omitempty"`
	Read      bool             `gorm:"default:false" json:"read"`
}

// NewNotification constructs a notification, enforcing the type enum and a
// non-empty message at construction.
func NewNotification(userID uint, kind NotificationType, message string, postID *uint) (*Notification, error) {
	switch kind {
	case NotificationLike, NotificationComment, NotificationGeneral:
	default:
		return nil, ErrInvalidNotificationType
	}
	if message == "" {
		return nil, ErrMessageRequired
	}
	return &Notification{
		UserID:  userID,
		Type:    kind,
		Message: message,
		PostID:  postID,
	}, nil
}

// NotificationDeadLetter records a notification that could not be persisted
// after retries. Delivery failures never fail the action that triggered them,
// but they must stay observable.
type NotificationDeadLetter struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	UserID    uint             `gorm:"not null" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(20)" json:"type"`
	Message   string           `json:"message"`
	PostID    *uint            `json:"post_id,omitempty"`
	Attempts  int              `json:"attempts"`
	LastError string           `json:"last_error"`
}
