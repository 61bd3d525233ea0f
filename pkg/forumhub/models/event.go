package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrEventNameRequired is returned when an event is constructed without a name
	ErrEventNameRequired = errors.New("event name is required")
	// ErrEventDateRequired is returned when an event is constructed without a date
	ErrEventDateRequired = errors.New("event date is required")
	// ErrCreatorRequired is returned when an event is constructed without a creator
	ErrCreatorRequired = errors.New("event creator is required")
)

// Event is a calendar event owned by exactly one group
type Event struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	GroupID     uint           `gorm:"not null;index" json:"group_id"`
	CreatedByID uint           `gorm:"not null" json:"created_by_id"`
	Date        string         `gorm:"not null" json:"date"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description,omitempty"`
	Image       string         `json:"image,omitempty"`

	// Relationships
	CreatedBy User              `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Members   []EventMembership `gorm:"foreignKey:EventID" json:"members,omitempty"`
}

// NewEvent constructs an event with an empty member list, enforcing required
// fields at construction.
func NewEvent(groupID, createdByID uint, date, name, description, image string) (*Event, error) {
	if createdByID == 0 {
		return nil, ErrCreatorRequired
	}
	if date == "" {
		return nil, ErrEventDateRequired
	}
	if name == "" {
		return nil, ErrEventNameRequired
	}
	return &Event{
		GroupID:     groupID,
		CreatedByID: createdByID,
		Date:        date,
		Name:        name,
		Description: description,
		Image:       image,
	}, nil
}

// EventMembership records one user's interest in one event. The composite
// unique index rejects duplicate joins at the storage layer, so concurrent
// joins for the same user cannot both land. Membership is one-way: there is
// no leave operation.
//
// No soft delete: a soft-deleted row would still occupy the unique index.
type EventMembership struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_event_member" json:"event_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_event_member" json:"user_id"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
