package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// GroupVisibility controls who can access a group's content
type GroupVisibility string

const (
	GroupVisibilityPublic  GroupVisibility = "public"
	GroupVisibilityPrivate GroupVisibility = "private"
)

var (
	// ErrGroupNameRequired is returned when a group is constructed without a name
	ErrGroupNameRequired = errors.New("group name is required")
	// ErrInvalidVisibility is returned for a visibility outside {public, private}
	ErrInvalidVisibility = errors.New("visibility must be public or private")
)

// Group represents a topical group. Visibility and the allowed email domains
// are fixed at creation.
type Group struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
	Name        string          `gorm:"uniqueIndex;not null" json:"name"`
	Description string          `gorm:"not null" json:"description"`
	Details     string          `json:"details,omitempty"`
	CreatedByID uint            `gorm:"not null" json:"created_by_id"`
	Visibility  GroupVisibility `gorm:"type:varchar(20);default:'public'" json:"visibility"`
	// EmailDomains is the comma-joined allowlist of email domains,
	// meaningful only when the group is private.
	EmailDomains string `json:"email_domains,omitempty"`

	// Relationships
	CreatedBy User              `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Members   []GroupMembership `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	Events    []Event           `gorm:"foreignKey:GroupID" json:"events,omitempty"`
	Posts     []Post            `gorm:"foreignKey:GroupID" json:"posts,omitempty"`
}

// NewGroup constructs a group, enforcing required fields and visibility enum
// membership at construction. An empty visibility defaults to public.
func NewGroup(createdByID uint, name, description, details string, visibility GroupVisibility, emailDomains string) (*Group, error) {
	if name == "" {
		return nil, ErrGroupNameRequired
	}
	if visibility == "" {
		visibility = GroupVisibilityPublic
	}
	if visibility != GroupVisibilityPublic && visibility != GroupVisibilityPrivate {
		return nil, ErrInvalidVisibility
	}
	return &Group{
		Name:         name,
		Description:  description,
		Details:      details,
		CreatedByID:  createdByID,
		Visibility:   visibility,
		EmailDomains: emailDomains,
	}, nil
}

// AllowedDomains splits the comma-joined domain allowlist. Entries are kept
// exactly as stored: no trimming, no case normalization.
func (g *Group) AllowedDomains() []string {
	if g.EmailDomains == "" {
		return nil
	}
	return strings.Split(g.EmailDomains, ",")
}

// GroupMembership links a user to a group they belong to
type GroupMembership struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	GroupID   uint      `gorm:"not null;uniqueIndex:idx_group_member" json:"group_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_group_member" json:"user_id"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
