package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultProfilePicture is used when a user has not uploaded their own avatar.
const DefaultProfilePicture = "https://icon-library.com/images/anonymous-avatar-icon/anonymous-avatar-icon-25.jpg"

// User represents a user in the system
type User struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash   string         `json:"-"`
	Name           string         `gorm:"not null" json:"name"`
	Username       string         `gorm:"uniqueIndex;not null" json:"username"`
	About          string         `json:"about,omitempty"`
	ProfilePicture string         `json:"profile_picture,omitempty"`

	// Relationships
	Posts         []Post         `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
}
