package models

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

var (
	// ErrQuestionTitleRequired is returned when a question is constructed without a title
	ErrQuestionTitleRequired = errors.New("question title is required")
	// ErrQuestionDescriptionRequired is returned when a question is constructed without a description
	ErrQuestionDescriptionRequired = errors.New("question description is required")
	// ErrQuestionUsernameRequired is returned when a question is constructed without a username
	ErrQuestionUsernameRequired = errors.New("question username is required")
)

// Question is an anonymous Q&A entry. Unlike posts, questions are not tied to
// a user account: the username is a caller-supplied display name, and the
// surface is readable and writable without authentication.
type Question struct {
	ID          uint                        `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time                   `json:"created_at"`
	Title       string                      `gorm:"not null" json:"title"`
	Description string                      `gorm:"not null" json:"description"`
	Image       string                      `json:"image,omitempty"`
	Username    string                      `gorm:"not null" json:"username"`
	Likes       int                         `gorm:"default:0" json:"likes"`
	Comments    datatypes.JSONSlice[string] `json:"comments"`
}

// NewQuestion constructs a question, enforcing required fields at construction.
func NewQuestion(title, description, image, username string) (*Question, error) {
	if title == "" {
		return nil, ErrQuestionTitleRequired
	}
	if description == "" {
		return nil, ErrQuestionDescriptionRequired
	}
	if username == "" {
		return nil, ErrQuestionUsernameRequired
	}
	return &Question{
		Title:       title,
		Description: description,
		Image:       image,
		Username:    username,
		Comments:    datatypes.NewJSONSlice([]string{}),
	}, nil
}
