package models

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrTitleRequired is returned when a post is constructed without a title
	ErrTitleRequired = errors.New("post title is required")
	// ErrAuthorRequired is returned when a post is constructed without an author
	ErrAuthorRequired = errors.New("post author is required")
)

// Post represents a forum post, either on the main feed or inside a group
type Post struct {
	ID        uint                        `gorm:"primarykey" json:"id"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
	DeletedAt gorm.DeletedAt              `gorm:"index" json:"-"`
	AuthorID  uint                        `gorm:"not null;index" json:"author_id"`
	GroupID   *uint                       `gorm:"index" json:"group_id,omitempty"`
	Title     string                      `gorm:"not null" json:"title"`
	Content   string                      `json:"content"`
	Image     string                      `json:"image,omitempty"`
	Category  string                      `json:"category,omitempty"`
	Tags      datatypes.JSONSlice[string] `json:"tags,omitempty"`

	// Relationships
	Author   User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Likes    []PostLike `gorm:"foreignKey:PostID" json:"likes,omitempty"`
	Comments []Comment  `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	Reports  []Report   `gorm:"foreignKey:PostID" json:"reports,omitempty"`
}

// NewPost constructs a post, enforcing required fields at construction.
// GroupID is nil for main-feed posts.
func NewPost(authorID uint, title, content, category, image string, groupID *uint, tags []string) (*Post, error) {
	if authorID == 0 {
		return nil, ErrAuthorRequired
	}
	if title == "" {
		return nil, ErrTitleRequired
	}
	return &Post{
		AuthorID: authorID,
		GroupID:  groupID,
		Title:    title,
		Content:  content,
		Category: category,
		Image:    image,
		Tags:     datatypes.NewJSONSlice(tags),
	}, nil
}

// PostLike is one user's like on one post. The composite unique index makes
// like/unlike an atomic set-add/set-remove: concurrent togglers cannot
// silently overwrite each other's state.
//
// No soft delete here: a soft-deleted row would still occupy the unique index
// and block re-liking.
type PostLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_liker" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_liker" json:"user_id"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Comment is owned by exactly one post. Comments are append-only and ordered
// by insertion; there is no edit or delete for individual comments.
type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Content   string    `gorm:"not null" json:"content"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// Report records one user reporting a post. Reports are never deduplicated;
// the same reporter may report the same post any number of times.
type Report struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	PostID       uint      `gorm:"not null;index" json:"post_id"`
	ReportedByID uint      `gorm:"not null" json:"reported_by_id"`
	Reason       string    `gorm:"not null" json:"reason"`
}
