package models

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	// Each pooled connection gets its own in-memory database; a single
	// connection keeps every goroutine on the migrated one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestAutoMigrate(t *testing.T) {
	db := setupTestDB(t)

	err := AutoMigrate(db)
	if err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	// Verify tables exist by checking if we can query them
	tables := []string{"users", "groups", "group_memberships", "posts", "post_likes", "comments", "reports", "events", "event_memberships", "notifications", "notification_dead_letters", "questions"}
	for _, table := range tables {
		if !db.Migrator().HasTable(table) {
			t.Errorf("Expected table %s to exist", table)
		}
	}
}

func TestUserModel(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	user := User{
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		Name:         "Test User",
		Username:     "testuser",
	}

	result := db.Create(&user)
	if result.Error != nil {
		t.Fatalf("Failed to create user: %v", result.Error)
	}

	if user.ID == 0 {
		t.Error("Expected user ID to be set after create")
	}

	// Test unique email constraint
	user2 := User{
		Email:        "test@example.com",
		PasswordHash: "another_hash",
		Name:         "Another User",
		Username:     "anotheruser",
	}
	result = db.Create(&user2)
	if result.Error == nil {
		t.Error("Expected error when creating user with duplicate email")
	}
}

func TestNewPostValidation(t *testing.T) {
	if _, err := NewPost(0, "Title", "", "", "", nil, nil); err != ErrAuthorRequired {
		t.Errorf("Expected ErrAuthorRequired, got %v", err)
	}
	if _, err := NewPost(1, "", "", "", "", nil, nil); err != ErrTitleRequired {
		t.Errorf("Expected ErrTitleRequired, got %v", err)
	}

	post, err := NewPost(1, "Hello", "content", "general", "", nil, []string{"go", "forum"})
	if err != nil {
		t.Fatalf("NewPost failed: %v", err)
	}
	if len(post.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %d", len(post.Tags))
	}
}

func TestNewGroupValidation(t *testing.T) {
	if _, err := NewGroup(1, "", "desc", "", GroupVisibilityPublic, ""); err != ErrGroupNameRequired {
		t.Errorf("Expected ErrGroupNameRequired, got %v", err)
	}
	if _, err := NewGroup(1, "Group", "desc", "", "secret", ""); err != ErrInvalidVisibility {
		t.Errorf("Expected ErrInvalidVisibility, got %v", err)
	}

	// Empty visibility defaults to public
	group, err := NewGroup(1, "Group", "desc", "", "", "")
	if err != nil {
		t.Fatalf("NewGroup failed: %v", err)
	}
	if group.Visibility != GroupVisibilityPublic {
		t.Errorf("Expected public visibility, got %s", group.Visibility)
	}
}

func TestAllowedDomains(t *testing.T) {
	group := Group{EmailDomains: "mit.edu,yale.edu"}
	domains := group.AllowedDomains()
	if len(domains) != 2 || domains[0] != "mit.edu" || domains[1] != "yale.edu" {
		t.Errorf("Unexpected domains: %v", domains)
	}

	empty := Group{}
	if empty.AllowedDomains() != nil {
		t.Error("Expected nil domains for empty allowlist")
	}
}

func TestNewNotificationValidation(t *testing.T) {
	if _, err := NewNotification(1, "poke", "msg", nil); err != ErrInvalidNotificationType {
		t.Errorf("Expected ErrInvalidNotificationType, got %v", err)
	}
	if _, err := NewNotification(1, NotificationLike, "", nil); err != ErrMessageRequired {
		t.Errorf("Expected ErrMessageRequired, got %v", err)
	}

	n, err := NewNotification(1, NotificationLike, "someone liked your post", nil)
	if err != nil {
		t.Fatalf("NewNotification failed: %v", err)
	}
	if n.Read {
		t.Error("Expected new notification to be unread")
	}
}

func TestPostLikeUniqueness(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	user := User{Email: "test@example.com", PasswordHash: "hash", Name: "Test", Username: "test"}
	db.Create(&user)
	post := Post{AuthorID: user.ID, Title: "Post"}
	db.Create(&post)

	like := PostLike{PostID: post.ID, UserID: user.ID}
	if err := db.Create(&like).Error; err != nil {
		t.Fatalf("Failed to create like: %v", err)
	}

	dup := PostLike{PostID: post.ID, UserID: user.ID}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("Expected error when creating duplicate like")
	}
}

func TestEventMembershipUniqueness(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	user := User{Email: "test@example.com", PasswordHash: "hash", Name: "Test", Username: "test"}
	db.Create(&user)
	group := Group{Name: "Test Group", Description: "desc", CreatedByID: user.ID}
	db.Create(&group)
	event := Event{GroupID: group.ID, CreatedByID: user.ID, Date: "2026-09-01", Name: "Meetup"}
	db.Create(&event)

	member := EventMembership{EventID: event.ID, UserID: user.ID}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("Failed to create membership: %v", err)
	}

	dup := EventMembership{EventID: event.ID, UserID: user.ID}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("Expected error when creating duplicate membership")
	}
}

func TestNewQuestionValidation(t *testing.T) {
	if _, err := NewQuestion("", "desc", "", "anon"); err != ErrQuestionTitleRequired {
		t.Errorf("Expected ErrQuestionTitleRequired, got %v", err)
	}
	if _, err := NewQuestion("Title", "", "", "anon"); err != ErrQuestionDescriptionRequired {
		t.Errorf("Expected ErrQuestionDescriptionRequired, got %v", err)
	}
	if _, err := NewQuestion("Title", "desc", "", ""); err != ErrQuestionUsernameRequired {
		t.Errorf("Expected ErrQuestionUsernameRequired, got %v", err)
	}

	question, err := NewQuestion("Title", "desc", "", "anon")
	if err != nil {
		t.Fatalf("NewQuestion failed: %v", err)
	}
	if question.Likes != 0 {
		t.Errorf("Expected 0 likes, got %d", question.Likes)
	}
	if question.Comments == nil || len(question.Comments) != 0 {
		t.Errorf("Expected empty comment list, got %v", question.Comments)
	}
}
