package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/forumhub/forumhub/pkg/forumhub/auth"
	"github.com/forumhub/forumhub/pkg/forumhub/models"
	"github.com/gin-gonic/gin"
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
	models.AutoMigrate(db)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, username string) models.User {
	hash, _ := auth.HashPassword("password123")
	user := models.User{
		Email:          email,
		PasswordHash:   hash,
		Name:           "Test User",
		Username:       username,
		ProfilePicture: models.DefaultProfilePicture,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)

	users := r.Group("/users")
	users.Use(auth.AuthMiddleware())
	handler.RegisterRoutes(users)

	return r
}

func getAuthHeader(user models.User) string {
	token, _ := auth.GenerateToken(user.ID, user.Email, user.Username)
	return "Bearer " + token
}

func TestGetProfile(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com", "testuser")
	viewer := createTestUser(t, db, "viewer@example.com", "viewer")

	req, _ := http.NewRequest("GET", "/users/1", nil)
	req.Header.Set("Authorization", getAuthHeader(viewer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var profile ProfileResponse
	json.Unmarshal(resp.Body.Bytes(), &profile)
	if profile.Username != user.Username {
		t.Errorf("Expected username %s, got %s", user.Username, profile.Username)
	}
	if profile.ProfilePicture != models.DefaultProfilePicture {
		t.Errorf("Expected default profile picture, got %s", profile.ProfilePicture)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com", "testuser")

	req, _ := http.NewRequest("GET", "/users/999", nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestUpdateOwnProfile(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com", "testuser")

	body, _ := json.Marshal(UpdateProfileRequest{
		Name:  "New Name",
		About: "Gopher at large",
	})
	req, _ := http.NewRequest("PUT", "/users/me", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var loaded models.User
	db.First(&loaded, user.ID)
	if loaded.Name != "New Name" {
		t.Errorf("Expected name to be updated, got %s", loaded.Name)
	}
	if loaded.About != "Gopher at large" {
		t.Errorf("Expected about to be updated, got %s", loaded.About)
	}
	// Fields not in the request stay as they were
	if loaded.Username != "testuser" {
		t.Errorf("Username should be unchanged, got %s", loaded.Username)
	}
	if loaded.ProfilePicture != models.DefaultProfilePicture {
		t.Errorf("Profile picture should be unchanged, got %s", loaded.ProfilePicture)
	}
}

func TestUpdateProfilePicture(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com", "testuser")

	body, _ := json.Marshal(UpdateProfileRequest{
		ProfilePicture: "https://example.com/me.png",
	})
	req, _ := http.NewRequest("PUT", "/users/me", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var loaded models.User
	db.First(&loaded, user.ID)
	if loaded.ProfilePicture != "https://example.com/me.png" {
		t.Errorf("Expected profile picture to be updated, got %s", loaded.ProfilePicture)
	}
}

func TestUpdateUsernameConflict(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com", "testuser")
	createTestUser(t, db, "taken@example.com", "takenname")

	body, _ := json.Marshal(UpdateProfileRequest{Username: "takenname"})
	req, _ := http.NewRequest("PUT", "/users/me", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d: %s", resp.Code, resp.Body.String())
	}

	var loaded models.User
	db.First(&loaded, user.ID)
	if loaded.Username != "testuser" {
		t.Errorf("Username should be unchanged, got %s", loaded.Username)
	}
}

func TestUpdateProfileRequiresAuth(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	createTestUser(t, db, "test@example.com", "testuser")

	body, _ := json.Marshal(UpdateProfileRequest{Name: "Sneaky"})
	req, _ := http.NewRequest("PUT", "/users/me", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Code)
	}
}
