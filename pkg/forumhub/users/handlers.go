package users

import (
	"net/http"
	"strconv"

	"github.com/forumhub/forumhub/pkg/forumhub/auth"
	"github.com/forumhub/forumhub/pkg/forumhub/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles user profile requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new users handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// UpdateProfileRequest represents a partial profile update; empty fields are left unchanged
type UpdateProfileRequest struct {
	Name           string `json:"name"`
	Username       string `json:"username"`
	About          string `json:"about"`
	ProfilePicture string `json:"profile_picture"`
}

// ProfileResponse represents a user's public profile
type ProfileResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Username       string `json:"username"`
	About          string `json:"about,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

func profileToResponse(user models.User) ProfileResponse {
	return ProfileResponse{
		ID:             user.ID,
		Name:           user.Name,
		Username:       user.Username,
		About:          user.About,
		ProfilePicture: user.ProfilePicture,
	}
}

// Get returns a user's public profile
// @Summary Get a user profile
// @Description Get a user's public profile by ID
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, profileToResponse(user))
}

// UpdateMe applies a partial update to the current user's profile
// @Summary Update own profile
// @Description Update name, username, about text or profile picture; unspecified fields are unchanged
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Updated fields"
// @Success 200 {object} ProfileResponse
// @Failure 409 {object} map[string]string "Username already taken"
// @Security BearerAuth
// @Router /users/me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Username != "" && req.Username != user.Username {
		var existing models.User
		if err := h.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
			return
		}
		user.Username = req.Username
	}
	if req.About != "" {
		user.About = req.About
	}
	if req.ProfilePicture != "" {
		user.ProfilePicture = req.ProfilePicture
	}

	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, profileToResponse(user))
}

// RegisterRoutes registers user routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id", h.Get)
	rg.PUT("/me", h.UpdateMe)
}
