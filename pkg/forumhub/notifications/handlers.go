package notifications

import (
	"net/http"
	"strconv"

	"github.com/forumhub/forumhub/pkg/forumhub/auth"
	"github.com/forumhub/forumhub/pkg/forumhub/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles notification read-side requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new notifications handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        uint   `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	PostID    *uint  `json:"post_id,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

func notificationToResponse(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Message:   n.Message,
		PostID:    n.PostID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// List returns the current user's notifications, newest first
// @Summary List notifications
// @Description Get all notifications for the current user, most recent first
// @Tags notifications
// @Produce json
// @Success 200 {array} NotificationResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var notifs []models.Notification
	if err := h.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	responses := make([]NotificationResponse, len(notifs))
	for i, n := range notifs {
		responses[i] = notificationToResponse(n)
	}

	c.JSON(http.StatusOK, responses)
}

// MarkRead marks one of the current user's notifications as read
// @Summary Mark notification read
// @Description Set the read flag on a notification; marking an already-read notification is a no-op success
// @Tags notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} map[string]string "Notification marked as read"
// @Failure 404 {object} map[string]string "Notification not found"
// @Security BearerAuth
// @Router /notifications/{id}/read [put]
func (h *Handler) MarkRead(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	notifID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	// Scoped to the owner: someone else's notification is a 404, not a 403.
	var notif models.Notification
	if err := h.db.Where("id = ? AND user_id = ?", notifID, userID).First(&notif).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	if !notif.Read {
		notif.Read = true
		if err := h.db.Save(&notif).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification as read"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// RegisterRoutes registers notification routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.PUT("/:id/read", h.MarkRead)
}
