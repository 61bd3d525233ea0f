package events

import (
	"net/http"
	"strconv"

	"github.com/forumhub/forumhub/pkg/forumhub/auth"
	"github.com/forumhub/forumhub/pkg/forumhub/authz"
	"github.com/forumhub/forumhub/pkg/forumhub/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles group event requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new events handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateEventRequest represents the request to create an event
type CreateEventRequest struct {
	Date        string `json:"date" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// MemberResponse represents an event member's display profile
type MemberResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID          uint             `json:"id"`
	GroupID     uint             `json:"group_id"`
	Date        string           `json:"date"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Image       string           `json:"image,omitempty"`
	CreatedByID uint             `json:"created_by_id"`
	Members     []MemberResponse `json:"members"`
	CreatedAt   string           `json:"created_at"`
}

func eventToResponse(event models.Event) EventResponse {
	members := make([]MemberResponse, len(event.Members))
	for i, m := range event.Members {
		members[i] = MemberResponse{
			ID:             m.User.ID,
			Name:           m.User.Name,
			Email:          m.User.Email,
			ProfilePicture: m.User.ProfilePicture,
		}
	}

	return EventResponse{
		ID:          event.ID,
		GroupID:     event.GroupID,
		Date:        event.Date,
		Name:        event.Name,
		Description: event.Description,
		Image:       event.Image,
		CreatedByID: event.CreatedByID,
		Members:     members,
		CreatedAt:   event.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Create creates a new event in a group; private groups are domain-gated
// @Summary Create an event
// @Description Create a calendar event in a group with an empty member list
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body CreateEventRequest true "Event details"
// @Success 201 {object} EventResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Domain not permitted"
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/events [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	group, ok := h.gateGroup(c)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := models.NewEvent(group.ID, userID, req.Date, req.Name, req.Description, req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Create(event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, eventToResponse(*event))
}

// List returns all events in a group; private groups are domain-gated.
// Calendar-month filtering is left to the caller.
// @Summary List group events
// @Description Get all events in a group with member profiles populated
// @Tags events
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} EventResponse
// @Failure 403 {object} map[string]string "Domain not permitted"
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/events [get]
func (h *Handler) List(c *gin.Context) {
	group, ok := h.gateGroup(c)
	if !ok {
		return
	}

	var groupEvents []models.Event
	err := h.db.Preload("Members.User").Where("group_id = ?", group.ID).
		Order("date ASC").Find(&groupEvents).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	responses := make([]EventResponse, len(groupEvents))
	for i, event := range groupEvents {
		responses[i] = eventToResponse(event)
	}

	c.JSON(http.StatusOK, responses)
}

// Join adds the current user to an event's member list.
// Joining is idempotent-by-rejection: a second join is refused, not reversed.
// @Summary Join an event
// @Description Express interest in an event. A duplicate join is rejected with a conflict.
// @Tags events
// @Produce json
// @Param id path int true "Group ID"
// @Param eventID path int true "Event ID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 409 {object} map[string]string "Already a member"
// @Security BearerAuth
// @Router /groups/{id}/events/{eventID}/join [post]
func (h *Handler) Join(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	event, ok := h.loadEvent(c)
	if !ok {
		return
	}

	var existing models.EventMembership
	if h.db.Where("event_id = ? AND user_id = ?", event.ID, userID).First(&existing).Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already a member of this event"})
		return
	}

	membership := models.EventMembership{EventID: event.ID, UserID: userID}
	if err := h.db.Create(&membership).Error; err != nil {
		// Unique index backstop: a concurrent join already added this user.
		var race models.EventMembership
		if h.db.Where("event_id = ? AND user_id = ?", event.ID, userID).First(&race).Error == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Already a member of this event"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join event"})
		return
	}

	var joined models.Event
	if err := h.db.Preload("Members.User").First(&joined, event.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		return
	}

	c.JSON(http.StatusOK, eventToResponse(joined))
}

// Delete removes an event; only the creator may delete
// @Summary Delete an event
// @Description Delete an event and its memberships
// @Tags events
// @Produce json
// @Param id path int true "Group ID"
// @Param eventID path int true "Event ID"
// @Success 200 {object} map[string]string "Event deleted"
// @Failure 403 {object} map[string]string "Not the event creator"
// @Failure 404 {object} map[string]string "Event not found"
// @Security BearerAuth
// @Router /groups/{id}/events/{eventID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	event, ok := h.loadEvent(c)
	if !ok {
		return
	}

	if err := authz.CanDeleteEvent(userID, event); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not the event creator"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.EventMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(event).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// loadEvent fetches the event addressed by the :id/:eventID params, scoped to
// its group. On failure it writes the error response and returns ok=false.
func (h *Handler) loadEvent(c *gin.Context) (*models.Event, bool) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return nil, false
	}
	eventID, err := strconv.ParseUint(c.Param("eventID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return nil, false
	}

	var event models.Event
	if err := h.db.Where("group_id = ?", groupID).First(&event, eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return nil, false
	}

	return &event, true
}

// gateGroup loads the group from the :id param and applies the domain gate
func (h *Handler) gateGroup(c *gin.Context) (*models.Group, bool) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return nil, false
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return nil, false
	}

	email, _ := auth.GetEmail(c)
	if err := authz.CanAccessGroup(email, &group); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Domain not permitted"})
		return nil, false
	}

	return &group, true
}

// RegisterRoutes registers event routes on the groups router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/events", h.Create)
	rg.GET("/:id/events", h.List)
	rg.POST("/:id/events/:eventID/join", h.Join)
	rg.DELETE("/:id/events/:eventID", h.Delete)
}
