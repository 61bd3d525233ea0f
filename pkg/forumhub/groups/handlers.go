package groups

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/forumhub/forumhub/pkg/forumhub/auth"
	"github.com/forumhub/forumhub/pkg/forumhub/authz"
	"github.com/forumhub/forumhub/pkg/forumhub/models"
	"github.com/forumhub/forumhub/pkg/forumhub/posts"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles group-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new groups handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateGroupRequest represents the request to create a group.
// Visibility and email domains are fixed at creation.
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Details     string `json:"details"`
	Visibility  string `json:"visibility" binding:"omitempty,oneof=public private"`
	// EmailDomains is a comma-joined allowlist, meaningful only when private
	EmailDomains string `json:"email_domains"`
}

// CreateGroupPostRequest represents the request to create a post inside a group
type CreateGroupPostRequest struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content"`
	Image   string   `json:"image"`
	Tags    []string `json:"tags"`
}

// GroupResponse represents a group in API responses
type GroupResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Details      string `json:"details,omitempty"`
	Visibility   string `json:"visibility"`
	EmailDomains string `json:"email_domains,omitempty"`
	CreatedByID  uint   `json:"created_by_id"`
	MemberCount  int    `json:"member_count,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// GroupDetailsResponse bundles a group with its posts
type GroupDetailsResponse struct {
	Group GroupResponse        `json:"group"`
	Posts []posts.PostResponse `json:"posts"`
}

func groupToResponse(group models.Group) GroupResponse {
	return GroupResponse{
		ID:           group.ID,
		Name:         group.Name,
		Description:  group.Description,
		Details:      group.Details,
		Visibility:   string(group.Visibility),
		EmailDomains: group.EmailDomains,
		CreatedByID:  group.CreatedByID,
		CreatedAt:    group.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Create creates a new group with the current user as owner
// @Summary Create a group
// @Description Create a group; visibility and the domain allowlist cannot change afterwards
// @Tags groups
// @Accept json
// @Produce json
// @Param request body CreateGroupRequest true "Group details"
// @Success 201 {object} GroupResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Group name taken"
// @Security BearerAuth
// @Router /groups [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := models.NewGroup(userID, req.Name, req.Description, req.Details,
		models.GroupVisibility(req.Visibility), req.EmailDomains)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Create the group and the creator's membership together. Name
	// uniqueness is enforced by the index, so concurrent creators race on
	// the insert rather than on a lookup.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		membership := models.GroupMembership{GroupID: group.ID, UserID: userID}
		return tx.Create(&membership).Error
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusConflict, gin.H{"error": "Group name already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, groupToResponse(*group))
}

// List returns all groups
// @Summary List groups
// @Description Get all groups
// @Tags groups
// @Produce json
// @Success 200 {array} GroupResponse
// @Security BearerAuth
// @Router /groups [get]
func (h *Handler) List(c *gin.Context) {
	var allGroups []models.Group
	if err := h.db.Order("created_at DESC").Find(&allGroups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	responses := make([]GroupResponse, len(allGroups))
	for i, group := range allGroups {
		var memberCount int64
		h.db.Model(&models.GroupMembership{}).Where("group_id = ?", group.ID).Count(&memberCount)

		responses[i] = groupToResponse(group)
		responses[i].MemberCount = int(memberCount)
	}

	c.JSON(http.StatusOK, responses)
}

// Details returns a group and its posts; private groups are domain-gated
// @Summary Get group details
// @Description Get a group with its posts, newest first. Private groups require an allowlisted email domain.
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} GroupDetailsResponse
// @Failure 403 {object} map[string]string "Domain not permitted"
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id} [get]
func (h *Handler) Details(c *gin.Context) {
	group, ok := h.gateGroup(c)
	if !ok {
		return
	}

	var groupPosts []models.Post
	err := h.db.Preload("Author").Preload("Likes").Preload("Comments.Author").
		Where("group_id = ?", group.ID).Order("created_at DESC").Find(&groupPosts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	postResponses := make([]posts.PostResponse, len(groupPosts))
	for i, post := range groupPosts {
		postResponses[i] = posts.PostToResponse(post)
	}

	c.JSON(http.StatusOK, GroupDetailsResponse{
		Group: groupToResponse(*group),
		Posts: postResponses,
	})
}

// CreatePost creates a post inside a group; private groups are domain-gated
// @Summary Create a group post
// @Description Create a post bound to a group. Private groups require an allowlisted email domain.
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body CreateGroupPostRequest true "Post details"
// @Success 201 {object} posts.PostResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Domain not permitted"
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	group, ok := h.gateGroup(c)
	if !ok {
		return
	}

	var req CreateGroupPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := models.NewPost(userID, req.Title, req.Content, "", req.Image, &group.ID, req.Tags)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Create(post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	var created models.Post
	if err := h.db.Preload("Author").First(&created, post.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusCreated, posts.PostToResponse(created))
}

// gateGroup loads the group from the :id param and applies the domain gate.
// On failure it writes the error response and returns ok=false.
func (h *Handler) gateGroup(c *gin.Context) (*models.Group, bool) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return nil, false
	}

	var group models.Group
	if err := h.db.Preload("CreatedBy").First(&group, groupID).Error; err != nil {
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

// RegisterRoutes registers group routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Details)
	rg.POST("/:id/posts", h.CreatePost)
}
