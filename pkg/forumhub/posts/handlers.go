package posts

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/forumhub/forumhub/pkg/forumhub/auth"
	"github.com/forumhub/forumhub/pkg/forumhub/authz"
	"github.com/forumhub/forumhub/pkg/forumhub/models"
	"github.com/forumhub/forumhub/pkg/forumhub/notifications"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles post-related requests
type Handler struct {
	db       *gorm.DB
	notifier *notifications.Service
}

// NewHandler creates a new posts handler
func NewHandler(db *gorm.DB, notifier *notifications.Service) *Handler {
	return &Handler{db: db, notifier: notifier}
}

// CreatePostRequest represents the request to create a feed post
type CreatePostRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content"`
	Category string   `json:"category" binding:"required"`
	Image    string   `json:"image"`
	Tags     []string `json:"tags"`
}

// UpdatePostRequest represents a partial post update; empty fields are left unchanged
type UpdatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

// CommentRequest represents the request to add a comment
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// ReportRequest represents the request to report a post
type ReportRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// AuthorResponse represents a post or comment author in API responses
type AuthorResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Username       string `json:"username"`
	About          string `json:"about,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// CommentResponse represents a comment in API responses
type CommentResponse struct {
	ID        uint           `json:"id"`
	Content   string         `json:"content"`
	Author    AuthorResponse `json:"author"`
	CreatedAt string         `json:"created_at"`
}

// PostResponse represents a post in API responses
type PostResponse struct {
	ID        uint              `json:"id"`
	Author    AuthorResponse    `json:"author"`
	GroupID   *uint             `json:"group_id,omitempty"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Category  string            `json:"category,omitempty"`
	Image     string            `json:"image,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	Likes     []uint            `json:"likes"`
	Comments  []CommentResponse `json:"comments"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}

func authorToResponse(user models.User) AuthorResponse {
	return AuthorResponse{
		ID:             user.ID,
		Name:           user.Name,
		Username:       user.Username,
		About:          user.About,
		ProfilePicture: user.ProfilePicture,
	}
}

func commentToResponse(comment models.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		Author:    authorToResponse(comment.Author),
		CreatedAt: comment.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// PostToResponse converts a fully preloaded post into its API shape.
// Exported for the groups package, which returns posts inside group details.
func PostToResponse(post models.Post) PostResponse {
	likes := make([]uint, len(post.Likes))
	for i, like := range post.Likes {
		likes[i] = like.UserID
	}

	comments := make([]CommentResponse, len(post.Comments))
	for i, comment := range post.Comments {
		comments[i] = commentToResponse(comment)
	}

	return PostResponse{
		ID:        post.ID,
		Author:    authorToResponse(post.Author),
		GroupID:   post.GroupID,
		Title:     post.Title,
		Content:   post.Content,
		Category:  post.Category,
		Image:     post.Image,
		Tags:      post.Tags,
		Likes:     likes,
		Comments:  comments,
		CreatedAt: post.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: post.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// loadPost fetches a post with author, likes and comment authors populated
func (h *Handler) loadPost(postID uint) (*models.Post, error) {
	var post models.Post
	err := h.db.Preload("Author").Preload("Likes").Preload("Comments.Author").First(&post, postID).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Create creates a new feed post
// @Summary Create a post
// @Description Create a new post on the main feed
// @Tags posts
// @Accept json
// @Produce json
// @Param request body CreatePostRequest true "Post details"
// @Success 201 {object} PostResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /posts [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := models.NewPost(userID, req.Title, req.Content, req.Category, req.Image, nil, req.Tags)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Create(post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	created, err := h.loadPost(post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusCreated, PostToResponse(*created))
}

// Feed returns all main-feed posts, newest first
// @Summary Get feed posts
// @Description Get all posts that do not belong to a group, most recent first
// @Tags posts
// @Produce json
// @Success 200 {array} PostResponse
// @Security BearerAuth
// @Router /posts [get]
func (h *Handler) Feed(c *gin.Context) {
	var feedPosts []models.Post
	err := h.db.Preload("Author").Preload("Likes").Preload("Comments.Author").
		Where("group_id IS NULL").Order("created_at DESC").Find(&feedPosts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	responses := make([]PostResponse, len(feedPosts))
	for i, post := range feedPosts {
		responses[i] = PostToResponse(post)
	}

	c.JSON(http.StatusOK, responses)
}

// GetByID returns a single post
// @Summary Get a post
// @Description Get a post by ID with author and comment authors populated
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} PostResponse
// @Failure 404 {object} map[string]string "Post not found"
// @Security BearerAuth
// @Router /posts/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	post, err := h.loadPost(uint(postID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, PostToResponse(*post))
}

// ListByUser returns all posts authored by a user
// @Summary Get a user's posts
// @Description Get all posts authored by the given user, most recent first
// @Tags posts
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} PostResponse
// @Failure 404 {object} map[string]string "No posts found"
// @Security BearerAuth
// @Router /posts/user/{id} [get]
func (h *Handler) ListByUser(c *gin.Context) {
	authorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var userPosts []models.Post
	err = h.db.Preload("Author").Preload("Likes").Preload("Comments.Author").
		Where("author_id = ?", authorID).Order("created_at DESC").Find(&userPosts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	if len(userPosts) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No posts found for this user"})
		return
	}

	responses := make([]PostResponse, len(userPosts))
	for i, post := range userPosts {
		responses[i] = PostToResponse(post)
	}

	c.JSON(http.StatusOK, responses)
}

// Edit applies a partial update to a post; only the author may edit
// @Summary Edit a post
// @Description Update title, content, category or image; unspecified fields are unchanged
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body UpdatePostRequest true "Updated fields"
// @Success 200 {object} PostResponse
// @Failure 403 {object} map[string]string "Not the post owner"
// @Failure 404 {object} map[string]string "Post not found"
// @Security BearerAuth
// @Router /posts/{id} [put]
func (h *Handler) Edit(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	post, err := h.loadPost(uint(postID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if err := authz.CanModifyPost(userID, post); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not the post owner"})
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	if req.Category != "" {
		post.Category = req.Category
	}
	if req.Image != "" {
		post.Image = req.Image
	}

	if err := h.db.Save(post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, PostToResponse(*post))
}

// Delete removes a post; only the author may delete
// @Summary Delete a post
// @Description Delete a post along with its likes, comments and reports. Notifications referencing the post are kept.
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]string "Post deleted"
// @Failure 403 {object} map[string]string "Not the post owner"
// @Failure 404 {object} map[string]string "Post not found"
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if err := authz.CanModifyPost(userID, &post); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not the post owner"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// ToggleLike likes the post if the caller has not liked it, unlikes otherwise
// @Summary Toggle like on a post
// @Description Like a post, or remove the like if already present. Liking someone else's post notifies the author.
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} PostResponse
// @Failure 404 {object} map[string]string "Post not found"
// @Security BearerAuth
// @Router /posts/{id}/like [put]
func (h *Handler) ToggleLike(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var existing models.PostLike
	liked := h.db.Where("post_id = ? AND user_id = ?", post.ID, userID).First(&existing).Error == nil

	if liked {
		// Unlike; never notifies.
		if err := h.db.Where("post_id = ? AND user_id = ?", post.ID, userID).Delete(&models.PostLike{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlike post"})
			return
		}
	} else {
		like := models.PostLike{PostID: post.ID, UserID: userID}
		if err := h.db.Create(&like).Error; err != nil {
			// Unique index backstop: a concurrent request already inserted
			// the like, so the desired state holds.
			var race models.PostLike
			if h.db.Where("post_id = ? AND user_id = ?", post.ID, userID).First(&race).Error != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like post"})
				return
			}
		} else if post.AuthorID != userID {
			// The like is durable at this point; notification emission is a
			// best-effort side channel and never fails the action.
			var liker models.User
			if err := h.db.First(&liker, userID).Error; err == nil {
				h.notifier.Enqueue(post.AuthorID, models.NotificationLike,
					fmt.Sprintf("%s liked your post %q", liker.Username, post.Title), &post.ID)
			}
		}
	}

	updated, err := h.loadPost(post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, PostToResponse(*updated))
}

// AddComment appends a comment to a post
// @Summary Comment on a post
// @Description Append a comment; commenting on someone else's post notifies the author
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body CommentRequest true "Comment content"
// @Success 201 {object} map[string]interface{} "Updated comment list"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Post not found"
// @Security BearerAuth
// @Router /posts/{id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: userID,
		Content:  req.Content,
	}
	if err := h.db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	if post.AuthorID != userID {
		var commenter models.User
		if err := h.db.First(&commenter, userID).Error; err == nil {
			h.notifier.Enqueue(post.AuthorID, models.NotificationComment,
				fmt.Sprintf("%s commented on your post %q", commenter.Username, post.Title), &post.ID)
		}
	}

	// Return the full comment list with author details populated
	var comments []models.Comment
	if err := h.db.Preload("Author").Where("post_id = ?", post.ID).Order("created_at ASC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	responses := make([]CommentResponse, len(comments))
	for i, cm := range comments {
		responses[i] = commentToResponse(cm)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Comment added successfully",
		"comments": responses,
	})
}

// Report records a report against a post. Reports are never deduplicated.
// @Summary Report a post
// @Description Report a post with a reason
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body ReportRequest true "Report reason"
// @Success 200 {object} map[string]string "Post reported"
// @Failure 400 {object} map[string]string "Reason required"
// @Failure 404 {object} map[string]string "Post not found"
// @Security BearerAuth
// @Router /posts/{id}/report [post]
func (h *Handler) Report(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reason for reporting is required"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	report := models.Report{
		PostID:       post.ID,
		ReportedByID: userID,
		Reason:       req.Reason,
	}
	if err := h.db.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to report post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post reported successfully"})
}

// RegisterRoutes registers post routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.Feed)
	rg.GET("/:id", h.GetByID)
	rg.GET("/user/:id", h.ListByUser)
	rg.PUT("/:id", h.Edit)
	rg.DELETE("/:id", h.Delete)
	rg.PUT("/:id/like", h.ToggleLike)
	rg.POST("/:id/comments", h.AddComment)
	rg.POST("/:id/report", h.Report)
}
