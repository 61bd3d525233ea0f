package questions

import (
	"net/http"

	"github.com/forumhub/forumhub/pkg/forumhub/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles anonymous Q&A requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new questions handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateQuestionRequest represents the request to post a question.
// Username is a free-form display name; no account is required.
type CreateQuestionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Image       string `json:"image"`
	Username    string `json:"username" binding:"required"`
}

// QuestionResponse represents a question in API responses
type QuestionResponse struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Username    string   `json:"username"`
	Likes       int      `json:"likes"`
	Comments    []string `json:"comments"`
	CreatedAt   string   `json:"created_at"`
}

func questionToResponse(q models.Question) QuestionResponse {
	comments := []string(q.Comments)
	if comments == nil {
		comments = []string{}
	}
	return QuestionResponse{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Image:       q.Image,
		Username:    q.Username,
		Likes:       q.Likes,
		Comments:    comments,
		CreatedAt:   q.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Create posts a new question
// @Summary Post a question
// @Description Post an anonymous question with a display name; no account required
// @Tags questions
// @Accept json
// @Produce json
// @Param request body CreateQuestionRequest true "Question details"
// @Success 201 {object} QuestionResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Router /questions [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := models.NewQuestion(req.Title, req.Description, req.Image, req.Username)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Create(question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post question"})
		return
	}

	c.JSON(http.StatusCreated, questionToResponse(*question))
}

// List returns all questions, newest first
// @Summary List questions
// @Description Get all questions, most recent first
// @Tags questions
// @Produce json
// @Success 200 {array} QuestionResponse
// @Router /questions [get]
func (h *Handler) List(c *gin.Context) {
	var allQuestions []models.Question
	if err := h.db.Order("created_at DESC").Find(&allQuestions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
		return
	}

	responses := make([]QuestionResponse, len(allQuestions))
	for i, q := range allQuestions {
		responses[i] = questionToResponse(q)
	}

	c.JSON(http.StatusOK, responses)
}

// RegisterRoutes registers question routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
}
