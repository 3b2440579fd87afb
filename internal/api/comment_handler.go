package api

import (
	"net/http"

	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles the public comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comments").Logger(),
	}
}

// submissionMessages are shown to the commenter after submitting
var submissionMessages = map[models.CommentStatus]string{
	models.CommentStatusApproved: "Comment published",
	models.CommentStatusPending:  "Comment submitted and awaiting moderation",
	models.CommentStatusFlagged:  "Comment submitted and awaiting moderation",
}

// SubmitComment handles POST /v1/comments
func (h *CommentHandler) SubmitComment(c *gin.Context) {
	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx, cancel := contextWithTimeout(c, operationTimeout)
	defer cancel()

	comment, err := h.services.Moderation.SubmitComment(ctx, &req)
	if err != nil {
		respondError(c, h.log, err, "Failed to submit comment")
		return
	}

	status := comment.Status()
	// Held comments are not echoed back with their moderation details
	resp := gin.H{
		"id":      comment.ID,
		"status":  status,
		"message": submissionMessages[status],
	}
	if comment.Visible() {
		resp["comment"] = comment.Public()
	}
	c.JSON(http.StatusCreated, resp)
}

// ListPostComments handles GET /v1/posts/:post_id/comments
func (h *CommentHandler) ListPostComments(c *gin.Context) {
	postID := c.Param("post_id")

	comments, err := h.services.Moderation.ListPublic(c.Request.Context(), postID)
	if err != nil {
		respondError(c, h.log, err, "Failed to list comments")
		return
	}

	public := make([]models.PublicComment, 0, len(comments))
	for _, comment := range comments {
		public = append(public, comment.Public())
	}

	c.JSON(http.StatusOK, gin.H{
		"post_id":  postID,
		"count":    len(public),
		"comments": public,
	})
}
