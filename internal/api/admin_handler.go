package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdminHandler handles the operator dashboard endpoints
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// ListComments handles GET /v1/admin/comments?status=pending|approved|flagged
func (h *AdminHandler) ListComments(c *gin.Context) {
	status := models.CommentStatus(c.DefaultQuery("status", string(models.CommentStatusPending)))

	comments, err := h.services.Moderation.ListByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, h.log, err, "Failed to list comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"count":    len(comments),
		"comments": comments,
	})
}

// Stats handles GET /v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	counts, err := h.services.Moderation.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Failed to count comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":  counts,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// ApproveComment handles POST /v1/admin/comments/:id/approve
func (h *AdminHandler) ApproveComment(c *gin.Context) {
	comment, err := h.services.Moderation.ApproveComment(c.Request.Context(), c.Param("id"))
	h.respondAction(c, comment, err, "Comment approved")
}

// FlagComment handles POST /v1/admin/comments/:id/flag
func (h *AdminHandler) FlagComment(c *gin.Context) {
	var req models.FlagRequest
	// The reason is optional; an empty body decodes as io.EOF
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, models.ActionResult{Message: "invalid request body"})
		return
	}

	comment, err := h.services.Moderation.FlagComment(c.Request.Context(), c.Param("id"), req.Reason)
	h.respondAction(c, comment, err, "Comment marked as spam")
}

// DeleteComment handles DELETE /v1/admin/comments/:id
func (h *AdminHandler) DeleteComment(c *gin.Context) {
	comment, err := h.services.Moderation.DeleteComment(c.Request.Context(), c.Param("id"))
	h.respondAction(c, comment, err, "Comment deleted")
}

// respondAction writes the toast payload for an operator action
func (h *AdminHandler) respondAction(c *gin.Context, comment *models.Comment, err error, success string) {
	if err != nil {
		status := mapHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			h.log.Error().Err(err).Str("comment_id", c.Param("id")).Msg("Operator action failed")
		}
		c.JSON(status, models.ActionResult{Success: false, Message: errorMessage(err)})
		return
	}

	h.log.Info().
		Str("operator", c.GetString(operatorKey)).
		Str("comment_id", comment.ID).
		Str("status", string(comment.Status())).
		Msg(success)

	c.JSON(http.StatusOK, models.ActionResult{Success: true, Message: success, Comment: comment})
}
