package api

import (
	"errors"
	"net/http"

	"github.com/comment-moderation-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// mapHTTPStatus maps domain errors to HTTP status codes
func mapHTTPStatus(err error) int {
	if models.IsValidationError(err) {
		return http.StatusBadRequest
	}
	if errors.Is(err, models.ErrCommentNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// errorMessage returns a message safe to show to the caller
func errorMessage(err error) string {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, models.ErrCommentNotFound):
		return models.ErrCommentNotFound.Error()
	default:
		return "the comment store is unavailable, please try again"
	}
}

// respondError writes an error response, logging server-side failures
func respondError(c *gin.Context, log zerolog.Logger, err error, msg string) {
	status := mapHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg(msg)
	}
	c.JSON(status, gin.H{"error": errorMessage(err)})
}
