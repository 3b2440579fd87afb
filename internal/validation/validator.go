package validation

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/comment-moderation-api/internal/models"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

const (
	maxAuthorNameLength  = 100
	maxAuthorEmailLength = 254
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validator checks and normalizes comment input
type Validator struct {
	policy           *bluemonday.Policy
	maxContentLength int
}

// NewValidator creates a validator. maxContentLength <= 0 disables the length cap.
func NewValidator(maxContentLength int) *Validator {
	return &Validator{
		policy:           bluemonday.StrictPolicy(),
		maxContentLength: maxContentLength,
	}
}

// maxSanitizePasses bounds re-sanitizing of entity-encoded markup
const maxSanitizePasses = 4

// Sanitize strips all markup and returns trimmed plain text. Entities are
// decoded and the result sanitized again until it is stable, so encoded
// markup cannot survive as real markup.
func (v *Validator) Sanitize(in string) string {
	out := in
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(v.policy.Sanitize(out))
		if next == out {
			return strings.TrimSpace(out)
		}
		out = next
	}
	// Still changing: keep the escaped form rather than decoded text
	return strings.TrimSpace(v.policy.Sanitize(out))
}

// ValidateSubmission sanitizes a submission and reports every invalid field.
// The returned comment is only meaningful when no errors are returned.
func (v *Validator) ValidateSubmission(req *models.SubmitRequest) (*models.Comment, []models.ValidationError) {
	if req == nil {
		return nil, []models.ValidationError{{Message: "request body is required"}}
	}

	comment := &models.Comment{
		PostID:      strings.TrimSpace(req.PostID),
		AuthorName:  v.Sanitize(req.AuthorName),
		AuthorEmail: strings.TrimSpace(req.AuthorEmail),
		Content:     v.Sanitize(req.Content),
	}

	var errors []models.ValidationError

	if comment.PostID == "" {
		errors = append(errors, models.ValidationError{Field: "post_id", Message: "post_id is required"})
	}

	if comment.AuthorName == "" {
		errors = append(errors, models.ValidationError{Field: "author_name", Message: "author_name is required"})
	} else if utf8.RuneCountInString(comment.AuthorName) > maxAuthorNameLength {
		errors = append(errors, models.ValidationError{Field: "author_name", Message: "author_name is too long"})
	}

	if comment.AuthorEmail == "" {
		errors = append(errors, models.ValidationError{Field: "author_email", Message: "author_email is required"})
	} else if len(comment.AuthorEmail) > maxAuthorEmailLength || !emailRegex.MatchString(comment.AuthorEmail) {
		errors = append(errors, models.ValidationError{Field: "author_email", Message: "invalid email format", Value: comment.AuthorEmail})
	}

	// Markup-only content sanitizes to nothing
	if comment.Content == "" {
		errors = append(errors, models.ValidationError{Field: "content", Message: "content is required"})
	} else if v.maxContentLength > 0 && utf8.RuneCountInString(comment.Content) > v.maxContentLength {
		errors = append(errors, models.ValidationError{Field: "content", Message: "content is too long"})
	}

	if len(errors) > 0 {
		return nil, errors
	}

	comment.ID = uuid.New().String()
	return comment, nil
}

// ValidateCommentID checks that id is a UUID
func ValidateCommentID(id string) error {
	if !isValidUUID(id) {
		return &models.ValidationError{Field: "id", Message: "invalid comment id", Value: id}
	}
	return nil
}

// ValidateListStatus checks that status names a listable dashboard bucket
func ValidateListStatus(status models.CommentStatus) error {
	if !models.ValidListStatuses[status] {
		return &models.ValidationError{
			Field:   "status",
			Message: "status must be one of: pending, approved, flagged",
			Value:   string(status),
		}
	}
	return nil
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
