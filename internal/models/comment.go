package models

import (
	"time"
)

// CommentStatus is the dashboard bucket a comment falls into
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusFlagged  CommentStatus = "flagged"
	CommentStatusArchived CommentStatus = "archived"
)

// ValidListStatuses defines the buckets operators can list.
// Archived comments are listed under "flagged".
var ValidListStatuses = map[CommentStatus]bool{
	CommentStatusPending:  true,
	CommentStatusApproved: true,
	CommentStatusFlagged:  true,
}

// Comment represents a reader comment on a blog post
type Comment struct {
	ID          string    `json:"id" db:"id"`
	PostID      string    `json:"post_id" db:"post_id"`
	AuthorName  string    `json:"author_name" db:"author_name"`
	AuthorEmail string    `json:"author_email" db:"author_email"`
	Content     string    `json:"content" db:"content"`
	Approved    bool      `json:"approved" db:"approved"`
	Flagged     bool      `json:"flagged" db:"flagged"`
	FlagReason  string    `json:"flag_reason,omitempty" db:"flag_reason"`
	Archived    bool      `json:"archived" db:"archived"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Visible reports whether the comment is shown on the public site
func (c *Comment) Visible() bool {
	return c.Approved && !c.Archived
}

// Status derives the effective classification from the stored flags
func (c *Comment) Status() CommentStatus {
	switch {
	case c.Archived:
		return CommentStatusArchived
	case c.Flagged:
		return CommentStatusFlagged
	case c.Approved:
		return CommentStatusApproved
	default:
		return CommentStatusPending
	}
}

// InBucket reports whether the comment is listed under the given dashboard bucket
func (c *Comment) InBucket(status CommentStatus) bool {
	switch status {
	case CommentStatusPending:
		return !c.Approved && !c.Archived && !c.Flagged
	case CommentStatusApproved:
		return c.Approved && !c.Archived
	case CommentStatusFlagged:
		return c.Flagged || c.Archived
	case CommentStatusArchived:
		return c.Archived
	}
	return false
}

// PublicComment is the shape returned to site visitors
type PublicComment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Public strips operator-only fields
func (c *Comment) Public() PublicComment {
	return PublicComment{
		ID:         c.ID,
		PostID:     c.PostID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
	}
}

// SubmitRequest represents a comment submitted from the blog
type SubmitRequest struct {
	PostID      string `json:"post_id"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Content     string `json:"content"`
}

// FlagRequest is the operator payload for flagging a comment
type FlagRequest struct {
	Reason string `json:"reason"`
}

// DashboardComment decorates a comment with the auto-approve countdown
type DashboardComment struct {
	*Comment
	Status             CommentStatus `json:"status"`
	AutoApproveInHours *int          `json:"auto_approve_in_hours,omitempty"`
}

// ActionResult is returned for operator actions so the dashboard can show a toast
type ActionResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Comment *Comment `json:"comment,omitempty"`
}
