package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/comment-moderation-api/internal/database"
	"github.com/comment-moderation-api/internal/models"
)

const commentColumns = `id, post_id, author_name, author_email, content,
	approved, flagged, flag_reason, archived, created_at, updated_at`

// bucketFilters mirror models.Comment.InBucket
var bucketFilters = map[models.CommentStatus]string{
	models.CommentStatusPending:  "NOT approved AND NOT archived AND NOT flagged",
	models.CommentStatusApproved: "approved AND NOT archived",
	models.CommentStatusFlagged:  "flagged OR archived",
	models.CommentStatusArchived: "archived",
}

// commentRepo is the PostgreSQL implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	var flagReason sql.NullString
	err := row.Scan(
		&c.ID, &c.PostID, &c.AuthorName, &c.AuthorEmail, &c.Content,
		&c.Approved, &c.Flagged, &flagReason, &c.Archived, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.FlagReason = flagReason.String
	return &c, nil
}

// mapError translates driver errors into store errors
func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrCommentNotFound
	}
	return &models.StoreError{Op: op, Err: err}
}

// Create inserts a new pending comment
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	if strings.TrimSpace(comment.Content) == "" {
		return models.NewValidationError("content", "content is required")
	}

	now := time.Now().UTC()
	comment.Approved = false
	comment.Flagged = false
	comment.FlagReason = ""
	comment.Archived = false
	comment.CreatedAt = now
	comment.UpdatedAt = now

	query := `
		INSERT INTO comments (id, post_id, author_name, author_email, content,
			approved, flagged, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, FALSE, FALSE, $6, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.PostID, comment.AuthorName, comment.AuthorEmail,
		comment.Content, now,
	)
	if err != nil {
		return &models.StoreError{Op: "create", Err: err}
	}
	return nil
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError("get", err)
	}
	return comment, nil
}

// ListByStatus returns the comments in a dashboard bucket, newest first
func (r *commentRepo) ListByStatus(ctx context.Context, status models.CommentStatus) ([]*models.Comment, error) {
	filter, ok := bucketFilters[status]
	if !ok {
		return nil, models.NewValidationError("status", "unknown status: "+string(status))
	}

	query := `SELECT ` + commentColumns + ` FROM comments WHERE ` + filter + ` ORDER BY created_at DESC`
	return r.queryMany(ctx, "list", query)
}

// ListVisibleByPost returns the publicly visible comments of a post, oldest first
func (r *commentRepo) ListVisibleByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments
		WHERE post_id = $1 AND approved AND NOT archived
		ORDER BY created_at`
	return r.queryMany(ctx, "list_visible", query, postID)
}

func (r *commentRepo) queryMany(ctx context.Context, op, query string, args ...any) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &models.StoreError{Op: op, Err: err}
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, &models.StoreError{Op: op, Err: err}
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.StoreError{Op: op, Err: err}
	}
	return comments, nil
}

// CountByStatus counts comments per dashboard bucket
func (r *commentRepo) CountByStatus(ctx context.Context) (map[models.CommentStatus]int, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE NOT approved AND NOT archived AND NOT flagged),
			COUNT(*) FILTER (WHERE approved AND NOT archived),
			COUNT(*) FILTER (WHERE flagged OR archived),
			COUNT(*) FILTER (WHERE archived)
		FROM comments
	`
	var pending, approved, flagged, archived int
	err := r.db.QueryRowContext(ctx, query).Scan(&pending, &approved, &flagged, &archived)
	if err != nil {
		return nil, &models.StoreError{Op: "count", Err: err}
	}

	return map[models.CommentStatus]int{
		models.CommentStatusPending:  pending,
		models.CommentStatusApproved: approved,
		models.CommentStatusFlagged:  flagged,
		models.CommentStatusArchived: archived,
	}, nil
}

// Approve makes a comment visible and clears any flag
func (r *commentRepo) Approve(ctx context.Context, id string) (*models.Comment, error) {
	query := `
		UPDATE comments SET approved = TRUE, flagged = FALSE, updated_at = $1
		WHERE id = $2
		RETURNING ` + commentColumns
	return r.updateOne(ctx, "approve", query, time.Now().UTC(), id)
}

// ApprovePending approves a comment only if no one has acted on it yet
func (r *commentRepo) ApprovePending(ctx context.Context, id string) (*models.Comment, error) {
	query := `
		UPDATE comments SET approved = TRUE, updated_at = $1
		WHERE id = $2 AND NOT approved AND NOT flagged AND NOT archived
		RETURNING ` + commentColumns
	comment, err := r.updateOne(ctx, "approve_pending", query, time.Now().UTC(), id)
	if errors.Is(err, models.ErrCommentNotFound) {
		return nil, nil
	}
	return comment, err
}

// Flag marks a comment as spam or abuse and revokes approval
func (r *commentRepo) Flag(ctx context.Context, id, reason string) (*models.Comment, error) {
	query := `
		UPDATE comments SET flagged = TRUE, approved = FALSE, flag_reason = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + commentColumns
	return r.updateOne(ctx, "flag", query, nullString(reason), time.Now().UTC(), id)
}

// Archive soft-deletes a comment
func (r *commentRepo) Archive(ctx context.Context, id string) (*models.Comment, error) {
	query := `
		UPDATE comments SET archived = TRUE, updated_at = $1
		WHERE id = $2
		RETURNING ` + commentColumns
	return r.updateOne(ctx, "archive", query, time.Now().UTC(), id)
}

// updateOne runs a single-row conditional update; the statement is the transition
func (r *commentRepo) updateOne(ctx context.Context, op, query string, args ...any) (*models.Comment, error) {
	comment, err := scanComment(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError(op, err)
	}
	return comment, nil
}

// helper to convert empty string to NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
