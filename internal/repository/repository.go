package repository

import (
	"context"

	"github.com/comment-moderation-api/internal/database"
	"github.com/comment-moderation-api/internal/models"
)

// CommentRepository defines the comment store operations.
// Unknown ids yield models.ErrCommentNotFound; backend failures are
// returned as *models.StoreError.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByStatus(ctx context.Context, status models.CommentStatus) ([]*models.Comment, error)
	ListVisibleByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	CountByStatus(ctx context.Context) (map[models.CommentStatus]int, error)
	Approve(ctx context.Context, id string) (*models.Comment, error)
	// ApprovePending approves only while the comment is still pending.
	// It returns nil, nil when the comment is no longer pending.
	ApprovePending(ctx context.Context, id string) (*models.Comment, error)
	Flag(ctx context.Context, id, reason string) (*models.Comment, error)
	Archive(ctx context.Context, id string) (*models.Comment, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Comment CommentRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Comment: NewCommentRepo(db),
	}
}
