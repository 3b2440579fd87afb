package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/comment-moderation-api/internal/models"
)

// MockCommentRepository is an in-memory implementation of CommentRepository
type MockCommentRepository struct {
	mu       sync.Mutex
	Comments map[string]*models.Comment

	// Err, when set, is returned from every call as a store failure
	Err error
	// Now overrides the creation clock
	Now func() time.Time

	ApproveCalls int
	FlagCalls    int
	ArchiveCalls int
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[string]*models.Comment),
		Now:      time.Now,
	}
}

// Seed stores a comment as-is, bypassing Create's defaults
func (m *MockCommentRepository) Seed(comment *models.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *comment
	m.Comments[comment.ID] = &copied
}

func (m *MockCommentRepository) storeErr(op string) error {
	if m.Err != nil {
		return &models.StoreError{Op: op, Err: m.Err}
	}
	return nil
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if strings.TrimSpace(comment.Content) == "" {
		return models.NewValidationError("content", "content is required")
	}
	if err := m.storeErr("create"); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now().UTC()
	comment.Approved = false
	comment.Flagged = false
	comment.FlagReason = ""
	comment.Archived = false
	comment.CreatedAt = now
	comment.UpdatedAt = now

	copied := *comment
	m.Comments[comment.ID] = &copied
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	if err := m.storeErr("get"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Comments[id]
	if !ok {
		return nil, models.ErrCommentNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *MockCommentRepository) ListByStatus(ctx context.Context, status models.CommentStatus) ([]*models.Comment, error) {
	if err := m.storeErr("list"); err != nil {
		return nil, err
	}
	return m.filter(func(c *models.Comment) bool { return c.InBucket(status) }, true), nil
}

func (m *MockCommentRepository) ListVisibleByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	if err := m.storeErr("list_visible"); err != nil {
		return nil, err
	}
	return m.filter(func(c *models.Comment) bool { return c.PostID == postID && c.Visible() }, false), nil
}

func (m *MockCommentRepository) filter(keep func(*models.Comment) bool, newestFirst bool) []*models.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.Comment, 0)
	for _, c := range m.Comments {
		if keep(c) {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *MockCommentRepository) CountByStatus(ctx context.Context) (map[models.CommentStatus]int, error) {
	if err := m.storeErr("count"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	counts := map[models.CommentStatus]int{
		models.CommentStatusPending:  0,
		models.CommentStatusApproved: 0,
		models.CommentStatusFlagged:  0,
		models.CommentStatusArchived: 0,
	}
	for _, c := range m.Comments {
		for status := range counts {
			if c.InBucket(status) {
				counts[status]++
			}
		}
	}
	return counts, nil
}

func (m *MockCommentRepository) update(op, id string, apply func(*models.Comment) bool) (*models.Comment, error) {
	if err := m.storeErr(op); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Comments[id]
	if !ok {
		return nil, models.ErrCommentNotFound
	}
	if !apply(c) {
		return nil, nil
	}
	c.UpdatedAt = time.Now().UTC()
	copied := *c
	return &copied, nil
}

func (m *MockCommentRepository) Approve(ctx context.Context, id string) (*models.Comment, error) {
	m.ApproveCalls++
	return m.update("approve", id, func(c *models.Comment) bool {
		c.Approved = true
		c.Flagged = false
		return true
	})
}

func (m *MockCommentRepository) ApprovePending(ctx context.Context, id string) (*models.Comment, error) {
	comment, err := m.update("approve_pending", id, func(c *models.Comment) bool {
		if !c.InBucket(models.CommentStatusPending) {
			return false
		}
		c.Approved = true
		return true
	})
	if err == models.ErrCommentNotFound {
		return nil, nil
	}
	return comment, err
}

func (m *MockCommentRepository) Flag(ctx context.Context, id, reason string) (*models.Comment, error) {
	m.FlagCalls++
	return m.update("flag", id, func(c *models.Comment) bool {
		c.Flagged = true
		c.Approved = false
		c.FlagReason = reason
		return true
	})
}

func (m *MockCommentRepository) Archive(ctx context.Context, id string) (*models.Comment, error) {
	m.ArchiveCalls++
	return m.update("archive", id, func(c *models.Comment) bool {
		c.Archived = true
		return true
	})
}
