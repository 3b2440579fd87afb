package mocks

import (
	"context"
	"sync"

	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/moderation"
	"github.com/comment-moderation-api/internal/notify"
	"github.com/comment-moderation-api/internal/service"
)

// MockModerationService is a mock implementation of ModerationService
type MockModerationService struct {
	SubmitFunc  func(ctx context.Context, req *models.SubmitRequest) (*models.Comment, error)
	ApproveFunc func(ctx context.Context, id string) (*models.Comment, error)
	FlagFunc    func(ctx context.Context, id, reason string) (*models.Comment, error)
	DeleteFunc  func(ctx context.Context, id string) (*models.Comment, error)
	ListErr     error

	Public      map[string][]*models.Comment
	Buckets     map[models.CommentStatus][]*models.DashboardComment
	Counts      map[models.CommentStatus]int
	Submitted   []*models.SubmitRequest
	FlagReasons []string
}

// Verify interface compliance
var _ service.ModerationService = (*MockModerationService)(nil)

func NewMockModerationService() *MockModerationService {
	return &MockModerationService{
		Public:  make(map[string][]*models.Comment),
		Buckets: make(map[models.CommentStatus][]*models.DashboardComment),
		Counts:  make(map[models.CommentStatus]int),
	}
}

func (m *MockModerationService) SubmitComment(ctx context.Context, req *models.SubmitRequest) (*models.Comment, error) {
	m.Submitted = append(m.Submitted, req)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, req)
	}
	return &models.Comment{
		ID:          "test-comment-id",
		PostID:      req.PostID,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Content:     req.Content,
	}, nil
}

func (m *MockModerationService) ListPublic(ctx context.Context, postID string) ([]*models.Comment, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Public[postID], nil
}

func (m *MockModerationService) ListByStatus(ctx context.Context, status models.CommentStatus) ([]*models.DashboardComment, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if !models.ValidListStatuses[status] {
		return nil, models.NewValidationError("status", "status must be one of: pending, approved, flagged")
	}
	return m.Buckets[status], nil
}

func (m *MockModerationService) Stats(ctx context.Context) (map[models.CommentStatus]int, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Counts, nil
}

func (m *MockModerationService) ApproveComment(ctx context.Context, id string) (*models.Comment, error) {
	if m.ApproveFunc != nil {
		return m.ApproveFunc(ctx, id)
	}
	return &models.Comment{ID: id, Approved: true}, nil
}

func (m *MockModerationService) FlagComment(ctx context.Context, id, reason string) (*models.Comment, error) {
	m.FlagReasons = append(m.FlagReasons, reason)
	if m.FlagFunc != nil {
		return m.FlagFunc(ctx, id, reason)
	}
	return &models.Comment{ID: id, Flagged: true, FlagReason: reason}, nil
}

func (m *MockModerationService) DeleteComment(ctx context.Context, id string) (*models.Comment, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return &models.Comment{ID: id, Archived: true}, nil
}

// MockSweepService is a mock implementation of SweepService
type MockSweepService struct {
	Started  bool
	Stopped  bool
	Approved int
	RunErr   error
}

var _ service.SweepService = (*MockSweepService)(nil)

func NewMockSweepService() *MockSweepService {
	return &MockSweepService{}
}

func (m *MockSweepService) StartScheduler(ctx context.Context) error {
	m.Started = true
	return nil
}

func (m *MockSweepService) StopScheduler() {
	m.Stopped = true
}

func (m *MockSweepService) RunOnce(ctx context.Context) (int, error) {
	return m.Approved, m.RunErr
}

// MockProvider is a mock moderation provider
type MockProvider struct {
	Result *moderation.ProviderResult
	Err    error
	Calls  int
	Texts  []string
}

var _ moderation.Provider = (*MockProvider)(nil)

func (m *MockProvider) Moderate(ctx context.Context, text string) (*moderation.ProviderResult, error) {
	m.Calls++
	m.Texts = append(m.Texts, text)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result == nil {
		return &moderation.ProviderResult{}, nil
	}
	return m.Result, nil
}

// MockNotifier records review notifications
type MockNotifier struct {
	mu       sync.Mutex
	Notified []*models.Comment
	Err      error
}

var _ notify.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) CommentNeedsReview(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notified = append(m.Notified, comment)
	return m.Err
}
