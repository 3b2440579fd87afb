package service

import (
	"context"

	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/moderation"
	"github.com/comment-moderation-api/internal/notify"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/rs/zerolog"
)

// ModerationService is the comment submission and operator surface
type ModerationService interface {
	SubmitComment(ctx context.Context, req *models.SubmitRequest) (*models.Comment, error)
	ListPublic(ctx context.Context, postID string) ([]*models.Comment, error)
	ListByStatus(ctx context.Context, status models.CommentStatus) ([]*models.DashboardComment, error)
	Stats(ctx context.Context) (map[models.CommentStatus]int, error)
	ApproveComment(ctx context.Context, id string) (*models.Comment, error)
	FlagComment(ctx context.Context, id, reason string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) (*models.Comment, error)
}

// SweepService applies the time-based approval policy in the background
type SweepService interface {
	StartScheduler(ctx context.Context) error
	StopScheduler()
	RunOnce(ctx context.Context) (int, error)
}

// ContentScreener produces a verdict for comment text
type ContentScreener interface {
	ScreenWithProvider(ctx context.Context, text string) moderation.Verdict
}

// Services holds all service interfaces
type Services struct {
	Moderation ModerationService
	Sweep      SweepService
}

// NewServices creates all services
func NewServices(
	repos *repository.Repositories,
	screener ContentScreener,
	notifier notify.Notifier,
	cfg *config.Config,
	log zerolog.Logger,
) *Services {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Services{
		Moderation: newModerationService(repos.Comment, screener, notifier, cfg.Moderation, log),
		Sweep:      newSweepService(repos.Comment, cfg.Sweep, cfg.Moderation.AutoApproveThresholdHours, log),
	}
}

// NewModerator builds the content screener from configuration
func NewModerator(cfg config.ModerationConfig, log zerolog.Logger) *moderation.Moderator {
	screener := moderation.NewScreener(cfg.ProfanityLexicon, cfg.SpamKeywords)
	provider := moderation.NewHTTPProvider(moderation.ProviderConfig{
		Endpoint: cfg.ProviderEndpoint,
		APIKey:   cfg.ProviderKey,
		Timeout:  cfg.ProviderTimeout,
	}, log)
	if !provider.Configured() {
		log.Warn().Msg("Moderation provider not configured; comments will not be auto-approved on submission")
	}
	return moderation.NewModerator(screener, provider, log)
}
