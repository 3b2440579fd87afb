package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/metrics"
	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/moderation"
	"github.com/comment-moderation-api/internal/notify"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/comment-moderation-api/internal/validation"
	"github.com/rs/zerolog"
)

const defaultOperatorFlag = "Flagged by operator"

// moderationService is the concrete implementation of ModerationService
type moderationService struct {
	comments  repository.CommentRepository
	screener  ContentScreener
	notifier  notify.Notifier
	validator *validation.Validator
	cfg       config.ModerationConfig
	log       zerolog.Logger
	now       func() time.Time
}

// newModerationService creates a new ModerationService
func newModerationService(
	comments repository.CommentRepository,
	screener ContentScreener,
	notifier notify.Notifier,
	cfg config.ModerationConfig,
	log zerolog.Logger,
) *moderationService {
	return &moderationService{
		comments:  comments,
		screener:  screener,
		notifier:  notifier,
		validator: validation.NewValidator(cfg.MaxContentLength),
		cfg:       cfg,
		log:       log.With().Str("service", "moderation").Logger(),
		now:       time.Now,
	}
}

// SubmitComment screens, stores and classifies a new comment
func (s *moderationService) SubmitComment(ctx context.Context, req *models.SubmitRequest) (*models.Comment, error) {
	comment, errs := s.validator.ValidateSubmission(req)
	if len(errs) > 0 {
		return nil, &errs[0]
	}

	verdict := s.screener.ScreenWithProvider(ctx, comment.Content)
	recordProviderResult(verdict)

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	log := s.log.With().Str("comment_id", comment.ID).Str("post_id", comment.PostID).Logger()

	var err error
	switch {
	case verdict.ShouldAutoApprove:
		comment, err = s.comments.Approve(ctx, comment.ID)
		if err != nil {
			return nil, err
		}
		metrics.AutoApprovals.WithLabelValues("verdict").Inc()
	case verdict.HasProfanity || verdict.ExternalFlagged:
		comment, err = s.comments.Flag(ctx, comment.ID, flagReason(verdict))
		if err != nil {
			return nil, err
		}
	}

	status := comment.Status()
	metrics.Submissions.WithLabelValues(string(status)).Inc()
	log.Info().
		Str("status", string(status)).
		Float64("confidence", verdict.Confidence).
		Bool("suspicious", verdict.HasSuspiciousContent).
		Bool("provider_checked", verdict.ProviderChecked).
		Msg("Comment submitted")

	if status != models.CommentStatusApproved {
		if err := s.notifier.CommentNeedsReview(ctx, comment); err != nil {
			log.Warn().Err(err).Msg("Failed to notify operator")
		}
	}

	return comment, nil
}

// ListPublic returns the visible comments of a post
func (s *moderationService) ListPublic(ctx context.Context, postID string) ([]*models.Comment, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, models.NewValidationError("post_id", "post_id is required")
	}
	return s.comments.ListVisibleByPost(ctx, postID)
}

// ListByStatus returns a dashboard bucket, with the auto-approve countdown for pending comments
func (s *moderationService) ListByStatus(ctx context.Context, status models.CommentStatus) ([]*models.DashboardComment, error) {
	if err := validation.ValidateListStatus(status); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]*models.DashboardComment, 0, len(comments))
	for _, c := range comments {
		dc := &models.DashboardComment{Comment: c, Status: c.Status()}
		if status == models.CommentStatusPending {
			remaining := moderation.AutoApproveRemaining(c.CreatedAt, now, s.cfg.AutoApproveThresholdHours)
			hours := int(math.Ceil(remaining.Hours()))
			dc.AutoApproveInHours = &hours
		}
		out = append(out, dc)
	}
	return out, nil
}

// Stats returns the number of comments per dashboard bucket
func (s *moderationService) Stats(ctx context.Context) (map[models.CommentStatus]int, error) {
	return s.comments.CountByStatus(ctx)
}

// ApproveComment publishes a comment on operator request
func (s *moderationService) ApproveComment(ctx context.Context, id string) (*models.Comment, error) {
	if err := validation.ValidateCommentID(id); err != nil {
		return nil, err
	}
	comment, err := s.comments.Approve(ctx, id)
	s.recordAction("approve", id, err)
	return comment, err
}

// FlagComment marks a comment as spam on operator request
func (s *moderationService) FlagComment(ctx context.Context, id, reason string) (*models.Comment, error) {
	if err := validation.ValidateCommentID(id); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultOperatorFlag
	}
	comment, err := s.comments.Flag(ctx, id, reason)
	s.recordAction("flag", id, err)
	return comment, err
}

// DeleteComment archives a comment on operator request
func (s *moderationService) DeleteComment(ctx context.Context, id string) (*models.Comment, error) {
	if err := validation.ValidateCommentID(id); err != nil {
		return nil, err
	}
	comment, err := s.comments.Archive(ctx, id)
	s.recordAction("delete", id, err)
	return comment, err
}

func (s *moderationService) recordAction(action, id string, err error) {
	result := "success"
	event := s.log.Info()
	if err != nil {
		result = "failure"
		event = s.log.Warn().Err(err)
	}
	metrics.OperatorActions.WithLabelValues(action, result).Inc()
	event.Str("action", action).Str("comment_id", id).Msg("Operator action")
}

// flagReason explains an automatic flag from the verdict
func flagReason(v moderation.Verdict) string {
	if v.HasProfanity {
		return "Profanity detected: " + strings.Join(v.FlaggedTerms, ", ")
	}
	if len(v.ExternalCategories) > 0 {
		return "Flagged by moderation provider: " + strings.Join(v.ExternalCategories, ", ")
	}
	return "Flagged by moderation provider"
}

func recordProviderResult(v moderation.Verdict) {
	switch {
	case v.ProviderChecked:
		metrics.ProviderRequests.WithLabelValues("checked").Inc()
	case v.UsedFallback:
		metrics.ProviderRequests.WithLabelValues("fallback").Inc()
	default:
		metrics.ProviderRequests.WithLabelValues("skipped").Inc()
	}
}
