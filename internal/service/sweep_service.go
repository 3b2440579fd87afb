package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/metrics"
	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/moderation"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// sweepService approves pending comments that have waited past the threshold
type sweepService struct {
	comments       repository.CommentRepository
	cfg            config.SweepConfig
	thresholdHours int
	log            zerolog.Logger
	now            func() time.Time

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	cron    *cron.Cron
	running bool
}

// newSweepService creates a new SweepService
func newSweepService(comments repository.CommentRepository, cfg config.SweepConfig, thresholdHours int, log zerolog.Logger) *sweepService {
	return &sweepService{
		comments:       comments,
		cfg:            cfg,
		thresholdHours: thresholdHours,
		log:            log.With().Str("service", "sweep").Logger(),
		now:            time.Now,
	}
}

// StartScheduler registers the sweep on its cron schedule and returns immediately
func (s *sweepService) StartScheduler(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if !s.cfg.Enabled {
		s.log.Info().Msg("Time-based approval sweep disabled")
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	s.ctx, s.cancel = context.WithCancel(ctx)
	if _, err := c.AddFunc(s.cfg.Schedule, s.scheduledRun); err != nil {
		s.cancel()
		return fmt.Errorf("invalid sweep schedule %q: %w", s.cfg.Schedule, err)
	}

	c.Start()
	s.cron = c
	s.running = true

	s.log.Info().
		Str("schedule", s.cfg.Schedule).
		Int("threshold_hours", s.thresholdHours).
		Msg("Time-based approval sweep started")
	return nil
}

// StopScheduler stops the cron and waits for a running sweep to finish
func (s *sweepService) StopScheduler() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	<-s.cron.Stop().Done()
	s.running = false
	s.log.Info().Msg("Time-based approval sweep stopped")
}

func (s *sweepService) scheduledRun() {
	// Panic recovery keeps a bad row from killing the scheduler goroutine
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("Sweep panicked - recovered")
		}
	}()

	if _, err := s.RunOnce(s.ctx); err != nil {
		s.log.Error().Err(err).Msg("Sweep failed")
	}
}

// RunOnce approves every pending comment that is due and returns how many were approved
func (s *sweepService) RunOnce(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	pending, err := s.comments.ListByStatus(ctx, models.CommentStatusPending)
	if err != nil {
		return 0, err
	}

	now := s.now()
	approved := 0
	for _, c := range pending {
		if ctx.Err() != nil {
			s.log.Warn().Msg("Sweep cancelled")
			return approved, ctx.Err()
		}
		if !moderation.IsAutoApproveDue(c.CreatedAt, now, s.thresholdHours) {
			continue
		}

		// ApprovePending skips comments an operator flagged or archived meanwhile
		updated, err := s.comments.ApprovePending(ctx, c.ID)
		if err != nil {
			s.log.Error().Err(err).Str("comment_id", c.ID).Msg("Failed to auto-approve comment")
			continue
		}
		if updated == nil {
			continue
		}

		approved++
		metrics.AutoApprovals.WithLabelValues("age").Inc()
		s.log.Info().
			Str("comment_id", c.ID).
			Time("created_at", c.CreatedAt).
			Msg("Comment auto-approved after waiting period")
	}

	if approved > 0 || len(pending) > 0 {
		s.log.Info().
			Int("pending", len(pending)).
			Int("approved", approved).
			Dur("duration", time.Since(start)).
			Msg("Sweep completed")
	}
	return approved, nil
}
