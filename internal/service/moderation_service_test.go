package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/mocks"
	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/moderation"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/comment-moderation-api/internal/service"
	"github.com/rs/zerolog"
)

const testCommentID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

type fixture struct {
	services *service.Services
	repo     *mocks.MockCommentRepository
	provider *mocks.MockProvider
	notifier *mocks.MockNotifier
}

func newFixture() *fixture {
	repo := mocks.NewMockCommentRepository()
	provider := &mocks.MockProvider{}
	notifier := &mocks.MockNotifier{}

	cfg := &config.Config{
		Moderation: config.ModerationConfig{
			AutoApproveThresholdHours: 24,
			MaxContentLength:          5000,
		},
		Sweep: config.SweepConfig{Enabled: false, Schedule: "@every 5m"},
	}

	moderator := moderation.NewModerator(moderation.NewScreener(nil, nil), provider, zerolog.Nop())
	services := service.NewServices(&repository.Repositories{Comment: repo}, moderator, notifier, cfg, zerolog.Nop())

	return &fixture{services: services, repo: repo, provider: provider, notifier: notifier}
}

func submitRequest(content string) *models.SubmitRequest {
	return &models.SubmitRequest{
		PostID:      "post-1",
		AuthorName:  "Ada",
		AuthorEmail: "ada@example.com",
		Content:     content,
	}
}

func TestSubmitComment_CleanIsPublished(t *testing.T) {
	f := newFixture()

	comment, err := f.services.Moderation.SubmitComment(context.Background(), submitRequest("Great post, thanks for sharing this!"))
	if err != nil {
		t.Fatalf("SubmitComment failed: %v", err)
	}

	if comment.Status() != models.CommentStatusApproved {
		t.Errorf("Expected approved, got %s", comment.Status())
	}
	if !comment.Visible() {
		t.Error("Approved comment should be visible")
	}
	if f.provider.Calls != 1 {
		t.Errorf("Expected 1 provider call, got %d", f.provider.Calls)
	}
	if len(f.notifier.Notified) != 0 {
		t.Errorf("Published comments should not notify, got %d notifications", len(f.notifier.Notified))
	}
}

func TestSubmitComment_SuspiciousStaysPending(t *testing.T) {
	f := newFixture()

	comment, err := f.services.Moderation.SubmitComment(context.Background(), submitRequest("Buy cheap watches now!!! http://spam.example"))
	if err != nil {
		t.Fatalf("SubmitComment failed: %v", err)
	}

	if comment.Status() != models.CommentStatusPending {
		t.Errorf("Expected pending, got %s", comment.Status())
	}
	if comment.Flagged || comment.Approved {
		t.Error("Suspicious comment should be neither flagged nor approved")
	}
	if len(f.notifier.Notified) != 1 {
		t.Errorf("Expected 1 review notification, got %d", len(f.notifier.Notified))
	}
}

func TestSubmitComment_ProviderFlagged(t *testing.T) {
	f := newFixture()
	f.provider.Result = &moderation.ProviderResult{
		Flagged:    true,
		Categories: map[string]bool{"harassment": true},
	}

	comment, err := f.services.Moderation.SubmitComment(context.Background(), submitRequest("You are an idiot"))
	if err != nil {
		t.Fatalf("SubmitComment failed: %v", err)
	}

	if comment.Status() != models.CommentStatusFlagged {
		t.Errorf("Expected flagged, got %s", comment.Status())
	}
	if !strings.Contains(comment.FlagReason, "harassment") {
		t.Errorf("Expected reason to name the category, got %q", comment.FlagReason)
	}
}

func TestSubmitComment_ProfanityFlaggedWithoutProvider(t *testing.T) {
	f := newFixture()

	comment, err := f.services.Moderation.SubmitComment(context.Background(), submitRequest("this whole article is bullshit"))
	if err != nil {
		t.Fatalf("SubmitComment failed: %v", err)
	}

	if comment.Status() != models.CommentStatusFlagged {
		t.Errorf("Expected flagged, got %s", comment.Status())
	}
	if comment.FlagReason != "Profanity detected: bullshit" {
		t.Errorf("Unexpected flag reason %q", comment.FlagReason)
	}
	if f.provider.Calls != 0 {
		t.Errorf("Provider should not be consulted for profane text, got %d calls", f.provider.Calls)
	}
}

func TestSubmitComment_ProviderDownStaysPending(t *testing.T) {
	f := newFixture()
	f.provider.Err = moderation.ErrProviderUnavailable

	comment, err := f.services.Moderation.SubmitComment(context.Background(), submitRequest("Great post, thanks for sharing this!"))
	if err != nil {
		t.Fatalf("SubmitComment should succeed without the provider: %v", err)
	}
	if comment.Status() != models.CommentStatusPending {
		t.Errorf("Expected pending, got %s", comment.Status())
	}
}

func TestSubmitComment_StripsMarkup(t *testing.T) {
	f := newFixture()

	comment, err := f.services.Moderation.SubmitComment(context.Background(), submitRequest(`<script>alert(1)</script><b>Great post</b>, thanks &amp; cheers!`))
	if err != nil {
		t.Fatalf("SubmitComment failed: %v", err)
	}
	if comment.Content != "Great post, thanks & cheers!" {
		t.Errorf("Unexpected sanitized content %q", comment.Content)
	}
	if f.provider.Texts[0] != comment.Content {
		t.Errorf("Provider should screen the sanitized text, got %q", f.provider.Texts[0])
	}
}

func TestSubmitComment_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   *models.SubmitRequest
		field string
	}{
		{name: "missing post", req: &models.SubmitRequest{AuthorName: "Ada", AuthorEmail: "ada@example.com", Content: "hello there"}, field: "post_id"},
		{name: "missing name", req: &models.SubmitRequest{PostID: "p", AuthorEmail: "ada@example.com", Content: "hello there"}, field: "author_name"},
		{name: "bad email", req: &models.SubmitRequest{PostID: "p", AuthorName: "Ada", AuthorEmail: "not-an-email", Content: "hello there"}, field: "author_email"},
		{name: "blank content", req: &models.SubmitRequest{PostID: "p", AuthorName: "Ada", AuthorEmail: "ada@example.com", Content: "   "}, field: "content"},
		{name: "markup only", req: &models.SubmitRequest{PostID: "p", AuthorName: "Ada", AuthorEmail: "ada@example.com", Content: "<img src=x>"}, field: "content"},
		{name: "too long", req: &models.SubmitRequest{PostID: "p", AuthorName: "Ada", AuthorEmail: "ada@example.com", Content: strings.Repeat("a", 5001)}, field: "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.services.Moderation.SubmitComment(context.Background(), tt.req)
			var ve *models.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, ve.Field)
			}
			if len(f.repo.Comments) != 0 {
				t.Error("Invalid submissions must not be stored")
			}
		})
	}
}

func TestSubmitComment_StoreFailure(t *testing.T) {
	f := newFixture()
	f.repo.Err = errors.New("connection refused")

	_, err := f.services.Moderation.SubmitComment(context.Background(), submitRequest("Great post, thanks for sharing this!"))
	if !models.IsStoreError(err) {
		t.Fatalf("Expected StoreError, got %v", err)
	}
}

func TestListPublic_OnlyVisible(t *testing.T) {
	f := newFixture()
	now := time.Now()
	f.repo.Seed(&models.Comment{ID: "a", PostID: "post-1", Content: "first", Approved: true, CreatedAt: now.Add(-2 * time.Hour)})
	f.repo.Seed(&models.Comment{ID: "b", PostID: "post-1", Content: "second", Approved: true, CreatedAt: now.Add(-1 * time.Hour)})
	f.repo.Seed(&models.Comment{ID: "c", PostID: "post-1", Content: "held", CreatedAt: now})
	f.repo.Seed(&models.Comment{ID: "d", PostID: "post-1", Content: "gone", Approved: true, Archived: true, CreatedAt: now})
	f.repo.Seed(&models.Comment{ID: "e", PostID: "post-2", Content: "other", Approved: true, CreatedAt: now})

	comments, err := f.services.Moderation.ListPublic(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("ListPublic failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("Expected 2 visible comments, got %d", len(comments))
	}
	if comments[0].ID != "a" || comments[1].ID != "b" {
		t.Errorf("Expected oldest first, got %s, %s", comments[0].ID, comments[1].ID)
	}
}

func TestListByStatus_Countdown(t *testing.T) {
	f := newFixture()
	f.repo.Seed(&models.Comment{ID: "young", Content: "x", CreatedAt: time.Now().Add(-90 * time.Minute)})
	f.repo.Seed(&models.Comment{ID: "old", Content: "x", CreatedAt: time.Now().Add(-30 * time.Hour)})

	comments, err := f.services.Moderation.ListByStatus(context.Background(), models.CommentStatusPending)
	if err != nil {
		t.Fatalf("ListByStatus failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("Expected 2 pending comments, got %d", len(comments))
	}

	hours := map[string]int{}
	for _, c := range comments {
		if c.AutoApproveInHours == nil {
			t.Fatalf("Pending comment %s should carry a countdown", c.ID)
		}
		hours[c.ID] = *c.AutoApproveInHours
	}
	if hours["young"] != 23 {
		t.Errorf("Expected 23 hours remaining, got %d", hours["young"])
	}
	if hours["old"] != 0 {
		t.Errorf("Expected 0 hours remaining, got %d", hours["old"])
	}
}

func TestListByStatus_InvalidStatus(t *testing.T) {
	f := newFixture()

	for _, status := range []models.CommentStatus{"archived", "spam", ""} {
		_, err := f.services.Moderation.ListByStatus(context.Background(), status)
		if !models.IsValidationError(err) {
			t.Errorf("Expected ValidationError for %q, got %v", status, err)
		}
	}
}

func TestStats(t *testing.T) {
	f := newFixture()
	f.repo.Seed(&models.Comment{ID: "p", Content: "x"})
	f.repo.Seed(&models.Comment{ID: "a", Content: "x", Approved: true})
	f.repo.Seed(&models.Comment{ID: "f", Content: "x", Flagged: true})
	f.repo.Seed(&models.Comment{ID: "d", Content: "x", Archived: true})

	counts, err := f.services.Moderation.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	want := map[models.CommentStatus]int{
		models.CommentStatusPending:  1,
		models.CommentStatusApproved: 1,
		models.CommentStatusFlagged:  2,
		models.CommentStatusArchived: 1,
	}
	for status, n := range want {
		if counts[status] != n {
			t.Errorf("Expected %d %s, got %d", n, status, counts[status])
		}
	}
}

func TestOperatorActions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.Seed(&models.Comment{ID: testCommentID, Content: "x", Flagged: true, FlagReason: "Profanity detected: crap"})

	approved, err := f.services.Moderation.ApproveComment(ctx, testCommentID)
	if err != nil {
		t.Fatalf("ApproveComment failed: %v", err)
	}
	if !approved.Approved || approved.Flagged {
		t.Error("Approve should publish and clear the flag")
	}

	// approving twice leaves the comment published
	again, err := f.services.Moderation.ApproveComment(ctx, testCommentID)
	if err != nil || again.Status() != models.CommentStatusApproved {
		t.Errorf("Second approve should be a no-op, got %v, %v", again, err)
	}

	flagged, err := f.services.Moderation.FlagComment(ctx, testCommentID, "  ")
	if err != nil {
		t.Fatalf("FlagComment failed: %v", err)
	}
	if flagged.Approved || !flagged.Flagged {
		t.Error("Flag should revoke approval")
	}
	if flagged.FlagReason != "Flagged by operator" {
		t.Errorf("Expected default reason, got %q", flagged.FlagReason)
	}

	deleted, err := f.services.Moderation.DeleteComment(ctx, testCommentID)
	if err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	if !deleted.Archived || deleted.Visible() {
		t.Error("Deleted comment should be archived and hidden")
	}
	if len(f.repo.Comments) != 1 {
		t.Error("Delete must archive, not remove")
	}
}

func TestOperatorActions_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.services.Moderation.ApproveComment(ctx, "not-a-uuid"); !models.IsValidationError(err) {
		t.Errorf("Expected ValidationError for malformed id, got %v", err)
	}
	if f.repo.ApproveCalls != 0 {
		t.Error("Malformed ids must not reach the store")
	}

	if _, err := f.services.Moderation.FlagComment(ctx, testCommentID, "spam"); !errors.Is(err, models.ErrCommentNotFound) {
		t.Errorf("Expected ErrCommentNotFound, got %v", err)
	}

	f.repo.Err = errors.New("connection reset")
	if _, err := f.services.Moderation.DeleteComment(ctx, testCommentID); !models.IsStoreError(err) {
		t.Errorf("Expected StoreError, got %v", err)
	}
}
