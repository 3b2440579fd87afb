package notify

import (
	"context"
	"strings"
	"testing"

	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/models"
	"github.com/rs/zerolog"
)

func TestNew_DisabledIsNop(t *testing.T) {
	n := New(config.NotifyConfig{SendGridAPIKey: "key"}, zerolog.Nop())
	if _, ok := n.(Nop); !ok {
		t.Fatalf("Expected Nop without sender and recipient, got %T", n)
	}
	if err := n.CommentNeedsReview(context.Background(), &models.Comment{}); err != nil {
		t.Errorf("Nop should never fail: %v", err)
	}

	enabled := New(config.NotifyConfig{SendGridAPIKey: "key", FromAddress: "a@example.com", OperatorEmail: "b@example.com"}, zerolog.Nop())
	if _, ok := enabled.(*sendGridNotifier); !ok {
		t.Errorf("Expected SendGrid notifier, got %T", enabled)
	}
}

func TestReviewMessage(t *testing.T) {
	cfg := config.NotifyConfig{FromAddress: "blog@example.com", FromName: "Blog", OperatorEmail: "ops@example.com"}
	comment := &models.Comment{
		PostID:      "post-1",
		AuthorName:  "Mallory",
		AuthorEmail: "m@example.com",
		Content:     "<b>cheap</b> pills",
		Flagged:     true,
		FlagReason:  "Profanity detected: crap",
	}

	msg := reviewMessage(cfg, comment)

	if msg.Subject != "New flagged comment on post-1" {
		t.Errorf("Unexpected subject %q", msg.Subject)
	}
	if len(msg.Content) != 2 {
		t.Fatalf("Expected plain and html parts, got %d", len(msg.Content))
	}
	if !strings.Contains(msg.Content[0].Value, "Reason: Profanity detected: crap") {
		t.Errorf("Plain body should carry the reason: %q", msg.Content[0].Value)
	}
	if strings.Contains(msg.Content[1].Value, "<b>") {
		t.Error("HTML body must escape comment content")
	}
}
