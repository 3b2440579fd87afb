// Package notify tells operators about comments that need review.
package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/models"
	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Notifier reports comments awaiting operator attention
type Notifier interface {
	CommentNeedsReview(ctx context.Context, comment *models.Comment) error
}

// New returns a SendGrid notifier when configured, otherwise a no-op
func New(cfg config.NotifyConfig, log zerolog.Logger) Notifier {
	if !cfg.Enabled() {
		log.Info().Msg("Operator notifications disabled")
		return Nop{}
	}
	return &sendGridNotifier{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		cfg:    cfg,
		log:    log.With().Str("component", "notify").Logger(),
	}
}

// Nop discards notifications
type Nop struct{}

func (Nop) CommentNeedsReview(ctx context.Context, comment *models.Comment) error {
	return nil
}

type sendGridNotifier struct {
	client *sendgrid.Client
	cfg    config.NotifyConfig
	log    zerolog.Logger
}

func (n *sendGridNotifier) CommentNeedsReview(ctx context.Context, comment *models.Comment) error {
	msg := reviewMessage(n.cfg, comment)

	timeout := n.cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := n.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: unexpected status %d", resp.StatusCode)
	}

	n.log.Debug().Str("comment_id", comment.ID).Str("status", string(comment.Status())).Msg("Operator notified")
	return nil
}

// reviewMessage builds the operator email for a held comment
func reviewMessage(cfg config.NotifyConfig, comment *models.Comment) *mail.SGMailV3 {
	status := comment.Status()
	subject := fmt.Sprintf("New %s comment on %s", status, comment.PostID)

	plain := fmt.Sprintf(
		"%s <%s> wrote:\n\n%s\n\nStatus: %s\n",
		comment.AuthorName, comment.AuthorEmail, comment.Content, status,
	)
	if comment.FlagReason != "" {
		plain += "Reason: " + comment.FlagReason + "\n"
	}

	return mail.NewSingleEmail(
		mail.NewEmail(cfg.FromName, cfg.FromAddress),
		subject,
		mail.NewEmail("", cfg.OperatorEmail),
		plain,
		"<pre>"+html.EscapeString(plain)+"</pre>",
	)
}
