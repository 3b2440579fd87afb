package moderation

import (
	"context"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Moderator combines local screening with an optional external provider
type Moderator struct {
	screener *Screener
	provider Provider
	log      zerolog.Logger
}

// NewModerator creates a Moderator. provider may be nil, in which case every
// screen falls back to local results and never auto-approves.
func NewModerator(screener *Screener, provider Provider, log zerolog.Logger) *Moderator {
	return &Moderator{
		screener: screener,
		provider: provider,
		log:      log.With().Str("component", "moderator").Logger(),
	}
}

// ScreenLocal runs only the lexicon and pattern checks
func (m *Moderator) ScreenLocal(text string) Verdict {
	return m.screener.ScreenLocal(text)
}

// ScreenWithProvider runs local checks and, unless the text is already
// profane, consults the provider. Auto-approval requires a completed
// provider call.
func (m *Moderator) ScreenWithProvider(ctx context.Context, text string) Verdict {
	local := m.screener.ScreenLocal(text)
	if local.HasProfanity {
		return local
	}

	var result *ProviderResult
	var err error
	if m.provider == nil {
		err = ErrProviderUnavailable
	} else {
		result, err = m.provider.Moderate(ctx, text)
	}

	v := local
	if err != nil {
		m.log.Warn().Err(err).Msg("Moderation provider unavailable, using local verdict")
		v.UsedFallback = true
		v.ShouldAutoApprove = false
		return v
	}

	v.ProviderChecked = true
	v.ExternalFlagged = result.Flagged
	v.ExternalCategories = result.FlaggedCategories()
	v.IsClean = local.IsClean && !result.Flagged
	if result.Flagged {
		v.Confidence = clamp(v.Confidence - 0.4)
	}
	v.ShouldAutoApprove = local.IsClean &&
		!result.Flagged &&
		withinAutoApproveLength(utf8.RuneCountInString(text)) &&
		v.ProviderChecked
	return v
}
