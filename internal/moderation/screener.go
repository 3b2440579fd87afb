// Package moderation screens comment text locally and through an external
// moderation provider, and holds the time-based auto-approval policy.
package moderation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MinAutoApproveLength is the shortest comment that may be auto-approved
	MinAutoApproveLength = 10
	// MaxAutoApproveLength is the longest comment that may be auto-approved
	MaxAutoApproveLength = 1000
	// longTextLength is where the confidence penalty for long text starts
	longTextLength = 2000

	maxMatchesPerPattern = 3
	repeatRunLength      = 5
)

// DefaultProfanityLexicon is used when no lexicon is configured
var DefaultProfanityLexicon = []string{
	"ass", "asshole", "bastard", "bitch", "bollocks", "bullshit", "crap",
	"cunt", "damn", "dick", "fuck", "fucking", "motherfucker", "piss",
	"prick", "shit", "slut", "twat", "wanker", "whore",
}

// DefaultSpamKeywords is used when no spam keyword list is configured
var DefaultSpamKeywords = []string{
	"buy", "sell", "cheap", "free", "discount", "offer", "deal",
	"click here", "visit my", "casino", "viagra", "crypto", "loan",
}

var (
	urlPattern  = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+)`)
	capsPattern = regexp.MustCompile(`[A-Z]{5,}`)
)

// Verdict is the transient result of screening a piece of text
type Verdict struct {
	IsClean              bool     `json:"is_clean"`
	HasProfanity         bool     `json:"has_profanity"`
	HasSuspiciousContent bool     `json:"has_suspicious_content"`
	FlaggedTerms         []string `json:"flagged_terms,omitempty"`
	SuspiciousMatches    []string `json:"suspicious_matches,omitempty"`
	Confidence           float64  `json:"confidence"`
	ShouldAutoApprove    bool     `json:"should_auto_approve"`

	// Set when the external provider was consulted
	ExternalFlagged    bool     `json:"external_flagged,omitempty"`
	ExternalCategories []string `json:"external_categories,omitempty"`

	// ProviderChecked is true only when the provider call completed.
	// UsedFallback is true when the provider was needed but unavailable.
	ProviderChecked bool `json:"provider_checked"`
	UsedFallback    bool `json:"used_fallback"`
}

// Screener runs the local lexicon and pattern checks
type Screener struct {
	lexicon    []string
	profanity  []*regexp.Regexp
	suspicious []*regexp.Regexp
}

// NewScreener compiles a screener from a profanity lexicon and spam keyword list.
// Empty lists fall back to the defaults.
func NewScreener(lexicon, spamKeywords []string) *Screener {
	lexicon = normalizeTerms(lexicon)
	if len(lexicon) == 0 {
		lexicon = DefaultProfanityLexicon
	}
	spamKeywords = normalizeTerms(spamKeywords)
	if len(spamKeywords) == 0 {
		spamKeywords = DefaultSpamKeywords
	}

	s := &Screener{lexicon: lexicon}
	for _, term := range lexicon {
		s.profanity = append(s.profanity, wholeWord(term))
	}

	quoted := make([]string, len(spamKeywords))
	for i, kw := range spamKeywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	s.suspicious = []*regexp.Regexp{
		urlPattern,
		regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
		capsPattern,
	}
	return s
}

// ScreenLocal classifies text without consulting any external service
func (s *Screener) ScreenLocal(text string) Verdict {
	var v Verdict

	lowered := strings.ToLower(text)
	for i, re := range s.profanity {
		if re.MatchString(lowered) {
			v.HasProfanity = true
			v.FlaggedTerms = append(v.FlaggedTerms, s.lexicon[i])
		}
	}

	for _, re := range s.suspicious {
		if matches := re.FindAllString(text, maxMatchesPerPattern); len(matches) > 0 {
			v.HasSuspiciousContent = true
			v.SuspiciousMatches = append(v.SuspiciousMatches, matches...)
		}
	}
	// RE2 has no backreferences, so repeated characters are found by scanning
	if runs := repeatedRuns(text, repeatRunLength, maxMatchesPerPattern); len(runs) > 0 {
		v.HasSuspiciousContent = true
		v.SuspiciousMatches = append(v.SuspiciousMatches, runs...)
	}

	v.IsClean = !v.HasProfanity && !v.HasSuspiciousContent

	length := utf8.RuneCountInString(text)
	confidence := 1.0
	if v.HasProfanity {
		confidence -= 0.5
	}
	if v.HasSuspiciousContent {
		confidence -= 0.2
	}
	if length < MinAutoApproveLength {
		confidence -= 0.1
	}
	if length > longTextLength {
		confidence -= 0.1
	}
	v.Confidence = clamp(confidence)

	v.ShouldAutoApprove = v.IsClean && withinAutoApproveLength(length)
	return v
}

func wholeWord(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}

// repeatedRuns returns up to limit runs of the same character repeated at least n times
func repeatedRuns(text string, n, limit int) []string {
	var runs []string
	runes := []rune(text)
	for i := 0; i < len(runes) && len(runs) < limit; {
		j := i + 1
		for j < len(runes) && runes[j] == runes[i] {
			j++
		}
		if j-i >= n {
			runs = append(runs, string(runes[i:j]))
		}
		i = j
	}
	return runs
}

func withinAutoApproveLength(length int) bool {
	return length >= MinAutoApproveLength && length <= MaxAutoApproveLength
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
