package moderation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenLocal_Profanity(t *testing.T) {
	s := NewScreener(nil, nil)

	tests := []struct {
		name     string
		text     string
		profane  bool
		wantTerm string
	}{
		{name: "whole word", text: "what a load of shit honestly", profane: true, wantTerm: "shit"},
		{name: "case insensitive", text: "This is SHIT, really", profane: true, wantTerm: "shit"},
		{name: "short lexicon term as word", text: "don't be an ass about it", profane: true, wantTerm: "ass"},
		{name: "substring does not match", text: "a classic assessment of the passage", profane: false},
		{name: "clean", text: "Great post, thanks for sharing this!", profane: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := s.ScreenLocal(tt.text)
			assert.Equal(t, tt.profane, v.HasProfanity)
			if tt.profane {
				assert.Contains(t, v.FlaggedTerms, tt.wantTerm)
				assert.False(t, v.IsClean)
				assert.False(t, v.ShouldAutoApprove)
			} else {
				assert.Empty(t, v.FlaggedTerms)
			}
		})
	}
}

func TestScreenLocal_CustomLexicon(t *testing.T) {
	s := NewScreener([]string{" Frak ", "frak", ""}, nil)

	v := s.ScreenLocal("well frak that then")
	assert.True(t, v.HasProfanity)
	assert.Equal(t, []string{"frak"}, v.FlaggedTerms)

	// default lexicon is replaced, not extended
	assert.False(t, s.ScreenLocal("oh shit, sorry about that").HasProfanity)
}

func TestScreenLocal_SuspiciousPatterns(t *testing.T) {
	s := NewScreener(nil, nil)

	tests := []struct {
		name      string
		text      string
		wantMatch string
	}{
		{name: "url", text: "see my page at https://example.com/page ok", wantMatch: "https://example.com/page"},
		{name: "www url", text: "go to www.example.com for more", wantMatch: "www.example.com"},
		{name: "spam keyword", text: "you can buy this thing here", wantMatch: "buy"},
		{name: "spam phrase", text: "please Click Here to win", wantMatch: "Click Here"},
		{name: "repeated character", text: "so g" + strings.Repeat("o", 5) + "d to read", wantMatch: "ooooo"},
		{name: "caps run", text: "this is AMAZING work", wantMatch: "AMAZING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := s.ScreenLocal(tt.text)
			assert.True(t, v.HasSuspiciousContent)
			assert.False(t, v.HasProfanity)
			assert.False(t, v.IsClean)
			assert.Contains(t, v.SuspiciousMatches, tt.wantMatch)
			assert.InDelta(t, 0.8, v.Confidence, 1e-9)
		})
	}
}

func TestScreenLocal_LimitsMatchesPerPattern(t *testing.T) {
	s := NewScreener(nil, nil)

	v := s.ScreenLocal("http://a.example http://b.example http://c.example http://d.example")
	urls := 0
	for _, m := range v.SuspiciousMatches {
		if strings.HasPrefix(m, "http://") {
			urls++
		}
	}
	assert.Equal(t, 3, urls)
}

func TestScreenLocal_RepeatedRunBelowThreshold(t *testing.T) {
	s := NewScreener(nil, nil)

	v := s.ScreenLocal("Wow!!!! nice read")
	assert.False(t, v.HasSuspiciousContent)
	assert.True(t, v.IsClean)
}

func TestScreenLocal_LengthBounds(t *testing.T) {
	s := NewScreener(nil, nil)

	tests := []struct {
		name        string
		text        string
		autoApprove bool
		confidence  float64
	}{
		{name: "too short", text: "Nice one", autoApprove: false, confidence: 0.9},
		{name: "exactly min", text: strings.Repeat("ab ", 3) + "a", autoApprove: true, confidence: 1},
		{name: "exactly max", text: wordsOfLength(1000), autoApprove: true, confidence: 1},
		{name: "over max", text: wordsOfLength(1001), autoApprove: false, confidence: 1},
		{name: "very long", text: wordsOfLength(2001), autoApprove: false, confidence: 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := s.ScreenLocal(tt.text)
			require.True(t, v.IsClean, "matches: %v", v.SuspiciousMatches)
			assert.Equal(t, tt.autoApprove, v.ShouldAutoApprove)
			assert.InDelta(t, tt.confidence, v.Confidence, 1e-9)
		})
	}
}

func TestScreenLocal_ConfidenceClamped(t *testing.T) {
	s := NewScreener(nil, nil)

	// profane (-0.5), suspicious (-0.2), short (-0.1)
	v := s.ScreenLocal("shit BUY")
	assert.True(t, v.HasProfanity)
	assert.True(t, v.HasSuspiciousContent)
	assert.InDelta(t, 0.2, v.Confidence, 1e-9)
	assert.GreaterOrEqual(t, v.Confidence, 0.0)
}

func TestRepeatedRuns(t *testing.T) {
	assert.Equal(t, []string{"aaaaa", "!!!!!!"}, repeatedRuns("aaaaa b !!!!!!", 5, 3))
	assert.Empty(t, repeatedRuns("aaaa", 5, 3))
	assert.Len(t, repeatedRuns("aaaaa bbbbb ccccc ddddd", 5, 3), 3)
	assert.Equal(t, []string{"ééééé"}, repeatedRuns("ééééé", 5, 3))
}

// wordsOfLength builds clean lowercase text of exactly n characters
func wordsOfLength(n int) string {
	var b strings.Builder
	for b.Len() < n {
		if b.Len() > 0 && b.Len()%6 == 5 {
			b.WriteByte(' ')
			continue
		}
		b.WriteByte("abcd"[b.Len()%4])
	}
	return b.String()
}
