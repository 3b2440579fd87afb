package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsAutoApproveDue(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		hours   int
		want    bool
	}{
		{name: "just created", elapsed: 0, hours: 24, want: false},
		{name: "one minute short", elapsed: 23*time.Hour + 59*time.Minute, hours: 24, want: false},
		{name: "exactly threshold", elapsed: 24 * time.Hour, hours: 24, want: true},
		{name: "past threshold", elapsed: 72 * time.Hour, hours: 24, want: true},
		{name: "custom threshold", elapsed: 2 * time.Hour, hours: 2, want: true},
		{name: "zero falls back to default", elapsed: 23 * time.Hour, hours: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAutoApproveDue(created, created.Add(tt.elapsed), tt.hours))
		})
	}
}

func TestAutoApproveRemaining(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 24*time.Hour, AutoApproveRemaining(created, created, 24))
	assert.Equal(t, 90*time.Minute, AutoApproveRemaining(created, created.Add(22*time.Hour+30*time.Minute), 24))
	assert.Equal(t, time.Duration(0), AutoApproveRemaining(created, created.Add(30*time.Hour), 24))
}
