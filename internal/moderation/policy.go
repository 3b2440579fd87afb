package moderation

import "time"

// DefaultAutoApproveThresholdHours is how long a comment waits before time-based approval
const DefaultAutoApproveThresholdHours = 24

func threshold(hours int) time.Duration {
	if hours <= 0 {
		hours = DefaultAutoApproveThresholdHours
	}
	return time.Duration(hours) * time.Hour
}

// IsAutoApproveDue reports whether a pending comment created at createdAt
// has waited at least thresholdHours by now.
func IsAutoApproveDue(createdAt, now time.Time, thresholdHours int) bool {
	return now.Sub(createdAt) >= threshold(thresholdHours)
}

// AutoApproveRemaining returns the time left before a pending comment becomes
// due, or zero when it already is.
func AutoApproveRemaining(createdAt, now time.Time, thresholdHours int) time.Duration {
	remaining := threshold(thresholdHours) - now.Sub(createdAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}
