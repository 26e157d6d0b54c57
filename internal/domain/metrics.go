package domain

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// DaysRemaining returns the whole days left until expiresAt, rounded up.
// A zero expiresAt or a date in the past yields 0.
func DaysRemaining(expiresAt, now time.Time) int {
	if expiresAt.IsZero() {
		return 0
	}
	return ceilDays(expiresAt.Sub(now))
}

func DaysSinceActivation(activatedAt, now time.Time) int {
	if activatedAt.IsZero() {
		return 0
	}
	return ceilDays(now.Sub(activatedAt))
}

// PlanTimeRemainingPercent is the share of the plan period still ahead of now,
// clamped to [0,100]. Missing timestamps or a non-positive period yield 0.
func PlanTimeRemainingPercent(activatedAt, expiresAt, now time.Time) float64 {
	if activatedAt.IsZero() || expiresAt.IsZero() {
		return 0
	}

	total := expiresAt.Sub(activatedAt)
	if total <= 0 {
		return 0
	}

	elapsed := now.Sub(activatedAt)
	return clampPercent(100 - float64(elapsed)/float64(total)*100)
}

func ceilDays(d time.Duration) int {
	days := int(math.Ceil(float64(d) / float64(day)))
	if days < 0 {
		return 0
	}
	return days
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
