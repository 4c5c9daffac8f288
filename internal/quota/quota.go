// Package quota maps subscription tiers to daily AI-request ceilings.
package quota

// recognized subscription tiers
const (
	TierFree = "free"
	TierPro  = "pro"
)

// daily request ceilings per tier
const (
	FreeDailyLimit = 5
	ProDailyLimit  = 100
)

// returns the daily request ceiling for a tier. Unknown or empty tiers
// resolve to the free ceiling, never to an unbounded one.
func Ceiling(tier string) int {
	if tier == TierPro {
		return ProDailyLimit
	}

	return FreeDailyLimit
}

// reports whether a request may proceed given today's count
func Allowed(tier string, count int) bool {
	return count < Ceiling(tier)
}

// returns how many requests are left today, never below zero
func Remaining(tier string, count int) int {
	remaining := Ceiling(tier) - count

	if remaining < 0 {
		return 0
	}

	return remaining
}
