package services

import "math"

// scoreOrZero substitutes 0 for a missing score. The substitution happens
// before averaging, not by shrinking the denominator, so a profile with a
// missing category is penalized rather than normalized over what's left.
func scoreOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// DailyAverage is the composite score shown on the leaderboard and the
// versus group headers: round((sleep + readiness + activity) / 3).
func DailyAverage(sleep, readiness, activity *int) int {
	sum := scoreOrZero(sleep) + scoreOrZero(readiness) + scoreOrZero(activity)
	return int(math.Round(float64(sum) / 3.0))
}
