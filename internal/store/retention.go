package store

import "github.com/webtrail/webtrail-cli/internal/model"

// remediationFraction is the share of oldest entries dropped per eviction
// round, both for the byte-cap loop and the quota-failure retry.
const remediationFraction = 0.10

// enforceCount keeps the most recent max steps, evicting oldest-first.
// Enforced on every write, never lazily.
func enforceCount(steps []model.Step, max int) []model.Step {
	if max <= 0 || len(steps) <= max {
		return steps
	}
	return steps[len(steps)-max:]
}

// dropOldestFraction removes at least one and up to fraction of the oldest
// entries.
func dropOldestFraction(steps []model.Step, fraction float64) []model.Step {
	if len(steps) == 0 {
		return steps
	}
	n := int(float64(len(steps)) * fraction)
	if n < 1 {
		n = 1
	}
	if n >= len(steps) {
		return steps[:0]
	}
	return steps[n:]
}
