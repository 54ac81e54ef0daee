// Package xp implements XP delta sanitization and ledger arithmetic.
//
// The two severity classes behave asymmetrically: normal play is clamped to
// [0,100] per completion and the running total floors at zero, while behavior
// violations can only subtract (bounded at -100) and the floor is removed so
// disciplinary history stays visible as a negative balance.
package xp

import (
	"math"

	"github.com/yungbote/driveline-backend/internal/domain/coaching"
)

const (
	// MaxAward caps what a single normal completion can add.
	MaxAward = 100
	// MaxPenalty bounds a single behavior-violation deduction.
	MaxPenalty = -100
)

// Sanitize converts a raw XP hint into a safe integer delta for the given
// severity class. Non-finite input collapses to zero.
func Sanitize(raw float64, severity coaching.Severity) int {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0
	}
	delta := int(math.Round(raw))
	if severity == coaching.SeverityBehaviorViolation {
		// Violations never award XP.
		if delta > 0 {
			return 0
		}
		if delta < MaxPenalty {
			return MaxPenalty
		}
		return delta
	}
	if delta < 0 {
		return 0
	}
	if delta > MaxAward {
		return MaxAward
	}
	return delta
}

// Apply folds a sanitized delta into a running total. Normal severity floors
// the total at zero; behavior violations do not.
func Apply(total, delta int, severity coaching.Severity) int {
	next := total + delta
	if severity != coaching.SeverityBehaviorViolation && next < 0 {
		return 0
	}
	return next
}
