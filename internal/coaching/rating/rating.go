// Package rating implements the decay-blend skill rating updater.
//
// Ratings revert exponentially toward a neutral baseline while a skill goes
// unpracticed, then a new observation is folded in with a fixed blend weight so
// a single exercise can never overwhelm history. All functions are pure; "now"
// is always injected.
package rating

import (
	"math"
	"time"
)

const (
	// Baseline is the neutral score unpracticed skills revert toward, and the
	// lazy-create value for a learner's first observation.
	Baseline = 60.0

	// Lambda is the per-day reversion rate. At 0.02/day a rating loses half
	// its distance to baseline in roughly five weeks of inactivity.
	Lambda = 0.02

	// Alpha is the weight of one new observation against drifted history.
	Alpha = 0.3

	MinScore = 0.0
	MaxScore = 100.0
)

// Clamp bounds a score to [0,100]. NaN collapses to the baseline.
func Clamp(score float64) float64 {
	if math.IsNaN(score) {
		return Baseline
	}
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// Drift applies exponential reversion to baseline over the elapsed time since
// lastUpdated. Elapsed time is floored at zero, so clock skew never inflates a
// rating; a missing (zero) lastUpdated means no decay.
func Drift(oldScore float64, lastUpdated, now time.Time) float64 {
	if lastUpdated.IsZero() || now.IsZero() {
		return oldScore
	}
	deltaDays := now.Sub(lastUpdated).Hours() / 24
	if deltaDays < 0 {
		deltaDays = 0
	}
	return Baseline + (oldScore-Baseline)*math.Exp(-Lambda*deltaDays)
}

// Update computes the new rating from the stored score, its last-updated time,
// and a fresh observation: decay toward baseline, then blend, then clamp.
func Update(oldScore float64, lastUpdated time.Time, observed float64, now time.Time) float64 {
	drifted := Drift(oldScore, lastUpdated, now)
	after := (1-Alpha)*drifted + Alpha*Clamp(observed)
	return Clamp(after)
}

// Calibrate is the baseline-assessment path: the observation becomes the
// rating directly, with no decay and no blending. Distinct from Update on
// purpose; calibration is a one-time mode, not a parameter of normal updates.
func Calibrate(observed float64) float64 {
	return Clamp(observed)
}
