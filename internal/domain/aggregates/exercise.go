package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/driveline-backend/internal/domain/coaching"
)

var ExerciseAggregateContract = Contract{
	Name:             "Coaching.ExerciseAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes: "Owns the decay-blend rating update and XP ledger application produced by one " +
		"exercise completion, in one aggregate write boundary.",
}

// RatingMode selects how an observed score is folded into the stored rating.
type RatingMode string

const (
	// RatingModeStandard applies decay toward baseline, then the weighted blend.
	RatingModeStandard RatingMode = "standard"
	// RatingModeBaselineAssessment sets the rating directly to the observed
	// score. Used once per skill for initial calibration.
	RatingModeBaselineAssessment RatingMode = "baseline_assessment"
)

// CompleteExerciseInput carries one finished interactive exercise.
type CompleteExerciseInput struct {
	UserID     uuid.UUID
	ExerciseID string

	// Ratings maps each observed skill to a raw 0..100 score.
	Ratings map[coaching.Skill]float64

	Severity coaching.Severity
	Mode     RatingMode

	// XPHint is the raw XP delta suggested by the exercise flow. It is
	// sanitized before application and must never be trusted as-is.
	XPHint float64

	// Now is the injected clock for decay math. Zero means time.Now().UTC().
	Now time.Time
}

// RatingDelta reports one skill's movement for caller feedback.
type RatingDelta struct {
	Before float64 `json:"before"`
	After  float64 `json:"after"`
	Delta  float64 `json:"delta"`
}

// CompleteExerciseResult summarizes all state changed by one completion.
type CompleteExerciseResult struct {
	UserID    uuid.UUID                       `json:"user_id"`
	Ratings   map[coaching.Skill]RatingDelta  `json:"ratings"`
	XPAwarded int                             `json:"xp_awarded"`
	XPTotal   int                             `json:"xp_total"`
	Updated   []*coaching.SkillRating         `json:"updated"`
}

// ExerciseAggregate owns rating + XP invariant writes for exercise completions.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeRateLimited, CodeAccessDenied,
// CodeConflict, CodeRetryable, CodeInternal.
type ExerciseAggregate interface {
	Aggregate

	// CompleteExercise atomically applies decay-blended rating updates and the
	// sanitized XP delta for one finished exercise.
	CompleteExercise(ctx context.Context, in CompleteExerciseInput) (CompleteExerciseResult, error)
}
