package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/driveline-backend/internal/domain/coaching"
)

var ProgressionAggregateContract = Contract{
	Name:             "Coaching.ProgressionAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes: "Owns ladder lesson passes, channel selection, level advancement, certification, " +
		"XP awards and badge grants under one access-gated write boundary.",
}

// PassLadderLessonInput records a lesson pass attempt on the sales ladder.
type PassLadderLessonInput struct {
	UserID   uuid.UUID
	Level    int
	LessonID string

	// Now is the injected clock for the UTC daily-cap key. Zero means time.Now().UTC().
	Now time.Time
}

// PassLadderLessonResult reports the outcome of one pass attempt.
// AlreadyPassed=true is a successful no-op, never an error.
type PassLadderLessonResult struct {
	UserID        uuid.UUID `json:"user_id"`
	Level         int       `json:"level"`
	LessonID      string    `json:"lesson_id"`
	AlreadyPassed bool      `json:"already_passed"`
	LevelAdvanced bool      `json:"level_advanced"`
	Certified     bool      `json:"certified"`
	NewLevel      int       `json:"new_level"`
	Progress      float64   `json:"progress"`
	XPAwarded     int       `json:"xp_awarded"`
	XPTotal       int       `json:"xp_total"`
	BadgeGranted  string    `json:"badge_granted,omitempty"`

	Snapshot *coaching.LadderProgress `json:"snapshot,omitempty"`
}

// PassChannelLessonInput records a lesson pass attempt on the BDC ladder.
type PassChannelLessonInput struct {
	UserID   uuid.UUID
	Level    int
	LessonID string
	Now      time.Time
}

// PassChannelLessonResult reports the outcome of one BDC pass attempt.
type PassChannelLessonResult struct {
	UserID        uuid.UUID            `json:"user_id"`
	Level         int                  `json:"level"`
	LessonID      string               `json:"lesson_id"`
	Phase         coaching.ChannelPhase `json:"phase"`
	AlreadyPassed bool                 `json:"already_passed"`
	PhaseAdvanced bool                 `json:"phase_advanced"`
	LevelAdvanced bool                 `json:"level_advanced"`
	Certified     bool                 `json:"certified"`
	NewLevel      int                  `json:"new_level"`
	Progress      float64              `json:"progress"`
	XPAwarded     int                  `json:"xp_awarded"`
	XPTotal       int                  `json:"xp_total"`
	BadgeGranted  string               `json:"badge_granted,omitempty"`

	Snapshot *coaching.ChannelLadderProgress `json:"snapshot,omitempty"`
}

// SelectChannelInput commits a learner to a contact channel for a level-2 phase.
type SelectChannelInput struct {
	UserID  uuid.UUID
	Channel coaching.Channel
}

// SelectChannelResult reports the selection. Changed=false means the same
// channel was already selected (idempotent no-op).
type SelectChannelResult struct {
	UserID  uuid.UUID            `json:"user_id"`
	Phase   coaching.ChannelPhase `json:"phase"`
	Channel coaching.Channel     `json:"channel"`
	Changed bool                 `json:"changed"`
}

// RecordAbandonmentInput bumps the abandonment counter on the sales ladder.
type RecordAbandonmentInput struct {
	UserID uuid.UUID
}

// RecordAbandonmentResult reports the updated counter.
type RecordAbandonmentResult struct {
	UserID           uuid.UUID `json:"user_id"`
	AbandonmentCount int       `json:"abandonment_count"`
}

// ProgressionAggregate owns ladder state machine writes for both ladders.
//
// Every mutating method re-reads the learner's progress row and the owning
// organizations' feature flags inside the same transaction it writes in.
type ProgressionAggregate interface {
	Aggregate

	PassLadderLesson(ctx context.Context, in PassLadderLessonInput) (PassLadderLessonResult, error)
	PassChannelLesson(ctx context.Context, in PassChannelLessonInput) (PassChannelLessonResult, error)
	SetPrimaryChannel(ctx context.Context, in SelectChannelInput) (SelectChannelResult, error)
	SetSecondaryChannel(ctx context.Context, in SelectChannelInput) (SelectChannelResult, error)
	RecordAbandonment(ctx context.Context, in RecordAbandonmentInput) (RecordAbandonmentResult, error)
}
