package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/driveline-backend/internal/coaching/rating"
	dataagg "github.com/yungbote/driveline-backend/internal/data/aggregates"
	"github.com/yungbote/driveline-backend/internal/data/repos"
	domainagg "github.com/yungbote/driveline-backend/internal/domain/aggregates"
	"github.com/yungbote/driveline-backend/internal/domain/coaching"
	"github.com/yungbote/driveline-backend/internal/platform/dbctx"
	"github.com/yungbote/driveline-backend/internal/platform/logger"
)

// SkillSnapshot is one skill's stored score plus what it would read as after
// decay toward the baseline, without writing anything.
type SkillSnapshot struct {
	Skill         coaching.Skill `json:"skill"`
	Score         float64        `json:"score"`
	DriftedScore  float64        `json:"drifted_score"`
	LastUpdatedAt time.Time      `json:"last_updated_at"`
}

// LearnerSnapshot is the read-only coaching state for one learner.
type LearnerSnapshot struct {
	UserID   uuid.UUID                       `json:"user_id"`
	Ratings  []SkillSnapshot                 `json:"ratings"`
	XPTotal  int                             `json:"xp_total"`
	Ladder   *coaching.LadderProgress        `json:"ladder,omitempty"`
	Channel  *coaching.ChannelLadderProgress `json:"channel,omitempty"`
	Badges   []*coaching.BadgeGrant          `json:"badges"`
	TakenAt  time.Time                       `json:"taken_at"`
}

// CoachingService is the application facade over the coaching aggregates.
// Mutations delegate to the aggregates, which own their transactions and the
// in-transaction access-flag reads; this layer adds nothing but wiring.
type CoachingService interface {
	SubmitExerciseResult(ctx context.Context, in domainagg.CompleteExerciseInput) (domainagg.CompleteExerciseResult, error)
	PassLesson(ctx context.Context, in domainagg.PassLadderLessonInput) (domainagg.PassLadderLessonResult, error)
	PassChannelLesson(ctx context.Context, in domainagg.PassChannelLessonInput) (domainagg.PassChannelLessonResult, error)
	SetPrimaryChannel(ctx context.Context, in domainagg.SelectChannelInput) (domainagg.SelectChannelResult, error)
	SetSecondaryChannel(ctx context.Context, in domainagg.SelectChannelInput) (domainagg.SelectChannelResult, error)
	RecordAbandonment(ctx context.Context, in domainagg.RecordAbandonmentInput) (domainagg.RecordAbandonmentResult, error)

	GetLearnerSnapshot(ctx context.Context, userID uuid.UUID) (*LearnerSnapshot, error)
	ListXPHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*coaching.XPLedgerEntry, error)
}

type coachingService struct {
	db  *gorm.DB
	log *logger.Logger

	exercise    domainagg.ExerciseAggregate
	progression domainagg.ProgressionAggregate

	ratings repos.SkillRatingRepo
	wallets repos.XPWalletRepo
	ledger  repos.XPLedgerRepo
	ladder  repos.LadderProgressRepo
	channel repos.ChannelProgressRepo
	badges  repos.BadgeGrantRepo
}

type CoachingServiceDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Exercise    domainagg.ExerciseAggregate
	Progression domainagg.ProgressionAggregate

	Ratings repos.SkillRatingRepo
	Wallets repos.XPWalletRepo
	Ledger  repos.XPLedgerRepo
	Ladder  repos.LadderProgressRepo
	Channel repos.ChannelProgressRepo
	Badges  repos.BadgeGrantRepo
}

func NewCoachingService(deps CoachingServiceDeps) CoachingService {
	return &coachingService{
		db:          deps.DB,
		log:         deps.Log.With("service", "CoachingService"),
		exercise:    deps.Exercise,
		progression: deps.Progression,
		ratings:     deps.Ratings,
		wallets:     deps.Wallets,
		ledger:      deps.Ledger,
		ladder:      deps.Ladder,
		channel:     deps.Channel,
		badges:      deps.Badges,
	}
}

func (cs *coachingService) SubmitExerciseResult(ctx context.Context, in domainagg.CompleteExerciseInput) (domainagg.CompleteExerciseResult, error) {
	return cs.exercise.CompleteExercise(ctx, in)
}

func (cs *coachingService) PassLesson(ctx context.Context, in domainagg.PassLadderLessonInput) (domainagg.PassLadderLessonResult, error) {
	return cs.progression.PassLadderLesson(ctx, in)
}

func (cs *coachingService) PassChannelLesson(ctx context.Context, in domainagg.PassChannelLessonInput) (domainagg.PassChannelLessonResult, error) {
	return cs.progression.PassChannelLesson(ctx, in)
}

func (cs *coachingService) SetPrimaryChannel(ctx context.Context, in domainagg.SelectChannelInput) (domainagg.SelectChannelResult, error) {
	return cs.progression.SetPrimaryChannel(ctx, in)
}

func (cs *coachingService) SetSecondaryChannel(ctx context.Context, in domainagg.SelectChannelInput) (domainagg.SelectChannelResult, error) {
	return cs.progression.SetSecondaryChannel(ctx, in)
}

func (cs *coachingService) RecordAbandonment(ctx context.Context, in domainagg.RecordAbandonmentInput) (domainagg.RecordAbandonmentResult, error) {
	return cs.progression.RecordAbandonment(ctx, in)
}

// GetLearnerSnapshot reads the learner's coaching state in one transaction.
// Drifted scores are a read-time preview; persisted scores only move when an
// exercise result lands.
func (cs *coachingService) GetLearnerSnapshot(ctx context.Context, userID uuid.UUID) (*LearnerSnapshot, error) {
	if userID == uuid.Nil {
		return nil, dataagg.MapError("Coaching.Snapshot", dataagg.ValidationError("missing user_id"))
	}
	now := time.Now().UTC()

	var snap *LearnerSnapshot
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		rows, err := cs.ratings.ListByUser(dbc, userID)
		if err != nil {
			return err
		}
		skills := make([]SkillSnapshot, 0, len(rows))
		for _, row := range rows {
			skills = append(skills, SkillSnapshot{
				Skill:         row.Skill,
				Score:         row.Score,
				DriftedScore:  rating.Drift(row.Score, row.LastUpdatedAt, now),
				LastUpdatedAt: row.LastUpdatedAt,
			})
		}

		wallet, err := cs.wallets.GetByUser(dbc, userID)
		if err != nil {
			return err
		}
		total := 0
		if wallet != nil {
			total = wallet.Total
		}

		ladderProg, err := cs.ladder.GetByUser(dbc, userID)
		if err != nil {
			return err
		}
		channelProg, err := cs.channel.GetByUser(dbc, userID)
		if err != nil {
			return err
		}
		grants, err := cs.badges.ListByUser(dbc, userID)
		if err != nil {
			return err
		}

		snap = &LearnerSnapshot{
			UserID:  userID,
			Ratings: skills,
			XPTotal: total,
			Ladder:  ladderProg,
			Channel: channelProg,
			Badges:  grants,
			TakenAt: now,
		}
		return nil
	}); err != nil {
		cs.log.Warn("GetLearnerSnapshot transaction error", "error", err)
		return nil, dataagg.MapError("Coaching.Snapshot", err)
	}
	return snap, nil
}

func (cs *coachingService) ListXPHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*coaching.XPLedgerEntry, error) {
	if userID == uuid.Nil {
		return []*coaching.XPLedgerEntry{}, nil
	}
	return cs.ledger.ListByUser(dbctx.Context{Ctx: ctx}, userID, limit)
}
