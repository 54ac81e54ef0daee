package aggregates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/driveline-backend/internal/coaching/rating"
	"github.com/yungbote/driveline-backend/internal/coaching/xp"
	"github.com/yungbote/driveline-backend/internal/data/repos"
	types "github.com/yungbote/driveline-backend/internal/domain"
	domainagg "github.com/yungbote/driveline-backend/internal/domain/aggregates"
	"github.com/yungbote/driveline-backend/internal/domain/coaching"
	"github.com/yungbote/driveline-backend/internal/platform/dbctx"
)

type ExerciseAggregateDeps struct {
	Base BaseDeps

	Users   repos.UserRepo
	Ratings repos.SkillRatingRepo
	Wallets repos.XPWalletRepo
	Ledger  repos.XPLedgerRepo
	Gate    AccessGateResolver
}

type exerciseAggregate struct {
	deps ExerciseAggregateDeps
}

func NewExerciseAggregate(deps ExerciseAggregateDeps) domainagg.ExerciseAggregate {
	deps.Base = deps.Base.withDefaults()
	return &exerciseAggregate{deps: deps}
}

func (a *exerciseAggregate) Contract() domainagg.Contract {
	return domainagg.ExerciseAggregateContract
}

func (a *exerciseAggregate) CompleteExercise(ctx context.Context, in domainagg.CompleteExerciseInput) (domainagg.CompleteExerciseResult, error) {
	const op = "Coaching.Exercise.Complete"
	var out domainagg.CompleteExerciseResult

	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if len(in.Ratings) == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing ratings", nil)
	}
	for skill := range in.Ratings {
		if !skill.Valid() {
			return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown skill: %s", skill), nil)
		}
	}
	severity := in.Severity
	if severity == "" {
		severity = coaching.SeverityNormal
	}
	if !severity.Valid() {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown severity: %s", severity), nil)
	}
	mode := in.Mode
	if mode == "" {
		mode = domainagg.RatingModeStandard
	}
	if mode != domainagg.RatingModeStandard && mode != domainagg.RatingModeBaselineAssessment {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown rating mode: %s", mode), nil)
	}
	if a.deps.Users == nil || a.deps.Ratings == nil || a.deps.Wallets == nil || a.deps.Ledger == nil || a.deps.Gate == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "exercise aggregate repos not configured", nil)
	}

	now := in.Now.UTC()
	if in.Now.IsZero() {
		now = time.Now().UTC()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if _, err := a.deps.Users.GetByID(dbc, in.UserID); err != nil {
			return err
		}
		if err := requireAccess(a.deps.Gate, dbc, in.UserID, types.LadderSales); err != nil {
			return err
		}

		observed := make([]coaching.Skill, 0, len(in.Ratings))
		for _, skill := range coaching.AllSkills {
			if _, ok := in.Ratings[skill]; ok {
				observed = append(observed, skill)
			}
		}

		existing, err := a.deps.Ratings.LockByUserAndSkills(dbc, in.UserID, observed)
		if err != nil {
			return err
		}
		byScore := make(map[coaching.Skill]*types.SkillRating, len(existing))
		for _, row := range existing {
			byScore[row.Skill] = row
		}

		deltas := make(map[coaching.Skill]domainagg.RatingDelta, len(observed))
		updated := make([]*types.SkillRating, 0, len(observed))
		for _, skill := range observed {
			score := in.Ratings[skill]

			row := byScore[skill]
			if row == nil {
				// Lazy creation at the neutral baseline on first observation.
				row = &types.SkillRating{
					UserID: in.UserID,
					Skill:  skill,
					Score:  rating.Baseline,
				}
			}

			before := row.Score
			var after float64
			if mode == domainagg.RatingModeBaselineAssessment {
				after = rating.Calibrate(score)
			} else {
				after = rating.Update(row.Score, row.LastUpdatedAt, score, now)
			}

			row.Score = after
			row.LastUpdatedAt = now
			if err := a.deps.Ratings.Upsert(dbc, row); err != nil {
				return err
			}

			deltas[skill] = domainagg.RatingDelta{Before: before, After: after, Delta: after - before}
			updated = append(updated, row)
		}

		delta := xp.Sanitize(in.XPHint, severity)
		wallet, err := a.deps.Wallets.LockByUser(dbc, in.UserID)
		if err != nil {
			return err
		}
		newTotal := xp.Apply(wallet.Total, delta, severity)
		if delta != 0 {
			wallet.Total = newTotal
			if err := a.deps.Wallets.Update(dbc, wallet); err != nil {
				return err
			}
			if _, err := a.deps.Ledger.Append(dbc, []*types.XPLedgerEntry{{
				UserID:   in.UserID,
				Delta:    delta,
				Severity: severity,
				Reason:   fmt.Sprintf("exercise:%s", in.ExerciseID),
			}}); err != nil {
				return err
			}
		}

		out = domainagg.CompleteExerciseResult{
			UserID:    in.UserID,
			Ratings:   deltas,
			XPAwarded: delta,
			XPTotal:   newTotal,
			Updated:   updated,
		}
		return nil
	})
	return out, err
}
