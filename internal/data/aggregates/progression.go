package aggregates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/driveline-backend/internal/coaching/catalog"
	"github.com/yungbote/driveline-backend/internal/coaching/ladder"
	"github.com/yungbote/driveline-backend/internal/coaching/xp"
	"github.com/yungbote/driveline-backend/internal/data/repos"
	types "github.com/yungbote/driveline-backend/internal/domain"
	domainagg "github.com/yungbote/driveline-backend/internal/domain/aggregates"
	"github.com/yungbote/driveline-backend/internal/domain/coaching"
	"github.com/yungbote/driveline-backend/internal/platform/dbctx"
)

type ProgressionAggregateDeps struct {
	Base BaseDeps

	Users    repos.UserRepo
	Ladder   repos.LadderProgressRepo
	Channel  repos.ChannelProgressRepo
	Wallets  repos.XPWalletRepo
	Ledger   repos.XPLedgerRepo
	Badges   repos.BadgeGrantRepo
	Gate     AccessGateResolver
	DailyCap int
}

type progressionAggregate struct {
	deps ProgressionAggregateDeps
}

func NewProgressionAggregate(deps ProgressionAggregateDeps) domainagg.ProgressionAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.DailyCap == 0 {
		deps.DailyCap = catalog.DailyPassCap
	}
	return &progressionAggregate{deps: deps}
}

func (a *progressionAggregate) Contract() domainagg.Contract {
	return domainagg.ProgressionAggregateContract
}

func (a *progressionAggregate) checkDeps() error {
	if a.deps.Users == nil || a.deps.Ladder == nil || a.deps.Channel == nil ||
		a.deps.Wallets == nil || a.deps.Ledger == nil || a.deps.Badges == nil || a.deps.Gate == nil {
		return errors.New("progression aggregate repos not configured")
	}
	return nil
}

func (a *progressionAggregate) PassLadderLesson(ctx context.Context, in domainagg.PassLadderLessonInput) (domainagg.PassLadderLessonResult, error) {
	const op = "Coaching.Progression.PassLadderLesson"
	var out domainagg.PassLadderLessonResult

	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if !catalog.ValidLevel(in.Level) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("invalid level: %d", in.Level), nil)
	}
	if strings.TrimSpace(in.LessonID) == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing lesson_id", nil)
	}
	if err := a.checkDeps(); err != nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, err.Error(), nil)
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

		prog, err := a.deps.Ladder.LockByUser(dbc, in.UserID)
		if err != nil {
			return err
		}
		passed, err := decodePassed(prog.LessonsPassed)
		if err != nil {
			return err
		}

		key := ladder.LevelKey(in.Level)
		lessonSet := catalog.LessonIDsForLevel(in.Level, catalog.RoleShowroom)
		decision, err := ladder.EvaluatePass(in.Level, prog.CurrentLevel, in.LessonID, lessonSet, passed[key])
		if err != nil {
			return mapLadderError(err, now)
		}

		if decision.AlreadyPassed {
			out = domainagg.PassLadderLessonResult{
				UserID:        in.UserID,
				Level:         in.Level,
				LessonID:      in.LessonID,
				AlreadyPassed: true,
				NewLevel:      prog.CurrentLevel,
				Certified:     prog.Certified,
				Progress:      prog.ProgressPercentage,
				Snapshot:      prog,
			}
			return nil
		}

		counter := ladder.DailyCounter{Date: prog.DailyPassDate, Count: prog.DailyPassCount}.Rolled(now)
		if err := counter.CheckCap(a.deps.DailyCap); err != nil {
			return mapLadderError(err, now)
		}

		passed[key] = append(passed[key], in.LessonID)
		encoded, err := encodePassed(passed)
		if err != nil {
			return err
		}
		prog.LessonsPassed = encoded

		counter.Count++
		prog.DailyPassDate = counter.Date
		prog.DailyPassCount = counter.Count

		levelAdvanced := false
		certified := false
		badgeGranted := ""
		if decision.Completed {
			if in.Level < catalog.MaxLevel {
				prog.CurrentLevel = in.Level + 1
				prog.ProgressPercentage = 0
				levelAdvanced = true
			} else {
				prog.Certified = true
				prog.ProgressPercentage = 100
				certified = true
			}
			badgeID := catalog.BadgeID(in.Level, certified)
			granted, err := a.grantBadge(dbc, in.UserID, badgeID, now)
			if err != nil {
				return err
			}
			if granted {
				badgeGranted = badgeID
			}
		} else {
			prog.ProgressPercentage = decision.Progress
		}

		if err := a.deps.Ladder.Update(dbc, prog); err != nil {
			return err
		}

		award := xp.Sanitize(float64(catalog.XPForLevel(in.Level)), coaching.SeverityNormal)
		total, err := a.applyXP(dbc, in.UserID, award, fmt.Sprintf("ladder:%s:%s", key, in.LessonID))
		if err != nil {
			return err
		}

		out = domainagg.PassLadderLessonResult{
			UserID:        in.UserID,
			Level:         in.Level,
			LessonID:      in.LessonID,
			LevelAdvanced: levelAdvanced,
			Certified:     certified || prog.Certified,
			NewLevel:      prog.CurrentLevel,
			Progress:      prog.ProgressPercentage,
			XPAwarded:     award,
			XPTotal:       total,
			BadgeGranted:  badgeGranted,
			Snapshot:      prog,
		}
		return nil
	})
	return out, err
}

func (a *progressionAggregate) PassChannelLesson(ctx context.Context, in domainagg.PassChannelLessonInput) (domainagg.PassChannelLessonResult, error) {
	const op = "Coaching.Progression.PassChannelLesson"
	var out domainagg.PassChannelLessonResult

	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if !catalog.ValidChannelLevel(in.Level) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("invalid level: %d", in.Level), nil)
	}
	if strings.TrimSpace(in.LessonID) == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing lesson_id", nil)
	}
	if err := a.checkDeps(); err != nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, err.Error(), nil)
	}

	now := in.Now.UTC()
	if in.Now.IsZero() {
		now = time.Now().UTC()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if _, err := a.deps.Users.GetByID(dbc, in.UserID); err != nil {
			return err
		}
		if err := requireAccess(a.deps.Gate, dbc, in.UserID, types.LadderBDC); err != nil {
			return err
		}

		prog, err := a.deps.Channel.LockByUser(dbc, in.UserID)
		if err != nil {
			return err
		}
		if prog.CertifiedAt != nil {
			return InvariantError("ladder already certified")
		}

		phase := coaching.PhasePrimary
		if in.Level == catalog.BranchLevel {
			phase = prog.L2Phase
			if phase == coaching.PhasePrimary && prog.PrimaryChannel == nil {
				return ValidationError("primary channel not selected")
			}
			if phase == coaching.PhaseSecondary && prog.SecondaryChannel == nil {
				return ValidationError("secondary channel not selected")
			}
		}

		passed, err := decodePassed(prog.LessonsPassed)
		if err != nil {
			return err
		}

		key := ladder.PhaseKey(in.Level, string(phase))
		lessonSet := catalog.ChannelLessonIDsFor(in.Level, phase)
		decision, err := ladder.EvaluatePass(in.Level, prog.CurrentLevel, in.LessonID, lessonSet, passed[key])
		if err != nil {
			return mapLadderError(err, now)
		}

		if decision.AlreadyPassed {
			out = domainagg.PassChannelLessonResult{
				UserID:        in.UserID,
				Level:         in.Level,
				LessonID:      in.LessonID,
				Phase:         phase,
				AlreadyPassed: true,
				NewLevel:      prog.CurrentLevel,
				Certified:     prog.CertifiedAt != nil,
				Progress:      prog.CurrentLevelProgress,
				Snapshot:      prog,
			}
			return nil
		}

		passed[key] = append(passed[key], in.LessonID)
		encoded, err := encodePassed(passed)
		if err != nil {
			return err
		}
		prog.LessonsPassed = encoded

		phaseAdvanced := false
		levelAdvanced := false
		certified := false
		badgeGranted := ""
		if decision.Completed {
			switch {
			case in.Level == catalog.BranchLevel && phase == coaching.PhasePrimary:
				// Primary-phase mastery opens the secondary-channel branch;
				// the level itself is not complete yet.
				prog.L2Phase = coaching.PhaseSecondary
				prog.CurrentLevelProgress = 0
				phaseAdvanced = true
			case in.Level < catalog.ChannelMaxLevel:
				prog.CurrentLevel = in.Level + 1
				prog.LevelCompleted = in.Level
				prog.CurrentLevelProgress = 0
				levelAdvanced = true
			default:
				ts := now
				prog.CertifiedAt = &ts
				prog.LevelCompleted = catalog.ChannelMaxLevel
				prog.CurrentLevelProgress = 100
				certified = true
			}
			if levelAdvanced || certified {
				badgeID := catalog.ChannelBadgeID(in.Level, certified)
				granted, err := a.grantBadge(dbc, in.UserID, badgeID, now)
				if err != nil {
					return err
				}
				if granted {
					badgeGranted = badgeID
				}
			}
		} else {
			prog.CurrentLevelProgress = decision.Progress
		}

		if err := a.deps.Channel.Update(dbc, prog); err != nil {
			return err
		}

		award := xp.Sanitize(float64(catalog.ChannelXPPerLesson(in.Level, phase)), coaching.SeverityNormal)
		total, err := a.applyXP(dbc, in.UserID, award, fmt.Sprintf("bdc:%s:%s", key, in.LessonID))
		if err != nil {
			return err
		}

		out = domainagg.PassChannelLessonResult{
			UserID:        in.UserID,
			Level:         in.Level,
			LessonID:      in.LessonID,
			Phase:         phase,
			PhaseAdvanced: phaseAdvanced,
			LevelAdvanced: levelAdvanced,
			Certified:     certified,
			NewLevel:      prog.CurrentLevel,
			Progress:      prog.CurrentLevelProgress,
			XPAwarded:     award,
			XPTotal:       total,
			BadgeGranted:  badgeGranted,
			Snapshot:      prog,
		}
		return nil
	})
	return out, err
}

func (a *progressionAggregate) SetPrimaryChannel(ctx context.Context, in domainagg.SelectChannelInput) (domainagg.SelectChannelResult, error) {
	return a.selectChannel(ctx, "Coaching.Progression.SetPrimaryChannel", coaching.PhasePrimary, in)
}

func (a *progressionAggregate) SetSecondaryChannel(ctx context.Context, in domainagg.SelectChannelInput) (domainagg.SelectChannelResult, error) {
	return a.selectChannel(ctx, "Coaching.Progression.SetSecondaryChannel", coaching.PhaseSecondary, in)
}

func (a *progressionAggregate) selectChannel(ctx context.Context, op string, phase coaching.ChannelPhase, in domainagg.SelectChannelInput) (domainagg.SelectChannelResult, error) {
	var out domainagg.SelectChannelResult

	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if !in.Channel.Valid() {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown channel: %s", in.Channel), nil)
	}
	if err := a.checkDeps(); err != nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, err.Error(), nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if _, err := a.deps.Users.GetByID(dbc, in.UserID); err != nil {
			return err
		}
		if err := requireAccess(a.deps.Gate, dbc, in.UserID, types.LadderBDC); err != nil {
			return err
		}

		prog, err := a.deps.Channel.LockByUser(dbc, in.UserID)
		if err != nil {
			return err
		}
		passed, err := decodePassed(prog.LessonsPassed)
		if err != nil {
			return err
		}

		current := prog.PrimaryChannel
		if phase == coaching.PhaseSecondary {
			current = prog.SecondaryChannel
			if prog.PrimaryChannel == nil {
				return ValidationError("primary channel not selected")
			}
			if *prog.PrimaryChannel == in.Channel {
				return ValidationError("secondary channel must differ from primary")
			}
		}

		// A phase's channel locks as soon as any lesson in that phase passed.
		// Re-selecting the same value stays a no-op.
		locked := len(passed[ladder.PhaseKey(catalog.BranchLevel, string(phase))]) > 0
		if current != nil && *current == in.Channel {
			out = domainagg.SelectChannelResult{UserID: in.UserID, Phase: phase, Channel: in.Channel, Changed: false}
			return nil
		}
		if locked {
			return ValidationError(fmt.Sprintf("%s channel is locked once lessons are passed", phase))
		}

		ch := in.Channel
		if phase == coaching.PhaseSecondary {
			prog.SecondaryChannel = &ch
		} else {
			prog.PrimaryChannel = &ch
		}
		if err := a.deps.Channel.Update(dbc, prog); err != nil {
			return err
		}

		out = domainagg.SelectChannelResult{UserID: in.UserID, Phase: phase, Channel: in.Channel, Changed: true}
		return nil
	})
	return out, err
}

func (a *progressionAggregate) RecordAbandonment(ctx context.Context, in domainagg.RecordAbandonmentInput) (domainagg.RecordAbandonmentResult, error) {
	const op = "Coaching.Progression.RecordAbandonment"
	var out domainagg.RecordAbandonmentResult

	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if err := a.checkDeps(); err != nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, err.Error(), nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if _, err := a.deps.Users.GetByID(dbc, in.UserID); err != nil {
			return err
		}
		prog, err := a.deps.Ladder.LockByUser(dbc, in.UserID)
		if err != nil {
			return err
		}
		prog.AbandonmentCount++
		if err := a.deps.Ladder.Update(dbc, prog); err != nil {
			return err
		}
		out = domainagg.RecordAbandonmentResult{UserID: in.UserID, AbandonmentCount: prog.AbandonmentCount}
		return nil
	})
	return out, err
}

// applyXP folds a normal-severity award into the wallet and ledger. Zero
// awards write nothing.
func (a *progressionAggregate) applyXP(dbc dbctx.Context, userID uuid.UUID, award int, reason string) (int, error) {
	wallet, err := a.deps.Wallets.LockByUser(dbc, userID)
	if err != nil {
		return 0, err
	}
	if award == 0 {
		return wallet.Total, nil
	}
	wallet.Total = xp.Apply(wallet.Total, award, coaching.SeverityNormal)
	if err := a.deps.Wallets.Update(dbc, wallet); err != nil {
		return 0, err
	}
	if _, err := a.deps.Ledger.Append(dbc, []*types.XPLedgerEntry{{
		UserID:   userID,
		Delta:    award,
		Severity: coaching.SeverityNormal,
		Reason:   reason,
	}}); err != nil {
		return 0, err
	}
	return wallet.Total, nil
}

// grantBadge awards at most once, re-checking inside the same transaction.
func (a *progressionAggregate) grantBadge(dbc dbctx.Context, userID uuid.UUID, badgeID string, now time.Time) (bool, error) {
	exists, err := a.deps.Badges.Exists(dbc, userID, badgeID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := a.deps.Badges.Create(dbc, &types.BadgeGrant{
		UserID:    userID,
		BadgeID:   badgeID,
		GrantedAt: now,
	}); err != nil {
		return false, err
	}
	return true, nil
}

// mapLadderError converts pure ladder-core sentinels into tagged aggregate
// failures; the rate-limited message carries the UTC reset time.
func mapLadderError(err error, now time.Time) error {
	switch {
	case errors.Is(err, ladder.ErrWrongLevel), errors.Is(err, ladder.ErrUnknownLesson):
		return ValidationError(err.Error())
	case errors.Is(err, ladder.ErrDailyCapReached):
		return RateLimitedError(fmt.Sprintf("daily pass cap reached, resets at %s", ladder.NextReset(now).Format(time.RFC3339)))
	default:
		return err
	}
}
