package aggregates

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/driveline-backend/internal/coaching/catalog"
	"github.com/yungbote/driveline-backend/internal/data/repos"
	"github.com/yungbote/driveline-backend/internal/data/repos/testutil"
	types "github.com/yungbote/driveline-backend/internal/domain"
	domainagg "github.com/yungbote/driveline-backend/internal/domain/aggregates"
	"github.com/yungbote/driveline-backend/internal/domain/coaching"
	"github.com/yungbote/driveline-backend/internal/platform/dbctx"
)

func newTestProgression(tb testing.TB, dbc dbctx.Context) domainagg.ProgressionAggregate {
	tb.Helper()
	log := testutil.NewTestLogger(tb)
	tx := dbc.Tx
	return NewProgressionAggregate(ProgressionAggregateDeps{
		Base:    BaseDeps{DB: tx, Log: log},
		Users:   repos.NewUserRepo(tx, log),
		Ladder:  repos.NewLadderProgressRepo(tx, log),
		Channel: repos.NewChannelProgressRepo(tx, log),
		Wallets: repos.NewXPWalletRepo(tx, log),
		Ledger:  repos.NewXPLedgerRepo(tx, log),
		Badges:  repos.NewBadgeGrantRepo(tx, log),
		Gate:    NewAccessGateResolver(repos.NewOrgMembershipRepo(tx, log), repos.NewOrgFeatureFlagRepo(tx, log), log),
	})
}

var day0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// passLevel pushes every lesson of one sales-ladder level through the
// aggregate, spreading passes across UTC days to stay under the daily cap.
func passLevel(tb testing.TB, agg domainagg.ProgressionAggregate, userID uuid.UUID, level int, start time.Time) (domainagg.PassLadderLessonResult, time.Time) {
	tb.Helper()
	var last domainagg.PassLadderLessonResult
	now := start
	for i, lessonID := range catalog.LessonIDsForLevel(level, catalog.RoleShowroom) {
		if i > 0 && i%catalog.DailyPassCap == 0 {
			now = now.AddDate(0, 0, 1)
		}
		res, err := agg.PassLadderLesson(context.Background(), domainagg.PassLadderLessonInput{
			UserID:   userID,
			Level:    level,
			LessonID: lessonID,
			Now:      now,
		})
		if err != nil {
			tb.Fatalf("level %d lesson %s: %v", level, lessonID, err)
		}
		last = res
	}
	return last, now.AddDate(0, 0, 1)
}

func TestPassLadderLesson_FirstPassAwardsProgressAndXP(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	testutil.InTx(t, gdb, func(dbc dbctx.Context) {
		u := testutil.SeedUser(t, dbc)
		testutil.SeedOrgWithAccess(t, dbc, u.ID, types.LadderSales)
		agg := newTestProgression(t, dbc)

		lessons := catalog.LessonIDsForLevel(1, catalog.RoleShowroom)
		res, err := agg.PassLadderLesson(context.Background(), domainagg.PassLadderLessonInput{
			UserID:   u.ID,
			Level:    1,
			LessonID: lessons[0],
			Now:      day0,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.AlreadyPassed || res.LevelAdvanced || res.Certified {
			t.Fatalf("unexpected flags: %+v", res)
		}
		wantProgress := 100.0 / float64(len(lessons))
		if res.Progress != wantProgress {
			t.Fatalf("expected progress %v, got %v", wantProgress, res.Progress)
		}
		if res.XPAwarded != catalog.XPForLevel(1) || res.XPTotal != catalog.XPForLevel(1) {
			t.Fatalf("unexpected XP: %+v", res)
		}
		if res.Snapshot == nil || res.Snapshot.DailyPassCount != 1 {
			t.Fatalf("expected daily count 1, got %+v", res.Snapshot)
		}
	})
}

func TestPassLadderLesson_RepeatIsZeroXPNoOp(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	testutil.InTx(t, gdb, func(dbc dbctx.Context) {
		u := testutil.SeedUser(t, dbc)
		testutil.SeedOrgWithAccess(t, dbc, u.ID, types.LadderSales)
		agg := newTestProgression(t, dbc)

		lessons := catalog.LessonIDsForLevel(1, catalog.RoleShowroom)
		in := domainagg.PassLadderLessonInput{UserID: u.ID, Level: 1, LessonID: lessons[0], Now: day0}
		if _, err := agg.PassLadderLesson(context.Background(), in); err != nil {
			t.Fatalf("first pass: %v", err)
		}

		res, err := agg.PassLadderLesson(context.Background(), in)
		if err != nil {
			t.Fatalf("repeat pass must not error: %v", err)
		}
		if !res.AlreadyPassed {
			t.Fatalf("expected AlreadyPassed: %+v", res)
		}
		if res.XPAwarded != 0 {
			t.Fatalf("repeat pass awarded XP: %+v", res)
		}
		if res.Snapshot.DailyPassCount != 1 {
			t.Fatalf("repeat pass consumed daily cap: %+v", res.Snapshot)
		}
	})
}

func TestPassLadderLesson_DailyCapBlocksSixthPass(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	testutil.InTx(t, gdb, func(dbc dbctx.Context) {
		u := testutil.SeedUser(t, dbc)
		testutil.SeedOrgWithAccess(t, dbc, u.ID, types.LadderSales)
		agg := newTestProgression(t, dbc)

		lessons := catalog.LessonIDsForLevel(1, catalog.RoleShowroom)
		for i := 0; i < catalog.DailyPassCap; i++ {
			if _, err := agg.PassLadderLesson(context.Background(), domainagg.PassLadderLessonInput{
				UserID: u.ID, Level: 1, LessonID: lessons[i], Now: day0,
			}); err != nil {
				t.Fatalf("pass %d: %v", i, err)
			}
		}

		_, err := agg.PassLadderLesson(context.Background(), domainagg.PassLadderLessonInput{
			UserID: u.ID, Level: 1, LessonID: lessons[catalog.DailyPassCap], Now: day0,
		})
		if !domainagg.IsCode(err, domainagg.CodeRateLimited) {
			t.Fatalf("expected rate limited, got %v", err)
		}

		// The cap lifts at UTC midnight.
		res, err := agg.PassLadderLesson(context.Background(), domainagg.PassLadderLessonInput{
			UserID: u.ID, Level: 1, LessonID: lessons[catalog.DailyPassCap], Now: day0.AddDate(0, 0, 1),
		})
		if err != nil {
			t.Fatalf("pass after reset: %v", err)
		}
		if res.Snapshot.DailyPassCount != 1 {
			t.Fatalf("expected fresh daily count, got %+v", res.Snapshot)
		}
	})
}

func TestPassLadderLesson_CompletingLevelAdvancesAndGrantsBadge(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	testutil.InTx(t, gdb, func(dbc dbctx.Context) {
		u := testutil.SeedUser(t, dbc)
		testutil.SeedOrgWithAccess(t, dbc, u.ID, types.LadderSales)
		agg := newTestProgression(t, dbc)

		last, _ := passLevel(t, agg, u.ID, 1, day0)
		if !last.LevelAdvanced || last.NewLevel != 2 {
			t.Fatalf("expected advance to level 2: %+v", last)
		}
		if last.Progress != 0 {
			t.Fatalf("expected progress reset on advance, got %v", last.Progress)
		}
		if last.BadgeGranted != "sales.level.1" {
			t.Fatalf("expected level badge, got %q", last.BadgeGranted)
		}

		log := testutil.NewTestLogger(t)
		grants, err := repos.NewBadgeGrantRepo(dbc.Tx, log).ListByUser(dbc, u.ID)
		if err != nil {
			t.Fatalf("list badges: %v", err)
		}
		if len(grants) != 1 || grants[0].BadgeID != "sales.level.1" {
			t.Fatalf("unexpected grants: %+v", grants)
		}
	})
}

func TestPassLadderLesson_WrongLevelRejected(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	testutil.InTx(t, gdb, func(dbc dbctx.Context) {
		u := testutil.SeedUser(t, dbc)
		testutil.SeedOrgWithAccess(t, dbc, u.ID, types.LadderSales)
		agg := newTestProgression(t, dbc)

		lessons := catalog.LessonIDsForLevel(2, catalog.RoleShowroom)
		_, err := agg.PassLadderLesson(context.Background(), domainagg.PassLadderLessonInput{
			UserID: u.ID, Level: 2, LessonID: lessons[0], Now: day0,
		})
		if !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("expected validation error for level skip, got %v", err)
		}

		_, err = agg.PassLadderLesson(context.Background(), domainagg.PassLadderLessonInput{
			UserID: u.ID, Level: 1, LessonID: "sales.l1.not.a.lesson", Now: day0,
		})
		if !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("expected validation error for unknown lesson, got %v", err)
		}
	})
}

func TestPassLadderLesson_TerminalLevelCertifies(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	testutil.InTx(t, gdb, func(dbc dbctx.Context) {
		u := testutil.SeedUser(t, dbc)
		testutil.SeedOrgWithAccess(t, dbc, u.ID, types.LadderSales)
		agg := newTestProgression(t, dbc)

		// Jump the learner to the terminal level directly.
		seed := &types.LadderProgress{
			ID:            uuid.New(),
			UserID:        u.ID,
			CurrentLevel:  catalog.MaxLevel,
			LessonsPassed: datatypes.JSON([]byte("{}")),
		}
		if err := dbc.Tx.WithContext(dbc.Ctx).Create(seed).Error; err != nil {
			t.Fatalf("seed progress: %v", err)
		}

		last, _ := passLevel(t, agg, u.ID, catalog.MaxLevel, day0)
		if !last.Certified || last.LevelAdvanced {
			t.Fatalf("expected certification without advance: %+v", last)
		}
		if last.NewLevel != catalog.MaxLevel {
			t.Fatalf("terminal level must not advance, got %d", last.NewLevel)
		}
		if last.Progress != 100 {
			t.Fatalf("expected 100%% progress, got %v", last.Progress)
		}
		if last.BadgeGranted != "sales.certified" {
			t.Fatalf("expected certification badge, got %q", last.BadgeGranted)
		}
	})
}

func TestPassLadderLesson_AccessRevokedMidSession(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	testutil.InTx(t, gdb, func(dbc dbctx.Context) {
		u := testutil.SeedUser(t, dbc)
		org := testutil.SeedOrgWithAccess(t, dbc, u.ID, types.LadderSales)
		agg := newTestProgression(t, dbc)

		lessons := catalog.LessonIDsForLevel(1, catalog.RoleShowroom)
		if _, err := agg.PassLadderLesson(context.Background(), domainagg.PassLadderLessonInput{
			UserID: u.ID, Level: 1, LessonID: lessons[0], Now: day0,
		}); err != nil {
			t.Fatalf("first pass: %v", err)
		}

		testutil.DisableLadder(t, dbc, org.ID, types.LadderSales)
		_, err := agg.PassLadderLesson(context.Background(), domainagg.PassLadderLessonInput{
			UserID: u.ID, Level: 1, LessonID: lessons[1], Now: day0,
		})
		if !domainagg.IsCode(err, domainagg.CodeAccessDenied) {
			t.Fatalf("expected access denied after flag flip, got %v", err)
		}
	})
}

func TestRecordAbandonment_IncrementsCounter(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	testutil.InTx(t, gdb, func(dbc dbctx.Context) {
		u := testutil.SeedUser(t, dbc)
		agg := newTestProgression(t, dbc)

		for want := 1; want <= 3; want++ {
			res, err := agg.RecordAbandonment(context.Background(), domainagg.RecordAbandonmentInput{UserID: u.ID})
			if err != nil {
				t.Fatalf("record abandonment: %v", err)
			}
			if res.AbandonmentCount != want {
				t.Fatalf("expected count %d, got %d", want, res.AbandonmentCount)
			}
		}
	})
}

func passChannelLevel(tb testing.TB, agg domainagg.ProgressionAggregate, userID uuid.UUID, level int, phase coaching.ChannelPhase) domainagg.PassChannelLessonResult {
	tb.Helper()
	var last domainagg.PassChannelLessonResult
	for _, lessonID := range catalog.ChannelLessonIDsFor(level, phase) {
		res, err := agg.PassChannelLesson(context.Background(), domainagg.PassChannelLessonInput{
			UserID:   userID,
			Level:    level,
			LessonID: lessonID,
			Now:      day0,
		})
		if err != nil {
			tb.Fatalf("channel level %d lesson %s: %v", level, lessonID, err)
		}
		last = res
	}
	return last
}

func TestPassChannelLesson_LevelOneHasNoChannelGate(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	testutil.InTx(t, gdb, func(dbc dbctx.Context) {
		u := testutil.SeedUser(t, dbc)
		testutil.SeedOrgWithAccess(t, dbc, u.ID, types.LadderBDC)
		agg := newTestProgression(t, dbc)

		last := passChannelLevel(t, agg, u.ID, 1, coaching.PhasePrimary)
		if !last.LevelAdvanced || last.NewLevel != 2 {
			t.Fatalf("expected advance to level 2: %+v", last)
		}
		if last.BadgeGranted != "bdc.level.1" {
			t.Fatalf("expected level badge, got %q", last.BadgeGranted)
		}
		if last.XPAwarded != catalog.ChannelXPPerLesson(1, coaching.PhasePrimary) {
			t.Fatalf("unexpected per-lesson XP: %+v", last)
		}
	})
}

func TestPassChannelLesson_BranchLevelRequiresChannelSelection(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	testutil.InTx(t, gdb, func(dbc dbctx.Context) {
		u := testutil.SeedUser(t, dbc)
		testutil.SeedOrgWithAccess(t, dbc, u.ID, types.LadderBDC)
		agg := newTestProgression(t, dbc)
		ctx := context.Background()

		passChannelLevel(t, agg, u.ID, 1, coaching.PhasePrimary)

		primary := catalog.ChannelLessonIDsFor(catalog.BranchLevel, coaching.PhasePrimary)
		_, err := agg.PassChannelLesson(ctx, domainagg.PassChannelLessonInput{
			UserID: u.ID, Level: catalog.BranchLevel, LessonID: primary[0], Now: day0,
		})
		if !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("expected validation error without channel, got %v", err)
		}

		if _, err := agg.SetPrimaryChannel(ctx, domainagg.SelectChannelInput{UserID: u.ID, Channel: coaching.ChannelPhone}); err != nil {
			t.Fatalf("select primary: %v", err)
		}

		last := passChannelLevel(t, agg, u.ID, catalog.BranchLevel, coaching.PhasePrimary)
		if !last.PhaseAdvanced || last.LevelAdvanced {
			t.Fatalf("primary completion should advance phase only: %+v", last)
		}

		// Secondary phase needs its own, distinct channel.
		secondary := catalog.ChannelLessonIDsFor(catalog.BranchLevel, coaching.PhaseSecondary)
		_, err = agg.PassChannelLesson(ctx, domainagg.PassChannelLessonInput{
			UserID: u.ID, Level: catalog.BranchLevel, LessonID: secondary[0], Now: day0,
		})
		if !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("expected validation error without secondary channel, got %v", err)
		}
		if _, err := agg.SetSecondaryChannel(ctx, domainagg.SelectChannelInput{UserID: u.ID, Channel: coaching.ChannelPhone}); !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("secondary must differ from primary, got %v", err)
		}
		if _, err := agg.SetSecondaryChannel(ctx, domainagg.SelectChannelInput{UserID: u.ID, Channel: coaching.ChannelEmail}); err != nil {
			t.Fatalf("select secondary: %v", err)
		}

		last = passChannelLevel(t, agg, u.ID, catalog.BranchLevel, coaching.PhaseSecondary)
		if !last.LevelAdvanced || last.NewLevel != 3 {
			t.Fatalf("secondary completion should finish the level: %+v", last)
		}
		if last.BadgeGranted != "bdc.level.2" {
			t.Fatalf("expected level badge, got %q", last.BadgeGranted)
		}
		if last.XPAwarded != catalog.SecondaryChannelBonus/len(secondary) {
			t.Fatalf("unexpected secondary bonus split: %+v", last)
		}
	})
}

func TestSetPrimaryChannel_LockedAfterFirstPass(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	testutil.InTx(t, gdb, func(dbc dbctx.Context) {
		u := testutil.SeedUser(t, dbc)
		testutil.SeedOrgWithAccess(t, dbc, u.ID, types.LadderBDC)
		agg := newTestProgression(t, dbc)
		ctx := context.Background()

		passChannelLevel(t, agg, u.ID, 1, coaching.PhasePrimary)
		if _, err := agg.SetPrimaryChannel(ctx, domainagg.SelectChannelInput{UserID: u.ID, Channel: coaching.ChannelPhone}); err != nil {
			t.Fatalf("select primary: %v", err)
		}

		// Re-selecting before any branch lesson is allowed.
		res, err := agg.SetPrimaryChannel(ctx, domainagg.SelectChannelInput{UserID: u.ID, Channel: coaching.ChannelText})
		if err != nil || !res.Changed {
			t.Fatalf("re-selection before passes should succeed: %+v %v", res, err)
		}

		primary := catalog.ChannelLessonIDsFor(catalog.BranchLevel, coaching.PhasePrimary)
		if _, err := agg.PassChannelLesson(ctx, domainagg.PassChannelLessonInput{
			UserID: u.ID, Level: catalog.BranchLevel, LessonID: primary[0], Now: day0,
		}); err != nil {
			t.Fatalf("branch pass: %v", err)
		}

		// Same value stays an idempotent no-op.
		res, err = agg.SetPrimaryChannel(ctx, domainagg.SelectChannelInput{UserID: u.ID, Channel: coaching.ChannelText})
		if err != nil || res.Changed {
			t.Fatalf("same-value selection must be a no-op: %+v %v", res, err)
		}

		// A different value is now locked out.
		if _, err := agg.SetPrimaryChannel(ctx, domainagg.SelectChannelInput{UserID: u.ID, Channel: coaching.ChannelVideo}); !domainagg.IsCode(err, domainagg.CodeValidation) {
			t.Fatalf("expected lock after first pass, got %v", err)
		}
	})
}

func TestPassChannelLesson_TerminalLevelCertifies(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	testutil.InTx(t, gdb, func(dbc dbctx.Context) {
		u := testutil.SeedUser(t, dbc)
		testutil.SeedOrgWithAccess(t, dbc, u.ID, types.LadderBDC)
		agg := newTestProgression(t, dbc)

		seed := &types.ChannelLadderProgress{
			ID:            uuid.New(),
			UserID:        u.ID,
			CurrentLevel:  catalog.ChannelMaxLevel,
			L2Phase:       coaching.PhasePrimary,
			LessonsPassed: datatypes.JSON([]byte("{}")),
		}
		if err := dbc.Tx.WithContext(dbc.Ctx).Create(seed).Error; err != nil {
			t.Fatalf("seed progress: %v", err)
		}

		last := passChannelLevel(t, agg, u.ID, catalog.ChannelMaxLevel, coaching.PhasePrimary)
		if !last.Certified || last.LevelAdvanced {
			t.Fatalf("expected certification: %+v", last)
		}
		if last.BadgeGranted != "bdc.certified" {
			t.Fatalf("expected certification badge, got %q", last.BadgeGranted)
		}
		if last.Snapshot == nil || last.Snapshot.CertifiedAt == nil {
			t.Fatalf("expected CertifiedAt set: %+v", last.Snapshot)
		}

		// No passes after certification.
		lessons := catalog.ChannelLessonIDsFor(catalog.ChannelMaxLevel, coaching.PhasePrimary)
		_, err := agg.PassChannelLesson(context.Background(), domainagg.PassChannelLessonInput{
			UserID: u.ID, Level: catalog.ChannelMaxLevel, LessonID: lessons[0], Now: day0,
		})
		if !domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
			t.Fatalf("expected invariant violation after certification, got %v", err)
		}
	})
}

func TestPassChannelLesson_GatedOnBDCFlag(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	testutil.InTx(t, gdb, func(dbc dbctx.Context) {
		u := testutil.SeedUser(t, dbc)
		// Sales access only; BDC stays closed.
		testutil.SeedOrgWithAccess(t, dbc, u.ID, types.LadderSales)
		agg := newTestProgression(t, dbc)

		lessons := catalog.ChannelLessonIDsFor(1, coaching.PhasePrimary)
		_, err := agg.PassChannelLesson(context.Background(), domainagg.PassChannelLessonInput{
			UserID: u.ID, Level: 1, LessonID: lessons[0], Now: day0,
		})
		if !domainagg.IsCode(err, domainagg.CodeAccessDenied) {
			t.Fatalf("expected access denied, got %v", err)
		}
	})
}
