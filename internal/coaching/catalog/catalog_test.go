package catalog

import (
	"testing"

	"github.com/yungbote/driveline-backend/internal/coaching/xp"
	"github.com/yungbote/driveline-backend/internal/domain/coaching"
)

func TestLessonsForLevel_CountsAndDoubling(t *testing.T) {
	for level := 1; level <= 3; level++ {
		if got := len(LessonsForLevel(level, RoleShowroom)); got != len(Stages) {
			t.Fatalf("level %d: expected %d lessons, got %d", level, len(Stages), got)
		}
	}
	for level := 4; level <= MaxLevel; level++ {
		if got := len(LessonsForLevel(level, RoleShowroom)); got != len(Stages)+3 {
			t.Fatalf("level %d: expected %d lessons, got %d", level, len(Stages)+3, got)
		}
	}
}

func TestLessonsForLevel_InvalidLevel(t *testing.T) {
	if got := LessonsForLevel(0, RoleShowroom); got != nil {
		t.Fatalf("expected nil for level 0, got %v", got)
	}
	if got := LessonsForLevel(MaxLevel+1, RoleShowroom); got != nil {
		t.Fatalf("expected nil past max level, got %v", got)
	}
}

func TestLessonIDsForLevel_UniqueAndStable(t *testing.T) {
	for level := 1; level <= MaxLevel; level++ {
		ids := LessonIDsForLevel(level, RoleShowroom)
		seen := map[string]bool{}
		for _, id := range ids {
			if seen[id] {
				t.Fatalf("level %d: duplicate lesson id %q", level, id)
			}
			seen[id] = true
		}
		again := LessonIDsForLevel(level, RoleShowroom)
		if len(again) != len(ids) {
			t.Fatalf("level %d: catalog rebuild changed lesson count", level)
		}
		for i := range ids {
			if ids[i] != again[i] {
				t.Fatalf("level %d: lesson ids not deterministic: %q vs %q", level, ids[i], again[i])
			}
		}
	}
}

func TestLessonsForLevel_RoleDoesNotChangeIdentity(t *testing.T) {
	showroom := LessonIDsForLevel(5, RoleShowroom)
	internet := LessonIDsForLevel(5, RoleInternet)
	if len(showroom) != len(internet) {
		t.Fatalf("role changed lesson count: %d vs %d", len(showroom), len(internet))
	}
	for i := range showroom {
		if showroom[i] != internet[i] {
			t.Fatalf("role changed lesson id: %q vs %q", showroom[i], internet[i])
		}
	}
}

func TestXPForLevel_StrictlyIncreasingWithinCap(t *testing.T) {
	prev := 0
	for level := 1; level <= MaxLevel; level++ {
		reward := XPForLevel(level)
		if reward <= prev {
			t.Fatalf("level %d reward %d not strictly increasing over %d", level, reward, prev)
		}
		if sanitized := xp.Sanitize(float64(reward), coaching.SeverityNormal); sanitized != reward {
			t.Fatalf("level %d reward %d would be clipped to %d", level, reward, sanitized)
		}
		prev = reward
	}
}

func TestBadgeID_TerminalLevelDistinct(t *testing.T) {
	if got := BadgeID(3, false); got != "sales.level.3" {
		t.Fatalf("unexpected badge id %q", got)
	}
	if got := BadgeID(MaxLevel, true); got != "sales.certified" {
		t.Fatalf("unexpected certification badge %q", got)
	}
}

func TestChannelLessonsFor_BranchPhaseCounts(t *testing.T) {
	if got := len(ChannelLessonsFor(BranchLevel, coaching.PhasePrimary)); got != 5 {
		t.Fatalf("expected 5 primary lessons, got %d", got)
	}
	if got := len(ChannelLessonsFor(BranchLevel, coaching.PhaseSecondary)); got != 3 {
		t.Fatalf("expected 3 secondary lessons, got %d", got)
	}
	for _, level := range []int{1, 3, 4, 5} {
		if got := len(ChannelLessonsFor(level, coaching.PhasePrimary)); got != 4 {
			t.Fatalf("level %d: expected 4 lessons, got %d", level, got)
		}
	}
}

func TestChannelLessonsFor_PhasesHaveDistinctIDs(t *testing.T) {
	primary := ChannelLessonIDsFor(BranchLevel, coaching.PhasePrimary)
	secondary := ChannelLessonIDsFor(BranchLevel, coaching.PhaseSecondary)
	seen := map[string]bool{}
	for _, id := range primary {
		seen[id] = true
	}
	for _, id := range secondary {
		if seen[id] {
			t.Fatalf("lesson id %q shared across phases", id)
		}
	}
}

func TestChannelXPPerLesson_WithinSanitizerCap(t *testing.T) {
	for level := 1; level <= ChannelMaxLevel; level++ {
		for _, phase := range []coaching.ChannelPhase{coaching.PhasePrimary, coaching.PhaseSecondary} {
			per := ChannelXPPerLesson(level, phase)
			if per <= 0 {
				t.Fatalf("level %d phase %s: non-positive per-lesson XP %d", level, phase, per)
			}
			if sanitized := xp.Sanitize(float64(per), coaching.SeverityNormal); sanitized != per {
				t.Fatalf("level %d phase %s: per-lesson XP %d would be clipped to %d", level, phase, per, sanitized)
			}
		}
	}
}

func TestChannelXPPerLesson_SecondaryBonusSplit(t *testing.T) {
	want := SecondaryChannelBonus / 3
	if got := ChannelXPPerLesson(BranchLevel, coaching.PhaseSecondary); got != want {
		t.Fatalf("expected secondary per-lesson XP %d, got %d", want, got)
	}
}

func TestChannelBadgeID_TerminalLevelDistinct(t *testing.T) {
	if got := ChannelBadgeID(2, false); got != "bdc.level.2" {
		t.Fatalf("unexpected badge id %q", got)
	}
	if got := ChannelBadgeID(ChannelMaxLevel, true); got != "bdc.certified" {
		t.Fatalf("unexpected certification badge %q", got)
	}
}
