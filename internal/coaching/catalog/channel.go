package catalog

import (
	"fmt"

	"github.com/yungbote/driveline-backend/internal/domain/coaching"
)

const (
	// ChannelMaxLevel is the terminal BDC-ladder level.
	ChannelMaxLevel = 5

	// ChannelBaseXP and ChannelTierIncrement define the per-level reward pool
	// that is split evenly across the level's lessons.
	ChannelBaseXP        = 120
	ChannelTierIncrement = 60

	// SecondaryChannelBonus is the flat pool for the level-2 secondary phase.
	// Secondary-channel mastery pays a fixed bonus, not a level-scaled reward;
	// keep this asymmetry.
	SecondaryChannelBonus = 300

	// BranchLevel is the BDC level that splits into primary/secondary phases.
	BranchLevel = 2
)

// ValidChannelLevel reports whether level is on the BDC ladder.
func ValidChannelLevel(level int) bool {
	return level >= 1 && level <= ChannelMaxLevel
}

// channelLessonCount fixes the deterministic lesson count per (level, phase).
func channelLessonCount(level int, phase coaching.ChannelPhase) int {
	if level == BranchLevel {
		if phase == coaching.PhaseSecondary {
			return 3
		}
		return 5
	}
	return 4
}

// ChannelLessonsFor returns the ordered lesson set for one BDC level and
// phase. Levels other than the branch level have a single phase and ignore the
// phase argument.
func ChannelLessonsFor(level int, phase coaching.ChannelPhase) []LessonTemplate {
	if !ValidChannelLevel(level) {
		return nil
	}
	seg := "core"
	if level == BranchLevel {
		if phase != coaching.PhaseSecondary {
			phase = coaching.PhasePrimary
		}
		seg = string(phase)
	} else {
		phase = coaching.PhasePrimary
	}

	count := channelLessonCount(level, phase)
	out := make([]LessonTemplate, 0, count)
	for j := 0; j < count; j++ {
		skillIdx := (j + level - 1) % len(coaching.AllSkills)
		skill := coaching.AllSkills[skillIdx]
		out = append(out, LessonTemplate{
			ID:         fmt.Sprintf("bdc.l%d.%s.%d", level, seg, skillIdx),
			Level:      level,
			Phase:      phase,
			Skill:      skill,
			Title:      fmt.Sprintf("BDC outreach drill: %s", skillTitle(skill)),
			Complexity: complexityForLevel(level * 2),
		})
	}
	return out
}

// ChannelLessonIDsFor is ChannelLessonsFor reduced to ordered ids.
func ChannelLessonIDsFor(level int, phase coaching.ChannelPhase) []string {
	lessons := ChannelLessonsFor(level, phase)
	ids := make([]string, 0, len(lessons))
	for _, l := range lessons {
		ids = append(ids, l.ID)
	}
	return ids
}

// ChannelXPForLevel is the full reward pool for one level (standard phases).
func ChannelXPForLevel(level int) int {
	return ChannelBaseXP + (level-1)*ChannelTierIncrement
}

// ChannelXPPerLesson is the XP paid for one lesson pass. Standard levels split
// the level pool evenly; the level-2 secondary phase splits the flat bonus
// pool by its own lesson count.
func ChannelXPPerLesson(level int, phase coaching.ChannelPhase) int {
	count := channelLessonCount(level, phase)
	if count == 0 {
		return 0
	}
	if level == BranchLevel && phase == coaching.PhaseSecondary {
		return SecondaryChannelBonus / count
	}
	return ChannelXPForLevel(level) / count
}

// ChannelBadgeID derives the badge for a BDC level, with a distinct terminal
// badge at level-5 certification.
func ChannelBadgeID(level int, certified bool) string {
	if certified && level == ChannelMaxLevel {
		return "bdc.certified"
	}
	return fmt.Sprintf("bdc.level.%d", level)
}
