// Package catalog holds the pure ladder definition catalogs: which lessons
// exist at each level, what each level pays in XP, and which badge a level
// completion earns. Nothing here touches storage; lesson templates are derived
// deterministically, never persisted.
package catalog

import (
	"fmt"

	"github.com/yungbote/driveline-backend/internal/domain/coaching"
)

// Stage is one of the seven fixed deal stages every sales-ladder level walks
// through, in showroom order.
type Stage string

const (
	StageArrival    Stage = "arrival"
	StageDiscovery  Stage = "discovery"
	StageAlignment  Stage = "alignment"
	StageExperience Stage = "experience"
	StageCommitment Stage = "commitment"
	StageNumbers    Stage = "numbers"
	StageDelivery   Stage = "delivery"
)

// Stages is the fixed stage order for every sales-ladder level.
var Stages = []Stage{
	StageArrival,
	StageDiscovery,
	StageAlignment,
	StageExperience,
	StageCommitment,
	StageNumbers,
	StageDelivery,
}

// RoleContext flavors scenario text for a learner's desk assignment. It never
// changes lesson identity or count.
type RoleContext string

const (
	RoleShowroom RoleContext = "showroom"
	RoleInternet RoleContext = "internet"
)

// LessonTemplate is a derived lesson definition. The ID is deterministic from
// (level, stage or phase, skill index) so progress records stay stable across
// catalog rebuilds.
type LessonTemplate struct {
	ID         string
	Level      int
	Stage      Stage
	Phase      coaching.ChannelPhase
	Skill      coaching.Skill
	Title      string
	Complexity string
	Role       RoleContext
}

const (
	// MaxLevel is the terminal sales-ladder level; completing it certifies.
	MaxLevel = 10

	// BaseXP and TierIncrement define the strictly increasing per-level
	// reward: BaseXP + (level-1)*TierIncrement. The level-10 reward stays
	// inside the per-award sanitizer cap.
	BaseXP        = 30
	TierIncrement = 7

	// DailyPassCap is the default number of lesson passes allowed per UTC day.
	DailyPassCap = 5
)

// ValidLevel reports whether level is on the sales ladder.
func ValidLevel(level int) bool {
	return level >= 1 && level <= MaxLevel
}

// XPForLevel is the XP awarded for completing all lessons in a level.
func XPForLevel(level int) int {
	return BaseXP + (level-1)*TierIncrement
}

// BadgeID derives the badge for a level, with a distinct terminal badge at
// level-10 certification.
func BadgeID(level int, certified bool) string {
	if certified && level == MaxLevel {
		return "sales.certified"
	}
	return fmt.Sprintf("sales.level.%d", level)
}

// LessonsForLevel returns the ordered lesson set for one sales-ladder level.
// Every stage contributes one lesson; discovery, commitment and numbers each
// contribute a second from level 4 up.
func LessonsForLevel(level int, role RoleContext) []LessonTemplate {
	if !ValidLevel(level) {
		return nil
	}
	if role == "" {
		role = RoleShowroom
	}
	complexity := complexityForLevel(level)

	out := make([]LessonTemplate, 0, len(Stages)+3)
	n := 0
	for _, stage := range Stages {
		count := 1
		if level >= 4 && stageDoubled(stage) {
			count = 2
		}
		for j := 0; j < count; j++ {
			skillIdx := (n + level - 1) % len(coaching.AllSkills)
			skill := coaching.AllSkills[skillIdx]
			out = append(out, LessonTemplate{
				ID:         fmt.Sprintf("sales.l%d.%s.%d", level, stage, skillIdx),
				Level:      level,
				Stage:      stage,
				Skill:      skill,
				Title:      fmt.Sprintf("%s drill: %s", stageTitle(stage), skillTitle(skill)),
				Complexity: complexity,
				Role:       role,
			})
			n++
		}
	}
	return out
}

// LessonIDsForLevel is LessonsForLevel reduced to ordered ids, the form the
// progression state machine consumes.
func LessonIDsForLevel(level int, role RoleContext) []string {
	lessons := LessonsForLevel(level, role)
	ids := make([]string, 0, len(lessons))
	for _, l := range lessons {
		ids = append(ids, l.ID)
	}
	return ids
}

func stageDoubled(stage Stage) bool {
	switch stage {
	case StageDiscovery, StageCommitment, StageNumbers:
		return true
	}
	return false
}

func complexityForLevel(level int) string {
	switch {
	case level <= 2:
		return "foundational"
	case level <= 4:
		return "intermediate"
	case level <= 6:
		return "advanced"
	case level <= 8:
		return "expert"
	default:
		return "master"
	}
}

func stageTitle(stage Stage) string {
	switch stage {
	case StageArrival:
		return "Meet and greet"
	case StageDiscovery:
		return "Needs discovery"
	case StageAlignment:
		return "Vehicle alignment"
	case StageExperience:
		return "Demo drive"
	case StageCommitment:
		return "Trial close"
	case StageNumbers:
		return "Working the numbers"
	case StageDelivery:
		return "Delivery and handoff"
	}
	return string(stage)
}

func skillTitle(skill coaching.Skill) string {
	switch skill {
	case coaching.SkillEmpathy:
		return "empathy"
	case coaching.SkillListening:
		return "active listening"
	case coaching.SkillTrust:
		return "building trust"
	case coaching.SkillFollowUp:
		return "follow-up"
	case coaching.SkillClosing:
		return "closing"
	case coaching.SkillRelationship:
		return "long-term relationship"
	}
	return string(skill)
}
