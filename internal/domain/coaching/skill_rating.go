package coaching

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Skill enumerates the six coached sales skills.
type Skill string

const (
	SkillEmpathy      Skill = "empathy"
	SkillListening    Skill = "listening"
	SkillTrust        Skill = "trust"
	SkillFollowUp     Skill = "follow_up"
	SkillClosing      Skill = "closing"
	SkillRelationship Skill = "relationship"
)

// AllSkills is the fixed rating dimensions, in display order.
var AllSkills = []Skill{
	SkillEmpathy,
	SkillListening,
	SkillTrust,
	SkillFollowUp,
	SkillClosing,
	SkillRelationship,
}

func (s Skill) Valid() bool {
	for _, k := range AllSkills {
		if s == k {
			return true
		}
	}
	return false
}

// SkillRating is one learner's rolling proficiency score for one skill.
// Score is kept in [0,100]; LastUpdatedAt anchors the time decay.
type SkillRating struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_skill_rating,unique,priority:1" json:"user_id"`
	Skill  Skill     `gorm:"type:text;not null;index:idx_skill_rating,unique,priority:2;column:skill" json:"skill"`

	Score         float64   `gorm:"not null;default:0;column:score" json:"score"`
	LastUpdatedAt time.Time `gorm:"not null;column:last_updated_at" json:"last_updated_at"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SkillRating) TableName() string { return "skill_rating" }
