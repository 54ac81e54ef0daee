package coaching

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LadderProgress is a learner's position on the ten-level sales ladder.
//
// LessonsPassed is a JSON object keyed by level key ("level_3") holding the
// lesson ids passed at that level. History for completed levels is append-only;
// advancing a level never erases prior level keys.
type LadderProgress struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	CurrentLevel       int            `gorm:"not null;default:1;column:current_level" json:"current_level"`
	LessonsPassed      datatypes.JSON `gorm:"column:lessons_passed" json:"lessons_passed"`
	ProgressPercentage float64        `gorm:"not null;default:0;column:progress_percentage" json:"progress_percentage"`
	Certified          bool           `gorm:"not null;default:false;column:certified" json:"certified"`

	// Daily pass cap bookkeeping. DailyPassDate is a UTC calendar-day key
	// (2006-01-02); the count resets when the key rolls over.
	DailyPassDate  string `gorm:"column:daily_pass_date" json:"daily_pass_date"`
	DailyPassCount int    `gorm:"not null;default:0;column:daily_pass_count" json:"daily_pass_count"`

	AbandonmentCount int `gorm:"not null;default:0;column:abandonment_count" json:"abandonment_count"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LadderProgress) TableName() string { return "ladder_progress" }

// ChannelPhase is the level-2 sub-phase on the BDC ladder.
type ChannelPhase string

const (
	PhasePrimary   ChannelPhase = "primary"
	PhaseSecondary ChannelPhase = "secondary"
)

// Channel is a BDC contact channel a learner commits to for a level-2 phase.
type Channel string

const (
	ChannelPhone Channel = "phone"
	ChannelEmail Channel = "email"
	ChannelText  Channel = "text"
	ChannelVideo Channel = "video"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelPhone, ChannelEmail, ChannelText, ChannelVideo:
		return true
	}
	return false
}

// ChannelLadderProgress is a learner's position on the five-level BDC ladder.
//
// Level 2 branches into a primary and a secondary phase, each gated by a
// distinct channel selection. A phase's channel is locked once any lesson in
// that phase has been passed. Certification is the presence of CertifiedAt, not
// a boolean. LessonsPassed is keyed by "level:phase" ("2:primary").
type ChannelLadderProgress struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	CurrentLevel         int            `gorm:"not null;default:1;column:current_level" json:"current_level"`
	LevelCompleted       int            `gorm:"not null;default:0;column:level_completed" json:"level_completed"`
	CurrentLevelProgress float64        `gorm:"not null;default:0;column:current_level_progress" json:"current_level_progress"`
	LessonsPassed        datatypes.JSON `gorm:"column:lessons_passed" json:"lessons_passed"`

	PrimaryChannel   *Channel     `gorm:"type:text;column:primary_channel" json:"primary_channel,omitempty"`
	SecondaryChannel *Channel     `gorm:"type:text;column:secondary_channel" json:"secondary_channel,omitempty"`
	L2Phase          ChannelPhase `gorm:"type:text;not null;default:'primary';column:l2_phase" json:"l2_phase"`

	CertifiedAt *time.Time `gorm:"column:certified_at" json:"certified_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ChannelLadderProgress) TableName() string { return "channel_ladder_progress" }
