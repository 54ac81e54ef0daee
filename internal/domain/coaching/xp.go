package coaching

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Severity classifies an XP delta. Normal play can only add XP; behavior
// violations can only subtract, and are allowed to drive the total negative so
// disciplinary history stays visible.
type Severity string

const (
	SeverityNormal            Severity = "normal"
	SeverityBehaviorViolation Severity = "behavior_violation"
)

func (s Severity) Valid() bool {
	return s == SeverityNormal || s == SeverityBehaviorViolation
}

// XPWallet holds a learner's running XP total.
type XPWallet struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Total int `gorm:"not null;default:0;column:total" json:"total"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (XPWallet) TableName() string { return "xp_wallet" }

// XPLedgerEntry is the append-only record of every applied XP delta.
type XPLedgerEntry struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Delta    int      `gorm:"not null;column:delta" json:"delta"`
	Severity Severity `gorm:"type:text;not null;column:severity" json:"severity"`
	Reason   string   `gorm:"column:reason" json:"reason"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (XPLedgerEntry) TableName() string { return "xp_ledger_entry" }
