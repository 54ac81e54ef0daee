package coaching

import (
	"time"

	"github.com/google/uuid"
)

// BadgeGrant records an at-most-once badge award. The unique (user, badge)
// index backs the "already granted" re-check inside progression transactions.
type BadgeGrant struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index:idx_badge_grant,unique,priority:1" json:"user_id"`
	BadgeID string    `gorm:"not null;index:idx_badge_grant,unique,priority:2;column:badge_id" json:"badge_id"`

	GrantedAt time.Time `gorm:"not null;column:granted_at" json:"granted_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (BadgeGrant) TableName() string { return "badge_grant" }
