package org

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LadderVariant identifies one of the progression ladders a dealership can
// enable for its salespeople.
type LadderVariant string

const (
	// LadderSales is the ten-level showroom sales ladder.
	LadderSales LadderVariant = "sales"
	// LadderBDC is the five-level channel-branching BDC ladder.
	LadderBDC LadderVariant = "bdc"
)

func (v LadderVariant) Valid() bool {
	return v == LadderSales || v == LadderBDC
}

type Organization struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"not null;column:name" json:"name"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Organization) TableName() string { return "organization" }

type OrgMembership struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrgID  uuid.UUID `gorm:"type:uuid;not null;index:idx_org_membership,unique,priority:1" json:"org_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_org_membership,unique,priority:2" json:"user_id"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (OrgMembership) TableName() string { return "org_membership" }

// OrgFeatureFlag enables or disables one ladder variant for one organization.
// Flags are read inside the same transaction as any mutating ladder operation,
// never from a cache, because a dealership can revoke access mid-session.
type OrgFeatureFlag struct {
	ID      uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrgID   uuid.UUID     `gorm:"type:uuid;not null;index:idx_org_feature_flag,unique,priority:1" json:"org_id"`
	Ladder  LadderVariant `gorm:"type:text;not null;index:idx_org_feature_flag,unique,priority:2;column:ladder" json:"ladder"`
	Enabled bool          `gorm:"not null;default:false;column:enabled" json:"enabled"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (OrgFeatureFlag) TableName() string { return "org_feature_flag" }
