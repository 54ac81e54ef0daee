package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/driveline-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Identity
		// =========================
		&types.User{},

		// =========================
		// Dealerships + access flags
		// =========================
		&types.Organization{},
		&types.OrgMembership{},
		&types.OrgFeatureFlag{},

		// =========================
		// Coaching state
		// =========================
		&types.SkillRating{},
		&types.XPWallet{},
		&types.XPLedgerEntry{},
		&types.LadderProgress{},
		&types.ChannelLadderProgress{},
		&types.BadgeGrant{},
	)
}

func EnsureCoachingIndexes(db *gorm.DB) error {
	// uuid-ossp is already enabled in NewPostgresService, but safe to re-run
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}

	// Ledger reads are always newest-first per learner.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_xp_ledger_user_created_at
		ON xp_ledger_entry (user_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_xp_ledger_user_created_at: %w", err)
	}

	// Badge listing per learner.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_badge_grant_user_granted_at
		ON badge_grant (user_id, granted_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_badge_grant_user_granted_at: %w", err)
	}

	// Membership lookups by learner drive every access-gate resolution.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_org_membership_user_id
		ON org_membership (user_id)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_org_membership_user_id: %w", err)
	}

	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureCoachingIndexes(s.db); err != nil {
		s.log.Error("Coaching index migration failed", "error", err)
		return err
	}
	return nil
}
