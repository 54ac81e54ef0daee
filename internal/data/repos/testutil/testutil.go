// Package testutil opens a Postgres-backed test database for repo and
// aggregate integration tests. Tests skip cleanly when TEST_POSTGRES_DSN is
// unset so the pure-core suites stay runnable anywhere.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/driveline-backend/internal/data/db"
	types "github.com/yungbote/driveline-backend/internal/domain"
	"github.com/yungbote/driveline-backend/internal/platform/dbctx"
	"github.com/yungbote/driveline-backend/internal/platform/logger"
)

var (
	openOnce sync.Once
	openedDB *gorm.DB
	openErr  error
)

// OpenTestDB connects to TEST_POSTGRES_DSN and migrates the full schema once
// per test binary. Tests are skipped when the variable is unset.
func OpenTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		tb.Skip("TEST_POSTGRES_DSN not set; skipping database-backed test")
	}
	openOnce.Do(func() {
		gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if err != nil {
			openErr = fmt.Errorf("open test database: %w", err)
			return
		}
		if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			openErr = fmt.Errorf("enable uuid-ossp: %w", err)
			return
		}
		if err := db.AutoMigrateAll(gdb); err != nil {
			openErr = fmt.Errorf("migrate test database: %w", err)
			return
		}
		if err := db.EnsureCoachingIndexes(gdb); err != nil {
			openErr = fmt.Errorf("ensure indexes: %w", err)
			return
		}
		openedDB = gdb
	})
	if openErr != nil {
		tb.Fatalf("test database setup failed: %v", openErr)
	}
	return openedDB
}

// NewTestLogger builds a quiet logger for tests.
func NewTestLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("production")
	if err != nil {
		tb.Fatalf("init test logger: %v", err)
	}
	return log
}

// InTx runs fn inside a transaction that always rolls back, keeping tests
// isolated without truncation.
func InTx(tb testing.TB, gdb *gorm.DB, fn func(dbc dbctx.Context)) {
	tb.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx := gdb.WithContext(ctx).Begin()
	if tx.Error != nil {
		tb.Fatalf("begin test transaction: %v", tx.Error)
	}
	defer tx.Rollback()

	fn(dbctx.Context{Ctx: ctx, Tx: tx})
}

// SeedUser inserts a user with a unique email inside dbc.
func SeedUser(tb testing.TB, dbc dbctx.Context) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     fmt.Sprintf("learner-%s@example.test", uuid.NewString()[:8]),
		Password:  "not-a-real-hash",
		FirstName: "Test",
		LastName:  "Learner",
	}
	if err := dbc.Tx.WithContext(dbc.Ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedOrgWithAccess creates a dealership, enrolls the user, and enables the
// given ladder for it.
func SeedOrgWithAccess(tb testing.TB, dbc dbctx.Context, userID uuid.UUID, ladder types.LadderVariant) *types.Organization {
	tb.Helper()
	org := &types.Organization{
		ID:   uuid.New(),
		Name: fmt.Sprintf("Dealership %s", uuid.NewString()[:8]),
	}
	if err := dbc.Tx.WithContext(dbc.Ctx).Create(org).Error; err != nil {
		tb.Fatalf("seed org: %v", err)
	}
	member := &types.OrgMembership{ID: uuid.New(), OrgID: org.ID, UserID: userID}
	if err := dbc.Tx.WithContext(dbc.Ctx).Create(member).Error; err != nil {
		tb.Fatalf("seed membership: %v", err)
	}
	flag := &types.OrgFeatureFlag{ID: uuid.New(), OrgID: org.ID, Ladder: ladder, Enabled: true}
	if err := dbc.Tx.WithContext(dbc.Ctx).Create(flag).Error; err != nil {
		tb.Fatalf("seed feature flag: %v", err)
	}
	return org
}

// DisableLadder flips the org's flag for the ladder off.
func DisableLadder(tb testing.TB, dbc dbctx.Context, orgID uuid.UUID, ladder types.LadderVariant) {
	tb.Helper()
	err := dbc.Tx.WithContext(dbc.Ctx).
		Model(&types.OrgFeatureFlag{}).
		Where("org_id = ? AND ladder = ?", orgID, ladder).
		Update("enabled", false).Error
	if err != nil {
		tb.Fatalf("disable ladder flag: %v", err)
	}
}
