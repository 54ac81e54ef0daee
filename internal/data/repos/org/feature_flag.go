package org

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/driveline-backend/internal/domain"
	"github.com/yungbote/driveline-backend/internal/platform/dbctx"
	"github.com/yungbote/driveline-backend/internal/platform/logger"
)

type OrgFeatureFlagRepo interface {
	Upsert(dbc dbctx.Context, row *types.OrgFeatureFlag) error
	// ListEnabled returns the flags for the given orgs and ladder that are
	// currently enabled. Access decisions must call this inside the same
	// transaction as the mutation they gate.
	ListEnabled(dbc dbctx.Context, orgIDs []uuid.UUID, ladder types.LadderVariant) ([]*types.OrgFeatureFlag, error)
}

type orgFeatureFlagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrgFeatureFlagRepo(db *gorm.DB, baseLog *logger.Logger) OrgFeatureFlagRepo {
	return &orgFeatureFlagRepo{db: db, log: baseLog.With("repo", "OrgFeatureFlagRepo")}
}

func (r *orgFeatureFlagRepo) Upsert(dbc dbctx.Context, row *types.OrgFeatureFlag) error {
	if row == nil || row.OrgID == uuid.Nil || !row.Ladder.Valid() {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	now := time.Now().UTC()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	return txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "org_id"}, {Name: "ladder"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enabled",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *orgFeatureFlagRepo) ListEnabled(dbc dbctx.Context, orgIDs []uuid.UUID, ladder types.LadderVariant) ([]*types.OrgFeatureFlag, error) {
	out := []*types.OrgFeatureFlag{}
	if len(orgIDs) == 0 || !ladder.Valid() {
		return out, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).
		Where("org_id IN ? AND ladder = ? AND enabled = ?", orgIDs, ladder, true).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
