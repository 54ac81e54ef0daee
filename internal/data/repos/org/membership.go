package org

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/driveline-backend/internal/domain"
	"github.com/yungbote/driveline-backend/internal/platform/dbctx"
	"github.com/yungbote/driveline-backend/internal/platform/logger"
)

type OrgMembershipRepo interface {
	Create(dbc dbctx.Context, rows []*types.OrgMembership) ([]*types.OrgMembership, error)
	ListOrgIDsByUser(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type orgMembershipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrgMembershipRepo(db *gorm.DB, baseLog *logger.Logger) OrgMembershipRepo {
	return &orgMembershipRepo{db: db, log: baseLog.With("repo", "OrgMembershipRepo")}
}

func (r *orgMembershipRepo) Create(dbc dbctx.Context, rows []*types.OrgMembership) ([]*types.OrgMembership, error) {
	if len(rows) == 0 {
		return []*types.OrgMembership{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *orgMembershipRepo) ListOrgIDsByUser(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	out := []uuid.UUID{}
	if userID == uuid.Nil {
		return out, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.OrgMembership{}).
		Where("user_id = ?", userID).
		Pluck("org_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
