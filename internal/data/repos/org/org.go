package org

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/driveline-backend/internal/domain"
	"github.com/yungbote/driveline-backend/internal/platform/dbctx"
	"github.com/yungbote/driveline-backend/internal/platform/logger"
)

type OrganizationRepo interface {
	Create(dbc dbctx.Context, rows []*types.Organization) ([]*types.Organization, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Organization, error)
}

type organizationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrganizationRepo(db *gorm.DB, baseLog *logger.Logger) OrganizationRepo {
	return &organizationRepo{db: db, log: baseLog.With("repo", "OrganizationRepo")}
}

func (r *organizationRepo) Create(dbc dbctx.Context, rows []*types.Organization) ([]*types.Organization, error) {
	if len(rows) == 0 {
		return []*types.Organization{}, nil
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

func (r *organizationRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Organization, error) {
	if len(ids) == 0 {
		return []*types.Organization{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Organization
	if err := txx.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
