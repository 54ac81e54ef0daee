package coaching

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/driveline-backend/internal/domain"
	"github.com/yungbote/driveline-backend/internal/platform/dbctx"
	"github.com/yungbote/driveline-backend/internal/platform/logger"
)

type BadgeGrantRepo interface {
	Exists(dbc dbctx.Context, userID uuid.UUID, badgeID string) (bool, error)
	Create(dbc dbctx.Context, row *types.BadgeGrant) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.BadgeGrant, error)
}

type badgeGrantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBadgeGrantRepo(db *gorm.DB, baseLog *logger.Logger) BadgeGrantRepo {
	return &badgeGrantRepo{db: db, log: baseLog.With("repo", "BadgeGrantRepo")}
}

func (r *badgeGrantRepo) Exists(dbc dbctx.Context, userID uuid.UUID, badgeID string) (bool, error) {
	badgeID = strings.TrimSpace(badgeID)
	if userID == uuid.Nil || badgeID == "" {
		return false, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var count int64
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.BadgeGrant{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *badgeGrantRepo) Create(dbc dbctx.Context, row *types.BadgeGrant) error {
	if row == nil || row.UserID == uuid.Nil || strings.TrimSpace(row.BadgeID) == "" {
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
	if row.GrantedAt.IsZero() {
		row.GrantedAt = now
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	return txx.WithContext(dbc.Ctx).Create(row).Error
}

func (r *badgeGrantRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.BadgeGrant, error) {
	out := []*types.BadgeGrant{}
	if userID == uuid.Nil {
		return out, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("granted_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
