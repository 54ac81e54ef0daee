package coaching

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/driveline-backend/internal/domain"
	"github.com/yungbote/driveline-backend/internal/platform/dbctx"
	"github.com/yungbote/driveline-backend/internal/platform/logger"
)

type ChannelProgressRepo interface {
	GetByUser(dbc dbctx.Context, userID uuid.UUID) (*types.ChannelLadderProgress, error)
	// LockByUser reads the BDC progress row for update inside dbc.Tx, creating
	// it lazily at level 1 / primary phase on first access-gated activity.
	LockByUser(dbc dbctx.Context, userID uuid.UUID) (*types.ChannelLadderProgress, error)
	Update(dbc dbctx.Context, row *types.ChannelLadderProgress) error
}

type channelProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChannelProgressRepo(db *gorm.DB, baseLog *logger.Logger) ChannelProgressRepo {
	return &channelProgressRepo{db: db, log: baseLog.With("repo", "ChannelProgressRepo")}
}

func (r *channelProgressRepo) GetByUser(dbc dbctx.Context, userID uuid.UUID) (*types.ChannelLadderProgress, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.ChannelLadderProgress
	err := txx.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *channelProgressRepo) LockByUser(dbc dbctx.Context, userID uuid.UUID) (*types.ChannelLadderProgress, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByUser requires dbc.Tx")
	}
	var out types.ChannelLadderProgress
	err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := time.Now().UTC()
		fresh := &types.ChannelLadderProgress{
			ID:            uuid.New(),
			UserID:        userID,
			CurrentLevel:  1,
			L2Phase:       types.PhasePrimary,
			LessonsPassed: datatypes.JSON([]byte("{}")),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := dbc.Tx.WithContext(dbc.Ctx).Create(fresh).Error; err != nil {
			return nil, err
		}
		return fresh, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *channelProgressRepo) Update(dbc dbctx.Context, row *types.ChannelLadderProgress) error {
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	row.UpdatedAt = time.Now().UTC()
	return txx.WithContext(dbc.Ctx).Save(row).Error
}
