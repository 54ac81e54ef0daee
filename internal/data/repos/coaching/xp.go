package coaching

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/driveline-backend/internal/domain"
	"github.com/yungbote/driveline-backend/internal/platform/dbctx"
	"github.com/yungbote/driveline-backend/internal/platform/logger"
)

type XPWalletRepo interface {
	GetByUser(dbc dbctx.Context, userID uuid.UUID) (*types.XPWallet, error)
	// LockByUser reads the wallet for update inside dbc.Tx, creating it lazily
	// at zero on first activity.
	LockByUser(dbc dbctx.Context, userID uuid.UUID) (*types.XPWallet, error)
	Update(dbc dbctx.Context, row *types.XPWallet) error
}

type XPLedgerRepo interface {
	Append(dbc dbctx.Context, rows []*types.XPLedgerEntry) ([]*types.XPLedgerEntry, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.XPLedgerEntry, error)
}

type xpWalletRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewXPWalletRepo(db *gorm.DB, baseLog *logger.Logger) XPWalletRepo {
	return &xpWalletRepo{db: db, log: baseLog.With("repo", "XPWalletRepo")}
}

func (r *xpWalletRepo) GetByUser(dbc dbctx.Context, userID uuid.UUID) (*types.XPWallet, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.XPWallet
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

func (r *xpWalletRepo) LockByUser(dbc dbctx.Context, userID uuid.UUID) (*types.XPWallet, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByUser requires dbc.Tx")
	}
	var out types.XPWallet
	err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := time.Now().UTC()
		fresh := &types.XPWallet{
			ID:        uuid.New(),
			UserID:    userID,
			Total:     0,
			CreatedAt: now,
			UpdatedAt: now,
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

func (r *xpWalletRepo) Update(dbc dbctx.Context, row *types.XPWallet) error {
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

type xpLedgerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewXPLedgerRepo(db *gorm.DB, baseLog *logger.Logger) XPLedgerRepo {
	return &xpLedgerRepo{db: db, log: baseLog.With("repo", "XPLedgerRepo")}
}

func (r *xpLedgerRepo) Append(dbc dbctx.Context, rows []*types.XPLedgerEntry) ([]*types.XPLedgerEntry, error) {
	if len(rows) == 0 {
		return []*types.XPLedgerEntry{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *xpLedgerRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.XPLedgerEntry, error) {
	out := []*types.XPLedgerEntry{}
	if userID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 100
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
