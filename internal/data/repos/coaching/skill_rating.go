package coaching

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/driveline-backend/internal/domain"
	"github.com/yungbote/driveline-backend/internal/platform/dbctx"
	"github.com/yungbote/driveline-backend/internal/platform/logger"
)

type SkillRatingRepo interface {
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.SkillRating, error)
	// LockByUserAndSkills reads the rating rows for update inside dbc.Tx.
	// Missing skills are simply absent from the result; the caller creates
	// them lazily at the baseline.
	LockByUserAndSkills(dbc dbctx.Context, userID uuid.UUID, skills []types.Skill) ([]*types.SkillRating, error)
	Upsert(dbc dbctx.Context, row *types.SkillRating) error
}

type skillRatingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillRatingRepo(db *gorm.DB, baseLog *logger.Logger) SkillRatingRepo {
	return &skillRatingRepo{db: db, log: baseLog.With("repo", "SkillRatingRepo")}
}

func (r *skillRatingRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.SkillRating, error) {
	out := []*types.SkillRating{}
	if userID == uuid.Nil {
		return out, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *skillRatingRepo) LockByUserAndSkills(dbc dbctx.Context, userID uuid.UUID, skills []types.Skill) ([]*types.SkillRating, error) {
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByUserAndSkills requires dbc.Tx")
	}
	out := []*types.SkillRating{}
	if userID == uuid.Nil || len(skills) == 0 {
		return out, nil
	}
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND skill IN ?", userID, skills).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *skillRatingRepo) Upsert(dbc dbctx.Context, row *types.SkillRating) error {
	if row == nil || row.UserID == uuid.Nil || !row.Skill.Valid() {
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
			Columns: []clause.Column{{Name: "user_id"}, {Name: "skill"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"score",
				"last_updated_at",
				"updated_at",
			}),
		}).
		Create(row).Error
}
