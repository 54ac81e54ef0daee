package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/driveline-backend/internal/data/repos"
	types "github.com/yungbote/driveline-backend/internal/domain"
	"github.com/yungbote/driveline-backend/internal/platform/dbctx"
	"github.com/yungbote/driveline-backend/internal/platform/logger"
)

// OrgService manages dealerships, their rosters and their ladder feature
// flags. Flag flips take effect on the next mutating coaching operation; the
// aggregates re-read flags inside their own transactions.
type OrgService interface {
	CreateOrganization(ctx context.Context, name string) (*types.Organization, error)
	AddMember(ctx context.Context, orgID, userID uuid.UUID) (*types.OrgMembership, error)
	SetLadderEnabled(ctx context.Context, orgID uuid.UUID, ladder types.LadderVariant, enabled bool) error
	ListOrganizationsForUser(ctx context.Context, userID uuid.UUID) ([]*types.Organization, error)
}

type orgService struct {
	db         *gorm.DB
	log        *logger.Logger
	orgRepo    repos.OrganizationRepo
	memberRepo repos.OrgMembershipRepo
	flagRepo   repos.OrgFeatureFlagRepo
	userRepo   repos.UserRepo
}

func NewOrgService(db *gorm.DB, log *logger.Logger, orgRepo repos.OrganizationRepo, memberRepo repos.OrgMembershipRepo, flagRepo repos.OrgFeatureFlagRepo, userRepo repos.UserRepo) OrgService {
	return &orgService{
		db:         db,
		log:        log.With("service", "OrgService"),
		orgRepo:    orgRepo,
		memberRepo: memberRepo,
		flagRepo:   flagRepo,
		userRepo:   userRepo,
	}
}

func (os *orgService) CreateOrganization(ctx context.Context, name string) (*types.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("organization name required")
	}

	var out *types.Organization
	if err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		created, err := os.orgRepo.Create(dbc, []*types.Organization{{
			ID:   uuid.New(),
			Name: name,
		}})
		if err != nil {
			return err
		}
		out = created[0]
		return nil
	}); err != nil {
		os.log.Warn("CreateOrganization transaction error", "error", err)
		return nil, err
	}
	return out, nil
}

func (os *orgService) AddMember(ctx context.Context, orgID, userID uuid.UUID) (*types.OrgMembership, error) {
	if orgID == uuid.Nil || userID == uuid.Nil {
		return nil, fmt.Errorf("org_id and user_id required")
	}

	var out *types.OrgMembership
	if err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := os.userRepo.GetByID(dbc, userID); err != nil {
			return fmt.Errorf("user not found")
		}
		orgs, err := os.orgRepo.GetByIDs(dbc, []uuid.UUID{orgID})
		if err != nil {
			return err
		}
		if len(orgs) == 0 {
			return fmt.Errorf("organization not found")
		}
		created, err := os.memberRepo.Create(dbc, []*types.OrgMembership{{
			ID:     uuid.New(),
			OrgID:  orgID,
			UserID: userID,
		}})
		if err != nil {
			return err
		}
		out = created[0]
		return nil
	}); err != nil {
		os.log.Warn("AddMember transaction error", "error", err)
		return nil, err
	}
	return out, nil
}

func (os *orgService) SetLadderEnabled(ctx context.Context, orgID uuid.UUID, ladder types.LadderVariant, enabled bool) error {
	if orgID == uuid.Nil {
		return fmt.Errorf("org_id required")
	}
	if !ladder.Valid() {
		return fmt.Errorf("unknown ladder: %s", ladder)
	}
	return os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		return os.flagRepo.Upsert(dbc, &types.OrgFeatureFlag{
			OrgID:   orgID,
			Ladder:  ladder,
			Enabled: enabled,
		})
	})
}

func (os *orgService) ListOrganizationsForUser(ctx context.Context, userID uuid.UUID) ([]*types.Organization, error) {
	if userID == uuid.Nil {
		return []*types.Organization{}, nil
	}
	dbc := dbctx.Context{Ctx: ctx}
	orgIDs, err := os.memberRepo.ListOrgIDsByUser(dbc, userID)
	if err != nil {
		return nil, err
	}
	return os.orgRepo.GetByIDs(dbc, orgIDs)
}
