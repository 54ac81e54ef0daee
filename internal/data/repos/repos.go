package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/driveline-backend/internal/data/repos/coaching"
	"github.com/yungbote/driveline-backend/internal/data/repos/org"
	"github.com/yungbote/driveline-backend/internal/data/repos/user"
	"github.com/yungbote/driveline-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type OrganizationRepo = org.OrganizationRepo
type OrgMembershipRepo = org.OrgMembershipRepo
type OrgFeatureFlagRepo = org.OrgFeatureFlagRepo

type SkillRatingRepo = coaching.SkillRatingRepo
type XPWalletRepo = coaching.XPWalletRepo
type XPLedgerRepo = coaching.XPLedgerRepo
type LadderProgressRepo = coaching.LadderProgressRepo
type ChannelProgressRepo = coaching.ChannelProgressRepo
type BadgeGrantRepo = coaching.BadgeGrantRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewOrganizationRepo(db *gorm.DB, baseLog *logger.Logger) OrganizationRepo {
	return org.NewOrganizationRepo(db, baseLog)
}
func NewOrgMembershipRepo(db *gorm.DB, baseLog *logger.Logger) OrgMembershipRepo {
	return org.NewOrgMembershipRepo(db, baseLog)
}
func NewOrgFeatureFlagRepo(db *gorm.DB, baseLog *logger.Logger) OrgFeatureFlagRepo {
	return org.NewOrgFeatureFlagRepo(db, baseLog)
}

func NewSkillRatingRepo(db *gorm.DB, baseLog *logger.Logger) SkillRatingRepo {
	return coaching.NewSkillRatingRepo(db, baseLog)
}
func NewXPWalletRepo(db *gorm.DB, baseLog *logger.Logger) XPWalletRepo {
	return coaching.NewXPWalletRepo(db, baseLog)
}
func NewXPLedgerRepo(db *gorm.DB, baseLog *logger.Logger) XPLedgerRepo {
	return coaching.NewXPLedgerRepo(db, baseLog)
}
func NewLadderProgressRepo(db *gorm.DB, baseLog *logger.Logger) LadderProgressRepo {
	return coaching.NewLadderProgressRepo(db, baseLog)
}
func NewChannelProgressRepo(db *gorm.DB, baseLog *logger.Logger) ChannelProgressRepo {
	return coaching.NewChannelProgressRepo(db, baseLog)
}
func NewBadgeGrantRepo(db *gorm.DB, baseLog *logger.Logger) BadgeGrantRepo {
	return coaching.NewBadgeGrantRepo(db, baseLog)
}
