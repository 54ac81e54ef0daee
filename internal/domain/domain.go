// Package domain re-exports the persisted model types from their
// sub-packages so repos and services can refer to a single types namespace.
package domain

import (
	"github.com/yungbote/driveline-backend/internal/domain/coaching"
	"github.com/yungbote/driveline-backend/internal/domain/org"
	"github.com/yungbote/driveline-backend/internal/domain/user"
)

type (
	User = user.User

	Organization   = org.Organization
	OrgMembership  = org.OrgMembership
	OrgFeatureFlag = org.OrgFeatureFlag
	LadderVariant  = org.LadderVariant

	Skill                 = coaching.Skill
	SkillRating           = coaching.SkillRating
	Severity              = coaching.Severity
	XPWallet              = coaching.XPWallet
	XPLedgerEntry         = coaching.XPLedgerEntry
	LadderProgress        = coaching.LadderProgress
	ChannelLadderProgress = coaching.ChannelLadderProgress
	ChannelPhase          = coaching.ChannelPhase
	Channel               = coaching.Channel
	BadgeGrant            = coaching.BadgeGrant
)

const (
	LadderSales = org.LadderSales
	LadderBDC   = org.LadderBDC

	SkillEmpathy      = coaching.SkillEmpathy
	SkillListening    = coaching.SkillListening
	SkillTrust        = coaching.SkillTrust
	SkillFollowUp     = coaching.SkillFollowUp
	SkillClosing      = coaching.SkillClosing
	SkillRelationship = coaching.SkillRelationship

	SeverityNormal            = coaching.SeverityNormal
	SeverityBehaviorViolation = coaching.SeverityBehaviorViolation

	PhasePrimary   = coaching.PhasePrimary
	PhaseSecondary = coaching.PhaseSecondary

	ChannelPhone = coaching.ChannelPhone
	ChannelEmail = coaching.ChannelEmail
	ChannelText  = coaching.ChannelText
	ChannelVideo = coaching.ChannelVideo
)

// AllSkills mirrors coaching.AllSkills for callers using the root namespace.
var AllSkills = coaching.AllSkills
