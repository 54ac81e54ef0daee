package aggregates

import (
	"github.com/google/uuid"

	"github.com/yungbote/driveline-backend/internal/data/repos"
	types "github.com/yungbote/driveline-backend/internal/domain"
	"github.com/yungbote/driveline-backend/internal/platform/dbctx"
	"github.com/yungbote/driveline-backend/internal/platform/logger"
)

// AccessGateResolver decides whether a learner's organizations currently
// enable a ladder variant. A learner in several dealerships gets access when
// any one of them enables the ladder (OR semantics). Resolution always runs
// against the transaction in dbc so a mid-session flag flip can never leave a
// mutation half-applied under stale permission state.
type AccessGateResolver interface {
	HasAccess(dbc dbctx.Context, userID uuid.UUID, ladder types.LadderVariant) (bool, error)
}

type accessGateResolver struct {
	memberships repos.OrgMembershipRepo
	flags       repos.OrgFeatureFlagRepo
	log         *logger.Logger
}

func NewAccessGateResolver(memberships repos.OrgMembershipRepo, flags repos.OrgFeatureFlagRepo, baseLog *logger.Logger) AccessGateResolver {
	return &accessGateResolver{
		memberships: memberships,
		flags:       flags,
		log:         baseLog.With("component", "AccessGateResolver"),
	}
}

func (r *accessGateResolver) HasAccess(dbc dbctx.Context, userID uuid.UUID, ladder types.LadderVariant) (bool, error) {
	if userID == uuid.Nil || !ladder.Valid() {
		return false, nil
	}
	orgIDs, err := r.memberships.ListOrgIDsByUser(dbc, userID)
	if err != nil {
		return false, err
	}
	if len(orgIDs) == 0 {
		return false, nil
	}
	enabled, err := r.flags.ListEnabled(dbc, orgIDs, ladder)
	if err != nil {
		return false, err
	}
	return len(enabled) > 0, nil
}

// requireAccess converts a closed gate into the typed access-denied error.
func requireAccess(r AccessGateResolver, dbc dbctx.Context, userID uuid.UUID, ladder types.LadderVariant) error {
	ok, err := r.HasAccess(dbc, userID, ladder)
	if err != nil {
		return err
	}
	if !ok {
		return AccessDeniedError("ladder not enabled for learner's organizations")
	}
	return nil
}
