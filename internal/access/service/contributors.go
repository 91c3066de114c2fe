package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/assetdocs/accessd/internal/access/domain"
	"github.com/assetdocs/accessd/internal/access/store"
	"github.com/assetdocs/accessd/pkg/slogx"
)

var (
	ErrNotAuthorized       = errors.New("not authorized to perform this action")
	ErrContributorNotFound = errors.New("contributor not found")
)

// ContributorService answers "who may touch this account, and with what
// capabilities" and manages the grant lifecycle after issuance.
type ContributorService struct {
	Store store.Store
}

// ListForOwner returns an owner's contributors, newest invitation first.
func (s *ContributorService) ListForOwner(ctx context.Context, ownerID string) ([]domain.Contributor, error) {
	return s.Store.Contributors().ListForOwner(ctx, ownerID)
}

// ResolveGrant returns the accepted grant naming userID as the contributor.
// Any lookup failure resolves to "no grant": ambiguity never grants access.
func (s *ContributorService) ResolveGrant(ctx context.Context, userID string) (domain.Contributor, bool) {
	grant, err := s.Store.Contributors().FindActiveGrant(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Error("failed to resolve contributor grant, failing closed",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}
		return domain.Contributor{}, false
	}
	if grant.Status != domain.ContributorAccepted {
		return domain.Contributor{}, false
	}
	return grant, true
}

// CapabilitiesFor resolves what callerID may do on accountOwnerID's account.
// The owner gets everything; an accepted contributor gets their role's set;
// everyone else gets the all-false set.
func (s *ContributorService) CapabilitiesFor(ctx context.Context, callerID, accountOwnerID string) domain.Capabilities {
	if callerID == accountOwnerID {
		return domain.OwnerCapabilities()
	}
	grant, ok := s.ResolveGrant(ctx, callerID)
	if !ok || grant.AccountOwnerID != accountOwnerID {
		return domain.Capabilities{}
	}
	return grant.Role.Capabilities()
}

// Revoke terminates a grant. Only the account owner or an accepted
// administrator-role contributor on the same account may revoke. Revoking an
// already revoked grant is a no-op.
func (s *ContributorService) Revoke(ctx context.Context, actingUserID, contributorID string) error {
	log := slogx.FromContext(ctx)

	grant, err := s.Store.Contributors().GetContributorByID(ctx, contributorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrContributorNotFound
		}
		log.Error("failed to fetch contributor for revocation", slog.Any("error", err))
		return err
	}

	if !s.canRevoke(ctx, actingUserID, grant.AccountOwnerID) {
		log.Warn("revocation rejected, caller lacks authority",
			slog.String("acting_user_id", actingUserID),
			slog.String("contributor_id", contributorID),
		)
		return ErrNotAuthorized
	}

	if err := s.Store.Contributors().Revoke(ctx, contributorID); err != nil {
		log.Error("failed to revoke contributor",
			slog.String("contributor_id", contributorID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("contributor revoked",
		slog.String("contributor_id", contributorID),
		slog.String("acting_user_id", actingUserID),
	)
	return nil
}

func (s *ContributorService) canRevoke(ctx context.Context, actingUserID, accountOwnerID string) bool {
	if actingUserID == accountOwnerID {
		return true
	}
	grant, ok := s.ResolveGrant(ctx, actingUserID)
	if !ok {
		return false
	}
	return grant.AccountOwnerID == accountOwnerID && grant.Role == domain.RoleAdministrator
}

// ClaimInvitations accepts every pending grant addressed to the user's email,
// linking the grant to the identity. Called when the invitee authenticates.
// Races with a concurrent claim or revocation are benign: the status guard in
// storage makes the transition happen at most once.
func (s *ContributorService) ClaimInvitations(ctx context.Context, user domain.User) error {
	log := slogx.FromContext(ctx)

	pending, err := s.Store.Contributors().ListPendingByEmail(ctx, user.Email)
	if err != nil {
		log.Error("failed to list pending invitations", slog.Any("error", err))
		return err
	}

	for _, grant := range pending {
		err := s.Store.Contributors().MarkAccepted(ctx, grant.ID, user.ID)
		switch {
		case err == nil:
			log.Info("invitation accepted",
				slog.String("contributor_id", grant.ID),
				slog.String("owner_id", grant.AccountOwnerID),
				slog.String("user_id", user.ID),
			)
		case errors.Is(err, store.ErrNotFound):
			// No longer pending, someone beat us to it.
		default:
			log.Error("failed to accept invitation",
				slog.String("contributor_id", grant.ID),
				slog.Any("error", err),
			)
			return err
		}
	}
	return nil
}
