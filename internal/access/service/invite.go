package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/assetdocs/accessd/internal/access/domain"
	"github.com/assetdocs/accessd/internal/access/notify"
	"github.com/assetdocs/accessd/internal/access/store"
	"github.com/assetdocs/accessd/pkg/cryptox"
	"github.com/assetdocs/accessd/pkg/idx"
	"github.com/assetdocs/accessd/pkg/slogx"
)

var (
	ErrInvalidInviteRequest = errors.New("invalid invite request")
	ErrInvalidRole          = errors.New("invalid role")
	ErrDuplicateInvite      = errors.New("this email has already been invited")
	ErrSelfInvite           = errors.New("cannot invite yourself as a contributor")
)

const (
	maxEmailLength = 255
	maxNameLength  = 100

	// DefaultSetupTokenTTL is how long a provisioned identity has to complete
	// account setup before the link dies.
	DefaultSetupTokenTTL = 7 * 24 * time.Hour
)

// InviteService orchestrates invitation issuance end-to-end: create the
// pending grant, provision an identity when the invitee is new, and send
// exactly one invitation email.
type InviteService struct {
	Store         store.Store
	Mailer        notify.Mailer
	AppBaseURL    string        // base URL used in invitation links
	SetupTokenTTL time.Duration // 0 means DefaultSetupTokenTTL
}

// InviteResult reports which path an invitation took.
type InviteResult struct {
	ContributorID string
	ExistingUser  bool
	Message       string
}

// Invite creates a pending contributor grant from ownerID to email and sends
// the invitation.
func (s *InviteService) Invite(
	ctx context.Context,
	ownerID string,
	email string,
	firstName string,
	lastName string,
	role domain.Role,
) (InviteResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input shape before touching storage.
	if err := validateInvite(email, firstName, lastName, role); err != nil {
		log.Warn("invite rejected by validation",
			slog.String("owner_id", ownerID),
			slog.Any("error", err),
		)
		return InviteResult{}, err
	}

	// 2. Resolve the inviter for the notification copy. The owner is the
	// authenticated caller, so a missing record means a stale session.
	owner, err := s.Store.Users().GetUserByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return InviteResult{}, ErrInvalidInviteRequest
		}
		log.Error("failed to fetch inviting owner", slog.Any("error", err))
		return InviteResult{}, err
	}
	if strings.EqualFold(owner.Email, email) {
		return InviteResult{}, ErrSelfInvite
	}

	// 3. Insert the pending grant. The storage layer owns the (owner, email)
	// uniqueness, so a concurrent duplicate loses here instead of racing a
	// read-then-write check.
	contributor := domain.Contributor{
		ID:             idx.New().String(),
		AccountOwnerID: ownerID,
		Email:          email,
		FirstName:      firstName,
		LastName:       lastName,
		Role:           role,
		Status:         domain.ContributorPending,
		InvitedAt:      time.Now().UTC(),
	}
	if err := s.Store.Contributors().InsertPending(ctx, contributor); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("duplicate invite rejected",
				slog.String("owner_id", ownerID),
				slog.String("contributor_email", email),
			)
			return InviteResult{}, ErrDuplicateInvite
		}
		log.Error("failed to insert pending contributor", slog.Any("error", err))
		return InviteResult{}, err
	}

	// 4. Decide the path: existing identity signs in, new identity gets a
	// provisioned account plus a setup link.
	invitee, err := s.Store.Users().GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if mailErr := s.sendExistingUserInvite(ctx, owner, invitee, role); mailErr != nil {
			return InviteResult{}, s.compensate(ctx, contributor.ID, mailErr)
		}
		log.Info("invitation sent to existing user",
			slog.String("contributor_id", contributor.ID),
			slog.String("owner_id", ownerID),
			slog.String("role", string(role)),
		)
		return InviteResult{
			ContributorID: contributor.ID,
			ExistingUser:  true,
			Message:       "Invitation sent. The contributor already has an account and can sign in to accept.",
		}, nil

	case errors.Is(err, store.ErrNotFound):
		setupToken, provErr := s.provisionInvitee(ctx, email, firstName, lastName)
		if provErr != nil {
			return InviteResult{}, s.compensate(ctx, contributor.ID, provErr)
		}
		if mailErr := s.sendNewUserInvite(ctx, owner, email, firstName, role, setupToken); mailErr != nil {
			return InviteResult{}, s.compensate(ctx, contributor.ID, mailErr)
		}
		log.Info("invitation sent to new user",
			slog.String("contributor_id", contributor.ID),
			slog.String("owner_id", ownerID),
			slog.String("role", string(role)),
		)
		return InviteResult{
			ContributorID: contributor.ID,
			ExistingUser:  false,
			Message:       "Invitation sent. The contributor will receive a link to set up their account.",
		}, nil

	default:
		log.Error("failed to resolve invitee identity", slog.Any("error", err))
		return InviteResult{}, s.compensate(ctx, contributor.ID, err)
	}
}

// compensate removes the pending grant after a post-insert failure so no
// orphaned invitation lingers with no email ever sent. The owner can simply
// retry the whole invite.
func (s *InviteService) compensate(ctx context.Context, contributorID string, cause error) error {
	log := slogx.FromContext(ctx)
	if err := s.Store.Contributors().DeletePending(ctx, contributorID); err != nil {
		log.Error("failed to clean up pending contributor after invite failure",
			slog.String("contributor_id", contributorID),
			slog.Any("cleanup_error", err),
			slog.Any("cause", cause),
		)
		return cause
	}
	log.Error("invitation failed after insert, pending record removed",
		slog.String("contributor_id", contributorID),
		slog.Any("error", cause),
	)
	return cause
}

// provisionInvitee creates a pre-verified identity for a brand-new invitee and
// returns the raw setup token for the email link.
func (s *InviteService) provisionInvitee(ctx context.Context, email, firstName, lastName string) (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", fmt.Errorf("generate setup token: %w", err)
	}
	fingerprint := cryptox.FingerprintToken(token)

	ttl := s.SetupTokenTTL
	if ttl <= 0 {
		ttl = DefaultSetupTokenTTL
	}
	expires := time.Now().UTC().Add(ttl)

	user := domain.User{
		ID:                 idx.New().String(),
		Email:              email,
		FirstName:          firstName,
		LastName:           lastName,
		EmailNotifications: true,
		SecurityAlerts:     true,
		SetupTokenHash:     &fingerprint,
		SetupExpiresAt:     &expires,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		return "", fmt.Errorf("provision invitee identity: %w", err)
	}
	return token, nil
}

func (s *InviteService) sendExistingUserInvite(ctx context.Context, owner, invitee domain.User, role domain.Role) error {
	subject := fmt.Sprintf("%s invited you to their account", owner.FullName())
	body := fmt.Sprintf(
		"Hi %s,\n\n%s has invited you to access their account as a %s.\n\nAs a %s you have %s.\n\nSign in at %s to accept the invitation.\n",
		invitee.FirstName, owner.FullName(), role, role, role.Description(), s.AppBaseURL,
	)
	return s.Mailer.Send(ctx, invitee.Email, subject, body)
}

func (s *InviteService) sendNewUserInvite(ctx context.Context, owner domain.User, email, firstName string, role domain.Role, setupToken string) error {
	subject := fmt.Sprintf("%s invited you to their account", owner.FullName())
	body := fmt.Sprintf(
		"Hi %s,\n\n%s has invited you to access their account as a %s.\n\nAs a %s you have %s.\n\nComplete your account setup here: %s/setup?token=%s\n",
		firstName, owner.FullName(), role, role, role.Description(), s.AppBaseURL, setupToken,
	)
	return s.Mailer.Send(ctx, email, subject, body)
}

func validateInvite(email, firstName, lastName string, role domain.Role) error {
	if email == "" || len(email) > maxEmailLength {
		return ErrInvalidInviteRequest
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidInviteRequest
	}
	if firstName == "" || len(firstName) > maxNameLength {
		return ErrInvalidInviteRequest
	}
	if lastName == "" || len(lastName) > maxNameLength {
		return ErrInvalidInviteRequest
	}
	if !role.Valid() {
		return ErrInvalidRole
	}
	return nil
}
