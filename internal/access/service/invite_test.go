package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/assetdocs/accessd/internal/access/domain"
	"github.com/assetdocs/accessd/internal/access/store"
	"github.com/stretchr/testify/require"
)

func TestInviteValidation(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	owner := createTestUser(t, st, "owner@example.com")
	mailer := &fakeMailer{}
	svc := &InviteService{Store: st, Mailer: mailer, AppBaseURL: "https://app.example"}

	ctx := context.Background()

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := svc.Invite(ctx, owner.ID, "not-an-email", "Jane", "Doe", domain.RoleViewer)
		require.ErrorIs(t, err, ErrInvalidInviteRequest)
	})

	t.Run("rejects empty names", func(t *testing.T) {
		_, err := svc.Invite(ctx, owner.ID, "jane@example.com", "", "Doe", domain.RoleViewer)
		require.ErrorIs(t, err, ErrInvalidInviteRequest)

		_, err = svc.Invite(ctx, owner.ID, "jane@example.com", "Jane", "", domain.RoleViewer)
		require.ErrorIs(t, err, ErrInvalidInviteRequest)
	})

	t.Run("rejects overlong fields", func(t *testing.T) {
		long := strings.Repeat("x", 101)
		_, err := svc.Invite(ctx, owner.ID, "jane@example.com", long, "Doe", domain.RoleViewer)
		require.ErrorIs(t, err, ErrInvalidInviteRequest)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := svc.Invite(ctx, owner.ID, "jane@example.com", "Jane", "Doe", domain.Role("superuser"))
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("rejects self invite", func(t *testing.T) {
		_, err := svc.Invite(ctx, owner.ID, "OWNER@example.com", "Me", "Again", domain.RoleViewer)
		require.ErrorIs(t, err, ErrSelfInvite)
	})

	// Nothing above should have reached the mailer.
	require.Zero(t, mailer.count())
}

func TestInviteDuplicateRejected(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	owner := createTestUser(t, st, "owner@example.com")
	mailer := &fakeMailer{}
	svc := &InviteService{Store: st, Mailer: mailer, AppBaseURL: "https://app.example"}

	ctx := context.Background()

	first, err := svc.Invite(ctx, owner.ID, "jane@example.com", "Jane", "Doe", domain.RoleViewer)
	require.NoError(t, err)
	require.False(t, first.ExistingUser)
	require.Equal(t, 1, mailer.count())

	_, err = svc.Invite(ctx, owner.ID, "jane@example.com", "Jane", "Doe", domain.RoleContributor)
	require.ErrorIs(t, err, ErrDuplicateInvite)

	// No second email and no second record.
	require.Equal(t, 1, mailer.count())
	list, err := st.Contributors().ListForOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestInviteProvisionsNewIdentity(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	owner := createTestUser(t, st, "owner@example.com")
	mailer := &fakeMailer{}
	svc := &InviteService{Store: st, Mailer: mailer, AppBaseURL: "https://app.example"}

	ctx := context.Background()

	res, err := svc.Invite(ctx, owner.ID, "new@example.com", "New", "Person", domain.RoleViewer)
	require.NoError(t, err)
	require.False(t, res.ExistingUser)

	// A pre-verified identity now exists with a setup token.
	invitee, err := st.Users().GetUserByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	require.NotNil(t, invitee.SetupTokenHash)
	require.NotNil(t, invitee.SetupExpiresAt)
	require.Empty(t, invitee.PasswordHash)

	// The email carries a setup link and the role description.
	msg := mailer.last()
	require.Equal(t, "new@example.com", msg.To)
	require.Contains(t, msg.Body, "/setup?token=")
	require.Contains(t, msg.Body, domain.RoleViewer.Description())

	// The grant is pending until the invitee authenticates.
	list, err := st.Contributors().ListForOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, domain.ContributorPending, list[0].Status)
	require.Nil(t, list[0].UserID)
}

func TestInviteExistingUserPath(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	owner := createTestUser(t, st, "owner@example.com")
	existing := createTestUser(t, st, "friend@example.com")
	mailer := &fakeMailer{}
	svc := &InviteService{Store: st, Mailer: mailer, AppBaseURL: "https://app.example"}

	ctx := context.Background()

	res, err := svc.Invite(ctx, owner.ID, existing.Email, "Friend", "Person", domain.RoleAdministrator)
	require.NoError(t, err)
	require.True(t, res.ExistingUser)

	// No setup link for an identity that already exists; just sign in.
	msg := mailer.last()
	require.Equal(t, existing.Email, msg.To)
	require.NotContains(t, msg.Body, "/setup?token=")
	require.Contains(t, msg.Body, "Sign in")
}

func TestInviteFailureRemovesPendingRecord(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	owner := createTestUser(t, st, "owner@example.com")
	mailer := &fakeMailer{fail: errors.New("smtp down")}
	svc := &InviteService{Store: st, Mailer: mailer, AppBaseURL: "https://app.example"}

	ctx := context.Background()

	_, err := svc.Invite(ctx, owner.ID, "jane@example.com", "Jane", "Doe", domain.RoleViewer)
	require.Error(t, err)

	// No orphaned pending record survives a failed send, so the owner can
	// simply retry.
	list, err := st.Contributors().ListForOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Empty(t, list)

	mailer.fail = nil
	_, err = svc.Invite(ctx, owner.ID, "jane@example.com", "Jane", "Doe", domain.RoleViewer)
	require.NoError(t, err)
}

func TestInviteRevokedEmailCanBeReinvited(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	owner := createTestUser(t, st, "owner@example.com")
	mailer := &fakeMailer{}
	svc := &InviteService{Store: st, Mailer: mailer, AppBaseURL: "https://app.example"}

	ctx := context.Background()

	res, err := svc.Invite(ctx, owner.ID, "jane@example.com", "Jane", "Doe", domain.RoleViewer)
	require.NoError(t, err)
	require.NoError(t, st.Contributors().Revoke(ctx, res.ContributorID))

	// The uniqueness constraint excludes revoked grants.
	_, err = svc.Invite(ctx, owner.ID, "jane@example.com", "Jane", "Doe", domain.RoleContributor)
	require.NoError(t, err)

	list, err := st.Contributors().ListForOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestInsertPendingUniquenessLivesInStorage(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	owner := createTestUser(t, st, "owner@example.com")

	ctx := context.Background()

	mk := func() domain.Contributor {
		return domain.Contributor{
			ID:             "contrib-" + t.Name(),
			AccountOwnerID: owner.ID,
			Email:          "dup@example.com",
			FirstName:      "Dup",
			LastName:       "Licate",
			Role:           domain.RoleViewer,
			Status:         domain.ContributorPending,
		}
	}

	first := mk()
	require.NoError(t, st.Contributors().InsertPending(ctx, first))

	second := mk()
	second.ID = second.ID + "-2"
	err := st.Contributors().InsertPending(ctx, second)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}
