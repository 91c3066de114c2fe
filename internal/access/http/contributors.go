package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/assetdocs/accessd/internal/access/service"
	"github.com/assetdocs/accessd/pkg/accesssdk"
	"github.com/assetdocs/accessd/pkg/httpx"
	"github.com/assetdocs/accessd/pkg/slogx"
)

type ContributorsHandler struct {
	ContributorService *service.ContributorService
}

// HandleList godoc
//
//	@Summary		List contributors
//	@Description	List the caller's contributors, newest invitation first, with each grant's resolved capability set.
//	@Tags			Contributors
//	@Produce		json
//	@Success		200	{object}	accesssdk.ContributorListResponse	"contributors"
//	@Failure		401	{object}	accesssdk.ErrorResponse				"error"
//	@Failure		500	{object}	accesssdk.ErrorResponse				"error"
//	@Security		BearerAuth
//	@Router			/v1/contributors [get].
func (h *ContributorsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	ownerID := httpx.UserIDFromContext(ctx)
	if ownerID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, accesssdk.ErrorResponse{
			Error: "Authentication required",
		})
		return
	}

	list, err := h.ContributorService.ListForOwner(ctx, ownerID)
	if err != nil {
		log.Error("failed to list contributors", slog.Any("error", err))
		httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
			Error: "Failed to list contributors",
		})
		return
	}

	out := accesssdk.ContributorListResponse{
		Contributors: make([]accesssdk.Contributor, 0, len(list)),
	}
	for _, c := range list {
		caps := c.Role.Capabilities()
		out.Contributors = append(out.Contributors, accesssdk.Contributor{
			ID:        c.ID,
			Email:     c.Email,
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Role:      string(c.Role),
			Status:    string(c.Status),
			InvitedAt: c.InvitedAt,
			Capabilities: accesssdk.Capabilities{
				CanEdit:                 caps.CanEdit,
				CanDelete:               caps.CanDelete,
				CanAccessSettings:       caps.CanAccessSettings,
				CanAccessEncryptedVault: caps.CanAccessEncryptedVault,
			},
		})
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleRevoke godoc
//
//	@Summary		Revoke a contributor
//	@Description	Revoke a contributor grant. Permitted for the account owner and administrator-role contributors. Idempotent.
//	@Tags			Contributors
//	@Produce		json
//	@Param			id	path		string					true	"Contributor id"
//	@Success		200	{object}	accesssdk.RevokeResponse	"success"
//	@Failure		401	{object}	accesssdk.ErrorResponse		"error"
//	@Failure		403	{object}	accesssdk.ErrorResponse		"error"
//	@Failure		404	{object}	accesssdk.ErrorResponse		"error"
//	@Security		BearerAuth
//	@Router			/v1/contributors/{id}/revoke [post].
func (h *ContributorsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actorID := httpx.UserIDFromContext(ctx)
	if actorID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, accesssdk.ErrorResponse{
			Error: "Authentication required",
		})
		return
	}

	contributorID := r.PathValue("id")
	if contributorID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error: "Contributor id is required",
		})
		return
	}

	err := h.ContributorService.Revoke(ctx, actorID, contributorID)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, accesssdk.RevokeResponse{Success: true})
	case errors.Is(err, service.ErrContributorNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, accesssdk.ErrorResponse{
			Error: "Contributor not found",
		})
	case errors.Is(err, service.ErrNotAuthorized):
		// Generic message, no detail about why.
		httpx.WriteJSON(w, http.StatusForbidden, accesssdk.ErrorResponse{
			Error: "Not authorized",
		})
	default:
		log.Error("failed to revoke contributor", slog.Any("error", err))
		httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
			Error: "Failed to revoke contributor",
		})
	}
}
