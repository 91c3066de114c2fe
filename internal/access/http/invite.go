package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/assetdocs/accessd/internal/access/domain"
	"github.com/assetdocs/accessd/internal/access/service"
	"github.com/assetdocs/accessd/pkg/accesssdk"
	"github.com/assetdocs/accessd/pkg/httpx"
	"github.com/assetdocs/accessd/pkg/slogx"

	"github.com/google/uuid"
)

type InviteHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Invite a contributor
//	@Description	Create a pending contributor grant on the caller's account and email the invitee.
//	@Description	If the invitee has no account yet, a pre-verified identity is provisioned and the email carries a setup link instead.
//	@Tags			Contributors
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.InviteRequest			true	"Invite request"
//	@Success		200		{object}	accesssdk.InviteResponse		"success, message, isExistingUser"
//	@Failure		400		{object}	accesssdk.ErrorResponse			"error"
//	@Failure		401		{object}	accesssdk.ErrorResponse			"error"
//	@Failure		409		{object}	accesssdk.ErrorResponse			"error, code=DUPLICATE"
//	@Failure		500		{object}	accesssdk.ServerErrorResponse	"error, errorId, success=false"
//	@Security		BearerAuth
//	@Router			/v1/contributors/invite [post].
func (h *InviteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	ownerID := httpx.UserIDFromContext(ctx)
	if ownerID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, accesssdk.ErrorResponse{
			Error: "Authentication required",
		})
		return
	}

	var req accesssdk.InviteRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error: "Invalid JSON body",
		})
		return
	}

	res, err := h.InviteService.Invite(
		ctx,
		ownerID,
		req.ContributorEmail,
		req.FirstName,
		req.LastName,
		domain.Role(req.Role),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateInvite):
			httpx.WriteJSON(w, http.StatusConflict, accesssdk.ErrorResponse{
				Error: "This email has already been invited",
				Code:  "DUPLICATE",
			})
		case errors.Is(err, service.ErrInvalidRole):
			httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
				Error: "Role must be administrator, contributor, or viewer",
			})
		case errors.Is(err, service.ErrSelfInvite):
			httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
				Error: "You cannot invite yourself",
			})
		case errors.Is(err, service.ErrInvalidInviteRequest):
			httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
				Error: "Invalid invitation details",
			})
		default:
			// Unexpected failure. Log full detail under a correlation id and
			// return only the id to the client.
			errorID := uuid.NewString()
			log.Error("invite failed",
				slog.String("error_id", errorID),
				slog.String("owner_id", ownerID),
				slog.Any("error", err),
			)
			httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ServerErrorResponse{
				Error:   "Something went wrong sending the invitation",
				ErrorID: errorID,
				Success: false,
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.InviteResponse{
		Success:        true,
		Message:        res.Message,
		IsExistingUser: res.ExistingUser,
	})
}
