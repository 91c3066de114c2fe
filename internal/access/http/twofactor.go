package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/assetdocs/accessd/internal/access/service"
	"github.com/assetdocs/accessd/pkg/accesssdk"
	"github.com/assetdocs/accessd/pkg/httpx"
	"github.com/assetdocs/accessd/pkg/slogx"
)

type TwoFactorHandler struct {
	TwoFactorService *service.TwoFactorService
}

// HandleEnroll godoc
//
//	@Summary		Begin two-factor enrolment
//	@Description	Generate a TOTP secret for the caller. Two-factor stays off until a code is confirmed via /v1/2fa/verify.
//	@Tags			TwoFactor
//	@Produce		json
//	@Success		200	{object}	accesssdk.TwoFactorEnrollResponse	"secret, otpauth_url"
//	@Failure		401	{object}	accesssdk.ErrorResponse				"error"
//	@Failure		409	{object}	accesssdk.ErrorResponse				"error"
//	@Security		BearerAuth
//	@Router			/v1/2fa/enroll [post].
func (h *TwoFactorHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, accesssdk.ErrorResponse{
			Error: "Authentication required",
		})
		return
	}

	enrollment, err := h.TwoFactorService.Enroll(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrTwoFactorAlreadyActive) {
			httpx.WriteJSON(w, http.StatusConflict, accesssdk.ErrorResponse{
				Error: "Two-factor authentication is already enabled",
			})
			return
		}
		log.Error("two-factor enrolment failed", slog.Any("error", err))
		httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
			Error: "Could not start two-factor setup",
		})
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, accesssdk.TwoFactorEnrollResponse{
		Secret:     enrollment.Secret,
		OTPAuthURL: enrollment.OTPAuthURL,
	})
}

// HandleVerify godoc
//
//	@Summary		Confirm two-factor enrolment
//	@Description	Activate two-factor by proving possession of the enrolled secret. Emits a two_factor_enabled security alert.
//	@Tags			TwoFactor
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.TwoFactorCodeRequest	true	"Authenticator code"
//	@Success		200		{object}	accesssdk.SuccessResponse		"success"
//	@Failure		400		{object}	accesssdk.ErrorResponse			"error"
//	@Failure		401		{object}	accesssdk.ErrorResponse			"error"
//	@Security		BearerAuth
//	@Router			/v1/2fa/verify [post].
func (h *TwoFactorHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	h.activateOrDeactivate(w, r, true)
}

// HandleDisable godoc
//
//	@Summary		Disable two-factor
//	@Description	Turn two-factor off. Requires a valid current authenticator code. Emits a two_factor_disabled security alert.
//	@Tags			TwoFactor
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.TwoFactorCodeRequest	true	"Authenticator code"
//	@Success		200		{object}	accesssdk.SuccessResponse		"success"
//	@Failure		400		{object}	accesssdk.ErrorResponse			"error"
//	@Failure		401		{object}	accesssdk.ErrorResponse			"error"
//	@Security		BearerAuth
//	@Router			/v1/2fa/disable [post].
func (h *TwoFactorHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	h.activateOrDeactivate(w, r, false)
}

func (h *TwoFactorHandler) activateOrDeactivate(w http.ResponseWriter, r *http.Request, activate bool) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, accesssdk.ErrorResponse{
			Error: "Authentication required",
		})
		return
	}

	var req accesssdk.TwoFactorCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error: "Invalid JSON body",
		})
		return
	}

	md := requestMetadata(r)
	var err error
	if activate {
		err = h.TwoFactorService.Activate(ctx, userID, req.Code, md)
	} else {
		err = h.TwoFactorService.Deactivate(ctx, userID, req.Code, md)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTOTPCode):
			httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
				Error: "Invalid authenticator code",
			})
		case errors.Is(err, service.ErrTwoFactorNotEnrolled):
			httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
				Error: "Two-factor authentication is not set up",
			})
		case errors.Is(err, service.ErrTwoFactorAlreadyActive):
			httpx.WriteJSON(w, http.StatusConflict, accesssdk.ErrorResponse{
				Error: "Two-factor authentication is already enabled",
			})
		default:
			log.Error("two-factor state change failed", slog.Any("error", err))
			httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
				Error: "Two-factor update failed",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.SuccessResponse{Success: true})
}
