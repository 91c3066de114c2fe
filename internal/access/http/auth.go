package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/assetdocs/accessd/internal/access/domain"
	"github.com/assetdocs/accessd/internal/access/service"
	"github.com/assetdocs/accessd/pkg/accesssdk"
	"github.com/assetdocs/accessd/pkg/httpx"
	"github.com/assetdocs/accessd/pkg/jwtx"
	"github.com/assetdocs/accessd/pkg/slogx"
)

type AuthHandler struct {
	SessionService *service.SessionService
}

// requestMetadata pulls the fields security alerts care about out of the
// request.
func requestMetadata(r *http.Request) map[string]string {
	md := map[string]string{}
	if ip := httpx.IPKeyExtractor(r); ip != "" {
		md["ip"] = ip
	}
	if ua := r.UserAgent(); ua != "" {
		md["user_agent"] = ua
	}
	return md
}

func (h *AuthHandler) sessionTTL() time.Duration {
	if h.SessionService.SessionTTL > 0 {
		return h.SessionService.SessionTTL
	}
	return jwtx.DefaultSessionTTL
}

func sessionResponse(token string, ttl time.Duration, user domain.User) accesssdk.SessionResponse {
	return accesssdk.SessionResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(ttl.Seconds()),
		User: accesssdk.UserSummary{
			ID:            user.ID,
			Email:         user.Email,
			FirstName:     user.FirstName,
			LastName:      user.LastName,
			PhoneVerified: user.PhoneVerified,
			TwoFactor:     user.TwoFactorEnabled != nil,
		},
	}
}

// HandleLogin godoc
//
//	@Summary		Sign in
//	@Description	Authenticate with email and password (plus an authenticator code when two-factor is enabled) and receive a session token.
//	@Description	Pending contributor invitations addressed to the email are accepted on success.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	accesssdk.SessionResponse	"token, user"
//	@Failure		400		{object}	accesssdk.ErrorResponse		"error"
//	@Failure		401		{object}	accesssdk.ErrorResponse		"error"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accesssdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error: "Invalid JSON body",
		})
		return
	}

	token, user, err := h.SessionService.Login(ctx, req.Email, req.Password, req.TOTPCode, requestMetadata(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTOTPRequired):
			httpx.WriteJSON(w, http.StatusUnauthorized, accesssdk.ErrorResponse{
				Error: "Authenticator code required",
				Code:  "TOTP_REQUIRED",
			})
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteJSON(w, http.StatusUnauthorized, accesssdk.ErrorResponse{
				Error: "Invalid email or password",
			})
		default:
			log.Error("login failed", slog.Any("error", err))
			httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
				Error: "Sign in failed",
			})
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(token, h.sessionTTL(), user))
}

// HandleSetup godoc
//
//	@Summary		Complete account setup
//	@Description	Finish a provisioned identity using the setup token from the invitation email, choosing the first password.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.SetupRequest		true	"Setup token and password"
//	@Success		200		{object}	accesssdk.SessionResponse	"token, user"
//	@Failure		400		{object}	accesssdk.ErrorResponse		"error"
//	@Router			/v1/auth/setup [post].
func (h *AuthHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accesssdk.SetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error: "Invalid JSON body",
		})
		return
	}

	token, user, err := h.SessionService.CompleteSetup(ctx, req.Token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSetupTokenInvalid):
			httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
				Error: "Setup link is invalid or has expired",
			})
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
				Error: "Password must be at least 10 characters",
			})
		default:
			log.Error("account setup failed", slog.Any("error", err))
			httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
				Error: "Account setup failed",
			})
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(token, h.sessionTTL(), user))
}

// HandlePasswordChange godoc
//
//	@Summary		Change password
//	@Description	Rotate the account password after re-proving the current one. Emits a password_changed security alert.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.PasswordChangeRequest	true	"Current and new password"
//	@Success		200		{object}	accesssdk.SuccessResponse		"success"
//	@Failure		400		{object}	accesssdk.ErrorResponse			"error"
//	@Failure		401		{object}	accesssdk.ErrorResponse			"error"
//	@Security		BearerAuth
//	@Router			/v1/auth/password [post].
func (h *AuthHandler) HandlePasswordChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, accesssdk.ErrorResponse{
			Error: "Authentication required",
		})
		return
	}

	var req accesssdk.PasswordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error: "Invalid JSON body",
		})
		return
	}

	err := h.SessionService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword, requestMetadata(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteJSON(w, http.StatusUnauthorized, accesssdk.ErrorResponse{
				Error: "Current password is incorrect",
			})
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
				Error: "Password must be at least 10 characters",
			})
		default:
			log.Error("password change failed", slog.Any("error", err))
			httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
				Error: "Password change failed",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.SuccessResponse{Success: true})
}

// HandleEmailChange godoc
//
//	@Summary		Change account email
//	@Description	Move the account to a new email after re-proving the password. Emits an email_changed security alert to the old address.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.EmailChangeRequest	true	"Password and new email"
//	@Success		200		{object}	accesssdk.SuccessResponse		"success"
//	@Failure		400		{object}	accesssdk.ErrorResponse			"error"
//	@Failure		401		{object}	accesssdk.ErrorResponse			"error"
//	@Failure		409		{object}	accesssdk.ErrorResponse			"error"
//	@Security		BearerAuth
//	@Router			/v1/auth/email [post].
func (h *AuthHandler) HandleEmailChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, accesssdk.ErrorResponse{
			Error: "Authentication required",
		})
		return
	}

	var req accesssdk.EmailChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error: "Invalid JSON body",
		})
		return
	}

	err := h.SessionService.ChangeEmail(ctx, userID, req.Password, req.NewEmail, requestMetadata(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteJSON(w, http.StatusUnauthorized, accesssdk.ErrorResponse{
				Error: "Password is incorrect",
			})
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteJSON(w, http.StatusConflict, accesssdk.ErrorResponse{
				Error: "Email address is already in use",
			})
		case errors.Is(err, service.ErrInvalidEmail):
			httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
				Error: "Enter a valid email address",
			})
		default:
			log.Error("email change failed", slog.Any("error", err))
			httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
				Error: "Email change failed",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.SuccessResponse{Success: true})
}
