package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/assetdocs/accessd/internal/access/domain"
	"github.com/assetdocs/accessd/internal/access/service"
	"github.com/assetdocs/accessd/pkg/accesssdk"
	"github.com/assetdocs/accessd/pkg/httpx"
	"github.com/assetdocs/accessd/pkg/slogx"
)

// InternalAuthHeader carries the shared secret on service-to-service calls.
const InternalAuthHeader = "X-Internal-Secret"

type AlertsHandler struct {
	AlertService *service.AlertService

	// Secret authenticates internal callers. Empty disables the endpoint.
	Secret string
}

// ServeHTTP godoc
//
//	@Summary		Emit a security alert
//	@Description	Internal service-to-service endpoint. Emails the affected identity and records an in-app notification,
//	@Description	unless the user opted out or no longer exists, in which case the alert is skipped with a reason.
//	@Tags			Alerts
//	@Accept			json
//	@Produce		json
//	@Param			X-Internal-Secret	header		string					true	"Shared service secret"
//	@Param			request				body		accesssdk.AlertRequest	true	"Alert event"
//	@Success		200					{object}	accesssdk.AlertResponse	"success, skipped?, reason?"
//	@Failure		400					{object}	accesssdk.ErrorResponse	"error"
//	@Failure		401					{object}	accesssdk.ErrorResponse	"error"
//	@Router			/internal/v1/alerts [post].
func (h *AlertsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if h.Secret == "" || subtle.ConstantTimeCompare(
		[]byte(r.Header.Get(InternalAuthHeader)), []byte(h.Secret)) != 1 {
		httpx.WriteJSON(w, http.StatusUnauthorized, accesssdk.ErrorResponse{
			Error: "Unauthorized",
		})
		return
	}

	var req accesssdk.AlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error: "Invalid JSON body",
		})
		return
	}
	if req.UserID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
			Error: "userId is required",
		})
		return
	}

	res, err := h.AlertService.Emit(ctx, domain.SecurityAlert{
		UserID:   req.UserID,
		Type:     domain.AlertType(req.AlertType),
		Metadata: req.Metadata,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidAlertType) {
			httpx.WriteJSON(w, http.StatusBadRequest, accesssdk.ErrorResponse{
				Error: "Unknown alertType",
			})
			return
		}
		log.Error("failed to emit security alert", slog.Any("error", err))
		httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
			Error: "Failed to emit alert",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.AlertResponse{
		Success: true,
		Skipped: res.Skipped,
		Reason:  res.Reason,
	})
}

type NotificationsHandler struct {
	AlertService *service.AlertService
}

// ServeHTTP godoc
//
//	@Summary		List in-app notifications
//	@Description	Return the caller's in-app notification log, newest first.
//	@Tags			Alerts
//	@Produce		json
//	@Success		200	{object}	accesssdk.NotificationListResponse	"notifications"
//	@Failure		401	{object}	accesssdk.ErrorResponse				"error"
//	@Security		BearerAuth
//	@Router			/v1/notifications [get].
func (h *NotificationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, accesssdk.ErrorResponse{
			Error: "Authentication required",
		})
		return
	}

	list, err := h.AlertService.ListNotifications(ctx, userID, 50)
	if err != nil {
		log.Error("failed to list notifications", slog.Any("error", err))
		httpx.WriteJSON(w, http.StatusInternalServerError, accesssdk.ErrorResponse{
			Error: "Failed to list notifications",
		})
		return
	}

	out := accesssdk.NotificationListResponse{
		Notifications: make([]accesssdk.Notification, 0, len(list)),
	}
	for _, n := range list {
		out.Notifications = append(out.Notifications, accesssdk.Notification{
			ID:        n.ID,
			AlertType: string(n.AlertType),
			Subject:   n.Subject,
			Body:      n.Body,
			CreatedAt: n.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
