package notification

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/lihess/lihess-backend/internal"
	notificationModel "github.com/lihess/lihess-backend/internal/core/datamodel/notification"
	"github.com/lihess/lihess-backend/internal/transport"
	"github.com/lihess/lihess-backend/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, staffID uuid.UUID) ([]*notificationModel.Notification, error)
	MarkRead(ctx context.Context, actorStaffID, notificationID uuid.UUID) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rows, err := h.Service.List(r.Context(), actor.StaffID)
	if err != nil {
		h.Logger.Error("List: service error", "error", err, "staff_id", actor.StaffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"notifications": rows})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	notificationID, err := uuid.Parse(chi.URLParam(r, "notificationID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid notification ID")
		return
	}

	if err := h.Service.MarkRead(r.Context(), actor.StaffID, notificationID); err != nil {
		h.Logger.Error("MarkRead: service error", "error", err, "notification_id", notificationID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
