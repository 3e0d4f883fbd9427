package staff

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/lihess/lihess-backend/internal"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
	"github.com/lihess/lihess-backend/internal/transport"
	"github.com/lihess/lihess-backend/pkg/logger"
)

type ServiceAPI interface {
	CreateStaff(ctx context.Context, actorID uuid.UUID, dto CreateStaffDTO) (*staffModel.Staff, error)
	Terminate(ctx context.Context, staffID uuid.UUID, dto TerminateStaffDTO) error
	UpdateUserInfo(ctx context.Context, actorID, staffID uuid.UUID, dto UpdateUserInfoDTO) (*staffModel.Staff, error)
	ResetPassword(ctx context.Context, staffID uuid.UUID) error
	GetStaff(ctx context.Context, staffID uuid.UUID) (*StaffDetail, error)
	ListStaff(ctx context.Context) ([]*staffModel.Staff, error)
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

func (h *Handler) actorAndStaffID(w http.ResponseWriter, r *http.Request) (*internal.Actor, uuid.UUID, bool) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, uuid.Nil, false
	}
	staffID, err := uuid.Parse(chi.URLParam(r, "staffID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid staff ID")
		return nil, uuid.Nil, false
	}
	return actor, staffID, true
}

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateStaffDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateStaff: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.CreateStaff(r.Context(), actor.UserID, dto)
	if err != nil {
		h.Logger.Error("CreateStaff: service error", "error", err, "employee_number", dto.EmployeeNumber)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, row)
}

func (h *Handler) Terminate(w http.ResponseWriter, r *http.Request) {
	_, staffID, ok := h.actorAndStaffID(w, r)
	if !ok {
		return
	}

	var dto TerminateStaffDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Terminate: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.Terminate(r.Context(), staffID, dto); err != nil {
		h.Logger.Error("Terminate: service error", "error", err, "staff_id", staffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "terminated"})
}

func (h *Handler) UpdateUserInfo(w http.ResponseWriter, r *http.Request) {
	actor, staffID, ok := h.actorAndStaffID(w, r)
	if !ok {
		return
	}

	var dto UpdateUserInfoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateUserInfo: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.UpdateUserInfo(r.Context(), actor.UserID, staffID, dto)
	if err != nil {
		h.Logger.Error("UpdateUserInfo: service error", "error", err, "staff_id", staffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, row)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	_, staffID, ok := h.actorAndStaffID(w, r)
	if !ok {
		return
	}

	if err := h.Service.ResetPassword(r.Context(), staffID); err != nil {
		h.Logger.Error("ResetPassword: service error", "error", err, "staff_id", staffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "reset_code_sent"})
}

func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	_, staffID, ok := h.actorAndStaffID(w, r)
	if !ok {
		return
	}

	detail, err := h.Service.GetStaff(r.Context(), staffID)
	if err != nil {
		h.Logger.Error("GetStaff: service error", "error", err, "staff_id", staffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.ListStaff(r.Context())
	if err != nil {
		h.Logger.Error("ListStaff: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"staff": rows})
}
