package leave

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/lihess/lihess-backend/internal"
	leaveModel "github.com/lihess/lihess-backend/internal/core/datamodel/leave"
	"github.com/lihess/lihess-backend/internal/transport"
	"github.com/lihess/lihess-backend/pkg/logger"
)

type ServiceAPI interface {
	Apply(ctx context.Context, staffID uuid.UUID, dto ApplyLeaveDTO) (*leaveModel.LeaveApplication, error)
	Approve(ctx context.Context, approverStaffID, leaveID uuid.UUID) (*leaveModel.LeaveApplication, error)
	Decline(ctx context.Context, approverStaffID, leaveID uuid.UUID, dto DeclineLeaveDTO) (*leaveModel.LeaveApplication, error)
	Cancel(ctx context.Context, staffID, leaveID uuid.UUID) (*leaveModel.LeaveApplication, error)
	ListMyLeaves(ctx context.Context, staffID uuid.UUID) ([]*leaveModel.LeaveApplication, error)
	ListStaffLeaves(ctx context.Context, staffID uuid.UUID) ([]*leaveModel.LeaveApplication, error)
	MyBalances(ctx context.Context, staffID uuid.UUID) ([]*leaveModel.LeaveBalance, error)
	ListPendingApprovals(ctx context.Context, approverStaffID uuid.UUID) ([]*leaveModel.LeaveApplication, error)
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

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (*internal.Actor, bool) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return actor, true
}

func (h *Handler) leaveID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "leaveID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid leave ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto ApplyLeaveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Apply: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.Apply(r.Context(), actor.StaffID, dto)
	if err != nil {
		h.Logger.Error("Apply: service error", "error", err, "staff_id", actor.StaffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, row)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	leaveID, ok := h.leaveID(w, r)
	if !ok {
		return
	}

	row, err := h.Service.Approve(r.Context(), actor.StaffID, leaveID)
	if err != nil {
		h.Logger.Error("Approve: service error", "error", err, "leave_id", leaveID, "staff_id", actor.StaffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, row)
}

func (h *Handler) Decline(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	leaveID, ok := h.leaveID(w, r)
	if !ok {
		return
	}

	var dto DeclineLeaveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Decline: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.Decline(r.Context(), actor.StaffID, leaveID, dto)
	if err != nil {
		h.Logger.Error("Decline: service error", "error", err, "leave_id", leaveID, "staff_id", actor.StaffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, row)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	leaveID, ok := h.leaveID(w, r)
	if !ok {
		return
	}

	row, err := h.Service.Cancel(r.Context(), actor.StaffID, leaveID)
	if err != nil {
		h.Logger.Error("Cancel: service error", "error", err, "leave_id", leaveID, "staff_id", actor.StaffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, row)
}

func (h *Handler) ListMyLeaves(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	rows, err := h.Service.ListMyLeaves(r.Context(), actor.StaffID)
	if err != nil {
		h.Logger.Error("ListMyLeaves: service error", "error", err, "staff_id", actor.StaffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"leaves": rows})
}

func (h *Handler) ListStaffLeaves(w http.ResponseWriter, r *http.Request) {
	staffID, err := uuid.Parse(chi.URLParam(r, "staffID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid staff ID")
		return
	}

	rows, err := h.Service.ListStaffLeaves(r.Context(), staffID)
	if err != nil {
		h.Logger.Error("ListStaffLeaves: service error", "error", err, "staff_id", staffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"leaves": rows})
}

func (h *Handler) MyBalances(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	rows, err := h.Service.MyBalances(r.Context(), actor.StaffID)
	if err != nil {
		h.Logger.Error("MyBalances: service error", "error", err, "staff_id", actor.StaffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"balances": rows})
}

func (h *Handler) ListPendingApprovals(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	rows, err := h.Service.ListPendingApprovals(r.Context(), actor.StaffID)
	if err != nil {
		h.Logger.Error("ListPendingApprovals: service error", "error", err, "staff_id", actor.StaffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"leaves": rows})
}
