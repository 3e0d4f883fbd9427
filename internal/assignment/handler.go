package assignment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/lihess/lihess-backend/internal"
	assignmentModel "github.com/lihess/lihess-backend/internal/core/datamodel/assignment"
	"github.com/lihess/lihess-backend/internal/transport"
	"github.com/lihess/lihess-backend/pkg/logger"
)

type ServiceAPI interface {
	TransferCoE(ctx context.Context, actorID, staffID uuid.UUID, dto TransferCoEDTO) (*TransferResult, error)
	AssignDepartment(ctx context.Context, actorID, staffID uuid.UUID, dto AssignDepartmentDTO) (*assignmentModel.DepartmentAssignment, error)
	AssignPosition(ctx context.Context, actorID, staffID uuid.UUID, dto AssignPositionDTO) (*assignmentModel.PositionAssignment, error)
	AssignGrant(ctx context.Context, actorID, staffID uuid.UUID, dto AssignGrantDTO) (*assignmentModel.GrantAssignment, error)
	TerminateGrant(ctx context.Context, staffID, grantID uuid.UUID, dto TerminateDTO) error
	AssignWorkgroup(ctx context.Context, actorID, staffID uuid.UUID, dto AssignWorkgroupDTO) (*assignmentModel.WorkgroupAssignment, error)
	AssignRole(ctx context.Context, actorID, staffID uuid.UUID, dto AssignRoleDTO) (*assignmentModel.RoleAssignment, error)
	TerminateRole(ctx context.Context, staffID, roleID uuid.UUID, dto TerminateDTO) error
	GetStaffAssignments(ctx context.Context, staffID uuid.UUID) (*StaffAssignmentsView, error)
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

func (h *Handler) TransferCoE(w http.ResponseWriter, r *http.Request) {
	actor, staffID, ok := h.actorAndStaffID(w, r)
	if !ok {
		return
	}

	var dto TransferCoEDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("TransferCoE: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.TransferCoE(r.Context(), actor.UserID, staffID, dto)
	if err != nil {
		h.Logger.Error("TransferCoE: service error", "error", err, "staff_id", staffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) AssignDepartment(w http.ResponseWriter, r *http.Request) {
	actor, staffID, ok := h.actorAndStaffID(w, r)
	if !ok {
		return
	}

	var dto AssignDepartmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AssignDepartment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.AssignDepartment(r.Context(), actor.UserID, staffID, dto)
	if err != nil {
		h.Logger.Error("AssignDepartment: service error", "error", err, "staff_id", staffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, row)
}

func (h *Handler) AssignPosition(w http.ResponseWriter, r *http.Request) {
	actor, staffID, ok := h.actorAndStaffID(w, r)
	if !ok {
		return
	}

	var dto AssignPositionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AssignPosition: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.AssignPosition(r.Context(), actor.UserID, staffID, dto)
	if err != nil {
		h.Logger.Error("AssignPosition: service error", "error", err, "staff_id", staffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, row)
}

func (h *Handler) AssignGrant(w http.ResponseWriter, r *http.Request) {
	actor, staffID, ok := h.actorAndStaffID(w, r)
	if !ok {
		return
	}

	var dto AssignGrantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AssignGrant: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.AssignGrant(r.Context(), actor.UserID, staffID, dto)
	if err != nil {
		h.Logger.Error("AssignGrant: service error", "error", err, "staff_id", staffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, row)
}

func (h *Handler) TerminateGrant(w http.ResponseWriter, r *http.Request) {
	_, staffID, ok := h.actorAndStaffID(w, r)
	if !ok {
		return
	}
	grantID, err := uuid.Parse(chi.URLParam(r, "grantID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid grant ID")
		return
	}

	var dto TerminateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("TerminateGrant: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.TerminateGrant(r.Context(), staffID, grantID, dto); err != nil {
		h.Logger.Error("TerminateGrant: service error", "error", err, "staff_id", staffID, "grant_id", grantID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "terminated"})
}

func (h *Handler) AssignWorkgroup(w http.ResponseWriter, r *http.Request) {
	actor, staffID, ok := h.actorAndStaffID(w, r)
	if !ok {
		return
	}

	var dto AssignWorkgroupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AssignWorkgroup: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.AssignWorkgroup(r.Context(), actor.UserID, staffID, dto)
	if err != nil {
		h.Logger.Error("AssignWorkgroup: service error", "error", err, "staff_id", staffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, row)
}

func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	actor, staffID, ok := h.actorAndStaffID(w, r)
	if !ok {
		return
	}

	var dto AssignRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AssignRole: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.AssignRole(r.Context(), actor.UserID, staffID, dto)
	if err != nil {
		h.Logger.Error("AssignRole: service error", "error", err, "staff_id", staffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, row)
}

func (h *Handler) TerminateRole(w http.ResponseWriter, r *http.Request) {
	_, staffID, ok := h.actorAndStaffID(w, r)
	if !ok {
		return
	}
	roleID, err := uuid.Parse(chi.URLParam(r, "roleID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	var dto TerminateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("TerminateRole: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.TerminateRole(r.Context(), staffID, roleID, dto); err != nil {
		h.Logger.Error("TerminateRole: service error", "error", err, "staff_id", staffID, "role_id", roleID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "terminated"})
}

func (h *Handler) GetStaffAssignments(w http.ResponseWriter, r *http.Request) {
	_, staffID, ok := h.actorAndStaffID(w, r)
	if !ok {
		return
	}

	view, err := h.Service.GetStaffAssignments(r.Context(), staffID)
	if err != nil {
		h.Logger.Error("GetStaffAssignments: service error", "error", err, "staff_id", staffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}
