package workgroup

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/lihess/lihess-backend/internal"
	assignmentModel "github.com/lihess/lihess-backend/internal/core/datamodel/assignment"
	workgroupModel "github.com/lihess/lihess-backend/internal/core/datamodel/workgroup"
	"github.com/lihess/lihess-backend/internal/transport"
	"github.com/lihess/lihess-backend/pkg/logger"
)

type ServiceAPI interface {
	CreateWorkgroup(ctx context.Context, actorID uuid.UUID, dto CreateWorkgroupDTO) (*workgroupModel.Workgroup, error)
	AddApprover(ctx context.Context, actorID, workgroupID uuid.UUID, dto AddApproverDTO) (*workgroupModel.Approver, error)
	RemoveApprover(ctx context.Context, workgroupID, staffID uuid.UUID, dto RemoveDTO) error
	AddMember(ctx context.Context, actorID, workgroupID uuid.UUID, dto AddMemberDTO) (*assignmentModel.WorkgroupAssignment, error)
	RemoveMember(ctx context.Context, workgroupID, staffID uuid.UUID, dto RemoveDTO) error
	GetWorkgroup(ctx context.Context, workgroupID uuid.UUID) (*WorkgroupView, error)
	ListWorkgroups(ctx context.Context) ([]*workgroupModel.Workgroup, error)
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

func (h *Handler) actorAndWorkgroupID(w http.ResponseWriter, r *http.Request) (*internal.Actor, uuid.UUID, bool) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, uuid.Nil, false
	}
	workgroupID, err := uuid.Parse(chi.URLParam(r, "workgroupID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid workgroup ID")
		return nil, uuid.Nil, false
	}
	return actor, workgroupID, true
}

func (h *Handler) CreateWorkgroup(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateWorkgroupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateWorkgroup: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wg, err := h.Service.CreateWorkgroup(r.Context(), actor.UserID, dto)
	if err != nil {
		h.Logger.Error("CreateWorkgroup: service error", "error", err, "name", dto.Name)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, wg)
}

func (h *Handler) GetWorkgroup(w http.ResponseWriter, r *http.Request) {
	_, workgroupID, ok := h.actorAndWorkgroupID(w, r)
	if !ok {
		return
	}

	view, err := h.Service.GetWorkgroup(r.Context(), workgroupID)
	if err != nil {
		h.Logger.Error("GetWorkgroup: service error", "error", err, "workgroup_id", workgroupID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) ListWorkgroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Service.ListWorkgroups(r.Context())
	if err != nil {
		h.Logger.Error("ListWorkgroups: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"workgroups": groups})
}

func (h *Handler) AddApprover(w http.ResponseWriter, r *http.Request) {
	actor, workgroupID, ok := h.actorAndWorkgroupID(w, r)
	if !ok {
		return
	}

	var dto AddApproverDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AddApprover: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.AddApprover(r.Context(), actor.UserID, workgroupID, dto)
	if err != nil {
		h.Logger.Error("AddApprover: service error", "error", err, "workgroup_id", workgroupID, "staff_id", dto.StaffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, row)
}

func (h *Handler) RemoveApprover(w http.ResponseWriter, r *http.Request) {
	_, workgroupID, ok := h.actorAndWorkgroupID(w, r)
	if !ok {
		return
	}
	staffID, err := uuid.Parse(chi.URLParam(r, "staffID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid staff ID")
		return
	}

	var dto RemoveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RemoveApprover: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.RemoveApprover(r.Context(), workgroupID, staffID, dto); err != nil {
		h.Logger.Error("RemoveApprover: service error", "error", err, "workgroup_id", workgroupID, "staff_id", staffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	actor, workgroupID, ok := h.actorAndWorkgroupID(w, r)
	if !ok {
		return
	}

	var dto AddMemberDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AddMember: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.AddMember(r.Context(), actor.UserID, workgroupID, dto)
	if err != nil {
		h.Logger.Error("AddMember: service error", "error", err, "workgroup_id", workgroupID, "staff_id", dto.StaffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, row)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	_, workgroupID, ok := h.actorAndWorkgroupID(w, r)
	if !ok {
		return
	}
	staffID, err := uuid.Parse(chi.URLParam(r, "staffID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid staff ID")
		return
	}

	var dto RemoveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RemoveMember: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.RemoveMember(r.Context(), workgroupID, staffID, dto); err != nil {
		h.Logger.Error("RemoveMember: service error", "error", err, "workgroup_id", workgroupID, "staff_id", staffID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
