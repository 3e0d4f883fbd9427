package org

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	leaveModel "github.com/lihess/lihess-backend/internal/core/datamodel/leave"
	orgModel "github.com/lihess/lihess-backend/internal/core/datamodel/org"
	"github.com/lihess/lihess-backend/internal/transport"
	"github.com/lihess/lihess-backend/pkg/logger"
)

type ServiceAPI interface {
	CreateCoE(ctx context.Context, dto CreateCoEDTO) (*orgModel.CoE, error)
	ListCoEs(ctx context.Context) ([]*orgModel.CoE, error)
	CreateDirectorate(ctx context.Context, dto CreateDirectorateDTO) (*orgModel.Directorate, error)
	ListDirectorates(ctx context.Context) ([]*orgModel.Directorate, error)
	CreateDepartment(ctx context.Context, dto CreateDepartmentDTO) (*orgModel.Department, error)
	ListDepartments(ctx context.Context) ([]*orgModel.Department, error)
	ListPositionTypes(ctx context.Context) ([]*orgModel.PositionType, error)
	CreatePosition(ctx context.Context, dto CreatePositionDTO) (*orgModel.Position, error)
	ListPositions(ctx context.Context) ([]*orgModel.Position, error)
	CreateGrant(ctx context.Context, dto CreateGrantDTO) (*orgModel.Grant, error)
	ListGrants(ctx context.Context) ([]*orgModel.Grant, error)
	ListRoles(ctx context.Context) ([]*orgModel.Role, error)
	CreateLeaveType(ctx context.Context, dto CreateLeaveTypeDTO) (*LeaveTypeDetail, error)
	CreateLeavePolicy(ctx context.Context, dto CreateLeavePolicyDTO) (*leaveModel.LeavePolicy, error)
	ListLeaveTypes(ctx context.Context) ([]*LeaveTypeDetail, error)
	CreateHoliday(ctx context.Context, dto CreateHolidayDTO) (*leaveModel.PublicHoliday, error)
	ListHolidays(ctx context.Context, year int) ([]*leaveModel.PublicHoliday, error)
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

// create decodes the body into dto, runs fn and writes the result. All
// dictionary creates share this shape.
func create[D any, T any](h *Handler, w http.ResponseWriter, r *http.Request, fn func(context.Context, D) (T, error)) {
	var dto D
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	row, err := fn(r.Context(), dto)
	if err != nil {
		h.Logger.Error("dictionary create failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, row)
}

func list[T any](h *Handler, w http.ResponseWriter, r *http.Request, fn func(context.Context) ([]T, error)) {
	rows, err := fn(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) CreateCoE(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, h.Service.CreateCoE)
}

func (h *Handler) ListCoEs(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, h.Service.ListCoEs)
}

func (h *Handler) CreateDirectorate(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, h.Service.CreateDirectorate)
}

func (h *Handler) ListDirectorates(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, h.Service.ListDirectorates)
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, h.Service.CreateDepartment)
}

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, h.Service.ListDepartments)
}

func (h *Handler) ListPositionTypes(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, h.Service.ListPositionTypes)
}

func (h *Handler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, h.Service.CreatePosition)
}

func (h *Handler) ListPositions(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, h.Service.ListPositions)
}

func (h *Handler) CreateGrant(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, h.Service.CreateGrant)
}

func (h *Handler) ListGrants(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, h.Service.ListGrants)
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, h.Service.ListRoles)
}

func (h *Handler) CreateLeaveType(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, h.Service.CreateLeaveType)
}

func (h *Handler) CreateLeavePolicy(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, h.Service.CreateLeavePolicy)
}

func (h *Handler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	list(h, w, r, h.Service.ListLeaveTypes)
}

func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, h.Service.CreateHoliday)
}

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if q := r.URL.Query().Get("year"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}
	rows, err := h.Service.ListHolidays(r.Context(), year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rows)
}
