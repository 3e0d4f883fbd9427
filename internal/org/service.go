package org

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lihess/lihess-backend/internal"
	leaveModel "github.com/lihess/lihess-backend/internal/core/datamodel/leave"
	orgModel "github.com/lihess/lihess-backend/internal/core/datamodel/org"
)

// Repository is the data access contract for the organizational
// dictionaries. Find methods return (nil, nil) when nothing matches.
type Repository interface {
	FindCoEByNumber(number string) (*orgModel.CoE, error)
	CreateCoE(row *orgModel.CoE) error
	ListCoEs() ([]*orgModel.CoE, error)

	FindDirectorateByName(name string) (*orgModel.Directorate, error)
	GetDirectorate(id uuid.UUID) (*orgModel.Directorate, error)
	CreateDirectorate(row *orgModel.Directorate) error
	ListDirectorates() ([]*orgModel.Directorate, error)

	CreateDepartment(row *orgModel.Department) error
	ListDepartments() ([]*orgModel.Department, error)

	GetPositionType(id uuid.UUID) (*orgModel.PositionType, error)
	ListPositionTypes() ([]*orgModel.PositionType, error)
	CreatePosition(row *orgModel.Position) error
	ListPositions() ([]*orgModel.Position, error)

	FindGrantByCode(code string) (*orgModel.Grant, error)
	CreateGrant(row *orgModel.Grant) error
	ListGrants() ([]*orgModel.Grant, error)

	ListRoles() ([]*orgModel.Role, error)

	FindLeaveTypeByName(name string) (*leaveModel.LeaveType, error)
	GetLeaveType(id uuid.UUID) (*leaveModel.LeaveType, error)
	CreateLeaveType(row *leaveModel.LeaveType, policy *leaveModel.LeavePolicy) error
	ListLeaveTypes() ([]*leaveModel.LeaveType, error)
	FindPolicy(leaveTypeID, positionTypeID uuid.UUID) (*leaveModel.LeavePolicy, error)
	CreatePolicy(row *leaveModel.LeavePolicy) error
	ListPolicies() ([]*leaveModel.LeavePolicy, error)

	FindHolidayByDate(date time.Time) (*leaveModel.PublicHoliday, error)
	CreateHoliday(row *leaveModel.PublicHoliday) error
	ListHolidays(year int) ([]*leaveModel.PublicHoliday, error)
}

// LeaveTypeDetail pairs a leave type with the policy bounds for one
// position category. A type with policies for several categories appears
// once per policy.
type LeaveTypeDetail struct {
	leaveModel.LeaveType
	PositionTypeID uuid.UUID `json:"position_type_id"`
	MinDays        float64   `json:"min_days"`
	MaxDays        float64   `json:"max_days"`
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateCoE(ctx context.Context, dto CreateCoEDTO) (*orgModel.CoE, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindCoEByNumber(dto.Number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("CoE number already in use", internal.ErrCodeDuplicateDictionary)
	}
	row := &orgModel.CoE{
		ID:         uuid.New(),
		Name:       dto.Name,
		Number:     dto.Number,
		CenterName: dto.CenterName,
	}
	if err := s.repo.CreateCoE(row); err != nil {
		return nil, err
	}
	s.logger.Info("coe created", "coe_id", row.ID, "number", row.Number)
	return row, nil
}

func (s *Service) ListCoEs(ctx context.Context) ([]*orgModel.CoE, error) {
	return s.repo.ListCoEs()
}

func (s *Service) CreateDirectorate(ctx context.Context, dto CreateDirectorateDTO) (*orgModel.Directorate, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindDirectorateByName(dto.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("Directorate name already in use", internal.ErrCodeDuplicateDictionary)
	}
	row := &orgModel.Directorate{ID: uuid.New(), Name: dto.Name}
	if err := s.repo.CreateDirectorate(row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Service) ListDirectorates(ctx context.Context) ([]*orgModel.Directorate, error) {
	return s.repo.ListDirectorates()
}

func (s *Service) CreateDepartment(ctx context.Context, dto CreateDepartmentDTO) (*orgModel.Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetDirectorate(dto.DirectorateID); err != nil {
		return nil, err
	}
	row := &orgModel.Department{
		ID:            uuid.New(),
		Name:          dto.Name,
		DirectorateID: dto.DirectorateID,
	}
	if err := s.repo.CreateDepartment(row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Service) ListDepartments(ctx context.Context) ([]*orgModel.Department, error) {
	return s.repo.ListDepartments()
}

func (s *Service) ListPositionTypes(ctx context.Context) ([]*orgModel.PositionType, error) {
	return s.repo.ListPositionTypes()
}

func (s *Service) CreatePosition(ctx context.Context, dto CreatePositionDTO) (*orgModel.Position, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetPositionType(dto.PositionTypeID); err != nil {
		return nil, err
	}
	row := &orgModel.Position{
		ID:             uuid.New(),
		Title:          dto.Title,
		PositionTypeID: dto.PositionTypeID,
	}
	if err := s.repo.CreatePosition(row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Service) ListPositions(ctx context.Context) ([]*orgModel.Position, error) {
	return s.repo.ListPositions()
}

func (s *Service) CreateGrant(ctx context.Context, dto CreateGrantDTO) (*orgModel.Grant, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindGrantByCode(dto.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("Grant code already in use", internal.ErrCodeDuplicateDictionary)
	}
	row := &orgModel.Grant{ID: uuid.New(), Name: dto.Name, Code: dto.Code}
	if err := s.repo.CreateGrant(row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Service) ListGrants(ctx context.Context) ([]*orgModel.Grant, error) {
	return s.repo.ListGrants()
}

func (s *Service) ListRoles(ctx context.Context) ([]*orgModel.Role, error) {
	return s.repo.ListRoles()
}

// CreateLeaveType writes the type and its first policy together so a type
// can never exist without requestable day limits. Bounds for further
// position categories are added through CreateLeavePolicy.
func (s *Service) CreateLeaveType(ctx context.Context, dto CreateLeaveTypeDTO) (*LeaveTypeDetail, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindLeaveTypeByName(dto.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("Leave type already exists", internal.ErrCodeDuplicateDictionary)
	}
	if _, err := s.repo.GetPositionType(dto.PositionTypeID); err != nil {
		return nil, err
	}
	row := &leaveModel.LeaveType{ID: uuid.New(), Name: dto.Name}
	policy := &leaveModel.LeavePolicy{
		ID:             uuid.New(),
		LeaveTypeID:    row.ID,
		PositionTypeID: dto.PositionTypeID,
		MinDays:        dto.MinDays,
		MaxDays:        dto.MaxDays,
	}
	if err := s.repo.CreateLeaveType(row, policy); err != nil {
		return nil, err
	}
	return &LeaveTypeDetail{
		LeaveType:      *row,
		PositionTypeID: policy.PositionTypeID,
		MinDays:        policy.MinDays,
		MaxDays:        policy.MaxDays,
	}, nil
}

// CreateLeavePolicy adds day bounds for another position category to an
// existing leave type.
func (s *Service) CreateLeavePolicy(ctx context.Context, dto CreateLeavePolicyDTO) (*leaveModel.LeavePolicy, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetLeaveType(dto.LeaveTypeID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetPositionType(dto.PositionTypeID); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindPolicy(dto.LeaveTypeID, dto.PositionTypeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("Leave policy already exists for this position category", internal.ErrCodeDuplicateDictionary)
	}
	row := &leaveModel.LeavePolicy{
		ID:             uuid.New(),
		LeaveTypeID:    dto.LeaveTypeID,
		PositionTypeID: dto.PositionTypeID,
		MinDays:        dto.MinDays,
		MaxDays:        dto.MaxDays,
	}
	if err := s.repo.CreatePolicy(row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Service) ListLeaveTypes(ctx context.Context) ([]*LeaveTypeDetail, error) {
	types, err := s.repo.ListLeaveTypes()
	if err != nil {
		return nil, err
	}
	policies, err := s.repo.ListPolicies()
	if err != nil {
		return nil, err
	}
	bounds := make(map[uuid.UUID][]*leaveModel.LeavePolicy, len(policies))
	for _, p := range policies {
		bounds[p.LeaveTypeID] = append(bounds[p.LeaveTypeID], p)
	}
	out := make([]*LeaveTypeDetail, 0, len(types))
	for _, t := range types {
		matched := bounds[t.ID]
		if len(matched) == 0 {
			out = append(out, &LeaveTypeDetail{LeaveType: *t})
			continue
		}
		for _, p := range matched {
			out = append(out, &LeaveTypeDetail{
				LeaveType:      *t,
				PositionTypeID: p.PositionTypeID,
				MinDays:        p.MinDays,
				MaxDays:        p.MaxDays,
			})
		}
	}
	return out, nil
}

func (s *Service) CreateHoliday(ctx context.Context, dto CreateHolidayDTO) (*leaveModel.PublicHoliday, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindHolidayByDate(dto.Date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("Holiday already registered for that date", internal.ErrCodeDuplicateDictionary)
	}
	row := &leaveModel.PublicHoliday{ID: uuid.New(), Date: dto.Date, Name: dto.Name}
	if err := s.repo.CreateHoliday(row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Service) ListHolidays(ctx context.Context, year int) ([]*leaveModel.PublicHoliday, error) {
	return s.repo.ListHolidays(year)
}
