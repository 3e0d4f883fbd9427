package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/lihess/lihess-backend/internal"
	orgModel "github.com/lihess/lihess-backend/internal/core/datamodel/org"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
	"github.com/lihess/lihess-backend/internal/staff"
)

// SheetName is the workbook sheet the import reads.
const SheetName = "staff"

const dateLayout = "2006-01-02"

// Column layout of the staff workbook, after one header row:
// employee_number, first_name, last_name, email, phone, hire_date,
// coe_number, department, position, grant_code, work_time_pct, role.
const (
	colEmployeeNumber = iota
	colFirstName
	colLastName
	colEmail
	colPhone
	colHireDate
	colCoENumber
	colDepartment
	colPosition
	colGrantCode
	colWorkTimePct
	colRole
	columnCount
)

// Repository resolves the dictionary names a workbook row refers to.
type Repository interface {
	FindCoEByNumber(number string) (*orgModel.CoE, error)
	FindDepartmentByName(name string) (*orgModel.Department, error)
	FindPositionByTitle(title string) (*orgModel.Position, error)
	FindGrantByCode(code string) (*orgModel.Grant, error)
	FindRoleByName(name string) (*orgModel.Role, error)
}

// StaffAPI is the slice of the staff service each valid row goes through.
type StaffAPI interface {
	CreateStaff(ctx context.Context, actorID uuid.UUID, dto staff.CreateStaffDTO) (*staffModel.Staff, error)
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type Result struct {
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors,omitempty"`
}

type Service struct {
	repo   Repository
	staff  StaffAPI
	logger *slog.Logger
}

func NewService(repo Repository, staffAPI StaffAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		staff:  staffAPI,
		logger: logger,
	}
}

// ImportWorkbook reads the staff sheet and creates one staff member per
// data row. A bad row is reported and skipped; valid rows still import.
func (s *Service) ImportWorkbook(ctx context.Context, actorID uuid.UUID, r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, internal.NewValidationError("Unable to open workbook", internal.ErrCodeValidationFailed)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, internal.NewValidationError(
			fmt.Sprintf("Workbook has no %q sheet", SheetName), internal.ErrCodeValidationFailed)
	}

	result := &Result{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		rowNumber := i + 1

		dto, err := s.rowToDTO(row)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: rowNumber, Message: err.Error()})
			continue
		}

		if _, err := s.staff.CreateStaff(ctx, actorID, *dto); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: rowNumber, Message: err.Error()})
			continue
		}
		result.Imported++
	}

	s.logger.Info("staff workbook imported",
		"imported", result.Imported, "failed", result.Failed)
	return result, nil
}

func (s *Service) rowToDTO(row []string) (*staff.CreateStaffDTO, error) {
	cell := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	if cell(colEmployeeNumber) == "" {
		return nil, fmt.Errorf("employee_number is empty")
	}

	hireDate, err := time.Parse(dateLayout, cell(colHireDate))
	if err != nil {
		return nil, fmt.Errorf("hire_date %q is not in %s format", cell(colHireDate), dateLayout)
	}

	coe, err := s.repo.FindCoEByNumber(cell(colCoENumber))
	if err != nil {
		return nil, err
	}
	if coe == nil {
		return nil, fmt.Errorf("unknown coe number %q", cell(colCoENumber))
	}
	department, err := s.repo.FindDepartmentByName(cell(colDepartment))
	if err != nil {
		return nil, err
	}
	if department == nil {
		return nil, fmt.Errorf("unknown department %q", cell(colDepartment))
	}
	position, err := s.repo.FindPositionByTitle(cell(colPosition))
	if err != nil {
		return nil, err
	}
	if position == nil {
		return nil, fmt.Errorf("unknown position %q", cell(colPosition))
	}

	dto := &staff.CreateStaffDTO{
		EmployeeNumber: cell(colEmployeeNumber),
		FirstName:      cell(colFirstName),
		LastName:       cell(colLastName),
		Email:          cell(colEmail),
		Phone:          cell(colPhone),
		HireDate:       hireDate,
		CoEID:          coe.ID,
		DepartmentID:   department.ID,
		PositionID:     position.ID,
	}

	if code := cell(colGrantCode); code != "" {
		grant, err := s.repo.FindGrantByCode(code)
		if err != nil {
			return nil, err
		}
		if grant == nil {
			return nil, fmt.Errorf("unknown grant code %q", code)
		}
		pct, err := strconv.Atoi(cell(colWorkTimePct))
		if err != nil {
			return nil, fmt.Errorf("work_time_percentage %q is not a number", cell(colWorkTimePct))
		}
		dto.GrantID = &grant.ID
		dto.WorkTimePercentage = pct
	}

	if name := cell(colRole); name != "" {
		role, err := s.repo.FindRoleByName(name)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, fmt.Errorf("unknown role %q", name)
		}
		dto.RoleID = &role.ID
	}

	return dto, nil
}
