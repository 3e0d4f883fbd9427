package staff

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lihess/lihess-backend/internal"
)

type CreateStaffDTO struct {
	EmployeeNumber   string     `json:"employee_number"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Title            string     `json:"title"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Gender           string     `json:"gender"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	HomeAddress      string     `json:"home_address"`
	HighestEducation string     `json:"highest_education"`
	FieldOfStudy     string     `json:"field_of_study"`
	HireDate         time.Time  `json:"hire_date"`

	CoEID        uuid.UUID `json:"coe_id"`
	DepartmentID uuid.UUID `json:"department_id"`
	PositionID   uuid.UUID `json:"position_id"`

	GrantID            *uuid.UUID `json:"grant_id"`
	WorkTimePercentage int        `json:"work_time_percentage"`
	RoleID             *uuid.UUID `json:"role_id"`
}

func (dto CreateStaffDTO) Validate() error {
	if strings.TrimSpace(dto.EmployeeNumber) == "" {
		return internal.NewValidationFieldError("employee_number", "employee_number is required", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(dto.FirstName) == "" || strings.TrimSpace(dto.LastName) == "" {
		return internal.NewValidationFieldError("first_name", "first_name and last_name are required", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(dto.Email) == "" || !strings.Contains(dto.Email, "@") {
		return internal.NewValidationFieldError("email", "a valid email is required", internal.ErrCodeValidationFailed)
	}
	if dto.HireDate.IsZero() {
		return internal.NewValidationFieldError("hire_date", "hire_date is required", internal.ErrCodeValidationFailed)
	}
	if dto.CoEID == uuid.Nil {
		return internal.NewValidationFieldError("coe_id", "coe_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.DepartmentID == uuid.Nil {
		return internal.NewValidationFieldError("department_id", "department_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.PositionID == uuid.Nil {
		return internal.NewValidationFieldError("position_id", "position_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.GrantID != nil && (dto.WorkTimePercentage < 0 || dto.WorkTimePercentage > 100) {
		return internal.NewValidationFieldError("work_time_percentage", "work_time_percentage must be between 0 and 100", internal.ErrCodeInvalidPercentage)
	}
	return nil
}

// UpdateUserInfoDTO changes personal fields; the optional assignment targets
// are delegated to the assignment manager so side effects still apply.
type UpdateUserInfoDTO struct {
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	Phone       *string    `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`

	CoEID        *uuid.UUID `json:"coe_id"`
	DepartmentID *uuid.UUID `json:"department_id"`
	PositionID   *uuid.UUID `json:"position_id"`
	StartDate    time.Time  `json:"start_date"`
}

func (dto UpdateUserInfoDTO) Validate() error {
	if dto.FirstName != nil && strings.TrimSpace(*dto.FirstName) == "" {
		return internal.NewValidationFieldError("first_name", "first_name must not be blank", internal.ErrCodeValidationFailed)
	}
	if dto.LastName != nil && strings.TrimSpace(*dto.LastName) == "" {
		return internal.NewValidationFieldError("last_name", "last_name must not be blank", internal.ErrCodeValidationFailed)
	}
	hasAssignment := dto.CoEID != nil || dto.DepartmentID != nil || dto.PositionID != nil
	if hasAssignment && dto.StartDate.IsZero() {
		return internal.NewValidationFieldError("start_date", "start_date is required when reassigning", internal.ErrCodeValidationFailed)
	}
	return nil
}

type TerminateStaffDTO struct {
	TerminationDate time.Time `json:"termination_date"`
}

func (dto TerminateStaffDTO) Validate() error {
	if dto.TerminationDate.IsZero() {
		return internal.NewValidationFieldError("termination_date", "termination_date is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
