package assignment

import (
	"time"

	"github.com/google/uuid"
	"github.com/lihess/lihess-backend/internal"
)

type TransferCoEDTO struct {
	CoEID     uuid.UUID `json:"coe_id"`
	StartDate time.Time `json:"start_date"`
}

func (dto TransferCoEDTO) Validate() error {
	if dto.CoEID == uuid.Nil {
		return internal.NewValidationFieldError("coe_id", "coe_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.StartDate.IsZero() {
		return internal.NewValidationFieldError("start_date", "start_date is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type AssignDepartmentDTO struct {
	DepartmentID uuid.UUID `json:"department_id"`
	StartDate    time.Time `json:"start_date"`
}

func (dto AssignDepartmentDTO) Validate() error {
	if dto.DepartmentID == uuid.Nil {
		return internal.NewValidationFieldError("department_id", "department_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.StartDate.IsZero() {
		return internal.NewValidationFieldError("start_date", "start_date is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type AssignPositionDTO struct {
	PositionID uuid.UUID `json:"position_id"`
	StartDate  time.Time `json:"start_date"`
}

func (dto AssignPositionDTO) Validate() error {
	if dto.PositionID == uuid.Nil {
		return internal.NewValidationFieldError("position_id", "position_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.StartDate.IsZero() {
		return internal.NewValidationFieldError("start_date", "start_date is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type AssignGrantDTO struct {
	GrantID            uuid.UUID `json:"grant_id"`
	WorkTimePercentage int       `json:"work_time_percentage"`
	StartDate          time.Time `json:"start_date"`
}

func (dto AssignGrantDTO) Validate() error {
	if dto.GrantID == uuid.Nil {
		return internal.NewValidationFieldError("grant_id", "grant_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.StartDate.IsZero() {
		return internal.NewValidationFieldError("start_date", "start_date is required", internal.ErrCodeValidationFailed)
	}
	if dto.WorkTimePercentage < MinWorkTimePercentage || dto.WorkTimePercentage > MaxWorkTimePercentage {
		return internal.NewValidationError("work_time_percentage must be between 0 and 100", internal.ErrCodeInvalidPercentage)
	}
	return nil
}

type AssignWorkgroupDTO struct {
	WorkgroupID uuid.UUID `json:"workgroup_id"`
	StartDate   time.Time `json:"start_date"`
}

func (dto AssignWorkgroupDTO) Validate() error {
	if dto.WorkgroupID == uuid.Nil {
		return internal.NewValidationFieldError("workgroup_id", "workgroup_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.StartDate.IsZero() {
		return internal.NewValidationFieldError("start_date", "start_date is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type AssignRoleDTO struct {
	RoleID    uuid.UUID `json:"role_id"`
	StartDate time.Time `json:"start_date"`
}

func (dto AssignRoleDTO) Validate() error {
	if dto.RoleID == uuid.Nil {
		return internal.NewValidationFieldError("role_id", "role_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.StartDate.IsZero() {
		return internal.NewValidationFieldError("start_date", "start_date is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// TerminateDTO closes an open assignment at the given date.
type TerminateDTO struct {
	EndDate time.Time `json:"end_date"`
}

func (dto TerminateDTO) Validate() error {
	if dto.EndDate.IsZero() {
		return internal.NewValidationFieldError("end_date", "end_date is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
