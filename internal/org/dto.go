package org

import (
	"time"

	"github.com/google/uuid"

	"github.com/lihess/lihess-backend/internal"
)

type CreateCoEDTO struct {
	Name       string `json:"name"`
	Number     string `json:"number"`
	CenterName string `json:"center_name"`
}

func (d *CreateCoEDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if d.Number == "" {
		return internal.NewValidationFieldError("number", "number is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type CreateDirectorateDTO struct {
	Name string `json:"name"`
}

func (d *CreateDirectorateDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type CreateDepartmentDTO struct {
	Name          string    `json:"name"`
	DirectorateID uuid.UUID `json:"directorate_id"`
}

func (d *CreateDepartmentDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if d.DirectorateID == uuid.Nil {
		return internal.NewValidationFieldError("directorate_id", "directorate_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type CreatePositionDTO struct {
	Title          string    `json:"title"`
	PositionTypeID uuid.UUID `json:"position_type_id"`
}

func (d *CreatePositionDTO) Validate() error {
	if d.Title == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
	}
	if d.PositionTypeID == uuid.Nil {
		return internal.NewValidationFieldError("position_type_id", "position_type_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type CreateGrantDTO struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (d *CreateGrantDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if d.Code == "" {
		return internal.NewValidationFieldError("code", "code is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type CreateLeaveTypeDTO struct {
	Name           string    `json:"name"`
	PositionTypeID uuid.UUID `json:"position_type_id"`
	MinDays        float64   `json:"min_days"`
	MaxDays        float64   `json:"max_days"`
}

func (d *CreateLeaveTypeDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if d.PositionTypeID == uuid.Nil {
		return internal.NewValidationFieldError("position_type_id", "position_type_id is required", internal.ErrCodeValidationFailed)
	}
	if d.MinDays <= 0 {
		return internal.NewValidationFieldError("min_days", "min_days must be positive", internal.ErrCodeValidationFailed)
	}
	if d.MaxDays < d.MinDays {
		return internal.NewValidationFieldError("max_days", "max_days must be at least min_days", internal.ErrCodeValidationFailed)
	}
	return nil
}

type CreateLeavePolicyDTO struct {
	LeaveTypeID    uuid.UUID `json:"leave_type_id"`
	PositionTypeID uuid.UUID `json:"position_type_id"`
	MinDays        float64   `json:"min_days"`
	MaxDays        float64   `json:"max_days"`
}

func (d *CreateLeavePolicyDTO) Validate() error {
	if d.LeaveTypeID == uuid.Nil {
		return internal.NewValidationFieldError("leave_type_id", "leave_type_id is required", internal.ErrCodeValidationFailed)
	}
	if d.PositionTypeID == uuid.Nil {
		return internal.NewValidationFieldError("position_type_id", "position_type_id is required", internal.ErrCodeValidationFailed)
	}
	if d.MinDays <= 0 {
		return internal.NewValidationFieldError("min_days", "min_days must be positive", internal.ErrCodeValidationFailed)
	}
	if d.MaxDays < d.MinDays {
		return internal.NewValidationFieldError("max_days", "max_days must be at least min_days", internal.ErrCodeValidationFailed)
	}
	return nil
}

type CreateHolidayDTO struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

func (d *CreateHolidayDTO) Validate() error {
	if d.Date.IsZero() {
		return internal.NewValidationFieldError("date", "date is required", internal.ErrCodeValidationFailed)
	}
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
