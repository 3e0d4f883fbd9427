package workgroup

import (
	"time"

	"github.com/google/uuid"
	"github.com/lihess/lihess-backend/internal"
)

type CreateWorkgroupDTO struct {
	CoEID       uuid.UUID `json:"coe_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

func (dto CreateWorkgroupDTO) Validate() error {
	if dto.CoEID == uuid.Nil {
		return internal.NewValidationFieldError("coe_id", "coe_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.Name) > 120 {
		return internal.NewValidationFieldError("name", "name must be at most 120 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

type AddApproverDTO struct {
	StaffID    uuid.UUID `json:"staff_id"`
	Order      int       `json:"order"`
	NotifyOnly bool      `json:"notify_only"`
	StartDate  time.Time `json:"start_date"`
}

func (dto AddApproverDTO) Validate() error {
	if dto.StaffID == uuid.Nil {
		return internal.NewValidationFieldError("staff_id", "staff_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.StartDate.IsZero() {
		return internal.NewValidationFieldError("start_date", "start_date is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type AddMemberDTO struct {
	StaffID   uuid.UUID `json:"staff_id"`
	StartDate time.Time `json:"start_date"`
}

func (dto AddMemberDTO) Validate() error {
	if dto.StaffID == uuid.Nil {
		return internal.NewValidationFieldError("staff_id", "staff_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.StartDate.IsZero() {
		return internal.NewValidationFieldError("start_date", "start_date is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type RemoveDTO struct {
	EndDate time.Time `json:"end_date"`
}

func (dto RemoveDTO) Validate() error {
	if dto.EndDate.IsZero() {
		return internal.NewValidationFieldError("end_date", "end_date is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
