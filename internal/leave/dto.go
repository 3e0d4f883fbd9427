package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/lihess/lihess-backend/internal"
)

type ApplyLeaveDTO struct {
	LeaveTypeID uuid.UUID `json:"leave_type_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Reason      string    `json:"reason"`
}

func (dto ApplyLeaveDTO) Validate() error {
	if dto.LeaveTypeID == uuid.Nil {
		return internal.NewValidationFieldError("leave_type_id", "leave_type_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.StartDate.IsZero() || dto.EndDate.IsZero() {
		return internal.NewValidationFieldError("start_date", "start_date and end_date are required", internal.ErrCodeValidationFailed)
	}
	if dto.EndDate.Before(dto.StartDate) {
		return internal.NewValidationFieldError("end_date", "end_date must not be before start_date", internal.ErrCodeValidationFailed)
	}
	return nil
}

type DeclineLeaveDTO struct {
	Reason string `json:"reason"`
}

func (dto DeclineLeaveDTO) Validate() error {
	if dto.Reason == "" {
		return internal.NewValidationFieldError("reason", "reason is required when declining", internal.ErrCodeValidationFailed)
	}
	return nil
}
