package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending               = "pending"
	StatusPendingSecondApproval = "pending_second_approval"
	StatusApproved              = "approved"
	StatusDeclined              = "declined"
	StatusCancelled             = "cancelled"
)

type LeaveType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (LeaveType) TableName() string { return "leave_types" }

// LeavePolicy bounds the requestable day count per leave type and position
// category. One policy row per (leave type, position type) pair.
type LeavePolicy struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	LeaveTypeID    uuid.UUID `gorm:"column:leave_type_id;type:uuid;not null;uniqueIndex:uq_policy_type_position"`
	PositionTypeID uuid.UUID `gorm:"column:position_type_id;type:uuid;not null;uniqueIndex:uq_policy_type_position"`
	MinDays        float64   `gorm:"column:min_days;not null"`
	MaxDays        float64   `gorm:"column:max_days;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (LeavePolicy) TableName() string { return "leave_policies" }

type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	StaffID     uuid.UUID `gorm:"column:staff_id;type:uuid;not null"`
	LeaveTypeID uuid.UUID `gorm:"column:leave_type_id;type:uuid;not null"`
	Year        int       `gorm:"column:year;not null"`
	Entitled    float64   `gorm:"column:entitled;not null"`
	Taken       float64   `gorm:"column:taken;not null;default:0"`
	Remaining   float64   `gorm:"column:remaining;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveBalance) TableName() string { return "leave_balances" }

type LeaveApplication struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	StaffID       uuid.UUID  `gorm:"column:staff_id;type:uuid;not null"`
	LeaveTypeID   uuid.UUID  `gorm:"column:leave_type_id;type:uuid;not null"`
	WorkgroupID   uuid.UUID  `gorm:"column:workgroup_id;type:uuid;not null"`
	StartDate     time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate       time.Time  `gorm:"column:end_date;type:date;not null"`
	Days          float64    `gorm:"column:days;not null"`
	Reason        string     `gorm:"column:reason"`
	Status        string     `gorm:"column:status;default:pending"`
	DeclineReason *string    `gorm:"column:decline_reason"`
	DecidedBy     *uuid.UUID `gorm:"column:decided_by;type:uuid"`
	DecidedAt     *time.Time `gorm:"column:decided_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveApplication) TableName() string { return "leave_applications" }

type PublicHoliday struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Date      time.Time `gorm:"column:holiday_date;type:date;uniqueIndex;not null"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PublicHoliday) TableName() string { return "public_holidays" }
