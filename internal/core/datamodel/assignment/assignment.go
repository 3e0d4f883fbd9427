package assignment

import (
	"time"

	"github.com/google/uuid"
)

// Window is the validity interval shared by every assignment row. An open
// row has a nil EndDate; partial unique indexes in the schema guarantee at
// most one open row per entity and kind.
type Window struct {
	StartDate  time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate    *time.Time `gorm:"column:end_date;type:date"`
	AssignedBy uuid.UUID  `gorm:"column:assigned_by;type:uuid;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (w *Window) IsOpen() bool { return w.EndDate == nil }

type RoleAssignment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID uuid.UUID `gorm:"column:account_id;type:uuid;not null"`
	RoleID    uuid.UUID `gorm:"column:role_id;type:uuid;not null"`
	Window
}

func (RoleAssignment) TableName() string { return "role_assignments" }

type PositionAssignment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	StaffID    uuid.UUID `gorm:"column:staff_id;type:uuid;not null"`
	PositionID uuid.UUID `gorm:"column:position_id;type:uuid;not null"`
	Window
}

func (PositionAssignment) TableName() string { return "position_assignments" }

type CoEAssignment struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	StaffID uuid.UUID `gorm:"column:staff_id;type:uuid;not null"`
	CoEID   uuid.UUID `gorm:"column:coe_id;type:uuid;not null"`
	Window
}

func (CoEAssignment) TableName() string { return "coe_assignments" }

type DepartmentAssignment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	StaffID      uuid.UUID `gorm:"column:staff_id;type:uuid;not null"`
	DepartmentID uuid.UUID `gorm:"column:department_id;type:uuid;not null"`
	IsHod        bool      `gorm:"column:is_hod;default:false"`
	Window
}

func (DepartmentAssignment) TableName() string { return "department_assignments" }

type DirectorAssignment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	StaffID       uuid.UUID `gorm:"column:staff_id;type:uuid;not null"`
	DirectorateID uuid.UUID `gorm:"column:directorate_id;type:uuid;not null"`
	Window
}

func (DirectorAssignment) TableName() string { return "director_assignments" }

// GrantAssignment rows are the one assignment kind that allows several open
// rows per staff member, one per grant, each with a work time share.
type GrantAssignment struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	StaffID            uuid.UUID `gorm:"column:staff_id;type:uuid;not null"`
	GrantID            uuid.UUID `gorm:"column:grant_id;type:uuid;not null"`
	WorkTimePercentage int       `gorm:"column:work_time_percentage;not null"`
	Window
}

func (GrantAssignment) TableName() string { return "grant_assignments" }

type WorkgroupAssignment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	StaffID     uuid.UUID `gorm:"column:staff_id;type:uuid;not null"`
	WorkgroupID uuid.UUID `gorm:"column:workgroup_id;type:uuid;not null"`
	Window
}

func (WorkgroupAssignment) TableName() string { return "workgroup_assignments" }
