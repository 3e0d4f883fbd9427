package workgroup

import (
	"time"

	"github.com/google/uuid"
)

// Workgroup is an approval routing group scoped to one CoE. Names are
// unique within a CoE, not globally.
type Workgroup struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CoEID       uuid.UUID `gorm:"column:coe_id;type:uuid;not null;uniqueIndex:uq_workgroup_coe_name"`
	Name        string    `gorm:"column:name;not null;uniqueIndex:uq_workgroup_coe_name"`
	Description string    `gorm:"column:description"`
	CreatedBy   uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Workgroup) TableName() string { return "workgroups" }

// Approver occupies one order slot in a workgroup's approval chain.
// Orders 1 and 2 decide, orders 3 and 4 are notify only.
type Approver struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	WorkgroupID uuid.UUID  `gorm:"column:workgroup_id;type:uuid;not null"`
	StaffID     uuid.UUID  `gorm:"column:staff_id;type:uuid;not null"`
	Order       int        `gorm:"column:approval_order;not null"`
	NotifyOnly  bool       `gorm:"column:notify_only;not null;default:false"`
	StartDate   time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate     *time.Time `gorm:"column:end_date;type:date"`
	AssignedBy  uuid.UUID  `gorm:"column:assigned_by;type:uuid;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Approver) TableName() string { return "workgroup_approvers" }

func (a *Approver) IsOpen() bool { return a.EndDate == nil }

// Deciding reports whether this slot takes part in the two step decision
// chain rather than being a notify only observer.
func (a *Approver) Deciding() bool { return a.Order == 1 || a.Order == 2 }
