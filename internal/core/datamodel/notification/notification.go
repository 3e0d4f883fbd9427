package notification

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	StaffID   uuid.UUID  `gorm:"column:staff_id;type:uuid;not null"`
	Subject   string     `gorm:"column:subject;not null"`
	Message   string     `gorm:"column:message;not null"`
	IsRead    bool       `gorm:"column:is_read;default:false"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string { return "notifications" }
