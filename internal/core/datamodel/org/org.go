package org

import (
	"time"

	"github.com/google/uuid"
)

type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Role) TableName() string { return "roles" }

// PositionType carries the category that drives side effect policy on
// position changes and approver eligibility.
type PositionType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	Category  string    `gorm:"column:category;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PositionType) TableName() string { return "position_types" }

type Position struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title          string    `gorm:"column:title;not null"`
	PositionTypeID uuid.UUID `gorm:"column:position_type_id;type:uuid;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Position) TableName() string { return "positions" }

// CoE is a center of excellence. Its number forms the prefix of staff
// usernames, so a transfer between CoEs renames the login.
type CoE struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"column:name;uniqueIndex;not null"`
	Number     string    `gorm:"column:number;uniqueIndex;not null"`
	CenterName string    `gorm:"column:center_name"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CoE) TableName() string { return "coes" }

type Directorate struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Directorate) TableName() string { return "directorates" }

type Department struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	DirectorateID uuid.UUID `gorm:"column:directorate_id;type:uuid;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Department) TableName() string { return "departments" }

type Grant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Code      string    `gorm:"column:code;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Grant) TableName() string { return "grants" }
