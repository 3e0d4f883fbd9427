package assignment

import (
	"fmt"
	"time"

	assignmentModel "github.com/lihess/lihess-backend/internal/core/datamodel/assignment"
)

// Position categories. The category of an assigned position decides which
// side effects a position change triggers.
const (
	CategoryManager     = "manager"
	CategoryDirector    = "director"
	CategoryOfficer     = "officer"
	CategoryCoordinator = "coordinator"
	CategoryGeneral     = "general"
)

// MaxOpenRolesPerAccount caps how many roles an account may hold at once.
const MaxOpenRolesPerAccount = 2

// Work time share bounds for grant assignments.
const (
	MinWorkTimePercentage = 0
	MaxWorkTimePercentage = 100
)

// BecomesHeadOfDepartment reports whether assigning a position of this
// category makes the staff member head of their department, displacing the
// current holder.
func BecomesHeadOfDepartment(category string) bool {
	return category == CategoryManager
}

// BecomesDirector reports whether assigning a position of this category
// makes the staff member director of their directorate, displacing the
// current holder.
func BecomesDirector(category string) bool {
	return category == CategoryDirector
}

// BuildUsername derives the login name a staff member gets inside a CoE.
// A transfer between CoEs therefore renames the login.
func BuildUsername(coeNumber, employeeNumber string) string {
	return fmt.Sprintf("%s_%s", coeNumber, employeeNumber)
}

// StaffAssignmentsView aggregates every open assignment of one staff member.
type StaffAssignmentsView struct {
	StaffID    string                                `json:"staff_id"`
	CoE        *assignmentModel.CoEAssignment        `json:"coe,omitempty"`
	Department *assignmentModel.DepartmentAssignment `json:"department,omitempty"`
	Position   *assignmentModel.PositionAssignment   `json:"position,omitempty"`
	Workgroup  *assignmentModel.WorkgroupAssignment  `json:"workgroup,omitempty"`
	Grants     []*assignmentModel.GrantAssignment    `json:"grants"`
	Roles      []*assignmentModel.RoleAssignment     `json:"roles"`
}

// normalizeDate strips the time of day so window boundaries compare as
// calendar dates.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
