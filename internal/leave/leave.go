package leave

import (
	"time"

	leaveModel "github.com/lihess/lihess-backend/internal/core/datamodel/leave"
)

// Re-exported status values so callers do not need the datamodel import.
const (
	StatusPending               = leaveModel.StatusPending
	StatusPendingSecondApproval = leaveModel.StatusPendingSecondApproval
	StatusApproved              = leaveModel.StatusApproved
	StatusDeclined              = leaveModel.StatusDeclined
	StatusCancelled             = leaveModel.StatusCancelled
)

// CountLeaveDays counts the inclusive calendar span of the request. Both
// bounds count, so a one day leave has start == end.
func CountLeaveDays(start, end time.Time) float64 {
	days := 0.0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// decidingOrderFor maps the application status to the approver order
// allowed to decide it next. Zero means no decision is possible.
func decidingOrderFor(status string) int {
	switch status {
	case StatusPending:
		return 1
	case StatusPendingSecondApproval:
		return 2
	default:
		return 0
	}
}

// LeaveView is the application together with display names.
type LeaveView struct {
	Application   *leaveModel.LeaveApplication `json:"application"`
	StaffName     string                       `json:"staff_name"`
	LeaveTypeName string                       `json:"leave_type_name"`
}
