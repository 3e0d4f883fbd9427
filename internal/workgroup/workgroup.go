package workgroup

import (
	"github.com/lihess/lihess-backend/internal"
	"github.com/lihess/lihess-backend/internal/assignment"
	workgroupModel "github.com/lihess/lihess-backend/internal/core/datamodel/workgroup"
)

// Approval chain order slots. Orders 1 and 2 decide leave applications in
// sequence, orders 3 and 4 only receive notifications.
const (
	OrderFirstApprover  = 1
	OrderSecondApprover = 2
	OrderHRNotifyFirst  = 3
	OrderHRNotifySecond = 4

	MinOrder = OrderFirstApprover
	MaxOrder = OrderHRNotifySecond
)

// ApproverRoles are the account roles that may sit in an approval chain.
var ApproverRoles = []string{internal.RoleApprover, internal.RoleHR}

// AllowedPositionCategories are the position categories eligible for any
// approver slot. General staff positions are excluded.
var AllowedPositionCategories = []string{
	assignment.CategoryManager,
	assignment.CategoryDirector,
	assignment.CategoryOfficer,
	assignment.CategoryCoordinator,
}

// DecidingOrder reports whether the slot takes part in the decision chain.
func DecidingOrder(order int) bool {
	return order == OrderFirstApprover || order == OrderSecondApprover
}

// NotifyOrder reports whether the slot is notify only.
func NotifyOrder(order int) bool {
	return order == OrderHRNotifyFirst || order == OrderHRNotifySecond
}

func roleEligible(roles []string) bool {
	for _, have := range roles {
		for _, want := range ApproverRoles {
			if have == want {
				return true
			}
		}
	}
	return false
}

func categoryEligible(category string) bool {
	for _, c := range AllowedPositionCategories {
		if c == category {
			return true
		}
	}
	return false
}

func hasRole(roles []string, want string) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}

// WorkgroupView is the read model returned to clients: the group plus its
// open approver chain and member count.
type WorkgroupView struct {
	Workgroup   *workgroupModel.Workgroup `json:"workgroup"`
	Approvers   []*ApproverView           `json:"approvers"`
	MemberCount int                       `json:"member_count"`
}

type ApproverView struct {
	Approver  *workgroupModel.Approver `json:"approver"`
	StaffName string                   `json:"staff_name"`
}
