package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lihess/lihess-backend/internal"
	assignmentModel "github.com/lihess/lihess-backend/internal/core/datamodel/assignment"
	leaveModel "github.com/lihess/lihess-backend/internal/core/datamodel/leave"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
	workgroupModel "github.com/lihess/lihess-backend/internal/core/datamodel/workgroup"
	"github.com/lihess/lihess-backend/internal/core/events"
	"github.com/lihess/lihess-backend/internal/workgroup"
)

// Repository is the data access contract for leave processing. Find
// methods return (nil, nil) when nothing matches.
type Repository interface {
	GetStaff(id uuid.UUID) (*staffModel.Staff, error)
	GetLeaveType(id uuid.UUID) (*leaveModel.LeaveType, error)
	FindPolicy(leaveTypeID, positionTypeID uuid.UUID) (*leaveModel.LeavePolicy, error)
	// FindOpenPositionTypeID resolves the position type of the staff
	// member's open position, uuid.Nil when no position is open.
	FindOpenPositionTypeID(staffID uuid.UUID) (uuid.UUID, error)
	FindBalance(staffID, leaveTypeID uuid.UUID, year int) (*leaveModel.LeaveBalance, error)
	ListBalances(staffID uuid.UUID, year int) ([]*leaveModel.LeaveBalance, error)
	DebitBalance(balanceID uuid.UUID, days float64) error

	FindOpenMember(staffID uuid.UUID) (*assignmentModel.WorkgroupAssignment, error)
	ListOpenApprovers(workgroupID uuid.UUID) ([]*workgroupModel.Approver, error)
	ListOpenApproverSlotsForStaff(staffID uuid.UUID) ([]*workgroupModel.Approver, error)

	CreateLeave(row *leaveModel.LeaveApplication) error
	GetLeave(id uuid.UUID) (*leaveModel.LeaveApplication, error)
	UpdateLeaveStatus(id uuid.UUID, status string, declineReason *string, decidedBy uuid.UUID, decidedAt time.Time) error
	ListLeavesByStaff(staffID uuid.UUID) ([]*leaveModel.LeaveApplication, error)
	ListLeavesByWorkgroupAndStatus(workgroupID uuid.UUID, status string) ([]*leaveModel.LeaveApplication, error)
}

// TxManager runs fn against a Repository bound to one transaction.
type TxManager interface {
	InTx(fn func(Repository) error) error
}

type Service struct {
	repo     Repository
	txm      TxManager
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, txm TxManager, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		txm:      txm,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Apply submits a leave application. The requested span counts every
// calendar day between the bounds inclusive, and must fit the policy for
// the leave type and the applicant's position category. The applicant must
// hold enough balance, and their workgroup must have a first approver to
// route the application to.
func (s *Service) Apply(ctx context.Context, staffID uuid.UUID, dto ApplyLeaveDTO) (*leaveModel.LeaveApplication, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	staff, err := s.repo.GetStaff(staffID)
	if err != nil {
		return nil, err
	}
	leaveType, err := s.repo.GetLeaveType(dto.LeaveTypeID)
	if err != nil {
		return nil, err
	}

	days := CountLeaveDays(dto.StartDate, dto.EndDate)

	positionTypeID, err := s.repo.FindOpenPositionTypeID(staffID)
	if err != nil {
		return nil, err
	}
	if positionTypeID == uuid.Nil {
		return nil, internal.NewValidationError("staff has no open position to resolve a leave policy against", internal.ErrCodeLeaveOutOfPolicy)
	}
	policy, err := s.repo.FindPolicy(leaveType.ID, positionTypeID)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, internal.NewValidationError("no leave policy configured for this leave type and position category", internal.ErrCodeLeaveOutOfPolicy)
	}
	if days < policy.MinDays || days > policy.MaxDays {
		return nil, internal.NewValidationError(
			fmt.Sprintf("requested %.0f days, policy allows %.0f to %.0f", days, policy.MinDays, policy.MaxDays),
			internal.ErrCodeLeaveOutOfPolicy)
	}

	balance, err := s.repo.FindBalance(staffID, leaveType.ID, dto.StartDate.Year())
	if err != nil {
		return nil, err
	}
	if balance == nil || balance.Remaining < days {
		return nil, internal.NewValidationError("insufficient leave balance", internal.ErrCodeInsufficientBalance)
	}

	membership, err := s.repo.FindOpenMember(staffID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, internal.NewValidationError("staff has no workgroup to route the application through", internal.ErrCodeNoApproverWorkgroup)
	}
	approvers, err := s.repo.ListOpenApprovers(membership.WorkgroupID)
	if err != nil {
		return nil, err
	}
	first := approverAtOrder(approvers, workgroup.OrderFirstApprover)
	if first == nil {
		return nil, internal.NewValidationError("workgroup has no first approver", internal.ErrCodeNoApproverWorkgroup)
	}

	row := &leaveModel.LeaveApplication{
		ID:          uuid.New(),
		StaffID:     staffID,
		LeaveTypeID: leaveType.ID,
		WorkgroupID: membership.WorkgroupID,
		StartDate:   dto.StartDate,
		EndDate:     dto.EndDate,
		Days:        days,
		Reason:      dto.Reason,
		Status:      StatusPending,
	}
	if err := s.repo.CreateLeave(row); err != nil {
		s.logger.Error("leave application failed", "error", err, "staff_id", staffID)
		return nil, err
	}

	s.logger.Info("leave applied",
		"leave_id", row.ID,
		"staff_id", staffID,
		"leave_type", leaveType.Name,
		"days", days)

	event := events.NewLeaveChainEvent(events.EventTypeLeaveApplied, row.ID, staffID, first.StaffID,
		staff.FullName(),
		"Leave application awaiting your approval",
		fmt.Sprintf("%s applied for %.0f day(s) of %s.", staff.FullName(), days, leaveType.Name),
		nil)
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("leave applied but notification dispatch failed", "error", err, "leave_id", row.ID)
	}

	return row, nil
}

// Approve advances the application one step in the approval chain. The
// first approver forwards it, the second approval finalizes it and debits
// the applicant's balance in the same transaction.
func (s *Service) Approve(ctx context.Context, approverStaffID, leaveID uuid.UUID) (*leaveModel.LeaveApplication, error) {
	row, err := s.repo.GetLeave(leaveID)
	if err != nil {
		return nil, err
	}

	order := decidingOrderFor(row.Status)
	if order == 0 {
		return nil, internal.NewValidationError("leave application is not valid for approval", internal.ErrCodeInvalidLeaveStatus)
	}

	approvers, err := s.repo.ListOpenApprovers(row.WorkgroupID)
	if err != nil {
		return nil, err
	}
	slot := approverForStaff(approvers, approverStaffID)
	if slot == nil || !slot.Deciding() {
		return nil, internal.NewForbiddenError("not a deciding approver of this workgroup", internal.ErrCodeNotAnApprover)
	}
	if slot.Order != order {
		return nil, internal.NewValidationError("leave application is not valid for approval at this approver's stage", internal.ErrCodeInvalidLeaveStatus)
	}

	staff, err := s.repo.GetStaff(row.StaffID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch order {
	case workgroup.OrderFirstApprover:
		if err := s.repo.UpdateLeaveStatus(row.ID, StatusPendingSecondApproval, nil, approverStaffID, now); err != nil {
			return nil, err
		}
		row.Status = StatusPendingSecondApproval

		second := approverAtOrder(approvers, workgroup.OrderSecondApprover)
		if second != nil {
			event := events.NewLeaveChainEvent(events.EventTypeLeaveForwarded, row.ID, row.StaffID, second.StaffID,
				staff.FullName(),
				"Leave application awaiting second approval",
				fmt.Sprintf("Leave application from %s passed first approval.", staff.FullName()),
				nil)
			if err := s.eventBus.Publish(ctx, event); err != nil {
				s.logger.Warn("approval recorded but notification dispatch failed", "error", err, "leave_id", row.ID)
			}
		}

	case workgroup.OrderSecondApprover:
		err = s.txm.InTx(func(tx Repository) error {
			if err := tx.UpdateLeaveStatus(row.ID, StatusApproved, nil, approverStaffID, now); err != nil {
				return err
			}
			balance, err := tx.FindBalance(row.StaffID, row.LeaveTypeID, row.StartDate.Year())
			if err != nil {
				return err
			}
			if balance == nil || balance.Remaining < row.Days {
				return internal.NewValidationError("insufficient leave balance", internal.ErrCodeInsufficientBalance)
			}
			return tx.DebitBalance(balance.ID, row.Days)
		})
		if err != nil {
			s.logger.Error("final approval failed", "error", err, "leave_id", row.ID)
			return nil, err
		}
		row.Status = StatusApproved

		event := events.NewLeaveChainEvent(events.EventTypeLeaveApproved, row.ID, row.StaffID, row.StaffID,
			staff.FullName(),
			"Leave application approved",
			fmt.Sprintf("Your leave application for %.0f day(s) was approved.", row.Days),
			notifyObservers(approvers))
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("approval recorded but notification dispatch failed", "error", err, "leave_id", row.ID)
		}
	}

	row.DecidedBy = &approverStaffID
	row.DecidedAt = &now

	s.logger.Info("leave approval step recorded",
		"leave_id", row.ID,
		"approver_staff_id", approverStaffID,
		"status", row.Status)
	return row, nil
}

// Decline rejects the application at its current stage.
func (s *Service) Decline(ctx context.Context, approverStaffID, leaveID uuid.UUID, dto DeclineLeaveDTO) (*leaveModel.LeaveApplication, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetLeave(leaveID)
	if err != nil {
		return nil, err
	}

	order := decidingOrderFor(row.Status)
	if order == 0 {
		return nil, internal.NewValidationError("leave application is not valid for a decision", internal.ErrCodeInvalidLeaveStatus)
	}

	approvers, err := s.repo.ListOpenApprovers(row.WorkgroupID)
	if err != nil {
		return nil, err
	}
	slot := approverForStaff(approvers, approverStaffID)
	if slot == nil || !slot.Deciding() {
		return nil, internal.NewForbiddenError("not a deciding approver of this workgroup", internal.ErrCodeNotAnApprover)
	}
	if slot.Order != order {
		return nil, internal.NewValidationError("leave application is not valid for a decision at this approver's stage", internal.ErrCodeInvalidLeaveStatus)
	}

	staff, err := s.repo.GetStaff(row.StaffID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reason := dto.Reason
	if err := s.repo.UpdateLeaveStatus(row.ID, StatusDeclined, &reason, approverStaffID, now); err != nil {
		s.logger.Error("decline failed", "error", err, "leave_id", row.ID)
		return nil, err
	}
	row.Status = StatusDeclined
	row.DeclineReason = &reason
	row.DecidedBy = &approverStaffID
	row.DecidedAt = &now

	event := events.NewLeaveChainEvent(events.EventTypeLeaveDeclined, row.ID, row.StaffID, row.StaffID,
		staff.FullName(),
		"Leave application declined",
		fmt.Sprintf("Your leave application was declined: %s", reason),
		notifyObservers(approvers))
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("decline recorded but notification dispatch failed", "error", err, "leave_id", row.ID)
	}

	s.logger.Info("leave declined", "leave_id", row.ID, "approver_staff_id", approverStaffID)
	return row, nil
}

// Cancel withdraws the application. Only the applicant may cancel, and
// only before the first approval.
func (s *Service) Cancel(ctx context.Context, staffID, leaveID uuid.UUID) (*leaveModel.LeaveApplication, error) {
	row, err := s.repo.GetLeave(leaveID)
	if err != nil {
		return nil, err
	}
	if row.StaffID != staffID {
		return nil, internal.NewForbiddenError("only the applicant may cancel a leave application", internal.ErrCodeMissingRole)
	}
	if row.Status != StatusPending {
		return nil, internal.NewConflictError("only pending applications can be cancelled", internal.ErrCodeInvalidLeaveStatus)
	}

	now := time.Now()
	if err := s.repo.UpdateLeaveStatus(row.ID, StatusCancelled, nil, staffID, now); err != nil {
		s.logger.Error("cancel failed", "error", err, "leave_id", row.ID)
		return nil, err
	}
	row.Status = StatusCancelled
	row.DecidedBy = &staffID
	row.DecidedAt = &now

	s.logger.Info("leave cancelled", "leave_id", row.ID, "staff_id", staffID)
	return row, nil
}

// ListMyLeaves returns the applicant's own applications, newest first.
func (s *Service) ListMyLeaves(ctx context.Context, staffID uuid.UUID) ([]*leaveModel.LeaveApplication, error) {
	if _, err := s.repo.GetStaff(staffID); err != nil {
		return nil, err
	}
	return s.repo.ListLeavesByStaff(staffID)
}

// ListStaffLeaves is the HR view of another staff member's history.
func (s *Service) ListStaffLeaves(ctx context.Context, staffID uuid.UUID) ([]*leaveModel.LeaveApplication, error) {
	if _, err := s.repo.GetStaff(staffID); err != nil {
		return nil, err
	}
	return s.repo.ListLeavesByStaff(staffID)
}

// MyBalances returns the caller's balances for the current year.
func (s *Service) MyBalances(ctx context.Context, staffID uuid.UUID) ([]*leaveModel.LeaveBalance, error) {
	if _, err := s.repo.GetStaff(staffID); err != nil {
		return nil, err
	}
	return s.repo.ListBalances(staffID, time.Now().Year())
}

// ListPendingApprovals returns the applications currently waiting on the
// given approver across all workgroups where they hold a deciding slot.
func (s *Service) ListPendingApprovals(ctx context.Context, approverStaffID uuid.UUID) ([]*leaveModel.LeaveApplication, error) {
	slots, err := s.repo.ListOpenApproverSlotsForStaff(approverStaffID)
	if err != nil {
		return nil, err
	}

	var out []*leaveModel.LeaveApplication
	for _, slot := range slots {
		if !slot.Deciding() {
			continue
		}
		status := StatusPending
		if slot.Order == workgroup.OrderSecondApprover {
			status = StatusPendingSecondApproval
		}
		rows, err := s.repo.ListLeavesByWorkgroupAndStatus(slot.WorkgroupID, status)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func approverAtOrder(approvers []*workgroupModel.Approver, order int) *workgroupModel.Approver {
	for _, a := range approvers {
		if a.Order == order {
			return a
		}
	}
	return nil
}

func approverForStaff(approvers []*workgroupModel.Approver, staffID uuid.UUID) *workgroupModel.Approver {
	for _, a := range approvers {
		if a.StaffID == staffID {
			return a
		}
	}
	return nil
}

func notifyObservers(approvers []*workgroupModel.Approver) []uuid.UUID {
	var out []uuid.UUID
	for _, a := range approvers {
		if !a.Deciding() {
			out = append(out, a.StaffID)
		}
	}
	return out
}
