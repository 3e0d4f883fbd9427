package assignment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lihess/lihess-backend/internal"
	assignmentModel "github.com/lihess/lihess-backend/internal/core/datamodel/assignment"
	orgModel "github.com/lihess/lihess-backend/internal/core/datamodel/org"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
	workgroupModel "github.com/lihess/lihess-backend/internal/core/datamodel/workgroup"
	"github.com/lihess/lihess-backend/internal/core/events"
)

// Repository is the data access contract for assignments and the org
// entities they reference. FindOpen methods return (nil, nil) when no open
// row exists.
type Repository interface {
	GetStaff(id uuid.UUID) (*staffModel.Staff, error)
	GetAccountByStaffID(staffID uuid.UUID) (*staffModel.Account, error)
	UpdateAccountUsername(accountID uuid.UUID, username string) error

	GetRole(id uuid.UUID) (*orgModel.Role, error)
	GetCoE(id uuid.UUID) (*orgModel.CoE, error)
	GetDepartment(id uuid.UUID) (*orgModel.Department, error)
	GetPosition(id uuid.UUID) (*orgModel.Position, error)
	GetPositionType(id uuid.UUID) (*orgModel.PositionType, error)
	GetGrant(id uuid.UUID) (*orgModel.Grant, error)
	GetWorkgroup(id uuid.UUID) (*workgroupModel.Workgroup, error)

	FindOpenCoE(staffID uuid.UUID) (*assignmentModel.CoEAssignment, error)
	OpenCoE(row *assignmentModel.CoEAssignment) error
	CloseCoE(staffID uuid.UUID, endDate time.Time) error

	FindOpenDepartment(staffID uuid.UUID) (*assignmentModel.DepartmentAssignment, error)
	FindOpenHeadOfDepartment(departmentID uuid.UUID) (*assignmentModel.DepartmentAssignment, error)
	OpenDepartment(row *assignmentModel.DepartmentAssignment) error
	CloseDepartment(staffID uuid.UUID, endDate time.Time) error

	FindOpenPosition(staffID uuid.UUID) (*assignmentModel.PositionAssignment, error)
	OpenPosition(row *assignmentModel.PositionAssignment) error
	ClosePosition(staffID uuid.UUID, endDate time.Time) error

	FindOpenDirector(directorateID uuid.UUID) (*assignmentModel.DirectorAssignment, error)
	OpenDirector(row *assignmentModel.DirectorAssignment) error
	CloseDirector(directorateID uuid.UUID, endDate time.Time) error

	ListOpenGrants(staffID uuid.UUID) ([]*assignmentModel.GrantAssignment, error)
	FindOpenGrant(staffID, grantID uuid.UUID) (*assignmentModel.GrantAssignment, error)
	OpenGrant(row *assignmentModel.GrantAssignment) error
	CloseGrant(staffID, grantID uuid.UUID, endDate time.Time) error

	ListOpenRoles(accountID uuid.UUID) ([]*assignmentModel.RoleAssignment, error)
	OpenRole(row *assignmentModel.RoleAssignment) error
	CloseRole(accountID, roleID uuid.UUID, endDate time.Time) error

	FindOpenWorkgroup(staffID uuid.UUID) (*assignmentModel.WorkgroupAssignment, error)
	OpenWorkgroup(row *assignmentModel.WorkgroupAssignment) error
	CloseWorkgroup(staffID uuid.UUID, endDate time.Time) error
}

// TxManager runs fn against a Repository bound to a single database
// transaction. fn returning an error rolls everything back.
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

// TransferResult reports a committed transfer together with the dispatch
// state of the notification. A non-empty NotificationWarning means the
// transfer stands but the staff member could not be told about it.
type TransferResult struct {
	Assignment          *assignmentModel.CoEAssignment `json:"assignment"`
	NewUsername         string                         `json:"new_username"`
	NotificationWarning string                         `json:"notification_warning,omitempty"`
}

// TransferCoE moves a staff member to another center of excellence. The old
// membership closes and the new one opens in one transaction, and the login
// username is rebuilt from the new CoE number. The staff member is notified
// after commit; a notification failure does not undo the transfer and comes
// back as a warning on the result.
func (s *Service) TransferCoE(ctx context.Context, actorID, staffID uuid.UUID, dto TransferCoEDTO) (*TransferResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	staff, err := s.repo.GetStaff(staffID)
	if err != nil {
		return nil, err
	}
	newCoE, err := s.repo.GetCoE(dto.CoEID)
	if err != nil {
		return nil, err
	}
	account, err := s.repo.GetAccountByStaffID(staffID)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.FindOpenCoE(staffID)
	if err != nil {
		return nil, err
	}
	if current != nil && current.CoEID == newCoE.ID {
		return nil, internal.NewConflictError("staff already assigned to this CoE", internal.ErrCodeDuplicateAssignment)
	}

	var oldCoEName string
	if current != nil {
		oldCoE, err := s.repo.GetCoE(current.CoEID)
		if err != nil {
			return nil, err
		}
		oldCoEName = oldCoE.Name
	}

	startDate := normalizeDate(dto.StartDate)
	newUsername := BuildUsername(newCoE.Number, staff.EmployeeNumber)
	row := &assignmentModel.CoEAssignment{
		ID:      uuid.New(),
		StaffID: staffID,
		CoEID:   newCoE.ID,
		Window: assignmentModel.Window{
			StartDate:  startDate,
			AssignedBy: actorID,
		},
	}

	err = s.txm.InTx(func(tx Repository) error {
		if current != nil {
			if err := tx.CloseCoE(staffID, startDate); err != nil {
				return err
			}
		}
		if err := tx.OpenCoE(row); err != nil {
			return err
		}
		return tx.UpdateAccountUsername(account.ID, newUsername)
	})
	if err != nil {
		s.logger.Error("coe transfer failed", "error", err, "staff_id", staffID, "coe_id", newCoE.ID)
		return nil, err
	}

	s.logger.Info("staff transferred between coes",
		"staff_id", staffID,
		"old_coe", oldCoEName,
		"new_coe", newCoE.Name,
		"new_username", newUsername)

	result := &TransferResult{Assignment: row, NewUsername: newUsername}
	event := events.NewStaffTransferredEvent(staffID, staff.Email, staff.FullName(), oldCoEName, newCoE.Name, newCoE.CenterName, newUsername)
	if err := s.eventBus.PublishSync(ctx, event); err != nil {
		s.logger.Warn("transfer committed but notification dispatch failed", "error", err, "staff_id", staffID)
		result.NotificationWarning = "transfer committed but the notification could not be delivered"
	}

	return result, nil
}

// AssignDepartment reassigns a staff member's department. Head of
// department status never carries over to the new department.
func (s *Service) AssignDepartment(ctx context.Context, actorID, staffID uuid.UUID, dto AssignDepartmentDTO) (*assignmentModel.DepartmentAssignment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetStaff(staffID); err != nil {
		return nil, err
	}
	dept, err := s.repo.GetDepartment(dto.DepartmentID)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.FindOpenDepartment(staffID)
	if err != nil {
		return nil, err
	}
	if current != nil && current.DepartmentID == dept.ID {
		return nil, internal.NewConflictError("staff already assigned to this department", internal.ErrCodeDuplicateAssignment)
	}

	startDate := normalizeDate(dto.StartDate)
	row := &assignmentModel.DepartmentAssignment{
		ID:           uuid.New(),
		StaffID:      staffID,
		DepartmentID: dept.ID,
		Window: assignmentModel.Window{
			StartDate:  startDate,
			AssignedBy: actorID,
		},
	}

	err = s.txm.InTx(func(tx Repository) error {
		if current != nil {
			if err := tx.CloseDepartment(staffID, startDate); err != nil {
				return err
			}
		}
		return tx.OpenDepartment(row)
	})
	if err != nil {
		s.logger.Error("department assignment failed", "error", err, "staff_id", staffID, "department_id", dept.ID)
		return nil, err
	}

	s.logger.Info("department assigned", "staff_id", staffID, "department_id", dept.ID)
	return row, nil
}

// AssignPosition reassigns a staff member's position. Depending on the
// position category this can displace the current head of department or the
// current directorate director inside the same transaction.
func (s *Service) AssignPosition(ctx context.Context, actorID, staffID uuid.UUID, dto AssignPositionDTO) (*assignmentModel.PositionAssignment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetStaff(staffID); err != nil {
		return nil, err
	}
	position, err := s.repo.GetPosition(dto.PositionID)
	if err != nil {
		return nil, err
	}
	positionType, err := s.repo.GetPositionType(position.PositionTypeID)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.FindOpenPosition(staffID)
	if err != nil {
		return nil, err
	}
	if current != nil && current.PositionID == position.ID {
		return nil, internal.NewConflictError("staff already holds this position", internal.ErrCodeDuplicateAssignment)
	}

	takesOverDepartment := BecomesHeadOfDepartment(positionType.Category)
	takesOverDirectorate := BecomesDirector(positionType.Category)

	var deptAssignment *assignmentModel.DepartmentAssignment
	if takesOverDepartment || takesOverDirectorate {
		deptAssignment, err = s.repo.FindOpenDepartment(staffID)
		if err != nil {
			return nil, err
		}
		if deptAssignment == nil {
			return nil, internal.NewValidationError("staff has no department assignment required for this position", internal.ErrCodeMissingDepartment)
		}
	}

	startDate := normalizeDate(dto.StartDate)
	row := &assignmentModel.PositionAssignment{
		ID:         uuid.New(),
		StaffID:    staffID,
		PositionID: position.ID,
		Window: assignmentModel.Window{
			StartDate:  startDate,
			AssignedBy: actorID,
		},
	}

	err = s.txm.InTx(func(tx Repository) error {
		if current != nil {
			if err := tx.ClosePosition(staffID, startDate); err != nil {
				return err
			}
		}
		if err := tx.OpenPosition(row); err != nil {
			return err
		}

		if takesOverDepartment {
			if err := s.takeOverDepartment(tx, actorID, staffID, deptAssignment, startDate); err != nil {
				return err
			}
		}
		if takesOverDirectorate {
			if err := s.takeOverDirectorate(tx, actorID, staffID, deptAssignment.DepartmentID, startDate); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("position assignment failed", "error", err, "staff_id", staffID, "position_id", position.ID)
		return nil, err
	}

	s.logger.Info("position assigned",
		"staff_id", staffID,
		"position_id", position.ID,
		"category", positionType.Category)
	return row, nil
}

// takeOverDepartment flips head of department to the given staff member:
// the sitting head keeps their membership but loses the flag.
func (s *Service) takeOverDepartment(tx Repository, actorID, staffID uuid.UUID, deptAssignment *assignmentModel.DepartmentAssignment, startDate time.Time) error {
	sittingHead, err := tx.FindOpenHeadOfDepartment(deptAssignment.DepartmentID)
	if err != nil {
		return err
	}
	if sittingHead != nil && sittingHead.StaffID != staffID {
		if err := tx.CloseDepartment(sittingHead.StaffID, startDate); err != nil {
			return err
		}
		demoted := &assignmentModel.DepartmentAssignment{
			ID:           uuid.New(),
			StaffID:      sittingHead.StaffID,
			DepartmentID: sittingHead.DepartmentID,
			IsHod:        false,
			Window: assignmentModel.Window{
				StartDate:  startDate,
				AssignedBy: actorID,
			},
		}
		if err := tx.OpenDepartment(demoted); err != nil {
			return err
		}
	}

	if deptAssignment.IsHod {
		return nil
	}
	if err := tx.CloseDepartment(staffID, startDate); err != nil {
		return err
	}
	promoted := &assignmentModel.DepartmentAssignment{
		ID:           uuid.New(),
		StaffID:      staffID,
		DepartmentID: deptAssignment.DepartmentID,
		IsHod:        true,
		Window: assignmentModel.Window{
			StartDate:  startDate,
			AssignedBy: actorID,
		},
	}
	return tx.OpenDepartment(promoted)
}

// takeOverDirectorate closes the sitting director of the staff member's
// directorate and opens a director row for them.
func (s *Service) takeOverDirectorate(tx Repository, actorID, staffID, departmentID uuid.UUID, startDate time.Time) error {
	dept, err := tx.GetDepartment(departmentID)
	if err != nil {
		return err
	}
	sitting, err := tx.FindOpenDirector(dept.DirectorateID)
	if err != nil {
		return err
	}
	if sitting != nil {
		if sitting.StaffID == staffID {
			return nil
		}
		if err := tx.CloseDirector(dept.DirectorateID, startDate); err != nil {
			return err
		}
	}
	row := &assignmentModel.DirectorAssignment{
		ID:            uuid.New(),
		StaffID:       staffID,
		DirectorateID: dept.DirectorateID,
		Window: assignmentModel.Window{
			StartDate:  startDate,
			AssignedBy: actorID,
		},
	}
	return tx.OpenDirector(row)
}

// AssignGrant opens a grant engagement for a staff member. Grants are the
// one kind that allows several open rows per staff, one per grant.
func (s *Service) AssignGrant(ctx context.Context, actorID, staffID uuid.UUID, dto AssignGrantDTO) (*assignmentModel.GrantAssignment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetStaff(staffID); err != nil {
		return nil, err
	}
	grant, err := s.repo.GetGrant(dto.GrantID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindOpenGrant(staffID, grant.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("staff already has an open engagement on this grant", internal.ErrCodeDuplicateAssignment)
	}

	row := &assignmentModel.GrantAssignment{
		ID:                 uuid.New(),
		StaffID:            staffID,
		GrantID:            grant.ID,
		WorkTimePercentage: dto.WorkTimePercentage,
		Window: assignmentModel.Window{
			StartDate:  normalizeDate(dto.StartDate),
			AssignedBy: actorID,
		},
	}
	if err := s.repo.OpenGrant(row); err != nil {
		s.logger.Error("grant assignment failed", "error", err, "staff_id", staffID, "grant_id", grant.ID)
		return nil, err
	}

	s.logger.Info("grant assigned",
		"staff_id", staffID,
		"grant_id", grant.ID,
		"work_time_percentage", dto.WorkTimePercentage)
	return row, nil
}

// TerminateGrant closes the open engagement of a staff member on a grant.
func (s *Service) TerminateGrant(ctx context.Context, staffID, grantID uuid.UUID, dto TerminateDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	existing, err := s.repo.FindOpenGrant(staffID, grantID)
	if err != nil {
		return err
	}
	if existing == nil {
		return internal.ErrAssignmentNotFound
	}
	if err := s.repo.CloseGrant(staffID, grantID, normalizeDate(dto.EndDate)); err != nil {
		s.logger.Error("grant termination failed", "error", err, "staff_id", staffID, "grant_id", grantID)
		return err
	}
	s.logger.Info("grant terminated", "staff_id", staffID, "grant_id", grantID)
	return nil
}

// AssignWorkgroup moves a staff member into a workgroup, closing their
// previous membership.
func (s *Service) AssignWorkgroup(ctx context.Context, actorID, staffID uuid.UUID, dto AssignWorkgroupDTO) (*assignmentModel.WorkgroupAssignment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetStaff(staffID); err != nil {
		return nil, err
	}
	wg, err := s.repo.GetWorkgroup(dto.WorkgroupID)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.FindOpenWorkgroup(staffID)
	if err != nil {
		return nil, err
	}
	if current != nil && current.WorkgroupID == wg.ID {
		return nil, internal.NewConflictError("staff already a member of this workgroup", internal.ErrCodeDuplicateAssignment)
	}

	startDate := normalizeDate(dto.StartDate)
	row := &assignmentModel.WorkgroupAssignment{
		ID:          uuid.New(),
		StaffID:     staffID,
		WorkgroupID: wg.ID,
		Window: assignmentModel.Window{
			StartDate:  startDate,
			AssignedBy: actorID,
		},
	}

	err = s.txm.InTx(func(tx Repository) error {
		if current != nil {
			if err := tx.CloseWorkgroup(staffID, startDate); err != nil {
				return err
			}
		}
		return tx.OpenWorkgroup(row)
	})
	if err != nil {
		s.logger.Error("workgroup assignment failed", "error", err, "staff_id", staffID, "workgroup_id", wg.ID)
		return nil, err
	}

	s.logger.Info("workgroup assigned", "staff_id", staffID, "workgroup_id", wg.ID)
	return row, nil
}

// AssignRole grants a role to a staff member's account. An account holds at
// most MaxOpenRolesPerAccount roles, and granting an already held role is a
// conflict rather than a no-op.
func (s *Service) AssignRole(ctx context.Context, actorID, staffID uuid.UUID, dto AssignRoleDTO) (*assignmentModel.RoleAssignment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	account, err := s.repo.GetAccountByStaffID(staffID)
	if err != nil {
		return nil, err
	}
	role, err := s.repo.GetRole(dto.RoleID)
	if err != nil {
		return nil, err
	}

	open, err := s.repo.ListOpenRoles(account.ID)
	if err != nil {
		return nil, err
	}
	for _, r := range open {
		if r.RoleID == role.ID {
			return nil, internal.NewConflictError("account already holds this role", internal.ErrCodeDuplicateAssignment)
		}
	}
	if len(open) >= MaxOpenRolesPerAccount {
		return nil, internal.NewConflictError("account already holds the maximum number of roles", internal.ErrCodeRoleCapExceeded)
	}

	row := &assignmentModel.RoleAssignment{
		ID:        uuid.New(),
		AccountID: account.ID,
		RoleID:    role.ID,
		Window: assignmentModel.Window{
			StartDate:  normalizeDate(dto.StartDate),
			AssignedBy: actorID,
		},
	}
	if err := s.repo.OpenRole(row); err != nil {
		s.logger.Error("role assignment failed", "error", err, "account_id", account.ID, "role_id", role.ID)
		return nil, err
	}

	s.logger.Info("role assigned", "account_id", account.ID, "role", role.Name)
	return row, nil
}

// TerminateRole revokes an open role from a staff member's account.
func (s *Service) TerminateRole(ctx context.Context, staffID, roleID uuid.UUID, dto TerminateDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	account, err := s.repo.GetAccountByStaffID(staffID)
	if err != nil {
		return err
	}

	open, err := s.repo.ListOpenRoles(account.ID)
	if err != nil {
		return err
	}
	held := false
	for _, r := range open {
		if r.RoleID == roleID {
			held = true
			break
		}
	}
	if !held {
		return internal.ErrAssignmentNotFound
	}

	if err := s.repo.CloseRole(account.ID, roleID, normalizeDate(dto.EndDate)); err != nil {
		s.logger.Error("role termination failed", "error", err, "account_id", account.ID, "role_id", roleID)
		return err
	}
	s.logger.Info("role terminated", "account_id", account.ID, "role_id", roleID)
	return nil
}

// GetStaffAssignments assembles all open assignments of one staff member.
func (s *Service) GetStaffAssignments(ctx context.Context, staffID uuid.UUID) (*StaffAssignmentsView, error) {
	if _, err := s.repo.GetStaff(staffID); err != nil {
		return nil, err
	}

	view := &StaffAssignmentsView{StaffID: staffID.String()}

	var err error
	if view.CoE, err = s.repo.FindOpenCoE(staffID); err != nil {
		return nil, err
	}
	if view.Department, err = s.repo.FindOpenDepartment(staffID); err != nil {
		return nil, err
	}
	if view.Position, err = s.repo.FindOpenPosition(staffID); err != nil {
		return nil, err
	}
	if view.Workgroup, err = s.repo.FindOpenWorkgroup(staffID); err != nil {
		return nil, err
	}
	if view.Grants, err = s.repo.ListOpenGrants(staffID); err != nil {
		return nil, err
	}

	account, err := s.repo.GetAccountByStaffID(staffID)
	if err == nil {
		if view.Roles, err = s.repo.ListOpenRoles(account.ID); err != nil {
			return nil, err
		}
	}

	return view, nil
}
