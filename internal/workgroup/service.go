package workgroup

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lihess/lihess-backend/internal"
	"github.com/lihess/lihess-backend/internal/assignment"
	assignmentModel "github.com/lihess/lihess-backend/internal/core/datamodel/assignment"
	orgModel "github.com/lihess/lihess-backend/internal/core/datamodel/org"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
	workgroupModel "github.com/lihess/lihess-backend/internal/core/datamodel/workgroup"
)

// Repository is the data access contract for the workgroup registry.
// Find methods return (nil, nil) when nothing matches.
type Repository interface {
	GetCoE(id uuid.UUID) (*orgModel.CoE, error)
	GetWorkgroup(id uuid.UUID) (*workgroupModel.Workgroup, error)
	FindWorkgroupByName(coeID uuid.UUID, name string) (*workgroupModel.Workgroup, error)
	CreateWorkgroup(row *workgroupModel.Workgroup) error
	ListWorkgroups() ([]*workgroupModel.Workgroup, error)

	GetStaff(id uuid.UUID) (*staffModel.Staff, error)
	ListOpenRoleNames(staffID uuid.UUID) ([]string, error)
	GetOpenPositionCategory(staffID uuid.UUID) (string, error)

	ListOpenApprovers(workgroupID uuid.UUID) ([]*workgroupModel.Approver, error)
	FindOpenApproverAtOrder(workgroupID uuid.UUID, order int) (*workgroupModel.Approver, error)
	FindOpenApproverForStaff(workgroupID, staffID uuid.UUID) (*workgroupModel.Approver, error)
	CreateApprover(row *workgroupModel.Approver) error
	CloseApprover(workgroupID, staffID uuid.UUID, endDate time.Time) error

	FindOpenMember(staffID uuid.UUID) (*assignmentModel.WorkgroupAssignment, error)
	CountOpenMembers(workgroupID uuid.UUID) (int, error)
	OpenMember(row *assignmentModel.WorkgroupAssignment) error
	CloseMember(staffID uuid.UUID, endDate time.Time) error

	// FindStaffByRoleAndCategory returns one staff member holding the role
	// on an active account and an open position of the given category.
	FindStaffByRoleAndCategory(roleName, category string) (*staffModel.Staff, error)
}

// TxManager runs fn against a Repository bound to one transaction.
type TxManager interface {
	InTx(fn func(Repository) error) error
}

type Service struct {
	repo   Repository
	txm    TxManager
	logger *slog.Logger
}

func NewService(repo Repository, txm TxManager, logger *slog.Logger) *Service {
	return &Service{repo: repo, txm: txm, logger: logger}
}

// CreateWorkgroup registers a new workgroup and seeds the HR notify slots:
// order 3 gets an HR officer, order 4 an HR manager. A missing candidate
// skips the slot rather than failing the creation.
func (s *Service) CreateWorkgroup(ctx context.Context, actorID uuid.UUID, dto CreateWorkgroupDTO) (*workgroupModel.Workgroup, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetCoE(dto.CoEID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindWorkgroupByName(dto.CoEID, dto.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("workgroup name already in use", internal.ErrCodeDuplicateAssignment)
	}

	row := &workgroupModel.Workgroup{
		ID:          uuid.New(),
		CoEID:       dto.CoEID,
		Name:        dto.Name,
		Description: dto.Description,
		CreatedBy:   actorID,
	}

	seeds := []struct {
		order    int
		category string
	}{
		{OrderHRNotifyFirst, assignment.CategoryOfficer},
		{OrderHRNotifySecond, assignment.CategoryManager},
	}

	err = s.txm.InTx(func(tx Repository) error {
		if err := tx.CreateWorkgroup(row); err != nil {
			return err
		}
		for _, seed := range seeds {
			candidate, err := tx.FindStaffByRoleAndCategory(internal.RoleHR, seed.category)
			if err != nil {
				return err
			}
			if candidate == nil {
				s.logger.Info("no hr candidate for notify slot, skipping",
					"workgroup", row.Name, "order", seed.order, "category", seed.category)
				continue
			}
			approver := &workgroupModel.Approver{
				ID:          uuid.New(),
				WorkgroupID: row.ID,
				StaffID:     candidate.ID,
				Order:       seed.order,
				NotifyOnly:  true,
				StartDate:   time.Now(),
				AssignedBy:  actorID,
			}
			if err := tx.CreateApprover(approver); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("workgroup creation failed", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("workgroup created", "workgroup_id", row.ID, "name", row.Name)
	return row, nil
}

// AddApprover places a staff member into an order slot of a workgroup's
// approval chain. The checks run in a fixed sequence so callers get the
// most fundamental failure first.
func (s *Service) AddApprover(ctx context.Context, actorID, workgroupID uuid.UUID, dto AddApproverDTO) (*workgroupModel.Approver, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	wg, err := s.repo.GetWorkgroup(workgroupID)
	if err != nil {
		return nil, err
	}
	staff, err := s.repo.GetStaff(dto.StaffID)
	if err != nil {
		return nil, err
	}

	roles, err := s.repo.ListOpenRoleNames(staff.ID)
	if err != nil {
		return nil, err
	}
	if !roleEligible(roles) {
		return nil, internal.NewForbiddenError("staff has no approver eligible role", internal.ErrCodeNotAnApprover)
	}

	category, err := s.repo.GetOpenPositionCategory(staff.ID)
	if err != nil {
		return nil, err
	}
	if category == "" || !categoryEligible(category) {
		return nil, internal.NewValidationError("staff position type is not eligible for approval duty", internal.ErrCodeIneligiblePosition)
	}

	if dto.Order < MinOrder || dto.Order > MaxOrder {
		return nil, internal.NewValidationError("approver order must be between 1 and 4", internal.ErrCodeInvalidApproverOrder)
	}

	if DecidingOrder(dto.Order) && !hasRole(roles, internal.RoleApprover) {
		return nil, internal.NewValidationError("deciding slots require the approver role", internal.ErrCodeInvalidApproverOrder)
	}
	if NotifyOrder(dto.Order) && !hasRole(roles, internal.RoleHR) {
		return nil, internal.NewValidationError("notify slots are reserved for hr staff", internal.ErrCodeInvalidApproverOrder)
	}

	if dto.NotifyOnly && DecidingOrder(dto.Order) {
		return nil, internal.NewValidationError("notify_only is only permitted for orders 3 and 4", internal.ErrCodeInvalidApproverOrder)
	}

	already, err := s.repo.FindOpenApproverForStaff(wg.ID, staff.ID)
	if err != nil {
		return nil, err
	}
	if already != nil {
		return nil, internal.NewConflictError("staff is already an approver in this workgroup", internal.ErrCodeDuplicateAssignment)
	}

	if DecidingOrder(dto.Order) {
		occupant, err := s.repo.FindOpenApproverAtOrder(wg.ID, dto.Order)
		if err != nil {
			return nil, err
		}
		if occupant != nil {
			return nil, internal.NewConflictError("approver order slot is already occupied", internal.ErrCodeOrderSlotOccupied)
		}
	}

	row := &workgroupModel.Approver{
		ID:          uuid.New(),
		WorkgroupID: wg.ID,
		StaffID:     staff.ID,
		Order:       dto.Order,
		NotifyOnly:  dto.NotifyOnly,
		StartDate:   dto.StartDate,
		AssignedBy:  actorID,
	}
	if err := s.repo.CreateApprover(row); err != nil {
		s.logger.Error("approver creation failed", "error", err, "workgroup_id", wg.ID, "staff_id", staff.ID)
		return nil, err
	}

	s.logger.Info("approver added",
		"workgroup_id", wg.ID,
		"staff_id", staff.ID,
		"order", dto.Order)
	return row, nil
}

// RemoveApprover closes the staff member's open approver slot in the
// workgroup.
func (s *Service) RemoveApprover(ctx context.Context, workgroupID, staffID uuid.UUID, dto RemoveDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	if _, err := s.repo.GetWorkgroup(workgroupID); err != nil {
		return err
	}

	open, err := s.repo.FindOpenApproverForStaff(workgroupID, staffID)
	if err != nil {
		return err
	}
	if open == nil {
		return internal.ErrAssignmentNotFound
	}

	if err := s.repo.CloseApprover(workgroupID, staffID, dto.EndDate); err != nil {
		s.logger.Error("approver removal failed", "error", err, "workgroup_id", workgroupID, "staff_id", staffID)
		return err
	}
	s.logger.Info("approver removed", "workgroup_id", workgroupID, "staff_id", staffID)
	return nil
}

// AddMember moves a staff member into the workgroup, closing any previous
// membership elsewhere.
func (s *Service) AddMember(ctx context.Context, actorID, workgroupID uuid.UUID, dto AddMemberDTO) (*assignmentModel.WorkgroupAssignment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	wg, err := s.repo.GetWorkgroup(workgroupID)
	if err != nil {
		return nil, err
	}
	staff, err := s.repo.GetStaff(dto.StaffID)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.FindOpenMember(staff.ID)
	if err != nil {
		return nil, err
	}
	if current != nil && current.WorkgroupID == wg.ID {
		return nil, internal.NewConflictError("staff is already a member of this workgroup", internal.ErrCodeDuplicateAssignment)
	}

	row := &assignmentModel.WorkgroupAssignment{
		ID:          uuid.New(),
		StaffID:     staff.ID,
		WorkgroupID: wg.ID,
		Window: assignmentModel.Window{
			StartDate:  dto.StartDate,
			AssignedBy: actorID,
		},
	}

	err = s.txm.InTx(func(tx Repository) error {
		if current != nil {
			if err := tx.CloseMember(staff.ID, dto.StartDate); err != nil {
				return err
			}
		}
		return tx.OpenMember(row)
	})
	if err != nil {
		s.logger.Error("member addition failed", "error", err, "workgroup_id", wg.ID, "staff_id", staff.ID)
		return nil, err
	}

	s.logger.Info("member added", "workgroup_id", wg.ID, "staff_id", staff.ID)
	return row, nil
}

// RemoveMember closes the staff member's membership in the workgroup.
func (s *Service) RemoveMember(ctx context.Context, workgroupID, staffID uuid.UUID, dto RemoveDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	if _, err := s.repo.GetWorkgroup(workgroupID); err != nil {
		return err
	}

	current, err := s.repo.FindOpenMember(staffID)
	if err != nil {
		return err
	}
	if current == nil || current.WorkgroupID != workgroupID {
		return internal.ErrAssignmentNotFound
	}

	if err := s.repo.CloseMember(staffID, dto.EndDate); err != nil {
		s.logger.Error("member removal failed", "error", err, "workgroup_id", workgroupID, "staff_id", staffID)
		return err
	}
	s.logger.Info("member removed", "workgroup_id", workgroupID, "staff_id", staffID)
	return nil
}

// GetWorkgroup assembles the read model: the group, its open approver
// chain ordered by slot, and the member count.
func (s *Service) GetWorkgroup(ctx context.Context, workgroupID uuid.UUID) (*WorkgroupView, error) {
	wg, err := s.repo.GetWorkgroup(workgroupID)
	if err != nil {
		return nil, err
	}

	approvers, err := s.repo.ListOpenApprovers(wg.ID)
	if err != nil {
		return nil, err
	}

	views := make([]*ApproverView, 0, len(approvers))
	for _, a := range approvers {
		staff, err := s.repo.GetStaff(a.StaffID)
		if err != nil {
			return nil, err
		}
		views = append(views, &ApproverView{Approver: a, StaffName: staff.FullName()})
	}

	count, err := s.repo.CountOpenMembers(wg.ID)
	if err != nil {
		return nil, err
	}

	return &WorkgroupView{Workgroup: wg, Approvers: views, MemberCount: count}, nil
}

func (s *Service) ListWorkgroups(ctx context.Context) ([]*workgroupModel.Workgroup, error) {
	return s.repo.ListWorkgroups()
}
