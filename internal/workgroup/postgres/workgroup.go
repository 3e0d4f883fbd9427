package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lihess/lihess-backend/internal"
	assignmentModel "github.com/lihess/lihess-backend/internal/core/datamodel/assignment"
	orgModel "github.com/lihess/lihess-backend/internal/core/datamodel/org"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
	workgroupModel "github.com/lihess/lihess-backend/internal/core/datamodel/workgroup"
	"github.com/lihess/lihess-backend/internal/workgroup"
	"gorm.io/gorm"
)

// WorkgroupRepository implements workgroup.Repository using GORM.
type WorkgroupRepository struct {
	db *gorm.DB
}

func NewWorkgroupRepository(db *gorm.DB) *WorkgroupRepository {
	return &WorkgroupRepository{db: db}
}

type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) InTx(fn func(workgroup.Repository) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewWorkgroupRepository(tx))
	})
}

func (r *WorkgroupRepository) GetWorkgroup(id uuid.UUID) (*workgroupModel.Workgroup, error) {
	var row workgroupModel.Workgroup
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrWorkgroupNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *WorkgroupRepository) GetCoE(id uuid.UUID) (*orgModel.CoE, error) {
	var row orgModel.CoE
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("CoE not found", internal.ErrCodeTargetNotFound)
		}
		return nil, err
	}
	return &row, nil
}

func (r *WorkgroupRepository) FindWorkgroupByName(coeID uuid.UUID, name string) (*workgroupModel.Workgroup, error) {
	var row workgroupModel.Workgroup
	err := r.db.Where("coe_id = ? AND name = ?", coeID, name).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *WorkgroupRepository) CreateWorkgroup(row *workgroupModel.Workgroup) error {
	return r.db.Create(row).Error
}

func (r *WorkgroupRepository) ListWorkgroups() ([]*workgroupModel.Workgroup, error) {
	var rows []*workgroupModel.Workgroup
	err := r.db.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *WorkgroupRepository) GetStaff(id uuid.UUID) (*staffModel.Staff, error) {
	var row staffModel.Staff
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrStaffNotFound
		}
		return nil, err
	}
	return &row, nil
}

// ListOpenRoleNames resolves the role names currently held by the staff
// member's account.
func (r *WorkgroupRepository) ListOpenRoleNames(staffID uuid.UUID) ([]string, error) {
	var names []string
	err := r.db.Table("role_assignments").
		Select("roles.name").
		Joins("JOIN accounts ON accounts.id = role_assignments.account_id").
		Joins("JOIN roles ON roles.id = role_assignments.role_id").
		Where("accounts.staff_id = ?", staffID).
		Where("role_assignments.end_date IS NULL").
		Scan(&names).Error
	return names, err
}

// GetOpenPositionCategory resolves the category of the staff member's open
// position, or "" when no position is open.
func (r *WorkgroupRepository) GetOpenPositionCategory(staffID uuid.UUID) (string, error) {
	var category string
	err := r.db.Table("position_assignments").
		Select("position_types.category").
		Joins("JOIN positions ON positions.id = position_assignments.position_id").
		Joins("JOIN position_types ON position_types.id = positions.position_type_id").
		Where("position_assignments.staff_id = ?", staffID).
		Where("position_assignments.end_date IS NULL").
		Limit(1).
		Scan(&category).Error
	return category, err
}

func (r *WorkgroupRepository) ListOpenApprovers(workgroupID uuid.UUID) ([]*workgroupModel.Approver, error) {
	var rows []*workgroupModel.Approver
	err := r.db.Where("workgroup_id = ? AND end_date IS NULL", workgroupID).
		Order("approval_order ASC").
		Find(&rows).Error
	return rows, err
}

func (r *WorkgroupRepository) FindOpenApproverAtOrder(workgroupID uuid.UUID, order int) (*workgroupModel.Approver, error) {
	var row workgroupModel.Approver
	err := r.db.Where("workgroup_id = ? AND approval_order = ? AND end_date IS NULL", workgroupID, order).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *WorkgroupRepository) FindOpenApproverForStaff(workgroupID, staffID uuid.UUID) (*workgroupModel.Approver, error) {
	var row workgroupModel.Approver
	err := r.db.Where("workgroup_id = ? AND staff_id = ? AND end_date IS NULL", workgroupID, staffID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *WorkgroupRepository) CreateApprover(row *workgroupModel.Approver) error {
	return r.db.Create(row).Error
}

func (r *WorkgroupRepository) CloseApprover(workgroupID, staffID uuid.UUID, endDate time.Time) error {
	return r.db.Model(&workgroupModel.Approver{}).
		Where("workgroup_id = ? AND staff_id = ?", workgroupID, staffID).
		Where("end_date IS NULL").
		Update("end_date", endDate).Error
}

func (r *WorkgroupRepository) FindOpenMember(staffID uuid.UUID) (*assignmentModel.WorkgroupAssignment, error) {
	var row assignmentModel.WorkgroupAssignment
	err := r.db.Where("staff_id = ? AND end_date IS NULL", staffID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *WorkgroupRepository) CountOpenMembers(workgroupID uuid.UUID) (int, error) {
	var count int64
	err := r.db.Model(&assignmentModel.WorkgroupAssignment{}).
		Where("workgroup_id = ? AND end_date IS NULL", workgroupID).
		Count(&count).Error
	return int(count), err
}

func (r *WorkgroupRepository) OpenMember(row *assignmentModel.WorkgroupAssignment) error {
	return r.db.Create(row).Error
}

func (r *WorkgroupRepository) CloseMember(staffID uuid.UUID, endDate time.Time) error {
	return r.db.Model(&assignmentModel.WorkgroupAssignment{}).
		Where("staff_id = ? AND end_date IS NULL", staffID).
		Update("end_date", endDate).Error
}

// FindStaffByRoleAndCategory picks one staff member holding the role on an
// active account and an open position of the given category. Used to seed
// the HR notify slots of a new workgroup.
func (r *WorkgroupRepository) FindStaffByRoleAndCategory(roleName, category string) (*staffModel.Staff, error) {
	var row staffModel.Staff
	err := r.db.Table("staff").
		Joins("JOIN accounts ON accounts.staff_id = staff.id").
		Joins("JOIN role_assignments ON role_assignments.account_id = accounts.id AND role_assignments.end_date IS NULL").
		Joins("JOIN roles ON roles.id = role_assignments.role_id").
		Joins("JOIN position_assignments ON position_assignments.staff_id = staff.id AND position_assignments.end_date IS NULL").
		Joins("JOIN positions ON positions.id = position_assignments.position_id").
		Joins("JOIN position_types ON position_types.id = positions.position_type_id").
		Where("roles.name = ?", roleName).
		Where("position_types.category = ?", category).
		Where("staff.is_active = ?", true).
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}
