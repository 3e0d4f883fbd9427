package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lihess/lihess-backend/internal"
	assignmentModel "github.com/lihess/lihess-backend/internal/core/datamodel/assignment"
	leaveModel "github.com/lihess/lihess-backend/internal/core/datamodel/leave"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
	workgroupModel "github.com/lihess/lihess-backend/internal/core/datamodel/workgroup"
	"github.com/lihess/lihess-backend/internal/leave"
	"gorm.io/gorm"
)

// LeaveRepository implements leave.Repository using GORM.
type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) InTx(fn func(leave.Repository) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewLeaveRepository(tx))
	})
}

func (r *LeaveRepository) GetStaff(id uuid.UUID) (*staffModel.Staff, error) {
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

func (r *LeaveRepository) GetLeaveType(id uuid.UUID) (*leaveModel.LeaveType, error) {
	var row leaveModel.LeaveType
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("Leave type not found", internal.ErrCodeTargetNotFound)
		}
		return nil, err
	}
	return &row, nil
}

func (r *LeaveRepository) FindPolicy(leaveTypeID, positionTypeID uuid.UUID) (*leaveModel.LeavePolicy, error) {
	var row leaveModel.LeavePolicy
	err := r.db.Where("leave_type_id = ? AND position_type_id = ?", leaveTypeID, positionTypeID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *LeaveRepository) FindOpenPositionTypeID(staffID uuid.UUID) (uuid.UUID, error) {
	var positionTypeID uuid.UUID
	err := r.db.Table("position_assignments").
		Select("positions.position_type_id").
		Joins("JOIN positions ON positions.id = position_assignments.position_id").
		Where("position_assignments.staff_id = ?", staffID).
		Where("position_assignments.end_date IS NULL").
		Limit(1).
		Scan(&positionTypeID).Error
	return positionTypeID, err
}

func (r *LeaveRepository) FindBalance(staffID, leaveTypeID uuid.UUID, year int) (*leaveModel.LeaveBalance, error) {
	var row leaveModel.LeaveBalance
	err := r.db.Where("staff_id = ? AND leave_type_id = ? AND year = ?", staffID, leaveTypeID, year).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *LeaveRepository) ListBalances(staffID uuid.UUID, year int) ([]*leaveModel.LeaveBalance, error) {
	var rows []*leaveModel.LeaveBalance
	err := r.db.Where("staff_id = ? AND year = ?", staffID, year).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *LeaveRepository) DebitBalance(balanceID uuid.UUID, days float64) error {
	return r.db.Model(&leaveModel.LeaveBalance{}).
		Where("id = ?", balanceID).
		Updates(map[string]interface{}{
			"taken":      gorm.Expr("taken + ?", days),
			"remaining":  gorm.Expr("remaining - ?", days),
			"updated_at": time.Now(),
		}).Error
}

func (r *LeaveRepository) FindOpenMember(staffID uuid.UUID) (*assignmentModel.WorkgroupAssignment, error) {
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

func (r *LeaveRepository) ListOpenApprovers(workgroupID uuid.UUID) ([]*workgroupModel.Approver, error) {
	var rows []*workgroupModel.Approver
	err := r.db.Where("workgroup_id = ? AND end_date IS NULL", workgroupID).
		Order("approval_order ASC").
		Find(&rows).Error
	return rows, err
}

func (r *LeaveRepository) ListOpenApproverSlotsForStaff(staffID uuid.UUID) ([]*workgroupModel.Approver, error) {
	var rows []*workgroupModel.Approver
	err := r.db.Where("staff_id = ? AND end_date IS NULL", staffID).
		Find(&rows).Error
	return rows, err
}

func (r *LeaveRepository) CreateLeave(row *leaveModel.LeaveApplication) error {
	return r.db.Create(row).Error
}

func (r *LeaveRepository) GetLeave(id uuid.UUID) (*leaveModel.LeaveApplication, error) {
	var row leaveModel.LeaveApplication
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrLeaveNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *LeaveRepository) UpdateLeaveStatus(id uuid.UUID, status string, declineReason *string, decidedBy uuid.UUID, decidedAt time.Time) error {
	updates := map[string]interface{}{
		"status":     status,
		"decided_by": decidedBy,
		"decided_at": decidedAt,
		"updated_at": time.Now(),
	}
	if declineReason != nil {
		updates["decline_reason"] = *declineReason
	}
	return r.db.Model(&leaveModel.LeaveApplication{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *LeaveRepository) ListLeavesByStaff(staffID uuid.UUID) ([]*leaveModel.LeaveApplication, error) {
	var rows []*leaveModel.LeaveApplication
	err := r.db.Where("staff_id = ?", staffID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *LeaveRepository) ListLeavesByWorkgroupAndStatus(workgroupID uuid.UUID, status string) ([]*leaveModel.LeaveApplication, error) {
	var rows []*leaveModel.LeaveApplication
	err := r.db.Where("workgroup_id = ? AND status = ?", workgroupID, status).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
