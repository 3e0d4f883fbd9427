package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lihess/lihess-backend/internal"
	assignmentModel "github.com/lihess/lihess-backend/internal/core/datamodel/assignment"
	orgModel "github.com/lihess/lihess-backend/internal/core/datamodel/org"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
	workgroupModel "github.com/lihess/lihess-backend/internal/core/datamodel/workgroup"
	"github.com/lihess/lihess-backend/internal/staff"
)

// StaffRepository implements staff.Repository using GORM.
type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) InTx(fn func(staff.Repository) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStaffRepository(tx))
	})
}

func getByID[T any](db *gorm.DB, id uuid.UUID, notFound error) (*T, error) {
	var row T
	err := db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *StaffRepository) GetStaff(id uuid.UUID) (*staffModel.Staff, error) {
	return getByID[staffModel.Staff](r.db, id, internal.ErrStaffNotFound)
}

func (r *StaffRepository) FindStaffByEmail(email string) (*staffModel.Staff, error) {
	var row staffModel.Staff
	err := r.db.Where("email = ?", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *StaffRepository) FindStaffByEmployeeNumber(employeeNumber string) (*staffModel.Staff, error) {
	var row staffModel.Staff
	err := r.db.Where("employee_number = ?", employeeNumber).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *StaffRepository) CreateStaff(row *staffModel.Staff) error {
	return r.db.Create(row).Error
}

func (r *StaffRepository) UpdateStaff(row *staffModel.Staff) error {
	return r.db.Save(row).Error
}

func (r *StaffRepository) ListStaff() ([]*staffModel.Staff, error) {
	var rows []*staffModel.Staff
	err := r.db.Order("employee_number ASC").Find(&rows).Error
	return rows, err
}

func (r *StaffRepository) GetAccountByStaffID(staffID uuid.UUID) (*staffModel.Account, error) {
	var row staffModel.Account
	err := r.db.Where("staff_id = ?", staffID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *StaffRepository) CreateAccount(row *staffModel.Account) error {
	return r.db.Create(row).Error
}

func (r *StaffRepository) UpdateAccountOTP(accountID uuid.UUID, otpHash string, expiresAt time.Time) error {
	return r.db.Model(&staffModel.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"otp_hash":       otpHash,
			"otp_expires_at": expiresAt,
			"updated_at":     time.Now(),
		}).Error
}

func (r *StaffRepository) DeactivateAccount(accountID uuid.UUID) error {
	return r.db.Model(&staffModel.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"is_active":     false,
			"password_hash": "",
			"updated_at":    time.Now(),
		}).Error
}

func (r *StaffRepository) GetCoE(id uuid.UUID) (*orgModel.CoE, error) {
	return getByID[orgModel.CoE](r.db, id, internal.NewNotFoundError("CoE not found", internal.ErrCodeTargetNotFound))
}

func (r *StaffRepository) GetDepartment(id uuid.UUID) (*orgModel.Department, error) {
	return getByID[orgModel.Department](r.db, id, internal.NewNotFoundError("Department not found", internal.ErrCodeTargetNotFound))
}

func (r *StaffRepository) GetPosition(id uuid.UUID) (*orgModel.Position, error) {
	return getByID[orgModel.Position](r.db, id, internal.NewNotFoundError("Position not found", internal.ErrCodeTargetNotFound))
}

func (r *StaffRepository) GetGrant(id uuid.UUID) (*orgModel.Grant, error) {
	return getByID[orgModel.Grant](r.db, id, internal.NewNotFoundError("Grant not found", internal.ErrCodeTargetNotFound))
}

func (r *StaffRepository) GetRole(id uuid.UUID) (*orgModel.Role, error) {
	return getByID[orgModel.Role](r.db, id, internal.NewNotFoundError("Role not found", internal.ErrCodeTargetNotFound))
}

func (r *StaffRepository) OpenCoE(row *assignmentModel.CoEAssignment) error {
	return r.db.Create(row).Error
}

func (r *StaffRepository) OpenDepartment(row *assignmentModel.DepartmentAssignment) error {
	return r.db.Create(row).Error
}

func (r *StaffRepository) OpenPosition(row *assignmentModel.PositionAssignment) error {
	return r.db.Create(row).Error
}

func (r *StaffRepository) OpenGrant(row *assignmentModel.GrantAssignment) error {
	return r.db.Create(row).Error
}

func (r *StaffRepository) OpenRole(row *assignmentModel.RoleAssignment) error {
	return r.db.Create(row).Error
}

func (r *StaffRepository) CloseAllAssignments(staffID, accountID uuid.UUID, endDate time.Time) error {
	byStaff := []interface{}{
		&assignmentModel.CoEAssignment{},
		&assignmentModel.DepartmentAssignment{},
		&assignmentModel.PositionAssignment{},
		&assignmentModel.GrantAssignment{},
		&assignmentModel.WorkgroupAssignment{},
	}
	for _, model := range byStaff {
		err := r.db.Model(model).
			Where("staff_id = ? AND end_date IS NULL", staffID).
			Update("end_date", endDate).Error
		if err != nil {
			return err
		}
	}
	err := r.db.Model(&assignmentModel.RoleAssignment{}).
		Where("account_id = ? AND end_date IS NULL", accountID).
		Update("end_date", endDate).Error
	if err != nil {
		return err
	}
	return r.db.Model(&workgroupModel.Approver{}).
		Where("staff_id = ? AND end_date IS NULL", staffID).
		Update("end_date", endDate).Error
}
