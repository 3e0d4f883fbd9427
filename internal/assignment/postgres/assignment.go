package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lihess/lihess-backend/internal"
	"github.com/lihess/lihess-backend/internal/assignment"
	assignmentModel "github.com/lihess/lihess-backend/internal/core/datamodel/assignment"
	orgModel "github.com/lihess/lihess-backend/internal/core/datamodel/org"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
	workgroupModel "github.com/lihess/lihess-backend/internal/core/datamodel/workgroup"
	"gorm.io/gorm"
)

// AssignmentRepository implements assignment.Repository using GORM. Every
// assignment kind shares the same open row mechanics, so the temporal
// queries are generic over the row type.
type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// TxManager binds an assignment.Repository to a single database
// transaction.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) InTx(fn func(assignment.Repository) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewAssignmentRepository(tx))
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

// findOpen returns the single open row matching the condition, or nil when
// no open row exists.
func findOpen[T any](db *gorm.DB, query string, args ...interface{}) (*T, error) {
	var row T
	err := db.Where(query, args...).Where("end_date IS NULL").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func listOpen[T any](db *gorm.DB, query string, args ...interface{}) ([]*T, error) {
	var rows []*T
	err := db.Where(query, args...).Where("end_date IS NULL").
		Order("start_date ASC").
		Find(&rows).Error
	return rows, err
}

// closeOpen stamps end_date on the open row matching the condition.
func closeOpen[T any](db *gorm.DB, endDate time.Time, query string, args ...interface{}) error {
	return db.Model(new(T)).
		Where(query, args...).
		Where("end_date IS NULL").
		Update("end_date", endDate).Error
}

func (r *AssignmentRepository) GetStaff(id uuid.UUID) (*staffModel.Staff, error) {
	return getByID[staffModel.Staff](r.db, id, internal.ErrStaffNotFound)
}

func (r *AssignmentRepository) GetAccountByStaffID(staffID uuid.UUID) (*staffModel.Account, error) {
	var account staffModel.Account
	err := r.db.Where("staff_id = ?", staffID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *AssignmentRepository) UpdateAccountUsername(accountID uuid.UUID, username string) error {
	return r.db.Model(&staffModel.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"username":   username,
			"updated_at": time.Now(),
		}).Error
}

func (r *AssignmentRepository) GetRole(id uuid.UUID) (*orgModel.Role, error) {
	return getByID[orgModel.Role](r.db, id, internal.NewNotFoundError("Role not found", internal.ErrCodeTargetNotFound))
}

func (r *AssignmentRepository) GetCoE(id uuid.UUID) (*orgModel.CoE, error) {
	return getByID[orgModel.CoE](r.db, id, internal.NewNotFoundError("CoE not found", internal.ErrCodeTargetNotFound))
}

func (r *AssignmentRepository) GetDepartment(id uuid.UUID) (*orgModel.Department, error) {
	return getByID[orgModel.Department](r.db, id, internal.NewNotFoundError("Department not found", internal.ErrCodeTargetNotFound))
}

func (r *AssignmentRepository) GetPosition(id uuid.UUID) (*orgModel.Position, error) {
	return getByID[orgModel.Position](r.db, id, internal.NewNotFoundError("Position not found", internal.ErrCodeTargetNotFound))
}

func (r *AssignmentRepository) GetPositionType(id uuid.UUID) (*orgModel.PositionType, error) {
	return getByID[orgModel.PositionType](r.db, id, internal.NewNotFoundError("Position type not found", internal.ErrCodeTargetNotFound))
}

func (r *AssignmentRepository) GetGrant(id uuid.UUID) (*orgModel.Grant, error) {
	return getByID[orgModel.Grant](r.db, id, internal.NewNotFoundError("Grant not found", internal.ErrCodeTargetNotFound))
}

func (r *AssignmentRepository) GetWorkgroup(id uuid.UUID) (*workgroupModel.Workgroup, error) {
	return getByID[workgroupModel.Workgroup](r.db, id, internal.ErrWorkgroupNotFound)
}

func (r *AssignmentRepository) FindOpenCoE(staffID uuid.UUID) (*assignmentModel.CoEAssignment, error) {
	return findOpen[assignmentModel.CoEAssignment](r.db, "staff_id = ?", staffID)
}

func (r *AssignmentRepository) OpenCoE(row *assignmentModel.CoEAssignment) error {
	return r.db.Create(row).Error
}

func (r *AssignmentRepository) CloseCoE(staffID uuid.UUID, endDate time.Time) error {
	return closeOpen[assignmentModel.CoEAssignment](r.db, endDate, "staff_id = ?", staffID)
}

func (r *AssignmentRepository) FindOpenDepartment(staffID uuid.UUID) (*assignmentModel.DepartmentAssignment, error) {
	return findOpen[assignmentModel.DepartmentAssignment](r.db, "staff_id = ?", staffID)
}

func (r *AssignmentRepository) FindOpenHeadOfDepartment(departmentID uuid.UUID) (*assignmentModel.DepartmentAssignment, error) {
	return findOpen[assignmentModel.DepartmentAssignment](r.db, "department_id = ? AND is_hod = ?", departmentID, true)
}

func (r *AssignmentRepository) OpenDepartment(row *assignmentModel.DepartmentAssignment) error {
	return r.db.Create(row).Error
}

func (r *AssignmentRepository) CloseDepartment(staffID uuid.UUID, endDate time.Time) error {
	return closeOpen[assignmentModel.DepartmentAssignment](r.db, endDate, "staff_id = ?", staffID)
}

func (r *AssignmentRepository) FindOpenPosition(staffID uuid.UUID) (*assignmentModel.PositionAssignment, error) {
	return findOpen[assignmentModel.PositionAssignment](r.db, "staff_id = ?", staffID)
}

func (r *AssignmentRepository) OpenPosition(row *assignmentModel.PositionAssignment) error {
	return r.db.Create(row).Error
}

func (r *AssignmentRepository) ClosePosition(staffID uuid.UUID, endDate time.Time) error {
	return closeOpen[assignmentModel.PositionAssignment](r.db, endDate, "staff_id = ?", staffID)
}

func (r *AssignmentRepository) FindOpenDirector(directorateID uuid.UUID) (*assignmentModel.DirectorAssignment, error) {
	return findOpen[assignmentModel.DirectorAssignment](r.db, "directorate_id = ?", directorateID)
}

func (r *AssignmentRepository) OpenDirector(row *assignmentModel.DirectorAssignment) error {
	return r.db.Create(row).Error
}

func (r *AssignmentRepository) CloseDirector(directorateID uuid.UUID, endDate time.Time) error {
	return closeOpen[assignmentModel.DirectorAssignment](r.db, endDate, "directorate_id = ?", directorateID)
}

func (r *AssignmentRepository) ListOpenGrants(staffID uuid.UUID) ([]*assignmentModel.GrantAssignment, error) {
	return listOpen[assignmentModel.GrantAssignment](r.db, "staff_id = ?", staffID)
}

func (r *AssignmentRepository) FindOpenGrant(staffID, grantID uuid.UUID) (*assignmentModel.GrantAssignment, error) {
	return findOpen[assignmentModel.GrantAssignment](r.db, "staff_id = ? AND grant_id = ?", staffID, grantID)
}

func (r *AssignmentRepository) OpenGrant(row *assignmentModel.GrantAssignment) error {
	return r.db.Create(row).Error
}

func (r *AssignmentRepository) CloseGrant(staffID, grantID uuid.UUID, endDate time.Time) error {
	return closeOpen[assignmentModel.GrantAssignment](r.db, endDate, "staff_id = ? AND grant_id = ?", staffID, grantID)
}

func (r *AssignmentRepository) ListOpenRoles(accountID uuid.UUID) ([]*assignmentModel.RoleAssignment, error) {
	return listOpen[assignmentModel.RoleAssignment](r.db, "account_id = ?", accountID)
}

func (r *AssignmentRepository) OpenRole(row *assignmentModel.RoleAssignment) error {
	return r.db.Create(row).Error
}

func (r *AssignmentRepository) CloseRole(accountID, roleID uuid.UUID, endDate time.Time) error {
	return closeOpen[assignmentModel.RoleAssignment](r.db, endDate, "account_id = ? AND role_id = ?", accountID, roleID)
}

func (r *AssignmentRepository) FindOpenWorkgroup(staffID uuid.UUID) (*assignmentModel.WorkgroupAssignment, error) {
	return findOpen[assignmentModel.WorkgroupAssignment](r.db, "staff_id = ?", staffID)
}

func (r *AssignmentRepository) OpenWorkgroup(row *assignmentModel.WorkgroupAssignment) error {
	return r.db.Create(row).Error
}

func (r *AssignmentRepository) CloseWorkgroup(staffID uuid.UUID, endDate time.Time) error {
	return closeOpen[assignmentModel.WorkgroupAssignment](r.db, endDate, "staff_id = ?", staffID)
}
