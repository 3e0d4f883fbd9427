package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lihess/lihess-backend/internal"
	leaveModel "github.com/lihess/lihess-backend/internal/core/datamodel/leave"
	orgModel "github.com/lihess/lihess-backend/internal/core/datamodel/org"
)

// OrgRepository stores the organizational dictionaries using GORM.
type OrgRepository struct {
	db *gorm.DB
}

func NewOrgRepository(db *gorm.DB) *OrgRepository {
	return &OrgRepository{db: db}
}

func findBy[T any](db *gorm.DB, query string, values ...any) (*T, error) {
	var row T
	err := db.Where(query, values...).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func listAll[T any](db *gorm.DB, order string) ([]*T, error) {
	var rows []*T
	if err := db.Order(order).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *OrgRepository) FindCoEByNumber(number string) (*orgModel.CoE, error) {
	return findBy[orgModel.CoE](r.db, "number = ?", number)
}

func (r *OrgRepository) CreateCoE(row *orgModel.CoE) error {
	return r.db.Create(row).Error
}

func (r *OrgRepository) ListCoEs() ([]*orgModel.CoE, error) {
	return listAll[orgModel.CoE](r.db, "number")
}

func (r *OrgRepository) FindDirectorateByName(name string) (*orgModel.Directorate, error) {
	return findBy[orgModel.Directorate](r.db, "name = ?", name)
}

func (r *OrgRepository) GetDirectorate(id uuid.UUID) (*orgModel.Directorate, error) {
	row, err := findBy[orgModel.Directorate](r.db, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.NewNotFoundError("Directorate not found", internal.ErrCodeTargetNotFound)
	}
	return row, nil
}

func (r *OrgRepository) CreateDirectorate(row *orgModel.Directorate) error {
	return r.db.Create(row).Error
}

func (r *OrgRepository) ListDirectorates() ([]*orgModel.Directorate, error) {
	return listAll[orgModel.Directorate](r.db, "name")
}

func (r *OrgRepository) CreateDepartment(row *orgModel.Department) error {
	return r.db.Create(row).Error
}

func (r *OrgRepository) ListDepartments() ([]*orgModel.Department, error) {
	return listAll[orgModel.Department](r.db, "name")
}

func (r *OrgRepository) GetPositionType(id uuid.UUID) (*orgModel.PositionType, error) {
	row, err := findBy[orgModel.PositionType](r.db, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.NewNotFoundError("Position type not found", internal.ErrCodeTargetNotFound)
	}
	return row, nil
}

func (r *OrgRepository) ListPositionTypes() ([]*orgModel.PositionType, error) {
	return listAll[orgModel.PositionType](r.db, "name")
}

func (r *OrgRepository) CreatePosition(row *orgModel.Position) error {
	return r.db.Create(row).Error
}

func (r *OrgRepository) ListPositions() ([]*orgModel.Position, error) {
	return listAll[orgModel.Position](r.db, "title")
}

func (r *OrgRepository) FindGrantByCode(code string) (*orgModel.Grant, error) {
	return findBy[orgModel.Grant](r.db, "code = ?", code)
}

func (r *OrgRepository) CreateGrant(row *orgModel.Grant) error {
	return r.db.Create(row).Error
}

func (r *OrgRepository) ListGrants() ([]*orgModel.Grant, error) {
	return listAll[orgModel.Grant](r.db, "code")
}

func (r *OrgRepository) ListRoles() ([]*orgModel.Role, error) {
	return listAll[orgModel.Role](r.db, "name")
}

func (r *OrgRepository) FindLeaveTypeByName(name string) (*leaveModel.LeaveType, error) {
	return findBy[leaveModel.LeaveType](r.db, "name = ?", name)
}

func (r *OrgRepository) CreateLeaveType(row *leaveModel.LeaveType, policy *leaveModel.LeavePolicy) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		return tx.Create(policy).Error
	})
}

func (r *OrgRepository) GetLeaveType(id uuid.UUID) (*leaveModel.LeaveType, error) {
	row, err := findBy[leaveModel.LeaveType](r.db, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.NewNotFoundError("Leave type not found", internal.ErrCodeTargetNotFound)
	}
	return row, nil
}

func (r *OrgRepository) ListLeaveTypes() ([]*leaveModel.LeaveType, error) {
	return listAll[leaveModel.LeaveType](r.db, "name")
}

func (r *OrgRepository) FindPolicy(leaveTypeID, positionTypeID uuid.UUID) (*leaveModel.LeavePolicy, error) {
	return findBy[leaveModel.LeavePolicy](r.db, "leave_type_id = ? AND position_type_id = ?", leaveTypeID, positionTypeID)
}

func (r *OrgRepository) CreatePolicy(row *leaveModel.LeavePolicy) error {
	return r.db.Create(row).Error
}

func (r *OrgRepository) ListPolicies() ([]*leaveModel.LeavePolicy, error) {
	var rows []*leaveModel.LeavePolicy
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *OrgRepository) FindHolidayByDate(date time.Time) (*leaveModel.PublicHoliday, error) {
	return findBy[leaveModel.PublicHoliday](r.db, "holiday_date = ?", date)
}

func (r *OrgRepository) CreateHoliday(row *leaveModel.PublicHoliday) error {
	return r.db.Create(row).Error
}

func (r *OrgRepository) ListHolidays(year int) ([]*leaveModel.PublicHoliday, error) {
	var rows []*leaveModel.PublicHoliday
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	err := r.db.
		Where("holiday_date >= ? AND holiday_date < ?", start, end).
		Order("holiday_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
