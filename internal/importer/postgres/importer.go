package postgres

import (
	"errors"

	"gorm.io/gorm"

	orgModel "github.com/lihess/lihess-backend/internal/core/datamodel/org"
)

// ImporterRepository resolves workbook dictionary names using GORM.
type ImporterRepository struct {
	db *gorm.DB
}

func NewImporterRepository(db *gorm.DB) *ImporterRepository {
	return &ImporterRepository{db: db}
}

func findBy[T any](db *gorm.DB, query string, value string) (*T, error) {
	var row T
	err := db.Where(query, value).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *ImporterRepository) FindCoEByNumber(number string) (*orgModel.CoE, error) {
	return findBy[orgModel.CoE](r.db, "number = ?", number)
}

func (r *ImporterRepository) FindDepartmentByName(name string) (*orgModel.Department, error) {
	return findBy[orgModel.Department](r.db, "name = ?", name)
}

func (r *ImporterRepository) FindPositionByTitle(title string) (*orgModel.Position, error) {
	return findBy[orgModel.Position](r.db, "title = ?", title)
}

func (r *ImporterRepository) FindGrantByCode(code string) (*orgModel.Grant, error) {
	return findBy[orgModel.Grant](r.db, "code = ?", code)
}

func (r *ImporterRepository) FindRoleByName(name string) (*orgModel.Role, error) {
	return findBy[orgModel.Role](r.db, "name = ?", name)
}
