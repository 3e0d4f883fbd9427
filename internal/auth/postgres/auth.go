package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lihess/lihess-backend/internal"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
)

// AuthRepository implements auth.Repository using GORM.
type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) FindAccountByUsername(username string) (*staffModel.Account, error) {
	var row staffModel.Account
	err := r.db.Where("username = ?", username).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *AuthRepository) GetAccount(id uuid.UUID) (*staffModel.Account, error) {
	var row staffModel.Account
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *AuthRepository) ListOpenRoleNames(accountID uuid.UUID) ([]string, error) {
	var names []string
	err := r.db.Table("role_assignments").
		Select("roles.name").
		Joins("JOIN roles ON roles.id = role_assignments.role_id").
		Where("role_assignments.account_id = ? AND role_assignments.end_date IS NULL", accountID).
		Scan(&names).Error
	return names, err
}

func (r *AuthRepository) ActivateAccount(accountID uuid.UUID, passwordHash string, activatedAt time.Time) error {
	return r.db.Model(&staffModel.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"password_hash":  passwordHash,
			"is_active":      true,
			"activated_at":   activatedAt,
			"otp_hash":       nil,
			"otp_expires_at": nil,
			"updated_at":     time.Now(),
		}).Error
}
