package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lihess/lihess-backend/internal"
	notificationModel "github.com/lihess/lihess-backend/internal/core/datamodel/notification"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
)

// NotificationRepository implements notification.Repository using GORM.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateNotification(row *notificationModel.Notification) error {
	return r.db.Create(row).Error
}

func (r *NotificationRepository) GetNotification(id uuid.UUID) (*notificationModel.Notification, error) {
	var row notificationModel.Notification
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError("Notification not found", internal.ErrCodeTargetNotFound)
		}
		return nil, err
	}
	return &row, nil
}

func (r *NotificationRepository) ListByStaff(staffID uuid.UUID) ([]*notificationModel.Notification, error) {
	var rows []*notificationModel.Notification
	err := r.db.Where("staff_id = ?", staffID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *NotificationRepository) MarkRead(id uuid.UUID, readAt time.Time) error {
	return r.db.Model(&notificationModel.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": readAt,
		}).Error
}

func (r *NotificationRepository) GetStaff(id uuid.UUID) (*staffModel.Staff, error) {
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
