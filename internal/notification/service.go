package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lihess/lihess-backend/internal"
	notificationModel "github.com/lihess/lihess-backend/internal/core/datamodel/notification"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
)

type Repository interface {
	CreateNotification(row *notificationModel.Notification) error
	GetNotification(id uuid.UUID) (*notificationModel.Notification, error)
	ListByStaff(staffID uuid.UUID) ([]*notificationModel.Notification, error)
	MarkRead(id uuid.UUID, readAt time.Time) error

	GetStaff(id uuid.UUID) (*staffModel.Staff, error)
}

// Service persists notifications and mirrors them to email. Delivery
// failures are surfaced to the caller as errors but the stored row stays.
type Service struct {
	repo   Repository
	mailer Mailer
	logger *slog.Logger
}

func NewService(repo Repository, mailer Mailer, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		mailer: mailer,
		logger: logger,
	}
}

// Notify stores an in-app notification for the staff member and mails the
// same text to their address.
func (s *Service) Notify(ctx context.Context, staffID uuid.UUID, subject, message string) error {
	recipient, err := s.repo.GetStaff(staffID)
	if err != nil {
		return err
	}

	row := &notificationModel.Notification{
		ID:      uuid.New(),
		StaffID: staffID,
		Subject: subject,
		Message: message,
	}
	if err := s.repo.CreateNotification(row); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if err := s.mailer.Send(recipient.Email, subject, message); err != nil {
		s.logger.Warn("notification stored but email delivery failed",
			"staff_id", staffID, "subject", subject, "error", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, staffID uuid.UUID) ([]*notificationModel.Notification, error) {
	return s.repo.ListByStaff(staffID)
}

// MarkRead flips the read flag; only the recipient may do it.
func (s *Service) MarkRead(ctx context.Context, actorStaffID, notificationID uuid.UUID) error {
	row, err := s.repo.GetNotification(notificationID)
	if err != nil {
		return err
	}
	if row.StaffID != actorStaffID {
		return internal.NewForbiddenError("Notification belongs to another staff member", internal.ErrCodeMissingRole)
	}
	if row.IsRead {
		return nil
	}
	return s.repo.MarkRead(notificationID, time.Now())
}
