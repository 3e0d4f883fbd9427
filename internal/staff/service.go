package staff

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lihess/lihess-backend/internal"
	"github.com/lihess/lihess-backend/internal/assignment"
	assignmentModel "github.com/lihess/lihess-backend/internal/core/datamodel/assignment"
	orgModel "github.com/lihess/lihess-backend/internal/core/datamodel/org"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
	"github.com/lihess/lihess-backend/internal/core/events"
)

type Repository interface {
	GetStaff(id uuid.UUID) (*staffModel.Staff, error)
	FindStaffByEmail(email string) (*staffModel.Staff, error)
	FindStaffByEmployeeNumber(employeeNumber string) (*staffModel.Staff, error)
	CreateStaff(row *staffModel.Staff) error
	UpdateStaff(row *staffModel.Staff) error
	ListStaff() ([]*staffModel.Staff, error)

	GetAccountByStaffID(staffID uuid.UUID) (*staffModel.Account, error)
	CreateAccount(row *staffModel.Account) error
	UpdateAccountOTP(accountID uuid.UUID, otpHash string, expiresAt time.Time) error
	DeactivateAccount(accountID uuid.UUID) error

	GetCoE(id uuid.UUID) (*orgModel.CoE, error)
	GetDepartment(id uuid.UUID) (*orgModel.Department, error)
	GetPosition(id uuid.UUID) (*orgModel.Position, error)
	GetGrant(id uuid.UUID) (*orgModel.Grant, error)
	GetRole(id uuid.UUID) (*orgModel.Role, error)

	OpenCoE(row *assignmentModel.CoEAssignment) error
	OpenDepartment(row *assignmentModel.DepartmentAssignment) error
	OpenPosition(row *assignmentModel.PositionAssignment) error
	OpenGrant(row *assignmentModel.GrantAssignment) error
	OpenRole(row *assignmentModel.RoleAssignment) error

	// CloseAllAssignments closes every open assignment row the staff member
	// holds, across all kinds, at the given date.
	CloseAllAssignments(staffID, accountID uuid.UUID, endDate time.Time) error
}

type TxManager interface {
	InTx(fn func(Repository) error) error
}

// AssignmentAPI is the slice of the assignment manager the composite update
// delegates to, so position and CoE side effects stay in one place.
type AssignmentAPI interface {
	TransferCoE(ctx context.Context, actorID, staffID uuid.UUID, dto assignment.TransferCoEDTO) (*assignment.TransferResult, error)
	AssignDepartment(ctx context.Context, actorID, staffID uuid.UUID, dto assignment.AssignDepartmentDTO) (*assignmentModel.DepartmentAssignment, error)
	AssignPosition(ctx context.Context, actorID, staffID uuid.UUID, dto assignment.AssignPositionDTO) (*assignmentModel.PositionAssignment, error)
}

type Service struct {
	repo        Repository
	txm         TxManager
	assignments AssignmentAPI
	eventBus    *events.EventBus
	logger      *slog.Logger
	bcryptCost  int
}

func NewService(repo Repository, txm TxManager, assignments AssignmentAPI, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		txm:         txm,
		assignments: assignments,
		eventBus:    eventBus,
		logger:      logger,
		bcryptCost:  bcrypt.DefaultCost,
	}
}

// CreateStaff hires a staff member: the personal record, the initial
// assignments and an inactive account are written in one transaction, then
// the activation code is mailed out through the event bus.
func (s *Service) CreateStaff(ctx context.Context, actorID uuid.UUID, dto CreateStaffDTO) (*staffModel.Staff, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindStaffByEmail(dto.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, internal.NewConflictError("A staff member with this email already exists", internal.ErrCodeDuplicateStaff)
	}
	if existing, err := s.repo.FindStaffByEmployeeNumber(dto.EmployeeNumber); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, internal.NewConflictError("A staff member with this employee number already exists", internal.ErrCodeDuplicateStaff)
	}

	coe, err := s.repo.GetCoE(dto.CoEID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetDepartment(dto.DepartmentID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetPosition(dto.PositionID); err != nil {
		return nil, err
	}
	if dto.GrantID != nil {
		if _, err := s.repo.GetGrant(*dto.GrantID); err != nil {
			return nil, err
		}
	}
	if dto.RoleID != nil {
		if _, err := s.repo.GetRole(*dto.RoleID); err != nil {
			return nil, err
		}
	}

	otp, err := GenerateOTP()
	if err != nil {
		return nil, internal.NewInternalError("Failed to generate activation code", err)
	}
	otpHash, err := bcrypt.GenerateFromPassword([]byte(otp), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("Failed to hash activation code", err)
	}

	now := time.Now()
	expiresAt := now.Add(OTPTTL)
	username := assignment.BuildUsername(coe.Number, dto.EmployeeNumber)

	row := &staffModel.Staff{
		ID:               uuid.New(),
		EmployeeNumber:   dto.EmployeeNumber,
		FirstName:        dto.FirstName,
		LastName:         dto.LastName,
		Title:            dto.Title,
		Email:            dto.Email,
		Phone:            dto.Phone,
		Gender:           dto.Gender,
		DateOfBirth:      dto.DateOfBirth,
		HomeAddress:      dto.HomeAddress,
		HighestEducation: dto.HighestEducation,
		FieldOfStudy:     dto.FieldOfStudy,
		HireDate:         dto.HireDate,
		IsActive:         true,
	}
	account := &staffModel.Account{
		ID:           uuid.New(),
		StaffID:      row.ID,
		Username:     username,
		PasswordHash: "",
		IsActive:     false,
		OTPHash:      ptr(string(otpHash)),
		OTPExpiresAt: &expiresAt,
	}

	window := assignmentModel.Window{StartDate: dto.HireDate, AssignedBy: actorID}

	err = s.txm.InTx(func(tx Repository) error {
		if err := tx.CreateStaff(row); err != nil {
			return fmt.Errorf("failed to create staff: %w", err)
		}
		if err := tx.CreateAccount(account); err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		if err := tx.OpenCoE(&assignmentModel.CoEAssignment{
			ID: uuid.New(), StaffID: row.ID, CoEID: dto.CoEID, Window: window,
		}); err != nil {
			return fmt.Errorf("failed to open coe assignment: %w", err)
		}
		if err := tx.OpenDepartment(&assignmentModel.DepartmentAssignment{
			ID: uuid.New(), StaffID: row.ID, DepartmentID: dto.DepartmentID, Window: window,
		}); err != nil {
			return fmt.Errorf("failed to open department assignment: %w", err)
		}
		if err := tx.OpenPosition(&assignmentModel.PositionAssignment{
			ID: uuid.New(), StaffID: row.ID, PositionID: dto.PositionID, Window: window,
		}); err != nil {
			return fmt.Errorf("failed to open position assignment: %w", err)
		}
		if dto.GrantID != nil {
			if err := tx.OpenGrant(&assignmentModel.GrantAssignment{
				ID: uuid.New(), StaffID: row.ID, GrantID: *dto.GrantID,
				WorkTimePercentage: dto.WorkTimePercentage, Window: window,
			}); err != nil {
				return fmt.Errorf("failed to open grant assignment: %w", err)
			}
		}
		if dto.RoleID != nil {
			if err := tx.OpenRole(&assignmentModel.RoleAssignment{
				ID: uuid.New(), AccountID: account.ID, RoleID: *dto.RoleID, Window: window,
			}); err != nil {
				return fmt.Errorf("failed to open role assignment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := events.NewAccountCreatedEvent(row.ID, row.Email, row.FullName(), username, otp)
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("staff created but activation notification failed",
			"staff_id", row.ID, "error", err)
	}

	s.logger.Info("staff member created",
		"staff_id", row.ID, "employee_number", row.EmployeeNumber, "username", username)
	return row, nil
}

// Terminate deactivates a staff member without deleting history: the staff
// row keeps its termination date, the account loses its password and every
// open assignment is closed.
func (s *Service) Terminate(ctx context.Context, staffID uuid.UUID, dto TerminateStaffDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	row, err := s.repo.GetStaff(staffID)
	if err != nil {
		return err
	}
	if row.TerminationDate != nil {
		return internal.NewConflictError("Staff member is already terminated", internal.ErrCodeValidationFailed)
	}
	account, err := s.repo.GetAccountByStaffID(staffID)
	if err != nil {
		return err
	}

	err = s.txm.InTx(func(tx Repository) error {
		row.TerminationDate = &dto.TerminationDate
		row.IsActive = false
		if err := tx.UpdateStaff(row); err != nil {
			return fmt.Errorf("failed to update staff: %w", err)
		}
		if err := tx.DeactivateAccount(account.ID); err != nil {
			return fmt.Errorf("failed to deactivate account: %w", err)
		}
		if err := tx.CloseAllAssignments(staffID, account.ID, dto.TerminationDate); err != nil {
			return fmt.Errorf("failed to close assignments: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("staff member terminated", "staff_id", staffID, "termination_date", dto.TerminationDate)
	return nil
}

// UpdateUserInfo updates personal fields and optionally reassigns CoE,
// department or position through the assignment manager.
func (s *Service) UpdateUserInfo(ctx context.Context, actorID, staffID uuid.UUID, dto UpdateUserInfoDTO) (*staffModel.Staff, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetStaff(staffID)
	if err != nil {
		return nil, err
	}

	if dto.FirstName != nil {
		row.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		row.LastName = *dto.LastName
	}
	if dto.Phone != nil {
		row.Phone = *dto.Phone
	}
	if dto.DateOfBirth != nil {
		row.DateOfBirth = dto.DateOfBirth
	}
	if err := s.repo.UpdateStaff(row); err != nil {
		return nil, fmt.Errorf("failed to update staff: %w", err)
	}

	if dto.DepartmentID != nil {
		_, err := s.assignments.AssignDepartment(ctx, actorID, staffID, assignment.AssignDepartmentDTO{
			DepartmentID: *dto.DepartmentID, StartDate: dto.StartDate,
		})
		if err != nil {
			return nil, err
		}
	}
	if dto.PositionID != nil {
		_, err := s.assignments.AssignPosition(ctx, actorID, staffID, assignment.AssignPositionDTO{
			PositionID: *dto.PositionID, StartDate: dto.StartDate,
		})
		if err != nil {
			return nil, err
		}
	}
	if dto.CoEID != nil {
		_, err := s.assignments.TransferCoE(ctx, actorID, staffID, assignment.TransferCoEDTO{
			CoEID: *dto.CoEID, StartDate: dto.StartDate,
		})
		if err != nil {
			return nil, err
		}
	}

	return row, nil
}

// ResetPassword issues a fresh activation code; the account keeps working
// with the old password until the owner confirms the new one.
func (s *Service) ResetPassword(ctx context.Context, staffID uuid.UUID) error {
	row, err := s.repo.GetStaff(staffID)
	if err != nil {
		return err
	}
	account, err := s.repo.GetAccountByStaffID(staffID)
	if err != nil {
		return err
	}

	otp, err := GenerateOTP()
	if err != nil {
		return internal.NewInternalError("Failed to generate reset code", err)
	}
	otpHash, err := bcrypt.GenerateFromPassword([]byte(otp), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("Failed to hash reset code", err)
	}

	if err := s.repo.UpdateAccountOTP(account.ID, string(otpHash), time.Now().Add(OTPTTL)); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	event := events.NewPasswordResetEvent(row.ID, row.Email, row.FullName(), account.Username, otp)
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("reset code stored but notification failed", "staff_id", staffID, "error", err)
	}

	s.logger.Info("password reset initiated", "staff_id", staffID)
	return nil
}

func (s *Service) GetStaff(ctx context.Context, staffID uuid.UUID) (*StaffDetail, error) {
	row, err := s.repo.GetStaff(staffID)
	if err != nil {
		return nil, err
	}
	account, err := s.repo.GetAccountByStaffID(staffID)
	if err != nil {
		return nil, err
	}
	return &StaffDetail{
		Staff:         row,
		Username:      account.Username,
		AccountActive: account.IsActive,
	}, nil
}

func (s *Service) ListStaff(ctx context.Context) ([]*staffModel.Staff, error) {
	return s.repo.ListStaff()
}

func ptr[T any](v T) *T { return &v }
