package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lihess/lihess-backend/internal"
	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
)

type Repository interface {
	FindAccountByUsername(username string) (*staffModel.Account, error)
	GetAccount(id uuid.UUID) (*staffModel.Account, error)
	ListOpenRoleNames(accountID uuid.UUID) ([]string, error)

	// ActivateAccount stores the new password hash, marks the account active
	// and clears the pending code.
	ActivateAccount(accountID uuid.UUID, passwordHash string, activatedAt time.Time) error
}

type Service struct {
	repo           Repository
	tokenGenerator TokenGenerator
	bcryptCost     int
}

func NewService(repo Repository, tokenGen TokenGenerator) *Service {
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcrypt.DefaultCost,
	}
}

// Authenticate validates credentials against an activated account.
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	account, err := s.repo.FindAccountByUsername(dto.Username)
	if err != nil {
		return AuthTokens{}, err
	}
	if account == nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}
	if !account.IsActive || account.PasswordHash == "" {
		return AuthTokens{}, internal.ErrAccountInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	return s.issueTokens(account.ID.String(), account.Username)
}

// Activate confirms the emailed code and sets the password; a reset flows
// through the same path since ResetPassword stores a fresh code.
func (s *Service) Activate(dto ActivateAccountDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	account, err := s.repo.FindAccountByUsername(dto.Username)
	if err != nil {
		return err
	}
	if account == nil {
		return internal.ErrAccountNotFound
	}
	if account.OTPHash == nil || account.OTPExpiresAt == nil {
		return internal.NewValidationError("No activation code is pending for this account", internal.ErrCodeInvalidOTP)
	}
	if time.Now().After(*account.OTPExpiresAt) {
		return internal.NewValidationError("Activation code has expired", internal.ErrCodeInvalidOTP)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*account.OTPHash), []byte(dto.OTP)); err != nil {
		return internal.NewValidationError("Activation code does not match", internal.ErrCodeInvalidOTP)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("Failed to hash password", err)
	}
	if err := s.repo.ActivateAccount(account.ID, string(hash), time.Now()); err != nil {
		return fmt.Errorf("failed to activate account: %w", err)
	}
	return nil
}

// RefreshTokens exchanges a valid refresh token for a new pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	accountID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}
	account, err := s.repo.GetAccount(accountID)
	if err != nil {
		return AuthTokens{}, err
	}
	if !account.IsActive {
		return AuthTokens{}, internal.ErrAccountInactive
	}

	return s.issueTokens(account.ID.String(), account.Username)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// ResolveActor loads the account behind validated claims together with its
// currently open role names.
func (s *Service) ResolveActor(claims *Claims) (*internal.Actor, error) {
	accountID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	account, err := s.repo.GetAccount(accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, internal.ErrAccountInactive
	}

	roles, err := s.repo.ListOpenRoleNames(account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	return &internal.Actor{
		UserID:   account.ID,
		StaffID:  account.StaffID,
		Username: account.Username,
		Roles:    roles,
	}, nil
}

func (s *Service) issueTokens(userID, username string) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, username)
	if err != nil {
		return AuthTokens{}, err
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, username)
	if err != nil {
		return AuthTokens{}, err
	}
	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
