package auth

import (
	"github.com/lihess/lihess-backend/internal"
)

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if dto.Username == "" {
		return internal.NewValidationFieldError("username", "username is required", internal.ErrCodeValidationFailed)
	}
	if dto.Password == "" {
		return internal.NewValidationFieldError("password", "password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (dto RefreshTokenDTO) Validate() error {
	if dto.RefreshToken == "" {
		return internal.NewValidationFieldError("refresh_token", "refresh_token is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// ActivateAccountDTO confirms the emailed code and sets the first password.
// The same shape completes a password reset.
type ActivateAccountDTO struct {
	Username    string `json:"username"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

func (dto ActivateAccountDTO) Validate() error {
	if dto.Username == "" {
		return internal.NewValidationFieldError("username", "username is required", internal.ErrCodeValidationFailed)
	}
	if dto.OTP == "" {
		return internal.NewValidationFieldError("otp", "otp is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.NewPassword) < 8 {
		return internal.NewValidationFieldError("new_password", "new_password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}
