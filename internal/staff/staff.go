package staff

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	staffModel "github.com/lihess/lihess-backend/internal/core/datamodel/staff"
)

const (
	// OTPLength is the number of digits in an activation code.
	OTPLength = 6

	// OTPTTL bounds how long an activation or reset code stays usable.
	OTPTTL = 24 * time.Hour
)

// GenerateOTP returns a zero padded numeric code read from crypto/rand.
func GenerateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < OTPLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", OTPLength, n), nil
}

// StaffDetail joins a staff record with its login identity for read endpoints.
type StaffDetail struct {
	Staff         *staffModel.Staff `json:"staff"`
	Username      string            `json:"username"`
	AccountActive bool              `json:"account_active"`
}
