package staff

import (
	"time"

	"github.com/google/uuid"
)

type Staff struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeNumber   string     `gorm:"column:employee_number;uniqueIndex;not null"`
	FirstName        string     `gorm:"column:first_name;not null"`
	LastName         string     `gorm:"column:last_name;not null"`
	Title            string     `gorm:"column:title"`
	Email            string     `gorm:"column:email;uniqueIndex;not null"`
	Phone            string     `gorm:"column:phone"`
	Gender           string     `gorm:"column:gender"`
	DateOfBirth      *time.Time `gorm:"column:date_of_birth;type:date"`
	HomeAddress      string     `gorm:"column:home_address"`
	HighestEducation string     `gorm:"column:highest_education"`
	FieldOfStudy     string     `gorm:"column:field_of_study"`
	HireDate         time.Time  `gorm:"column:hire_date;type:date;not null"`
	TerminationDate  *time.Time `gorm:"column:termination_date;type:date"`
	IsActive         bool       `gorm:"column:is_active;default:true"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Staff) TableName() string { return "staff" }

func (s *Staff) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Account is the login identity of a staff member. A freshly created
// account is inactive until the owner confirms the emailed OTP.
type Account struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	StaffID      uuid.UUID  `gorm:"column:staff_id;type:uuid;uniqueIndex;not null"`
	Username     string     `gorm:"column:username;uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	IsActive     bool       `gorm:"column:is_active;default:false"`
	OTPHash      *string    `gorm:"column:otp_hash"`
	OTPExpiresAt *time.Time `gorm:"column:otp_expires_at"`
	ActivatedAt  *time.Time `gorm:"column:activated_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string { return "accounts" }
