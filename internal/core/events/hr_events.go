package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeStaffTransferred = "staff.coe_transferred"
	EventTypeAccountCreated   = "account.created"
	EventTypePasswordReset    = "account.password_reset"
	EventTypeLeaveApplied     = "leave.applied"
	EventTypeLeaveForwarded   = "leave.pending_second_approval"
	EventTypeLeaveApproved    = "leave.approved"
	EventTypeLeaveDeclined    = "leave.declined"
)

// StaffTransferredEvent is published after a CoE transfer commits; the
// notification sink mails the staff member their new username.
type StaffTransferredEvent struct {
	BaseEvent
	StaffID     uuid.UUID `json:"staff_id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	OldCoEName  string    `json:"old_coe_name"`
	NewCoEName  string    `json:"new_coe_name"`
	CenterName  string    `json:"center_name"`
	NewUsername string    `json:"new_username"`
}

func NewStaffTransferredEvent(staffID uuid.UUID, email, fullName, oldCoE, newCoE, centerName, newUsername string) *StaffTransferredEvent {
	return &StaffTransferredEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeStaffTransferred,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"staff_id":     staffID.String(),
				"email":        email,
				"new_username": newUsername,
			},
		},
		StaffID:     staffID,
		Email:       email,
		FullName:    fullName,
		OldCoEName:  oldCoE,
		NewCoEName:  newCoE,
		CenterName:  centerName,
		NewUsername: newUsername,
	}
}

// AccountCreatedEvent carries the activation OTP for a freshly hired staff
// member's account.
type AccountCreatedEvent struct {
	BaseEvent
	StaffID  uuid.UUID `json:"staff_id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Username string    `json:"username"`
	OTP      string    `json:"otp"`
}

func NewAccountCreatedEvent(staffID uuid.UUID, email, fullName, username, otp string) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAccountCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"staff_id": staffID.String(),
				"email":    email,
				"username": username,
			},
		},
		StaffID:  staffID,
		Email:    email,
		FullName: fullName,
		Username: username,
		OTP:      otp,
	}
}

type PasswordResetEvent struct {
	BaseEvent
	StaffID  uuid.UUID `json:"staff_id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Username string    `json:"username"`
	OTP      string    `json:"otp"`
}

func NewPasswordResetEvent(staffID uuid.UUID, email, fullName, username, otp string) *PasswordResetEvent {
	return &PasswordResetEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePasswordReset,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"staff_id": staffID.String(),
				"email":    email,
			},
		},
		StaffID:  staffID,
		Email:    email,
		FullName: fullName,
		Username: username,
		OTP:      otp,
	}
}

// LeaveChainEvent covers every leave state transition; RecipientStaffID is
// who gets notified (next approver or the applicant), ObserverStaffIDs are
// the notify-only HR slots copied on terminal transitions.
type LeaveChainEvent struct {
	BaseEvent
	LeaveID          uuid.UUID   `json:"leave_id"`
	ApplicantStaffID uuid.UUID   `json:"applicant_staff_id"`
	ApplicantName    string      `json:"applicant_name"`
	RecipientStaffID uuid.UUID   `json:"recipient_staff_id"`
	ObserverStaffIDs []uuid.UUID `json:"observer_staff_ids,omitempty"`
	Subject          string      `json:"subject"`
	Message          string      `json:"message"`
}

func NewLeaveChainEvent(eventType string, leaveID, applicantStaffID, recipientStaffID uuid.UUID, applicantName, subject, message string, observers []uuid.UUID) *LeaveChainEvent {
	return &LeaveChainEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"leave_id":           leaveID.String(),
				"applicant_staff_id": applicantStaffID.String(),
				"recipient_staff_id": recipientStaffID.String(),
			},
		},
		LeaveID:          leaveID,
		ApplicantStaffID: applicantStaffID,
		ApplicantName:    applicantName,
		RecipientStaffID: recipientStaffID,
		ObserverStaffIDs: observers,
		Subject:          subject,
		Message:          message,
	}
}
