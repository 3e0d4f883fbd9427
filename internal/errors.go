package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidPercentage    ErrorCode = "INVALID_WORK_TIME_PERCENTAGE"
	ErrCodeInvalidApproverOrder ErrorCode = "INVALID_APPROVER_ORDER"
	ErrCodeIneligiblePosition   ErrorCode = "INELIGIBLE_POSITION_TYPE"
	ErrCodeMissingDepartment    ErrorCode = "MISSING_DEPARTMENT_ASSIGNMENT"
	ErrCodeLeaveOutOfPolicy     ErrorCode = "LEAVE_DAYS_OUT_OF_POLICY"
	ErrCodeInsufficientBalance  ErrorCode = "INSUFFICIENT_LEAVE_BALANCE"
	ErrCodeNoApproverWorkgroup  ErrorCode = "NO_APPROVER_WORKGROUP"
	ErrCodeInvalidLeaveStatus   ErrorCode = "INVALID_LEAVE_STATUS"

	ErrCodeStaffNotFound      ErrorCode = "STAFF_NOT_FOUND"
	ErrCodeAccountNotFound    ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrCodeAssignmentNotFound ErrorCode = "ASSIGNMENT_NOT_FOUND"
	ErrCodeWorkgroupNotFound  ErrorCode = "WORKGROUP_NOT_FOUND"
	ErrCodeLeaveNotFound      ErrorCode = "LEAVE_APPLICATION_NOT_FOUND"
	ErrCodeTargetNotFound     ErrorCode = "TARGET_NOT_FOUND"

	ErrCodeDuplicateAssignment ErrorCode = "DUPLICATE_ACTIVE_ASSIGNMENT"
	ErrCodeRoleCapExceeded     ErrorCode = "ROLE_CAP_EXCEEDED"
	ErrCodeOrderSlotOccupied   ErrorCode = "APPROVER_ORDER_OCCUPIED"
	ErrCodeDuplicateStaff      ErrorCode = "DUPLICATE_STAFF"
	ErrCodeDuplicateDictionary ErrorCode = "DUPLICATE_DICTIONARY_ENTRY"

	ErrCodeNotAnApprover      ErrorCode = "NOT_AN_APPROVER"
	ErrCodeMissingRole        ErrorCode = "MISSING_REQUIRED_ROLE"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeAccountInactive    ErrorCode = "ACCOUNT_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeInvalidOTP         ErrorCode = "INVALID_OTP"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrStaffNotFound      = NewNotFoundError("Staff not found", ErrCodeStaffNotFound)
	ErrAccountNotFound    = NewNotFoundError("Account not found", ErrCodeAccountNotFound)
	ErrAssignmentNotFound = NewNotFoundError("No active assignment found", ErrCodeAssignmentNotFound)
	ErrWorkgroupNotFound  = NewNotFoundError("Workgroup not found", ErrCodeWorkgroupNotFound)
	ErrLeaveNotFound      = NewNotFoundError("Leave application not found", ErrCodeLeaveNotFound)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid username or password", ErrCodeInvalidCredentials)
	ErrAccountInactive    = NewForbiddenError("Account is inactive", ErrCodeAccountInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
