package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")

	// Dependency errors
	ErrServiceUnavailable = errors.New("service unavailable")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrProfileNotFound    = errors.New("profile not found")
)

// Course errors
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseInactive     = errors.New("course is not active")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyCompleted   = errors.New("course already completed")
)

// Project errors
var (
	ErrProjectNotFound = errors.New("project not found")
)

// Subscription errors
var (
	ErrAlreadySubscribed    = errors.New("email is already subscribed to this service")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// Achievement and quiz errors
var (
	ErrAchievementAlreadyGranted = errors.New("achievement already granted")
	ErrQuizResultNotFound        = errors.New("quiz result not found")
)

// NotFoundErrors lists every sentinel that maps to a missing resource.
var NotFoundErrors = []error{
	ErrUserNotFound, ErrProfileNotFound, ErrCourseNotFound,
	ErrEnrollmentNotFound, ErrProjectNotFound, ErrSubscriptionNotFound,
	ErrQuizResultNotFound,
}

// ConflictErrors lists every sentinel that maps to a state conflict.
var ConflictErrors = []error{
	ErrResourceAlreadyExists, ErrEmailAlreadyExists, ErrAlreadyEnrolled,
	ErrAlreadyCompleted, ErrAlreadySubscribed, ErrAchievementAlreadyGranted,
	ErrCourseInactive,
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError creates a validation error pointing at a single field
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Details: map[string]interface{}{"field": field},
	}
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithStatusMsg adds a user-friendly status message
func (e *CustomError) WithStatusMsg(msg string) *CustomError {
	e.StatusMsg = msg
	return e
}

// MessageOf returns the most specific human readable message carried by err.
// CustomError messages win over the wrapped sentinel text.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var custom *CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return err.Error()
}
