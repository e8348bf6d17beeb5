package util

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrEvaluationNotFound  = errors.New("evaluation not found")
	ErrNoCurrentEvaluation = errors.New("no current evaluation")
	ErrValidation          = errors.New("validation failed")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrReportNotFound      = errors.New("report not found")
)

// ValidationError 带字段信息的校验错误，errors.Is(err, ErrValidation) 为真
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
