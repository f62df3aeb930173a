package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyRunning    = errors.New("session already running")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrSessionRevoked    = errors.New("runtime session revoked")
	ErrSchedulingFailure = errors.New("notification scheduling failed")
)
