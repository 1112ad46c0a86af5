package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrNotFound           = fmt.Errorf("resource not found")
	ErrValidation         = fmt.Errorf("request validation failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrGoalNotFound       = fmt.Errorf("goal not found")
	ErrProfileNotFound    = fmt.Errorf("profile not found")
	ErrProcessingFailed   = fmt.Errorf("video processing failed")

	// Notification errors
	ErrNotificationsUnsupported = fmt.Errorf("desktop notifications unsupported")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
