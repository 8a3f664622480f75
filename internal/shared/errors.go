package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Game and catalog errors
	ErrInvalidInputFormat = fmt.Errorf("invalid input format")
	ErrResourceNotFound   = fmt.Errorf("resource not found")
	ErrEmptyResource      = fmt.Errorf("resource has no usable tracks")
	ErrUpstreamService    = fmt.Errorf("upstream service error")
	ErrSessionActive      = fmt.Errorf("session already active")
	ErrNoActiveSession    = fmt.Errorf("no active session")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// domainErrors lists the error kinds surfaced to players, in match priority.
var domainErrors = []error{
	ErrInvalidInputFormat,
	ErrResourceNotFound,
	ErrEmptyResource,
	ErrUpstreamService,
	ErrSessionActive,
	ErrNoActiveSession,
}

// Classify returns the domain sentinel that err wraps, or nil when err is nil or not a domain error.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return target
		}
	}
	return nil
}
