// Package provider defines the CI query interface consumed by the status pipeline.
package provider

import (
	"errors"
	"fmt"
)

var (
	ErrAuthFailed        = errors.New("authentication failed")
	ErrNodeNotFound      = errors.New("node not found")
	ErrRateLimited       = errors.New("rate limited")
	ErrNetworkTimeout    = errors.New("network timeout")
	ErrServerUnavailable = errors.New("CI server unavailable")
)

// UserError wraps errors with user-friendly messages
type UserError struct {
	Message string
	Hint    string
	Err     error
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n\nDetails: %v", e.Err)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// WrapError converts CI server errors to user-friendly messages.
// Errors without a known cause are returned unchanged.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrAuthFailed):
		return &UserError{
			Message: "Authentication failed",
			Hint:    "Check JENKINS_USER and JENKINS_TOKEN (or the user/pword keys of the secrets file).",
			Err:     err,
		}
	case errors.Is(err, ErrNodeNotFound):
		return &UserError{
			Message: "Build machine not found",
			Hint:    "Check BUILDBEACON_NODES matches the node names shown by the CI server.",
			Err:     err,
		}
	case errors.Is(err, ErrNetworkTimeout), errors.Is(err, ErrServerUnavailable):
		return &UserError{
			Message: "CI server unreachable",
			Hint:    "Check JENKINS_URL; the next poll cycle will retry.",
			Err:     err,
		}
	}

	return err
}
