package otp

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("otp: no active code")
	ErrExpired         = errors.New("otp: code expired")
	ErrTooManyAttempts = errors.New("otp: too many attempts")
	ErrInvalidCode     = errors.New("otp: invalid code")
	ErrDelivery        = errors.New("otp: code delivery failed")
	ErrEmptyCode       = errors.New("otp: code is required")
)

// Reason is a stable identifier of a verification failure.
type Reason string

const (
	ReasonNotFound        Reason = "not_found"
	ReasonExpired         Reason = "expired"
	ReasonTooManyAttempts Reason = "too_many_attempts"
	ReasonInvalidCode     Reason = "invalid_code"
	ReasonInternal        Reason = "internal"
)

// ReasonOf maps err to its reason code. Unknown errors are ReasonInternal.
func ReasonOf(err error) Reason {
	switch {
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrExpired):
		return ReasonExpired
	case errors.Is(err, ErrTooManyAttempts):
		return ReasonTooManyAttempts
	case errors.Is(err, ErrInvalidCode), errors.Is(err, ErrEmptyCode):
		return ReasonInvalidCode
	default:
		return ReasonInternal
	}
}

// AttemptsError is returned for a wrong code and carries the attempt count after
// the failed guess. It matches ErrInvalidCode with errors.Is.
type AttemptsError struct {
	Attempts    int
	MaxAttempts int
}

func (e *AttemptsError) Error() string {
	return fmt.Sprintf("%s (attempt %d of %d)", ErrInvalidCode, e.Attempts, e.MaxAttempts)
}

func (e *AttemptsError) Unwrap() error { return ErrInvalidCode }

// Remaining returns the number of guesses left before the code locks.
func (e *AttemptsError) Remaining() int {
	return max(e.MaxAttempts-e.Attempts, 0)
}
