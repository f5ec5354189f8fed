package users

import (
	"errors"
	"fmt"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrRecordNotFound  = errors.New("record not found")
	ErrUnknownRole     = errors.New("unknown role")
	ErrOwnerMismatch   = errors.New("authId does not match record owner")
	ErrRoleMismatch    = errors.New("authId does not belong to a user with role")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrNothingToUpdate = errors.New("nothing to update")

	ErrIdempotencyKeyReused = errors.New("Idempotency-Key was already used for a different request")
	ErrIdempotencyInFlight  = errors.New("a request with this Idempotency-Key is still in progress")
)

// ValidationError is a rejected input; the message is shown to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// StepError tags an orchestration failure with the step that failed. Its
// message is the upstream message unchanged.
type StepError struct {
	Operation string
	Step      string
	Err       error
}

func (e *StepError) Error() string {
	return e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func StepOf(err error) (string, bool) {
	var target *StepError
	if errors.As(err, &target) {
		return target.Step, true
	}
	return "", false
}
