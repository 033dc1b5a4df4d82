package usecase

import "errors"

var (
	// ErrInvalidCredentials indicates the provided username or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountBlocked indicates an administrator has blocked the account.
	ErrAccountBlocked = errors.New("account blocked")
	// ErrNotFound indicates the requested account or record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrOperatorNotApproved indicates a moderation-gated action on a non-approved operator.
	ErrOperatorNotApproved = errors.New("operator not approved")
)

// ValidationError carries the user-facing message for a rejected input.
// Handlers surface Message verbatim with a 400 status.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError reports a uniqueness violation with its user-facing message.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func validationErr(message string) error {
	return &ValidationError{Message: message}
}

func conflictErr(message string) error {
	return &ConflictError{Message: message}
}
