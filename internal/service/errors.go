package service

import (
	"errors"
	"fmt"
)

var (
	// ErrConfirmationRequired is returned by Delete when no confirmation
	// token was given.
	ErrConfirmationRequired = errors.New("deletion must be confirmed")

	// ErrInvalidConfirmation is returned by Delete when the token was not
	// issued for the identifier being deleted, or was already used.
	ErrInvalidConfirmation = errors.New("confirmation token does not match this work order")
)

// MissingFieldError reports a mandatory field left blank. Field is the
// canonical column name.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %s is empty", e.Field)
}
