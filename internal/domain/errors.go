package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrAffinityNotFound = errors.New("affinity not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrBadCredentials   = errors.New("invalid email or password")

	// ErrSelfAffinity: an initiator may not express interest in themselves.
	ErrSelfAffinity = errors.New("cannot express interest in yourself")

	// ErrAffinityExists: an outstanding record already exists for the pair.
	ErrAffinityExists = errors.New("affinity already exists for this pair")

	// ErrAffinityResolved: the record already left pending.
	ErrAffinityResolved = errors.New("affinity already resolved")

	// ErrForbidden: the acting user may not perform this transition.
	ErrForbidden = errors.New("not allowed to act on this affinity")
)

// ValidationError names the field and the constraint it violated.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Constraint)
}
