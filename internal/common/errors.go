package common

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all services. Handlers and the gateway map these
// to transport-level codes; services wrap them with %w and context.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrNotFound       = errors.New("not found")
	ErrPermission     = errors.New("permission denied")
	ErrPolicy         = errors.New("policy violation")
	ErrInvalid        = errors.New("invalid argument")
)

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// PersistenceError wraps a backing-store failure. A mutation that could not
// be durably recorded must never be fanned out.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// PartialConsistencyError records a mirrored multi-key write that only
// partially succeeded. The affected edge is eligible for read-repair.
type PartialConsistencyError struct {
	Applied string // key that was written
	Failed  string // key that was not
	Err     error
}

func (e *PartialConsistencyError) Error() string {
	return fmt.Sprintf("partial write: %s applied, %s failed: %v", e.Applied, e.Failed, e.Err)
}

func (e *PartialConsistencyError) Unwrap() error { return e.Err }
