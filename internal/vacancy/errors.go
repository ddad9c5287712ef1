package vacancy

import (
	"errors"
	"fmt"
)

// Static errors for vacancy operations.
var (
	// ErrUnknownField is returned when a filter key does not name a vacancy field.
	ErrUnknownField = errors.New("vacancy: unknown field")
	// ErrStorageUnavailable matches every StorageUnavailableError via errors.Is.
	ErrStorageUnavailable = errors.New("vacancy: storage unavailable")
	// ErrValidation matches every ValidationError via errors.Is.
	ErrValidation = errors.New("vacancy: validation failed")
)

// RemoteAPIError is returned when the vacancy source answers with a non-2xx status.
type RemoteAPIError struct {
	StatusCode int
	Body       string
}

func (e *RemoteAPIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("vacancy: remote API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("vacancy: remote API returned status %d: %s", e.StatusCode, e.Body)
}

// ValidationError identifies the field that broke its type contract.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("vacancy: invalid %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageUnavailableError is returned when the backing medium cannot be read,
// written or parsed.
type StorageUnavailableError struct {
	Op  string
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("vacancy: storage unavailable: %s: %v", e.Op, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrStorageUnavailable) match.
func (e *StorageUnavailableError) Is(target error) bool {
	return target == ErrStorageUnavailable
}
