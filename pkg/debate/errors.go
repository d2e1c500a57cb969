package debate

import "errors"

// Typed errors for status preconditions and lookups. Callers dispatch with
// errors.Is; the HTTP layer maps each kind to a stable client-visible code.
var (
	// ErrNotFound indicates the referenced debate identifier has no record.
	ErrNotFound = errors.New("debate not found")

	// ErrAlreadyCompleted indicates a turn was requested on a completed debate.
	ErrAlreadyCompleted = errors.New("debate is already completed")

	// ErrNotCompleted indicates adjudication was requested before completion.
	ErrNotCompleted = errors.New("debate must be completed before adjudication")
)

// IsNotFound returns true if the error indicates a missing debate record.
// Use this to check the result of Store.Get.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
