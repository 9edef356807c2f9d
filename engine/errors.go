package engine

import (
	"errors"

	"github.com/example/salahtrack/dates"
	"github.com/example/salahtrack/store"
)

// Error kinds surfaced by the engine. The HTTP layer maps these to
// status codes; the engine itself never speaks protocol.
var (
	// ErrInvalidRange reports a malformed or inverted date range.
	ErrInvalidRange = dates.ErrInvalidRange
	// ErrInvalidRecord reports a prayers payload missing a required
	// slot or carrying a malformed status.
	ErrInvalidRecord = errors.New("invalid prayer record")
	// ErrNotFound reports statistics requested for a user with no
	// records and none creatable.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable reports a Record Store failure. It is
	// propagated, not retried.
	ErrStoreUnavailable = store.ErrUnavailable
)
