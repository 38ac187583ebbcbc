package sim

import "errors"

// Command validation errors. All are detected synchronously at the command
// boundary before any state mutation; the tick loop itself cannot fail.
var (
	// ErrInvalidState is returned when a command is illegal in the current
	// lifecycle state, e.g. starting an already running simulation.
	ErrInvalidState = errors.New("invalid state")

	// ErrDuplicateID is returned when a task PID collides with one already known.
	ErrDuplicateID = errors.New("duplicate pid")

	// ErrInvalidArgument is returned for malformed command input, e.g.
	// non-positive counts, negative times, or unknown algorithm names.
	ErrInvalidArgument = errors.New("invalid argument")
)
