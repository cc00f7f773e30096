package engine

import "errors"

var (
	// ErrProgramNotFound means the referenced program has no catalog entry.
	ErrProgramNotFound = errors.New("program not found")

	// ErrNoActiveSession means a mutating operation was invoked with no
	// live session. Timer-originated calls treat this as a no-op; the HTTP
	// layer surfaces it for user-initiated calls.
	ErrNoActiveSession = errors.New("no active session")

	// ErrNoSuchSet means completeSet targeted an exercise/set index outside
	// the session.
	ErrNoSuchSet = errors.New("no such set")

	// ErrSetAlreadyCompleted guards the write-once invariant on completed
	// set records.
	ErrSetAlreadyCompleted = errors.New("set already completed")
)
