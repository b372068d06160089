package game

import "errors"

var (
	// ErrClientNotFound is returned when an operation names a client
	// the playthrough has not met.
	ErrClientNotFound = errors.New("client not found")

	// ErrUnknownEntity is returned when an attribute operation targets
	// neither the reader nor a known client.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrUnknownField is returned when an attribute operation names a
	// field the target entity does not have.
	ErrUnknownField = errors.New("unknown attribute field")

	// ErrNoActiveSession is returned when a session operation runs
	// outside a started session.
	ErrNoActiveSession = errors.New("no active session")
)
