// lobby/service/errors.go
package service

import "errors"

var (
	// ErrUnknownPlayer is returned when the directory has no entry for an identifier.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrMissingIdentifier is returned for a registration with no roll.
	ErrMissingIdentifier = errors.New("roll is required")
	// ErrNoGames is returned when live scores arrive but no game is stored.
	ErrNoGames = errors.New("no registrations found")
	// ErrNoPendingResult is returned by TakeLiveResult when the buffer is empty.
	ErrNoPendingResult = errors.New("no game data available")
	// ErrStorageUnavailable wraps any failure of the durable store.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
