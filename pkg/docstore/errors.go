package docstore

import "errors"

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("docstore.not_found")

	// ErrInvalidDest is returned when a decode destination has the wrong shape.
	ErrInvalidDest = errors.New("docstore.invalid_dest")

	// ErrFailedToConnect is returned when all connection attempts to the
	// backing database fail.
	ErrFailedToConnect = errors.New("docstore.failed_to_connect")
)
