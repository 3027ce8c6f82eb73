package notes

import "errors"

var (
	// ErrInvalidArgument is returned for lookups with an empty id and similar misuse.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when no note matches the requested id.
	ErrNotFound = errors.New("note not found")

	// ErrAlreadyExists is returned when adding a note whose id is already present.
	ErrAlreadyExists = errors.New("note already exists")

	// ErrStorageCorrupt is returned when the local blob cannot be decoded.
	ErrStorageCorrupt = errors.New("local storage is corrupt")

	// ErrRemoteOperationFailed wraps network, auth and database errors from the remote store.
	ErrRemoteOperationFailed = errors.New("remote operation failed")
)
