package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status.
var (
	// ErrAccessDenied deliberately does not distinguish unknown name, wrong
	// key or unpublished project.
	ErrAccessDenied = errors.New("invalid key or project not published")

	ErrInvalidQuery          = errors.New("only SELECT statements allowed on public API")
	ErrProjectNotFound       = errors.New("project not found")
	ErrProjectExists         = errors.New("project name already in use")
	ErrDatabaseNameCollision = errors.New("project name sanitizes to an existing database name")
	ErrDatabaseNotFound      = errors.New("backend database does not exist")
	ErrEmptyScript           = errors.New("no SQL provided")

	ErrNameAndPasswordRequired = errors.New("name and password are required")
	ErrInvalidPrivacy          = errors.New("privacy must be Private or Publish")
)
