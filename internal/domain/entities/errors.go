package entities

import "errors"

var (
	// ErrMissingFile is returned when an expected Android, project, or plist file is absent.
	ErrMissingFile = errors.New("missing file")
	// ErrProjectNotFound is returned when no project bundle exists in the iOS directory.
	ErrProjectNotFound = errors.New("project not found")
	// ErrMalformedProject is returned when the project document cannot be parsed
	// or has no target for the application.
	ErrMalformedProject = errors.New("malformed project")
	// ErrMalformedPlist is returned when a referenced property list is not a valid XML plist.
	ErrMalformedPlist = errors.New("malformed property list")
	// ErrInvalidSemanticVersion is returned when a build code cannot be derived from a version.
	ErrInvalidSemanticVersion = errors.New("invalid semantic version")
	// ErrWriteFailed is returned when a staged file could not be persisted.
	ErrWriteFailed = errors.New("write failed")
)
