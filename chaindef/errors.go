package chaindef

import "errors"

var (
	// ErrNameRequired is returned when a definition has a blank name.
	ErrNameRequired = errors.New("chaindef: name is required")

	// ErrDuplicate is returned when a library already holds a definition
	// with the same id or name.
	ErrDuplicate = errors.New("chaindef: duplicate definition")

	// ErrNotFound is returned by [Library.Find] for an unknown id or name.
	ErrNotFound = errors.New("chaindef: definition not found")
)
