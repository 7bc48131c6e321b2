package registry

import "errors"

var (
	// ErrRecordNotFound is returned by mutations addressing an unknown
	// record id. Read paths report absence via a false flag instead.
	ErrRecordNotFound = errors.New("registry record not found")

	// ErrDuplicateRecord is returned when registering a record whose id is
	// already taken.
	ErrDuplicateRecord = errors.New("registry record id already exists")
)
