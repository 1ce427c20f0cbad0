package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoEvidence signals that every search sub-query came back empty or
	// failed. Recoverable: the pipeline answers with an apology instead of
	// surfacing it.
	ErrNoEvidence = errors.New("no evidence gathered")
)
