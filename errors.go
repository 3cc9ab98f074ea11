package chromakey

import "errors"

// Errors returned by Session operations. Returned errors wrap one of these
// with context; test for them with errors.Is.
var (
	// ErrInvalidArgument is returned for malformed setter input: a color that
	// is not three numbers, a threshold that is not a number, an unsupported
	// background media kind, or a missing frame source.
	ErrInvalidArgument = errors.New("chromakey: invalid argument")

	// ErrOutOfBounds is returned when color-pick coordinates fall outside the
	// captured frame.
	ErrOutOfBounds = errors.New("chromakey: coordinates out of bounds")

	// ErrNotStarted is returned by operations that need a captured frame
	// before any draw cycle has run.
	ErrNotStarted = errors.New("chromakey: no frame captured")
)
