package memory

import "errors"

var (
	// ErrStorageCorrupt is logged when the persisted record cannot be decoded.
	// It never leaves the Store: Load degrades to the empty record.
	ErrStorageCorrupt = errors.New("memory storage corrupt")

	// ErrInvalidTone is returned by ParseTone for unrecognized tones.
	ErrInvalidTone = errors.New("invalid tone")
)
