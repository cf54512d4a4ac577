package snapshot

import "errors"

// Sentinel errors for the snapshot package.
var (
	// ErrInvalidDestination is returned when a snapshot cannot be written
	// to the requested destination. No partial file is left behind.
	ErrInvalidDestination = errors.New("snapshot: destination not writable")

	// ErrTierOutOfRange is returned when decoding with a compartment-count
	// override smaller than a compartment index referenced by the data.
	ErrTierOutOfRange = errors.New("snapshot: compartment index outside override")

	// ErrMalformed is returned for data that does not parse as the
	// snapshot format: wrong column count, bad header, or an unreadable
	// compartment index.
	ErrMalformed = errors.New("snapshot: malformed snapshot data")
)
