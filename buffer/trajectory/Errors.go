package trajectory

import "errors"

// Error implements errors returned by a trajectory Buffer. Op names the
// Buffer operation which failed.
type Error struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error so that errors.Is can be used
// with the sentinel errors of this package
func (e *Error) Unwrap() error {
	return e.Err
}

var (
	// ErrCapacityExceeded is returned when appending to a full Buffer
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrIndexOutOfRange is returned when indexing past the stored
	// transitions
	ErrIndexOutOfRange = errors.New("index out of range")
)

// IsCapacityExceeded returns whether or not an error reports that a
// Buffer was full
func IsCapacityExceeded(err error) bool {
	return errors.Is(err, ErrCapacityExceeded)
}

// IsIndexOutOfRange returns whether or not an error reports an access
// past the end of a Buffer
func IsIndexOutOfRange(err error) bool {
	return errors.Is(err, ErrIndexOutOfRange)
}
