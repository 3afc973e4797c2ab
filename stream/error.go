package stream

import "fmt"

// Error describes the failure that moved a Stream to StateErrored.
//
// Err is the underlying cause and wraps one of the errs sentinels, a context
// error or the error a consumer passed to Ack, so errors.Is and errors.As see
// through an Error.
type Error struct {
	Stage  Stage
	Block  int
	Offset int64
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("osmpbf: %s block %d at offset %d: %v", e.Stage, e.Block, e.Offset, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}
