// Package dispatch maps requests to handlers through an ordered, first-match
// route table. Handlers write into a buffered, write-once Response so that a
// failing handler can be replaced by a uniform error response before anything
// reaches the client.
package dispatch

import (
	"errors"
	"fmt"
)

// Dispatch errors.
var (
	// ErrNotFound signals that the requested resource does not exist.
	// Handlers may return an error wrapping it to produce the not found response.
	ErrNotFound = errors.New("dispatch: not found")

	// ErrResponseClosed is returned by writes to a closed Response.
	ErrResponseClosed = errors.New("dispatch: response closed")

	// ErrStatusWritten is returned when the status code is set a second time.
	ErrStatusWritten = errors.New("dispatch: status already written")

	// ErrContentTypeWritten is returned when the content type is set a second time.
	ErrContentTypeWritten = errors.New("dispatch: content type already written")

	// ErrInvalidStatus is returned for status codes outside [100, 599].
	ErrInvalidStatus = errors.New("dispatch: invalid status code")
)

// HandlerFault is a handler failure recovered at the dispatch boundary.
type HandlerFault struct {
	Method string
	Path   string
	Route  string
	Cause  error
}

func (f *HandlerFault) Error() string {
	return fmt.Sprintf("dispatch: %s %s (%s): %v", f.Method, f.Path, f.Route, f.Cause)
}

func (f *HandlerFault) Unwrap() error {
	return f.Cause
}

// PanicError carries a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
