package layeredphotoslib

import (
	"errors"
	"fmt"
)

var ErrNoSource = errors.New("No source photo given")

// A resize or crop produced an image with no pixels
var ErrEmptyImage = errors.New("Image has no pixels after processing")

var ErrCancelled = errors.New("Processing cancelled")

// Non-numeric or out of range parameter. Aborts only the composite that
// tried to use it.
type InvalidParameterError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("Invalid value [%s] for %s: %s", e.Value, e.Field, e.Reason)
}

func invalidParam(field string, value float64, reason string) error {
	return &InvalidParameterError{
		Field:  field,
		Value:  fmt.Sprintf("%g", value),
		Reason: reason,
	}
}

// Missing, unreadable or undecodable image file
type DecodeError struct {
	Path AbsolutePath
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("Error reading image [%s]: %s", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
