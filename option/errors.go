package option

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigDecode is matched by every DecodeError.
	ErrConfigDecode = errors.New("config decode error")
	// ErrInvalidOptionValue is matched by every InvalidValueError.
	ErrInvalidOptionValue = errors.New("invalid option value")
)

// DecodeError reports a recognized option whose text form could not be parsed.
type DecodeError struct {
	Option   Name
	RawValue string
	Reason   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s=%q: %s", e.Option, e.RawValue, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return ErrConfigDecode
}

// InvalidValueError reports a Go value of the wrong type or range for an option.
type InvalidValueError struct {
	Option Name
	Value  any
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %v (%T) for %s: %s", e.Value, e.Value, e.Option, e.Reason)
}

func (e *InvalidValueError) Unwrap() error {
	return ErrInvalidOptionValue
}
