package option

import (
	"errors"
)

// Decode builds a State from raw key/value pairs.
//
// Unrecognized keys are ignored and absent keys keep their defaults. A malformed
// value yields a DecodeError and that option keeps its default; decoding continues
// so the returned State is always usable. Several errors are joined.
func Decode(raw map[string]string) (State, error) {
	state := Default()

	var errs []error
	for _, name := range names {
		text, ok := raw[string(name)]
		if !ok {
			continue
		}

		value, err := Parse(name, text)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		// Parse already validated the value.
		_ = Assign(&state, name, value)
	}

	return state, errors.Join(errs...)
}

// Encode returns one entry per option in canonical text form.
func Encode(s State) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		out[string(name)] = Format(name, Get(s, name))
	}
	return out
}

// DecodeErrors unpacks the individual DecodeErrors from an error returned by Decode.
func DecodeErrors(err error) []*DecodeError {
	if err == nil {
		return nil
	}

	var out []*DecodeError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, DecodeErrors(e)...)
		}
		return out
	}

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		out = append(out, decodeErr)
	}
	return out
}
