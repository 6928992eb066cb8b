package option

import (
	"fmt"
	"math"
	"strconv"

	"github.com/clipview/clipview/resolve"
)

// Kind is the value type of an option.
type Kind int

const (
	KindString Kind = iota
	KindVariant
	KindBool
	KindTime
	KindSpeed
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindVariant:
		return "variant"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindSpeed:
		return "speed"
	case KindInt:
		return "int"
	default:
		return "unknown"
	}
}

var schema = map[Name]Kind{
	SourceURL:     KindString,
	MP4Source:     KindVariant,
	Paused:        KindBool,
	LoopEnabled:   KindBool,
	LoopStart:     KindTime,
	LoopEnd:       KindTime,
	PlaybackSpeed: KindSpeed,
	CurrentTime:   KindTime,
	VideoWidth:    KindInt,
}

// KindOf returns the kind of an option.
func KindOf(name Name) (Kind, bool) {
	k, ok := schema[name]
	return k, ok
}

// Validate checks a Go value against the option's kind and returns it normalized:
// string, resolve.Variant, bool, float64 or int. Values are never coerced across types.
func Validate(name Name, value any) (any, error) {
	kind, ok := schema[name]
	if !ok {
		return nil, &InvalidValueError{Option: name, Value: value, Reason: "unknown option"}
	}

	invalid := func(reason string) error {
		return &InvalidValueError{Option: name, Value: value, Reason: reason}
	}

	switch kind {
	case KindString:
		s, ok := value.(string)
		if !ok {
			return nil, invalid("expected a string")
		}
		return s, nil

	case KindVariant:
		var v resolve.Variant
		switch t := value.(type) {
		case resolve.Variant:
			v = t
		case string:
			v = resolve.Variant(t)
		default:
			return nil, invalid("expected a delivery variant")
		}
		if !resolve.Known(v) {
			return nil, invalid(fmt.Sprintf("unknown delivery variant, expected one of %v", resolve.Variants()))
		}
		return v, nil

	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return nil, invalid("expected a bool")
		}
		return b, nil

	case KindTime, KindSpeed:
		f, ok := asFloat(value)
		if !ok {
			return nil, invalid("expected a number")
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, invalid("expected a finite number")
		}
		if kind == KindTime && f < 0 {
			return nil, invalid("time must not be negative")
		}
		if kind == KindSpeed && f <= 0 {
			return nil, invalid("speed must be positive")
		}
		return f, nil

	case KindInt:
		i, ok := asInt(value)
		if !ok {
			return nil, invalid("expected an integer")
		}
		if i < 0 {
			return nil, invalid("must not be negative")
		}
		return i, nil
	}

	return nil, invalid("unsupported kind")
}

// Parse converts the text form of an option into a validated value.
func Parse(name Name, text string) (any, error) {
	kind, ok := schema[name]
	if !ok {
		return nil, &DecodeError{Option: name, RawValue: text, Reason: "unknown option"}
	}

	fail := func(reason string) error {
		return &DecodeError{Option: name, RawValue: text, Reason: reason}
	}

	var value any
	switch kind {
	case KindString:
		value = text
	case KindVariant:
		value = resolve.Variant(text)
	case KindBool:
		switch text {
		case "0":
			value = false
		case "1":
			value = true
		default:
			return nil, fail("expected 0 or 1")
		}
	case KindTime, KindSpeed:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fail("not a number")
		}
		value = f
	case KindInt:
		i, err := strconv.Atoi(text)
		if err != nil {
			return nil, fail("not an integer")
		}
		value = i
	}

	v, err := Validate(name, value)
	if err != nil {
		return nil, fail(err.(*InvalidValueError).Reason)
	}
	return v, nil
}

// Format returns the canonical text form of a value. Floats never use exponent notation.
func Format(name Name, value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case resolve.Variant:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint32:
		return int(v), true
	default:
		return 0, false
	}
}
