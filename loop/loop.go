// Package loop implements the range-looping state machine.
//
// A Range is either Idle or Looping(start, end). Transitions return a new value,
// so the single copy held by the store is the only state there is.
package loop

import (
	"fmt"
	"strconv"

	"github.com/samber/mo"
)

// Range is the loop state. The zero value is Idle.
type Range struct {
	Active bool               `json:"active"`
	Start  mo.Option[float64] `json:"start"`
	End    mo.Option[float64] `json:"end"`
}

// Idle returns the initial state.
func Idle() Range {
	return Range{}
}

// Looping returns an active range. start <= end is not checked.
func Looping(start, end float64) Range {
	return Range{
		Active: true,
		Start:  mo.Some(start),
		End:    mo.Some(end),
	}
}

// Begin activates looping with the range inputs as they are at activation time.
// Calling it on an active range re-reads the bounds.
func (r Range) Begin(start, end float64) Range {
	return Looping(start, end)
}

// Stop deactivates looping and clears the bounds.
func (r Range) Stop() Range {
	return Idle()
}

// Update replaces the bounds of an active range.
// Editing the range inputs while Idle never activates looping, so Update is a no-op there.
func (r Range) Update(start, end float64) Range {
	if !r.Active {
		return r
	}
	return Looping(start, end)
}

// Enforce evaluates the loop-back rule for a progress tick.
// It is level-triggered: any position at or past the end seeks back exactly to the start.
func (r Range) Enforce(currentTime float64) (seekTo float64, ok bool) {
	if !r.Active {
		return 0, false
	}

	start, end := r.Start.OrEmpty(), r.End.OrEmpty()
	if currentTime >= end {
		return start, true
	}
	return 0, false
}

// Bounds returns start and end. ok is false while Idle.
func (r Range) Bounds() (start, end float64, ok bool) {
	if !r.Active {
		return 0, 0, false
	}
	return r.Start.OrEmpty(), r.End.OrEmpty(), true
}

func (r Range) String() string {
	start, end, ok := r.Bounds()
	if !ok {
		return "idle"
	}
	return fmt.Sprintf("looping %s-%s",
		strconv.FormatFloat(start, 'f', -1, 64),
		strconv.FormatFloat(end, 'f', -1, 64),
	)
}
