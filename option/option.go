// Package option is the configuration model of the viewer widget.
//
// It names every option, holds the default table and knows how each option is
// validated, parsed from text and formatted back to text. Decode always starts
// from the default table, so an absent key can never be an error.
package option

import (
	"github.com/clipview/clipview/loop"
	"github.com/clipview/clipview/resolve"
)

// Name identifies an option. Names double as share-link keys.
type Name string

const (
	SourceURL     Name = "source_url"
	MP4Source     Name = "mp4source"
	Paused        Name = "paused"
	LoopEnabled   Name = "loop_enabled"
	LoopStart     Name = "loopstart"
	LoopEnd       Name = "loopend"
	PlaybackSpeed Name = "playback_speed"
	CurrentTime   Name = "current_time"
	VideoWidth    Name = "video_width"
)

// names is the canonical option order.
var names = []Name{
	SourceURL,
	MP4Source,
	Paused,
	LoopEnabled,
	LoopStart,
	LoopEnd,
	PlaybackSpeed,
	CurrentTime,
	VideoWidth,
}

// Names returns all options in canonical order.
func Names() []Name {
	out := make([]Name, len(names))
	copy(out, names)
	return out
}

// Lookup maps a raw key to an option name.
func Lookup(key string) (Name, bool) {
	name := Name(key)
	_, ok := schema[name]
	return name, ok
}

// State is the complete widget configuration plus the loop state.
// The loop_enabled option is represented by Loop.Active.
type State struct {
	SourceURL     string          `json:"source_url" yaml:"source_url"`
	MP4Source     resolve.Variant `json:"mp4source" yaml:"mp4source"`
	Paused        bool            `json:"paused" yaml:"paused"`
	Loop          loop.Range      `json:"loop" yaml:"-"`
	LoopStart     float64         `json:"loopstart" yaml:"loopstart"`
	LoopEnd       float64         `json:"loopend" yaml:"loopend"`
	PlaybackSpeed float64         `json:"playback_speed" yaml:"playback_speed"`
	CurrentTime   float64         `json:"current_time" yaml:"current_time"`
	VideoWidth    int             `json:"video_width" yaml:"video_width"`
}

// Playing is derived from Paused.
func (s State) Playing() bool {
	return !s.Paused
}

// Default returns the default table as a State.
func Default() State {
	return State{
		SourceURL:     "",
		MP4Source:     resolve.RemoteRedirect,
		Paused:        true,
		Loop:          loop.Idle(),
		LoopStart:     0,
		LoopEnd:       0,
		PlaybackSpeed: 1,
		CurrentTime:   0,
		VideoWidth:    640,
	}
}

// DefaultOf returns the default value of a single option.
func DefaultOf(name Name) any {
	return Get(Default(), name)
}

// Get reads a single option from a state.
func Get(s State, name Name) any {
	switch name {
	case SourceURL:
		return s.SourceURL
	case MP4Source:
		return s.MP4Source
	case Paused:
		return s.Paused
	case LoopEnabled:
		return s.Loop.Active
	case LoopStart:
		return s.LoopStart
	case LoopEnd:
		return s.LoopEnd
	case PlaybackSpeed:
		return s.PlaybackSpeed
	case CurrentTime:
		return s.CurrentTime
	case VideoWidth:
		return s.VideoWidth
	default:
		return nil
	}
}

// Assign validates value and writes it into s.
//
// Enabling loop_enabled starts looping with the current loopstart/loopend inputs,
// disabling it clears the range. Changing loopstart or loopend while looping
// updates the active range; while idle only the inputs change.
func Assign(s *State, name Name, value any) error {
	v, err := Validate(name, value)
	if err != nil {
		return err
	}

	switch name {
	case SourceURL:
		s.SourceURL = v.(string)
	case MP4Source:
		s.MP4Source = v.(resolve.Variant)
	case Paused:
		s.Paused = v.(bool)
	case LoopEnabled:
		switch enable := v.(bool); {
		case enable && !s.Loop.Active:
			s.Loop = s.Loop.Begin(s.LoopStart, s.LoopEnd)
		case !enable:
			s.Loop = s.Loop.Stop()
		}
	case LoopStart:
		s.LoopStart = v.(float64)
		s.Loop = s.Loop.Update(s.LoopStart, s.LoopEnd)
	case LoopEnd:
		s.LoopEnd = v.(float64)
		s.Loop = s.Loop.Update(s.LoopStart, s.LoopEnd)
	case PlaybackSpeed:
		s.PlaybackSpeed = v.(float64)
	case CurrentTime:
		s.CurrentTime = v.(float64)
	case VideoWidth:
		s.VideoWidth = v.(int)
	}

	return nil
}
