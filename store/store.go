// Package store holds the live widget state, the single source of truth for every control.
//
// Mutations are side-effect free: setting source_url or mp4source records the value and
// nothing else. Pushing a new URL to the playback engine is the synchronizer's job.
package store

import (
	"github.com/clipview/clipview/loop"
	"github.com/clipview/clipview/option"
)

// Store owns an option.State. It is not safe for concurrent use; a single event loop drives it.
type Store struct {
	state    option.State
	revision uint64
}

// New returns a store seeded with the given state.
func New(initial option.State) *Store {
	return &Store{state: initial}
}

// Get reads one option.
func (s *Store) Get(name option.Name) any {
	return option.Get(s.state, name)
}

// Set validates and writes one option. Invalid values are rejected with an
// option.InvalidValueError and leave the state untouched.
func (s *Store) Set(name option.Name, value any) error {
	if err := option.Assign(&s.state, name, value); err != nil {
		return err
	}
	s.revision++
	return nil
}

// SetLoopRange writes both loop inputs at once. Either both are stored or neither.
func (s *Store) SetLoopRange(start, end float64) error {
	next := s.state
	if err := option.Assign(&next, option.LoopStart, start); err != nil {
		return err
	}
	if err := option.Assign(&next, option.LoopEnd, end); err != nil {
		return err
	}

	s.state = next
	s.revision++
	return nil
}

// Replace swaps the whole state, used when a share link is loaded.
func (s *Store) Replace(state option.State) {
	s.state = state
	s.revision++
}

// ApplyDefaults resets the named options to their defaults.
func (s *Store) ApplyDefaults(names ...option.Name) {
	if len(names) == 0 {
		return
	}

	for _, name := range names {
		// defaults always validate
		_ = option.Assign(&s.state, name, option.DefaultOf(name))
	}
	s.revision++
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() option.State {
	return s.state
}

// Loop returns the current loop state.
func (s *Store) Loop() loop.Range {
	return s.state.Loop
}

// Revision counts successful mutations.
func (s *Store) Revision() uint64 {
	return s.revision
}
