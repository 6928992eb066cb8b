// Package player defines the playback engine abstraction the synchronizer drives.
// The concrete backend is mpv, controlled through its JSON-IPC interface.
package player

// Engine is a playable-media engine. Commands return once they have been
// delivered; the engine advances time and reports events on its own schedule.
type Engine interface {
	// Play resumes playback.
	Play() error

	// Pause suspends playback.
	Pause() error

	// SetCurrentTime moves the playback position to an absolute time in seconds.
	SetCurrentTime(seconds float64) error

	// SetPlaybackRate changes the playback speed multiplier.
	SetPlaybackRate(rate float64) error

	// SetSourceURL loads a new media URL. Events emitted for this media carry the generation.
	SetSourceURL(url string, generation uint64) error

	// Subscribe registers a listener for this engine instance only.
	// The returned function removes it.
	Subscribe(listener Listener) (cancel func())

	// Close releases the engine.
	Close() error
}

// Listener receives engine events.
type Listener interface {
	OnProgress(event ProgressEvent)
	OnPlayStateChanged(event PlayStateEvent)
}

// Event is either a ProgressEvent or a PlayStateEvent.
type Event interface {
	generation() uint64
}

// ProgressEvent reports the current playback position.
type ProgressEvent struct {
	Generation  uint64
	CurrentTime float64
}

// PlayStateEvent reports a pause state change, including ones the engine initiated itself.
type PlayStateEvent struct {
	Generation uint64
	Paused     bool
}

func (e ProgressEvent) generation() uint64  { return e.Generation }
func (e PlayStateEvent) generation() uint64 { return e.Generation }

// GenerationOf returns the generation an event is tagged with.
func GenerationOf(e Event) uint64 {
	return e.generation()
}

// Dispatch delivers an event to the matching listener method.
func Dispatch(l Listener, e Event) {
	switch ev := e.(type) {
	case ProgressEvent:
		l.OnProgress(ev)
	case PlayStateEvent:
		l.OnPlayStateChanged(ev)
	}
}
