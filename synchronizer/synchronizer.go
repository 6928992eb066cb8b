// Package synchronizer binds the control state store to a playback engine.
//
// UI intents become store mutations followed by engine commands, and engine
// events become store mutations plus loop enforcement. The synchronizer is the
// only writer of its store and expects to be driven from a single event loop.
package synchronizer

import (
	"errors"
	"fmt"

	"github.com/clipview/clipview/log"
	"github.com/clipview/clipview/option"
	"github.com/clipview/clipview/player"
	"github.com/clipview/clipview/resolve"
	"github.com/clipview/clipview/share"
	"github.com/clipview/clipview/store"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// ResolveFunc maps a source descriptor and variant to a playable URL.
type ResolveFunc func(descriptor string, variant resolve.Variant) (string, error)

// Notifier receives recoverable errors meant for the user.
type Notifier func(err error)

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithResolve replaces the resolver registry lookup.
func WithResolve(fn ResolveFunc) Option {
	return func(s *Synchronizer) {
		s.resolve = fn
	}
}

// WithNotifier sets the user notification channel.
func WithNotifier(fn Notifier) Option {
	return func(s *Synchronizer) {
		s.notify = fn
	}
}

// WithInitialState seeds the store, e.g. from a decoded share link.
func WithInitialState(state option.State) Option {
	return func(s *Synchronizer) {
		s.store = store.New(state)
	}
}

// preservedOnSourceChange lists the options that survive a source_url change.
var preservedOnSourceChange = []option.Name{option.MP4Source}

// Synchronizer is the two-way glue between the UI, the store and the engine.
type Synchronizer struct {
	id         uuid.UUID
	store      *store.Store
	engine     player.Engine
	resolve    ResolveFunc
	notify     Notifier
	generation uint64
	cancel     func()
	logger     *logrus.Entry
}

// New creates a synchronizer and subscribes it to the engine.
func New(engine player.Engine, options ...Option) *Synchronizer {
	s := &Synchronizer{
		id:      uuid.New(),
		store:   store.New(option.Default()),
		engine:  engine,
		resolve: resolve.Resolve,
		notify:  func(error) {},
	}

	for _, opt := range options {
		opt(s)
	}

	s.logger = log.WithField("widget", s.id.String())
	s.cancel = engine.Subscribe(s)
	return s
}

// ID identifies this widget instance.
func (s *Synchronizer) ID() uuid.UUID {
	return s.id
}

// Snapshot returns the current state for rendering.
func (s *Synchronizer) Snapshot() option.State {
	return s.store.Snapshot()
}

// Generation returns the current source generation.
func (s *Synchronizer) Generation() uint64 {
	return s.generation
}

// Revision returns the store revision, which changes on every mutation.
func (s *Synchronizer) Revision() uint64 {
	return s.store.Revision()
}

// Start pushes the initial state to the engine. Without a source there is nothing to load.
func (s *Synchronizer) Start() error {
	state := s.store.Snapshot()
	if state.SourceURL == "" && state.MP4Source == resolve.RemoteRedirect {
		return nil
	}

	url, err := s.resolve(state.SourceURL, state.MP4Source)
	if err != nil {
		s.report(err)
		return err
	}

	s.generation++
	return s.apply(url)
}

// Close unsubscribes from the engine. The engine itself is owned by the caller.
func (s *Synchronizer) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// UserSetSource switches to another clip. Every option except mp4source returns
// to its default, since loop ranges and positions belong to the previous clip.
// A descriptor that does not resolve leaves the store and the engine untouched.
func (s *Synchronizer) UserSetSource(descriptor string) error {
	variant := s.store.Snapshot().MP4Source

	url, err := s.resolve(descriptor, variant)
	if err != nil {
		s.report(err)
		return err
	}

	s.store.ApplyDefaults(lo.Without(option.Names(), preservedOnSourceChange...)...)
	if err := s.store.Set(option.SourceURL, descriptor); err != nil {
		return err
	}

	s.generation++
	s.logger.Infof("source changed to %s (generation %d)", descriptor, s.generation)
	return s.apply(url)
}

// UserSetDelivery switches the delivery method of the current clip and keeps every other option.
func (s *Synchronizer) UserSetDelivery(variant resolve.Variant) error {
	if _, err := option.Validate(option.MP4Source, variant); err != nil {
		return err
	}

	url, err := s.resolve(s.store.Snapshot().SourceURL, variant)
	if err != nil {
		s.report(err)
		return err
	}

	if err := s.store.Set(option.MP4Source, variant); err != nil {
		return err
	}

	s.generation++
	s.logger.Infof("delivery changed to %s (generation %d)", variant, s.generation)
	return s.apply(url)
}

// UserLoadLink replaces the whole state with a decoded share link and applies it.
// Malformed options are reported and fall back to their defaults.
func (s *Synchronizer) UserLoadLink(link string) error {
	state, err := share.FromLink(link)
	if errors.Is(err, share.ErrInvalidLink) {
		s.report(err)
		return err
	}
	if err != nil {
		s.report(err)
	}

	if state.SourceURL != "" || state.MP4Source != resolve.RemoteRedirect {
		if _, resolveErr := s.resolve(state.SourceURL, state.MP4Source); resolveErr != nil {
			s.report(resolveErr)
			return resolveErr
		}
	}

	s.store.Replace(state)
	if startErr := s.Start(); startErr != nil {
		return startErr
	}
	return err
}

// UserTogglePlay flips between playing and paused.
func (s *Synchronizer) UserTogglePlay() error {
	paused := !s.store.Snapshot().Paused
	if err := s.store.Set(option.Paused, paused); err != nil {
		return err
	}

	if paused {
		return s.command("pause", s.engine.Pause())
	}
	return s.command("play", s.engine.Play())
}

// UserToggleLoop activates looping with the current range inputs, or deactivates it.
func (s *Synchronizer) UserToggleLoop() error {
	return s.store.Set(option.LoopEnabled, !s.store.Loop().Active)
}

// UserSetLoopRange stores new range inputs. While looping, the active range follows them;
// while idle, looping stays off.
func (s *Synchronizer) UserSetLoopRange(start, end float64) error {
	return s.store.SetLoopRange(start, end)
}

// UserSetSpeed changes the playback rate.
func (s *Synchronizer) UserSetSpeed(rate float64) error {
	if err := s.store.Set(option.PlaybackSpeed, rate); err != nil {
		return err
	}
	return s.command("set playback rate", s.engine.SetPlaybackRate(rate))
}

// UserSeek moves the playback position.
func (s *Synchronizer) UserSeek(seconds float64) error {
	if err := s.store.Set(option.CurrentTime, seconds); err != nil {
		return err
	}
	return s.command("seek", s.engine.SetCurrentTime(seconds))
}

// UserSetWidth records the preferred video width.
func (s *Synchronizer) UserSetWidth(pixels int) error {
	return s.store.Set(option.VideoWidth, pixels)
}

// UserRequestShareLink encodes the current state onto baseURL.
func (s *Synchronizer) UserRequestShareLink(baseURL string) (string, error) {
	link, err := share.ToLink(baseURL, s.store.Snapshot())
	if err != nil {
		s.report(err)
		return "", err
	}
	return link, nil
}

// OnProgress implements player.Listener.
func (s *Synchronizer) OnProgress(event player.ProgressEvent) {
	if s.stale(event) {
		return
	}

	if err := s.store.Set(option.CurrentTime, event.CurrentTime); err != nil {
		s.logger.Warnf("ignoring progress event: %v", err)
		return
	}

	if seekTo, ok := s.store.Loop().Enforce(event.CurrentTime); ok {
		s.logger.Debugf("loop: %v reached end, seeking to %v", event.CurrentTime, seekTo)
		_ = s.store.Set(option.CurrentTime, seekTo)
		_ = s.command("loop seek", s.engine.SetCurrentTime(seekTo))
	}
}

// OnPlayStateChanged implements player.Listener.
func (s *Synchronizer) OnPlayStateChanged(event player.PlayStateEvent) {
	if s.stale(event) {
		return
	}
	_ = s.store.Set(option.Paused, event.Paused)
}

// apply pushes the whole state to the engine in a fixed order: pausing first keeps the
// engine from reporting progress against the old URL, and play resumes only after
// rate and position are in place.
// Only a failed source load stops the sequence. Any other failed step is reported
// and the remaining steps still run, so the play state is always restored.
func (s *Synchronizer) apply(url string) error {
	state := s.store.Snapshot()

	steps := []struct {
		name     string
		run      func() error
		required bool
	}{
		{"pause", s.engine.Pause, false},
		{"set source", func() error { return s.engine.SetSourceURL(url, s.generation) }, true},
		{"set playback rate", func() error { return s.engine.SetPlaybackRate(state.PlaybackSpeed) }, false},
		{"set current time", func() error { return s.engine.SetCurrentTime(state.CurrentTime) }, false},
	}
	if state.Playing() {
		steps = append(steps, struct {
			name     string
			run      func() error
			required bool
		}{"play", s.engine.Play, false})
	}

	var errs []error
	for _, step := range steps {
		err := s.command(step.name, step.run())
		if err == nil {
			continue
		}
		errs = append(errs, err)
		if step.required {
			break
		}
	}

	return errors.Join(errs...)
}

func (s *Synchronizer) stale(event player.Event) bool {
	if gen := player.GenerationOf(event); gen != s.generation {
		s.logger.Debugf("discarding %T from generation %d (current %d)", event, gen, s.generation)
		return true
	}
	return false
}

// command logs and reports a failed engine command.
func (s *Synchronizer) command(name string, err error) error {
	if err == nil {
		return nil
	}
	err = fmt.Errorf("engine %s: %w", name, err)
	s.report(err)
	return err
}

func (s *Synchronizer) report(err error) {
	s.logger.Warn(err)
	s.notify(err)
}
