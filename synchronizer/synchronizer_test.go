package synchronizer

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/clipview/clipview/loop"
	"github.com/clipview/clipview/option"
	"github.com/clipview/clipview/player"
	"github.com/clipview/clipview/resolve"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeEngine records every command it receives.
type fakeEngine struct {
	calls     []string
	listeners []player.Listener
	fail      map[string]error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{fail: make(map[string]error)}
}

func (f *fakeEngine) record(call string) error {
	f.calls = append(f.calls, call)
	name, _, _ := strings.Cut(call, " ")
	return f.fail[name]
}

func (f *fakeEngine) Play() error  { return f.record("play") }
func (f *fakeEngine) Pause() error { return f.record("pause") }

func (f *fakeEngine) SetCurrentTime(seconds float64) error {
	return f.record(fmt.Sprintf("seek %v", seconds))
}

func (f *fakeEngine) SetPlaybackRate(rate float64) error {
	return f.record(fmt.Sprintf("rate %v", rate))
}

func (f *fakeEngine) SetSourceURL(url string, generation uint64) error {
	return f.record(fmt.Sprintf("source %s #%d", url, generation))
}

func (f *fakeEngine) Subscribe(l player.Listener) (cancel func()) {
	f.listeners = append(f.listeners, l)
	return func() {
		for i, existing := range f.listeners {
			if existing == l {
				f.listeners = append(f.listeners[:i], f.listeners[i+1:]...)
				return
			}
		}
	}
}

func (f *fakeEngine) Close() error { return nil }

func (f *fakeEngine) emit(e player.Event) {
	for _, l := range f.listeners {
		player.Dispatch(l, e)
	}
}

func (f *fakeEngine) reset() { f.calls = nil }

func fakeResolve(descriptor string, variant resolve.Variant) (string, error) {
	if variant == resolve.LocalFile {
		return "/media/clip.mp4", nil
	}
	if !strings.HasPrefix(descriptor, "https://") {
		return "", &resolve.InvalidSourceError{Descriptor: descriptor, Variant: variant, Reason: "not a url"}
	}
	return "redirect:" + strings.TrimPrefix(descriptor, "https://"), nil
}

func TestStart(t *testing.T) {
	Convey("Given a synchronizer over a fake engine", t, func() {
		engine := newFakeEngine()

		Convey("Start does nothing without a source", func() {
			s := New(engine, WithResolve(fakeResolve))
			So(s.Start(), ShouldBeNil)
			So(engine.calls, ShouldBeEmpty)
			So(s.Generation(), ShouldEqual, 0)
		})

		Convey("Start applies the initial state in order", func() {
			initial := option.Default()
			initial.SourceURL = "https://a"
			initial.Paused = false
			initial.PlaybackSpeed = 1.5
			initial.CurrentTime = 12

			s := New(engine, WithResolve(fakeResolve), WithInitialState(initial))
			So(s.Start(), ShouldBeNil)
			So(s.Generation(), ShouldEqual, 1)
			So(engine.calls, ShouldResemble, []string{
				"pause",
				"source redirect:a #1",
				"rate 1.5",
				"seek 12",
				"play",
			})
		})

		Convey("A failed seek still restores the play state", func() {
			engine.fail["seek"] = errors.New("error running command")
			var notified []error

			initial := option.Default()
			initial.SourceURL = "https://a"
			initial.Paused = false
			initial.CurrentTime = 30

			s := New(engine, WithResolve(fakeResolve), WithInitialState(initial),
				WithNotifier(func(err error) { notified = append(notified, err) }))
			err := s.Start()

			So(err, ShouldNotBeNil)
			So(engine.calls, ShouldResemble, []string{
				"pause",
				"source redirect:a #1",
				"rate 1",
				"seek 30",
				"play",
			})
			So(notified, ShouldHaveLength, 1)
		})

		Convey("A failed source load stops before rate and position", func() {
			engine.fail["source"] = errors.New("socket closed")

			initial := option.Default()
			initial.SourceURL = "https://a"
			initial.Paused = false

			s := New(engine, WithResolve(fakeResolve), WithInitialState(initial))
			So(s.Start(), ShouldNotBeNil)
			So(engine.calls, ShouldResemble, []string{"pause", "source redirect:a #1"})
		})

		Convey("Each instance subscribes its own listener", func() {
			a := New(engine, WithResolve(fakeResolve))
			b := New(engine, WithResolve(fakeResolve))
			So(engine.listeners, ShouldHaveLength, 2)
			So(a.ID(), ShouldNotEqual, b.ID())

			a.Close()
			So(engine.listeners, ShouldHaveLength, 1)
			a.Close()
			So(engine.listeners, ShouldHaveLength, 1)
		})
	})
}

func TestSourceChanges(t *testing.T) {
	Convey("Given a playing synchronizer with a loop", t, func() {
		engine := newFakeEngine()
		var notified []error
		s := New(engine, WithResolve(fakeResolve), WithNotifier(func(err error) {
			notified = append(notified, err)
		}))

		So(s.UserSetSource("https://a"), ShouldBeNil)
		So(s.UserSetLoopRange(10, 20), ShouldBeNil)
		So(s.UserToggleLoop(), ShouldBeNil)
		So(s.UserSetSpeed(2), ShouldBeNil)
		So(s.UserSetWidth(800), ShouldBeNil)
		engine.reset()

		Convey("When the source changes", func() {
			So(s.UserSetSource("https://b"), ShouldBeNil)
			state := s.Snapshot()

			Convey("Then options return to their defaults", func() {
				So(state.SourceURL, ShouldEqual, "https://b")
				So(state.Loop, ShouldResemble, loop.Idle())
				So(state.LoopStart, ShouldEqual, 0.0)
				So(state.PlaybackSpeed, ShouldEqual, 1.0)
				So(state.VideoWidth, ShouldEqual, 640)
				So(state.Paused, ShouldBeTrue)
			})

			Convey("Then the engine gets the new URL with a fresh generation", func() {
				So(s.Generation(), ShouldEqual, 2)
				So(engine.calls, ShouldResemble, []string{
					"pause",
					"source redirect:b #2",
					"rate 1",
					"seek 0",
				})
			})
		})

		Convey("When the delivery variant changes", func() {
			So(s.UserSetDelivery(resolve.LocalFile), ShouldBeNil)
			state := s.Snapshot()

			Convey("Then every other option is preserved", func() {
				So(state.MP4Source, ShouldEqual, resolve.LocalFile)
				So(state.SourceURL, ShouldEqual, "https://a")
				So(state.Loop, ShouldResemble, loop.Looping(10, 20))
				So(state.PlaybackSpeed, ShouldEqual, 2.0)
				So(state.VideoWidth, ShouldEqual, 800)
				So(engine.calls[1], ShouldEqual, "source /media/clip.mp4 #2")
			})

			Convey("Then a later source change keeps the variant", func() {
				So(s.UserSetSource("anything"), ShouldBeNil)
				So(s.Snapshot().MP4Source, ShouldEqual, resolve.LocalFile)
			})
		})

		Convey("When the new source does not resolve", func() {
			before := s.Snapshot()
			revision := s.Revision()
			err := s.UserSetSource("ftp://nope")

			Convey("Then the user is notified and nothing changes", func() {
				So(errors.Is(err, resolve.ErrInvalidSourceURL), ShouldBeTrue)
				So(notified, ShouldHaveLength, 1)
				So(errors.Is(notified[0], resolve.ErrInvalidSourceURL), ShouldBeTrue)
				So(s.Snapshot(), ShouldResemble, before)
				So(s.Revision(), ShouldEqual, revision)
				So(s.Generation(), ShouldEqual, 1)
				So(engine.calls, ShouldBeEmpty)
			})
		})

		Convey("When an unknown variant is requested", func() {
			err := s.UserSetDelivery(resolve.Variant("carrier-pigeon"))
			So(errors.Is(err, option.ErrInvalidOptionValue), ShouldBeTrue)
			So(engine.calls, ShouldBeEmpty)
		})
	})
}

func TestEvents(t *testing.T) {
	Convey("Given a synchronizer looping 10-20", t, func() {
		engine := newFakeEngine()
		s := New(engine, WithResolve(fakeResolve))
		So(s.UserSetSource("https://a"), ShouldBeNil)
		So(s.UserSetLoopRange(10, 20), ShouldBeNil)
		So(s.UserToggleLoop(), ShouldBeNil)
		engine.reset()

		Convey("A progress tick past the end seeks exactly to the start", func() {
			engine.emit(player.ProgressEvent{Generation: 1, CurrentTime: 20.5})
			So(engine.calls, ShouldResemble, []string{"seek 10"})
			So(s.Snapshot().CurrentTime, ShouldEqual, 10.0)
		})

		Convey("A progress tick inside the range only records the position", func() {
			engine.emit(player.ProgressEvent{Generation: 1, CurrentTime: 15})
			So(engine.calls, ShouldBeEmpty)
			So(s.Snapshot().CurrentTime, ShouldEqual, 15.0)
		})

		Convey("Events from an older generation are discarded", func() {
			So(s.UserSetSource("https://b"), ShouldBeNil)
			So(s.UserSetLoopRange(10, 20), ShouldBeNil)
			So(s.UserToggleLoop(), ShouldBeNil)
			engine.reset()
			revision := s.Revision()

			engine.emit(player.ProgressEvent{Generation: 1, CurrentTime: 25})
			engine.emit(player.PlayStateEvent{Generation: 1, Paused: false})

			So(s.Revision(), ShouldEqual, revision)
			So(engine.calls, ShouldBeEmpty)
			So(s.Snapshot().Paused, ShouldBeTrue)
		})

		Convey("Play state changes are mirrored into the store", func() {
			engine.emit(player.PlayStateEvent{Generation: 1, Paused: false})
			So(s.Snapshot().Playing(), ShouldBeTrue)
			So(engine.calls, ShouldBeEmpty)
		})

		Convey("Toggling the loop off stops enforcement", func() {
			So(s.UserToggleLoop(), ShouldBeNil)
			So(s.Snapshot().Loop, ShouldResemble, loop.Idle())

			engine.emit(player.ProgressEvent{Generation: 1, CurrentTime: 25})
			So(engine.calls, ShouldBeEmpty)
		})
	})
}

func TestIntents(t *testing.T) {
	Convey("Given a synchronizer with a source", t, func() {
		engine := newFakeEngine()
		var notified []error
		s := New(engine, WithResolve(fakeResolve), WithNotifier(func(err error) {
			notified = append(notified, err)
		}))
		So(s.UserSetSource("https://a"), ShouldBeNil)
		engine.reset()

		Convey("Toggling play alternates play and pause", func() {
			So(s.UserTogglePlay(), ShouldBeNil)
			So(s.Snapshot().Playing(), ShouldBeTrue)
			So(s.UserTogglePlay(), ShouldBeNil)
			So(s.Snapshot().Paused, ShouldBeTrue)
			So(engine.calls, ShouldResemble, []string{"play", "pause"})
		})

		Convey("Toggling the loop on then off returns to idle", func() {
			So(s.UserToggleLoop(), ShouldBeNil)
			So(s.Snapshot().Loop.Active, ShouldBeTrue)
			So(s.UserToggleLoop(), ShouldBeNil)
			So(s.Snapshot().Loop, ShouldResemble, loop.Idle())
		})

		Convey("Editing the range while idle does not start looping", func() {
			So(s.UserSetLoopRange(3, 4), ShouldBeNil)
			state := s.Snapshot()
			So(state.Loop.Active, ShouldBeFalse)
			So(state.LoopStart, ShouldEqual, 3.0)
			So(state.LoopEnd, ShouldEqual, 4.0)
		})

		Convey("Editing the range while looping moves the active range", func() {
			So(s.UserToggleLoop(), ShouldBeNil)
			So(s.UserSetLoopRange(3, 4), ShouldBeNil)
			So(s.Snapshot().Loop, ShouldResemble, loop.Looping(3, 4))
		})

		Convey("Invalid values are rejected before reaching the engine", func() {
			So(errors.Is(s.UserSetSpeed(0), option.ErrInvalidOptionValue), ShouldBeTrue)
			So(errors.Is(s.UserSeek(-1), option.ErrInvalidOptionValue), ShouldBeTrue)
			So(errors.Is(s.UserSetLoopRange(1, -2), option.ErrInvalidOptionValue), ShouldBeTrue)
			So(s.Snapshot().LoopStart, ShouldEqual, 0.0)
			So(engine.calls, ShouldBeEmpty)
		})

		Convey("Seek and speed reach the engine", func() {
			So(s.UserSeek(42), ShouldBeNil)
			So(s.UserSetSpeed(0.5), ShouldBeNil)
			So(engine.calls, ShouldResemble, []string{"seek 42", "rate 0.5"})
		})

		Convey("Engine failures are notified but not fatal", func() {
			engine.fail["seek"] = errors.New("socket closed")
			err := s.UserSeek(42)
			So(err, ShouldNotBeNil)
			So(notified, ShouldHaveLength, 1)
			So(s.Snapshot().CurrentTime, ShouldEqual, 42.0)
		})

		Convey("A share link round-trips through another instance", func() {
			So(s.UserSetLoopRange(5, 9), ShouldBeNil)
			So(s.UserToggleLoop(), ShouldBeNil)
			So(s.UserSetSpeed(1.25), ShouldBeNil)

			link, err := s.UserRequestShareLink("https://clipview.app/")
			So(err, ShouldBeNil)

			other := New(newFakeEngine(), WithResolve(fakeResolve))
			So(other.UserLoadLink(link), ShouldBeNil)
			So(other.Snapshot(), ShouldResemble, s.Snapshot())
			So(other.Generation(), ShouldEqual, 1)
		})

		Convey("A malformed link option is notified and defaulted", func() {
			err := s.UserLoadLink("https://clipview.app/?source_url=https%3A%2F%2Fc&playback_speed=-3")
			So(errors.Is(err, option.ErrConfigDecode), ShouldBeTrue)
			So(notified, ShouldHaveLength, 1)
			So(s.Snapshot().SourceURL, ShouldEqual, "https://c")
			So(s.Snapshot().PlaybackSpeed, ShouldEqual, 1.0)
			So(s.Generation(), ShouldEqual, 2)
		})
	})
}
