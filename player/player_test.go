package player

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type recordingListener struct {
	progress []ProgressEvent
	states   []PlayStateEvent
}

func (r *recordingListener) OnProgress(e ProgressEvent)         { r.progress = append(r.progress, e) }
func (r *recordingListener) OnPlayStateChanged(e PlayStateEvent) { r.states = append(r.states, e) }

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		Convey("accepts http URLs and local paths", func() {
			u, err := sanitizeMediaTarget(" https://example.com/clip.mp4 ")
			So(err, ShouldBeNil)
			So(u, ShouldEqual, "https://example.com/clip.mp4")

			p, err := sanitizeMediaTarget("media/../media/clip.mp4")
			So(err, ShouldBeNil)
			So(p, ShouldEqual, "media/clip.mp4")
		})

		Convey("rejects flag injection and odd schemes", func() {
			for _, bad := range []string{"", "--script=evil.lua", "ftp://x/y", "a\nb"} {
				_, err := sanitizeMediaTarget(bad)
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestMPVEvents(t *testing.T) {
	Convey("Given an MPV engine with a subscriber", t, func() {
		m := NewMPV(Options{Instance: "test"})
		rec := &recordingListener{}
		cancel := m.Subscribe(rec)

		Convey("Events carry the generation of the started file", func() {
			m.files.expect(3)
			m.handleEvent("time-pos", 1.5)
			m.handleEvent("start-file", map[string]interface{}{"event": "start-file"})
			m.handleEvent("time-pos", 2.0)
			m.handleEvent("pause", true)

			So(rec.progress, ShouldResemble, []ProgressEvent{
				{Generation: 0, CurrentTime: 1.5},
				{Generation: 3, CurrentTime: 2.0},
			})
			So(rec.states, ShouldResemble, []PlayStateEvent{{Generation: 3, Paused: true}})
		})

		Convey("A file started before a newer loadfile keeps its own generation", func() {
			m.files.expect(2)
			m.files.expect(3)

			m.handleEvent("start-file", nil)
			m.handleEvent("time-pos", 95.0)
			m.handleEvent("start-file", nil)
			m.handleEvent("time-pos", 1.0)

			So(rec.progress, ShouldResemble, []ProgressEvent{
				{Generation: 2, CurrentTime: 95},
				{Generation: 3, CurrentTime: 1},
			})
		})

		Convey("A loadfile that never reached mpv is not waited for", func() {
			loads := 0
			m.send = func(command ...interface{}) (interface{}, error) {
				if command[0] == "loadfile" {
					loads++
					if loads > 1 {
						return nil, errors.New("connect: no such file")
					}
				}
				return nil, nil
			}

			So(m.SetSourceURL("https://example.com/a.mp4", 1), ShouldBeNil)
			So(m.SetSourceURL("https://example.com/b.mp4", 2), ShouldNotBeNil)

			m.handleEvent("start-file", nil)
			m.handleEvent("pause", false)
			So(rec.states, ShouldResemble, []PlayStateEvent{{Generation: 1, Paused: false}})
		})

		Convey("Unparseable property data is ignored", func() {
			m.handleEvent("time-pos", nil)
			m.handleEvent("pause", "yes")
			So(rec.progress, ShouldBeEmpty)
			So(rec.states, ShouldBeEmpty)
		})

		Convey("Cancelled subscribers receive nothing", func() {
			cancel()
			cancel()
			m.handleEvent("time-pos", 4.0)
			So(rec.progress, ShouldBeEmpty)
		})
	})
}

func TestEventListener(t *testing.T) {
	Convey("processEvent", t, func() {
		var got []string
		el := NewEventListener("", func(name string, data interface{}) {
			got = append(got, name)
		})

		el.processEvent([]byte(`{"event":"property-change","id":1,"name":"time-pos","data":3.2}`))
		el.processEvent([]byte(`{"event":"start-file","playlist_entry_id":2}`))
		el.processEvent([]byte(`{"request_id":7,"error":"success"}`))
		el.processEvent([]byte(`not json`))

		So(got, ShouldResemble, []string{"time-pos", "start-file"})
	})
}

// fakeMpv answers a single command on conn with the lines produced by reply.
func fakeMpv(conn net.Conn, reply func(id int64) []string) {
	defer conn.Close()

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		return
	}

	var cmd ipcCommand
	if err := json.Unmarshal(buf[:n], &cmd); err != nil {
		return
	}

	for _, line := range reply(cmd.RequestID) {
		_, _ = conn.Write([]byte(line + "\n"))
	}
}

func TestRoundTrip(t *testing.T) {
	Convey("Given a fake mpv socket peer", t, func() {
		client, server := net.Pipe()
		defer client.Close()

		go fakeMpv(server, func(id int64) []string {
			return []string{
				`{"event":"playback-restart"}`,
				`{"request_id":-1,"error":"success"}`,
				fmt.Sprintf(`{"request_id":%d,"data":12.5,"error":"success"}`, id),
			}
		})

		data, err := roundTrip(client, []interface{}{"get_property", "time-pos"})
		So(err, ShouldBeNil)
		So(data, ShouldEqual, 12.5)
	})

	Convey("mpv errors are surfaced", t, func() {
		client, server := net.Pipe()
		defer client.Close()

		go fakeMpv(server, func(id int64) []string {
			return []string{fmt.Sprintf(`{"request_id":%d,"error":"property unavailable"}`, id)}
		})

		_, err := roundTrip(client, []interface{}{"get_property", "duration"})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "property unavailable")
	})
}

func TestChannelStop(t *testing.T) {
	Convey("Given a full channel nobody drains", t, func() {
		c := NewChannel(1)
		c.OnPlayStateChanged(PlayStateEvent{Generation: 1, Paused: true})

		released := make(chan struct{})
		go func() {
			c.OnPlayStateChanged(PlayStateEvent{Generation: 1, Paused: false})
			close(released)
		}()

		Convey("Stop releases the blocked sender", func() {
			c.Stop()
			c.Stop()

			select {
			case <-released:
			case <-time.After(time.Second):
			}
			So(isClosed(released), ShouldBeTrue)
			So(len(c.C), ShouldEqual, 1)
		})
	})
}

func isClosed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestChannel(t *testing.T) {
	Convey("Channel", t, func() {
		c := NewChannel(1)
		c.OnProgress(ProgressEvent{Generation: 1, CurrentTime: 1})
		c.OnProgress(ProgressEvent{Generation: 1, CurrentTime: 2})

		ev := <-c.C
		So(ev, ShouldResemble, ProgressEvent{Generation: 1, CurrentTime: 1})
		So(GenerationOf(ev), ShouldEqual, 1)
		So(len(c.C), ShouldEqual, 0)

		Convey("Dispatch routes events to the listener", func() {
			rec := &recordingListener{}
			Dispatch(rec, ev)
			Dispatch(rec, PlayStateEvent{Generation: 1, Paused: false})
			So(rec.progress, ShouldHaveLength, 1)
			So(rec.states, ShouldHaveLength, 1)
		})
	})
}

// stubEngine is an Engine whose events are emitted by the test.
type stubEngine struct {
	subs   listeners
	closed bool
}

func (s *stubEngine) Play() error                         { return nil }
func (s *stubEngine) Pause() error                        { return nil }
func (s *stubEngine) SetCurrentTime(float64) error        { return nil }
func (s *stubEngine) SetPlaybackRate(float64) error       { return nil }
func (s *stubEngine) SetSourceURL(string, uint64) error   { return nil }
func (s *stubEngine) Subscribe(l Listener) (cancel func()) { return s.subs.add(l) }
func (s *stubEngine) Close() error                        { s.closed = true; return nil }

func TestRelay(t *testing.T) {
	Convey("Given a relay over an engine", t, func() {
		engine := &stubEngine{}
		relay := NewRelay(engine, 4)
		rec := &recordingListener{}
		relay.Subscribe(rec)

		Convey("Engine events wait in the channel until delivered", func() {
			engine.subs.emit(PlayStateEvent{Generation: 2, Paused: true})
			So(rec.states, ShouldBeEmpty)

			relay.Deliver(<-relay.C)
			So(rec.states, ShouldResemble, []PlayStateEvent{{Generation: 2, Paused: true}})
		})

		Convey("Closing detaches and closes the engine", func() {
			So(relay.Close(), ShouldBeNil)
			So(engine.closed, ShouldBeTrue)

			engine.subs.emit(ProgressEvent{Generation: 1, CurrentTime: 3})
			So(len(relay.C), ShouldEqual, 0)

			Convey("A closed relay never blocks on a full buffer", func() {
				for i := 0; i < 10; i++ {
					relay.OnPlayStateChanged(PlayStateEvent{Generation: 1, Paused: i%2 == 0})
				}
				So(len(relay.C), ShouldBeLessThanOrEqualTo, 4)
			})
		})
	})
}
