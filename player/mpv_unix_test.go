//go:build !windows

package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeMpvServer answers IPC commands the way mpv does, including refusing
// to seek before a file has been loaded.
type fakeMpvServer struct {
	listener net.Listener
	loaded   atomic.Bool

	mu       sync.Mutex
	commands []string
}

func newFakeMpvServer(path string) (*fakeMpvServer, error) {
	l, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	s := &fakeMpvServer{listener: l}
	go s.serve()
	return s, nil
}

func (s *fakeMpvServer) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeMpvServer) handle(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd ipcCommand
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
			return
		}

		name := strings.TrimSpace(fmt.Sprintln(cmd.Command...))
		s.mu.Lock()
		s.commands = append(s.commands, name)
		s.mu.Unlock()

		status := "success"
		if cmd.Command[0] == "seek" && !s.loaded.Load() {
			status = "error running command"
		}
		_, _ = fmt.Fprintf(conn, `{"request_id":%d,"error":%q}`+"\n", cmd.RequestID, status)
	}
}

func (s *fakeMpvServer) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

func TestDeferredSeek(t *testing.T) {
	Convey("Given an MPV engine talking to a socket peer", t, func() {
		path := filepath.Join(t.TempDir(), "mpv.sock")
		server, err := newFakeMpvServer(path)
		So(err, ShouldBeNil)
		defer server.listener.Close()

		m := NewMPV(Options{Instance: "seek"})
		m.socketPath = path

		So(m.SetSourceURL("https://example.com/a.mp4", 1), ShouldBeNil)

		Convey("A seek right after loadfile waits for file-loaded", func() {
			So(m.SetCurrentTime(30), ShouldBeNil)
			So(m.Play(), ShouldBeNil)
			So(server.received(), ShouldResemble, []string{
				"loadfile https://example.com/a.mp4 replace",
				"set_property pause false",
			})

			m.handleEvent("start-file", nil)
			server.loaded.Store(true)
			m.handleEvent("file-loaded", nil)

			So(server.received(), ShouldHaveLength, 3)
			So(server.received()[2], ShouldEqual, "seek 30 absolute+exact")
		})

		Convey("Only the latest held seek is sent", func() {
			So(m.SetCurrentTime(10), ShouldBeNil)
			So(m.SetCurrentTime(20), ShouldBeNil)

			m.handleEvent("start-file", nil)
			server.loaded.Store(true)
			m.handleEvent("file-loaded", nil)
			m.handleEvent("file-loaded", nil)

			seeks := 0
			for _, c := range server.received() {
				if c == "seek 20 absolute+exact" {
					seeks++
				}
			}
			So(seeks, ShouldEqual, 1)
			So(server.received(), ShouldNotContain, "seek 10 absolute+exact")
		})

		Convey("A held seek skips files that were already replaced", func() {
			So(m.SetCurrentTime(5), ShouldBeNil)
			So(m.SetSourceURL("https://example.com/b.mp4", 2), ShouldBeNil)

			m.handleEvent("start-file", nil)
			server.loaded.Store(true)
			m.handleEvent("file-loaded", nil)
			So(server.received(), ShouldNotContain, "seek 5 absolute+exact")

			m.handleEvent("start-file", nil)
			m.handleEvent("file-loaded", nil)
			So(server.received(), ShouldContain, "seek 5 absolute+exact")
		})

		Convey("Once loaded, seeks go out immediately", func() {
			m.handleEvent("start-file", nil)
			server.loaded.Store(true)
			m.handleEvent("file-loaded", nil)

			So(m.SetCurrentTime(42), ShouldBeNil)
			So(server.received(), ShouldContain, "seek 42 absolute+exact")
		})
	})
}
