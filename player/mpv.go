package player

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/clipview/clipview/log"
	"github.com/clipview/clipview/where"
	"golang.org/x/exp/slices"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// Options configures an mpv process.
type Options struct {
	// Path is the mpv executable.
	Path string
	// ExtraArgs are appended to the launch arguments.
	ExtraArgs []string
	// Instance names the IPC socket so several widgets never share one.
	Instance string
}

// MPV implements Engine using mpv's JSON-IPC protocol.
type MPV struct {
	options    Options
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when the mpv process exits
	mu         sync.Mutex    // serializes IPC commands
	events     *EventListener
	subs       listeners

	// send delivers one IPC command. It is sendCommand outside of tests.
	send func(command ...interface{}) (interface{}, error)

	files fileState
}

// fileState follows mpv's playlist through its events.
// mpv starts files in the order loadfile was sent, so each start-file
// takes the oldest queued generation.
type fileState struct {
	mu      sync.Mutex
	queued  []uint64
	active  uint64 // generation of the file mpv last started
	loaded  bool   // file-loaded arrived for the active file
	pending *float64
}

// expect queues the generation of a loadfile about to be sent.
func (f *fileState) expect(generation uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, generation)
}

// forget drops a generation whose loadfile never reached mpv.
func (f *fileState) forget(generation uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := slices.Index(f.queued, generation); i >= 0 {
		f.queued = slices.Delete(f.queued, i, i+1)
	}
}

func (f *fileState) started() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queued) > 0 {
		f.active = f.queued[0]
		f.queued = f.queued[1:]
	}
	f.loaded = false
}

// fileLoaded marks the active file seekable and hands back a seek that was
// waiting for it. The seek is kept while newer files are still queued.
func (f *fileState) fileLoaded() (seek float64, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = true
	if f.pending == nil || len(f.queued) > 0 {
		return 0, false
	}
	seek = *f.pending
	f.pending = nil
	return seek, true
}

// seekable reports whether a seek can go out now, and otherwise stores it
// until the newest requested file has loaded.
func (f *fileState) seekable(seconds float64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loaded && len(f.queued) == 0 {
		f.pending = nil
		return true
	}
	f.pending = &seconds
	return false
}

func (f *fileState) generation() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

var _ Engine = (*MPV)(nil)

// NewMPV creates an MPV engine. Launch starts the process.
func NewMPV(options Options) *MPV {
	if options.Path == "" {
		options.Path = "mpv"
	}
	m := &MPV{
		options: options,
		exited:  make(chan struct{}),
	}
	m.send = m.sendCommand
	return m
}

// Launch starts an idle mpv window and attaches the event listener.
func (m *MPV) Launch() error {
	if m.socketPath == "" {
		m.socketPath = ipcPath(where.Temp(), m.options.Instance)
	}

	// Pass only what the IPC contract needs and respect the user's mpv.conf for everything else.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=yes",
		"--pause",
	}
	args = append(args, m.options.ExtraArgs...)

	m.cmd = exec.Command(m.options.Path, args...)

	// Detach from the parent process group so terminal signals don't reach mpv.
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// reap the process to prevent zombies
	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.events = NewEventListener(m.socketPath, m.handleEvent)
	if err := m.events.Start(); err != nil {
		return err
	}

	return nil
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := dialIPC(m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// Play resumes playback.
func (m *MPV) Play() error {
	return m.Set("pause", false)
}

// Pause suspends playback.
func (m *MPV) Pause() error {
	return m.Set("pause", true)
}

// SetCurrentTime seeks to an absolute position. mpv refuses to seek until a
// file is loaded, so a seek issued right after SetSourceURL is held back and
// sent when mpv reports file-loaded for that file.
func (m *MPV) SetCurrentTime(seconds float64) error {
	if !m.files.seekable(seconds) {
		log.Debugf("mpv: holding seek to %v until the file is loaded", seconds)
		return nil
	}
	return m.seek(seconds)
}

func (m *MPV) seek(seconds float64) error {
	_, err := m.send("seek", seconds, "absolute+exact")
	return err
}

// SetPlaybackRate sets mpv's speed property.
func (m *MPV) SetPlaybackRate(rate float64) error {
	return m.Set("speed", rate)
}

// SetSourceURL replaces the current file. Events are tagged with the new
// generation once mpv reports that the file has started.
func (m *MPV) SetSourceURL(rawURL string, generation uint64) error {
	target, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	m.files.expect(generation)
	if _, err = m.send("loadfile", target, "replace"); err != nil {
		m.files.forget(generation)
		return err
	}
	return nil
}

// Subscribe registers a listener for this instance.
func (m *MPV) Subscribe(listener Listener) (cancel func()) {
	return m.subs.add(listener)
}

// Set writes an mpv property.
func (m *MPV) Set(property string, value interface{}) error {
	_, err := m.send("set_property", property, value)
	return err
}

// handleEvent turns raw mpv events into tagged engine events.
func (m *MPV) handleEvent(name string, data interface{}) {
	switch name {
	case "start-file":
		m.files.started()
	case "file-loaded":
		if seconds, ok := m.files.fileLoaded(); ok {
			if err := m.seek(seconds); err != nil {
				log.Warnf("mpv: deferred seek to %v: %v", seconds, err)
			}
		}
	case "time-pos":
		if pos, ok := data.(float64); ok {
			m.subs.emit(ProgressEvent{Generation: m.files.generation(), CurrentTime: pos})
		}
	case "pause":
		if paused, ok := data.(bool); ok {
			m.subs.emit(PlayStateEvent{Generation: m.files.generation(), Paused: paused})
		}
	}
}

// IsRunning reports whether the mpv process is alive.
func (m *MPV) IsRunning() bool {
	if m.cmd == nil {
		return false
	}
	select {
	case <-m.exited:
		return false
	default:
		return true
	}
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	if m.events != nil {
		m.events.Stop()
	}

	if !m.IsRunning() {
		return nil
	}

	// Try graceful quit via IPC
	_, _ = m.send("quit")

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)

	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// Prevent flag injection: URLs must not start with -
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}
