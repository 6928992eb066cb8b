package player

import "sync"

// listeners is a per-engine subscriber set.
type listeners struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]Listener
}

func (ls *listeners) add(l Listener) (cancel func()) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.byID == nil {
		ls.byID = make(map[int]Listener)
	}

	id := ls.nextID
	ls.nextID++
	ls.byID[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			ls.mu.Lock()
			defer ls.mu.Unlock()
			delete(ls.byID, id)
		})
	}
}

func (ls *listeners) emit(e Event) {
	ls.mu.Lock()
	snapshot := make([]Listener, 0, len(ls.byID))
	for _, l := range ls.byID {
		snapshot = append(snapshot, l)
	}
	ls.mu.Unlock()

	for _, l := range snapshot {
		Dispatch(l, e)
	}
}

// Channel is a Listener that forwards events into a buffered channel,
// so they can be consumed on the same loop that handles user input.
type Channel struct {
	C chan Event

	done chan struct{}
	stop sync.Once
}

// NewChannel creates a Channel with the given buffer size.
func NewChannel(size int) *Channel {
	return &Channel{
		C:    make(chan Event, size),
		done: make(chan struct{}),
	}
}

// OnProgress forwards a progress event. Progress is re-reported on every tick,
// so the event is dropped when the buffer is full.
func (c *Channel) OnProgress(event ProgressEvent) {
	select {
	case c.C <- event:
	default:
	}
}

// OnPlayStateChanged forwards a play state event. It waits for buffer space
// until the channel is stopped, then drops the event.
func (c *Channel) OnPlayStateChanged(event PlayStateEvent) {
	select {
	case c.C <- event:
	case <-c.done:
	}
}

// Stop releases senders blocked on a full buffer once nobody drains C anymore.
func (c *Channel) Stop() {
	c.stop.Do(func() { close(c.done) })
}
