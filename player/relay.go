package player

// Relay wraps an Engine so that its events are delivered on the caller's loop
// instead of the engine's listener goroutine. Events queue in C until Deliver
// is called with them.
type Relay struct {
	Engine
	*Channel

	subs   listeners
	cancel func()
}

// NewRelay subscribes a buffered channel of the given size to engine.
func NewRelay(engine Engine, size int) *Relay {
	r := &Relay{
		Engine:  engine,
		Channel: NewChannel(size),
	}
	r.cancel = engine.Subscribe(r.Channel)
	return r
}

// Subscribe registers a listener that is invoked from Deliver.
func (r *Relay) Subscribe(listener Listener) (cancel func()) {
	return r.subs.add(listener)
}

// Deliver dispatches a queued event to the relay's listeners.
func (r *Relay) Deliver(e Event) {
	r.subs.emit(e)
}

// Close detaches from the engine, releases a listener blocked on the full
// channel, and closes the engine.
func (r *Relay) Close() error {
	r.cancel()
	r.Channel.Stop()
	return r.Engine.Close()
}
