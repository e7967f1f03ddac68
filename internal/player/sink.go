package player

// Event is a playback update emitted by a sink. Pointer fields are nil when
// the update does not carry that property.
type Event struct {
	Position *float64
	Duration *float64
	Paused   *bool
	Ended    bool
	Err      error
}

// Sink is an audio backend. Load replaces the current media and starts
// playback; Pause toggles without unloading; SeekTo jumps to an absolute
// position in seconds; Unload drops the current media without closing the
// sink. Events delivers property changes and end-of-file notifications
// until Stop closes the sink.
type Sink interface {
	Load(url string) error
	Pause(paused bool) error
	SeekTo(seconds float64) error
	Unload() error
	Stop() error
	Events() <-chan Event
}
