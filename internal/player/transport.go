package player

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/kaset/kaset/internal/services"
	"github.com/kaset/kaset/internal/shared"
)

// State is the transport's playback state.
type State int

const (
	Idle State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// Transport is the playback state machine. It owns the current song and the
// position and duration scalars, and it delegates audio to a [Sink]. It is
// driven from a single event loop and is not safe for concurrent use.
type Transport struct {
	sink       Sink
	logger     *log.Logger
	nowPlaying *services.Song
	state      State
	position   float64
	duration   float64
}

func NewTransport(sink Sink, logger *log.Logger) *Transport {
	return &Transport{sink: sink, logger: logger}
}

// Play loads a song into the sink and starts playback. A song without a
// playable URL fails fast: the sink is unloaded, the rejected song becomes
// current in the idle state and the scalars reset, so the transport bar
// shows what was attempted instead of a stale track.
func (t *Transport) Play(song services.Song) error {
	if !song.Playable() {
		_ = t.sink.Unload()
		t.nowPlaying = &song
		t.state = Idle
		t.position = 0
		t.duration = 0
		return fmt.Errorf("%w: %q has no playable url", shared.ErrMediaPlayback, song.Title)
	}
	if err := t.sink.Load(song.URL); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMediaPlayback, err)
	}

	t.nowPlaying = &song
	t.state = Playing
	t.position = 0
	t.duration = 0
	if t.logger != nil {
		t.logger.Info("playing", "title", song.Title, "artist", song.Artist)
	}
	return nil
}

// Toggle pauses or resumes the current song. After a playback error left
// the transport idle, toggling reloads the current song from the start.
func (t *Transport) Toggle() error {
	if t.nowPlaying == nil {
		return shared.ErrNoTrack
	}
	switch t.state {
	case Playing:
		if err := t.sink.Pause(true); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrMediaPlayback, err)
		}
		t.state = Paused
	case Paused:
		if err := t.sink.Pause(false); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrMediaPlayback, err)
		}
		t.state = Playing
	default:
		return t.Play(*t.nowPlaying)
	}
	return nil
}

// Next plays the song after the current one in the list, wrapping to the
// first. When nothing is playing it starts the list from the top.
func (t *Transport) Next(songs []services.Song) error {
	return t.step(songs, 1)
}

// Previous plays the song before the current one, wrapping to the last.
func (t *Transport) Previous(songs []services.Song) error {
	return t.step(songs, -1)
}

func (t *Transport) step(songs []services.Song, direction int) error {
	if len(songs) == 0 {
		return shared.ErrNoTrack
	}
	if t.nowPlaying == nil {
		return t.Play(songs[0])
	}

	index := -1
	for i, song := range songs {
		if song.ID == t.nowPlaying.ID {
			index = i
			break
		}
	}
	if index < 0 {
		// Current song is no longer in the list, restart from the top.
		return t.Play(songs[0])
	}
	next := (index + direction + len(songs)) % len(songs)
	return t.Play(songs[next])
}

// Eject clears the current song when it matches id, unloading the sink and
// dropping to idle with the scalars reset. It reports whether anything was
// ejected. Used when the playing song is removed from its playlist.
func (t *Transport) Eject(id string) bool {
	if t.nowPlaying == nil || t.nowPlaying.ID != id {
		return false
	}
	_ = t.sink.Unload()
	t.nowPlaying = nil
	t.state = Idle
	t.position = 0
	t.duration = 0
	if t.logger != nil {
		t.logger.Info("ejected current song", "id", id)
	}
	return true
}

// Seek jumps to an absolute position, clamped to the song's duration. It is
// rejected while the duration is still unknown.
func (t *Transport) Seek(seconds float64) error {
	if t.nowPlaying == nil {
		return shared.ErrNoTrack
	}
	if t.duration <= 0 {
		return fmt.Errorf("%w: duration unknown", shared.ErrMediaPlayback)
	}
	if seconds < 0 {
		seconds = 0
	}
	if seconds > t.duration {
		seconds = t.duration
	}
	if err := t.sink.SeekTo(seconds); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMediaPlayback, err)
	}
	t.position = seconds
	return nil
}

// Apply folds a sink event into the transport. It reports whether the
// current song ended naturally while playing, in which case the caller
// should advance to the next song. Sink errors reset position and duration
// and drop to idle but keep the current song, so toggling retries it.
func (t *Transport) Apply(ev Event) (advance bool) {
	if ev.Err != nil {
		if t.logger != nil {
			t.logger.Error("playback failed", "err", ev.Err)
		}
		t.position = 0
		t.duration = 0
		t.state = Idle
		return false
	}
	if ev.Position != nil {
		t.position = *ev.Position
	}
	if ev.Duration != nil {
		t.duration = *ev.Duration
	}
	if ev.Paused != nil && t.nowPlaying != nil {
		if *ev.Paused {
			if t.state == Playing {
				t.state = Paused
			}
		} else if t.state == Paused {
			t.state = Playing
		}
	}
	if ev.Ended {
		wasPlaying := t.state == Playing
		t.position = 0
		t.state = Idle
		return wasPlaying
	}
	return false
}

func (t *Transport) NowPlaying() *services.Song { return t.nowPlaying }

func (t *Transport) State() State { return t.state }

func (t *Transport) Position() float64 { return t.position }

func (t *Transport) Duration() float64 { return t.duration }

// Clock renders the transport position and duration for display.
func (t *Transport) Clock() string {
	return shared.FormatClock(t.position) + " / " + shared.FormatClock(t.duration)
}
