package player

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kaset/kaset/internal/services"
	"github.com/kaset/kaset/internal/shared"
)

type fakeSink struct {
	loaded   []string
	paused   []bool
	seeks    []float64
	unloads  int
	failLoad error
	events   chan Event
}

func newFakeSink() *fakeSink {
	return &fakeSink{events: make(chan Event, 8)}
}

func (f *fakeSink) Load(url string) error {
	if f.failLoad != nil {
		return f.failLoad
	}
	f.loaded = append(f.loaded, url)
	return nil
}

func (f *fakeSink) Pause(paused bool) error {
	f.paused = append(f.paused, paused)
	return nil
}

func (f *fakeSink) SeekTo(seconds float64) error {
	f.seeks = append(f.seeks, seconds)
	return nil
}

func (f *fakeSink) Unload() error {
	f.unloads++
	return nil
}

func (f *fakeSink) Stop() error { return nil }

func (f *fakeSink) Events() <-chan Event { return f.events }

func songList(n int) []services.Song {
	songs := make([]services.Song, n)
	for i := range songs {
		songs[i] = services.Song{
			ID:    fmt.Sprintf("s-%d", i+1),
			Title: fmt.Sprintf("Track %d", i+1),
			URL:   fmt.Sprintf("http://cdn/track-%d.mp3", i+1),
		}
	}
	return songs
}

func TestTransportPlay(t *testing.T) {
	t.Run("loads the sink and resets scalars", func(t *testing.T) {
		sink := newFakeSink()
		transport := NewTransport(sink, nil)

		song := services.Song{ID: "s-1", Title: "One", URL: "http://cdn/one.mp3"}
		if err := transport.Play(song); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transport.State() != Playing {
			t.Errorf("expected playing, got %v", transport.State())
		}
		if len(sink.loaded) != 1 || sink.loaded[0] != song.URL {
			t.Errorf("unexpected loads %v", sink.loaded)
		}
		if transport.Position() != 0 || transport.Duration() != 0 {
			t.Error("expected scalars reset on load")
		}
	})

	t.Run("unplayable songs fail fast to idle", func(t *testing.T) {
		sink := newFakeSink()
		transport := NewTransport(sink, nil)

		if err := transport.Play(services.Song{ID: "s-1", Title: "One", URL: "URL_MUSIK_DUMMY"}); !errors.Is(err, shared.ErrMediaPlayback) {
			t.Fatalf("expected media playback error, got %v", err)
		}
		if len(sink.loaded) != 0 {
			t.Errorf("expected no loads, got %v", sink.loaded)
		}
		if transport.State() != Idle {
			t.Errorf("expected idle, got %v", transport.State())
		}
		if transport.NowPlaying() == nil || transport.NowPlaying().ID != "s-1" {
			t.Error("expected the rejected song to become current")
		}
	})

	t.Run("fail-fast stops the previous song and resets scalars", func(t *testing.T) {
		sink := newFakeSink()
		transport := NewTransport(sink, nil)
		transport.Play(services.Song{ID: "s-1", Title: "One", URL: "http://cdn/one.mp3"})
		pos := 42.0
		transport.Apply(Event{Position: &pos})

		err := transport.Play(services.Song{ID: "s-2", Title: "Two", URL: "URL_MUSIK_DUMMY_2.mp3"})
		if !errors.Is(err, shared.ErrMediaPlayback) {
			t.Fatalf("expected media playback error, got %v", err)
		}
		if transport.State() != Idle {
			t.Errorf("expected idle, got %v", transport.State())
		}
		if transport.Position() != 0 || transport.Duration() != 0 {
			t.Errorf("expected scalars reset, got pos=%v dur=%v", transport.Position(), transport.Duration())
		}
		if sink.unloads != 1 {
			t.Errorf("expected the sink unloaded, got %d unloads", sink.unloads)
		}
		if transport.NowPlaying().ID != "s-2" {
			t.Errorf("expected s-2 current, got %s", transport.NowPlaying().ID)
		}
	})

	t.Run("keeps previous song when the sink fails to load", func(t *testing.T) {
		sink := newFakeSink()
		transport := NewTransport(sink, nil)
		transport.Play(services.Song{ID: "s-1", Title: "One", URL: "http://cdn/one.mp3"})

		sink.failLoad = errors.New("socket closed")
		err := transport.Play(services.Song{ID: "s-2", Title: "Two", URL: "http://cdn/two.mp3"})
		if !errors.Is(err, shared.ErrMediaPlayback) {
			t.Fatalf("expected media playback error, got %v", err)
		}
		if transport.NowPlaying().ID != "s-1" {
			t.Errorf("expected s-1 still current, got %s", transport.NowPlaying().ID)
		}
	})
}

func TestTransportToggle(t *testing.T) {
	t.Run("requires a current song", func(t *testing.T) {
		transport := NewTransport(newFakeSink(), nil)
		if err := transport.Toggle(); !errors.Is(err, shared.ErrNoTrack) {
			t.Fatalf("expected no-track error, got %v", err)
		}
	})

	t.Run("toggle twice restores the playing state", func(t *testing.T) {
		sink := newFakeSink()
		transport := NewTransport(sink, nil)
		transport.Play(services.Song{ID: "s-1", Title: "One", URL: "http://cdn/one.mp3"})

		if err := transport.Toggle(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transport.State() != Paused {
			t.Fatalf("expected paused, got %v", transport.State())
		}
		if err := transport.Toggle(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transport.State() != Playing {
			t.Fatalf("expected playing, got %v", transport.State())
		}
		if len(sink.paused) != 2 || !sink.paused[0] || sink.paused[1] {
			t.Errorf("unexpected pause calls %v", sink.paused)
		}
	})

	t.Run("toggle after an error reloads the current song", func(t *testing.T) {
		sink := newFakeSink()
		transport := NewTransport(sink, nil)
		transport.Play(services.Song{ID: "s-1", Title: "One", URL: "http://cdn/one.mp3"})
		transport.Apply(Event{Err: errors.New("network stall")})

		if transport.State() != Idle {
			t.Fatalf("expected idle after error, got %v", transport.State())
		}
		if err := transport.Toggle(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transport.State() != Playing {
			t.Errorf("expected playing, got %v", transport.State())
		}
		if len(sink.loaded) != 2 {
			t.Errorf("expected a reload, got %v", sink.loaded)
		}
	})
}

func TestTransportStep(t *testing.T) {
	t.Run("plays the first song when nothing is playing", func(t *testing.T) {
		sink := newFakeSink()
		transport := NewTransport(sink, nil)
		songs := songList(3)

		if err := transport.Next(songs); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transport.NowPlaying().ID != "s-1" {
			t.Errorf("expected s-1, got %s", transport.NowPlaying().ID)
		}
	})

	t.Run("next wraps around the list", func(t *testing.T) {
		sink := newFakeSink()
		transport := NewTransport(sink, nil)
		songs := songList(3)
		transport.Play(songs[2])

		if err := transport.Next(songs); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transport.NowPlaying().ID != "s-1" {
			t.Errorf("expected wrap to s-1, got %s", transport.NowPlaying().ID)
		}
	})

	t.Run("previous wraps to the last song", func(t *testing.T) {
		sink := newFakeSink()
		transport := NewTransport(sink, nil)
		songs := songList(3)
		transport.Play(songs[0])

		if err := transport.Previous(songs); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transport.NowPlaying().ID != "s-3" {
			t.Errorf("expected wrap to s-3, got %s", transport.NowPlaying().ID)
		}
	})

	t.Run("stepping through the whole list returns to the start", func(t *testing.T) {
		sink := newFakeSink()
		transport := NewTransport(sink, nil)
		songs := songList(4)
		transport.Play(songs[0])

		for i := 0; i < len(songs); i++ {
			if err := transport.Next(songs); err != nil {
				t.Fatalf("unexpected error at step %d: %v", i, err)
			}
		}
		if transport.NowPlaying().ID != "s-1" {
			t.Errorf("expected s-1 after a full cycle, got %s", transport.NowPlaying().ID)
		}
	})

	t.Run("restarts from the top when the current song left the list", func(t *testing.T) {
		sink := newFakeSink()
		transport := NewTransport(sink, nil)
		songs := songList(3)
		transport.Play(services.Song{ID: "s-99", Title: "Gone", URL: "http://cdn/gone.mp3"})

		if err := transport.Next(songs); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transport.NowPlaying().ID != "s-1" {
			t.Errorf("expected s-1, got %s", transport.NowPlaying().ID)
		}
	})

	t.Run("empty list is rejected", func(t *testing.T) {
		transport := NewTransport(newFakeSink(), nil)
		if err := transport.Next(nil); !errors.Is(err, shared.ErrNoTrack) {
			t.Fatalf("expected no-track error, got %v", err)
		}
	})
}

func TestTransportEject(t *testing.T) {
	t.Run("clears the matching current song", func(t *testing.T) {
		sink := newFakeSink()
		transport := NewTransport(sink, nil)
		transport.Play(services.Song{ID: "s-1", Title: "One", URL: "http://cdn/one.mp3"})
		pos := 12.0
		transport.Apply(Event{Position: &pos})

		if !transport.Eject("s-1") {
			t.Fatal("expected eject to report the clear")
		}
		if transport.NowPlaying() != nil {
			t.Error("expected no current song after eject")
		}
		if transport.State() != Idle {
			t.Errorf("expected idle, got %v", transport.State())
		}
		if transport.Position() != 0 || transport.Duration() != 0 {
			t.Error("expected scalars reset")
		}
		if sink.unloads != 1 {
			t.Errorf("expected the sink unloaded, got %d unloads", sink.unloads)
		}
	})

	t.Run("ignores other ids", func(t *testing.T) {
		sink := newFakeSink()
		transport := NewTransport(sink, nil)
		transport.Play(services.Song{ID: "s-1", Title: "One", URL: "http://cdn/one.mp3"})

		if transport.Eject("s-2") {
			t.Fatal("expected no eject for a different id")
		}
		if transport.NowPlaying() == nil || transport.State() != Playing {
			t.Error("expected playback untouched")
		}
		if sink.unloads != 0 {
			t.Errorf("expected no unloads, got %d", sink.unloads)
		}
	})

	t.Run("no-op while idle with no song", func(t *testing.T) {
		transport := NewTransport(newFakeSink(), nil)
		if transport.Eject("s-1") {
			t.Error("expected no eject on an empty transport")
		}
	})
}

func TestTransportSeek(t *testing.T) {
	sink := newFakeSink()
	transport := NewTransport(sink, nil)
	transport.Play(services.Song{ID: "s-1", Title: "One", URL: "http://cdn/one.mp3"})

	t.Run("rejected while duration is unknown", func(t *testing.T) {
		if err := transport.Seek(30); !errors.Is(err, shared.ErrMediaPlayback) {
			t.Fatalf("expected media playback error, got %v", err)
		}
		if len(sink.seeks) != 0 {
			t.Errorf("expected no seeks, got %v", sink.seeks)
		}
	})

	t.Run("clamps to the duration", func(t *testing.T) {
		duration := 180.0
		transport.Apply(Event{Duration: &duration})

		if err := transport.Seek(500); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sink.seeks[len(sink.seeks)-1] != 180 {
			t.Errorf("expected clamp to 180, got %v", sink.seeks)
		}

		if err := transport.Seek(-10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sink.seeks[len(sink.seeks)-1] != 0 {
			t.Errorf("expected clamp to 0, got %v", sink.seeks)
		}
	})

	t.Run("requires a current song", func(t *testing.T) {
		empty := NewTransport(newFakeSink(), nil)
		if err := empty.Seek(10); !errors.Is(err, shared.ErrNoTrack) {
			t.Fatalf("expected no-track error, got %v", err)
		}
	})
}

func TestTransportApply(t *testing.T) {
	t.Run("position and duration updates", func(t *testing.T) {
		transport := NewTransport(newFakeSink(), nil)
		transport.Play(services.Song{ID: "s-1", Title: "One", URL: "http://cdn/one.mp3"})

		pos, dur := 42.5, 180.0
		transport.Apply(Event{Position: &pos})
		transport.Apply(Event{Duration: &dur})
		if transport.Position() != 42.5 || transport.Duration() != 180 {
			t.Errorf("unexpected scalars %v / %v", transport.Position(), transport.Duration())
		}
	})

	t.Run("natural end while playing requests an advance", func(t *testing.T) {
		transport := NewTransport(newFakeSink(), nil)
		transport.Play(services.Song{ID: "s-1", Title: "One", URL: "http://cdn/one.mp3"})

		if !transport.Apply(Event{Ended: true}) {
			t.Error("expected advance request")
		}
		if transport.State() != Idle {
			t.Errorf("expected idle, got %v", transport.State())
		}
	})

	t.Run("end while paused does not advance", func(t *testing.T) {
		transport := NewTransport(newFakeSink(), nil)
		transport.Play(services.Song{ID: "s-1", Title: "One", URL: "http://cdn/one.mp3"})
		transport.Toggle()

		if transport.Apply(Event{Ended: true}) {
			t.Error("expected no advance while paused")
		}
	})

	t.Run("sink errors reset scalars but keep the current song", func(t *testing.T) {
		transport := NewTransport(newFakeSink(), nil)
		transport.Play(services.Song{ID: "s-1", Title: "One", URL: "http://cdn/one.mp3"})
		pos := 42.5
		transport.Apply(Event{Position: &pos})

		transport.Apply(Event{Err: errors.New("stream reset")})
		if transport.Position() != 0 || transport.Duration() != 0 {
			t.Error("expected scalars reset")
		}
		if transport.State() != Idle {
			t.Errorf("expected idle, got %v", transport.State())
		}
		if transport.NowPlaying() == nil || transport.NowPlaying().ID != "s-1" {
			t.Error("expected current song kept")
		}
	})

	t.Run("pause property syncs the state", func(t *testing.T) {
		transport := NewTransport(newFakeSink(), nil)
		transport.Play(services.Song{ID: "s-1", Title: "One", URL: "http://cdn/one.mp3"})

		paused := true
		transport.Apply(Event{Paused: &paused})
		if transport.State() != Paused {
			t.Errorf("expected paused, got %v", transport.State())
		}
		paused = false
		transport.Apply(Event{Paused: &paused})
		if transport.State() != Playing {
			t.Errorf("expected playing, got %v", transport.State())
		}
	})
}

func TestTransportClock(t *testing.T) {
	transport := NewTransport(newFakeSink(), nil)
	transport.Play(services.Song{ID: "s-1", Title: "One", URL: "http://cdn/one.mp3"})

	pos, dur := 65.0, 185.0
	transport.Apply(Event{Position: &pos})
	transport.Apply(Event{Duration: &dur})

	if got := transport.Clock(); got != "01:05 / 03:05" {
		t.Errorf("unexpected clock %q", got)
	}
}
