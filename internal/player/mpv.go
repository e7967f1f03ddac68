package player

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// MPVOptions configures an [MPV] sink.
type MPVOptions struct {
	// Path to the mpv binary. Defaults to "mpv" on PATH.
	Path string
	// IPCPath is the unix socket mpv listens on. A temp-dir default is
	// used when empty.
	IPCPath string
	// DisableProcess skips spawning mpv and only connects to IPCPath,
	// for attaching to an already-running instance.
	DisableProcess bool
	Logger         *log.Logger
}

// MPV runs mpv as an idle audio-only process and drives it over the JSON
// IPC socket.
type MPV struct {
	opts   MPVOptions
	cmd    *exec.Cmd
	conn   net.Conn
	mu     sync.Mutex
	events chan Event
}

func NewMPV(opts MPVOptions) *MPV {
	if opts.Path == "" {
		opts.Path = "mpv"
	}
	if opts.IPCPath == "" {
		opts.IPCPath = filepath.Join(os.TempDir(), "kaset-mpv.sock")
	}
	return &MPV{opts: opts, events: make(chan Event, 32)}
}

// Start spawns mpv, connects to its IPC socket and begins observing
// playback properties.
func (m *MPV) Start(ctx context.Context) error {
	if !m.opts.DisableProcess {
		if err := m.spawn(ctx); err != nil {
			return err
		}
	}
	if err := m.connect(ctx); err != nil {
		return err
	}
	if err := m.observe(); err != nil {
		return err
	}
	go m.readLoop()
	if m.opts.Logger != nil {
		m.opts.Logger.Debug("mpv sink started", "ipc", m.opts.IPCPath)
	}
	return nil
}

func (m *MPV) spawn(ctx context.Context) error {
	args := []string{
		"--idle=yes",
		"--no-video",
		"--no-terminal",
		"--force-window=no",
		"--input-ipc-server=" + m.opts.IPCPath,
	}
	m.cmd = exec.CommandContext(ctx, m.opts.Path, args...)
	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start mpv: %w", err)
	}
	return nil
}

func (m *MPV) connect(ctx context.Context) error {
	dialer := net.Dialer{Timeout: 5 * time.Second}
	delay := 50 * time.Millisecond

	var err error
	for attempt := 0; attempt < 10; attempt++ {
		var conn net.Conn
		conn, err = dialer.DialContext(ctx, "unix", m.opts.IPCPath)
		if err == nil {
			m.conn = conn
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("failed to connect to mpv: %w", ctx.Err())
		case <-time.After(delay):
		}
		if delay < 500*time.Millisecond {
			delay *= 2
		}
	}
	return fmt.Errorf("failed to connect to mpv at %s: %w", m.opts.IPCPath, err)
}

func (m *MPV) observe() error {
	for i, prop := range []string{"time-pos", "duration", "pause"} {
		if err := m.send("observe_property", i+1, prop); err != nil {
			return err
		}
	}
	return nil
}

func (m *MPV) send(cmd ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return fmt.Errorf("mpv not connected")
	}
	payload, err := json.Marshal(map[string]any{"command": cmd})
	if err != nil {
		return err
	}
	_, err = m.conn.Write(append(payload, '\n'))
	return err
}

// Load replaces the current media and unpauses.
func (m *MPV) Load(url string) error {
	if err := m.send("loadfile", url, "replace"); err != nil {
		return err
	}
	return m.send("set_property", "pause", false)
}

func (m *MPV) Pause(paused bool) error {
	return m.send("set_property", "pause", paused)
}

func (m *MPV) SeekTo(seconds float64) error {
	return m.send("seek", seconds, "absolute")
}

// Unload stops playback and drops the current media without quitting mpv.
// The resulting end-file event carries reason "stop" and is not forwarded.
func (m *MPV) Unload() error {
	return m.send("stop")
}

// Stop quits mpv and tears down the connection. The event channel closes
// once the read loop drains.
func (m *MPV) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		payload, _ := json.Marshal(map[string]any{"command": []any{"quit"}})
		_, _ = m.conn.Write(append(payload, '\n'))
		_ = m.conn.Close()
		m.conn = nil
	}
	if m.cmd != nil && m.cmd.Process != nil {
		_ = m.cmd.Process.Kill()
		_ = m.cmd.Wait()
		m.cmd = nil
	}
	return nil
}

func (m *MPV) Events() <-chan Event { return m.events }

type ipcMessage struct {
	Event  string `json:"event"`
	Name   string `json:"name"`
	Data   any    `json:"data"`
	Reason string `json:"reason"`
}

func (m *MPV) readLoop() {
	defer close(m.events)
	scanner := bufio.NewScanner(m.conn)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			m.events <- Event{Err: fmt.Errorf("failed to decode mpv message: %w", err)}
			continue
		}
		switch msg.Event {
		case "property-change":
			m.propertyChange(msg)
		case "end-file":
			// "stop" fires on every loadfile replace, "quit" on
			// shutdown. Only eof is a natural end.
			switch msg.Reason {
			case "eof":
				m.events <- Event{Ended: true}
			case "error":
				m.events <- Event{Err: fmt.Errorf("mpv failed to play media")}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		m.events <- Event{Err: err}
	}
}

func (m *MPV) propertyChange(msg ipcMessage) {
	switch msg.Name {
	case "time-pos":
		if v, ok := msg.Data.(float64); ok {
			m.events <- Event{Position: &v}
		}
	case "duration":
		if v, ok := msg.Data.(float64); ok {
			m.events <- Event{Duration: &v}
		}
	case "pause":
		if b, ok := msg.Data.(bool); ok {
			m.events <- Event{Paused: &b}
		}
	}
}
