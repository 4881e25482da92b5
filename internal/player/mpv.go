// Package player drives mpv instances over the JSON IPC socket. Each
// display client runs two fullscreen mpv processes; which one is on top is
// the engine's concern, expressed through SetVisible.
package player

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/dexterlb/mpvipc"
)

const (
	socketWait     = 100 * time.Millisecond
	socketAttempts = 50
)

// MPV is one mpv process plus its IPC connection.
type MPV struct {
	name       string
	executable string
	socketPath string

	mu   sync.Mutex
	cmd  *exec.Cmd
	conn *mpvipc.Connection

	readyCh chan struct{}
	endedCh chan struct{}
}

// NewMPV creates a player named name (used for the socket filename) that
// will run the given mpv executable. Call Start before use.
func NewMPV(name, executable, socketDir string) *MPV {
	if executable == "" {
		executable = "mpv"
	}
	if socketDir == "" {
		socketDir = os.TempDir()
	}
	return &MPV{
		name:       name,
		executable: executable,
		socketPath: filepath.Join(socketDir, fmt.Sprintf("loopsign-%s.sock", name)),
		readyCh:    make(chan struct{}, 1),
		endedCh:    make(chan struct{}, 1),
	}
}

// Start launches the mpv process and connects to its IPC socket.
func (p *MPV) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil {
		return nil
	}

	// A stale socket from a crashed run blocks the new instance
	_ = os.Remove(p.socketPath)

	args := []string{
		"--idle=yes",
		"--force-window=yes",
		"--keep-open=yes",
		"--fullscreen=yes",
		"--input-ipc-server=" + p.socketPath,
		"--hwdec=auto",
		"--osc=no",
		"--osd-level=0",
		"--mute=yes",
		"--no-terminal",
	}

	p.cmd = exec.Command(p.executable, args...)
	if err := p.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start mpv %s: %w", p.name, err)
	}
	log.Printf("Player %s: mpv started with PID %d", p.name, p.cmd.Process.Pid)

	for i := 0; i < socketAttempts; i++ {
		if _, err := os.Stat(p.socketPath); err == nil {
			break
		}
		time.Sleep(socketWait)
	}

	conn := mpvipc.NewConnection(p.socketPath)
	if err := conn.Open(); err != nil {
		_ = p.cmd.Process.Kill()
		return fmt.Errorf("failed to connect to mpv %s IPC: %w", p.name, err)
	}
	p.conn = conn

	// End-of-media detection: with keep-open the file never unloads, so
	// watch the eof-reached property instead of end-file events.
	if _, err := conn.Call("observe_property", 1, "eof-reached"); err != nil {
		log.Printf("Player %s: observe_property failed: %v", p.name, err)
	}
	go p.listenEvents(conn)

	return nil
}

// Stop quits and kills the mpv process.
func (p *MPV) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil {
		_, _ = p.conn.Call("quit")
		_ = p.conn.Close()
		p.conn = nil
	}
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
		p.cmd = nil
	}
	_ = os.Remove(p.socketPath)
	return nil
}

// Load replaces the player's media with url, paused. Playback is the
// engine's decision once the file is ready.
func (p *MPV) Load(url string) error {
	conn, err := p.connection()
	if err != nil {
		return err
	}

	if err := conn.Set("pause", true); err != nil {
		return err
	}
	_, err = conn.Call("loadfile", url, "replace")
	return err
}

// WaitReady blocks until mpv reports the loaded file is playable.
func (p *MPV) WaitReady(ctx context.Context) error {
	select {
	case <-p.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Play resumes playback.
func (p *MPV) Play() error {
	conn, err := p.connection()
	if err != nil {
		return err
	}
	return conn.Set("pause", false)
}

// Pause pauses playback.
func (p *MPV) Pause() error {
	conn, err := p.connection()
	if err != nil {
		return err
	}
	return conn.Set("pause", true)
}

// Restart seeks to the beginning and plays.
func (p *MPV) Restart() error {
	conn, err := p.connection()
	if err != nil {
		return err
	}
	if _, err := conn.Call("seek", 0, "absolute"); err != nil {
		return err
	}
	return conn.Set("pause", false)
}

// Reset pauses and seeks to the beginning.
func (p *MPV) Reset() error {
	conn, err := p.connection()
	if err != nil {
		return err
	}
	if err := conn.Set("pause", true); err != nil {
		return err
	}
	_, err = conn.Call("seek", 0, "absolute")
	return err
}

// SetMuted sets the mute state.
func (p *MPV) SetMuted(muted bool) error {
	conn, err := p.connection()
	if err != nil {
		return err
	}
	return conn.Set("mute", muted)
}

// SetVisible raises or lowers the player's fullscreen window. Both windows
// cover the screen; the visible one sits on top.
func (p *MPV) SetVisible(visible bool) {
	conn, err := p.connection()
	if err != nil {
		log.Printf("Player %s: SetVisible skipped: %v", p.name, err)
		return
	}
	if err := conn.Set("ontop", visible); err != nil {
		log.Printf("Player %s: ontop failed: %v", p.name, err)
	}
}

// Ended yields a value each time the loaded media reaches its end.
func (p *MPV) Ended() <-chan struct{} {
	return p.endedCh
}

// ShowText renders an OSD message for durationMs milliseconds.
func (p *MPV) ShowText(text string, durationMs int) error {
	conn, err := p.connection()
	if err != nil {
		return err
	}
	_, err = conn.Call("show-text", text, durationMs, 1)
	return err
}

func (p *MPV) connection() (*mpvipc.Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil, fmt.Errorf("player %s not connected", p.name)
	}
	return p.conn, nil
}

// listenEvents translates mpv IPC events into the ready and ended signals
// the transition engine consumes.
func (p *MPV) listenEvents(conn *mpvipc.Connection) {
	events, stop := conn.NewEventListener()
	defer close(stop)

	for event := range events {
		switch event.Name {
		case "file-loaded":
			select {
			case p.readyCh <- struct{}{}:
			default:
			}

		case "property-change":
			if event.ExtraData["name"] != "eof-reached" {
				continue
			}
			value := event.Data
			if value == nil {
				value = event.ExtraData["data"]
			}
			if reached, ok := value.(bool); ok && reached {
				select {
				case p.endedCh <- struct{}{}:
				default:
				}
			}
		}
	}
}
