// Package transition implements the dual-player crossfade state machine.
//
// Two player surfaces exist at all times; exactly one is active (visible and
// audible). A transition preloads the next file on the inactive player,
// fades the overlay to opaque, swaps the players, and fades back. Load
// requests queue; playback commands arriving mid-transition are dropped.
package transition

import (
	"context"
	"log"
	"sync"

	"github.com/loopsign/loopsign-go/internal/services/fade"
	"github.com/loopsign/loopsign-go/internal/status"
)

// Player is one of the two rendering surfaces driven by the engine.
type Player interface {
	// Load sets the player's source and begins buffering.
	Load(url string) error
	// WaitReady blocks until the player has buffered enough to play
	// through without stalling.
	WaitReady(ctx context.Context) error
	Play() error
	Pause() error
	// Restart seeks to the beginning and plays.
	Restart() error
	// Reset pauses and seeks to the beginning. Applied to the player
	// being hidden during a swap.
	Reset() error
	SetMuted(muted bool) error
	SetVisible(visible bool)
	// Ended yields a value each time the player's media reaches its end.
	Ended() <-chan struct{}
}

// Config carries the engine's collaborators.
type Config struct {
	PlayerA Player
	PlayerB Player
	Fader   *fade.Fader
	// ResolveURL maps a filename to the media URL loaded into a player.
	ResolveURL func(file string) string
	// OnAdvance is called when the active video ends and looping is off.
	// The display client requests the next playlist file through it.
	OnAdvance func()
	// OnUpdate reports state changes to be posted back to the server.
	OnUpdate func(update map[string]interface{})
}

// Engine serializes video transitions over the two player slots.
type Engine struct {
	mu sync.Mutex

	active   Player
	inactive Player

	fader      *fade.Fader
	resolveURL func(string) string
	onAdvance  func()
	onUpdate   func(map[string]interface{})

	queue         []string
	currentVideo  string
	loadingVideo  string
	transitioning bool
	muted         bool
	loop          bool

	stopChan chan struct{}
	running  bool
}

// NewEngine creates an engine with PlayerA active. The engine starts muted
// and looping, matching the status defaults displays boot with.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		active:     cfg.PlayerA,
		inactive:   cfg.PlayerB,
		fader:      cfg.Fader,
		resolveURL: cfg.ResolveURL,
		onAdvance:  cfg.OnAdvance,
		onUpdate:   cfg.OnUpdate,
		muted:      true,
		loop:       true,
		stopChan:   make(chan struct{}),
	}
}

// Start begins watching both players for end-of-media events.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	a, b := e.active, e.inactive
	e.mu.Unlock()

	go e.watchEnded(a)
	go e.watchEnded(b)
}

// Stop stops the end-of-media watchers.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.running = false
	close(e.stopChan)
}

// Enqueue requests a transition to file. Requests matching the current
// video, the video already loading, or an already-queued entry are dropped,
// so repeated broadcasts of the same load event are harmless.
func (e *Engine) Enqueue(file string) {
	e.mu.Lock()
	if file == e.currentVideo || file == e.loadingVideo || e.queued(file) {
		e.mu.Unlock()
		return
	}
	e.queue = append(e.queue, file)
	e.mu.Unlock()

	go e.drain()
}

// drain runs queued transitions one at a time. Once a transition finishes
// the next queued file starts immediately, so the queue empties without any
// external re-trigger.
func (e *Engine) drain() {
	for {
		e.mu.Lock()
		if e.transitioning || len(e.queue) == 0 {
			e.mu.Unlock()
			return
		}
		e.transitioning = true
		file := e.queue[0]
		e.queue = e.queue[1:]
		e.loadingVideo = file
		e.mu.Unlock()

		e.runTransition(file)

		e.mu.Lock()
		e.transitioning = false
		e.mu.Unlock()
	}
}

// runTransition performs one full crossfade to file. A failure anywhere in
// the load phase drops the file: the overlay is faded back for visual
// continuity and the queue keeps going. No retry, no error surfaced.
func (e *Engine) runTransition(file string) {
	ctx := context.Background()

	e.mu.Lock()
	target := e.inactive
	e.mu.Unlock()

	log.Printf("Loading video: %s", file)

	err := target.Load(e.resolveURL(file))
	if err == nil {
		err = target.WaitReady(ctx)
	}
	if err == nil {
		err = e.fader.FadeIn(ctx)
	}
	if err == nil {
		err = target.Play()
	}

	if err != nil {
		log.Printf("Video load failed, dropping %s: %v", file, err)
		e.mu.Lock()
		e.loadingVideo = ""
		e.mu.Unlock()
		if fadeErr := e.fader.FadeOut(ctx); fadeErr != nil {
			log.Printf("Recovery fade failed: %v", fadeErr)
		}
		return
	}

	e.swap(file)

	if err := e.fader.FadeOut(ctx); err != nil {
		log.Printf("Fade out failed: %v", err)
	}

	e.mu.Lock()
	e.loadingVideo = ""
	e.mu.Unlock()

	e.emitUpdate(map[string]interface{}{"currentVideo": file, "isPlaying": true})
}

// swap atomically exchanges the active and inactive player roles. The old
// active player is hidden and reset; the new one becomes visible and takes
// on the current mute state.
func (e *Engine) swap(file string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	old := e.active
	old.SetVisible(false)
	if err := old.Reset(); err != nil {
		log.Printf("Reset of outgoing player failed: %v", err)
	}

	e.inactive.SetVisible(true)
	e.active, e.inactive = e.inactive, old
	e.currentVideo = file

	if err := e.active.SetMuted(e.muted); err != nil {
		log.Printf("Mute propagation failed: %v", err)
	}
	if err := e.inactive.SetMuted(e.muted); err != nil {
		log.Printf("Mute propagation failed: %v", err)
	}
}

// Play resumes the active player. Dropped during a transition.
func (e *Engine) Play() bool {
	e.mu.Lock()
	if e.transitioning {
		e.mu.Unlock()
		return false
	}
	player := e.active
	e.mu.Unlock()

	if err := player.Play(); err != nil {
		log.Printf("Play command failed: %v", err)
		return false
	}
	e.emitUpdate(map[string]interface{}{"isPlaying": true})
	return true
}

// Pause pauses the active player. Dropped during a transition.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	if e.transitioning {
		e.mu.Unlock()
		return false
	}
	player := e.active
	e.mu.Unlock()

	if err := player.Pause(); err != nil {
		log.Printf("Pause command failed: %v", err)
		return false
	}
	e.emitUpdate(map[string]interface{}{"isPlaying": false})
	return true
}

// Restart restarts the active player from the beginning. Dropped during a
// transition.
func (e *Engine) Restart() bool {
	e.mu.Lock()
	if e.transitioning {
		e.mu.Unlock()
		return false
	}
	player := e.active
	e.mu.Unlock()

	if err := player.Restart(); err != nil {
		log.Printf("Restart command failed: %v", err)
		return false
	}
	e.emitUpdate(map[string]interface{}{"isPlaying": true})
	return true
}

// SetMuted applies the mute state to both players. Dropped during a
// transition; the swap re-propagates the last accepted state instead.
func (e *Engine) SetMuted(muted bool) bool {
	e.mu.Lock()
	if e.transitioning {
		e.mu.Unlock()
		return false
	}
	e.muted = muted
	a, b := e.active, e.inactive
	e.mu.Unlock()

	for _, p := range []Player{a, b} {
		if err := p.SetMuted(muted); err != nil {
			log.Printf("Mute command failed: %v", err)
		}
	}
	e.emitUpdate(map[string]interface{}{"isMuted": muted})
	return true
}

// SetLoop sets whether the active video repeats in place when it ends.
func (e *Engine) SetLoop(loop bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loop = loop
}

// ApplyStatus reconciles the engine with an authoritative status record,
// as received in a status-update broadcast or an initial status fetch. The
// playback commands go through the guarded methods, so a status update
// landing mid-transition is dropped like any other command; the swap then
// re-propagates the last accepted state. Only the load request is
// unconditional, because the queue is the transition-safe path.
func (e *Engine) ApplyStatus(s status.Status) {
	e.SetLoop(s.Loop)

	e.mu.Lock()
	mutedChanged := s.IsMuted != e.muted
	e.mu.Unlock()

	if mutedChanged {
		e.SetMuted(s.IsMuted)
	}

	if s.IsPlaying {
		e.Play()
	} else {
		e.Pause()
	}

	if s.CurrentVideo != nil {
		e.Enqueue(*s.CurrentVideo)
	}
}

// watchEnded reacts to end-of-media on a player. Events from the inactive
// player are ignored. With looping on, the active video restarts in place
// with no transition; with looping off, the next playlist file is requested
// through OnAdvance.
func (e *Engine) watchEnded(p Player) {
	for {
		select {
		case <-e.stopChan:
			return
		case _, ok := <-p.Ended():
			if !ok {
				return
			}

			e.mu.Lock()
			isActive := p == e.active
			loop := e.loop
			e.mu.Unlock()

			if !isActive {
				continue
			}

			if loop {
				if err := p.Restart(); err != nil {
					log.Printf("Loop restart failed: %v", err)
				}
				continue
			}

			if e.onAdvance != nil {
				e.onAdvance()
			}
		}
	}
}

// IsTransitioning reports whether a transition is in flight.
func (e *Engine) IsTransitioning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.transitioning
}

// CurrentVideo returns the file backing the active player.
func (e *Engine) CurrentVideo() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentVideo
}

// LoadingVideo returns the file currently being preloaded, if any.
func (e *Engine) LoadingVideo() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadingVideo
}

// QueueLen returns the number of pending load requests.
func (e *Engine) QueueLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *Engine) queued(file string) bool {
	for _, f := range e.queue {
		if f == file {
			return true
		}
	}
	return false
}

func (e *Engine) emitUpdate(update map[string]interface{}) {
	if e.onUpdate != nil {
		e.onUpdate(update)
	}
}
