// Package main is the entry point for the LoopSign display client. It runs
// two mpv players, connects to the control server's event channel, and
// executes playback commands through the transition engine.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"github.com/loopsign/loopsign-go/internal/config"
	"github.com/loopsign/loopsign-go/internal/events"
	"github.com/loopsign/loopsign-go/internal/player"
	"github.com/loopsign/loopsign-go/internal/services/fade"
	"github.com/loopsign/loopsign-go/internal/services/pubsub"
	"github.com/loopsign/loopsign-go/internal/services/transition"
	"github.com/loopsign/loopsign-go/internal/status"
)

// exitRefresh tells the process supervisor a refresh command asked for a
// clean restart rather than a failure.
const exitRefresh = 3

const (
	reconnectDelay = 5 * time.Second
	subscriberBuf  = 8
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.LoadDisplay()
	log.Printf("Display client starting, server %s", cfg.ServerURL)

	playerA := player.NewMPV("a", cfg.MPVPath, cfg.MPVSocketDir)
	playerB := player.NewMPV("b", cfg.MPVPath, cfg.MPVSocketDir)
	if err := playerA.Start(); err != nil {
		log.Fatalf("Failed to start player a: %v", err)
	}
	defer func() { _ = playerA.Stop() }()
	if err := playerB.Start(); err != nil {
		log.Fatalf("Failed to start player b: %v", err)
	}
	defer func() { _ = playerB.Stop() }()

	server := newServerClient(cfg.ServerURL)
	dimmer := player.NewDimmer(playerA, playerB)

	engine := transition.NewEngine(transition.Config{
		PlayerA: playerA,
		PlayerB: playerB,
		Fader:   fade.NewFader(dimmer, cfg.FadeDuration),
		ResolveURL: func(file string) string {
			return cfg.ServerURL + "/media/" + url.PathEscape(file)
		},
		OnAdvance: func() {
			if file, err := server.requestNext(); err != nil {
				log.Printf("Advance request failed: %v", err)
			} else {
				log.Printf("Advancing to %s", file)
			}
		},
		OnUpdate: server.postStatus,
	})
	engine.Start()
	defer engine.Stop()

	if !cfg.StartMuted {
		engine.SetMuted(false)
	}

	ps := pubsub.New()
	defer ps.Close()
	wireHandlers(ps, engine, server, playerA, playerB)

	// Reconcile with the server's authoritative status before the event
	// stream starts; this also kicks off the first video.
	if s, err := server.fetchStatus(); err != nil {
		log.Printf("Initial status fetch failed: %v", err)
	} else {
		engine.ApplyStatus(s)
	}

	done := make(chan struct{})
	go runEventStream(cfg.ServerURL, ps, server, engine, done)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Display client shutting down...")
	close(done)
}

// runEventStream keeps a websocket connection to the server's event channel
// alive, republishing every inbound event to its topic. Each reconnect
// re-fetches the status record to catch anything missed while offline.
func runEventStream(serverURL string, ps *pubsub.PubSub, server *serverClient, engine *transition.Engine, done <-chan struct{}) {
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"

	for {
		select {
		case <-done:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			log.Printf("Event channel dial failed: %v (retrying in %s)", err, reconnectDelay)
			select {
			case <-done:
				return
			case <-time.After(reconnectDelay):
			}
			continue
		}
		log.Println("Event channel connected")

		if s, err := server.fetchStatus(); err == nil {
			engine.ApplyStatus(s)
		}

		readEvents(conn, ps, done)
		_ = conn.Close()
		log.Println("Event channel disconnected")
	}
}

func readEvents(conn *websocket.Conn, ps *pubsub.PubSub, done <-chan struct{}) {
	go func() {
		<-done
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var ev events.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Printf("Discarding malformed event: %v", err)
			continue
		}
		ps.Publish(pubsub.Topic(ev.Type), ev.Payload)
	}
}

// wireHandlers subscribes one goroutine per event type and maps each event
// onto the engine or the players.
func wireHandlers(ps *pubsub.PubSub, engine *transition.Engine, server *serverClient, players ...*player.MPV) {
	handle(ps, pubsub.TopicLoad, func(payload json.RawMessage) {
		var p events.LoadPayload
		if err := json.Unmarshal(payload, &p); err != nil || p.File == "" {
			log.Printf("Discarding malformed load event")
			return
		}
		engine.Enqueue(p.File)
	})

	handle(ps, pubsub.TopicPlay, func(json.RawMessage) { engine.Play() })
	handle(ps, pubsub.TopicPause, func(json.RawMessage) { engine.Pause() })
	handle(ps, pubsub.TopicRestart, func(json.RawMessage) { engine.Restart() })
	handle(ps, pubsub.TopicMute, func(json.RawMessage) { engine.SetMuted(true) })
	handle(ps, pubsub.TopicUnmute, func(json.RawMessage) { engine.SetMuted(false) })

	handle(ps, pubsub.TopicStatusUpdate, func(payload json.RawMessage) {
		var s status.Status
		if err := json.Unmarshal(payload, &s); err != nil {
			log.Printf("Discarding malformed status update: %v", err)
			return
		}
		engine.ApplyStatus(s)
	})

	handle(ps, pubsub.TopicNotifyOverlay, func(payload json.RawMessage) {
		var p events.OverlayPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return
		}
		for _, pl := range players {
			if err := pl.ShowText(p.Message, 3000); err != nil {
				log.Printf("Overlay text failed: %v", err)
			}
		}
	})

	handle(ps, pubsub.TopicNotifyFullscreen, func(payload json.RawMessage) {
		var p events.FullscreenPayload
		if err := json.Unmarshal(payload, &p); err != nil || p.Duration <= 0 {
			return
		}
		duration := time.Duration(p.Duration) * time.Millisecond

		// Playback pauses for the length of the notification
		engine.Pause()
		for _, pl := range players {
			if err := pl.ShowText(p.Message, p.Duration); err != nil {
				log.Printf("Fullscreen text failed: %v", err)
			}
		}
		time.AfterFunc(duration, func() { engine.Play() })
	})

	handle(ps, pubsub.TopicRefresh, func(json.RawMessage) {
		log.Println("Refresh requested, exiting for supervisor restart")
		os.Exit(exitRefresh)
	})
}

func handle(ps *pubsub.PubSub, topic pubsub.Topic, fn func(payload json.RawMessage)) {
	sub := ps.Subscribe(topic, subscriberBuf)
	go func() {
		for msg := range sub.Channel {
			payload, _ := msg.(json.RawMessage)
			fn(payload)
		}
	}()
}

// serverClient is the display's HTTP half: status reads, state reports, and
// playlist advance requests.
type serverClient struct {
	baseURL string
	client  *http.Client
}

func newServerClient(baseURL string) *serverClient {
	return &serverClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *serverClient) fetchStatus() (status.Status, error) {
	var s status.Status

	resp, err := c.client.Get(c.baseURL + "/api/status")
	if err != nil {
		return s, fmt.Errorf("failed to fetch status: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return s, fmt.Errorf("status request returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return s, fmt.Errorf("failed to decode status: %w", err)
	}
	return s, nil
}

// postStatus reports a partial state change back to the server.
func (c *serverClient) postStatus(update map[string]interface{}) {
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Failed to marshal status report: %v", err)
		return
	}

	resp, err := c.client.Post(c.baseURL+"/api/status", "application/json", bytes.NewReader(data))
	if err != nil {
		log.Printf("Status report failed: %v", err)
		return
	}
	_ = resp.Body.Close()
}

func (c *serverClient) requestNext() (string, error) {
	resp, err := c.client.Post(c.baseURL+"/api/next", "application/json", nil)
	if err != nil {
		return "", fmt.Errorf("next request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("next request returned %d", resp.StatusCode)
	}

	var body struct {
		File string `json:"file"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode next response: %w", err)
	}
	return body.File, nil
}
