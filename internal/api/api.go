// Package api exposes the REST control surface: status reads and writes,
// playback commands, playlist navigation, and the media proxy.
package api

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/loopsign/loopsign-go/internal/database/repositories"
	"github.com/loopsign/loopsign-go/internal/events"
	"github.com/loopsign/loopsign-go/internal/ha"
	"github.com/loopsign/loopsign-go/internal/playlist"
	"github.com/loopsign/loopsign-go/internal/status"
)

// Broadcaster fans an event out to every connected display client.
type Broadcaster interface {
	Broadcast(ev events.Event) error
}

// MediaSource lists and serves the signage media files.
type MediaSource interface {
	FetchFileList(ctx context.Context) ([]string, error)
	OpenMedia(ctx context.Context, filename string) (*ha.MediaStream, error)
}

// Handler holds the dependencies of the REST handlers.
type Handler struct {
	store  *status.Store
	cursor *playlist.Cursor
	bus    Broadcaster
	source MediaSource
	media  *repositories.MediaRepository
}

// New creates a Handler.
func New(store *status.Store, cursor *playlist.Cursor, bus Broadcaster, source MediaSource, media *repositories.MediaRepository) *Handler {
	return &Handler{
		store:  store,
		cursor: cursor,
		bus:    bus,
		source: source,
		media:  media,
	}
}

// Routes mounts every REST route on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/api/status", h.getStatus)
	r.Post("/api/status", h.postStatus)

	r.Post("/api/play", h.command(events.TypePlay))
	r.Post("/api/pause", h.command(events.TypePause))
	r.Post("/api/restart", h.command(events.TypeRestart))
	r.Post("/api/refresh", h.command(events.TypeRefresh))
	r.Post("/api/mute", h.command(events.TypeMute))
	r.Post("/api/unmute", h.command(events.TypeUnmute))

	r.Post("/api/loop", h.setLoop(true))
	r.Post("/api/unloop", h.setLoop(false))

	r.Post("/api/next", h.next)
	r.Post("/api/prev", h.prev)
	r.Post("/api/load", h.load)

	r.Post("/api/notify-overlay", h.notifyOverlay)
	r.Post("/api/notify-fullscreen", h.notifyFullscreen)

	r.Post("/api/updateVideoList", h.updateVideoList)
	r.Get("/api/videos", h.listVideos)

	r.Get("/media/{filename}", h.serveMedia)
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshot())
}

// postStatus merges a partial status report. The status-update broadcast is
// suppressed when nothing changed so display reports do not echo forever.
func (h *Handler) postStatus(w http.ResponseWriter, r *http.Request) {
	var partial map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		http.Error(w, "Invalid status data", http.StatusBadRequest)
		return
	}

	if h.store.Merge(partial) {
		h.broadcastStatus()
	}
	writeJSON(w, http.StatusOK, h.store.Snapshot())
}

// command builds a handler that broadcasts a bare named event. The status
// record is not touched here; displays apply the command and report the
// resulting state back through POST /api/status.
func (h *Handler) command(t events.Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.broadcast(t, nil)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (h *Handler) setLoop(loop bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store.Merge(map[string]interface{}{"loop": loop}) {
			h.broadcastStatus()
		}
		writeJSON(w, http.StatusOK, h.store.Snapshot())
	}
}

func (h *Handler) next(w http.ResponseWriter, r *http.Request) {
	file, ok := h.cursor.Next()
	if !ok {
		http.Error(w, "No videos available", http.StatusNotFound)
		return
	}

	h.broadcast(events.TypeNotifyOverlay, events.OverlayPayload{Message: "Up Next: " + file})
	h.advanceTo(r.Context(), file)
	writeJSON(w, http.StatusOK, map[string]string{"file": file})
}

func (h *Handler) prev(w http.ResponseWriter, r *http.Request) {
	file, ok := h.cursor.Prev()
	if !ok {
		http.Error(w, "No videos available", http.StatusNotFound)
		return
	}

	h.advanceTo(r.Context(), file)
	writeJSON(w, http.StatusOK, map[string]string{"file": file})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) {
	var body events.LoadPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.File == "" {
		http.Error(w, "File parameter is required", http.StatusBadRequest)
		return
	}

	h.advanceTo(r.Context(), body.File)
	writeJSON(w, http.StatusOK, map[string]string{"file": body.File})
}

// advanceTo points the status record at a new video and tells every display
// to start transitioning to it.
func (h *Handler) advanceTo(ctx context.Context, file string) {
	if h.store.Merge(map[string]interface{}{"currentVideo": file}) {
		h.broadcastStatus()
	}
	h.broadcast(events.TypeLoad, events.LoadPayload{File: file})

	if h.media != nil {
		if err := h.media.RecordPlay(ctx, file); err != nil {
			log.Printf("Failed to record play for %s: %v", file, err)
		}
	}
}

func (h *Handler) notifyOverlay(w http.ResponseWriter, r *http.Request) {
	var body events.OverlayPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Message == "" {
		http.Error(w, "Message parameter is required", http.StatusBadRequest)
		return
	}

	h.broadcast(events.TypeNotifyOverlay, body)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) notifyFullscreen(w http.ResponseWriter, r *http.Request) {
	var body events.FullscreenPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Message == "" || body.Duration <= 0 {
		http.Error(w, "Message and duration parameters are required", http.StatusBadRequest)
		return
	}

	h.broadcast(events.TypeNotifyFullscreen, body)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// updateVideoList re-reads the sensor file list, replaces the playlist, and
// mirrors the result into the media library.
func (h *Handler) updateVideoList(w http.ResponseWriter, r *http.Request) {
	files, err := h.source.FetchFileList(r.Context())
	if err != nil {
		log.Printf("Failed to fetch video list: %v", err)
		http.Error(w, "Error fetching video list", http.StatusInternalServerError)
		return
	}

	h.cursor.Replace(files)
	if h.media != nil {
		if err := h.media.ReplaceAll(r.Context(), files); err != nil {
			log.Printf("Failed to sync media library: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"files": files})
}

func (h *Handler) listVideos(w http.ResponseWriter, r *http.Request) {
	if h.media == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"files": h.cursor.Files()})
		return
	}

	files, err := h.media.List(r.Context())
	if err != nil {
		http.Error(w, "Error listing videos", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"files": files})
}

// serveMedia streams one media file from the upstream media source, so
// displays never need their own credentials.
func (h *Handler) serveMedia(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	stream, err := h.source.OpenMedia(r.Context(), filename)
	if err != nil {
		log.Printf("Failed to open media %s: %v", filename, err)
		http.Error(w, "Error fetching media file", http.StatusInternalServerError)
		return
	}
	defer func() { _ = stream.Body.Close() }()

	if stream.ContentType != "" {
		w.Header().Set("Content-Type", stream.ContentType)
	}
	if stream.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(stream.ContentLength, 10))
	}
	if _, err := io.Copy(w, stream.Body); err != nil {
		log.Printf("Media stream for %s interrupted: %v", filename, err)
	}
}

func (h *Handler) broadcastStatus() {
	h.broadcast(events.TypeStatusUpdate, h.store.Snapshot())
}

func (h *Handler) broadcast(t events.Type, payload interface{}) {
	ev, err := events.New(t, payload)
	if err != nil {
		log.Printf("Failed to build %s event: %v", t, err)
		return
	}
	if err := h.bus.Broadcast(ev); err != nil {
		log.Printf("Failed to broadcast %s event: %v", t, err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
