// Package events defines the named events broadcast from the server to
// every connected display client, and the websocket hub that fans them out.
package events

import "encoding/json"

// Type identifies a broadcast event.
type Type string

const (
	TypePlay             Type = "play"
	TypePause            Type = "pause"
	TypeRestart          Type = "restart"
	TypeRefresh          Type = "refresh"
	TypeLoad             Type = "load"
	TypeMute             Type = "mute"
	TypeUnmute           Type = "unmute"
	TypeNotifyOverlay    Type = "notify-overlay"
	TypeNotifyFullscreen Type = "notify-fullscreen"
	TypeStatusUpdate     Type = "status-update"
)

// Event is the wire frame sent over the event channel. Delivery is
// at-least-once with no ordering guarantee across event types.
type Event struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// New builds an Event with a marshaled payload. A nil payload produces an
// event with no payload field.
func New(t Type, payload interface{}) (Event, error) {
	ev := Event{Type: t}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Event{}, err
		}
		ev.Payload = data
	}
	return ev, nil
}

// LoadPayload carries the filename for a load event.
type LoadPayload struct {
	File string `json:"file"`
}

// OverlayPayload carries an overlay notification message.
type OverlayPayload struct {
	Message string `json:"message"`
}

// FullscreenPayload carries a fullscreen notification and how long to show
// it, in milliseconds.
type FullscreenPayload struct {
	Message  string `json:"message"`
	Duration int    `json:"duration"`
}
