// Package status holds the authoritative playback status record shared
// with every connected display client.
package status

import "sync"

// Status is the playback state broadcast to display clients. Field names
// match the JSON wire format used by the event channel and the REST API.
type Status struct {
	IsPlaying    bool    `json:"isPlaying"`
	IsMuted      bool    `json:"isMuted"`
	CurrentVideo *string `json:"currentVideo"`
	Loop         bool    `json:"loop"`
	CurrentTime  float64 `json:"currentTime"` // seconds
	Duration     float64 `json:"duration"`    // seconds
	Volume       float64 `json:"volume"`      // 0 to 100
}

// Store owns the single authoritative Status record. All mutation goes
// through Merge so that concurrent request handlers cannot lose updates.
type Store struct {
	mu     sync.RWMutex
	status Status
}

// NewStore creates a Store with the signage defaults: playing, muted,
// looping, no video selected yet.
func NewStore() *Store {
	return &Store{
		status: Status{
			IsPlaying: true,
			IsMuted:   true,
			Loop:      true,
		},
	}
}

// Merge applies a partial update and reports whether any recognized field
// actually changed value. Unknown keys and mistyped values are ignored.
// Numeric values arrive as float64 when decoded from JSON.
func (s *Store) Merge(partial map[string]interface{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for key, raw := range partial {
		switch key {
		case "isPlaying":
			if v, ok := raw.(bool); ok && v != s.status.IsPlaying {
				s.status.IsPlaying = v
				changed = true
			}
		case "isMuted":
			if v, ok := raw.(bool); ok && v != s.status.IsMuted {
				s.status.IsMuted = v
				changed = true
			}
		case "loop":
			if v, ok := raw.(bool); ok && v != s.status.Loop {
				s.status.Loop = v
				changed = true
			}
		case "currentVideo":
			if raw == nil {
				if s.status.CurrentVideo != nil {
					s.status.CurrentVideo = nil
					changed = true
				}
			} else if v, ok := raw.(string); ok {
				if s.status.CurrentVideo == nil || *s.status.CurrentVideo != v {
					video := v
					s.status.CurrentVideo = &video
					changed = true
				}
			}
		case "currentTime":
			if v, ok := toFloat(raw); ok && v != s.status.CurrentTime {
				s.status.CurrentTime = v
				changed = true
			}
		case "duration":
			if v, ok := toFloat(raw); ok && v != s.status.Duration {
				s.status.Duration = v
				changed = true
			}
		case "volume":
			if v, ok := toFloat(raw); ok && v != s.status.Volume {
				s.status.Volume = v
				changed = true
			}
		}
	}
	return changed
}

// Snapshot returns a copy of the current status.
func (s *Store) Snapshot() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.status
	if s.status.CurrentVideo != nil {
		video := *s.status.CurrentVideo
		snap.CurrentVideo = &video
	}
	return snap
}

// CurrentVideo returns the current video filename, or false if none is set.
func (s *Store) CurrentVideo() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.status.CurrentVideo == nil {
		return "", false
	}
	return *s.status.CurrentVideo, true
}

// toFloat coerces JSON numeric values. Integers appear when updates are
// built in-process rather than decoded from a request body.
func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}
