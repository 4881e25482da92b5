package player

import "log"

// Dimmer implements the transition overlay by driving the brightness of
// every player toward black. Opacity 0 is normal picture, 1 is full black,
// so a fade-in covers the swap and a fade-out reveals the new video.
type Dimmer struct {
	players []*MPV
}

// NewDimmer creates a Dimmer over the given players.
func NewDimmer(players ...*MPV) *Dimmer {
	return &Dimmer{players: players}
}

// SetOpacity maps opacity onto the mpv brightness property (0 to -100).
func (d *Dimmer) SetOpacity(opacity float64) {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	brightness := int(-100 * opacity)

	for _, p := range d.players {
		conn, err := p.connection()
		if err != nil {
			continue
		}
		if err := conn.Set("brightness", brightness); err != nil {
			log.Printf("Player %s: brightness failed: %v", p.name, err)
		}
	}
}
