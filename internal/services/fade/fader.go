package fade

import (
	"context"
	"time"
)

// Overlay is the surface whose opacity the fader animates. 0 is fully
// transparent, 1 fully opaque.
type Overlay interface {
	SetOpacity(opacity float64)
}

// Fader animates the transition overlay's opacity. Each fade blocks the
// caller until it completes, which is what serializes the visual steps of a
// transition.
type Fader struct {
	overlay  Overlay
	duration time.Duration
	stepRate time.Duration
}

// NewFader creates a Fader with the given fade duration.
func NewFader(overlay Overlay, duration time.Duration) *Fader {
	return &Fader{
		overlay:  overlay,
		duration: duration,
		stepRate: 25 * time.Millisecond, // 40Hz
	}
}

// FadeIn animates the overlay from transparent to opaque.
func (f *Fader) FadeIn(ctx context.Context) error {
	return f.fade(ctx, 0, 1, EasingOutQuad)
}

// FadeOut animates the overlay from opaque back to transparent.
func (f *Fader) FadeOut(ctx context.Context) error {
	return f.fade(ctx, 1, 0, EasingInQuad)
}

// fade interpolates opacity from start to end over the configured duration.
// The end value is always applied, even on a zero duration; cancellation
// returns early with the context error.
func (f *Fader) fade(ctx context.Context, start, end float64, easing EasingType) error {
	if f.duration <= 0 {
		f.overlay.SetOpacity(end)
		return nil
	}

	ticker := time.NewTicker(f.stepRate)
	defer ticker.Stop()

	startTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			progress := float64(now.Sub(startTime)) / float64(f.duration)
			if progress >= 1 {
				f.overlay.SetOpacity(end)
				return nil
			}
			f.overlay.SetOpacity(Interpolate(start, end, progress, easing))
		}
	}
}
