package fade

import (
	"context"
	"sync"
	"testing"
	"time"
)

// recordingOverlay records every opacity value it was given.
type recordingOverlay struct {
	mu     sync.Mutex
	values []float64
}

func (o *recordingOverlay) SetOpacity(opacity float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.values = append(o.values, opacity)
}

func (o *recordingOverlay) last() (float64, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.values) == 0 {
		return 0, false
	}
	return o.values[len(o.values)-1], true
}

func TestFadeIn_EndsOpaque(t *testing.T) {
	overlay := &recordingOverlay{}
	fader := NewFader(overlay, 100*time.Millisecond)

	if err := fader.FadeIn(context.Background()); err != nil {
		t.Fatalf("FadeIn() error: %v", err)
	}

	last, ok := overlay.last()
	if !ok {
		t.Fatal("Overlay never received an opacity value")
	}
	if last != 1 {
		t.Errorf("Final opacity = %v, want 1", last)
	}
}

func TestFadeOut_EndsTransparent(t *testing.T) {
	overlay := &recordingOverlay{}
	fader := NewFader(overlay, 100*time.Millisecond)

	if err := fader.FadeOut(context.Background()); err != nil {
		t.Fatalf("FadeOut() error: %v", err)
	}

	last, _ := overlay.last()
	if last != 0 {
		t.Errorf("Final opacity = %v, want 0", last)
	}
}

func TestFade_ZeroDurationIsImmediate(t *testing.T) {
	overlay := &recordingOverlay{}
	fader := NewFader(overlay, 0)

	start := time.Now()
	if err := fader.FadeIn(context.Background()); err != nil {
		t.Fatalf("FadeIn() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 20*time.Millisecond {
		t.Errorf("Zero-duration fade took %v", elapsed)
	}

	last, _ := overlay.last()
	if last != 1 {
		t.Errorf("Final opacity = %v, want 1", last)
	}
}

func TestFade_IntermediateValuesInRange(t *testing.T) {
	overlay := &recordingOverlay{}
	fader := NewFader(overlay, 150*time.Millisecond)

	if err := fader.FadeIn(context.Background()); err != nil {
		t.Fatalf("FadeIn() error: %v", err)
	}

	overlay.mu.Lock()
	defer overlay.mu.Unlock()
	for _, v := range overlay.values {
		if v < 0 || v > 1 {
			t.Errorf("Opacity %v outside [0, 1]", v)
		}
	}
}

func TestFade_Cancellation(t *testing.T) {
	overlay := &recordingOverlay{}
	fader := NewFader(overlay, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := fader.FadeIn(ctx)
	if err != context.Canceled {
		t.Errorf("FadeIn() error = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Cancelled fade took %v", elapsed)
	}
}
