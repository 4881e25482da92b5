package fade

import (
	"math"
	"testing"
)

func TestApplyEasing_Endpoints(t *testing.T) {
	easings := []EasingType{EasingLinear, EasingInQuad, EasingOutQuad, EasingInOutSine}

	for _, easing := range easings {
		if got := ApplyEasing(0, easing); math.Abs(got) > 1e-9 {
			t.Errorf("%s: ApplyEasing(0) = %v, want 0", easing, got)
		}
		if got := ApplyEasing(1, easing); math.Abs(got-1) > 1e-9 {
			t.Errorf("%s: ApplyEasing(1) = %v, want 1", easing, got)
		}
	}
}

func TestApplyEasing_Linear(t *testing.T) {
	for _, p := range []float64{0, 0.25, 0.5, 0.75, 1} {
		if got := ApplyEasing(p, EasingLinear); got != p {
			t.Errorf("ApplyEasing(%v, LINEAR) = %v, want %v", p, got, p)
		}
	}
}

func TestApplyEasing_Quad(t *testing.T) {
	// InQuad starts slow: eased midpoint below linear
	if got := ApplyEasing(0.5, EasingInQuad); got != 0.25 {
		t.Errorf("ApplyEasing(0.5, IN_QUAD) = %v, want 0.25", got)
	}
	// OutQuad starts fast: eased midpoint above linear
	if got := ApplyEasing(0.5, EasingOutQuad); got != 0.75 {
		t.Errorf("ApplyEasing(0.5, OUT_QUAD) = %v, want 0.75", got)
	}
}

func TestApplyEasing_Monotonic(t *testing.T) {
	easings := []EasingType{EasingLinear, EasingInQuad, EasingOutQuad, EasingInOutSine}

	for _, easing := range easings {
		prev := ApplyEasing(0, easing)
		for p := 0.05; p <= 1.0; p += 0.05 {
			cur := ApplyEasing(p, easing)
			if cur < prev {
				t.Errorf("%s not monotonic at progress %v: %v < %v", easing, p, cur, prev)
			}
			prev = cur
		}
	}
}

func TestApplyEasing_UnknownFallsBackToLinear(t *testing.T) {
	if got := ApplyEasing(0.3, EasingType("BOGUS")); got != 0.3 {
		t.Errorf("Unknown easing should behave linearly, got %v", got)
	}
}

func TestInterpolate(t *testing.T) {
	if got := Interpolate(0, 1, 0.5, EasingLinear); got != 0.5 {
		t.Errorf("Interpolate(0, 1, 0.5) = %v, want 0.5", got)
	}
	if got := Interpolate(1, 0, 0.5, EasingLinear); got != 0.5 {
		t.Errorf("Interpolate(1, 0, 0.5) = %v, want 0.5", got)
	}
	// Empty easing defaults to linear
	if got := Interpolate(0, 10, 0.1, ""); got != 1 {
		t.Errorf("Interpolate with empty easing = %v, want 1", got)
	}
}
