// Package fade drives the crossfade overlay used during video transitions.
package fade

import "math"

// EasingType represents the type of easing function to use for fades.
type EasingType string

const (
	// EasingLinear provides constant rate of change.
	EasingLinear EasingType = "LINEAR"
	// EasingInQuad accelerates from zero velocity. Used when fading the
	// overlay back to transparent.
	EasingInQuad EasingType = "EASE_IN_QUAD"
	// EasingOutQuad decelerates to zero velocity. Used when fading the
	// overlay to opaque.
	EasingOutQuad EasingType = "EASE_OUT_QUAD"
	// EasingInOutSine provides gentle sine wave easing.
	EasingInOutSine EasingType = "EASE_IN_OUT_SINE"
)

// ApplyEasing applies an easing function to a progress value (0-1).
func ApplyEasing(progress float64, easingType EasingType) float64 {
	switch easingType {
	case EasingLinear:
		return progress

	case EasingInQuad:
		return progress * progress

	case EasingOutQuad:
		return 1 - (1-progress)*(1-progress)

	case EasingInOutSine:
		return -(math.Cos(math.Pi*progress) - 1) / 2

	default:
		return progress
	}
}

// Interpolate calculates an interpolated value between start and end.
func Interpolate(start, end, progress float64, easingType EasingType) float64 {
	if easingType == "" {
		easingType = EasingLinear
	}
	easedProgress := ApplyEasing(progress, easingType)
	return start + (end-start)*easedProgress
}
