// Package anim drives eased value interpolations from externally supplied
// frame times. Nothing here sleeps or spawns goroutines: the owner decides
// when a frame happens and calls Scheduler.Advance.
package anim

import "math"

// Easing maps linear progress t in [0, 1] onto eased progress.
type Easing func(t float64) float64

// Linear is the identity curve.
func Linear(t float64) float64 { return clamp01(t) }

// EaseInOut accelerates from rest and decelerates into the target along a
// half cosine.
func EaseInOut(t float64) float64 {
	t = clamp01(t)
	return math.Cos((t+1)*math.Pi)/2 + 0.5
}

// EaseInOutCubic is a steeper in-out curve.
func EaseInOutCubic(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := 2*t - 2
	return 1 + f*f*f/2
}

// EaseOut decelerates into the target.
func EaseOut(t float64) float64 {
	t = clamp01(t)
	return 1 - (1-t)*(1-t)
}

// ByName resolves an easing curve from its configuration name. Unknown names
// report false.
func ByName(name string) (Easing, bool) {
	switch name {
	case "", "ease-in-out":
		return EaseInOut, true
	case "linear":
		return Linear, true
	case "ease-in-out-cubic":
		return EaseInOutCubic, true
	case "ease-out":
		return EaseOut, true
	}
	return nil, false
}

func clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}
