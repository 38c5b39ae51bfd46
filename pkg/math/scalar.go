package math

import "math"

// Clamp restricts value to [lo, hi].
func Clamp(value, lo, hi float32) float32 {
	if value >= hi {
		return hi
	}
	if value <= lo {
		return lo
	}
	return value
}

// Mod wraps value into [0, m). Used for angles that accumulate every tick.
func Mod(value, m float32) float32 {
	if m == 0 {
		return value
	}
	r := float32(math.Mod(float64(value), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math.Pi / 180
}
