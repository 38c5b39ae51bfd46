package animation

// Linear interpolates the line through (x0, y0) and (x1, y1) at x. A zero
// width segment yields y0.
func Linear(x0, y0, x1, y1, x float32) float32 {
	if x1 == x0 {
		return y0
	}
	return LinearFast((x-x0)/(x1-x0), y0, y1)
}

// LinearFast interpolates between y0 and y1 with a precomputed factor.
func LinearFast(a, y0, y1 float32) float32 {
	return y0 + a*(y1-y0)
}
