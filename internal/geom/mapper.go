package geom

// ToSurface maps a client (window) position to surface-local coordinates given
// the surface's current bounds in the same client space. The result is in
// logical units: no device-pixel scaling is applied here.
//
// Points outside bounds are still mapped; callers decide what to do with them.
func ToSurface(client Point, bounds Rect) Point {
	return client.Sub(bounds.Min)
}

// FromPixels converts a device pixel position into logical units using the
// device pixel ratio. A ratio of zero or less is treated as 1.
func FromPixels(x, y float32, ratio float64) Point {
	if ratio <= 0 {
		ratio = 1
	}
	return Point{X: float64(x) / ratio, Y: float64(y) / ratio}
}

// ToPixels converts logical units to device pixels.
func ToPixels(p Point, ratio float64) Point {
	if ratio <= 0 {
		ratio = 1
	}
	return p.Scale(ratio)
}
