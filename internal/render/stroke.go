// Package render holds the raster primitives used to paint annotations and
// window chrome onto *image.RGBA buffers. Every primitive is deterministic:
// the same inputs always set the same pixels.
package render

import (
	"image"
	"image/color"
	"math"
)

// ThickPixel sets a square of side thick centred on (x, y). Pixels outside
// img are skipped.
func ThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	b := img.Bounds()
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			p := image.Pt(x+dx, y+dy)
			if p.In(b) {
				img.Set(p.X, p.Y, col)
			}
		}
	}
}

// Line draws a Bresenham line between the two points, inclusive of both ends.
func Line(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		ThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Polyline joins consecutive points with lines. A single point is drawn as a
// dot so a tap still leaves a mark.
func Polyline(img *image.RGBA, pts []image.Point, col color.Color, thick int) {
	switch len(pts) {
	case 0:
		return
	case 1:
		ThickPixel(img, pts[0].X, pts[0].Y, thick, col)
		return
	}
	for i := 1; i < len(pts); i++ {
		Line(img, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, col, thick)
	}
}

// Box strokes the outline of the box with corners (x0, y0) and (x1, y1). Both
// corners are part of the outline and may be given in any order.
func Box(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	Line(img, x0, y0, x1, y0, col, thick)
	Line(img, x1, y0, x1, y1, col, thick)
	Line(img, x1, y1, x0, y1, col, thick)
	Line(img, x0, y1, x0, y0, col, thick)
}

// Frame strokes the inside edge of rect, treating Max as exclusive like the
// rest of image.Rectangle.
func Frame(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	if rect.Empty() {
		return
	}
	Box(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
}

// ScaledWidth converts a logical stroke width into device pixels, never
// returning less than one pixel.
func ScaledWidth(width int, scale float64) int {
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Round(float64(width) * scale))
	if w < 1 {
		return 1
	}
	return w
}
