// Package geom holds the surface coordinate types and the mapping from
// window (client) coordinates to surface-local coordinates.
package geom

import (
	"fmt"
	"image"
	"math"
)

// Point is a position in logical units. Logical units are the unit system the
// surface is sized in; device pixels are only reached through a scale factor.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale multiplies both coordinates by k.
func (p Point) Scale(k float64) Point { return Point{X: p.X * k, Y: p.Y * k} }

// Image rounds p to the nearest integer pixel position.
func (p Point) Image() image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Rect is an axis-aligned rectangle. Min is inclusive and Max is the opposite
// corner; Canon orders the corners.
type Rect struct {
	Min, Max Point
}

// R builds a rectangle from two corners in any order.
func R(x0, y0, x1, y1 float64) Rect {
	return Rect{Min: Pt(x0, y0), Max: Pt(x1, y1)}.Canon()
}

// Canon returns r with Min at the top-left and Max at the bottom-right.
func (r Rect) Canon() Rect {
	if r.Max.X < r.Min.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Max.Y < r.Min.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

// Dx returns the width of r.
func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }

// Dy returns the height of r.
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Dx() <= 0 || r.Dy() <= 0 }

// Contains reports whether p lies inside r. The Max edge is exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Image converts r to an integer rectangle, rounding both corners.
func (r Rect) Image() image.Rectangle {
	return image.Rectangle{Min: r.Min.Image(), Max: r.Max.Image()}
}
