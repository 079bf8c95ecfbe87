// Package annotation defines the drawing objects users place on a surface,
// the category tables that tag them and the tallies built from them.
//
// Objects are values. Begin and Extend return fresh copies so a committed
// object never shares storage with the one still being drawn.
package annotation

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/example/annotator/internal/geom"
)

// Kind is the shape of a drawing object.
type Kind int

const (
	KindFreehand Kind = iota
	KindRectangle
)

func (k Kind) String() string {
	switch k {
	case KindFreehand:
		return "freehand"
	case KindRectangle:
		return "rectangle"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts the names used by the toolbar and the CLI.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pen", "freehand", "draw":
		return KindFreehand, nil
	case "square", "rectangle", "rect", "box":
		return KindRectangle, nil
	}
	return 0, fmt.Errorf("unknown drawing kind %q", s)
}

// DrawingObject is one user-made annotation. Points are surface-local logical
// units. Rectangles keep only the first point in Points; their drawn box spans
// Anchor to Opposite.
type DrawingObject struct {
	Kind        Kind
	Category    string
	StrokeColor color.RGBA
	StrokeWidth int
	Points      []geom.Point
	Anchor      *geom.Point
	Opposite    *geom.Point
}

// Begin starts a new object at p. The colour is copied so later edits to the
// category table do not recolour existing drawings.
func Begin(kind Kind, category string, col color.RGBA, width int, p geom.Point) DrawingObject {
	obj := DrawingObject{
		Kind:        kind,
		Category:    category,
		StrokeColor: col,
		StrokeWidth: width,
		Points:      []geom.Point{p},
	}
	if kind == KindRectangle {
		anchor := p
		obj.Anchor = &anchor
	}
	return obj
}

// Extend returns a copy of obj grown by p. Freehand objects append p to their
// path; rectangles move their opposite corner to p and keep Points as is.
func Extend(obj DrawingObject, p geom.Point) DrawingObject {
	out := obj.clone()
	switch obj.Kind {
	case KindRectangle:
		opp := p
		out.Opposite = &opp
	default:
		out.Points = append(out.Points, p)
	}
	return out
}

func (o DrawingObject) clone() DrawingObject {
	out := o
	out.Points = make([]geom.Point, len(o.Points), len(o.Points)+1)
	copy(out.Points, o.Points)
	if o.Anchor != nil {
		a := *o.Anchor
		out.Anchor = &a
	}
	if o.Opposite != nil {
		b := *o.Opposite
		out.Opposite = &b
	}
	return out
}

// Box returns the rectangle spanned by a rectangle object. A rectangle with no
// opposite corner yet is a degenerate box at its anchor.
func (o DrawingObject) Box() geom.Rect {
	var anchor geom.Point
	switch {
	case o.Anchor != nil:
		anchor = *o.Anchor
	case len(o.Points) > 0:
		anchor = o.Points[0]
	}
	opposite := anchor
	if o.Opposite != nil {
		opposite = *o.Opposite
	}
	return geom.Rect{Min: anchor, Max: opposite}.Canon()
}

// Bounds returns the extent of the object's geometry, ignoring stroke width.
func (o DrawingObject) Bounds() geom.Rect {
	if o.Kind == KindRectangle {
		return o.Box()
	}
	if len(o.Points) == 0 {
		return geom.Rect{}
	}
	r := geom.Rect{Min: o.Points[0], Max: o.Points[0]}
	for _, p := range o.Points[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X > r.Max.X {
			r.Max.X = p.X
		}
		if p.Y > r.Max.Y {
			r.Max.Y = p.Y
		}
	}
	return r
}
