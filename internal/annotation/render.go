package annotation

import (
	"image"

	"github.com/example/annotator/internal/render"
)

// Render strokes obj onto dst. scale converts logical units to dst pixels and
// is applied to coordinates and stroke width alike. Shapes are outlined only.
func Render(dst *image.RGBA, scale float64, obj DrawingObject) {
	if scale <= 0 {
		scale = 1
	}
	thick := render.ScaledWidth(obj.StrokeWidth, scale)
	switch obj.Kind {
	case KindRectangle:
		box := obj.Box()
		lo := box.Min.Scale(scale).Image()
		hi := box.Max.Scale(scale).Image()
		render.Box(dst, lo.X, lo.Y, hi.X, hi.Y, obj.StrokeColor, thick)
	default:
		pts := make([]image.Point, len(obj.Points))
		for i, p := range obj.Points {
			pts[i] = p.Scale(scale).Image()
		}
		render.Polyline(dst, pts, obj.StrokeColor, thick)
	}
}

// RenderAll strokes every object in order, so later objects paint over earlier
// ones.
func RenderAll(dst *image.RGBA, scale float64, objs []DrawingObject) {
	for _, obj := range objs {
		Render(dst, scale, obj)
	}
}
