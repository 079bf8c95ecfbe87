// Package surface owns the raster backing store that shows a backdrop image
// with the user's drawings on top of it.
//
// A Surface is not safe for concurrent use; the session serialises access.
package surface

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/geom"
	"github.com/example/annotator/internal/render"
)

// ErrNotReady is returned when the surface has nothing to rasterize yet.
var ErrNotReady = errors.New("surface has no backing store")

// Brush is the tool state a new drawing is started with.
type Brush struct {
	Kind     annotation.Kind
	Category string
	Color    color.RGBA
	Width    int
}

// Surface holds the backdrop, the committed drawings and the drawing in
// progress, and keeps the backing store in sync with them.
type Surface struct {
	logger *zap.Logger

	backdrop image.Image
	brush    *Brush

	drawings []annotation.DrawingObject
	current  *annotation.DrawingObject

	container geom.Point
	size      geom.Point
	ratio     float64
	backing   *image.RGBA
}

// Option configures a Surface.
type Option func(*Surface)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(s *Surface) { s.logger = l } }

// WithBackdrop sets the initial backdrop image.
func WithBackdrop(img image.Image) Option { return func(s *Surface) { s.backdrop = img } }

// WithBrush sets the initial brush.
func WithBrush(b Brush) Option { return func(s *Surface) { s.brush = &b } }

// New creates an empty Surface. It has no size until Resize is called.
func New(opts ...Option) *Surface {
	s := &Surface{ratio: 1, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// SetBackdrop replaces the backdrop and refits the surface to the last known
// container. A nil image leaves the surface blank.
func (s *Surface) SetBackdrop(img image.Image) {
	s.backdrop = img
	if s.container.X > 0 && s.container.Y > 0 {
		s.Resize(s.container.X, s.container.Y, s.ratio)
		return
	}
	if img != nil && s.backing == nil {
		b := img.Bounds()
		s.Resize(float64(b.Dx()), float64(b.Dy()), s.ratio)
		return
	}
	s.redraw()
}

// Backdrop returns the current backdrop or nil.
func (s *Surface) Backdrop() image.Image { return s.backdrop }

// SetBrush sets the tool state used by the next StartGesture. A nil brush
// disables drawing.
func (s *Surface) SetBrush(b *Brush) {
	if b == nil {
		s.brush = nil
		return
	}
	c := *b
	s.brush = &c
}

// Resize fits the surface inside a container of the given logical size,
// preserving the backdrop's aspect ratio. ratio is the device pixel ratio; the
// backing store is sized in device pixels while Size stays in logical units.
func (s *Surface) Resize(containerW, containerH, ratio float64) {
	if ratio <= 0 {
		ratio = 1
	}
	s.container = geom.Pt(containerW, containerH)
	s.ratio = ratio
	w, h := containerW, containerH
	if s.backdrop != nil {
		b := s.backdrop.Bounds()
		w, h = render.FitSize(b.Dx(), b.Dy(), containerW, containerH)
	}
	s.size = geom.Pt(w, h)
	dev := render.DeviceSize(w, h, ratio)
	if s.backing == nil || s.backing.Bounds().Size() != dev {
		s.backing = image.NewRGBA(image.Rectangle{Max: dev})
	}
	s.logger.Debug("surface resized",
		zap.Float64("width", w), zap.Float64("height", h),
		zap.Float64("ratio", ratio), zap.Int("backingWidth", dev.X), zap.Int("backingHeight", dev.Y))
	s.redraw()
}

// Size returns the surface size in logical units.
func (s *Surface) Size() geom.Point { return s.size }

// Ratio returns the device pixel ratio of the backing store.
func (s *Surface) Ratio() float64 { return s.ratio }

// Interactive reports whether gestures are accepted: a backdrop is loaded and
// the surface has a non-empty size.
func (s *Surface) Interactive() bool {
	return s.backdrop != nil && s.backing != nil && !s.backing.Bounds().Empty()
}

// StartGesture begins a new drawing at p with the current brush.
func (s *Surface) StartGesture(p geom.Point) {
	if !s.Interactive() || s.brush == nil {
		return
	}
	obj := annotation.Begin(s.brush.Kind, s.brush.Category, s.brush.Color, s.brush.Width, p)
	s.current = &obj
	s.redraw()
}

// ExtendGesture grows the drawing in progress.
func (s *Surface) ExtendGesture(p geom.Point) {
	if s.current == nil {
		return
	}
	next := annotation.Extend(*s.current, p)
	s.current = &next
	s.redraw()
}

// CommitGesture moves the drawing in progress onto the committed list.
func (s *Surface) CommitGesture() {
	if s.current == nil {
		return
	}
	s.drawings = append(s.drawings, *s.current)
	s.current = nil
	s.redraw()
}

// ClearAll drops every drawing, including the one in progress.
func (s *Surface) ClearAll() {
	s.drawings = nil
	s.current = nil
	s.redraw()
}

// DropOldest removes the first n committed drawings. The drawing in progress
// and anything committed after them stay.
func (s *Surface) DropOldest(n int) {
	n = min(max(n, 0), len(s.drawings))
	if n == 0 {
		return
	}
	s.drawings = append([]annotation.DrawingObject(nil), s.drawings[n:]...)
	s.redraw()
}

// Drawings returns a copy of the committed drawings in insertion order.
func (s *Surface) Drawings() []annotation.DrawingObject {
	out := make([]annotation.DrawingObject, len(s.drawings))
	copy(out, s.drawings)
	return out
}

// Current returns the drawing in progress, if any.
func (s *Surface) Current() (annotation.DrawingObject, bool) {
	if s.current == nil {
		return annotation.DrawingObject{}, false
	}
	return *s.current, true
}

// Image returns the backing store. Callers must not modify it.
func (s *Surface) Image() *image.RGBA { return s.backing }

// Snapshot returns a copy of the backing store, or nil before the first
// Resize.
func (s *Surface) Snapshot() *image.RGBA {
	if s.backing == nil {
		return nil
	}
	out := image.NewRGBA(s.backing.Bounds())
	copy(out.Pix, s.backing.Pix)
	return out
}

// Rasterize encodes the backing store as PNG.
func (s *Surface) Rasterize() ([]byte, error) {
	if s.backing == nil || s.backing.Bounds().Empty() {
		return nil, ErrNotReady
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.backing); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// redraw repaints the whole backing store: backdrop, committed drawings in
// order, then the drawing in progress. Without a backdrop the store is left
// blank.
func (s *Surface) redraw() {
	if s.backing == nil {
		return
	}
	b := s.backing.Bounds()
	draw.Draw(s.backing, b, image.Transparent, image.Point{}, draw.Src)
	if s.backdrop == nil {
		return
	}
	xdraw.BiLinear.Scale(s.backing, b, s.backdrop, s.backdrop.Bounds(), draw.Src, nil)
	annotation.RenderAll(s.backing, s.ratio, s.drawings)
	if s.current != nil {
		annotation.Render(s.backing, s.ratio, *s.current)
	}
}
