package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the drop shadow drawn behind the canvas.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions returns a soft shadow suited to the window chrome.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  8,
		Offset:  image.Pt(4, 4),
		Opacity: 0.45,
	}
}

// Shadow is a blurred mask for a box of a fixed size. Building one is the
// expensive part, so callers keep it until the box size changes.
type Shadow struct {
	size  image.Point
	opts  ShadowOptions
	mask  *image.Gray
	color *image.Uniform
}

// NewShadow prepares a shadow for a box of the given size. It returns nil when
// there is nothing to draw.
func NewShadow(size image.Point, opts ShadowOptions) *Shadow {
	if size.X <= 0 || size.Y <= 0 || opts.Opacity <= 0 {
		return nil
	}
	if opts.Opacity > 1 {
		opts.Opacity = 1
	}
	if opts.Radius < 0 {
		opts.Radius = 0
	}
	r := opts.Radius
	mask := image.NewGray(image.Rect(0, 0, size.X+2*r, size.Y+2*r))
	draw.Draw(mask, image.Rect(r, r, r+size.X, r+size.Y), image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
	return &Shadow{
		size:  size,
		opts:  opts,
		mask:  blurGray(mask, r),
		color: image.NewUniform(color.RGBA{A: uint8(opts.Opacity*255 + 0.5)}),
	}
}

// Size reports the box size the shadow was built for.
func (s *Shadow) Size() image.Point {
	if s == nil {
		return image.Point{}
	}
	return s.size
}

// Draw composites the shadow for box onto dst. Only box's origin is used;
// its size is the one the shadow was built for.
func (s *Shadow) Draw(dst *image.RGBA, box image.Rectangle) {
	if s == nil {
		return
	}
	origin := box.Min.Add(s.opts.Offset).Sub(image.Pt(s.opts.Radius, s.opts.Radius))
	r := s.mask.Bounds().Add(origin)
	draw.DrawMask(dst, r, s.color, image.Point{}, s.mask, s.mask.Bounds().Min, draw.Over)
}

// blurGray is a separable box blur using running sums.
func blurGray(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := image.NewGray(b)
	dst := image.NewGray(b)

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(row[x])
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			tmp.Pix[y*tmp.Stride+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return dst
}
