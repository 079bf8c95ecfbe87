package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// FitSize returns the largest size with the aspect ratio of src that fits
// inside a container of maxW by maxH. A zero-sized source or container yields
// a zero size.
func FitSize(srcW, srcH int, maxW, maxH float64) (float64, float64) {
	if srcW <= 0 || srcH <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	aspect := float64(srcW) / float64(srcH)
	w := maxW
	h := w / aspect
	if h > maxH {
		h = maxH
		w = h * aspect
	}
	return w, h
}

// DeviceSize converts a logical size into a backing store size for the given
// device pixel ratio.
func DeviceSize(w, h, ratio float64) image.Point {
	if ratio <= 0 {
		ratio = 1
	}
	return image.Pt(int(math.Round(w*ratio)), int(math.Round(h*ratio)))
}

// Checkerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func Checkerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	if size <= 0 {
		size = 8
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// Fill paints rect of dst with a solid colour.
func Fill(dst *image.RGBA, rect image.Rectangle, col color.Color) {
	draw.Draw(dst, rect, &image.Uniform{C: col}, image.Point{}, draw.Src)
}
