// Package assets provides the application icon. The icon is drawn at the
// requested size rather than embedded, so every size is available.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/example/annotator/internal/render"
)

var (
	iconMu    sync.Mutex
	iconCache = map[int][]byte{}
)

var (
	iconPaper  = color.RGBA{0xF4, 0xEF, 0xE6, 0xFF}
	iconSky    = color.RGBA{0x2E, 0x4A, 0x6B, 0xFF}
	iconGround = color.RGBA{0xC9, 0x8B, 0x5A, 0xFF}
	iconBox    = color.RGBA{0xE5, 0x39, 0x35, 0xFF}
	iconStroke = color.RGBA{0xFF, 0xD5, 0x4F, 0xFF}
)

// Icon draws the application icon: a landscape with a boxed feature and a
// freehand mark.
func Icon(size int) (*image.RGBA, error) {
	if size < 16 {
		return nil, fmt.Errorf("icon size %d below 16px", size)
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	u := func(v float64) int { return int(v*float64(size) + 0.5) }
	th := max(1, size/16)

	render.Fill(img, img.Bounds(), iconPaper)
	photo := image.Rect(u(0.08), u(0.08), u(0.92), u(0.92))
	render.Fill(img, photo, iconSky)
	render.Fill(img, image.Rect(photo.Min.X, u(0.62), photo.Max.X, photo.Max.Y), iconGround)
	render.Box(img, u(0.22), u(0.48), u(0.56), u(0.80), iconBox, th)
	render.Polyline(img, []image.Point{
		{u(0.60), u(0.30)}, {u(0.68), u(0.22)}, {u(0.78), u(0.28)}, {u(0.84), u(0.40)},
	}, iconStroke, th)
	return img, nil
}

// IconPNG returns the icon encoded as PNG. Results are cached per size.
func IconPNG(size int) ([]byte, error) {
	iconMu.Lock()
	defer iconMu.Unlock()
	if data, ok := iconCache[size]; ok {
		return append([]byte(nil), data...), nil
	}
	img, err := Icon(size)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	iconCache[size] = buf.Bytes()
	return append([]byte(nil), buf.Bytes()...), nil
}
