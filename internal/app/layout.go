package app

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/mobile/event/size"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/geom"
)

// Chrome sizes in logical units.
const (
	headerHeight = 24
	statusHeight = 24
	buttonHeight = 24
	widthHeight  = 16
	minToolbar   = 48
	canvasMargin = 8
)

// widthOptions are the stroke widths offered in the toolbar.
var widthOptions = []int{1, 2, 4, 6, 8, 12}

var toolLabels = []string{"P:Pen", "R:Square", "E:Erase"}

// pixelRatio converts shiny's pixels-per-point into a CSS style device pixel
// ratio (96 logical units per inch).
func pixelRatio(e size.Event) float64 {
	r := float64(e.PixelsPerPt) * 72 / 96
	if r < 1 {
		return 1
	}
	return r
}

// legendEntry is one category chip in the header.
type legendEntry struct {
	index int
	cat   annotation.Category
	label string
	rect  image.Rectangle
}

// layout holds every hit target of one frame in window pixels.
type layout struct {
	ratio   float64
	window  image.Rectangle
	header  image.Rectangle
	toolbar image.Rectangle
	status  image.Rectangle
	// area is the space left for the canvas; canvas is the fitted surface
	// inside it.
	area   image.Rectangle
	canvas image.Rectangle

	tools     []image.Rectangle
	widths    []image.Rectangle
	legend    []legendEntry
	shortcuts []shortcut
}

func px(v, ratio float64) int { return int(math.Round(v * ratio)) }

// toolbarWidth fits the title and every tool label in basicfont.
func toolbarWidth() int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	w := d.MeasureString(appTitle).Ceil() + 8
	for _, l := range toolLabels {
		if lw := d.MeasureString(l).Ceil() + 8; lw > w {
			w = lw
		}
	}
	if w < minToolbar {
		w = minToolbar
	}
	return w
}

// computeLayout places the chrome for a window of wPx by hPx pixels. surface
// is the fitted surface size in logical units.
func computeLayout(wPx, hPx int, ratio float64, surface geom.Point, cats []annotation.Category, counts map[string]int, shortcuts []shortcut) layout {
	if ratio <= 0 {
		ratio = 1
	}
	l := layout{ratio: ratio, window: image.Rect(0, 0, wPx, hPx)}
	tw := px(float64(toolbarWidth()), ratio)
	hh := px(headerHeight, ratio)
	sh := px(statusHeight, ratio)

	l.header = image.Rect(0, 0, wPx, hh)
	l.status = image.Rect(0, hPx-sh, wPx, hPx)
	l.toolbar = image.Rect(0, hh, tw, hPx-sh)
	m := px(canvasMargin, ratio)
	l.area = image.Rect(tw+m, hh+m, wPx-m, hPx-sh-m)
	if l.area.Empty() {
		l.area = image.Rectangle{Min: l.area.Min, Max: l.area.Min}
	}
	l.canvas = image.Rectangle{
		Min: l.area.Min,
		Max: l.area.Min.Add(image.Pt(px(surface.X, ratio), px(surface.Y, ratio))),
	}

	y := hh
	bh := px(buttonHeight, ratio)
	for range toolLabels {
		l.tools = append(l.tools, image.Rect(0, y, tw, y+bh))
		y += bh
	}
	y += px(4, ratio)
	wh := px(widthHeight, ratio)
	for range widthOptions {
		l.widths = append(l.widths, image.Rect(0, y, tw, y+wh))
		y += wh
	}

	meas := &font.Drawer{Face: basicfont.Face7x13}
	x := tw + 4
	for i, c := range cats {
		label := c.Name
		if i < 9 {
			label = fmt.Sprintf("%d %s", i+1, c.Name)
		}
		if n := counts[c.Key]; n > 0 {
			label = fmt.Sprintf("%s (x%d)", label, n)
		}
		w := 16 + meas.MeasureString(label).Ceil() + 6
		l.legend = append(l.legend, legendEntry{index: i, cat: c, label: label, rect: image.Rect(x, 2, x+w, hh-2)})
		x += w + 4
	}

	x = tw + 4
	sy := hPx - sh
	for _, sc := range shortcuts {
		w := meas.MeasureString(sc.label).Ceil()
		sc.rect = image.Rect(x-2, sy+2, x+w+2, hPx-2)
		l.shortcuts = append(l.shortcuts, sc)
		x = sc.rect.Max.X + 8
	}
	return l
}

// container is the canvas area in logical units.
func (l layout) container() (float64, float64) {
	return float64(l.area.Dx()) / l.ratio, float64(l.area.Dy()) / l.ratio
}

// surfaceBounds is the fitted surface in window logical units, the
// coordinate space the gesture controller works in.
func (l layout) surfaceBounds(size geom.Point) geom.Rect {
	o := geom.Pt(float64(l.area.Min.X)/l.ratio, float64(l.area.Min.Y)/l.ratio)
	return geom.Rect{Min: o, Max: o.Add(size)}
}

func hit(rects []image.Rectangle, p image.Point) int {
	for i, r := range rects {
		if p.In(r) {
			return i
		}
	}
	return -1
}

func (l layout) legendAt(p image.Point) int {
	for _, e := range l.legend {
		if p.In(e.rect) {
			return e.index
		}
	}
	return -1
}

func (l layout) shortcutAt(p image.Point) int {
	for i, sc := range l.shortcuts {
		if p.In(sc.rect) {
			return i
		}
	}
	return -1
}
