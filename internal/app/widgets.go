package app

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/annotator/internal/render"
	"github.com/example/annotator/internal/theme"
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// shortcut is a clickable hint in the status bar.
type shortcut struct {
	label  string
	action string
	rect   image.Rectangle
}

var (
	messageOnce sync.Once
	messageFace font.Face = basicfont.Face7x13
)

// bannerFace is the large face used for transient messages. It falls back to
// basicfont if the embedded TTF cannot be parsed.
func bannerFace() font.Face {
	messageOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 28, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return
		}
		messageFace = face
	})
	return messageFace
}

func buttonFill(th *theme.Theme, state ButtonState) color.RGBA {
	switch state {
	case StateHover:
		return th.ButtonBackgroundHover
	case StatePressed:
		return th.ButtonBackgroundPress
	}
	return th.ButtonBackground
}

func drawLabel(dst *image.RGBA, x, y int, s string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

// baseline centres basicfont text vertically in r.
func baseline(r image.Rectangle) int {
	return r.Min.Y + (r.Dy()+10)/2
}

func drawButton(dst *image.RGBA, r image.Rectangle, label string, state ButtonState, th *theme.Theme) {
	render.Fill(dst, r, buttonFill(th, state))
	drawLabel(dst, r.Min.X+4, baseline(r), label, th.ButtonText)
}

func drawWidthOption(dst *image.RGBA, r image.Rectangle, width int, label string, col color.RGBA, state ButtonState, th *theme.Theme) {
	render.Fill(dst, r, buttonFill(th, state))
	drawLabel(dst, r.Min.X+4, baseline(r), label, th.ButtonText)
	y := (r.Min.Y + r.Max.Y) / 2
	render.Line(dst, r.Min.X+30, y, r.Max.X-6, y, col, width)
}

func drawChip(dst *image.RGBA, e legendEntry, selected bool, hover bool, th *theme.Theme) {
	bg := th.LegendBackground
	if hover {
		bg = th.ButtonBackgroundHover
	}
	render.Fill(dst, e.rect, bg)
	sw := image.Rect(e.rect.Min.X+3, e.rect.Min.Y+3, e.rect.Min.X+13, e.rect.Max.Y-3)
	render.Fill(dst, sw, e.cat.Color)
	render.Frame(dst, sw, th.ButtonBorder, 1)
	drawLabel(dst, e.rect.Min.X+16, baseline(e.rect), e.label, th.LegendText)
	if selected {
		render.Frame(dst, e.rect, th.LegendSelected, 2)
	}
}

func drawShortcut(dst *image.RGBA, sc shortcut, state ButtonState, th *theme.Theme) {
	render.Fill(dst, sc.rect, buttonFill(th, state))
	render.Frame(dst, sc.rect, th.ButtonBorder, 1)
	drawLabel(dst, sc.rect.Min.X+2, baseline(sc.rect), sc.label, th.ButtonText)
}

// drawBanner shows msg centred in area on a translucent plate.
func drawBanner(dst *image.RGBA, area image.Rectangle, msg string, col color.RGBA) {
	face := bannerFace()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	w := d.MeasureString(msg).Ceil()
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	x := area.Min.X + (area.Dx()-w)/2
	y := area.Min.Y + (area.Dy()-ascent-descent)/2 + ascent
	plate := image.Rect(x-8, y-ascent-8, x+w+8, y+descent+8)
	draw.Draw(dst, plate, image.NewUniform(color.RGBA{255, 255, 255, 230}), image.Point{}, draw.Over)
	render.Frame(dst, plate, color.RGBA{0, 0, 0, 255}, 2)
	d.Dot = fixed.P(x, y)
	d.DrawString(msg)
}
