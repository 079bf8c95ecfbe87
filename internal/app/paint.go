package app

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"go.uber.org/zap"
	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"

	"github.com/example/annotator/internal/render"
	"github.com/example/annotator/internal/session"
	"github.com/example/annotator/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a frame is allowed to finish.
const frameDropThreshold = 10

// painter renders frames on the paint goroutine. The shadow is cached
// between frames and rebuilt when the canvas size changes.
type painter struct {
	theme  *theme.Theme
	logger *zap.Logger
	shadow *render.Shadow
}

func (p *painter) drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	size := st.lay.window.Size()
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	b, err := s.NewBuffer(size)
	if err != nil {
		p.logger.Error("new buffer", zap.Error(err))
		return
	}
	defer b.Release()
	if !p.render(ctx, b.RGBA(), st) {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// render draws st into dst and reports whether it ran to completion.
func (p *painter) render(ctx context.Context, dst *image.RGBA, st paintState) bool {
	th := p.theme
	l := st.lay
	render.Fill(dst, dst.Bounds(), th.Background)
	if ctx.Err() != nil {
		return false
	}

	if st.canvas != nil && !l.canvas.Empty() {
		if p.shadow.Size() != l.canvas.Size() {
			p.shadow = render.NewShadow(l.canvas.Size(), render.DefaultShadowOptions())
		}
		p.shadow.Draw(dst, l.canvas)
		render.Checkerboard(dst, l.canvas, 8, th.CheckerLight, th.CheckerDark)
		if st.canvas.Bounds().Size() == l.canvas.Size() {
			draw.Draw(dst, l.canvas, st.canvas, st.canvas.Bounds().Min, draw.Over)
		} else {
			xdraw.ApproxBiLinear.Scale(dst, l.canvas, st.canvas, st.canvas.Bounds(), draw.Over, nil)
		}
	} else {
		drawLabel(dst, l.area.Min.X+8, l.area.Min.Y+16, "no image loaded", th.Foreground)
	}
	if ctx.Err() != nil {
		return false
	}

	p.header(dst, st)
	p.toolbar(dst, st)
	p.status(dst, st)
	if ctx.Err() != nil {
		return false
	}

	if st.pointerIn && st.cursor != session.CursorDefault {
		crosshair(dst, l.canvas, st.pointer, th.Crosshair, st.cursor == session.CursorDrawing)
	}
	if st.message != "" {
		col := th.Foreground
		if st.messageErr {
			col = th.StatusError
		}
		drawBanner(dst, l.area, st.message, col)
	}
	return ctx.Err() == nil
}

func (p *painter) header(dst *image.RGBA, st paintState) {
	th := p.theme
	render.Fill(dst, st.lay.header, th.ToolbarBackground)
	drawLabel(dst, 4, baseline(st.lay.header), appTitle, th.Foreground)
	for _, e := range st.lay.legend {
		drawChip(dst, e, e.cat.Key == st.category.Key, st.hover.legend == e.index, th)
	}
}

func (p *painter) toolbar(dst *image.RGBA, st paintState) {
	th := p.theme
	render.Fill(dst, st.lay.toolbar, th.ToolbarBackground)
	active := map[session.Tool]int{session.ToolPen: 0, session.ToolSquare: 1}[st.tool]
	for i, r := range st.lay.tools {
		state := StateDefault
		switch {
		case i == active:
			state = StatePressed
		case i == st.hover.tool:
			state = StateHover
		}
		drawButton(dst, r, toolLabels[i], state, th)
	}
	col := st.category.Color
	if col.A == 0 {
		col = th.Foreground
	}
	for i, r := range st.lay.widths {
		state := StateDefault
		switch {
		case widthOptions[i] == st.lineWidth:
			state = StatePressed
		case i == st.hover.width:
			state = StateHover
		}
		w := render.ScaledWidth(widthOptions[i], st.lay.ratio)
		drawWidthOption(dst, r, w, fmt.Sprint(widthOptions[i]), col, state, th)
	}
}

func (p *painter) status(dst *image.RGBA, st paintState) {
	th := p.theme
	l := st.lay
	render.Fill(dst, l.status, th.StatusBackground)
	for i, sc := range l.shortcuts {
		state := StateDefault
		if i == st.hover.shortcut {
			state = StateHover
		}
		drawShortcut(dst, sc, state, th)
	}
	text := fmt.Sprintf("%s  %s  %dpx", st.tool, st.category.Name, st.lineWidth)
	if st.submitting {
		text = "submitting..."
	}
	x := l.status.Max.X - 8 - 7*len(text)
	if len(l.shortcuts) > 0 && x < l.shortcuts[len(l.shortcuts)-1].rect.Max.X+8 {
		return
	}
	drawLabel(dst, x, baseline(l.status), text, th.StatusText)
}

// crosshair marks the pointer over the canvas; while drawing the arms are
// shorter so they do not hide the stroke.
func crosshair(dst *image.RGBA, clip image.Rectangle, p image.Point, col color.RGBA, drawing bool) {
	arm := 8
	if drawing {
		arm = 4
	}
	sub := dst.SubImage(clip).(*image.RGBA)
	render.Line(sub, p.X-arm, p.Y, p.X-2, p.Y, col, 1)
	render.Line(sub, p.X+2, p.Y, p.X+arm, p.Y, col, 1)
	render.Line(sub, p.X, p.Y-arm, p.X, p.Y-2, col, 1)
	render.Line(sub, p.X, p.Y+2, p.X, p.Y+arm, col, 1)
}
