package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/clipboard"
	"github.com/example/annotator/internal/gesture"
	"github.com/example/annotator/internal/session"
	"github.com/example/annotator/internal/surface"
)

const messageDuration = 2 * time.Second

// submitResult is posted back to the event loop when a submission ends.
type submitResult struct {
	id      int64
	err     error
	preview image.Image
}

type hoverState struct {
	tool, width, legend, shortcut int
}

func noHover() hoverState { return hoverState{-1, -1, -1, -1} }

// ui is the window state that does not depend on a screen. The event loop
// owns it; only submit touches it from another goroutine, through post.
type ui struct {
	app  *App
	ctx  context.Context
	ctrl *gesture.Controller
	post func(any)
	now  func() time.Time
	wg   sync.WaitGroup

	width, height int
	ratio         float64
	lay           layout

	pointer   image.Point
	pointerIn bool
	hover     hoverState

	message      string
	messageErr   bool
	messageUntil time.Time
	submitting   bool
	quit         bool
}

func newUI(ctx context.Context, a *App, post func(any)) *ui {
	u := &ui{
		app:   a,
		ctx:   ctx,
		post:  post,
		now:   time.Now,
		ratio: 1,
		hover: noHover(),
	}
	u.ctrl = gesture.New(a.session, gesture.WithLogger(a.logger))
	return u
}

func (u *ui) shortcuts() []shortcut {
	return []shortcut{
		{label: "Enter:Submit", action: actSubmit},
		{label: "^S:Save", action: actSave},
		{label: "^C:Copy", action: actCopy},
		{label: "^V:Paste", action: actPaste},
		{label: "+/-:Width", action: actWider},
		{label: "Q:Quit", action: actQuit},
	}
}

// sync recomputes the layout from the current session and keeps the
// controller's bounds on the fitted surface.
func (u *ui) sync() {
	s := u.app.session
	u.lay = computeLayout(u.width, u.height, u.ratio, s.Size(), s.Table().Categories(), s.Tally(), u.shortcuts())
	u.ctrl.SetBounds(u.lay.surfaceBounds(s.Size()))
}

func (u *ui) resize(wPx, hPx int, ratio float64) {
	u.width, u.height, u.ratio = wPx, hPx, ratio
	// the canvas area does not depend on the surface size
	u.sync()
	cw, ch := u.lay.container()
	u.app.session.Resize(cw, ch, ratio)
	u.ctrl.SetPixelRatio(ratio)
	u.sync()
}

func (u *ui) flash(msg string) {
	u.message, u.messageErr = msg, false
	u.messageUntil = u.now().Add(messageDuration)
	u.app.logger.Info(msg)
}

func (u *ui) fail(msg string, err error) {
	u.message, u.messageErr = msg, true
	u.messageUntil = u.now().Add(messageDuration)
	u.app.logger.Warn(msg, zap.Error(err))
}

func (u *ui) messageVisible() bool {
	return u.message != "" && u.now().Before(u.messageUntil)
}

// mouse handles a pointer event and reports whether the frame needs a repaint.
func (u *ui) mouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	u.pointer, u.pointerIn = p, p.In(u.lay.canvas)
	// a stroke in progress owns the pointer until it commits
	if u.ctrl.State() == gesture.Tracking {
		u.ctrl.Mouse(e)
		return true
	}
	if u.messageVisible() && e.Direction == mouse.DirPress {
		u.messageUntil = time.Time{}
		return true
	}
	if !p.In(u.lay.area) {
		return u.chrome(e, p)
	}
	u.hover = noHover()
	if u.ctrl.Mouse(e) {
		return true
	}
	return e.Direction == mouse.DirNone
}

func (u *ui) chrome(e mouse.Event, p image.Point) bool {
	u.hover = hoverState{
		tool:     hit(u.lay.tools, p),
		width:    hit(u.lay.widths, p),
		legend:   u.lay.legendAt(p),
		shortcut: u.lay.shortcutAt(p),
	}
	if e.Button != mouse.ButtonLeft || e.Direction != mouse.DirPress {
		return e.Direction == mouse.DirNone
	}
	s := u.app.session
	switch {
	case u.hover.tool >= 0:
		u.do([]string{actPen, actSquare, actErase}[u.hover.tool])
	case u.hover.width >= 0:
		s.SetLineWidth(widthOptions[u.hover.width])
	case u.hover.legend >= 0:
		u.selectCategory(u.hover.legend)
	case u.hover.shortcut >= 0:
		u.do(u.lay.shortcuts[u.hover.shortcut].action)
	}
	return true
}

func (u *ui) touch(e touch.Event) bool {
	if !u.ctrl.Touch(e) {
		return false
	}
	u.pointer = image.Pt(int(e.X), int(e.Y))
	u.pointerIn = u.pointer.In(u.lay.canvas)
	return true
}

// focusLost commits any gesture the pointer can no longer finish.
func (u *ui) focusLost() bool {
	if u.ctrl.State() != gesture.Tracking {
		return false
	}
	u.ctrl.Leave()
	return true
}

func (u *ui) key(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	if act, ok := actionFor(e); ok {
		u.do(act)
		return true
	}
	if i, ok := categoryDigit(e); ok {
		u.selectCategory(i)
		return true
	}
	return false
}

func (u *ui) selectCategory(i int) {
	tbl := u.app.session.Table()
	if i < 0 || i >= tbl.Len() {
		return
	}
	cat := tbl.At(i)
	if err := u.app.session.SelectCategory(cat.Key); err != nil {
		u.fail("select category", err)
	}
}

func (u *ui) do(action string) {
	s := u.app.session
	switch action {
	case actPen:
		s.SelectTool(session.ToolPen)
	case actSquare:
		s.SelectTool(session.ToolSquare)
	case actErase:
		u.ctrl.Leave()
		if len(s.Drawings()) > 0 {
			s.SelectTool(session.ToolErase)
			u.flash("annotations cleared")
		}
	case actWider:
		s.SetLineWidth(stepWidth(s.LineWidth(), 1))
	case actNarrower:
		s.SetLineWidth(stepWidth(s.LineWidth(), -1))
	case actSubmit:
		u.submit()
	case actSave:
		u.save()
	case actCopy:
		u.copy()
	case actPaste:
		u.paste()
	case actQuit:
		u.quit = true
	}
}

// stepWidth moves to the neighbouring toolbar width.
func stepWidth(cur, dir int) int {
	idx := 0
	for i, w := range widthOptions {
		if w <= cur {
			idx = i
		}
	}
	if widthOptions[idx] < cur && dir < 0 {
		return widthOptions[idx]
	}
	idx += dir
	if idx < 0 {
		idx = 0
	}
	if idx >= len(widthOptions) {
		idx = len(widthOptions) - 1
	}
	return widthOptions[idx]
}

func (u *ui) submit() {
	if u.submitting {
		u.flash(session.Message(&session.SubmitError{Stage: session.ErrBusy}))
		return
	}
	u.ctrl.Leave()
	s := u.app.session
	if !s.Interactive() {
		u.fail(session.Message(&session.SubmitError{Stage: session.ErrNoBackdrop}), session.ErrNoBackdrop)
		return
	}
	u.submitting = true
	preview := s.Snapshot()
	opts := u.app.submit
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		id, err := s.Submit(u.ctx, opts)
		u.post(submitResult{id: id, err: err, preview: preview})
	}()
}

func (u *ui) submitDone(r submitResult) {
	u.submitting = false
	if r.err != nil {
		if errors.Is(r.err, session.ErrNoIdentity) {
			u.flash(session.Message(r.err))
			return
		}
		u.fail(session.Message(r.err), r.err)
		return
	}
	u.flash(fmt.Sprintf("classification %d saved", r.id))
	if u.app.notifier != nil {
		u.app.notifier.Submit(r.id, r.preview)
	}
	if u.app.exitOnSubmit {
		u.quit = true
	}
}

func (u *ui) save() {
	data, err := u.app.session.Rasterize()
	if err != nil {
		u.fail("save: "+err.Error(), err)
		return
	}
	if err := os.WriteFile(u.app.output, data, 0o644); err != nil {
		u.fail("save failed", err)
		return
	}
	u.flash(fmt.Sprintf("saved %s", u.app.output))
	if u.app.notifier != nil {
		u.app.notifier.Save(u.app.output)
	}
}

func (u *ui) copy() {
	if !u.app.session.Interactive() {
		return
	}
	if err := clipboard.WriteImage(u.app.session.Snapshot()); err != nil {
		u.fail("copy failed", err)
		return
	}
	u.flash("annotation copied to clipboard")
	if u.app.notifier != nil {
		u.app.notifier.Copy("annotation image")
	}
}

// paste starts a new session on the clipboard image. The drawings, fields and
// anomaly link of the old image are dropped with it.
func (u *ui) paste() {
	img, err := u.app.loader.Load(u.ctx, surface.ClipboardRef)
	if err != nil {
		u.fail("paste failed", err)
		return
	}
	u.ctrl.Leave()
	u.app.replaceSession(u.app.session.Restart())
	u.ctrl = gesture.New(u.app.session, gesture.WithLogger(u.app.logger), gesture.WithPixelRatio(u.ratio))
	u.app.session.SetBackdrop(img)
	u.resize(u.width, u.height, u.ratio)
	u.flash("image pasted")
}

// paintState is a snapshot of everything drawFrame needs.
type paintState struct {
	lay         layout
	canvas      *image.RGBA
	interactive bool
	tool        session.Tool
	category    annotation.Category
	lineWidth   int
	cursor      session.Cursor
	pointer     image.Point
	pointerIn   bool
	hover       hoverState
	message     string
	messageErr  bool
	submitting  bool
}

func (u *ui) paintState() paintState {
	s := u.app.session
	u.sync()
	st := paintState{
		lay:         u.lay,
		interactive: s.Interactive(),
		tool:        s.Tool(),
		lineWidth:   s.LineWidth(),
		pointer:     u.pointer,
		pointerIn:   u.pointerIn,
		hover:       u.hover,
		submitting:  u.submitting,
	}
	if st.interactive {
		st.canvas = s.Snapshot()
		st.cursor = session.CursorFor(st.tool, u.ctrl.State())
	}
	if c, ok := s.Table().Lookup(s.Category()); ok {
		st.category = c
	}
	if u.messageVisible() {
		st.message, st.messageErr = u.message, u.messageErr
	}
	return st
}
