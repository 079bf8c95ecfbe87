package app

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/size"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/geom"
	"github.com/example/annotator/internal/session"
	"github.com/example/annotator/internal/surface"
	"github.com/example/annotator/internal/theme"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeAssets struct {
	mu    sync.Mutex
	names []string
}

func (f *fakeAssets) Upload(ctx context.Context, data []byte, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, name)
	return "https://example.test/" + name, nil
}

type fakeRecords struct {
	mu   sync.Mutex
	recs []session.Classification
}

func (f *fakeRecords) InsertClassification(ctx context.Context, c session.Classification) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, c)
	return 41 + int64(len(f.recs)), nil
}

func testTable(t *testing.T) *annotation.Table {
	t.Helper()
	tbl, err := annotation.NewTable("test",
		annotation.Category{Key: "rock", Name: "Rock", Color: color.RGBA{200, 0, 0, 255}},
		annotation.Category{Key: "sand", Name: "Sand", Color: color.RGBA{0, 0, 200, 255}},
	)
	require.NoError(t, err)
	return tbl
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

type harness struct {
	app     *App
	ui      *ui
	posted  chan any
	records *fakeRecords
}

func newHarness(t *testing.T, opts ...session.Option) *harness {
	t.Helper()
	h := &harness{posted: make(chan any, 4), records: &fakeRecords{}}
	base := []session.Option{
		session.WithTable(testTable(t)),
		session.WithAssetStore(&fakeAssets{}),
		session.WithRecordStore(h.records),
	}
	s := session.New(append(base, opts...)...)
	s.SetBackdrop(solid(200, 100, color.RGBA{10, 200, 10, 255}))
	h.app = New(s, WithOutput(filepath.Join(t.TempDir(), "out.png")))
	h.ui = newUI(context.Background(), h.app, func(e any) { h.posted <- e })
	h.ui.resize(800, 600, 1)
	return h
}

func (h *harness) canvasPoint(fx, fy float64) (float32, float32) {
	c := h.ui.lay.canvas
	return float32(float64(c.Min.X) + fx*float64(c.Dx())), float32(float64(c.Min.Y) + fy*float64(c.Dy()))
}

func (h *harness) drag(t *testing.T) {
	t.Helper()
	x0, y0 := h.canvasPoint(0.25, 0.25)
	x1, y1 := h.canvasPoint(0.75, 0.75)
	h.ui.mouse(mouse.Event{X: x0, Y: y0, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	h.ui.mouse(mouse.Event{X: x1, Y: y1})
	h.ui.mouse(mouse.Event{X: x1, Y: y1, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
}

func press(r rune, code key.Code, mods key.Modifiers) key.Event {
	return key.Event{Rune: r, Code: code, Modifiers: mods, Direction: key.DirPress}
}

func TestPixelRatio(t *testing.T) {
	assert.InDelta(t, 1.0, pixelRatio(size.Event{PixelsPerPt: 96.0 / 72}), 1e-6)
	assert.InDelta(t, 2.0, pixelRatio(size.Event{PixelsPerPt: 192.0 / 72}), 1e-6)
	assert.Equal(t, 1.0, pixelRatio(size.Event{}))
}

func TestComputeLayoutPlacesChrome(t *testing.T) {
	cats := testTable(t).Categories()
	sc := []shortcut{{label: "Q:Quit", action: actQuit}, {label: "^S:Save", action: actSave}}
	l := computeLayout(800, 600, 1, geom.Pt(400, 200), cats, map[string]int{"sand": 3}, sc)

	assert.Equal(t, image.Rect(0, 0, 800, headerHeight), l.header)
	assert.Equal(t, image.Rect(0, 600-statusHeight, 800, 600), l.status)
	assert.True(t, l.canvas.In(l.area))
	assert.Equal(t, image.Pt(400, 200), l.canvas.Size())
	require.Len(t, l.legend, 2)
	assert.Equal(t, "1 Rock", l.legend[0].label)
	assert.Equal(t, "2 Sand (x3)", l.legend[1].label)
	assert.Less(t, l.legend[0].rect.Max.X, l.legend[1].rect.Min.X)
	require.Len(t, l.shortcuts, 2)
	assert.False(t, l.shortcuts[0].rect.Overlaps(l.shortcuts[1].rect))
	assert.Len(t, l.tools, len(toolLabels))
	assert.Len(t, l.widths, len(widthOptions))
	for _, r := range l.tools {
		assert.True(t, r.In(l.toolbar))
	}
}

func TestComputeLayoutScalesWithRatio(t *testing.T) {
	l := computeLayout(1600, 1200, 2, geom.Pt(100, 50), nil, nil, nil)
	assert.Equal(t, 2*headerHeight, l.header.Dy())
	assert.Equal(t, image.Pt(200, 100), l.canvas.Size())
	w, h := l.container()
	assert.InDelta(t, float64(l.area.Dx())/2, w, 1e-9)
	assert.InDelta(t, float64(l.area.Dy())/2, h, 1e-9)
}

func TestStepWidth(t *testing.T) {
	assert.Equal(t, 4, stepWidth(2, 1))
	assert.Equal(t, 1, stepWidth(2, -1))
	assert.Equal(t, 1, stepWidth(1, -1))
	assert.Equal(t, 12, stepWidth(12, 1))
	assert.Equal(t, 2, stepWidth(3, -1))
	assert.Equal(t, 4, stepWidth(3, 1))
	assert.Equal(t, 12, stepWidth(20, -1))
}

func TestActionFor(t *testing.T) {
	cases := []struct {
		ev   key.Event
		want string
	}{
		{press('p', key.CodeP, 0), actPen},
		{press('R', key.CodeR, key.ModShift), actSquare},
		{press('e', key.CodeE, 0), actErase},
		{press('+', key.CodeEqualSign, key.ModShift), actWider},
		{press('-', key.CodeHyphenMinus, 0), actNarrower},
		{press(-1, key.CodeReturnEnter, 0), actSubmit},
		{press('s', key.CodeS, key.ModControl), actSave},
		{press(0x13, key.CodeS, key.ModControl), actSave},
		{press('c', key.CodeC, key.ModControl), actCopy},
		{press('q', key.CodeQ, 0), actQuit},
	}
	for _, c := range cases {
		got, ok := actionFor(c.ev)
		assert.True(t, ok, "%+v", c.ev)
		assert.Equal(t, c.want, got, "%+v", c.ev)
	}
	_, ok := actionFor(press('s', key.CodeS, 0))
	assert.False(t, ok)
	_, ok = actionFor(press('p', key.CodeP, key.ModControl))
	assert.False(t, ok)
}

func TestResizeFitsSurfaceAndBounds(t *testing.T) {
	h := newHarness(t)
	s := h.app.session
	sz := s.Size()
	assert.InDelta(t, 2.0, sz.X/sz.Y, 0.01)
	assert.Equal(t, h.ui.lay.surfaceBounds(sz), h.ui.ctrl.Bounds())
	assert.Equal(t, image.Pt(int(sz.X+0.5), int(sz.Y+0.5)), h.ui.lay.canvas.Size())
}

func TestDragOnCanvasDraws(t *testing.T) {
	h := newHarness(t)
	h.drag(t)
	d := h.app.session.Drawings()
	require.Len(t, d, 1)
	assert.Equal(t, annotation.KindFreehand, d[0].Kind)
	assert.Equal(t, "rock", d[0].Category)
}

func TestKeysSelectToolCategoryAndWidth(t *testing.T) {
	h := newHarness(t)
	s := h.app.session
	assert.True(t, h.ui.key(press('r', key.CodeR, 0)))
	assert.Equal(t, session.ToolSquare, s.Tool())
	assert.True(t, h.ui.key(press('2', key.Code2, 0)))
	assert.Equal(t, "sand", s.Category())
	h.ui.key(press('9', key.Code9, 0))
	assert.Equal(t, "sand", s.Category())
	assert.True(t, h.ui.key(press('+', key.CodeEqualSign, key.ModShift)))
	assert.Equal(t, 4, s.LineWidth())
	assert.False(t, h.ui.key(key.Event{Rune: 'p', Code: key.CodeP, Direction: key.DirRelease}))

	h.drag(t)
	d := s.Drawings()
	require.Len(t, d, 1)
	assert.Equal(t, annotation.KindRectangle, d[0].Kind)
	assert.Equal(t, "sand", d[0].Category)
	assert.Equal(t, 4, d[0].StrokeWidth)
}

func TestToolbarClicks(t *testing.T) {
	h := newHarness(t)
	s := h.app.session
	click := func(r image.Rectangle) {
		c := r.Min.Add(r.Size().Div(2))
		h.ui.mouse(mouse.Event{X: float32(c.X), Y: float32(c.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress})
		h.ui.mouse(mouse.Event{X: float32(c.X), Y: float32(c.Y), Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	}
	click(h.ui.lay.tools[1])
	assert.Equal(t, session.ToolSquare, s.Tool())
	click(h.ui.lay.widths[4])
	assert.Equal(t, widthOptions[4], s.LineWidth())
	click(h.ui.lay.legend[1].rect)
	assert.Equal(t, "sand", s.Category())

	h.drag(t)
	require.Len(t, s.Drawings(), 1)
	click(h.ui.lay.tools[2])
	assert.Empty(t, s.Drawings())
	assert.Equal(t, session.ToolSquare, s.Tool())
}

func TestSubmitPostsResult(t *testing.T) {
	h := newHarness(t, session.WithIdentity(session.StaticIdentity("user-1")))
	h.drag(t)
	h.ui.key(press(-1, key.CodeReturnEnter, 0))
	assert.True(t, h.ui.submitting)

	var res submitResult
	select {
	case e := <-h.posted:
		res = e.(submitResult)
	case <-time.After(5 * time.Second):
		t.Fatal("submit did not finish")
	}
	h.ui.wg.Wait()
	require.NoError(t, res.err)
	assert.Equal(t, int64(42), res.id)
	h.ui.submitDone(res)
	assert.False(t, h.ui.submitting)
	assert.Equal(t, "classification 42 saved", h.ui.message)
	assert.Empty(t, h.app.session.Drawings())
	require.Len(t, h.records.recs, 1)
}

func TestSubmitWithoutIdentityIsNotAnError(t *testing.T) {
	h := newHarness(t)
	h.drag(t)
	h.ui.do(actSubmit)
	res := (<-h.posted).(submitResult)
	h.ui.wg.Wait()
	h.ui.submitDone(res)
	assert.Equal(t, "sign in to submit", h.ui.message)
	assert.False(t, h.ui.messageErr)
	assert.Len(t, h.app.session.Drawings(), 1)
	assert.Empty(t, h.records.recs)
}

func TestSaveWritesPNG(t *testing.T) {
	h := newHarness(t)
	h.ui.do(actSave)
	info, err := os.Stat(h.app.output)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.Contains(t, h.ui.message, "saved")
}

func TestQuitAction(t *testing.T) {
	h := newHarness(t)
	h.ui.key(press('q', key.CodeQ, 0))
	assert.True(t, h.ui.quit)
}

func TestFocusLostCommitsGesture(t *testing.T) {
	h := newHarness(t)
	x, y := h.canvasPoint(0.5, 0.5)
	h.ui.mouse(mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	assert.True(t, h.ui.focusLost())
	assert.Len(t, h.app.session.Drawings(), 1)
	assert.False(t, h.ui.focusLost())
}

func TestRenderPaintsCanvasAndChrome(t *testing.T) {
	h := newHarness(t)
	th := theme.Default()
	p := &painter{theme: th}
	st := h.ui.paintState()
	dst := image.NewRGBA(st.lay.window)
	require.True(t, p.render(context.Background(), dst, st))

	c := st.lay.canvas
	mid := c.Min.Add(c.Size().Div(2))
	got := dst.RGBAAt(mid.X, mid.Y)
	assert.InDelta(t, 10, int(got.R), 2)
	assert.InDelta(t, 200, int(got.G), 2)
	assert.InDelta(t, 10, int(got.B), 2)
	assert.Equal(t, th.StatusBackground, dst.RGBAAt(st.lay.status.Max.X-2, st.lay.status.Max.Y-1))
	assert.NotNil(t, p.shadow)
}

func TestRenderStopsWhenCanceled(t *testing.T) {
	h := newHarness(t)
	p := &painter{theme: theme.Default()}
	st := h.ui.paintState()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, p.render(ctx, image.NewRGBA(st.lay.window), st))
}

func TestPasteStartsNewSession(t *testing.T) {
	h := newHarness(t)
	old := h.app.session
	loader := surface.NewLoader(surface.WithClipboardReader(func() (image.Image, error) {
		return solid(120, 90, color.RGBA{0, 0, 0, 255}), nil
	}))
	h.app.loader = loader
	parent := int64(5)
	h.app.submit = session.SubmitOptions{Anomaly: 9, ClassificationType: "roverImg", Linkage: session.Linkage{ParentClassification: &parent}}
	require.NoError(t, old.SelectCategory("sand"))
	h.drag(t)
	old.SetField("notes", "old image")
	require.Len(t, old.Drawings(), 1)

	assert.True(t, h.ui.key(press('v', key.CodeV, key.ModControl)))

	s := h.app.session
	require.NotSame(t, old, s)
	assert.Empty(t, s.Drawings())
	assert.Empty(t, s.Fields())
	assert.Equal(t, "sand", s.Category())
	r, ok := s.BackdropBounds()
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 120, 90), r)
	assert.Equal(t, int64(0), h.app.submit.Anomaly)
	assert.Nil(t, h.app.submit.Linkage.ParentClassification)
	assert.Equal(t, "roverImg", h.app.submit.ClassificationType)

	h.drag(t)
	assert.Len(t, s.Drawings(), 1, "gestures reach the new session")
	assert.Len(t, old.Drawings(), 1)
	_, err := old.Submit(context.Background(), session.SubmitOptions{})
	assert.ErrorIs(t, err, session.ErrClosed)
}
