package surface

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/geom"
)

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

func backdrop(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{40, 40, 40, 255}}, image.Point{}, draw.Src)
	return img
}

func ready(t *testing.T) *Surface {
	t.Helper()
	s := New(WithBackdrop(backdrop(100, 100)), WithBrush(Brush{Kind: annotation.KindFreehand, Category: "sand", Color: red, Width: 1}))
	s.Resize(100, 100, 1)
	require.True(t, s.Interactive())
	return s
}

func TestResizePreservesAspectAndRatio(t *testing.T) {
	s := New(WithBackdrop(backdrop(800, 400)))
	s.Resize(400, 400, 2)

	assert.Equal(t, geom.Pt(400, 200), s.Size())
	assert.Equal(t, 2.0, s.Ratio())
	assert.Equal(t, image.Rect(0, 0, 800, 400), s.Image().Bounds())
}

func TestResizeKeepsDrawings(t *testing.T) {
	s := ready(t)
	s.StartGesture(geom.Pt(10, 10))
	s.CommitGesture()
	s.Resize(50, 50, 1)
	assert.Len(t, s.Drawings(), 1)
	assert.Equal(t, image.Rect(0, 0, 50, 50), s.Image().Bounds())
}

func TestFreehandStrokeCommits(t *testing.T) {
	s := ready(t)
	s.StartGesture(geom.Pt(10, 10))
	s.ExtendGesture(geom.Pt(12, 11))
	s.ExtendGesture(geom.Pt(15, 13))

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Len(t, cur.Points, 3)
	assert.Empty(t, s.Drawings())

	s.CommitGesture()
	_, ok = s.Current()
	assert.False(t, ok)
	got := s.Drawings()
	require.Len(t, got, 1)
	assert.Equal(t, []geom.Point{{X: 10, Y: 10}, {X: 12, Y: 11}, {X: 15, Y: 13}}, got[0].Points)
	assert.Equal(t, red, s.Image().RGBAAt(10, 10))
	assert.Equal(t, red, s.Image().RGBAAt(15, 13))
}

func TestTapCommitsSinglePoint(t *testing.T) {
	s := ready(t)
	s.StartGesture(geom.Pt(30, 30))
	s.CommitGesture()
	got := s.Drawings()
	require.Len(t, got, 1)
	assert.Equal(t, []geom.Point{{X: 30, Y: 30}}, got[0].Points)
}

func TestRectangleDrawnBetweenCorners(t *testing.T) {
	s := ready(t)
	s.SetBrush(&Brush{Kind: annotation.KindRectangle, Category: "soil", Color: blue, Width: 1})
	s.StartGesture(geom.Pt(50, 40))
	s.ExtendGesture(geom.Pt(20, 20))
	s.ExtendGesture(geom.Pt(5, 5))
	s.CommitGesture()

	got := s.Drawings()
	require.Len(t, got, 1)
	assert.Equal(t, geom.R(5, 5, 50, 40), got[0].Box())
	assert.Equal(t, blue, s.Image().RGBAAt(5, 5))
	assert.Equal(t, blue, s.Image().RGBAAt(50, 40))
	assert.NotEqual(t, blue, s.Image().RGBAAt(20, 20))
}

func TestInProgressDrawnLast(t *testing.T) {
	s := ready(t)
	s.StartGesture(geom.Pt(10, 20))
	s.ExtendGesture(geom.Pt(40, 20))
	s.CommitGesture()

	s.SetBrush(&Brush{Kind: annotation.KindFreehand, Category: "soil", Color: blue, Width: 1})
	s.StartGesture(geom.Pt(25, 10))
	s.ExtendGesture(geom.Pt(25, 30))
	assert.Equal(t, blue, s.Image().RGBAAt(25, 20))
}

func TestGesturesIgnoredWithoutBackdrop(t *testing.T) {
	s := New(WithBrush(Brush{Kind: annotation.KindFreehand, Color: red, Width: 1}))
	s.Resize(100, 100, 1)
	assert.False(t, s.Interactive())
	s.StartGesture(geom.Pt(10, 10))
	s.CommitGesture()
	assert.Empty(t, s.Drawings())
}

func TestGesturesIgnoredWithoutBrush(t *testing.T) {
	s := ready(t)
	s.SetBrush(nil)
	s.StartGesture(geom.Pt(10, 10))
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestClearAllDuringGesture(t *testing.T) {
	s := ready(t)
	s.StartGesture(geom.Pt(10, 10))
	s.ExtendGesture(geom.Pt(20, 20))
	s.CommitGesture()
	s.StartGesture(geom.Pt(30, 30))
	s.ExtendGesture(geom.Pt(40, 40))

	s.ClearAll()

	assert.Empty(t, s.Drawings())
	_, ok := s.Current()
	assert.False(t, ok)

	fresh := ready(t)
	assert.Equal(t, fresh.Image().Pix, s.Image().Pix, "only the backdrop remains")

	s.ExtendGesture(geom.Pt(50, 50))
	s.CommitGesture()
	assert.Empty(t, s.Drawings(), "late events after a clear do nothing")
}

func TestRedrawIsIdempotent(t *testing.T) {
	s := ready(t)
	s.StartGesture(geom.Pt(10, 10))
	s.ExtendGesture(geom.Pt(60, 45))
	s.CommitGesture()
	first := s.Snapshot()
	s.Resize(100, 100, 1)
	second := s.Snapshot()
	assert.Equal(t, first.Pix, second.Pix)
}

func TestRasterizeEncodesPNG(t *testing.T) {
	s := ready(t)
	data, err := s.Rasterize()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())
}

func TestRasterizeBeforeResize(t *testing.T) {
	_, err := New().Rasterize()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestLoadBackdropFailureLeavesBlank(t *testing.T) {
	s := ready(t)
	s.StartGesture(geom.Pt(10, 10))
	s.CommitGesture()

	err := s.LoadBackdrop(context.Background(), NewLoader(), filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)

	assert.False(t, s.Interactive())
	assert.Len(t, s.Drawings(), 1)
	for _, v := range s.Image().Pix {
		if v != 0 {
			t.Fatalf("expected a blank surface")
		}
	}
}

func TestLoaderFetchesOverHTTP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, backdrop(40, 20)))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/plate.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	l := NewLoader(WithHTTPClient(srv.Client()))
	img, err := l.Load(context.Background(), srv.URL+"/plate.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 20), img.Bounds())

	_, err = l.Load(context.Background(), srv.URL+"/missing.png")
	assert.Error(t, err)
}

func TestLoaderReadsClipboard(t *testing.T) {
	l := NewLoader()
	l.readClipboard = func() (image.Image, error) { return backdrop(8, 8), nil }
	img, err := l.Load(context.Background(), ClipboardRef)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())

	sentinel := errors.New("empty")
	l.readClipboard = func() (image.Image, error) { return nil, sentinel }
	_, err = l.Load(context.Background(), ClipboardRef)
	assert.ErrorIs(t, err, sentinel)
}

func TestLoaderDecodesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plate.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, backdrop(12, 6)))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	s := New(WithBrush(Brush{Kind: annotation.KindFreehand, Color: red, Width: 1}))
	s.Resize(24, 24, 1)
	require.NoError(t, s.LoadBackdrop(context.Background(), NewLoader(), path))
	assert.True(t, s.Interactive())
	assert.Equal(t, geom.Pt(24, 12), s.Size())
}
