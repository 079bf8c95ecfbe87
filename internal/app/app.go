// Package app is the desktop window around an annotation session: a category
// legend, a tool bar, the fitted canvas and a status line of shortcuts.
package app

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/annotator/internal/notify"
	"github.com/example/annotator/internal/session"
	"github.com/example/annotator/internal/surface"
	"github.com/example/annotator/internal/theme"
)

const appTitle = "Annotator"

// Initial window limits in pixels.
const (
	minWindowW = 640
	minWindowH = 480
	maxWindowW = 1400
	maxWindowH = 960
)

// App holds the window configuration for one session.
type App struct {
	session      *session.Session
	theme        *theme.Theme
	notifier     *notify.Notifier
	loader       *surface.Loader
	logger       *zap.Logger
	title        string
	output       string
	submit       session.SubmitOptions
	exitOnSubmit bool

	updateCh  chan struct{}
	onClose   func()
	closeOnce sync.Once
}

// Option modifies an App during creation.
type Option func(*App)

// WithTheme sets the window palette.
func WithTheme(t *theme.Theme) Option { return func(a *App) { a.theme = t } }

// WithNotifier sets the desktop notifier.
func WithNotifier(n *notify.Notifier) Option { return func(a *App) { a.notifier = n } }

// WithLoader sets the loader used for clipboard paste.
func WithLoader(l *surface.Loader) Option { return func(a *App) { a.loader = l } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(a *App) { a.logger = l } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *App) { a.title = title } }

// WithOutput sets the file Ctrl+S writes to.
func WithOutput(path string) Option { return func(a *App) { a.output = path } }

// WithSubmitOptions describes the classification Enter submits.
func WithSubmitOptions(o session.SubmitOptions) Option { return func(a *App) { a.submit = o } }

// WithExitOnSubmit closes the window after a successful submission.
func WithExitOnSubmit(v bool) Option { return func(a *App) { a.exitOnSubmit = v } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *App) { a.onClose = fn } }

// New creates an App for s. Pass Invalidate to session.WithOnChange so
// changes made outside the window repaint it.
func New(s *session.Session, opts ...Option) *App {
	a := &App{
		session:  s,
		theme:    theme.Default(),
		logger:   zap.NewNop(),
		title:    appTitle,
		output:   "annotation.png",
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(a)
	}
	if a.loader == nil {
		a.loader = surface.NewLoader(surface.WithLoaderLogger(a.logger))
	}
	return a
}

// Invalidate requests a repaint. It never blocks.
func (a *App) Invalidate() {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

// replaceSession moves the window onto s, a session for a different image.
// Submission settings tied to the old image are reset.
func (a *App) replaceSession(s *session.Session) {
	a.session = s
	a.submit.Anomaly = 0
	a.submit.Linkage = session.Linkage{}
	a.submit.ExtraMedia = nil
	a.submit.Content = ""
}

func (a *App) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *App) Run() { driver.Main(a.Main) }

// initialSize fits the backdrop and the chrome inside the window limits.
func (a *App) initialSize() (int, int) {
	w, h := minWindowW, minWindowH
	if r, ok := a.session.BackdropBounds(); ok {
		w = r.Dx() + toolbarWidth() + 2*canvasMargin
		h = r.Dy() + headerHeight + statusHeight + 2*canvasMargin
	}
	return clamp(w, minWindowW, maxWindowW), clamp(h, minWindowH, maxWindowH)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func (a *App) Main(s screen.Screen) {
	width, height := a.initialSize()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.title})
	if err != nil {
		a.logger.Error("new window", zap.Error(err))
		return
	}
	defer w.Release()
	defer a.notifyClose()

	ctx, cancel := context.WithCancel(context.Background())
	u := newUI(ctx, a, func(e any) { w.Send(e) })
	defer func() {
		cancel()
		u.wg.Wait()
		a.session.Close()
	}()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	p := &painter{theme: a.theme, logger: a.logger}
	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	paintDone := make(chan struct{})
	go func() {
		defer close(paintDone)
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			p.drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
		close(paintCh)
		<-paintDone
	}()

	u.resize(width, height, 1)
	for {
		var repaint bool
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
				repaint = u.focusLost()
			}
		case size.Event:
			u.resize(e.WidthPx, e.HeightPx, pixelRatio(e))
			repaint = true
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := u.paintState()
			// keep only the newest frame
			select {
			case <-paintCh:
			default:
			}
			paintCh <- st
		case mouse.Event:
			repaint = u.mouse(e)
		case touch.Event:
			repaint = u.touch(e)
		case key.Event:
			repaint = u.key(e)
		case submitResult:
			u.submitDone(e)
			repaint = true
		case error:
			a.logger.Error("window event", zap.Error(e))
		}
		if u.quit {
			return
		}
		if repaint {
			w.Send(paint.Event{})
		}
	}
}

