// Package gesture turns mouse and touch input into the begin, extend and
// commit calls that build a drawing.
package gesture

import (
	"go.uber.org/zap"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/annotator/internal/geom"
)

// Target receives gesture lifecycle calls with surface-local points.
type Target interface {
	StartGesture(p geom.Point)
	ExtendGesture(p geom.Point)
	CommitGesture()
}

// State is the controller's tracking state.
type State int

const (
	Idle State = iota
	Tracking
)

func (s State) String() string {
	if s == Tracking {
		return "tracking"
	}
	return "idle"
}

type source int

const (
	sourceNone source = iota
	sourceMouse
	sourceTouch
)

// Controller is a two-state machine. Mouse and single-finger touch input drive
// it identically; a second finger suspends it until every finger lifts.
//
// Event coordinates arrive in device pixels and are converted to logical
// units with the pixel ratio before being mapped into the surface bounds.
type Controller struct {
	target Target
	bounds geom.Rect
	ratio  float64
	logger *zap.Logger

	state     State
	source    source
	tracked   touch.Sequence
	contacts  map[touch.Sequence]struct{}
	suspended bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithBounds sets the surface rectangle in window logical units.
func WithBounds(r geom.Rect) Option { return func(c *Controller) { c.bounds = r.Canon() } }

// WithPixelRatio sets the number of device pixels per logical unit.
func WithPixelRatio(ratio float64) Option { return func(c *Controller) { c.ratio = ratio } }

// WithLogger sets the logger used for transition tracing.
func WithLogger(l *zap.Logger) Option { return func(c *Controller) { c.logger = l } }

// New creates a Controller forwarding to target.
func New(target Target, opts ...Option) *Controller {
	c := &Controller{
		target:   target,
		ratio:    1,
		logger:   zap.NewNop(),
		contacts: make(map[touch.Sequence]struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// SetBounds updates the surface rectangle after a layout change.
func (c *Controller) SetBounds(r geom.Rect) { c.bounds = r.Canon() }

// Bounds returns the surface rectangle in window logical units.
func (c *Controller) Bounds() geom.Rect { return c.bounds }

// SetPixelRatio updates the device pixel ratio.
func (c *Controller) SetPixelRatio(ratio float64) {
	if ratio > 0 {
		c.ratio = ratio
	}
}

// State reports whether a gesture is in progress.
func (c *Controller) State() State { return c.state }

// Mouse handles a mouse event and reports whether it was consumed by the
// surface.
func (c *Controller) Mouse(e mouse.Event) bool {
	client := geom.FromPixels(e.X, e.Y, c.ratio)
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft || c.state != Idle || c.suspended {
			return false
		}
		if !c.bounds.Contains(client) {
			return false
		}
		c.begin(sourceMouse, client)
		return true
	case mouse.DirNone:
		if c.state != Tracking || c.source != sourceMouse {
			return false
		}
		if !c.bounds.Contains(client) {
			c.commit("leave")
			return true
		}
		c.target.ExtendGesture(geom.ToSurface(client, c.bounds))
		return true
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft || c.state != Tracking || c.source != sourceMouse {
			return false
		}
		c.commit("release")
		return true
	}
	return false
}

// Touch handles a touch event. The result says whether the platform's default
// scroll behaviour should be suppressed, which is only the case while exactly
// one finger is down and being tracked.
func (c *Controller) Touch(e touch.Event) bool {
	client := geom.FromPixels(e.X, e.Y, c.ratio)
	switch e.Type {
	case touch.TypeBegin:
		c.contacts[e.Sequence] = struct{}{}
		if len(c.contacts) > 1 {
			if c.state == Tracking && c.source == sourceTouch {
				c.commit("multitouch")
			}
			c.suspended = true
			return false
		}
		if c.suspended || c.state != Idle || !c.bounds.Contains(client) {
			return false
		}
		c.tracked = e.Sequence
		c.begin(sourceTouch, client)
		return true
	case touch.TypeMove:
		if !c.tracking(e.Sequence) || len(c.contacts) != 1 {
			return false
		}
		if !c.bounds.Contains(client) {
			c.commit("leave")
			return true
		}
		c.target.ExtendGesture(geom.ToSurface(client, c.bounds))
		return true
	case touch.TypeEnd:
		delete(c.contacts, e.Sequence)
		tracked := c.tracking(e.Sequence)
		if tracked {
			c.commit("lift")
		}
		if len(c.contacts) == 0 {
			c.suspended = false
		}
		return tracked
	}
	return false
}

// Leave commits an in-progress gesture when the pointer leaves the surface or
// the window loses focus.
func (c *Controller) Leave() {
	if c.state == Tracking {
		c.commit("leave")
	}
}

func (c *Controller) tracking(seq touch.Sequence) bool {
	return c.state == Tracking && c.source == sourceTouch && c.tracked == seq
}

func (c *Controller) begin(src source, client geom.Point) {
	c.state = Tracking
	c.source = src
	p := geom.ToSurface(client, c.bounds)
	c.logger.Debug("gesture begin", zap.Stringer("point", p))
	c.target.StartGesture(p)
}

func (c *Controller) commit(reason string) {
	c.state = Idle
	c.source = sourceNone
	c.logger.Debug("gesture commit", zap.String("reason", reason))
	c.target.CommitGesture()
}
