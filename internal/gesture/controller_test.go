package gesture

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/annotator/internal/geom"
)

type recorder struct {
	calls []string
}

func (r *recorder) StartGesture(p geom.Point)  { r.calls = append(r.calls, fmt.Sprintf("start %v", p)) }
func (r *recorder) ExtendGesture(p geom.Point) { r.calls = append(r.calls, fmt.Sprintf("extend %v", p)) }
func (r *recorder) CommitGesture()             { r.calls = append(r.calls, "commit") }

func newController(ratio float64) (*Controller, *recorder) {
	rec := &recorder{}
	c := New(rec, WithBounds(geom.R(100, 50, 500, 350)), WithPixelRatio(ratio))
	return c, rec
}

func press(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirPress}
}

func move(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Direction: mouse.DirNone}
}

func release(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirRelease}
}

func TestMouseStrokeMapsIntoSurface(t *testing.T) {
	c, rec := newController(1)

	assert.True(t, c.Mouse(press(110, 60)))
	assert.Equal(t, Tracking, c.State())
	c.Mouse(move(112, 61))
	c.Mouse(move(115, 63))
	c.Mouse(release(115, 63))

	assert.Equal(t, Idle, c.State())
	assert.Equal(t, []string{"start (10,10)", "extend (12,11)", "extend (15,13)", "commit"}, rec.calls)
}

func TestMouseUsesPixelRatio(t *testing.T) {
	c, rec := newController(2)
	c.Mouse(press(220, 120))
	assert.Equal(t, []string{"start (10,10)"}, rec.calls)
}

func TestMouseIgnoresMovesWhileIdle(t *testing.T) {
	c, rec := newController(1)
	assert.False(t, c.Mouse(move(120, 70)))
	assert.False(t, c.Mouse(release(120, 70)))
	assert.Empty(t, rec.calls)
}

func TestMousePressOutsideBoundsIgnored(t *testing.T) {
	c, rec := newController(1)
	assert.False(t, c.Mouse(press(10, 10)))
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, rec.calls)
}

func TestMouseRightButtonIgnored(t *testing.T) {
	c, rec := newController(1)
	c.Mouse(mouse.Event{X: 110, Y: 60, Button: mouse.ButtonRight, Direction: mouse.DirPress})
	assert.Empty(t, rec.calls)
}

func TestMouseLeaveCommits(t *testing.T) {
	c, rec := newController(1)
	c.Mouse(press(110, 60))
	c.Mouse(move(120, 70))
	c.Mouse(move(600, 70))
	assert.Equal(t, Idle, c.State())
	c.Mouse(release(600, 70))
	assert.Equal(t, []string{"start (10,10)", "extend (20,20)", "commit"}, rec.calls)
}

func TestExplicitLeaveCommitsOnce(t *testing.T) {
	c, rec := newController(1)
	c.Mouse(press(110, 60))
	c.Leave()
	c.Leave()
	assert.Equal(t, []string{"start (10,10)", "commit"}, rec.calls)
}

func TestSingleTouchBehavesLikeMouse(t *testing.T) {
	c, rec := newController(1)

	assert.True(t, c.Touch(touch.Event{X: 110, Y: 60, Sequence: 1, Type: touch.TypeBegin}))
	assert.True(t, c.Touch(touch.Event{X: 120, Y: 70, Sequence: 1, Type: touch.TypeMove}))
	assert.True(t, c.Touch(touch.Event{X: 120, Y: 70, Sequence: 1, Type: touch.TypeEnd}))

	assert.Equal(t, []string{"start (10,10)", "extend (20,20)", "commit"}, rec.calls)
}

func TestTouchLeaveCommits(t *testing.T) {
	c, rec := newController(1)
	c.Touch(touch.Event{X: 110, Y: 60, Sequence: 1, Type: touch.TypeBegin})
	c.Touch(touch.Event{X: 120, Y: 70, Sequence: 1, Type: touch.TypeMove})
	assert.True(t, c.Touch(touch.Event{X: 120, Y: 400, Sequence: 1, Type: touch.TypeMove}))
	assert.Equal(t, Idle, c.State())

	assert.False(t, c.Touch(touch.Event{X: 130, Y: 80, Sequence: 1, Type: touch.TypeMove}))
	assert.False(t, c.Touch(touch.Event{X: 130, Y: 80, Sequence: 1, Type: touch.TypeEnd}))
	assert.Equal(t, []string{"start (10,10)", "extend (20,20)", "commit"}, rec.calls)

	assert.True(t, c.Touch(touch.Event{X: 110, Y: 60, Sequence: 2, Type: touch.TypeBegin}), "next touch starts fresh")
}

func TestTwoFingerStartNeverBegins(t *testing.T) {
	c, rec := newController(1)
	c.contacts[7] = struct{}{}

	assert.False(t, c.Touch(touch.Event{X: 110, Y: 60, Sequence: 8, Type: touch.TypeBegin}))
	assert.False(t, c.Touch(touch.Event{X: 120, Y: 70, Sequence: 8, Type: touch.TypeMove}))
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, rec.calls)
}

func TestSecondFingerSuspendsUntilAllLift(t *testing.T) {
	c, rec := newController(1)

	assert.True(t, c.Touch(touch.Event{X: 110, Y: 60, Sequence: 1, Type: touch.TypeBegin}))
	assert.False(t, c.Touch(touch.Event{X: 200, Y: 60, Sequence: 2, Type: touch.TypeBegin}), "pinch keeps default scrolling")
	assert.Equal(t, []string{"start (10,10)", "commit"}, rec.calls)

	assert.False(t, c.Touch(touch.Event{X: 130, Y: 80, Sequence: 1, Type: touch.TypeMove}))
	c.Touch(touch.Event{X: 200, Y: 60, Sequence: 2, Type: touch.TypeEnd})
	assert.False(t, c.Touch(touch.Event{X: 130, Y: 80, Sequence: 1, Type: touch.TypeMove}))
	c.Touch(touch.Event{X: 130, Y: 80, Sequence: 1, Type: touch.TypeEnd})

	assert.True(t, c.Touch(touch.Event{X: 110, Y: 60, Sequence: 3, Type: touch.TypeBegin}))
	assert.Equal(t, []string{"start (10,10)", "commit", "start (10,10)"}, rec.calls)
}

func TestMouseIgnoredDuringTouchGesture(t *testing.T) {
	c, rec := newController(1)
	c.Touch(touch.Event{X: 110, Y: 60, Sequence: 1, Type: touch.TypeBegin})
	assert.False(t, c.Mouse(move(130, 80)))
	assert.False(t, c.Mouse(release(130, 80)))
	assert.Equal(t, Tracking, c.State())
	assert.Equal(t, []string{"start (10,10)"}, rec.calls)
}
