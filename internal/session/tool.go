package session

import (
	"fmt"
	"strings"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/gesture"
)

// Tool is the toolbar selection.
type Tool int

const (
	ToolPen Tool = iota
	ToolSquare
	// ToolErase clears every drawing when selected. It never becomes the
	// active tool.
	ToolErase
)

const (
	MinLineWidth     = 1
	MaxLineWidth     = 20
	DefaultLineWidth = 2
)

func (t Tool) String() string {
	switch t {
	case ToolPen:
		return "pen"
	case ToolSquare:
		return "square"
	case ToolErase:
		return "erase"
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// Kind returns the drawing kind a tool produces.
func (t Tool) Kind() (annotation.Kind, bool) {
	switch t {
	case ToolPen:
		return annotation.KindFreehand, true
	case ToolSquare:
		return annotation.KindRectangle, true
	}
	return 0, false
}

// ParseTool accepts tool names and drawing kind aliases.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "erase", "eraser", "clear":
		return ToolErase, nil
	}
	kind, err := annotation.ParseKind(s)
	if err != nil {
		return 0, fmt.Errorf("unknown tool %q", s)
	}
	if kind == annotation.KindRectangle {
		return ToolSquare, nil
	}
	return ToolPen, nil
}

// ClampLineWidth keeps w within the toolbar's range.
func ClampLineWidth(w int) int {
	if w < MinLineWidth {
		return MinLineWidth
	}
	if w > MaxLineWidth {
		return MaxLineWidth
	}
	return w
}

// Cursor is the pointer affordance shown over the surface.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorCrosshair
	CursorDrawing
)

func (c Cursor) String() string {
	switch c {
	case CursorCrosshair:
		return "crosshair"
	case CursorDrawing:
		return "drawing"
	}
	return "default"
}

// CursorFor picks the pointer affordance for a tool and tracking state.
func CursorFor(tool Tool, state gesture.State) Cursor {
	if _, ok := tool.Kind(); !ok {
		return CursorDefault
	}
	if state == gesture.Tracking {
		return CursorDrawing
	}
	return CursorCrosshair
}
