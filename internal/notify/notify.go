// Package notify raises desktop notifications for completed annotation
// actions.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/example/annotator/assets"
	"github.com/example/annotator/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSubmit fires after a classification is stored.
	EventSubmit Event = "submit"
	// EventSave fires when an annotated image is written to disk.
	EventSave Event = "save"
	// EventCopy fires when an annotated image is placed on the clipboard.
	EventCopy Event = "copy"
)

// Preferences describes notification wording.
type Preferences struct {
	Title     string
	Templates map[Event]string
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: platform.AppName,
		Templates: map[Event]string{
			EventSubmit: "Classification %s submitted",
			EventSave:   "Saved %s",
			EventCopy:   "Copied %s to clipboard",
		},
	}
}

// LoadPreferences applies ANNOTATOR_NOTIFY_* overrides from getenv.
func LoadPreferences(getenv func(string) string) Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(getenv("ANNOTATOR_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for _, ev := range []Event{EventSubmit, EventSave, EventCopy} {
		key := "ANNOTATOR_NOTIFY_" + strings.ToUpper(string(ev)) + "_TEXT"
		if v := strings.TrimSpace(getenv(key)); v != "" {
			prefs.Templates[ev] = v
		}
	}
	return prefs
}

// SendFunc delivers one notification.
type SendFunc func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications for enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    SendFunc
	logger  *zap.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithSender replaces platform.Notify.
func WithSender(fn SendFunc) Option { return func(n *Notifier) { n.send = fn } }

// WithLogger sets the logger used for delivery failures.
func WithLogger(l *zap.Logger) Option { return func(n *Notifier) { n.logger = l } }

// New creates a Notifier with every event disabled.
func New(prefs Preferences, opts ...Option) *Notifier {
	n := &Notifier{
		prefs:   Preferences{Title: prefs.Title, Templates: make(map[Event]string, len(prefs.Templates))},
		enabled: make(map[Event]bool),
		send:    platform.Notify,
		logger:  zap.NewNop(),
	}
	for k, v := range prefs.Templates {
		n.prefs.Templates[k] = v
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Submit announces a stored classification, previewing the annotated image
// when one is given.
func (n *Notifier) Submit(id int64, img image.Image) {
	if !n.enabledFor(EventSubmit) {
		return
	}
	opts := platform.Options{}
	if img != nil {
		path, cleanup, err := writePreview(img)
		if err != nil {
			n.logger.Warn("notification preview", zap.Error(err))
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventSubmit, fmt.Sprintf("#%d", id), opts)
}

// Save announces a written file, using it as the icon when it exists.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, err := os.Stat(abs); err == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy announces a clipboard write with the application icon.
func (n *Notifier) Copy(detail string) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "annotation"
	}
	opts := platform.Options{}
	if icon, err := assets.Icon(64); err == nil {
		if path, cleanup, err := writePreview(icon); err == nil {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	tmpl := strings.TrimSpace(n.prefs.Templates[event])
	if tmpl == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(tmpl, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		n.logger.Warn("notification", zap.String("event", string(event)), zap.Error(err))
	}
}

func writePreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "annotator-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	return path, func() { _ = os.Remove(path) }, nil
}
