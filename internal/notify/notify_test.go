package notify

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/annotator/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func recorder(out *[]sent) SendFunc {
	return func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, opts: opts}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExisted = err == nil
		}
		*out = append(*out, s)
		return nil
	}
}

func TestDisabledEventsAreSilent(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(recorder(&got)))
	n.Submit(1, nil)
	n.Copy("x")
	n.Save("x.png")
	assert.Empty(t, got)

	var nilNotifier *Notifier
	nilNotifier.Copy("x")
	nilNotifier.Enable(EventCopy, true)
}

func TestSubmitPreviewIsCleanedUp(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(recorder(&got)))
	n.Enable(EventSubmit, true)
	n.Submit(42, image.NewRGBA(image.Rect(0, 0, 4, 4)))

	require.Len(t, got, 1)
	assert.Equal(t, platform.AppName, got[0].title)
	assert.Equal(t, "Classification #42 submitted", got[0].body)
	assert.True(t, got[0].iconExisted)
	_, err := os.Stat(got[0].opts.IconPath)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveUsesAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "out.png")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	var got []sent
	n := New(DefaultPreferences(), WithSender(recorder(&got)))
	n.Enable(EventSave, true)
	n.Save(p)
	require.Len(t, got, 1)
	assert.Equal(t, "Saved "+p, got[0].body)
	assert.Equal(t, p, got[0].opts.IconPath)
}

func TestLoadPreferencesOverrides(t *testing.T) {
	env := map[string]string{
		"ANNOTATOR_NOTIFY_TITLE":     "Sailors",
		"ANNOTATOR_NOTIFY_COPY_TEXT": "Clipboard: %s",
	}
	prefs := LoadPreferences(func(k string) string { return env[k] })
	var got []sent
	n := New(prefs, WithSender(func(title, body string, opts platform.Options) error {
		got = append(got, sent{title: title, body: body})
		return errors.New("bus down")
	}))
	n.Enable(EventCopy, true)
	n.Copy("")
	require.Len(t, got, 1)
	assert.Equal(t, "Sailors", got[0].title)
	assert.Equal(t, "Clipboard: annotation", got[0].body)
}

func TestCopyUsesAppIcon(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences(), WithSender(recorder(&got)))
	n.Enable(EventCopy, true)
	n.Copy("annotation image")
	require.Len(t, got, 1)
	assert.True(t, got[0].iconExisted)
	assert.NotEmpty(t, got[0].opts.IconPath)
}
