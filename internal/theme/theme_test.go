package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	th, err := Parse(strings.NewReader("Name: Mine\n# comment\nstatuserror: #010203\nUnknownKey: #FFFFFF\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Mine" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.StatusError != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("StatusError = %v", th.StatusError)
	}
	if th.Background != Default().Background {
		t.Errorf("Background should keep the default, got %v", th.Background)
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Background: #12\n")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoaderOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: FromDir\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	inline := Default()
	inline.Name = "Inline"
	l := &Loader{ConfigDir: dir, Inline: map[string]*Theme{"dark": inline}}

	th, err := l.Load("")
	if err != nil || th.Name != "Default" {
		t.Fatalf("empty name: %v %v", th, err)
	}
	th, err = l.Load("dark")
	if err != nil || th.Name != "Inline" {
		t.Fatalf("inline should win over embedded: %v %v", th, err)
	}
	th, err = l.Load("light")
	if err != nil || th.Name != "Light" {
		t.Fatalf("embedded: %v %v", th, err)
	}
	th, err = l.Load("mine")
	if err != nil || th.Name != "FromDir" {
		t.Fatalf("config dir: %v %v", th, err)
	}
	if _, err := l.Load("nope"); err == nil {
		t.Fatal("expected not found")
	}
}

func TestFieldsCoverEveryColour(t *testing.T) {
	fields := Default().Fields()
	if len(fields) != 17 {
		t.Fatalf("got %d fields", len(fields))
	}
	if fields[0].Name != "Background" {
		t.Errorf("first field %s", fields[0].Name)
	}
}
