package theme

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Loader handles loading themes from various sources.
type Loader struct {
	ConfigDir string
	SystemDir string
	// Inline themes come from [theme.NAME] sections of the config file.
	Inline map[string]*Theme
}

// NewLoader creates a new Loader with standard paths.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "annotator", "themes"),
		SystemDir: "/usr/share/annotator/themes",
	}
}

// Load attempts to load a theme by name or path.
// Order:
// 1. If it's a file path that exists, load it.
// 2. Inline themes from the config file.
// 3. Embedded themes.
// 4. ConfigDir.
// 5. SystemDir.
// An empty name yields Default.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}

	if st, err := os.Stat(name); err == nil && !st.IsDir() {
		return parseFile(name)
	}

	if t, ok := l.Inline[name]; ok {
		return t, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}

	if f, err := EmbeddedThemes.Open("defaults/" + filename); err == nil {
		defer f.Close()
		return Parse(f)
	}

	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		p := filepath.Join(dir, filename)
		if _, err := os.Stat(p); err == nil {
			return parseFile(p)
		}
	}

	return nil, fmt.Errorf("theme '%s' not found", name)
}

func parseFile(p string) (*Theme, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
