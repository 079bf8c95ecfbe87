// Package categories loads workflow category tables. Tables are YAML files
// looked up by name across the embedded defaults, the user's config
// directory, and a system directory.
package categories

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/annotator/internal/annotation"
)

//go:embed defaults/*.yaml
var embedded embed.FS

// DefaultTable is loaded when no table name is given.
const DefaultTable = "rover"

const ext = ".yaml"

// Loader resolves table names to files.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader returns a Loader with the standard directories.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "annotator", "categories"),
		SystemDir: "/usr/share/annotator/categories",
	}
}

// Load finds a table by path or name.
// Order:
// 1. An existing file path.
// 2. Embedded tables.
// 3. ConfigDir.
// 4. SystemDir.
func (l *Loader) Load(name string) (*annotation.Table, error) {
	if name == "" {
		name = DefaultTable
	}
	if st, err := os.Stat(name); err == nil && !st.IsDir() {
		return parseFile(name)
	}

	filename := name
	if !strings.HasSuffix(filename, ext) {
		filename += ext
	}

	if f, err := embedded.Open(path.Join("defaults", filename)); err == nil {
		defer f.Close()
		return Parse(f, strings.TrimSuffix(filename, ext))
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
	return nil, fmt.Errorf("category table '%s' not found", name)
}

// Names lists every table the loader can find, embedded ones first.
func (l *Loader) Names() []string {
	seen := map[string]bool{}
	var names []string
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for _, n := range Embedded() {
		add(n)
	}
	var extra []string
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ext) && !seen[strings.TrimSuffix(e.Name(), ext)] {
				extra = append(extra, strings.TrimSuffix(e.Name(), ext))
			}
		}
	}
	sort.Strings(extra)
	for _, n := range extra {
		add(n)
	}
	return names
}

// Embedded lists the tables compiled into the binary, sorted.
func Embedded() []string {
	matches, _ := fs.Glob(embedded, "defaults/*"+ext)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), ext))
	}
	sort.Strings(names)
	return names
}

func parseFile(p string) (*annotation.Table, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f, strings.TrimSuffix(filepath.Base(p), ext))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return t, nil
}
