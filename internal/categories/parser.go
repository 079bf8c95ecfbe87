package categories

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/annotator/internal/annotation"
	"github.com/example/annotator/internal/render"
)

type fileTable struct {
	Name       string         `yaml:"name"`
	Title      string         `yaml:"title"`
	Categories []fileCategory `yaml:"categories"`
}

type fileCategory struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Color       string `yaml:"color"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
}

// Parse reads a YAML category table. fallbackName is used when the document
// has no name of its own.
func Parse(r io.Reader, fallbackName string) (*annotation.Table, error) {
	var doc fileTable
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty category table")
		}
		return nil, fmt.Errorf("decode category table: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("category table has no categories")
	}
	name := doc.Name
	if name == "" {
		name = fallbackName
	}
	cats := make([]annotation.Category, 0, len(doc.Categories))
	for i, c := range doc.Categories {
		col, err := render.ParseColor(c.Color)
		if err != nil {
			return nil, fmt.Errorf("category %d (%s): %w", i, c.Key, err)
		}
		cats = append(cats, annotation.Category{
			Key:         c.Key,
			Name:        c.Name,
			Color:       col,
			Description: strings.TrimSpace(c.Description),
			Icon:        c.Icon,
		})
	}
	t, err := annotation.NewTable(name, cats...)
	if err != nil {
		return nil, err
	}
	t.Title = doc.Title
	if t.Title == "" {
		t.Title = name
	}
	return t, nil
}
