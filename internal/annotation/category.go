package annotation

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
)

// Category is one entry of a category table.
type Category struct {
	Key         string
	Name        string
	Color       color.RGBA
	Description string
	Icon        string
}

// Table is an ordered set of categories addressed by key. Workflows differ only
// in the data they load into a Table.
type Table struct {
	Name       string
	Title      string
	categories []Category
	index      map[string]int
}

// NewTable builds a table, rejecting empty or duplicate keys.
func NewTable(name string, cats ...Category) (*Table, error) {
	t := &Table{Name: name, index: make(map[string]int, len(cats))}
	for _, c := range cats {
		key := strings.TrimSpace(c.Key)
		if key == "" {
			return nil, fmt.Errorf("table %s: category with empty key", name)
		}
		if _, dup := t.index[key]; dup {
			return nil, fmt.Errorf("table %s: duplicate category %q", name, key)
		}
		c.Key = key
		if c.Name == "" {
			c.Name = key
		}
		t.index[key] = len(t.categories)
		t.categories = append(t.categories, c)
	}
	return t, nil
}

// Len returns the number of categories.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.categories)
}

// Categories returns a copy of the categories in table order.
func (t *Table) Categories() []Category {
	if t == nil {
		return nil
	}
	out := make([]Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// At returns the category at position i, clamped to the table.
func (t *Table) At(i int) Category {
	if t.Len() == 0 {
		return Category{}
	}
	if i < 0 {
		i = 0
	}
	if i >= len(t.categories) {
		i = len(t.categories) - 1
	}
	return t.categories[i]
}

// Lookup finds a category by key.
func (t *Table) Lookup(key string) (Category, bool) {
	if t == nil {
		return Category{}, false
	}
	i, ok := t.index[key]
	if !ok {
		return Category{}, false
	}
	return t.categories[i], true
}

// IndexOf returns the position of key or -1.
func (t *Table) IndexOf(key string) int {
	if t == nil {
		return -1
	}
	if i, ok := t.index[key]; ok {
		return i
	}
	return -1
}

// Tally counts drawings per category key.
func Tally(drawings []DrawingObject) map[string]int {
	counts := make(map[string]int)
	for _, d := range drawings {
		counts[d.Category]++
	}
	return counts
}

// Label renders a tally entry the way it is stored with a classification.
func Label(name string, count int) string {
	return fmt.Sprintf("%s (x%d)", name, count)
}

// Labels returns "Name (xN)" strings for every category with a non-zero count.
// Known categories come first in table order; unknown keys follow, sorted, and
// use the key as their name.
func (t *Table) Labels(counts map[string]int) []string {
	var out []string
	seen := make(map[string]bool, len(counts))
	for _, c := range t.Categories() {
		seen[c.Key] = true
		if n := counts[c.Key]; n > 0 {
			out = append(out, Label(c.Name, n))
		}
	}
	var extra []string
	for key, n := range counts {
		if !seen[key] && n > 0 {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		out = append(out, Label(key, counts[key]))
	}
	return out
}
