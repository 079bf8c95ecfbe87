package categories

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedTablesLoad(t *testing.T) {
	l := &Loader{}
	names := Embedded()
	require.Contains(t, names, DefaultTable)
	for _, name := range names {
		tbl, err := l.Load(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, tbl.Name)
		assert.NotZero(t, tbl.Len(), name)
		for _, c := range tbl.Categories() {
			assert.Equal(t, uint8(255), c.Color.A, "%s/%s", name, c.Key)
		}
	}
}

func TestLoadDefaultWhenEmpty(t *testing.T) {
	tbl, err := (&Loader{}).Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTable, tbl.Name)
	c, ok := tbl.Lookup("sand")
	require.True(t, ok)
	assert.Equal(t, "Sand", c.Name)
}

func TestLoadOrder(t *testing.T) {
	dir := t.TempDir()
	userDir := filepath.Join(dir, "user")
	sysDir := filepath.Join(dir, "sys")
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	require.NoError(t, os.MkdirAll(sysDir, 0o755))

	write := func(p, key string) {
		doc := "categories:\n  - key: " + key + "\n    color: \"#010203\"\n"
		require.NoError(t, os.WriteFile(p, []byte(doc), 0o644))
	}
	write(filepath.Join(userDir, "mine.yaml"), "user")
	write(filepath.Join(sysDir, "mine.yaml"), "system")
	write(filepath.Join(sysDir, "shared.yaml"), "system")
	// an embedded name in the user dir does not shadow the compiled-in table
	write(filepath.Join(userDir, "rover.yaml"), "user")

	l := &Loader{ConfigDir: userDir, SystemDir: sysDir}

	tbl, err := l.Load("mine")
	require.NoError(t, err)
	_, ok := tbl.Lookup("user")
	assert.True(t, ok)
	assert.Equal(t, "mine", tbl.Name)

	tbl, err = l.Load("shared")
	require.NoError(t, err)
	_, ok = tbl.Lookup("system")
	assert.True(t, ok)

	tbl, err = l.Load("rover")
	require.NoError(t, err)
	_, ok = tbl.Lookup("sand")
	assert.True(t, ok)

	direct := filepath.Join(dir, "direct.yaml")
	write(direct, "direct")
	tbl, err = l.Load(direct)
	require.NoError(t, err)
	_, ok = tbl.Lookup("direct")
	assert.True(t, ok)

	_, err = l.Load("missing")
	assert.ErrorContains(t, err, "not found")

	names := l.Names()
	assert.Contains(t, names, "mine")
	assert.Contains(t, names, "shared")
	assert.Equal(t, len(Embedded())+2, len(names))
}

func TestParse(t *testing.T) {
	doc := `
name: demo
title: Demo table
categories:
  - key: a
    name: Alpha
    color: "#F00"
    description: first
  - key: b
    color: cornflowerblue
`
	tbl, err := Parse(strings.NewReader(doc), "fallback")
	require.NoError(t, err)
	assert.Equal(t, "demo", tbl.Name)
	assert.Equal(t, "Demo table", tbl.Title)
	assert.Equal(t, 0, tbl.IndexOf("a"))
	a, _ := tbl.Lookup("a")
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, a.Color)
	b, _ := tbl.Lookup("b")
	assert.Equal(t, "b", b.Name)
	assert.Equal(t, color.RGBA{100, 149, 237, 255}, b.Color)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"empty":     "",
		"none":      "name: x\n",
		"color":     "categories:\n  - key: a\n    color: nope\n",
		"duplicate": "categories:\n  - key: a\n    color: red\n  - key: a\n    color: red\n",
		"unknown":   "categories:\n  - key: a\n    colour: red\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc), "x")
			assert.Error(t, err)
		})
	}
}
