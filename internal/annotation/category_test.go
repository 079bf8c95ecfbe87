package annotation

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/annotator/internal/geom"
)

func roverTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable("rover",
		Category{Key: "sand", Name: "Sand", Color: color.RGBA{0xF4, 0xA4, 0x60, 0xFF}},
		Category{Key: "soil", Name: "Soil", Color: color.RGBA{0x8B, 0x45, 0x13, 0xFF}},
		Category{Key: "bedrock", Name: "Bedrock", Color: color.RGBA{0x70, 0x80, 0x90, 0xFF}},
	)
	require.NoError(t, err)
	return tbl
}

func TestTallyAndLabels(t *testing.T) {
	tbl := roverTable(t)
	drawings := []DrawingObject{
		Begin(KindFreehand, "sand", color.RGBA{}, 1, geom.Pt(0, 0)),
		Begin(KindRectangle, "soil", color.RGBA{}, 1, geom.Pt(0, 0)),
		Begin(KindFreehand, "sand", color.RGBA{}, 1, geom.Pt(0, 0)),
	}
	counts := Tally(drawings)
	assert.Equal(t, map[string]int{"sand": 2, "soil": 1}, counts)
	assert.Equal(t, []string{"Sand (x2)", "Soil (x1)"}, tbl.Labels(counts))
}

func TestLabelsUnknownKeysFollowSorted(t *testing.T) {
	tbl := roverTable(t)
	counts := map[string]int{"zeta": 1, "bedrock": 3, "alpha": 2, "sand": 0}
	assert.Equal(t, []string{"Bedrock (x3)", "alpha (x2)", "zeta (x1)"}, tbl.Labels(counts))
}

func TestTallyEmpty(t *testing.T) {
	assert.Empty(t, Tally(nil))
	assert.Nil(t, roverTable(t).Labels(Tally(nil)))
}

func TestNewTableRejectsDuplicates(t *testing.T) {
	_, err := NewTable("bad", Category{Key: "a"}, Category{Key: "a"})
	assert.Error(t, err)
	_, err = NewTable("bad", Category{Key: " "})
	assert.Error(t, err)
}

func TestTableLookup(t *testing.T) {
	tbl := roverTable(t)
	c, ok := tbl.Lookup("soil")
	require.True(t, ok)
	assert.Equal(t, "Soil", c.Name)
	assert.Equal(t, 1, tbl.IndexOf("soil"))
	assert.Equal(t, -1, tbl.IndexOf("rock"))
	assert.Equal(t, "bedrock", tbl.At(99).Key)
	assert.Equal(t, "sand", tbl.At(-1).Key)
}
