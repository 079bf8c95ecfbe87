package render

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#112233", color.RGBA{0x11, 0x22, 0x33, 0xff}},
		{"#11223344", color.RGBA{0x11, 0x22, 0x33, 0x44}},
		{"#abc", color.RGBA{0xaa, 0xbb, 0xcc, 0xff}},
		{"Red", color.RGBA{0xff, 0, 0, 0xff}},
	}
	for _, tc := range tests {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "#12", "#zzzzzz", "notacolour"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) succeeded", bad)
		}
	}
}

func TestHex(t *testing.T) {
	if got := Hex(color.RGBA{1, 2, 3, 255}); got != "#010203" {
		t.Errorf("Hex opaque = %s", got)
	}
	if got := Hex(color.RGBA{1, 2, 3, 4}); got != "#01020304" {
		t.Errorf("Hex translucent = %s", got)
	}
}
