package render

import (
	"image"
	"image/color"
	"testing"
)

func TestShadowDrawsOffsetFromBox(t *testing.T) {
	opts := ShadowOptions{Radius: 2, Offset: image.Pt(3, 3), Opacity: 1}
	s := NewShadow(image.Pt(10, 10), opts)
	if s == nil {
		t.Fatal("expected shadow")
	}
	if s.Size() != image.Pt(10, 10) {
		t.Fatalf("size %v", s.Size())
	}
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	s.Draw(dst, image.Rect(5, 5, 15, 15))

	if dst.RGBAAt(12, 12).A == 0 {
		t.Errorf("expected shadow under the offset box")
	}
	if dst.RGBAAt(1, 1).A != 0 {
		t.Errorf("shadow leaked above the box: %v", dst.RGBAAt(1, 1))
	}
	// the blur softens the outer edge
	edge := dst.RGBAAt(19, 12).A
	if edge == 0 || edge >= dst.RGBAAt(12, 12).A {
		t.Errorf("expected partial alpha at the edge, got %d", edge)
	}
}

func TestNewShadowNothingToDraw(t *testing.T) {
	if NewShadow(image.Pt(10, 10), ShadowOptions{Opacity: 0}) != nil {
		t.Error("zero opacity should give no shadow")
	}
	if NewShadow(image.Point{}, DefaultShadowOptions()) != nil {
		t.Error("empty box should give no shadow")
	}
	var s *Shadow
	s.Draw(image.NewRGBA(image.Rect(0, 0, 1, 1)), image.Rect(0, 0, 1, 1))
}

func TestBlurGrayKeepsUniformField(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 6, 6))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	out := blurGray(src, 2)
	if out.GrayAt(3, 3) != (color.Gray{Y: 200}) {
		t.Errorf("uniform field changed: %v", out.GrayAt(3, 3))
	}
}
