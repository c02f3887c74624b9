// SPDX-License-Identifier: Unlicense OR MIT

package region

import (
	"image"
	"testing"

	"inputroute.org/f32"
)

func TestContains(t *testing.T) {
	r := New(image.Rect(0, 0, 10, 10), image.Rect(20, 0, 30, 10), image.Rect(5, 5, 5, 50))
	tests := []struct {
		p    image.Point
		want bool
	}{
		{image.Pt(0, 0), true},
		{image.Pt(9, 9), true},
		{image.Pt(10, 5), false},
		{image.Pt(25, 5), true},
		{image.Pt(5, 20), false},
	}
	for _, tc := range tests {
		if got := r.Contains(tc.p); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
	if !r.ContainsPoint(f32.Pt(9.7, 0.2)) {
		t.Error("ContainsPoint should truncate towards the origin")
	}
}

func TestIntersectTranslate(t *testing.T) {
	a := New(image.Rect(0, 0, 100, 100))
	b := New(image.Rect(50, 50, 150, 150), image.Rect(200, 200, 300, 300))
	got := a.Intersect(b)
	if got.Bounds() != image.Rect(50, 50, 100, 100) {
		t.Errorf("Intersect bounds = %v", got.Bounds())
	}
	if len(got.Rects()) != 1 {
		t.Errorf("empty intersections must be dropped, got %v", got.Rects())
	}
	moved := got.Translate(image.Pt(10, -10))
	if moved.Bounds() != image.Rect(60, 40, 110, 90) {
		t.Errorf("Translate bounds = %v", moved.Bounds())
	}
	if !a.Intersect(New(image.Rect(100, 100, 120, 120))).Empty() {
		t.Error("touching rectangles must not intersect")
	}
}

func TestZeroValue(t *testing.T) {
	var r Region
	if !r.Empty() || r.Contains(image.Pt(0, 0)) || r.Bounds() != (image.Rectangle{}) {
		t.Error("zero Region must be empty")
	}
	if !r.Add(image.Rect(5, 5, 1, 1)).Contains(image.Pt(3, 3)) {
		t.Error("Add must canonicalize rectangles")
	}
}
