// SPDX-License-Identifier: Unlicense OR MIT

// Package region implements areas made of a union of integer rectangles,
// used for window input regions and pointer constraint regions.
package region

import (
	"image"

	"golang.org/x/exp/slices"

	"inputroute.org/f32"
)

// Region is a union of rectangles. The zero value is the empty region.
// Rectangles may overlap.
type Region struct {
	rects []image.Rectangle
}

// New returns the union of rects. Empty rectangles are dropped.
func New(rects ...image.Rectangle) Region {
	var r Region
	for _, rect := range rects {
		r = r.Add(rect)
	}
	return r
}

// Add returns the union of r and rect.
func (r Region) Add(rect image.Rectangle) Region {
	rect = rect.Canon()
	if rect.Empty() {
		return r
	}
	rects := make([]image.Rectangle, len(r.rects), len(r.rects)+1)
	copy(rects, r.rects)
	return Region{rects: append(rects, rect)}
}

// Union returns the union of r and o.
func (r Region) Union(o Region) Region {
	for _, rect := range o.rects {
		r = r.Add(rect)
	}
	return r
}

// Empty reports whether r covers no area.
func (r Region) Empty() bool {
	return len(r.rects) == 0
}

// Rects returns a copy of the rectangles making up r.
func (r Region) Rects() []image.Rectangle {
	return slices.Clone(r.rects)
}

// Bounds returns the smallest rectangle containing r.
func (r Region) Bounds() image.Rectangle {
	var b image.Rectangle
	for _, rect := range r.rects {
		b = b.Union(rect)
	}
	return b
}

// Contains reports whether p lies inside r.
func (r Region) Contains(p image.Point) bool {
	for _, rect := range r.rects {
		if p.In(rect) {
			return true
		}
	}
	return false
}

// ContainsPoint reports whether the pixel containing p lies inside r.
func (r Region) ContainsPoint(p f32.Point) bool {
	return r.Contains(p.Floor())
}

// Intersect returns the area covered by both r and o.
func (r Region) Intersect(o Region) Region {
	var out Region
	for _, a := range r.rects {
		for _, b := range o.rects {
			out = out.Add(a.Intersect(b))
		}
	}
	return out
}

// IntersectRect returns the area of r inside rect.
func (r Region) IntersectRect(rect image.Rectangle) Region {
	return r.Intersect(New(rect))
}

// Translate returns r offset by d.
func (r Region) Translate(d image.Point) Region {
	out := Region{rects: make([]image.Rectangle, len(r.rects))}
	for i, rect := range r.rects {
		out.rects[i] = rect.Add(d)
	}
	return out
}
