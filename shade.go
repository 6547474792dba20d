// seehuhn.de/go/fitz - a PDF page rendering library
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package fitz

import (
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/fitz/color"
)

// ShadingKind identifies the geometry of a shading.
type ShadingKind int

// The supported shading types (section 8.7.4.5 of PDF 32000-1:2008).
const (
	ShadingAxial  ShadingKind = 2
	ShadingRadial ShadingKind = 3
)

// Shading describes a smooth color transition painted either by the
// "sh" operator or through a shading pattern.
type Shading struct {
	Kind  ShadingKind
	Space color.Space

	// Coords holds the shading geometry in shading space: x0 y0 x1 y1
	// for axial, x0 y0 r0 x1 y1 r1 for radial.
	Coords [6]float64

	// Func maps the parameter t to color components in Space. For
	// multiple 1-out functions the outputs are concatenated in order.
	Func []color.Evaluator

	// Domain is the parameter range, default [0, 1].
	Domain [2]float64

	// Extend controls extension beyond the start and end of the axis.
	Extend [2]bool

	// Background, if non-nil, colors points outside the shading
	// geometry. Points without background color are left unpainted.
	Background []float64

	// BBox is an optional clip in shading space. Nil means unbounded.
	BBox *rect.Rect
}

// ColorAt evaluates the shading functions at parameter t, which is
// clamped to the domain, and returns the components in Space.
func (sh *Shading) ColorAt(t float64) []float64 {
	if t < sh.Domain[0] {
		t = sh.Domain[0]
	}
	if t > sh.Domain[1] {
		t = sh.Domain[1]
	}
	comps := make([]float64, 0, sh.Space.Channels())
	for _, fn := range sh.Func {
		comps = append(comps, fn.Apply(t)...)
	}
	if len(comps) > sh.Space.Channels() {
		comps = comps[:sh.Space.Channels()]
	}
	for len(comps) < sh.Space.Channels() {
		comps = append(comps, 0)
	}
	return comps
}
