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
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
)

func TestTransformRectRotation(t *testing.T) {
	r := rect.Rect{LLx: 0, LLy: 0, URx: 2, URy: 1}

	// 90 degree rotation
	M := matrix.Matrix{0, 1, -1, 0, 0, 0}
	got := TransformRect(r, M)
	want := rect.Rect{LLx: -1, LLy: 0, URx: 0, URy: 2}

	const eps = 1e-12
	if math.Abs(got.LLx-want.LLx) > eps || math.Abs(got.LLy-want.LLy) > eps ||
		math.Abs(got.URx-want.URx) > eps || math.Abs(got.URy-want.URy) > eps {
		t.Errorf("TransformRect = %v, want %v", got, want)
	}
}

func TestQuadRoundTrip(t *testing.T) {
	r := rect.Rect{LLx: 1, LLy: 2, URx: 5, URy: 7}
	q := QuadFromRect(r)
	if got := q.Bounds(); got != r {
		t.Errorf("Bounds(QuadFromRect(r)) = %v, want %v", got, r)
	}

	// a rotation keeps the corner structure even though the bounding
	// box grows
	M := matrix.RotateDeg(45)
	got := q.Transform(M).Bounds()
	want := TransformRect(r, M)
	const eps = 1e-9
	if math.Abs(got.LLx-want.LLx) > eps || math.Abs(got.URy-want.URy) > eps {
		t.Errorf("rotated quad bounds = %v, want %v", got, want)
	}
}

func TestUnionIntersectRect(t *testing.T) {
	a := rect.Rect{LLx: 0, LLy: 0, URx: 2, URy: 2}
	b := rect.Rect{LLx: 1, LLy: 1, URx: 3, URy: 3}

	if got := UnionRect(a, b); got != (rect.Rect{LLx: 0, LLy: 0, URx: 3, URy: 3}) {
		t.Errorf("UnionRect = %v", got)
	}
	if got := IntersectRect(a, b); got != (rect.Rect{LLx: 1, LLy: 1, URx: 2, URy: 2}) {
		t.Errorf("IntersectRect = %v", got)
	}

	c := rect.Rect{LLx: 5, LLy: 5, URx: 6, URy: 6}
	if got := IntersectRect(a, c); !RectIsEmpty(got) {
		t.Errorf("intersection of disjoint rects not empty: %v", got)
	}

	// union with an empty rect returns the other operand
	var empty rect.Rect
	if got := UnionRect(empty, a); got != a {
		t.Errorf("UnionRect(empty, a) = %v", got)
	}
}

func TestInvertMatrix(t *testing.T) {
	cases := []matrix.Matrix{
		matrix.Identity,
		matrix.Scale(2, 3),
		matrix.Translate(5, -7),
		{1, 2, 3, 4, 5, 6},
	}
	for _, M := range cases {
		inv, ok := InvertMatrix(M)
		if !ok {
			t.Errorf("matrix %v reported as singular", M)
			continue
		}
		got := M.Mul(inv)
		for i := range got {
			if math.Abs(got[i]-matrix.Identity[i]) > 1e-9 {
				t.Errorf("M * M^-1 = %v for M = %v", got, M)
				break
			}
		}
	}

	if _, ok := InvertMatrix(matrix.Matrix{0, 0, 0, 0, 1, 2}); ok {
		t.Error("singular matrix reported as invertible")
	}
}
