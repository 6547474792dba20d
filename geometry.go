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

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Quad is a quadrilateral, the image of a rectangle under an affine
// transform. The corners are upper-left, upper-right, lower-left and
// lower-right of the original rectangle.
type Quad struct {
	UL, UR, LL, LR vec.Vec2
}

// QuadFromRect returns the quad with the corners of r.
func QuadFromRect(r rect.Rect) Quad {
	return Quad{
		UL: vec.Vec2{X: r.LLx, Y: r.URy},
		UR: vec.Vec2{X: r.URx, Y: r.URy},
		LL: vec.Vec2{X: r.LLx, Y: r.LLy},
		LR: vec.Vec2{X: r.URx, Y: r.LLy},
	}
}

// Transform returns the quad mapped through M.
func (q Quad) Transform(M matrix.Matrix) Quad {
	return Quad{
		UL: applyVec(M, q.UL),
		UR: applyVec(M, q.UR),
		LL: applyVec(M, q.LL),
		LR: applyVec(M, q.LR),
	}
}

// Bounds returns the bounding rectangle of the quad.
func (q Quad) Bounds() rect.Rect {
	return rect.Rect{
		LLx: min(min(q.UL.X, q.UR.X), min(q.LL.X, q.LR.X)),
		LLy: min(min(q.UL.Y, q.UR.Y), min(q.LL.Y, q.LR.Y)),
		URx: max(max(q.UL.X, q.UR.X), max(q.LL.X, q.LR.X)),
		URy: max(max(q.UL.Y, q.UR.Y), max(q.LL.Y, q.LR.Y)),
	}
}

// TransformRect returns the bounding rectangle of r mapped through M.
func TransformRect(r rect.Rect, M matrix.Matrix) rect.Rect {
	return QuadFromRect(r).Transform(M).Bounds()
}

// UnionRect returns the smallest rectangle containing a and b. An
// empty rectangle acts as the identity.
func UnionRect(a, b rect.Rect) rect.Rect {
	if a.LLx >= a.URx || a.LLy >= a.URy {
		return b
	}
	if b.LLx >= b.URx || b.LLy >= b.URy {
		return a
	}
	return rect.Rect{
		LLx: min(a.LLx, b.LLx),
		LLy: min(a.LLy, b.LLy),
		URx: max(a.URx, b.URx),
		URy: max(a.URy, b.URy),
	}
}

// IntersectRect returns the intersection of a and b. The result is
// empty if the rectangles do not overlap.
func IntersectRect(a, b rect.Rect) rect.Rect {
	r := rect.Rect{
		LLx: max(a.LLx, b.LLx),
		LLy: max(a.LLy, b.LLy),
		URx: min(a.URx, b.URx),
		URy: min(a.URy, b.URy),
	}
	if r.LLx >= r.URx || r.LLy >= r.URy {
		return rect.Rect{}
	}
	return r
}

// RectIsEmpty reports whether r encloses no area.
func RectIsEmpty(r rect.Rect) bool {
	return r.LLx >= r.URx || r.LLy >= r.URy
}

// InvertMatrix returns the inverse of M. Singular matrices (determinant
// close to zero) return the identity and ok=false.
func InvertMatrix(M matrix.Matrix) (inv matrix.Matrix, ok bool) {
	det := M[0]*M[3] - M[1]*M[2]
	if math.Abs(det) < 1e-12 {
		return matrix.Identity, false
	}
	id := 1 / det
	inv = matrix.Matrix{
		M[3] * id,
		-M[1] * id,
		-M[2] * id,
		M[0] * id,
		(M[2]*M[5] - M[3]*M[4]) * id,
		(M[1]*M[4] - M[0]*M[5]) * id,
	}
	return inv, true
}
