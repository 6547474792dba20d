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
)

// BBoxDevice accumulates the device-space bounding box of everything
// painted into it, without rasterizing. Use it to answer "what area
// would this content mark?".
type BBoxDevice struct {
	BaseDevice

	bbox  rect.Rect
	clips []rect.Rect
}

// NewBBoxDevice returns a device with an empty accumulator.
func NewBBoxDevice() *BBoxDevice {
	return &BBoxDevice{}
}

// BBox returns the union of all marks seen so far. The rectangle is
// empty if nothing was painted.
func (d *BBoxDevice) BBox() rect.Rect {
	return d.bbox
}

func (d *BBoxDevice) add(r rect.Rect) {
	for _, clip := range d.clips {
		r = IntersectRect(r, clip)
	}
	d.bbox = UnionRect(d.bbox, r)
}

func (d *BBoxDevice) FillPath(p *Path, evenOdd bool, ctm matrix.Matrix, col Color, alpha float64) error {
	d.add(p.Bounds(ctm))
	return nil
}

func (d *BBoxDevice) StrokePath(p *Path, ss *StrokeState, ctm matrix.Matrix, col Color, alpha float64) error {
	d.add(strokeBounds(p, ss, ctm))
	return nil
}

func (d *BBoxDevice) ClipPath(p *Path, evenOdd bool, ctm matrix.Matrix) error {
	d.clips = append(d.clips, p.Bounds(ctm))
	return nil
}

func (d *BBoxDevice) ClipStrokePath(p *Path, ss *StrokeState, ctm matrix.Matrix) error {
	d.clips = append(d.clips, strokeBounds(p, ss, ctm))
	return nil
}

func (d *BBoxDevice) PopClip() error {
	if len(d.clips) > 0 {
		d.clips = d.clips[:len(d.clips)-1]
	}
	return nil
}

func (d *BBoxDevice) FillText(t *TextSpan, ctm matrix.Matrix, col Color, alpha float64) error {
	d.add(textBounds(t, ctm))
	return nil
}

func (d *BBoxDevice) StrokeText(t *TextSpan, ss *StrokeState, ctm matrix.Matrix, col Color, alpha float64) error {
	r := textBounds(t, ctm)
	e := ss.LineWidth / 2 * matrixExpansion(ctm)
	r.LLx -= e
	r.LLy -= e
	r.URx += e
	r.URy += e
	d.add(r)
	return nil
}

func (d *BBoxDevice) FillImage(img *Image, ctm matrix.Matrix, alpha float64) error {
	d.add(unitSquareBounds(ctm))
	return nil
}

func (d *BBoxDevice) FillShading(sh *Shading, ctm matrix.Matrix, alpha float64) error {
	if sh.BBox != nil {
		d.add(TransformRect(*sh.BBox, ctm))
	} else {
		// An unbounded shading marks the whole clip region.
		if len(d.clips) > 0 {
			d.add(d.clips[len(d.clips)-1])
		} else {
			d.add(rect.Rect{
				LLx: math.Inf(-1), LLy: math.Inf(-1),
				URx: math.Inf(1), URy: math.Inf(1),
			})
		}
	}
	return nil
}

// strokeBounds grows the path bounds by the stroke half-width scaled
// to device space, plus the worst-case miter extension.
func strokeBounds(p *Path, ss *StrokeState, ctm matrix.Matrix) rect.Rect {
	r := p.Bounds(ctm)
	e := ss.LineWidth / 2 * matrixExpansion(ctm)
	if ss.LineJoin == LineJoinMiter && ss.MiterLimit > 1 {
		e *= ss.MiterLimit
	}
	r.LLx -= e
	r.LLy -= e
	r.URx += e
	r.URy += e
	return r
}

func textBounds(t *TextSpan, ctm matrix.Matrix) rect.Rect {
	var r rect.Rect
	em := rect.Rect{LLx: 0, LLy: -0.3, URx: 1, URy: 1}
	for _, g := range t.Glyphs {
		r = UnionRect(r, TransformRect(em, g.Matrix.Mul(ctm)))
	}
	return r
}

func unitSquareBounds(ctm matrix.Matrix) rect.Rect {
	return TransformRect(rect.Rect{URx: 1, URy: 1}, ctm)
}

// matrixExpansion returns the scale factor by which M grows distances,
// the square root of the absolute determinant.
func matrixExpansion(M matrix.Matrix) float64 {
	det := M[0]*M[3] - M[1]*M[2]
	return math.Sqrt(math.Abs(det))
}
