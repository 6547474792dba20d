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

package draw

import (
	"math"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/fitz"
)

// FillShading paints an axial or radial shading. ctm maps shading space
// to device space; pixels where the shading is undefined (and no
// Background is given) are left untouched.
func (d *Device) FillShading(sh *fitz.Shading, ctm matrix.Matrix, alpha float64) error {
	if sh == nil || sh.Space == nil {
		return nil
	}

	inv, ok := fitz.InvertMatrix(ctm)
	if !ok {
		return nil
	}

	// determine the device region to cover
	x0, y0, x1, y1 := 0, 0, d.base.Width, d.base.Height
	if sh.BBox != nil {
		bb := fitz.TransformRect(*sh.BBox, ctm)
		x0 = max(x0, int(math.Floor(bb.LLx)))
		y0 = max(y0, int(math.Floor(bb.LLy)))
		x1 = min(x1, int(math.Ceil(bb.URx)))
		y1 = min(y1, int(math.Ceil(bb.URy)))
	}
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	l := d.target()
	nc := sh.Space.Channels()
	shComps := make([]float64, nc)
	comps := make([]float64, d.base.Channels())

	var background []float64
	if sh.Background != nil {
		background = make([]float64, len(sh.Background))
		copy(background, sh.Background)
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			a := alpha * float64(d.clipAt(x, y))
			if a <= 0 {
				continue
			}

			// pixel center in shading space
			sx, sy := inv.Apply(float64(x)+0.5, float64(y)+0.5)

			s, inDomain := shadingParam(sh, sx, sy)
			var cvals []float64
			if inDomain {
				t := sh.Domain[0] + s*(sh.Domain[1]-sh.Domain[0])
				copy(shComps, sh.ColorAt(t))
				cvals = shComps
			} else if background != nil {
				cvals = background
			} else {
				continue
			}

			r, g, b := sh.Space.ToRGB(cvals)
			rgbToComponents(r, g, b, comps)
			l.compositePixel(x, y, comps, a)
		}
	}
	return nil
}

// shadingParam computes the blend coordinate s in [0,1] at a point in
// shading space. Returns ok=false where the shading is undefined.
func shadingParam(sh *fitz.Shading, x, y float64) (s float64, ok bool) {
	switch sh.Kind {
	case fitz.ShadingAxial:
		return axialParam(sh, x, y)
	case fitz.ShadingRadial:
		return radialParam(sh, x, y)
	default:
		return 0, false
	}
}

// axialParam projects the point onto the shading axis.
func axialParam(sh *fitz.Shading, x, y float64) (float64, bool) {
	x0, y0 := sh.Coords[0], sh.Coords[1]
	x1, y1 := sh.Coords[2], sh.Coords[3]
	dx := x1 - x0
	dy := y1 - y0
	den := dx*dx + dy*dy
	if den <= 0 {
		return 0, false
	}
	s := ((x-x0)*dx + (y-y0)*dy) / den
	return clampExtend(s, sh.Extend)
}

// radialParam solves for the circle through the point in a radial blend
// between circle (x0,y0,r0) and (x1,y1,r1). The largest valid solution
// is used, matching the PDF shading model.
func radialParam(sh *fitz.Shading, x, y float64) (float64, bool) {
	x0, y0, r0 := sh.Coords[0], sh.Coords[1], sh.Coords[2]
	x1, y1, r1 := sh.Coords[3], sh.Coords[4], sh.Coords[5]

	cdx := x1 - x0
	cdy := y1 - y0
	dr := r1 - r0
	pdx := x - x0
	pdy := y - y0

	// Solve |p - c(s)| = r(s) where c(s) and r(s) interpolate linearly:
	//   (pdx - s*cdx)² + (pdy - s*cdy)² = (r0 + s*dr)²
	a := cdx*cdx + cdy*cdy - dr*dr
	b := -2 * (pdx*cdx + pdy*cdy + r0*dr)
	c := pdx*pdx + pdy*pdy - r0*r0

	var s float64
	if math.Abs(a) < 1e-9 {
		if math.Abs(b) < 1e-9 {
			return 0, false
		}
		s = -c / b
	} else {
		disc := b*b - 4*a*c
		if disc < 0 {
			return 0, false
		}
		sq := math.Sqrt(disc)
		s1 := (-b + sq) / (2 * a)
		s2 := (-b - sq) / (2 * a)
		// prefer the larger solution with a non-negative radius
		s = math.Max(s1, s2)
		if r0+s*dr < 0 {
			s = math.Min(s1, s2)
			if r0+s*dr < 0 {
				return 0, false
			}
		}
	}

	return clampExtend(s, sh.Extend)
}

// clampExtend maps the raw blend coordinate s in [0,1] to the shading
// parameter, honoring the Extend flags outside that range.
func clampExtend(s float64, extend [2]bool) (float64, bool) {
	switch {
	case s < 0:
		if !extend[0] {
			return 0, false
		}
		s = 0
	case s > 1:
		if !extend[1] {
			return 0, false
		}
		s = 1
	}
	return s, true
}
