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

	"github.com/pkg/errors"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/fitz"
)

// newScratchLayer allocates a transparent layer matching the base pixmap.
func (d *Device) newScratchLayer() *layer {
	pix := fitz.NewPixmap(d.base.Space, d.base.Width, d.base.Height)
	return &layer{
		pix:       pix,
		alpha:     make([]float32, pix.Width*pix.Height),
		opacity:   1,
		clipDepth: len(d.clips),
	}
}

// BeginGroup starts a transparency group. All painting until the
// matching EndGroup goes to a scratch buffer, which EndGroup composites
// onto the backdrop using the given blend mode and group alpha.
func (d *Device) BeginGroup(bbox rect.Rect, isolated, knockout bool, blend fitz.BlendMode, alpha float64) error {
	l := d.newScratchLayer()
	l.blend = blend
	l.opacity = alpha
	d.stack = append(d.stack, l)
	return nil
}

// EndGroup composites the innermost transparency group onto its backdrop.
func (d *Device) EndGroup() error {
	n := len(d.stack)
	if n == 0 || d.stack[n-1].isTile {
		return errors.New("draw: unbalanced EndGroup")
	}
	l := d.stack[n-1]
	d.stack = d.stack[:n-1]
	if len(d.clips) > l.clipDepth {
		// paint calls inside the group pushed clips that were never
		// popped; discard them to keep the stack consistent
		d.clips = d.clips[:l.clipDepth]
	}

	parent := d.target()
	blend := blendFunc(l.blend)
	nc := l.pix.Channels()
	sv := make([]float64, nc)
	src := make([]float64, nc)

	for y := 0; y < l.pix.Height; y++ {
		for x := 0; x < l.pix.Width; x++ {
			idx := y*l.pix.Width + x
			sa := float64(l.alpha[idx])
			if sa <= 0 {
				continue
			}
			off := y*l.pix.Stride + x*nc
			for ch := 0; ch < nc; ch++ {
				sv[ch] = float64(l.pix.Samples[off+ch]) / 255 / sa
			}

			// backdrop alpha: the base layer is opaque
			ab := 1.0
			if parent.alpha != nil {
				ab = float64(parent.alpha[idx])
			}

			if blend == nil {
				copy(src, sv)
			} else {
				poff := y*parent.pix.Stride + x*nc
				for ch := 0; ch < nc; ch++ {
					db := float64(parent.pix.Samples[poff+ch]) / 255
					if parent.alpha != nil && ab > 0 {
						db /= ab
					}
					// blended color weighted by backdrop alpha
					src[ch] = (1-ab)*sv[ch] + ab*blend(db, sv[ch])
				}
			}

			parent.compositePixel(x, y, src, sa*l.opacity)
		}
	}
	return nil
}

// BeginTile starts recording one instance of a tiling pattern cell.
// EndTile replicates the rendered cell across the area rectangle.
func (d *Device) BeginTile(area, view rect.Rect, xStep, yStep float64, ctm matrix.Matrix) error {
	l := d.newScratchLayer()
	l.isTile = true
	l.tileArea = area
	l.xStep = xStep
	l.yStep = yStep
	l.tileCTM = ctm
	d.stack = append(d.stack, l)
	return nil
}

// EndTile replicates the recorded pattern cell across the tile area.
func (d *Device) EndTile() error {
	n := len(d.stack)
	if n == 0 || !d.stack[n-1].isTile {
		return errors.New("draw: unbalanced EndTile")
	}
	l := d.stack[n-1]
	d.stack = d.stack[:n-1]
	if len(d.clips) > l.clipDepth {
		d.clips = d.clips[:l.clipDepth]
	}

	parent := d.target()
	nc := l.pix.Channels()
	src := make([]float64, nc)

	// step vectors in device space
	ux := l.tileCTM[0] * l.xStep
	uy := l.tileCTM[1] * l.xStep
	vx := l.tileCTM[2] * l.yStep
	vy := l.tileCTM[3] * l.yStep

	i0, i1, j0, j1 := tileRange(l.tileArea, ux, uy, vx, vy,
		float64(d.base.Width), float64(d.base.Height))

	for j := j0; j <= j1; j++ {
		for i := i0; i <= i1; i++ {
			dx := int(math.Round(float64(i)*ux + float64(j)*vx))
			dy := int(math.Round(float64(i)*uy + float64(j)*vy))
			d.stampTile(parent, l, dx, dy, src)
		}
	}
	return nil
}

// tileRange determines the lattice index range needed so that shifted
// copies of the cell cover the area rectangle.
func tileRange(area rect.Rect, ux, uy, vx, vy, w, h float64) (i0, i1, j0, j1 int) {
	det := ux*vy - uy*vx
	if math.Abs(det) < 1e-9 {
		return 0, 0, 0, 0
	}
	// clamp the area to the pixmap before deriving the lattice range
	xlo := max(area.LLx, 0)
	ylo := max(area.LLy, 0)
	xhi := min(area.URx, w)
	yhi := min(area.URy, h)
	if xlo >= xhi || ylo >= yhi {
		return 0, -1, 0, -1
	}

	first := true
	for _, pt := range [][2]float64{{xlo, ylo}, {xhi, ylo}, {xlo, yhi}, {xhi, yhi}} {
		// solve pt = i*u + j*v for (i,j)
		iF := (pt[0]*vy - pt[1]*vx) / det
		jF := (pt[1]*ux - pt[0]*uy) / det
		iLo, iHi := int(math.Floor(iF)), int(math.Ceil(iF))
		jLo, jHi := int(math.Floor(jF)), int(math.Ceil(jF))
		if first {
			i0, i1, j0, j1 = iLo, iHi, jLo, jHi
			first = false
		} else {
			i0 = min(i0, iLo)
			i1 = max(i1, iHi)
			j0 = min(j0, jLo)
			j1 = max(j1, jHi)
		}
	}
	// pad by one cell so partially overlapping copies are included
	return i0 - 1, i1 + 1, j0 - 1, j1 + 1
}

// stampTile composites one shifted copy of the tile cell onto the parent
// layer, clipped to the tile area.
func (d *Device) stampTile(parent *layer, l *layer, dx, dy int, src []float64) {
	nc := l.pix.Channels()

	yLo := max(int(math.Floor(l.tileArea.LLy)), 0)
	yHi := min(int(math.Ceil(l.tileArea.URy)), d.base.Height)
	xLo := max(int(math.Floor(l.tileArea.LLx)), 0)
	xHi := min(int(math.Ceil(l.tileArea.URx)), d.base.Width)

	for y := yLo; y < yHi; y++ {
		sy := y - dy
		if sy < 0 || sy >= l.pix.Height {
			continue
		}
		for x := xLo; x < xHi; x++ {
			sx := x - dx
			if sx < 0 || sx >= l.pix.Width {
				continue
			}
			sa := float64(l.alpha[sy*l.pix.Width+sx])
			if sa <= 0 {
				continue
			}
			off := sy*l.pix.Stride + sx*nc
			for ch := 0; ch < nc; ch++ {
				src[ch] = float64(l.pix.Samples[off+ch]) / 255 / sa
			}
			parent.compositePixel(x, y, src, sa)
		}
	}
}

// blendFunc returns the separable blend function for the given mode, or
// nil for normal compositing.
func blendFunc(mode fitz.BlendMode) func(b, s float64) float64 {
	switch mode {
	case fitz.BlendMultiply:
		return func(b, s float64) float64 { return b * s }
	case fitz.BlendScreen:
		return func(b, s float64) float64 { return b + s - b*s }
	case fitz.BlendOverlay:
		return func(b, s float64) float64 { return hardLight(s, b) }
	case fitz.BlendDarken:
		return math.Min
	case fitz.BlendLighten:
		return math.Max
	case fitz.BlendColorDodge:
		return func(b, s float64) float64 {
			if b <= 0 {
				return 0
			}
			if s >= 1 {
				return 1
			}
			return math.Min(1, b/(1-s))
		}
	case fitz.BlendColorBurn:
		return func(b, s float64) float64 {
			if b >= 1 {
				return 1
			}
			if s <= 0 {
				return 0
			}
			return 1 - math.Min(1, (1-b)/s)
		}
	case fitz.BlendHardLight:
		return hardLight
	case fitz.BlendSoftLight:
		return softLight
	case fitz.BlendDifference:
		return func(b, s float64) float64 { return math.Abs(b - s) }
	case fitz.BlendExclusion:
		return func(b, s float64) float64 { return b + s - 2*b*s }
	default:
		return nil
	}
}

func hardLight(b, s float64) float64 {
	if s <= 0.5 {
		return b * 2 * s
	}
	return b + (2*s-1) - b*(2*s-1) // screen(b, 2s-1)
}

func softLight(b, s float64) float64 {
	if s <= 0.5 {
		return b - (1-2*s)*b*(1-b)
	}
	var dd float64
	if b <= 0.25 {
		dd = ((16*b-12)*b + 4) * b
	} else {
		dd = math.Sqrt(b)
	}
	return b + (2*s-1)*(dd-b)
}
