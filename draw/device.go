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

// Package draw renders device calls into a pixmap.
package draw

import (
	"github.com/pkg/errors"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/fitz"
	"seehuhn.de/go/fitz/color"
	"seehuhn.de/go/fitz/raster"
)

// layer is a paint target. The base layer writes directly into the
// destination pixmap and is treated as opaque. Group and tile layers
// render into scratch pixmaps with a separate alpha plane; their pixel
// samples are premultiplied by the alpha plane.
type layer struct {
	pix   *fitz.Pixmap
	alpha []float32 // nil for the opaque base layer

	// group parameters, used when the layer is composited in EndGroup
	blend   fitz.BlendMode
	opacity float64

	// tile parameters, used in EndTile
	isTile   bool
	tileArea rect.Rect
	xStep    float64
	yStep    float64
	tileCTM  matrix.Matrix

	// clip stack depth when the layer was pushed
	clipDepth int
}

// Device renders incoming paint calls into a pixmap using anti-aliased
// scanline rasterization. Coordinates passed to the device are in
// device (pixel) space, with the origin at the top-left corner of the
// pixmap and y increasing downwards.
//
// A Device is not safe for concurrent use.
type Device struct {
	fitz.BaseDevice

	base  *fitz.Pixmap
	ras   *raster.Rasterizer
	clips [][]float32 // cumulative coverage masks, one per active clip
	stack []*layer    // group/tile layers; paints go to the innermost
}

var _ fitz.Device = (*Device)(nil)

// New returns a Device that renders into pix.
func New(pix *fitz.Pixmap) *Device {
	clip := rect.Rect{
		URx: float64(pix.Width),
		URy: float64(pix.Height),
	}
	return &Device{
		base: pix,
		ras:  raster.NewRasterizer(clip),
	}
}

// target returns the layer paints currently go to.
func (d *Device) target() *layer {
	if n := len(d.stack); n > 0 {
		return d.stack[n-1]
	}
	return &layer{pix: d.base}
}

// clipAt returns the current clip coverage for a pixel.
func (d *Device) clipAt(x, y int) float32 {
	if n := len(d.clips); n > 0 {
		return d.clips[n-1][y*d.base.Width+x]
	}
	return 1
}

// convertColor converts col to the component values of the destination
// color space. A nil or empty color yields black.
func convertColor(col fitz.Color, dst color.Space) []float64 {
	if col.Space == dst && col.Space != nil {
		return col.Components
	}
	var r, g, b float64
	if col.Space != nil {
		r, g, b = col.Space.ToRGB(col.Components)
	}
	switch dst.Channels() {
	case 1:
		// ITU-R BT.601 luma
		return []float64{0.299*r + 0.587*g + 0.114*b}
	case 4:
		k := 1 - max(r, max(g, b))
		if k >= 1 {
			return []float64{0, 0, 0, 1}
		}
		return []float64{
			(1 - r - k) / (1 - k),
			(1 - g - k) / (1 - k),
			(1 - b - k) / (1 - k),
			k,
		}
	default:
		return []float64{r, g, b}
	}
}

// compositePixel blends a source pixel into the target layer using
// source-over compositing. src holds destination-space components in
// [0,1], a is the effective source alpha.
func (l *layer) compositePixel(x, y int, src []float64, a float64) {
	n := l.pix.Channels()
	off := y*l.pix.Stride + x*n
	for ch := 0; ch < n; ch++ {
		d := float64(l.pix.Samples[off+ch]) / 255
		v := src[ch]*a + d*(1-a)
		l.pix.Samples[off+ch] = quantize(v)
	}
	if l.alpha != nil {
		idx := y*l.pix.Width + x
		la := float64(l.alpha[idx])
		l.alpha[idx] = float32(a + la*(1-a))
	}
}

func quantize(v float64) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return byte(v*255 + 0.5)
	}
}

// paintSpan composites one row of coverage into the current layer.
func (d *Device) paintSpan(y, xMin int, coverage []float32, src []float64, alpha float64) {
	l := d.target()
	for i, cov := range coverage {
		x := xMin + i
		a := float64(cov) * alpha * float64(d.clipAt(x, y))
		if a <= 0 {
			continue
		}
		l.compositePixel(x, y, src, a)
	}
}

// FillPath fills the path with the given color.
func (d *Device) FillPath(p *fitz.Path, evenOdd bool, ctm matrix.Matrix, col fitz.Color, alpha float64) error {
	src := convertColor(col, d.base.Space)
	d.ras.CTM = ctm
	emit := func(y, xMin int, coverage []float32) {
		d.paintSpan(y, xMin, coverage, src, alpha)
	}
	if evenOdd {
		d.ras.FillEvenOdd(p, emit)
	} else {
		d.ras.FillNonZero(p, emit)
	}
	return nil
}

// StrokePath strokes the path with the given color.
func (d *Device) StrokePath(p *fitz.Path, ss *fitz.StrokeState, ctm matrix.Matrix, col fitz.Color, alpha float64) error {
	src := convertColor(col, d.base.Space)
	d.ras.CTM = ctm
	d.ras.SetStroke(ss)
	d.ras.Stroke(p, func(y, xMin int, coverage []float32) {
		d.paintSpan(y, xMin, coverage, src, alpha)
	})
	return nil
}

// pushClipCoverage intersects the current clip with the given coverage
// collector and pushes the result.
func (d *Device) pushClipCoverage(render func(emit func(y, xMin int, coverage []float32))) {
	w, h := d.base.Width, d.base.Height
	mask := make([]float32, w*h)
	render(func(y, xMin int, coverage []float32) {
		row := y * w
		for i, c := range coverage {
			mask[row+xMin+i] += c
		}
	})
	// intersect with the enclosing clip
	if n := len(d.clips); n > 0 {
		outer := d.clips[n-1]
		for i := range mask {
			v := mask[i]
			if v > 1 {
				v = 1
			}
			mask[i] = v * outer[i]
		}
	} else {
		for i, v := range mask {
			if v > 1 {
				mask[i] = 1
			} else {
				mask[i] = v
			}
		}
	}
	d.clips = append(d.clips, mask)
}

// ClipPath intersects the clip region with the filled path.
func (d *Device) ClipPath(p *fitz.Path, evenOdd bool, ctm matrix.Matrix) error {
	d.ras.CTM = ctm
	d.pushClipCoverage(func(emit func(y, xMin int, coverage []float32)) {
		if evenOdd {
			d.ras.FillEvenOdd(p, emit)
		} else {
			d.ras.FillNonZero(p, emit)
		}
	})
	return nil
}

// ClipStrokePath intersects the clip region with the stroked path outline.
func (d *Device) ClipStrokePath(p *fitz.Path, ss *fitz.StrokeState, ctm matrix.Matrix) error {
	d.ras.CTM = ctm
	d.ras.SetStroke(ss)
	d.pushClipCoverage(func(emit func(y, xMin int, coverage []float32)) {
		d.ras.Stroke(p, emit)
	})
	return nil
}

// PopClip removes the innermost clip region.
func (d *Device) PopClip() error {
	if len(d.clips) == 0 {
		return errors.New("draw: unbalanced PopClip")
	}
	d.clips = d.clips[:len(d.clips)-1]
	return nil
}

// FillText fills glyph outlines with the given color.
func (d *Device) FillText(t *fitz.TextSpan, ctm matrix.Matrix, col fitz.Color, alpha float64) error {
	if t == nil || t.Font == nil {
		return nil
	}
	src := convertColor(col, d.base.Space)
	for _, g := range t.Glyphs {
		p := t.Font.GlyphPath(g.GID)
		if p == nil || p.IsEmpty() {
			continue
		}
		d.ras.CTM = g.Matrix.Mul(ctm)
		d.ras.FillNonZero(p, func(y, xMin int, coverage []float32) {
			d.paintSpan(y, xMin, coverage, src, alpha)
		})
	}
	return nil
}

// StrokeText strokes glyph outlines with the given color.
func (d *Device) StrokeText(t *fitz.TextSpan, ss *fitz.StrokeState, ctm matrix.Matrix, col fitz.Color, alpha float64) error {
	if t == nil || t.Font == nil {
		return nil
	}
	src := convertColor(col, d.base.Space)
	d.ras.SetStroke(ss)
	for _, g := range t.Glyphs {
		p := t.Font.GlyphPath(g.GID)
		if p == nil || p.IsEmpty() {
			continue
		}
		d.ras.CTM = g.Matrix.Mul(ctm)
		d.ras.Stroke(p, func(y, xMin int, coverage []float32) {
			d.paintSpan(y, xMin, coverage, src, alpha)
		})
	}
	return nil
}

// Close flushes the device. All clip, group and tile stacks must be
// balanced by the time Close is called.
func (d *Device) Close() error {
	if len(d.stack) > 0 {
		return errors.Errorf("draw: %d unclosed groups at Close", len(d.stack))
	}
	if len(d.clips) > 0 {
		return errors.Errorf("draw: %d unbalanced clips at Close", len(d.clips))
	}
	return nil
}
