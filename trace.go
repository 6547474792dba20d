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
	"fmt"
	"io"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
)

// TraceDevice writes a line for every paint call to an io.Writer.
// It is meant for debugging content streams and devices.
type TraceDevice struct {
	W io.Writer

	indent int
	err    error
}

// NewTraceDevice returns a trace device writing to w.
func NewTraceDevice(w io.Writer) *TraceDevice {
	return &TraceDevice{W: w}
}

func (d *TraceDevice) printf(format string, args ...any) error {
	if d.err != nil {
		return d.err
	}
	for i := 0; i < d.indent; i++ {
		if _, err := io.WriteString(d.W, "  "); err != nil {
			d.err = err
			return err
		}
	}
	_, err := fmt.Fprintf(d.W, format+"\n", args...)
	if err != nil {
		d.err = err
	}
	return err
}

func fmtMatrix(M matrix.Matrix) string {
	return fmt.Sprintf("[%g %g %g %g %g %g]", M[0], M[1], M[2], M[3], M[4], M[5])
}

func fmtColor(col Color) string {
	if col.Space == nil {
		return "-"
	}
	return fmt.Sprintf("%s%v", col.Space.Name(), col.Components)
}

func fmtRect(r rect.Rect) string {
	return fmt.Sprintf("[%g %g %g %g]", r.LLx, r.LLy, r.URx, r.URy)
}

func (d *TraceDevice) FillPath(p *Path, evenOdd bool, ctm matrix.Matrix, col Color, alpha float64) error {
	rule := "nonzero"
	if evenOdd {
		rule = "evenodd"
	}
	return d.printf("fill_path %s segs=%d ctm=%s color=%s alpha=%g",
		rule, len(p.Cmds), fmtMatrix(ctm), fmtColor(col), alpha)
}

func (d *TraceDevice) StrokePath(p *Path, ss *StrokeState, ctm matrix.Matrix, col Color, alpha float64) error {
	return d.printf("stroke_path segs=%d w=%g cap=%d join=%d ctm=%s color=%s alpha=%g",
		len(p.Cmds), ss.LineWidth, ss.LineCap, ss.LineJoin, fmtMatrix(ctm), fmtColor(col), alpha)
}

func (d *TraceDevice) ClipPath(p *Path, evenOdd bool, ctm matrix.Matrix) error {
	rule := "nonzero"
	if evenOdd {
		rule = "evenodd"
	}
	err := d.printf("clip_path %s segs=%d ctm=%s", rule, len(p.Cmds), fmtMatrix(ctm))
	d.indent++
	return err
}

func (d *TraceDevice) ClipStrokePath(p *Path, ss *StrokeState, ctm matrix.Matrix) error {
	err := d.printf("clip_stroke_path segs=%d w=%g ctm=%s", len(p.Cmds), ss.LineWidth, fmtMatrix(ctm))
	d.indent++
	return err
}

func (d *TraceDevice) PopClip() error {
	if d.indent > 0 {
		d.indent--
	}
	return d.printf("pop_clip")
}

func (d *TraceDevice) FillText(t *TextSpan, ctm matrix.Matrix, col Color, alpha float64) error {
	return d.printf("fill_text glyphs=%d ctm=%s color=%s alpha=%g",
		len(t.Glyphs), fmtMatrix(ctm), fmtColor(col), alpha)
}

func (d *TraceDevice) StrokeText(t *TextSpan, ss *StrokeState, ctm matrix.Matrix, col Color, alpha float64) error {
	return d.printf("stroke_text glyphs=%d w=%g ctm=%s color=%s alpha=%g",
		len(t.Glyphs), ss.LineWidth, fmtMatrix(ctm), fmtColor(col), alpha)
}

func (d *TraceDevice) FillImage(img *Image, ctm matrix.Matrix, alpha float64) error {
	space := "mask"
	if img.Space != nil {
		space = img.Space.Name()
	}
	return d.printf("fill_image %dx%d %s ctm=%s alpha=%g",
		img.Width, img.Height, space, fmtMatrix(ctm), alpha)
}

func (d *TraceDevice) FillShading(sh *Shading, ctm matrix.Matrix, alpha float64) error {
	return d.printf("fill_shading type=%d %s ctm=%s alpha=%g",
		sh.Kind, sh.Space.Name(), fmtMatrix(ctm), alpha)
}

func (d *TraceDevice) BeginGroup(bbox rect.Rect, isolated, knockout bool, blend BlendMode, alpha float64) error {
	err := d.printf("begin_group bbox=%s isolated=%t knockout=%t blend=%s alpha=%g",
		fmtRect(bbox), isolated, knockout, blend, alpha)
	d.indent++
	return err
}

func (d *TraceDevice) EndGroup() error {
	if d.indent > 0 {
		d.indent--
	}
	return d.printf("end_group")
}

func (d *TraceDevice) BeginTile(area, view rect.Rect, xStep, yStep float64, ctm matrix.Matrix) error {
	err := d.printf("begin_tile area=%s view=%s step=%g,%g ctm=%s",
		fmtRect(area), fmtRect(view), xStep, yStep, fmtMatrix(ctm))
	d.indent++
	return err
}

func (d *TraceDevice) EndTile() error {
	if d.indent > 0 {
		d.indent--
	}
	return d.printf("end_tile")
}

func (d *TraceDevice) Close() error {
	return d.err
}
