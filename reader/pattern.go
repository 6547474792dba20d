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

package reader

import (
	"github.com/pkg/errors"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/fitz"
	"seehuhn.de/go/fitz/color"
)

// paintWithPattern fills a path with a pattern set by the scn
// operator. A pattern that cannot be resolved leaves the path
// unpainted, matching the behavior for other damaged operands.
func (r *Reader) paintWithPattern(p *fitz.Path, evenOdd bool, patObj pdf.Object) error {
	st := r.state
	clip := func() error {
		return r.dev.ClipPath(p, evenOdd, st.CTM)
	}
	return r.patternPaint(patObj, clip, p.Bounds(st.CTM), underColor(st.FillSpace, st.FillColor))
}

// strokeWithPattern strokes a path with a pattern: the pattern content
// shows through the stroked outline.
func (r *Reader) strokeWithPattern(p *fitz.Path, patObj pdf.Object) error {
	st := r.state
	clip := func() error {
		return r.dev.ClipStrokePath(p, st.Stroke, st.CTM)
	}
	area := p.Bounds(st.CTM)
	e := st.Stroke.LineWidth
	area.LLx -= e
	area.LLy -= e
	area.URx += e
	area.URy += e
	return r.patternPaint(patObj, clip, area, underColor(st.StrokeSpace, st.StrokeColor))
}

// underColor returns the color an uncolored tiling pattern paints
// with: the underlying space of the Pattern color space together with
// the components from the sc/scn operands. The color is empty for
// colored patterns.
func underColor(sp color.Space, comps []float64) fitz.Color {
	pat, ok := sp.(*color.Pattern)
	if !ok || pat.Under == nil {
		return fitz.Color{}
	}
	return fitz.Color{Space: pat.Under, Components: comps}
}

// patternPaint resolves a pattern object and paints it through the
// clip installed by the clip callback. area is the device-space region
// a tiling pattern has to cover.
func (r *Reader) patternPaint(patObj pdf.Object, clip func() error, area rect.Rect, under fitz.Color) error {
	obj, err := pdf.Resolve(r.R, patObj)
	if err != nil || obj == nil {
		return err
	}

	var dict pdf.Dict
	var stm *pdf.Stream
	switch obj := obj.(type) {
	case pdf.Dict:
		dict = obj
	case *pdf.Stream:
		dict = obj.Dict
		stm = obj
	default:
		return nil
	}

	patType, err := pdf.GetInteger(r.R, dict["PatternType"])
	if err != nil {
		return nil
	}
	switch patType {
	case 1:
		if stm == nil {
			return nil
		}
		return r.paintTilingPattern(stm, clip, area, under)
	case 2:
		return r.paintShadingPattern(dict, clip)
	default:
		return nil
	}
}

// paintShadingPattern clips to the painted shape and paints the
// pattern's shading through the clip. The pattern matrix maps pattern
// space to the coordinate space the content stream started in,
// independent of the transformation in effect when the shape is
// painted.
func (r *Reader) paintShadingPattern(dict pdf.Dict, clip func() error) error {
	sh, err := r.readShading(dict["Shading"])
	if err != nil {
		return err
	}

	ptm := r.patternMatrix(dict)

	st := r.state
	if err := clip(); err != nil {
		return err
	}
	err = r.dev.FillShading(sh, ptm, st.FillAlpha)
	r.marks++
	if popErr := r.dev.PopClip(); err == nil {
		err = popErr
	}
	return err
}

// paintTilingPattern clips to the painted shape, records one pattern
// cell and lets the device replicate it over the clipped area. For
// uncolored patterns (PaintType 2) the cell is painted in the color
// given by under.
func (r *Reader) paintTilingPattern(stm *pdf.Stream, clip func() error, area rect.Rect, under fitz.Color) error {
	if r.formDepth >= maxFormDepth {
		return errors.New("pattern: nesting too deep")
	}
	dict := stm.Dict

	bbox, err := pdf.GetFloatArray(r.R, dict["BBox"])
	if err != nil || len(bbox) < 4 {
		return err
	}
	xStep, err := pdf.GetNumber(r.R, dict["XStep"])
	if err != nil || xStep == 0 {
		xStep = pdf.Number(bbox[2] - bbox[0])
	}
	yStep, err := pdf.GetNumber(r.R, dict["YStep"])
	if err != nil || yStep == 0 {
		yStep = pdf.Number(bbox[3] - bbox[1])
	}

	res := &pdf.Resources{}
	if resDict, err := pdf.GetDict(r.R, dict["Resources"]); err == nil && resDict != nil {
		if err := pdf.DecodeDict(r.R, res, resDict); err != nil && !pdf.IsMalformed(err) {
			return err
		}
	}

	ptm := r.patternMatrix(dict)
	st := r.state

	if err := clip(); err != nil {
		return err
	}

	view := fitz.TransformRect(rect.Rect{
		LLx: bbox[0], LLy: bbox[1], URx: bbox[2], URy: bbox[3],
	}, ptm)

	err = r.dev.BeginTile(area, view, float64(xStep), float64(yStep), ptm)
	if err == nil {
		cellState := newState(ptm)
		cellState.FillAlpha = st.FillAlpha
		cellState.StrokeAlpha = st.StrokeAlpha
		paintType, _ := pdf.GetInteger(r.R, dict["PaintType"])
		if paintType == 2 && under.Space != nil {
			cellState.FillSpace = under.Space
			cellState.FillColor = append([]float64(nil), under.Components...)
			cellState.StrokeSpace = under.Space
			cellState.StrokeColor = append([]float64(nil), under.Components...)
		}
		runErr := r.runNested(stm, res, cellState)
		endErr := r.dev.EndTile()
		if runErr != nil {
			err = runErr
		} else {
			err = endErr
		}
		r.marks++
	}

	if popErr := r.dev.PopClip(); err == nil {
		err = popErr
	}
	return err
}

// patternMatrix returns the matrix mapping pattern space to device
// space: the pattern's Matrix entry composed with the matrix the page
// content stream started with.
func (r *Reader) patternMatrix(dict pdf.Dict) matrix.Matrix {
	pm := matrix.Identity
	if arr, err := pdf.GetFloatArray(r.R, dict["Matrix"]); err == nil && len(arr) >= 6 {
		pm = matrix.Matrix{arr[0], arr[1], arr[2], arr[3], arr[4], arr[5]}
	}
	return pm.Mul(r.baseCTM)
}

// runNested interprets an embedded content stream (a form XObject or a
// pattern cell) with its own resources and graphics state, then
// restores the outer interpreter state.
func (r *Reader) runNested(stm *pdf.Stream, res *pdf.Resources, initial *state) error {
	savedRes := r.res
	savedState := r.state
	savedStack := r.stack
	savedPath := r.path
	savedClip := r.pendingClip
	savedClipCount := r.clipCount
	savedCSCache := r.csCache
	savedFontCache := r.fontCache

	r.res = res
	r.state = initial
	r.stack = nil
	r.path = &fitz.Path{}
	r.pendingClip = clipNone
	// resource names are scoped to the stream's own dictionary
	r.csCache = make(map[pdf.Name]color.Space)
	r.fontCache = make(map[pdf.Name]*pageFont)
	r.formDepth++

	err := r.renderStream(stm)

	// rebalance clips pushed inside the nested stream
	for r.clipCount > savedClipCount {
		r.dev.PopClip()
		r.clipCount--
	}

	r.formDepth--
	r.res = savedRes
	r.state = savedState
	r.stack = savedStack
	r.path = savedPath
	r.pendingClip = savedClip
	r.csCache = savedCSCache
	r.fontCache = savedFontCache

	return err
}
