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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/fitz"
	"seehuhn.de/go/fitz/color"
)

// textState holds the text-related graphics state parameters.
type textState struct {
	CharSpacing float64 // Tc
	WordSpacing float64 // Tw
	Scale       float64 // Tz, as a fraction (100% = 1.0)
	Leading     float64 // TL
	FontName    pdf.Name
	FontSize    float64 // Tf
	Render      int     // Tr
	Rise        float64 // Ts
}

// state is the full graphics state of the interpreter.
type state struct {
	CTM matrix.Matrix

	FillSpace     color.Space
	FillColor     []float64
	FillPattern   pdf.Object // unresolved pattern object, set by scn
	StrokeSpace   color.Space
	StrokeColor   []float64
	StrokePattern pdf.Object

	Stroke *fitz.StrokeState

	FillAlpha   float64
	StrokeAlpha float64
	Blend       fitz.BlendMode

	Text textState

	// text object state, valid between BT and ET
	TextMatrix     matrix.Matrix
	TextLineMatrix matrix.Matrix

	// number of clip regions pushed on the device while this state
	// was current; Q pops back to this depth
	clipDepth int
}

// newState returns the default graphics state for a content stream.
func newState(ctm matrix.Matrix) *state {
	return &state{
		CTM:         ctm,
		FillSpace:   color.DeviceGray,
		FillColor:   []float64{0},
		StrokeSpace: color.DeviceGray,
		StrokeColor: []float64{0},
		Stroke:      fitz.DefaultStrokeState(),
		FillAlpha:   1,
		StrokeAlpha: 1,
		Blend:       fitz.BlendNormal,
		Text: textState{
			Scale: 1,
		},
	}
}

// clone returns a deep copy, used by the q operator.
func (s *state) clone() *state {
	c := *s
	c.FillColor = append([]float64(nil), s.FillColor...)
	c.StrokeColor = append([]float64(nil), s.StrokeColor...)
	c.Stroke = s.Stroke.Clone()
	return &c
}

// fillCol packages the current fill color for device calls.
func (s *state) fillCol() fitz.Color {
	return fitz.Color{Space: s.FillSpace, Components: s.FillColor}
}

// strokeCol packages the current stroke color for device calls.
func (s *state) strokeCol() fitz.Color {
	return fitz.Color{Space: s.StrokeSpace, Components: s.StrokeColor}
}
