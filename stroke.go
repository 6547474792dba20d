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

// LineCapStyle is the style of the end of a stroked line.
type LineCapStyle uint8

// Possible values for LineCapStyle.
// See section 8.4.3.3 of PDF 32000-1:2008.
const (
	LineCapButt   LineCapStyle = 0
	LineCapRound  LineCapStyle = 1
	LineCapSquare LineCapStyle = 2
)

// LineJoinStyle is the style of the corner of a stroked line.
type LineJoinStyle uint8

// Possible values for LineJoinStyle.
// See section 8.4.3.4 of PDF 32000-1:2008.
const (
	LineJoinMiter LineJoinStyle = 0
	LineJoinRound LineJoinStyle = 1
	LineJoinBevel LineJoinStyle = 2
)

// StrokeState collects the parameters controlling stroke expansion.
// Lengths are in user-space units.
type StrokeState struct {
	LineWidth  float64
	LineCap    LineCapStyle
	LineJoin   LineJoinStyle
	MiterLimit float64

	// DashPattern lists alternating on/off lengths. Nil means a solid
	// line. DashPhase offsets into the pattern.
	DashPattern []float64
	DashPhase   float64
}

// DefaultStrokeState returns the PDF default stroke parameters.
func DefaultStrokeState() *StrokeState {
	return &StrokeState{
		LineWidth:  1.0,
		LineCap:    LineCapButt,
		LineJoin:   LineJoinMiter,
		MiterLimit: 10.0,
	}
}

// Clone returns an independent copy of the stroke state.
func (s *StrokeState) Clone() *StrokeState {
	c := *s
	c.DashPattern = append([]float64(nil), s.DashPattern...)
	return &c
}
