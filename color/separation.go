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

package color

// An Evaluator applies a PDF function to input values. The function
// types of seehuhn.de/go/pdf/function implement this interface.
type Evaluator interface {
	Apply(inputs ...float64) []float64
	Shape() (numInputs, numOutputs int)
}

// Separation is a Separation or DeviceN color space: tint values are
// mapped into an alternate space by a tint transform function.
type Separation struct {
	Colorants []string
	Alternate Space
	Tint      Evaluator
}

func (s *Separation) Name() string {
	if len(s.Colorants) > 1 {
		return "DeviceN"
	}
	return "Separation"
}

func (s *Separation) Channels() int { return len(s.Colorants) }

func (s *Separation) ToRGB(comps []float64) (float64, float64, float64) {
	in := make([]float64, len(comps))
	for i, c := range comps {
		in[i] = clamp01(c)
	}

	// The "All" colorant marks every separation; render it as a plain
	// gray tint without consulting the transform.
	if len(s.Colorants) == 1 && s.Colorants[0] == "All" {
		g := 1 - in[0]
		return g, g, g
	}

	out := s.Tint.Apply(in...)
	if len(out) < s.Alternate.Channels() {
		return 0, 0, 0
	}
	return s.Alternate.ToRGB(out[:s.Alternate.Channels()])
}

// Initial returns tint 1.0 for every colorant, the PDF initial color
// for Separation and DeviceN spaces.
func (s *Separation) Initial() []float64 {
	tint := make([]float64, len(s.Colorants))
	for i := range tint {
		tint[i] = 1
	}
	return tint
}
