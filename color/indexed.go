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

import "math"

// Indexed is a color space whose single component selects an entry in
// a lookup table of base-space colors.
type Indexed struct {
	Base   Space
	HiVal  int
	Lookup []byte // HiVal+1 entries of Base.Channels() bytes each
}

func (s *Indexed) Name() string  { return "Indexed" }
func (s *Indexed) Channels() int { return 1 }

func (s *Indexed) ToRGB(comps []float64) (float64, float64, float64) {
	idx := int(math.Round(comps[0]))
	if idx < 0 {
		idx = 0
	}
	if idx > s.HiVal {
		idx = s.HiVal
	}

	n := s.Base.Channels()
	base := make([]float64, n)
	off := idx * n
	for i := range base {
		if off+i < len(s.Lookup) {
			base[i] = float64(s.Lookup[off+i]) / 255
		}
	}
	// Component ranges other than [0,1] only occur for Lab base
	// spaces, which are approximated by their device equivalent here.
	return s.Base.ToRGB(base)
}

func (s *Indexed) Initial() []float64 { return []float64{0} }
