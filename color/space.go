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

// Package color converts PDF color values to device colors.
//
// A [Space] maps operator-supplied color components to RGB. The device
// spaces use the direct formulas from the PDF specification; Indexed,
// Separation and DeviceN spaces delegate to a base space, applying a
// table lookup or a tint transform first. Component values are clamped
// to the valid range before conversion.
package color

import "math"

// Space is a PDF color space. Implementations must be immutable so
// that spaces can be shared between concurrent page renders.
type Space interface {
	// Name returns the PDF family name of the space, e.g. "DeviceRGB".
	Name() string

	// Channels returns the number of color components.
	Channels() int

	// ToRGB converts clamped component values to red, green and blue
	// in the range [0, 1]. comps must have Channels() elements.
	ToRGB(comps []float64) (r, g, b float64)

	// Initial returns the initial color in this space, normally black.
	Initial() []float64
}

// The device color spaces.
var (
	DeviceGray Space = deviceGray{}
	DeviceRGB  Space = deviceRGB{}
	DeviceCMYK Space = deviceCMYK{}
)

type deviceGray struct{}

func (deviceGray) Name() string  { return "DeviceGray" }
func (deviceGray) Channels() int { return 1 }

func (deviceGray) ToRGB(comps []float64) (float64, float64, float64) {
	g := clamp01(comps[0])
	return g, g, g
}

func (deviceGray) Initial() []float64 { return []float64{0} }

type deviceRGB struct{}

func (deviceRGB) Name() string  { return "DeviceRGB" }
func (deviceRGB) Channels() int { return 3 }

func (deviceRGB) ToRGB(comps []float64) (float64, float64, float64) {
	return clamp01(comps[0]), clamp01(comps[1]), clamp01(comps[2])
}

func (deviceRGB) Initial() []float64 { return []float64{0, 0, 0} }

type deviceCMYK struct{}

func (deviceCMYK) Name() string  { return "DeviceCMYK" }
func (deviceCMYK) Channels() int { return 4 }

// ToRGB uses the subtractive approximation from section 8.6.4.4 of
// PDF 32000-1:2008; no ICC profile is consulted.
func (deviceCMYK) ToRGB(comps []float64) (float64, float64, float64) {
	c := clamp01(comps[0])
	m := clamp01(comps[1])
	y := clamp01(comps[2])
	k := clamp01(comps[3])
	r := 1 - math.Min(1, c+k)
	g := 1 - math.Min(1, m+k)
	b := 1 - math.Min(1, y+k)
	return r, g, b
}

func (deviceCMYK) Initial() []float64 { return []float64{0, 0, 0, 1} }

// Pattern is the color space selected by "/Pattern cs". It has no
// components of its own; painting uses the named pattern instead.
type Pattern struct {
	// Under is the space for the pattern's color components, set for
	// uncolored patterns. Nil for colored patterns.
	Under Space
}

func (p *Pattern) Name() string  { return "Pattern" }
func (p *Pattern) Channels() int { return 0 }

func (p *Pattern) ToRGB(comps []float64) (float64, float64, float64) {
	return 0, 0, 0
}

func (p *Pattern) Initial() []float64 { return nil }

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
