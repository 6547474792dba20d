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

import "seehuhn.de/go/fitz/color"

// Image is a decoded raster image ready for painting. The pixel data
// has been expanded to one byte per component; the Decode array and
// sub-byte bit depths of the PDF image dictionary are already applied.
type Image struct {
	Width  int
	Height int

	// Space is the image color space. Nil for image masks.
	Space color.Space

	// Samples holds Width*Height*n component bytes in row-major order,
	// where n is Space.Channels(), or 1 for image masks.
	Samples []byte

	// Mask marks a stencil mask: 1-bit coverage painted in the
	// current fill color. Sample value 0 paints, 1 leaves the
	// destination untouched, matching the PDF default Decode.
	Mask bool

	// Alpha holds Width*Height opacity bytes from an SMask entry, or
	// nil if the image is fully opaque.
	Alpha []byte
}

// At returns the color components of the pixel at (x, y) as floats in
// the range [0, 1]. Out-of-range coordinates return zeros.
func (img *Image) At(x, y int, comps []float64) {
	n := 1
	if img.Space != nil {
		n = img.Space.Channels()
	}
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		for i := 0; i < n && i < len(comps); i++ {
			comps[i] = 0
		}
		return
	}
	off := (y*img.Width + x) * n
	for i := 0; i < n && i < len(comps); i++ {
		comps[i] = float64(img.Samples[off+i]) / 255
	}
}

// AlphaAt returns the opacity of the pixel at (x, y) in [0, 1].
func (img *Image) AlphaAt(x, y int) float64 {
	if img.Alpha == nil {
		return 1
	}
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return 0
	}
	return float64(img.Alpha[y*img.Width+x]) / 255
}
