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
	"image"
	gocolor "image/color"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/fitz/color"
)

// Pixmap is a rendering destination: a Width×Height raster of pixels
// with one byte per color component. A pixmap is owned by a single
// render call while it is being painted.
type Pixmap struct {
	// Space is the device color space of the pixels. Must be
	// DeviceGray, DeviceRGB or DeviceCMYK.
	Space color.Space

	Width  int
	Height int

	// Stride is the byte distance between rows in Samples.
	Stride int

	// Samples holds Height*Stride bytes. Pixel (x, y) starts at
	// y*Stride + x*n, where n is Space.Channels().
	Samples []byte
}

// NewPixmap allocates a pixmap filled with zero bytes (black in all
// device spaces, except white in DeviceCMYK terms of ink coverage).
// Use Clear to get a white canvas.
func NewPixmap(space color.Space, width, height int) *Pixmap {
	n := space.Channels()
	return &Pixmap{
		Space:   space,
		Width:   width,
		Height:  height,
		Stride:  width * n,
		Samples: make([]byte, height*width*n),
	}
}

// Channels returns the number of color components per pixel.
func (p *Pixmap) Channels() int {
	return p.Space.Channels()
}

// Bounds returns the pixmap's area as a device-space rectangle.
func (p *Pixmap) Bounds() rect.Rect {
	return rect.Rect{URx: float64(p.Width), URy: float64(p.Height)}
}

// Clear fills the pixmap with white.
func (p *Pixmap) Clear() {
	var bg byte = 0xff
	if p.Space == color.DeviceCMYK {
		bg = 0 // no ink
	}
	for i := range p.Samples {
		p.Samples[i] = bg
	}
}

// ClearValue fills every component byte with v.
func (p *Pixmap) ClearValue(v byte) {
	for i := range p.Samples {
		p.Samples[i] = v
	}
}

// Pixel returns the components of the pixel at (x, y) as floats in
// [0, 1]. The out slice must have Channels() elements.
func (p *Pixmap) Pixel(x, y int, out []float64) {
	n := p.Channels()
	off := y*p.Stride + x*n
	for i := 0; i < n; i++ {
		out[i] = float64(p.Samples[off+i]) / 255
	}
}

// SetPixel stores float components in [0, 1] at (x, y), quantizing to
// bytes.
func (p *Pixmap) SetPixel(x, y int, comps []float64) {
	n := p.Channels()
	off := y*p.Stride + x*n
	for i := 0; i < n; i++ {
		p.Samples[off+i] = quantize(comps[i])
	}
}

// SubPixmap returns a view of the rectangle from (x0, y0) up to but
// not including (x1, y1), clipped to the pixmap's area. The view
// shares pixel storage with p.
func (p *Pixmap) SubPixmap(x0, y0, x1, y1 int) *Pixmap {
	x0 = max(x0, 0)
	y0 = max(y0, 0)
	x1 = min(x1, p.Width)
	y1 = min(y1, p.Height)
	if x0 >= x1 || y0 >= y1 {
		return &Pixmap{Space: p.Space, Stride: p.Stride}
	}
	n := p.Channels()
	off := y0*p.Stride + x0*n
	return &Pixmap{
		Space:   p.Space,
		Width:   x1 - x0,
		Height:  y1 - y0,
		Stride:  p.Stride,
		Samples: p.Samples[off : off+(y1-y0-1)*p.Stride+(x1-x0)*n],
	}
}

// ToRGBA converts the pixmap to a Go image for encoding or display.
func (p *Pixmap) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	n := p.Channels()
	comps := make([]float64, n)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			p.Pixel(x, y, comps)
			r, g, b := p.Space.ToRGB(comps)
			img.SetRGBA(x, y, gocolor.RGBA{
				R: quantize(r),
				G: quantize(g),
				B: quantize(b),
				A: 0xff,
			})
		}
	}
	return img
}

func quantize(v float64) byte {
	x := int(v*255 + 0.5)
	if x < 0 {
		x = 0
	}
	if x > 255 {
		x = 255
	}
	return byte(x)
}
