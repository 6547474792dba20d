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
	"testing"

	"seehuhn.de/go/fitz/color"
)

func TestPixmapClear(t *testing.T) {
	rgb := NewPixmap(color.DeviceRGB, 2, 2)
	rgb.Clear()
	for i, v := range rgb.Samples {
		if v != 0xff {
			t.Fatalf("RGB sample %d = %d after Clear", i, v)
		}
	}

	// white in CMYK is zero ink
	cmyk := NewPixmap(color.DeviceCMYK, 2, 2)
	cmyk.ClearValue(0x42)
	cmyk.Clear()
	for i, v := range cmyk.Samples {
		if v != 0 {
			t.Fatalf("CMYK sample %d = %d after Clear", i, v)
		}
	}
}

func TestPixmapPixelRoundTrip(t *testing.T) {
	pix := NewPixmap(color.DeviceRGB, 4, 4)
	pix.SetPixel(2, 1, []float64{1, 0, 0.5})

	got := make([]float64, 3)
	pix.Pixel(2, 1, got)
	if got[0] != 1 || got[1] != 0 {
		t.Errorf("pixel = %v", got)
	}
	if d := got[2] - 0.5; d < -0.01 || d > 0.01 {
		t.Errorf("blue component = %g, want about 0.5", got[2])
	}
}

func TestSubPixmapSharesStorage(t *testing.T) {
	pix := NewPixmap(color.DeviceGray, 8, 8)
	sub := pix.SubPixmap(2, 2, 6, 6)

	if sub.Width != 4 || sub.Height != 4 {
		t.Fatalf("view is %dx%d", sub.Width, sub.Height)
	}
	if sub.Stride != pix.Stride {
		t.Errorf("view stride = %d, want %d", sub.Stride, pix.Stride)
	}

	sub.SetPixel(0, 0, []float64{1})
	got := make([]float64, 1)
	pix.Pixel(2, 2, got)
	if got[0] != 1 {
		t.Error("write through the view did not reach the parent")
	}
}

func TestSubPixmapClipped(t *testing.T) {
	pix := NewPixmap(color.DeviceGray, 4, 4)

	sub := pix.SubPixmap(-2, -2, 10, 10)
	if sub.Width != 4 || sub.Height != 4 {
		t.Errorf("clipped view is %dx%d", sub.Width, sub.Height)
	}

	empty := pix.SubPixmap(3, 3, 3, 3)
	if empty.Width != 0 || empty.Height != 0 {
		t.Errorf("empty view is %dx%d", empty.Width, empty.Height)
	}
}

func TestPixmapToRGBA(t *testing.T) {
	pix := NewPixmap(color.DeviceCMYK, 1, 1)
	pix.SetPixel(0, 0, []float64{1, 0, 0, 0}) // pure cyan

	img := pix.ToRGBA()
	c := img.RGBAAt(0, 0)
	if c.R != 0 || c.G != 255 || c.B != 255 || c.A != 255 {
		t.Errorf("cyan converts to %v", c)
	}
}
