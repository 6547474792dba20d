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

package draw

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/fitz"
)

// FillImage draws the image with the unit square mapped through ctm.
// Stencil masks must be converted to alpha images by the caller.
func (d *Device) FillImage(img *fitz.Image, ctm matrix.Matrix, alpha float64) error {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil
	}

	src := imageToRGBA(img)

	// Map image pixel coordinates to device coordinates. The unit square
	// maps through ctm; image row 0 is the top of the unit square.
	w := float64(img.Width)
	h := float64(img.Height)
	aff := f64.Aff3{
		ctm[0] / w, -ctm[2] / h, ctm[2] + ctm[4],
		ctm[1] / w, -ctm[3] / h, ctm[3] + ctm[5],
	}

	// device bounding box of the transformed unit square
	bbox := unitSquareDeviceBounds(ctm, d.base.Width, d.base.Height)
	if bbox.Empty() {
		return nil
	}

	tmp := image.NewRGBA(bbox)
	xdraw.BiLinear.Transform(tmp, aff, src, src.Bounds(), xdraw.Src, nil)

	// composite the transformed pixels into the current layer
	l := d.target()
	comps := make([]float64, d.base.Channels())
	for y := bbox.Min.Y; y < bbox.Max.Y; y++ {
		for x := bbox.Min.X; x < bbox.Max.X; x++ {
			off := tmp.PixOffset(x, y)
			pa := float64(tmp.Pix[off+3]) / 255
			if pa <= 0 {
				continue
			}
			a := pa * alpha * float64(d.clipAt(x, y))
			if a <= 0 {
				continue
			}
			// un-premultiply
			r := float64(tmp.Pix[off]) / 255 / pa
			g := float64(tmp.Pix[off+1]) / 255 / pa
			b := float64(tmp.Pix[off+2]) / 255 / pa
			rgbToComponents(r, g, b, comps)
			l.compositePixel(x, y, comps, a)
		}
	}
	return nil
}

// imageToRGBA expands an image to premultiplied RGBA using its color
// space and alpha plane.
func imageToRGBA(img *fitz.Image) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	n := 0
	if img.Space != nil {
		n = img.Space.Channels()
	}
	comps := make([]float64, n)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			var r, g, b float64
			if img.Space != nil {
				base := (y*img.Width + x) * n
				for c := 0; c < n; c++ {
					comps[c] = float64(img.Samples[base+c]) / 255
				}
				r, g, b = img.Space.ToRGB(comps)
			}
			a := 1.0
			if img.Alpha != nil {
				a = float64(img.Alpha[y*img.Width+x]) / 255
			}
			off := out.PixOffset(x, y)
			out.Pix[off] = quantize(r * a)
			out.Pix[off+1] = quantize(g * a)
			out.Pix[off+2] = quantize(b * a)
			out.Pix[off+3] = quantize(a)
		}
	}
	return out
}

// rgbToComponents converts an RGB color to destination-space components.
func rgbToComponents(r, g, b float64, out []float64) {
	switch len(out) {
	case 1:
		out[0] = 0.299*r + 0.587*g + 0.114*b
	case 4:
		k := 1 - max(r, max(g, b))
		if k >= 1 {
			out[0], out[1], out[2], out[3] = 0, 0, 0, 1
		} else {
			out[0] = (1 - r - k) / (1 - k)
			out[1] = (1 - g - k) / (1 - k)
			out[2] = (1 - b - k) / (1 - k)
			out[3] = k
		}
	default:
		out[0], out[1], out[2] = r, g, b
	}
}

// unitSquareDeviceBounds returns the integer bounding box of the unit
// square transformed by ctm, clamped to the pixmap.
func unitSquareDeviceBounds(ctm matrix.Matrix, w, h int) image.Rectangle {
	xMin := math.Inf(1)
	yMin := math.Inf(1)
	xMax := math.Inf(-1)
	yMax := math.Inf(-1)
	for _, c := range [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		x, y := ctm.Apply(c[0], c[1])
		xMin = math.Min(xMin, x)
		xMax = math.Max(xMax, x)
		yMin = math.Min(yMin, y)
		yMax = math.Max(yMax, y)
	}
	r := image.Rect(
		int(math.Floor(xMin)), int(math.Floor(yMin)),
		int(math.Ceil(xMax)), int(math.Ceil(yMax)),
	)
	return r.Intersect(image.Rect(0, 0, w, h))
}
