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
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/fitz"
	"seehuhn.de/go/fitz/color"
)

func newTestPixmap(w, h int) *fitz.Pixmap {
	pix := fitz.NewPixmap(color.DeviceRGB, w, h)
	pix.Clear()
	return pix
}

func pixel(pix *fitz.Pixmap, x, y int) (r, g, b byte) {
	off := y*pix.Stride + x*3
	return pix.Samples[off], pix.Samples[off+1], pix.Samples[off+2]
}

func TestFillPathColor(t *testing.T) {
	pix := newTestPixmap(32, 32)
	dev := New(pix)

	p := &fitz.Path{}
	p.Rectangle(8, 8, 16, 16)

	err := dev.FillPath(p, false, matrix.Identity, fitz.RGB(1, 0, 0), 1)
	if err != nil {
		t.Fatal(err)
	}

	if r, g, b := pixel(pix, 16, 16); r != 255 || g != 0 || b != 0 {
		t.Errorf("interior pixel = (%d,%d,%d), want (255,0,0)", r, g, b)
	}
	if r, g, b := pixel(pix, 4, 4); r != 255 || g != 255 || b != 255 {
		t.Errorf("exterior pixel = (%d,%d,%d), want white", r, g, b)
	}
}

func TestFillPathAlpha(t *testing.T) {
	pix := newTestPixmap(16, 16)
	dev := New(pix)

	p := &fitz.Path{}
	p.Rectangle(0, 0, 16, 16)

	// black at 50% over white gives mid gray
	err := dev.FillPath(p, false, matrix.Identity, fitz.Black(), 0.5)
	if err != nil {
		t.Fatal(err)
	}

	r, _, _ := pixel(pix, 8, 8)
	if math.Abs(float64(r)-127.5) > 1 {
		t.Errorf("50%% black over white: r = %d, want ≈128", r)
	}
}

func TestStrokePathColor(t *testing.T) {
	pix := newTestPixmap(32, 32)
	dev := New(pix)

	p := &fitz.Path{}
	p.MoveTo(4, 16)
	p.LineTo(28, 16)

	ss := fitz.DefaultStrokeState()
	ss.LineWidth = 4
	err := dev.StrokePath(p, ss, matrix.Identity, fitz.RGB(0, 0, 1), 1)
	if err != nil {
		t.Fatal(err)
	}

	if r, g, b := pixel(pix, 16, 15); r != 0 || g != 0 || b != 255 {
		t.Errorf("stroke pixel = (%d,%d,%d), want (0,0,255)", r, g, b)
	}
	if r, _, _ := pixel(pix, 16, 4); r != 255 {
		t.Errorf("pixel above stroke modified: r = %d", r)
	}
}

func TestClipPath(t *testing.T) {
	pix := newTestPixmap(32, 32)
	dev := New(pix)

	clip := &fitz.Path{}
	clip.Rectangle(0, 0, 16, 32) // left half

	if err := dev.ClipPath(clip, false, matrix.Identity); err != nil {
		t.Fatal(err)
	}

	p := &fitz.Path{}
	p.Rectangle(0, 0, 32, 32)
	if err := dev.FillPath(p, false, matrix.Identity, fitz.Black(), 1); err != nil {
		t.Fatal(err)
	}
	if err := dev.PopClip(); err != nil {
		t.Fatal(err)
	}

	if r, _, _ := pixel(pix, 8, 16); r != 0 {
		t.Errorf("clipped-in pixel not painted: r = %d", r)
	}
	if r, _, _ := pixel(pix, 24, 16); r != 255 {
		t.Errorf("clipped-out pixel painted: r = %d", r)
	}
}

func TestNestedClips(t *testing.T) {
	pix := newTestPixmap(32, 32)
	dev := New(pix)

	c1 := &fitz.Path{}
	c1.Rectangle(0, 0, 16, 32)
	c2 := &fitz.Path{}
	c2.Rectangle(0, 0, 32, 16)
	if err := dev.ClipPath(c1, false, matrix.Identity); err != nil {
		t.Fatal(err)
	}
	if err := dev.ClipPath(c2, false, matrix.Identity); err != nil {
		t.Fatal(err)
	}

	p := &fitz.Path{}
	p.Rectangle(0, 0, 32, 32)
	if err := dev.FillPath(p, false, matrix.Identity, fitz.Black(), 1); err != nil {
		t.Fatal(err)
	}

	// only the intersection (top-left quadrant) is painted
	if r, _, _ := pixel(pix, 8, 8); r != 0 {
		t.Errorf("intersection pixel not painted: r = %d", r)
	}
	if r, _, _ := pixel(pix, 8, 24); r != 255 {
		t.Errorf("pixel outside second clip painted: r = %d", r)
	}
	if r, _, _ := pixel(pix, 24, 8); r != 255 {
		t.Errorf("pixel outside first clip painted: r = %d", r)
	}

	dev.PopClip()
	dev.PopClip()
	if err := dev.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestPopClipUnbalanced(t *testing.T) {
	dev := New(newTestPixmap(8, 8))
	if err := dev.PopClip(); err == nil {
		t.Error("PopClip on empty stack did not fail")
	}
}

func TestGroupAlpha(t *testing.T) {
	pix := newTestPixmap(16, 16)
	dev := New(pix)

	// two overlapping opaque fills inside a 50% group must not double up
	if err := dev.BeginGroup(pix.Bounds(), true, false, fitz.BlendNormal, 0.5); err != nil {
		t.Fatal(err)
	}
	p := &fitz.Path{}
	p.Rectangle(0, 0, 16, 16)
	dev.FillPath(p, false, matrix.Identity, fitz.Black(), 1)
	dev.FillPath(p, false, matrix.Identity, fitz.Black(), 1)
	if err := dev.EndGroup(); err != nil {
		t.Fatal(err)
	}

	r, _, _ := pixel(pix, 8, 8)
	if math.Abs(float64(r)-127.5) > 1 {
		t.Errorf("50%% group: r = %d, want ≈128", r)
	}
}

func TestGroupBlendMultiply(t *testing.T) {
	pix := newTestPixmap(16, 16)
	dev := New(pix)

	p := &fitz.Path{}
	p.Rectangle(0, 0, 16, 16)

	// backdrop: 50% gray
	dev.FillPath(p, false, matrix.Identity, fitz.RGB(0.5, 0.5, 0.5), 1)

	// multiply with 50% gray gives 25% gray
	dev.BeginGroup(pix.Bounds(), true, false, fitz.BlendMultiply, 1)
	dev.FillPath(p, false, matrix.Identity, fitz.RGB(0.5, 0.5, 0.5), 1)
	if err := dev.EndGroup(); err != nil {
		t.Fatal(err)
	}

	r, _, _ := pixel(pix, 8, 8)
	if math.Abs(float64(r)-63.75) > 2 {
		t.Errorf("multiply blend: r = %d, want ≈64", r)
	}
}

func TestEndGroupUnbalanced(t *testing.T) {
	dev := New(newTestPixmap(8, 8))
	if err := dev.EndGroup(); err == nil {
		t.Error("EndGroup without BeginGroup did not fail")
	}
}

func TestFillImage(t *testing.T) {
	pix := newTestPixmap(16, 16)
	dev := New(pix)

	// 2x2 image: green pixels
	img := &fitz.Image{
		Width:  2,
		Height: 2,
		Space:  color.DeviceRGB,
		Samples: []byte{
			0, 255, 0, 0, 255, 0,
			0, 255, 0, 0, 255, 0,
		},
	}

	// map the unit square to the 16x16 pixmap
	ctm := matrix.Scale(16, 16)
	if err := dev.FillImage(img, ctm, 1); err != nil {
		t.Fatal(err)
	}

	if r, g, b := pixel(pix, 8, 8); r != 0 || g != 255 || b != 0 {
		t.Errorf("image pixel = (%d,%d,%d), want (0,255,0)", r, g, b)
	}
}

func TestFillImageAlpha(t *testing.T) {
	pix := newTestPixmap(8, 8)
	dev := New(pix)

	// fully transparent image must leave the pixmap untouched
	img := &fitz.Image{
		Width:   1,
		Height:  1,
		Space:   color.DeviceGray,
		Samples: []byte{0},
		Alpha:   []byte{0},
	}
	if err := dev.FillImage(img, matrix.Scale(8, 8), 1); err != nil {
		t.Fatal(err)
	}
	if r, _, _ := pixel(pix, 4, 4); r != 255 {
		t.Errorf("transparent image painted: r = %d", r)
	}
}

// rampEvaluator interpolates linearly between two endpoint colors,
// mimicking a sampled or exponential interpolation function.
type rampEvaluator struct {
	c0, c1 []float64
}

func (f *rampEvaluator) Apply(inputs ...float64) []float64 {
	t := inputs[0]
	out := make([]float64, len(f.c0))
	for i := range out {
		out[i] = f.c0[i] + t*(f.c1[i]-f.c0[i])
	}
	return out
}

func (f *rampEvaluator) Shape() (int, int) {
	return 1, len(f.c0)
}

func TestFillShadingAxial(t *testing.T) {
	pix := newTestPixmap(32, 32)
	dev := New(pix)

	sh := &fitz.Shading{
		Kind:   fitz.ShadingAxial,
		Space:  color.DeviceRGB,
		Coords: [6]float64{0, 0, 32, 0, 0, 0}, // horizontal axis
		Func: []color.Evaluator{&rampEvaluator{
			c0: []float64{0, 0, 0},
			c1: []float64{1, 1, 1},
		}},
		Domain: [2]float64{0, 1},
	}

	if err := dev.FillShading(sh, matrix.Identity, 1); err != nil {
		t.Fatal(err)
	}

	rL, _, _ := pixel(pix, 2, 16)
	rM, _, _ := pixel(pix, 16, 16)
	rR, _, _ := pixel(pix, 30, 16)
	if !(rL < rM && rM < rR) {
		t.Errorf("axial ramp not monotone: %d, %d, %d", rL, rM, rR)
	}
	if math.Abs(float64(rM)-127.5) > 8 {
		t.Errorf("axial midpoint: r = %d, want ≈128", rM)
	}
}

func TestFillShadingRadialNoExtend(t *testing.T) {
	pix := newTestPixmap(32, 32)
	dev := New(pix)

	sh := &fitz.Shading{
		Kind:   fitz.ShadingRadial,
		Space:  color.DeviceGray,
		Coords: [6]float64{16, 16, 0, 16, 16, 8},
		Func: []color.Evaluator{&rampEvaluator{
			c0: []float64{0},
			c1: []float64{0},
		}},
		Domain: [2]float64{0, 1},
	}

	if err := dev.FillShading(sh, matrix.Identity, 1); err != nil {
		t.Fatal(err)
	}

	// inside the outer circle: painted black
	if r, _, _ := pixel(pix, 16, 16); r != 0 {
		t.Errorf("radial center not painted: r = %d", r)
	}
	// outside and not extended: untouched
	if r, _, _ := pixel(pix, 2, 2); r != 255 {
		t.Errorf("pixel outside radial shading painted: r = %d", r)
	}
}

func TestTileReplication(t *testing.T) {
	pix := newTestPixmap(32, 32)
	dev := New(pix)

	area := rect.Rect{URx: 32, URy: 32}
	view := rect.Rect{URx: 8, URy: 8}
	if err := dev.BeginTile(area, view, 8, 8, matrix.Identity); err != nil {
		t.Fatal(err)
	}
	// cell content: a black 4x4 square in the top-left corner of the cell
	p := &fitz.Path{}
	p.Rectangle(0, 0, 4, 4)
	dev.FillPath(p, false, matrix.Identity, fitz.Black(), 1)
	if err := dev.EndTile(); err != nil {
		t.Fatal(err)
	}

	// squares appear at each 8-pixel lattice point
	for _, pt := range [][2]int{{2, 2}, {10, 2}, {2, 10}, {26, 26}} {
		if r, _, _ := pixel(pix, pt[0], pt[1]); r != 0 {
			t.Errorf("tile copy missing at (%d,%d): r = %d", pt[0], pt[1], r)
		}
	}
	// gaps between squares stay white
	if r, _, _ := pixel(pix, 6, 6); r != 255 {
		t.Errorf("tile gap painted: r = %d", r)
	}
}

func TestCloseUnbalanced(t *testing.T) {
	dev := New(newTestPixmap(8, 8))
	dev.BeginGroup(rect.Rect{URx: 8, URy: 8}, true, false, fitz.BlendNormal, 1)
	if err := dev.Close(); err == nil {
		t.Error("Close with open group did not fail")
	}
}
