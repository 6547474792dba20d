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

package raster

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/fitz"
)

// grid collects emitted coverage into a dense 2D buffer for inspection.
type grid struct {
	w, h int
	data []float32
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, data: make([]float32, w*h)}
}

func (g *grid) emit(y, xMin int, coverage []float32) {
	if y < 0 || y >= g.h {
		return
	}
	for i, c := range coverage {
		x := xMin + i
		if x < 0 || x >= g.w {
			continue
		}
		g.data[y*g.w+x] += c
	}
}

func (g *grid) at(x, y int) float32 {
	return g.data[y*g.w+x]
}

// total returns the sum of all coverage values, i.e. the painted area
// in pixels.
func (g *grid) total() float64 {
	var sum float64
	for _, c := range g.data {
		sum += float64(c)
	}
	return sum
}

func testClip(w, h int) rect.Rect {
	return rect.Rect{LLx: 0, LLy: 0, URx: float64(w), URy: float64(h)}
}

// approaches forces either the 2D-buffer code path or the active edge
// list code path, so every test exercises both.
var approaches = []struct {
	name      string
	threshold int
}{
	{"A", 1 << 30},
	{"B", 0},
}

func TestFillRect(t *testing.T) {
	for _, approach := range approaches {
		t.Run(approach.name, func(t *testing.T) {
			r := NewRasterizer(testClip(32, 32))
			r.smallPathThreshold = approach.threshold

			p := &fitz.Path{}
			p.Rectangle(4, 4, 20, 16)

			g := newGrid(32, 32)
			r.FillNonZero(p, g.emit)

			// Interior pixels must be fully covered.
			for y := 5; y < 19; y++ {
				for x := 5; x < 23; x++ {
					if c := g.at(x, y); c < 0.999 {
						t.Fatalf("interior pixel (%d,%d): coverage %g, want 1", x, y, c)
					}
				}
			}
			// Pixels outside the rectangle must be empty.
			for y := 0; y < 32; y++ {
				for x := 0; x < 32; x++ {
					inside := x >= 4 && x < 24 && y >= 4 && y < 20
					if !inside && g.at(x, y) != 0 {
						t.Fatalf("exterior pixel (%d,%d): coverage %g, want 0", x, y, g.at(x, y))
					}
				}
			}
			// Total coverage equals the rectangle area (edges are pixel-aligned).
			if got, want := g.total(), 20.0*16.0; math.Abs(got-want) > 1e-3 {
				t.Errorf("total coverage %g, want %g", got, want)
			}
		})
	}
}

func TestFillHalfPixelEdges(t *testing.T) {
	// A rectangle with edges on half-pixel boundaries: boundary pixels get
	// exactly half coverage.
	for _, approach := range approaches {
		t.Run(approach.name, func(t *testing.T) {
			r := NewRasterizer(testClip(16, 16))
			r.smallPathThreshold = approach.threshold

			p := &fitz.Path{}
			p.Rectangle(2.5, 2.5, 5, 5)

			g := newGrid(16, 16)
			r.FillNonZero(p, g.emit)

			if c := g.at(4, 4); c < 0.999 {
				t.Errorf("interior pixel: coverage %g, want 1", c)
			}
			if c := g.at(2, 4); math.Abs(float64(c)-0.5) > 1e-3 {
				t.Errorf("left edge pixel: coverage %g, want 0.5", c)
			}
			if c := g.at(2, 2); math.Abs(float64(c)-0.25) > 1e-3 {
				t.Errorf("corner pixel: coverage %g, want 0.25", c)
			}
			if got, want := g.total(), 25.0; math.Abs(got-want) > 1e-3 {
				t.Errorf("total coverage %g, want %g", got, want)
			}
		})
	}
}

func TestFillTriangleArea(t *testing.T) {
	for _, approach := range approaches {
		t.Run(approach.name, func(t *testing.T) {
			r := NewRasterizer(testClip(64, 64))
			r.smallPathThreshold = approach.threshold

			p := &fitz.Path{}
			p.MoveTo(8, 8)
			p.LineTo(56, 8)
			p.LineTo(8, 56)
			p.ClosePath()

			g := newGrid(64, 64)
			r.FillNonZero(p, g.emit)

			want := 48.0 * 48.0 / 2
			if got := g.total(); math.Abs(got-want) > 1.0 {
				t.Errorf("triangle coverage %g, want %g", got, want)
			}
		})
	}
}

func TestFillRuleSelfIntersecting(t *testing.T) {
	// Two overlapping rectangles with the same winding direction: the
	// overlap region is filled under nonzero but empty under even-odd.
	for _, approach := range approaches {
		t.Run(approach.name, func(t *testing.T) {
			p := &fitz.Path{}
			p.Rectangle(2, 2, 12, 12)
			p.Rectangle(8, 8, 12, 12)

			r := NewRasterizer(testClip(24, 24))
			r.smallPathThreshold = approach.threshold

			gNZ := newGrid(24, 24)
			r.FillNonZero(p, gNZ.emit)
			gEO := newGrid(24, 24)
			r.FillEvenOdd(p, gEO.emit)

			// (10,10) lies in the overlap region.
			if c := gNZ.at(10, 10); c < 0.999 {
				t.Errorf("nonzero overlap coverage %g, want 1", c)
			}
			if c := gEO.at(10, 10); c > 0.001 {
				t.Errorf("even-odd overlap coverage %g, want 0", c)
			}
			// (4,4) lies in the first rectangle only: filled under both rules.
			if c := gNZ.at(4, 4); c < 0.999 {
				t.Errorf("nonzero single coverage %g, want 1", c)
			}
			if c := gEO.at(4, 4); c < 0.999 {
				t.Errorf("even-odd single coverage %g, want 1", c)
			}
		})
	}
}

func TestFillOpenSubpathImplicitClose(t *testing.T) {
	// An open subpath is closed implicitly when filling.
	r := NewRasterizer(testClip(32, 32))

	p := &fitz.Path{}
	p.MoveTo(4, 4)
	p.LineTo(28, 4)
	p.LineTo(28, 28)
	p.LineTo(4, 28)
	// no ClosePath

	g := newGrid(32, 32)
	r.FillNonZero(p, g.emit)

	if got, want := g.total(), 24.0*24.0; math.Abs(got-want) > 1e-3 {
		t.Errorf("total coverage %g, want %g", got, want)
	}
}

func TestFillEmptyPath(t *testing.T) {
	r := NewRasterizer(testClip(16, 16))

	for _, p := range []*fitz.Path{{}, func() *fitz.Path {
		q := &fitz.Path{}
		q.MoveTo(5, 5)
		return q
	}()} {
		called := false
		r.FillNonZero(p, func(y, xMin int, coverage []float32) {
			called = true
		})
		if called {
			t.Error("emit called for degenerate path")
		}
	}
}

func TestFillClip(t *testing.T) {
	// A rectangle partially outside the clip: coverage is limited to the
	// clip region.
	for _, approach := range approaches {
		t.Run(approach.name, func(t *testing.T) {
			r := NewRasterizer(testClip(16, 16))
			r.smallPathThreshold = approach.threshold

			p := &fitz.Path{}
			p.Rectangle(-8, -8, 32, 32) // covers (-8,-8)-(24,24)

			g := newGrid(16, 16)
			r.FillNonZero(p, g.emit)

			// All 16x16 clip pixels are inside the rectangle.
			if got, want := g.total(), 256.0; math.Abs(got-want) > 1e-3 {
				t.Errorf("clipped coverage %g, want %g", got, want)
			}
		})
	}
}

func TestFillCTM(t *testing.T) {
	// Filling a unit square under a scaling CTM covers scale² pixels.
	r := NewRasterizer(testClip(64, 64))
	r.CTM = matrix.Scale(16, 16)

	p := &fitz.Path{}
	p.Rectangle(1, 1, 1, 1)

	g := newGrid(64, 64)
	r.FillNonZero(p, g.emit)

	if got, want := g.total(), 256.0; math.Abs(got-want) > 1e-3 {
		t.Errorf("scaled coverage %g, want %g", got, want)
	}
	if c := g.at(8, 8); c != 0 {
		t.Errorf("pixel left of scaled square painted: %g", c)
	}
	if c := g.at(24, 24); c < 0.999 {
		t.Errorf("pixel inside scaled square: coverage %g, want 1", c)
	}
}

func TestFillCircleArea(t *testing.T) {
	// A circle built from four cubic Bézier arcs; the flattened area must
	// be close to πr².
	const k = 0.5522847498 // for approximating a quarter circle
	cx, cy, rad := 32.0, 32.0, 20.0

	p := &fitz.Path{}
	p.MoveTo(cx+rad, cy)
	p.CurveTo(cx+rad, cy+k*rad, cx+k*rad, cy+rad, cx, cy+rad)
	p.CurveTo(cx-k*rad, cy+rad, cx-rad, cy+k*rad, cx-rad, cy)
	p.CurveTo(cx-rad, cy-k*rad, cx-k*rad, cy-rad, cx, cy-rad)
	p.CurveTo(cx+k*rad, cy-rad, cx+rad, cy-k*rad, cx+rad, cy)
	p.ClosePath()

	r := NewRasterizer(testClip(64, 64))
	g := newGrid(64, 64)
	r.FillNonZero(p, g.emit)

	want := math.Pi * rad * rad
	if got := g.total(); math.Abs(got-want) > want*0.01 {
		t.Errorf("circle coverage %g, want %g (±1%%)", got, want)
	}
}

func TestApproachesAgree(t *testing.T) {
	// Both rasterization approaches must produce identical coverage.
	p := &fitz.Path{}
	p.MoveTo(3.7, 5.1)
	p.LineTo(28.2, 9.6)
	p.CurveTo(30, 20, 15, 25, 10.4, 28.9)
	p.ClosePath()
	p.Rectangle(12, 2, 6.5, 4.25)

	size := 32
	grids := make([]*grid, len(approaches))
	for i, approach := range approaches {
		r := NewRasterizer(testClip(size, size))
		r.smallPathThreshold = approach.threshold
		grids[i] = newGrid(size, size)
		r.FillNonZero(p, grids[i].emit)
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			a, b := grids[0].at(x, y), grids[1].at(x, y)
			if math.Abs(float64(a-b)) > 1e-4 {
				t.Fatalf("approaches disagree at (%d,%d): A=%g B=%g", x, y, a, b)
			}
		}
	}
}

func TestRasterizerReuse(t *testing.T) {
	// The same Rasterizer used twice must give the same result both times.
	r := NewRasterizer(testClip(32, 32))

	p := &fitz.Path{}
	p.MoveTo(4, 4)
	p.LineTo(28, 10)
	p.LineTo(10, 28)
	p.ClosePath()

	g1 := newGrid(32, 32)
	r.FillNonZero(p, g1.emit)
	g2 := newGrid(32, 32)
	r.FillNonZero(p, g2.emit)

	for i := range g1.data {
		if g1.data[i] != g2.data[i] {
			t.Fatalf("reuse changed output at index %d: %g vs %g",
				i, g1.data[i], g2.data[i])
		}
	}
}
