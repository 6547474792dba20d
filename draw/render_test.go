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
	"strings"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/fitz"
	"seehuhn.de/go/fitz/reader"
)

// renderContent interprets a content stream onto a white w x h canvas.
func renderContent(t *testing.T, w, h int, content string) (*fitz.Pixmap, reader.Status) {
	t.Helper()
	pix := newTestPixmap(w, h)
	dev := New(pix)
	rd := reader.New(nil, dev, nil)
	stm := &pdf.Stream{Dict: pdf.Dict{}, R: strings.NewReader(content)}
	status, err := rd.Render(stm, nil, matrix.Identity)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return pix, status
}

func isRed(pix *fitz.Pixmap, x, y int) bool {
	r, g, b := pixel(pix, x, y)
	return r == 255 && g == 0 && b == 0
}

func isWhite(pix *fitz.Pixmap, x, y int) bool {
	r, g, b := pixel(pix, x, y)
	return r == 255 && g == 255 && b == 255
}

func TestRenderRedSquare(t *testing.T) {
	pix, status := renderContent(t, 100, 100, "1 0 0 rg 10 10 80 80 re f")
	if status != reader.Completed {
		t.Fatalf("status = %v", status)
	}

	if !isRed(pix, 50, 50) || !isRed(pix, 11, 11) || !isRed(pix, 88, 88) {
		t.Error("square interior is not red")
	}
	if !isWhite(pix, 5, 5) || !isWhite(pix, 95, 95) || !isWhite(pix, 5, 50) {
		t.Error("square exterior is not white")
	}
}

func TestRenderScaledThenRestored(t *testing.T) {
	// the first square is painted under a 2x CTM, the second after Q
	// restored the original scale
	pix, _ := renderContent(t, 100, 100,
		"1 0 0 rg q 2 0 0 2 0 0 cm 10 10 20 20 re f Q 60 60 20 20 re f")

	var scaled, plain int
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if !isRed(pix, x, y) {
				continue
			}
			if x < 60 || y < 60 {
				scaled++
			} else {
				plain++
			}
		}
	}
	if scaled != 40*40 {
		t.Errorf("scaled square covers %d pixels, want %d", scaled, 40*40)
	}
	if plain != 20*20 {
		t.Errorf("restored-scale square covers %d pixels, want %d", plain, 20*20)
	}
}

func TestRenderUnmatchedQ(t *testing.T) {
	pix, status := renderContent(t, 100, 100, "Q 1 0 0 rg 10 10 20 20 re f")
	if status != reader.Completed {
		t.Fatalf("status = %v", status)
	}
	if !isRed(pix, 20, 20) {
		t.Error("paint after unmatched Q did not land")
	}
}

// abortAfterFill trips the cookie once the first path has been painted.
type abortAfterFill struct {
	*Device
	cookie *fitz.Cookie
}

func (d *abortAfterFill) FillPath(p *fitz.Path, evenOdd bool, ctm matrix.Matrix, col fitz.Color, alpha float64) error {
	err := d.Device.FillPath(p, evenOdd, ctm, col, alpha)
	d.cookie.Abort()
	return err
}

func TestRenderAbortMidStream(t *testing.T) {
	pix := newTestPixmap(100, 100)
	cookie := &fitz.Cookie{}
	dev := &abortAfterFill{Device: New(pix), cookie: cookie}
	rd := reader.New(nil, dev, cookie)

	content := "1 0 0 rg 10 10 20 20 re f 60 60 20 20 re f"
	stm := &pdf.Stream{Dict: pdf.Dict{}, R: strings.NewReader(content)}
	status, err := rd.Render(stm, nil, matrix.Identity)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if status != reader.Partial {
		t.Fatalf("status = %v, want Partial", status)
	}

	if !isRed(pix, 20, 20) {
		t.Error("first square missing")
	}
	if !isWhite(pix, 70, 70) {
		t.Error("second square painted after abort")
	}
}

func TestRenderBadPatternIsNoOp(t *testing.T) {
	content := "1 0 0 rg 10 10 20 20 re f " +
		"/Pattern cs /NoSuch scn 60 60 20 20 re f " +
		"70 10 20 20 re f"
	pix, status := renderContent(t, 100, 100, content)
	if status != reader.Completed {
		t.Fatalf("status = %v", status)
	}

	if !isRed(pix, 20, 20) {
		t.Error("square before the bad pattern missing")
	}
	if !isWhite(pix, 70, 70) {
		t.Error("bad pattern left marks")
	}
	// after the failed scn the fill color is still the Pattern-space
	// placeholder, so the trailing fill leaves no marks either
	if !isWhite(pix, 80, 20) {
		t.Error("paint in unset pattern space left marks")
	}
}

func TestRenderWindingRules(t *testing.T) {
	// two concentric rectangles wound the same way: nonzero fills the
	// ring and the hole, even-odd leaves the hole empty
	ring := "10 10 m 90 10 l 90 90 l 10 90 l h " +
		"30 30 m 70 30 l 70 70 l 30 70 l h "

	nz, _ := renderContent(t, 100, 100, "1 0 0 rg "+ring+"f")
	if !isRed(nz, 50, 50) {
		t.Error("nonzero fill left the center empty")
	}

	eo, _ := renderContent(t, 100, 100, "1 0 0 rg "+ring+"f*")
	if !isWhite(eo, 50, 50) {
		t.Error("even-odd fill painted the center")
	}
	if !isRed(eo, 20, 50) {
		t.Error("even-odd fill left the ring empty")
	}
}

func TestRenderClip(t *testing.T) {
	content := "q 40 40 20 20 re W n 1 0 0 rg 0 0 100 100 re f Q"
	pix, _ := renderContent(t, 100, 100, content)

	if !isRed(pix, 50, 50) {
		t.Error("pixel inside the clip is not red")
	}
	if !isWhite(pix, 20, 20) || !isWhite(pix, 80, 80) {
		t.Error("paint leaked outside the clip")
	}
}
