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

package reader

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/fitz"
)

// testFontRes builds a resource dictionary with a simple font under
// /F1. 'A' is 500/1000 wide, 'B' is 600/1000.
func testFontRes() *pdf.Resources {
	return &pdf.Resources{
		Font: pdf.Dict{
			"F1": pdf.Dict{
				"Type":      pdf.Name("Font"),
				"Subtype":   pdf.Name("Type1"),
				"FirstChar": pdf.Integer(65),
				"Widths":    pdf.Array{pdf.Integer(500), pdf.Integer(600)},
			},
		},
	}
}

func glyphXs(t *testing.T, c call) []float64 {
	t.Helper()
	if c.text == nil {
		t.Fatal("no text span")
	}
	xs := make([]float64, len(c.text.Glyphs))
	for i, g := range c.text.Glyphs {
		xs[i] = g.Matrix[4]
	}
	return xs
}

func approxEq(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestShowText(t *testing.T) {
	dev := render(t, "BT /F1 10 Tf 100 50 Td (AB) Tj ET", testFontRes())

	if len(dev.calls) != 1 || dev.calls[0].op != "fillText" {
		t.Fatalf("calls = %v", dev.ops())
	}
	span := dev.calls[0].text
	if len(span.Glyphs) != 2 {
		t.Fatalf("got %d glyphs", len(span.Glyphs))
	}
	if span.Glyphs[0].GID != 'A' || span.Glyphs[1].GID != 'B' {
		t.Errorf("gids = %d, %d", span.Glyphs[0].GID, span.Glyphs[1].GID)
	}
	want := matrix.Matrix{10, 0, 0, 10, 100, 50}
	if got := span.Glyphs[0].Matrix; got != want {
		t.Errorf("first glyph matrix = %v, want %v", got, want)
	}
	// 'A' advances by 500/1000 * 10 = 5
	if xs := glyphXs(t, dev.calls[0]); !approxEq(xs, []float64{100, 105}) {
		t.Errorf("glyph positions = %v", xs)
	}
}

func TestCharSpacing(t *testing.T) {
	dev := render(t, "BT /F1 10 Tf 2 Tc (AA) Tj ET", testFontRes())
	if xs := glyphXs(t, dev.calls[0]); !approxEq(xs, []float64{0, 7}) {
		t.Errorf("glyph positions = %v", xs)
	}
}

func TestWordSpacing(t *testing.T) {
	// code 32 triggers word spacing; its width comes from MissingWidth
	dev := render(t, "BT /F1 10 Tf 4 Tw (A A) Tj ET", testFontRes())
	// 'A' at 0 advances 5; space at 5 advances 0.5*10 + 4 = 9
	if xs := glyphXs(t, dev.calls[0]); !approxEq(xs, []float64{0, 5, 14}) {
		t.Errorf("glyph positions = %v", xs)
	}
}

func TestHorizontalScaling(t *testing.T) {
	dev := render(t, "BT /F1 10 Tf 50 Tz (AA) Tj ET", testFontRes())
	span := dev.calls[0].text
	if got := span.Glyphs[0].Matrix[0]; got != 5 {
		t.Errorf("glyph x scale = %g, want 5", got)
	}
	if xs := glyphXs(t, dev.calls[0]); !approxEq(xs, []float64{0, 2.5}) {
		t.Errorf("glyph positions = %v", xs)
	}
}

func TestTJAdjustment(t *testing.T) {
	dev := render(t, "BT /F1 10 Tf [(A) -500 (A)] TJ ET", testFontRes())

	if len(dev.calls) != 2 {
		t.Fatalf("calls = %v", dev.ops())
	}
	// first 'A' at 0, advance 5, then -(-500)/1000 * 10 = +5
	if xs := glyphXs(t, dev.calls[1]); !approxEq(xs, []float64{10}) {
		t.Errorf("second span position = %v", xs)
	}
}

func TestTextLeading(t *testing.T) {
	dev := render(t, "BT /F1 10 Tf 14 TL 0 100 Td (A) Tj T* (A) Tj ET", testFontRes())

	if len(dev.calls) != 2 {
		t.Fatalf("calls = %v", dev.ops())
	}
	g := dev.calls[1].text.Glyphs[0]
	if g.Matrix[4] != 0 || g.Matrix[5] != 86 {
		t.Errorf("second line glyph at (%g, %g), want (0, 86)", g.Matrix[4], g.Matrix[5])
	}
}

func TestApostropheOperator(t *testing.T) {
	a := render(t, "BT /F1 10 Tf 14 TL 0 100 Td (A) Tj T* (A) Tj ET", testFontRes())
	b := render(t, "BT /F1 10 Tf 14 TL 0 100 Td (A) Tj (A) ' ET", testFontRes())

	ga := a.calls[1].text.Glyphs[0]
	gb := b.calls[1].text.Glyphs[0]
	if ga.Matrix != gb.Matrix {
		t.Errorf("' placed glyph at %v, T* Tj at %v", gb.Matrix, ga.Matrix)
	}
}

func TestTextRise(t *testing.T) {
	dev := render(t, "BT /F1 10 Tf 3 Ts (A) Tj ET", testFontRes())
	if got := dev.calls[0].text.Glyphs[0].Matrix[5]; got != 3 {
		t.Errorf("glyph y = %g, want 3", got)
	}
}

func TestTextRenderModes(t *testing.T) {
	cases := []struct {
		mode string
		want []string
	}{
		{"0", []string{"fillText"}},
		{"1", []string{"strokeText"}},
		{"2", []string{"fillText", "strokeText"}},
		{"3", nil},
		{"7", nil}, // clip-only, paint part absent
	}
	for _, c := range cases {
		dev := render(t, "BT /F1 10 Tf "+c.mode+" Tr (A) Tj ET", testFontRes())
		got := dev.ops()
		if len(got) != len(c.want) {
			t.Errorf("mode %s: calls = %v, want %v", c.mode, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("mode %s: calls = %v, want %v", c.mode, got, c.want)
				break
			}
		}
	}
}

func TestTextWithoutFont(t *testing.T) {
	dev := render(t, "BT (hello) Tj ET", nil)
	if len(dev.calls) != 0 {
		t.Errorf("text without a font painted: %v", dev.ops())
	}
}

func TestMissingWidthFallback(t *testing.T) {
	res := &pdf.Resources{
		Font: pdf.Dict{
			"F1": pdf.Dict{
				"Type":    pdf.Name("Font"),
				"Subtype": pdf.Name("Type1"),
				"FontDescriptor": pdf.Dict{
					"MissingWidth": pdf.Integer(250),
				},
			},
		},
	}
	dev := render(t, "BT /F1 10 Tf (AA) Tj ET", res)
	if xs := glyphXs(t, dev.calls[0]); !approxEq(xs, []float64{0, 2.5}) {
		t.Errorf("glyph positions = %v", xs)
	}
}

func TestCIDFontWidths(t *testing.T) {
	res := &pdf.Resources{
		Font: pdf.Dict{
			"F1": pdf.Dict{
				"Type":    pdf.Name("Font"),
				"Subtype": pdf.Name("Type0"),
				"DescendantFonts": pdf.Array{
					pdf.Dict{
						"DW": pdf.Integer(500),
						"W": pdf.Array{
							pdf.Integer(1), pdf.Array{pdf.Integer(800)},
							pdf.Integer(3), pdf.Integer(5), pdf.Integer(300),
						},
					},
				},
			},
		},
	}
	// codes 1, 4 and 9: widths 800, 300 and the 500 default
	dev := render(t, "BT /F1 10 Tf (\x00\x01\x00\x04\x00\x09) Tj ET", res)

	span := dev.calls[0].text
	if len(span.Glyphs) != 3 {
		t.Fatalf("got %d glyphs", len(span.Glyphs))
	}
	if span.Glyphs[0].GID != 1 || span.Glyphs[1].GID != 4 || span.Glyphs[2].GID != 9 {
		t.Errorf("gids = %v", span.Glyphs)
	}
	if xs := glyphXs(t, dev.calls[0]); !approxEq(xs, []float64{0, 8, 11}) {
		t.Errorf("glyph positions = %v", xs)
	}
}

func TestLoadFontHook(t *testing.T) {
	dev := &captureDevice{}
	rd := New(nil, dev, nil)

	var sawDict pdf.Dict
	rd.LoadFont = func(g pdf.Getter, dict pdf.Dict) (fitz.Font, error) {
		sawDict = dict
		return &simpleFont{missing: 1}, nil
	}

	_, err := rd.Render(contentStream("BT /F1 10 Tf (AA) Tj ET"), testFontRes(), matrix.Identity)
	if err != nil {
		t.Fatal(err)
	}
	if sawDict == nil {
		t.Fatal("LoadFont was not called")
	}
	// the hook's metrics are used: advance 1*10 = 10
	if xs := glyphXs(t, dev.calls[0]); !approxEq(xs, []float64{0, 10}) {
		t.Errorf("glyph positions = %v", xs)
	}
}
