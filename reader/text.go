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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/fitz"
)

// pageFont is a font resource prepared for glyph layout.
type pageFont struct {
	font fitz.Font
}

// showText implements the glyph layout shared by the text-showing
// operators: each glyph is placed by the text matrix, which then
// advances by the glyph width adjusted for character and word spacing.
func (r *Reader) showText(s pdf.String) error {
	st := r.state
	pf, err := r.currentFont()
	if err != nil || pf == nil {
		// text without a usable font leaves no marks
		return nil
	}

	ts := &st.Text
	span := &fitz.TextSpan{
		Font:  pf.font,
		WMode: pf.font.WritingMode(),
	}

	// maps glyph space to text space at the current font size
	scale := matrix.Matrix{ts.FontSize * ts.Scale, 0, 0, ts.FontSize, 0, ts.Rise}

	pf.font.ForeachGlyph(s, func(gid uint32, width float64, isSpace bool) {
		span.Glyphs = append(span.Glyphs, fitz.Glyph{
			GID:    gid,
			Matrix: scale.Mul(st.TextMatrix),
		})

		tx := (width*ts.FontSize + ts.CharSpacing) * ts.Scale
		if isSpace {
			tx += ts.WordSpacing * ts.Scale
		}
		st.TextMatrix = matrix.Translate(tx, 0).Mul(st.TextMatrix)
	})

	if span.IsEmpty() {
		return nil
	}

	// render modes 4-7 additionally clip; the clip part is not
	// supported and the paint part is kept
	switch ts.Render % 4 {
	case 0:
		r.marks++
		return r.dev.FillText(span, st.CTM, st.fillCol(), st.FillAlpha)
	case 1:
		r.marks++
		return r.dev.StrokeText(span, st.Stroke, st.CTM, st.strokeCol(), st.StrokeAlpha)
	case 2:
		r.marks++
		if err := r.dev.FillText(span, st.CTM, st.fillCol(), st.FillAlpha); err != nil {
			return err
		}
		return r.dev.StrokeText(span, st.Stroke, st.CTM, st.strokeCol(), st.StrokeAlpha)
	default: // invisible
		return nil
	}
}

// currentFont returns the font selected by the last Tf operator,
// loading and caching it on first use.
func (r *Reader) currentFont() (*pageFont, error) {
	name := r.state.Text.FontName
	if name == "" {
		return nil, nil
	}
	if pf, ok := r.fontCache[name]; ok {
		return pf, nil
	}

	dict, err := pdf.GetDictTyped(r.R, r.res.Font[name], "Font")
	if err != nil || dict == nil {
		r.fontCache[name] = nil
		return nil, err
	}

	var font fitz.Font
	if r.LoadFont != nil {
		font, err = r.LoadFont(r.R, dict)
		if err != nil {
			font = nil
		}
	}
	if font == nil {
		font, err = r.widthsOnlyFont(dict)
		if err != nil {
			r.fontCache[name] = nil
			return nil, err
		}
	}

	pf := &pageFont{font: font}
	r.fontCache[name] = pf
	return pf, nil
}

// widthsOnlyFont builds a Font from the metric information in the font
// dictionary alone. Glyphs laid out with it have correct positions but
// no outlines.
func (r *Reader) widthsOnlyFont(dict pdf.Dict) (fitz.Font, error) {
	subtype, _ := pdf.GetName(r.R, dict["Subtype"])
	if subtype == "Type0" {
		return r.readCIDWidths(dict)
	}

	f := &simpleFont{missing: 0.5}

	if fd, err := pdf.GetDict(r.R, dict["FontDescriptor"]); err == nil && fd != nil {
		if mw, err := pdf.GetNumber(r.R, fd["MissingWidth"]); err == nil && fd["MissingWidth"] != nil {
			f.missing = float64(mw) / 1000
		}
	}
	if fc, err := pdf.GetInteger(r.R, dict["FirstChar"]); err == nil {
		f.firstChar = int(fc)
	}
	if ws, err := pdf.GetFloatArray(r.R, dict["Widths"]); err == nil && len(ws) > 0 {
		f.widths = make([]float64, len(ws))
		for i, w := range ws {
			f.widths[i] = w / 1000
		}
	}
	return f, nil
}

// simpleFont lays out single-byte codes using the Widths array of a
// simple font dictionary.
type simpleFont struct {
	firstChar int
	widths    []float64
	missing   float64
}

func (f *simpleFont) ForeachGlyph(s []byte, yield func(gid uint32, width float64, isSpace bool)) {
	for _, b := range s {
		w := f.missing
		if i := int(b) - f.firstChar; i >= 0 && i < len(f.widths) {
			w = f.widths[i]
		}
		yield(uint32(b), w, b == 32)
	}
}

func (f *simpleFont) GlyphPath(gid uint32) *fitz.Path { return nil }
func (f *simpleFont) WritingMode() int                { return 0 }

// readCIDWidths reads the W and DW entries of the descendant of a
// Type0 font. Only two-byte (identity) encodings are laid out.
func (r *Reader) readCIDWidths(dict pdf.Dict) (fitz.Font, error) {
	f := &cidFont{
		defaultWidth: 1.0,
		widths:       make(map[uint32]float64),
	}

	desc, err := pdf.GetArray(r.R, dict["DescendantFonts"])
	if err != nil || len(desc) == 0 {
		return f, nil
	}
	cidDict, err := pdf.GetDict(r.R, desc[0])
	if err != nil || cidDict == nil {
		return f, nil
	}

	if dw, err := pdf.GetNumber(r.R, cidDict["DW"]); err == nil && cidDict["DW"] != nil {
		f.defaultWidth = float64(dw) / 1000
	}

	wArr, err := pdf.GetArray(r.R, cidDict["W"])
	if err != nil {
		return f, nil
	}
	// W is a list of either "c [w1 w2 ...]" or "c1 c2 w" entries
	for i := 0; i < len(wArr); {
		first, err := pdf.GetInteger(r.R, wArr[i])
		if err != nil || i+1 >= len(wArr) {
			break
		}
		next, err := pdf.Resolve(r.R, wArr[i+1])
		if err != nil {
			break
		}
		if ws, ok := next.(pdf.Array); ok {
			for j, wObj := range ws {
				if w, err := pdf.GetNumber(r.R, wObj); err == nil {
					f.widths[uint32(int(first)+j)] = float64(w) / 1000
				}
			}
			i += 2
		} else {
			if i+2 >= len(wArr) {
				break
			}
			last, err1 := pdf.GetInteger(r.R, wArr[i+1])
			w, err2 := pdf.GetNumber(r.R, wArr[i+2])
			if err1 == nil && err2 == nil {
				for c := first; c <= last && c-first < 65536; c++ {
					f.widths[uint32(c)] = float64(w) / 1000
				}
			}
			i += 3
		}
	}
	return f, nil
}

// cidFont lays out two-byte codes using CID widths.
type cidFont struct {
	defaultWidth float64
	widths       map[uint32]float64
}

func (f *cidFont) ForeachGlyph(s []byte, yield func(gid uint32, width float64, isSpace bool)) {
	for i := 0; i+1 < len(s); i += 2 {
		cid := uint32(s[i])<<8 | uint32(s[i+1])
		w, ok := f.widths[cid]
		if !ok {
			w = f.defaultWidth
		}
		yield(cid, w, false)
	}
}

func (f *cidFont) GlyphPath(gid uint32) *fitz.Path { return nil }
func (f *cidFont) WritingMode() int                { return 0 }
