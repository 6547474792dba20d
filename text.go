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

import "seehuhn.de/go/geom/matrix"

// Font supplies glyph metrics and outlines for the text operators.
// Outline extraction from font programs is not part of this module;
// implementations wrap a font library or embedded font data.
//
// Fonts are shared between concurrent renders and must be immutable.
type Font interface {
	// ForeachGlyph decodes a PDF string into glyphs. For each glyph,
	// yield is called with the glyph ID, the advance width in text
	// space at font size 1, and whether the code is a single byte 32
	// (for word spacing).
	ForeachGlyph(s []byte, yield func(gid uint32, width float64, isSpace bool))

	// GlyphPath returns the outline of a glyph, scaled so that the
	// font's em square is the unit square. Nil means no outline.
	GlyphPath(gid uint32) *Path

	// WritingMode returns 0 for horizontal, 1 for vertical writing.
	WritingMode() int
}

// A Glyph is a single positioned glyph in a text span.
type Glyph struct {
	GID uint32

	// Matrix maps the glyph's em-square coordinates to user space.
	Matrix matrix.Matrix
}

// A TextSpan is a run of glyphs sharing one font, painted by a single
// text-showing operator.
type TextSpan struct {
	Font   Font
	Glyphs []Glyph

	// WMode is 0 for horizontal, 1 for vertical writing.
	WMode int
}

// IsEmpty reports whether the span contains no glyphs.
func (t *TextSpan) IsEmpty() bool {
	return len(t.Glyphs) == 0
}
