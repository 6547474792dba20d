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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/fitz/color"
)

// Color is a paint color: components interpreted in a color space.
type Color struct {
	Space      color.Space
	Components []float64
}

// Black returns opaque black in DeviceGray.
func Black() Color {
	return Color{Space: color.DeviceGray, Components: []float64{0}}
}

// RGB returns a color in DeviceRGB.
func RGB(r, g, b float64) Color {
	return Color{Space: color.DeviceRGB, Components: []float64{r, g, b}}
}

// Clone returns a copy of the color with its own component slice.
func (c Color) Clone() Color {
	c.Components = append([]float64(nil), c.Components...)
	return c
}

// BlendMode selects the compositing formula for painting operations.
type BlendMode uint8

// The separable blend modes of section 11.3.5 of PDF 32000-1:2008.
// Non-separable modes are mapped to BlendNormal.
const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
)

var blendNames = map[BlendMode]string{
	BlendNormal:     "Normal",
	BlendMultiply:   "Multiply",
	BlendScreen:     "Screen",
	BlendOverlay:    "Overlay",
	BlendDarken:     "Darken",
	BlendLighten:    "Lighten",
	BlendColorDodge: "ColorDodge",
	BlendColorBurn:  "ColorBurn",
	BlendHardLight:  "HardLight",
	BlendSoftLight:  "SoftLight",
	BlendDifference: "Difference",
	BlendExclusion:  "Exclusion",
}

func (m BlendMode) String() string {
	if s, ok := blendNames[m]; ok {
		return s
	}
	return "Normal"
}

// BlendModeByName returns the blend mode for a PDF /BM name. Unknown
// and non-separable modes come back as BlendNormal.
func BlendModeByName(name string) BlendMode {
	for m, s := range blendNames {
		if s == name {
			return m
		}
	}
	return BlendNormal
}

// A Device receives the visible side effects of interpreting a content
// stream. The interpreter is written against this interface and does
// not know which implementation it drives.
//
// All coordinates passed to a device are in user space; the ctm
// argument maps them to device space. Errors returned from device
// methods abort the render.
//
// A Device is used by a single render call at a time and need not be
// safe for concurrent use.
type Device interface {
	// FillPath fills a path using the nonzero winding rule, or the
	// even-odd rule if evenOdd is set.
	FillPath(p *Path, evenOdd bool, ctm matrix.Matrix, col Color, alpha float64) error

	// StrokePath strokes a path with the given stroke parameters.
	StrokePath(p *Path, ss *StrokeState, ctm matrix.Matrix, col Color, alpha float64) error

	// ClipPath intersects the clip region with the interior of a path.
	// The clip stays in effect until the matching PopClip.
	ClipPath(p *Path, evenOdd bool, ctm matrix.Matrix) error

	// ClipStrokePath intersects the clip region with the stroked
	// outline of a path.
	ClipStrokePath(p *Path, ss *StrokeState, ctm matrix.Matrix) error

	// PopClip removes the most recently pushed clip.
	PopClip() error

	// FillText fills the glyphs of a text span.
	FillText(t *TextSpan, ctm matrix.Matrix, col Color, alpha float64) error

	// StrokeText strokes the glyph outlines of a text span.
	StrokeText(t *TextSpan, ss *StrokeState, ctm matrix.Matrix, col Color, alpha float64) error

	// FillImage paints an image into the unit square, placed by ctm.
	FillImage(img *Image, ctm matrix.Matrix, alpha float64) error

	// FillShading paints a shading, placed by ctm.
	FillShading(sh *Shading, ctm matrix.Matrix, alpha float64) error

	// BeginGroup starts a transparency group covering bbox (in device
	// space). Marks painted inside the group are composited onto the
	// backdrop as a unit by EndGroup, using the given blend mode and
	// alpha.
	BeginGroup(bbox rect.Rect, isolated, knockout bool, blend BlendMode, alpha float64) error

	// EndGroup ends the innermost transparency group.
	EndGroup() error

	// BeginTile starts recording one tile of a tiling pattern. view is
	// the tile content box, area the region to cover, both in device
	// space. The tile content repeats with the given steps.
	BeginTile(area, view rect.Rect, xStep, yStep float64, ctm matrix.Matrix) error

	// EndTile finishes the tile and replicates it over the area.
	EndTile() error

	// Close flushes the device after the last paint call.
	Close() error
}

// BaseDevice provides no-op implementations of every Device method.
// Embed it to implement only the calls a sink cares about.
type BaseDevice struct{}

func (BaseDevice) FillPath(*Path, bool, matrix.Matrix, Color, float64) error { return nil }

func (BaseDevice) StrokePath(*Path, *StrokeState, matrix.Matrix, Color, float64) error {
	return nil
}

func (BaseDevice) ClipPath(*Path, bool, matrix.Matrix) error { return nil }

func (BaseDevice) ClipStrokePath(*Path, *StrokeState, matrix.Matrix) error { return nil }

func (BaseDevice) PopClip() error { return nil }

func (BaseDevice) FillText(*TextSpan, matrix.Matrix, Color, float64) error { return nil }

func (BaseDevice) StrokeText(*TextSpan, *StrokeState, matrix.Matrix, Color, float64) error {
	return nil
}

func (BaseDevice) FillImage(*Image, matrix.Matrix, float64) error { return nil }

func (BaseDevice) FillShading(*Shading, matrix.Matrix, float64) error { return nil }

func (BaseDevice) BeginGroup(rect.Rect, bool, bool, BlendMode, float64) error { return nil }

func (BaseDevice) EndGroup() error { return nil }

func (BaseDevice) BeginTile(rect.Rect, rect.Rect, float64, float64, matrix.Matrix) error {
	return nil
}

func (BaseDevice) EndTile() error { return nil }

func (BaseDevice) Close() error { return nil }

// NullDevice discards all paint calls.
type NullDevice struct {
	BaseDevice
}
