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
)

// listCmd identifies a recorded device call.
type listCmd uint8

const (
	cmdFillPath listCmd = iota
	cmdStrokePath
	cmdClipPath
	cmdClipStrokePath
	cmdPopClip
	cmdFillText
	cmdStrokeText
	cmdFillImage
	cmdFillShading
	cmdBeginGroup
	cmdEndGroup
	cmdBeginTile
	cmdEndTile
)

// listEntry is one recorded call with its arguments. Unused fields
// stay at their zero value.
type listEntry struct {
	cmd     listCmd
	path    *Path
	text    *TextSpan
	image   *Image
	shading *Shading
	stroke  *StrokeState
	ctm     matrix.Matrix
	col     Color
	alpha   float64
	evenOdd bool

	// group/tile arguments
	bbox     rect.Rect
	view     rect.Rect
	isolated bool
	knockout bool
	blend    BlendMode
	xStep    float64
	yStep    float64
}

// DisplayList records device calls so that a page's paint program can
// be replayed against multiple devices or transforms without running
// the interpreter again.
//
// DisplayList implements Device for recording. Replaying a finished
// list from multiple goroutines at once is safe as long as no more
// calls are recorded.
type DisplayList struct {
	BaseDevice

	cmds []listEntry
}

// NewDisplayList returns an empty display list.
func NewDisplayList() *DisplayList {
	return &DisplayList{}
}

// Len returns the number of recorded calls.
func (l *DisplayList) Len() int {
	return len(l.cmds)
}

// Replay plays the recorded calls into dev. The transform is applied
// on top of each recorded CTM, so one list can serve several zoom
// levels. A nil cookie disables cancellation.
func (l *DisplayList) Replay(dev Device, transform matrix.Matrix, cookie *Cookie) error {
	cookie.SetProgressMax(int64(len(l.cmds)))
	for i := range l.cmds {
		if cookie.Aborted() {
			return nil
		}
		e := &l.cmds[i]
		ctm := e.ctm.Mul(transform)

		var err error
		switch e.cmd {
		case cmdFillPath:
			err = dev.FillPath(e.path, e.evenOdd, ctm, e.col, e.alpha)
		case cmdStrokePath:
			err = dev.StrokePath(e.path, e.stroke, ctm, e.col, e.alpha)
		case cmdClipPath:
			err = dev.ClipPath(e.path, e.evenOdd, ctm)
		case cmdClipStrokePath:
			err = dev.ClipStrokePath(e.path, e.stroke, ctm)
		case cmdPopClip:
			err = dev.PopClip()
		case cmdFillText:
			err = dev.FillText(e.text, ctm, e.col, e.alpha)
		case cmdStrokeText:
			err = dev.StrokeText(e.text, e.stroke, ctm, e.col, e.alpha)
		case cmdFillImage:
			err = dev.FillImage(e.image, ctm, e.alpha)
		case cmdFillShading:
			err = dev.FillShading(e.shading, ctm, e.alpha)
		case cmdBeginGroup:
			err = dev.BeginGroup(TransformRect(e.bbox, transform), e.isolated, e.knockout, e.blend, e.alpha)
		case cmdEndGroup:
			err = dev.EndGroup()
		case cmdBeginTile:
			err = dev.BeginTile(TransformRect(e.bbox, transform), TransformRect(e.view, transform), e.xStep, e.yStep, ctm)
		case cmdEndTile:
			err = dev.EndTile()
		}
		if err != nil {
			return err
		}
		cookie.Step()
	}
	return nil
}

func (l *DisplayList) FillPath(p *Path, evenOdd bool, ctm matrix.Matrix, col Color, alpha float64) error {
	l.cmds = append(l.cmds, listEntry{
		cmd: cmdFillPath, path: p.Clone(), evenOdd: evenOdd,
		ctm: ctm, col: col.Clone(), alpha: alpha,
	})
	return nil
}

func (l *DisplayList) StrokePath(p *Path, ss *StrokeState, ctm matrix.Matrix, col Color, alpha float64) error {
	l.cmds = append(l.cmds, listEntry{
		cmd: cmdStrokePath, path: p.Clone(), stroke: ss.Clone(),
		ctm: ctm, col: col.Clone(), alpha: alpha,
	})
	return nil
}

func (l *DisplayList) ClipPath(p *Path, evenOdd bool, ctm matrix.Matrix) error {
	l.cmds = append(l.cmds, listEntry{
		cmd: cmdClipPath, path: p.Clone(), evenOdd: evenOdd, ctm: ctm,
	})
	return nil
}

func (l *DisplayList) ClipStrokePath(p *Path, ss *StrokeState, ctm matrix.Matrix) error {
	l.cmds = append(l.cmds, listEntry{
		cmd: cmdClipStrokePath, path: p.Clone(), stroke: ss.Clone(), ctm: ctm,
	})
	return nil
}

func (l *DisplayList) PopClip() error {
	l.cmds = append(l.cmds, listEntry{cmd: cmdPopClip})
	return nil
}

func (l *DisplayList) FillText(t *TextSpan, ctm matrix.Matrix, col Color, alpha float64) error {
	l.cmds = append(l.cmds, listEntry{
		cmd: cmdFillText, text: cloneSpan(t), ctm: ctm, col: col.Clone(), alpha: alpha,
	})
	return nil
}

func (l *DisplayList) StrokeText(t *TextSpan, ss *StrokeState, ctm matrix.Matrix, col Color, alpha float64) error {
	l.cmds = append(l.cmds, listEntry{
		cmd: cmdStrokeText, text: cloneSpan(t), stroke: ss.Clone(),
		ctm: ctm, col: col.Clone(), alpha: alpha,
	})
	return nil
}

func (l *DisplayList) FillImage(img *Image, ctm matrix.Matrix, alpha float64) error {
	// Images are immutable once decoded, no copy needed.
	l.cmds = append(l.cmds, listEntry{cmd: cmdFillImage, image: img, ctm: ctm, alpha: alpha})
	return nil
}

func (l *DisplayList) FillShading(sh *Shading, ctm matrix.Matrix, alpha float64) error {
	l.cmds = append(l.cmds, listEntry{cmd: cmdFillShading, shading: sh, ctm: ctm, alpha: alpha})
	return nil
}

func (l *DisplayList) BeginGroup(bbox rect.Rect, isolated, knockout bool, blend BlendMode, alpha float64) error {
	l.cmds = append(l.cmds, listEntry{
		cmd: cmdBeginGroup, bbox: bbox, isolated: isolated, knockout: knockout,
		blend: blend, alpha: alpha,
	})
	return nil
}

func (l *DisplayList) EndGroup() error {
	l.cmds = append(l.cmds, listEntry{cmd: cmdEndGroup})
	return nil
}

func (l *DisplayList) BeginTile(area, view rect.Rect, xStep, yStep float64, ctm matrix.Matrix) error {
	l.cmds = append(l.cmds, listEntry{
		cmd: cmdBeginTile, bbox: area, view: view, xStep: xStep, yStep: yStep, ctm: ctm,
	})
	return nil
}

func (l *DisplayList) EndTile() error {
	l.cmds = append(l.cmds, listEntry{cmd: cmdEndTile})
	return nil
}

func cloneSpan(t *TextSpan) *TextSpan {
	return &TextSpan{
		Font:   t.Font,
		Glyphs: append([]Glyph(nil), t.Glyphs...),
		WMode:  t.WMode,
	}
}
