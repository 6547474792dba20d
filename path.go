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
	"seehuhn.de/go/geom/vec"
)

// PathCmd identifies a path construction command.
type PathCmd byte

// The path construction commands.
const (
	CmdMoveTo PathCmd = iota
	CmdLineTo
	CmdCubeTo
	CmdClose
)

// numCoords gives the number of coordinate points consumed by each command.
var numCoords = [...]int{
	CmdMoveTo: 1,
	CmdLineTo: 1,
	CmdCubeTo: 3,
	CmdClose:  0,
}

// Path is a sequence of subpaths made of line and cubic Bézier segments.
// Coordinates are stored in user space; the CTM is applied when the path
// is painted, not when it is built.
//
// The zero value is an empty path ready for use.
type Path struct {
	Cmds   []PathCmd
	Coords []vec.Vec2

	current    vec.Vec2 // current point
	start      vec.Vec2 // first point of the current subpath
	hasCurrent bool
}

// MoveTo begins a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.Cmds = append(p.Cmds, CmdMoveTo)
	p.Coords = append(p.Coords, vec.Vec2{X: x, Y: y})
	p.current = vec.Vec2{X: x, Y: y}
	p.start = p.current
	p.hasCurrent = true
}

// LineTo appends a line segment from the current point to (x, y).
// Without a current point the call is ignored.
func (p *Path) LineTo(x, y float64) {
	if !p.hasCurrent {
		return
	}
	p.Cmds = append(p.Cmds, CmdLineTo)
	p.Coords = append(p.Coords, vec.Vec2{X: x, Y: y})
	p.current = vec.Vec2{X: x, Y: y}
}

// CurveTo appends a cubic Bézier segment with control points (x1, y1) and
// (x2, y2), ending at (x3, y3).
func (p *Path) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	if !p.hasCurrent {
		return
	}
	p.Cmds = append(p.Cmds, CmdCubeTo)
	p.Coords = append(p.Coords,
		vec.Vec2{X: x1, Y: y1},
		vec.Vec2{X: x2, Y: y2},
		vec.Vec2{X: x3, Y: y3})
	p.current = vec.Vec2{X: x3, Y: y3}
}

// CurveToV appends a cubic Bézier segment using the current point as the
// first control point ("v" operator).
func (p *Path) CurveToV(x2, y2, x3, y3 float64) {
	p.CurveTo(p.current.X, p.current.Y, x2, y2, x3, y3)
}

// CurveToY appends a cubic Bézier segment using the end point as the
// second control point ("y" operator).
func (p *Path) CurveToY(x1, y1, x3, y3 float64) {
	p.CurveTo(x1, y1, x3, y3, x3, y3)
}

// ClosePath closes the current subpath with a line back to its first
// point. The current point moves back to the subpath start.
func (p *Path) ClosePath() {
	if !p.hasCurrent {
		return
	}
	p.Cmds = append(p.Cmds, CmdClose)
	p.current = p.start
}

// Rectangle appends an axis-aligned rectangle as a closed subpath,
// equivalent to a moveto, three linetos and a closepath.
func (p *Path) Rectangle(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.ClosePath()
}

// CurrentPoint returns the current point and whether one exists.
func (p *Path) CurrentPoint() (vec.Vec2, bool) {
	return p.current, p.hasCurrent
}

// IsEmpty reports whether the path contains no commands.
func (p *Path) IsEmpty() bool {
	return len(p.Cmds) == 0
}

// Reset removes all commands, keeping the allocated buffers.
func (p *Path) Reset() {
	p.Cmds = p.Cmds[:0]
	p.Coords = p.Coords[:0]
	p.hasCurrent = false
}

// Clone returns an independent copy of the path.
func (p *Path) Clone() *Path {
	q := &Path{
		Cmds:       append([]PathCmd(nil), p.Cmds...),
		Coords:     append([]vec.Vec2(nil), p.Coords...),
		current:    p.current,
		start:      p.start,
		hasCurrent: p.hasCurrent,
	}
	return q
}

// Transform returns a copy of the path with all coordinates mapped
// through M.
func (p *Path) Transform(M matrix.Matrix) *Path {
	q := p.Clone()
	for i, pt := range q.Coords {
		x, y := M.Apply(pt.X, pt.Y)
		q.Coords[i] = vec.Vec2{X: x, Y: y}
	}
	q.current = applyVec(M, q.current)
	q.start = applyVec(M, q.start)
	return q
}

// Bounds returns a bounding box of the path after transformation by M.
// Bézier segments are bounded by their control hulls, so the result can
// be slightly larger than the exact extent.
func (p *Path) Bounds(M matrix.Matrix) rect.Rect {
	var r rect.Rect
	first := true
	for _, pt := range p.Coords {
		x, y := M.Apply(pt.X, pt.Y)
		if first {
			r = rect.Rect{LLx: x, LLy: y, URx: x, URy: y}
			first = false
			continue
		}
		if x < r.LLx {
			r.LLx = x
		}
		if x > r.URx {
			r.URx = x
		}
		if y < r.LLy {
			r.LLy = y
		}
		if y > r.URy {
			r.URy = y
		}
	}
	return r
}

func applyVec(M matrix.Matrix, v vec.Vec2) vec.Vec2 {
	x, y := M.Apply(v.X, v.Y)
	return vec.Vec2{X: x, Y: y}
}
