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

import "sync/atomic"

// A Cookie allows one render call to be observed and cancelled from
// another goroutine. The interpreter polls the abort flag between
// operators, never inside scanline loops, so cancellation takes effect
// within a bounded number of operators.
//
// All methods are safe for concurrent use. A nil *Cookie is valid and
// disables both cancellation and progress reporting.
type Cookie struct {
	abort    atomic.Bool
	progress atomic.Int64

	// the estimate plus one, so that the zero value reports -1
	progressMax atomic.Int64
}

// Abort requests that the render using this cookie stops at the next
// poll point. The render returns a partial result, not an error.
func (c *Cookie) Abort() {
	if c == nil {
		return
	}
	c.abort.Store(true)
}

// Aborted reports whether Abort has been called.
func (c *Cookie) Aborted() bool {
	if c == nil {
		return false
	}
	return c.abort.Load()
}

// Progress returns the number of operators processed so far and, if
// known, an estimate of the total. The estimate is -1 until
// SetProgressMax is called; display list replay sets it to the number
// of recorded commands.
func (c *Cookie) Progress() (done, total int64) {
	if c == nil {
		return 0, -1
	}
	return c.progress.Load(), c.progressMax.Load() - 1
}

// Step records one processed operator. Called by the interpreter.
func (c *Cookie) Step() {
	if c == nil {
		return
	}
	c.progress.Add(1)
}

// SetProgressMax records an estimate of the total number of operators.
func (c *Cookie) SetProgressMax(n int64) {
	if c == nil {
		return
	}
	c.progressMax.Store(n + 1)
}

// Reset clears the abort flag and progress counters so the cookie can
// be reused for another render.
func (c *Cookie) Reset() {
	if c == nil {
		return
	}
	c.abort.Store(false)
	c.progress.Store(0)
	c.progressMax.Store(0)
}
