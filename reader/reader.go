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

// Package reader interprets PDF content streams and forwards the
// described marks to a device.
package reader

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/fitz"
	"seehuhn.de/go/fitz/color"
)

// Status reports how far page rendering got.
type Status int

const (
	// Completed means the whole content stream was processed.
	Completed Status = iota

	// Partial means rendering stopped early, either because the cookie
	// was aborted or because the content stream was damaged beyond the
	// point where processing could continue.
	Partial

	// Failed means no marks were rendered.
	Failed
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case Partial:
		return "partial"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// maxFormDepth bounds the nesting of form XObjects to protect against
// self-referencing resource dictionaries.
const maxFormDepth = 16

// A Reader interprets a PDF content stream against a device.
type Reader struct {
	// R resolves indirect objects. It may be nil if the content stream
	// does not reference any.
	R pdf.Getter

	// LoadFont, if non-nil, turns a font dictionary into a Font with
	// glyph outlines. When nil, text is laid out using the width
	// information from the font dictionary and glyphs have no outlines.
	LoadFont func(r pdf.Getter, fontDict pdf.Dict) (fitz.Font, error)

	dev    fitz.Device
	cookie *fitz.Cookie

	res      *pdf.Resources
	resStack []*pdf.Resources

	state *state
	stack []*state

	// baseCTM is the matrix the page content stream started with;
	// pattern matrices are relative to it.
	baseCTM matrix.Matrix

	path        *fitz.Path
	pendingClip clipMode

	clipCount int

	csCache   map[pdf.Name]color.Space
	fontCache map[pdf.Name]*pageFont
	formDepth int

	// number of marks sent to the device; used to distinguish Partial
	// from Failed
	marks int
}

type clipMode int

const (
	clipNone clipMode = iota
	clipNonZero
	clipEvenOdd
)

// New returns a Reader that sends marks to dev. cookie may be nil.
func New(r pdf.Getter, dev fitz.Device, cookie *fitz.Cookie) *Reader {
	return &Reader{
		R:      r,
		dev:    dev,
		cookie: cookie,
	}
}

// RenderPage interprets the content stream of a page dictionary,
// sending the resulting marks to dev. ctm maps user space (PDF default
// coordinates) to device space. Rendering stops early when the cookie
// is aborted.
func RenderPage(r pdf.Getter, page pdf.Dict, ctm matrix.Matrix, dev fitz.Device, cookie *fitz.Cookie) (Status, error) {
	rd := New(r, dev, cookie)

	res := &pdf.Resources{}
	resDict, err := pdf.GetDict(r, page["Resources"])
	if err == nil && resDict != nil {
		err = pdf.DecodeDict(r, res, resDict)
	}
	if err != nil && !pdf.IsMalformed(err) {
		return Failed, err
	}

	return rd.Render(page["Contents"], res, ctm)
}

// Render interprets a content stream (a stream or an array of streams)
// with the given resources.
func (r *Reader) Render(contents pdf.Object, res *pdf.Resources, ctm matrix.Matrix) (Status, error) {
	if res == nil {
		res = &pdf.Resources{}
	}
	r.res = res
	r.baseCTM = ctm
	r.state = newState(ctm)
	r.stack = r.stack[:0]
	r.path = &fitz.Path{}
	r.pendingClip = clipNone
	r.clipCount = 0
	r.csCache = make(map[pdf.Name]color.Space)
	r.fontCache = make(map[pdf.Name]*pageFont)
	r.marks = 0

	err := r.renderContents(contents)

	// rebalance the device clip stack
	for r.clipCount > 0 {
		r.dev.PopClip()
		r.clipCount--
	}
	if closeErr := r.dev.Close(); err == nil {
		err = closeErr
	}

	switch {
	case err == nil:
		return Completed, nil
	case err == errAborted:
		// cancellation is not an error; the caller keeps whatever was
		// composited so far
		return Partial, nil
	case r.marks > 0:
		return Partial, err
	default:
		return Failed, err
	}
}

// errAborted terminates the render loop when the cookie is aborted.
var errAborted = errors.New("rendering aborted")

func (r *Reader) renderContents(obj pdf.Object) error {
	contents, err := pdf.Resolve(r.R, obj)
	if err != nil {
		return err
	}
	switch contents := contents.(type) {
	case *pdf.Stream:
		return r.renderStream(contents)
	case pdf.Array:
		// multiple content streams form a single token stream
		readers := make([]io.Reader, 0, len(contents))
		for _, ref := range contents {
			stm, err := pdf.GetStream(r.R, ref)
			if err != nil || stm == nil {
				continue
			}
			body, err := pdf.DecodeStream(r.R, stm, 0)
			if err != nil {
				continue
			}
			// a token may not span two streams, so separate them
			readers = append(readers, body, spacer{})
		}
		return r.interpret(io.MultiReader(readers...))
	case nil:
		return nil
	default:
		return &pdf.MalformedFileError{
			Err: fmt.Errorf("unexpected type %T for content stream", contents),
		}
	}
}

// spacer yields a single whitespace byte, used to separate concatenated
// content streams.
type spacer struct {
	done bool
}

func (s spacer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	p[0] = '\n'
	return 1, io.EOF
}

func (r *Reader) renderStream(stm *pdf.Stream) error {
	body, err := pdf.DecodeStream(r.R, stm, 0)
	if err != nil {
		return err
	}
	return r.interpret(body)
}

// interpret runs the operator loop over one token stream.
func (r *Reader) interpret(in io.Reader) error {
	s := newScanner(in)
	log := fitz.Logger()

	var args []pdf.Object
	for {
		if r.cookie.Aborted() {
			return errAborted
		}

		obj, err := s.Next()
		if err == io.EOF {
			return nil
		}
		if _, damaged := err.(*scannerError); damaged {
			// resynchronize: discard pending operands and scan on
			log.Debug("damaged content skipped", "err", err)
			args = args[:0]
			continue
		}
		if err != nil {
			return err
		}

		if op, ok := obj.(pdf.Operator); ok {
			err := r.do(s, op, args)
			if err == errAborted {
				return err
			}
			if err != nil {
				// a failed operator does not abort the page
				log.Debug("operator failed", "op", string(op), "err", err)
			}
			r.cookie.Step()
			args = args[:0]
		} else {
			if len(args) > 32 {
				// malformed stream, discard the oldest operand
				copy(args, args[1:])
				args = args[:len(args)-1]
			}
			args = append(args, obj)
		}
	}
}

// do executes a single operator.
func (r *Reader) do(s *scanner, op pdf.Operator, args []pdf.Object) error {
	st := r.state

	getNum := func() (float64, bool) {
		if len(args) == 0 {
			return 0, false
		}
		x, ok := getNumber(args[0])
		args = args[1:]
		return x, ok
	}
	getInteger := func() (int, bool) {
		if len(args) == 0 {
			return 0, false
		}
		x, ok := args[0].(pdf.Integer)
		args = args[1:]
		return int(x), ok
	}
	getName := func() (pdf.Name, bool) {
		if len(args) == 0 {
			return "", false
		}
		x, ok := args[0].(pdf.Name)
		args = args[1:]
		return x, ok
	}
	getString := func() (pdf.String, bool) {
		if len(args) == 0 {
			return nil, false
		}
		x, ok := args[0].(pdf.String)
		args = args[1:]
		return x, ok
	}
	getArray := func() (pdf.Array, bool) {
		if len(args) == 0 {
			return nil, false
		}
		x, ok := args[0].(pdf.Array)
		args = args[1:]
		return x, ok
	}
	getNums := func(n int) ([]float64, bool) {
		if len(args) < n {
			return nil, false
		}
		xs := make([]float64, n)
		for i := 0; i < n; i++ {
			x, ok := getNumber(args[i])
			if !ok {
				return nil, false
			}
			xs[i] = x
		}
		args = args[n:]
		return xs, true
	}

	switch op {

	// == General graphics state =========================================

	case "q":
		saved := st.clone()
		saved.clipDepth = r.clipCount
		r.stack = append(r.stack, saved)

	case "Q":
		if len(r.stack) == 0 {
			fitz.Logger().Debug("unmatched Q operator")
			break
		}
		st = r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]
		for r.clipCount > st.clipDepth {
			r.dev.PopClip()
			r.clipCount--
		}
		r.state = st

	case "cm":
		xs, ok := getNums(6)
		if ok {
			m := matrix.Matrix{xs[0], xs[1], xs[2], xs[3], xs[4], xs[5]}
			st.CTM = m.Mul(st.CTM)
		}

	case "w":
		x, ok := getNum()
		if ok && x >= 0 {
			st.Stroke.LineWidth = x
		}

	case "J":
		x, ok := getInteger()
		if ok {
			if x < 0 || x > 2 {
				x = 0
			}
			st.Stroke.LineCap = fitz.LineCapStyle(x)
		}

	case "j":
		x, ok := getInteger()
		if ok {
			if x < 0 || x > 2 {
				x = 0
			}
			st.Stroke.LineJoin = fitz.LineJoinStyle(x)
		}

	case "M":
		x, ok := getNum()
		if ok && x >= 1 {
			st.Stroke.MiterLimit = x
		}

	case "d":
		patObj, ok1 := getArray()
		pattern, ok2 := convertDashPattern(patObj)
		phase, ok3 := getNum()
		if ok1 && ok2 && ok3 {
			st.Stroke.DashPattern = pattern
			st.Stroke.DashPhase = phase
		}

	case "ri", "i":
		// rendering intent and flatness tolerance have no visible
		// effect in this renderer

	case "gs":
		name, ok := getName()
		if ok {
			return r.applyExtGState(name)
		}

	// == Path construction ==============================================

	case "m":
		xs, ok := getNums(2)
		if ok {
			r.path.MoveTo(xs[0], xs[1])
		}

	case "l":
		xs, ok := getNums(2)
		if ok {
			r.path.LineTo(xs[0], xs[1])
		}

	case "c":
		xs, ok := getNums(6)
		if ok {
			r.path.CurveTo(xs[0], xs[1], xs[2], xs[3], xs[4], xs[5])
		}

	case "v":
		xs, ok := getNums(4)
		if ok {
			r.path.CurveToV(xs[0], xs[1], xs[2], xs[3])
		}

	case "y":
		xs, ok := getNums(4)
		if ok {
			r.path.CurveToY(xs[0], xs[1], xs[2], xs[3])
		}

	case "h":
		r.path.ClosePath()

	case "re":
		xs, ok := getNums(4)
		if ok {
			r.path.Rectangle(xs[0], xs[1], xs[2], xs[3])
		}

	// == Path painting ==================================================

	case "S":
		return r.paintPath(false, true, false)
	case "s":
		r.path.ClosePath()
		return r.paintPath(false, true, false)
	case "f", "F":
		return r.paintPath(true, false, false)
	case "f*":
		return r.paintPath(true, false, true)
	case "B":
		return r.paintPath(true, true, false)
	case "B*":
		return r.paintPath(true, true, true)
	case "b":
		r.path.ClosePath()
		return r.paintPath(true, true, false)
	case "b*":
		r.path.ClosePath()
		return r.paintPath(true, true, true)
	case "n":
		return r.paintPath(false, false, false)

	// == Clipping =======================================================

	case "W":
		r.pendingClip = clipNonZero
	case "W*":
		r.pendingClip = clipEvenOdd

	// == Color ==========================================================

	case "CS":
		name, ok := getName()
		if ok {
			sp, err := r.lookupColorSpace(name)
			if err != nil {
				return err
			}
			st.StrokeSpace = sp
			st.StrokeColor = sp.Initial()
			st.StrokePattern = nil
		}

	case "cs":
		name, ok := getName()
		if ok {
			sp, err := r.lookupColorSpace(name)
			if err != nil {
				return err
			}
			st.FillSpace = sp
			st.FillColor = sp.Initial()
			st.FillPattern = nil
		}

	case "SC", "SCN":
		comps, pat := splitColorOperands(args)
		if pat != "" {
			st.StrokePattern = r.res.Pattern[pat]
			// leading operands carry the color of an uncolored pattern
			if len(comps) > 0 {
				st.StrokeColor = comps
			}
		} else if len(comps) > 0 {
			st.StrokeColor = comps
			st.StrokePattern = nil
		}

	case "sc", "scn":
		comps, pat := splitColorOperands(args)
		if pat != "" {
			st.FillPattern = r.res.Pattern[pat]
			if len(comps) > 0 {
				st.FillColor = comps
			}
		} else if len(comps) > 0 {
			st.FillColor = comps
			st.FillPattern = nil
		}

	case "G":
		x, ok := getNum()
		if ok {
			st.StrokeSpace = color.DeviceGray
			st.StrokeColor = []float64{x}
			st.StrokePattern = nil
		}

	case "g":
		x, ok := getNum()
		if ok {
			st.FillSpace = color.DeviceGray
			st.FillColor = []float64{x}
			st.FillPattern = nil
		}

	case "RG":
		xs, ok := getNums(3)
		if ok {
			st.StrokeSpace = color.DeviceRGB
			st.StrokeColor = xs
			st.StrokePattern = nil
		}

	case "rg":
		xs, ok := getNums(3)
		if ok {
			st.FillSpace = color.DeviceRGB
			st.FillColor = xs
			st.FillPattern = nil
		}

	case "K":
		xs, ok := getNums(4)
		if ok {
			st.StrokeSpace = color.DeviceCMYK
			st.StrokeColor = xs
			st.StrokePattern = nil
		}

	case "k":
		xs, ok := getNums(4)
		if ok {
			st.FillSpace = color.DeviceCMYK
			st.FillColor = xs
			st.FillPattern = nil
		}

	// == Shading ========================================================

	case "sh":
		name, ok := getName()
		if ok {
			return r.paintShading(name)
		}

	// == XObjects and inline images =====================================

	case "Do":
		name, ok := getName()
		if ok {
			return r.doXObject(name)
		}

	case "BI":
		// the dict tokens follow, terminated by ID and raw data
		return r.doInlineImage(s)

	// == Text ===========================================================

	case "BT":
		st.TextMatrix = matrix.Identity
		st.TextLineMatrix = matrix.Identity

	case "ET":
		// nothing to flush; spans are emitted per show operator

	case "Tc":
		x, ok := getNum()
		if ok {
			st.Text.CharSpacing = x
		}

	case "Tw":
		x, ok := getNum()
		if ok {
			st.Text.WordSpacing = x
		}

	case "Tz":
		x, ok := getNum()
		if ok {
			st.Text.Scale = x / 100
		}

	case "TL":
		x, ok := getNum()
		if ok {
			st.Text.Leading = x
		}

	case "Tf":
		name, ok1 := getName()
		size, ok2 := getNum()
		if ok1 && ok2 {
			st.Text.FontName = name
			st.Text.FontSize = size
		}

	case "Tr":
		x, ok := getInteger()
		if ok {
			st.Text.Render = x
		}

	case "Ts":
		x, ok := getNum()
		if ok {
			st.Text.Rise = x
		}

	case "Td":
		xs, ok := getNums(2)
		if ok {
			st.TextLineMatrix = matrix.Translate(xs[0], xs[1]).Mul(st.TextLineMatrix)
			st.TextMatrix = st.TextLineMatrix
		}

	case "TD":
		xs, ok := getNums(2)
		if ok {
			st.Text.Leading = -xs[1]
			st.TextLineMatrix = matrix.Translate(xs[0], xs[1]).Mul(st.TextLineMatrix)
			st.TextMatrix = st.TextLineMatrix
		}

	case "Tm":
		xs, ok := getNums(6)
		if ok {
			st.TextLineMatrix = matrix.Matrix{xs[0], xs[1], xs[2], xs[3], xs[4], xs[5]}
			st.TextMatrix = st.TextLineMatrix
		}

	case "T*":
		st.TextLineMatrix = matrix.Translate(0, -st.Text.Leading).Mul(st.TextLineMatrix)
		st.TextMatrix = st.TextLineMatrix

	case "Tj":
		str, ok := getString()
		if ok {
			return r.showText(str)
		}

	case "'":
		str, ok := getString()
		if ok {
			st.TextLineMatrix = matrix.Translate(0, -st.Text.Leading).Mul(st.TextLineMatrix)
			st.TextMatrix = st.TextLineMatrix
			return r.showText(str)
		}

	case "\"":
		aw, ok1 := getNum()
		ac, ok2 := getNum()
		str, ok3 := getString()
		if ok1 && ok2 && ok3 {
			st.Text.WordSpacing = aw
			st.Text.CharSpacing = ac
			st.TextLineMatrix = matrix.Translate(0, -st.Text.Leading).Mul(st.TextLineMatrix)
			st.TextMatrix = st.TextLineMatrix
			return r.showText(str)
		}

	case "TJ":
		arr, ok := getArray()
		if ok {
			for _, item := range arr {
				switch item := item.(type) {
				case pdf.String:
					if err := r.showText(item); err != nil {
						return err
					}
				case pdf.Integer, pdf.Real, pdf.Number:
					adj, _ := getNumber(item)
					tx := -adj / 1000 * st.Text.FontSize * st.Text.Scale
					st.TextMatrix = matrix.Translate(tx, 0).Mul(st.TextMatrix)
				}
			}
		}

	// == Marked content and compatibility ===============================

	case "BMC", "BDC", "EMC", "MP", "DP", "BX", "EX":
		// no visible effect

	default:
		// unknown operator, ignore
	}

	return nil
}

// paintPath fills and/or strokes the current path, applies a pending
// clip, and resets the path.
func (r *Reader) paintPath(fill, stroke, evenOdd bool) error {
	st := r.state
	p := r.path
	var firstErr error

	if fill && !p.IsEmpty() {
		err := r.fillWithBlend(p, evenOdd)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if stroke && !p.IsEmpty() {
		err := r.strokeWithBlend(p)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if r.pendingClip != clipNone {
		err := r.dev.ClipPath(p, r.pendingClip == clipEvenOdd, st.CTM)
		if err == nil {
			r.clipCount++
		} else if firstErr == nil {
			firstErr = err
		}
		r.pendingClip = clipNone
	}

	r.path = &fitz.Path{}
	return firstErr
}

// fillWithBlend fills a path, routing through a transparency group when
// a non-normal blend mode is active.
func (r *Reader) fillWithBlend(p *fitz.Path, evenOdd bool) error {
	st := r.state
	if _, isPat := st.FillSpace.(*color.Pattern); isPat {
		if st.FillPattern == nil {
			// a pattern that did not resolve leaves no marks
			return nil
		}
		return r.paintWithPattern(p, evenOdd, st.FillPattern)
	}
	r.marks++
	if st.Blend != fitz.BlendNormal {
		bbox := p.Bounds(st.CTM)
		if err := r.dev.BeginGroup(bbox, true, false, st.Blend, 1); err != nil {
			return err
		}
		err := r.dev.FillPath(p, evenOdd, st.CTM, st.fillCol(), st.FillAlpha)
		if endErr := r.dev.EndGroup(); err == nil {
			err = endErr
		}
		return err
	}
	return r.dev.FillPath(p, evenOdd, st.CTM, st.fillCol(), st.FillAlpha)
}

func (r *Reader) strokeWithBlend(p *fitz.Path) error {
	st := r.state
	if _, isPat := st.StrokeSpace.(*color.Pattern); isPat {
		if st.StrokePattern == nil {
			return nil
		}
		return r.strokeWithPattern(p, st.StrokePattern)
	}
	r.marks++
	if st.Blend != fitz.BlendNormal {
		bbox := p.Bounds(st.CTM)
		if err := r.dev.BeginGroup(bbox, true, false, st.Blend, 1); err != nil {
			return err
		}
		err := r.dev.StrokePath(p, st.Stroke, st.CTM, st.strokeCol(), st.StrokeAlpha)
		if endErr := r.dev.EndGroup(); err == nil {
			err = endErr
		}
		return err
	}
	return r.dev.StrokePath(p, st.Stroke, st.CTM, st.strokeCol(), st.StrokeAlpha)
}

// applyExtGState merges an ExtGState resource into the current state.
func (r *Reader) applyExtGState(name pdf.Name) error {
	dict, err := pdf.GetDict(r.R, r.res.ExtGState[name])
	if err != nil || dict == nil {
		return err
	}
	st := r.state

	if x, err := pdf.GetNumber(r.R, dict["LW"]); err == nil && dict["LW"] != nil {
		st.Stroke.LineWidth = float64(x)
	}
	if x, err := pdf.GetInteger(r.R, dict["LC"]); err == nil && dict["LC"] != nil {
		if x >= 0 && x <= 2 {
			st.Stroke.LineCap = fitz.LineCapStyle(x)
		}
	}
	if x, err := pdf.GetInteger(r.R, dict["LJ"]); err == nil && dict["LJ"] != nil {
		if x >= 0 && x <= 2 {
			st.Stroke.LineJoin = fitz.LineJoinStyle(x)
		}
	}
	if x, err := pdf.GetNumber(r.R, dict["ML"]); err == nil && dict["ML"] != nil {
		st.Stroke.MiterLimit = float64(x)
	}
	if arr, err := pdf.GetArray(r.R, dict["D"]); err == nil && len(arr) == 2 {
		patArr, _ := pdf.GetArray(r.R, arr[0])
		pattern, ok := convertDashPattern(patArr)
		phase, err2 := pdf.GetNumber(r.R, arr[1])
		if ok && err2 == nil {
			st.Stroke.DashPattern = pattern
			st.Stroke.DashPhase = float64(phase)
		}
	}
	if x, err := pdf.GetNumber(r.R, dict["CA"]); err == nil && dict["CA"] != nil {
		st.StrokeAlpha = clamp01(float64(x))
	}
	if x, err := pdf.GetNumber(r.R, dict["ca"]); err == nil && dict["ca"] != nil {
		st.FillAlpha = clamp01(float64(x))
	}
	if bm := dict["BM"]; bm != nil {
		name, err := pdf.GetName(r.R, bm)
		if err != nil {
			// BM can also be an array of names
			if arr, err2 := pdf.GetArray(r.R, bm); err2 == nil && len(arr) > 0 {
				name, _ = pdf.GetName(r.R, arr[0])
			}
		}
		st.Blend = fitz.BlendModeByName(string(name))
	}
	if fontArr, err := pdf.GetArray(r.R, dict["Font"]); err == nil && len(fontArr) == 2 {
		if size, err := pdf.GetNumber(r.R, fontArr[1]); err == nil {
			st.Text.FontSize = float64(size)
			// the font is given by reference, not by name; drop the
			// cached page font so showText reloads it
			st.Text.FontName = ""
		}
	}
	return nil
}

// getNumber converts the numeric PDF types to float64.
func getNumber(obj pdf.Object) (float64, bool) {
	switch x := obj.(type) {
	case pdf.Integer:
		return float64(x), true
	case pdf.Real:
		return float64(x), true
	case pdf.Number:
		return float64(x), true
	default:
		return 0, false
	}
}

// convertDashPattern converts a PDF dash array to float64 values.
func convertDashPattern(arr pdf.Array) ([]float64, bool) {
	if arr == nil {
		return nil, true
	}
	pattern := make([]float64, len(arr))
	for i, obj := range arr {
		x, ok := getNumber(obj)
		if !ok || x < 0 {
			return nil, false
		}
		pattern[i] = x
	}
	return pattern, true
}

// splitColorOperands separates the numeric components and the optional
// trailing pattern name of a sc/scn operand list.
func splitColorOperands(args []pdf.Object) ([]float64, pdf.Name) {
	var pat pdf.Name
	if len(args) > 0 {
		if name, ok := args[len(args)-1].(pdf.Name); ok {
			pat = name
			args = args[:len(args)-1]
		}
	}
	comps := make([]float64, 0, len(args))
	for _, obj := range args {
		if x, ok := getNumber(obj); ok {
			comps = append(comps, x)
		}
	}
	return comps, pat
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
