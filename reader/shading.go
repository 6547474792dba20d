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
	"github.com/pkg/errors"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/function"

	"seehuhn.de/go/fitz"
	"seehuhn.de/go/fitz/color"
)

// paintShading implements the sh operator: the shading fills the
// current clip region, placed by the current transformation matrix.
func (r *Reader) paintShading(name pdf.Name) error {
	obj, ok := r.res.Shading[name]
	if !ok {
		return errors.Errorf("unknown shading %q", string(name))
	}
	sh, err := r.readShading(obj)
	if err != nil {
		return err
	}
	st := r.state

	if st.Blend != fitz.BlendNormal {
		// there is no geometry to bound the group, use the whole clip
		bbox := rect.Rect{LLx: -1e9, LLy: -1e9, URx: 1e9, URy: 1e9}
		if err := r.dev.BeginGroup(bbox, true, false, st.Blend, 1); err != nil {
			return err
		}
		err := r.dev.FillShading(sh, st.CTM, st.FillAlpha)
		if endErr := r.dev.EndGroup(); err == nil {
			err = endErr
		}
		r.marks++
		return err
	}

	err = r.dev.FillShading(sh, st.CTM, st.FillAlpha)
	r.marks++
	return err
}

// readShading converts a shading dictionary (or stream, for the mesh
// types) into a Shading. Only the axial and radial types are
// supported; the mesh types return an error.
func (r *Reader) readShading(obj pdf.Object) (*fitz.Shading, error) {
	obj, err := pdf.Resolve(r.R, obj)
	if err != nil {
		return nil, err
	}
	var dict pdf.Dict
	switch obj := obj.(type) {
	case pdf.Dict:
		dict = obj
	case *pdf.Stream:
		dict = obj.Dict
	default:
		return nil, errors.New("shading: invalid object type")
	}

	shType, err := pdf.GetInteger(r.R, dict["ShadingType"])
	if err != nil {
		return nil, err
	}
	sh := &fitz.Shading{
		Kind:   fitz.ShadingKind(shType),
		Domain: [2]float64{0, 1},
	}

	var numCoords int
	switch sh.Kind {
	case fitz.ShadingAxial:
		numCoords = 4
	case fitz.ShadingRadial:
		numCoords = 6
	default:
		return nil, errors.Errorf("shading: type %d not supported", shType)
	}

	sh.Space, err = color.ReadSpace(r.R, dict["ColorSpace"])
	if err != nil {
		return nil, err
	}

	coords, err := pdf.GetFloatArray(r.R, dict["Coords"])
	if err != nil {
		return nil, err
	}
	if len(coords) < numCoords {
		return nil, errors.New("shading: too few coordinates")
	}
	copy(sh.Coords[:], coords)

	if dom, err := pdf.GetFloatArray(r.R, dict["Domain"]); err == nil && len(dom) >= 2 {
		sh.Domain[0] = dom[0]
		sh.Domain[1] = dom[1]
	}

	if ext, err := pdf.GetArray(r.R, dict["Extend"]); err == nil && len(ext) >= 2 {
		for i := 0; i < 2; i++ {
			b, err := pdf.GetBoolean(r.R, ext[i])
			if err == nil {
				sh.Extend[i] = bool(b)
			}
		}
	}

	if bg, err := pdf.GetFloatArray(r.R, dict["Background"]); err == nil && len(bg) > 0 {
		sh.Background = bg
	}

	if bb, err := pdf.GetFloatArray(r.R, dict["BBox"]); err == nil && len(bb) >= 4 {
		box := rect.Rect{LLx: bb[0], LLy: bb[1], URx: bb[2], URy: bb[3]}
		sh.BBox = &box
	}

	fnObj, err := pdf.Resolve(r.R, dict["Function"])
	if err != nil {
		return nil, err
	}
	var fnObjs []pdf.Object
	if arr, ok := fnObj.(pdf.Array); ok {
		fnObjs = arr
	} else if fnObj != nil {
		fnObjs = []pdf.Object{fnObj}
	}
	if len(fnObjs) == 0 {
		return nil, errors.New("shading: missing function")
	}
	for _, fo := range fnObjs {
		fn, err := function.Extract(pdf.NewExtractor(r.R), fo)
		if err != nil {
			return nil, err
		}
		ev, ok := fn.(color.Evaluator)
		if !ok {
			return nil, errors.New("shading: function cannot be evaluated")
		}
		sh.Func = append(sh.Func, ev)
	}

	return sh, nil
}
