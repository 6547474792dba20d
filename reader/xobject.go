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

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/fitz"
	"seehuhn.de/go/fitz/color"
)

// doXObject implements the Do operator.
func (r *Reader) doXObject(name pdf.Name) error {
	stm, err := pdf.GetStream(r.R, r.res.XObject[name])
	if err != nil {
		return err
	}
	if stm == nil {
		return errors.Errorf("unknown XObject %q", string(name))
	}

	subtype, err := pdf.GetName(r.R, stm.Dict["Subtype"])
	if err != nil {
		return err
	}
	switch subtype {
	case "Image":
		return r.drawImageXObject(stm)
	case "Form":
		return r.doForm(stm)
	default:
		return errors.Errorf("unsupported XObject subtype %q", string(subtype))
	}
}

// drawImageXObject decodes and paints an image XObject into the unit
// square placed by the current transformation matrix.
func (r *Reader) drawImageXObject(stm *pdf.Stream) error {
	img, err := r.decodeImageStream(stm)
	if err != nil {
		return err
	}
	return r.drawImage(img)
}

// drawImage paints a decoded image, baking the fill color into
// stencil masks first.
func (r *Reader) drawImage(img *fitz.Image) error {
	st := r.state
	if img.Mask {
		img = r.stencilToImage(img)
	}

	var err error
	if st.Blend != fitz.BlendNormal {
		bbox := unitSquareBounds(st.CTM)
		if err := r.dev.BeginGroup(bbox, true, false, st.Blend, 1); err != nil {
			return err
		}
		err = r.dev.FillImage(img, st.CTM, st.FillAlpha)
		if endErr := r.dev.EndGroup(); err == nil {
			err = endErr
		}
	} else {
		err = r.dev.FillImage(img, st.CTM, st.FillAlpha)
	}
	r.marks++
	return err
}

// stencilToImage converts a 1-bit stencil mask into an image in the
// current fill color, with the stencil as its alpha plane.
func (r *Reader) stencilToImage(img *fitz.Image) *fitz.Image {
	st := r.state
	space := st.FillSpace
	comps := st.FillColor
	if space == nil || space.Channels() == 0 || len(comps) < space.Channels() {
		// stencils with a pattern fill color paint black
		space = color.DeviceGray
		comps = []float64{0}
	}
	n := space.Channels()
	colorBytes := make([]byte, n)
	for i := 0; i < n; i++ {
		colorBytes[i] = quantizeComponent(comps[i])
	}

	out := &fitz.Image{
		Width: img.Width, Height: img.Height,
		Space:   space,
		Samples: make([]byte, img.Width*img.Height*n),
		Alpha:   stencilAlpha(img),
	}
	for p := 0; p < img.Width*img.Height; p++ {
		copy(out.Samples[p*n:], colorBytes)
	}
	return out
}

func stencilAlpha(img *fitz.Image) []byte {
	alpha := make([]byte, img.Width*img.Height)
	for i, v := range img.Samples {
		if v == 0 {
			alpha[i] = 255
		}
	}
	return alpha
}

// doForm executes a form XObject: an implicit q/Q around the form's
// content, with the form matrix prepended and the content clipped to
// the form's bounding box.
func (r *Reader) doForm(stm *pdf.Stream) error {
	if r.formDepth >= maxFormDepth {
		return errors.New("form XObjects nested too deeply")
	}
	st := r.state

	inner := st.clone()
	if arr, err := pdf.GetFloatArray(r.R, stm.Dict["Matrix"]); err == nil && len(arr) >= 6 {
		m := matrix.Matrix{arr[0], arr[1], arr[2], arr[3], arr[4], arr[5]}
		inner.CTM = m.Mul(st.CTM)
	}

	// forms without own resources inherit the surrounding ones
	res := r.res
	if resDict, err := pdf.GetDict(r.R, stm.Dict["Resources"]); err == nil && resDict != nil {
		res = &pdf.Resources{}
		if err := pdf.DecodeDict(r.R, res, resDict); err != nil && !pdf.IsMalformed(err) {
			return err
		}
	}

	clipped := false
	if bb, err := pdf.GetFloatArray(r.R, stm.Dict["BBox"]); err == nil && len(bb) >= 4 {
		clip := &fitz.Path{}
		clip.Rectangle(bb[0], bb[1], bb[2]-bb[0], bb[3]-bb[1])
		if err := r.dev.ClipPath(clip, false, inner.CTM); err == nil {
			r.clipCount++
			clipped = true
		}
	}

	err := r.runNested(stm, res, inner)

	if clipped {
		if popErr := r.dev.PopClip(); err == nil {
			err = popErr
		}
		r.clipCount--
	}
	return err
}

// unitSquareBounds returns the device-space bounding box of the unit
// square under ctm.
func unitSquareBounds(ctm matrix.Matrix) rect.Rect {
	return fitz.TransformRect(rect.Rect{URx: 1, URy: 1}, ctm)
}
