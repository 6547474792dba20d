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

package color

import (
	"io"

	"github.com/pkg/errors"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/function"
)

// ReadSpace reads a color space from a PDF object, which can be a name
// or an array as described in section 8.6 of PDF 32000-1:2008.
//
// Calibrated spaces are approximated by their device equivalents, and
// ICCBased spaces by the device space matching the component count.
func ReadSpace(r pdf.Getter, obj pdf.Object) (Space, error) {
	obj, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}

	switch cs := obj.(type) {
	case pdf.Name:
		return spaceByName(cs)
	case pdf.Array:
		return readSpaceArray(r, cs)
	default:
		return nil, errors.Errorf("color space: unexpected %T", obj)
	}
}

func spaceByName(name pdf.Name) (Space, error) {
	switch name {
	case "DeviceGray", "G", "CalGray":
		return DeviceGray, nil
	case "DeviceRGB", "RGB", "CalRGB":
		return DeviceRGB, nil
	case "DeviceCMYK", "CMYK":
		return DeviceCMYK, nil
	case "Pattern":
		return &Pattern{}, nil
	default:
		return nil, errors.Errorf("color space: unknown name /%s", name)
	}
}

func readSpaceArray(r pdf.Getter, arr pdf.Array) (Space, error) {
	if len(arr) == 0 {
		return nil, errors.New("color space: empty array")
	}
	family, err := pdf.GetName(r, arr[0])
	if err != nil {
		return nil, err
	}

	switch family {
	case "DeviceGray", "DeviceRGB", "DeviceCMYK":
		return spaceByName(family)

	case "CalGray":
		return DeviceGray, nil
	case "CalRGB":
		return DeviceRGB, nil

	case "ICCBased":
		if len(arr) < 2 {
			return nil, errors.New("color space: ICCBased without stream")
		}
		stm, err := pdf.GetStream(r, arr[1])
		if err != nil {
			return nil, err
		}
		if stm == nil {
			return nil, errors.New("color space: ICCBased without stream")
		}
		n, err := pdf.GetInteger(r, stm.Dict["N"])
		if err != nil {
			return nil, err
		}
		switch n {
		case 1:
			return DeviceGray, nil
		case 3:
			return DeviceRGB, nil
		case 4:
			return DeviceCMYK, nil
		default:
			return nil, errors.Errorf("color space: ICCBased with N=%d", n)
		}

	case "Indexed", "I":
		return readIndexed(r, arr)

	case "Separation", "DeviceN":
		return readSeparation(r, arr)

	case "Pattern":
		p := &Pattern{}
		if len(arr) > 1 {
			under, err := ReadSpace(r, arr[1])
			if err != nil {
				return nil, err
			}
			p.Under = under
		}
		return p, nil

	default:
		// Lab and the more exotic spaces are not converted here.
		return nil, errors.Errorf("color space: unsupported family /%s", family)
	}
}

func readIndexed(r pdf.Getter, arr pdf.Array) (Space, error) {
	if len(arr) != 4 {
		return nil, errors.New("color space: malformed Indexed array")
	}
	base, err := ReadSpace(r, arr[1])
	if err != nil {
		return nil, err
	}
	hival, err := pdf.GetInteger(r, arr[2])
	if err != nil {
		return nil, err
	}
	if hival < 0 || hival > 255 {
		return nil, errors.Errorf("color space: Indexed hival %d out of range", hival)
	}

	lookup, err := readLookup(r, arr[3])
	if err != nil {
		return nil, err
	}
	need := (int(hival) + 1) * base.Channels()
	if len(lookup) < need {
		// Pad short tables with black rather than rejecting the space.
		lookup = append(lookup, make([]byte, need-len(lookup))...)
	}

	return &Indexed{Base: base, HiVal: int(hival), Lookup: lookup}, nil
}

func readLookup(r pdf.Getter, obj pdf.Object) ([]byte, error) {
	obj, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}
	switch lk := obj.(type) {
	case pdf.String:
		return []byte(lk), nil
	case *pdf.Stream:
		in, err := pdf.DecodeStream(r, lk, 0)
		if err != nil {
			return nil, err
		}
		defer in.Close()
		return io.ReadAll(in)
	default:
		return nil, errors.Errorf("color space: unexpected lookup %T", obj)
	}
}

func readSeparation(r pdf.Getter, arr pdf.Array) (Space, error) {
	if len(arr) < 4 {
		return nil, errors.New("color space: malformed Separation array")
	}

	var colorants []string
	names, err := pdf.Resolve(r, arr[1])
	if err != nil {
		return nil, err
	}
	switch n := names.(type) {
	case pdf.Name:
		colorants = []string{string(n)}
	case pdf.Array:
		for _, obj := range n {
			name, err := pdf.GetName(r, obj)
			if err != nil {
				return nil, err
			}
			colorants = append(colorants, string(name))
		}
	default:
		return nil, errors.Errorf("color space: unexpected colorant %T", names)
	}
	if len(colorants) == 0 {
		return nil, errors.New("color space: no colorants")
	}

	alt, err := ReadSpace(r, arr[2])
	if err != nil {
		return nil, err
	}

	fn, err := function.Extract(pdf.NewExtractor(r), arr[3])
	if err != nil {
		return nil, err
	}
	tint, ok := fn.(Evaluator)
	if !ok {
		return nil, errors.New("color space: tint transform cannot be evaluated")
	}
	numIn, numOut := tint.Shape()
	if numIn != len(colorants) || numOut < alt.Channels() {
		return nil, errors.New("color space: tint transform shape mismatch")
	}

	return &Separation{Colorants: colorants, Alternate: alt, Tint: tint}, nil
}
