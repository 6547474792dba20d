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
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/fitz/color"
)

// lookupColorSpace resolves a color space operand of the cs/CS
// operators: either one of the device space names, or the name of an
// entry in the resource dictionary.
func (r *Reader) lookupColorSpace(name pdf.Name) (color.Space, error) {
	if sp, ok := r.csCache[name]; ok {
		return sp, nil
	}

	var sp color.Space
	var err error
	switch name {
	case "DeviceGray", "G":
		sp = color.DeviceGray
	case "DeviceRGB", "RGB":
		sp = color.DeviceRGB
	case "DeviceCMYK", "CMYK":
		sp = color.DeviceCMYK
	case "Pattern":
		sp = &color.Pattern{}
	default:
		obj, ok := r.res.ColorSpace[name]
		if !ok {
			return nil, &pdf.MalformedFileError{
				Err: errUnknownColorSpace(name),
			}
		}
		sp, err = color.ReadSpace(r.R, obj)
		if err != nil {
			return nil, err
		}
	}

	if r.csCache == nil {
		r.csCache = make(map[pdf.Name]color.Space)
	}
	r.csCache[name] = sp
	return sp, nil
}

type errUnknownColorSpace pdf.Name

func (e errUnknownColorSpace) Error() string {
	return "unknown color space " + string(e)
}
