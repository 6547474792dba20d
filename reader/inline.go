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

	"seehuhn.de/go/pdf"
)

// inlineKeys maps the abbreviated inline image dictionary keys to the
// full names used by image XObjects.
var inlineKeys = map[pdf.Name]pdf.Name{
	"W":   "Width",
	"H":   "Height",
	"BPC": "BitsPerComponent",
	"CS":  "ColorSpace",
	"D":   "Decode",
	"DP":  "DecodeParms",
	"F":   "Filter",
	"IM":  "ImageMask",
	"I":   "Interpolate",
	"L":   "Length",
}

// doInlineImage handles the BI ... ID ... EI sequence. The BI operator
// has already been consumed; the key/value pairs follow in the token
// stream, then ID introduces the raw image data.
func (r *Reader) doInlineImage(s *scanner) error {
	dict := pdf.Dict{}
	var key pdf.Name
	haveKey := false

	for {
		obj, err := s.Next()
		if err != nil {
			return err
		}
		if op, ok := obj.(pdf.Operator); ok {
			if op == "ID" {
				break
			}
			return errors.Errorf("unexpected operator %q in inline image", string(op))
		}
		if !haveKey {
			name, ok := obj.(pdf.Name)
			if !ok {
				return errors.New("inline image: expected dictionary key")
			}
			key = name
			haveKey = true
		} else {
			if full, ok := inlineKeys[key]; ok {
				key = full
			}
			dict[key] = obj
			haveKey = false
		}
	}

	data, err := s.readInlineData()
	if err != nil {
		return err
	}

	img, err := r.decodeImage(data, dict)
	if err != nil {
		return err
	}
	return r.drawImage(img)
}
