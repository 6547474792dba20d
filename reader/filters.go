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
	"bytes"
	"compress/zlib"
	"encoding/ascii85"
	"encoding/hex"
	"io"

	"github.com/hhrutter/lzw"
	"github.com/pkg/errors"

	"seehuhn.de/go/pdf"
)

// streamFilter is one entry of a stream's filter pipeline.
type streamFilter struct {
	Name  pdf.Name
	Parms pdf.Dict
}

// filterPipeline reads the Filter and DecodeParms entries of a stream
// dictionary, resolving indirect references and normalizing the
// single-filter shorthand to a one-element pipeline.
func (r *Reader) filterPipeline(dict pdf.Dict) ([]streamFilter, error) {
	fObj, err := pdf.Resolve(r.R, dict["Filter"])
	if err != nil {
		return nil, err
	}
	pObj, err := pdf.Resolve(r.R, dict["DecodeParms"])
	if err != nil {
		return nil, err
	}

	var names []pdf.Object
	var parms []pdf.Object
	switch fObj := fObj.(type) {
	case nil:
		return nil, nil
	case pdf.Name:
		names = []pdf.Object{fObj}
		parms = []pdf.Object{pObj}
	case pdf.Array:
		names = fObj
		if pArr, ok := pObj.(pdf.Array); ok {
			parms = pArr
		}
	default:
		return nil, errors.Errorf("invalid Filter entry %T", fObj)
	}

	pipeline := make([]streamFilter, 0, len(names))
	for i, nObj := range names {
		name, err := pdf.GetName(r.R, nObj)
		if err != nil {
			return nil, err
		}
		var parmDict pdf.Dict
		if i < len(parms) {
			parmDict, err = pdf.GetDict(r.R, parms[i])
			if err != nil && !pdf.IsMalformed(err) {
				return nil, err
			}
		}
		pipeline = append(pipeline, streamFilter{Name: name, Parms: parmDict})
	}
	return pipeline, nil
}

// isImageCodec reports whether a filter name is one of the image
// compression codecs, which produce pixel data rather than bytes.
func isImageCodec(name pdf.Name) bool {
	switch name {
	case "DCTDecode", "DCT", "JPXDecode", "CCITTFaxDecode", "CCF", "JBIG2Decode":
		return true
	}
	return false
}

// applyFilters runs the byte-oriented decode filters over data.
func (r *Reader) applyFilters(data []byte, pipeline []streamFilter) ([]byte, error) {
	for _, f := range pipeline {
		var err error
		data, err = r.applyOneFilter(data, f)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (r *Reader) applyOneFilter(data []byte, f streamFilter) ([]byte, error) {
	switch f.Name {
	case "ASCIIHexDecode", "AHx":
		return decodeASCIIHex(data)

	case "ASCII85Decode", "A85":
		return decodeASCII85(data)

	case "LZWDecode", "LZW":
		early := 1
		if x, err := pdf.GetInteger(r.R, f.Parms["EarlyChange"]); err == nil && f.Parms["EarlyChange"] != nil {
			early = int(x)
		}
		rc := lzw.NewReader(bytes.NewReader(data), early == 1)
		defer rc.Close()
		out, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
		return r.undoPredictor(out, f.Parms)

	case "FlateDecode", "Fl":
		rc, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		out, err := io.ReadAll(rc)
		if err != nil && err != io.ErrUnexpectedEOF {
			return nil, err
		}
		return r.undoPredictor(out, f.Parms)

	case "RunLengthDecode", "RL":
		return decodeRunLength(data)

	default:
		return nil, errors.Errorf("unsupported filter %q", string(f.Name))
	}
}

func decodeASCIIHex(data []byte) ([]byte, error) {
	clean := make([]byte, 0, len(data))
	for _, c := range data {
		switch {
		case c == '>':
			goto done
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0:
			// whitespace is ignored
		default:
			clean = append(clean, c)
		}
	}
done:
	if len(clean)%2 == 1 {
		clean = append(clean, '0')
	}
	out := make([]byte, len(clean)/2)
	_, err := hex.Decode(out, clean)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeASCII85(data []byte) ([]byte, error) {
	if i := bytes.Index(data, []byte("~>")); i >= 0 {
		data = data[:i]
	}
	dec := ascii85.NewDecoder(bytes.NewReader(data))
	return io.ReadAll(dec)
}

func decodeRunLength(data []byte) ([]byte, error) {
	var out []byte
	for i := 0; i < len(data); {
		n := int(data[i])
		i++
		switch {
		case n == 128:
			return out, nil
		case n < 128:
			end := i + n + 1
			if end > len(data) {
				end = len(data)
			}
			out = append(out, data[i:end]...)
			i = end
		default:
			if i >= len(data) {
				return out, nil
			}
			for j := 0; j < 257-n; j++ {
				out = append(out, data[i])
			}
			i++
		}
	}
	return out, nil
}

// undoPredictor reverses the TIFF and PNG predictors applied before
// LZW or Flate compression (section 7.4.4.4 of PDF 32000-1:2008).
func (r *Reader) undoPredictor(data []byte, parms pdf.Dict) ([]byte, error) {
	if parms == nil {
		return data, nil
	}
	predictor := 1
	colors := 1
	bpc := 8
	columns := 1
	if x, err := pdf.GetInteger(r.R, parms["Predictor"]); err == nil && parms["Predictor"] != nil {
		predictor = int(x)
	}
	if x, err := pdf.GetInteger(r.R, parms["Colors"]); err == nil && parms["Colors"] != nil {
		colors = int(x)
	}
	if x, err := pdf.GetInteger(r.R, parms["BitsPerComponent"]); err == nil && parms["BitsPerComponent"] != nil {
		bpc = int(x)
	}
	if x, err := pdf.GetInteger(r.R, parms["Columns"]); err == nil && parms["Columns"] != nil {
		columns = int(x)
	}

	switch {
	case predictor <= 1:
		return data, nil
	case predictor == 2:
		return undoTIFFPredictor(data, colors, bpc, columns)
	case predictor >= 10 && predictor <= 15:
		return undoPNGPredictor(data, colors, bpc, columns)
	default:
		return nil, errors.Errorf("unsupported predictor %d", predictor)
	}
}

func undoTIFFPredictor(data []byte, colors, bpc, columns int) ([]byte, error) {
	if bpc != 8 {
		return nil, errors.Errorf("TIFF predictor: unsupported bit depth %d", bpc)
	}
	rowLen := colors * columns
	if rowLen == 0 {
		return data, nil
	}
	for off := 0; off+rowLen <= len(data); off += rowLen {
		row := data[off : off+rowLen]
		for i := colors; i < len(row); i++ {
			row[i] += row[i-colors]
		}
	}
	return data, nil
}

func undoPNGPredictor(data []byte, colors, bpc, columns int) ([]byte, error) {
	rowLen := (colors*bpc*columns + 7) / 8
	bpp := (colors*bpc + 7) / 8
	if rowLen == 0 {
		return data, nil
	}

	numRows := len(data) / (rowLen + 1)
	out := make([]byte, 0, numRows*rowLen)
	prev := make([]byte, rowLen)

	for off := 0; off+rowLen+1 <= len(data); off += rowLen + 1 {
		tag := data[off]
		row := make([]byte, rowLen)
		copy(row, data[off+1:off+1+rowLen])

		switch tag {
		case 0: // none
		case 1: // sub
			for i := bpp; i < rowLen; i++ {
				row[i] += row[i-bpp]
			}
		case 2: // up
			for i := 0; i < rowLen; i++ {
				row[i] += prev[i]
			}
		case 3: // average
			for i := 0; i < rowLen; i++ {
				var left byte
				if i >= bpp {
					left = row[i-bpp]
				}
				row[i] += byte((int(left) + int(prev[i])) / 2)
			}
		case 4: // paeth
			for i := 0; i < rowLen; i++ {
				var left, upLeft byte
				if i >= bpp {
					left = row[i-bpp]
					upLeft = prev[i-bpp]
				}
				row[i] += paeth(left, prev[i], upLeft)
			}
		default:
			return nil, errors.Errorf("PNG predictor: invalid row filter %d", tag)
		}

		out = append(out, row...)
		prev = row
	}
	return out, nil
}

// paeth is the PNG Paeth prediction function.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := iabs(p - int(a))
	pb := iabs(p - int(b))
	pc := iabs(p - int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	default:
		return c
	}
}

func iabs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
