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
	"image"
	"image/jpeg"
	"io"
	"math"

	"github.com/pkg/errors"

	"seehuhn.de/go/pdf"

	"seehuhn.de/go/fitz"
	"seehuhn.de/go/fitz/color"
)

// maxImagePixels bounds the decoded image size so that a damaged
// dictionary cannot exhaust memory.
const maxImagePixels = 1 << 26

// decodeImageStream decodes an image XObject into expanded samples.
func (r *Reader) decodeImageStream(stm *pdf.Stream) (*fitz.Image, error) {
	raw, err := io.ReadAll(stm.R)
	if err != nil {
		return nil, err
	}
	return r.decodeImage(raw, stm.Dict)
}

// decodeImage turns the raw stream body and the image dictionary into
// an Image. The dictionary must use the full key names; inline image
// abbreviations are expanded by the caller.
func (r *Reader) decodeImage(raw []byte, dict pdf.Dict) (*fitz.Image, error) {
	w, err := pdf.GetInteger(r.R, dict["Width"])
	if err != nil {
		return nil, err
	}
	h, err := pdf.GetInteger(r.R, dict["Height"])
	if err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 || int64(w)*int64(h) > maxImagePixels {
		return nil, errors.Errorf("invalid image size %dx%d", w, h)
	}

	isMask, _ := pdf.GetBoolean(r.R, dict["ImageMask"])

	pipeline, err := r.filterPipeline(dict)
	if err != nil {
		return nil, err
	}

	if len(pipeline) > 0 && isImageCodec(pipeline[len(pipeline)-1].Name) {
		codec := pipeline[len(pipeline)-1].Name
		data, err := r.applyFilters(raw, pipeline[:len(pipeline)-1])
		if err != nil {
			return nil, err
		}
		switch codec {
		case "DCTDecode", "DCT":
			return r.decodeJPEG(data, dict, int(w), int(h))
		default:
			return nil, errors.Errorf("unsupported image codec %q", string(codec))
		}
	}

	data, err := r.applyFilters(raw, pipeline)
	if err != nil {
		return nil, err
	}

	if bool(isMask) {
		return r.decodeStencil(data, dict, int(w), int(h))
	}
	return r.decodeSamples(data, dict, int(w), int(h))
}

// decodeStencil expands a 1-bit image mask. In the result, sample
// value 0 marks painted pixels.
func (r *Reader) decodeStencil(data []byte, dict pdf.Dict, w, h int) (*fitz.Image, error) {
	invert := false
	if dec, err := pdf.GetFloatArray(r.R, dict["Decode"]); err == nil && len(dec) >= 2 {
		invert = dec[0] > dec[1]
	}

	img := &fitz.Image{
		Width:   w,
		Height:  h,
		Mask:    true,
		Samples: make([]byte, w*h),
	}
	stride := (w + 7) / 8
	for y := 0; y < h; y++ {
		row := data[min(y*stride, len(data)):]
		for x := 0; x < w; x++ {
			var bit byte = 1 // out-of-data pixels stay unpainted
			if x/8 < len(row) {
				bit = (row[x/8] >> (7 - x%8)) & 1
			}
			if invert {
				bit ^= 1
			}
			img.Samples[y*w+x] = bit
		}
	}
	return img, nil
}

// decodeSamples expands packed component data to one byte per
// component, applying the Decode array and resolving indexed color.
func (r *Reader) decodeSamples(data []byte, dict pdf.Dict, w, h int) (*fitz.Image, error) {
	bpc, err := pdf.GetInteger(r.R, dict["BitsPerComponent"])
	if err != nil {
		return nil, err
	}
	switch bpc {
	case 1, 2, 4, 8, 16:
	default:
		return nil, errors.Errorf("invalid bit depth %d", bpc)
	}

	space, err := r.readImageSpace(dict["ColorSpace"])
	if err != nil {
		return nil, err
	}
	n := space.Channels()
	maxVal := float64(int64(1)<<bpc - 1)

	indexed, _ := space.(*color.Indexed)

	// component decode ranges
	decode := make([]float64, 2*n)
	for i := 0; i < n; i++ {
		decode[2*i] = 0
		if indexed != nil {
			decode[2*i+1] = maxVal
		} else {
			decode[2*i+1] = 1
		}
	}
	if dec, err := pdf.GetFloatArray(r.R, dict["Decode"]); err == nil && len(dec) >= 2*n {
		copy(decode, dec[:2*n])
	}

	keyMask := r.colorKeyMask(dict, n)

	outSpace := space
	outN := n
	if indexed != nil {
		outSpace = indexed.Base
		outN = indexed.Base.Channels()
	}

	img := &fitz.Image{
		Width:   w,
		Height:  h,
		Space:   outSpace,
		Samples: make([]byte, w*h*outN),
	}
	if keyMask != nil {
		img.Alpha = make([]byte, w*h)
		for i := range img.Alpha {
			img.Alpha[i] = 255
		}
	}

	stride := (w*n*int(bpc) + 7) / 8
	rawComps := make([]uint32, n)
	for y := 0; y < h; y++ {
		br := bitReader{data: data, pos: y * stride * 8}
		for x := 0; x < w; x++ {
			for i := 0; i < n; i++ {
				rawComps[i] = br.read(int(bpc))
			}

			if keyMask != nil && inColorKeyRange(rawComps, keyMask) {
				img.Alpha[y*w+x] = 0
			}

			off := (y*w + x) * outN
			if indexed != nil {
				v := decode[0] + float64(rawComps[0])*(decode[1]-decode[0])/maxVal
				idx := int(math.Round(v))
				if idx < 0 {
					idx = 0
				}
				if idx > indexed.HiVal {
					idx = indexed.HiVal
				}
				lookOff := idx * outN
				for i := 0; i < outN; i++ {
					if lookOff+i < len(indexed.Lookup) {
						img.Samples[off+i] = indexed.Lookup[lookOff+i]
					}
				}
			} else {
				for i := 0; i < n; i++ {
					v := decode[2*i] + float64(rawComps[i])*(decode[2*i+1]-decode[2*i])/maxVal
					img.Samples[off+i] = quantizeComponent(v)
				}
			}
		}
	}

	if err := r.attachSoftMask(img, dict); err != nil {
		return nil, err
	}
	return img, nil
}

// decodeJPEG converts DCT-compressed data using image/jpeg.
func (r *Reader) decodeJPEG(data []byte, dict pdf.Dict, w, h int) (*fitz.Image, error) {
	src, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	jw, jh := b.Dx(), b.Dy()
	if jw < w {
		w = jw
	}
	if jh < h {
		h = jh
	}

	var img *fitz.Image
	switch src := src.(type) {
	case *image.Gray:
		img = &fitz.Image{
			Width: w, Height: h,
			Space:   color.DeviceGray,
			Samples: make([]byte, w*h),
		}
		for y := 0; y < h; y++ {
			copy(img.Samples[y*w:(y+1)*w], src.Pix[y*src.Stride:])
		}
	case *image.CMYK:
		img = &fitz.Image{
			Width: w, Height: h,
			Space:   color.DeviceCMYK,
			Samples: make([]byte, w*h*4),
		}
		for y := 0; y < h; y++ {
			copy(img.Samples[y*w*4:(y+1)*w*4], src.Pix[y*src.Stride:])
		}
	default:
		img = &fitz.Image{
			Width: w, Height: h,
			Space:   color.DeviceRGB,
			Samples: make([]byte, w*h*3),
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				cr, cg, cb, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
				off := (y*w + x) * 3
				img.Samples[off] = byte(cr >> 8)
				img.Samples[off+1] = byte(cg >> 8)
				img.Samples[off+2] = byte(cb >> 8)
			}
		}
	}

	// the Decode array still applies to the decompressed samples
	n := img.Space.Channels()
	if dec, err := pdf.GetFloatArray(r.R, dict["Decode"]); err == nil && len(dec) >= 2*n {
		for i := range img.Samples {
			c := i % n
			v := dec[2*c] + float64(img.Samples[i])/255*(dec[2*c+1]-dec[2*c])
			img.Samples[i] = quantizeComponent(v)
		}
	}

	if err := r.attachSoftMask(img, dict); err != nil {
		return nil, err
	}
	return img, nil
}

// attachSoftMask fills in the alpha plane from an SMask entry or an
// explicit stencil Mask stream.
func (r *Reader) attachSoftMask(img *fitz.Image, dict pdf.Dict) error {
	if sm, err := pdf.GetStream(r.R, dict["SMask"]); err == nil && sm != nil {
		mask, err := r.decodeImageStream(sm)
		if err != nil {
			return err
		}
		img.Alpha = resampleAlpha(mask.Samples, mask.Width, mask.Height, img.Width, img.Height, false)
		return nil
	}

	obj, err := pdf.Resolve(r.R, dict["Mask"])
	if err != nil {
		return nil
	}
	if stm, ok := obj.(*pdf.Stream); ok {
		mask, err := r.decodeImageStream(stm)
		if err != nil || !mask.Mask {
			return err
		}
		// stencil value 0 means the pixel shows through
		img.Alpha = resampleAlpha(mask.Samples, mask.Width, mask.Height, img.Width, img.Height, true)
	}
	return nil
}

// resampleAlpha rescales a one-component plane to w x h using nearest
// neighbor. With stencil set, input values are 0/1 flags where 0 maps
// to opaque.
func resampleAlpha(src []byte, sw, sh, w, h int, stencil bool) []byte {
	out := make([]byte, w*h)
	for y := 0; y < h; y++ {
		sy := y * sh / h
		for x := 0; x < w; x++ {
			sx := x * sw / w
			var v byte
			if i := sy*sw + sx; i < len(src) {
				v = src[i]
			}
			if stencil {
				if v == 0 {
					v = 255
				} else {
					v = 0
				}
			}
			out[y*w+x] = v
		}
	}
	return out
}

// colorKeyMask returns the color key ranges from an array-valued Mask
// entry, or nil.
func (r *Reader) colorKeyMask(dict pdf.Dict, n int) []uint32 {
	arr, err := pdf.GetArray(r.R, dict["Mask"])
	if err != nil || len(arr) < 2*n {
		return nil
	}
	ranges := make([]uint32, 2*n)
	for i := 0; i < 2*n; i++ {
		x, err := pdf.GetInteger(r.R, arr[i])
		if err != nil || x < 0 {
			return nil
		}
		ranges[i] = uint32(x)
	}
	return ranges
}

func inColorKeyRange(comps, ranges []uint32) bool {
	for i, c := range comps {
		if c < ranges[2*i] || c > ranges[2*i+1] {
			return false
		}
	}
	return true
}

// readImageSpace resolves the ColorSpace entry of an image, looking up
// named spaces in the resource dictionary.
func (r *Reader) readImageSpace(obj pdf.Object) (color.Space, error) {
	resolved, err := pdf.Resolve(r.R, obj)
	if err != nil {
		return nil, err
	}
	if name, ok := resolved.(pdf.Name); ok {
		// lookupColorSpace also accepts the inline image abbreviations
		return r.lookupColorSpace(name)
	}
	return color.ReadSpace(r.R, resolved)
}

func quantizeComponent(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

// bitReader extracts packed sample values from a byte slice.
type bitReader struct {
	data []byte
	pos  int // bit position
}

func (b *bitReader) read(bits int) uint32 {
	var v uint32
	for i := 0; i < bits; i++ {
		byteIdx := b.pos >> 3
		var bit uint32
		if byteIdx < len(b.data) {
			bit = uint32(b.data[byteIdx]>>(7-b.pos&7)) & 1
		}
		v = v<<1 | bit
		b.pos++
	}
	return v
}
