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
	"testing"

	"seehuhn.de/go/pdf"
)

func TestReadSpaceNames(t *testing.T) {
	cases := []struct {
		obj  pdf.Object
		name string
	}{
		{pdf.Name("DeviceGray"), "DeviceGray"},
		{pdf.Name("DeviceRGB"), "DeviceRGB"},
		{pdf.Name("DeviceCMYK"), "DeviceCMYK"},
		{pdf.Name("G"), "DeviceGray"},
		{pdf.Name("RGB"), "DeviceRGB"},
		{pdf.Name("CMYK"), "DeviceCMYK"},
		{pdf.Name("CalRGB"), "DeviceRGB"},
		{pdf.Array{pdf.Name("DeviceCMYK")}, "DeviceCMYK"},
	}
	for _, c := range cases {
		sp, err := ReadSpace(nil, c.obj)
		if err != nil {
			t.Errorf("ReadSpace(%v): %v", c.obj, err)
			continue
		}
		if sp.Name() != c.name {
			t.Errorf("ReadSpace(%v) = %s, want %s", c.obj, sp.Name(), c.name)
		}
	}
}

func TestReadSpaceUnknown(t *testing.T) {
	if _, err := ReadSpace(nil, pdf.Name("NoSuchSpace")); err == nil {
		t.Error("unknown space name did not error")
	}
	if _, err := ReadSpace(nil, pdf.Array{pdf.Name("Lab")}); err == nil {
		t.Error("Lab space did not error")
	}
	if _, err := ReadSpace(nil, pdf.Integer(7)); err == nil {
		t.Error("numeric object did not error")
	}
}

func TestReadSpaceICCBased(t *testing.T) {
	cases := []struct {
		n    int
		name string
	}{
		{1, "DeviceGray"},
		{3, "DeviceRGB"},
		{4, "DeviceCMYK"},
	}
	for _, c := range cases {
		stm := &pdf.Stream{Dict: pdf.Dict{"N": pdf.Integer(c.n)}}
		sp, err := ReadSpace(nil, pdf.Array{pdf.Name("ICCBased"), stm})
		if err != nil {
			t.Errorf("ICCBased N=%d: %v", c.n, err)
			continue
		}
		if sp.Name() != c.name {
			t.Errorf("ICCBased N=%d = %s, want %s", c.n, sp.Name(), c.name)
		}
	}
}

func TestReadSpaceIndexed(t *testing.T) {
	obj := pdf.Array{
		pdf.Name("Indexed"),
		pdf.Name("DeviceRGB"),
		pdf.Integer(1),
		pdf.String([]byte{255, 0, 0, 0, 0, 255}),
	}
	sp, err := ReadSpace(nil, obj)
	if err != nil {
		t.Fatal(err)
	}
	idx, ok := sp.(*Indexed)
	if !ok {
		t.Fatalf("got %T", sp)
	}
	if idx.HiVal != 1 || idx.Base.Name() != "DeviceRGB" {
		t.Errorf("hival=%d base=%s", idx.HiVal, idx.Base.Name())
	}
	if _, _, b := idx.ToRGB([]float64{1}); b != 1 {
		t.Errorf("entry 1 is not blue: b=%g", b)
	}
}

func TestReadSpacePattern(t *testing.T) {
	sp, err := ReadSpace(nil, pdf.Name("Pattern"))
	if err != nil {
		t.Fatal(err)
	}
	if sp.Name() != "Pattern" || sp.Channels() != 0 {
		t.Errorf("pattern space: name=%s channels=%d", sp.Name(), sp.Channels())
	}

	// a pattern space can carry an underlying space for uncolored
	// patterns
	sp, err = ReadSpace(nil, pdf.Array{pdf.Name("Pattern"), pdf.Name("DeviceCMYK")})
	if err != nil {
		t.Fatal(err)
	}
	pat, ok := sp.(*Pattern)
	if !ok || pat.Under == nil || pat.Under.Name() != "DeviceCMYK" {
		t.Errorf("underlying space not preserved: %#v", sp)
	}
}
