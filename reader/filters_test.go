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
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/pdf"
)

func TestASCIIHexDecode(t *testing.T) {
	cases := []struct {
		in   string
		want []byte
	}{
		{"48656C6C6F>", []byte("Hello")},
		{"48 65\n6c 6f>", []byte("Hello")},
		{"486>", []byte{0x48, 0x60}}, // odd digit count, padded with 0
		{">", []byte{}},
	}
	for _, c := range cases {
		got, err := decodeASCIIHex([]byte(c.in))
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if d := cmp.Diff(c.want, got); d != "" {
			t.Errorf("%q: output differs (-want +got):\n%s", c.in, d)
		}
	}

	if _, err := decodeASCIIHex([]byte("4x>")); err == nil {
		t.Error("invalid hex digit not reported")
	}
}

func TestASCIIHexStopsAtEOD(t *testing.T) {
	got, err := decodeASCIIHex([]byte("4865>6c6c"))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]byte("He"), got); d != "" {
		t.Errorf("output differs (-want +got):\n%s", d)
	}
}

func TestASCII85Decode(t *testing.T) {
	got, err := decodeASCII85([]byte("9jqo^~>"))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]byte("Man "), got); d != "" {
		t.Errorf("output differs (-want +got):\n%s", d)
	}
}

func TestRunLengthDecode(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"literal", []byte{2, 'a', 'b', 'c', 128}, []byte("abc")},
		{"repeat", []byte{254, 'x', 128}, []byte("xxx")},
		{"mixed", []byte{0, 'a', 255, 'b', 128}, []byte("abb")},
		{"missing EOD", []byte{1, 'a', 'b'}, []byte("ab")},
		{"truncated literal", []byte{5, 'a', 'b'}, []byte("ab")},
	}
	for _, c := range cases {
		got, err := decodeRunLength(c.in)
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if d := cmp.Diff(c.want, got); d != "" {
			t.Errorf("%s: output differs (-want +got):\n%s", c.name, d)
		}
	}
}

func TestTIFFPredictor(t *testing.T) {
	got, err := undoTIFFPredictor([]byte{10, 20, 30, 1, 2, 3}, 3, 8, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{10, 20, 30, 11, 22, 33}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("output differs (-want +got):\n%s", d)
	}
}

func TestPNGPredictor(t *testing.T) {
	// three rows of three 8-bit gray samples, using the None, Sub and
	// Up row filters
	in := []byte{
		0, 1, 2, 3,
		1, 5, 1, 1,
		2, 1, 1, 1,
	}
	got, err := undoPNGPredictor(in, 1, 8, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		1, 2, 3,
		5, 6, 7,
		6, 7, 8,
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("output differs (-want +got):\n%s", d)
	}
}

func TestPNGPredictorPaeth(t *testing.T) {
	in := []byte{
		0, 10, 20,
		4, 1, 1,
	}
	got, err := undoPNGPredictor(in, 1, 8, 2)
	if err != nil {
		t.Fatal(err)
	}
	// paeth(left, up, upLeft): first sample predicts from up=10,
	// second from whichever of left/up/upLeft is closest to the
	// gradient estimate
	want := []byte{
		10, 20,
		11, 21,
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("output differs (-want +got):\n%s", d)
	}
}

func TestPaethPredictor(t *testing.T) {
	cases := []struct {
		a, b, c byte
		want    byte
	}{
		{0, 0, 0, 0},
		{10, 20, 10, 20}, // vertical edge, picks up
		{20, 10, 10, 20}, // horizontal edge, picks left
		{5, 5, 5, 5},
	}
	for _, c := range cases {
		if got := paeth(c.a, c.b, c.c); got != c.want {
			t.Errorf("paeth(%d, %d, %d) = %d, want %d", c.a, c.b, c.c, got, c.want)
		}
	}
}

func TestFlateFilter(t *testing.T) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write([]byte("compressed payload"))
	zw.Close()

	rd := &Reader{}
	got, err := rd.applyOneFilter(buf.Bytes(), streamFilter{Name: "FlateDecode"})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "compressed payload" {
		t.Errorf("got %q", got)
	}
}

func TestFilterChain(t *testing.T) {
	// RunLength output wrapped in ASCIIHex: 02 'a' 'b' 'c' 80
	rd := &Reader{}
	pipeline := []streamFilter{
		{Name: "AHx"},
		{Name: "RL"},
	}
	got, err := rd.applyFilters([]byte("0261626380>"), pipeline)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abc" {
		t.Errorf("got %q", got)
	}
}

func TestFilterPipelineParsing(t *testing.T) {
	rd := &Reader{}

	pl, err := rd.filterPipeline(pdf.Dict{
		"Filter": pdf.Name("FlateDecode"),
		"DecodeParms": pdf.Dict{
			"Predictor": pdf.Integer(12),
			"Columns":   pdf.Integer(5),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(pl) != 1 || pl[0].Name != "FlateDecode" {
		t.Fatalf("pipeline = %v", pl)
	}
	if pl[0].Parms["Columns"] != pdf.Integer(5) {
		t.Errorf("parms = %v", pl[0].Parms)
	}

	pl, err = rd.filterPipeline(pdf.Dict{
		"Filter": pdf.Array{pdf.Name("ASCII85Decode"), pdf.Name("FlateDecode")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(pl) != 2 || pl[0].Name != "ASCII85Decode" || pl[1].Name != "FlateDecode" {
		t.Fatalf("pipeline = %v", pl)
	}
}

func TestUnsupportedFilter(t *testing.T) {
	rd := &Reader{}
	if _, err := rd.applyOneFilter(nil, streamFilter{Name: "Crypt"}); err == nil {
		t.Error("unsupported filter not reported")
	}
}
