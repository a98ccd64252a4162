// Copyright (C) 2025  CFF contributors
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

package cff

import "testing"

func TestParseNumberIntegers(t *testing.T) {
	cases := []struct {
		data []byte
		want int32
	}{
		{[]byte{32}, -107},
		{[]byte{139}, 0},
		{[]byte{246}, 107},
		{[]byte{247, 0}, 108},
		{[]byte{250, 255}, 1131},
		{[]byte{251, 0}, -108},
		{[]byte{254, 255}, -1131},
		{[]byte{28, 0x12, 0x34}, 0x1234},
		{[]byte{28, 0xFF, 0xFF}, -1},
		{[]byte{29, 0x00, 0x01, 0x00, 0x00}, 65536},
	}
	for _, c := range cases {
		r := newReader(c.data[1:])
		n, err := parseNumber(c.data[0], r)
		if err != nil {
			t.Fatalf("parseNumber(% x): %v", c.data, err)
		}
		if got := n.asInt32(); got != c.want {
			t.Errorf("parseNumber(% x) = %d, want %d", c.data, got, c.want)
		}
	}
}

func TestParseFloat(t *testing.T) {
	// 1.5 encoded as nibbles: 1 '.' 5 <end>.
	data := []byte{0x1A, 0x5F}
	r := newReader(data)
	n, err := parseFloat(r)
	if err != nil {
		t.Fatalf("parseFloat: %v", err)
	}
	if n.f != 1.5 {
		t.Errorf("parseFloat = %v, want 1.5", n.f)
	}
}

func TestParseFloatNegativeExponent(t *testing.T) {
	// -2.5E-3 : '-' 2 '.' 5 'E-' 3 <end>
	data := []byte{0xE2, 0xA5, 0xC3, 0xFF}
	r := newReader(data)
	n, err := parseFloat(r)
	if err != nil {
		t.Fatalf("parseFloat: %v", err)
	}
	want := float32(-2.5e-3)
	if n.f != want {
		t.Errorf("parseFloat = %v, want %v", n.f, want)
	}
}

func TestSkipNumberMatchesParseNumber(t *testing.T) {
	cases := [][]byte{
		{32},
		{247, 10},
		{251, 10},
		{28, 1, 2},
		{29, 1, 2, 3, 4},
		{30, 0x1A, 0x5F},
	}
	for _, data := range cases {
		pr := newReader(data[1:])
		if _, err := parseNumber(data[0], pr); err != nil {
			t.Fatalf("parseNumber(% x): %v", data, err)
		}
		sr := newReader(data[1:])
		if err := skipNumber(data[0], sr); err != nil {
			t.Fatalf("skipNumber(% x): %v", data, err)
		}
		if pr.offset() != sr.offset() {
			t.Errorf("skipNumber(% x) consumed %d bytes, parseNumber consumed %d", data, sr.offset(), pr.offset())
		}
	}
}

func FuzzParseNumber(f *testing.F) {
	f.Add(byte(32), []byte{})
	f.Add(byte(247), []byte{10})
	f.Add(byte(28), []byte{1, 2})
	f.Add(byte(30), []byte{0x1A, 0x5F})

	f.Fuzz(func(t *testing.T, b0 byte, rest []byte) {
		r := newReader(rest)
		_, _ = parseNumber(b0, r)
	})
}
