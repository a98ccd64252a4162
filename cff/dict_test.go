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

// encodeDictInt appends the shortest encoding for v to buf, for building
// test DICT blobs.
func encodeDictInt(buf []byte, v int32) []byte {
	switch {
	case v >= -107 && v <= 107:
		return append(buf, byte(v+139))
	case v >= 108 && v <= 1131:
		v -= 108
		return append(buf, byte(v/256+247), byte(v%256))
	case v >= -1131 && v <= -108:
		v = -v - 108
		return append(buf, byte(v/256+251), byte(v%256))
	default:
		return append(buf, 29, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
}

func TestParseTopDict(t *testing.T) {
	var buf []byte
	buf = encodeDictInt(buf, 1234) // CharStrings offset
	buf = append(buf, 17)
	buf = encodeDictInt(buf, 55) // Private size
	buf = encodeDictInt(buf, 9000)
	buf = append(buf, 18)

	charStrings, privateOffset, privateSize, hasPrivate, err := parseTopDict(buf)
	if err != nil {
		t.Fatalf("parseTopDict: %v", err)
	}
	if charStrings != 1234 {
		t.Errorf("charStringsOffset = %d, want 1234", charStrings)
	}
	if !hasPrivate || privateSize != 55 || privateOffset != 9000 {
		t.Errorf("private = (%d, %d, %v), want (55, 9000, true)", privateSize, privateOffset, hasPrivate)
	}
}

func TestParseTopDictMissingCharStrings(t *testing.T) {
	var buf []byte
	buf = encodeDictInt(buf, 55)
	buf = encodeDictInt(buf, 9000)
	buf = append(buf, 18)

	if _, _, _, _, err := parseTopDict(buf); err != ErrNoCharStrings {
		t.Fatalf("parseTopDict = %v, want ErrNoCharStrings", err)
	}
}

func TestParsePrivateDictSubrs(t *testing.T) {
	var buf []byte
	buf = encodeDictInt(buf, 42)
	buf = append(buf, 19)

	offset, ok, err := parsePrivateDict(buf)
	if err != nil {
		t.Fatalf("parsePrivateDict: %v", err)
	}
	if !ok || offset != 42 {
		t.Fatalf("parsePrivateDict = (%d, %v), want (42, true)", offset, ok)
	}
}

func TestParsePrivateDictNoSubrs(t *testing.T) {
	var buf []byte
	buf = encodeDictInt(buf, 700)
	buf = append(buf, 12, 6) // an unrelated two-byte operator (1206)

	offset, ok, err := parsePrivateDict(buf)
	if err != nil {
		t.Fatalf("parsePrivateDict: %v", err)
	}
	if ok || offset != 0 {
		t.Fatalf("parsePrivateDict = (%d, %v), want (0, false)", offset, ok)
	}
}

func FuzzParseTopDict(f *testing.F) {
	var seed []byte
	seed = encodeDictInt(seed, 1234)
	seed = append(seed, 17)
	f.Add(seed)

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _, _, _, _ = parseTopDict(data)
	})
}
