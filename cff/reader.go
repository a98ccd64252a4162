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

// reader is a cursor over a borrowed byte slice. It never copies the
// underlying data and never panics: every read is bounds-checked and
// reports ErrUnexpectedEOF on failure.
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) offset() int {
	return r.pos
}

func (r *reader) atEnd() bool {
	return r.pos >= len(r.data)
}

func (r *reader) remaining() []byte {
	return r.data[r.pos:]
}

// advance moves the cursor forward by n bytes, failing if that would run
// past the end of the slice.
func (r *reader) advance(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return ErrUnexpectedEOF
	}
	r.pos += n
	return nil
}

// seek repositions the cursor to an absolute offset.
func (r *reader) seek(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return ErrUnexpectedEOF
	}
	r.pos = pos
	return nil
}

// readBytes returns the next n bytes as a sub-slice of the borrowed data
// and advances the cursor past them.
func (r *reader) readBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, ErrUnexpectedEOF
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *reader) u8() (byte, error) {
	b, err := r.readBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.readBytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func (r *reader) u24() (uint32, error) {
	b, err := r.readBytes(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

func (r *reader) i16() (int16, error) {
	v, err := r.u16()
	if err != nil {
		return 0, err
	}
	return int16(v), nil
}

func (r *reader) i32() (int32, error) {
	v, err := r.u32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// readOffset reads a big-endian unsigned integer of the given byte width
// (1..4), as used for INDEX offset-array entries.
func readOffset(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}
