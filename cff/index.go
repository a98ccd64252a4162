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

// offsetSize is the byte width (1..4) of every entry in an INDEX's packed
// offset array. Adobe Technical Note #5176, Table 2.
type offsetSize uint8

func parseOffsetSize(b byte) (offsetSize, error) {
	if b < 1 || b > 4 {
		return 0, ErrInvalidOffsetSize
	}
	return offsetSize(b), nil
}

// varOffsets is a view over an INDEX's packed array of count+1 offsets,
// each offsetSize bytes wide and 1-biased (zero means absent).
type varOffsets struct {
	data []byte
	size offsetSize
}

func (o varOffsets) len() int {
	if o.size == 0 {
		return 0
	}
	return len(o.data) / int(o.size)
}

// get returns the zero-based byte offset stored at index i, already
// corrected for the INDEX's "plus one" bias. The second return value is
// false when i is out of range or the stored offset was zero.
func (o varOffsets) get(i int) (uint32, bool) {
	if i < 0 || i >= o.len() {
		return 0, false
	}
	start := i * int(o.size)
	raw := readOffset(o.data[start : start+int(o.size)])
	if raw == 0 {
		return 0, false
	}
	return raw - 1, true
}

func (o varOffsets) last() (uint32, bool) {
	if o.len() == 0 {
		return 0, false
	}
	return o.get(o.len() - 1)
}

// dataIndex is the CFF INDEX abstraction: a count, a packed offset table,
// and a payload blob, all borrowed from the font buffer. Random access by
// ordinal slices the payload without copying it.
type dataIndex struct {
	data    []byte
	offsets varOffsets
}

// count returns the number of entries in the INDEX.
func (idx dataIndex) count() int {
	n := idx.offsets.len()
	if n == 0 {
		return 0
	}
	// The offsets array holds count+1 entries; the last one marks the end
	// of the payload rather than the start of an entry.
	return n - 1
}

// get returns the byte sub-slice for ordinal i, or false if i is out of
// range. A zero-valued entry in the offset array (absence) also yields
// false.
func (idx dataIndex) get(i int) ([]byte, bool) {
	if i < 0 || i >= idx.count() {
		return nil, false
	}
	start, ok := idx.offsets.get(i)
	if !ok {
		return nil, false
	}
	end, ok := idx.offsets.get(i + 1)
	if !ok {
		return nil, false
	}
	if end < start || uint64(end) > uint64(len(idx.data)) {
		return nil, false
	}
	return idx.data[start:end], true
}

// parseIndex reads one INDEX starting at r's current position, leaving r
// positioned just past it.
func parseIndex(r *reader) (dataIndex, error) {
	count, err := r.u16()
	if err != nil {
		return dataIndex{}, err
	}
	if count == 0 || count == 0xFFFF {
		// Defensive: 0xFFFF is not forbidden by the CFF spec but behavior
		// in the wild for this value is unspecified; treat it as empty
		// for compatibility, consuming only the 2-byte count.
		return dataIndex{}, nil
	}

	rawSize, err := r.u8()
	if err != nil {
		return dataIndex{}, err
	}
	size, err := parseOffsetSize(rawSize)
	if err != nil {
		return dataIndex{}, err
	}

	offsetBytes, err := r.readBytes((int(count) + 1) * int(size))
	if err != nil {
		return dataIndex{}, err
	}
	offsets := varOffsets{data: offsetBytes, size: size}

	last, ok := offsets.last()
	if !ok {
		return dataIndex{}, nil
	}
	// Every entry must be addressable: a zero or decreasing offset would
	// point outside the payload.
	var prev uint32
	for i := 0; i < offsets.len(); i++ {
		off, ok := offsets.get(i)
		if !ok || off < prev {
			return dataIndex{}, ErrUnexpectedEOF
		}
		prev = off
	}
	payload, err := r.readBytes(int(last))
	if err != nil {
		return dataIndex{}, err
	}
	return dataIndex{data: payload, offsets: offsets}, nil
}

// skipIndex behaves like parseIndex but discards the resulting view,
// advancing r past the INDEX without holding onto a slice of it.
func skipIndex(r *reader) error {
	_, err := parseIndex(r)
	return err
}

// parseIndexAt seeks r to offset, then parses an INDEX there. A zero
// offset is treated as "absent" and yields an empty INDEX without moving
// the cursor.
func parseIndexAt(r *reader, offset int) (dataIndex, error) {
	if offset == 0 {
		return dataIndex{}, nil
	}
	if err := r.seek(offset); err != nil {
		return dataIndex{}, err
	}
	return parseIndex(r)
}
