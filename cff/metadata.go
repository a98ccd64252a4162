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

// Metadata is the borrowed view produced by ParseMetadata: the three
// INDEX structures the CharString interpreter needs to render a glyph.
// CharStrings is required; GlobalSubrs and LocalSubrs may be empty.
type Metadata struct {
	GlobalSubrs dataIndex
	LocalSubrs  dataIndex
	CharStrings dataIndex
}

// ParseMetadata walks a CFF table and recovers the INDEX structures
// needed to render glyph outlines, per Adobe Technical Note #5176
// chapter 6 and the loading sequence it implies: header, Name INDEX,
// Top DICT INDEX, Private DICT, String INDEX, Global Subrs INDEX, Local
// Subrs INDEX, CharStrings INDEX.
//
// The returned Metadata borrows from data; the caller must keep data
// alive for as long as Metadata (and any render using it) is in use.
func ParseMetadata(data []byte) (*Metadata, error) {
	r := newReader(data)

	// Step 1: header.
	major, err := r.u8()
	if err != nil {
		return nil, err
	}
	if major != 1 {
		return nil, ErrUnsupportedTableVersion
	}
	if _, err := r.u8(); err != nil { // minor
		return nil, err
	}
	hdrSize, err := r.u8()
	if err != nil {
		return nil, err
	}
	if _, err := r.u8(); err != nil { // header offSize, unused past this point
		return nil, err
	}
	if err := r.seek(int(hdrSize)); err != nil {
		return nil, err
	}

	// Step 2: Name INDEX, discarded.
	if err := skipIndex(r); err != nil {
		return nil, err
	}

	// Step 3: Top DICT INDEX; take the first dictionary.
	topDicts, err := parseIndex(r)
	if err != nil {
		return nil, err
	}
	topDict, ok := topDicts.get(0)
	if !ok {
		return nil, ErrNoCharStrings
	}
	charStringsOffset, privateOffset, privateSize, hasPrivate, err := parseTopDict(topDict)
	if err != nil {
		return nil, err
	}

	// Step 4: Private DICT, if present and in bounds.
	var localSubrsOffset int
	var hasLocalSubrs bool
	if hasPrivate && privateSize > 0 && privateOffset >= 0 && privateOffset+privateSize <= len(data) {
		privateDict := data[privateOffset : privateOffset+privateSize]
		localSubrsOffset, hasLocalSubrs, err = parsePrivateDict(privateDict)
		if err != nil {
			return nil, err
		}
	}

	// Step 5: String INDEX, discarded.
	if err := skipIndex(r); err != nil {
		return nil, err
	}

	// Step 6: Global Subrs INDEX.
	globalSubrs, err := parseIndex(r)
	if err != nil {
		return nil, err
	}

	// Step 7: Local Subrs INDEX, relative to the Private DICT start.
	var localSubrs dataIndex
	if hasLocalSubrs {
		localSubrs, err = parseIndexAt(r, privateOffset+localSubrsOffset)
		if err != nil {
			return nil, err
		}
	}

	// Step 8: CharStrings INDEX.
	charStrings, err := parseIndexAt(r, charStringsOffset)
	if err != nil {
		return nil, err
	}
	if charStrings.count() == 0 {
		return nil, ErrNoCharStrings
	}

	return &Metadata{
		GlobalSubrs: globalSubrs,
		LocalSubrs:  localSubrs,
		CharStrings: charStrings,
	}, nil
}
