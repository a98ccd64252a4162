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

type nullSink struct{}

func (nullSink) MoveTo(x, y float32)                 {}
func (nullSink) LineTo(x, y float32)                 {}
func (nullSink) CurveTo(x1, y1, x2, y2, x, y float32) {}
func (nullSink) Close()                              {}

func TestBoundingBoxTrackerEmpty(t *testing.T) {
	tr := newBoundingBoxTracker(nullSink{})
	bbox := tr.boundingBox()
	if bbox.XMin < bbox.XMax {
		t.Errorf("expected sentinel (empty) bbox, got %+v", bbox)
	}
}

func TestBoundingBoxTrackerWidensOnEveryCoordinate(t *testing.T) {
	tr := newBoundingBoxTracker(nullSink{})
	tr.moveTo(5, 5)
	tr.lineTo(-3, 10)
	tr.curveTo(100, -50, 2, 2, 8, 8)

	bbox := tr.boundingBox()
	want := BoundingBox{XMin: -3, YMin: -50, XMax: 100, YMax: 10}
	if bbox != want {
		t.Errorf("boundingBox() = %+v, want %+v", bbox, want)
	}
}
