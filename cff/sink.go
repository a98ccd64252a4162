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

import "math"

// Sink receives the drawing commands produced by Render. It is purely
// observational: no method returns a value or an error, and Render never
// inspects the sink's state.
type Sink interface {
	MoveTo(x, y float32)
	LineTo(x, y float32)
	CurveTo(x1, y1, x2, y2, x, y float32)
	Close()
}

// BoundingBox is the axis-aligned bounding box of a rendered glyph
// outline, rounded toward zero to 16-bit integer font units. A glyph
// that emitted no drawing commands returns the sentinel extremes
// unchanged; callers should treat such a box as empty.
type BoundingBox struct {
	XMin, YMin, XMax, YMax int16
}

// boundingBoxTracker wraps a caller Sink, intercepting every emitted
// coordinate to widen a running bounding box before forwarding the call
// unchanged.
type boundingBoxTracker struct {
	sink                   Sink
	xMin, yMin, xMax, yMax float32
}

func newBoundingBoxTracker(sink Sink) *boundingBoxTracker {
	return &boundingBoxTracker{
		sink: sink,
		xMin: math.MaxFloat32,
		yMin: math.MaxFloat32,
		xMax: -math.MaxFloat32,
		yMax: -math.MaxFloat32,
	}
}

func (t *boundingBoxTracker) track(x, y float32) {
	if x < t.xMin {
		t.xMin = x
	}
	if y < t.yMin {
		t.yMin = y
	}
	if x > t.xMax {
		t.xMax = x
	}
	if y > t.yMax {
		t.yMax = y
	}
}

func (t *boundingBoxTracker) moveTo(x, y float32) {
	t.track(x, y)
	t.sink.MoveTo(x, y)
}

func (t *boundingBoxTracker) lineTo(x, y float32) {
	t.track(x, y)
	t.sink.LineTo(x, y)
}

func (t *boundingBoxTracker) curveTo(x1, y1, x2, y2, x, y float32) {
	t.track(x1, y1)
	t.track(x2, y2)
	t.track(x, y)
	t.sink.CurveTo(x1, y1, x2, y2, x, y)
}

func (t *boundingBoxTracker) close() {
	t.sink.Close()
}

func (t *boundingBoxTracker) boundingBox() BoundingBox {
	return BoundingBox{
		XMin: saturateInt16(t.xMin),
		YMin: saturateInt16(t.yMin),
		XMax: saturateInt16(t.xMax),
		YMax: saturateInt16(t.yMax),
	}
}

// saturateInt16 converts a float32 to an int16, clamping rather than
// relying on Go's implementation-specific out-of-range conversion
// behavior. An untouched tracker's sentinel extremes (math.MaxFloat32,
// -math.MaxFloat32) saturate to math.MaxInt16/math.MinInt16, so an empty
// bounding box always satisfies XMin > XMax.
func saturateInt16(v float32) int16 {
	switch {
	case v >= math.MaxInt16:
		return math.MaxInt16
	case v <= math.MinInt16:
		return math.MinInt16
	default:
		return int16(v)
	}
}
