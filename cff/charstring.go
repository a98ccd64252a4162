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

import "github.com/go-cff/charstring/glyph"

// Type-2 CharString operators, Adobe Technical Note #5177 Appendix A.
const (
	opHStem      = 1
	opVStem      = 3
	opVMoveTo    = 4
	opRLineTo    = 5
	opHLineTo    = 6
	opVLineTo    = 7
	opRRCurveTo  = 8
	opCallSubr   = 10
	opReturn     = 11
	opEscape     = 12
	opEndChar    = 14
	opHStemHM    = 18
	opHintMask   = 19
	opCntrMask   = 20
	opRMoveTo    = 21
	opHMoveTo    = 22
	opVStemHM    = 23
	opRCurveLine = 24
	opRLineCurve = 25
	opVVCurveTo  = 26
	opHHCurveTo  = 27
	opShortInt   = 28
	opCallGSubr  = 29
	opVHCurveTo  = 30
	opHVCurveTo  = 31
	escHFlex     = 34
	escFlex      = 35
	escHFlex1    = 36
	escFlex1     = 37
)

// maxSubrDepth is the subroutine call nesting ceiling (Adobe Technical
// Note #5177 chapter 4.3, "implementation limit").
const maxSubrDepth = 10

// calcSubroutineBias maps a subroutine INDEX's entry count to the bias
// added to a CharString's popped subroutine index, Adobe Technical Note
// #5176 chapter 16.
func calcSubroutineBias(count int) int32 {
	switch {
	case count < 1240:
		return 107
	case count < 33900:
		return 1131
	default:
		return 32768
	}
}

func isOdd(n int) bool {
	return n%2 != 0
}

// interpreter holds the state that is shared across a glyph's entire
// recursive CharString/subroutine tree: the width/stem/first-move bits
// that give individual operators their context-sensitive meaning, plus
// the metadata and sink the whole render is scoped to.
type interpreter struct {
	metadata *Metadata
	tracker  *boundingBoxTracker

	isFirstMoveTo bool
	widthParsed   bool
	stemsLen      uint32
}

// Render executes the Type-2 CharString for glyphID against metadata,
// emitting drawing commands to sink, and returns the integer bounding
// box of the resulting outline.
func Render(metadata *Metadata, glyphID glyph.ID, sink Sink) (BoundingBox, error) {
	data, ok := metadata.CharStrings.get(int(glyphID))
	if !ok {
		return BoundingBox{}, ErrNoGlyph
	}

	interp := &interpreter{
		metadata:      metadata,
		tracker:       newBoundingBoxTracker(sink),
		isFirstMoveTo: true,
	}

	var stack argumentsStack
	if _, _, err := interp.run(data, 0, 0, &stack, 0); err != nil {
		return BoundingBox{}, err
	}
	return interp.tracker.boundingBox(), nil
}

// run interprets one CharString (top-level or subroutine) starting at
// pen position (x, y), sharing stack with the caller, and returns the
// pen position at the end of the stream.
func (interp *interpreter) run(data []byte, x, y float32, stack *argumentsStack, depth int) (float32, float32, error) {
	r := newReader(data)

	for !r.atEnd() {
		op, err := r.u8()
		if err != nil {
			return 0, 0, err
		}

		// Operand-pushing byte ranges are checked first, matching the
		// teacher's t2decode.go: these are numeric literals, not operator
		// dispatch, so they're handled before the operator switch below.
		switch {
		case op >= 32 && op <= 246:
			if err := stack.push(float32(int32(op) - 139)); err != nil {
				return 0, 0, err
			}
			continue

		case op >= 247 && op <= 250:
			b1, err := r.u8()
			if err != nil {
				return 0, 0, err
			}
			n := (int32(op)-247)*256 + int32(b1) + 108
			if err := stack.push(float32(n)); err != nil {
				return 0, 0, err
			}
			continue

		case op >= 251 && op <= 254:
			b1, err := r.u8()
			if err != nil {
				return 0, 0, err
			}
			n := -(int32(op)-251)*256 - int32(b1) - 108
			if err := stack.push(float32(n)); err != nil {
				return 0, 0, err
			}
			continue

		case op == opShortInt:
			v, err := r.i16()
			if err != nil {
				return 0, 0, err
			}
			if err := stack.push(float32(v)); err != nil {
				return 0, 0, err
			}
			continue

		case op == 255:
			v, err := r.i32()
			if err != nil {
				return 0, 0, err
			}
			if err := stack.push(float32(v) / 65536); err != nil {
				return 0, 0, err
			}
			continue
		}

		switch op {
		case 0, 2, 9, 13, 15, 16, 17:
			return 0, 0, ErrInvalidOperator

		case opHStem, opVStem, opHStemHM, opVStemHM:
			n := stack.length()
			if isOdd(n) && !interp.widthParsed {
				interp.widthParsed = true
				n--
			}
			interp.stemsLen += uint32(n) >> 1
			stack.clear()

		case opVMoveTo:
			i := 0
			switch {
			case stack.length() == 2 && !interp.widthParsed:
				i = 1
				interp.widthParsed = true
			case stack.length() != 1:
				return 0, 0, ErrInvalidArgumentsStackLength
			}
			if interp.isFirstMoveTo {
				interp.isFirstMoveTo = false
			} else {
				interp.tracker.close()
			}
			y += stack.at(i)
			interp.tracker.moveTo(x, y)
			stack.clear()

		case opRLineTo:
			if isOdd(stack.length()) {
				return 0, 0, ErrInvalidArgumentsStackLength
			}
			for i := 0; i < stack.length(); i += 2 {
				x += stack.at(i)
				y += stack.at(i + 1)
				interp.tracker.lineTo(x, y)
			}
			stack.clear()

		case opHLineTo:
			i := 0
			for i < stack.length() {
				x += stack.at(i)
				i++
				interp.tracker.lineTo(x, y)
				if i == stack.length() {
					break
				}
				y += stack.at(i)
				i++
				interp.tracker.lineTo(x, y)
			}
			stack.clear()

		case opVLineTo:
			i := 0
			for i < stack.length() {
				y += stack.at(i)
				i++
				interp.tracker.lineTo(x, y)
				if i == stack.length() {
					break
				}
				x += stack.at(i)
				i++
				interp.tracker.lineTo(x, y)
			}
			stack.clear()

		case opRRCurveTo:
			if stack.length()%6 != 0 {
				return 0, 0, ErrInvalidArgumentsStackLength
			}
			for i := 0; i < stack.length(); i += 6 {
				x1 := x + stack.at(i)
				y1 := y + stack.at(i + 1)
				x2 := x1 + stack.at(i + 2)
				y2 := y1 + stack.at(i + 3)
				x = x2 + stack.at(i + 4)
				y = y2 + stack.at(i + 5)
				interp.tracker.curveTo(x1, y1, x2, y2, x, y)
			}
			stack.clear()

		case opCallSubr:
			nx, ny, err := interp.callSubr(interp.metadata.LocalSubrs, x, y, stack, depth)
			if err != nil {
				return 0, 0, err
			}
			x, y = nx, ny

		case opReturn:
			return x, y, nil

		case opEscape:
			op2, err := r.u8()
			if err != nil {
				return 0, 0, err
			}
			nx, ny, err := interp.runFlex(op2, x, y, stack)
			if err != nil {
				return 0, 0, err
			}
			x, y = nx, ny

		case opEndChar:
			if !stack.isEmpty() && !interp.widthParsed {
				stack.clear()
				interp.widthParsed = true
			}
			if !interp.isFirstMoveTo {
				interp.isFirstMoveTo = true
				interp.tracker.close()
			}

		case opHintMask, opCntrMask:
			n := stack.length()
			stack.clear()
			if isOdd(n) && !interp.widthParsed {
				interp.widthParsed = true
				n--
			}
			interp.stemsLen += uint32(n) >> 1
			if err := r.advance(int((interp.stemsLen + 7) >> 3)); err != nil {
				return 0, 0, err
			}

		case opRMoveTo:
			i := 0
			switch {
			case stack.length() == 3 && !interp.widthParsed:
				i = 1
				interp.widthParsed = true
			case stack.length() != 2:
				return 0, 0, ErrInvalidArgumentsStackLength
			}
			if interp.isFirstMoveTo {
				interp.isFirstMoveTo = false
			} else {
				interp.tracker.close()
			}
			x += stack.at(i)
			y += stack.at(i + 1)
			interp.tracker.moveTo(x, y)
			stack.clear()

		case opHMoveTo:
			i := 0
			switch {
			case stack.length() == 2 && !interp.widthParsed:
				i = 1
				interp.widthParsed = true
			case stack.length() != 1:
				return 0, 0, ErrInvalidArgumentsStackLength
			}
			if interp.isFirstMoveTo {
				interp.isFirstMoveTo = false
			} else {
				interp.tracker.close()
			}
			x += stack.at(i)
			interp.tracker.moveTo(x, y)
			stack.clear()

		case opRCurveLine:
			if stack.length() < 8 || (stack.length()-2)%6 != 0 {
				return 0, 0, ErrInvalidArgumentsStackLength
			}
			i := 0
			for i < stack.length()-2 {
				x1 := x + stack.at(i)
				y1 := y + stack.at(i + 1)
				x2 := x1 + stack.at(i + 2)
				y2 := y1 + stack.at(i + 3)
				x = x2 + stack.at(i + 4)
				y = y2 + stack.at(i + 5)
				interp.tracker.curveTo(x1, y1, x2, y2, x, y)
				i += 6
			}
			x += stack.at(i)
			y += stack.at(i + 1)
			interp.tracker.lineTo(x, y)
			stack.clear()

		case opRLineCurve:
			if stack.length() < 8 || isOdd(stack.length()-6) {
				return 0, 0, ErrInvalidArgumentsStackLength
			}
			i := 0
			for i < stack.length()-6 {
				x += stack.at(i)
				y += stack.at(i + 1)
				interp.tracker.lineTo(x, y)
				i += 2
			}
			x1 := x + stack.at(i)
			y1 := y + stack.at(i + 1)
			x2 := x1 + stack.at(i + 2)
			y2 := y1 + stack.at(i + 3)
			x = x2 + stack.at(i + 4)
			y = y2 + stack.at(i + 5)
			interp.tracker.curveTo(x1, y1, x2, y2, x, y)
			stack.clear()

		case opVVCurveTo:
			i := 0
			if isOdd(stack.length()) {
				x += stack.at(0)
				i = 1
			}
			if (stack.length()-i)%4 != 0 {
				return 0, 0, ErrInvalidArgumentsStackLength
			}
			for i < stack.length() {
				x1 := x
				y1 := y + stack.at(i)
				x2 := x1 + stack.at(i + 1)
				y2 := y1 + stack.at(i + 2)
				x = x2
				y = y2 + stack.at(i + 3)
				interp.tracker.curveTo(x1, y1, x2, y2, x, y)
				i += 4
			}
			stack.clear()

		case opHHCurveTo:
			i := 0
			if isOdd(stack.length()) {
				y += stack.at(0)
				i = 1
			}
			if (stack.length()-i)%4 != 0 {
				return 0, 0, ErrInvalidArgumentsStackLength
			}
			for i < stack.length() {
				x1 := x + stack.at(i)
				y1 := y
				x2 := x1 + stack.at(i + 1)
				y2 := y1 + stack.at(i + 2)
				x = x2 + stack.at(i + 3)
				y = y2
				interp.tracker.curveTo(x1, y1, x2, y2, x, y)
				i += 4
			}
			stack.clear()

		case opCallGSubr:
			nx, ny, err := interp.callSubr(interp.metadata.GlobalSubrs, x, y, stack, depth)
			if err != nil {
				return 0, 0, err
			}
			x, y = nx, ny

		case opVHCurveTo:
			nx, ny, err := vhCurveTo(interp, x, y, stack)
			if err != nil {
				return 0, 0, err
			}
			x, y = nx, ny

		case opHVCurveTo:
			nx, ny, err := hvCurveTo(interp, x, y, stack)
			if err != nil {
				return 0, 0, err
			}
			x, y = nx, ny

		default:
			return 0, 0, ErrInvalidOperator
		}
	}

	return x, y, nil
}

// callSubr pops a biased subroutine index from stack, resolves it
// against subrs, and recurses one level deeper.
func (interp *interpreter) callSubr(subrs dataIndex, x, y float32, stack *argumentsStack, depth int) (float32, float32, error) {
	if stack.isEmpty() {
		return 0, 0, ErrInvalidArgumentsStackLength
	}
	if depth == maxSubrDepth {
		return 0, 0, ErrNestingLimitReached
	}
	bias := calcSubroutineBias(subrs.count())
	index := int32(stack.pop()) + bias
	data, ok := subrs.get(int(index))
	if !ok {
		return 0, 0, ErrNoGlyph
	}
	return interp.run(data, x, y, stack, depth+1)
}

// runFlex dispatches the four two-byte flex operators (escape 34/35/36/37).
func (interp *interpreter) runFlex(op2 byte, x, y float32, stack *argumentsStack) (float32, float32, error) {
	switch op2 {
	case escHFlex:
		if stack.length() != 7 {
			return 0, 0, ErrInvalidArgumentsStackLength
		}
		dx1 := x + stack.at(0)
		dy1 := y
		dx2 := dx1 + stack.at(1)
		dy2 := dy1 + stack.at(2)
		dx3 := dx2 + stack.at(3)
		dy3 := dy2
		dx4 := dx3 + stack.at(4)
		dy4 := dy2
		dx5 := dx4 + stack.at(5)
		dy5 := y
		x = dx5 + stack.at(6)
		y = dy5
		interp.tracker.curveTo(dx1, dy1, dx2, dy2, dx3, dy3)
		interp.tracker.curveTo(dx4, dy4, dx5, dy5, x, y)
		stack.clear()
		return x, y, nil

	case escFlex:
		if stack.length() != 13 {
			return 0, 0, ErrInvalidArgumentsStackLength
		}
		dx1 := x + stack.at(0)
		dy1 := y + stack.at(1)
		dx2 := dx1 + stack.at(2)
		dy2 := dy1 + stack.at(3)
		dx3 := dx2 + stack.at(4)
		dy3 := dy2 + stack.at(5)
		dx4 := dx3 + stack.at(6)
		dy4 := dy3 + stack.at(7)
		dx5 := dx4 + stack.at(8)
		dy5 := dy4 + stack.at(9)
		x = dx5 + stack.at(10)
		y = dy5 + stack.at(11)
		interp.tracker.curveTo(dx1, dy1, dx2, dy2, dx3, dy3)
		interp.tracker.curveTo(dx4, dy4, dx5, dy5, x, y)
		stack.clear()
		return x, y, nil

	case escHFlex1:
		if stack.length() != 9 {
			return 0, 0, ErrInvalidArgumentsStackLength
		}
		dx1 := x + stack.at(0)
		dy1 := y + stack.at(1)
		dx2 := dx1 + stack.at(2)
		dy2 := dy1 + stack.at(3)
		dx3 := dx2 + stack.at(4)
		dy3 := dy2
		dx4 := dx3 + stack.at(5)
		dy4 := dy2
		dx5 := dx4 + stack.at(6)
		dy5 := dy4 + stack.at(7)
		x = dx5 + stack.at(8)
		y = dy5
		interp.tracker.curveTo(dx1, dy1, dx2, dy2, dx3, dy3)
		interp.tracker.curveTo(dx4, dy4, dx5, dy5, x, y)
		stack.clear()
		return x, y, nil

	case escFlex1:
		if stack.length() != 11 {
			return 0, 0, ErrInvalidArgumentsStackLength
		}
		dx1 := x + stack.at(0)
		dy1 := y + stack.at(1)
		dx2 := dx1 + stack.at(2)
		dy2 := dy1 + stack.at(3)
		dx3 := dx2 + stack.at(4)
		dy3 := dy2 + stack.at(5)
		dx4 := dx3 + stack.at(6)
		dy4 := dy3 + stack.at(7)
		dx5 := dx4 + stack.at(8)
		dy5 := dy4 + stack.at(9)
		if abs32(dx5-x) > abs32(dy5-y) {
			x = dx5 + stack.at(10)
			y = dy5
		} else {
			x = dx5
			y = dy5 + stack.at(10)
		}
		interp.tracker.curveTo(dx1, dy1, dx2, dy2, dx3, dy3)
		interp.tracker.curveTo(dx4, dy4, dx5, dy5, x, y)
		stack.clear()
		return x, y, nil

	default:
		return 0, 0, ErrUnsupportedOperator
	}
}

// vhCurveTo implements operator 30: alternating vertical-then-horizontal
// cubic segments, with an optional trailing operand (present only when
// exactly one operand remains after a group of four) that adjusts the
// off-axis coordinate of that segment's endpoint.
func vhCurveTo(interp *interpreter, x, y float32, stack *argumentsStack) (float32, float32, error) {
	if stack.length() < 4 {
		return 0, 0, ErrInvalidArgumentsStackLength
	}
	stack.reverse()
	for !stack.isEmpty() {
		if stack.length() < 4 {
			return 0, 0, ErrInvalidArgumentsStackLength
		}
		x1 := x
		y1 := y + stack.pop()
		x2 := x1 + stack.pop()
		y2 := y1 + stack.pop()
		x = x2 + stack.pop()
		if stack.length() == 1 {
			y = y2 + stack.pop()
		} else {
			y = y2
		}
		interp.tracker.curveTo(x1, y1, x2, y2, x, y)
		if stack.isEmpty() {
			break
		}

		if stack.length() < 4 {
			return 0, 0, ErrInvalidArgumentsStackLength
		}
		x1 = x + stack.pop()
		y1 = y
		x2 = x1 + stack.pop()
		y2 = y1 + stack.pop()
		y = y2 + stack.pop()
		if stack.length() == 1 {
			x = x2 + stack.pop()
		} else {
			x = x2
		}
		interp.tracker.curveTo(x1, y1, x2, y2, x, y)
	}
	return x, y, nil
}

// hvCurveTo implements operator 31, symmetric to vhCurveTo starting on
// the horizontal axis.
func hvCurveTo(interp *interpreter, x, y float32, stack *argumentsStack) (float32, float32, error) {
	if stack.length() < 4 {
		return 0, 0, ErrInvalidArgumentsStackLength
	}
	stack.reverse()
	for !stack.isEmpty() {
		if stack.length() < 4 {
			return 0, 0, ErrInvalidArgumentsStackLength
		}
		x1 := x + stack.pop()
		y1 := y
		x2 := x1 + stack.pop()
		y2 := y1 + stack.pop()
		y = y2 + stack.pop()
		if stack.length() == 1 {
			x = x2 + stack.pop()
		} else {
			x = x2
		}
		interp.tracker.curveTo(x1, y1, x2, y2, x, y)
		if stack.isEmpty() {
			break
		}

		if stack.length() < 4 {
			return 0, 0, ErrInvalidArgumentsStackLength
		}
		x1 = x
		y1 = y + stack.pop()
		x2 = x1 + stack.pop()
		y2 = y1 + stack.pop()
		x = x2 + stack.pop()
		if stack.length() == 1 {
			y = y2 + stack.pop()
		} else {
			y = y2
		}
		interp.tracker.curveTo(x1, y1, x2, y2, x, y)
	}
	return x, y, nil
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
