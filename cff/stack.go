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

import "golang.org/x/exp/slices"

// maxArgumentsStackLen is the Type-2 CharString operand stack ceiling.
const maxArgumentsStackLen = 48

// argumentsStack is the interpreter's operand stack: fixed capacity, no
// heap allocation, shared by a CharString and every subroutine it calls.
type argumentsStack struct {
	data [maxArgumentsStackLen]float32
	len  int
}

func (s *argumentsStack) push(v float32) error {
	if s.len >= maxArgumentsStackLen {
		return ErrArgumentsStackLimitReached
	}
	s.data[s.len] = v
	s.len++
	return nil
}

func (s *argumentsStack) at(i int) float32 {
	return s.data[i]
}

func (s *argumentsStack) length() int {
	return s.len
}

func (s *argumentsStack) isEmpty() bool {
	return s.len == 0
}

// pop removes and returns the top of the stack. The caller must not call
// pop on an empty stack.
func (s *argumentsStack) pop() float32 {
	s.len--
	return s.data[s.len]
}

func (s *argumentsStack) clear() {
	s.len = 0
}

// reverse reverses the stack's current contents in place.
func (s *argumentsStack) reverse() {
	slices.Reverse(s.data[:s.len])
}
