// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package pvm

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Fantom-foundation/Pancake/go/pancake"
)

// stack is the operand stack of the VM. It grows on demand and is only
// bounded by the resources of the host. Boundaries are not checked. Users of
// the stack must prevent underflow situations.
//
// To reduce allocations, stacks are recycled through a pool. To obtain an
// empty stack from the pool, use NewStack(). To return a stack to the pool,
// use ReturnStack(s).
//
// Example usage:
//
//	s := NewStack()
//	defer ReturnStack(s)
//	<use the stack in your local scope>
//
// The stack is not thread-safe. NewStack() and ReturnStack() are thread-safe.
type stack struct {
	data []pancake.Value
}

// push adds the given value to the top of the stack.
func (s *stack) push(v pancake.Value) {
	s.data = append(s.data, v)
}

// pop removes the top element from the stack and returns it.
func (s *stack) pop() pancake.Value {
	top := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return top
}

// peek returns a pointer to the top element of the stack without removing it.
// The returned pointer is only valid until the next push operation. It can
// be used to update the top element in place.
func (s *stack) peek() *pancake.Value {
	return &s.data[len(s.data)-1]
}

// peekN returns the n-th element from the top of the stack without removing
// it. The top element is at index 0. Thus, peekN(0) is equivalent to *peek().
func (s *stack) peekN(n int) pancake.Value {
	return s.data[len(s.data)-n-1]
}

// len returns the number of elements on the stack.
func (s *stack) len() int {
	return len(s.data)
}

// swap exchanges the top element with the n-th element from the top. The top
// element is at index 0. Thus, swap(0) is a no-op.
func (s *stack) swap(n int) {
	top := len(s.data) - 1
	s.data[top-n], s.data[top] = s.data[top], s.data[top-n]
}

// snapshot returns a copy of the stack content, bottom element first.
func (s *stack) snapshot() []pancake.Value {
	res := make([]pancake.Value, len(s.data))
	copy(res, s.data)
	return res
}

func (s *stack) String() string {
	b := strings.Builder{}
	for i := 0; i < s.len(); i++ {
		b.WriteString(fmt.Sprintf("    [%4d] %d\n", s.len()-i-1, s.peekN(i)))
	}
	return b.String()
}

// callStack holds the return addresses of active subroutine calls. It is
// kept apart from the operand stack so that values and return addresses can
// never be confused.
type callStack struct {
	data []int
}

func (s *callStack) push(returnAddress int) {
	s.data = append(s.data, returnAddress)
}

func (s *callStack) pop() int {
	top := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return top
}

func (s *callStack) len() int {
	return len(s.data)
}

func (s *callStack) snapshot() []int {
	res := make([]int, len(s.data))
	copy(res, s.data)
	return res
}

// ------------------ Stack Pools ------------------

// maxPooledCapacity is the largest capacity of a stack that is retained in a
// pool. Bigger stacks are left to the garbage collector to avoid pinning the
// memory of a single deep recursion.
const maxPooledCapacity = 1 << 16

var stackPool = sync.Pool{
	New: func() any {
		return &stack{data: make([]pancake.Value, 0, 1024)}
	},
}

var callStackPool = sync.Pool{
	New: func() any {
		return &callStack{data: make([]int, 0, 64)}
	},
}

// NewStack returns an empty operand stack from the reuse pool.
// This function is thread-safe.
func NewStack() *stack {
	return stackPool.Get().(*stack)
}

// ReturnStack returns the stack to the reuse pool. Any stack may only be
// returned once to avoid concurrent re-use. This is not checked internally.
// This function is thread-safe.
func ReturnStack(s *stack) {
	if cap(s.data) > maxPooledCapacity {
		return
	}
	s.data = s.data[:0]
	stackPool.Put(s)
}

// newCallStack returns an empty call stack from the reuse pool.
func newCallStack() *callStack {
	return callStackPool.Get().(*callStack)
}

// returnCallStack returns the call stack to the reuse pool.
func returnCallStack(s *callStack) {
	if cap(s.data) > maxPooledCapacity {
		return
	}
	s.data = s.data[:0]
	callStackPool.Put(s)
}
