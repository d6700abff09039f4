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

import "github.com/Fantom-foundation/Pancake/go/pancake"

// stackUsage defines the effect of an instruction on the operand stack.
type stackUsage struct {
	pops, pushes int
}

// computeStackUsage returns the number of values the given op-code consumes
// from and produces on the operand stack. Invalid op-codes use no stack.
func computeStackUsage(op pancake.OpCode) stackUsage {
	switch op {
	case pancake.PUSH:
		return stackUsage{pops: 0, pushes: 1}
	case pancake.POP:
		return stackUsage{pops: 1, pushes: 0}
	case pancake.PRINT:
		return stackUsage{pops: 1, pushes: 1}
	case pancake.SWAP:
		return stackUsage{pops: 2, pushes: 2}
	case pancake.ADD, pancake.SUB, pancake.MUL, pancake.DIV:
		return stackUsage{pops: 2, pushes: 1}
	case pancake.LOAD:
		return stackUsage{pops: 1, pushes: 1}
	case pancake.STORE:
		return stackUsage{pops: 2, pushes: 0}
	case pancake.JUMPZ, pancake.JUMPNOTZ:
		return stackUsage{pops: 1, pushes: 0}
	}
	return stackUsage{}
}

// checkStackLimits checks that the op-code will not make an out of bounds
// access with the current stack size. The operand stack grows on demand, so
// only underflows are possible.
func checkStackLimits(stackLen int, op pancake.OpCode) error {
	if stackLen < _precomputedStackMinimum.get(op) {
		return pancake.ErrStackUnderflow
	}
	return nil
}

var _precomputedStackMinimum = newOpCodePropertyMap(func(op pancake.OpCode) int {
	return computeStackUsage(op).pops
})

// opCodePropertyMap is a generic property map for precomputed values.
// Its purpose is to provide a precomputed lookup table for OpCode properties
// that can be generated from a function that takes an OpCode as input.
type opCodePropertyMap[T any] struct {
	lookup [pancake.NUM_OPCODES]T
}

// newOpCodePropertyMap creates a new OpCode property map.
// The property function shall be resilient to undefined OpCode values, and not
// panic. The zero values or a sentinel value shall be used in such cases.
func newOpCodePropertyMap[T any](property func(op pancake.OpCode) T) opCodePropertyMap[T] {
	lookup := [pancake.NUM_OPCODES]T{}
	for i := 0; i < int(pancake.NUM_OPCODES); i++ {
		lookup[i] = property(pancake.OpCode(i))
	}
	return opCodePropertyMap[T]{lookup}
}

func (p *opCodePropertyMap[T]) get(op pancake.OpCode) T {
	if !op.IsValid() {
		var zero T
		return zero
	}
	return p.lookup[op]
}
