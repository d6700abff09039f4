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

// The operations below expect the stack limits to be checked by the caller.
// Operations that may fault check all their preconditions before modifying
// the context.

func opPush(c *context, value pancake.Value) {
	c.stack.push(value)
}

func opPop(c *context) {
	c.stack.pop()
}

func opSwap(c *context) {
	c.stack.swap(1)
}

func opPrint(c *context) {
	c.output.Print(*c.stack.peek())
}

func opAdd(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = *b + a
}

func opSub(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = *b - a
}

func opMul(c *context) {
	a := c.stack.pop()
	b := c.stack.peek()
	*b = *b * a
}

func opDiv(c *context) error {
	if c.stack.peekN(0) == 0 {
		return pancake.ErrDivisionByZero
	}
	a := c.stack.pop()
	b := c.stack.peek()
	*b = *b / a
	return nil
}

func opLoad(c *context) error {
	trg := c.stack.peek()
	if err := c.memory.checkAddress(*trg); err != nil {
		return err
	}
	*trg = c.memory.load(*trg)
	return nil
}

func opStore(c *context) error {
	if err := c.memory.checkAddress(c.stack.peekN(0)); err != nil {
		return err
	}
	addr := c.stack.pop()
	value := c.stack.pop()
	c.memory.store(addr, value)
	return nil
}

// checkJumpTarget returns an error if the given target is not an address of
// the program.
func checkJumpTarget(c *context, target pancake.Target) error {
	if address := target.Address(); !target.IsResolved() || address < 0 || address >= c.code.Len() {
		return &pancake.ExecutionError{
			Err:     pancake.ErrInvalidJumpTarget,
			Address: target.Address(),
		}
	}
	return nil
}

func opJump(c *context, target pancake.Target) error {
	if err := checkJumpTarget(c, target); err != nil {
		return err
	}
	// Update the PC to the jump destination -1 since interpreter will increase PC by 1 afterward.
	c.pc = target.Address() - 1
	return nil
}

func opJumpZ(c *context, target pancake.Target) error {
	return genericConditionalJump(c, target, func(v pancake.Value) bool { return v == 0 })
}

func opJumpNotZ(c *context, target pancake.Target) error {
	return genericConditionalJump(c, target, func(v pancake.Value) bool { return v != 0 })
}

func genericConditionalJump(c *context, target pancake.Target, taken func(pancake.Value) bool) error {
	if !taken(c.stack.peekN(0)) {
		c.stack.pop()
		return nil
	}
	if err := checkJumpTarget(c, target); err != nil {
		return err
	}
	c.stack.pop()
	// Update the PC to the jump destination -1 since interpreter will increase PC by 1 afterward.
	c.pc = target.Address() - 1
	return nil
}

func opCall(c *context, target pancake.Target) error {
	if err := checkJumpTarget(c, target); err != nil {
		return err
	}
	c.callStack.push(c.pc + 1)
	c.pc = target.Address() - 1
	return nil
}

func opRet(c *context) error {
	if c.callStack.len() == 0 {
		return pancake.ErrCallStackUnderflow
	}
	// The return address already points past the call.
	c.pc = c.callStack.pop() - 1
	return nil
}
