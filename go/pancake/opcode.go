// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package pancake

import "fmt"

// Value is the only datum of the VM. All arithmetic wraps modulo 2^16.
type Value uint16

// OpCode enumerates the closed instruction set of the VM.
type OpCode byte

const (
	// Stack operations
	SWAP OpCode = iota
	PUSH
	POP
	PRINT

	// Arithmetic
	ADD
	SUB
	MUL
	DIV

	// Memory
	LOAD
	STORE

	// Control flow
	JUMP
	JUMPZ
	JUMPNOTZ
	CALL
	RET
	HALT

	// NUM_OPCODES is the number of defined op-codes. It is not an op-code.
	NUM_OPCODES
)

var mnemonics = [NUM_OPCODES]string{
	SWAP:     "swap",
	PUSH:     "push",
	POP:      "pop",
	PRINT:    "print",
	ADD:      "add",
	SUB:      "sub",
	MUL:      "mul",
	DIV:      "div",
	LOAD:     "load",
	STORE:    "store",
	JUMP:     "jump",
	JUMPZ:    "jumpz",
	JUMPNOTZ: "jumpnotz",
	CALL:     "call",
	RET:      "ret",
	HALT:     "halt",
}

var opCodeByMnemonic = func() map[string]OpCode {
	res := make(map[string]OpCode, NUM_OPCODES)
	for op, name := range mnemonics {
		res[name] = OpCode(op)
	}
	return res
}()

// LookupMnemonic returns the op-code with the given source mnemonic.
// Mnemonics are case-sensitive.
func LookupMnemonic(mnemonic string) (OpCode, bool) {
	op, found := opCodeByMnemonic[mnemonic]
	return op, found
}

// String returns the source mnemonic of the op-code.
func (o OpCode) String() string {
	if o.IsValid() {
		return mnemonics[o]
	}
	return fmt.Sprintf("op(0x%02X)", byte(o))
}

// IsValid returns true if o is part of the instruction set.
func (o OpCode) IsValid() bool {
	return o < NUM_OPCODES
}

// HasValue returns true if the instruction carries a numeric operand.
func (o OpCode) HasValue() bool {
	return o == PUSH
}

// HasTarget returns true if the instruction transfers control to a label.
func (o OpCode) HasTarget() bool {
	switch o {
	case JUMP, JUMPZ, JUMPNOTZ, CALL:
		return true
	}
	return false
}
