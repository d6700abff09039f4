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

// Target is the destination of a control-transfer instruction. Before
// resolution it names a label, afterwards it holds an instruction index.
type Target struct {
	label    string
	address  int
	resolved bool
}

// SymbolicTarget creates a target referring to the given label.
func SymbolicTarget(label string) Target {
	return Target{label: label}
}

// ResolvedTarget creates a target referring to the given instruction index.
func ResolvedTarget(address int) Target {
	return Target{address: address, resolved: true}
}

func (t Target) IsResolved() bool {
	return t.resolved
}

// Label returns the referenced label name. It is empty for resolved targets.
func (t Target) Label() string {
	return t.label
}

// Address returns the instruction index of a resolved target.
func (t Target) Address() int {
	return t.address
}

func (t Target) String() string {
	if t.resolved {
		return fmt.Sprintf("0x%04x", t.address)
	}
	return t.label
}

// Instruction is a single VM instruction. The operand kind is determined by
// the op-code: PUSH carries a Value, JUMP, JUMPZ, JUMPNOTZ and CALL carry a
// Target, everything else carries nothing. Instructions can only be created
// through the constructors of this package, which enforce this shape.
type Instruction struct {
	opcode OpCode
	value  Value
	target Target
	line   int
}

// NewInstruction creates an instruction without operand. It panics if the
// op-code requires one.
func NewInstruction(op OpCode) Instruction {
	if !op.IsValid() || op.HasValue() || op.HasTarget() {
		panic(fmt.Sprintf("op-code %v can not be used without operand", op))
	}
	return Instruction{opcode: op}
}

// Push creates a PUSH instruction for the given value.
func Push(value Value) Instruction {
	return Instruction{opcode: PUSH, value: value}
}

// NewBranch creates a control-transfer instruction. It panics if the op-code
// does not take a target.
func NewBranch(op OpCode, target Target) Instruction {
	if !op.HasTarget() {
		panic(fmt.Sprintf("op-code %v does not take a target", op))
	}
	return Instruction{opcode: op, target: target}
}

func (i Instruction) OpCode() OpCode {
	return i.opcode
}

// Value returns the operand of a PUSH instruction.
func (i Instruction) Value() Value {
	return i.value
}

// Target returns the operand of a control-transfer instruction.
func (i Instruction) Target() Target {
	return i.target
}

// Line returns the source line the instruction was assembled from, or 0 if
// the instruction was not created from source text.
func (i Instruction) Line() int {
	return i.line
}

// WithLine returns a copy of the instruction attributed to the given line.
func (i Instruction) WithLine(line int) Instruction {
	i.line = line
	return i
}

// WithTarget returns a copy of the instruction with its target replaced.
// It panics if the instruction does not take a target.
func (i Instruction) WithTarget(target Target) Instruction {
	if !i.opcode.HasTarget() {
		panic(fmt.Sprintf("op-code %v does not take a target", i.opcode))
	}
	i.target = target
	return i
}

// sameAs compares two instructions ignoring their source lines.
func (i Instruction) sameAs(other Instruction) bool {
	return i.opcode == other.opcode && i.value == other.value && i.target == other.target
}

func (i Instruction) String() string {
	switch {
	case i.opcode.HasValue():
		return fmt.Sprintf("%v %d", i.opcode, i.value)
	case i.opcode.HasTarget():
		return fmt.Sprintf("%v %v", i.opcode, i.target)
	}
	return i.opcode.String()
}
