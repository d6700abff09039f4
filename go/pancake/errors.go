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

// ConstError is an error type that can be used to define immutable
// error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

// Assembly error kinds. They are reported wrapped in an AssemblyError.
const (
	ErrUnknownMnemonic   = ConstError("unknown mnemonic")
	ErrMissingOperand    = ConstError("missing operand")
	ErrInvalidOperand    = ConstError("invalid operand")
	ErrUnexpectedToken   = ConstError("unexpected token")
	ErrDuplicateLabel    = ConstError("duplicate label definition")
	ErrLiteralOutOfRange = ConstError("numeric literal out of 16-bit range")
	ErrInvalidCharacter  = ConstError("invalid character")
)

// ErrUndefinedLabel is the kind of every ResolutionError.
const ErrUndefinedLabel = ConstError("undefined label")

// Execution faults. They are reported wrapped in an ExecutionError.
const (
	ErrStackUnderflow           = ConstError("stack underflow")
	ErrCallStackUnderflow       = ConstError("call stack underflow")
	ErrDivisionByZero           = ConstError("division by zero")
	ErrMemoryOutOfBounds        = ConstError("memory access out of bounds")
	ErrInvalidJumpTarget        = ConstError("invalid jump target")
	ErrProgramCounterOutOfRange = ConstError("program counter out of range")
)

// AssemblyError reports a malformed token stream. Err is one of the assembly
// error kinds declared in this package.
type AssemblyError struct {
	Line  int    // 1-based source line
	Token string // offending token text, empty at end of input
	Err   error
}

func (e *AssemblyError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v '%s'", e.Line, e.Err, e.Token)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}

// ResolutionError reports a reference to a label that is never defined.
type ResolutionError struct {
	Label   string
	Address int // address of the referencing instruction
	Line    int // source line of the referencing instruction, 0 if unknown
}

func (e *ResolutionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v '%s' referenced at 0x%04x", e.Line, ErrUndefinedLabel, e.Label, e.Address)
	}
	return fmt.Sprintf("%v '%s' referenced at 0x%04x", ErrUndefinedLabel, e.Label, e.Address)
}

func (e *ResolutionError) Unwrap() error {
	return ErrUndefinedLabel
}

// ExecutionError describes a fault and the place where it happened.
type ExecutionError struct {
	Err         error       // one of the execution faults
	PC          int         // program counter of the faulting instruction
	Instruction Instruction // zero value for ErrProgramCounterOutOfRange
	Address     int         // memory address or jump target, if relevant
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("%v at 0x%04x", e.Err, e.PC)
	switch e.Err {
	case ErrProgramCounterOutOfRange:
		// there is no instruction to report
	case ErrMemoryOutOfBounds:
		msg += fmt.Sprintf(" (%v, address %d)", e.Instruction, e.Address)
	default:
		msg += fmt.Sprintf(" (%v)", e.Instruction)
	}
	if line := e.Instruction.Line(); line > 0 {
		msg += fmt.Sprintf(", line %d", line)
	}
	return msg
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
