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
	"errors"
	"fmt"

	"github.com/Fantom-foundation/Pancake/go/pancake"
)

// status is enumeration of the execution state of an interpreter run.
type status byte

const (
	statusRunning status = iota // < all fine, ops are processed
	statusHalted                // < execution stopped with a HALT
	statusFaulted               // < execution stopped with a fault
)

func (s status) String() string {
	switch s {
	case statusRunning:
		return "running"
	case statusHalted:
		return "halted"
	case statusFaulted:
		return "faulted"
	}
	return fmt.Sprintf("status(%d)", byte(s))
}

// context is the execution environment of an interpreter run. It contains the
// program, the output sink and the internal execution state such as the
// program counter, stacks, and memory. For each run, a new context is created.
type context struct {
	// Inputs
	code   pancake.Program
	output pancake.Output

	// Execution state
	pc        int
	stack     *stack
	callStack *callStack
	memory    *Memory

	// Accounting
	steps uint64
	fault *pancake.ExecutionError // < the fault that stopped the run, if any
}

// setFault records the given fault at the current program counter.
func (c *context) setFault(err error) {
	var fault *pancake.ExecutionError
	if !errors.As(err, &fault) {
		fault = &pancake.ExecutionError{Err: err}
	}
	fault.PC = c.pc
	if c.pc >= 0 && c.pc < c.code.Len() {
		fault.Instruction = c.code.At(c.pc)
	}
	c.fault = fault
}

// --- Interpreter ---

type runner interface {
	// run executes the program in the given context.
	// It returns the status of the execution:
	// - Any fault in the program execution shall return statusFaulted.
	// - error is reserved to return runtime errors, which are not valid states
	// and may not be recoverable.
	run(*context) (status, error)
}

func run(
	runner runner,
	program pancake.Program,
	memoryCapacity int,
	output pancake.Output,
) (pancake.Result, error) {
	if output == nil {
		output = pancake.OutputFunc(func(pancake.Value) {})
	}

	// Set up execution context.
	var ctxt = context{
		code:      program,
		output:    output,
		stack:     NewStack(),
		callStack: newCallStack(),
		memory:    NewMemory(memoryCapacity),
	}
	defer ReturnStack(ctxt.stack)
	defer returnCallStack(ctxt.callStack)

	if runner == nil {
		runner = vanillaRunner{}
	}
	status, err := runner.run(&ctxt)
	if err != nil {
		return pancake.Result{}, err
	}

	return generateResult(status, &ctxt)
}

func generateResult(status status, ctxt *context) (pancake.Result, error) {
	state := pancake.State{
		PC:        ctxt.pc,
		Stack:     ctxt.stack.snapshot(),
		CallStack: ctxt.callStack.snapshot(),
		Memory:    ctxt.memory.snapshot(),
	}
	switch status {
	case statusHalted:
		return pancake.Result{
			Status: pancake.StatusHalted,
			State:  state,
			Steps:  ctxt.steps,
		}, nil
	case statusFaulted:
		if ctxt.fault == nil {
			return pancake.Result{}, fmt.Errorf("unexpected error in interpreter, fault without cause at 0x%04x", ctxt.pc)
		}
		return pancake.Result{
			Status: pancake.StatusFaulted,
			Fault:  ctxt.fault,
			State:  state,
			Steps:  ctxt.steps,
		}, nil
	default:
		return pancake.Result{}, fmt.Errorf("unexpected error in interpreter, unknown status: %v", status)
	}
}

// --- Runners ---

// vanillaRunner is the default runner that executes the program without any
// additional features.
type vanillaRunner struct{}

func (r vanillaRunner) run(c *context) (status, error) {
	return steps(c, false)
}

// --- Execution ---

// step executes the single instruction pointed to by the program counter.
func step(c *context) (status, error) {
	return steps(c, true)
}

// steps executes the program in the given context until it halts or faults.
// If oneStepOnly is true, only the instruction pointed to by the program
// counter will be executed. Faults are recorded in the context and reported
// as statusFaulted. Each instruction either completes or leaves the state
// untouched, so a faulted context shows the state before the fault.
func steps(c *context, oneStepOnly bool) (status, error) {
	status := statusRunning
	for status == statusRunning {
		if c.pc < 0 || c.pc >= c.code.Len() {
			c.setFault(pancake.ErrProgramCounterOutOfRange)
			return statusFaulted, nil
		}

		instruction := c.code.At(c.pc)
		op := instruction.OpCode()
		c.steps++

		// Check stack boundary for every instruction
		if err := checkStackLimits(c.stack.len(), op); err != nil {
			c.setFault(err)
			return statusFaulted, nil
		}

		var err error

		// Execute instruction
		switch op {
		case pancake.PUSH:
			opPush(c, instruction.Value())
		case pancake.POP:
			opPop(c)
		case pancake.SWAP:
			opSwap(c)
		case pancake.PRINT:
			opPrint(c)
		case pancake.ADD:
			opAdd(c)
		case pancake.SUB:
			opSub(c)
		case pancake.MUL:
			opMul(c)
		case pancake.DIV:
			err = opDiv(c)
		case pancake.LOAD:
			err = opLoad(c)
		case pancake.STORE:
			err = opStore(c)
		case pancake.JUMP:
			err = opJump(c, instruction.Target())
		case pancake.JUMPZ:
			err = opJumpZ(c, instruction.Target())
		case pancake.JUMPNOTZ:
			err = opJumpNotZ(c, instruction.Target())
		case pancake.CALL:
			err = opCall(c, instruction.Target())
		case pancake.RET:
			err = opRet(c)
		case pancake.HALT:
			status = statusHalted
		default:
			return status, fmt.Errorf("unsupported op-code %v at 0x%04x", op, c.pc)
		}

		if err != nil {
			c.setFault(err)
			return statusFaulted, nil
		}

		if status == statusRunning {
			c.pc++
		}

		if oneStepOnly {
			return status, nil
		}
	}
	return status, nil
}
