// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.


package examples

import (
	"fmt"
	"strconv"

	"github.com/Fantom-foundation/Pancake/go/asm"
	"github.com/Fantom-foundation/Pancake/go/pancake"
)

// Example is an executable description of a program computing a
// (Value)->Value function. The argument is pushed onto the stack before the
// program body runs, and the body is expected to print exactly one value,
// the result.
type Example struct {
	Name      string
	code      string                           // the program body
	reference func(pancake.Value) pancake.Value // a reference function computing the same function
}

type Result struct {
	Result pancake.Value
	Steps  uint64
}

// assembler is shared by all examples so that repeated runs with the same
// argument do not assemble the program again.
var assembler = func() *asm.Assembler {
	res, err := asm.NewAssembler(asm.Config{})
	if err != nil {
		panic(fmt.Sprintf("failed to create assembler: %v", err))
	}
	return res
}()

// Source returns the full source text of this example for the given argument.
func (e *Example) Source(argument pancake.Value) string {
	return "push " + strconv.Itoa(int(argument)) + "\n" + e.code
}

// RunOn runs this example on the given interpreter, using the given argument.
func (e *Example) RunOn(interpreter pancake.Interpreter, argument pancake.Value) (Result, error) {
	program, err := assembler.Assemble(e.Source(argument))
	if err != nil {
		return Result{}, err
	}

	var printed []pancake.Value
	res, err := interpreter.Run(pancake.Parameters{
		Program: program,
		Output:  pancake.OutputFunc(func(v pancake.Value) { printed = append(printed, v) }),
	})
	if err != nil {
		return Result{}, err
	}
	if res.Status != pancake.StatusHalted {
		return Result{}, fmt.Errorf("example %s did not halt: %w", e.Name, res.Fault)
	}
	if len(printed) != 1 {
		return Result{}, fmt.Errorf("unexpected number of printed values; wanted 1, got %d", len(printed))
	}
	return Result{
		Result: printed[0],
		Steps:  res.Steps,
	}, nil
}

// RunReference runs the reference function of this example to produce the expected result.
func (e *Example) RunReference(argument pancake.Value) pancake.Value {
	return e.reference(argument)
}

// GetAllExamples returns all examples of this package.
func GetAllExamples() []Example {
	return []Example{
		GetIncrementExample(),
		GetFibExample(),
		GetFactorialExample(),
		GetArithmeticExample(),
	}
}
