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

//go:generate mockgen -source interpreter.go -destination interpreter_mock.go -package pancake

// Interpreter is a component capable of executing a resolved Program.
// To obtain an Interpreter instance, client code should use NewInterpreter()
// provided by the registry file in this package.
type Interpreter interface {
	// Run executes the program provided by the parameters and returns the
	// result. The resulting error is nil whenever the program was correctly
	// processed, even if the execution ended with a fault; faults are reported
	// through the result. The error is not nil if some problem within the
	// interpreter prevented the program from being processed, for instance
	// invalid parameters. In such a case the result is undefined.
	// Every run operates on its own freshly initialized state. Interpreters
	// are required to be thread-safe, thus multiple runs may be conducted in
	// parallel.
	Run(Parameters) (Result, error)
}

// Output is the sink for values emitted by PRINT. Values are delivered in
// program order, one call per executed PRINT.
type Output interface {
	Print(Value)
}

// OutputFunc adapts an ordinary function to the Output interface.
type OutputFunc func(Value)

func (f OutputFunc) Print(v Value) {
	f(v)
}

// Parameters summarizes the inputs of a single run.
type Parameters struct {
	Program Program
	// MemoryCapacity is the number of addressable memory cells. If zero, the
	// interpreter's configured default is used. Negative values are invalid.
	MemoryCapacity int
	// Output receives printed values. If nil, printed values are discarded.
	Output Output
}

// Status is the terminal state of a run.
type Status byte

const (
	StatusHalted  Status = iota // < execution reached a HALT instruction
	StatusFaulted               // < execution was stopped by a fault
)

func (s Status) String() string {
	switch s {
	case StatusHalted:
		return "halted"
	case StatusFaulted:
		return "faulted"
	}
	return fmt.Sprintf("Status(%d)", byte(s))
}

// State is a snapshot of the execution state of a run.
type State struct {
	PC        int
	Stack     []Value // bottom element first
	CallStack []int   // return addresses, oldest first
	// Memory holds the cells from address 0 up to the highest cell touched
	// by the run. All cells beyond are zero.
	Memory []Value
}

// MemoryAt returns the content of the memory cell at the given address.
func (s State) MemoryAt(address int) Value {
	if address < 0 || address >= len(s.Memory) {
		return 0
	}
	return s.Memory[address]
}

// Result summarizes the outcome of a run.
type Result struct {
	Status Status
	// Fault is the *ExecutionError that stopped a faulted run, nil otherwise.
	Fault error
	// State is the final state of a halted run or the state at the moment
	// of the fault.
	State State
	// Steps is the number of executed instructions, including the halting or
	// faulting one.
	Steps uint64
}
