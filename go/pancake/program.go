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

import (
	"bytes"
	"fmt"
	"sort"

	"golang.org/x/exp/maps"
)

// Program is an immutable sequence of resolved instructions. Instruction
// indices are the addresses used by control-transfer instructions.
type Program struct {
	code []Instruction
}

// NewProgram creates a program from the given instructions. All targets must
// be resolved; the first symbolic target is reported as a ResolutionError.
// The instructions are copied.
func NewProgram(instructions ...Instruction) (Program, error) {
	for i, instruction := range instructions {
		if instruction.opcode.HasTarget() && !instruction.target.resolved {
			return Program{}, &ResolutionError{
				Label:   instruction.target.label,
				Address: i,
				Line:    instruction.line,
			}
		}
	}
	code := make([]Instruction, len(instructions))
	copy(code, instructions)
	return Program{code: code}, nil
}

// Len returns the number of instructions in the program.
func (p Program) Len() int {
	return len(p.code)
}

// At returns the instruction at the given address. The address must be in
// the range [0, Len()).
func (p Program) At(address int) Instruction {
	return p.code[address]
}

// Instructions returns a copy of the program's instructions.
func (p Program) Instructions() []Instruction {
	res := make([]Instruction, len(p.code))
	copy(res, p.code)
	return res
}

// Equal returns true if both programs consist of the same instructions.
// Source lines are not compared.
func (p Program) Equal(other Program) bool {
	if len(p.code) != len(other.code) {
		return false
	}
	for i := range p.code {
		if !p.code[i].sameAs(other.code[i]) {
			return false
		}
	}
	return true
}

func (p Program) String() string {
	var buffer bytes.Buffer
	for i, instruction := range p.code {
		buffer.WriteString(fmt.Sprintf("0x%04x: %v\n", i, instruction))
	}
	return buffer.String()
}

// LabelTable maps label names to the address of the instruction following
// their definition.
type LabelTable map[string]int

// Names returns the defined label names ordered by address and name.
func (t LabelTable) Names() []string {
	names := maps.Keys(t)
	sort.Slice(names, func(i, j int) bool {
		if t[names[i]] != t[names[j]] {
			return t[names[i]] < t[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
