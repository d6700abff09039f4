// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package asm

import "github.com/Fantom-foundation/Pancake/go/pancake"

// Resolve replaces every symbolic target in the given instructions by the
// address the label table binds it to. Targets that are already resolved are
// kept as they are, so resolving a program without symbolic targets yields the
// same program. The first reference to an undefined label, in address order,
// is reported as *pancake.ResolutionError. The inputs are not modified.
func Resolve(code []pancake.Instruction, labels pancake.LabelTable) (pancake.Program, error) {
	resolved := make([]pancake.Instruction, len(code))
	for i, instruction := range code {
		resolved[i] = instruction
		if !instruction.OpCode().HasTarget() || instruction.Target().IsResolved() {
			continue
		}
		label := instruction.Target().Label()
		address, found := labels[label]
		if !found {
			return pancake.Program{}, &pancake.ResolutionError{
				Label:   label,
				Address: i,
				Line:    instruction.Line(),
			}
		}
		resolved[i] = instruction.WithTarget(pancake.ResolvedTarget(address))
	}
	return pancake.NewProgram(resolved...)
}
