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

import (
	"errors"
	"testing"

	"github.com/Fantom-foundation/Pancake/go/pancake"
	"pgregory.net/rand"
)

func newBenchmarkRand() *rand.Rand {
	return rand.New(42)
}

func FuzzAssemble(f *testing.F) {
	f.Add("")
	f.Add("push 1\nprint\nhalt")
	f.Add("loop: push 1 // comment\njumpnotz loop\nend:")
	f.Add("call f\nhalt\nf: ret")
	f.Add("push 65536")

	f.Fuzz(func(t *testing.T, text string) {
		program, err := Assemble(text)
		if err != nil {
			var assemblyError *pancake.AssemblyError
			var resolutionError *pancake.ResolutionError
			if !errors.As(err, &assemblyError) && !errors.As(err, &resolutionError) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			return
		}

		// Every target of a resolved program is a valid address or the
		// address right after the last instruction.
		for i := 0; i < program.Len(); i++ {
			instruction := program.At(i)
			if !instruction.OpCode().IsValid() {
				t.Errorf("invalid op-code at %d", i)
			}
			if !instruction.OpCode().HasTarget() {
				continue
			}
			target := instruction.Target()
			if !target.IsResolved() {
				t.Errorf("unresolved target at %d", i)
			}
			if target.Address() < 0 || target.Address() > program.Len() {
				t.Errorf("target %d of instruction %d out of range", target.Address(), i)
			}
		}

		// The disassembly can be assembled again into an equal program if it
		// contains no control-transfer instructions.
		for i := 0; i < program.Len(); i++ {
			if program.At(i).OpCode().HasTarget() {
				return
			}
		}
		again, err := Assemble(stripAddresses(program))
		if err != nil {
			t.Fatalf("failed to re-assemble disassembly: %v", err)
		}
		if !program.Equal(again) {
			t.Errorf("re-assembled program differs")
		}
	})
}

func stripAddresses(program pancake.Program) string {
	res := ""
	for _, instruction := range program.Instructions() {
		res += instruction.String() + "\n"
	}
	return res
}
