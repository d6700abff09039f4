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
	"fmt"
	"strings"
	"testing"

	"github.com/Fantom-foundation/Pancake/go/pancake"
	"pgregory.net/rand"
)

func TestResolve_UndefinedLabelIsReported(t *testing.T) {
	code, labels := parse(t, "push 1\njump missing\nhalt")
	_, err := Resolve(code, labels)

	var resolutionError *pancake.ResolutionError
	if !errors.As(err, &resolutionError) {
		t.Fatalf("expected resolution error, got %v", err)
	}
	if want, got := "missing", resolutionError.Label; want != got {
		t.Errorf("unexpected label, wanted %q, got %q", want, got)
	}
	if want, got := 1, resolutionError.Address; want != got {
		t.Errorf("unexpected address, wanted %d, got %d", want, got)
	}
	if want, got := 2, resolutionError.Line; want != got {
		t.Errorf("unexpected line, wanted %d, got %d", want, got)
	}
}

func TestResolve_FirstUndefinedLabelIsReported(t *testing.T) {
	code, labels := parse(t, "call one\njump two\nhalt")
	_, err := Resolve(code, labels)
	var resolutionError *pancake.ResolutionError
	if !errors.As(err, &resolutionError) || resolutionError.Label != "one" {
		t.Errorf("expected undefined label 'one', got %v", err)
	}
}

func TestResolve_InputsAreNotModified(t *testing.T) {
	code, labels := parse(t, "jump end\nend: halt")
	if _, err := Resolve(code, labels); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code[0].Target().IsResolved() {
		t.Errorf("input instructions were modified")
	}
	if want, got := 1, len(labels); want != got {
		t.Errorf("label table was modified, wanted %d entries, got %d", want, got)
	}
}

func TestResolve_ResolvingAResolvedProgramIsANoOp(t *testing.T) {
	program, err := Assemble(`
		push 2
	loop:
		push 1
		sub
		jumpnotz loop
		call done
		halt
	done:
		ret
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, labels := range []pancake.LabelTable{nil, {}, {"loop": 0, "done": 0}} {
		again, err := Resolve(program.Instructions(), labels)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !program.Equal(again) {
			t.Errorf("resolution changed the program from\n%v\nto\n%v", program, again)
		}
	}
}

func TestResolve_EmptyProgramIsResolved(t *testing.T) {
	program, err := Resolve(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := 0, program.Len(); want != got {
		t.Errorf("unexpected length, wanted %d, got %d", want, got)
	}
}

// randomBranchProgram creates a random program in which every control-transfer
// instruction targets a random address, forwards or backwards.
func randomBranchProgram(rnd *rand.Rand, length int) []pancake.Instruction {
	branches := []pancake.OpCode{pancake.JUMP, pancake.JUMPZ, pancake.JUMPNOTZ, pancake.CALL}
	simple := []pancake.OpCode{pancake.SWAP, pancake.POP, pancake.PRINT, pancake.ADD, pancake.RET, pancake.HALT}
	res := make([]pancake.Instruction, length)
	for i := range res {
		switch rnd.Intn(3) {
		case 0:
			res[i] = pancake.Push(pancake.Value(rnd.Uint32n(1 << 16)))
		case 1:
			op := branches[rnd.Intn(len(branches))]
			res[i] = pancake.NewBranch(op, pancake.ResolvedTarget(rnd.Intn(length+1)))
		default:
			res[i] = pancake.NewInstruction(simple[rnd.Intn(len(simple))])
		}
	}
	return res
}

// printSource renders the given resolved instructions as source text, naming
// the label of address i "L<i>". If interleaved is set, label definitions are
// mixed with comments and blank lines and placed on their own lines.
func printSource(code []pancake.Instruction, interleaved bool) string {
	var builder strings.Builder
	label := func(address int) {
		if interleaved {
			builder.WriteString(fmt.Sprintf("\n// label %d\nL%d:\n", address, address))
		} else {
			builder.WriteString(fmt.Sprintf("L%d: ", address))
		}
	}
	for i, instruction := range code {
		label(i)
		switch op := instruction.OpCode(); {
		case op.HasTarget():
			builder.WriteString(fmt.Sprintf("%v L%d\n", op, instruction.Target().Address()))
		default:
			builder.WriteString(instruction.String() + "\n")
		}
	}
	label(len(code))
	return builder.String()
}

func TestResolve_OrderOfDefinitionDoesNotAffectAddresses(t *testing.T) {
	rnd := rand.New(0)
	for i := 0; i < 100; i++ {
		code := randomBranchProgram(rnd, 1+rnd.Intn(50))
		want, err := pancake.NewProgram(code...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, interleaved := range []bool{false, true} {
			source := printSource(code, interleaved)
			got, err := Assemble(source)
			if err != nil {
				t.Fatalf("failed to assemble\n%v\nerror: %v", source, err)
			}
			if !want.Equal(got) {
				t.Fatalf("unexpected program for source\n%v\nwanted\n%v\ngot\n%v", source, want, got)
			}
		}
	}
}
