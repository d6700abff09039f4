// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Fantom-foundation/Pancake/go/asm"
	"github.com/Fantom-foundation/Pancake/go/pancake"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
)

var AsmCmd = cli.Command{
	Action:    doAsm,
	Name:      "asm",
	Usage:     "Assemble a program and list the resolved instructions",
	ArgsUsage: "<file>",
}

func doAsm(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one source file, got %d arguments", context.Args().Len())
	}
	path := context.Args().First()
	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	code, labels, err := asm.Parse(asm.NewLexer(string(text)))
	if err != nil {
		return withExitCode(fmt.Errorf("%s: %w", path, err), assemblyExitCode(err))
	}
	program, err := asm.Resolve(code, labels)
	if err != nil {
		return withExitCode(fmt.Errorf("%s: %w", path, err), assemblyExitCode(err))
	}

	fmt.Fprintln(context.App.Writer, listing(program, labels))
	return nil
}

// listing renders the resolved program as a table, one row per instruction,
// annotated with the labels bound to its address and its source line.
func listing(program pancake.Program, labels pancake.LabelTable) string {
	labelsAt := map[int][]string{}
	for _, name := range labels.Names() {
		labelsAt[labels[name]] = append(labelsAt[labels[name]], name+":")
	}

	tbl := table.NewWriter()
	tbl.AppendHeader(table.Row{"Address", "Labels", "Instruction", "Line"})
	for address, instruction := range program.Instructions() {
		tbl.AppendRow(table.Row{
			fmt.Sprintf("0x%04x", address),
			strings.Join(labelsAt[address], " "),
			instruction.String(),
			instruction.Line(),
		})
	}
	// labels defined after the last instruction
	if trailing, found := labelsAt[program.Len()]; found {
		tbl.AppendRow(table.Row{fmt.Sprintf("0x%04x", program.Len()), strings.Join(trailing, " "), "", ""})
	}
	tbl.AppendFooter(table.Row{"", "", fmt.Sprintf("%d instructions", program.Len()), ""})
	return tbl.Render()
}
