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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tebeka/atexit"
	"github.com/urfave/cli/v2"
)

func main() {
	atexit.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the command line given by args and returns the process exit
// code. Printed values go to stdout, diagnostics to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	app := &cli.App{
		Name:      "pancake",
		Usage:     "assemble and run programs of the pancake stack VM",
		UsageText: "pancake [run] [options] <file>\npancake asm <file>",
		Copyright: "(c) 2024 Fantom Foundation",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     runFlags,
		Action:    doRun,
		Commands: []*cli.Command{
			&RunCmd,
			&AsmCmd,
		},
		// Exit codes are derived from the returned error below.
		ExitErrHandler: func(*cli.Context, error) {},
	}

	if err := app.Run(args); err != nil {
		fmt.Fprintln(stderr, err)
		var coder cli.ExitCoder
		if errors.As(err, &coder) {
			return coder.ExitCode()
		}
		return exitUsage
	}
	return exitOk
}
