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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Fantom-foundation/Pancake/go/asm"
	"github.com/Fantom-foundation/Pancake/go/interpreter/pvm"
	"github.com/Fantom-foundation/Pancake/go/pancake"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
)

var RunCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Assemble and run a program, printing its output",
	ArgsUsage: "<file>",
	Flags:     runFlags,
}

// profiler is implemented by interpreters collecting execution statistics.
type profiler interface {
	DumpProfile(io.Writer) error
}

func doRun(context *cli.Context) error {
	stopProfile, err := startCpuProfile(context)
	if err != nil {
		return err
	}
	defer stopProfile()

	program, err := assembleFile(context)
	if err != nil {
		return err
	}

	interpreter, err := newInterpreter(context)
	if err != nil {
		return err
	}

	stdout := context.App.Writer
	params := pancake.Parameters{
		Program:        program,
		MemoryCapacity: MemoryFlag.Fetch(context),
		Output: pancake.OutputFunc(func(v pancake.Value) {
			fmt.Fprintln(stdout, v)
		}),
	}

	start := time.Now()
	result, err := runWithTimeout(interpreter, params, TimeoutFlag.Fetch(context))
	if err != nil {
		return err
	}
	duration := time.Since(start)

	if StatsFlag.Fetch(context) {
		if err := reportStatistics(context.App.ErrWriter, interpreter, result, duration); err != nil {
			return err
		}
	}

	if result.Status == pancake.StatusFaulted {
		return withExitCode(result.Fault, exitFault)
	}
	return nil
}

// assembleFile reads and assembles the source file named by the single
// positional argument.
func assembleFile(context *cli.Context) (pancake.Program, error) {
	if context.Args().Len() != 1 {
		return pancake.Program{}, fmt.Errorf("expected exactly one source file, got %d arguments", context.Args().Len())
	}
	path := context.Args().First()
	text, err := os.ReadFile(path)
	if err != nil {
		return pancake.Program{}, fmt.Errorf("failed to read source: %w", err)
	}
	program, err := asm.Assemble(string(text))
	if err != nil {
		return pancake.Program{}, withExitCode(fmt.Errorf("%s: %w", path, err), assemblyExitCode(err))
	}
	return program, nil
}

// newInterpreter creates the interpreter selected on the command line. The
// --stats and --trace options select the matching variant of the default
// interpreter.
func newInterpreter(context *cli.Context) (pancake.Interpreter, error) {
	name := InterpreterFlag.Fetch(context)
	trace, stats := TraceFlag.Fetch(context), StatsFlag.Fetch(context)
	if trace && stats {
		return nil, fmt.Errorf("options --trace and --stats can not be combined")
	}
	if trace {
		slog.SetDefault(slog.New(slog.NewTextHandler(context.App.ErrWriter, &slog.HandlerOptions{
			Level: pvm.LevelTrace,
		})))
		if name == "pvm" {
			name = "pvm-logging"
		}
	}
	if stats && name == "pvm" {
		name = "pvm-stats"
	}

	if pancake.GetInterpreterFactory(name) == nil {
		return nil, fmt.Errorf("invalid interpreter %q, use one of: %v", name, pancake.GetRegisteredInterpreterNames())
	}
	return pancake.NewInterpreter(name)
}

// runWithTimeout runs the program and gives up waiting for it once the
// timeout has passed. The run itself can not be interrupted and is abandoned
// in this case. A timeout of 0 disables the limit.
func runWithTimeout(interpreter pancake.Interpreter, params pancake.Parameters, timeout time.Duration) (pancake.Result, error) {
	if timeout <= 0 {
		return interpreter.Run(params)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	type outcome struct {
		result pancake.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := interpreter.Run(params)
		done <- outcome{result, err}
	}()

	select {
	case res := <-done:
		return res.result, res.err
	case <-ctx.Done():
		return pancake.Result{}, withExitCode(fmt.Errorf("run aborted after %v", timeout), exitTimeout)
	}
}

func reportStatistics(out io.Writer, interpreter pancake.Interpreter, result pancake.Result, duration time.Duration) error {
	rate := 0.0
	if duration > 0 {
		rate = float64(result.Steps) / duration.Seconds()
	}
	fmt.Fprintf(out, "status: %v, steps: %d, time: %v, rate: %sIPS\n",
		result.Status, result.Steps, duration.Round(time.Microsecond),
		unitconv.FormatPrefix(rate, unitconv.SI, 0),
	)
	if p, ok := interpreter.(profiler); ok {
		return p.DumpProfile(out)
	}
	return nil
}
