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

	"github.com/Fantom-foundation/Pancake/go/pancake"
)

// Process exit codes, one per failure category.
const (
	exitOk         = 0
	exitUsage      = 1 // < invalid arguments or I/O problems
	exitAssembly   = 2
	exitResolution = 3
	exitFault      = 4
	exitTimeout    = 5
)

// exitError attaches a process exit code to an error. It implements the
// cli.ExitCoder interface.
type exitError struct {
	err  error
	code int
}

func withExitCode(err error, code int) error {
	return &exitError{err: err, code: code}
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func (e *exitError) ExitCode() int {
	return e.code
}

// assemblyExitCode maps an error produced while assembling a program to its
// exit code.
func assemblyExitCode(err error) int {
	var resolutionError *pancake.ResolutionError
	if errors.As(err, &resolutionError) {
		return exitResolution
	}
	var assemblyError *pancake.AssemblyError
	if errors.As(err, &assemblyError) {
		return exitAssembly
	}
	return exitUsage
}
