// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package pvm

import (
	stdcontext "context"
	"log/slog"
)

// LevelTrace is the log level of the per-instruction records emitted by the
// logging runner.
const LevelTrace slog.Level = slog.LevelInfo + 1

// loggingRunner is a runner that emits a trace record for every executed
// instruction before executing it. If no logger is set, the default logger
// at the time of the run is used.
type loggingRunner struct {
	log *slog.Logger
}

func newLogger(log *slog.Logger) loggingRunner {
	return loggingRunner{log: log}
}

func (l loggingRunner) run(c *context) (status, error) {
	log := l.log
	if log == nil {
		log = slog.Default()
	}
	status := statusRunning
	var err error
	for status == statusRunning {
		if c.pc >= 0 && c.pc < c.code.Len() {
			attrs := []slog.Attr{
				slog.Int("pc", c.pc),
				slog.String("op", c.code.At(c.pc).String()),
				slog.Int("depth", c.stack.len()),
				slog.Int("calls", c.callStack.len()),
			}
			if c.stack.len() > 0 {
				attrs = append(attrs, slog.Int("top", int(*c.stack.peek())))
			}
			log.LogAttrs(stdcontext.Background(), LevelTrace, "step", attrs...)
		}
		status, err = step(c)
		if err != nil {
			return status, err
		}
	}
	return status, nil
}
