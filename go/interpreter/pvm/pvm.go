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
	"fmt"
	"io"

	"github.com/Fantom-foundation/Pancake/go/pancake"
)

func init() {
	configs := map[string]func() Config{
		// This is the officially supported configuration to be used for
		// production purposes.
		"pvm": func() Config {
			return Config{}
		},
		// Collects instruction statistics over all runs of an instance.
		"pvm-stats": func() Config {
			return Config{runner: &statisticRunner{stats: newStatistics()}}
		},
		// Emits a trace record per executed instruction to the default logger.
		"pvm-logging": func() Config {
			return Config{runner: loggingRunner{}}
		},
	}

	for name, makeConfig := range configs {
		makeConfig := makeConfig
		err := pancake.RegisterInterpreterFactory(name, func(config any) (pancake.Interpreter, error) {
			res := makeConfig()
			switch config := config.(type) {
			case nil:
			case Config:
				res.MemoryCapacity = config.MemoryCapacity
			default:
				return nil, fmt.Errorf("unsupported configuration type %T", config)
			}
			return NewVm(res)
		})
		if err != nil {
			panic(fmt.Sprintf("failed to register interpreter %s: %v", name, err))
		}
	}
}

// Config contains the configuration options of the VM.
type Config struct {
	// MemoryCapacity is the default number of addressable memory cells of a
	// run. If set to 0, DefaultMemoryCapacity is used.
	MemoryCapacity int
	runner         runner
}

type pvm struct {
	config Config
}

// NewVm creates a new VM instance with the given configuration.
func NewVm(config Config) (*pvm, error) {
	if config.MemoryCapacity < 0 {
		return nil, fmt.Errorf("invalid memory capacity: %d", config.MemoryCapacity)
	}
	if config.MemoryCapacity == 0 {
		config.MemoryCapacity = DefaultMemoryCapacity
	}
	return &pvm{config: config}, nil
}

func (v *pvm) Run(params pancake.Parameters) (pancake.Result, error) {
	capacity := params.MemoryCapacity
	if capacity < 0 {
		return pancake.Result{}, fmt.Errorf("invalid memory capacity: %d", capacity)
	}
	if capacity == 0 {
		capacity = v.config.MemoryCapacity
	}
	return run(v.config.runner, params.Program, capacity, params.Output)
}

// Run executes the given program on a fresh state with the given memory
// capacity, using DefaultMemoryCapacity if it is 0. Printed values are
// delivered to output, which may be nil.
func Run(program pancake.Program, memoryCapacity int, output pancake.Output) (pancake.Result, error) {
	vm, err := NewVm(Config{MemoryCapacity: memoryCapacity})
	if err != nil {
		return pancake.Result{}, err
	}
	return vm.Run(pancake.Parameters{Program: program, Output: output})
}

// DumpProfile writes the statistics collected so far to the given writer.
// It has no effect if the VM is not collecting statistics.
func (v *pvm) DumpProfile(out io.Writer) error {
	if statsRunner, ok := v.config.runner.(*statisticRunner); ok {
		_, err := io.WriteString(out, statsRunner.getSummary())
		return err
	}
	return nil
}

// ResetProfile discards the statistics collected so far.
func (v *pvm) ResetProfile() {
	if statsRunner, ok := v.config.runner.(*statisticRunner); ok {
		statsRunner.reset()
	}
}
