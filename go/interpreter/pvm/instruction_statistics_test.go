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
	"bytes"
	"strings"
	"testing"

	"github.com/Fantom-foundation/Pancake/go/pancake"
)

func TestStatisticsRunner_RunWithStatistics(t *testing.T) {
	statsRunner := &statisticRunner{
		stats: newStatistics(),
	}
	program := assemble(t, "halt")
	if _, err := run(statsRunner, program, 16, nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if got := statsRunner.stats.singleCount[uint64(pancake.HALT)]; got != 1 {
		t.Errorf("unexpected statistics: want 1 halt, got %v", got)
	}
}

func TestStatisticsRunner_FaultingInstructionsAreCounted(t *testing.T) {
	statsRunner := &statisticRunner{}
	result, err := run(statsRunner, assemble(t, "push 1\nadd"), 16, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := pancake.StatusFaulted, result.Status; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
	if want, got := uint64(2), statsRunner.stats.count; want != got {
		t.Errorf("unexpected number of counted instructions, wanted %d, got %d", want, got)
	}
	if want, got := uint64(1), statsRunner.stats.pairCount[uint64(pancake.PUSH)<<16|uint64(pancake.ADD)]; want != got {
		t.Errorf("unexpected pair count, wanted %d, got %d", want, got)
	}
}

func TestStatisticsRunner_StatisticsAccumulateOverRuns(t *testing.T) {
	statsRunner := &statisticRunner{}
	program := assemble(t, "push 1\nhalt")
	for i := 0; i < 3; i++ {
		if _, err := run(statsRunner, program, 16, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if want, got := uint64(6), statsRunner.stats.count; want != got {
		t.Errorf("unexpected number of steps, wanted %d, got %d", want, got)
	}
	// pairs do not span runs
	if want, got := uint64(0), statsRunner.stats.pairCount[uint64(pancake.HALT)<<16|uint64(pancake.PUSH)]; want != got {
		t.Errorf("unexpected pair across runs, got %d", got)
	}

	statsRunner.reset()
	if want, got := uint64(0), statsRunner.stats.count; want != got {
		t.Errorf("statistics not reset, got %d steps", got)
	}
}

func TestStatisticsRunner_DumpProfilePrintsExpectedOutput(t *testing.T) {
	tests := map[string]struct {
		source       string
		findInOutput []string
	}{
		"singles": {"halt",
			[]string{
				"Statistics (1 steps)",
				"halt",
				"100.00%",
			}},
		"pairs": {"push 1\nhalt",
			[]string{
				"Statistics (2 steps)",
				"push halt",
				"50.00%",
			}},
		"triples": {"push 1\npush 1\nhalt",
			[]string{
				"Statistics (3 steps)",
				"push push halt",
				"66.67%",
				"33.33%",
			}},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			instance, err := NewVm(Config{
				runner: &statisticRunner{stats: newStatistics()},
			})
			if err != nil {
				t.Fatalf("Failed to create VM: %v", err)
			}
			instance.ResetProfile()
			_, err = instance.Run(pancake.Parameters{Program: assemble(t, test.source)})
			if err != nil {
				t.Fatalf("Failed to run code: %v", err)
			}

			var out bytes.Buffer
			if err := instance.DumpProfile(&out); err != nil {
				t.Fatalf("failed to dump profile: %v", err)
			}
			for _, s := range test.findInOutput {
				if !strings.Contains(out.String(), s) {
					t.Errorf("did not find occurrences of %v in %v", s, out.String())
				}
			}
		})
	}
}

func TestStatisticsRunner_EmptyStatisticsCanBePrinted(t *testing.T) {
	statsRunner := &statisticRunner{}
	if summary := statsRunner.getSummary(); !strings.Contains(summary, "Statistics (0 steps)") {
		t.Errorf("unexpected summary: %v", summary)
	}
}

func TestStatisticsRunner_ProfileOfOtherRunnersIsEmpty(t *testing.T) {
	instance, err := NewVm(Config{})
	if err != nil {
		t.Fatalf("Failed to create VM: %v", err)
	}
	var out bytes.Buffer
	if err := instance.DumpProfile(&out); err != nil {
		t.Fatalf("failed to dump profile: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected profile output: %v", out.String())
	}
}
