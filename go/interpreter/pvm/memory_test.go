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
	"errors"
	"testing"

	"github.com/Fantom-foundation/Pancake/go/pancake"
)

func TestMemory_UnwrittenCellsReadAsZero(t *testing.T) {
	m := NewMemory(16)
	for addr := pancake.Value(0); addr < 16; addr++ {
		if want, got := pancake.Value(0), m.load(addr); want != got {
			t.Errorf("unexpected value at %d, wanted %d, got %d", addr, want, got)
		}
	}
	if want, got := 0, m.length(); want != got {
		t.Errorf("reading should not expand memory, got length %d", got)
	}
}

func TestMemory_StoreExpandsUpToWrittenCell(t *testing.T) {
	m := NewMemory(16)
	m.store(4, 42)
	if want, got := 5, m.length(); want != got {
		t.Errorf("unexpected memory length, wanted %d, got %d", want, got)
	}
	if want, got := pancake.Value(42), m.load(4); want != got {
		t.Errorf("unexpected value, wanted %d, got %d", want, got)
	}
	if want, got := pancake.Value(0), m.load(3); want != got {
		t.Errorf("unexpected value, wanted %d, got %d", want, got)
	}
	m.store(2, 7)
	if want, got := 5, m.length(); want != got {
		t.Errorf("memory should not shrink, wanted %d, got %d", want, got)
	}
}

func TestMemory_CheckAddressAcceptsOnlyAddressableCells(t *testing.T) {
	tests := map[string]struct {
		capacity int
		address  pancake.Value
		valid    bool
	}{
		"first cell":               {capacity: 8, address: 0, valid: true},
		"last cell":                {capacity: 8, address: 7, valid: true},
		"at capacity":              {capacity: 8, address: 8, valid: false},
		"far beyond":               {capacity: 8, address: 0xffff, valid: false},
		"no memory":                {capacity: 0, address: 0, valid: false},
		"full range, last address": {capacity: DefaultMemoryCapacity, address: 0xffff, valid: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := NewMemory(test.capacity).checkAddress(test.address)
			if test.valid {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, pancake.ErrMemoryOutOfBounds) {
				t.Fatalf("expected out of bounds error, got %v", err)
			}
			var fault *pancake.ExecutionError
			if !errors.As(err, &fault) {
				t.Fatalf("expected execution error, got %T", err)
			}
			if want, got := int(test.address), fault.Address; want != got {
				t.Errorf("unexpected address in error, wanted %d, got %d", want, got)
			}
		})
	}
}

func TestMemory_SnapshotIsACopy(t *testing.T) {
	m := NewMemory(4)
	m.store(0, 1)
	snapshot := m.snapshot()
	m.store(0, 2)
	if want, got := pancake.Value(1), snapshot[0]; want != got {
		t.Errorf("snapshot was modified, wanted %d, got %d", want, got)
	}
}
