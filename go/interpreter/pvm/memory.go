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

import "github.com/Fantom-foundation/Pancake/go/pancake"

// DefaultMemoryCapacity is the number of addressable memory cells used if no
// capacity is configured. It covers every address a Value can express.
const DefaultMemoryCapacity = 1 << 16

// Memory is the flat, zero-initialized data memory of a run. Cells in the
// range [0, capacity) are addressable. The backing store grows on demand up
// to the highest cell written so far; cells beyond it read as zero.
type Memory struct {
	cells    []pancake.Value
	capacity int
}

func NewMemory(capacity int) *Memory {
	return &Memory{capacity: capacity}
}

// checkAddress returns an error if the given address is not addressable.
func (m *Memory) checkAddress(address pancake.Value) error {
	if int(address) >= m.capacity {
		return &pancake.ExecutionError{
			Err:     pancake.ErrMemoryOutOfBounds,
			Address: int(address),
		}
	}
	return nil
}

// load reads the cell at the given address. The address must have been
// validated by checkAddress.
func (m *Memory) load(address pancake.Value) pancake.Value {
	if int(address) >= len(m.cells) {
		return 0
	}
	return m.cells[address]
}

// store writes the cell at the given address, expanding the backing store if
// needed. The address must have been validated by checkAddress.
func (m *Memory) store(address, value pancake.Value) {
	if needed := int(address) + 1; len(m.cells) < needed {
		m.cells = append(m.cells, make([]pancake.Value, needed-len(m.cells))...)
	}
	m.cells[address] = value
}

// length returns the size of the backing store.
func (m *Memory) length() int {
	return len(m.cells)
}

// snapshot returns a copy of the backing store.
func (m *Memory) snapshot() []pancake.Value {
	res := make([]pancake.Value, len(m.cells))
	copy(res, m.cells)
	return res
}
