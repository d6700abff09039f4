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
	"sort"
	"strings"
	"sync"

	"github.com/Fantom-foundation/Pancake/go/pancake"
	"github.com/jedib0t/go-pretty/v6/table"
)

// statisticRunner is a runner that collects statistics about the executed
// instructions. The statistics of all runs are accumulated until reset.
type statisticRunner struct {
	mutex sync.Mutex
	stats *statistics
}

func (s *statisticRunner) run(c *context) (status, error) {
	stats := statsCollector{stats: newStatistics()}
	status := statusRunning
	var executionError error
	for status == statusRunning {
		if c.pc >= 0 && c.pc < c.code.Len() {
			stats.nextOp(c.code.At(c.pc).OpCode())
		}
		status, executionError = step(c)
		if executionError != nil {
			break
		}
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.stats == nil {
		s.stats = newStatistics()
	}
	s.stats.insert(stats.stats)
	return status, executionError
}

func (s *statisticRunner) getSummary() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.stats == nil {
		s.stats = newStatistics()
	}
	return s.stats.print()
}

func (s *statisticRunner) reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stats = newStatistics()
}

type statistics struct {
	count       uint64
	singleCount map[uint64]uint64
	pairCount   map[uint64]uint64
	tripleCount map[uint64]uint64
}

func newStatistics() *statistics {
	return &statistics{
		singleCount: map[uint64]uint64{},
		pairCount:   map[uint64]uint64{},
		tripleCount: map[uint64]uint64{},
	}
}

func (s *statistics) insert(src *statistics) {
	s.count += src.count
	for k, v := range src.singleCount {
		s.singleCount[k] += v
	}
	for k, v := range src.pairCount {
		s.pairCount[k] += v
	}
	for k, v := range src.tripleCount {
		s.tripleCount[k] += v
	}
}

// topN is the number of most frequent entries listed per category.
const topN = 5

func (s *statistics) print() string {

	type entry struct {
		value uint64
		count uint64
	}

	getTopN := func(data map[uint64]uint64, n int) []entry {
		list := make([]entry, 0, len(data))
		for k, c := range data {
			list = append(list, entry{k, c})
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].count != list[j].count {
				return list[i].count > list[j].count
			}
			return list[i].value < list[j].value
		})
		if len(list) < n {
			return list
		}
		return list[0:n]
	}

	share := func(count uint64) string {
		if s.count == 0 {
			return "-"
		}
		return fmt.Sprintf("%.2f%%", float64(count*100)/float64(s.count))
	}

	sequence := func(value uint64, length int) string {
		ops := make([]string, 0, length)
		for i := length - 1; i >= 0; i-- {
			ops = append(ops, pancake.OpCode(value>>(16*i)).String())
		}
		return strings.Join(ops, " ")
	}

	tbl := table.NewWriter()
	tbl.SetTitle(fmt.Sprintf("Statistics (%d steps)", s.count))
	tbl.AppendHeader(table.Row{"Kind", "Sequence", "Count", "Share"})
	categories := []struct {
		name   string
		data   map[uint64]uint64
		length int
	}{
		{"single", s.singleCount, 1},
		{"pair", s.pairCount, 2},
		{"triple", s.tripleCount, 3},
	}
	for _, category := range categories {
		for _, e := range getTopN(category.data, topN) {
			tbl.AppendRow(table.Row{category.name, sequence(e.value, category.length), e.count, share(e.count)})
		}
		tbl.AppendSeparator()
	}
	return tbl.Render() + "\n"
}

type statsCollector struct {
	stats *statistics

	last       uint64
	secondLast uint64
}

func (s *statsCollector) nextOp(op pancake.OpCode) {
	cur := uint64(op)
	s.stats.count++
	s.stats.singleCount[cur]++
	if s.stats.count >= 2 {
		s.stats.pairCount[s.last<<16|cur]++
	}
	if s.stats.count >= 3 {
		s.stats.tripleCount[s.secondLast<<32|s.last<<16|cur]++
	}
	s.last, s.secondLast = cur, s.last
}
