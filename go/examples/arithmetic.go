// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.


package examples

import "github.com/Fantom-foundation/Pancake/go/pancake"

// GetArithmeticExample exercises all arithmetic instructions in a loop
// counting down from the argument. Memory cell 0 holds the counter, cell 1
// the accumulated result.
func GetArithmeticExample() Example {
	return Example{
		Name: "arith",
		code: `
			push 0
			store
		loop:
			push 0
			load
			jumpz done
			push 1
			load
			push 0
			load
			push 0
			load
			mul
			add
			push 0
			load
			push 2
			div
			sub
			push 1
			store
			push 0
			load
			push 1
			sub
			push 0
			store
			jump loop
		done:
			push 1
			load
			print
			halt
		`,
		reference: arithmetic,
	}
}

func arithmetic(n pancake.Value) pancake.Value {
	res := pancake.Value(0)
	for i := n; i > 0; i-- {
		res = res + i*i - i/2
	}
	return res
}
