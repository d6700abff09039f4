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

// GetFactorialExample computes n! recursively. Memory cell 0 is used as a
// scratch cell to duplicate the top of the stack.
func GetFactorialExample() Example {
	return Example{
		Name: "fact",
		code: `
			call fact
			print
			halt
		fact:
			push 0
			store
			push 0
			load
			push 0
			load
			jumpz base
			push 0
			load
			push 1
			sub
			call fact
			mul
			ret
		base:
			pop
			push 1
			ret
		`,
		reference: factorial,
	}
}

func factorial(n pancake.Value) pancake.Value {
	res := pancake.Value(1)
	for ; n > 0; n-- {
		res *= n
	}
	return res
}
