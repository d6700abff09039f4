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

// GetFibExample computes the n-th Fibonacci number iteratively. Memory cell 0
// holds the remaining iterations, cells 1 and 2 the last two numbers.
func GetFibExample() Example {
	return Example{
		Name: "fib",
		code: `
			push 0
			store
			push 0
			push 1
			store
			push 1
			push 2
			store
		loop:
			push 0
			load
			jumpz done
			push 1
			load
			push 2
			load
			add
			push 2
			load
			push 1
			store
			push 2
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
		reference: fib,
	}
}

func fib(n pancake.Value) pancake.Value {
	a, b := pancake.Value(0), pancake.Value(1)
	for ; n > 0; n-- {
		a, b = b, a+b
	}
	return a
}
