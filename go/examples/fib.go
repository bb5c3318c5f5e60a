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

import (
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/nativevm"
)

var fibAddress = cairo.Address(cairo.MustShortString("fib"))

// GetFibExample provides a test computing Fibonacci numbers through
// recursive contract calls. The argument is limited to keep the number of
// calls manageable.
func GetFibExample() Example {
	return exampleSpec{
		Name: "fib",
		test: func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			n, err := argument(rt)
			if err != nil {
				return nil, err
			}
			return rt.CallContract(fibAddress, cairo.SelectorFromName("fib"), cairo.NewFelt(n%maxFibArgument))
		},
		contracts: []deployment{{fibAddress, fibClass()}},
		reference: fibRef,
	}.build()
}

const maxFibArgument = 16

func fibClass() *nativevm.Class {
	return &nativevm.Class{
		Name: "fib",
		Functions: map[string]nativevm.Function{
			"fib": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
				n, err := argument(rt)
				if err != nil {
					return nil, err
				}
				rt.Step(4)
				if n < 2 {
					return []cairo.Felt{cairo.NewFelt(n)}, nil
				}
				self, err := rt.GetContractAddress()
				if err != nil {
					return nil, err
				}
				var sum uint64
				for _, arg := range []uint64{n - 1, n - 2} {
					output, err := rt.CallContract(self, cairo.SelectorFromName("fib"), cairo.NewFelt(arg))
					if err != nil {
						return nil, err
					}
					value, err := cairo.NewFeltReader(output).Uint64()
					if err != nil {
						return nil, err
					}
					sum += value
				}
				return []cairo.Felt{cairo.NewFelt(sum)}, nil
			},
		},
	}
}

func fibRef(x int) int {
	x %= maxFibArgument
	if x < 2 {
		return x
	}
	return fibRef(x-1) + fibRef(x-2)
}
