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

// GetStaticOverheadExample provides a test returning its argument without
// touching any contract. It measures the fixed cost of running a test.
func GetStaticOverheadExample() Example {
	return exampleSpec{
		Name: "static_overhead",
		test: func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			return rt.Calldata(), nil
		},
		reference: StaticOverheadRef,
	}.build()
}

func StaticOverheadRef(x int) int {
	return int(x)
}

// GetStepBurnerExample provides a test calling a contract that consumes the
// requested number of steps in a controlled way.
func GetStepBurnerExample() Example {
	return exampleSpec{
		Name: "step_burner",
		test: func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			return rt.CallContract(burnerAddress, cairo.SelectorFromName("burn"), rt.Calldata()...)
		},
		contracts: []deployment{{burnerAddress, burnerClass()}},
		reference: burnSteps,
	}.build()
}

func burnSteps(x int) int {
	return x
}

var burnerAddress = cairo.Address(cairo.MustShortString("burner"))

func burnerClass() *nativevm.Class {
	return &nativevm.Class{
		Name: "burner",
		Functions: map[string]nativevm.Function{
			"burn": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
				steps, err := argument(rt)
				if err != nil {
					return nil, err
				}
				rt.Step(steps)
				return []cairo.Felt{cairo.NewFelt(steps)}, nil
			},
		},
	}
}
