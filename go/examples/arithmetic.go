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
	"math"

	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/nativevm"
	"github.com/holiman/uint256"
)

var arithmeticAddress = cairo.Address(cairo.MustShortString("arithmetic"))

func GetArithmeticExample() Example {
	return exampleSpec{
		Name: "arithmetic",
		test: func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			return rt.CallContract(arithmeticAddress, cairo.SelectorFromName("arithmetic"), rt.Calldata()...)
		},
		contracts: []deployment{{arithmeticAddress, arithmeticClass()}},
		reference: arithmetic,
	}.build()
}

// arithmeticClass computes the same function as arithmetic operating on
// felts. Every loop iteration is charged as a fixed number of steps.
func arithmeticClass() *nativevm.Class {
	return &nativevm.Class{
		Name: "arithmetic",
		Functions: map[string]nativevm.Function{
			"arithmetic": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
				n, err := argument(rt)
				if err != nil {
					return nil, err
				}
				var result uint256.Int
				for i := uint64(1); i <= n; i++ {
					rt.Step(12)
					result = arithmeticStep(result, i)
				}
				result.Mod(&result, uint256.NewInt(math.MaxInt32))
				felt, err := cairo.FeltFromUint256(&result)
				if err != nil {
					return nil, err
				}
				return []cairo.Felt{felt}, nil
			},
		},
	}
}

func arithmeticStep(result uint256.Int, i uint64) uint256.Int {
	x := uint256.NewInt(i)
	var tmp uint256.Int
	result.Add(&result, x)
	result.Mul(&result, x)
	result.Add(&result, tmp.Mul(x, x))
	result.Sub(&result, x)
	result.Div(&result, x)
	result.Mul(&result, uint256.NewInt(i%3+1))
	result.Add(&result, tmp.Mul(tmp.Mul(x, x), x))
	return result
}

func arithmetic(n int) int {
	iterations := uint256.NewInt(uint64(n))
	result := uint256.NewInt(0)
	for i := uint256.NewInt(1); i.Lt(iterations) || i.Eq(iterations); i.AddUint64(i, 1) {
		iSquared := i.Clone().Mul(i, i)
		iCubed := iSquared.Clone().Mul(iSquared, i)
		iMod3 := i.Clone().Mod(i, uint256.NewInt(3))
		result.Add(result, i)
		result.Mul(result, i)
		result.Add(result, iSquared)
		result.Sub(result, i)
		result.Div(result, i)
		result.Mul(result, iMod3.AddUint64(iMod3, 1))
		result.Add(result, iCubed)
	}
	maxInt32 := uint256.NewInt(math.MaxInt32)
	result.Mod(result, maxInt32)
	return int(result[0])
}
