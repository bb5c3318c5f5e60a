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
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/nativevm"
	"golang.org/x/crypto/sha3"
)

var hasherAddress = cairo.Address(cairo.MustShortString("hasher"))

// GetSha3Example provides a test calling a contract computing x iterative
// hashes of a zero word and returning the last byte of the result.
func GetSha3Example() Example {
	return exampleSpec{
		Name: "sha3",
		test: func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			return rt.CallContract(hasherAddress, cairo.SelectorFromName("hash"), rt.Calldata()...)
		},
		contracts: []deployment{{hasherAddress, hasherClass()}},
		reference: sha3Ref,
	}.build()
}

func hasherClass() *nativevm.Class {
	return &nativevm.Class{
		Name: "hasher",
		Functions: map[string]nativevm.Function{
			"hash": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
				n, err := argument(rt)
				if err != nil {
					return nil, err
				}
				var hash common.Hash
				for i := uint64(0); i < n; i++ {
					rt.Step(30)
					hash = crypto.Keccak256Hash(hash[:])
				}
				return []cairo.Felt{cairo.NewFelt(uint64(hash[31]))}, nil
			},
		},
	}
}

func sha3Ref(x int) int {
	var hash common.Hash
	hasher := sha3.NewLegacyKeccak256()
	for i := 0; i < x; i++ {
		hasher.Reset()
		hasher.Write(hash[:])
		hasher.Sum(hash[0:0])
	}
	return int(hash[31])
}
