// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cheats

import (
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"golang.org/x/exp/slices"
)

// Snapshot is the resolved view of all cheats for a single call. It is
// computed once when a call is entered and not modified afterwards. Nil
// fields are not cheated.
type Snapshot struct {
	CallerAddress    *cairo.Address
	BlockNumber      *uint64
	BlockTimestamp   *uint64
	SequencerAddress *cairo.Address
	TxInfo           *TxInfoMock
}

func (s Snapshot) IsEmpty() bool {
	return s.CallerAddress == nil &&
		s.BlockNumber == nil &&
		s.BlockTimestamp == nil &&
		s.SequencerAddress == nil &&
		s.TxInfo == nil
}

// TxInfoMock is a partial transaction info. Nil fields keep the value of the
// real transaction. A nil Signature keeps the real signature while an empty
// one replaces it.
type TxInfoMock struct {
	Version                *cairo.Felt
	AccountContractAddress *cairo.Address
	MaxFee                 *cairo.Felt
	Signature              []cairo.Felt
	TransactionHash        *cairo.Felt
	ChainID                *cairo.Felt
	Nonce                  *cairo.Felt
}

// Apply overlays the mocked fields onto the given transaction info.
func (m TxInfoMock) Apply(info cairo.TxInfo) cairo.TxInfo {
	res := info
	if m.Version != nil {
		res.Version = *m.Version
	}
	if m.AccountContractAddress != nil {
		res.AccountContractAddress = *m.AccountContractAddress
	}
	if m.MaxFee != nil {
		res.MaxFee = *m.MaxFee
	}
	if m.Signature != nil {
		res.Signature = slices.Clone(m.Signature)
	}
	if m.TransactionHash != nil {
		res.TransactionHash = *m.TransactionHash
	}
	if m.ChainID != nil {
		res.ChainID = *m.ChainID
	}
	if m.Nonce != nil {
		res.Nonce = *m.Nonce
	}
	return res
}
