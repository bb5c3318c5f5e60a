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

// State aggregates the cheats of a single run: one ScopedTable per
// overridable value, the registry of mocked calls, and the event spies.
// A State is owned by one run and must not be shared between runs.
type State struct {
	CallerAddress    ScopedTable[cairo.Address]
	BlockNumber      ScopedTable[uint64]
	BlockTimestamp   ScopedTable[uint64]
	SequencerAddress ScopedTable[cairo.Address]
	TxInfo           ScopedTable[TxInfoMock]

	Spies SpyRegistry

	mocks map[mockKey][]cairo.Felt
}

type mockKey struct {
	contract cairo.Address
	selector cairo.Selector
}

func NewState() *State {
	return &State{
		mocks: map[mockKey][]cairo.Felt{},
	}
}

// Resolve computes the snapshot effective for the given contract without
// consuming any spans.
func (s *State) Resolve(address cairo.Address) Snapshot {
	return Snapshot{
		CallerAddress:    resolve(&s.CallerAddress, address, false),
		BlockNumber:      resolve(&s.BlockNumber, address, false),
		BlockTimestamp:   resolve(&s.BlockTimestamp, address, false),
		SequencerAddress: resolve(&s.SequencerAddress, address, false),
		TxInfo:           resolve(&s.TxInfo, address, false),
	}
}

// Observe computes the snapshot for a call entering the given contract. Each
// cheat with a limited span covering the contract is charged one call.
func (s *State) Observe(address cairo.Address) Snapshot {
	return Snapshot{
		CallerAddress:    resolve(&s.CallerAddress, address, true),
		BlockNumber:      resolve(&s.BlockNumber, address, true),
		BlockTimestamp:   resolve(&s.BlockTimestamp, address, true),
		SequencerAddress: resolve(&s.SequencerAddress, address, true),
		TxInfo:           resolve(&s.TxInfo, address, true),
	}
}

func resolve[T any](table *ScopedTable[T], address cairo.Address, observe bool) *T {
	var value T
	var found bool
	if observe {
		value, found = table.Observe(address)
	} else {
		value, found = table.Resolve(address)
	}
	if !found {
		return nil
	}
	return &value
}

// MockCall registers return data for calls of the given function. Mocks
// stay in place until cleared.
func (s *State) MockCall(contract cairo.Address, selector cairo.Selector, retdata []cairo.Felt) {
	if s.mocks == nil {
		s.mocks = map[mockKey][]cairo.Felt{}
	}
	s.mocks[mockKey{contract, selector}] = slices.Clone(retdata)
}

func (s *State) ClearMock(contract cairo.Address, selector cairo.Selector) {
	delete(s.mocks, mockKey{contract, selector})
}

// GetMock returns the mocked return data of the given function, if any.
func (s *State) GetMock(contract cairo.Address, selector cairo.Selector) ([]cairo.Felt, bool) {
	retdata, found := s.mocks[mockKey{contract, selector}]
	if !found {
		return nil, false
	}
	return slices.Clone(retdata), true
}
