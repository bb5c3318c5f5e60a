// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package cheatcodes implements the cheatcodes available to tests and the
// syscall overrides making cheated values visible to contracts.
package cheatcodes

import (
	"github.com/cockroachdb/errors"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/chain"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/cheats"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/execution"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type cheatcodeFunc func(ctx *execution.Context, input *cairo.FeltReader) ([]cairo.Felt, error)

// Extension handles all cheatcodes and answers environment syscalls from the
// cheat snapshot of the active call.
type Extension struct {
	chain.NilExtension[*execution.Context]
	cheatcodes map[string]cheatcodeFunc
}

var _ chain.Extension[*execution.Context] = &Extension{}

func New() *Extension {
	res := &Extension{cheatcodes: map[string]cheatcodeFunc{}}

	addScoped(res, "start_cheat_caller_address", "cheat_caller_address", "stop_cheat_caller_address",
		func(s *cheats.State) *cheats.ScopedTable[cairo.Address] { return &s.CallerAddress },
		(*cairo.FeltReader).Address)
	addScoped(res, "start_cheat_block_number", "cheat_block_number", "stop_cheat_block_number",
		func(s *cheats.State) *cheats.ScopedTable[uint64] { return &s.BlockNumber },
		(*cairo.FeltReader).Uint64)
	addScoped(res, "start_cheat_block_timestamp", "cheat_block_timestamp", "stop_cheat_block_timestamp",
		func(s *cheats.State) *cheats.ScopedTable[uint64] { return &s.BlockTimestamp },
		(*cairo.FeltReader).Uint64)
	addScoped(res, "start_cheat_sequencer_address", "cheat_sequencer_address", "stop_cheat_sequencer_address",
		func(s *cheats.State) *cheats.ScopedTable[cairo.Address] { return &s.SequencerAddress },
		(*cairo.FeltReader).Address)
	addScoped(res, "start_spoof", "spoof", "stop_spoof",
		func(s *cheats.State) *cheats.ScopedTable[cheats.TxInfoMock] { return &s.TxInfo },
		ReadTxInfoMock)

	res.add("mock_call", mockCall)
	res.add("clear_mock", clearMock)
	res.add("spy_events", spyEvents)
	res.add("fetch_events", fetchEvents)
	res.add("load", load)
	res.add("store", store)
	res.add("get_class_hash", getClassHash)
	return res
}

func (e *Extension) add(selector string, handler cheatcodeFunc) {
	e.cheatcodes[selector] = handler
}

// Selectors lists all cheatcodes handled by this extension.
func (e *Extension) Selectors() []string {
	res := maps.Keys(e.cheatcodes)
	slices.Sort(res)
	return res
}

func (e *Extension) HandleCheatcode(ctx *execution.Context, selector string, input []cairo.Felt) ([]cairo.Felt, bool, error) {
	handler, found := e.cheatcodes[selector]
	if !found {
		return nil, false, nil
	}
	reader := cairo.NewFeltReader(input)
	output, err := handler(ctx, reader)
	if err != nil {
		return nil, true, err
	}
	if err := reader.Finish(); err != nil {
		return nil, true, err
	}
	return output, true, nil
}

func (e *Extension) OverrideSyscall(ctx *execution.Context, call chain.Syscall) (chain.SyscallResult, bool, error) {
	if len(call.Input) != 0 {
		return chain.SyscallResult{}, false, nil
	}
	var value *cairo.Felt
	switch call.Selector {
	case cairo.SyscallGetBlockNumber:
		if cur := ctx.CurrentSnapshot().BlockNumber; cur != nil {
			value = ptr(cairo.NewFelt(*cur))
		}
	case cairo.SyscallGetBlockTimestamp:
		if cur := ctx.CurrentSnapshot().BlockTimestamp; cur != nil {
			value = ptr(cairo.NewFelt(*cur))
		}
	case cairo.SyscallGetCallerAddress:
		if cur := ctx.CurrentSnapshot().CallerAddress; cur != nil {
			value = ptr(cairo.Felt(*cur))
		}
	case cairo.SyscallGetSequencerAddress:
		if cur := ctx.CurrentSnapshot().SequencerAddress; cur != nil {
			value = ptr(cairo.Felt(*cur))
		}
	case cairo.SyscallGetTxInfo:
		if cur := ctx.CurrentSnapshot().TxInfo; cur != nil {
			return chain.SyscallResult{Output: cur.Apply(ctx.Tx).Encode()}, true, nil
		}
	}
	if value == nil {
		return chain.SyscallResult{}, false, nil
	}
	return chain.SyscallResult{Output: []cairo.Felt{*value}}, true, nil
}

func ptr[T any](value T) *T {
	return &value
}

// addScoped registers the start, span and stop cheatcodes of a scoped cheat.
func addScoped[T any](
	e *Extension,
	start, withSpan, stop string,
	table func(*cheats.State) *cheats.ScopedTable[T],
	read func(*cairo.FeltReader) (T, error),
) {
	e.add(start, func(ctx *execution.Context, input *cairo.FeltReader) ([]cairo.Felt, error) {
		target, err := ReadTarget(input)
		if err != nil {
			return nil, err
		}
		value, err := read(input)
		if err != nil {
			return nil, err
		}
		span, err := readOptionalCalls(input)
		if err != nil {
			return nil, err
		}
		table(ctx.Cheats).Start(target, value, span)
		return nil, nil
	})
	e.add(withSpan, func(ctx *execution.Context, input *cairo.FeltReader) ([]cairo.Felt, error) {
		target, err := ReadTarget(input)
		if err != nil {
			return nil, err
		}
		value, err := read(input)
		if err != nil {
			return nil, err
		}
		span, err := ReadSpan(input)
		if err != nil {
			return nil, err
		}
		table(ctx.Cheats).Start(target, value, span)
		return nil, nil
	})
	e.add(stop, func(ctx *execution.Context, input *cairo.FeltReader) ([]cairo.Felt, error) {
		target, err := ReadTarget(input)
		if err != nil {
			return nil, err
		}
		table(ctx.Cheats).Stop(target)
		return nil, nil
	})
}

func mockCall(ctx *execution.Context, input *cairo.FeltReader) ([]cairo.Felt, error) {
	contract, err := input.Address()
	if err != nil {
		return nil, err
	}
	selector, err := input.Selector()
	if err != nil {
		return nil, err
	}
	retdata, err := input.Array()
	if err != nil {
		return nil, err
	}
	ctx.Cheats.MockCall(contract, selector, retdata)
	return nil, nil
}

func clearMock(ctx *execution.Context, input *cairo.FeltReader) ([]cairo.Felt, error) {
	contract, err := input.Address()
	if err != nil {
		return nil, err
	}
	selector, err := input.Selector()
	if err != nil {
		return nil, err
	}
	ctx.Cheats.ClearMock(contract, selector)
	return nil, nil
}

func spyEvents(ctx *execution.Context, input *cairo.FeltReader) ([]cairo.Felt, error) {
	target, err := ReadTarget(input)
	if err != nil {
		return nil, err
	}
	id := ctx.Cheats.Spies.Register(target)
	return []cairo.Felt{cairo.NewFelt(id)}, nil
}

func fetchEvents(ctx *execution.Context, input *cairo.FeltReader) ([]cairo.Felt, error) {
	id, err := input.Uint64()
	if err != nil {
		return nil, err
	}
	events, err := ctx.Cheats.Spies.Fetch(id)
	if err != nil {
		return nil, err
	}
	return EncodeEvents(events), nil
}

// load, store and get_class_hash operate on the state as the test harness.
// Failing state access aborts the test instead of being reported to the
// contract like a failed syscall.
func load(ctx *execution.Context, input *cairo.FeltReader) ([]cairo.Felt, error) {
	address, err := input.Address()
	if err != nil {
		return nil, err
	}
	key, err := input.StorageKey()
	if err != nil {
		return nil, err
	}
	value, err := ctx.State.GetStorageAt(address, key)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "load %v of %v", key, address), cairo.ErrStateAccess)
	}
	return []cairo.Felt{value}, nil
}

func store(ctx *execution.Context, input *cairo.FeltReader) ([]cairo.Felt, error) {
	address, err := input.Address()
	if err != nil {
		return nil, err
	}
	key, err := input.StorageKey()
	if err != nil {
		return nil, err
	}
	value, err := input.Next()
	if err != nil {
		return nil, err
	}
	if err := ctx.State.SetStorageAt(address, key, value); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "store %v of %v", key, address), cairo.ErrStateAccess)
	}
	return nil, nil
}

func getClassHash(ctx *execution.Context, input *cairo.FeltReader) ([]cairo.Felt, error) {
	address, err := input.Address()
	if err != nil {
		return nil, err
	}
	hash, err := ctx.State.GetClassHashAt(address)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "class hash of %v", address), cairo.ErrStateAccess)
	}
	return []cairo.Felt{cairo.Felt(hash)}, nil
}
