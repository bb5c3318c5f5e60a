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
)

// Override is an active cheat value with its remaining lifetime.
type Override[T any] struct {
	Value T
	Span  Span
}

type entry[T any] struct {
	override Override[T]
	cleared  bool
	// inherited is set for entries materialized from a limited global
	// override to track its span for an individual contract.
	inherited bool
}

// ScopedTable holds the overrides of one cheat kind: an optional global
// default and per-contract entries. A per-contract entry always wins over
// the global default, including an explicitly cleared entry. The zero value
// is an empty table.
type ScopedTable[T any] struct {
	global     *Override[T]
	perAddress map[cairo.Address]entry[T]
}

// Start activates the given value for the target. Starting for all contracts
// replaces the global default and drops every per-contract entry.
func (t *ScopedTable[T]) Start(target Target, value T, span Span) {
	override := Override[T]{Value: value, Span: span}
	if target.Kind() == TargetAll {
		t.global = &override
		t.perAddress = nil
		return
	}
	t.init()
	for _, address := range target.Addresses() {
		t.perAddress[address] = entry[T]{override: override}
	}
}

// Stop deactivates the cheat for the target. Stopping individual contracts
// records an explicit clear, shadowing a still active global default.
func (t *ScopedTable[T]) Stop(target Target) {
	if target.Kind() == TargetAll {
		t.global = nil
		t.perAddress = nil
		return
	}
	t.init()
	for _, address := range target.Addresses() {
		t.perAddress[address] = entry[T]{cleared: true}
	}
}

// Resolve returns the value effective for the given contract without
// affecting any span.
func (t *ScopedTable[T]) Resolve(address cairo.Address) (T, bool) {
	if cur, found := t.perAddress[address]; found {
		if cur.cleared {
			var zero T
			return zero, false
		}
		return cur.override.Value, true
	}
	if t.global != nil {
		return t.global.Value, true
	}
	var zero T
	return zero, false
}

// Observe resolves the value for a call into the given contract and consumes
// one call of a limited span. An exhausted per-contract override is removed,
// so later calls see the global default; an exhausted share of a global
// override clears the contract.
func (t *ScopedTable[T]) Observe(address cairo.Address) (T, bool) {
	if cur, found := t.perAddress[address]; found {
		if cur.cleared {
			var zero T
			return zero, false
		}
		remaining, limited := cur.override.Span.Calls()
		switch {
		case !limited:
		case remaining > 1:
			cur.override.Span = Span{calls: remaining - 1}
			t.perAddress[address] = cur
		case cur.inherited:
			t.perAddress[address] = entry[T]{cleared: true}
		default:
			delete(t.perAddress, address)
		}
		return cur.override.Value, true
	}
	if t.global == nil {
		var zero T
		return zero, false
	}
	value := t.global.Value
	if remaining, limited := t.global.Span.Calls(); limited {
		t.init()
		if remaining > 1 {
			t.perAddress[address] = entry[T]{
				override:  Override[T]{Value: value, Span: Span{calls: remaining - 1}},
				inherited: true,
			}
		} else {
			t.perAddress[address] = entry[T]{cleared: true}
		}
	}
	return value, true
}

// IsEmpty reports whether the table holds neither overrides nor clears.
func (t *ScopedTable[T]) IsEmpty() bool {
	return t.global == nil && len(t.perAddress) == 0
}

func (t *ScopedTable[T]) init() {
	if t.perAddress == nil {
		t.perAddress = map[cairo.Address]entry[T]{}
	}
}
