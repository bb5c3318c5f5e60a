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
	"fmt"
	"strings"

	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"golang.org/x/exp/slices"
)

// TargetKind enumerates the addressing modes of a cheat.
type TargetKind int

const (
	TargetAll TargetKind = iota
	TargetOne
	TargetMultiple
)

// Target selects the contracts a cheat applies to. Targets are only used as
// parameters of cheat mutations and are never stored.
type Target struct {
	kind      TargetKind
	addresses []cairo.Address
}

// All targets every contract.
func All() Target {
	return Target{kind: TargetAll}
}

// One targets a single contract.
func One(address cairo.Address) Target {
	return Target{kind: TargetOne, addresses: []cairo.Address{address}}
}

// Multiple targets the given list of contracts.
func Multiple(addresses ...cairo.Address) Target {
	return Target{kind: TargetMultiple, addresses: slices.Clone(addresses)}
}

func (t Target) Kind() TargetKind {
	return t.kind
}

// Addresses lists the targeted contracts; it is empty for TargetAll.
func (t Target) Addresses() []cairo.Address {
	return t.addresses
}

// Matches reports whether the given contract is covered by this target.
func (t Target) Matches(address cairo.Address) bool {
	if t.kind == TargetAll {
		return true
	}
	return slices.Contains(t.addresses, address)
}

func (t Target) String() string {
	switch t.kind {
	case TargetAll:
		return "All"
	case TargetOne:
		return fmt.Sprintf("One(%v)", t.addresses[0])
	}
	parts := make([]string, 0, len(t.addresses))
	for _, address := range t.addresses {
		parts = append(parts, address.String())
	}
	return "Multiple(" + strings.Join(parts, ",") + ")"
}

// Span defines the lifetime of a cheat. The zero value is Indefinite.
type Span struct {
	calls uint64
}

// Indefinite keeps a cheat active until it is stopped explicitly.
func Indefinite() Span {
	return Span{}
}

// TargetCalls keeps a cheat active for the given positive number of calls
// into each targeted contract.
func TargetCalls(n uint64) (Span, error) {
	if n == 0 {
		return Span{}, fmt.Errorf("span must cover a positive number of calls")
	}
	return Span{calls: n}, nil
}

// MustTargetCalls is like TargetCalls but panics for zero.
func MustTargetCalls(n uint64) Span {
	res, err := TargetCalls(n)
	if err != nil {
		panic(err)
	}
	return res
}

func (s Span) IsIndefinite() bool {
	return s.calls == 0
}

// Calls returns the number of remaining calls, if the span is limited.
func (s Span) Calls() (uint64, bool) {
	return s.calls, s.calls != 0
}

func (s Span) String() string {
	if s.IsIndefinite() {
		return "Indefinite"
	}
	return fmt.Sprintf("TargetCalls(%d)", s.calls)
}
