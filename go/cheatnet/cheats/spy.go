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
	"github.com/cockroachdb/errors"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"golang.org/x/exp/slices"
)

// ErrUnknownSpy is reported when fetching events of a spy never registered.
var ErrUnknownSpy = errors.Mark(errors.New("unknown spy"), cairo.ErrMalformedCheatcodeInput)

type spy struct {
	target Target
	events []cairo.Event
}

// SpyRegistry keeps independent, target filtered event buffers. Buffers
// are drained on read. The zero value is an empty registry.
type SpyRegistry struct {
	spies []*spy
}

// Register creates a new empty buffer collecting events of the target and
// returns its id.
func (r *SpyRegistry) Register(target Target) uint64 {
	r.spies = append(r.spies, &spy{target: target})
	return uint64(len(r.spies) - 1)
}

// Record appends the event to every spy whose target matches the emitter.
func (r *SpyRegistry) Record(event cairo.Event) {
	for _, cur := range r.spies {
		if cur.target.Matches(event.From) {
			cur.events = append(cur.events, cairo.Event{
				From: event.From,
				Keys: slices.Clone(event.Keys),
				Data: slices.Clone(event.Data),
			})
		}
	}
}

// Fetch returns the events collected by the given spy since the last fetch
// and empties its buffer.
func (r *SpyRegistry) Fetch(id uint64) ([]cairo.Event, error) {
	if id >= uint64(len(r.spies)) {
		return nil, errors.Wrapf(ErrUnknownSpy, "spy id %d", id)
	}
	cur := r.spies[id]
	res := cur.events
	cur.events = nil
	return res, nil
}

// Len returns the number of registered spies.
func (r *SpyRegistry) Len() int {
	return len(r.spies)
}
