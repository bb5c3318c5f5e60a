// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package state

import (
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
)

// CachedState is a writable state on top of a read-only StateReader. Writes
// are kept in an overlay and recorded in an undo journal so that they can
// be rolled back to any snapshot.
type CachedState struct {
	cairo.StateReader
	storage     map[storageSlot]cairo.Felt
	classHashes map[cairo.Address]cairo.ClassHash
	undo        []func()
}

var _ cairo.State = &CachedState{}

func NewCachedState(reader cairo.StateReader) *CachedState {
	return &CachedState{
		StateReader: reader,
		storage:     map[storageSlot]cairo.Felt{},
		classHashes: map[cairo.Address]cairo.ClassHash{},
	}
}

func (s *CachedState) GetStorageAt(address cairo.Address, key cairo.StorageKey) (cairo.Felt, error) {
	if value, found := s.storage[storageSlot{address, key}]; found {
		return value, nil
	}
	return s.StateReader.GetStorageAt(address, key)
}

func (s *CachedState) GetClassHashAt(address cairo.Address) (cairo.ClassHash, error) {
	if hash, found := s.classHashes[address]; found {
		return hash, nil
	}
	return s.StateReader.GetClassHashAt(address)
}

func (s *CachedState) SetStorageAt(address cairo.Address, key cairo.StorageKey, value cairo.Felt) error {
	slot := storageSlot{address, key}
	journal(s, s.storage, slot)
	s.storage[slot] = value
	return nil
}

func (s *CachedState) SetClassHashAt(address cairo.Address, hash cairo.ClassHash) error {
	journal(s, s.classHashes, address)
	s.classHashes[address] = hash
	return nil
}

// journal records an undo operation resetting the given overlay entry.
func journal[K comparable, V any](s *CachedState, overlay map[K]V, key K) {
	original, found := overlay[key]
	s.undo = append(s.undo, func() {
		if found {
			overlay[key] = original
		} else {
			delete(overlay, key)
		}
	})
}

func (s *CachedState) CreateSnapshot() cairo.Snapshot {
	return cairo.Snapshot(len(s.undo))
}

func (s *CachedState) RestoreSnapshot(snapshot cairo.Snapshot) {
	for len(s.undo) > int(snapshot) {
		s.undo[len(s.undo)-1]()
		s.undo = s.undo[:len(s.undo)-1]
	}
}

// Diff is the set of changes applied on top of the underlying reader.
type Diff struct {
	Storage     map[cairo.Address]map[cairo.StorageKey]cairo.Felt
	ClassHashes map[cairo.Address]cairo.ClassHash
}

func (s *CachedState) Diff() Diff {
	res := Diff{
		Storage:     map[cairo.Address]map[cairo.StorageKey]cairo.Felt{},
		ClassHashes: map[cairo.Address]cairo.ClassHash{},
	}
	for slot, value := range s.storage {
		if res.Storage[slot.address] == nil {
			res.Storage[slot.address] = map[cairo.StorageKey]cairo.Felt{}
		}
		res.Storage[slot.address][slot.key] = value
	}
	for address, hash := range s.classHashes {
		res.ClassHashes[address] = hash
	}
	return res
}
