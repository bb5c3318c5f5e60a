// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package state provides implementations of the state interfaces used by the
// execution host: an in-memory dictionary, a caching decorator for slow
// readers and a journaled overlay supporting snapshots.
package state

import (
	"github.com/cockroachdb/errors"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"golang.org/x/exp/maps"
)

// DictStateReader is a StateReader backed by in-memory maps. The zero value
// is not usable, use NewDictStateReader.
type DictStateReader struct {
	storage     map[cairo.Address]map[cairo.StorageKey]cairo.Felt
	nonces      map[cairo.Address]cairo.Felt
	classHashes map[cairo.Address]cairo.ClassHash
	classes     map[cairo.ClassHash]cairo.CompiledClass
	block       cairo.BlockInfo
}

var _ cairo.StateReader = &DictStateReader{}

func NewDictStateReader() *DictStateReader {
	return &DictStateReader{
		storage:     map[cairo.Address]map[cairo.StorageKey]cairo.Felt{},
		nonces:      map[cairo.Address]cairo.Felt{},
		classHashes: map[cairo.Address]cairo.ClassHash{},
		classes:     map[cairo.ClassHash]cairo.CompiledClass{},
	}
}

func (r *DictStateReader) GetStorageAt(address cairo.Address, key cairo.StorageKey) (cairo.Felt, error) {
	return r.storage[address][key], nil
}

func (r *DictStateReader) GetNonceAt(address cairo.Address) (cairo.Felt, error) {
	return r.nonces[address], nil
}

func (r *DictStateReader) GetClassHashAt(address cairo.Address) (cairo.ClassHash, error) {
	return r.classHashes[address], nil
}

func (r *DictStateReader) GetCompiledClass(hash cairo.ClassHash) (cairo.CompiledClass, error) {
	class, found := r.classes[hash]
	if !found {
		return cairo.CompiledClass{}, errors.Wrapf(cairo.ErrClassNotDeclared, "%v", hash)
	}
	return class, nil
}

func (r *DictStateReader) GetBlockInfo() (cairo.BlockInfo, error) {
	return r.block, nil
}

// Declare makes a class known to the reader.
func (r *DictStateReader) Declare(class cairo.CompiledClass) {
	r.classes[class.Hash] = class
}

// Deploy places an instance of the given class at the given address without
// running any constructor.
func (r *DictStateReader) Deploy(address cairo.Address, class cairo.ClassHash) {
	r.classHashes[address] = class
}

func (r *DictStateReader) SetStorage(address cairo.Address, key cairo.StorageKey, value cairo.Felt) {
	if r.storage[address] == nil {
		r.storage[address] = map[cairo.StorageKey]cairo.Felt{}
	}
	r.storage[address][key] = value
}

func (r *DictStateReader) SetNonce(address cairo.Address, nonce cairo.Felt) {
	r.nonces[address] = nonce
}

func (r *DictStateReader) SetBlockInfo(block cairo.BlockInfo) {
	r.block = block
}

// Classes returns the hashes of all declared classes.
func (r *DictStateReader) Classes() []cairo.ClassHash {
	return maps.Keys(r.classes)
}
