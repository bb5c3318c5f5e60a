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
	"sync/atomic"

	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	lru "github.com/hashicorp/golang-lru/v2"
)

type storageSlot struct {
	address cairo.Address
	key     cairo.StorageKey
}

// CachedReader memorizes the values returned by a slow StateReader, for
// instance one backed by a remote node. Errors are never cached. The reader
// must only be used for immutable state.
type CachedReader struct {
	reader      cairo.StateReader
	storage     *lru.Cache[storageSlot, cairo.Felt]
	nonces      *lru.Cache[cairo.Address, cairo.Felt]
	classHashes *lru.Cache[cairo.Address, cairo.ClassHash]
	classes     *lru.Cache[cairo.ClassHash, cairo.CompiledClass]
	hits        atomic.Uint64
	misses      atomic.Uint64
}

var _ cairo.StateReader = &CachedReader{}

func NewCachedReader(reader cairo.StateReader, size int) (*CachedReader, error) {
	storage, err := lru.New[storageSlot, cairo.Felt](size)
	if err != nil {
		return nil, err
	}
	nonces, err := lru.New[cairo.Address, cairo.Felt](size)
	if err != nil {
		return nil, err
	}
	classHashes, err := lru.New[cairo.Address, cairo.ClassHash](size)
	if err != nil {
		return nil, err
	}
	classes, err := lru.New[cairo.ClassHash, cairo.CompiledClass](size)
	if err != nil {
		return nil, err
	}
	return &CachedReader{
		reader:      reader,
		storage:     storage,
		nonces:      nonces,
		classHashes: classHashes,
		classes:     classes,
	}, nil
}

func cached[K comparable, V any](r *CachedReader, cache *lru.Cache[K, V], key K, fetch func() (V, error)) (V, error) {
	if value, found := cache.Get(key); found {
		r.hits.Add(1)
		return value, nil
	}
	r.misses.Add(1)
	value, err := fetch()
	if err != nil {
		return value, err
	}
	cache.Add(key, value)
	return value, nil
}

func (r *CachedReader) GetStorageAt(address cairo.Address, key cairo.StorageKey) (cairo.Felt, error) {
	return cached(r, r.storage, storageSlot{address, key}, func() (cairo.Felt, error) {
		return r.reader.GetStorageAt(address, key)
	})
}

func (r *CachedReader) GetNonceAt(address cairo.Address) (cairo.Felt, error) {
	return cached(r, r.nonces, address, func() (cairo.Felt, error) {
		return r.reader.GetNonceAt(address)
	})
}

func (r *CachedReader) GetClassHashAt(address cairo.Address) (cairo.ClassHash, error) {
	return cached(r, r.classHashes, address, func() (cairo.ClassHash, error) {
		return r.reader.GetClassHashAt(address)
	})
}

func (r *CachedReader) GetCompiledClass(hash cairo.ClassHash) (cairo.CompiledClass, error) {
	return cached(r, r.classes, hash, func() (cairo.CompiledClass, error) {
		return r.reader.GetCompiledClass(hash)
	})
}

func (r *CachedReader) GetBlockInfo() (cairo.BlockInfo, error) {
	return r.reader.GetBlockInfo()
}

// Stats returns the number of cache hits and misses so far.
func (r *CachedReader) Stats() (hits, misses uint64) {
	return r.hits.Load(), r.misses.Load()
}
