// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cairo

import "github.com/cockroachdb/errors"

// ErrClassNotDeclared is reported by GetCompiledClass for unknown classes.
var ErrClassNotDeclared = errors.Mark(errors.New("class not declared"), ErrStateAccess)

//go:generate mockgen -source state_reader.go -destination state_reader_mock.go -package cairo

// StateReader provides read access to the state of the chain. Implementations
// may be backed by an in-memory dictionary or by a remote node; the host only
// depends on this interface. Reading an undeclared class or failing to reach
// the backing store is reported through the returned error.
type StateReader interface {
	GetStorageAt(Address, StorageKey) (Felt, error)
	GetNonceAt(Address) (Felt, error)
	// GetClassHashAt returns the zero hash for addresses without a contract.
	GetClassHashAt(Address) (ClassHash, error)
	GetCompiledClass(ClassHash) (CompiledClass, error)
	GetBlockInfo() (BlockInfo, error)
}

// State extends a StateReader by write operations. All modifications are
// buffered and can be rolled back to a snapshot.
type State interface {
	StateReader

	SetStorageAt(Address, StorageKey, Felt) error
	SetClassHashAt(Address, ClassHash) error

	CreateSnapshot() Snapshot
	RestoreSnapshot(Snapshot)
}

// Snapshot is a type used to represent a snapshot of a State.
type Snapshot int
