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

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
)

// CallKind distinguishes calls executing another contract against its own
// storage from calls executing another class against the caller's storage.
type CallKind int

const (
	External CallKind = iota
	Library
)

func (k CallKind) String() string {
	switch k {
	case External:
		return "call"
	case Library:
		return "library_call"
	default:
		return "unknown"
	}
}

func (k CallKind) MarshalJSON() ([]byte, error) {
	switch k {
	case External, Library:
		return json.Marshal(k.String())
	}
	return nil, fmt.Errorf("invalid call kind: %v", int(k))
}

func (k *CallKind) UnmarshalJSON(data []byte) error {
	var kind string
	if err := json.Unmarshal(data, &kind); err != nil {
		return err
	}
	switch strings.ToLower(kind) {
	case "call":
		*k = External
	case "library_call":
		*k = Library
	default:
		return fmt.Errorf("unknown call kind: %s", kind)
	}
	return nil
}

// EntryPointType is the kind of entry point invoked by a call.
type EntryPointType int

const (
	EntryPointExternal EntryPointType = iota
	EntryPointConstructor
	EntryPointL1Handler
)

func (t EntryPointType) String() string {
	switch t {
	case EntryPointExternal:
		return "external"
	case EntryPointConstructor:
		return "constructor"
	case EntryPointL1Handler:
		return "l1_handler"
	default:
		return "unknown"
	}
}

// CallEntryPoint describes a single contract invocation.
type CallEntryPoint struct {
	Kind           CallKind
	Type           EntryPointType
	ClassHash      ClassHash // < resolved from the storage address for external calls
	StorageAddress Address   // < the contract whose storage is operated on
	CallerAddress  Address
	Selector       Selector
	Calldata       []Felt
}

// Event is an event emitted by a contract.
type Event struct {
	From Address
	Keys []Felt
	Data []Felt
}

// L2ToL1Message is a message sent by a contract to the settlement layer.
type L2ToL1Message struct {
	From    Address
	To      Felt
	Payload []Felt
}

// Resources summarizes the execution resources consumed by the interpreter.
type Resources struct {
	Steps       uint64
	MemoryHoles uint64
	Builtins    map[string]uint64
}

func (r Resources) Clone() Resources {
	res := r
	if r.Builtins != nil {
		res.Builtins = maps.Clone(r.Builtins)
	}
	return res
}

func (r Resources) Add(other Resources) Resources {
	res := r.Clone()
	res.Steps += other.Steps
	res.MemoryHoles += other.MemoryHoles
	for name, count := range other.Builtins {
		if res.Builtins == nil {
			res.Builtins = map[string]uint64{}
		}
		res.Builtins[name] += count
	}
	return res
}

// Sub computes r - other. Counters never drop below zero, since resources
// only ever grow during a run.
func (r Resources) Sub(other Resources) Resources {
	res := r.Clone()
	res.Steps = saturatingSub(r.Steps, other.Steps)
	res.MemoryHoles = saturatingSub(r.MemoryHoles, other.MemoryHoles)
	for name, count := range other.Builtins {
		if _, found := res.Builtins[name]; !found {
			continue
		}
		res.Builtins[name] = saturatingSub(res.Builtins[name], count)
		if res.Builtins[name] == 0 {
			delete(res.Builtins, name)
		}
	}
	return res
}

func (r Resources) IsZero() bool {
	return r.Steps == 0 && r.MemoryHoles == 0 && len(r.Builtins) == 0
}

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// BlockInfo contains information about the current block.
type BlockInfo struct {
	BlockNumber      uint64
	BlockTimestamp   uint64
	SequencerAddress Address
}

// TxInfo contains information about the current transaction.
type TxInfo struct {
	Version                Felt
	AccountContractAddress Address
	MaxFee                 Felt
	Signature              []Felt
	TransactionHash        Felt
	ChainID                Felt
	Nonce                  Felt
}

// Encode serializes the transaction info in the layout returned by the
// GetTxInfo syscall.
func (t TxInfo) Encode() []Felt {
	res := []Felt{t.Version, Felt(t.AccountContractAddress), t.MaxFee}
	res = AppendArray(res, t.Signature)
	return append(res, t.TransactionHash, t.ChainID, t.Nonce)
}

// DecodeTxInfo is the inverse of TxInfo.Encode.
func DecodeTxInfo(felts []Felt) (TxInfo, error) {
	reader := NewFeltReader(felts)
	var res TxInfo
	var err error
	if res.Version, err = reader.Next(); err != nil {
		return res, err
	}
	if res.AccountContractAddress, err = reader.Address(); err != nil {
		return res, err
	}
	if res.MaxFee, err = reader.Next(); err != nil {
		return res, err
	}
	if res.Signature, err = reader.Array(); err != nil {
		return res, err
	}
	if res.TransactionHash, err = reader.Next(); err != nil {
		return res, err
	}
	if res.ChainID, err = reader.Next(); err != nil {
		return res, err
	}
	if res.Nonce, err = reader.Next(); err != nil {
		return res, err
	}
	return res, reader.Finish()
}

// StepEntry is a single entry of an interpreter step trace.
type StepEntry struct {
	PC uint64
	AP uint64
	FP uint64
}
