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

// SyscallSelector names a system call offered by the host.
type SyscallSelector string

const (
	SyscallCallContract        SyscallSelector = "CallContract"
	SyscallLibraryCall         SyscallSelector = "LibraryCall"
	SyscallDeploy              SyscallSelector = "Deploy"
	SyscallEmitEvent           SyscallSelector = "EmitEvent"
	SyscallSendMessageToL1     SyscallSelector = "SendMessageToL1"
	SyscallStorageRead         SyscallSelector = "StorageRead"
	SyscallStorageWrite        SyscallSelector = "StorageWrite"
	SyscallGetBlockNumber      SyscallSelector = "GetBlockNumber"
	SyscallGetBlockTimestamp   SyscallSelector = "GetBlockTimestamp"
	SyscallGetSequencerAddress SyscallSelector = "GetSequencerAddress"
	SyscallGetCallerAddress    SyscallSelector = "GetCallerAddress"
	SyscallGetContractAddress  SyscallSelector = "GetContractAddress"
	SyscallGetTxInfo           SyscallSelector = "GetTxInfo"
	SyscallGetClassHashAt      SyscallSelector = "GetClassHashAt"
)

// Felt encodes the selector as a short string.
func (s SyscallSelector) Felt() Felt {
	return MustShortString(string(s))
}

// GetAllSyscallSelectors lists every syscall known to the host.
func GetAllSyscallSelectors() []SyscallSelector {
	return []SyscallSelector{
		SyscallCallContract,
		SyscallLibraryCall,
		SyscallDeploy,
		SyscallEmitEvent,
		SyscallSendMessageToL1,
		SyscallStorageRead,
		SyscallStorageWrite,
		SyscallGetBlockNumber,
		SyscallGetBlockTimestamp,
		SyscallGetSequencerAddress,
		SyscallGetCallerAddress,
		SyscallGetContractAddress,
		SyscallGetTxInfo,
		SyscallGetClassHashAt,
	}
}

// IsValid reports whether the selector names a known syscall.
func (s SyscallSelector) IsValid() bool {
	for _, cur := range GetAllSyscallSelectors() {
		if cur == s {
			return true
		}
	}
	return false
}
