// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package execution

import (
	"github.com/cockroachdb/errors"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/chain"
)

var (
	reasonContractNotDeployed     = cairo.MustShortString("CONTRACT_NOT_DEPLOYED")
	reasonContractAlreadyDeployed = cairo.MustShortString("CONTRACT_ALREADY_DEPLOYED")
	reasonClassNotDeclared        = cairo.MustShortString("CLASS_NOT_DECLARED")
	reasonStateAccess             = cairo.MustShortString("STATE_ACCESS_ERROR")
)

// SyscallHandler implements the real semantics of all syscalls. It is the
// base of the processor chain.
type SyscallHandler struct{}

var _ chain.SyscallHandler[*Context] = SyscallHandler{}

type syscallFunc func(ctx *Context, input *cairo.FeltReader) (chain.SyscallResult, error)

var syscalls = map[cairo.SyscallSelector]syscallFunc{
	cairo.SyscallCallContract:        callContract,
	cairo.SyscallLibraryCall:         libraryCall,
	cairo.SyscallDeploy:              deploy,
	cairo.SyscallEmitEvent:           emitEvent,
	cairo.SyscallSendMessageToL1:     sendMessageToL1,
	cairo.SyscallStorageRead:         storageRead,
	cairo.SyscallStorageWrite:        storageWrite,
	cairo.SyscallGetBlockNumber:      getBlockNumber,
	cairo.SyscallGetBlockTimestamp:   getBlockTimestamp,
	cairo.SyscallGetSequencerAddress: getSequencerAddress,
	cairo.SyscallGetCallerAddress:    getCallerAddress,
	cairo.SyscallGetContractAddress:  getContractAddress,
	cairo.SyscallGetTxInfo:           getTxInfo,
	cairo.SyscallGetClassHashAt:      getClassHashAt,
}

// ExecuteSyscall runs the given syscall. State access failures are reported
// to the calling contract as a failed syscall carrying a reason.
func (SyscallHandler) ExecuteSyscall(ctx *Context, call chain.Syscall) (chain.SyscallResult, error) {
	handler, found := syscalls[call.Selector]
	if !found {
		return chain.SyscallResult{}, errors.Wrapf(chain.ErrUnknownSyscall, "%q", call.Selector)
	}
	res, err := handler(ctx, cairo.NewFeltReader(call.Input))
	if err != nil && isRecoverable(err) {
		ctx.Log.Debugf("syscall %v failed: %v", call.Selector, err)
		return chain.SyscallResult{Output: []cairo.Felt{failureReason(err)}, Failed: true}, nil
	}
	return res, err
}

// isRecoverable reports whether a failed syscall should be reported to the
// calling contract. Errors raised by nested executions have already crossed
// the hint boundary and abort the run.
func isRecoverable(err error) bool {
	var hintErr *cairo.HintError
	if errors.As(err, &hintErr) {
		return false
	}
	return errors.Is(err, cairo.ErrStateAccess) && !cairo.IsFatal(err)
}

func failureReason(err error) cairo.Felt {
	switch {
	case errors.Is(err, ErrContractNotDeployed):
		return reasonContractNotDeployed
	case errors.Is(err, ErrContractAlreadyDeployed):
		return reasonContractAlreadyDeployed
	case errors.Is(err, cairo.ErrClassNotDeclared):
		return reasonClassNotDeclared
	}
	return reasonStateAccess
}

func outcomeResult(outcome CallOutcome) chain.SyscallResult {
	return chain.SyscallResult{Output: outcome.Retdata, Failed: !outcome.Success}
}

func callContract(ctx *Context, input *cairo.FeltReader) (chain.SyscallResult, error) {
	address, err := input.Address()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	selector, err := input.Selector()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	calldata, err := input.Array()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	if err := input.Finish(); err != nil {
		return chain.SyscallResult{}, err
	}
	outcome, err := ctx.ExecuteCall(cairo.CallEntryPoint{
		Kind:           cairo.External,
		Type:           cairo.EntryPointExternal,
		StorageAddress: address,
		CallerAddress:  ctx.CurrentEntry().StorageAddress,
		Selector:       selector,
		Calldata:       calldata,
	})
	if err != nil {
		return chain.SyscallResult{}, err
	}
	return outcomeResult(outcome), nil
}

func libraryCall(ctx *Context, input *cairo.FeltReader) (chain.SyscallResult, error) {
	class, err := input.ClassHash()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	selector, err := input.Selector()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	calldata, err := input.Array()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	if err := input.Finish(); err != nil {
		return chain.SyscallResult{}, err
	}
	current := ctx.CurrentEntry()
	outcome, err := ctx.ExecuteCall(cairo.CallEntryPoint{
		Kind:           cairo.Library,
		Type:           cairo.EntryPointExternal,
		ClassHash:      class,
		StorageAddress: current.StorageAddress,
		CallerAddress:  current.CallerAddress,
		Selector:       selector,
		Calldata:       calldata,
	})
	if err != nil {
		return chain.SyscallResult{}, err
	}
	return outcomeResult(outcome), nil
}

func deploy(ctx *Context, input *cairo.FeltReader) (chain.SyscallResult, error) {
	class, err := input.ClassHash()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	salt, err := input.Next()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	calldata, err := input.Array()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	fromZero, err := input.Bool()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	if err := input.Finish(); err != nil {
		return chain.SyscallResult{}, err
	}
	var deployer cairo.Address
	if !fromZero {
		deployer = ctx.CurrentEntry().StorageAddress
	}
	outcome, err := ctx.Deploy(class, salt, calldata, deployer)
	if err != nil {
		return chain.SyscallResult{}, err
	}
	if !outcome.Success {
		return chain.SyscallResult{Output: outcome.Retdata, Failed: true}, nil
	}
	output := cairo.AppendArray([]cairo.Felt{cairo.Felt(outcome.Address)}, outcome.Retdata)
	return chain.SyscallResult{Output: output}, nil
}

func emitEvent(ctx *Context, input *cairo.FeltReader) (chain.SyscallResult, error) {
	keys, err := input.Array()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	data, err := input.Array()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	if err := input.Finish(); err != nil {
		return chain.SyscallResult{}, err
	}
	ctx.Trace.EmitEvent(cairo.Event{
		From: ctx.CurrentEntry().StorageAddress,
		Keys: keys,
		Data: data,
	})
	return chain.SyscallResult{}, nil
}

func sendMessageToL1(ctx *Context, input *cairo.FeltReader) (chain.SyscallResult, error) {
	to, err := input.Next()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	payload, err := input.Array()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	if err := input.Finish(); err != nil {
		return chain.SyscallResult{}, err
	}
	ctx.Trace.SendMessage(cairo.L2ToL1Message{
		From:    ctx.CurrentEntry().StorageAddress,
		To:      to,
		Payload: payload,
	})
	return chain.SyscallResult{}, nil
}

func storageRead(ctx *Context, input *cairo.FeltReader) (chain.SyscallResult, error) {
	key, err := input.StorageKey()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	if err := input.Finish(); err != nil {
		return chain.SyscallResult{}, err
	}
	address := ctx.CurrentEntry().StorageAddress
	value, err := ctx.State.GetStorageAt(address, key)
	if err != nil {
		return chain.SyscallResult{}, errors.Mark(errors.Wrapf(err, "read %v of %v", key, address), cairo.ErrStateAccess)
	}
	return chain.SyscallResult{Output: []cairo.Felt{value}}, nil
}

func storageWrite(ctx *Context, input *cairo.FeltReader) (chain.SyscallResult, error) {
	key, err := input.StorageKey()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	value, err := input.Next()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	if err := input.Finish(); err != nil {
		return chain.SyscallResult{}, err
	}
	address := ctx.CurrentEntry().StorageAddress
	if err := ctx.State.SetStorageAt(address, key, value); err != nil {
		return chain.SyscallResult{}, errors.Mark(errors.Wrapf(err, "write %v of %v", key, address), cairo.ErrStateAccess)
	}
	return chain.SyscallResult{}, nil
}

func getBlockNumber(ctx *Context, input *cairo.FeltReader) (chain.SyscallResult, error) {
	return single(input, cairo.NewFelt(ctx.Block.BlockNumber))
}

func getBlockTimestamp(ctx *Context, input *cairo.FeltReader) (chain.SyscallResult, error) {
	return single(input, cairo.NewFelt(ctx.Block.BlockTimestamp))
}

func getSequencerAddress(ctx *Context, input *cairo.FeltReader) (chain.SyscallResult, error) {
	return single(input, cairo.Felt(ctx.Block.SequencerAddress))
}

func getCallerAddress(ctx *Context, input *cairo.FeltReader) (chain.SyscallResult, error) {
	return single(input, cairo.Felt(ctx.CurrentEntry().CallerAddress))
}

func getContractAddress(ctx *Context, input *cairo.FeltReader) (chain.SyscallResult, error) {
	return single(input, cairo.Felt(ctx.CurrentEntry().StorageAddress))
}

func getTxInfo(ctx *Context, input *cairo.FeltReader) (chain.SyscallResult, error) {
	if err := input.Finish(); err != nil {
		return chain.SyscallResult{}, err
	}
	return chain.SyscallResult{Output: ctx.Tx.Encode()}, nil
}

func getClassHashAt(ctx *Context, input *cairo.FeltReader) (chain.SyscallResult, error) {
	address, err := input.Address()
	if err != nil {
		return chain.SyscallResult{}, err
	}
	if err := input.Finish(); err != nil {
		return chain.SyscallResult{}, err
	}
	hash, err := ctx.State.GetClassHashAt(address)
	if err != nil {
		return chain.SyscallResult{}, errors.Mark(errors.Wrapf(err, "class hash of %v", address), cairo.ErrStateAccess)
	}
	return chain.SyscallResult{Output: []cairo.Felt{cairo.Felt(hash)}}, nil
}

func single(input *cairo.FeltReader, value cairo.Felt) (chain.SyscallResult, error) {
	if err := input.Finish(); err != nil {
		return chain.SyscallResult{}, err
	}
	return chain.SyscallResult{Output: []cairo.Felt{value}}, nil
}
