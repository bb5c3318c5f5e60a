// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package nativevm

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"golang.org/x/exp/slices"
)

const (
	entryCost   = 10
	syscallCost = 100
	hintCost    = 5
)

const rangeCheckBuiltin = "range_check"

// RevertError ends the execution of an entry point with a revert carrying
// the given data.
type RevertError struct {
	Data []cairo.Felt
}

func (e *RevertError) Error() string {
	if len(e.Data) == 1 {
		if reason, err := e.Data[0].ShortString(); err == nil {
			return "reverted: " + reason
		}
	}
	return fmt.Sprintf("reverted: %v", e.Data)
}

// Revert creates an error reverting the current entry point.
func Revert(data ...cairo.Felt) error {
	return &RevertError{Data: slices.Clone(data)}
}

// RevertWith reverts with a short string reason.
func RevertWith(reason string) error {
	felt, err := cairo.ShortString(reason)
	if err != nil {
		return err
	}
	return Revert(felt)
}

// Runtime is the view of the host available to a running entry point.
type Runtime struct {
	params      cairo.Parameters
	syscallHint *cairo.Hint
	cheatHint   *cairo.Hint
	steps       uint64
	rangeChecks uint64
	trace       []cairo.StepEntry
}

func newRuntime(params cairo.Parameters) *Runtime {
	return &Runtime{params: params}
}

func (r *Runtime) step(n uint64) {
	if r.params.TraceSteps {
		r.trace = append(r.trace, cairo.StepEntry{PC: r.steps, AP: uint64(len(r.trace)), FP: n})
	}
	r.steps += n
}

// Step accounts for n steps of computation in the running entry point.
func (r *Runtime) Step(n uint64) {
	r.step(n)
}

func (r *Runtime) result(success bool, retdata []cairo.Felt) cairo.Result {
	res := cairo.Result{
		Success:   success,
		Retdata:   slices.Clone(retdata),
		Resources: cairo.Resources{Steps: r.steps},
		Trace:     r.trace,
	}
	if r.rangeChecks > 0 {
		res.Resources.Builtins = map[string]uint64{rangeCheckBuiltin: r.rangeChecks}
	}
	return res
}

func (r *Runtime) Calldata() []cairo.Felt {
	return slices.Clone(r.params.Entry.Calldata)
}

// Entry describes the call being executed.
func (r *Runtime) Entry() cairo.CallEntryPoint {
	return r.params.Entry
}

func (r *Runtime) compile(target **cairo.Hint, code string) (cairo.Hint, error) {
	if *target != nil {
		return **target, nil
	}
	hint, err := r.params.Hints.CompileHint(code)
	if err != nil {
		return cairo.Hint{}, err
	}
	*target = &hint
	return hint, nil
}

// Syscall issues a raw syscall. The returned flag is false if the syscall
// failed; the output then holds the failure reason.
func (r *Runtime) Syscall(selector cairo.SyscallSelector, inputs ...cairo.Felt) ([]cairo.Felt, bool, error) {
	hint, err := r.compile(&r.syscallHint, "syscall")
	if err != nil {
		return nil, false, err
	}
	r.step(syscallCost)
	r.rangeChecks++
	response, err := r.params.Hints.ExecuteHint(hint, cairo.HintRequest{Selector: selector.Felt(), Inputs: inputs})
	if err != nil {
		return nil, false, err
	}
	return response.Output, !response.Failed, nil
}

// mustSyscall issues a syscall and turns failures into a revert carrying the
// failure reason.
func (r *Runtime) mustSyscall(selector cairo.SyscallSelector, inputs ...cairo.Felt) ([]cairo.Felt, error) {
	output, ok, err := r.Syscall(selector, inputs...)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, Revert(output...)
	}
	return output, nil
}

func (r *Runtime) single(selector cairo.SyscallSelector, inputs ...cairo.Felt) (cairo.Felt, error) {
	output, err := r.mustSyscall(selector, inputs...)
	if err != nil {
		return cairo.Felt{}, err
	}
	if len(output) != 1 {
		return cairo.Felt{}, errors.Wrapf(cairo.ErrHostFatal, "syscall %v returned %d felts", selector, len(output))
	}
	return output[0], nil
}

func (r *Runtime) singleUint64(selector cairo.SyscallSelector) (uint64, error) {
	felt, err := r.single(selector)
	if err != nil {
		return 0, err
	}
	value, ok := felt.Uint64()
	if !ok {
		return 0, errors.Wrapf(cairo.ErrHostFatal, "syscall %v returned %v", selector, felt)
	}
	return value, nil
}

// Cheatcode issues a cheatcode and returns its output.
func (r *Runtime) Cheatcode(selector string, inputs ...cairo.Felt) ([]cairo.Felt, error) {
	hint, err := r.compile(&r.cheatHint, "cheatcode")
	if err != nil {
		return nil, err
	}
	felt, err := cairo.ShortString(selector)
	if err != nil {
		return nil, err
	}
	r.step(hintCost)
	response, err := r.params.Hints.ExecuteHint(hint, cairo.HintRequest{Selector: felt, Inputs: inputs})
	if err != nil {
		return nil, err
	}
	return response.Output, nil
}

func (r *Runtime) CallContract(address cairo.Address, selector cairo.Selector, calldata ...cairo.Felt) ([]cairo.Felt, error) {
	inputs := cairo.AppendArray([]cairo.Felt{cairo.Felt(address), cairo.Felt(selector)}, calldata)
	return r.mustSyscall(cairo.SyscallCallContract, inputs...)
}

// TryCallContract is like CallContract but reports a failed call instead of
// reverting.
func (r *Runtime) TryCallContract(address cairo.Address, selector cairo.Selector, calldata ...cairo.Felt) ([]cairo.Felt, bool, error) {
	inputs := cairo.AppendArray([]cairo.Felt{cairo.Felt(address), cairo.Felt(selector)}, calldata)
	return r.Syscall(cairo.SyscallCallContract, inputs...)
}

func (r *Runtime) LibraryCall(class cairo.ClassHash, selector cairo.Selector, calldata ...cairo.Felt) ([]cairo.Felt, error) {
	inputs := cairo.AppendArray([]cairo.Felt{cairo.Felt(class), cairo.Felt(selector)}, calldata)
	return r.mustSyscall(cairo.SyscallLibraryCall, inputs...)
}

func (r *Runtime) Deploy(class cairo.ClassHash, salt cairo.Felt, calldata []cairo.Felt, fromZero bool) (cairo.Address, []cairo.Felt, error) {
	inputs := cairo.AppendArray([]cairo.Felt{cairo.Felt(class), salt}, calldata)
	flag := cairo.NewFelt(0)
	if fromZero {
		flag = cairo.NewFelt(1)
	}
	output, err := r.mustSyscall(cairo.SyscallDeploy, append(inputs, flag)...)
	if err != nil {
		return cairo.Address{}, nil, err
	}
	reader := cairo.NewFeltReader(output)
	address, err := reader.Address()
	if err != nil {
		return cairo.Address{}, nil, err
	}
	retdata, err := reader.Array()
	if err != nil {
		return cairo.Address{}, nil, err
	}
	return address, retdata, nil
}

func (r *Runtime) EmitEvent(keys []cairo.Felt, data []cairo.Felt) error {
	inputs := cairo.AppendArray(cairo.AppendArray(nil, keys), data)
	_, err := r.mustSyscall(cairo.SyscallEmitEvent, inputs...)
	return err
}

func (r *Runtime) SendMessageToL1(to cairo.Felt, payload ...cairo.Felt) error {
	_, err := r.mustSyscall(cairo.SyscallSendMessageToL1, cairo.AppendArray([]cairo.Felt{to}, payload)...)
	return err
}

func (r *Runtime) StorageRead(key cairo.StorageKey) (cairo.Felt, error) {
	return r.single(cairo.SyscallStorageRead, cairo.Felt(key))
}

func (r *Runtime) StorageWrite(key cairo.StorageKey, value cairo.Felt) error {
	_, err := r.mustSyscall(cairo.SyscallStorageWrite, cairo.Felt(key), value)
	return err
}

func (r *Runtime) GetBlockNumber() (uint64, error) {
	return r.singleUint64(cairo.SyscallGetBlockNumber)
}

func (r *Runtime) GetBlockTimestamp() (uint64, error) {
	return r.singleUint64(cairo.SyscallGetBlockTimestamp)
}

func (r *Runtime) GetSequencerAddress() (cairo.Address, error) {
	felt, err := r.single(cairo.SyscallGetSequencerAddress)
	return cairo.Address(felt), err
}

func (r *Runtime) GetCallerAddress() (cairo.Address, error) {
	felt, err := r.single(cairo.SyscallGetCallerAddress)
	return cairo.Address(felt), err
}

func (r *Runtime) GetContractAddress() (cairo.Address, error) {
	felt, err := r.single(cairo.SyscallGetContractAddress)
	return cairo.Address(felt), err
}

func (r *Runtime) GetClassHashAt(address cairo.Address) (cairo.ClassHash, error) {
	felt, err := r.single(cairo.SyscallGetClassHashAt, cairo.Felt(address))
	return cairo.ClassHash(felt), err
}

// GetTxInfo returns the decoded transaction info visible to the running
// entry point.
func (r *Runtime) GetTxInfo() (cairo.TxInfo, error) {
	output, err := r.mustSyscall(cairo.SyscallGetTxInfo)
	if err != nil {
		return cairo.TxInfo{}, err
	}
	return cairo.DecodeTxInfo(output)
}
