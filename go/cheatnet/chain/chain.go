// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package chain composes hint processing from independent layers. A base
// processor implements the real syscall semantics, and extensions stacked on
// top of it may handle cheatcodes, replace syscalls, and observe completed
// operations through signals.
package chain

import (
	"github.com/cockroachdb/errors"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
)

type Syscall struct {
	Selector cairo.SyscallSelector
	Input    []cairo.Felt
}

type SyscallResult struct {
	Output []cairo.Felt
	// Failed is set if the syscall failed in a way the calling contract can
	// handle, for instance a reverted nested call.
	Failed bool
}

// Extension is a single layer of the chain. Handle and override operations
// report whether the layer took care of the operation. Unhandled operations
// are forwarded to the next inner layer.
type Extension[C any] interface {
	HandleCheatcode(ctx C, selector string, input []cairo.Felt) ([]cairo.Felt, bool, error)
	OverrideSyscall(ctx C, call Syscall) (SyscallResult, bool, error)

	// Signals are delivered after an operation completed, no matter which
	// layer handled it. Inner layers are signaled first.
	HandleCheatcodeSignal(ctx C, selector string, input []cairo.Felt)
	HandleSyscallSignal(ctx C, call Syscall)
}

// Processor is a stack of layers as seen from the outside.
type Processor[C any] interface {
	ExecuteCheatcode(ctx C, selector string, input []cairo.Felt) ([]cairo.Felt, error)
	ExecuteSyscall(ctx C, call Syscall) (SyscallResult, error)

	// PropagateCheatcodeSignal and PropagateSyscallSignal deliver the signal
	// of an operation handled by an outer layer to all layers of this stack.
	PropagateCheatcodeSignal(ctx C, selector string, input []cairo.Felt)
	PropagateSyscallSignal(ctx C, call Syscall)
}

type SyscallHandler[C any] interface {
	ExecuteSyscall(ctx C, call Syscall) (SyscallResult, error)
}

// NewBase creates the innermost processor. It executes syscalls using the
// given handler and rejects all cheatcodes.
func NewBase[C any](handler SyscallHandler[C]) Processor[C] {
	return base[C]{handler: handler}
}

type base[C any] struct {
	handler SyscallHandler[C]
}

func (b base[C]) ExecuteCheatcode(_ C, selector string, _ []cairo.Felt) ([]cairo.Felt, error) {
	return nil, errors.Wrapf(cairo.ErrUnknownCheatcodeSelector, "%q", selector)
}

func (b base[C]) ExecuteSyscall(ctx C, call Syscall) (SyscallResult, error) {
	return b.handler.ExecuteSyscall(ctx, call)
}

func (base[C]) PropagateCheatcodeSignal(C, string, []cairo.Felt) {}

func (base[C]) PropagateSyscallSignal(C, Syscall) {}

// Extend stacks the given extensions on top of a processor. The first
// extension is the innermost, the last one the outermost layer.
func Extend[C any](processor Processor[C], extensions ...Extension[C]) Processor[C] {
	res := processor
	for _, extension := range extensions {
		res = &layer[C]{extension: extension, next: res}
	}
	return res
}

type layer[C any] struct {
	extension Extension[C]
	next      Processor[C]
}

func (l *layer[C]) ExecuteCheatcode(ctx C, selector string, input []cairo.Felt) ([]cairo.Felt, error) {
	output, handled, err := l.extension.HandleCheatcode(ctx, selector, input)
	if err != nil {
		return nil, err
	}
	if handled {
		l.next.PropagateCheatcodeSignal(ctx, selector, input)
	} else {
		output, err = l.next.ExecuteCheatcode(ctx, selector, input)
		if err != nil {
			return nil, err
		}
	}
	l.extension.HandleCheatcodeSignal(ctx, selector, input)
	return output, nil
}

func (l *layer[C]) ExecuteSyscall(ctx C, call Syscall) (SyscallResult, error) {
	result, handled, err := l.extension.OverrideSyscall(ctx, call)
	if err != nil {
		return SyscallResult{}, err
	}
	if handled {
		l.next.PropagateSyscallSignal(ctx, call)
	} else {
		result, err = l.next.ExecuteSyscall(ctx, call)
		if err != nil {
			return SyscallResult{}, err
		}
	}
	l.extension.HandleSyscallSignal(ctx, call)
	return result, nil
}

func (l *layer[C]) PropagateCheatcodeSignal(ctx C, selector string, input []cairo.Felt) {
	l.next.PropagateCheatcodeSignal(ctx, selector, input)
	l.extension.HandleCheatcodeSignal(ctx, selector, input)
}

func (l *layer[C]) PropagateSyscallSignal(ctx C, call Syscall) {
	l.next.PropagateSyscallSignal(ctx, call)
	l.extension.HandleSyscallSignal(ctx, call)
}

// NilExtension forwards every operation and ignores all signals. It may be
// embedded by extensions only interested in some of the operations.
type NilExtension[C any] struct{}

func (NilExtension[C]) HandleCheatcode(C, string, []cairo.Felt) ([]cairo.Felt, bool, error) {
	return nil, false, nil
}

func (NilExtension[C]) OverrideSyscall(C, Syscall) (SyscallResult, bool, error) {
	return SyscallResult{}, false, nil
}

func (NilExtension[C]) HandleCheatcodeSignal(C, string, []cairo.Felt) {}

func (NilExtension[C]) HandleSyscallSignal(C, Syscall) {}
