// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package tracing provides extensions observing the processor chain without
// changing its semantics.
package tracing

import (
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/chain"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/execution"
	"github.com/foundry-rs/starknet-foundry-sub002/go/logger"
)

// SyscallCounter records every completed syscall on the call issuing it.
type SyscallCounter struct {
	chain.NilExtension[*execution.Context]
}

func NewSyscallCounter() *SyscallCounter {
	return &SyscallCounter{}
}

func (SyscallCounter) HandleSyscallSignal(ctx *execution.Context, call chain.Syscall) {
	ctx.Trace.RecordSyscall(call.Selector)
}

// Logger writes every cheatcode and syscall to the log at debug level.
type Logger struct {
	chain.NilExtension[*execution.Context]
	log logger.Logger
}

func NewLogger(log logger.Logger) *Logger {
	return &Logger{log: log}
}

func (l *Logger) HandleCheatcode(ctx *execution.Context, selector string, input []cairo.Felt) ([]cairo.Felt, bool, error) {
	l.log.Debugf("cheatcode %s, %d input felts, depth %d", selector, len(input), ctx.Trace.Depth())
	return nil, false, nil
}

func (l *Logger) OverrideSyscall(ctx *execution.Context, call chain.Syscall) (chain.SyscallResult, bool, error) {
	l.log.Debugf("syscall %v, %d input felts, depth %d", call.Selector, len(call.Input), ctx.Trace.Depth())
	return chain.SyscallResult{}, false, nil
}

func (l *Logger) HandleCheatcodeSignal(_ *execution.Context, selector string, _ []cairo.Felt) {
	l.log.Debugf("cheatcode %s done", selector)
}

func (l *Logger) HandleSyscallSignal(_ *execution.Context, call chain.Syscall) {
	l.log.Debugf("syscall %v done", call.Selector)
}
