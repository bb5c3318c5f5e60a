// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package cheatnet runs tests against contract classes with cheatcodes
// available. Every run owns its cheat state, call trace and spies.
package cheatnet

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/chain"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/cheatcodes"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/execution"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/trace"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/tracing"
	"github.com/foundry-rs/starknet-foundry-sub002/go/logger"
)

// ErrRunAlreadyUsed is returned if a run is asked to execute a second test.
const ErrRunAlreadyUsed = cairo.ConstError("run already used")

// Run executes a single test. Runs are independent of each other and may be
// executed concurrently as long as they do not share their state.
type Run struct {
	config   Config
	ctx      *execution.Context
	boundary *chain.Boundary[*execution.Context]
	used     bool
}

// TestResult summarizes the execution of a test entry point.
type TestResult struct {
	// Success is false if the test reverted or an error aborted it.
	Success bool
	Retdata []cairo.Felt
	// Err is set if the test was aborted by a malformed or unknown cheatcode,
	// a state access failure or a host defect.
	Err       error
	Trace     *trace.CallTrace
	Resources cairo.Resources
}

// NewProcessor composes the processor chain used by runs.
func NewProcessor(log logger.Logger) chain.Processor[*execution.Context] {
	return chain.Extend(
		chain.NewBase[*execution.Context](execution.SyscallHandler{}),
		cheatcodes.New(),
		tracing.NewSyscallCounter(),
		tracing.NewLogger(log),
	)
}

func NewRun(config Config, state cairo.State, interpreter cairo.Interpreter) (*Run, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	block := config.Block
	if block == nil {
		info, err := state.GetBlockInfo()
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "block info"), cairo.ErrStateAccess)
		}
		block = &info
	}
	log := logger.NewLogger(config.LogLevel, "cheatnet")
	ctx := execution.NewContext(execution.ContextParams{
		State:       state,
		Interpreter: interpreter,
		Block:       *block,
		Tx:          config.TxInfo,
		TraceSteps:  config.CollectStepTrace,
		Log:         log,
		Test: cairo.CallEntryPoint{
			Kind:           cairo.External,
			Type:           cairo.EntryPointExternal,
			StorageAddress: config.TestAddress,
		},
	})
	boundary, err := chain.NewBoundary(NewProcessor(log), ctx, config.HintCacheSize)
	if err != nil {
		return nil, err
	}
	ctx.Hints = boundary
	return &Run{config: config, ctx: ctx, boundary: boundary}, nil
}

// Context provides access to the state of the run, for instance to set up
// cheats before calling the test.
func (r *Run) Context() *execution.Context {
	return r.ctx
}

// CallTest deploys the test class at the test address and executes the
// given entry point as the root of the call trace.
func (r *Run) CallTest(class cairo.ClassHash, selector cairo.Selector, calldata []cairo.Felt) (res TestResult, err error) {
	if r.used {
		return TestResult{}, ErrRunAlreadyUsed
	}
	r.used = true

	res.Trace = r.ctx.Trace
	defer func() {
		if recovered := recover(); recovered != nil {
			res.Success = false
			res.Err = errors.Wrapf(cairo.ErrHostFatal, "%v", recovered)
			r.ctx.Log.Errorf("test aborted: %v", res.Err)
		}
	}()

	compiled, err := r.ctx.State.GetCompiledClass(class)
	if err != nil {
		return TestResult{}, errors.Mark(errors.Wrapf(err, "test class %v", class), cairo.ErrStateAccess)
	}
	if !compiled.HasEntryPoint(cairo.EntryPointExternal, selector) {
		return TestResult{}, fmt.Errorf("test class %v has no entry point %v", class, selector)
	}
	if err := r.ctx.State.SetClassHashAt(r.config.TestAddress, class); err != nil {
		return TestResult{}, errors.Mark(errors.Wrap(err, "deploy test contract"), cairo.ErrStateAccess)
	}

	root := r.ctx.Trace.Root()
	root.Entry.ClassHash = class
	root.Entry.Selector = selector
	root.Entry.Calldata = calldata

	result, runErr := r.ctx.Interpreter.Run(cairo.Parameters{
		Hints:      r.boundary,
		Entry:      root.Entry,
		Class:      compiled,
		TraceSteps: r.config.CollectStepTrace,
	})
	if runErr != nil {
		r.ctx.Trace.Finish(r.ctx.Resources(), trace.CallResult{Status: trace.StatusHostError, Error: runErr.Error()})
		res.Err = runErr
		res.Resources = r.ctx.Resources()
		return res, nil
	}
	if !r.ctx.Trace.IsBalanced() {
		return res, errors.Wrap(cairo.ErrHostFatal, "unbalanced call trace")
	}

	r.ctx.AddResources(result.Resources)
	status := trace.StatusSuccess
	if !result.Success {
		status = trace.StatusReverted
	}
	r.ctx.Trace.Finish(r.ctx.Resources(), trace.CallResult{Status: status, Retdata: result.Retdata})
	r.ctx.Trace.Root().StepTrace = result.Trace

	res.Success = result.Success
	res.Retdata = result.Retdata
	res.Resources = r.ctx.Resources()
	return res, nil
}
