// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package execution hosts the state of a single run and the dispatch of
// contract calls. Cheat snapshots are resolved and the call trace is updated
// around every call executed by the interpreter.
package execution

import (
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/cheats"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/trace"
	"github.com/foundry-rs/starknet-foundry-sub002/go/logger"
)

// MaxCallDepth limits the nesting of contract calls. Deeper calls revert.
const MaxCallDepth = 100

// Context is the mutable state of one run. It is passed explicitly through
// the processor chain and must not be shared between runs.
type Context struct {
	State       cairo.State
	Cheats      *cheats.State
	Trace       *trace.CallTrace
	Interpreter cairo.Interpreter
	// Hints is handed to the interpreter for every call. It is usually the
	// boundary of the processor chain operating on this context.
	Hints cairo.HintProcessor

	Block      cairo.BlockInfo
	Tx         cairo.TxInfo
	TraceSteps bool
	Log        logger.Logger

	// resources consumed by all calls completed so far
	resources cairo.Resources
}

type ContextParams struct {
	State       cairo.State
	Interpreter cairo.Interpreter
	Block       cairo.BlockInfo
	Tx          cairo.TxInfo
	TraceSteps  bool
	Log         logger.Logger
	// Test is the entry point of the test, represented by the root of the
	// call trace.
	Test cairo.CallEntryPoint
}

func NewContext(params ContextParams) *Context {
	log := params.Log
	if log == nil {
		log = logger.NewLogger("INFO", "cheatnet")
	}
	state := cheats.NewState()
	return &Context{
		State:       params.State,
		Cheats:      state,
		Trace:       trace.New(params.Test, &state.Spies),
		Interpreter: params.Interpreter,
		Block:       params.Block,
		Tx:          params.Tx,
		TraceSteps:  params.TraceSteps,
		Log:         log,
	}
}

// Resources returns the resources consumed by all completed calls.
func (c *Context) Resources() cairo.Resources {
	return c.resources.Clone()
}

// AddResources accounts for resources consumed outside of nested calls, for
// instance by the test entry point itself.
func (c *Context) AddResources(resources cairo.Resources) {
	c.resources = c.resources.Add(resources)
}

// CurrentEntry is the entry point of the currently active call.
func (c *Context) CurrentEntry() cairo.CallEntryPoint {
	return c.Trace.Node(c.Trace.Top().Node).Entry
}

// CurrentSnapshot is the cheat snapshot the active call observes. The root
// has no snapshot of its own; its cheats are resolved on every read without
// consuming any spans.
func (c *Context) CurrentSnapshot() cheats.Snapshot {
	if snapshot := c.Trace.Top().Snapshot; snapshot != nil {
		return *snapshot
	}
	return c.Cheats.Resolve(c.CurrentEntry().StorageAddress)
}
