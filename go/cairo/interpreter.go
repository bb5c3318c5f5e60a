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
	"fmt"
	"strings"
)

//go:generate mockgen -source interpreter.go -destination interpreter_mock.go -package cairo

// Interpreter is a component capable of executing compiled Cairo classes.
// Whenever the executed code reaches a hint, the interpreter hands it to the
// HintProcessor provided through the parameters. Nested contract calls are
// hints as well; thus, an interpreter never performs recursive calls itself.
type Interpreter interface {
	// Run executes the entry point described by the parameters. The error is
	// nil whenever the code was correctly executed, including executions
	// ending in a revert. A non-nil error signals a problem of the
	// interpreter or of the host, in which case the result is undefined.
	Run(Parameters) (Result, error)
}

// Parameters summarizes the input parameters required for executing an
// entry point.
type Parameters struct {
	Hints      HintProcessor
	Entry      CallEntryPoint
	Class      CompiledClass
	TraceSteps bool // < if set, the interpreter should report a step trace
}

// Result summarizes the result of an entry point execution.
type Result struct {
	Success   bool   // false if the execution ended in a revert, true otherwise
	Retdata   []Felt // the return data, or the revert reason on failure
	Resources Resources
	Trace     []StepEntry
}

// CompiledClass is the executable form of a declared class. The program is
// opaque to the host and only interpreted by an Interpreter.
type CompiledClass struct {
	Hash        ClassHash
	EntryPoints []EntryPoint
	Program     []byte
}

// EntryPoint lists a function exported by a compiled class.
type EntryPoint struct {
	Type     EntryPointType
	Selector Selector
	Offset   int
}

// HasEntryPoint reports whether the class exports the given entry point.
func (c *CompiledClass) HasEntryPoint(kind EntryPointType, selector Selector) bool {
	for _, entry := range c.EntryPoints {
		if entry.Type == kind && entry.Selector == selector {
			return true
		}
	}
	return false
}

// Constructor returns the selector of the constructor, if the class has one.
func (c *CompiledClass) Constructor() (Selector, bool) {
	for _, entry := range c.EntryPoints {
		if entry.Type == EntryPointConstructor {
			return entry.Selector, true
		}
	}
	return Selector{}, false
}

// HintProcessor is the interface offered by the host to an interpreter.
// Hints are compiled once per program location and executed whenever the
// interpreter reaches them.
type HintProcessor interface {
	CompileHint(code string) (Hint, error)
	// ExecuteHint runs the given hint. All errors returned are of type
	// *HintError.
	ExecuteHint(hint Hint, request HintRequest) (HintResponse, error)
}

// HintKind enumerates the hints understood by the host.
type HintKind int

const (
	CheatcodeHint HintKind = iota + 1
	SyscallHint
)

func (k HintKind) String() string {
	switch k {
	case CheatcodeHint:
		return "cheatcode"
	case SyscallHint:
		return "syscall"
	default:
		return fmt.Sprintf("HintKind(%d)", int(k))
	}
}

// Hint is the compiled form of a hint.
type Hint struct {
	Kind HintKind
}

// ParseHint compiles the source text of a hint.
func ParseHint(code string) (Hint, error) {
	switch strings.TrimSpace(code) {
	case "cheatcode":
		return Hint{Kind: CheatcodeHint}, nil
	case "syscall":
		return Hint{Kind: SyscallHint}, nil
	}
	return Hint{}, fmt.Errorf("unsupported hint code: %q", code)
}

// HintRequest carries the operands of a hint execution. The selector is a
// short string naming the cheatcode or syscall.
type HintRequest struct {
	Selector Felt
	Inputs   []Felt
}

// HintResponse is the outcome of a hint execution. Failed is set by
// syscalls failing in a way the calling contract may recover from, in
// which case Output holds the failure reason.
type HintResponse struct {
	Output []Felt
	Failed bool
}
