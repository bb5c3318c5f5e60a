// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package chain

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
)

type fixedProcessor struct {
	output []cairo.Felt
	result SyscallResult
	err    error
}

func (p *fixedProcessor) ExecuteCheatcode(ctx *log, selector string, _ []cairo.Felt) ([]cairo.Felt, error) {
	ctx.add("cheatcode:%s", selector)
	return p.output, p.err
}

func (p *fixedProcessor) ExecuteSyscall(ctx *log, call Syscall) (SyscallResult, error) {
	ctx.add("syscall:%s", call.Selector)
	return p.result, p.err
}

func (p *fixedProcessor) PropagateCheatcodeSignal(*log, string, []cairo.Felt) {}

func (p *fixedProcessor) PropagateSyscallSignal(*log, Syscall) {}

func newTestBoundary(t *testing.T, processor Processor[*log]) (*Boundary[*log], *log) {
	t.Helper()
	ctx := &log{}
	boundary, err := NewBoundary(processor, ctx, 4)
	if err != nil {
		t.Fatalf("failed to create boundary: %v", err)
	}
	return boundary, ctx
}

func TestBoundary_IsHintProcessor(t *testing.T) {
	var _ cairo.HintProcessor = &Boundary[*log]{}
}

func TestBoundary_CompileHint(t *testing.T) {
	boundary, _ := newTestBoundary(t, &fixedProcessor{})
	tests := map[string]cairo.HintKind{
		"cheatcode":   cairo.CheatcodeHint,
		" syscall\n":  cairo.SyscallHint,
		"syscall":     cairo.SyscallHint,
		" cheatcode ": cairo.CheatcodeHint,
	}
	for code, want := range tests {
		for i := 0; i < 2; i++ {
			hint, err := boundary.CompileHint(code)
			if err != nil {
				t.Fatalf("failed to compile %q: %v", code, err)
			}
			if hint.Kind != want {
				t.Errorf("unexpected hint for %q, wanted %v, got %v", code, want, hint.Kind)
			}
		}
	}
	if boundary.hints.Len() != 4 {
		t.Errorf("unexpected number of cached hints %d", boundary.hints.Len())
	}
}

func TestBoundary_CompileHintRejectsUnknownCode(t *testing.T) {
	boundary, _ := newTestBoundary(t, &fixedProcessor{})
	_, err := boundary.CompileHint("memory[ap] = 5")
	var hintErr *cairo.HintError
	if !errors.As(err, &hintErr) || hintErr.Kind != cairo.HintErrorMalformedInput {
		t.Errorf("unexpected error %v", err)
	}
}

func TestBoundary_ExecuteCheatcode(t *testing.T) {
	processor := &fixedProcessor{output: []cairo.Felt{cairo.NewFelt(5)}}
	boundary, ctx := newTestBoundary(t, processor)
	response, err := boundary.ExecuteHint(cairo.Hint{Kind: cairo.CheatcodeHint}, cairo.HintRequest{
		Selector: cairo.MustShortString("spy_events"),
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(response.Output) != 1 || response.Output[0] != cairo.NewFelt(5) || response.Failed {
		t.Errorf("unexpected response %v", response)
	}
	if len(ctx.entries) != 1 || ctx.entries[0] != "cheatcode:spy_events" {
		t.Errorf("unexpected operations %v", ctx.entries)
	}
}

func TestBoundary_ExecuteSyscall(t *testing.T) {
	processor := &fixedProcessor{result: SyscallResult{Output: []cairo.Felt{cairo.NewFelt(1)}, Failed: true}}
	boundary, ctx := newTestBoundary(t, processor)
	response, err := boundary.ExecuteHint(cairo.Hint{Kind: cairo.SyscallHint}, cairo.HintRequest{
		Selector: cairo.SyscallCallContract.Felt(),
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !response.Failed || len(response.Output) != 1 {
		t.Errorf("unexpected response %v", response)
	}
	if len(ctx.entries) != 1 || ctx.entries[0] != "syscall:CallContract" {
		t.Errorf("unexpected operations %v", ctx.entries)
	}
}

func TestBoundary_ErrorsAreDowngradedToHintErrors(t *testing.T) {
	tests := map[string]struct {
		hint     cairo.Hint
		selector cairo.Felt
		err      error
		want     cairo.HintErrorKind
	}{
		"selector not text": {
			hint:     cairo.Hint{Kind: cairo.CheatcodeHint},
			selector: cairo.NewFelt(1),
			want:     cairo.HintErrorMalformedInput,
		},
		"unknown syscall": {
			hint:     cairo.Hint{Kind: cairo.SyscallHint},
			selector: cairo.MustShortString("Selfdestruct"),
			want:     cairo.HintErrorMalformedInput,
		},
		"unknown cheatcode": {
			hint:     cairo.Hint{Kind: cairo.CheatcodeHint},
			selector: cairo.MustShortString("warp"),
			err:      errors.Wrap(cairo.ErrUnknownCheatcodeSelector, "warp"),
			want:     cairo.HintErrorUnknownCheatcode,
		},
		"state access": {
			hint:     cairo.Hint{Kind: cairo.SyscallHint},
			selector: cairo.SyscallGetClassHashAt.Felt(),
			err:      errors.Mark(errors.New("db closed"), cairo.ErrStateAccess),
			want:     cairo.HintErrorStateAccess,
		},
		"host fatal": {
			hint:     cairo.Hint{Kind: cairo.SyscallHint},
			selector: cairo.SyscallCallContract.Felt(),
			err:      errors.Wrap(cairo.ErrHostFatal, "broken"),
			want:     cairo.HintErrorHostFatal,
		},
		"outside taxonomy": {
			hint:     cairo.Hint{Kind: cairo.CheatcodeHint},
			selector: cairo.MustShortString("load"),
			err:      errors.New("something else"),
			want:     cairo.HintErrorUnknown,
		},
		"unsupported hint kind": {
			hint:     cairo.Hint{Kind: cairo.HintKind(42)},
			selector: cairo.MustShortString("load"),
			want:     cairo.HintErrorMalformedInput,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			boundary, _ := newTestBoundary(t, &fixedProcessor{err: test.err})
			_, err := boundary.ExecuteHint(test.hint, cairo.HintRequest{Selector: test.selector})
			hintErr, ok := err.(*cairo.HintError)
			if !ok {
				t.Fatalf("expected hint error, got %T: %v", err, err)
			}
			if hintErr.Kind != test.want {
				t.Errorf("unexpected error kind, wanted %v, got %v (%v)", test.want, hintErr.Kind, hintErr)
			}
		})
	}
}
