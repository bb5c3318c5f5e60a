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
	"github.com/cockroachdb/errors"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	lru "github.com/hashicorp/golang-lru/v2"
)

var ErrUnknownSyscall = errors.Mark(errors.New("unknown syscall"), cairo.ErrMalformedCheatcodeInput)

const DefaultHintCacheSize = 128

// Boundary exposes a processor stack bound to a context as a
// cairo.HintProcessor. All errors crossing the boundary are converted into
// *cairo.HintError values.
type Boundary[C any] struct {
	processor Processor[C]
	ctx       C
	hints     *lru.Cache[string, cairo.Hint]
}

func NewBoundary[C any](processor Processor[C], ctx C, cacheSize int) (*Boundary[C], error) {
	if cacheSize <= 0 {
		cacheSize = DefaultHintCacheSize
	}
	cache, err := lru.New[string, cairo.Hint](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Boundary[C]{
		processor: processor,
		ctx:       ctx,
		hints:     cache,
	}, nil
}

func (b *Boundary[C]) CompileHint(code string) (cairo.Hint, error) {
	if hint, found := b.hints.Get(code); found {
		return hint, nil
	}
	hint, err := cairo.ParseHint(code)
	if err != nil {
		return cairo.Hint{}, cairo.ToHintError(errors.Mark(err, cairo.ErrMalformedCheatcodeInput))
	}
	b.hints.Add(code, hint)
	return hint, nil
}

func (b *Boundary[C]) ExecuteHint(hint cairo.Hint, request cairo.HintRequest) (cairo.HintResponse, error) {
	res, err := b.executeHint(hint, request)
	if err != nil {
		return cairo.HintResponse{}, cairo.ToHintError(err)
	}
	return res, nil
}

func (b *Boundary[C]) executeHint(hint cairo.Hint, request cairo.HintRequest) (cairo.HintResponse, error) {
	selector, err := request.Selector.ShortString()
	if err != nil {
		return cairo.HintResponse{}, errors.Mark(errors.Wrap(err, "invalid selector"), cairo.ErrMalformedCheatcodeInput)
	}
	switch hint.Kind {
	case cairo.CheatcodeHint:
		output, err := b.processor.ExecuteCheatcode(b.ctx, selector, request.Inputs)
		if err != nil {
			return cairo.HintResponse{}, errors.Wrapf(err, "cheatcode %s", selector)
		}
		return cairo.HintResponse{Output: output}, nil
	case cairo.SyscallHint:
		call := Syscall{Selector: cairo.SyscallSelector(selector), Input: request.Inputs}
		if !call.Selector.IsValid() {
			return cairo.HintResponse{}, errors.Wrapf(ErrUnknownSyscall, "%q", selector)
		}
		result, err := b.processor.ExecuteSyscall(b.ctx, call)
		if err != nil {
			return cairo.HintResponse{}, errors.Wrapf(err, "syscall %s", selector)
		}
		return cairo.HintResponse{Output: result.Output, Failed: result.Failed}, nil
	}
	return cairo.HintResponse{}, errors.Wrapf(cairo.ErrMalformedCheatcodeInput, "unsupported hint kind %v", hint.Kind)
}

// Context returns the context all operations of this boundary run with.
func (b *Boundary[C]) Context() C {
	return b.ctx
}
