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
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slices"
)

func echoClass() *Class {
	return &Class{
		Name: "echo",
		Functions: map[string]Function{
			"echo": func(rt *Runtime) ([]cairo.Felt, error) {
				rt.Step(3)
				return rt.Calldata(), nil
			},
			"fail": func(rt *Runtime) ([]cairo.Felt, error) {
				return nil, RevertWith("FAILED")
			},
			"broken": func(rt *Runtime) ([]cairo.Felt, error) {
				return nil, cairo.ErrHostFatal
			},
		},
		L1Handlers: map[string]Function{
			"handle": func(rt *Runtime) ([]cairo.Felt, error) {
				return nil, nil
			},
		},
	}
}

func call(class cairo.CompiledClass, name string, calldata ...cairo.Felt) cairo.Parameters {
	return cairo.Parameters{
		Class: class,
		Entry: cairo.CallEntryPoint{
			Type:     cairo.EntryPointExternal,
			Selector: cairo.SelectorFromName(name),
			Calldata: calldata,
		},
	}
}

func TestInterpreter_IsRegisteredAsNative(t *testing.T) {
	interpreter, err := cairo.NewInterpreter("native")
	if err != nil {
		t.Fatalf("failed to create interpreter: %v", err)
	}
	if _, ok := interpreter.(*Interpreter); !ok {
		t.Errorf("unexpected interpreter type %T", interpreter)
	}

	class := echoClass()
	interpreter, err = cairo.NewInterpreter("native", []*Class{class})
	if err != nil {
		t.Fatalf("failed to create interpreter: %v", err)
	}
	res, err := interpreter.Run(call(class.Compile(), "echo", cairo.NewFelt(7)))
	if err != nil || !res.Success {
		t.Fatalf("failed to run registered class: %v, %v", res, err)
	}

	if _, err := cairo.NewInterpreter("native", 12); err == nil {
		t.Errorf("invalid configuration should be rejected")
	}
}

func TestClass_CompileListsAllEntryPoints(t *testing.T) {
	class := echoClass()
	class.Constructor = func(rt *Runtime) ([]cairo.Felt, error) { return nil, nil }
	compiled := class.Compile()

	for _, name := range []string{"echo", "fail", "broken"} {
		if !compiled.HasEntryPoint(cairo.EntryPointExternal, cairo.SelectorFromName(name)) {
			t.Errorf("missing entry point %s", name)
		}
	}
	if !compiled.HasEntryPoint(cairo.EntryPointL1Handler, cairo.SelectorFromName("handle")) {
		t.Errorf("missing l1 handler")
	}
	if compiled.HasEntryPoint(cairo.EntryPointExternal, cairo.SelectorFromName("handle")) {
		t.Errorf("l1 handler must not be external")
	}
	if _, found := compiled.Constructor(); !found {
		t.Errorf("missing constructor")
	}
	if want, got := class.Hash(), compiled.Hash; want != got {
		t.Errorf("unexpected class hash, wanted %v, got %v", want, got)
	}
}

func TestClass_HashDependsOnEntryPoints(t *testing.T) {
	a := echoClass()
	b := echoClass()
	if a.Hash() != b.Hash() {
		t.Errorf("equal classes should have equal hashes")
	}
	b.Functions["other"] = a.Functions["echo"]
	if a.Hash() == b.Hash() {
		t.Errorf("classes with different entry points should differ")
	}
	b = echoClass()
	b.Constructor = a.Functions["echo"]
	if a.Hash() == b.Hash() {
		t.Errorf("constructor should be part of the hash")
	}
	if !cairo.Felt(a.Hash()).IsValid() {
		t.Errorf("class hash %v is not a valid felt", a.Hash())
	}
}

func TestInterpreter_RunReturnsRetdataAndResources(t *testing.T) {
	interpreter := NewInterpreter()
	compiled := interpreter.Register(echoClass())

	params := call(compiled, "echo", cairo.NewFelt(1), cairo.NewFelt(2))
	params.TraceSteps = true
	res, err := interpreter.Run(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success {
		t.Errorf("execution should succeed")
	}
	if want := []cairo.Felt{cairo.NewFelt(1), cairo.NewFelt(2)}; !slices.Equal(want, res.Retdata) {
		t.Errorf("unexpected retdata, wanted %v, got %v", want, res.Retdata)
	}
	if want, got := uint64(entryCost+3), res.Resources.Steps; want != got {
		t.Errorf("unexpected steps, wanted %d, got %d", want, got)
	}
	if want, got := 2, len(res.Trace); want != got {
		t.Errorf("unexpected step trace length, wanted %d, got %d", want, got)
	}
}

func TestInterpreter_RevertIsNotAnError(t *testing.T) {
	interpreter := NewInterpreter()
	compiled := interpreter.Register(echoClass())

	res, err := interpreter.Run(call(compiled, "fail"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success {
		t.Errorf("execution should revert")
	}
	if want := []cairo.Felt{cairo.MustShortString("FAILED")}; !slices.Equal(want, res.Retdata) {
		t.Errorf("unexpected revert data, wanted %v, got %v", want, res.Retdata)
	}
}

func TestInterpreter_ErrorsAreForwarded(t *testing.T) {
	interpreter := NewInterpreter()
	compiled := interpreter.Register(echoClass())

	if _, err := interpreter.Run(call(compiled, "broken")); !errors.Is(err, cairo.ErrHostFatal) {
		t.Errorf("unexpected error %v", err)
	}
	if _, err := interpreter.Run(call(compiled, "missing")); !errors.Is(err, cairo.ErrHostFatal) {
		t.Errorf("unknown entry point should be fatal, got %v", err)
	}
	if _, err := interpreter.Run(call(cairo.CompiledClass{}, "echo")); !errors.Is(err, cairo.ErrHostFatal) {
		t.Errorf("unknown class should be fatal, got %v", err)
	}
}

func TestRuntime_SyscallsAreIssuedAsHints(t *testing.T) {
	ctrl := gomock.NewController(t)
	hints := cairo.NewMockHintProcessor(ctrl)

	syscall := cairo.Hint{Kind: cairo.SyscallHint}
	hints.EXPECT().CompileHint("syscall").Return(syscall, nil).Times(1)
	gomock.InOrder(
		hints.EXPECT().ExecuteHint(syscall, cairo.HintRequest{
			Selector: cairo.SyscallGetBlockNumber.Felt(),
		}).Return(cairo.HintResponse{Output: []cairo.Felt{cairo.NewFelt(123)}}, nil),
		hints.EXPECT().ExecuteHint(syscall, cairo.HintRequest{
			Selector: cairo.SyscallStorageWrite.Felt(),
			Inputs:   []cairo.Felt{cairo.NewFelt(1), cairo.NewFelt(123)},
		}).Return(cairo.HintResponse{}, nil),
	)

	class := &Class{
		Name: "writer",
		Functions: map[string]Function{
			"run": func(rt *Runtime) ([]cairo.Felt, error) {
				number, err := rt.GetBlockNumber()
				if err != nil {
					return nil, err
				}
				if err := rt.StorageWrite(cairo.StorageKey(cairo.NewFelt(1)), cairo.NewFelt(number)); err != nil {
					return nil, err
				}
				return []cairo.Felt{cairo.NewFelt(number)}, nil
			},
		},
	}
	interpreter := NewInterpreter()
	params := call(interpreter.Register(class), "run")
	params.Hints = hints
	res, err := interpreter.Run(params)
	if err != nil || !res.Success {
		t.Fatalf("unexpected result %v, %v", res, err)
	}
	if want, got := uint64(2), res.Resources.Builtins[rangeCheckBuiltin]; want != got {
		t.Errorf("unexpected range checks, wanted %d, got %d", want, got)
	}
	if want, got := uint64(entryCost+2*syscallCost), res.Resources.Steps; want != got {
		t.Errorf("unexpected steps, wanted %d, got %d", want, got)
	}
}

func TestRuntime_FailedSyscallRevertsWithReason(t *testing.T) {
	ctrl := gomock.NewController(t)
	hints := cairo.NewMockHintProcessor(ctrl)

	reason := cairo.MustShortString("CONTRACT_NOT_DEPLOYED")
	hints.EXPECT().CompileHint("syscall").Return(cairo.Hint{Kind: cairo.SyscallHint}, nil)
	hints.EXPECT().ExecuteHint(gomock.Any(), gomock.Any()).
		Return(cairo.HintResponse{Output: []cairo.Felt{reason}, Failed: true}, nil).Times(2)

	class := &Class{
		Name: "caller",
		Functions: map[string]Function{
			"try": func(rt *Runtime) ([]cairo.Felt, error) {
				output, ok, err := rt.TryCallContract(cairo.Address(cairo.NewFelt(5)), cairo.SelectorFromName("x"))
				if err != nil {
					return nil, err
				}
				if ok {
					return nil, RevertWith("UNEXPECTED")
				}
				return output, nil
			},
			"must": func(rt *Runtime) ([]cairo.Felt, error) {
				return rt.CallContract(cairo.Address(cairo.NewFelt(5)), cairo.SelectorFromName("x"))
			},
		},
	}
	interpreter := NewInterpreter()
	compiled := interpreter.Register(class)

	params := call(compiled, "try")
	params.Hints = hints
	res, err := interpreter.Run(params)
	if err != nil || !res.Success || !slices.Equal(res.Retdata, []cairo.Felt{reason}) {
		t.Errorf("unexpected result of try: %v, %v", res, err)
	}

	params = call(compiled, "must")
	params.Hints = hints
	res, err = interpreter.Run(params)
	if err != nil || res.Success || !slices.Equal(res.Retdata, []cairo.Felt{reason}) {
		t.Errorf("unexpected result of must: %v, %v", res, err)
	}
}

func TestRuntime_HintErrorsAbortExecution(t *testing.T) {
	ctrl := gomock.NewController(t)
	hints := cairo.NewMockHintProcessor(ctrl)

	hintErr := &cairo.HintError{Kind: cairo.HintErrorUnknownCheatcode, Message: "warp"}
	hints.EXPECT().CompileHint("cheatcode").Return(cairo.Hint{Kind: cairo.CheatcodeHint}, nil)
	hints.EXPECT().ExecuteHint(cairo.Hint{Kind: cairo.CheatcodeHint}, cairo.HintRequest{
		Selector: cairo.MustShortString("warp"),
		Inputs:   []cairo.Felt{cairo.NewFelt(1)},
	}).Return(cairo.HintResponse{}, hintErr)

	class := &Class{
		Name: "cheater",
		Functions: map[string]Function{
			"run": func(rt *Runtime) ([]cairo.Felt, error) {
				return rt.Cheatcode("warp", cairo.NewFelt(1))
			},
		},
	}
	interpreter := NewInterpreter()
	params := call(interpreter.Register(class), "run")
	params.Hints = hints
	_, err := interpreter.Run(params)
	if !errors.Is(err, cairo.ErrUnknownCheatcodeSelector) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestRuntime_GetTxInfoDecodesOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	hints := cairo.NewMockHintProcessor(ctrl)

	info := cairo.TxInfo{
		Version:   cairo.NewFelt(1),
		Signature: []cairo.Felt{cairo.NewFelt(8), cairo.NewFelt(9)},
		Nonce:     cairo.NewFelt(4),
	}
	hints.EXPECT().CompileHint("syscall").Return(cairo.Hint{Kind: cairo.SyscallHint}, nil)
	hints.EXPECT().ExecuteHint(gomock.Any(), cairo.HintRequest{Selector: cairo.SyscallGetTxInfo.Felt()}).
		Return(cairo.HintResponse{Output: info.Encode()}, nil)

	var got cairo.TxInfo
	class := &Class{
		Name: "tx",
		Functions: map[string]Function{
			"run": func(rt *Runtime) ([]cairo.Felt, error) {
				var err error
				got, err = rt.GetTxInfo()
				return nil, err
			},
		},
	}
	interpreter := NewInterpreter()
	params := call(interpreter.Register(class), "run")
	params.Hints = hints
	if _, err := interpreter.Run(params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Nonce != info.Nonce || !slices.Equal(got.Signature, info.Signature) {
		t.Errorf("unexpected tx info, wanted %v, got %v", info, got)
	}
}
