// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cheatnet

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/trace"
	"github.com/foundry-rs/starknet-foundry-sub002/go/nativevm"
	"github.com/foundry-rs/starknet-foundry-sub002/go/state"
	"golang.org/x/exp/slices"
)

var (
	contractA = cairo.Address(cairo.NewFelt(0xa))
	contractB = cairo.Address(cairo.NewFelt(0xb))

	firstEvent = cairo.MustShortString("FirstEvent")
	valueKey   = cairo.StorageKey(cairo.NewFelt(1))
)

func felt(value uint64) cairo.Felt {
	return cairo.NewFelt(value)
}

func selector(name string) cairo.Selector {
	return cairo.SelectorFromName(name)
}

// environment reports the environment observed by a contract.
var environment = &nativevm.Class{
	Name: "environment",
	Functions: map[string]nativevm.Function{
		"block_number": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			number, err := rt.GetBlockNumber()
			return []cairo.Felt{felt(number)}, err
		},
		"caller": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			caller, err := rt.GetCallerAddress()
			return []cairo.Felt{cairo.Felt(caller)}, err
		},
		"store": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			return nil, rt.StorageWrite(valueKey, felt(1))
		},
		"emit": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			return nil, rt.EmitEvent([]cairo.Felt{firstEvent}, []cairo.Felt{felt(123)})
		},
		"emit_and_fail": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			if err := rt.EmitEvent([]cairo.Felt{firstEvent}, []cairo.Felt{felt(456)}); err != nil {
				return nil, err
			}
			return nil, nativevm.RevertWith("FAILED")
		},
	},
}

// delegator runs functions of the environment class through library calls.
var delegator = &nativevm.Class{
	Name: "delegator",
	Functions: map[string]nativevm.Function{
		"caller": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			caller, err := rt.GetCallerAddress()
			return []cairo.Felt{cairo.Felt(caller)}, err
		},
		"delegate_caller": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			return rt.LibraryCall(environment.Hash(), selector("caller"))
		},
		"emit_and_fetch": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			if _, err := rt.CallContract(contractA, selector("emit")); err != nil {
				return nil, err
			}
			return rt.Cheatcode("fetch_events", rt.Calldata()...)
		},
	},
}

type testRun struct {
	*Run
	class cairo.ClassHash
	state *state.CachedState
}

// newTestRun prepares a run with contract A holding the environment class
// and contract B holding the delegator class.
func newTestRun(t *testing.T, test nativevm.Function) *testRun {
	t.Helper()
	reader := state.NewDictStateReader()
	reader.SetBlockInfo(cairo.BlockInfo{BlockNumber: 7})
	interpreter := nativevm.NewInterpreter()
	testClass := &nativevm.Class{Name: t.Name(), Functions: map[string]nativevm.Function{"test": test}}
	for _, class := range []*nativevm.Class{environment, delegator, testClass} {
		reader.Declare(interpreter.Register(class))
	}
	reader.Deploy(contractA, environment.Hash())
	reader.Deploy(contractB, delegator.Hash())

	cached := state.NewCachedState(reader)
	config := DefaultConfig()
	config.LogLevel = "WARNING"
	run, err := NewRun(config, cached, interpreter)
	if err != nil {
		t.Fatalf("failed to create run: %v", err)
	}
	return &testRun{Run: run, class: testClass.Hash(), state: cached}
}

func (r *testRun) callTest(t *testing.T) TestResult {
	t.Helper()
	res, err := r.CallTest(r.class, selector("test"), nil)
	if err != nil {
		t.Fatalf("failed to run test: %v", err)
	}
	return res
}

func callUint64(rt *nativevm.Runtime, address cairo.Address, function string) (uint64, error) {
	output, err := rt.CallContract(address, selector(function))
	if err != nil {
		return 0, err
	}
	return cairo.NewFeltReader(output).Uint64()
}

func TestRun_BlockNumberCheatExpiresAfterSpan(t *testing.T) {
	run := newTestRun(t, func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
		if _, err := rt.Cheatcode("start_cheat_block_number", felt(1), cairo.Felt(contractA), felt(123), felt(2)); err != nil {
			return nil, err
		}
		var res []cairo.Felt
		for i := 0; i < 3; i++ {
			number, err := callUint64(rt, contractA, "block_number")
			if err != nil {
				return nil, err
			}
			res = append(res, felt(number))
		}
		return res, nil
	})
	res := run.callTest(t)
	if !res.Success || res.Err != nil {
		t.Fatalf("test failed: %v, %v", res.Retdata, res.Err)
	}
	if want := []cairo.Felt{felt(123), felt(123), felt(7)}; !slices.Equal(want, res.Retdata) {
		t.Errorf("unexpected block numbers, wanted %v, got %v", want, res.Retdata)
	}
}

func TestRun_GlobalThenOnePrecedence(t *testing.T) {
	run := newTestRun(t, func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
		if _, err := rt.Cheatcode("start_cheat_block_number", felt(0), felt(100)); err != nil {
			return nil, err
		}
		if _, err := rt.Cheatcode("start_cheat_block_number", felt(1), cairo.Felt(contractA), felt(200)); err != nil {
			return nil, err
		}
		var res []cairo.Felt
		own, err := rt.GetBlockNumber()
		if err != nil {
			return nil, err
		}
		res = append(res, felt(own))
		number, err := callUint64(rt, contractA, "block_number")
		if err != nil {
			return nil, err
		}
		res = append(res, felt(number))

		if _, err := rt.Cheatcode("stop_cheat_block_number", felt(1), cairo.Felt(contractA)); err != nil {
			return nil, err
		}
		if number, err = callUint64(rt, contractA, "block_number"); err != nil {
			return nil, err
		}
		res = append(res, felt(number))
		if own, err = rt.GetBlockNumber(); err != nil {
			return nil, err
		}
		return append(res, felt(own)), nil
	})
	res := run.callTest(t)
	if !res.Success || res.Err != nil {
		t.Fatalf("test failed: %v, %v", res.Retdata, res.Err)
	}
	if want := []cairo.Felt{felt(100), felt(200), felt(7), felt(100)}; !slices.Equal(want, res.Retdata) {
		t.Errorf("unexpected block numbers, wanted %v, got %v", want, res.Retdata)
	}
}

func TestRun_SpyFetchesEventsExactlyOnce(t *testing.T) {
	var first, second []cairo.Felt
	run := newTestRun(t, func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
		id, err := rt.Cheatcode("spy_events", felt(0))
		if err != nil {
			return nil, err
		}
		if _, err := rt.CallContract(contractA, selector("emit")); err != nil {
			return nil, err
		}
		if first, err = rt.Cheatcode("fetch_events", id...); err != nil {
			return nil, err
		}
		second, err = rt.Cheatcode("fetch_events", id...)
		return nil, err
	})
	if res := run.callTest(t); !res.Success || res.Err != nil {
		t.Fatalf("test failed: %v, %v", res.Retdata, res.Err)
	}
	want := []cairo.Felt{felt(1), cairo.Felt(contractA), felt(1), firstEvent, felt(1), felt(123)}
	if !slices.Equal(want, first) {
		t.Errorf("unexpected first fetch, wanted %v, got %v", want, first)
	}
	if want := []cairo.Felt{felt(0)}; !slices.Equal(want, second) {
		t.Errorf("unexpected second fetch, wanted %v, got %v", want, second)
	}
}

func TestRun_NestedCallFetchesEventsOfReturnedSubCall(t *testing.T) {
	var rest []cairo.Felt
	run := newTestRun(t, func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
		id, err := rt.Cheatcode("spy_events", felt(0))
		if err != nil {
			return nil, err
		}
		fetched, err := rt.CallContract(contractB, selector("emit_and_fetch"), id...)
		if err != nil {
			return nil, err
		}
		rest, err = rt.Cheatcode("fetch_events", id...)
		return fetched, err
	})
	res := run.callTest(t)
	if !res.Success || res.Err != nil {
		t.Fatalf("test failed: %v, %v", res.Retdata, res.Err)
	}
	want := []cairo.Felt{felt(1), cairo.Felt(contractA), felt(1), firstEvent, felt(1), felt(123)}
	if !slices.Equal(want, res.Retdata) {
		t.Errorf("unexpected events in nested call, wanted %v, got %v", want, res.Retdata)
	}
	if want := []cairo.Felt{felt(0)}; !slices.Equal(want, rest) {
		t.Errorf("events should be fetched once, got %v", rest)
	}
}

func TestRun_EventsOfRevertedCallsAreNotSpied(t *testing.T) {
	var fetched []cairo.Felt
	run := newTestRun(t, func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
		id, err := rt.Cheatcode("spy_events", felt(1), cairo.Felt(contractA))
		if err != nil {
			return nil, err
		}
		if _, ok, err := rt.TryCallContract(contractA, selector("emit_and_fail")); err != nil || ok {
			return nil, nativevm.RevertWith("UNEXPECTED")
		}
		if err := rt.EmitEvent([]cairo.Felt{firstEvent}, nil); err != nil {
			return nil, err
		}
		fetched, err = rt.Cheatcode("fetch_events", id...)
		return nil, err
	})
	if res := run.callTest(t); !res.Success || res.Err != nil {
		t.Fatalf("test failed: %v, %v", res.Retdata, res.Err)
	}
	if want := []cairo.Felt{felt(0)}; !slices.Equal(want, fetched) {
		t.Errorf("unexpected events, wanted %v, got %v", want, fetched)
	}
}

func TestRun_LibraryCallObservesSnapshotOfCaller(t *testing.T) {
	cheated := cairo.Address(felt(0x1234))
	run := newTestRun(t, func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
		if _, err := rt.Cheatcode("start_cheat_caller_address", felt(1), cairo.Felt(contractB), cairo.Felt(cheated)); err != nil {
			return nil, err
		}
		direct, err := rt.CallContract(contractB, selector("caller"))
		if err != nil {
			return nil, err
		}
		delegated, err := rt.CallContract(contractB, selector("delegate_caller"))
		if err != nil {
			return nil, err
		}
		return append(direct, delegated...), nil
	})
	res := run.callTest(t)
	if !res.Success || res.Err != nil {
		t.Fatalf("test failed: %v, %v", res.Retdata, res.Err)
	}
	if want := []cairo.Felt{cairo.Felt(cheated), cairo.Felt(cheated)}; !slices.Equal(want, res.Retdata) {
		t.Errorf("unexpected callers, wanted %v, got %v", want, res.Retdata)
	}
}

func TestRun_MockedCallShortCircuits(t *testing.T) {
	run := newTestRun(t, func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
		if _, err := rt.Cheatcode("mock_call", cairo.Felt(contractA), cairo.Felt(selector("store")), felt(2), felt(8), felt(9)); err != nil {
			return nil, err
		}
		return rt.CallContract(contractA, selector("store"))
	})
	res := run.callTest(t)
	if !res.Success || res.Err != nil {
		t.Fatalf("test failed: %v, %v", res.Retdata, res.Err)
	}
	if want := []cairo.Felt{felt(8), felt(9)}; !slices.Equal(want, res.Retdata) {
		t.Errorf("unexpected retdata, wanted %v, got %v", want, res.Retdata)
	}
	stored, err := run.state.GetStorageAt(contractA, valueKey)
	if err != nil || !stored.IsZero() {
		t.Errorf("mocked call had side effects: %v, %v", stored, err)
	}

	children := res.Trace.Root().Children
	if len(children) != 1 {
		t.Fatalf("unexpected children of root: %v", children)
	}
	leaf := res.Trace.Node(children[0].Node)
	if !leaf.Mocked || !leaf.Resources.IsZero() || len(leaf.Children) != 0 {
		t.Errorf("unexpected mocked node %+v", leaf)
	}
}

func TestRun_TraceIsBalanced(t *testing.T) {
	run := newTestRun(t, func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
		if _, err := rt.CallContract(contractB, selector("delegate_caller")); err != nil {
			return nil, err
		}
		if _, _, err := rt.TryCallContract(contractA, selector("emit_and_fail")); err != nil {
			return nil, err
		}
		_, _, err := rt.TryCallContract(contractA, selector("missing"))
		return nil, err
	})
	res := run.callTest(t)
	if !res.Success || res.Err != nil {
		t.Fatalf("test failed: %v, %v", res.Retdata, res.Err)
	}
	if !res.Trace.IsBalanced() {
		t.Errorf("trace is not balanced")
	}
	if want, got := 4, res.Trace.Enters(); want != got {
		t.Errorf("unexpected number of enters, wanted %d, got %d", want, got)
	}
	if want, got := res.Trace.Enters()+1, res.Trace.Len(); want != got {
		t.Errorf("unexpected number of nodes, wanted %d, got %d", want, got)
	}
	if want, got := res.Resources, res.Trace.Root().Resources; want.Steps != got.Steps {
		t.Errorf("root should account for all resources, wanted %v, got %v", want, got)
	}
	if want, got := 3, res.Trace.Root().UsedSyscalls[cairo.SyscallCallContract]; want != got {
		t.Errorf("unexpected number of call syscalls, wanted %d, got %d", want, got)
	}
}

func TestRun_RevertingTestIsAFailureNotAnError(t *testing.T) {
	run := newTestRun(t, func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
		return nil, nativevm.RevertWith("ASSERTION_FAILED")
	})
	res := run.callTest(t)
	if res.Success || res.Err != nil {
		t.Errorf("unexpected result %v, %v", res.Success, res.Err)
	}
	if want := []cairo.Felt{cairo.MustShortString("ASSERTION_FAILED")}; !slices.Equal(want, res.Retdata) {
		t.Errorf("unexpected revert reason, wanted %v, got %v", want, res.Retdata)
	}
	if want, got := trace.StatusReverted, res.Trace.Root().Result.Status; want != got {
		t.Errorf("unexpected root status, wanted %v, got %v", want, got)
	}
}

func TestRun_CheatcodeErrorsAbortTest(t *testing.T) {
	tests := map[string]struct {
		test nativevm.Function
		want error
	}{
		"unknown cheatcode": {
			func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
				return rt.Cheatcode("roll", felt(1))
			},
			cairo.ErrUnknownCheatcodeSelector,
		},
		"malformed input": {
			func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
				return rt.Cheatcode("start_cheat_block_number", felt(5))
			},
			cairo.ErrMalformedCheatcodeInput,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			res := newTestRun(t, test.test).callTest(t)
			if res.Success || !errors.Is(res.Err, test.want) {
				t.Errorf("unexpected result %v, %v", res.Success, res.Err)
			}
			if want, got := trace.StatusHostError, res.Trace.Root().Result.Status; want != got {
				t.Errorf("unexpected root status, wanted %v, got %v", want, got)
			}
		})
	}
}

func TestRun_PanicsAreHostFatal(t *testing.T) {
	run := newTestRun(t, func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
		panic("boom")
	})
	res, err := run.CallTest(run.class, selector("test"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success || !errors.Is(res.Err, cairo.ErrHostFatal) {
		t.Errorf("unexpected result %v, %v", res.Success, res.Err)
	}
}

func TestRun_CanOnlyBeUsedOnce(t *testing.T) {
	run := newTestRun(t, func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
		return nil, nil
	})
	run.callTest(t)
	if _, err := run.CallTest(run.class, selector("test"), nil); !errors.Is(err, ErrRunAlreadyUsed) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestRun_UnknownTestEntryPointIsRejected(t *testing.T) {
	run := newTestRun(t, func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
		return nil, nil
	})
	if _, err := run.CallTest(run.class, selector("other"), nil); err == nil {
		t.Errorf("missing entry point should be rejected")
	}
	run = newTestRun(t, func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
		return nil, nil
	})
	if _, err := run.CallTest(cairo.ClassHash(felt(1)), selector("test"), nil); !errors.Is(err, cairo.ErrStateAccess) {
		t.Errorf("unexpected error for undeclared class: %v", err)
	}
}

func TestRun_TestContractIsDeployedAtTestAddress(t *testing.T) {
	var self cairo.Address
	run := newTestRun(t, func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
		var err error
		self, err = rt.GetContractAddress()
		return nil, err
	})
	run.callTest(t)
	if self != DefaultTestAddress {
		t.Errorf("unexpected test address %v", self)
	}
	hash, err := run.state.GetClassHashAt(DefaultTestAddress)
	if err != nil || hash != run.class {
		t.Errorf("unexpected class at test address %v, %v", hash, err)
	}
}
