// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package examples

import (
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/nativevm"
)

var (
	readerAddress  = cairo.Address(cairo.MustShortString("reader"))
	emitterAddress = cairo.Address(cairo.MustShortString("emitter"))
	proxyAddress   = cairo.Address(cairo.MustShortString("proxy"))

	firstEvent = cairo.MustShortString("FirstEvent")
	valueKey   = cairo.StorageKey(cairo.MustShortString("value"))
)

func felt(value uint64) cairo.Felt {
	return cairo.NewFelt(value)
}

func selector(name string) cairo.Felt {
	return cairo.Felt(cairo.SelectorFromName(name))
}

// readerClass reports the environment it observes.
func readerClass() *nativevm.Class {
	return &nativevm.Class{
		Name: "reader",
		Functions: map[string]nativevm.Function{
			"get_block_number": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
				number, err := rt.GetBlockNumber()
				return []cairo.Felt{felt(number)}, err
			},
			"get_caller_address": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
				caller, err := rt.GetCallerAddress()
				return []cairo.Felt{cairo.Felt(caller)}, err
			},
			"store_block_number": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
				number, err := rt.GetBlockNumber()
				if err != nil {
					return nil, err
				}
				if err := rt.StorageWrite(valueKey, felt(number)); err != nil {
					return nil, err
				}
				return []cairo.Felt{felt(number)}, nil
			},
		},
	}
}

// emitterClass emits a requested number of events.
func emitterClass() *nativevm.Class {
	return &nativevm.Class{
		Name: "emitter",
		Functions: map[string]nativevm.Function{
			"emit": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
				n, err := argument(rt)
				if err != nil {
					return nil, err
				}
				for i := uint64(0); i < n; i++ {
					if err := rt.EmitEvent([]cairo.Felt{firstEvent}, []cairo.Felt{felt(i)}); err != nil {
						return nil, err
					}
				}
				return nil, nil
			},
		},
	}
}

// proxyClass forwards calls to the given class using library calls.
func proxyClass(target cairo.ClassHash) *nativevm.Class {
	return &nativevm.Class{
		Name: "proxy",
		Functions: map[string]nativevm.Function{
			"delegate": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
				calldata := rt.Calldata()
				if len(calldata) == 0 {
					return nil, nativevm.RevertWith("MISSING_SELECTOR")
				}
				return rt.LibraryCall(target, cairo.Selector(calldata[0]), calldata[1:]...)
			},
			"caller": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
				caller, err := rt.GetCallerAddress()
				return []cairo.Felt{cairo.Felt(caller)}, err
			},
		},
	}
}

// counterClass holds a counter initialized by its constructor.
func counterClass() *nativevm.Class {
	return &nativevm.Class{
		Name: "counter",
		Constructor: func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			initial, err := argument(rt)
			if err != nil {
				return nil, err
			}
			return nil, rt.StorageWrite(valueKey, felt(initial))
		},
		Functions: map[string]nativevm.Function{
			"increment": func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
				value, err := rt.StorageRead(valueKey)
				if err != nil {
					return nil, err
				}
				current, ok := value.Uint64()
				if !ok {
					return nil, nativevm.RevertWith("OVERFLOW")
				}
				if err := rt.StorageWrite(valueKey, felt(current+1)); err != nil {
					return nil, err
				}
				return []cairo.Felt{felt(current + 1)}, nil
			},
		},
	}
}

// GetBlockNumberExample cheats the block number of a contract for two calls
// and sums the block numbers observed by three successive calls.
func GetBlockNumberExample() Example {
	return exampleSpec{
		Name: "block_number",
		test: func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			n, err := argument(rt)
			if err != nil {
				return nil, err
			}
			if _, err := rt.Cheatcode("start_cheat_block_number", felt(1), cairo.Felt(readerAddress), felt(n), felt(2)); err != nil {
				return nil, err
			}
			var sum uint64
			for i := 0; i < 3; i++ {
				output, err := rt.CallContract(readerAddress, cairo.SelectorFromName("get_block_number"))
				if err != nil {
					return nil, err
				}
				number, err := cairo.NewFeltReader(output).Uint64()
				if err != nil {
					return nil, err
				}
				sum += number
			}
			return []cairo.Felt{felt(sum)}, nil
		},
		contracts: []deployment{{readerAddress, readerClass()}},
		reference: func(x int) int { return 2 * x },
	}.build()
}

// GetSpyExample spies on all events, lets a contract emit x events and
// returns the number of fetched events. A second fetch must be empty.
func GetSpyExample() Example {
	return exampleSpec{
		Name: "spy",
		test: func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			n, err := argument(rt)
			if err != nil {
				return nil, err
			}
			id, err := rt.Cheatcode("spy_events", felt(0))
			if err != nil {
				return nil, err
			}
			if _, err := rt.CallContract(emitterAddress, cairo.SelectorFromName("emit"), felt(n)); err != nil {
				return nil, err
			}
			events, err := rt.Cheatcode("fetch_events", id...)
			if err != nil {
				return nil, err
			}
			count, err := checkEvents(events)
			if err != nil {
				return nil, err
			}
			again, err := rt.Cheatcode("fetch_events", id...)
			if err != nil {
				return nil, err
			}
			if len(again) != 1 || !again[0].IsZero() {
				return nil, nativevm.RevertWith("SPY_NOT_DRAINED")
			}
			return []cairo.Felt{felt(count)}, nil
		},
		contracts: []deployment{{emitterAddress, emitterClass()}},
		reference: func(x int) int { return x },
	}.build()
}

// checkEvents verifies that the serialized events are those produced by
// the emitter contract and returns their number.
func checkEvents(events []cairo.Felt) (uint64, error) {
	reader := cairo.NewFeltReader(events)
	count, err := reader.Uint64()
	if err != nil {
		return 0, err
	}
	for i := uint64(0); i < count; i++ {
		from, err := reader.Address()
		if err != nil {
			return 0, err
		}
		keys, err := reader.Array()
		if err != nil {
			return 0, err
		}
		data, err := reader.Array()
		if err != nil {
			return 0, err
		}
		if from != emitterAddress || len(keys) != 1 || keys[0] != firstEvent || len(data) != 1 || data[0] != felt(i) {
			return 0, nativevm.RevertWith("UNEXPECTED_EVENT")
		}
	}
	return count, reader.Finish()
}

// GetMockExample mocks a function writing storage and checks that the
// mocked data is returned without the write taking place.
func GetMockExample() Example {
	return exampleSpec{
		Name: "mock",
		test: func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			n, err := argument(rt)
			if err != nil {
				return nil, err
			}
			if _, err := rt.Cheatcode("mock_call", cairo.Felt(readerAddress), selector("store_block_number"), felt(1), felt(n)); err != nil {
				return nil, err
			}
			output, err := rt.CallContract(readerAddress, cairo.SelectorFromName("store_block_number"))
			if err != nil {
				return nil, err
			}
			stored, err := rt.Cheatcode("load", cairo.Felt(readerAddress), cairo.Felt(valueKey))
			if err != nil {
				return nil, err
			}
			if len(stored) != 1 || !stored[0].IsZero() {
				return nil, nativevm.RevertWith("MOCK_EXECUTED")
			}
			return output, nil
		},
		contracts: []deployment{{readerAddress, readerClass()}},
		reference: func(x int) int { return x },
	}.build()
}

// GetLibraryCallExample cheats the caller of a proxy and reads it through a
// library call into the reader class.
func GetLibraryCallExample() Example {
	reader := readerClass()
	return exampleSpec{
		Name: "library_call",
		test: func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			n, err := argument(rt)
			if err != nil {
				return nil, err
			}
			if _, err := rt.Cheatcode("cheat_caller_address", felt(1), cairo.Felt(proxyAddress), felt(n), felt(1), felt(2)); err != nil {
				return nil, err
			}
			direct, err := rt.CallContract(proxyAddress, cairo.SelectorFromName("caller"))
			if err != nil {
				return nil, err
			}
			delegated, err := rt.CallContract(proxyAddress, cairo.SelectorFromName("delegate"), selector("get_caller_address"))
			if err != nil {
				return nil, err
			}
			if len(direct) != 1 || len(delegated) != 1 || direct[0] != delegated[0] {
				return nil, nativevm.RevertWith("SNAPSHOT_MISMATCH")
			}
			return delegated, nil
		},
		contracts: []deployment{{proxyAddress, proxyClass(reader.Hash())}},
		classes:   []*nativevm.Class{reader},
		reference: func(x int) int { return x },
	}.build()
}

// GetDeployExample deploys a counter initialized with x and increments it.
func GetDeployExample() Example {
	counter := counterClass()
	return exampleSpec{
		Name: "deploy",
		test: func(rt *nativevm.Runtime) ([]cairo.Felt, error) {
			n, err := argument(rt)
			if err != nil {
				return nil, err
			}
			address, _, err := rt.Deploy(counter.Hash(), felt(n), []cairo.Felt{felt(n)}, false)
			if err != nil {
				return nil, err
			}
			hash, err := rt.Cheatcode("get_class_hash", cairo.Felt(address))
			if err != nil {
				return nil, err
			}
			if len(hash) != 1 || cairo.ClassHash(hash[0]) != counter.Hash() {
				return nil, nativevm.RevertWith("WRONG_CLASS")
			}
			return rt.CallContract(address, cairo.SelectorFromName("increment"))
		},
		classes:   []*nativevm.Class{counter},
		reference: func(x int) int { return x + 1 },
	}.build()
}
