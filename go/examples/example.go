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
	"fmt"

	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet"
	"github.com/foundry-rs/starknet-foundry-sub002/go/nativevm"
	"github.com/foundry-rs/starknet-foundry-sub002/go/state"
)

const (
	// TestFunction is the name of the entry point of every example test class.
	TestFunction = "test"
	// Interpreter is the registered name of the interpreter running examples.
	Interpreter = "native"
)

// Example is an executable description of a test with an (int)->int
// signature together with the contracts it interacts with.
type Example struct {
	exampleSpec
	classHash cairo.ClassHash // the hash of the test class
}

// exampleSpec specifies a test and the contracts deployed before it runs.
type exampleSpec struct {
	Name      string
	test      Function          // the test entry point, receiving the argument as single calldata felt
	contracts []deployment      // contracts deployed before the test runs
	classes   []*nativevm.Class // classes declared but not deployed
	reference func(int) int     // a reference function computing the same result
}

// Function is the signature of example test functions.
type Function = nativevm.Function

type deployment struct {
	address cairo.Address
	class   *nativevm.Class
}

func (s exampleSpec) build() Example {
	return Example{
		exampleSpec: s,
		classHash:   s.testClass().Hash(),
	}
}

func (s exampleSpec) testClass() *nativevm.Class {
	return &nativevm.Class{
		Name:      "test_" + s.Name,
		Functions: map[string]nativevm.Function{TestFunction: s.test},
	}
}

type Result struct {
	Result int
	Steps  uint64
}

// Execution is the full outcome of an example run.
type Execution struct {
	cheatnet.TestResult
	// Diff lists the state changes made by the test.
	Diff state.Diff
}

// Execute runs the test of this example in a fresh run and returns the full
// outcome, including the call trace and the resulting state changes.
func (e *Example) Execute(config cheatnet.Config, argument int) (Execution, error) {
	classes := append([]*nativevm.Class{e.testClass()}, e.classes...)
	for _, contract := range e.contracts {
		classes = append(classes, contract.class)
	}
	interpreter, err := cairo.NewInterpreter(Interpreter, classes)
	if err != nil {
		return Execution{}, err
	}

	reader := state.NewDictStateReader()
	for _, class := range classes {
		reader.Declare(class.Compile())
	}
	for _, contract := range e.contracts {
		reader.Deploy(contract.address, contract.class.Hash())
	}

	cached, err := state.NewCachedReader(reader, readerCacheSize)
	if err != nil {
		return Execution{}, err
	}
	writable := state.NewCachedState(cached)
	run, err := cheatnet.NewRun(config, writable, interpreter)
	if err != nil {
		return Execution{}, err
	}
	res, err := run.CallTest(e.classHash, cairo.SelectorFromName(TestFunction), []cairo.Felt{cairo.NewFelt(uint64(argument))})
	if err != nil {
		return Execution{}, err
	}
	return Execution{TestResult: res, Diff: writable.Diff()}, nil
}

// RunOn runs this example using the given configuration and argument.
func (e *Example) RunOn(config cheatnet.Config, argument int) (Result, error) {
	res, err := e.Execute(config, argument)
	if err != nil {
		return Result{}, err
	}
	if res.Err != nil {
		return Result{}, res.Err
	}
	if !res.Success {
		return Result{}, fmt.Errorf("test reverted: %v", res.Retdata)
	}

	result, err := decodeOutput(res.Retdata)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Result: result,
		Steps:  res.Resources.Steps,
	}, nil
}

// RunReference runs the reference function of this example to produce the expected result.
func (e *Example) RunReference(argument int) int {
	return e.reference(argument)
}

func decodeOutput(output []cairo.Felt) (int, error) {
	if len(output) != 1 {
		return 0, fmt.Errorf("unexpected length of output; wanted 1, got %d", len(output))
	}
	value, ok := output[0].Uint64()
	if !ok || value > uint64(maxResult) {
		return 0, fmt.Errorf("output %v out of range", output[0])
	}
	return int(value), nil
}

const maxResult = 1<<31 - 1

// readerCacheSize bounds the read cache placed in front of the example state.
const readerCacheSize = 256

// argument decodes the single argument passed to example tests.
func argument(rt *nativevm.Runtime) (uint64, error) {
	calldata := rt.Calldata()
	if len(calldata) != 1 {
		return 0, nativevm.RevertWith("INVALID_ARGUMENT")
	}
	value, ok := calldata[0].Uint64()
	if !ok {
		return 0, nativevm.RevertWith("INVALID_ARGUMENT")
	}
	return value, nil
}

// All lists all examples.
func All() []Example {
	return []Example{
		GetStaticOverheadExample(),
		GetStepBurnerExample(),
		GetArithmeticExample(),
		GetSha3Example(),
		GetFibExample(),
		GetBlockNumberExample(),
		GetSpyExample(),
		GetMockExample(),
		GetLibraryCallExample(),
		GetDeployExample(),
	}
}

// Get looks up an example by its name.
func Get(name string) (Example, bool) {
	for _, example := range All() {
		if example.Name == name {
			return example, true
		}
	}
	return Example{}, false
}
