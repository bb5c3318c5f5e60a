// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"bytes"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet"
	"github.com/foundry-rs/starknet-foundry-sub002/go/examples"
	"github.com/foundry-rs/starknet-foundry-sub002/go/state"
)

func TestFilterExamples_SelectsMatchingExamplesSorted(t *testing.T) {
	list := filterExamples(examples.All(), regexp.MustCompile("^(fib|sha3)$"))
	if len(list) != 2 {
		t.Fatalf("unexpected number of examples, wanted 2, got %d", len(list))
	}
	if list[0].Name != "fib" || list[1].Name != "sha3" {
		t.Errorf("unexpected examples %s, %s", list[0].Name, list[1].Name)
	}
	if want, got := len(examples.All()), len(filterExamples(examples.All(), regexp.MustCompile(""))); want != got {
		t.Errorf("empty filter should match all examples, wanted %d, got %d", want, got)
	}
}

func TestForEachCase_VisitsRequestedNumberOfCases(t *testing.T) {
	list := filterExamples(examples.All(), regexp.MustCompile("^(fib|sha3)$"))

	var mu sync.Mutex
	seen := map[string]int{}
	forEachCase(list, 5, 3, func(c testCase) bool {
		mu.Lock()
		defer mu.Unlock()
		if c.argument < 0 || c.argument > 3 {
			t.Errorf("argument out of range: %d", c.argument)
		}
		seen[c.example.Name]++
		return true
	}, func(time.Duration, float64, int64) {}, 2, 42)

	if seen["fib"] != 5 || seen["sha3"] != 5 {
		t.Errorf("unexpected number of cases, got %v", seen)
	}
}

func TestForEachCase_AbortStopsProcessing(t *testing.T) {
	list := filterExamples(examples.All(), regexp.MustCompile("fib"))

	var mu sync.Mutex
	count := 0
	forEachCase(list, 1000, 3, func(c testCase) bool {
		mu.Lock()
		defer mu.Unlock()
		count++
		return false
	}, func(time.Duration, float64, int64) {}, 1, 0)

	if count != 1 {
		t.Errorf("processing should stop after first abort, got %d cases", count)
	}
}

func TestRunCase_AcceptsCorrectResults(t *testing.T) {
	config := cheatnet.DefaultConfig()
	config.LogLevel = "ERROR"
	for _, example := range examples.All() {
		if _, err := runCase(config, testCase{example: example, argument: 4}); err != nil {
			t.Errorf("unexpected error for %s: %v", example.Name, err)
		}
	}
}

func TestPrintTrace_RendersCallTree(t *testing.T) {
	example, found := examples.Get("fib")
	if !found {
		t.Fatalf("fib example not found")
	}
	config := cheatnet.DefaultConfig()
	config.LogLevel = "ERROR"
	res, err := example.Execute(config, 2)
	if err != nil {
		t.Fatalf("failed to execute example: %v", err)
	}

	var out bytes.Buffer
	printTrace(&out, res.Trace)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if !strings.HasPrefix(lines[0], "test: success") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(out.String(), "\n  call ") {
		t.Errorf("nested call missing in trace:\n%s", out.String())
	}
}

func TestPrintDiff_ListsChangesOrderedByAddressAndKey(t *testing.T) {
	one := cairo.Address(cairo.NewFelt(1))
	two := cairo.Address(cairo.NewFelt(2))
	diff := state.Diff{
		Storage: map[cairo.Address]map[cairo.StorageKey]cairo.Felt{
			two: {
				cairo.StorageKey(cairo.NewFelt(5)): cairo.NewFelt(50),
				cairo.StorageKey(cairo.NewFelt(3)): cairo.NewFelt(30),
			},
		},
		ClassHashes: map[cairo.Address]cairo.ClassHash{
			one: cairo.ClassHash(cairo.NewFelt(7)),
		},
	}

	var out bytes.Buffer
	printDiff(&out, diff)
	want := "state changes:\n" +
		"  0x1\n" +
		"    class 0x7\n" +
		"  0x2\n" +
		"    0x3 = 0x1e\n" +
		"    0x5 = 0x32\n"
	if got := out.String(); got != want {
		t.Errorf("unexpected diff output, wanted\n%s\ngot\n%s", want, got)
	}
}

func TestPrintDiff_EmptyDiffPrintsNothing(t *testing.T) {
	var out bytes.Buffer
	printDiff(&out, state.Diff{})
	if out.Len() != 0 {
		t.Errorf("unexpected output for empty diff: %q", out.String())
	}
}

func TestPrintDiff_DeployedContractIsReported(t *testing.T) {
	example, found := examples.Get("deploy")
	if !found {
		t.Fatalf("deploy example not found")
	}
	config := cheatnet.DefaultConfig()
	config.LogLevel = "ERROR"
	res, err := example.Execute(config, 3)
	if err != nil {
		t.Fatalf("failed to execute example: %v", err)
	}
	if !res.Success {
		t.Fatalf("deploy example failed: %v", res.Err)
	}

	var out bytes.Buffer
	printDiff(&out, res.Diff)
	if !strings.HasPrefix(out.String(), "state changes:\n") {
		t.Errorf("missing state changes header:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "    class ") {
		t.Errorf("deployed class not listed:\n%s", out.String())
	}
}
