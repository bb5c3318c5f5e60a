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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/golib/unitconv"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet"
	cliUtils "github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/driver/cli"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/trace"
	"github.com/foundry-rs/starknet-foundry-sub002/go/examples"
	"github.com/foundry-rs/starknet-foundry-sub002/go/state"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var TraceCmd = cliUtils.AddCommonFlags(cli.Command{
	Action:    doTrace,
	Name:      "trace",
	Usage:     "Runs a single example and prints its call trace",
	ArgsUsage: "<example> <argument>",
	Flags: []cli.Flag{
		cliUtils.LogLevelFlag,
		cliUtils.StepTraceFlag,
		cliUtils.JsonFlag,
	},
})

func doTrace(context *cli.Context) error {
	if context.Args().Len() != 2 {
		return fmt.Errorf("expected an example name and an argument")
	}
	example, found := examples.Get(context.Args().Get(0))
	if !found {
		return fmt.Errorf("unknown example %q", context.Args().Get(0))
	}
	argument, err := strconv.Atoi(context.Args().Get(1))
	if err != nil || argument < 0 {
		return fmt.Errorf("invalid argument %q", context.Args().Get(1))
	}

	config := cheatnet.DefaultConfig()
	config.LogLevel = cliUtils.LogLevelFlag.Fetch(context)
	config.CollectStepTrace = cliUtils.StepTraceFlag.Fetch(context)
	res, err := example.Execute(config, argument)
	if err != nil {
		return err
	}

	if cliUtils.JsonFlag.Fetch(context) {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(res.Trace)
	}
	printTrace(os.Stdout, res.Trace)
	printDiff(os.Stdout, res.Diff)
	if res.Err != nil {
		return fmt.Errorf("test aborted: %w", res.Err)
	}
	if !res.Success {
		return fmt.Errorf("test reverted: %v", res.Retdata)
	}
	return nil
}

// printTrace writes a human readable rendering of the call tree.
func printTrace(out io.Writer, calls *trace.CallTrace) {
	calls.Walk(func(id trace.NodeID, node *trace.Node, depth int) {
		indent := strings.Repeat("  ", depth)
		label := "test"
		if id != trace.RootID {
			label = fmt.Sprintf("%v %v.%v", node.Entry.Kind, node.Entry.StorageAddress, node.Entry.Selector)
		}
		if node.Mocked {
			label += " (mocked)"
		}
		fmt.Fprintf(out, "%s%s: %v, steps %s\n",
			indent, label, node.Result.Status,
			unitconv.FormatPrefix(float64(node.Resources.Steps), unitconv.SI, 1),
		)
		for _, count := range node.SyscallCounts() {
			fmt.Fprintf(out, "%s  - %v x%d\n", indent, count.Selector, count.Count)
		}
		for _, child := range node.Children {
			if child.Kind == trace.ChildDeployWithoutConstructor {
				fmt.Fprintf(out, "%s  + deployed %v at %v\n", indent, child.ClassHash, child.Address)
			}
		}
	})
}

// printDiff writes the state changes of a run ordered by address and key.
func printDiff(out io.Writer, diff state.Diff) {
	addresses := maps.Keys(diff.ClassHashes)
	for address := range diff.Storage {
		if _, found := diff.ClassHashes[address]; !found {
			addresses = append(addresses, address)
		}
	}
	if len(addresses) == 0 {
		return
	}
	slices.SortFunc(addresses, func(a, b cairo.Address) int { return strings.Compare(a.String(), b.String()) })

	fmt.Fprintf(out, "state changes:\n")
	for _, address := range addresses {
		fmt.Fprintf(out, "  %v\n", address)
		if hash, found := diff.ClassHashes[address]; found {
			fmt.Fprintf(out, "    class %v\n", hash)
		}
		storage := diff.Storage[address]
		keys := maps.Keys(storage)
		slices.SortFunc(keys, func(a, b cairo.StorageKey) int { return strings.Compare(a.String(), b.String()) })
		for _, key := range keys {
			fmt.Fprintf(out, "    %v = %v\n", key, storage[key])
		}
	}
}
