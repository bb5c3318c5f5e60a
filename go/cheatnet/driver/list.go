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
	"fmt"
	"regexp"
	"sort"

	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	cliUtils "github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/driver/cli"
	"github.com/foundry-rs/starknet-foundry-sub002/go/examples"
	"github.com/urfave/cli/v2"
)

var ListCmd = cli.Command{
	Action: doList,
	Name:   "list",
	Usage:  "List all examples by name",
	Flags: []cli.Flag{
		cliUtils.FilterFlag,
		&cli.BoolFlag{
			Name:  "interpreters",
			Usage: "list the registered interpreters instead of the examples",
		},
	},
}

func doList(context *cli.Context) error {

	filter, err := cliUtils.FilterFlag.Fetch(context)
	if err != nil {
		return err
	}

	if context.Bool("interpreters") {
		for _, name := range cairo.RegisteredInterpreters() {
			if filter.MatchString(name) {
				fmt.Println(name)
			}
		}
		return nil
	}

	for _, example := range filterExamples(examples.All(), filter) {
		fmt.Println(example.Name)
	}
	return nil
}

// filterExamples returns the examples matching the given filter sorted by
// name.
func filterExamples(all []examples.Example, filter *regexp.Regexp) []examples.Example {
	res := make([]examples.Example, 0, len(all))
	for _, example := range all {
		if filter.MatchString(example.Name) {
			res = append(res, example)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}
