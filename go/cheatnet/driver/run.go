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
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dsnet/golib/unitconv"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet"
	cliUtils "github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/driver/cli"
	"github.com/foundry-rs/starknet-foundry-sub002/go/examples"
	"github.com/foundry-rs/starknet-foundry-sub002/go/logger"
	"github.com/urfave/cli/v2"
)

var RunCmd = cliUtils.AddCommonFlags(cli.Command{
	Action: doRun,
	Name:   "run",
	Usage:  "Runs examples on random arguments and compares their results with the reference",
	Flags: []cli.Flag{
		cliUtils.FilterFlag,
		cliUtils.JobsFlag,
		cliUtils.SeedFlag,
		cliUtils.RunsFlag,
		cliUtils.MaxArgumentFlag,
		cliUtils.LogLevelFlag,
		&cli.IntFlag{
			Name:  "max-errors",
			Usage: "aborts testing after the given number of issues",
			Value: -1,
		},
	},
})

func doRun(context *cli.Context) error {
	filter, err := cliUtils.FilterFlag.Fetch(context)
	if err != nil {
		return err
	}
	selected := filterExamples(examples.All(), filter)
	if len(selected) == 0 {
		return fmt.Errorf("no example matches %q", filter)
	}

	config := cheatnet.DefaultConfig()
	config.LogLevel = cliUtils.LogLevelFlag.Fetch(context)
	if err := config.Validate(); err != nil {
		return err
	}

	jobCount := cliUtils.JobsFlag.Fetch(context)
	seed := cliUtils.SeedFlag.Fetch(context)
	maxArgument := cliUtils.MaxArgumentFlag.Fetch(context)
	if maxArgument < 0 {
		return fmt.Errorf("invalid maximum argument %d", maxArgument)
	}
	maxErrors := context.Int("max-errors")
	if maxErrors <= 0 {
		maxErrors = math.MaxInt
	}

	issues := issuesCollector{}
	var totalSteps atomic.Uint64

	printProgress := func(relativeTime time.Duration, rate float64, current int64) {
		hours, minutes, seconds := logger.ParseTime(relativeTime)
		fmt.Printf(
			"[t=%2d:%02d:%02d] - Processing ~%s tests per second, total %d, steps %s, found issues %d\n",
			hours, minutes, seconds,
			unitconv.FormatPrefix(rate, unitconv.SI, 0), current,
			unitconv.FormatPrefix(float64(totalSteps.Load()), unitconv.SI, 1), issues.NumIssues(),
		)
	}

	opRun := func(c testCase) bool {
		steps, err := runCase(config, c)
		totalSteps.Add(steps)
		if err != nil {
			issues.AddIssue(c, err)
			fmt.Printf("Error: %v\n", err)
		}
		return issues.NumIssues() < maxErrors
	}

	fmt.Printf("Running %d examples with seed %d using %d jobs ...\n", len(selected), seed, jobCount)
	forEachCase(selected, cliUtils.RunsFlag.Fetch(context), maxArgument, opRun, printProgress, jobCount, seed)

	if issues.NumIssues() == 0 {
		fmt.Printf("All tests passed successfully!\n")
		return nil
	}
	for _, issue := range issues.GetIssues() {
		fmt.Printf("----------------------------\n")
		fmt.Printf("%s(%d): %v\n", issue.example, issue.argument, issue.err)
	}
	return fmt.Errorf("failed to pass %d test cases", issues.NumIssues())
}

// runCase runs a single example and checks its result against the reference.
func runCase(config cheatnet.Config, c testCase) (uint64, error) {
	got, err := c.example.RunOn(config, c.argument)
	if err != nil {
		return 0, err
	}
	if want := c.example.RunReference(c.argument); want != got.Result {
		return got.Steps, fmt.Errorf("incorrect result for %s(%d), wanted %d, got %d", c.example.Name, c.argument, want, got.Result)
	}
	return got.Steps, nil
}

type issue struct {
	example  string
	argument int
	err      error
}

type issuesCollector struct {
	issues []issue
	mu     sync.Mutex
}

func (c *issuesCollector) AddIssue(tc testCase, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issues = append(c.issues, issue{tc.example.Name, tc.argument, err})
}

func (c *issuesCollector) NumIssues() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.issues)
}

func (c *issuesCollector) GetIssues() []issue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issues
}
