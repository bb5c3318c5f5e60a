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
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet"
	cliUtils "github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/driver/cli"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/trace"
	"github.com/foundry-rs/starknet-foundry-sub002/go/examples"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
)

var StatsCmd = cliUtils.AddCommonFlags(cli.Command{
	Action: doStats,
	Name:   "stats",
	Usage:  "Computes statistics on the syscalls used by examples",
	Flags: []cli.Flag{
		cliUtils.FilterFlag,
		cliUtils.JobsFlag,
		cliUtils.SeedFlag,
		cliUtils.RunsFlag,
		cliUtils.MaxArgumentFlag,
	},
})

func doStats(context *cli.Context) error {

	filter, err := cliUtils.FilterFlag.Fetch(context)
	if err != nil {
		return err
	}

	config := cheatnet.DefaultConfig()
	config.LogLevel = "ERROR"
	collector := newStatsCollector()

	opStats := func(c testCase) bool {
		res, err := c.example.Execute(config, c.argument)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return true
		}
		collector.registerTrace(res.Trace)
		return true
	}

	selected := filterExamples(examples.All(), filter)
	forEachCase(
		selected,
		cliUtils.RunsFlag.Fetch(context),
		cliUtils.MaxArgumentFlag.Fetch(context),
		opStats,
		func(time.Duration, float64, int64) {},
		cliUtils.JobsFlag.Fetch(context),
		cliUtils.SeedFlag.Fetch(context),
	)

	fmt.Printf("%v", collector.getStatistics())
	return nil
}

type statsCollector struct {
	statistics syscallStatistics
	mu         sync.Mutex
}

func newStatsCollector() *statsCollector {
	stats := syscallStatistics{data: make(map[cairo.SyscallSelector]syscallInfo)}
	for _, selector := range cairo.GetAllSyscallSelectors() {
		stats.data[selector] = syscallInfo{} // initialize all syscalls with 0
	}
	return &statsCollector{statistics: stats}
}

func (c *statsCollector) registerTrace(calls *trace.CallTrace) {
	c.mu.Lock()
	defer c.mu.Unlock()
	calls.Walk(func(_ trace.NodeID, node *trace.Node, _ int) {
		for _, count := range node.SyscallCounts() {
			c.statistics.register(count.Selector, count.Count)
		}
		if node.Mocked {
			c.statistics.mockedCalls++
		}
	})
}

func (c *statsCollector) getStatistics() *syscallStatistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statistics.clone()
}

type syscallStatistics struct {
	data        map[cairo.SyscallSelector]syscallInfo
	mockedCalls uint64
}

func (s *syscallStatistics) register(selector cairo.SyscallSelector, count int) {
	if s.data == nil {
		s.data = make(map[cairo.SyscallSelector]syscallInfo)
	}
	stats := s.data[selector]
	stats.numCalls += uint64(count)
	s.data[selector] = stats
}

func (s *syscallStatistics) getNumCallsFor(selector cairo.SyscallSelector) uint64 {
	return s.data[selector].numCalls
}

func (s *syscallStatistics) clone() *syscallStatistics {
	return &syscallStatistics{maps.Clone(s.data), s.mockedCalls}
}

func (s *syscallStatistics) String() string {
	builder := strings.Builder{}

	selectors := maps.Keys(s.data)
	sort.Slice(selectors, func(i, j int) bool { return selectors[i] < selectors[j] })

	builder.WriteString("syscall,num_calls\n")
	for _, selector := range selectors {
		builder.WriteString(fmt.Sprintf("%s,%d\n", selector, s.data[selector].numCalls))
	}
	if s.mockedCalls > 0 {
		builder.WriteString(fmt.Sprintf("mocked calls: %d\n", s.mockedCalls))
	}
	return builder.String()
}

type syscallInfo struct {
	numCalls uint64
}
