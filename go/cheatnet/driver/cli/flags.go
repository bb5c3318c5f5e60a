// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cliUtils

import (
	"regexp"
	"runtime"

	"github.com/urfave/cli/v2"
)

type filterFlagType struct {
	cli.StringFlag
}

var FilterFlag = &filterFlagType{
	cli.StringFlag{
		Name:    "filter",
		Aliases: []string{"f"},
		Usage:   "use only examples which name matches the given regex",
		Value:   "",
	},
}

func (f *filterFlagType) Fetch(context *cli.Context) (*regexp.Regexp, error) {
	return regexp.Compile(context.String(f.Name))
}

type jobsFlagType struct {
	cli.IntFlag
}

var JobsFlag = &jobsFlagType{
	cli.IntFlag{
		Name:    "jobs",
		Aliases: []string{"j"},
		Usage:   "number of jobs run simultaneously",
		Value:   runtime.NumCPU(),
	},
}

func (f *jobsFlagType) Fetch(context *cli.Context) int {
	if jobs := context.Int(f.Name); jobs > 0 {
		return jobs
	}
	return runtime.NumCPU()
}

type seedFlagType struct {
	cli.Uint64Flag
}

var SeedFlag = &seedFlagType{
	cli.Uint64Flag{
		Name:    "seed",
		Aliases: []string{"s"},
		Usage:   "seed for the random number generator",
	},
}

func (f *seedFlagType) Fetch(context *cli.Context) uint64 {
	return context.Uint64(f.Name)
}

type runsFlagType struct {
	cli.IntFlag
}

var RunsFlag = &runsFlagType{
	cli.IntFlag{
		Name:    "runs",
		Aliases: []string{"n"},
		Usage:   "number of runs per example",
		Value:   100,
	},
}

func (f *runsFlagType) Fetch(context *cli.Context) int {
	return context.Int(f.Name)
}

type maxArgumentFlagType struct {
	cli.IntFlag
}

var MaxArgumentFlag = &maxArgumentFlagType{
	cli.IntFlag{
		Name:  "max-argument",
		Usage: "largest argument passed to example tests",
		Value: 16,
	},
}

func (f *maxArgumentFlagType) Fetch(context *cli.Context) int {
	return context.Int(f.Name)
}

type logLevelFlagType struct {
	cli.StringFlag
}

var LogLevelFlag = &logLevelFlagType{
	cli.StringFlag{
		Name:    "log-level",
		Aliases: []string{"l"},
		Usage:   "level of the cheatnet logger (CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG)",
		Value:   "WARNING",
	},
}

func (f *logLevelFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type stepTraceFlagType struct {
	cli.BoolFlag
}

var StepTraceFlag = &stepTraceFlagType{
	cli.BoolFlag{
		Name:  "step-trace",
		Usage: "if enabled, the interpreter step trace of every call is collected",
	},
}

func (f *stepTraceFlagType) Fetch(context *cli.Context) bool {
	return context.Bool(f.Name)
}

type jsonFlagType struct {
	cli.BoolFlag
}

var JsonFlag = &jsonFlagType{
	cli.BoolFlag{
		Name:  "json",
		Usage: "print the call trace in JSON format",
	},
}

func (f *jsonFlagType) Fetch(context *cli.Context) bool {
	return context.Bool(f.Name)
}
