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
	"os"
	"runtime/pprof"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

var cpuProfileFlag = &cli.StringFlag{
	Name:      "cpuprofile",
	Usage:     "store CPU profile in the provided filename",
	TakesFile: true,
}

var memProfileFlag = &cli.StringFlag{
	Name:      "memprofile",
	Usage:     "store a heap profile taken after the command in the provided filename",
	TakesFile: true,
}

// AddCommonFlags adds the profiling flags to a command running examples and
// wraps its action to collect the requested profiles.
func AddCommonFlags(command cli.Command) cli.Command {
	command.Flags = append(command.Flags, cpuProfileFlag, memProfileFlag)

	action := command.Action
	command.Action = func(ctx *cli.Context) (err error) {
		if filename := ctx.String(cpuProfileFlag.Name); filename != "" {
			stop, err := startCpuProfile(filename)
			if err != nil {
				return err
			}
			defer stop()
		}
		if filename := ctx.String(memProfileFlag.Name); filename != "" {
			defer func() {
				err = errors.CombineErrors(err, writeHeapProfile(filename))
			}()
		}
		return action(ctx)
	}
	return command
}

func startCpuProfile(filename string) (func(), error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, errors.Wrap(err, "could not create CPU profile")
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "could not start CPU profile")
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

func writeHeapProfile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "could not create heap profile")
	}
	defer f.Close()
	return errors.Wrap(pprof.WriteHeapProfile(f), "could not write heap profile")
}
