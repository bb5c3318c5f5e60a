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
	"sync"
	"sync/atomic"
	"time"

	"github.com/foundry-rs/starknet-foundry-sub002/go/examples"
	"pgregory.net/rand"
)

// testCase is a single execution of an example test.
type testCase struct {
	example  examples.Example
	argument int
}

// forEachCase runs the given operation on runs randomly chosen arguments in
// [0, maxArgument] per example, distributed on numJobs goroutines. Returning
// false from the operation aborts the enumeration.
func forEachCase(
	list []examples.Example,
	runs, maxArgument int,
	opFunction func(testCase) bool,
	printProgress func(relativeTime time.Duration, rate float64, current int64),
	numJobs int,
	seed uint64,
) {
	// Consumers and the progress printer are started before the producer to
	// avoid blocking on a full channel.
	var caseWaitGroup sync.WaitGroup
	var caseCounter atomic.Int64
	var abort atomic.Bool

	done := make(chan bool)
	printerDone := make(chan bool)
	go func() {
		defer close(printerDone)
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		startTime := time.Now()
		lastTime := startTime
		lastCounter := int64(0)

		checkTimingAndPrint := func(now time.Time) {
			cur := caseCounter.Load()

			diffCounter := cur - lastCounter
			diffTime := now.Sub(lastTime)

			lastTime = now
			lastCounter = cur

			rate := float64(diffCounter) / diffTime.Seconds()
			printProgress(now.Sub(startTime), rate, cur)
		}

		for {
			select {
			case <-done:
				checkTimingAndPrint(time.Now())
				return
			case now := <-ticker.C:
				checkTimingAndPrint(now)
			}
		}
	}()

	caseWaitGroup.Add(numJobs)
	caseChannel := make(chan testCase, 10*numJobs)
	for i := 0; i < numJobs; i++ {
		go func() {
			defer caseWaitGroup.Done()
			for c := range caseChannel {
				if abort.Load() {
					continue // < drain the channel
				}
				caseCounter.Add(1)
				if !opFunction(c) {
					abort.Store(true)
				}
			}
		}()
	}

	// The generator is re-seeded for each example to be reproducible.
	for _, example := range list {
		rnd := rand.New(seed)
		for i := 0; i < runs && !abort.Load(); i++ {
			caseChannel <- testCase{example: example, argument: rnd.Intn(maxArgument + 1)}
		}
	}

	close(caseChannel)
	caseWaitGroup.Wait()

	close(done)
	<-printerDone
}
