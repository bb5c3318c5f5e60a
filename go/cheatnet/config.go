// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cheatnet

import (
	"fmt"

	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/chain"
	"github.com/op/go-logging"
)

// DefaultTestAddress is the address the test contract is deployed at.
var DefaultTestAddress = cairo.Address(cairo.MustShortString("TEST_ADDRESS"))

// Config parameterizes a single run.
type Config struct {
	LogLevel string
	// HintCacheSize is the number of compiled hints kept per run.
	HintCacheSize int
	// CollectStepTrace requests a step trace from the interpreter for every
	// call.
	CollectStepTrace bool
	TestAddress      cairo.Address
	TxInfo           cairo.TxInfo
	// Block replaces the block info of the state reader if set.
	Block *cairo.BlockInfo
}

func DefaultConfig() Config {
	return Config{
		LogLevel:      "INFO",
		HintCacheSize: chain.DefaultHintCacheSize,
		TestAddress:   DefaultTestAddress,
		TxInfo: cairo.TxInfo{
			Version: cairo.NewFelt(1),
			ChainID: cairo.MustShortString("SN_SEPOLIA"),
		},
	}
}

func (c Config) Validate() error {
	if _, err := logging.LogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.HintCacheSize <= 0 {
		return fmt.Errorf("hint cache size must be positive, got %d", c.HintCacheSize)
	}
	if c.TestAddress == (cairo.Address{}) {
		return fmt.Errorf("test address must not be zero")
	}
	if !cairo.Felt(c.TestAddress).IsValid() {
		return fmt.Errorf("test address %v is not a valid felt", c.TestAddress)
	}
	return nil
}
