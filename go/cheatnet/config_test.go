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
	"testing"

	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/stretchr/testify/assert"
)

func TestConfig_DefaultIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := map[string]func(*Config){
		"invalid log level": func(c *Config) { c.LogLevel = "LOUD" },
		"empty hint cache":  func(c *Config) { c.HintCacheSize = 0 },
		"zero test address": func(c *Config) { c.TestAddress = cairo.Address{} },
		"invalid address":   func(c *Config) { c.TestAddress = cairo.Address{0xff} },
	}
	for name, modify := range tests {
		t.Run(name, func(t *testing.T) {
			config := DefaultConfig()
			modify(&config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestNewRun_RejectsInvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.HintCacheSize = -1
	_, err := NewRun(config, nil, nil)
	assert.Error(t, err)
}
