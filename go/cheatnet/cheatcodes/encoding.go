// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cheatcodes

import (
	"github.com/cockroachdb/errors"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cairo"
	"github.com/foundry-rs/starknet-foundry-sub002/go/cheatnet/cheats"
)

const (
	targetAll      = 0
	targetOne      = 1
	targetMultiple = 2

	spanIndefinite  = 0
	spanTargetCalls = 1
)

// ReadTarget decodes a target descriptor: [0] for all contracts, [1, a] for
// a single one and [2, n, a1, ..., an] for a list of contracts.
func ReadTarget(input *cairo.FeltReader) (cheats.Target, error) {
	kind, err := input.Uint64()
	if err != nil {
		return cheats.Target{}, err
	}
	switch kind {
	case targetAll:
		return cheats.All(), nil
	case targetOne:
		address, err := input.Address()
		if err != nil {
			return cheats.Target{}, err
		}
		return cheats.One(address), nil
	case targetMultiple:
		felts, err := input.Array()
		if err != nil {
			return cheats.Target{}, err
		}
		if len(felts) == 0 {
			return cheats.Target{}, errors.Wrap(cairo.ErrMalformedCheatcodeInput, "empty target list")
		}
		addresses := make([]cairo.Address, len(felts))
		for i, felt := range felts {
			addresses[i] = cairo.Address(felt)
		}
		return cheats.Multiple(addresses...), nil
	}
	return cheats.Target{}, errors.Wrapf(cairo.ErrMalformedCheatcodeInput, "invalid target kind %d", kind)
}

// ReadSpan decodes a span: [0] for an indefinite span and [1, n] for a span
// covering the next n calls.
func ReadSpan(input *cairo.FeltReader) (cheats.Span, error) {
	kind, err := input.Uint64()
	if err != nil {
		return cheats.Span{}, err
	}
	switch kind {
	case spanIndefinite:
		return cheats.Indefinite(), nil
	case spanTargetCalls:
		return readCalls(input)
	}
	return cheats.Span{}, errors.Wrapf(cairo.ErrMalformedCheatcodeInput, "invalid span kind %d", kind)
}

// readOptionalCalls decodes the optional call count of start cheatcodes.
func readOptionalCalls(input *cairo.FeltReader) (cheats.Span, error) {
	if input.Remaining() == 0 {
		return cheats.Indefinite(), nil
	}
	return readCalls(input)
}

func readCalls(input *cairo.FeltReader) (cheats.Span, error) {
	calls, err := input.Uint64()
	if err != nil {
		return cheats.Span{}, err
	}
	span, err := cheats.TargetCalls(calls)
	if err != nil {
		return cheats.Span{}, errors.Mark(err, cairo.ErrMalformedCheatcodeInput)
	}
	return span, nil
}

func readOptional(input *cairo.FeltReader) (*cairo.Felt, error) {
	present, err := input.Bool()
	if err != nil || !present {
		return nil, err
	}
	value, err := input.Next()
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// ReadTxInfoMock decodes the fields of a transaction info mock in the order
// version, account, max fee, signature, hash, chain id and nonce. Each field
// is [0] to keep the real value or [1, value] to replace it; the signature is
// replaced by [1, n, s1, ..., sn].
func ReadTxInfoMock(input *cairo.FeltReader) (cheats.TxInfoMock, error) {
	var res cheats.TxInfoMock
	var err error
	if res.Version, err = readOptional(input); err != nil {
		return res, err
	}
	account, err := readOptional(input)
	if err != nil {
		return res, err
	}
	if account != nil {
		address := cairo.Address(*account)
		res.AccountContractAddress = &address
	}
	if res.MaxFee, err = readOptional(input); err != nil {
		return res, err
	}
	hasSignature, err := input.Bool()
	if err != nil {
		return res, err
	}
	if hasSignature {
		signature, err := input.Array()
		if err != nil {
			return res, err
		}
		res.Signature = signature
	}
	if res.TransactionHash, err = readOptional(input); err != nil {
		return res, err
	}
	if res.ChainID, err = readOptional(input); err != nil {
		return res, err
	}
	if res.Nonce, err = readOptional(input); err != nil {
		return res, err
	}
	return res, nil
}

// EncodeEvents serializes fetched events as count followed by from, keys
// and data of every event.
func EncodeEvents(events []cairo.Event) []cairo.Felt {
	res := []cairo.Felt{cairo.NewFelt(uint64(len(events)))}
	for _, event := range events {
		res = append(res, cairo.Felt(event.From))
		res = cairo.AppendArray(res, event.Keys)
		res = cairo.AppendArray(res, event.Data)
	}
	return res
}
