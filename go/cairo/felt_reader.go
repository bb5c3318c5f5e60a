// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cairo

import (
	"github.com/cockroachdb/errors"
)

// FeltReader decodes values from a felt buffer as passed to cheatcodes and
// syscalls. All decoding failures are reported as ErrMalformedCheatcodeInput.
type FeltReader struct {
	felts    []Felt
	position int
}

func NewFeltReader(felts []Felt) *FeltReader {
	return &FeltReader{felts: felts}
}

// Remaining returns the number of felts not consumed yet.
func (r *FeltReader) Remaining() int {
	return len(r.felts) - r.position
}

func (r *FeltReader) Next() (Felt, error) {
	if r.position >= len(r.felts) {
		return Felt{}, errors.Wrapf(ErrMalformedCheatcodeInput,
			"input truncated, expected at least %d felts", r.position+1)
	}
	res := r.felts[r.position]
	r.position++
	return res, nil
}

func (r *FeltReader) Uint64() (uint64, error) {
	felt, err := r.Next()
	if err != nil {
		return 0, err
	}
	res, ok := felt.Uint64()
	if !ok {
		return 0, errors.Wrapf(ErrMalformedCheatcodeInput, "value %v does not fit into 64 bits", felt)
	}
	return res, nil
}

func (r *FeltReader) Bool() (bool, error) {
	value, err := r.Uint64()
	if err != nil {
		return false, err
	}
	switch value {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.Wrapf(ErrMalformedCheatcodeInput, "invalid boolean %d", value)
}

func (r *FeltReader) Address() (Address, error) {
	felt, err := r.Next()
	return Address(felt), err
}

func (r *FeltReader) ClassHash() (ClassHash, error) {
	felt, err := r.Next()
	return ClassHash(felt), err
}

func (r *FeltReader) Selector() (Selector, error) {
	felt, err := r.Next()
	return Selector(felt), err
}

func (r *FeltReader) StorageKey() (StorageKey, error) {
	felt, err := r.Next()
	return StorageKey(felt), err
}

// Array decodes a length-prefixed felt array.
func (r *FeltReader) Array() ([]Felt, error) {
	length, err := r.Uint64()
	if err != nil {
		return nil, err
	}
	if length > uint64(r.Remaining()) {
		return nil, errors.Wrapf(ErrMalformedCheatcodeInput,
			"array of length %d exceeds remaining input of %d felts", length, r.Remaining())
	}
	res := make([]Felt, length)
	copy(res, r.felts[r.position:])
	r.position += int(length)
	return res, nil
}

// Finish checks that the whole input has been consumed.
func (r *FeltReader) Finish() error {
	if rest := r.Remaining(); rest != 0 {
		return errors.Wrapf(ErrMalformedCheatcodeInput, "%d unexpected trailing felts", rest)
	}
	return nil
}

// AppendArray appends the given felts to buffer using the length-prefixed
// encoding understood by FeltReader.Array.
func AppendArray(buffer []Felt, felts []Felt) []Felt {
	buffer = append(buffer, NewFelt(uint64(len(felts))))
	return append(buffer, felts...)
}
