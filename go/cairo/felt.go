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
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// Felt is a field element of the Cairo prime field, stored as a 32-byte
// big-endian integer. Valid felts are strictly smaller than Prime.
type Felt [32]byte

// Address represents the address of a deployed contract.
type Address Felt

// ClassHash identifies a declared contract class.
type ClassHash Felt

// StorageKey addresses a single storage slot of a contract.
type StorageKey Felt

// Selector identifies an entry point of a contract class. It is derived
// from the entry point name using SelectorFromName.
type Selector Felt

// Prime is the modulus of the Cairo field, 2^251 + 17*2^192 + 1.
var Prime = func() *uint256.Int {
	p := new(uint256.Int).Lsh(uint256.NewInt(1), 251)
	p.Add(p, new(uint256.Int).Lsh(uint256.NewInt(17), 192))
	return p.Add(p, uint256.NewInt(1))
}()

// maxShortStringLength is the number of ASCII characters fitting into a felt.
const maxShortStringLength = 31

// NewFelt creates a felt holding the given small value.
func NewFelt(value uint64) Felt {
	return Felt(uint256.NewInt(value).Bytes32())
}

// FeltFromUint256 converts the given integer into a felt. An error is
// returned if the value is not a member of the field.
func FeltFromUint256(value *uint256.Int) (Felt, error) {
	if value == nil {
		return Felt{}, nil
	}
	if value.Cmp(Prime) >= 0 {
		return Felt{}, fmt.Errorf("value %v exceeds the field prime", value)
	}
	return Felt(value.Bytes32()), nil
}

func (f Felt) ToUint256() *uint256.Int {
	return new(uint256.Int).SetBytes32(f[:])
}

func (f Felt) ToBig() *big.Int {
	return new(big.Int).SetBytes(f[:])
}

// Uint64 returns the value of the felt if it fits into 64 bits.
func (f Felt) Uint64() (uint64, bool) {
	value := f.ToUint256()
	if !value.IsUint64() {
		return 0, false
	}
	return value.Uint64(), true
}

// IsValid reports whether the felt is a member of the field.
func (f Felt) IsValid() bool {
	return f.ToUint256().Cmp(Prime) < 0
}

func (f Felt) IsZero() bool {
	return f == Felt{}
}

func (f Felt) String() string {
	return f.ToUint256().Hex()
}

func (f Felt) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Felt) UnmarshalText(data []byte) error {
	value, err := hexutil.DecodeBig(string(data))
	if err != nil {
		return err
	}
	converted, overflow := uint256.FromBig(value)
	if overflow {
		return fmt.Errorf("invalid felt %s: exceeds 256 bits", data)
	}
	res, err := FeltFromUint256(converted)
	if err != nil {
		return err
	}
	*f = res
	return nil
}

// ShortString encodes up to 31 ASCII characters into a felt, the way Cairo
// represents short string literals.
func ShortString(s string) (Felt, error) {
	if len(s) > maxShortStringLength {
		return Felt{}, fmt.Errorf("short string %q exceeds %d characters", s, maxShortStringLength)
	}
	var res Felt
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return Felt{}, fmt.Errorf("short string %q contains non-ASCII characters", s)
		}
	}
	copy(res[32-len(s):], s)
	return res, nil
}

// MustShortString is like ShortString but panics on invalid input. It is
// intended for constants.
func MustShortString(s string) Felt {
	res, err := ShortString(s)
	if err != nil {
		panic(err)
	}
	return res
}

// ShortString decodes the felt as a Cairo short string. Only printable
// ASCII characters are accepted.
func (f Felt) ShortString() (string, error) {
	start := 0
	for start < len(f) && f[start] == 0 {
		start++
	}
	if start == 0 || start == len(f) {
		return "", fmt.Errorf("felt %v is not a short string", f)
	}
	var builder strings.Builder
	for _, c := range f[start:] {
		if c < 0x20 || c > 0x7e {
			return "", fmt.Errorf("felt %v is not a short string: invalid character 0x%02x", f, c)
		}
		builder.WriteByte(c)
	}
	return builder.String(), nil
}

func (a Address) String() string {
	return Felt(a).String()
}

func (a Address) MarshalText() ([]byte, error) {
	return Felt(a).MarshalText()
}

func (a *Address) UnmarshalText(data []byte) error {
	return (*Felt)(a).UnmarshalText(data)
}

func (c ClassHash) String() string {
	return Felt(c).String()
}

func (c ClassHash) MarshalText() ([]byte, error) {
	return Felt(c).MarshalText()
}

func (c *ClassHash) UnmarshalText(data []byte) error {
	return (*Felt)(c).UnmarshalText(data)
}

func (k StorageKey) String() string {
	return Felt(k).String()
}

func (k StorageKey) MarshalText() ([]byte, error) {
	return Felt(k).MarshalText()
}

func (k *StorageKey) UnmarshalText(data []byte) error {
	return (*Felt)(k).UnmarshalText(data)
}

func (s Selector) String() string {
	return Felt(s).String()
}

func (s Selector) MarshalText() ([]byte, error) {
	return Felt(s).MarshalText()
}

func (s *Selector) UnmarshalText(data []byte) error {
	return (*Felt)(s).UnmarshalText(data)
}

// SelectorFromName computes the entry point selector of the given function
// name: the Keccak-256 hash of the name truncated to 250 bits.
func SelectorFromName(name string) Selector {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(name))
	var res Selector
	hasher.Sum(res[0:0])
	res[0] &= 0x03
	return res
}
