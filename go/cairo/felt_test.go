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
	"encoding/json"
	"strings"
	"testing"

	"github.com/holiman/uint256"
)

func TestFelt_NewFeltCanBeConvertedBack(t *testing.T) {
	for _, value := range []uint64{0, 1, 123, 1 << 32, ^uint64(0)} {
		got, ok := NewFelt(value).Uint64()
		if !ok || got != value {
			t.Errorf("unexpected conversion of %d, got %d (%t)", value, got, ok)
		}
	}
}

func TestFelt_LargeValuesDoNotFitIntoUint64(t *testing.T) {
	felt, err := FeltFromUint256(new(uint256.Int).Lsh(uint256.NewInt(1), 64))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := felt.Uint64(); ok {
		t.Errorf("2^64 should not fit into uint64")
	}
}

func TestFelt_ValuesAtOrAbovePrimeAreRejected(t *testing.T) {
	if _, err := FeltFromUint256(Prime); err == nil {
		t.Errorf("prime must not be a valid felt")
	}
	below := new(uint256.Int).SubUint64(Prime, 1)
	felt, err := FeltFromUint256(below)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !felt.IsValid() {
		t.Errorf("prime-1 should be a valid felt")
	}
	var invalid Felt
	for i := range invalid {
		invalid[i] = 0xff
	}
	if invalid.IsValid() {
		t.Errorf("all-ones felt should not be valid")
	}
}

func TestFelt_TextEncodingRoundTrips(t *testing.T) {
	want := NewFelt(0xabcdef)
	text, err := want.MarshalText()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := string(text); got != "0xabcdef" {
		t.Errorf("unexpected text, wanted 0xabcdef, got %s", got)
	}
	var got Felt
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("unexpected value, wanted %v, got %v", want, got)
	}
}

func TestFelt_InvalidTextIsRejected(t *testing.T) {
	tests := []string{
		"abc",
		"0x",
		"0xzz",
		"0x800000000000011000000000000000000000000000000000000000000000001",
	}
	for _, test := range tests {
		var felt Felt
		if err := felt.UnmarshalText([]byte(test)); err == nil {
			t.Errorf("expected error for %q", test)
		}
	}
}

func TestAddress_CanBeUsedInJson(t *testing.T) {
	type holder struct {
		Address Address
	}
	data, err := json.Marshal(holder{Address(NewFelt(0x42))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := `{"Address":"0x42"}`, string(data); want != got {
		t.Errorf("unexpected encoding, wanted %s, got %s", want, got)
	}
	var restored holder
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored.Address != Address(NewFelt(0x42)) {
		t.Errorf("unexpected address %v", restored.Address)
	}
}

func TestShortString_EncodingAndDecoding(t *testing.T) {
	for _, text := range []string{"a", "FirstEvent", "CallContract", strings.Repeat("x", 31)} {
		felt, err := ShortString(text)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", text, err)
		}
		got, err := felt.ShortString()
		if err != nil {
			t.Fatalf("unexpected error decoding %q: %v", text, err)
		}
		if got != text {
			t.Errorf("unexpected round trip, wanted %q, got %q", text, got)
		}
	}
}

func TestShortString_KnownEncoding(t *testing.T) {
	felt := MustShortString("ab")
	if want, got := uint64(0x6162), felt.ToUint256().Uint64(); want != got {
		t.Errorf("unexpected encoding, wanted 0x%x, got 0x%x", want, got)
	}
}

func TestShortString_InvalidInputsAreRejected(t *testing.T) {
	if _, err := ShortString(strings.Repeat("x", 32)); err == nil {
		t.Errorf("expected error for too long string")
	}
	if _, err := ShortString("\xff"); err == nil {
		t.Errorf("expected error for non-ASCII string")
	}
	if _, err := (Felt{}).ShortString(); err == nil {
		t.Errorf("expected error for empty felt")
	}
	if _, err := NewFelt(0x0a).ShortString(); err == nil {
		t.Errorf("expected error for non-printable character")
	}
}

func TestSelectorFromName_IsTruncatedTo250Bits(t *testing.T) {
	for _, name := range []string{"transfer", "constructor", "get_block_number", ""} {
		selector := SelectorFromName(name)
		if selector[0]&0xfc != 0 {
			t.Errorf("selector of %q exceeds 250 bits: %v", name, selector)
		}
		if !Felt(selector).IsValid() {
			t.Errorf("selector of %q is not a valid felt", name)
		}
	}
	if SelectorFromName("a") == SelectorFromName("b") {
		t.Errorf("different names should produce different selectors")
	}
	if SelectorFromName("a") != SelectorFromName("a") {
		t.Errorf("selectors should be deterministic")
	}
}
