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
	"errors"
	"fmt"
	"testing"
)

func TestConstError_Error(t *testing.T) {
	const myError = ConstError("this is a constant error")
	if myError.Error() != "this is a constant error" {
		t.Errorf("expected 'this is a constant error', got '%s'", myError.Error())
	}
	if !errors.Is(myError, ConstError("this is a constant error")) {
		t.Errorf("expected true, got false")
	}
}

func TestToHintError_KnownKindsArePreserved(t *testing.T) {
	tests := map[error]HintErrorKind{
		ErrMalformedCheatcodeInput:                           HintErrorMalformedInput,
		ErrUnknownCheatcodeSelector:                          HintErrorUnknownCheatcode,
		fmt.Errorf("reading class: %w", ErrStateAccess):      HintErrorStateAccess,
		fmt.Errorf("stack imbalance: %w", ErrHostFatal):      HintErrorHostFatal,
		fmt.Errorf("something nobody registered explicitly"): HintErrorUnknown,
	}
	for err, kind := range tests {
		hintErr := ToHintError(err)
		if hintErr.Kind != kind {
			t.Errorf("unexpected kind for %v, wanted %v, got %v", err, kind, hintErr.Kind)
		}
		if hintErr.Message != err.Error() {
			t.Errorf("message not preserved, wanted %q, got %q", err.Error(), hintErr.Message)
		}
	}
}

func TestToHintError_HintErrorsAreComparableWithSentinels(t *testing.T) {
	err := error(ToHintError(fmt.Errorf("x: %w", ErrMalformedCheatcodeInput)))
	if !errors.Is(err, ErrMalformedCheatcodeInput) {
		t.Errorf("downgraded error should still match its kind")
	}
	if errors.Is(err, ErrHostFatal) {
		t.Errorf("downgraded error should not match other kinds")
	}
	if ToHintError(err) != err {
		t.Errorf("hint errors should not be wrapped twice")
	}
	if ToHintError(nil) != nil {
		t.Errorf("nil should stay nil")
	}
}

func TestIsFatal(t *testing.T) {
	if !IsFatal(fmt.Errorf("x: %w", ErrHostFatal)) {
		t.Errorf("host errors are fatal")
	}
	if IsFatal(ErrStateAccess) {
		t.Errorf("state access errors are not fatal")
	}
}
