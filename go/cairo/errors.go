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

// ConstError is an error type that can be used to define immutable
// error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

const (
	// ErrMalformedCheatcodeInput is reported for selectors that are not text
	// and for argument buffers that cannot be decoded.
	ErrMalformedCheatcodeInput = ConstError("malformed cheatcode input")

	// ErrUnknownCheatcodeSelector is reported if no layer handled a cheatcode.
	ErrUnknownCheatcodeSelector = ConstError("unknown cheatcode selector")

	// ErrStateAccess marks failures of the state reader, for instance when
	// reading an undeclared class.
	ErrStateAccess = ConstError("state access error")

	// ErrHostFatal marks defects of the host aborting the whole run.
	ErrHostFatal = ConstError("host fatal error")
)

// HintErrorKind enumerates the error kinds that can cross the boundary
// between the host and the interpreter.
type HintErrorKind int

const (
	HintErrorUnknown HintErrorKind = iota
	HintErrorMalformedInput
	HintErrorUnknownCheatcode
	HintErrorStateAccess
	HintErrorHostFatal
)

func (k HintErrorKind) String() string {
	switch k {
	case HintErrorMalformedInput:
		return "malformed input"
	case HintErrorUnknownCheatcode:
		return "unknown cheatcode"
	case HintErrorStateAccess:
		return "state access"
	case HintErrorHostFatal:
		return "host fatal"
	default:
		return "unknown"
	}
}

// HintError is the only error type returned by a HintProcessor to an
// interpreter. Errors of other kinds are downgraded into HintErrorUnknown,
// retaining only their message.
type HintError struct {
	Kind    HintErrorKind
	Message string
}

func (e *HintError) Error() string {
	return "hint execution failed (" + e.Kind.String() + "): " + e.Message
}

// Is makes HintErrors comparable with the sentinel errors of this package.
func (e *HintError) Is(target error) bool {
	switch target {
	case ErrMalformedCheatcodeInput:
		return e.Kind == HintErrorMalformedInput
	case ErrUnknownCheatcodeSelector:
		return e.Kind == HintErrorUnknownCheatcode
	case ErrStateAccess:
		return e.Kind == HintErrorStateAccess
	case ErrHostFatal:
		return e.Kind == HintErrorHostFatal
	}
	return false
}

// ToHintError downgrades the given error into a HintError. Only the kinds
// listed in HintErrorKind are preserved.
func ToHintError(err error) *HintError {
	if err == nil {
		return nil
	}
	var hintErr *HintError
	if errors.As(err, &hintErr) {
		return hintErr
	}
	kind := HintErrorUnknown
	switch {
	case errors.Is(err, ErrHostFatal):
		kind = HintErrorHostFatal
	case errors.Is(err, ErrMalformedCheatcodeInput):
		kind = HintErrorMalformedInput
	case errors.Is(err, ErrUnknownCheatcodeSelector):
		kind = HintErrorUnknownCheatcode
	case errors.Is(err, ErrStateAccess):
		kind = HintErrorStateAccess
	}
	return &HintError{Kind: kind, Message: err.Error()}
}

// IsFatal reports whether the given error must abort the run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrHostFatal)
}
