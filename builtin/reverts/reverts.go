// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies why a call was reverted.
type Kind uint8

const (
	// Validation rejects malformed input: zero address or amount, mismatched lengths, bad ordering, over 100%.
	Validation Kind = iota + 1
	// Authorization rejects a caller lacking the required role or ownership.
	Authorization
	// State rejects a call not allowed in the current state.
	State
	// Transfer is raised by a token when balance or allowance is insufficient.
	Transfer
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Authorization:
		return "authorization"
	case State:
		return "state"
	case Transfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// ErrRevert is a business failure. The whole call is aborted with no partial effect.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{kind: kind, message: message}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func NewValidation(message string) *ErrRevert    { return New(Validation, message) }
func NewAuthorization(message string) *ErrRevert { return New(Authorization, message) }
func NewState(message string) *ErrRevert         { return New(State, message) }
func NewTransfer(message string) *ErrRevert      { return New(Transfer, message) }

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Is matches reverts of the same kind and message.
func (e *ErrRevert) Is(target error) bool {
	var t *ErrRevert
	if !errors.As(target, &t) {
		return false
	}
	return t.kind == e.kind && t.message == e.message
}

func IsRevertErr(err error) bool {
	var revert *ErrRevert
	return errors.As(err, &revert)
}

// KindOf returns the kind of the revert wrapped in err, or 0 when err is not a revert.
func KindOf(err error) Kind {
	var revert *ErrRevert
	if errors.As(err, &revert) {
		return revert.kind
	}
	return 0
}
