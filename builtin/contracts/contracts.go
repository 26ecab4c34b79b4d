// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package contracts declares the interfaces through which builtin contracts call each other.
package contracts

import (
	"math/big"

	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

// Token is a fungible token with transfer, transferFrom and approve semantics.
// The spender of TransferFrom and the sender of Transfer/Approve is env.Caller().
type Token interface {
	Address() thor.Address
	BalanceOf(env *xenv.Environment, owner thor.Address) (*big.Int, error)
	Transfer(env *xenv.Environment, to thor.Address, amount *big.Int) error
	TransferFrom(env *xenv.Environment, from, to thor.Address, amount *big.Int) error
	Approve(env *xenv.Environment, spender thor.Address, amount *big.Int) error
}

// BadgeToken is a multi token exposing the balance of an owner for an id.
type BadgeToken interface {
	Address() thor.Address
	BalanceOf(env *xenv.Environment, owner thor.Address, id *big.Int) (*big.Int, error)
}

// EscrowTarget receives the escrowed part of claimed rewards and locks it for receiver.
// The target pulls amount from env.Caller().
type EscrowTarget interface {
	Address() thor.Address
	DepositToken() thor.Address
	Deposit(env *xenv.Environment, amount *big.Int, duration uint64, receiver thor.Address) error
}

// Directory resolves contract addresses to their implementations.
type Directory interface {
	Token(addr thor.Address) (Token, error)
	BadgeToken(addr thor.Address) (BadgeToken, error)
	EscrowTarget(addr thor.Address) (EscrowTarget, error)
}
