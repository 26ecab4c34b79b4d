// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements a fungible token used as deposit and reward token by vaults.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/events"
	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

var logger = log.WithContext("pkg", "token")

var (
	balancesSlot    = solidity.Slot("balances")
	allowancesSlot  = solidity.Slot("allowances")
	totalSupplySlot = solidity.Slot("total-supply")
	minterSlot      = solidity.Slot("minter")
)

func allowanceKey(owner, spender thor.Address) thor.Bytes32 {
	return thor.Blake2b(owner.Bytes(), spender.Bytes())
}

type Token struct {
	addr        thor.Address
	symbol      string
	balances    *solidity.Mapping[thor.Address, *big.Int]
	allowances  *solidity.Mapping[thor.Bytes32, *big.Int]
	totalSupply *solidity.Uint256
	minter      *solidity.Address
}

func New(addr thor.Address, symbol string, st *state.State) *Token {
	ctx := solidity.NewContext(addr, st)
	return &Token{
		addr:        addr,
		symbol:      symbol,
		balances:    solidity.NewMapping[thor.Address, *big.Int](ctx, balancesSlot),
		allowances:  solidity.NewMapping[thor.Bytes32, *big.Int](ctx, allowancesSlot),
		totalSupply: solidity.NewUint256(ctx, totalSupplySlot),
		minter:      solidity.NewAddress(ctx, minterSlot),
	}
}

func (t *Token) Address() thor.Address { return t.addr }
func (t *Token) Symbol() string        { return t.symbol }

// SetMinter sets the only account allowed to mint. It is a bootstrap operation.
func (t *Token) SetMinter(minter thor.Address) {
	t.minter.Set(minter)
}

func (t *Token) TotalSupply(_ *xenv.Environment) (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(_ *xenv.Environment, owner thor.Address) (*big.Int, error) {
	return t.balances.Get(owner)
}

func (t *Token) Allowance(_ *xenv.Environment, owner, spender thor.Address) (*big.Int, error) {
	return t.allowances.Get(allowanceKey(owner, spender))
}

func (t *Token) Mint(env *xenv.Environment, to thor.Address, amount *big.Int) error {
	minter, err := t.minter.Get()
	if err != nil {
		return err
	}
	if minter.IsZero() || env.Caller() != minter {
		return reverts.NewAuthorization("token: caller is not the minter")
	}
	if to.IsZero() {
		return reverts.NewValidation("token: mint to the zero address")
	}
	bal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(to, bal.Add(bal, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return errors.Wrap(err, "failed to set total supply")
	}
	env.Log(t.addr, events.Transfer{From: thor.Address{}, To: to, Amount: new(big.Int).Set(amount)})
	logger.Debug("minted", "token", t.symbol, "to", to, "amount", amount)
	return nil
}

func (t *Token) Transfer(env *xenv.Environment, to thor.Address, amount *big.Int) error {
	return t.transfer(env, env.Caller(), to, amount)
}

func (t *Token) TransferFrom(env *xenv.Environment, from, to thor.Address, amount *big.Int) error {
	spender := env.Caller()
	if spender != from {
		key := allowanceKey(from, spender)
		allowance, err := t.allowances.Get(key)
		if err != nil {
			return err
		}
		if allowance.Cmp(amount) < 0 {
			return reverts.NewTransfer("token: insufficient allowance")
		}
		if err := t.allowances.Set(key, allowance.Sub(allowance, amount)); err != nil {
			return errors.Wrap(err, "failed to set allowance")
		}
	}
	return t.transfer(env, from, to, amount)
}

func (t *Token) Approve(env *xenv.Environment, spender thor.Address, amount *big.Int) error {
	if spender.IsZero() {
		return reverts.NewValidation("token: approve to the zero address")
	}
	owner := env.Caller()
	if err := t.allowances.Set(allowanceKey(owner, spender), new(big.Int).Set(amount)); err != nil {
		return errors.Wrap(err, "failed to set allowance")
	}
	env.Log(t.addr, events.Approval{Owner: owner, Spender: spender, Amount: new(big.Int).Set(amount)})
	return nil
}

func (t *Token) transfer(env *xenv.Environment, from, to thor.Address, amount *big.Int) error {
	if to.IsZero() {
		return reverts.NewValidation("token: transfer to the zero address")
	}
	if amount.Sign() < 0 {
		return reverts.NewValidation("token: negative amount")
	}
	fromBal, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return reverts.NewTransfer("token: transfer amount exceeds balance")
	}
	if err := t.balances.Set(from, fromBal.Sub(fromBal, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	toBal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(to, toBal.Add(toBal, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	env.Log(t.addr, events.Transfer{From: from, To: to, Amount: new(big.Int).Set(amount)})
	return nil
}
