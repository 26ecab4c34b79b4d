// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package badge implements a multi token whose balances gate vault badge boosts.
package badge

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/events"
	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

var (
	balancesSlot = solidity.Slot("badge-balances")
	minterSlot   = solidity.Slot("minter")
)

func balanceKey(owner thor.Address, id *big.Int) thor.Bytes32 {
	return thor.Blake2b(owner.Bytes(), thor.BytesToBytes32(id.Bytes()).Bytes())
}

type Badge struct {
	addr     thor.Address
	balances *solidity.Mapping[thor.Bytes32, *big.Int]
	minter   *solidity.Address
}

func New(addr thor.Address, st *state.State) *Badge {
	ctx := solidity.NewContext(addr, st)
	return &Badge{
		addr:     addr,
		balances: solidity.NewMapping[thor.Bytes32, *big.Int](ctx, balancesSlot),
		minter:   solidity.NewAddress(ctx, minterSlot),
	}
}

func (b *Badge) Address() thor.Address { return b.addr }

func (b *Badge) SetMinter(minter thor.Address) {
	b.minter.Set(minter)
}

func (b *Badge) BalanceOf(_ *xenv.Environment, owner thor.Address, id *big.Int) (*big.Int, error) {
	return b.balances.Get(balanceKey(owner, id))
}

func (b *Badge) Mint(env *xenv.Environment, to thor.Address, id, amount *big.Int) error {
	minter, err := b.minter.Get()
	if err != nil {
		return err
	}
	if minter.IsZero() || env.Caller() != minter {
		return reverts.NewAuthorization("badge: caller is not the minter")
	}
	if to.IsZero() {
		return reverts.NewValidation("badge: mint to the zero address")
	}
	if err := b.add(to, id, amount); err != nil {
		return err
	}
	env.Log(b.addr, events.TransferSingle{Operator: minter, To: to, ID: new(big.Int).Set(id), Amount: new(big.Int).Set(amount)})
	return nil
}

// Transfer moves amount of id from the caller to to.
func (b *Badge) Transfer(env *xenv.Environment, to thor.Address, id, amount *big.Int) error {
	if to.IsZero() {
		return reverts.NewValidation("badge: transfer to the zero address")
	}
	from := env.Caller()
	key := balanceKey(from, id)
	bal, err := b.balances.Get(key)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.NewTransfer("badge: insufficient balance for transfer")
	}
	if err := b.balances.Set(key, bal.Sub(bal, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	if err := b.add(to, id, amount); err != nil {
		return err
	}
	env.Log(b.addr, events.TransferSingle{Operator: from, From: from, To: to, ID: new(big.Int).Set(id), Amount: new(big.Int).Set(amount)})
	return nil
}

func (b *Badge) add(to thor.Address, id, amount *big.Int) error {
	key := balanceKey(to, id)
	bal, err := b.balances.Get(key)
	if err != nil {
		return err
	}
	return errors.Wrap(b.balances.Set(key, bal.Add(bal, amount)), "failed to set balance")
}
