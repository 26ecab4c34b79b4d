// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package shares keeps the raw share balances of a vault.
package shares

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/thor"
)

var (
	balancesSlot    = solidity.Slot("shares/balances")
	totalSupplySlot = solidity.Slot("shares/total-supply")
)

// ErrNonTransferable is returned by Transfer, vault shares only move by minting and burning.
var ErrNonTransferable = reverts.NewState("non-transferable")

type Book struct {
	balances    *solidity.Mapping[thor.Address, *big.Int]
	totalSupply *solidity.Uint256
}

func New(ctx *solidity.Context) *Book {
	return &Book{
		balances:    solidity.NewMapping[thor.Address, *big.Int](ctx, balancesSlot),
		totalSupply: solidity.NewUint256(ctx, totalSupplySlot),
	}
}

func (b *Book) BalanceOf(account thor.Address) (*big.Int, error) {
	return b.balances.Get(account)
}

func (b *Book) TotalSupply() (*big.Int, error) {
	return b.totalSupply.Get()
}

func (b *Book) Mint(account thor.Address, amount *big.Int) error {
	if account.IsZero() {
		return reverts.NewValidation("shares: mint to the zero address")
	}
	bal, err := b.balances.Get(account)
	if err != nil {
		return err
	}
	if err := b.balances.Set(account, bal.Add(bal, amount)); err != nil {
		return errors.Wrap(err, "failed to set share balance")
	}
	return errors.Wrap(b.totalSupply.Add(amount), "failed to set total supply")
}

func (b *Book) Burn(account thor.Address, amount *big.Int) error {
	bal, err := b.balances.Get(account)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.NewState("shares: burn amount exceeds balance")
	}
	if bal.Sub(bal, amount).Sign() == 0 {
		b.balances.Delete(account)
	} else if err := b.balances.Set(account, bal); err != nil {
		return errors.Wrap(err, "failed to set share balance")
	}
	return errors.Wrap(b.totalSupply.Sub(amount), "failed to set total supply")
}

// Transfer always fails.
func (b *Book) Transfer(_, _ thor.Address, _ *big.Int) error {
	return ErrNonTransferable
}
