// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package deposits stores the time locked deposits of vault accounts.
//
// Deposits of an account form an unordered list addressed by position. Removal swaps
// the last deposit into the removed slot, so a deposit id is only valid until the next
// removal in the same account's list.
package deposits

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/thor"
)

var depositsSlot = solidity.Slot("deposits")

// ErrNotExist is returned for a deposit id out of range.
var ErrNotExist = reverts.NewValidation("does not exist")

// Deposit is one lock. BadgeBoost is the share amount granted by the badge multiplier on creation.
type Deposit struct {
	Amount     *big.Int `json:"amount"`
	Start      uint64   `json:"start"`
	End        uint64   `json:"end"`
	BadgeBoost *big.Int `json:"badgeBoost"`
}

func (d *Deposit) Duration() uint64 {
	return d.End - d.Start
}

type Repository struct {
	ctx *solidity.Context
}

func New(ctx *solidity.Context) *Repository {
	return &Repository{ctx: ctx}
}

func (r *Repository) list(account thor.Address) *solidity.Array[Deposit] {
	return solidity.NewArray[Deposit](r.ctx, thor.Blake2b(depositsSlot.Bytes(), account.Bytes()))
}

func normalize(d Deposit) Deposit {
	if d.Amount == nil {
		d.Amount = new(big.Int)
	}
	if d.BadgeBoost == nil {
		d.BadgeBoost = new(big.Int)
	}
	return d
}

func (r *Repository) Count(account thor.Address) (uint64, error) {
	return r.list(account).Len()
}

func (r *Repository) Get(account thor.Address, id uint64) (Deposit, error) {
	list := r.list(account)
	n, err := list.Len()
	if err != nil {
		return Deposit{}, err
	}
	if id >= n {
		return Deposit{}, ErrNotExist
	}
	d, err := list.Get(id)
	if err != nil {
		return Deposit{}, err
	}
	return normalize(d), nil
}

func (r *Repository) List(account thor.Address) ([]Deposit, error) {
	all, err := r.list(account).All()
	if err != nil {
		return nil, err
	}
	for i := range all {
		all[i] = normalize(all[i])
	}
	return all, nil
}

// Append stores d and returns its id.
func (r *Repository) Append(account thor.Address, d Deposit) (uint64, error) {
	if d.End < d.Start {
		return 0, reverts.NewValidation("deposits: end before start")
	}
	list := r.list(account)
	id, err := list.Len()
	if err != nil {
		return 0, err
	}
	if err := list.Push(d); err != nil {
		return 0, errors.Wrap(err, "failed to append deposit")
	}
	return id, nil
}

// Remove deletes deposit id by moving the last deposit into its place.
func (r *Repository) Remove(account thor.Address, id uint64) (Deposit, error) {
	list := r.list(account)
	n, err := list.Len()
	if err != nil {
		return Deposit{}, err
	}
	if id >= n {
		return Deposit{}, ErrNotExist
	}
	d, err := list.SwapRemove(id)
	if err != nil {
		return Deposit{}, errors.Wrap(err, "failed to remove deposit")
	}
	return normalize(d), nil
}

// TotalDeposited sums the principal of every deposit of account.
func (r *Repository) TotalDeposited(account thor.Address) (*big.Int, error) {
	all, err := r.List(account)
	if err != nil {
		return nil, err
	}
	total := new(big.Int)
	for _, d := range all {
		total.Add(total, d.Amount)
	}
	return total, nil
}
