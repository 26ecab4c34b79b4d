// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package badges computes the badge multiplier of vault accounts.
//
// Badges are delegated without moving custody. The multiplier re-reads the delegator's
// balance on every lookup, so a badge that changed hands stops counting without a revoke.
package badges

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/contracts"
	"github.com/vechain/vault/builtin/events"
	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

var (
	weightsSlot     = solidity.Slot("badges/weights")
	ineligibleSlot  = solidity.Slot("badges/ineligible")
	delegationsSlot = solidity.Slot("badges/delegations")
	delegatedToSlot = solidity.Slot("badges/delegated-to")
)

func badgeKey(badge thor.Address, id *big.Int) thor.Bytes32 {
	return thor.Blake2b(badge.Bytes(), thor.BytesToBytes32(id.Bytes()).Bytes())
}

type weight struct {
	Exists bool
	Weight *big.Int
}

// Delegation records who delegated a badge and to whom.
type Delegation struct {
	Badge    thor.Address `json:"badge"`
	ID       *big.Int     `json:"id"`
	Owner    thor.Address `json:"owner"`
	Delegate thor.Address `json:"delegate"`
}

type Registry struct {
	addr        thor.Address
	ctx         *solidity.Context
	dir         contracts.Directory
	weights     *solidity.Mapping[thor.Bytes32, *weight]
	ineligible  *solidity.Mapping[thor.Address, bool]
	delegations *solidity.Mapping[thor.Bytes32, *Delegation]
}

func New(ctx *solidity.Context, dir contracts.Directory) *Registry {
	return &Registry{
		addr:        ctx.Address(),
		ctx:         ctx,
		dir:         dir,
		weights:     solidity.NewMapping[thor.Bytes32, *weight](ctx, weightsSlot),
		ineligible:  solidity.NewMapping[thor.Address, bool](ctx, ineligibleSlot),
		delegations: solidity.NewMapping[thor.Bytes32, *Delegation](ctx, delegationsSlot),
	}
}

func (r *Registry) delegatedTo(delegate thor.Address) *solidity.Array[Delegation] {
	return solidity.NewArray[Delegation](r.ctx, thor.Blake2b(delegatedToSlot.Bytes(), delegate.Bytes()))
}

// Weight returns the boosted weight of a badge, zero when it was never added.
func (r *Registry) Weight(badge thor.Address, id *big.Int) (*big.Int, error) {
	w, err := r.weights.Get(badgeKey(badge, id))
	if err != nil {
		return nil, err
	}
	if w.Weight == nil {
		return new(big.Int), nil
	}
	return w.Weight, nil
}

func (r *Registry) AddBadge(env *xenv.Environment, badge thor.Address, id, boostedWeight *big.Int) error {
	if badge.IsZero() {
		return reverts.NewValidation("badges: zero badge address")
	}
	key := badgeKey(badge, id)
	w, err := r.weights.Get(key)
	if err != nil {
		return err
	}
	if w.Exists {
		return reverts.NewState("badges: badge already added")
	}
	if err := r.weights.Set(key, &weight{Exists: true, Weight: boostedWeight}); err != nil {
		return errors.Wrap(err, "failed to set badge weight")
	}
	env.Log(r.addr, events.BadgeAdded{Badge: badge, ID: new(big.Int).Set(id), Weight: new(big.Int).Set(boostedWeight)})
	return nil
}

func (r *Registry) UpdateBadge(env *xenv.Environment, badge thor.Address, id, boostedWeight *big.Int) error {
	key := badgeKey(badge, id)
	w, err := r.weights.Get(key)
	if err != nil {
		return err
	}
	if !w.Exists {
		return reverts.NewState("badges: badge not added")
	}
	if err := r.weights.Set(key, &weight{Exists: true, Weight: boostedWeight}); err != nil {
		return errors.Wrap(err, "failed to set badge weight")
	}
	env.Log(r.addr, events.BadgeUpdated{Badge: badge, ID: new(big.Int).Set(id), Weight: new(big.Int).Set(boostedWeight)})
	return nil
}

func (r *Registry) IsIneligible(account thor.Address) (bool, error) {
	return r.ineligible.Get(account)
}

func (r *Registry) AddIneligible(env *xenv.Environment, account thor.Address) error {
	if err := r.ineligible.Set(account, true); err != nil {
		return errors.Wrap(err, "failed to set ineligible flag")
	}
	env.Log(r.addr, events.IneligibleListAdded{Account: account})
	return nil
}

func (r *Registry) RemoveIneligible(env *xenv.Environment, account thor.Address) error {
	r.ineligible.Delete(account)
	env.Log(r.addr, events.IneligibleListRemoved{Account: account})
	return nil
}

// Delegation returns the delegation of a badge, nil when it was never delegated.
func (r *Registry) Delegation(badge thor.Address, id *big.Int) (*Delegation, error) {
	d, err := r.delegations.Get(badgeKey(badge, id))
	if err != nil {
		return nil, err
	}
	if d.Owner.IsZero() {
		return nil, nil
	}
	return d, nil
}

// DelegatedTo lists the badges delegated to delegate.
func (r *Registry) DelegatedTo(delegate thor.Address) ([]Delegation, error) {
	return r.delegatedTo(delegate).All()
}

// Delegate delegates a badge held by owner. Each badge can be delegated once, ever.
func (r *Registry) Delegate(env *xenv.Environment, owner, badge thor.Address, id *big.Int, delegate thor.Address) error {
	if delegate.IsZero() {
		return reverts.NewValidation("badges: zero delegate")
	}
	balance, err := r.balanceOf(env, badge, owner, id)
	if err != nil {
		return err
	}
	if balance.Sign() <= 0 {
		return reverts.NewAuthorization("badges: badge not owned")
	}
	existing, err := r.Delegation(badge, id)
	if err != nil {
		return err
	}
	if existing != nil {
		return reverts.NewState("badges: badge already delegated")
	}
	d := &Delegation{Badge: badge, ID: new(big.Int).Set(id), Owner: owner, Delegate: delegate}
	if err := r.delegations.Set(badgeKey(badge, id), d); err != nil {
		return errors.Wrap(err, "failed to set delegation")
	}
	if err := r.delegatedTo(delegate).Push(*d); err != nil {
		return errors.Wrap(err, "failed to append delegation")
	}
	env.Log(r.addr, events.BadgeDelegated{Owner: owner, Badge: badge, ID: new(big.Int).Set(id), Delegate: delegate})
	return nil
}

// Multiplier sums the weights of badges delegated to account whose delegator still holds them.
// It is zero while account is ineligible.
func (r *Registry) Multiplier(env *xenv.Environment, account thor.Address) (*big.Int, error) {
	ineligible, err := r.IsIneligible(account)
	if err != nil {
		return nil, err
	}
	total := new(big.Int)
	if ineligible {
		return total, nil
	}
	delegations, err := r.DelegatedTo(account)
	if err != nil {
		return nil, err
	}
	for _, d := range delegations {
		balance, err := r.balanceOf(env, d.Badge, d.Owner, d.ID)
		if err != nil {
			return nil, err
		}
		if balance.Sign() <= 0 {
			continue
		}
		w, err := r.Weight(d.Badge, d.ID)
		if err != nil {
			return nil, err
		}
		total.Add(total, w)
	}
	return total, nil
}

func (r *Registry) balanceOf(env *xenv.Environment, badge, owner thor.Address, id *big.Int) (*big.Int, error) {
	token, err := r.dir.BadgeToken(badge)
	if err != nil {
		return nil, err
	}
	return token.BalanceOf(env, owner, id)
}
