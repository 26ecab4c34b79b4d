// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eligibility excludes blacklisted accounts from reward allocation.
//
// The layer is the only mint/burn authority over the share book. It keeps
// AdjustedTotalSupply + sum of blacklisted amounts equal to TotalSupply and
// applies the ledger correction for every adjusted balance change.
package eligibility

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/builtin/vault/rewards"
	"github.com/vechain/vault/builtin/vault/shares"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/thor"
)

var logger = log.WithContext("pkg", "eligibility")

var (
	entriesSlot        = solidity.Slot("eligibility/blacklist")
	adjustedSupplySlot = solidity.Slot("eligibility/adjusted-total-supply")
)

// Entry is the blacklist state of an account. Amount is the share balance excluded from adjusted accounting.
type Entry struct {
	IsBlacklisted bool
	Amount        *big.Int
}

type Layer struct {
	book           *shares.Book
	ledger         *rewards.Ledger
	entries        *solidity.Mapping[thor.Address, *Entry]
	adjustedSupply *solidity.Uint256
}

func New(ctx *solidity.Context, book *shares.Book, ledger *rewards.Ledger) *Layer {
	return &Layer{
		book:           book,
		ledger:         ledger,
		entries:        solidity.NewMapping[thor.Address, *Entry](ctx, entriesSlot),
		adjustedSupply: solidity.NewUint256(ctx, adjustedSupplySlot),
	}
}

func (l *Layer) Entry(account thor.Address) (*Entry, error) {
	entry, err := l.entries.Get(account)
	if err != nil {
		return nil, err
	}
	if entry.Amount == nil {
		entry.Amount = new(big.Int)
	}
	return entry, nil
}

func (l *Layer) IsBlacklisted(account thor.Address) (bool, error) {
	entry, err := l.entries.Get(account)
	if err != nil {
		return false, err
	}
	return entry.IsBlacklisted, nil
}

func (l *Layer) AdjustedTotalSupply() (*big.Int, error) {
	return l.adjustedSupply.Get()
}

// AdjustedBalanceOf is the share balance counted for rewards, zero while blacklisted.
func (l *Layer) AdjustedBalanceOf(account thor.Address) (*big.Int, error) {
	blacklisted, err := l.IsBlacklisted(account)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return new(big.Int), nil
	}
	return l.book.BalanceOf(account)
}

// Mint mints shares and keeps adjusted accounting in sync.
func (l *Layer) Mint(account thor.Address, amount *big.Int) error {
	if err := l.book.Mint(account, amount); err != nil {
		return err
	}
	return l.applyDelta(account, amount)
}

// Burn burns shares and keeps adjusted accounting in sync.
func (l *Layer) Burn(account thor.Address, amount *big.Int) error {
	if err := l.book.Burn(account, amount); err != nil {
		return err
	}
	return l.applyDelta(account, new(big.Int).Neg(amount))
}

func (l *Layer) applyDelta(account thor.Address, delta *big.Int) error {
	entry, err := l.Entry(account)
	if err != nil {
		return err
	}
	if entry.IsBlacklisted {
		entry.Amount.Add(entry.Amount, delta)
		return errors.Wrap(l.entries.Set(account, entry), "failed to set blacklist entry")
	}
	if err := l.adjustedSupply.Add(delta); err != nil {
		return errors.Wrap(err, "failed to set adjusted total supply")
	}
	// the ledger takes the opposite sign: minted shares must not earn past rewards
	return l.ledger.CorrectPointsAll(account, new(big.Int).Neg(delta))
}

// Add blacklists account, freezing its accrual at the current value. It returns the excluded amount.
func (l *Layer) Add(account thor.Address) (*big.Int, error) {
	if account.IsZero() {
		return nil, reverts.NewValidation("eligibility: zero address")
	}
	entry, err := l.Entry(account)
	if err != nil {
		return nil, err
	}
	if entry.IsBlacklisted {
		return nil, reverts.NewState("eligibility: account already blacklisted")
	}
	balance, err := l.book.BalanceOf(account)
	if err != nil {
		return nil, err
	}
	if err := l.entries.Set(account, &Entry{IsBlacklisted: true, Amount: balance}); err != nil {
		return nil, errors.Wrap(err, "failed to set blacklist entry")
	}
	if err := l.adjustedSupply.Sub(balance); err != nil {
		return nil, errors.Wrap(err, "failed to set adjusted total supply")
	}
	if err := l.ledger.CorrectPointsAll(account, balance); err != nil {
		return nil, err
	}
	logger.Debug("blacklisted", "account", account, "amount", balance)
	return balance, nil
}

// Remove lifts the blacklist. Rewards allocated meanwhile are not earned.
func (l *Layer) Remove(account thor.Address) (*big.Int, error) {
	entry, err := l.Entry(account)
	if err != nil {
		return nil, err
	}
	if !entry.IsBlacklisted {
		return nil, reverts.NewState("eligibility: account not blacklisted")
	}
	if err := l.adjustedSupply.Add(entry.Amount); err != nil {
		return nil, errors.Wrap(err, "failed to set adjusted total supply")
	}
	if err := l.ledger.CorrectPointsAll(account, new(big.Int).Neg(entry.Amount)); err != nil {
		return nil, err
	}
	l.entries.Delete(account)
	logger.Debug("blacklist removed", "account", account, "amount", entry.Amount)
	return entry.Amount, nil
}
