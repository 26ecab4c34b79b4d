// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testchain runs a devnet deployment in memory with a controllable clock.
package testchain

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/token"
	"github.com/vechain/vault/builtin/vault"
	"github.com/vechain/vault/genesis"
	"github.com/vechain/vault/logdb"
	"github.com/vechain/vault/lvldb"
	"github.com/vechain/vault/runtime"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

// Chain is an in-memory runtime whose receipts are indexed into a logdb.
type Chain struct {
	db     *lvldb.LevelDB
	rt     *runtime.Runtime
	logDB  *logdb.LogDB
	spec   *genesis.Spec
	block  xenv.BlockContext
	minter thor.Address
}

// NewDefault creates a chain bootstrapped from the devnet spec.
func NewDefault() (*Chain, error) {
	return New(genesis.NewDevnet())
}

// New creates a chain bootstrapped from spec.
func New(spec *genesis.Spec) (*Chain, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		return nil, err
	}
	rt := runtime.New(db)
	if err := spec.Bind(rt); err != nil {
		return nil, err
	}
	receipt, err := spec.Initialize(rt)
	if err != nil {
		return nil, err
	}
	if err := logDB.Write(context.Background(), receipt); err != nil {
		return nil, err
	}
	return &Chain{
		db:     db,
		rt:     rt,
		logDB:  logDB,
		spec:   spec,
		block:  spec.Block(),
		minter: spec.Minter,
	}, nil
}

func (c *Chain) Runtime() *runtime.Runtime { return c.rt }
func (c *Chain) LogDB() *logdb.LogDB       { return c.logDB }
func (c *Chain) Spec() *genesis.Spec       { return c.spec }
func (c *Chain) Block() xenv.BlockContext  { return c.block }
func (c *Chain) Now() uint64               { return c.block.Time }

// Close releases the underlying databases.
func (c *Chain) Close() error {
	if err := c.logDB.Close(); err != nil {
		return err
	}
	return c.db.Close()
}

// Advance moves the clock forward by seconds. The next transaction lands in a new block.
func (c *Chain) Advance(seconds uint64) {
	c.block.Time += seconds
}

// Execute runs fn as a transaction of caller in the next block and indexes its receipt.
func (c *Chain) Execute(caller thor.Address, op string, fn func(env *xenv.Environment) error) (*runtime.Receipt, error) {
	block := xenv.BlockContext{Number: c.block.Number + 1, Time: c.block.Time}
	receipt, err := c.rt.Execute(block, caller, op, fn)
	if err != nil {
		return nil, err
	}
	c.block = block
	if err := c.logDB.Write(context.Background(), receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// View runs fn against the current state.
func (c *Chain) View(fn func(env *xenv.Environment) error) error {
	return c.rt.View(fn)
}

// Vault returns the vault bound at addr.
func (c *Chain) Vault(addr thor.Address) (*vault.Vault, error) {
	v, ok := c.rt.Vault(addr)
	if !ok {
		return nil, errors.Errorf("no vault at %v", addr)
	}
	return v, nil
}

// Token returns the builtin token bound at addr.
func (c *Chain) Token(addr thor.Address) (*token.Token, error) {
	var tok *token.Token
	err := c.View(func(*xenv.Environment) error {
		t, err := c.rt.Token(addr)
		if err != nil {
			return err
		}
		var ok bool
		if tok, ok = t.(*token.Token); !ok {
			return errors.Errorf("token %v is not a builtin token", addr)
		}
		return nil
	})
	return tok, err
}

// Mint credits amount of the token at addr to the account.
func (c *Chain) Mint(addr, to thor.Address, amount *big.Int) error {
	tok, err := c.Token(addr)
	if err != nil {
		return err
	}
	_, err = c.Execute(c.minter, "mint", func(env *xenv.Environment) error {
		return tok.Mint(env, to, amount)
	})
	return err
}

// Approve lets spender pull amount of the token at addr from owner.
func (c *Chain) Approve(addr, owner, spender thor.Address, amount *big.Int) error {
	tok, err := c.Token(addr)
	if err != nil {
		return err
	}
	_, err = c.Execute(owner, "approve", func(env *xenv.Environment) error {
		return tok.Approve(env, spender, amount)
	})
	return err
}

// BalanceOf reads the balance of account in the token at addr.
func (c *Chain) BalanceOf(addr, account thor.Address) (*big.Int, error) {
	var bal *big.Int
	err := c.View(func(env *xenv.Environment) error {
		t, err := c.rt.Token(addr)
		if err != nil {
			return err
		}
		bal, err = t.BalanceOf(env, account)
		return err
	})
	return bal, err
}
