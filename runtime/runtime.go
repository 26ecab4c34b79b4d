// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes vault transactions one at a time over a shared state.
package runtime

import (
	"bytes"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/badge"
	"github.com/vechain/vault/builtin/contracts"
	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/token"
	"github.com/vechain/vault/builtin/vault"
	"github.com/vechain/vault/kv"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/metrics"
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

var logger = log.WithContext("pkg", "runtime")

var (
	metricTxCount    = metrics.LazyLoadCounterVec("tx_count", []string{"op", "status"})
	metricTxDuration = metrics.LazyLoadHistogramVec("tx_duration_us", []string{"op"}, metrics.BucketExecution)
)

// Runtime is the single serialized executor of all contracts sharing one state.
// Every transaction runs inside a state checkpoint and either applies all of its
// effects or none.
type Runtime struct {
	mu    sync.Mutex
	state *state.State
	block xenv.BlockContext

	tokens map[thor.Address]contracts.Token
	badges map[thor.Address]contracts.BadgeToken
	vaults map[thor.Address]*vault.Vault
}

// New create a Runtime over the kv store.
func New(store kv.Store) *Runtime {
	return &Runtime{
		state:  state.New(store),
		tokens: make(map[thor.Address]contracts.Token),
		badges: make(map[thor.Address]contracts.BadgeToken),
		vaults: make(map[thor.Address]*vault.Vault),
	}
}

// Block returns the context of the last executed block.
func (rt *Runtime) Block() xenv.BlockContext {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.block
}

// AddToken registers a token implementation.
func (rt *Runtime) AddToken(t contracts.Token) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.tokens[t.Address()] = t
}

// NewToken binds a builtin token at addr.
func (rt *Runtime) NewToken(addr thor.Address, symbol string) *token.Token {
	t := token.New(addr, symbol, rt.state)
	rt.AddToken(t)
	return t
}

// NewBadge binds a builtin badge token at addr.
func (rt *Runtime) NewBadge(addr thor.Address) *badge.Badge {
	b := badge.New(addr, rt.state)
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.badges[addr] = b
	return b
}

// NewVault binds a vault at addr. A vault is also an escrow target for other vaults.
func (rt *Runtime) NewVault(addr thor.Address, cfg vault.Config) (*vault.Vault, error) {
	v, err := vault.New(addr, rt.state, cfg, rt)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if _, ok := rt.vaults[addr]; ok {
		return nil, errors.Errorf("vault %v already exists", addr)
	}
	rt.vaults[addr] = v
	return v, nil
}

// Vault returns the vault at addr.
func (rt *Runtime) Vault(addr thor.Address) (*vault.Vault, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	v, ok := rt.vaults[addr]
	return v, ok
}

// Vaults lists vault addresses in ascending order.
func (rt *Runtime) Vaults() []thor.Address {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	addrs := make([]thor.Address, 0, len(rt.vaults))
	for addr := range rt.vaults {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})
	return addrs
}

// Directory lookups run inside transactions, the runtime lock is already held.

// Token implements contracts.Directory.
func (rt *Runtime) Token(addr thor.Address) (contracts.Token, error) {
	if t, ok := rt.tokens[addr]; ok {
		return t, nil
	}
	return nil, reverts.Newf(reverts.Validation, "unknown token %v", addr)
}

// BadgeToken implements contracts.Directory.
func (rt *Runtime) BadgeToken(addr thor.Address) (contracts.BadgeToken, error) {
	if b, ok := rt.badges[addr]; ok {
		return b, nil
	}
	return nil, reverts.Newf(reverts.Validation, "unknown badge token %v", addr)
}

// EscrowTarget implements contracts.Directory.
func (rt *Runtime) EscrowTarget(addr thor.Address) (contracts.EscrowTarget, error) {
	if v, ok := rt.vaults[addr]; ok {
		return v, nil
	}
	return nil, reverts.Newf(reverts.Validation, "unknown escrow target %v", addr)
}

// Execute runs fn as one transaction sent by caller in the given block.
// On error every state change and event of the transaction is discarded.
func (rt *Runtime) Execute(block xenv.BlockContext, caller thor.Address, op string, fn func(env *xenv.Environment) error) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if block.Number < rt.block.Number || block.Time < rt.block.Time {
		return nil, errors.Errorf("block %d at %d is behind the current block %d at %d", block.Number, block.Time, rt.block.Number, rt.block.Time)
	}
	rt.block = block

	start := time.Now()
	checkpoint := rt.state.NewCheckpoint()
	env := xenv.New(rt.state, &block, caller)
	err := fn(env)
	metricTxDuration().ObserveWithLabels(time.Since(start).Microseconds(), map[string]string{"op": op})

	if err != nil {
		rt.state.RevertTo(checkpoint)
		status := "reverted"
		if !reverts.IsRevertErr(err) {
			status = "failed"
			logger.Error("transaction failed", "op", op, "caller", caller, "err", err)
		} else {
			logger.Debug("transaction reverted", "op", op, "caller", caller, "err", err)
		}
		metricTxCount().AddWithLabel(1, map[string]string{"op": op, "status": status})
		return nil, err
	}
	metricTxCount().AddWithLabel(1, map[string]string{"op": op, "status": "ok"})
	return newReceipt(op, caller, block, env.Logs()), nil
}

// View runs fn against the current state in the last block. Changes made by fn are discarded.
func (rt *Runtime) View(fn func(env *xenv.Environment) error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	checkpoint := rt.state.NewCheckpoint()
	defer rt.state.RevertTo(checkpoint)

	block := rt.block
	return fn(xenv.New(rt.state, &block, thor.Address{}))
}

// Commit persists all executed transactions.
func (rt *Runtime) Commit() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.state.Commit()
}
