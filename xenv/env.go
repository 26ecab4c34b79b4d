// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/thor"
)

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// Event is an observable record emitted by a contract.
type Event interface {
	Name() string
}

// Log is an event together with the contract that emitted it.
type Log struct {
	Address thor.Address
	Event   Event
}

// Environment an env to execute a contract method.
// Nested calls share state, block context and the log of the outermost call.
type Environment struct {
	state    *state.State
	blockCtx *BlockContext
	caller   thor.Address
	logs     *[]Log
}

// New create a new env.
func New(state *state.State, blockCtx *BlockContext, caller thor.Address) *Environment {
	return &Environment{
		state:    state,
		blockCtx: blockCtx,
		caller:   caller,
		logs:     new([]Log),
	}
}

func (env *Environment) State() *state.State         { return env.state }
func (env *Environment) BlockContext() *BlockContext { return env.blockCtx }
func (env *Environment) Caller() thor.Address        { return env.caller }

// Now returns the block time, the only clock contracts may read.
func (env *Environment) Now() uint64 { return env.blockCtx.Time }

// WithCaller derives the env of a nested call made by the given contract.
func (env *Environment) WithCaller(caller thor.Address) *Environment {
	return &Environment{
		state:    env.state,
		blockCtx: env.blockCtx,
		caller:   caller,
		logs:     env.logs,
	}
}

// Log records an event emitted by the contract at address.
func (env *Environment) Log(address thor.Address, event Event) {
	*env.logs = append(*env.logs, Log{Address: address, Event: event})
}

// Logs returns the events emitted so far by the call tree.
func (env *Environment) Logs() []Log {
	return *env.logs
}

// Truncate drops events emitted after the log had n entries.
func (env *Environment) Truncate(n int) {
	*env.logs = (*env.logs)[:n]
}
