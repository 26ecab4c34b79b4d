// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/thor"
)

// Context binds storage helpers to the storage space of one contract.
type Context struct {
	address thor.Address
	state   *state.State
}

func NewContext(address thor.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Slot derives a storage position from a name, the same way named slots are declared in builtin contracts.
func Slot(name string) thor.Bytes32 {
	return thor.Blake2b([]byte(name))
}
