// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package access implements role based access control for builtin contracts.
package access

import (
	"github.com/vechain/vault/builtin/events"
	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

// AdminRole administers every role, including itself.
var AdminRole = thor.Blake2b([]byte("ADMIN_ROLE"))

var rolesSlot = solidity.Slot("roles")

func roleKey(role thor.Bytes32, account thor.Address) thor.Bytes32 {
	return thor.Blake2b(role.Bytes(), account.Bytes())
}

type Control struct {
	addr  thor.Address
	roles *solidity.Mapping[thor.Bytes32, bool]
}

func New(ctx *solidity.Context) *Control {
	return &Control{
		addr:  ctx.Address(),
		roles: solidity.NewMapping[thor.Bytes32, bool](ctx, rolesSlot),
	}
}

func (c *Control) HasRole(role thor.Bytes32, account thor.Address) (bool, error) {
	return c.roles.Get(roleKey(role, account))
}

// CheckRole fails with an authorization revert unless account holds role.
func (c *Control) CheckRole(role thor.Bytes32, account thor.Address) error {
	ok, err := c.HasRole(role, account)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.Newf(reverts.Authorization, "access: account %v is missing role %v", account, role.AbbrevString())
	}
	return nil
}

// Setup grants role without checks. It is a bootstrap operation.
func (c *Control) Setup(env *xenv.Environment, role thor.Bytes32, account thor.Address) error {
	return c.grant(env, role, account)
}

func (c *Control) GrantRole(env *xenv.Environment, role thor.Bytes32, account thor.Address) error {
	if err := c.CheckRole(AdminRole, env.Caller()); err != nil {
		return err
	}
	return c.grant(env, role, account)
}

func (c *Control) RevokeRole(env *xenv.Environment, role thor.Bytes32, account thor.Address) error {
	if err := c.CheckRole(AdminRole, env.Caller()); err != nil {
		return err
	}
	ok, err := c.HasRole(role, account)
	if err != nil || !ok {
		return err
	}
	c.roles.Delete(roleKey(role, account))
	env.Log(c.addr, events.RoleRevoked{Role: role, Account: account, Sender: env.Caller()})
	return nil
}

func (c *Control) grant(env *xenv.Environment, role thor.Bytes32, account thor.Address) error {
	if account.IsZero() {
		return reverts.NewValidation("access: zero address")
	}
	ok, err := c.HasRole(role, account)
	if err != nil || ok {
		return err
	}
	if err := c.roles.Set(roleKey(role, account), true); err != nil {
		return err
	}
	env.Log(c.addr, events.RoleGranted{Role: role, Account: account, Sender: env.Caller()})
	return nil
}
