// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package badges

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/builtin/badge"
	"github.com/vechain/vault/builtin/contracts"
	"github.com/vechain/vault/builtin/events"
	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/lvldb"
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

var (
	minter = thor.Address{0xff}
	alice  = thor.Address{1}
	bob    = thor.Address{2}
	carol  = thor.Address{3}
)

type directory struct {
	badges map[thor.Address]*badge.Badge
}

func (d *directory) Token(thor.Address) (contracts.Token, error) {
	return nil, errors.New("not supported")
}

func (d *directory) EscrowTarget(thor.Address) (contracts.EscrowTarget, error) {
	return nil, errors.New("not supported")
}

func (d *directory) BadgeToken(addr thor.Address) (contracts.BadgeToken, error) {
	if b, ok := d.badges[addr]; ok {
		return b, nil
	}
	return nil, reverts.NewValidation("unknown badge")
}

func newRegistry(t *testing.T) (*Registry, *badge.Badge, *xenv.Environment) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)

	b := badge.New(thor.Address{0xbb}, st)
	b.SetMinter(minter)
	dir := &directory{badges: map[thor.Address]*badge.Badge{b.Address(): b}}
	env := xenv.New(st, &xenv.BlockContext{Time: 100}, minter)
	return New(solidity.NewContext(thor.Address{0xee}, st), dir), b, env
}

func multiplier(t *testing.T, r *Registry, env *xenv.Environment, account thor.Address) *big.Int {
	m, err := r.Multiplier(env, account)
	require.NoError(t, err)
	return m
}

func TestBadgeWeights(t *testing.T) {
	r, b, env := newRegistry(t)
	id := big.NewInt(1)

	require.NoError(t, r.AddBadge(env, b.Address(), id, big.NewInt(5e17)))
	assert.Equal(t, reverts.State, reverts.KindOf(r.AddBadge(env, b.Address(), id, big.NewInt(1))))
	assert.Equal(t, reverts.State, reverts.KindOf(r.UpdateBadge(env, b.Address(), big.NewInt(2), big.NewInt(1))))

	require.NoError(t, r.UpdateBadge(env, b.Address(), id, big.NewInt(3e17)))
	w, err := r.Weight(b.Address(), id)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3e17), w)

	logs := env.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "BadgeAdded", logs[0].Event.Name())
	assert.Equal(t, events.BadgeUpdated{Badge: b.Address(), ID: big.NewInt(1), Weight: big.NewInt(3e17)}, logs[1].Event)
}

func TestDelegation(t *testing.T) {
	r, b, env := newRegistry(t)
	id := big.NewInt(1)
	require.NoError(t, r.AddBadge(env, b.Address(), id, big.NewInt(5e17)))
	require.NoError(t, r.AddBadge(env, b.Address(), big.NewInt(2), big.NewInt(2e17)))

	err := r.Delegate(env, alice, b.Address(), id, bob)
	assert.Equal(t, reverts.Authorization, reverts.KindOf(err), "alice holds nothing")

	require.NoError(t, b.Mint(env, alice, id, big.NewInt(1)))
	require.NoError(t, b.Mint(env, alice, big.NewInt(2), big.NewInt(1)))
	require.NoError(t, r.Delegate(env, alice, b.Address(), id, bob))
	require.NoError(t, r.Delegate(env, alice, b.Address(), big.NewInt(2), bob))
	assert.Equal(t, big.NewInt(7e17), multiplier(t, r, env, bob))

	// first delegation wins forever
	err = r.Delegate(env, alice, b.Address(), id, carol)
	assert.Equal(t, reverts.State, reverts.KindOf(err))

	d, err := r.Delegation(b.Address(), id)
	require.NoError(t, err)
	assert.Equal(t, alice, d.Owner)
	assert.Equal(t, bob, d.Delegate)

	// disposing of the badge zeroes its contribution
	require.NoError(t, b.Transfer(env.WithCaller(alice), carol, id, big.NewInt(1)))
	assert.Equal(t, big.NewInt(2e17), multiplier(t, r, env, bob))

	require.NoError(t, r.AddIneligible(env, bob))
	assert.Equal(t, 0, multiplier(t, r, env, bob).Sign())
	require.NoError(t, r.RemoveIneligible(env, bob))
	assert.Equal(t, big.NewInt(2e17), multiplier(t, r, env, bob))

	assert.Equal(t, reverts.Validation, reverts.KindOf(r.Delegate(env, carol, b.Address(), id, thor.Address{})))
	assert.Equal(t, reverts.Validation, reverts.KindOf(r.Delegate(env, carol, thor.Address{0x99}, id, bob)))
}
