// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deposits

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/lvldb"
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/thor"
)

func TestRepository(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	repo := New(solidity.NewContext(thor.Address{0xee}, state.New(db)))

	alice, bob := thor.Address{1}, thor.Address{2}
	for i := range 3 {
		id, err := repo.Append(alice, Deposit{Amount: thor.Units(int64(i + 1)), Start: 10, End: 20 + uint64(i)})
		require.NoError(t, err)
		assert.Equal(t, uint64(i), id)
	}
	_, err = repo.Append(bob, Deposit{Amount: thor.Units(9), Start: 10, End: 5})
	assert.Equal(t, reverts.Validation, reverts.KindOf(err))

	n, err := repo.Count(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
	n, err = repo.Count(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	total, err := repo.TotalDeposited(alice)
	require.NoError(t, err)
	assert.Equal(t, thor.Units(6), total)

	d, err := repo.Get(alice, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), d.Duration())
	assert.Equal(t, 0, d.BadgeBoost.Sign())

	_, err = repo.Get(alice, 3)
	assert.ErrorIs(t, err, ErrNotExist)

	// removing id 0 moves the last deposit into position 0
	removed, err := repo.Remove(alice, 0)
	require.NoError(t, err)
	assert.Equal(t, thor.Units(1), removed.Amount)

	list, err := repo.List(alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, thor.Units(3), list[0].Amount)
	assert.Equal(t, thor.Units(2), list[1].Amount)

	_, err = repo.Remove(alice, 2)
	assert.ErrorIs(t, err, ErrNotExist)

	_, err = repo.Remove(alice, 1)
	require.NoError(t, err)
	_, err = repo.Remove(alice, 0)
	require.NoError(t, err)
	total, err = repo.TotalDeposited(alice)
	require.NoError(t, err)
	assert.Equal(t, 0, total.Cmp(new(big.Int)))
}
