// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/kv"
)

func TestLevelDB(t *testing.T) {
	persistent, err := New(filepath.Join(t.TempDir(), "db"), Options{16, 16})
	require.NoError(t, err)
	t.Cleanup(func() { persistent.Close() })

	mem, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { mem.Close() })

	var (
		key        = []byte("123")
		value      = []byte("456")
		invalidKey = []byte("abc")
	)

	for _, db := range []*LevelDB{persistent, mem} {
		require.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		require.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		require.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(invalidKey)
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")

	db, err := New(path, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))

	// the lock is held while open
	_, err = New(path, Options{})
	assert.Error(t, err)

	require.NoError(t, db.Close())

	db, err = New(path, Options{})
	require.NoError(t, err)
	defer db.Close()
	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestBulkAndIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bulk := db.Bulk()
	require.NoError(t, bulk.Put([]byte("a1"), []byte("1")))
	require.NoError(t, bulk.Put([]byte("a2"), []byte("2")))
	require.NoError(t, bulk.Put([]byte("b1"), []byte("3")))
	assert.Equal(t, 3, bulk.Len())

	// nothing visible before write
	has, err := db.Has([]byte("a1"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, bulk.Write())

	store := kv.Bucket("a").NewStore(db)
	it := store.Iterate(kv.Range{})
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"1", "2"}, keys)
}
