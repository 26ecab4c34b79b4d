// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errNotFound = errors.New("not found")

type mem map[string]string

func (m mem) Get(k []byte) ([]byte, error) {
	if v, ok := m[string(k)]; ok {
		return []byte(v), nil
	}
	return nil, errNotFound
}

func (m mem) Has(k []byte) (bool, error) {
	_, ok := m[string(k)]
	return ok, nil
}

func (m mem) Put(k, v []byte) error {
	m[string(k)] = string(v)
	return nil
}

func (m mem) Delete(k []byte) error {
	delete(m, string(k))
	return nil
}

func (m mem) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

func TestBucketGetter(t *testing.T) {
	m := mem{"s1": "v1", "s2": "v2", "x1": "other"}

	tests := []struct {
		b     Bucket
		key   string
		want  string
		found bool
	}{
		{Bucket(""), "s1", "v1", true},
		{Bucket("s"), "1", "v1", true},
		{Bucket("s"), "2", "v2", true},
		{Bucket("s"), "s1", "", false},
		{Bucket("x"), "1", "other", true},
		{Bucket("s1"), "", "v1", true},
	}
	for _, tt := range tests {
		getter := tt.b.NewGetter(m)
		got, err := getter.Get([]byte(tt.key))
		has, _ := getter.Has([]byte(tt.key))
		assert.Equal(t, tt.found, has, "bucket %q key %q", tt.b, tt.key)
		if tt.found {
			assert.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		} else {
			assert.True(t, getter.IsNotFound(err))
		}
	}
}

func TestBucketPutter(t *testing.T) {
	m := mem{}
	putter := Bucket("vault").NewPutter(m)

	assert.NoError(t, putter.Put([]byte("k"), []byte("v")))
	assert.Equal(t, mem{"vaultk": "v"}, m)

	assert.NoError(t, putter.Delete([]byte("k")))
	assert.Empty(t, m)
}
