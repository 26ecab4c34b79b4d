// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/vechain/vault/cache"
	"github.com/vechain/vault/kv"
	"github.com/vechain/vault/stackedmap"
	"github.com/vechain/vault/thor"
)

const (
	storageBucket = kv.Bucket("s")

	cacheSize = 16384
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k storageKey) dbKey() []byte {
	return append(append(make([]byte, 0, thor.AddressLength+32), k.addr[:]...), k.key[:]...)
}

// State manages the storage of all contracts.
type State struct {
	store kv.Store
	cache *cache.LRU
	sm    *stackedmap.StackedMap[storageKey, []byte]
}

// New create state object over the kv store.
func New(store kv.Store) *State {
	lru, _ := cache.NewLRU(cacheSize)
	s := &State{
		store: storageBucket.NewStore(store),
		cache: lru,
	}
	s.reset()
	return s
}

func (s *State) reset() {
	s.sm = stackedmap.New(s.load)
	// base level collecting all uncommitted changes
	s.sm.Push()
}

// load implements stackedmap.MapGetter.
func (s *State) load(key storageKey) ([]byte, bool, error) {
	v, err := s.cache.GetOrLoad(key, func(any) (any, error) {
		raw, err := s.store.Get(key.dbKey())
		if err != nil {
			if s.store.IsNotFound(err) {
				return []byte(nil), nil
			}
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), true, nil
}

// GetRawStorage returns the raw storage value of the given contract slot.
// An empty value means the slot was never written or was cleared.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) ([]byte, error) {
	raw, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return raw, nil
}

// SetRawStorage sets the raw storage value. An empty value clears the slot.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw []byte) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 1 {
		panic("invalid revision")
	}
	s.sm.PopTo(revision)
}

// Commit writes all changes since the last commit into the kv store atomically.
// Open checkpoints are discarded.
func (s *State) Commit() error {
	changes := make(map[storageKey][]byte)
	s.sm.Journal(func(key storageKey, value []byte) bool {
		changes[key] = value
		return true
	})

	bulk := s.store.Bulk()
	for key, value := range changes {
		var err error
		if len(value) == 0 {
			err = bulk.Delete(key.dbKey())
		} else {
			err = bulk.Put(key.dbKey(), value)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}

	for key, value := range changes {
		s.cache.Add(key, value)
	}
	s.reset()
	return nil
}
