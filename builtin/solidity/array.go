// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/vault/thor"
)

// Array is a dynamic array stored like a Solidity dynamic array: the length lives at the base
// position and elements are addressed by hashing the base position with the index.
type Array[V any] struct {
	context *Context
	basePos thor.Bytes32
	length  *Uint256
}

func NewArray[V any](context *Context, pos thor.Bytes32) *Array[V] {
	return &Array[V]{
		context: context,
		basePos: pos,
		length:  NewUint256(context, pos),
	}
}

func (a *Array[V]) position(index uint64) thor.Bytes32 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], index)
	return thor.Blake2b(a.basePos.Bytes(), b[:])
}

func (a *Array[V]) Len() (uint64, error) {
	length, err := a.length.Get()
	if err != nil {
		return 0, err
	}
	return length.Uint64(), nil
}

func (a *Array[V]) get(index uint64) (value V, err error) {
	err = a.context.state.DecodeStorage(a.context.address, a.position(index), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (a *Array[V]) set(index uint64, value V) error {
	return a.context.state.EncodeStorage(a.context.address, a.position(index), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Get returns the element at index, failing when the index is out of range.
func (a *Array[V]) Get(index uint64) (value V, err error) {
	length, err := a.Len()
	if err != nil {
		return value, err
	}
	if index >= length {
		return value, errors.Errorf("array: index %d out of range [0, %d)", index, length)
	}
	return a.get(index)
}

func (a *Array[V]) Set(index uint64, value V) error {
	length, err := a.Len()
	if err != nil {
		return err
	}
	if index >= length {
		return errors.Errorf("array: index %d out of range [0, %d)", index, length)
	}
	return a.set(index, value)
}

func (a *Array[V]) Push(value V) error {
	length, err := a.Len()
	if err != nil {
		return err
	}
	if err := a.set(length, value); err != nil {
		return err
	}
	return a.length.Set(new(big.Int).SetUint64(length + 1))
}

// Pop removes and returns the last element.
func (a *Array[V]) Pop() (value V, err error) {
	length, err := a.Len()
	if err != nil {
		return value, err
	}
	if length == 0 {
		return value, errors.New("array: pop from empty array")
	}
	if value, err = a.get(length - 1); err != nil {
		return value, err
	}
	a.context.state.SetRawStorage(a.context.address, a.position(length-1), nil)
	return value, a.length.Set(new(big.Int).SetUint64(length - 1))
}

// SwapRemove moves the last element into index and pops. Indices of other elements
// are stable except for the former last element which now lives at index.
func (a *Array[V]) SwapRemove(index uint64) (removed V, err error) {
	length, err := a.Len()
	if err != nil {
		return removed, err
	}
	if index >= length {
		return removed, errors.Errorf("array: index %d out of range [0, %d)", index, length)
	}
	if removed, err = a.get(index); err != nil {
		return removed, err
	}
	last, err := a.Pop()
	if err != nil {
		return removed, err
	}
	if index != length-1 {
		if err := a.set(index, last); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// All returns every element in index order.
func (a *Array[V]) All() ([]V, error) {
	length, err := a.Len()
	if err != nil {
		return nil, err
	}
	values := make([]V, 0, length)
	for i := range length {
		v, err := a.get(i)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
