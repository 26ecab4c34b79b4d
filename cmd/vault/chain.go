// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/vault/builtin/vault"
	"github.com/vechain/vault/genesis"
	"github.com/vechain/vault/kv"
	"github.com/vechain/vault/logdb"
	"github.com/vechain/vault/runtime"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

const defaultCommitInterval = 10 * time.Second

var (
	metaBucket = kv.Bucket("m")
	genesisKey = []byte("genesis")
	blockKey   = []byte("block")
)

// chain drives the runtime block by block and keeps its receipts indexed.
type chain struct {
	rt    *runtime.Runtime
	logDB *logdb.LogDB // nil when logs are skipped
	meta  kv.Store
	now   func() uint64

	mu     sync.Mutex
	block  xenv.BlockContext
	offset uint64
}

// newChain binds spec over store and seeds it on first use. A store seeded by
// a different spec is rejected.
func newChain(store kv.Store, logDB *logdb.LogDB, spec *genesis.Spec, now func() uint64) (*chain, error) {
	c := &chain{
		rt:    runtime.New(store),
		logDB: logDB,
		meta:  metaBucket.NewStore(store),
		now:   now,
	}
	if err := spec.Bind(c.rt); err != nil {
		return nil, err
	}

	id, err := specID(spec)
	if err != nil {
		return nil, err
	}
	stored, err := c.meta.Get(genesisKey)
	if err != nil && !c.meta.IsNotFound(err) {
		return nil, errors.Wrap(err, "read genesis id")
	}
	if stored != nil {
		if thor.BytesToBytes32(stored) != id {
			return nil, errors.Errorf("data dir was initialized by genesis %v, not %v", thor.BytesToBytes32(stored), id)
		}
		data, err := c.meta.Get(blockKey)
		if err != nil {
			return nil, errors.Wrap(err, "read last block")
		}
		c.block = decodeBlock(data)
		logger.Info("chain loaded", "genesis", id, "block", c.block.Number, "time", c.block.Time)
		return c, nil
	}

	receipt, err := spec.Initialize(c.rt)
	if err != nil {
		return nil, errors.Wrap(err, "initialize genesis")
	}
	if err := c.index(receipt); err != nil {
		return nil, err
	}
	c.block = spec.Block()
	if err := c.Commit(); err != nil {
		return nil, err
	}
	if err := c.meta.Put(genesisKey, id.Bytes()); err != nil {
		return nil, errors.Wrap(err, "write genesis id")
	}
	logger.Info("chain initialized", "genesis", id)
	return c, nil
}

func specID(spec *genesis.Spec) (thor.Bytes32, error) {
	data, err := yaml.Marshal(spec)
	if err != nil {
		return thor.Bytes32{}, errors.Wrap(err, "encode genesis")
	}
	return thor.Blake2b(data), nil
}

func encodeBlock(b xenv.BlockContext) []byte {
	var data [12]byte
	binary.BigEndian.PutUint32(data[:4], b.Number)
	binary.BigEndian.PutUint64(data[4:], b.Time)
	return data[:]
}

func decodeBlock(data []byte) xenv.BlockContext {
	if len(data) != 12 {
		return xenv.BlockContext{}
	}
	return xenv.BlockContext{
		Number: binary.BigEndian.Uint32(data[:4]),
		Time:   binary.BigEndian.Uint64(data[4:]),
	}
}

func (c *chain) Runtime() *runtime.Runtime { return c.rt }

// Block returns the last executed block.
func (c *chain) Block() xenv.BlockContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.block
}

// Advance moves the chain clock forward.
func (c *chain) Advance(seconds uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset += seconds
}

// Execute runs fn as a transaction of caller in a new block.
func (c *chain) Execute(caller thor.Address, op string, fn func(env *xenv.Environment) error) (*runtime.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	block := xenv.BlockContext{
		Number: c.block.Number + 1,
		Time:   max(c.block.Time, c.now()+c.offset),
	}
	receipt, err := c.rt.Execute(block, caller, op, fn)
	if err != nil {
		return nil, err
	}
	c.block = block
	if err := c.index(receipt); err != nil {
		logger.Error("failed to index receipt", "op", op, "block", block.Number, "err", err)
	}
	return receipt, nil
}

func (c *chain) index(receipt *runtime.Receipt) error {
	if c.logDB == nil {
		return nil
	}
	return errors.Wrap(c.logDB.Write(context.Background(), receipt), "write logs")
}

// Vault returns the vault bound at addr.
func (c *chain) Vault(addr thor.Address) (*vault.Vault, error) {
	v, ok := c.rt.Vault(addr)
	if !ok {
		return nil, errors.Errorf("no vault at %v", addr)
	}
	return v, nil
}

// Commit persists the state and the last block.
func (c *chain) Commit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.rt.Commit(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	return errors.Wrap(c.meta.Put(blockKey, encodeBlock(c.block)), "write last block")
}

// commitLoop commits on every tick until ctx is done, then commits once more.
func (c *chain) commitLoop(ctx context.Context, interval time.Duration, done func(error)) error {
	if interval <= 0 {
		interval = defaultCommitInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			err := c.Commit()
			done(err)
			return err
		case <-ticker.C:
			err := c.Commit()
			done(err)
			if err != nil {
				logger.Error("failed to commit", "err", err)
			}
		}
	}
}
