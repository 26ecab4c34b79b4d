// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/vault/thor"
)

type testEvent string

func (e testEvent) Name() string { return string(e) }

func TestNestedCallsShareLog(t *testing.T) {
	env := New(nil, &BlockContext{Number: 1, Time: 100}, thor.Address{1})
	assert.Equal(t, uint64(100), env.Now())
	assert.Equal(t, thor.Address{1}, env.Caller())

	env.Log(thor.Address{9}, testEvent("outer"))

	nested := env.WithCaller(thor.Address{9})
	assert.Equal(t, thor.Address{9}, nested.Caller())
	assert.Equal(t, uint32(1), nested.BlockContext().Number)
	nested.Log(thor.Address{8}, testEvent("inner"))

	logs := env.Logs()
	assert.Len(t, logs, 2)
	assert.Equal(t, "inner", logs[1].Event.Name())
	assert.Equal(t, thor.Address{8}, logs[1].Address)

	env.Truncate(1)
	assert.Len(t, nested.Logs(), 1)
}
