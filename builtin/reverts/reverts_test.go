// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestRevertKinds(t *testing.T) {
	err := NewState("too soon")
	wrapped := errors.Wrap(err, "withdraw")

	assert.True(t, IsRevertErr(wrapped))
	assert.Equal(t, State, KindOf(wrapped))
	assert.Equal(t, "too soon", err.Error())
	assert.ErrorIs(t, wrapped, NewState("too soon"))
	assert.NotErrorIs(t, wrapped, NewValidation("too soon"))

	plain := errors.New("disk failure")
	assert.False(t, IsRevertErr(plain))
	assert.Equal(t, Kind(0), KindOf(plain))
	assert.Equal(t, "unknown", KindOf(plain).String())
	assert.Equal(t, "transfer", NewTransfer("x").Kind().String())
	assert.Equal(t, "authorization", Newf(Authorization, "missing %s", "role").Kind().String())
}
