// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/api/events"
	"github.com/vechain/vault/genesis"
	"github.com/vechain/vault/logdb"
	"github.com/vechain/vault/test/testchain"
)

func setup(t *testing.T, limit uint64) *httptest.Server {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(func() { chain.Close() })

	router := mux.NewRouter()
	events.New(chain.LogDB(), limit).Mount(router, "/logs/event")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url string, body any) (int, []*logdb.Event) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	var out []*logdb.Event
	if res.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	}
	return res.StatusCode, out
}

func TestFilter(t *testing.T) {
	ts := setup(t, 100)
	url := ts.URL + "/logs/event"
	token := genesis.DevToken

	code, evs := post(t, url, &events.EventFilter{Address: &token, Name: "Transfer"})
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, evs, len(genesis.DevAccounts()))
	for _, ev := range evs {
		assert.Equal(t, token, ev.Address)
		assert.Equal(t, "genesis", ev.Op)
	}

	code, desc := post(t, url, &events.EventFilter{
		Address: &token,
		Name:    "Transfer",
		Order:   logdb.DESC,
		Options: &events.Options{Offset: 1, Limit: 2},
	})
	require.Equal(t, http.StatusOK, code)
	require.Len(t, desc, 2)
	assert.Equal(t, evs[len(evs)-2].Seq, desc[0].Seq)

	from := uint64(1)
	code, evs = post(t, url, &events.EventFilter{Range: &events.Range{Unit: "block", From: &from}})
	require.Equal(t, http.StatusOK, code)
	assert.NotNil(t, evs)
	assert.Empty(t, evs)
}

func TestFilterErrors(t *testing.T) {
	ts := setup(t, 5)
	url := ts.URL + "/logs/event"
	token := genesis.DevToken
	from, to := uint64(2), uint64(1)

	tests := []struct {
		name   string
		filter *events.EventFilter
		code   int
	}{
		{"too many results", &events.EventFilter{Address: &token}, http.StatusForbidden},
		{"limit too large", &events.EventFilter{Options: &events.Options{Limit: 6}}, http.StatusForbidden},
		{"unknown order", &events.EventFilter{Order: "sideways"}, http.StatusBadRequest},
		{"unknown unit", &events.EventFilter{Range: &events.Range{Unit: "epoch"}}, http.StatusBadRequest},
		{"inverted range", &events.EventFilter{Range: &events.Range{From: &from, To: &to}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := post(t, url, tt.filter)
			assert.Equal(t, tt.code, code)
		})
	}

	res, err := http.Post(url, "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
