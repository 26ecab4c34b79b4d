// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves the operator endpoints.
package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/vault/api/admin/apilogs"
	"github.com/vechain/vault/api/admin/health"
	"github.com/vechain/vault/api/admin/loglevel"
)

func New(logLevel *slog.LevelVar, apiLogsToggle *atomic.Bool, h *health.Health) http.HandlerFunc {
	router := mux.NewRouter()
	subRouter := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(subRouter, "/loglevel")
	apilogs.New(apiLogsToggle).Mount(subRouter, "/apilogs")
	health.NewAPI(h).Mount(subRouter, "/health")

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
