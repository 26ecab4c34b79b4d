// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves the read side of the vaults over http.
package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/vault/api/events"
	"github.com/vechain/vault/api/middleware"
	"github.com/vechain/vault/api/tokens"
	"github.com/vechain/vault/api/vaults"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/logdb"
	"github.com/vechain/vault/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	PprofOn              bool
	SkipLogs             bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	LogsLimit            uint64
}

// New return api router
func New(rt *runtime.Runtime, logDB *logdb.LogDB, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	vaults.New(rt).
		Mount(router, "/vaults")
	tokens.New(rt).
		Mount(router, "/tokens")
	if !opts.SkipLogs {
		events.New(logDB, opts.LogsLimit).
			Mount(router, "/logs/event")
	}

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
	)(handler)

	if opts.EnableReqLogger != nil {
		handler = middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold)(handler)
	}
	return handler.ServeHTTP
}
