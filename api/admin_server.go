// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/vault/api/admin"
	"github.com/vechain/vault/api/admin/health"
)

// StartAdminServer serves the admin endpoints on addr. It returns the base url and a close function.
func StartAdminServer(addr string, logLevel *slog.LevelVar, apiLogs *atomic.Bool, h *health.Health) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, pkgerrors.Wrapf(err, "listen admin API addr [%v]", addr)
	}

	srv := &http.Server{Handler: admin.New(logLevel, apiLogs, h), ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var g errgroup.Group
	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	return "http://" + listener.Addr().String() + "/admin", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
		if err := g.Wait(); err != nil {
			logger.Warn("admin server stopped", "err", err)
		}
	}, nil
}
