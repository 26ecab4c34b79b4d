// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/vault/genesis"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/logdb"
	"github.com/vechain/vault/lvldb"
	"github.com/vechain/vault/metrics"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name))))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandler(os.Stdout, &level)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandler(os.Stderr, &level, useColor)
	}
	log.SetDefault(handler)
	return &level
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.vechain.vault")
		}
		return filepath.Join(home, ".org.vechain.vault")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func loadGenesis(ctx *cli.Context) (*genesis.Spec, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	return genesis.Load(path)
}

func openMainDB(ctx *cli.Context, dataDir string) (*lvldb.LevelDB, error) {
	cacheMB := normalizeCacheSize(int(ctx.Uint64(cacheFlag.Name)))
	logger.Debug("cache size(MB)", "size", cacheMB)

	dir := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 500,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", dir)
	}
	return db, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func openLogDB(dataDir string) (*logdb.LogDB, error) {
	dir := filepath.Join(dataDir, "logs.db")
	db, err := logdb.New(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open log database [%v]", dir)
	}
	return db, nil
}

func wallClock() uint64 {
	return uint64(time.Now().Unix())
}

// startServer serves handler on addr until the returned function is called.
func startServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen addr [%v]", addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}

	var g errgroup.Group
	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	return "http://" + listener.Addr().String() + "/", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("failed to shutdown server", "addr", addr, "err", err)
		}
		if err := g.Wait(); err != nil {
			logger.Warn("server stopped", "addr", addr, "err", err)
		}
	}, nil
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func(), error) {
	if timeout := ctx.Uint64(apiTimeoutFlag.Name); timeout > 0 {
		handler = http.TimeoutHandler(handler, time.Duration(timeout)*time.Millisecond, "request timeout")
	}
	return startServer(ctx.String(apiAddrFlag.Name), handler)
}

func startMetricsServer(addr string) (string, func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	return startServer(addr, mux)
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func printStartupMessage(spec *genesis.Spec, c *chain, dataDir, apiURL, adminURL, metricsURL string) {
	block := c.Block()
	fmt.Printf(`Starting %v
    Vaults       [ %v ]
    Last block   [ #%v @%v ]
    Data dir     [ %v ]
    API portal   [ %v ]
    Admin        [ %v ]
    Metrics      [ %v ]
`,
		fullVersion(),
		len(spec.Vaults),
		block.Number, time.Unix(int64(block.Time), 0), //#nosec G115
		dataDir,
		apiURL,
		orDisabled(adminURL),
		orDisabled(metricsURL),
	)
}

func orDisabled(url string) string {
	if url == "" {
		return "disabled"
	}
	return url
}
