// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/vault/api"
	"github.com/vechain/vault/api/admin/health"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/logdb"
	"github.com/vechain/vault/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "vault")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("Vault/%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "Vault"
	app.Usage = "Staking vault with escrowed rewards"
	app.Copyright = "2025 VeChain Foundation <https://vechain.org/>"
	app.Commands = []cli.Command{
		{
			Name:  "serve",
			Usage: "Serve the vault state over HTTP",
			Flags: []cli.Flag{
				dataDirFlag,
				genesisFlag,
				scenarioFlag,
				apiAddrFlag,
				apiCorsFlag,
				apiTimeoutFlag,
				apiLogsLimitFlag,
				apiSlowQueriesThresholdFlag,
				enableAPILogsFlag,
				verbosityFlag,
				jsonLogsFlag,
				cacheFlag,
				pprofFlag,
				skipLogsFlag,
				commitIntervalFlag,
				enableMetricsFlag,
				metricsAddrFlag,
				enableAdminFlag,
				adminAddrFlag,
			},
			Action: serveAction,
		},
		{
			Name:      "simulate",
			Usage:     "Play a scenario against an in-memory vault state",
			ArgsUsage: "<scenario-file>",
			Flags: []cli.Flag{
				genesisFlag,
				verbosityFlag,
				jsonLogsFlag,
				dumpFlag,
				progressFlag,
			},
			Action: simulateAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	spec, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return err
	}

	mainDB, err := openMainDB(ctx, dataDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	var logDB *logdb.LogDB
	skipLogs := ctx.Bool(skipLogsFlag.Name)
	if !skipLogs {
		if logDB, err = openLogDB(dataDir); err != nil {
			return err
		}
		defer func() { logger.Info("closing log database..."); logDB.Close() }()
	}

	c, err := newChain(mainDB, logDB, spec, wallClock)
	if err != nil {
		return err
	}
	if path := ctx.String(scenarioFlag.Name); path != "" {
		scenario, err := LoadScenario(path)
		if err != nil {
			return err
		}
		if err := scenario.play(c, func(res *stepResult) { printStep(os.Stdout, res) }); err != nil {
			return err
		}
		if err := c.Commit(); err != nil {
			return err
		}
	}

	h := health.New(c.Runtime())
	h.Bootstrapped()

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))
	handler := api.New(c.Runtime(), logDB, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		SkipLogs:             skipLogs,
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
	})
	apiURL, closeAPI, err := startAPIServer(ctx, handler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); closeAPI() }()

	var metricsURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		url, closeMetrics, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeMetrics() }()
		metricsURL = url
	}

	var adminURL string
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeAdmin, err := api.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, h)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeAdmin() }()
		adminURL = url
	}

	printStartupMessage(spec, c, dataDir, apiURL, adminURL, metricsURL)

	g, gctx := errgroup.WithContext(handleExitSignal())
	g.Go(func() error {
		return c.commitLoop(gctx, ctx.Duration(commitIntervalFlag.Name), h.CommitDone)
	})
	return g.Wait()
}
