// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/vault/lvldb"
	"github.com/vechain/vault/logdb"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func simulateAction(ctx *cli.Context) error {
	initLogger(ctx)

	if ctx.NArg() != 1 {
		cli.ShowCommandHelp(ctx, "simulate") //nolint:errcheck
		return errors.New("scenario file required")
	}
	scenario, err := LoadScenario(ctx.Args().First())
	if err != nil {
		return err
	}
	spec, err := loadGenesis(ctx)
	if err != nil {
		return err
	}

	db, err := lvldb.NewMem()
	if err != nil {
		return err
	}
	defer db.Close()
	logDB, err := logdb.NewMem()
	if err != nil {
		return err
	}
	defer logDB.Close()

	c, err := newChain(db, logDB, spec, func() uint64 { return spec.LaunchTime })
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	onStep := func(res *stepResult) {
		printStep(out, res)
		if ctx.Bool(dumpFlag.Name) && res.Receipt != nil {
			dumper.Fdump(out, res.Receipt)
		}
	}
	if ctx.Bool(progressFlag.Name) {
		bar := pb.New(len(scenario.Steps)).SetMaxWidth(90).Start()
		defer func() { bar.NotPrint = true }()
		onStep = func(*stepResult) { bar.Increment() }
		defer bar.Finish()
	}

	if err := scenario.play(c, onStep); err != nil {
		return err
	}
	return printSummary(os.Stdout, c, scenario)
}

func printStep(w io.Writer, res *stepResult) {
	step := res.Step
	switch {
	case step.Op == opAdvance:
		fmt.Fprintf(w, "#%-3d %-22s +%ds\n", res.Index, step.Op, step.Duration.Seconds())
	case res.Revert != nil:
		fmt.Fprintf(w, "#%-3d %-22s reverted: %v\n", res.Index, step.Op, res.Revert)
	default:
		r := res.Receipt
		fmt.Fprintf(w, "#%-3d %-22s block %d @%d by %v\n", res.Index, step.Op, r.BlockNumber, r.BlockTime, r.Caller)
		for _, ev := range r.Events {
			data, err := json.Marshal(ev.Data)
			if err != nil {
				data = []byte(err.Error())
			}
			fmt.Fprintf(w, "       %-22s %v %s\n", ev.Name, ev.Address, data)
		}
	}
}

// printSummary lists the shares and pending rewards of every account the
// scenario touched, per vault.
func printSummary(w io.Writer, c *chain, scenario *Scenario) error {
	accounts := make(map[thor.Address]bool)
	vaults := make(map[thor.Address]bool)
	for _, s := range scenario.Steps {
		if s.Op == opAdvance {
			continue
		}
		vaults[s.Vault.Address()] = true
		accounts[s.Caller.Address()] = true
		accounts[s.receiver()] = true
		accounts[s.account()] = true
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nvault\taccount\tshares\ttoken\twithdrawable")
	for _, addr := range sorted(vaults) {
		v, err := c.Vault(addr)
		if err != nil {
			return err
		}
		err = c.Runtime().View(func(*xenv.Environment) error {
			tokens, err := v.RewardTokens()
			if err != nil {
				return err
			}
			for _, account := range sorted(accounts) {
				shares, err := v.BalanceOf(account)
				if err != nil {
					return err
				}
				if shares.Sign() == 0 {
					continue
				}
				for _, token := range tokens {
					withdrawable, err := v.WithdrawableRewardsOf(token, account)
					if err != nil {
						return err
					}
					fmt.Fprintf(tw, "%v\t%v\t%v\t%v\t%v\n", addr, account, units(shares), token, units(withdrawable))
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}

func sorted(set map[thor.Address]bool) []thor.Address {
	list := make([]thor.Address, 0, len(set))
	for addr := range set {
		list = append(list, addr)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].String() < list[j].String() })
	return list
}

// units renders a wei amount in whole units with up to 4 decimals.
func units(v *big.Int) string {
	return new(big.Float).Quo(new(big.Float).SetInt(v), big.NewFloat(1e18)).Text('f', 4)
}
