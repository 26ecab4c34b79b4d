// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/vault/builtin/contracts"
	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/vault"
	"github.com/vechain/vault/genesis"
	"github.com/vechain/vault/runtime"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

var aliases = map[string]thor.Address{
	"minter":           genesis.DefaultMinter,
	"dev-token":        genesis.DevToken,
	"dev-reward":       genesis.DevRewardToken,
	"dev-badge":        genesis.DevBadge,
	"dev-vault":        genesis.DevVault,
	"dev-escrow-vault": genesis.DevEscrowVault,
}

// Actor is an address written as hex, as "dev:N" for the Nth devnet account
// or as one of the devnet contract names.
type Actor thor.Address

func (a *Actor) UnmarshalText(text []byte) error {
	s := string(text)
	if addr, ok := aliases[s]; ok {
		*a = Actor(addr)
		return nil
	}
	if idx, ok := strings.CutPrefix(s, "dev:"); ok {
		i, err := strconv.Atoi(idx)
		accounts := genesis.DevAccounts()
		if err != nil || i < 0 || i >= len(accounts) {
			return errors.Errorf("invalid dev account %q", s)
		}
		*a = Actor(accounts[i])
		return nil
	}
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return err
	}
	*a = Actor(addr)
	return nil
}

func (a Actor) Address() thor.Address { return thor.Address(a) }

// Scenario is a list of operations played in order, one transaction each.
type Scenario struct {
	Steps []Step `yaml:"steps"`
}

// Step is one operation. Fields not used by the op are ignored.
type Step struct {
	Op        string           `yaml:"op"`
	Caller    Actor            `yaml:"caller"`
	Vault     Actor            `yaml:"vault"`
	Token     Actor            `yaml:"token"`
	Badge     Actor            `yaml:"badge"`
	Account   Actor            `yaml:"account"`
	Receiver  Actor            `yaml:"receiver"`
	Amount    *genesis.Amount  `yaml:"amount"`
	Duration  genesis.Duration `yaml:"duration"`
	ID        uint64           `yaml:"id"`
	Start     uint64           `yaml:"start"`
	End       uint64           `yaml:"end"`
	Incentive uint64           `yaml:"incentive"`
	Revert    string           `yaml:"revert"`
}

// ParseScenario decodes a scenario and checks every op is known.
func ParseScenario(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}
	for i, step := range s.Steps {
		if _, ok := ops[step.Op]; !ok && step.Op != opAdvance {
			return nil, errors.Errorf("step %d: unknown op %q", i, step.Op)
		}
	}
	return &s, nil
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	return ParseScenario(data)
}

func (s *Step) amount() *big.Int {
	if s.Amount == nil {
		return new(big.Int)
	}
	return s.Amount.Big()
}

func (s *Step) receiver() thor.Address {
	if s.Receiver == (Actor{}) {
		return s.Caller.Address()
	}
	return s.Receiver.Address()
}

func (s *Step) account() thor.Address {
	if s.Account == (Actor{}) {
		return s.Caller.Address()
	}
	return s.Account.Address()
}

const opAdvance = "advance"

type opFunc func(s *Step, v *vault.Vault, dir contracts.Directory, env *xenv.Environment) error

// approve lets the vault pull the step amount of token from the caller.
func approve(env *xenv.Environment, dir contracts.Directory, token thor.Address, v *vault.Vault, amount *big.Int) error {
	t, err := dir.Token(token)
	if err != nil {
		return err
	}
	return t.Approve(env, v.Address(), amount)
}

var ops = map[string]opFunc{
	"deposit": func(s *Step, v *vault.Vault, dir contracts.Directory, env *xenv.Environment) error {
		if err := approve(env, dir, v.Config().DepositToken, v, s.amount()); err != nil {
			return err
		}
		return v.Deposit(env, s.amount(), s.Duration.Seconds(), s.receiver())
	},
	"withdraw": func(s *Step, v *vault.Vault, dir contracts.Directory, env *xenv.Environment) error {
		return v.Withdraw(env, s.ID, s.receiver())
	},
	"kick": func(s *Step, v *vault.Vault, dir contracts.Directory, env *xenv.Environment) error {
		return v.KickExpiredDeposit(env, s.account(), s.ID)
	},
	"relock": func(s *Step, v *vault.Vault, dir contracts.Directory, env *xenv.Environment) error {
		return v.ProcessExpiredLock(env, s.ID, s.Duration.Seconds())
	},
	"distribute": func(s *Step, v *vault.Vault, dir contracts.Directory, env *xenv.Environment) error {
		if err := approve(env, dir, s.Token.Address(), v, s.amount()); err != nil {
			return err
		}
		return v.Distribute(env, s.Token.Address(), s.amount())
	},
	"claim": func(s *Step, v *vault.Vault, dir contracts.Directory, env *xenv.Environment) error {
		_, err := v.ClaimRewards(env, s.Token.Address(), s.receiver())
		return err
	},
	"claimAll": func(s *Step, v *vault.Vault, dir contracts.Directory, env *xenv.Environment) error {
		_, err := v.ClaimAll(env, s.receiver())
		return err
	},
	"transfer": func(s *Step, v *vault.Vault, dir contracts.Directory, env *xenv.Environment) error {
		return v.Transfer(env, s.receiver(), s.amount())
	},
	"delegateBadge": func(s *Step, v *vault.Vault, dir contracts.Directory, env *xenv.Environment) error {
		return v.DelegateBadgeTo(env, s.Badge.Address(), new(big.Int).SetUint64(s.ID), s.account())
	},
	"migrationDeposit": func(s *Step, v *vault.Vault, dir contracts.Directory, env *xenv.Environment) error {
		if err := approve(env, dir, v.Config().DepositToken, v, s.amount()); err != nil {
			return err
		}
		return v.MigrationDeposit(env, s.amount(), s.Start, s.End, s.receiver())
	},
	"turnOffMigration": func(_ *Step, v *vault.Vault, dir contracts.Directory, env *xenv.Environment) error {
		return v.TurnOffMigration(env)
	},
	"blacklist": func(s *Step, v *vault.Vault, dir contracts.Directory, env *xenv.Environment) error {
		return v.AddBlacklist(env, s.Account.Address())
	},
	"unblacklist": func(s *Step, v *vault.Vault, dir contracts.Directory, env *xenv.Environment) error {
		return v.RemoveBlacklist(env, s.Account.Address())
	},
	"setGracePeriod": func(s *Step, v *vault.Vault, dir contracts.Directory, env *xenv.Environment) error {
		return v.SetGracePeriod(env, s.Duration.Seconds())
	},
	"setKickRewardIncentive": func(s *Step, v *vault.Vault, dir contracts.Directory, env *xenv.Environment) error {
		return v.SetKickRewardIncentive(env, s.Incentive)
	},
}

// stepResult is the outcome of one played step. Receipt is nil for clock
// steps and for reverted transactions.
type stepResult struct {
	Index   int
	Step    *Step
	Receipt *runtime.Receipt
	Revert  error
}

// play runs every step of the scenario against c. A step that reverts with
// the expected message is a success. Any other revert is reported through
// onStep, while a failure aborts the play.
func (s *Scenario) play(c *chain, onStep func(*stepResult)) error {
	for i := range s.Steps {
		step := &s.Steps[i]
		res := &stepResult{Index: i, Step: step}

		if step.Op == opAdvance {
			c.Advance(step.Duration.Seconds())
			onStep(res)
			continue
		}

		v, err := c.Vault(step.Vault.Address())
		if err != nil {
			return errors.Wrapf(err, "step %d", i)
		}
		op := ops[step.Op]
		receipt, err := c.Execute(step.Caller.Address(), step.Op, func(env *xenv.Environment) error {
			return op(step, v, c.rt, env)
		})
		switch {
		case err == nil:
			if step.Revert != "" {
				return errors.Errorf("step %d (%s): expected revert %q", i, step.Op, step.Revert)
			}
			res.Receipt = receipt
		case reverts.IsRevertErr(err):
			if step.Revert != "" && !strings.Contains(err.Error(), step.Revert) {
				return errors.Wrapf(err, "step %d (%s): expected revert %q", i, step.Op, step.Revert)
			}
			res.Revert = err
		default:
			return errors.Wrapf(err, "step %d (%s)", i, step.Op)
		}
		onStep(res)
	}
	return nil
}
