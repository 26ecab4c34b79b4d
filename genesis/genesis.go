// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis binds the contracts of a deployment to a runtime and seeds their initial state.
package genesis

import (
	"bytes"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/vault/builtin/vault"
	"github.com/vechain/vault/builtin/vault/rewards"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/runtime"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

var logger = log.WithContext("pkg", "genesis")

// DefaultMinter mints the initial token and badge supplies when a spec names none.
var DefaultMinter = thor.BytesToAddress([]byte("minter"))

// Parse decodes a YAML spec. Unknown fields are rejected.
func Parse(data []byte) (*Spec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var spec Spec
	if err := dec.Decode(&spec); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if spec.Minter.IsZero() {
		spec.Minter = DefaultMinter
	}
	return &spec, nil
}

// Load reads and parses the YAML spec at path.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// Block is the context of the bootstrap transaction.
func (s *Spec) Block() xenv.BlockContext {
	return xenv.BlockContext{Number: 0, Time: s.LaunchTime}
}

// Bind registers every token, badge and vault of the spec with rt.
// It does not touch state and must run on every start.
func (s *Spec) Bind(rt *runtime.Runtime) error {
	for _, t := range s.Tokens {
		rt.NewToken(t.Address, t.Symbol)
	}
	for _, b := range s.Badges {
		rt.NewBadge(b.Address)
	}
	for _, v := range s.Vaults {
		cfg := vault.Config{
			DepositToken:    v.DepositToken,
			MaxBonus:        v.MaxBonus.Big(),
			MinLockDuration: v.MinLockDuration.Seconds(),
			MaxLockDuration: v.MaxLockDuration.Seconds(),
		}
		if _, err := rt.NewVault(v.Address, cfg); err != nil {
			return errors.Wrapf(err, "bind vault %v", v.Address)
		}
	}
	return nil
}

// Initialize seeds balances and vault settings in one transaction. It runs once per store.
func (s *Spec) Initialize(rt *runtime.Runtime) (*runtime.Receipt, error) {
	vaults := make([]*vault.Vault, 0, len(s.Vaults))
	for _, v := range s.Vaults {
		bound, ok := rt.Vault(v.Address)
		if !ok {
			return nil, errors.Errorf("vault %v not bound", v.Address)
		}
		vaults = append(vaults, bound)
	}

	receipt, err := rt.Execute(s.Block(), s.Minter, "genesis", func(env *xenv.Environment) error {
		minter := env.WithCaller(s.Minter)
		for _, t := range s.Tokens {
			if err := seedToken(minter, rt, t); err != nil {
				return errors.Wrapf(err, "seed token %v", t.Symbol)
			}
		}
		for _, b := range s.Badges {
			if err := seedBadge(minter, rt, b); err != nil {
				return errors.Wrapf(err, "seed badge %v", b.Address)
			}
		}
		for i, v := range s.Vaults {
			if err := initVault(env, vaults[i], v); err != nil {
				return errors.Wrapf(err, "init vault %v", v.Address)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("genesis initialized", "tokens", len(s.Tokens), "badges", len(s.Badges), "vaults", len(s.Vaults))
	return receipt, nil
}

// Build binds the spec and, when initialize is set, seeds its state.
func Build(rt *runtime.Runtime, s *Spec, initialize bool) error {
	if err := s.Bind(rt); err != nil {
		return err
	}
	if !initialize {
		return nil
	}
	_, err := s.Initialize(rt)
	return err
}

type tokenMinter interface {
	SetMinter(minter thor.Address)
	Mint(env *xenv.Environment, to thor.Address, amount *big.Int) error
}

type badgeMinter interface {
	SetMinter(minter thor.Address)
	Mint(env *xenv.Environment, to thor.Address, id, amount *big.Int) error
}

// seedToken hands minting rights to the caller of env and mints the allocations.
func seedToken(env *xenv.Environment, rt *runtime.Runtime, spec Token) error {
	tok, err := rt.Token(spec.Address)
	if err != nil {
		return err
	}
	m, ok := tok.(tokenMinter)
	if !ok {
		return errors.New("token is not mintable")
	}
	m.SetMinter(env.Caller())
	for _, a := range spec.Allocations {
		if err := m.Mint(env, a.Address, a.Amount.Big()); err != nil {
			return err
		}
	}
	return nil
}

func seedBadge(env *xenv.Environment, rt *runtime.Runtime, spec Badge) error {
	b, err := rt.BadgeToken(spec.Address)
	if err != nil {
		return err
	}
	m, ok := b.(badgeMinter)
	if !ok {
		return errors.New("badge is not mintable")
	}
	m.SetMinter(env.Caller())
	for _, h := range spec.Holdings {
		if err := m.Mint(env, h.Owner, h.ID.Big(), h.Amount.Big()); err != nil {
			return err
		}
	}
	return nil
}

func initVault(env *xenv.Environment, v *vault.Vault, spec Vault) error {
	admin := spec.Admin
	if admin.IsZero() {
		admin = env.Caller()
	}
	params := vault.Params{
		GracePeriod:         spec.GracePeriod.Seconds(),
		KickRewardIncentive: spec.KickRewardIncentive,
	}
	if err := v.Initialize(env, admin, params); err != nil {
		return err
	}

	adminEnv := env.WithCaller(admin)
	for _, r := range spec.RewardTokens {
		cfg := rewards.TokenConfig{
			EscrowTarget:   r.EscrowTarget,
			EscrowPortion:  r.EscrowPortion.Big(),
			EscrowDuration: r.EscrowDuration.Seconds(),
		}
		if err := v.AddRewardToken(adminEnv, r.Token, cfg); err != nil {
			return errors.Wrapf(err, "add reward token %v", r.Token)
		}
	}
	for _, b := range spec.Badges {
		if err := v.AddBadge(adminEnv, b.Badge, b.ID.Big(), b.Weight.Big()); err != nil {
			return errors.Wrapf(err, "add badge %v", b.Badge)
		}
	}
	return nil
}
