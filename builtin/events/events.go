// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events declares the observable events emitted by builtin contracts.
package events

import (
	"math/big"

	"github.com/vechain/vault/thor"
)

// Token events.

type Transfer struct {
	From   thor.Address `json:"from"`
	To     thor.Address `json:"to"`
	Amount *big.Int     `json:"amount"`
}

type Approval struct {
	Owner   thor.Address `json:"owner"`
	Spender thor.Address `json:"spender"`
	Amount  *big.Int     `json:"amount"`
}

type TransferSingle struct {
	Operator thor.Address `json:"operator"`
	From     thor.Address `json:"from"`
	To       thor.Address `json:"to"`
	ID       *big.Int     `json:"id"`
	Amount   *big.Int     `json:"amount"`
}

func (Transfer) Name() string       { return "Transfer" }
func (Approval) Name() string       { return "Approval" }
func (TransferSingle) Name() string { return "TransferSingle" }

// Access control events.

type RoleGranted struct {
	Role    thor.Bytes32 `json:"role"`
	Account thor.Address `json:"account"`
	Sender  thor.Address `json:"sender"`
}

type RoleRevoked struct {
	Role    thor.Bytes32 `json:"role"`
	Account thor.Address `json:"account"`
	Sender  thor.Address `json:"sender"`
}

func (RoleGranted) Name() string { return "RoleGranted" }
func (RoleRevoked) Name() string { return "RoleRevoked" }

// Vault events.

type DepositCreated struct {
	Receiver   thor.Address `json:"receiver"`
	DepositID  uint64       `json:"depositId"`
	Amount     *big.Int     `json:"amount"`
	Shares     *big.Int     `json:"shares"`
	Start      uint64       `json:"start"`
	End        uint64       `json:"end"`
	BadgeBoost *big.Int     `json:"badgeBoost"`
}

type Withdrawn struct {
	Account   thor.Address `json:"account"`
	Receiver  thor.Address `json:"receiver"`
	DepositID uint64       `json:"depositId"`
	Amount    *big.Int     `json:"amount"`
	Shares    *big.Int     `json:"shares"`
}

type ExpiredLockProcessed struct {
	Account      thor.Address `json:"account"`
	Kicker       thor.Address `json:"kicker"`
	DepositID    uint64       `json:"depositId"`
	Amount       *big.Int     `json:"amount"`
	KickerReward *big.Int     `json:"kickerReward"`
	Relocked     bool         `json:"relocked"`
}

type RewardsDistributed struct {
	Token  thor.Address `json:"token"`
	From   thor.Address `json:"from"`
	Amount *big.Int     `json:"amount"`
}

type RewardsClaimed struct {
	Token    thor.Address `json:"token"`
	Payer    thor.Address `json:"payer"`
	Receiver thor.Address `json:"receiver"`
	Escrowed *big.Int     `json:"escrowed"`
	Direct   *big.Int     `json:"direct"`
}

type MigrationTurnedOff struct {
	Sender thor.Address `json:"sender"`
}

type GracePeriodUpdated struct {
	GracePeriod uint64 `json:"gracePeriod"`
}

type KickRewardIncentiveUpdated struct {
	KickRewardIncentive uint64 `json:"kickRewardIncentive"`
}

type BlacklistAdded struct {
	Account thor.Address `json:"account"`
	Amount  *big.Int     `json:"amount"`
}

type BlacklistRemoved struct {
	Account thor.Address `json:"account"`
	Amount  *big.Int     `json:"amount"`
}

type RewardTokenAdded struct {
	Token          thor.Address `json:"token"`
	EscrowTarget   thor.Address `json:"escrowTarget"`
	EscrowPortion  *big.Int     `json:"escrowPortion"`
	EscrowDuration uint64       `json:"escrowDuration"`
}

type RewardTokenUpdated struct {
	Token          thor.Address `json:"token"`
	EscrowTarget   thor.Address `json:"escrowTarget"`
	EscrowPortion  *big.Int     `json:"escrowPortion"`
	EscrowDuration uint64       `json:"escrowDuration"`
}

func (DepositCreated) Name() string             { return "DepositCreated" }
func (Withdrawn) Name() string                  { return "Withdrawn" }
func (ExpiredLockProcessed) Name() string       { return "ExpiredLockProcessed" }
func (RewardsDistributed) Name() string         { return "RewardsDistributed" }
func (RewardsClaimed) Name() string             { return "RewardsClaimed" }
func (MigrationTurnedOff) Name() string         { return "MigrationTurnedOff" }
func (GracePeriodUpdated) Name() string         { return "GracePeriodUpdated" }
func (KickRewardIncentiveUpdated) Name() string { return "KickRewardIncentiveUpdated" }
func (BlacklistAdded) Name() string             { return "BlacklistAdded" }
func (BlacklistRemoved) Name() string           { return "BlacklistRemoved" }
func (RewardTokenAdded) Name() string           { return "RewardTokenAdded" }
func (RewardTokenUpdated) Name() string         { return "RewardTokenUpdated" }

// Badge registry events.

type BadgeAdded struct {
	Badge  thor.Address `json:"badge"`
	ID     *big.Int     `json:"id"`
	Weight *big.Int     `json:"weight"`
}

type BadgeUpdated struct {
	Badge  thor.Address `json:"badge"`
	ID     *big.Int     `json:"id"`
	Weight *big.Int     `json:"weight"`
}

type BadgeDelegated struct {
	Owner    thor.Address `json:"owner"`
	Badge    thor.Address `json:"badge"`
	ID       *big.Int     `json:"id"`
	Delegate thor.Address `json:"delegate"`
}

type IneligibleListAdded struct {
	Account thor.Address `json:"account"`
}

type IneligibleListRemoved struct {
	Account thor.Address `json:"account"`
}

func (BadgeAdded) Name() string            { return "BadgeAdded" }
func (BadgeUpdated) Name() string          { return "BadgeUpdated" }
func (BadgeDelegated) Name() string        { return "BadgeDelegated" }
func (IneligibleListAdded) Name() string   { return "IneligibleListAdded" }
func (IneligibleListRemoved) Name() string { return "IneligibleListRemoved" }
