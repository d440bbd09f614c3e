// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package charging 交易手续费的扣费状态机
package charging

import (
	"github.com/33cn/ledgercore/account"
	"github.com/33cn/ledgercore/types"
	log "github.com/inconshreveable/log15"
)

var clog = log.New("module", "charging")

// LedgerCharging 按 FeeObject 从 payer 扣费，node fee 给节点账户，
// network fee 和 service fee 给 funding 账户
type LedgerCharging struct {
	ledger  *account.Ledger
	funding types.EntityID

	reset           bool
	payer           types.EntityID
	node            types.EntityID
	totalOfferedFee int64
	fees            types.FeeObject

	payerLoaded  bool
	payerBalance int64

	totalCharged int64
	itemized     []types.AccountAmount
}

// NewLedgerCharging funding account comes from cfg
func NewLedgerCharging(ledger *account.Ledger, cfg *types.LedgerConfig) *LedgerCharging {
	return &LedgerCharging{
		ledger:  ledger,
		funding: cfg.FundingAccountID(),
	}
}

// ResetForTxn forget everything about the previous transaction
func (c *LedgerCharging) ResetForTxn(payer, node types.EntityID, totalOfferedFee int64) {
	c.reset = true
	c.payer = payer
	c.node = node
	c.totalOfferedFee = totalOfferedFee
	c.fees = types.FeeObject{}
	c.payerLoaded = false
	c.payerBalance = 0
	c.totalCharged = 0
	c.itemized = nil
}

// SetFees fees assessed for the current transaction
func (c *LedgerCharging) SetFees(fees types.FeeObject) {
	c.fees = fees
}

// Fees fees set for the current transaction
func (c *LedgerCharging) Fees() types.FeeObject {
	return c.fees
}

// TotalFeesChargedToPayer sum of every debit applied to the payer since reset
func (c *LedgerCharging) TotalFeesChargedToPayer() int64 {
	return c.totalCharged
}

// ItemizedFees fee legs applied since reset, payer debits included, in
// the order they were applied
func (c *LedgerCharging) ItemizedFees() []types.AccountAmount {
	return append([]types.AccountAmount(nil), c.itemized...)
}

// CanPayerAffordAllFees balance covers node + network + service
func (c *LedgerCharging) CanPayerAffordAllFees() bool {
	return c.getPayerBalance() >= c.fees.Total()
}

// CanPayerAffordNetworkFee balance covers network fee
func (c *LedgerCharging) CanPayerAffordNetworkFee() bool {
	return c.getPayerBalance() >= c.fees.NetworkFee
}

// CanPayerAffordServiceFee balance covers service fee
func (c *LedgerCharging) CanPayerAffordServiceFee() bool {
	return c.getPayerBalance() >= c.fees.ServiceFee
}

// IsPayerWillingToCoverAllFees offered fee covers node + network + service
func (c *LedgerCharging) IsPayerWillingToCoverAllFees() bool {
	return c.totalOfferedFee >= c.fees.Total()
}

// IsPayerWillingToCoverNetworkFee offered fee covers network fee
func (c *LedgerCharging) IsPayerWillingToCoverNetworkFee() bool {
	return c.totalOfferedFee >= c.fees.NetworkFee
}

// IsPayerWillingToCoverServiceFee offered fee covers service fee
func (c *LedgerCharging) IsPayerWillingToCoverServiceFee() bool {
	return c.totalOfferedFee >= c.fees.ServiceFee
}

// ChargePayerAllFees 扣除全部手续费
func (c *LedgerCharging) ChargePayerAllFees() {
	if !c.CanPayerAffordAllFees() {
		panic(types.ErrInsufficientForCharge)
	}
	c.debitPayer(c.fees.Total())
	c.credit(c.node, c.fees.NodeFee)
	c.credit(c.funding, c.fees.NetworkFee+c.fees.ServiceFee)
}

// ChargePayerServiceFee 只扣 service fee，用于被触发的交易
func (c *LedgerCharging) ChargePayerServiceFee() {
	if !c.CanPayerAffordServiceFee() {
		panic(types.ErrInsufficientForCharge)
	}
	c.debitPayer(c.fees.ServiceFee)
	c.credit(c.funding, c.fees.ServiceFee)
}

// ChargePayerNetworkAndUpToNodeFee 扣 network fee，剩余余额尽量付 node fee
func (c *LedgerCharging) ChargePayerNetworkAndUpToNodeFee() {
	if !c.CanPayerAffordNetworkFee() {
		panic(types.ErrInsufficientForCharge)
	}
	nodeFee := c.fees.NodeFee
	if left := c.getPayerBalance() - c.fees.NetworkFee; left < nodeFee {
		nodeFee = left
	}
	c.debitPayer(c.fees.NetworkFee + nodeFee)
	c.credit(c.funding, c.fees.NetworkFee)
	c.credit(c.node, nodeFee)
}

func (c *LedgerCharging) getPayerBalance() int64 {
	if !c.reset {
		panic(types.ErrPayerNotExtant)
	}
	if !c.payerLoaded {
		acc := c.ledger.Accounts().GetRef(c.payer)
		if acc == nil {
			panic(types.ErrPayerNotExtant)
		}
		c.payerBalance = acc.Balance
		c.payerLoaded = true
	}
	return c.payerBalance
}

func (c *LedgerCharging) debitPayer(amount int64) {
	if amount == 0 {
		return
	}
	c.ledger.AdjustBalance(c.payer, -amount)
	c.payerBalance -= amount
	c.totalCharged += amount
	c.itemized = append(c.itemized, types.AccountAmount{Account: c.payer, Amount: -amount})
	clog.Debug("debitPayer", "payer", c.payer, "amount", amount)
}

func (c *LedgerCharging) credit(id types.EntityID, amount int64) {
	if amount == 0 {
		return
	}
	c.ledger.AdjustBalance(id, amount)
	if id == c.payer {
		c.payerBalance += amount
	}
	c.itemized = append(c.itemized, types.AccountAmount{Account: id, Amount: amount})
}
