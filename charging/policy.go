// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package charging

import (
	"github.com/33cn/ledgercore/types"
)

// Policy decides which of the charges to apply for a given fee object
type Policy struct {
	charging *LedgerCharging
}

// NewPolicy policy over charging
func NewPolicy(charging *LedgerCharging) *Policy {
	return &Policy{charging: charging}
}

// Apply 普通交易扣费，先保证 network fee
func (p *Policy) Apply(fees types.FeeObject) types.ResponseCode {
	c := p.charging
	c.SetFees(fees)
	if !c.IsPayerWillingToCoverNetworkFee() {
		return types.INSUFFICIENT_TX_FEE
	}
	if !c.CanPayerAffordNetworkFee() {
		return types.INSUFFICIENT_PAYER_BALANCE
	}
	if !c.IsPayerWillingToCoverAllFees() {
		c.ChargePayerNetworkAndUpToNodeFee()
		return types.INSUFFICIENT_TX_FEE
	}
	if !c.CanPayerAffordAllFees() {
		c.ChargePayerNetworkAndUpToNodeFee()
		return types.INSUFFICIENT_PAYER_BALANCE
	}
	c.ChargePayerAllFees()
	return types.OK
}

// ApplyForDuplicate a duplicate pays node and network, never service
func (p *Policy) ApplyForDuplicate(fees types.FeeObject) types.ResponseCode {
	fees.ServiceFee = 0
	return p.Apply(fees)
}

// ApplyForTriggered 被触发的交易只收 service fee
func (p *Policy) ApplyForTriggered(fees types.FeeObject) types.ResponseCode {
	c := p.charging
	c.SetFees(fees)
	if !c.CanPayerAffordServiceFee() {
		return types.INSUFFICIENT_PAYER_BALANCE
	}
	c.ChargePayerServiceFee()
	return types.OK
}
