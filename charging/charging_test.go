// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package charging

import (
	"testing"

	"github.com/33cn/ledgercore/account"
	dbm "github.com/33cn/ledgercore/common/db"
	log "github.com/33cn/ledgercore/common/log"
	"github.com/33cn/ledgercore/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.Discard()
}

var (
	payer   = types.NewEntityID(0, 0, 1001)
	node    = types.NewEntityID(0, 0, 3)
	funding = types.NewEntityID(0, 0, 98)
	ghost   = types.NewEntityID(0, 0, 4040)

	fees = types.FeeObject{NodeFee: 4, NetworkFee: 3, ServiceFee: 6}
)

func newCharging(t *testing.T, payerBalance int64) (*account.Ledger, *LedgerCharging) {
	memdb, err := dbm.NewGoMemDB("accounts", "", 0)
	require.NoError(t, err)
	snap := account.NewStateMap(memdb)
	snap.Put(payer, &types.Account{Balance: payerBalance})
	snap.Put(node, &types.Account{Balance: 1000})
	snap.Put(funding, &types.Account{Balance: 1000})
	ledger := account.NewLedger(account.NewBackingAccounts(snap))
	return ledger, NewLedgerCharging(ledger, types.DefaultLedgerConfig())
}

func TestChargeNetworkAndUpToNodeFee(t *testing.T) {
	ledger, c := newCharging(t, 5)
	c.ResetForTxn(payer, node, 100)
	c.SetFees(fees)

	assert.True(t, c.CanPayerAffordNetworkFee())
	assert.False(t, c.CanPayerAffordAllFees())
	c.ChargePayerNetworkAndUpToNodeFee()

	assert.Equal(t, int64(0), ledger.GetBalance(payer))
	assert.Equal(t, int64(1003), ledger.GetBalance(funding))
	assert.Equal(t, int64(1002), ledger.GetBalance(node))
	assert.Equal(t, int64(5), c.TotalFeesChargedToPayer())
	assert.Equal(t, []types.AccountAmount{
		{Account: payer, Amount: -5},
		{Account: funding, Amount: 3},
		{Account: node, Amount: 2},
	}, c.ItemizedFees())
}

func TestChargeAllFees(t *testing.T) {
	ledger, c := newCharging(t, 20)
	c.ResetForTxn(payer, node, 100)
	c.SetFees(fees)
	require.True(t, c.CanPayerAffordAllFees())
	c.ChargePayerAllFees()

	assert.Equal(t, int64(7), ledger.GetBalance(payer))
	assert.Equal(t, int64(1004), ledger.GetBalance(node))
	assert.Equal(t, int64(1009), ledger.GetBalance(funding))
	assert.Equal(t, int64(13), c.TotalFeesChargedToPayer())
}

func TestChargeServiceFee(t *testing.T) {
	ledger, c := newCharging(t, 6)
	c.ResetForTxn(payer, node, 0)
	c.SetFees(fees)
	c.ChargePayerServiceFee()
	assert.Equal(t, int64(0), ledger.GetBalance(payer))
	assert.Equal(t, int64(1006), ledger.GetBalance(funding))
	assert.Equal(t, int64(1000), ledger.GetBalance(node))
}

func TestChargeWithoutPreconditionPanics(t *testing.T) {
	_, c := newCharging(t, 2)
	c.ResetForTxn(payer, node, 100)
	c.SetFees(fees)
	assert.PanicsWithValue(t, types.ErrInsufficientForCharge, c.ChargePayerAllFees)
	assert.PanicsWithValue(t, types.ErrInsufficientForCharge, c.ChargePayerNetworkAndUpToNodeFee)
	assert.PanicsWithValue(t, types.ErrInsufficientForCharge, c.ChargePayerServiceFee)
}

func TestPayerNotExtant(t *testing.T) {
	_, c := newCharging(t, 2)
	assert.PanicsWithValue(t, types.ErrPayerNotExtant, func() { c.CanPayerAffordAllFees() })

	c.ResetForTxn(ghost, node, 100)
	c.SetFees(fees)
	assert.PanicsWithValue(t, types.ErrPayerNotExtant, func() { c.CanPayerAffordServiceFee() })
	// willingness does not need the payer
	assert.True(t, c.IsPayerWillingToCoverAllFees())
}

func TestPayerBalanceReadOncePerReset(t *testing.T) {
	ledger, c := newCharging(t, 20)
	c.ResetForTxn(payer, node, 100)
	c.SetFees(fees)
	require.True(t, c.CanPayerAffordAllFees())

	ledger.AdjustBalance(payer, -20)
	assert.True(t, c.CanPayerAffordAllFees())

	c.ResetForTxn(payer, node, 100)
	c.SetFees(fees)
	assert.False(t, c.CanPayerAffordNetworkFee())
}

func TestWillingness(t *testing.T) {
	_, c := newCharging(t, 20)
	c.ResetForTxn(payer, node, 6)
	c.SetFees(fees)
	assert.True(t, c.IsPayerWillingToCoverNetworkFee())
	assert.True(t, c.IsPayerWillingToCoverServiceFee())
	assert.False(t, c.IsPayerWillingToCoverAllFees())
}

func TestPolicy(t *testing.T) {
	cases := []struct {
		name        string
		balance     int64
		offered     int64
		code        types.ResponseCode
		payerAfter  int64
		nodeCredit  int64
		fundCredits int64
	}{
		{"unwilling network", 100, 2, types.INSUFFICIENT_TX_FEE, 100, 0, 0},
		{"unable network", 2, 100, types.INSUFFICIENT_PAYER_BALANCE, 2, 0, 0},
		{"unwilling all", 100, 10, types.INSUFFICIENT_TX_FEE, 93, 4, 3},
		{"unable all", 5, 100, types.INSUFFICIENT_PAYER_BALANCE, 0, 2, 3},
		{"ok", 100, 13, types.OK, 87, 4, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger, c := newCharging(t, tc.balance)
			c.ResetForTxn(payer, node, tc.offered)
			code := NewPolicy(c).Apply(fees)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.payerAfter, ledger.GetBalance(payer))
			assert.Equal(t, 1000+tc.nodeCredit, ledger.GetBalance(node))
			assert.Equal(t, 1000+tc.fundCredits, ledger.GetBalance(funding))
		})
	}
}

func TestPolicyTriggeredAndDuplicate(t *testing.T) {
	ledger, c := newCharging(t, 10)
	c.ResetForTxn(payer, node, 0)
	assert.Equal(t, types.OK, NewPolicy(c).ApplyForTriggered(fees))
	assert.Equal(t, int64(4), ledger.GetBalance(payer))

	c.ResetForTxn(payer, node, 0)
	assert.Equal(t, types.INSUFFICIENT_PAYER_BALANCE, NewPolicy(c).ApplyForTriggered(fees))
	assert.Equal(t, int64(4), ledger.GetBalance(payer))

	ledger, c = newCharging(t, 10)
	c.ResetForTxn(payer, node, 100)
	assert.Equal(t, types.OK, NewPolicy(c).ApplyForDuplicate(fees))
	assert.Equal(t, int64(3), ledger.GetBalance(payer))
	assert.Equal(t, int64(0), c.Fees().ServiceFee)
}
