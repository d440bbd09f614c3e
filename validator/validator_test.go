// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validator

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/33cn/ledgercore/types"
	"github.com/stretchr/testify/assert"
)

var (
	a    = types.NewEntityID(0, 0, 1001)
	b    = types.NewEntityID(0, 0, 1002)
	c    = types.NewEntityID(0, 0, 1003)
	tokA = types.NewEntityID(0, 0, 2001)
	tokB = types.NewEntityID(0, 0, 2002)
)

func TestTxnDuration(t *testing.T) {
	v := NewOptionValidator(types.DefaultLedgerConfig())
	assert.False(t, v.IsValidTxnDuration(14))
	assert.True(t, v.IsValidTxnDuration(15))
	assert.True(t, v.IsValidTxnDuration(180))
	assert.False(t, v.IsValidTxnDuration(181))
}

func TestChronology(t *testing.T) {
	v := NewOptionValidator(types.DefaultLedgerConfig())
	start := time.Unix(1700000000, 0)
	tx := &types.Transaction{TxnID: types.TxnID{Payer: a, ValidStart: start}, ValidDuration: 120}

	assert.Equal(t, types.INVALID_TRANSACTION_START, v.ChronologyStatus(tx, start.Add(-time.Nanosecond)))
	assert.Equal(t, types.OK, v.ChronologyStatus(tx, start))
	assert.Equal(t, types.OK, v.ChronologyStatus(tx, start.Add(119*time.Second)))
	assert.Equal(t, types.TRANSACTION_EXPIRED, v.ChronologyStatus(tx, start.Add(120*time.Second)))
}

func TestRawMemo(t *testing.T) {
	v := NewOptionValidator(types.DefaultLedgerConfig())
	assert.Equal(t, types.OK, v.RawMemoCheck([]byte("hello")))
	assert.Equal(t, types.OK, v.RawMemoCheck(nil))
	assert.Equal(t, types.MEMO_TOO_LONG, v.RawMemoCheck([]byte(strings.Repeat("x", 101))))
	assert.Equal(t, types.INVALID_ZERO_BYTE_IN_STRING, v.RawMemoCheck([]byte{'a', 0, 'b'}))
}

func TestFullPureValidation(t *testing.T) {
	var checks TransferChecks
	ok := []types.AccountAmount{{Account: a, Amount: -10}, {Account: b, Amount: 10}}
	tokOk := types.TokenTransferList{Token: tokA, Transfers: ok}

	cases := []struct {
		name   string
		hbar   []types.AccountAmount
		tokens []types.TokenTransferList
		want   types.ResponseCode
	}{
		{"empty", nil, nil, types.OK},
		{"valid", ok, []types.TokenTransferList{tokOk}, types.OK},
		{"repeated account", []types.AccountAmount{{Account: a, Amount: -1}, {Account: a, Amount: 1}}, nil,
			types.ACCOUNT_REPEATED_IN_ACCOUNT_AMOUNTS},
		{"not net zero", []types.AccountAmount{{Account: a, Amount: -1}, {Account: b, Amount: 2}}, nil,
			types.INVALID_ACCOUNT_AMOUNTS},
		{"hbar too long", []types.AccountAmount{{Account: a, Amount: -2}, {Account: b, Amount: 1}, {Account: c, Amount: 1}}, nil,
			types.TRANSFER_LIST_SIZE_LIMIT_EXCEEDED},
		{"token too long", nil, []types.TokenTransferList{tokOk, {Token: tokB, Transfers: ok}},
			types.TOKEN_TRANSFER_LIST_SIZE_LIMIT_EXCEEDED},
		{"missing token", nil, []types.TokenTransferList{{Transfers: ok}}, types.INVALID_TOKEN_ID},
		{"repeated token", nil, []types.TokenTransferList{{Token: tokA, Transfers: ok[:1]}, {Token: tokA, Transfers: ok[1:]}},
			types.TOKEN_ID_REPEATED_IN_TOKEN_LIST},
		{"empty token list", nil, []types.TokenTransferList{{Token: tokA}}, types.EMPTY_TOKEN_TRANSFER_ACCOUNT_AMOUNTS},
		{"zero amount", nil, []types.TokenTransferList{{Token: tokA, Transfers: []types.AccountAmount{{Account: a}}}},
			types.INVALID_ACCOUNT_AMOUNTS},
		{"token not zero sum", nil, []types.TokenTransferList{{Token: tokA, Transfers: ok[:1]}},
			types.TRANSFERS_NOT_ZERO_SUM_FOR_TOKEN},
		{"debits wrap to zero", []types.AccountAmount{{Account: a, Amount: math.MinInt64}, {Account: b, Amount: math.MinInt64}}, nil,
			types.INVALID_ACCOUNT_AMOUNTS},
		{"token credits wrap to zero", nil, []types.TokenTransferList{{Token: tokA, Transfers: []types.AccountAmount{
			{Account: a, Amount: math.MaxInt64}, {Account: b, Amount: math.MaxInt64}, {Account: c, Amount: 2}}}},
			types.TRANSFERS_NOT_ZERO_SUM_FOR_TOKEN},
		{"widest balanced", []types.AccountAmount{{Account: a, Amount: -math.MaxInt64}, {Account: b, Amount: math.MaxInt64}}, nil,
			types.OK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, checks.FullPureValidation(2, 3, tc.hbar, tc.tokens))
		})
	}
}

func TestCreditsOnlyNeverNetZero(t *testing.T) {
	var checks TransferChecks
	credits := []types.AccountAmount{
		{Account: a, Amount: math.MaxInt64},
		{Account: b, Amount: math.MaxInt64},
		{Account: c, Amount: 2},
	}
	assert.Equal(t, types.INVALID_ACCOUNT_AMOUNTS, checks.FullPureValidation(10, 10, credits, nil))
	assert.False(t, isNetZero(credits))
	assert.True(t, isNetZero([]types.AccountAmount{
		{Account: a, Amount: math.MaxInt64 - 1},
		{Account: b, Amount: -math.MaxInt64},
		{Account: c, Amount: 1},
	}))
}

func TestRecentHistory(t *testing.T) {
	h := NewRecentHistory(2)
	now := time.Unix(1700000000, 0)
	id1 := types.TxnID{Payer: a, ValidStart: now}
	id2 := types.TxnID{Payer: b, ValidStart: now}
	id3 := types.TxnID{Payer: c, ValidStart: now}

	assert.Equal(t, types.BelievedUnique, h.Classify(id1, 3))
	h.Observe(id1, 3, now)
	assert.Equal(t, types.NodeDuplicate, h.Classify(id1, 3))
	assert.Equal(t, types.DuplicateOutsideNode, h.Classify(id1, 4))
	h.Observe(id1, 4, now)
	assert.Equal(t, types.NodeDuplicate, h.Classify(id1, 4))

	scheduled := id1
	scheduled.Scheduled = true
	assert.Equal(t, types.BelievedUnique, h.Classify(scheduled, 3))

	h.Observe(id2, 3, now.Add(time.Minute))
	h.Observe(id3, 3, now.Add(2*time.Minute))
	// bounded by size, oldest goes first
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, types.BelievedUnique, h.Classify(id1, 3))

	assert.Equal(t, 1, h.ExpireBefore(now.Add(90*time.Second)))
	assert.Equal(t, types.BelievedUnique, h.Classify(id2, 3))
	assert.Equal(t, types.NodeDuplicate, h.Classify(id3, 3))
}
