// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"math"
	"testing"
	"time"

	"github.com/33cn/ledgercore/account"
	dbm "github.com/33cn/ledgercore/common/db"
	log "github.com/33cn/ledgercore/common/log"
	"github.com/33cn/ledgercore/marshal"
	"github.com/33cn/ledgercore/metrics"
	"github.com/33cn/ledgercore/txnctx"
	"github.com/33cn/ledgercore/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var (
	payer     = types.NewEntityID(0, 0, 1001)
	receiver  = types.NewEntityID(0, 0, 1002)
	collector = types.NewEntityID(0, 0, 1003)
	stale     = types.NewEntityID(0, 0, 1004)
	node      = types.NewEntityID(0, 0, 3)
	otherNode = types.NewEntityID(0, 0, 4)
	funding   = types.NewEntityID(0, 0, 98)
	token     = types.NewEntityID(0, 0, 5000)
	schedule  = types.NewEntityID(0, 0, 5005)

	now = time.Unix(1700000000, 0)
)

const cfgString = `
title = "ledgercore-test"

[ledger]
fundingAccount = "0.0.98"

[fees]
hbarEquiv = 1
centEquiv = 12
nodeTinycents = 1200
networkTinycents = 2400
serviceTinycents = 3600
`

func init() {
	log.Discard()
	DisableLog()
}

type ExecutorSuite struct {
	suite.Suite
	snap      *account.StateMap
	schedules *marshal.StaticSchedules
	exec      *Executor
}

func TestExecutorSuite(t *testing.T) {
	suite.Run(t, new(ExecutorSuite))
}

func (s *ExecutorSuite) SetupTest() {
	cfg, err := types.InitCfgString(cfgString)
	s.Require().NoError(err)
	memdb, err := dbm.NewGoMemDB("accounts", "", 0)
	s.Require().NoError(err)

	s.snap = account.NewStateMap(memdb)
	s.snap.Put(payer, &types.Account{
		Balance:       10000,
		TokenBalances: []types.TokenBalance{{Token: token, Balance: 1000}},
	})
	s.snap.Put(receiver, &types.Account{})
	s.snap.Put(collector, &types.Account{})
	s.snap.Put(stale, &types.Account{Expiry: now.Unix() - 10})
	s.snap.Put(node, &types.Account{})
	s.snap.Put(otherNode, &types.Account{})
	s.snap.Put(funding, &types.Account{})

	s.schedules = marshal.NewStaticSchedules()
	book := txnctx.StaticAddressBook{0: node, 1: otherNode}
	s.exec = New(cfg, s.snap, book, s.schedules)
}

func (s *ExecutorSuite) transfer(amount int64) *types.Transaction {
	return &types.Transaction{
		TxnID:         types.TxnID{Payer: payer, ValidStart: now.Add(-time.Second)},
		NodeAccount:   node,
		Fee:           1000,
		ValidDuration: 120,
		Transfer: &types.CryptoTransfer{
			Transfers: []types.AccountAmount{
				{Account: payer, Amount: -amount},
				{Account: receiver, Amount: amount},
			},
		},
	}
}

func (s *ExecutorSuite) handle(tx *types.Transaction, member int64) []*types.Record {
	return s.exec.Handle(&Submission{
		Txn:              tx,
		ConsensusTime:    now,
		SubmittingMember: member,
		PayerSigActive:   true,
	})
}

func (s *ExecutorSuite) balance(id types.EntityID) int64 {
	acc, ok := s.snap.Get(id)
	s.Require().True(ok)
	return acc.Balance
}

func (s *ExecutorSuite) TestTransferOK() {
	records := s.handle(s.transfer(500), 0)
	s.Require().Len(records, 1)
	rec := records[0]
	s.Equal(types.OK, rec.Receipt.Status)
	s.Equal(int64(600), rec.Fee)
	s.Equal([]types.AccountAmount{
		{Account: node, Amount: 100},
		{Account: funding, Amount: 500},
		{Account: payer, Amount: -1100},
		{Account: receiver, Amount: 500},
	}, rec.Transfers)

	// flushed to the snapshot
	s.Equal(int64(8900), s.balance(payer))
	s.Equal(int64(500), s.balance(receiver))
	s.Equal(int64(100), s.balance(node))
	s.Equal(int64(500), s.balance(funding))
}

func (s *ExecutorSuite) TestUnwillingPayerPaysNetworkAndNode() {
	tx := s.transfer(500)
	tx.Fee = 250
	rec := s.handle(tx, 0)[0]
	s.Equal(types.INSUFFICIENT_TX_FEE, rec.Receipt.Status)
	s.Equal(int64(300), rec.Fee)
	s.Equal(int64(9700), s.balance(payer))
	s.Equal(int64(0), s.balance(receiver))
}

func (s *ExecutorSuite) TestFailedTransferKeepsFees() {
	rec := s.handle(s.transfer(9500), 0)[0]
	s.Equal(types.INSUFFICIENT_ACCOUNT_BALANCE, rec.Receipt.Status)
	s.Equal(int64(9400), s.balance(payer))
	s.Equal(int64(0), s.balance(receiver))
}

func (s *ExecutorSuite) TestCreditsOnlyTransferRejected() {
	tx := s.transfer(0)
	tx.Transfer.Transfers = []types.AccountAmount{
		{Account: receiver, Amount: math.MaxInt64},
		{Account: collector, Amount: math.MaxInt64},
		{Account: otherNode, Amount: 2},
	}
	rec := s.handle(tx, 0)[0]
	s.Equal(types.INVALID_ACCOUNT_AMOUNTS, rec.Receipt.Status)
	s.True(rec.Fee > 0)
	s.Equal(10000-rec.Fee, s.balance(payer))
	s.Equal(int64(0), s.balance(receiver))
	s.Equal(int64(0), s.balance(collector))
	s.Equal(int64(0), s.balance(otherNode))
}

func (s *ExecutorSuite) TestInvalidSignatureIgnored() {
	rec := s.exec.Handle(&Submission{Txn: s.transfer(500), ConsensusTime: now})[0]
	s.Equal(types.INVALID_PAYER_SIGNATURE, rec.Receipt.Status)
	s.Equal(int64(0), rec.Fee)
	s.Equal(int64(10000), s.balance(payer))
}

func (s *ExecutorSuite) TestNodeDuplicate() {
	tx := s.transfer(500)
	s.Equal(types.OK, s.handle(tx, 0)[0].Receipt.Status)

	rec := s.handle(tx, 0)[0]
	s.Equal(types.DUPLICATE_TRANSACTION, rec.Receipt.Status)
	s.Equal(int64(0), rec.Fee)
	s.Equal(int64(8900), s.balance(payer))
}

func (s *ExecutorSuite) TestDuplicateOutsideNodePaysNodeAndNetwork() {
	tx := s.transfer(500)
	s.Equal(types.OK, s.handle(tx, 0)[0].Receipt.Status)

	again := s.transfer(500)
	again.NodeAccount = otherNode
	rec := s.handle(again, 1)[0]
	s.Equal(types.DUPLICATE_TRANSACTION, rec.Receipt.Status)
	s.Equal(int64(300), rec.Fee)
	s.Equal(int64(8600), s.balance(payer))
	s.Equal(int64(500), s.balance(receiver))
	s.Equal(int64(100), s.balance(otherNode))
}

func (s *ExecutorSuite) TestCustomFeesAssessed() {
	fee, err := types.NewFractionalFee(1, 10, 1, 0, collector)
	s.Require().NoError(err)
	s.schedules.Set(token, []types.CustomFee{fee})

	tx := s.transfer(0)
	tx.Transfer = &types.CryptoTransfer{
		TokenTransfers: []types.TokenTransferList{{
			Token: token,
			Transfers: []types.AccountAmount{
				{Account: payer, Amount: -100},
				{Account: receiver, Amount: 100},
			},
		}},
	}
	rec := s.handle(tx, 0)[0]
	s.Require().Equal(types.OK, rec.Receipt.Status)
	s.Equal([]types.AssessedCustomFee{
		{Token: token, Account: collector, Units: 10},
		{Token: token, Account: payer, Units: -10},
	}, rec.AssessedCustomFees)

	tokenBalance := func(id types.EntityID) int64 {
		acc, ok := s.snap.Get(id)
		s.Require().True(ok)
		return acc.TokenBalance(token)
	}
	s.Equal(int64(890), tokenBalance(payer))
	s.Equal(int64(100), tokenBalance(receiver))
	s.Equal(int64(10), tokenBalance(collector))
}

func (s *ExecutorSuite) TestScheduledTxnTriggered() {
	tx := s.transfer(0)
	tx.Transfer = nil
	tx.Schedule = &types.ScheduleCreate{ID: schedule, Inner: s.transfer(50)}
	tx.Schedule.Inner.TxnID = types.TxnID{}

	records := s.handle(tx, 0)
	s.Require().Len(records, 2)
	parent, triggered := records[0], records[1]

	s.Equal(types.OK, parent.Receipt.Status)
	s.Require().NotNil(parent.Receipt.ScheduleID)
	s.Equal(schedule, *parent.Receipt.ScheduleID)
	s.Require().NotNil(parent.Receipt.ScheduledTxnID)
	s.True(parent.Receipt.ScheduledTxnID.Scheduled)
	s.Equal(payer, parent.Receipt.ScheduledTxnID.Payer)

	s.Equal(types.OK, triggered.Receipt.Status)
	s.Equal(now.Add(time.Nanosecond), triggered.ConsensusTime)
	s.Require().NotNil(triggered.ScheduleRef)
	s.Equal(schedule, *triggered.ScheduleRef)
	s.Equal(*parent.Receipt.ScheduledTxnID, triggered.TxnID)
	// service fee only
	s.Equal(int64(300), triggered.Fee)
	s.Equal(int64(10000-600-300-50), s.balance(payer))
	s.Equal(int64(50), s.balance(receiver))
}

func (s *ExecutorSuite) TestSweepRemovesExpired() {
	records := s.exec.Sweep(now)
	s.Require().Len(records, 1)
	s.Equal(stale, *records[0].Receipt.AccountID)
	s.Equal("Entity ID 0.0.1004 was automatically deleted.", records[0].Memo)
	_, ok := s.snap.Get(stale)
	s.False(ok)
	s.False(s.exec.Accounts().Contains(stale))
}

func (s *ExecutorSuite) TestPrometheusMetrics() {
	reg := prometheus.NewRegistry()
	s.Require().NoError(metrics.Register(reg, s.exec.Metrics()))

	s.handle(s.transfer(500), 0)
	s.handle(s.transfer(500), 0)

	families, err := reg.Gather()
	s.Require().NoError(err)
	byStatus := make(map[string]float64)
	for _, mf := range families {
		if mf.GetName() != "ledgercore_executor_handled_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				byStatus[lp.GetValue()] = m.GetCounter().GetValue()
			}
		}
	}
	s.Equal(float64(1), byStatus["OK"])
	s.Equal(float64(1), byStatus["DUPLICATE_TRANSACTION"])
}

func TestMissingMemberPanics(t *testing.T) {
	cfg, err := types.InitCfgString(cfgString)
	require.NoError(t, err)
	memdb, err := dbm.NewGoMemDB("accounts", "", 0)
	require.NoError(t, err)
	exec := New(cfg, account.NewStateMap(memdb), txnctx.StaticAddressBook{}, marshal.NewStaticSchedules())
	tx := &types.Transaction{TxnID: types.TxnID{Payer: payer, ValidStart: now}}
	require.Panics(t, func() {
		exec.Handle(&Submission{Txn: tx, ConsensusTime: now, SubmittingMember: 7})
	})
}
