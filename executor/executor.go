// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package executor 按共识顺序执行交易：尽职检查、扣费、转账展开、记录
package executor

import (
	"time"

	"github.com/33cn/ledgercore/account"
	"github.com/33cn/ledgercore/charging"
	"github.com/33cn/ledgercore/diligence"
	"github.com/33cn/ledgercore/fees"
	"github.com/33cn/ledgercore/marshal"
	"github.com/33cn/ledgercore/txnctx"
	"github.com/33cn/ledgercore/types"
	"github.com/33cn/ledgercore/validator"
	log "github.com/inconshreveable/log15"
)

var elog = log.New("module", "executor")

// DisableLog 关闭 executor 日志
func DisableLog() {
	elog.SetHandler(log.DiscardHandler())
}

// Submission 已经排好顺序的一笔交易
type Submission struct {
	Txn              *types.Transaction
	ConsensusTime    time.Time
	SubmittingMember int64
	// 签名验证阶段的结果
	PayerSigActive bool
}

// Executor 单线程使用，每笔交易依次调用 Handle
type Executor struct {
	cfg        *types.Config
	accounts   *account.BackingAccounts
	ledger     *account.Ledger
	charger    *charging.LedgerCharging
	policy     *charging.Policy
	txnCtx     *txnctx.TxnContext
	screen     *diligence.Screen
	history    *validator.RecentHistory
	transfers  *marshal.Cache
	calculator fees.Calculator
	rates      *fees.ExchangeRates
	metrics    *Metrics
}

// New executor over snapshot. schedules is shared with whoever manages the
// token fee schedules.
func New(cfg *types.Config, snapshot account.Snapshot, book txnctx.AddressBook, schedules marshal.CustomFeeSchedules) *Executor {
	accounts := account.NewBackingAccounts(snapshot)
	ledger := account.NewLedger(accounts)
	charger := charging.NewLedgerCharging(ledger, cfg.Ledger)
	rates := fees.NewExchangeRates(cfg.Fees)
	txnCtx := txnctx.NewTxnContext(ledger, charger, book, rates)
	options := validator.NewOptionValidator(cfg.Ledger)
	impliedTransfers := marshal.NewImpliedTransfersMarshal(cfg.Ledger, validator.TransferChecks{}, schedules)

	return &Executor{
		cfg:        cfg,
		accounts:   accounts,
		ledger:     ledger,
		charger:    charger,
		policy:     charging.NewPolicy(charger),
		txnCtx:     txnCtx,
		screen:     diligence.NewScreen(options, txnCtx, accounts),
		history:    validator.NewRecentHistory(cfg.Ledger.RecentHistorySize),
		transfers:  marshal.NewCache(impliedTransfers, cfg.Ledger.ImpliedTransfersCache),
		calculator: fees.NewScheduleCalculator(cfg.Fees),
		rates:      rates,
		metrics:    NewMetrics(),
	}
}

// Accounts staged account store
func (e *Executor) Accounts() *account.BackingAccounts {
	return e.accounts
}

// Ledger balance view over the staged store
func (e *Executor) Ledger() *account.Ledger {
	return e.ledger
}

// Rates active exchange rate
func (e *Executor) Rates() *fees.ExchangeRates {
	return e.rates
}

// Metrics executor metrics
func (e *Executor) Metrics() *Metrics {
	return e.metrics
}

// Handle 执行一笔交易，返回它的记录；如果它触发了 scheduled 交易，紧跟着
// 执行并返回两条记录
func (e *Executor) Handle(sub *Submission) []*types.Record {
	start := time.Now()
	defer e.metrics.observe(start)

	records := []*types.Record{e.handleTxn(sub)}
	if triggered := e.txnCtx.TriggeredTxn(); triggered != nil {
		records = append(records, e.handleTriggered(triggered, sub))
	}
	return records
}

func (e *Executor) handleTxn(sub *Submission) *types.Record {
	tx := sub.Txn
	e.txnCtx.ResetFor(tx, sub.ConsensusTime, sub.SubmittingMember)
	if sub.PayerSigActive {
		e.txnCtx.PayerSigIsKnownActive()
	}

	duplicity := e.history.Classify(tx.TxnID, sub.SubmittingMember)
	if e.screen.NodeIgnoredDueDiligence(duplicity) {
		e.metrics.ignore()
		elog.Info("handleTxn ignored due diligence", "txn", tx.TxnID, "status", e.txnCtx.Status())
		return e.finish()
	}

	fee := e.calculator.ComputeFee(tx, e.rates.ActiveRate())
	if duplicity == types.DuplicateOutsideNode {
		code := e.policy.ApplyForDuplicate(fee)
		if code == types.OK {
			code = types.DUPLICATE_TRANSACTION
		}
		e.txnCtx.SetStatus(code)
	} else if code := e.policy.Apply(fee); code != types.OK {
		e.txnCtx.SetStatus(code)
	} else {
		e.doTransition(tx)
	}

	rec := e.finish()
	e.history.Observe(tx.TxnID, sub.SubmittingMember, sub.ConsensusTime)
	return rec
}

// handleTriggered 触发的交易在父交易之后 1ns 执行，不做节点尽职检查，只收 service fee
func (e *Executor) handleTriggered(triggered *types.Transaction, parent *Submission) *types.Record {
	e.txnCtx.ResetFor(triggered, parent.ConsensusTime.Add(time.Nanosecond), parent.SubmittingMember)
	e.txnCtx.PayerSigIsKnownActive()

	payer, ok := e.accounts.GetUnsafeRef(triggered.Payer())
	switch {
	case !ok:
		e.txnCtx.SetStatus(types.ACCOUNT_ID_DOES_NOT_EXIST)
	case payer.Deleted:
		e.txnCtx.SetStatus(types.PAYER_ACCOUNT_DELETED)
	default:
		fee := e.calculator.ComputeFee(triggered, e.rates.ActiveRate())
		if code := e.policy.ApplyForTriggered(fee); code != types.OK {
			e.txnCtx.SetStatus(code)
		} else {
			e.doTransition(triggered)
		}
	}
	return e.finish()
}

// doTransition 业务逻辑，失败时余额不变，已经收取的手续费保留
func (e *Executor) doTransition(tx *types.Transaction) {
	if tx.Transfer != nil {
		impliedTransfers := e.transfers.ImpliedTransfersFor(tx)
		if !impliedTransfers.IsValid() {
			e.txnCtx.SetStatus(impliedTransfers.Code())
			return
		}
		if code := e.ledger.ApplyChanges(impliedTransfers.Changes); code != types.OK {
			e.txnCtx.SetStatus(code)
			return
		}
		e.txnCtx.SetAssessedCustomFees(impliedTransfers.AssessedCustomFees)
	}
	if tx.Schedule != nil && tx.Schedule.Inner != nil {
		e.schedule(tx)
	}
	e.txnCtx.SetStatus(types.OK)
}

func (e *Executor) schedule(tx *types.Transaction) {
	id := tx.Schedule.ID
	triggered := *tx.Schedule.Inner
	payer := triggered.Payer()
	if payer == (types.EntityID{}) {
		payer = tx.Payer()
	}
	triggered.TxnID = types.TxnID{Payer: payer, ValidStart: tx.TxnID.ValidStart, Scheduled: true}
	triggered.ScheduleRef = &id
	triggered.Schedule = nil

	e.txnCtx.SetCreatedSchedule(id)
	e.txnCtx.SetScheduledTxnID(triggered.TxnID)
	e.txnCtx.Trigger(&triggered)
}

// finish 先生成记录，再把暂存的账户写回快照
func (e *Executor) finish() *types.Record {
	rec := e.txnCtx.RecordSoFar()
	e.ledger.Commit()
	e.metrics.count(rec.Receipt.Status)
	elog.Debug("finish", "txn", rec.TxnID, "status", rec.Receipt.Status, "fee", rec.Fee)
	return rec
}

// Sweep 删除已经过期且余额为零的账户，并清理过期的交易 id
func (e *Executor) Sweep(consensusTime time.Time) []*types.Record {
	var records []*types.Record
	rate := e.rates.ActiveRate()
	for _, id := range e.accounts.IDSet() {
		if e.ledger.RemoveIfExpired(id, consensusTime) {
			records = append(records, account.EntityRemovalRecord(id, consensusTime, rate))
		}
	}
	e.ledger.Commit()
	window := time.Duration(e.cfg.Ledger.MaxTxnDuration) * time.Second
	if n := e.history.ExpireBefore(consensusTime.Add(-window)); n > 0 {
		elog.Debug("Sweep expired txn ids", "count", n)
	}
	return records
}
