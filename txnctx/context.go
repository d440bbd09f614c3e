// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package txnctx 单笔交易执行期间的上下文，收集回执和记录的修改
package txnctx

import (
	"time"

	"github.com/33cn/ledgercore/account"
	"github.com/33cn/ledgercore/charging"
	"github.com/33cn/ledgercore/types"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
)

var tlog = log.New("module", "txnctx")

// AddressBook maps a consensus member to its node account
type AddressBook interface {
	AccountOf(member int64) (types.EntityID, bool)
}

// StaticAddressBook fixed member -> account table
type StaticAddressBook map[int64]types.EntityID

// AccountOf lookup
func (b StaticAddressBook) AccountOf(member int64) (types.EntityID, bool) {
	id, ok := b[member]
	return id, ok
}

// ExchangeRates source of the rate written into every receipt
type ExchangeRates interface {
	ActiveRate() types.ExchangeRate
}

// TxnContext 创建一次，每笔交易 ResetFor 一次。单线程使用，不加锁。
type TxnContext struct {
	ledger   *account.Ledger
	charging *charging.LedgerCharging
	book     AddressBook
	rates    ExchangeRates

	accessor              *types.Transaction
	hash                  []byte
	consensusTime         time.Time
	submittingMember      int64
	status                types.ResponseCode
	otherNonThresholdFees int64
	payerSigKnownActive   bool
	expiringEntities      []types.ExpiringEntity
	triggered             *types.Transaction
	mutations             []mutation
}

// NewTxnContext context over the given collaborators
func NewTxnContext(ledger *account.Ledger, charger *charging.LedgerCharging, book AddressBook, rates ExchangeRates) *TxnContext {
	return &TxnContext{
		ledger:   ledger,
		charging: charger,
		book:     book,
		rates:    rates,
		status:   types.UNKNOWN,
	}
}

// ResetFor 清除上一笔交易的全部状态，并为新的 payer 重置扣费
func (ctx *TxnContext) ResetFor(accessor *types.Transaction, consensusTime time.Time, submittingMember int64) {
	ctx.accessor = accessor
	ctx.consensusTime = consensusTime
	ctx.submittingMember = submittingMember
	ctx.triggered = nil
	ctx.expiringEntities = nil
	ctx.otherNonThresholdFees = 0
	ctx.hash = accessor.Hash()
	ctx.status = types.UNKNOWN
	ctx.payerSigKnownActive = false
	ctx.mutations = nil

	ctx.charging.ResetForTxn(accessor.Payer(), ctx.SubmittingNodeAccount(), accessor.Fee)
}

// Accessor transaction being handled
func (ctx *TxnContext) Accessor() *types.Transaction {
	return ctx.accessor
}

// ConsensusTime consensus timestamp of the transaction
func (ctx *TxnContext) ConsensusTime() time.Time {
	return ctx.consensusTime
}

// SubmittingMember member id of the submitting node
func (ctx *TxnContext) SubmittingMember() int64 {
	return ctx.submittingMember
}

// SubmittingNodeAccount every member must have a node account in the
// address book
func (ctx *TxnContext) SubmittingNodeAccount() types.EntityID {
	id, ok := ctx.book.AccountOf(ctx.submittingMember)
	if !ok {
		tlog.Warn("No available account for member", "member", ctx.submittingMember)
		panic(errors.Wrapf(types.ErrMissingNodeAccount, "member %d", ctx.submittingMember))
	}
	return id
}

// Status status so far
func (ctx *TxnContext) Status() types.ResponseCode {
	return ctx.status
}

// SetStatus overwrite status
func (ctx *TxnContext) SetStatus(status types.ResponseCode) {
	ctx.status = status
}

// IsPayerSigKnownActive whether the payer signature has been verified
func (ctx *TxnContext) IsPayerSigKnownActive() bool {
	return ctx.payerSigKnownActive
}

// PayerSigIsKnownActive set by the signature verification stage
func (ctx *TxnContext) PayerSigIsKnownActive() {
	ctx.payerSigKnownActive = true
}

// ActivePayer payer whose signature is known active
func (ctx *TxnContext) ActivePayer() types.EntityID {
	if !ctx.payerSigKnownActive {
		panic(types.ErrNoActivePayer)
	}
	return ctx.accessor.Payer()
}

// ActivePayerKey key of the active payer, empty when the signature is not
// known active
func (ctx *TxnContext) ActivePayerKey() []byte {
	if !ctx.payerSigKnownActive {
		return nil
	}
	acc, ok := ctx.ledger.Accounts().GetUnsafeRef(ctx.accessor.Payer())
	if !ok {
		return nil
	}
	return acc.Key
}

// AddNonThresholdFeeChargedToPayer fees charged outside LedgerCharging
func (ctx *TxnContext) AddNonThresholdFeeChargedToPayer(amount int64) {
	ctx.otherNonThresholdFees += amount
}

// AddExpiringEntities entities created by this transaction that expire
func (ctx *TxnContext) AddExpiringEntities(entities []types.ExpiringEntity) {
	ctx.expiringEntities = append(ctx.expiringEntities, entities...)
}

// ExpiringEntities collected since reset
func (ctx *TxnContext) ExpiringEntities() []types.ExpiringEntity {
	return ctx.expiringEntities
}

// Trigger 被触发的交易不能再触发交易
func (ctx *TxnContext) Trigger(scoped *types.Transaction) {
	if ctx.accessor.IsTriggered() {
		panic(types.ErrNestedTrigger)
	}
	ctx.triggered = scoped
}

// TriggeredTxn transaction to run right after this one, nil when none
func (ctx *TxnContext) TriggeredTxn() *types.Transaction {
	return ctx.triggered
}

// RecordSoFar builds the record from everything registered since reset. It
// has no side effects, so it can be called any number of times.
func (ctx *TxnContext) RecordSoFar() *types.Record {
	receipt := types.Receipt{
		Status:       ctx.status,
		ExchangeRate: ctx.rates.ActiveRate(),
	}
	rec := &types.Record{
		TxnHash:       append([]byte(nil), ctx.hash...),
		TxnID:         ctx.accessor.TxnID,
		ConsensusTime: ctx.consensusTime,
		Memo:          string(ctx.accessor.Memo),
		Fee:           ctx.charging.TotalFeesChargedToPayer() + ctx.otherNonThresholdFees,
	}
	if transfers := ctx.ledger.NetTransfersInTxn(); len(transfers) > 0 {
		rec.Transfers = transfers
	}
	if tokenTransfers := ctx.ledger.NetTokenTransfersInTxn(); len(tokenTransfers) > 0 {
		rec.TokenTransfers = tokenTransfers
	}
	if ctx.accessor.IsTriggered() {
		ref := *ctx.accessor.ScheduleRef
		rec.ScheduleRef = &ref
	}
	for _, m := range ctx.mutations {
		m.apply(&receipt, rec)
	}
	rec.Receipt = receipt
	tlog.Debug("RecordSoFar", "txn", ctx.accessor.TxnID, "itemized", log.Lazy{Fn: ctx.ItemizedRepresentation})
	return rec
}

// ItemizedRepresentation fee legs as charged, followed by the non-fee part of
// the net transfers, accounts ascending
func (ctx *TxnContext) ItemizedRepresentation() []types.AccountAmount {
	itemized := ctx.charging.ItemizedFees()
	feeNet := make(map[types.EntityID]int64)
	for _, aa := range itemized {
		feeNet[aa.Account] += aa.Amount
	}
	var rest []types.AccountAmount
	for _, aa := range ctx.ledger.NetTransfersInTxn() {
		if diff := aa.Amount - feeNet[aa.Account]; diff != 0 {
			rest = append(rest, types.AccountAmount{Account: aa.Account, Amount: diff})
		}
	}
	return append(itemized, rest...)
}
