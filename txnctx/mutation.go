// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package txnctx

import (
	"github.com/33cn/ledgercore/types"
)

type mutationKind int

const (
	setCreatedAccount mutationKind = iota + 1
	setCreatedToken
	setCreatedSchedule
	setScheduledTxnID
	setNewTotalSupply
	setCallResult
	setAssessedCustomFees
)

// mutation 回执和记录的延迟修改，RecordSoFar 按注册顺序应用
type mutation struct {
	kind       mutationKind
	id         types.EntityID
	txnID      types.TxnID
	supply     int64
	callResult *types.ContractCallResult
	assessed   []types.AssessedCustomFee
}

func (m mutation) apply(receipt *types.Receipt, rec *types.Record) {
	switch m.kind {
	case setCreatedAccount:
		id := m.id
		receipt.AccountID = &id
	case setCreatedToken:
		id := m.id
		receipt.TokenID = &id
	case setCreatedSchedule:
		id := m.id
		receipt.ScheduleID = &id
	case setScheduledTxnID:
		txnID := m.txnID
		receipt.ScheduledTxnID = &txnID
	case setNewTotalSupply:
		receipt.NewTotalSupply = m.supply
	case setCallResult:
		if m.callResult == nil {
			return
		}
		result := *m.callResult
		result.Result = append([]byte(nil), m.callResult.Result...)
		rec.CallResult = &result
	case setAssessedCustomFees:
		rec.AssessedCustomFees = append([]types.AssessedCustomFee(nil), m.assessed...)
	}
}

// SetCreatedAccount account created by this transaction
func (ctx *TxnContext) SetCreatedAccount(id types.EntityID) {
	ctx.mutations = append(ctx.mutations, mutation{kind: setCreatedAccount, id: id})
}

// SetCreatedToken token created by this transaction
func (ctx *TxnContext) SetCreatedToken(id types.EntityID) {
	ctx.mutations = append(ctx.mutations, mutation{kind: setCreatedToken, id: id})
}

// SetCreatedSchedule schedule created by this transaction
func (ctx *TxnContext) SetCreatedSchedule(id types.EntityID) {
	ctx.mutations = append(ctx.mutations, mutation{kind: setCreatedSchedule, id: id})
}

// SetScheduledTxnID id of the transaction a schedule will trigger
func (ctx *TxnContext) SetScheduledTxnID(txnID types.TxnID) {
	ctx.mutations = append(ctx.mutations, mutation{kind: setScheduledTxnID, txnID: txnID})
}

// SetNewTotalSupply token supply after a mint or burn
func (ctx *TxnContext) SetNewTotalSupply(supply int64) {
	ctx.mutations = append(ctx.mutations, mutation{kind: setNewTotalSupply, supply: supply})
}

// SetCallResult opaque call result, recorded as is
func (ctx *TxnContext) SetCallResult(result *types.ContractCallResult) {
	ctx.mutations = append(ctx.mutations, mutation{kind: setCallResult, callResult: result})
}

// SetAssessedCustomFees custom fees charged while transferring
func (ctx *TxnContext) SetAssessedCustomFees(fees []types.AssessedCustomFee) {
	ctx.mutations = append(ctx.mutations, mutation{kind: setAssessedCustomFees, assessed: fees})
}
