// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diligence 检查提交节点是否尽职：节点账户、payer、签名、重复、有效期、memo
package diligence

import (
	"time"

	"github.com/33cn/ledgercore/types"
	log "github.com/inconshreveable/log15"
)

var dlog = log.New("module", "diligence")

// OptionValidator duration, chronology and memo checks
type OptionValidator interface {
	IsValidTxnDuration(duration int64) bool
	ChronologyStatus(tx *types.Transaction, consensusTime time.Time) types.ResponseCode
	RawMemoCheck(memo []byte) types.ResponseCode
}

// TxnContext the part of the transaction context the screen reads and writes
type TxnContext interface {
	Accessor() *types.Transaction
	ConsensusTime() time.Time
	SubmittingMember() int64
	SubmittingNodeAccount() types.EntityID
	IsPayerSigKnownActive() bool
	SetStatus(types.ResponseCode)
}

// Accounts existence and read-only view of the staged store
type Accounts interface {
	Contains(id types.EntityID) bool
	GetUnsafeRef(id types.EntityID) (types.Account, bool)
}

// Screen node due diligence checks
type Screen struct {
	validator OptionValidator
	txnCtx    TxnContext
	accounts  Accounts
}

// NewScreen new screen
func NewScreen(validator OptionValidator, txnCtx TxnContext, accounts Accounts) *Screen {
	return &Screen{
		validator: validator,
		txnCtx:    txnCtx,
		accounts:  accounts,
	}
}

// NodeIgnoredDueDiligence 按顺序检查，第一个失败的检查设置状态并返回 true
func (s *Screen) NodeIgnoredDueDiligence(duplicity types.DuplicateClassification) bool {
	tx := s.txnCtx.Accessor()
	submittingAccount := s.txnCtx.SubmittingNodeAccount()
	designatedAccount := tx.NodeAccount

	if !s.accounts.Contains(designatedAccount) {
		s.logAccountWarning("submitted a txn w/ missing node account", submittingAccount, designatedAccount, tx)
		s.txnCtx.SetStatus(types.INVALID_NODE_ACCOUNT)
		return true
	}

	payer := tx.Payer()
	if !s.accounts.Contains(payer) {
		s.logAccountWarning("submitted a txn with missing payer account", submittingAccount, payer, tx)
		s.txnCtx.SetStatus(types.ACCOUNT_ID_DOES_NOT_EXIST)
		return true
	}

	payerAccount, ok := s.accounts.GetUnsafeRef(payer)
	if !ok || payerAccount.Deleted {
		s.logAccountWarning("submitted a txn with deleted payer account", submittingAccount, payer, tx)
		s.txnCtx.SetStatus(types.PAYER_ACCOUNT_DELETED)
		return true
	}

	if submittingAccount != designatedAccount {
		s.logAccountWarning("submitted a txn meant for node account", submittingAccount, designatedAccount, tx)
		s.txnCtx.SetStatus(types.INVALID_NODE_ACCOUNT)
		return true
	}

	if !s.txnCtx.IsPayerSigKnownActive() {
		s.txnCtx.SetStatus(types.INVALID_PAYER_SIGNATURE)
		return true
	}

	if duplicity == types.NodeDuplicate {
		s.txnCtx.SetStatus(types.DUPLICATE_TRANSACTION)
		return true
	}

	if !s.validator.IsValidTxnDuration(tx.ValidDuration) {
		s.txnCtx.SetStatus(types.INVALID_TRANSACTION_DURATION)
		return true
	}

	if status := s.validator.ChronologyStatus(tx, s.txnCtx.ConsensusTime()); status != types.OK {
		s.txnCtx.SetStatus(status)
		return true
	}

	if status := s.validator.RawMemoCheck(tx.Memo); status != types.OK {
		s.txnCtx.SetStatus(status)
		return true
	}
	return false
}

func (s *Screen) logAccountWarning(msg string, submitting, related types.EntityID, tx *types.Transaction) {
	dlog.Warn(msg,
		"node", submitting,
		"member", s.txnCtx.SubmittingMember(),
		"account", related,
		"txn", tx.TxnID)
}
