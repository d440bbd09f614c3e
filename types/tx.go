// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"crypto/sha512"
	"fmt"
	"time"
)

// TxnID payer plus valid start, unique per transaction
type TxnID struct {
	Payer      EntityID
	ValidStart time.Time
	Scheduled  bool
}

func (id TxnID) String() string {
	s := fmt.Sprintf("%s@%d.%09d", id.Payer, id.ValidStart.Unix(), id.ValidStart.Nanosecond())
	if id.Scheduled {
		s += "?scheduled"
	}
	return s
}

// Transaction 已经排好共识顺序的交易
type Transaction struct {
	TxnID         TxnID
	NodeAccount   EntityID
	Fee           int64
	ValidDuration int64
	Memo          []byte
	Transfer      *CryptoTransfer
	ScheduleRef   *EntityID
	Schedule      *ScheduleCreate
}

// ScheduleCreate 创建 schedule，内部交易在创建成功后立即触发
type ScheduleCreate struct {
	ID    EntityID
	Inner *Transaction
}

// Payer effective payer of the transaction
func (tx *Transaction) Payer() EntityID {
	return tx.TxnID.Payer
}

// IsTriggered scheduled transactions carry the schedule that triggered them
func (tx *Transaction) IsTriggered() bool {
	return tx.ScheduleRef != nil
}

// MemoHasZeroByte raw memo check input
func (tx *Transaction) MemoHasZeroByte() bool {
	for _, b := range tx.Memo {
		if b == 0 {
			return true
		}
	}
	return false
}

// Hash sha384 over the canonical encoding
func (tx *Transaction) Hash() []byte {
	sum := sha512.Sum384(EncodeTransaction(tx))
	return sum[:]
}

// NumBalanceAdjusts number of explicit legs, used by fee calculation
func (tx *Transaction) NumBalanceAdjusts() int {
	if tx.Transfer == nil {
		return 0
	}
	n := len(tx.Transfer.Transfers)
	for _, tl := range tx.Transfer.TokenTransfers {
		n += len(tl.Transfers)
	}
	return n
}

// ExchangeRate hbar/cent equivalence carried in receipts
type ExchangeRate struct {
	HbarEquiv      int32
	CentEquiv      int32
	ExpirationTime int64
}

// ExpiringEntity entity created as a side effect that expires at Expiry
type ExpiringEntity struct {
	ID     EntityID
	Expiry int64
}

// Receipt 交易回执
type Receipt struct {
	Status         ResponseCode
	ExchangeRate   ExchangeRate
	AccountID      *EntityID
	TokenID        *EntityID
	ScheduleID     *EntityID
	ScheduledTxnID *TxnID
	NewTotalSupply int64
}

// ContractCallResult opaque result of a call, this core only records it
type ContractCallResult struct {
	Contract EntityID
	Result   []byte
	GasUsed  int64
}

// Record 交易记录
type Record struct {
	Receipt            Receipt
	TxnHash            []byte
	TxnID              TxnID
	ConsensusTime      time.Time
	Memo               string
	Fee                int64
	Transfers          []AccountAmount
	TokenTransfers     []TokenTransferList
	AssessedCustomFees []AssessedCustomFee
	ScheduleRef        *EntityID
	CallResult         *ContractCallResult
}
