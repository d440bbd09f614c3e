// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package validator 无状态的交易检查：有效期、时间先后、memo、转账列表
package validator

import (
	"time"

	"github.com/33cn/ledgercore/types"
)

// OptionValidator checks that depend only on the transaction and the
// configured limits
type OptionValidator struct {
	cfg *types.LedgerConfig
}

// NewOptionValidator limits are read from cfg on every call
func NewOptionValidator(cfg *types.LedgerConfig) *OptionValidator {
	return &OptionValidator{cfg: cfg}
}

// IsValidTxnDuration duration in seconds within [min, max]
func (v *OptionValidator) IsValidTxnDuration(duration int64) bool {
	return duration >= v.cfg.MinTxnDuration && duration <= v.cfg.MaxTxnDuration
}

// ChronologyStatus 交易的有效时间窗口必须包含共识时间
func (v *OptionValidator) ChronologyStatus(tx *types.Transaction, consensusTime time.Time) types.ResponseCode {
	validStart := tx.TxnID.ValidStart
	if validStart.After(consensusTime) {
		return types.INVALID_TRANSACTION_START
	}
	validEnd := validStart.Add(time.Duration(tx.ValidDuration) * time.Second)
	if !consensusTime.Before(validEnd) {
		return types.TRANSACTION_EXPIRED
	}
	return types.OK
}

// RawMemoCheck memo length is counted in bytes of its utf-8 encoding
func (v *OptionValidator) RawMemoCheck(memo []byte) types.ResponseCode {
	if len(memo) > v.cfg.MaxMemoUtf8Bytes {
		return types.MEMO_TOO_LONG
	}
	for _, b := range memo {
		if b == 0 {
			return types.INVALID_ZERO_BYTE_IN_STRING
		}
	}
	return types.OK
}
