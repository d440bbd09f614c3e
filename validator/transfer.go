// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validator

import (
	"math"

	"github.com/33cn/ledgercore/types"
)

// TransferChecks 不读账户状态的转账列表检查
type TransferChecks struct{}

// FullPureValidation native list first, then the token lists in request order
func (TransferChecks) FullPureValidation(
	maxHbarAdjusts int,
	maxTokenAdjusts int,
	transfers []types.AccountAmount,
	tokenTransfers []types.TokenTransferList,
) types.ResponseCode {
	if hasRepeatedAccount(transfers) {
		return types.ACCOUNT_REPEATED_IN_ACCOUNT_AMOUNTS
	}
	if !isNetZero(transfers) {
		return types.INVALID_ACCOUNT_AMOUNTS
	}
	if len(transfers) > maxHbarAdjusts {
		return types.TRANSFER_LIST_SIZE_LIMIT_EXCEEDED
	}
	return tokenTransfersValidity(maxTokenAdjusts, tokenTransfers)
}

func tokenTransfersValidity(maxTokenAdjusts int, tokenTransfers []types.TokenTransferList) types.ResponseCode {
	if len(tokenTransfers) == 0 {
		return types.OK
	}
	count := 0
	for _, tl := range tokenTransfers {
		count += len(tl.Transfers)
	}
	if count > maxTokenAdjusts {
		return types.TOKEN_TRANSFER_LIST_SIZE_LIMIT_EXCEEDED
	}
	seen := make(map[types.EntityID]struct{}, len(tokenTransfers))
	for _, tl := range tokenTransfers {
		if tl.Token.IsNative() {
			return types.INVALID_TOKEN_ID
		}
		seen[tl.Token] = struct{}{}
		if len(tl.Transfers) == 0 {
			return types.EMPTY_TOKEN_TRANSFER_ACCOUNT_AMOUNTS
		}
	}
	if len(seen) < len(tokenTransfers) {
		return types.TOKEN_ID_REPEATED_IN_TOKEN_LIST
	}
	for _, tl := range tokenTransfers {
		for _, aa := range tl.Transfers {
			if aa.Amount == 0 {
				return types.INVALID_ACCOUNT_AMOUNTS
			}
		}
		if hasRepeatedAccount(tl.Transfers) {
			return types.ACCOUNT_REPEATED_IN_ACCOUNT_AMOUNTS
		}
		if !isNetZero(tl.Transfers) {
			return types.TRANSFERS_NOT_ZERO_SUM_FOR_TOKEN
		}
	}
	return types.OK
}

func hasRepeatedAccount(amounts []types.AccountAmount) bool {
	seen := make(map[types.EntityID]struct{}, len(amounts))
	for _, aa := range amounts {
		if _, ok := seen[aa.Account]; ok {
			return true
		}
		seen[aa.Account] = struct{}{}
	}
	return false
}

// isNetZero credits and debits are totalled separately, a total that does not
// fit int64 is never zero
func isNetZero(amounts []types.AccountAmount) bool {
	var credits, debits int64
	for _, aa := range amounts {
		switch {
		case aa.Amount > 0:
			if credits > math.MaxInt64-aa.Amount {
				return false
			}
			credits += aa.Amount
		case aa.Amount < 0:
			if aa.Amount == math.MinInt64 || debits > math.MaxInt64+aa.Amount {
				return false
			}
			debits -= aa.Amount
		}
	}
	return credits == debits
}
