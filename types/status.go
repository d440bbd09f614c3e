// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "fmt"

// ResponseCode 交易处理的业务结果，写入 receipt
type ResponseCode int32

// response codes
const (
	OK ResponseCode = iota
	UNKNOWN
	FAIL_INVALID
	INVALID_NODE_ACCOUNT
	ACCOUNT_ID_DOES_NOT_EXIST
	PAYER_ACCOUNT_DELETED
	INVALID_PAYER_SIGNATURE
	DUPLICATE_TRANSACTION
	INVALID_TRANSACTION_DURATION
	INVALID_TRANSACTION_START
	TRANSACTION_EXPIRED
	MEMO_TOO_LONG
	INVALID_ZERO_BYTE_IN_STRING
	INSUFFICIENT_TX_FEE
	INSUFFICIENT_PAYER_BALANCE
	INSUFFICIENT_ACCOUNT_BALANCE
	INSUFFICIENT_TOKEN_BALANCE
	ACCOUNT_DELETED
	INVALID_ACCOUNT_ID
	INVALID_TOKEN_ID
	INVALID_ACCOUNT_AMOUNTS
	ACCOUNT_REPEATED_IN_ACCOUNT_AMOUNTS
	TRANSFER_LIST_SIZE_LIMIT_EXCEEDED
	TOKEN_TRANSFER_LIST_SIZE_LIMIT_EXCEEDED
	EMPTY_TOKEN_TRANSFER_ACCOUNT_AMOUNTS
	TOKEN_ID_REPEATED_IN_TOKEN_LIST
	TRANSFERS_NOT_ZERO_SUM_FOR_TOKEN
	TOKEN_WAS_DELETED
	CUSTOM_FEE_OUTSIDE_NUMERIC_RANGE
	CUSTOM_FEE_CHARGING_EXCEEDED_MAX_RECURSION_DEPTH
	CUSTOM_FEE_CHARGING_EXCEEDED_MAX_ACCOUNT_AMOUNTS
	ACCOUNT_BALANCE_OVERFLOW
)

var responseCodeNames = map[ResponseCode]string{
	OK:                                   "OK",
	UNKNOWN:                              "UNKNOWN",
	FAIL_INVALID:                         "FAIL_INVALID",
	INVALID_NODE_ACCOUNT:                 "INVALID_NODE_ACCOUNT",
	ACCOUNT_ID_DOES_NOT_EXIST:            "ACCOUNT_ID_DOES_NOT_EXIST",
	PAYER_ACCOUNT_DELETED:                "PAYER_ACCOUNT_DELETED",
	INVALID_PAYER_SIGNATURE:              "INVALID_PAYER_SIGNATURE",
	DUPLICATE_TRANSACTION:                "DUPLICATE_TRANSACTION",
	INVALID_TRANSACTION_DURATION:         "INVALID_TRANSACTION_DURATION",
	INVALID_TRANSACTION_START:            "INVALID_TRANSACTION_START",
	TRANSACTION_EXPIRED:                  "TRANSACTION_EXPIRED",
	MEMO_TOO_LONG:                        "MEMO_TOO_LONG",
	INVALID_ZERO_BYTE_IN_STRING:          "INVALID_ZERO_BYTE_IN_STRING",
	INSUFFICIENT_TX_FEE:                  "INSUFFICIENT_TX_FEE",
	INSUFFICIENT_PAYER_BALANCE:           "INSUFFICIENT_PAYER_BALANCE",
	INSUFFICIENT_ACCOUNT_BALANCE:         "INSUFFICIENT_ACCOUNT_BALANCE",
	INSUFFICIENT_TOKEN_BALANCE:           "INSUFFICIENT_TOKEN_BALANCE",
	ACCOUNT_DELETED:                      "ACCOUNT_DELETED",
	INVALID_ACCOUNT_ID:                   "INVALID_ACCOUNT_ID",
	INVALID_TOKEN_ID:                     "INVALID_TOKEN_ID",
	INVALID_ACCOUNT_AMOUNTS:              "INVALID_ACCOUNT_AMOUNTS",
	ACCOUNT_REPEATED_IN_ACCOUNT_AMOUNTS:  "ACCOUNT_REPEATED_IN_ACCOUNT_AMOUNTS",
	TRANSFER_LIST_SIZE_LIMIT_EXCEEDED:    "TRANSFER_LIST_SIZE_LIMIT_EXCEEDED",
	EMPTY_TOKEN_TRANSFER_ACCOUNT_AMOUNTS: "EMPTY_TOKEN_TRANSFER_ACCOUNT_AMOUNTS",
	TOKEN_ID_REPEATED_IN_TOKEN_LIST:      "TOKEN_ID_REPEATED_IN_TOKEN_LIST",
	TRANSFERS_NOT_ZERO_SUM_FOR_TOKEN:     "TRANSFERS_NOT_ZERO_SUM_FOR_TOKEN",
	TOKEN_WAS_DELETED:                    "TOKEN_WAS_DELETED",
	CUSTOM_FEE_OUTSIDE_NUMERIC_RANGE:     "CUSTOM_FEE_OUTSIDE_NUMERIC_RANGE",
	TOKEN_TRANSFER_LIST_SIZE_LIMIT_EXCEEDED:          "TOKEN_TRANSFER_LIST_SIZE_LIMIT_EXCEEDED",
	CUSTOM_FEE_CHARGING_EXCEEDED_MAX_RECURSION_DEPTH: "CUSTOM_FEE_CHARGING_EXCEEDED_MAX_RECURSION_DEPTH",
	CUSTOM_FEE_CHARGING_EXCEEDED_MAX_ACCOUNT_AMOUNTS: "CUSTOM_FEE_CHARGING_EXCEEDED_MAX_ACCOUNT_AMOUNTS",
	ACCOUNT_BALANCE_OVERFLOW:                         "ACCOUNT_BALANCE_OVERFLOW",
}

func (c ResponseCode) String() string {
	if name, ok := responseCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ResponseCode(%d)", int32(c))
}

// ResponseCodeFromString reverse lookup used by the scenario loader
func ResponseCodeFromString(s string) (ResponseCode, bool) {
	for code, name := range responseCodeNames {
		if name == s {
			return code, true
		}
	}
	return UNKNOWN, false
}
