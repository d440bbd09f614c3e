// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "errors"

// 这里的错误都是程序错误或者 io 错误，业务结果用 ResponseCode 表示
var (
	ErrNotFound              = errors.New("ErrNotFound")
	ErrInvalidEntityID       = errors.New("ErrInvalidEntityID")
	ErrPayerNotExtant        = errors.New("ErrPayerNotExtant")
	ErrInsufficientForCharge = errors.New("ErrInsufficientForCharge")
	ErrNestedTrigger         = errors.New("ErrNestedTrigger")
	ErrNoActivePayer         = errors.New("ErrNoActivePayer")
	ErrMissingNodeAccount    = errors.New("ErrMissingNodeAccount")
	ErrZeroDenominator       = errors.New("ErrZeroDenominator")
	ErrNegativeFee           = errors.New("ErrNegativeFee")
	ErrUnknownFeeKind        = errors.New("ErrUnknownFeeKind")
	ErrDecode                = errors.New("ErrDecode")
	ErrStoreDriver           = errors.New("ErrStoreDriver")
	ErrAccountExists         = errors.New("ErrAccountExists")
	ErrAmount                = errors.New("ErrAmount")
	ErrLogLevel              = errors.New("ErrLogLevel")
)
