// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marshal

import (
	"fmt"

	"github.com/33cn/ledgercore/types"
)

// ValidationProps configured limits a result was produced under
type ValidationProps struct {
	MaxHbarAdjusts        int
	MaxTokenAdjusts       int
	MaxOwnershipChanges   int
	MaxNestedCustomFees   int
	MaxXferBalanceChanges int
}

// PropsFrom current limits of cfg
func PropsFrom(cfg *types.LedgerConfig) ValidationProps {
	return ValidationProps{
		MaxHbarAdjusts:        cfg.MaxTransferListSize,
		MaxTokenAdjusts:       cfg.MaxTokenTransferListSize,
		MaxOwnershipChanges:   cfg.MaxNftTransfersLen,
		MaxNestedCustomFees:   cfg.MaxCustomFeeDepth,
		MaxXferBalanceChanges: cfg.MaxXferBalanceChanges,
	}
}

// TokenFeeSchedule the schedule of one token as it was when consulted
type TokenFeeSchedule struct {
	Token types.EntityID
	Fees  []types.CustomFee
}

// Meta 记录产生结果时的配置和用到的手续费表，用来判断缓存的结果是否还有效
type Meta struct {
	Props             ValidationProps
	Code              types.ResponseCode
	TokenFeeSchedules []TokenFeeSchedule
}

// WasDerivedFrom true only if the limits are unchanged and every consulted
// schedule still looks the same
func (m *Meta) WasDerivedFrom(props ValidationProps, schedules CustomFeeSchedules) bool {
	if m.Props != props {
		return false
	}
	for _, tfs := range m.TokenFeeSchedules {
		if !types.FeeSchedulesEqual(tfs.Fees, schedules.LookupScheduleFor(tfs.Token)) {
			return false
		}
	}
	return true
}

// ImpliedTransfers either an invalid code, or the balance changes a transfer
// implies including custom fees
type ImpliedTransfers struct {
	Meta               Meta
	Changes            []types.BalanceChange
	AssessedCustomFees []types.AssessedCustomFee
}

// Invalid result carrying only the failure code
func Invalid(props ValidationProps, code types.ResponseCode) *ImpliedTransfers {
	return &ImpliedTransfers{Meta: Meta{Props: props, Code: code}}
}

// Valid successful result
func Valid(
	props ValidationProps,
	changes []types.BalanceChange,
	schedules []TokenFeeSchedule,
	assessed []types.AssessedCustomFee,
) *ImpliedTransfers {
	return &ImpliedTransfers{
		Meta:               Meta{Props: props, Code: types.OK, TokenFeeSchedules: schedules},
		Changes:            changes,
		AssessedCustomFees: assessed,
	}
}

// Code OK for a valid result
func (it *ImpliedTransfers) Code() types.ResponseCode {
	return it.Meta.Code
}

// IsValid whether the transfer passed validation
func (it *ImpliedTransfers) IsValid() bool {
	return it.Meta.Code == types.OK
}

func (it *ImpliedTransfers) String() string {
	if !it.IsValid() {
		return fmt.Sprintf("ImpliedTransfers{invalid, code=%s}", it.Meta.Code)
	}
	return fmt.Sprintf("ImpliedTransfers{changes=%v, assessed=%d}", it.Changes, len(it.AssessedCustomFees))
}
