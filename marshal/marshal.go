// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package marshal 把转账请求展开成余额变更，包括代币的自定义手续费
package marshal

import (
	"math"

	"github.com/33cn/ledgercore/types"
	"github.com/holiman/uint256"
	log "github.com/inconshreveable/log15"
)

var mlog = log.New("module", "marshal")

// TransferValidator structural checks that need no ledger state
type TransferValidator interface {
	FullPureValidation(
		maxHbarAdjusts int,
		maxTokenAdjusts int,
		transfers []types.AccountAmount,
		tokenTransfers []types.TokenTransferList,
	) types.ResponseCode
}

// ImpliedTransfersMarshal turns a transfer request into balance changes
type ImpliedTransfersMarshal struct {
	cfg       *types.LedgerConfig
	checks    TransferValidator
	schedules CustomFeeSchedules
}

// NewImpliedTransfersMarshal limits are read from cfg on every call
func NewImpliedTransfersMarshal(cfg *types.LedgerConfig, checks TransferValidator, schedules CustomFeeSchedules) *ImpliedTransfersMarshal {
	return &ImpliedTransfersMarshal{
		cfg:       cfg,
		checks:    checks,
		schedules: schedules,
	}
}

// Props current limits
func (m *ImpliedTransfersMarshal) Props() ValidationProps {
	return PropsFrom(m.cfg)
}

// Schedules fee schedule source
func (m *ImpliedTransfersMarshal) Schedules() CustomFeeSchedules {
	return m.schedules
}

// assessment 一次展开过程中的累积状态
type assessment struct {
	props     ValidationProps
	payer     types.EntityID
	schedules CustomFeeSchedules

	changes   []types.BalanceChange
	consulted []TokenFeeSchedule
	seen      map[types.EntityID]struct{}
	assessed  []types.AssessedCustomFee
	// fee units per scope and account so far
	totals map[feeKey]int64
}

type feeKey struct {
	token   types.EntityID
	account types.EntityID
}

// Unmarshal 顺序完全由请求决定，不遍历 map
func (m *ImpliedTransfersMarshal) Unmarshal(op *types.CryptoTransfer, payer types.EntityID) *ImpliedTransfers {
	props := m.Props()
	if op == nil {
		op = &types.CryptoTransfer{}
	}
	validity := m.checks.FullPureValidation(props.MaxHbarAdjusts, props.MaxTokenAdjusts, op.Transfers, op.TokenTransfers)
	if validity != types.OK {
		return Invalid(props, validity)
	}

	a := &assessment{
		props:     props,
		payer:     payer,
		schedules: m.schedules,
		seen:      make(map[types.EntityID]struct{}),
		totals:    make(map[feeKey]int64),
	}
	for _, aa := range op.Transfers {
		a.changes = append(a.changes, types.HbarAdjust(aa.Account, aa.Amount))
	}
	for _, tl := range op.TokenTransfers {
		var amount int64
		for _, aa := range tl.Transfers {
			a.changes = append(a.changes, types.TokenAdjust(aa.Account, tl.Token, aa.Amount))
			if aa.Amount > 0 {
				if amount > math.MaxInt64-aa.Amount {
					return Invalid(props, types.CUSTOM_FEE_OUTSIDE_NUMERIC_RANGE)
				}
				amount += aa.Amount
			}
		}
		if code := a.assess(tl.Token, amount, 1); code != types.OK {
			return Invalid(props, code)
		}
	}
	if len(a.changes) > props.MaxXferBalanceChanges {
		mlog.Debug("Unmarshal too many balance changes", "changes", len(a.changes), "max", props.MaxXferBalanceChanges)
		return Invalid(props, types.CUSTOM_FEE_CHARGING_EXCEEDED_MAX_ACCOUNT_AMOUNTS)
	}
	return Valid(props, a.changes, a.consulted, a.assessed)
}

// assess 计算 token 的手续费。固定手续费如果用另一种代币计价，会在下一层计算
// 那种代币的手续费，层数超过 MaxNestedCustomFees 则失败
func (a *assessment) assess(token types.EntityID, amount int64, depth int) types.ResponseCode {
	fees := a.schedules.LookupScheduleFor(token)
	if depth > a.props.MaxNestedCustomFees {
		if len(fees) > 0 {
			return types.CUSTOM_FEE_CHARGING_EXCEEDED_MAX_RECURSION_DEPTH
		}
		return types.OK
	}
	a.consult(token, fees)

	for _, fee := range fees {
		if fee.Kind != types.FixedFeeKind {
			continue
		}
		units := fee.Fixed.Units
		if fee.Fixed.Denomination == nil {
			if !a.charge(types.HbarAdjust(fee.Collector, units), types.HbarAdjust(a.payer, -units)) {
				return types.CUSTOM_FEE_OUTSIDE_NUMERIC_RANGE
			}
			continue
		}
		denom := *fee.Fixed.Denomination
		if !a.charge(types.TokenAdjust(fee.Collector, denom, units), types.TokenAdjust(a.payer, denom, -units)) {
			return types.CUSTOM_FEE_OUTSIDE_NUMERIC_RANGE
		}
		if denom != token {
			if code := a.assess(denom, units, depth+1); code != types.OK {
				return code
			}
		}
	}
	for _, fee := range fees {
		if fee.Kind != types.FractionalFeeKind {
			continue
		}
		units, ok := fractionalUnits(fee.Fractional, amount)
		if !ok {
			return types.CUSTOM_FEE_OUTSIDE_NUMERIC_RANGE
		}
		if !a.charge(types.TokenAdjust(fee.Collector, token, units), types.TokenAdjust(a.payer, token, -units)) {
			return types.CUSTOM_FEE_OUTSIDE_NUMERIC_RANGE
		}
	}
	return types.OK
}

func (a *assessment) consult(token types.EntityID, fees []types.CustomFee) {
	if _, ok := a.seen[token]; ok {
		return
	}
	a.seen[token] = struct{}{}
	a.consulted = append(a.consulted, TokenFeeSchedule{Token: token, Fees: fees})
}

// charge false when the fees one account pays or collects in a scope leave int64
func (a *assessment) charge(credit, debit types.BalanceChange) bool {
	for _, c := range []types.BalanceChange{credit, debit} {
		key := feeKey{token: c.Token, account: c.Account}
		total, ok := checkedAdd(a.totals[key], c.Units)
		if !ok {
			return false
		}
		a.totals[key] = total
		a.changes = append(a.changes, c)
		a.assessed = append(a.assessed, types.AssessedCustomFee{Token: c.Token, Account: c.Account, Units: c.Units})
	}
	return true
}

func checkedAdd(x, y int64) (int64, bool) {
	sum := x + y
	if (y > 0 && sum < x) || (y < 0 && sum > x) {
		return x, false
	}
	return sum, true
}

// fractionalUnits floor(numerator*amount/denominator) in 256 bits, then
// clamped to [min, max]; false when the result does not fit int64
func fractionalUnits(frac *types.FractionalFee, amount int64) (int64, bool) {
	if frac.Denominator == 0 {
		panic(types.ErrZeroDenominator)
	}
	if frac.Numerator < 0 || frac.Denominator < 0 || amount < 0 {
		return 0, false
	}
	product := new(uint256.Int).Mul(uint256.NewInt(uint64(frac.Numerator)), uint256.NewInt(uint64(amount)))
	quotient := product.Div(product, uint256.NewInt(uint64(frac.Denominator)))
	if !quotient.IsUint64() || quotient.Uint64() > math.MaxInt64 {
		return 0, false
	}
	fee := int64(quotient.Uint64())
	if fee < frac.MinimumUnits {
		fee = frac.MinimumUnits
	}
	if frac.MaximumUnits > 0 && fee > frac.MaximumUnits {
		fee = frac.MaximumUnits
	}
	return fee, true
}
