// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fees 按美分计价的费率表和汇率计算交易手续费
package fees

import (
	"sync"

	"github.com/33cn/ledgercore/types"
	"github.com/shopspring/decimal"
)

// TinybarsPerHbar smallest native unit per whole unit
const TinybarsPerHbar = 100000000

// Calculator fee of a transaction at the given rate
type Calculator interface {
	ComputeFee(tx *types.Transaction, rate types.ExchangeRate) types.FeeObject
}

// ExchangeRates active hbar/cent rate, safe for concurrent readers
type ExchangeRates struct {
	mu     sync.RWMutex
	active types.ExchangeRate
}

// NewExchangeRates starts from the configured rate
func NewExchangeRates(cfg *types.FeesConfig) *ExchangeRates {
	return &ExchangeRates{active: types.ExchangeRate{
		HbarEquiv:      cfg.HbarEquiv,
		CentEquiv:      cfg.CentEquiv,
		ExpirationTime: cfg.RateExpirationTime,
	}}
}

// ActiveRate current rate
func (r *ExchangeRates) ActiveRate() types.ExchangeRate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Update 汇率文件更新后调用
func (r *ExchangeRates) Update(rate types.ExchangeRate) error {
	if rate.HbarEquiv <= 0 || rate.CentEquiv <= 0 {
		return types.ErrAmount
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = rate
	return nil
}

// ScheduleCalculator flat schedule: node and network fee per transaction,
// service fee plus a surcharge per explicit transfer leg
type ScheduleCalculator struct {
	cfg *types.FeesConfig
}

// NewScheduleCalculator schedule read from cfg
func NewScheduleCalculator(cfg *types.FeesConfig) *ScheduleCalculator {
	return &ScheduleCalculator{cfg: cfg}
}

// ComputeFee 三部分分别换算，向下取整
func (c *ScheduleCalculator) ComputeFee(tx *types.Transaction, rate types.ExchangeRate) types.FeeObject {
	service := decimal.NewFromInt(c.cfg.ServiceTinycents).
		Add(decimal.NewFromInt(c.cfg.PerAdjustTinycents).Mul(decimal.NewFromInt(int64(tx.NumBalanceAdjusts()))))
	return types.FeeObject{
		NodeFee:    TinycentsToTinybars(decimal.NewFromInt(c.cfg.NodeTinycents), rate),
		NetworkFee: TinycentsToTinybars(decimal.NewFromInt(c.cfg.NetworkTinycents), rate),
		ServiceFee: TinycentsToTinybars(service, rate),
	}
}

// TinycentsToTinybars floor(tinycents * hbarEquiv / centEquiv)
func TinycentsToTinybars(tinycents decimal.Decimal, rate types.ExchangeRate) int64 {
	if rate.CentEquiv <= 0 {
		panic(types.ErrAmount)
	}
	scaled := tinycents.Mul(decimal.NewFromInt(int64(rate.HbarEquiv)))
	quo, _ := scaled.QuoRem(decimal.NewFromInt(int64(rate.CentEquiv)), 0)
	return quo.IntPart()
}

// FormatTinybars human readable amount, e.g. 150000000 -> "1.50000000"
func FormatTinybars(tinybars int64) string {
	return decimal.New(tinybars, -8).StringFixed(8)
}

// ParseHbars inverse of FormatTinybars, extra digits are truncated
func ParseHbars(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.Mul(decimal.NewFromInt(TinybarsPerHbar)).Truncate(0).IntPart(), nil
}
