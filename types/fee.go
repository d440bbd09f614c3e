// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "fmt"

// FeeObject node, network and service components of a transaction fee
type FeeObject struct {
	NodeFee    int64
	NetworkFee int64
	ServiceFee int64
}

// Total sum of all three components
func (f FeeObject) Total() int64 {
	return f.NodeFee + f.NetworkFee + f.ServiceFee
}

// FeeKind custom fee variant
type FeeKind int32

// custom fee kinds
const (
	FixedFeeKind FeeKind = iota + 1
	FractionalFeeKind
)

func (k FeeKind) String() string {
	switch k {
	case FixedFeeKind:
		return "FIXED_FEE"
	case FractionalFeeKind:
		return "FRACTIONAL_FEE"
	}
	return fmt.Sprintf("FeeKind(%d)", int32(k))
}

// FixedFee constant amount, Denomination nil means native currency
type FixedFee struct {
	Units        int64
	Denomination *EntityID
}

// FractionalFee numerator/denominator of the net transferred units, clamped
// to [MinimumUnits, MaximumUnits]; MaximumUnits 0 means no ceiling
type FractionalFee struct {
	Numerator    int64
	Denominator  int64
	MinimumUnits int64
	MaximumUnits int64
}

// CustomFee 代币自定义手续费
type CustomFee struct {
	Kind       FeeKind
	Collector  EntityID
	Fixed      *FixedFee
	Fractional *FractionalFee
}

// NewFixedFee fixed fee in native currency when denom is nil
func NewFixedFee(units int64, denom *EntityID, collector EntityID) (CustomFee, error) {
	if units < 0 {
		return CustomFee{}, ErrNegativeFee
	}
	var d *EntityID
	if denom != nil {
		cp := *denom
		d = &cp
	}
	return CustomFee{
		Kind:      FixedFeeKind,
		Collector: collector,
		Fixed:     &FixedFee{Units: units, Denomination: d},
	}, nil
}

// NewFractionalFee rejects a zero denominator and negative bounds
func NewFractionalFee(numerator, denominator, min, max int64, collector EntityID) (CustomFee, error) {
	if denominator == 0 {
		return CustomFee{}, ErrZeroDenominator
	}
	if numerator < 0 || denominator < 0 || min < 0 || max < 0 {
		return CustomFee{}, ErrNegativeFee
	}
	return CustomFee{
		Kind:      FractionalFeeKind,
		Collector: collector,
		Fractional: &FractionalFee{
			Numerator:    numerator,
			Denominator:  denominator,
			MinimumUnits: min,
			MaximumUnits: max,
		},
	}, nil
}

// Equal structural equality, used to detect changed fee schedules
func (f CustomFee) Equal(o CustomFee) bool {
	if f.Kind != o.Kind || f.Collector != o.Collector {
		return false
	}
	switch f.Kind {
	case FixedFeeKind:
		if f.Fixed == nil || o.Fixed == nil {
			return f.Fixed == o.Fixed
		}
		if f.Fixed.Units != o.Fixed.Units {
			return false
		}
		if f.Fixed.Denomination == nil || o.Fixed.Denomination == nil {
			return f.Fixed.Denomination == nil && o.Fixed.Denomination == nil
		}
		return *f.Fixed.Denomination == *o.Fixed.Denomination
	case FractionalFeeKind:
		if f.Fractional == nil || o.Fractional == nil {
			return f.Fractional == o.Fractional
		}
		return *f.Fractional == *o.Fractional
	}
	return false
}

func (f CustomFee) String() string {
	switch f.Kind {
	case FixedFeeKind:
		denom := "native"
		if f.Fixed.Denomination != nil {
			denom = f.Fixed.Denomination.String()
		}
		return fmt.Sprintf("FixedFee{units=%d, denom=%s, collector=%s}", f.Fixed.Units, denom, f.Collector)
	case FractionalFeeKind:
		fr := f.Fractional
		return fmt.Sprintf("FractionalFee{%d/%d, min=%d, max=%d, collector=%s}",
			fr.Numerator, fr.Denominator, fr.MinimumUnits, fr.MaximumUnits, f.Collector)
	}
	return fmt.Sprintf("CustomFee{kind=%s}", f.Kind)
}

// FeeSchedulesEqual element-wise equality, order matters
func FeeSchedulesEqual(a, b []CustomFee) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// AssessedCustomFee custom-fee attributable balance change kept in the record;
// zero Token means native currency
type AssessedCustomFee struct {
	Token   EntityID
	Account EntityID
	Units   int64
}
