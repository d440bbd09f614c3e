// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "fmt"

// BalanceChange signed adjustment of one account in one scope
type BalanceChange struct {
	Token   EntityID
	Account EntityID
	Units   int64
}

// HbarAdjust native currency change
func HbarAdjust(account EntityID, units int64) BalanceChange {
	return BalanceChange{Account: account, Units: units}
}

// TokenAdjust change scoped to token
func TokenAdjust(account, token EntityID, units int64) BalanceChange {
	return BalanceChange{Token: token, Account: account, Units: units}
}

// IsForHbar reports whether the change is in native currency
func (c BalanceChange) IsForHbar() bool {
	return c.Token.IsNative()
}

// Inverse the change that undoes c
func (c BalanceChange) Inverse() BalanceChange {
	return BalanceChange{Token: c.Token, Account: c.Account, Units: -c.Units}
}

func (c BalanceChange) String() string {
	if c.IsForHbar() {
		return fmt.Sprintf("BalanceChange{native, account=%s, units=%d}", c.Account, c.Units)
	}
	return fmt.Sprintf("BalanceChange{token=%s, account=%s, units=%d}", c.Token, c.Account, c.Units)
}

// NetByScope sums units per scope; a valid change list has all sums zero
func NetByScope(changes []BalanceChange) map[EntityID]int64 {
	sums := make(map[EntityID]int64)
	for _, c := range changes {
		sums[c.Token] += c.Units
	}
	return sums
}

// AccountAmount one leg of an explicit transfer list
type AccountAmount struct {
	Account EntityID
	Amount  int64
}

// TokenTransferList explicit legs for one token
type TokenTransferList struct {
	Token     EntityID
	Transfers []AccountAmount
}

// CryptoTransfer body of a transfer-shaped transaction
type CryptoTransfer struct {
	Transfers      []AccountAmount
	TokenTransfers []TokenTransferList
}
