// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "sort"

// Account 账本中的账户，由 snapshot 持有
type Account struct {
	Balance       int64
	Deleted       bool
	Expiry        int64
	Key           []byte
	Memo          string
	TokenBalances []TokenBalance
}

// TokenBalance balance of one token held by an account
type TokenBalance struct {
	Token   EntityID
	Balance int64
}

// Copy deep copy, the snapshot never hands out shared slices
func (acc *Account) Copy() *Account {
	if acc == nil {
		return nil
	}
	cp := *acc
	if acc.Key != nil {
		cp.Key = append([]byte(nil), acc.Key...)
	}
	if acc.TokenBalances != nil {
		cp.TokenBalances = append([]TokenBalance(nil), acc.TokenBalances...)
	}
	return &cp
}

// GetBalance nil-safe getter
func (acc *Account) GetBalance() int64 {
	if acc == nil {
		return 0
	}
	return acc.Balance
}

// TokenBalance returns the balance of token, zero when the account has none
func (acc *Account) TokenBalance(token EntityID) int64 {
	if acc == nil {
		return 0
	}
	i := acc.tokenIndex(token)
	if i < len(acc.TokenBalances) && acc.TokenBalances[i].Token == token {
		return acc.TokenBalances[i].Balance
	}
	return 0
}

// SetTokenBalance keeps TokenBalances sorted by token id
func (acc *Account) SetTokenBalance(token EntityID, balance int64) {
	i := acc.tokenIndex(token)
	if i < len(acc.TokenBalances) && acc.TokenBalances[i].Token == token {
		acc.TokenBalances[i].Balance = balance
		return
	}
	acc.TokenBalances = append(acc.TokenBalances, TokenBalance{})
	copy(acc.TokenBalances[i+1:], acc.TokenBalances[i:])
	acc.TokenBalances[i] = TokenBalance{Token: token, Balance: balance}
}

func (acc *Account) tokenIndex(token EntityID) int {
	return sort.Search(len(acc.TokenBalances), func(i int) bool {
		return !acc.TokenBalances[i].Token.Less(token)
	})
}
