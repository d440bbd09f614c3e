// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"sort"

	"github.com/33cn/ledgercore/types"
	"github.com/pkg/errors"
)

// Ledger 在 BackingAccounts 之上做余额调整，并记录本笔交易的净转账
type Ledger struct {
	accounts *BackingAccounts
	netHbar  map[types.EntityID]int64
	netToken map[types.EntityID]map[types.EntityID]int64
}

// NewLedger new ledger over accounts
func NewLedger(accounts *BackingAccounts) *Ledger {
	return &Ledger{
		accounts: accounts,
		netHbar:  make(map[types.EntityID]int64),
		netToken: make(map[types.EntityID]map[types.EntityID]int64),
	}
}

// Accounts the staged store
func (l *Ledger) Accounts() *BackingAccounts {
	return l.accounts
}

// Exists account known and not deleted
func (l *Ledger) Exists(id types.EntityID) bool {
	if !l.accounts.Contains(id) {
		return false
	}
	acc := l.accounts.GetRef(id)
	return acc != nil && !acc.Deleted
}

// GetBalance balance of the staged ref
func (l *Ledger) GetBalance(id types.EntityID) int64 {
	return l.mustRef(id).Balance
}

// GetTokenBalance token balance of the staged ref
func (l *Ledger) GetTokenBalance(id, token types.EntityID) int64 {
	return l.mustRef(id).TokenBalance(token)
}

// AdjustBalance 调用者保证余额足够，不够说明上层逻辑有错
func (l *Ledger) AdjustBalance(id types.EntityID, delta int64) {
	acc := l.mustRef(id)
	newBalance, ok := adjusted(acc.Balance, delta)
	if !ok || newBalance < 0 {
		panic(errors.Wrapf(types.ErrAmount, "account %s balance %d adjust %d", id, acc.Balance, delta))
	}
	acc.Balance = newBalance
	l.netHbar[id] += delta
}

// AdjustTokenBalance token version of AdjustBalance
func (l *Ledger) AdjustTokenBalance(id, token types.EntityID, delta int64) {
	acc := l.mustRef(id)
	newBalance, ok := adjusted(acc.TokenBalance(token), delta)
	if !ok || newBalance < 0 {
		panic(errors.Wrapf(types.ErrAmount, "account %s token %s balance adjust %d", id, token, delta))
	}
	acc.SetTokenBalance(token, newBalance)
	net, ok := l.netToken[token]
	if !ok {
		net = make(map[types.EntityID]int64)
		l.netToken[token] = net
	}
	net[id] += delta
}

// ApplyChanges 先检查全部变更，再按顺序修改；失败时不修改任何账户
func (l *Ledger) ApplyChanges(changes []types.BalanceChange) types.ResponseCode {
	type scoped struct {
		account types.EntityID
		token   types.EntityID
	}
	running := make(map[scoped]int64)
	for _, c := range changes {
		if !l.accounts.Contains(c.Account) {
			return types.INVALID_ACCOUNT_ID
		}
		acc := l.accounts.GetRef(c.Account)
		if acc == nil {
			return types.INVALID_ACCOUNT_ID
		}
		if acc.Deleted {
			return types.ACCOUNT_DELETED
		}
		key := scoped{account: c.Account, token: c.Token}
		bal, ok := running[key]
		if !ok {
			if c.IsForHbar() {
				bal = acc.Balance
			} else {
				bal = acc.TokenBalance(c.Token)
			}
		}
		bal, ok = adjusted(bal, c.Units)
		if !ok {
			return types.ACCOUNT_BALANCE_OVERFLOW
		}
		if bal < 0 {
			if c.IsForHbar() {
				return types.INSUFFICIENT_ACCOUNT_BALANCE
			}
			return types.INSUFFICIENT_TOKEN_BALANCE
		}
		running[key] = bal
	}
	for _, c := range changes {
		l.apply(c)
	}
	return types.OK
}

// adjusted balance+delta; false when a credit would take it past types.MaxCoin
func adjusted(balance, delta int64) (int64, bool) {
	if delta > 0 && balance > types.MaxCoin-delta {
		return balance, false
	}
	return balance + delta, true
}

// Revert undoes changes previously applied, last change first
func (l *Ledger) Revert(changes []types.BalanceChange) {
	for i := len(changes) - 1; i >= 0; i-- {
		l.apply(changes[i].Inverse())
	}
}

func (l *Ledger) apply(c types.BalanceChange) {
	if c.IsForHbar() {
		l.AdjustBalance(c.Account, c.Units)
	} else {
		l.AdjustTokenBalance(c.Account, c.Token, c.Units)
	}
}

// NetTransfersInTxn non-zero native adjustments since the last commit,
// accounts ascending
func (l *Ledger) NetTransfersInTxn() []types.AccountAmount {
	return netAmounts(l.netHbar)
}

// NetTokenTransfersInTxn non-zero token adjustments, tokens ascending
func (l *Ledger) NetTokenTransfersInTxn() []types.TokenTransferList {
	tokens := make([]types.EntityID, 0, len(l.netToken))
	for token := range l.netToken {
		tokens = append(tokens, token)
	}
	types.SortEntityIDs(tokens)
	var lists []types.TokenTransferList
	for _, token := range tokens {
		amounts := netAmounts(l.netToken[token])
		if len(amounts) == 0 {
			continue
		}
		lists = append(lists, types.TokenTransferList{Token: token, Transfers: amounts})
	}
	return lists
}

// Commit flush staged refs and forget the net transfer view
func (l *Ledger) Commit() {
	l.accounts.FlushMutableRefs()
	l.netHbar = make(map[types.EntityID]int64)
	l.netToken = make(map[types.EntityID]map[types.EntityID]int64)
}

func (l *Ledger) mustRef(id types.EntityID) *types.Account {
	acc := l.accounts.GetRef(id)
	if acc == nil {
		panic(errors.Wrapf(types.ErrNotFound, "account %s", id))
	}
	return acc
}

func netAmounts(net map[types.EntityID]int64) []types.AccountAmount {
	amounts := make([]types.AccountAmount, 0, len(net))
	for id, amount := range net {
		if amount != 0 {
			amounts = append(amounts, types.AccountAmount{Account: id, Amount: amount})
		}
	}
	sort.Slice(amounts, func(i, j int) bool {
		return amounts[i].Account.Less(amounts[j].Account)
	})
	return amounts
}
