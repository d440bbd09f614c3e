// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"github.com/33cn/ledgercore/types"
)

// ReceiptAccountTransfer 创世前后的账户状态
type ReceiptAccountTransfer struct {
	Prev    types.Account
	Current types.Account
}

func safeAdd(balance, amount int64) (int64, error) {
	if amount < 0 || balance+amount < amount || balance+amount > types.MaxCoin {
		return balance, types.ErrAmount
	}
	return balance + amount, nil
}

// GenesisInit 生成创世账户，已经存在的账户增加余额
func GenesisInit(accounts *BackingAccounts, id types.EntityID, amount int64) (*ReceiptAccountTransfer, error) {
	return genesis(accounts, id, func(acc *types.Account) error {
		balance, err := safeAdd(acc.Balance, amount)
		if err != nil {
			return err
		}
		acc.Balance = balance
		return nil
	})
}

// GenesisInitToken 生成创世代币余额
func GenesisInitToken(accounts *BackingAccounts, id, token types.EntityID, amount int64) (*ReceiptAccountTransfer, error) {
	if token.IsNative() {
		return nil, types.ErrInvalidEntityID
	}
	return genesis(accounts, id, func(acc *types.Account) error {
		balance, err := safeAdd(acc.TokenBalance(token), amount)
		if err != nil {
			return err
		}
		acc.SetTokenBalance(token, balance)
		return nil
	})
}

func genesis(accounts *BackingAccounts, id types.EntityID, update func(*types.Account) error) (*ReceiptAccountTransfer, error) {
	if !accounts.Contains(id) {
		acc := &types.Account{}
		if err := update(acc); err != nil {
			return nil, err
		}
		accounts.Put(id, acc)
		alog.Info("GenesisInit", "account", id, "balance", acc.Balance)
		return &ReceiptAccountTransfer{Current: *acc.Copy()}, nil
	}
	accTo := accounts.GetRef(id)
	copyto := *accTo.Copy()
	if err := update(accTo); err != nil {
		return nil, err
	}
	return &ReceiptAccountTransfer{Prev: copyto, Current: *accTo.Copy()}, nil
}
