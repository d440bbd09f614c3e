// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"fmt"
	"time"

	"github.com/33cn/ledgercore/types"
)

// EntityRemovalRecord record of an entity removed after expiry
func EntityRemovalRecord(id types.EntityID, consensusTime time.Time, rate types.ExchangeRate) *types.Record {
	removed := id
	return &types.Record{
		Receipt: types.Receipt{
			Status:       types.OK,
			ExchangeRate: rate,
			AccountID:    &removed,
		},
		TxnID: types.TxnID{
			Payer:      id,
			ValidStart: consensusTime,
		},
		ConsensusTime: consensusTime,
		Memo:          fmt.Sprintf("Entity ID %s was automatically deleted.", id),
	}
}

// RemoveIfExpired 过期并且余额为零的账户直接删除
func (l *Ledger) RemoveIfExpired(id types.EntityID, consensusTime time.Time) bool {
	if !l.accounts.Contains(id) {
		return false
	}
	acc, ok := l.accounts.GetUnsafeRef(id)
	if !ok || acc.Expiry == 0 || acc.Expiry > consensusTime.Unix() {
		return false
	}
	if acc.Balance != 0 {
		return false
	}
	for _, tb := range acc.TokenBalances {
		if tb.Balance != 0 {
			return false
		}
	}
	l.accounts.Remove(id)
	delete(l.netHbar, id)
	alog.Info("RemoveIfExpired", "account", id, "expiry", acc.Expiry)
	return true
}
