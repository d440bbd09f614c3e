// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"github.com/33cn/ledgercore/types"
	"github.com/inconshreveable/log15"
)

var alog = log15.New("module", "account")

const maxAccountsLikelyTouchedInTxn = 12

// BackingAccounts 交易期间的账户缓存。GetRef 取出的账户在同一笔交易中只从
// snapshot 读一次，FlushMutableRefs 按 id 升序写回。
//
// Not safe for concurrent use: one transaction at a time.
type BackingAccounts struct {
	delegate Snapshot
	extant   map[types.EntityID]struct{}
	touched  []types.EntityID
	cache    map[types.EntityID]*types.Account
}

// NewBackingAccounts builds the existence index from delegate
func NewBackingAccounts(delegate Snapshot) *BackingAccounts {
	b := &BackingAccounts{
		delegate: delegate,
		extant:   make(map[types.EntityID]struct{}),
		touched:  make([]types.EntityID, 0, maxAccountsLikelyTouchedInTxn),
		cache:    make(map[types.EntityID]*types.Account),
	}
	b.RebuildFromSources()
	return b
}

// RebuildFromSources reloads the existence index from the snapshot
func (b *BackingAccounts) RebuildFromSources() {
	b.extant = make(map[types.EntityID]struct{})
	for _, id := range b.delegate.Keys() {
		b.extant[id] = struct{}{}
	}
	alog.Debug("RebuildFromSources", "accounts", len(b.extant))
}

// FlushMutableRefs writes every cached ref back in ascending id order, then
// forgets them
func (b *BackingAccounts) FlushMutableRefs() {
	types.SortEntityIDs(b.touched)
	for _, id := range b.touched {
		b.delegate.Replace(id, b.cache[id])
	}
	b.cache = make(map[types.EntityID]*types.Account)
	b.touched = b.touched[:0]
}

// GetRef mutable ref, cached until the next flush. Returns nil when the
// snapshot has no such account; a miss is not cached.
func (b *BackingAccounts) GetRef(id types.EntityID) *types.Account {
	if acc, ok := b.cache[id]; ok {
		return acc
	}
	acc := b.delegate.GetForModify(id)
	if acc == nil {
		return nil
	}
	b.cache[id] = acc
	b.touched = append(b.touched, id)
	return acc
}

// GetUnsafeRef read-only copy straight from the snapshot, does not touch the
// cache
func (b *BackingAccounts) GetUnsafeRef(id types.EntityID) (types.Account, bool) {
	acc, ok := b.delegate.Get(id)
	if !ok {
		return types.Account{}, false
	}
	return *acc.Copy(), true
}

// Put inserts only ids not already known to exist
func (b *BackingAccounts) Put(id types.EntityID, acc *types.Account) {
	if _, ok := b.extant[id]; ok {
		return
	}
	b.delegate.Put(id, acc)
	b.extant[id] = struct{}{}
}

// Contains O(1) existence check
func (b *BackingAccounts) Contains(id types.EntityID) bool {
	_, ok := b.extant[id]
	return ok
}

// Remove evicts from the index and the snapshot
func (b *BackingAccounts) Remove(id types.EntityID) {
	delete(b.extant, id)
	if _, ok := b.cache[id]; ok {
		delete(b.cache, id)
		for i, t := range b.touched {
			if t == id {
				b.touched = append(b.touched[:i], b.touched[i+1:]...)
				break
			}
		}
	}
	b.delegate.Remove(id)
}

// IDSet known ids, ascending
func (b *BackingAccounts) IDSet() []types.EntityID {
	ids := make([]types.EntityID, 0, len(b.extant))
	for id := range b.extant {
		ids = append(ids, id)
	}
	types.SortEntityIDs(ids)
	return ids
}
