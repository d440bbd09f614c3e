// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"crypto/sha256"
	"strings"

	dbm "github.com/33cn/ledgercore/common/db"
	"github.com/33cn/ledgercore/types"
	"github.com/pkg/errors"
)

// Snapshot versioned account map the staged store sits in front of.
// Get hands out an immutable copy; GetForModify hands out a copy that only
// becomes visible through Replace.
type Snapshot interface {
	Keys() []types.EntityID
	Get(id types.EntityID) (*types.Account, bool)
	GetForModify(id types.EntityID) *types.Account
	Put(id types.EntityID, acc *types.Account)
	Remove(id types.EntityID)
	Replace(id types.EntityID, acc *types.Account)
	Version() int64
}

const accountKeyPrefix = "mavl-acct-"

// StateMap Snapshot stored in a kv db. Every mutation folds into a running
// digest, so two replicas agree on StateHash only if they mutated in the
// same order.
type StateMap struct {
	db      dbm.DB
	version int64
	hash    [sha256.Size]byte
}

// NewStateMap wraps db
func NewStateMap(db dbm.DB) *StateMap {
	return &StateMap{db: db}
}

// AccountKey return the key of id in DB
func AccountKey(id types.EntityID) []byte {
	return []byte(accountKeyPrefix + id.String())
}

// Keys every stored account id, ascending
func (m *StateMap) Keys() []types.EntityID {
	keys, err := m.db.ListKeys([]byte(accountKeyPrefix))
	if err != nil {
		panic(err)
	}
	ids := make([]types.EntityID, 0, len(keys))
	for _, k := range keys {
		id, err := types.ParseEntityID(strings.TrimPrefix(string(k), accountKeyPrefix))
		if err != nil {
			panic(errors.Wrapf(err, "bad account key %s", string(k)))
		}
		ids = append(ids, id)
	}
	types.SortEntityIDs(ids)
	return ids
}

// Get immutable view
func (m *StateMap) Get(id types.EntityID) (*types.Account, bool) {
	value, err := m.db.Get(AccountKey(id))
	if err == types.ErrNotFound {
		return nil, false
	}
	if err != nil {
		panic(err)
	}
	acc, err := types.DecodeAccount(value)
	if err != nil {
		panic(err) //数据库已经损坏
	}
	return acc, true
}

// GetForModify mutable copy, nil when missing
func (m *StateMap) GetForModify(id types.EntityID) *types.Account {
	acc, ok := m.Get(id)
	if !ok {
		return nil
	}
	return acc
}

// Put insert or overwrite
func (m *StateMap) Put(id types.EntityID, acc *types.Account) {
	m.save(id, acc)
}

// Replace write back a modified account
func (m *StateMap) Replace(id types.EntityID, acc *types.Account) {
	m.save(id, acc)
}

// Remove delete
func (m *StateMap) Remove(id types.EntityID) {
	key := AccountKey(id)
	if err := m.db.Delete(key); err != nil {
		panic(err)
	}
	m.fold(key, nil)
}

func (m *StateMap) save(id types.EntityID, acc *types.Account) {
	key := AccountKey(id)
	value := types.EncodeAccount(acc)
	if err := m.db.Set(key, value); err != nil {
		panic(err)
	}
	m.fold(key, value)
}

func (m *StateMap) fold(key, value []byte) {
	h := sha256.New()
	h.Write(m.hash[:])
	h.Write(key)
	h.Write(value)
	copy(m.hash[:], h.Sum(nil))
	m.version++
}

// Version number of mutations applied
func (m *StateMap) Version() int64 {
	return m.version
}

// StateHash running digest of the mutation sequence
func (m *StateMap) StateHash() []byte {
	return append([]byte(nil), m.hash[:]...)
}
