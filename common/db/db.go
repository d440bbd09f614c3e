// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db key value backends for the account snapshot
package db

import (
	"github.com/33cn/ledgercore/types"
	"github.com/pkg/errors"
)

// KVDB 最小的 kv 接口
type KVDB interface {
	Get(key []byte) (value []byte, err error)
	Set(key []byte, value []byte) (err error)
}

// DB kv store with delete and ordered prefix listing. Get returns
// types.ErrNotFound for missing keys.
type DB interface {
	KVDB
	Delete(key []byte) error
	// ListKeys returns every key with prefix, ascending
	ListKeys(prefix []byte) ([][]byte, error)
	Close() error
}

// backend names
const (
	LevelDBBackendStr    = "leveldb" // legacy, defaults to goleveldb.
	GoLevelDBBackendStr  = "goleveldb"
	MemDBBackendStr      = "memdb"
	GoBadgerDBBackendStr = "gobadgerdb"
)

type dbCreator func(name string, dir string, cache int) (DB, error)

var backends = map[string]dbCreator{}

func registerDBCreator(backend string, creator dbCreator, force bool) {
	_, ok := backends[backend]
	if !force && ok {
		return
	}
	backends[backend] = creator
}

// NewDB open a backend by name
func NewDB(name string, backend string, dir string, cache int) (DB, error) {
	creator, ok := backends[backend]
	if !ok {
		return nil, errors.Wrapf(types.ErrStoreDriver, "unknown backend %s", backend)
	}
	db, err := creator(name, dir, cache)
	if err != nil {
		return nil, errors.Wrapf(err, "init %s db %s", backend, name)
	}
	return db, nil
}

// CopyBytes copy, nil stays nil
func CopyBytes(b []byte) (copiedBytes []byte) {
	if b == nil {
		return nil
	}
	copiedBytes = make([]byte, len(b))
	copy(copiedBytes, b)
	return copiedBytes
}
