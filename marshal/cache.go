// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marshal

import (
	"github.com/33cn/ledgercore/types"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rcrowley/go-metrics"
)

// Cache 按交易哈希缓存展开结果，配置或手续费表变化后重新展开
type Cache struct {
	marshal *ImpliedTransfersMarshal
	data    *lru.Cache
	hits    metrics.Counter
	misses  metrics.Counter
}

// NewCache keeps at most size results
func NewCache(marshal *ImpliedTransfersMarshal, size int) *Cache {
	data, err := lru.New(size)
	if err != nil {
		panic(err)
	}
	return &Cache{
		marshal: marshal,
		data:    data,
		hits:    metrics.GetOrRegisterCounter("marshal/cache-hit", nil),
		misses:  metrics.GetOrRegisterCounter("marshal/cache-miss", nil),
	}
}

// ImpliedTransfersFor cached result while its meta still holds
func (c *Cache) ImpliedTransfersFor(tx *types.Transaction) *ImpliedTransfers {
	key := string(tx.Hash())
	if v, ok := c.data.Get(key); ok {
		cached := v.(*ImpliedTransfers)
		if cached.Meta.WasDerivedFrom(c.marshal.Props(), c.marshal.Schedules()) {
			c.hits.Inc(1)
			return cached
		}
	}
	c.misses.Inc(1)
	result := c.marshal.Unmarshal(tx.Transfer, tx.Payer())
	c.data.Add(key, result)
	return result
}

// Len number of cached results
func (c *Cache) Len() int {
	return c.data.Len()
}
