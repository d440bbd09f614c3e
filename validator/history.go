// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validator

import (
	"sync"
	"time"

	"github.com/33cn/ledgercore/types"
	lru "github.com/hashicorp/golang-lru"
)

type submission struct {
	members       map[int64]struct{}
	consensusTime time.Time
}

// RecentHistory 最近处理过的交易 id，用来判断重复交易
type RecentHistory struct {
	mu   sync.Mutex
	data *lru.Cache
}

// NewRecentHistory keeps at most size transaction ids
func NewRecentHistory(size int) *RecentHistory {
	data, err := lru.New(size)
	if err != nil {
		panic(err)
	}
	return &RecentHistory{data: data}
}

// Classify 同一个节点重复提交是 NodeDuplicate，其他节点提交过是 DuplicateOutsideNode
func (h *RecentHistory) Classify(id types.TxnID, member int64) types.DuplicateClassification {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.data.Peek(id.String())
	if !ok {
		return types.BelievedUnique
	}
	sub := v.(*submission)
	if _, ok := sub.members[member]; ok {
		return types.NodeDuplicate
	}
	return types.DuplicateOutsideNode
}

// Observe records that member submitted id, handled at consensusTime
func (h *RecentHistory) Observe(id types.TxnID, member int64, consensusTime time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := id.String()
	if v, ok := h.data.Get(key); ok {
		v.(*submission).members[member] = struct{}{}
		return
	}
	h.data.Add(key, &submission{
		members:       map[int64]struct{}{member: {}},
		consensusTime: consensusTime,
	})
}

// ExpireBefore forget ids first handled before t
func (h *RecentHistory) ExpireBefore(t time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, key := range h.data.Keys() {
		v, ok := h.data.Peek(key)
		if ok && v.(*submission).consensusTime.Before(t) {
			h.data.Remove(key)
			n++
		}
	}
	return n
}

// Len number of remembered ids
func (h *RecentHistory) Len() int {
	return h.data.Len()
}
