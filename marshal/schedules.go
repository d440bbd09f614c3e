// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package marshal

import (
	"sync"

	"github.com/33cn/ledgercore/types"
)

// CustomFeeSchedules token -> ordered custom fees; an unknown token has an
// empty schedule
type CustomFeeSchedules interface {
	LookupScheduleFor(token types.EntityID) []types.CustomFee
}

// StaticSchedules in-memory schedules, replaced wholesale per token
type StaticSchedules struct {
	mu        sync.RWMutex
	schedules map[types.EntityID][]types.CustomFee
}

// NewStaticSchedules empty schedules
func NewStaticSchedules() *StaticSchedules {
	return &StaticSchedules{schedules: make(map[types.EntityID][]types.CustomFee)}
}

// LookupScheduleFor copy of the schedule
func (s *StaticSchedules) LookupScheduleFor(token types.EntityID) []types.CustomFee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.CustomFee(nil), s.schedules[token]...)
}

// Set replace the schedule of token
func (s *StaticSchedules) Set(token types.EntityID, fees []types.CustomFee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(fees) == 0 {
		delete(s.schedules, token)
		return
	}
	s.schedules[token] = append([]types.CustomFee(nil), fees...)
}
