// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EntityID 账户或者代币的标识 (shard, realm, num)
type EntityID struct {
	Shard int64
	Realm int64
	Num   int64
}

// NativeToken 原生币的 scope，零值
var NativeToken = EntityID{}

// NewEntityID build id from parts
func NewEntityID(shard, realm, num int64) EntityID {
	return EntityID{Shard: shard, Realm: realm, Num: num}
}

// ParseEntityID parse "shard.realm.num"
func ParseEntityID(s string) (EntityID, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return EntityID{}, ErrInvalidEntityID
	}
	var nums [3]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return EntityID{}, ErrInvalidEntityID
		}
		nums[i] = n
	}
	return EntityID{Shard: nums[0], Realm: nums[1], Num: nums[2]}, nil
}

// MustParseEntityID panics on a malformed id, for literals in tests and genesis data
func MustParseEntityID(s string) EntityID {
	id, err := ParseEntityID(s)
	if err != nil {
		panic(fmt.Sprintf("bad entity id %q", s))
	}
	return id
}

// IsNative reports whether the id is the native currency scope
func (id EntityID) IsNative() bool {
	return id == NativeToken
}

// Compare orders ids by shard, then realm, then num
func (id EntityID) Compare(other EntityID) int {
	switch {
	case id.Shard != other.Shard:
		return cmpInt64(id.Shard, other.Shard)
	case id.Realm != other.Realm:
		return cmpInt64(id.Realm, other.Realm)
	default:
		return cmpInt64(id.Num, other.Num)
	}
}

// Less strict ordering used for every deterministic iteration
func (id EntityID) Less(other EntityID) bool {
	return id.Compare(other) < 0
}

func (id EntityID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Shard, id.Realm, id.Num)
}

func cmpInt64(a, b int64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// SortEntityIDs sorts in place, ascending
func SortEntityIDs(ids []EntityID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}
