// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// DuplicateClassification how a transaction id relates to recently handled ones
type DuplicateClassification int32

// duplicate classifications
const (
	BelievedUnique DuplicateClassification = iota
	NodeDuplicate
	DuplicateOutsideNode
)

func (d DuplicateClassification) String() string {
	switch d {
	case BelievedUnique:
		return "BELIEVED_UNIQUE"
	case NodeDuplicate:
		return "NODE_DUPLICATE"
	case DuplicateOutsideNode:
		return "DUPLICATE"
	}
	return "UNKNOWN_DUPLICATE_CLASSIFICATION"
}
