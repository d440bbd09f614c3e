// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// 使用 protobuf wire 格式做确定性编码，字段按编号顺序写入

const (
	fieldAccountBalance protowire.Number = 1
	fieldAccountDeleted protowire.Number = 2
	fieldAccountExpiry  protowire.Number = 3
	fieldAccountKey     protowire.Number = 4
	fieldAccountMemo    protowire.Number = 5
	fieldAccountTokens  protowire.Number = 6
)

func appendSint(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func encodeEntityID(id EntityID) []byte {
	var b []byte
	b = appendSint(b, 1, id.Shard)
	b = appendSint(b, 2, id.Realm)
	b = appendSint(b, 3, id.Num)
	return b
}

// EncodeAccount canonical bytes of an account
func EncodeAccount(acc *Account) []byte {
	var b []byte
	b = appendSint(b, fieldAccountBalance, acc.Balance)
	b = appendBool(b, fieldAccountDeleted, acc.Deleted)
	b = appendSint(b, fieldAccountExpiry, acc.Expiry)
	b = appendBytes(b, fieldAccountKey, acc.Key)
	b = appendBytes(b, fieldAccountMemo, []byte(acc.Memo))
	for _, tb := range acc.TokenBalances {
		var m []byte
		m = appendMessage(m, 1, encodeEntityID(tb.Token))
		m = appendSint(m, 2, tb.Balance)
		b = appendMessage(b, fieldAccountTokens, m)
	}
	return b
}

type fieldVisitor func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

func walkFields(b []byte, visit fieldVisitor) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "consume tag")
		}
		b = b[n:]
		m, err := visit(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return errors.Wrap(protowire.ParseError(m), "skip field")
			}
		}
		b = b[m:]
	}
	return nil
}

func consumeSint(b []byte) (int64, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, errors.Wrap(protowire.ParseError(n), "consume varint")
	}
	return protowire.DecodeZigZag(v), n, nil
}

func consumeBytes(b []byte) ([]byte, int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, errors.Wrap(protowire.ParseError(n), "consume bytes")
	}
	return v, n, nil
}

func decodeEntityID(b []byte) (EntityID, error) {
	var id EntityID
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.VarintType {
			return -1, nil
		}
		v, n, err := consumeSint(b)
		if err != nil {
			return 0, err
		}
		switch num {
		case 1:
			id.Shard = v
		case 2:
			id.Realm = v
		case 3:
			id.Num = v
		}
		return n, nil
	})
	return id, err
}

// DecodeAccount inverse of EncodeAccount, unknown fields are skipped
func DecodeAccount(data []byte) (*Account, error) {
	acc := &Account{}
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldAccountBalance, fieldAccountExpiry:
			v, n, err := consumeSint(b)
			if err != nil {
				return 0, err
			}
			if num == fieldAccountBalance {
				acc.Balance = v
			} else {
				acc.Expiry = v
			}
			return n, nil
		case fieldAccountDeleted:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, errors.Wrap(protowire.ParseError(n), "deleted")
			}
			acc.Deleted = v != 0
			return n, nil
		case fieldAccountKey, fieldAccountMemo:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			if num == fieldAccountKey {
				acc.Key = append([]byte(nil), v...)
			} else {
				acc.Memo = string(v)
			}
			return n, nil
		case fieldAccountTokens:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			tb, err := decodeTokenBalance(v)
			if err != nil {
				return 0, err
			}
			acc.TokenBalances = append(acc.TokenBalances, tb)
			return n, nil
		}
		return -1, nil
	})
	if err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}
	return acc, nil
}

func decodeTokenBalance(data []byte) (TokenBalance, error) {
	var tb TokenBalance
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			tb.Token, err = decodeEntityID(v)
			return n, err
		case 2:
			v, n, err := consumeSint(b)
			if err != nil {
				return 0, err
			}
			tb.Balance = v
			return n, nil
		}
		return -1, nil
	})
	return tb, err
}

func encodeAccountAmounts(b []byte, num protowire.Number, aas []AccountAmount) []byte {
	for _, aa := range aas {
		var m []byte
		m = appendMessage(m, 1, encodeEntityID(aa.Account))
		m = appendSint(m, 2, aa.Amount)
		b = appendMessage(b, num, m)
	}
	return b
}

// EncodeTransaction canonical bytes of a transaction, the input of Hash
func EncodeTransaction(tx *Transaction) []byte {
	var id []byte
	id = appendMessage(id, 1, encodeEntityID(tx.TxnID.Payer))
	id = appendSint(id, 2, tx.TxnID.ValidStart.Unix())
	id = appendSint(id, 3, int64(tx.TxnID.ValidStart.Nanosecond()))
	id = appendBool(id, 4, tx.TxnID.Scheduled)

	var b []byte
	b = appendMessage(b, 1, id)
	b = appendMessage(b, 2, encodeEntityID(tx.NodeAccount))
	b = appendSint(b, 3, tx.Fee)
	b = appendSint(b, 4, tx.ValidDuration)
	b = appendBytes(b, 5, tx.Memo)
	if tx.Transfer != nil {
		var body []byte
		body = encodeAccountAmounts(body, 1, tx.Transfer.Transfers)
		for _, tl := range tx.Transfer.TokenTransfers {
			var m []byte
			m = appendMessage(m, 1, encodeEntityID(tl.Token))
			m = encodeAccountAmounts(m, 2, tl.Transfers)
			body = appendMessage(body, 2, m)
		}
		b = appendMessage(b, 6, body)
	}
	if tx.ScheduleRef != nil {
		b = appendMessage(b, 7, encodeEntityID(*tx.ScheduleRef))
	}
	if tx.Schedule != nil {
		var m []byte
		m = appendMessage(m, 1, encodeEntityID(tx.Schedule.ID))
		if tx.Schedule.Inner != nil {
			m = appendMessage(m, 2, EncodeTransaction(tx.Schedule.Inner))
		}
		b = appendMessage(b, 8, m)
	}
	return b
}
