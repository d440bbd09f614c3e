// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diligence

import (
	"testing"
	"time"

	log "github.com/33cn/ledgercore/common/log"
	"github.com/33cn/ledgercore/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func init() {
	log.Discard()
}

var (
	node    = types.NewEntityID(0, 0, 3)
	other   = types.NewEntityID(0, 0, 4)
	payer   = types.NewEntityID(0, 0, 1001)
	deleted = types.NewEntityID(0, 0, 1002)
	now     = time.Unix(1700000000, 0)
)

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) IsValidTxnDuration(duration int64) bool {
	return m.Called(duration).Bool(0)
}

func (m *mockValidator) ChronologyStatus(tx *types.Transaction, consensusTime time.Time) types.ResponseCode {
	return m.Called(tx, consensusTime).Get(0).(types.ResponseCode)
}

func (m *mockValidator) RawMemoCheck(memo []byte) types.ResponseCode {
	return m.Called(memo).Get(0).(types.ResponseCode)
}

type fakeCtx struct {
	tx        *types.Transaction
	node      types.EntityID
	sigActive bool
	status    types.ResponseCode
}

func (c *fakeCtx) Accessor() *types.Transaction { return c.tx }
func (c *fakeCtx) ConsensusTime() time.Time { return now }
func (c *fakeCtx) SubmittingMember() int64 { return 0 }
func (c *fakeCtx) SubmittingNodeAccount() types.EntityID { return c.node }
func (c *fakeCtx) IsPayerSigKnownActive() bool { return c.sigActive }
func (c *fakeCtx) SetStatus(status types.ResponseCode) { c.status = status }

type fakeAccounts map[types.EntityID]types.Account

func (a fakeAccounts) Contains(id types.EntityID) bool {
	_, ok := a[id]
	return ok
}

func (a fakeAccounts) GetUnsafeRef(id types.EntityID) (types.Account, bool) {
	acc, ok := a[id]
	return acc, ok
}

func setup(tx *types.Transaction) (*Screen, *fakeCtx, *mockValidator) {
	ctx := &fakeCtx{tx: tx, node: node, sigActive: true, status: types.UNKNOWN}
	v := &mockValidator{}
	accounts := fakeAccounts{
		node:    {},
		other:   {},
		payer:   {Balance: 100},
		deleted: {Deleted: true},
	}
	return NewScreen(v, ctx, accounts), ctx, v
}

func goodTxn() *types.Transaction {
	return &types.Transaction{
		TxnID:         types.TxnID{Payer: payer, ValidStart: now.Add(-time.Second)},
		NodeAccount:   node,
		ValidDuration: 120,
		Memo:          []byte("ok"),
	}
}

func TestMissingNodeShortCircuits(t *testing.T) {
	tx := goodTxn()
	tx.NodeAccount = types.NewEntityID(0, 0, 404)
	screen, ctx, v := setup(tx)
	ctx.sigActive = false

	assert.True(t, screen.NodeIgnoredDueDiligence(types.NodeDuplicate))
	assert.Equal(t, types.INVALID_NODE_ACCOUNT, ctx.status)
	v.AssertNotCalled(t, "IsValidTxnDuration", mock.Anything)
	v.AssertNotCalled(t, "RawMemoCheck", mock.Anything)
}

func TestPayerChecks(t *testing.T) {
	tx := goodTxn()
	tx.TxnID.Payer = types.NewEntityID(0, 0, 404)
	screen, ctx, _ := setup(tx)
	assert.True(t, screen.NodeIgnoredDueDiligence(types.BelievedUnique))
	assert.Equal(t, types.ACCOUNT_ID_DOES_NOT_EXIST, ctx.status)

	tx = goodTxn()
	tx.TxnID.Payer = deleted
	screen, ctx, _ = setup(tx)
	assert.True(t, screen.NodeIgnoredDueDiligence(types.BelievedUnique))
	assert.Equal(t, types.PAYER_ACCOUNT_DELETED, ctx.status)
}

func TestWrongNode(t *testing.T) {
	tx := goodTxn()
	tx.NodeAccount = other
	screen, ctx, _ := setup(tx)
	assert.True(t, screen.NodeIgnoredDueDiligence(types.BelievedUnique))
	assert.Equal(t, types.INVALID_NODE_ACCOUNT, ctx.status)
}

func TestSignatureBeforeDuplicate(t *testing.T) {
	screen, ctx, v := setup(goodTxn())
	ctx.sigActive = false
	assert.True(t, screen.NodeIgnoredDueDiligence(types.NodeDuplicate))
	assert.Equal(t, types.INVALID_PAYER_SIGNATURE, ctx.status)
	v.AssertNotCalled(t, "IsValidTxnDuration", mock.Anything)

	screen, ctx, _ = setup(goodTxn())
	assert.True(t, screen.NodeIgnoredDueDiligence(types.NodeDuplicate))
	assert.Equal(t, types.DUPLICATE_TRANSACTION, ctx.status)
}

func TestValidatorChecks(t *testing.T) {
	tx := goodTxn()

	screen, ctx, v := setup(tx)
	v.On("IsValidTxnDuration", int64(120)).Return(false)
	assert.True(t, screen.NodeIgnoredDueDiligence(types.BelievedUnique))
	assert.Equal(t, types.INVALID_TRANSACTION_DURATION, ctx.status)

	screen, ctx, v = setup(tx)
	v.On("IsValidTxnDuration", int64(120)).Return(true)
	v.On("ChronologyStatus", tx, now).Return(types.TRANSACTION_EXPIRED)
	assert.True(t, screen.NodeIgnoredDueDiligence(types.BelievedUnique))
	assert.Equal(t, types.TRANSACTION_EXPIRED, ctx.status)
	v.AssertNotCalled(t, "RawMemoCheck", mock.Anything)

	screen, ctx, v = setup(tx)
	v.On("IsValidTxnDuration", int64(120)).Return(true)
	v.On("ChronologyStatus", tx, now).Return(types.OK)
	v.On("RawMemoCheck", []byte("ok")).Return(types.MEMO_TOO_LONG)
	assert.True(t, screen.NodeIgnoredDueDiligence(types.BelievedUnique))
	assert.Equal(t, types.MEMO_TOO_LONG, ctx.status)
}

func TestAllChecksPass(t *testing.T) {
	tx := goodTxn()
	screen, ctx, v := setup(tx)
	v.On("IsValidTxnDuration", int64(120)).Return(true)
	v.On("ChronologyStatus", tx, now).Return(types.OK)
	v.On("RawMemoCheck", []byte("ok")).Return(types.OK)

	// a duplicate from another node is not the submitting node's fault
	assert.False(t, screen.NodeIgnoredDueDiligence(types.DuplicateOutsideNode))
	assert.Equal(t, types.UNKNOWN, ctx.status)
	v.AssertExpectations(t)
}
