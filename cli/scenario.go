// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"os"
	"time"

	"github.com/33cn/ledgercore/account"
	"github.com/33cn/ledgercore/executor"
	"github.com/33cn/ledgercore/fees"
	"github.com/33cn/ledgercore/marshal"
	"github.com/33cn/ledgercore/txnctx"
	"github.com/33cn/ledgercore/types"
	tml "github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Scenario 创世账户、节点、代币手续费表和要执行的交易
type Scenario struct {
	Accounts  []*GenesisAccount `toml:"accounts"`
	Nodes     []*Node           `toml:"nodes"`
	Schedules []*Schedule       `toml:"schedules"`
	Txns      []*Txn            `toml:"txns"`
}

// GenesisAccount hbar balance is a decimal string, token balances are units
type GenesisAccount struct {
	ID      string          `toml:"id"`
	Balance string          `toml:"balance"`
	Expiry  int64           `toml:"expiry"`
	Memo    string          `toml:"memo"`
	Tokens  []*TokenBalance `toml:"tokens"`
}

// TokenBalance genesis token units
type TokenBalance struct {
	Token   string `toml:"token"`
	Balance int64  `toml:"balance"`
}

// Node consensus member and its node account
type Node struct {
	Member  int64  `toml:"member"`
	Account string `toml:"account"`
}

// Schedule custom fees of one token
type Schedule struct {
	Token string       `toml:"token"`
	Fees  []*CustomFee `toml:"fees"`
}

// CustomFee kind is "fixed" or "fractional"
type CustomFee struct {
	Kind         string `toml:"kind"`
	Collector    string `toml:"collector"`
	Units        int64  `toml:"units"`
	Denomination string `toml:"denomination"`
	Numerator    int64  `toml:"numerator"`
	Denominator  int64  `toml:"denominator"`
	Min          int64  `toml:"min"`
	Max          int64  `toml:"max"`
}

// Transfer hbar amounts are decimal strings
type Transfer struct {
	Account string `toml:"account"`
	Amount  string `toml:"amount"`
}

// TokenTransfer units of one token
type TokenTransfer struct {
	Token     string             `toml:"token"`
	Transfers []*TokenAdjustment `toml:"transfers"`
}

// TokenAdjustment signed units
type TokenAdjustment struct {
	Account string `toml:"account"`
	Amount  int64  `toml:"amount"`
}

// ScheduleCreate inner transfer triggered right after the schedule is created
type ScheduleCreate struct {
	ID             string           `toml:"id"`
	Payer          string           `toml:"payer"`
	Transfers      []*Transfer      `toml:"transfers"`
	TokenTransfers []*TokenTransfer `toml:"tokenTransfers"`
}

// Txn one submission. ValidStart is unix seconds; the consensus time is
// ValidStart plus ConsensusDelay seconds.
type Txn struct {
	Payer          string           `toml:"payer"`
	Node           string           `toml:"node"`
	Member         int64            `toml:"member"`
	ValidStart     int64            `toml:"validStart"`
	ConsensusDelay int64            `toml:"consensusDelay"`
	Duration       int64            `toml:"duration"`
	Fee            string           `toml:"fee"`
	Memo           string           `toml:"memo"`
	Unsigned       bool             `toml:"unsigned"`
	Expect         string           `toml:"expect"`
	Transfers      []*Transfer      `toml:"transfers"`
	TokenTransfers []*TokenTransfer `toml:"tokenTransfers"`
	Schedule       *ScheduleCreate  `toml:"schedule"`
}

// LoadScenario 读取场景文件
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scenario %s", path)
	}
	return ParseScenario(string(data))
}

// ParseScenario 从字符串解析场景
func ParseScenario(s string) (*Scenario, error) {
	var sc Scenario
	if _, err := tml.Decode(s, &sc); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}
	return &sc, nil
}

func parseID(field, s string) (types.EntityID, error) {
	id, err := types.ParseEntityID(s)
	if err != nil {
		return types.EntityID{}, errors.Wrapf(err, "%s %q", field, s)
	}
	return id, nil
}

func parseHbars(field, s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := fees.ParseHbars(s)
	if err != nil {
		return 0, errors.Wrapf(err, "%s %q", field, s)
	}
	return v, nil
}

// AddressBook member -> node account
func (sc *Scenario) AddressBook() (txnctx.StaticAddressBook, error) {
	book := make(txnctx.StaticAddressBook)
	for _, n := range sc.Nodes {
		id, err := parseID("node account", n.Account)
		if err != nil {
			return nil, err
		}
		book[n.Member] = id
	}
	return book, nil
}

// FeeSchedules custom fee schedules per token
func (sc *Scenario) FeeSchedules() (*marshal.StaticSchedules, error) {
	schedules := marshal.NewStaticSchedules()
	for _, s := range sc.Schedules {
		token, err := parseID("schedule token", s.Token)
		if err != nil {
			return nil, err
		}
		var list []types.CustomFee
		for _, f := range s.Fees {
			fee, err := f.toCustomFee()
			if err != nil {
				return nil, errors.Wrapf(err, "schedule of %s", token)
			}
			list = append(list, fee)
		}
		schedules.Set(token, list)
	}
	return schedules, nil
}

func (f *CustomFee) toCustomFee() (types.CustomFee, error) {
	collector, err := parseID("collector", f.Collector)
	if err != nil {
		return types.CustomFee{}, err
	}
	switch f.Kind {
	case "fixed":
		var denom *types.EntityID
		if f.Denomination != "" {
			d, err := parseID("denomination", f.Denomination)
			if err != nil {
				return types.CustomFee{}, err
			}
			denom = &d
		}
		return types.NewFixedFee(f.Units, denom, collector)
	case "fractional":
		return types.NewFractionalFee(f.Numerator, f.Denominator, f.Min, f.Max, collector)
	}
	return types.CustomFee{}, errors.Wrapf(types.ErrUnknownFeeKind, "kind %q", f.Kind)
}

// Genesis 创建创世账户，结果直接写入快照
func (sc *Scenario) Genesis(accounts *account.BackingAccounts) error {
	for _, ga := range sc.Accounts {
		id, err := parseID("account", ga.ID)
		if err != nil {
			return err
		}
		amount, err := parseHbars("balance", ga.Balance)
		if err != nil {
			return err
		}
		if _, err := account.GenesisInit(accounts, id, amount); err != nil {
			return errors.Wrapf(err, "genesis %s", id)
		}
		for _, tb := range ga.Tokens {
			token, err := parseID("token", tb.Token)
			if err != nil {
				return err
			}
			if _, err := account.GenesisInitToken(accounts, id, token, tb.Balance); err != nil {
				return errors.Wrapf(err, "genesis %s token %s", id, token)
			}
		}
		if ga.Expiry != 0 || ga.Memo != "" {
			acc := accounts.GetRef(id)
			acc.Expiry = ga.Expiry
			acc.Memo = ga.Memo
		}
	}
	accounts.FlushMutableRefs()
	return nil
}

// Submissions transactions in file order
func (sc *Scenario) Submissions() ([]*executor.Submission, error) {
	subs := make([]*executor.Submission, 0, len(sc.Txns))
	for i, t := range sc.Txns {
		tx, err := t.toTransaction()
		if err != nil {
			return nil, errors.Wrapf(err, "txn %d", i)
		}
		validStart := time.Unix(t.ValidStart, 0)
		subs = append(subs, &executor.Submission{
			Txn:              tx,
			ConsensusTime:    validStart.Add(time.Duration(t.ConsensusDelay) * time.Second),
			SubmittingMember: t.Member,
			PayerSigActive:   !t.Unsigned,
		})
	}
	return subs, nil
}

func (t *Txn) toTransaction() (*types.Transaction, error) {
	payer, err := parseID("payer", t.Payer)
	if err != nil {
		return nil, err
	}
	node, err := parseID("node", t.Node)
	if err != nil {
		return nil, err
	}
	fee, err := parseHbars("fee", t.Fee)
	if err != nil {
		return nil, err
	}
	tx := &types.Transaction{
		TxnID:         types.TxnID{Payer: payer, ValidStart: time.Unix(t.ValidStart, 0)},
		NodeAccount:   node,
		Fee:           fee,
		ValidDuration: t.Duration,
		Memo:          []byte(t.Memo),
	}
	if len(t.Transfers) > 0 || len(t.TokenTransfers) > 0 {
		tx.Transfer, err = toCryptoTransfer(t.Transfers, t.TokenTransfers)
		if err != nil {
			return nil, err
		}
	}
	if t.Schedule != nil {
		id, err := parseID("schedule", t.Schedule.ID)
		if err != nil {
			return nil, err
		}
		inner := &types.Transaction{}
		if t.Schedule.Payer != "" {
			if inner.TxnID.Payer, err = parseID("schedule payer", t.Schedule.Payer); err != nil {
				return nil, err
			}
		}
		if inner.Transfer, err = toCryptoTransfer(t.Schedule.Transfers, t.Schedule.TokenTransfers); err != nil {
			return nil, err
		}
		tx.Schedule = &types.ScheduleCreate{ID: id, Inner: inner}
	}
	return tx, nil
}

func toCryptoTransfer(transfers []*Transfer, tokenTransfers []*TokenTransfer) (*types.CryptoTransfer, error) {
	op := &types.CryptoTransfer{}
	for _, tr := range transfers {
		id, err := parseID("transfer account", tr.Account)
		if err != nil {
			return nil, err
		}
		amount, err := parseHbars("amount", tr.Amount)
		if err != nil {
			return nil, err
		}
		op.Transfers = append(op.Transfers, types.AccountAmount{Account: id, Amount: amount})
	}
	for _, tt := range tokenTransfers {
		token, err := parseID("token", tt.Token)
		if err != nil {
			return nil, err
		}
		list := types.TokenTransferList{Token: token}
		for _, adj := range tt.Transfers {
			id, err := parseID("token transfer account", adj.Account)
			if err != nil {
				return nil, err
			}
			list.Transfers = append(list.Transfers, types.AccountAmount{Account: id, Amount: adj.Amount})
		}
		op.TokenTransfers = append(op.TokenTransfers, list)
	}
	return op, nil
}
