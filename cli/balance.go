// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/33cn/ledgercore/account"
	"github.com/33cn/ledgercore/fees"
	"github.com/33cn/ledgercore/types"
	"github.com/spf13/cobra"
)

// BalanceCmd print balances from the configured store
func BalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance [account...]",
		Short: "Show balances of the given accounts, all accounts when none given",
		Run:   showBalance,
	}
	return cmd
}

func showBalance(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	db, snap, err := openSnapshot(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	defer db.Close()
	if err := PrintBalances(os.Stdout, snap, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

// PrintBalances 打印账户余额，ids 为空时打印全部账户
func PrintBalances(w io.Writer, snap account.Snapshot, ids []string) error {
	var list []types.EntityID
	if len(ids) == 0 {
		list = snap.Keys()
	}
	for _, s := range ids {
		id, err := parseID("account", s)
		if err != nil {
			return err
		}
		list = append(list, id)
	}
	for _, id := range list {
		acc, ok := snap.Get(id)
		if !ok {
			fmt.Fprintf(w, "%s not found\n", id)
			continue
		}
		fmt.Fprintf(w, "%s %s", id, fees.FormatTinybars(acc.Balance))
		for _, tb := range acc.TokenBalances {
			fmt.Fprintf(w, " %s:%d", tb.Token, tb.Balance)
		}
		if acc.Deleted {
			fmt.Fprint(w, " deleted")
		}
		fmt.Fprintln(w)
	}
	return nil
}
