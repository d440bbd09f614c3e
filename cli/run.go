// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/33cn/ledgercore/executor"
	"github.com/33cn/ledgercore/fees"
	"github.com/33cn/ledgercore/types"
	"github.com/pkg/errors"
	go_metrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
)

// RunCmd run a scenario file
func RunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the transactions of a scenario file",
		Run:   runScenario,
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("scenario", "s", "", "scenario file")
	cmd.MarkFlagRequired("scenario")

	cmd.Flags().Bool("sweep", false, "remove expired accounts after the last transaction")
	cmd.Flags().Bool("stats", false, "print executor statistics")
}

func runScenario(cmd *cobra.Command, args []string) {
	path, _ := cmd.Flags().GetString("scenario")
	sweep, _ := cmd.Flags().GetBool("sweep")
	stats, _ := cmd.Flags().GetBool("stats")

	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	sc, err := LoadScenario(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if err := Execute(os.Stdout, cfg, sc, sweep); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if stats {
		go_metrics.WriteOnce(go_metrics.DefaultRegistry, os.Stdout)
	}
}

// Execute 在配置的存储上执行场景，把记录写到 w
func Execute(w io.Writer, cfg *types.Config, sc *Scenario, sweep bool) error {
	db, snap, err := openSnapshot(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	book, err := sc.AddressBook()
	if err != nil {
		return err
	}
	schedules, err := sc.FeeSchedules()
	if err != nil {
		return err
	}
	subs, err := sc.Submissions()
	if err != nil {
		return err
	}

	exec := executor.New(cfg, snap, book, schedules)
	if err := sc.Genesis(exec.Accounts()); err != nil {
		return err
	}
	var last time.Time
	for i, sub := range subs {
		records := exec.Handle(sub)
		for _, rec := range records {
			printRecord(w, rec)
		}
		last = sub.ConsensusTime
		if err := checkExpected(i, sc.Txns[i].Expect, records[0].Receipt.Status); err != nil {
			return err
		}
	}
	if sweep {
		for _, rec := range exec.Sweep(last) {
			printRecord(w, rec)
		}
	}
	fmt.Fprintf(w, "state %x version %d\n", snap.StateHash(), snap.Version())
	return nil
}

// checkExpected 场景里写了 expect 时核对第一条记录的状态
func checkExpected(i int, expect string, got types.ResponseCode) error {
	if expect == "" {
		return nil
	}
	want, ok := types.ResponseCodeFromString(expect)
	if !ok {
		return errors.Errorf("txn %d: unknown status %q", i, expect)
	}
	if got != want {
		return errors.Errorf("txn %d: status %s, expected %s", i, got, want)
	}
	return nil
}

func printRecord(w io.Writer, rec *types.Record) {
	fmt.Fprintf(w, "txn %s status %s fee %s\n", rec.TxnID, rec.Receipt.Status, fees.FormatTinybars(rec.Fee))
	if rec.Memo != "" {
		fmt.Fprintf(w, "  memo %q\n", rec.Memo)
	}
	if rec.Receipt.ScheduleID != nil {
		fmt.Fprintf(w, "  schedule %s\n", rec.Receipt.ScheduleID)
	}
	if rec.ScheduleRef != nil {
		fmt.Fprintf(w, "  triggered by %s\n", rec.ScheduleRef)
	}
	for _, aa := range rec.Transfers {
		fmt.Fprintf(w, "  %s %s\n", aa.Account, fees.FormatTinybars(aa.Amount))
	}
	for _, tl := range rec.TokenTransfers {
		parts := make([]string, 0, len(tl.Transfers))
		for _, aa := range tl.Transfers {
			parts = append(parts, fmt.Sprintf("%s:%d", aa.Account, aa.Amount))
		}
		fmt.Fprintf(w, "  token %s %s\n", tl.Token, strings.Join(parts, " "))
	}
	for _, fee := range rec.AssessedCustomFees {
		fmt.Fprintf(w, "  custom fee %s %s %d\n", fee.Token, fee.Account, fee.Units)
	}
}
