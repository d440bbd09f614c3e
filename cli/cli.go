// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli ledgercore 命令行工具
package cli

import (
	"fmt"
	"os"

	"github.com/33cn/ledgercore/account"
	dbm "github.com/33cn/ledgercore/common/db"
	clog "github.com/33cn/ledgercore/common/log"
	"github.com/33cn/ledgercore/types"
	"github.com/spf13/cobra"
)

// Version 版本号
const Version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "ledgercore",
	Short: "ledgercore transaction execution tools",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Get ledgercore version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("conf", "c", "", "config file, defaults are used when empty")
	rootCmd.AddCommand(
		RunCmd(),
		BalanceCmd(),
		versionCmd,
	)
}

// Run 执行命令行
func Run() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*types.Config, error) {
	path, _ := cmd.Flags().GetString("conf")
	var cfg *types.Config
	var err error
	if path == "" {
		cfg, err = types.InitCfgString("")
	} else {
		cfg, err = types.InitCfg(path)
	}
	if err != nil {
		return nil, err
	}
	if err := clog.Setup(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openSnapshot(cfg *types.Config) (dbm.DB, *account.StateMap, error) {
	db, err := dbm.NewDB(cfg.Store.Name, cfg.Store.Driver, cfg.Store.DbPath, int(cfg.Store.DbCache))
	if err != nil {
		return nil, nil, err
	}
	return db, account.NewStateMap(db), nil
}
