// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"os"

	tml "github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// coin conversation
const (
	Coin    int64 = 1e8
	MaxCoin int64 = 5e18
)

// Config 配置文件的根结构
type Config struct {
	Title  string        `toml:"title"`
	Log    *Log          `toml:"log"`
	Store  *Store        `toml:"store"`
	Ledger *LedgerConfig `toml:"ledger"`
	Fees   *FeesConfig   `toml:"fees"`
}

// Log 日志配置
type Log struct {
	Loglevel        string `toml:"loglevel"`
	LogConsoleLevel string `toml:"logConsoleLevel"`
	LogFile         string `toml:"logFile"`
	MaxFileSize     uint32 `toml:"maxFileSize"`
	MaxBackups      uint32 `toml:"maxBackups"`
	MaxAge          uint32 `toml:"maxAge"`
	LocalTime       bool   `toml:"localTime"`
	Compress        bool   `toml:"compress"`
	CallerFile      bool   `toml:"callerFile"`
	CallerFunction  bool   `toml:"callerFunction"`

	// 按模块覆盖级别, 例如 executor = "debug"
	Module map[string]string `toml:"module"`
}

// Store backing kv store for the account snapshot
type Store struct {
	Driver    string `toml:"driver"`
	DbPath    string `toml:"dbPath"`
	DbCache   int32  `toml:"dbCache"`
	Name      string `toml:"name"`
	NodeCount int    `toml:"nodeCount"`
}

// LedgerConfig dynamic properties read by the transaction core. It is passed
// explicitly to every component, never held globally.
type LedgerConfig struct {
	FundingAccount           string `toml:"fundingAccount"`
	MaxTransferListSize      int    `toml:"maxTransferListSize"`
	MaxTokenTransferListSize int    `toml:"maxTokenTransferListSize"`
	MaxNftTransfersLen       int    `toml:"maxNftTransfersLen"`
	MaxCustomFeeDepth        int    `toml:"maxCustomFeeDepth"`
	MaxXferBalanceChanges    int    `toml:"maxXferBalanceChanges"`
	MinTxnDuration           int64  `toml:"minTxnDuration"`
	MaxTxnDuration           int64  `toml:"maxTxnDuration"`
	MaxMemoUtf8Bytes         int    `toml:"maxMemoUtf8Bytes"`
	ImpliedTransfersCache    int    `toml:"impliedTransfersCache"`
	RecentHistorySize        int    `toml:"recentHistorySize"`

	fundingID *EntityID
}

// FeesConfig flat USD-cent schedule and the active exchange rate
type FeesConfig struct {
	HbarEquiv          int32 `toml:"hbarEquiv"`
	CentEquiv          int32 `toml:"centEquiv"`
	NodeTinycents      int64 `toml:"nodeTinycents"`
	NetworkTinycents   int64 `toml:"networkTinycents"`
	ServiceTinycents   int64 `toml:"serviceTinycents"`
	PerAdjustTinycents int64 `toml:"perAdjustTinycents"`
	RateExpirationTime int64 `toml:"rateExpirationTime"`
}

// FillDefaults 没有配置的字段使用默认值
func (c *LedgerConfig) FillDefaults() {
	if c.FundingAccount == "" {
		c.FundingAccount = "0.0.98"
	}
	if c.MaxTransferListSize == 0 {
		c.MaxTransferListSize = 10
	}
	if c.MaxTokenTransferListSize == 0 {
		c.MaxTokenTransferListSize = 10
	}
	if c.MaxNftTransfersLen == 0 {
		c.MaxNftTransfersLen = 10
	}
	if c.MaxCustomFeeDepth == 0 {
		c.MaxCustomFeeDepth = 2
	}
	if c.MaxXferBalanceChanges == 0 {
		c.MaxXferBalanceChanges = 20
	}
	if c.MinTxnDuration == 0 {
		c.MinTxnDuration = 15
	}
	if c.MaxTxnDuration == 0 {
		c.MaxTxnDuration = 180
	}
	if c.MaxMemoUtf8Bytes == 0 {
		c.MaxMemoUtf8Bytes = 100
	}
	if c.ImpliedTransfersCache == 0 {
		c.ImpliedTransfersCache = 1024
	}
	if c.RecentHistorySize == 0 {
		c.RecentHistorySize = 10240
	}
	c.fundingID = nil
}

// FundingAccountID parsed funding account; a malformed id is a config error
// and panics
func (c *LedgerConfig) FundingAccountID() EntityID {
	if c.fundingID == nil {
		id := MustParseEntityID(c.FundingAccount)
		c.fundingID = &id
	}
	return *c.fundingID
}

// FillDefaults 默认汇率 1 hbar = 12 cents
func (c *FeesConfig) FillDefaults() {
	if c.HbarEquiv == 0 {
		c.HbarEquiv = 1
	}
	if c.CentEquiv == 0 {
		c.CentEquiv = 12
	}
}

// DefaultLedgerConfig config with every default filled
func DefaultLedgerConfig() *LedgerConfig {
	c := &LedgerConfig{}
	c.FillDefaults()
	return c
}

func (c *Config) fillDefaults() {
	if c.Title == "" {
		c.Title = "ledgercore"
	}
	if c.Log == nil {
		c.Log = &Log{}
	}
	if c.Store == nil {
		c.Store = &Store{}
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memdb"
	}
	if c.Store.Name == "" {
		c.Store.Name = "accounts"
	}
	if c.Ledger == nil {
		c.Ledger = &LedgerConfig{}
	}
	c.Ledger.FillDefaults()
	if c.Fees == nil {
		c.Fees = &FeesConfig{}
	}
	c.Fees.FillDefaults()
}

// InitCfgString 从字符串解析配置
func InitCfgString(cfgstring string) (*Config, error) {
	var cfg Config
	if _, err := tml.Decode(cfgstring, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.fillDefaults()
	if _, err := ParseEntityID(cfg.Ledger.FundingAccount); err != nil {
		return nil, errors.Wrapf(err, "fundingAccount %q", cfg.Ledger.FundingAccount)
	}
	return &cfg, nil
}

// InitCfg 初始化配置
func InitCfg(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	return InitCfgString(string(data))
}
