// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log 根 logger 的配置：控制台、滚动文件、按模块的日志级别
package log

import (
	"io"
	"os"

	"github.com/33cn/ledgercore/types"
	"github.com/inconshreveable/log15"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetLogLevel 只输出到控制台，级别不正确时使用 error
func SetLogLevel(logLevel string) {
	log15.Root().SetHandler(consoleHandler(getLevel(logLevel), nil))
}

// Setup 按配置重置根 logger。cfg 为 nil 时只输出 error 级别到控制台
func Setup(cfg *types.Log) error {
	if cfg == nil {
		cfg = &types.Log{}
	}
	fillDefaultValue(cfg)
	console, err := parseLevel(cfg.LogConsoleLevel)
	if err != nil {
		return errors.Wrap(err, "logConsoleLevel")
	}
	modules := make(map[string]log15.Lvl, len(cfg.Module))
	for name, s := range cfg.Module {
		if modules[name], err = parseLevel(s); err != nil {
			return errors.Wrapf(err, "module %s", name)
		}
	}
	handler := consoleHandler(console, modules)
	if cfg.LogFile != "" {
		file, err := parseLevel(cfg.Loglevel)
		if err != nil {
			return errors.Wrap(err, "loglevel")
		}
		handler = log15.MultiHandler(handler, fileHandler(cfg, file, modules))
	}
	log15.Root().SetHandler(handler)
	return nil
}

// 保证默认情况下为error级别，防止打印太多日志
func fillDefaultValue(cfg *types.Log) {
	if cfg.Loglevel == "" {
		cfg.Loglevel = log15.LvlError.String()
	}
	if cfg.LogConsoleLevel == "" {
		cfg.LogConsoleLevel = log15.LvlError.String()
	}
}

func consoleHandler(lvl log15.Lvl, modules map[string]log15.Lvl) log15.Handler {
	var out io.Writer = os.Stdout
	format := log15.LogfmtFormat()
	if isatty.IsTerminal(os.Stdout.Fd()) {
		out = colorable.NewColorableStdout()
		format = log15.TerminalFormat()
	}
	return moduleLevelHandler(lvl, modules, log15.StreamHandler(out, format))
}

func fileHandler(cfg *types.Log, lvl log15.Lvl, modules map[string]log15.Lvl) log15.Handler {
	rotateLogger := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    int(cfg.MaxFileSize),
		MaxBackups: int(cfg.MaxBackups),
		MaxAge:     int(cfg.MaxAge),
		LocalTime:  cfg.LocalTime,
		Compress:   cfg.Compress,
	}
	h := log15.StreamHandler(rotateLogger, log15.LogfmtFormat())
	// 调用源文件和方法
	if cfg.CallerFile {
		h = log15.CallerFileHandler(h)
	}
	if cfg.CallerFunction {
		h = log15.CallerFuncHandler(h)
	}
	return moduleLevelHandler(lvl, modules, h)
}

// moduleLevelHandler records carrying module=<name> use that module's level
// when one is configured, everything else uses lvl
func moduleLevelHandler(lvl log15.Lvl, modules map[string]log15.Lvl, h log15.Handler) log15.Handler {
	if len(modules) == 0 {
		return log15.LvlFilterHandler(lvl, h)
	}
	return log15.FilterHandler(func(r *log15.Record) bool {
		limit := lvl
		if m, ok := modules[moduleOf(r.Ctx)]; ok {
			limit = m
		}
		return r.Lvl <= limit
	}, h)
}

func moduleOf(ctx []interface{}) string {
	for i := 0; i+1 < len(ctx); i += 2 {
		if k, ok := ctx[i].(string); ok && k == "module" {
			if v, ok := ctx[i+1].(string); ok {
				return v
			}
		}
	}
	return ""
}

func parseLevel(s string) (log15.Lvl, error) {
	lvl, err := log15.LvlFromString(s)
	if err != nil {
		return 0, errors.Wrapf(types.ErrLogLevel, "%q", s)
	}
	return lvl, nil
}

func getLevel(s string) log15.Lvl {
	lvl, err := log15.LvlFromString(s)
	if err != nil {
		return log15.LvlError
	}
	return lvl
}

// Discard 测试中关闭日志输出
func Discard() {
	log15.Root().SetHandler(log15.DiscardHandler())
}

// New logger with ctx under the root
func New(ctx ...interface{}) log15.Logger {
	return log15.Root().New(ctx...)
}
