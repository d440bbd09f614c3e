// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/33cn/ledgercore/types"
	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, log15.LvlDebug, getLevel("debug"))
	assert.Equal(t, log15.LvlWarn, getLevel("warn"))
	assert.Equal(t, log15.LvlError, getLevel("nonsense"))
}

func TestFillDefaultValue(t *testing.T) {
	cfg := &types.Log{}
	fillDefaultValue(cfg)
	assert.Equal(t, "eror", cfg.Loglevel)
	assert.Equal(t, "eror", cfg.LogConsoleLevel)
}

func TestSetupBadLevel(t *testing.T) {
	err := Setup(&types.Log{LogConsoleLevel: "loud"})
	assert.Equal(t, types.ErrLogLevel, errors.Cause(err))

	err = Setup(&types.Log{Module: map[string]string{"executor": "chatty"}})
	assert.Equal(t, types.ErrLogLevel, errors.Cause(err))
	defer Discard()
	require.NoError(t, Setup(nil))
}

func TestSetupFileWithModuleLevels(t *testing.T) {
	dir, err := os.MkdirTemp("", "ledgercore-log")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "ledgercore.log")
	require.NoError(t, Setup(&types.Log{
		LogFile:         file,
		Loglevel:        "info",
		LogConsoleLevel: "crit",
		Module:          map[string]string{"quiet": "crit", "verbose": "debug"},
	}))
	defer Discard()

	New("module", "log_test").Info("hello", "k", 1)
	New("module", "log_test").Debug("hidden")
	New("module", "quiet").Warn("suppressed")
	New("module", "verbose").Debug("shown")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "msg=hello")
	assert.Contains(t, s, "module=log_test")
	assert.Contains(t, s, "msg=shown")
	assert.NotContains(t, s, "hidden")
	assert.NotContains(t, s, "suppressed")
}

func TestModuleOf(t *testing.T) {
	assert.Equal(t, "executor", moduleOf([]interface{}{"module", "executor", "k", 1}))
	assert.Equal(t, "", moduleOf([]interface{}{"k", 1, "module"}))
	assert.Equal(t, "", moduleOf(nil))
}
