// Copyright 2023 Memgrid
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestGlobalLoggerAvailableBeforeSetup(t *testing.T) {
	require.NotNil(t, GetGlobalLogger())
	// must not panic
	Info("hello", zap.Int("n", 1))
	Debugf("hello %d", 2)
}

func TestSetupGridLogger(t *testing.T) {
	old := GetGlobalLogger()
	defer setGlobalLogger(old)

	SetupGridLogger(&LogConfig{Level: "debug", Format: "json"})
	l := GetGlobalLogger()
	require.NotSame(t, old, l)
	require.True(t, l.Core().Enabled(zapcore.DebugLevel))

	// a bogus level falls back to info
	SetupGridLogger(&LogConfig{Level: "nosuch"})
	l = GetGlobalLogger()
	require.False(t, l.Core().Enabled(zapcore.DebugLevel))
	require.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestFileSink(t *testing.T) {
	old := GetGlobalLogger()
	defer setGlobalLogger(old)

	path := filepath.Join(t.TempDir(), "grid.log")
	SetupGridLogger(&LogConfig{Level: "info", Filename: path, MaxSize: 1})

	Infof("written to %s", "file")
	require.NoError(t, GetGlobalLogger().Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "written to file")
}
