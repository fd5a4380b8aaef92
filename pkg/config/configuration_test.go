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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memgrid/memgrid/pkg/defines"
)

func TestSetDefaultValues(t *testing.T) {
	sv := &FrontendParameters{}
	sv.SetDefaultValues()

	require.Equal(t, defines.MemgridVersion, sv.MemVersion)
	require.Equal(t, "0.0.0.0", sv.Host)
	require.Equal(t, int64(10800), sv.Port)
	require.Equal(t, int64(128), sv.MaxOpenCursors)
	require.Equal(t, int64(1024), sv.SessionWorkers)
	require.Equal(t, int64(1024), sv.LengthOfQueryPrinted)
	require.Equal(t, "info", sv.LogLevel)
	require.Equal(t, "console", sv.LogFormat)
	require.Equal(t, int64(512), sv.LogMaxSize)
}

func TestSetDefaultValuesKeepsExplicit(t *testing.T) {
	sv := &FrontendParameters{
		Port:           12000,
		MaxOpenCursors: 4,
		LogLevel:       "debug",
	}
	sv.SetDefaultValues()

	require.Equal(t, int64(12000), sv.Port)
	require.Equal(t, int64(4), sv.MaxOpenCursors)
	require.Equal(t, "debug", sv.LogLevel)
	require.Equal(t, "0.0.0.0", sv.Host)
}

func TestLoadvarsConfigFromFile(t *testing.T) {
	content := `
host = "127.0.0.1"
port = 12345
maxOpenCursors = 16
collections = ["grid", "archive"]
logLevel = "debug"
`
	path := filepath.Join(t.TempDir(), "grid.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	sv := &FrontendParameters{}
	require.NoError(t, LoadvarsConfigFromFile(path, sv))
	sv.SetDefaultValues()

	require.Equal(t, "127.0.0.1", sv.Host)
	require.Equal(t, int64(12345), sv.Port)
	require.Equal(t, int64(16), sv.MaxOpenCursors)
	require.Equal(t, []string{"grid", "archive"}, sv.Collections)
	require.Equal(t, "debug", sv.LogLevel)
	// untouched fields still get their defaults
	require.Equal(t, int64(1024), sv.SessionWorkers)
}

func TestLoadvarsConfigFromFileErrors(t *testing.T) {
	sv := &FrontendParameters{}
	require.Error(t, LoadvarsConfigFromFile("nosuchfile.toml", sv))

	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = ["), 0o644))
	require.Error(t, LoadvarsConfigFromFile(path, sv))
}
