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
	"github.com/BurntSushi/toml"

	"github.com/memgrid/memgrid/pkg/common/mgerr"
	"github.com/memgrid/memgrid/pkg/defines"
	"github.com/memgrid/memgrid/pkg/vm/engine"
)

// FrontendParameters of the gateway frontend.
type FrontendParameters struct {
	// MemVersion is the server version string reported during handshake.
	MemVersion string

	//listening ip
	Host string `toml:"host"`

	//port defines which port the gateway listens on and drivers connect to
	Port int64 `toml:"port"`

	//ceiling for concurrently open server-side cursors. default: 128
	MaxOpenCursors int64 `toml:"maxOpenCursors"`

	//size of the worker pool running connection loops. default: 1024
	SessionWorkers int64 `toml:"sessionWorkers"`

	//collections precreated at startup when running on the built-in engine
	Collections []string `toml:"collections"`

	//the length of query printed into the log. -1, complete string. 0, empty string.
	LengthOfQueryPrinted int64 `toml:"lengthOfQueryPrinted"`

	//default is 'info'. the level of log.
	LogLevel string `toml:"logLevel"`

	//default is 'console'. the format of log.
	LogFormat string `toml:"logFormat"`

	//default is ''. the log file
	LogFilename string `toml:"logFilename"`

	//the maximum of log file size, in MB
	LogMaxSize int64 `toml:"logMaxSize"`

	//the maximum days of log file to be kept
	LogMaxDays int64 `toml:"logMaxDays"`

	//the maximum numbers of log file to be retained
	LogMaxBackups int64 `toml:"logMaxBackups"`
}

// SetDefaultValues fills the zero fields with the defaults.
func (fp *FrontendParameters) SetDefaultValues() {
	if fp.MemVersion == "" {
		fp.MemVersion = defines.MemgridVersion
	}
	if fp.Host == "" {
		fp.Host = "0.0.0.0"
	}
	if fp.Port == 0 {
		fp.Port = 10800
	}
	if fp.MaxOpenCursors == 0 {
		fp.MaxOpenCursors = 128
	}
	if fp.SessionWorkers == 0 {
		fp.SessionWorkers = 1024
	}
	if fp.LengthOfQueryPrinted == 0 {
		fp.LengthOfQueryPrinted = 1024
	}
	if fp.LogLevel == "" {
		fp.LogLevel = "info"
	}
	if fp.LogFormat == "" {
		fp.LogFormat = "console"
	}
	if fp.LogMaxSize == 0 {
		fp.LogMaxSize = 512
	}
}

// LoadvarsConfigFromFile reads the toml configuration file into params.
func LoadvarsConfigFromFile(configFile string, params *FrontendParameters) error {
	if _, err := toml.DecodeFile(configFile, params); err != nil {
		return mgerr.NewInvalidInput("decode config file %s: %s", configFile, err)
	}
	return nil
}

// ParameterUnit bundles what the frontend consumes.
type ParameterUnit struct {
	SV *FrontendParameters

	//Storage Engine
	StorageEngine engine.Engine
}

func NewParameterUnit(sv *FrontendParameters, storageEngine engine.Engine) *ParameterUnit {
	return &ParameterUnit{
		SV:            sv,
		StorageEngine: storageEngine,
	}
}
