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

// Package logutil owns the global zap logger of the gateway process.
package logutil

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig drives the global logger setup.
type LogConfig struct {
	// Level is one of debug, info, warn, error, fatal. Default info.
	Level string
	// Format is json or console. Default console.
	Format string
	// Filename routes output into a rotated file instead of stderr.
	Filename string
	// MaxSize is the rotation threshold in MB.
	MaxSize int
	// MaxDays is how long rotated files are kept.
	MaxDays int
	// MaxBackups is how many rotated files are kept.
	MaxBackups int
}

var globalLogger atomic.Value

func init() {
	// usable logger before SetupGridLogger runs, tests rely on it
	setGlobalLogger(newLogger(&LogConfig{}))
}

func setGlobalLogger(l *zap.Logger) {
	globalLogger.Store(l)
	zap.ReplaceGlobals(l)
}

// GetGlobalLogger returns the process logger.
func GetGlobalLogger() *zap.Logger {
	return globalLogger.Load().(*zap.Logger)
}

// SetupGridLogger installs the global logger from the configuration.
// Call it once, before anything logs in earnest.
func SetupGridLogger(cfg *LogConfig) {
	setGlobalLogger(newLogger(cfg))
}

func newLogger(cfg *LogConfig) *zap.Logger {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level = zapcore.InfoLevel
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	var ws zapcore.WriteSyncer
	if cfg.Filename != "" {
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxAge:     cfg.MaxDays,
			MaxBackups: cfg.MaxBackups,
		})
	} else {
		ws = zapcore.AddSync(os.Stderr)
	}

	return zap.New(zapcore.NewCore(enc, ws, level),
		zap.AddCaller(), zap.AddCallerSkip(1))
}

func Debug(msg string, fields ...zap.Field) {
	GetGlobalLogger().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	GetGlobalLogger().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	GetGlobalLogger().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	GetGlobalLogger().Error(msg, fields...)
}

func Debugf(msg string, args ...any) {
	GetGlobalLogger().Sugar().Debugf(msg, args...)
}

func Infof(msg string, args ...any) {
	GetGlobalLogger().Sugar().Infof(msg, args...)
}

func Warnf(msg string, args ...any) {
	GetGlobalLogger().Sugar().Warnf(msg, args...)
}

func Errorf(msg string, args ...any) {
	GetGlobalLogger().Sugar().Errorf(msg, args...)
}

func Panicf(msg string, args ...any) {
	GetGlobalLogger().Sugar().Panicf(msg, args...)
}

func Fatalf(msg string, args ...any) {
	GetGlobalLogger().Sugar().Fatalf(msg, args...)
}
