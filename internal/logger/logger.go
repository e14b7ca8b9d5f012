// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package logger provides centralized logging configuration for QR Studio.
package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the process wide logger, set by InitLogger.
	Logger = zap.NewNop()

	initOnce sync.Once
	levelMap = map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
)

// InitLogger initializes Logger based on LOG_ENV (dev/prod) and LOG_LEVEL
// (debug/info/warn/error) and returns it.
func InitLogger() *zap.Logger {
	initOnce.Do(func() {
		logEnv := os.Getenv("LOG_ENV")
		level := getLogLevelFromEnv()

		l, err := New(logEnv, level)
		if err != nil {
			l = zap.NewExample()
			l.Error("Falling back to example logger", zap.Error(err))
		}
		Logger = l
		Logger.Info("Logger initialized",
			zap.String("LOG_ENV", logEnv),
			zap.String("LOG_LEVEL", level.String()),
		)
	})
	return Logger
}

// New builds a logger: JSON for prod, console output otherwise.
func New(logEnv string, level zapcore.Level) (*zap.Logger, error) {
	var cfg zap.Config
	if logEnv == "prod" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stdout"}
	return cfg.Build()
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Logger.Sync()
}

// getLogLevelFromEnv parses LOG_LEVEL, defaulting to info.
func getLogLevelFromEnv() zapcore.Level {
	if level, ok := levelMap[strings.ToLower(os.Getenv("LOG_LEVEL"))]; ok {
		return level
	}
	return zapcore.InfoLevel
}
