// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/solimare/boatvm/config"
	"github.com/solimare/boatvm/consts"
)

// newLogger writes to stderr and, when [config.LogFile] is set, to a rotated
// JSON log file.
func newLogger(cfg *config.Config) logging.Logger {
	level := cfg.GetLogLevel()
	cores := []logging.WrappedCore{
		logging.NewWrappedCore(level, os.Stderr, logging.Colors.ConsoleEncoder()),
	}
	if len(cfg.LogFile) > 0 {
		rw := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSize,    // megabytes
			MaxBackups: cfg.LogMaxBackups, // files
			Compress:   true,
		}
		cores = append(cores, logging.NewWrappedCore(level, rw, logging.JSON.FileEncoder()))
	}
	return logging.NewLogger(consts.Name, cores...)
}
