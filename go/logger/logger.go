// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package logger

import (
	"io"
	"os"
	"time"

	"github.com/op/go-logging"
)

const defaultLogFormat = "%{time:15:04:05.000} %{module} %{level:.4s} %{message}"

//go:generate mockgen -source logger.go -destination logger_mock.go -package logger

// Logger is the subset of the go-logging logger used throughout the module.
type Logger interface {
	Critical(args ...any)
	Criticalf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Warning(args ...any)
	Warningf(format string, args ...any)
	Notice(args ...any)
	Noticef(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Debug(args ...any)
	Debugf(format string, args ...any)
	IsEnabledFor(level logging.Level) bool
}

// Leveled is a logger owning its backend and level. Unlike loggers obtained
// from logging.MustGetLogger, it shares no state with other loggers and can
// be created for every run.
type Leveled struct {
	*logging.Logger
	backend logging.LeveledBackend
}

var _ Logger = &Leveled{}

// IsEnabledFor consults the level of this logger's own backend.
func (l *Leveled) IsEnabledFor(level logging.Level) bool {
	return l.backend.IsEnabledFor(level, l.Module)
}

// NewLogger creates a logger writing to stderr for the given module. Unknown
// levels fall back to INFO.
func NewLogger(level string, module string) *Leveled {
	return newLogger(os.Stderr, level, module)
}

func newLogger(out io.Writer, level string, module string) *Leveled {
	backend := logging.NewLogBackend(out, "", 0)
	formatter := logging.NewBackendFormatter(backend, logging.MustStringFormatter(defaultLogFormat))
	leveled := logging.AddModuleLevel(formatter)

	logLevel, err := logging.LogLevel(level)
	if err != nil {
		logLevel = logging.INFO
	}
	leveled.SetLevel(logLevel, module)

	log := &logging.Logger{Module: module}
	log.SetBackend(leveled)
	return &Leveled{Logger: log, backend: leveled}
}

// ParseTime splits the given duration into hours, minutes and seconds.
func ParseTime(elapsed time.Duration) (uint32, uint32, uint32) {
	var (
		hours, minutes, seconds uint32
	)
	seconds = uint32(elapsed.Round(time.Second) / time.Second)
	if seconds > 60 {
		minutes = seconds / 60
		seconds %= 60
	}
	if minutes > 60 {
		hours = minutes / 60
		minutes %= 60
	}
	return hours, minutes, seconds
}
