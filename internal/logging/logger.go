// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	clog "github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// L is the package-level logger. Callers should use the helper functions
// below for compatibility with existing calls.
var L = clog.NewWithOptions(os.Stderr, clog.Options{Level: clog.WarnLevel})

// Options configures the package logger.
type Options struct {
	// Level is one of debug, info, warn, error. Empty keeps warn.
	Level string
	// File, when set, sends log output to a size-rotated file instead of
	// stderr so it does not interleave with the interactive shell.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// Setup replaces L according to opts. The returned closer releases the log
// file, if any; it is never nil.
func Setup(opts Options) (io.Closer, error) {
	level := clog.WarnLevel
	if opts.Level != "" {
		lvl, err := clog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nopCloser{}, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = lvl
	}

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		out = lj
		closer = lj
	}

	L = clog.NewWithOptions(out, clog.Options{
		Level:           level,
		ReportTimestamp: opts.File != "",
	})
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Debugf logs a debug-level formatted message.
func Debugf(format string, v ...interface{}) {
	L.Debug(fmt.Sprintf(format, v...))
}

// Infof logs an info-level formatted message.
func Infof(format string, v ...interface{}) {
	L.Info(fmt.Sprintf(format, v...))
}

// Warnf logs a warning-level formatted message.
func Warnf(format string, v ...interface{}) {
	L.Warn(fmt.Sprintf(format, v...))
}

// Errorf logs an error-level formatted message.
func Errorf(format string, v ...interface{}) {
	L.Error(fmt.Sprintf(format, v...))
}
