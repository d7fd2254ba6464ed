// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

// Package sessionlog writes a per-session log file for wizard runs. The
// TUI owns the terminal, so all diagnostics go to a timestamped file the
// user can inspect afterwards.
package sessionlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus logger bound to a session file.
type Logger struct {
	*logrus.Logger

	file      *os.File
	startTime time.Time
}

// New opens a log file under dir (defaulting to ~/.crane-wizard/logs)
// named after the command and start time.
func New(command, dir string) (*Logger, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".crane-wizard", "logs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02-150405")
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.log", command, timestamp))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(file)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	l := &Logger{Logger: logger, file: file, startTime: time.Now()}
	l.WithField("command", command).Info("session started")
	return l, nil
}

// Section marks a new phase of the session in the log.
func (l *Logger) Section(title string) {
	if l == nil {
		return
	}
	l.WithField("section", title).Info("---")
}

// Close flushes the session footer and closes the file, returning the log
// path for display.
func (l *Logger) Close() string {
	if l == nil || l.file == nil {
		return ""
	}
	l.WithField("duration", time.Since(l.startTime).Round(time.Millisecond).String()).
		Info("session complete")
	path := l.file.Name()
	l.file.Close()
	return path
}
