// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

// Package logging wires slog handlers for iroextract.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
)

// Setup configures the global slog logger writing to console.
// If logOutputDir is non-empty, logs are written to both console and a timestamped JSON file in that directory.
// The returned closer releases the log file (no-op without one).
func Setup(console io.Writer, levelStr string, logOutputDir string) (func() error, error) {
	level := ParseLevel(levelStr)

	consoleHandler := tint.NewHandler(console, &tint.Options{Level: level})

	if logOutputDir == "" {
		slog.SetDefault(slog.New(consoleHandler))
		return func() error { return nil }, nil
	}

	logDir := os.ExpandEnv(logOutputDir)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	logFilePath := filepath.Join(logDir, fmt.Sprintf("iroextract_%s.log", timestamp))

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	fileHandler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: level})

	slog.SetDefault(slog.New(
		slogmulti.Fanout(consoleHandler, fileHandler),
	))

	slog.Debug("logging to file", "path", logFilePath)

	return logFile.Close, nil
}

// ParseLevel converts a string log level to slog.Level
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug", "trace":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
