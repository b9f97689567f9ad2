// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Logger builds a logger writing to w, or to stderr when w is nil.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	var opts slog.HandlerOptions

	switch c.Level {
	case "debug":
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	case "info", "":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %s", c.Level)
	}

	if w == nil {
		w = os.Stderr
	}

	var handler slog.Handler

	switch c.Format {
	case "text", "":
		handler = slog.NewTextHandler(w, &opts)
	case "json":
		handler = slog.NewJSONHandler(w, &opts)
	default:
		return nil, fmt.Errorf("unknown log format %s", c.Format)
	}

	return slog.New(handler), nil
}

// Discard returns a logger dropping every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
