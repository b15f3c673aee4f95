// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the process logger the way codeNERD's cmd/nerd/main.go
// does: zap.NewProductionConfig in normal mode, DebugLevel under
// --verbose. The logger is passed down as a constructor argument to
// cesk.Driver rather than kept as a package global the core depends on —
// the core stays silent (zap.NewNop) when no logger reaches it.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}
