// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AllocatorPolicy names one of cesk.Allocator's built-in instantiations, as
// a string so it round-trips through YAML and flags the way
// davidkellis-able's TargetType does.
type AllocatorPolicy string

const (
	PolicyConcrete AllocatorPolicy = "concrete"
	PolicyConstant AllocatorPolicy = "constant"
	PolicyKCFA     AllocatorPolicy = "kcfa"
)

func (p AllocatorPolicy) valid() bool {
	switch p {
	case PolicyConcrete, PolicyConstant, PolicyKCFA:
		return true
	default:
		return false
	}
}

// Config is cmd/ceskrun's optional YAML configuration file, per
// SPEC_FULL.md §2.3: exploration bound, allocator policy, k-CFA tuple
// width, and log verbosity. Flags parsed by cobra override values loaded
// from this file.
type Config struct {
	Allocator AllocatorPolicy `yaml:"allocator"`
	KCFAWidth int             `yaml:"kcfa_width"`
	Bound     int             `yaml:"bound"`
	Verbose   bool            `yaml:"verbose"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Allocator: PolicyConstant,
		KCFAWidth: 1,
		Bound:     0,
		Verbose:   false,
	}
}

// ValidationError aggregates config validation failures the way
// davidkellis-able's manifest ValidationError does.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadConfig reads and validates a YAML config file. An empty path returns
// DefaultConfig with no error, so callers do not need to special-case the
// "no --config flag given" case themselves.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	loaded := DefaultConfig()
	if err := decoder.Decode(&loaded); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := loaded.validate(); err != nil {
		return Config{}, err
	}
	return loaded, nil
}

func (c Config) validate() error {
	var errs ValidationError
	if !c.Allocator.valid() {
		errs.Issues = append(errs.Issues, fmt.Sprintf("allocator: unsupported policy %q", c.Allocator))
	}
	if c.Allocator == PolicyKCFA && c.KCFAWidth < 1 {
		errs.Issues = append(errs.Issues, "kcfa_width: must be at least 1 when allocator is kcfa")
	}
	if c.Bound < 0 {
		errs.Issues = append(errs.Issues, "bound: must not be negative")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}
