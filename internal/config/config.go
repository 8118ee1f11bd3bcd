// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

// Package config holds iroextract settings merged from flags, environment and config file.
package config

import (
	"fmt"
	"slices"

	"github.com/woozymasta/pathrules"

	"github.com/woozymasta/iro"
)

// Output formats for catalog listing.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds iroextract configuration
type Config struct {
	InputFile string `mapstructure:"input"`
	OutputDir string `mapstructure:"output"`

	// Backend is the archive I/O strategy (buffered, mmap)
	Backend string `mapstructure:"backend"`
	// Workers is the number of parallel extraction workers; 1 extracts in catalog order
	Workers int `mapstructure:"workers"`

	// Include and Exclude are pathrules glob patterns selecting entries
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`

	RawNames bool `mapstructure:"raw_names"`
	// Sanitize rewrites unsafe entry names instead of failing extraction
	Sanitize bool `mapstructure:"sanitize"`

	List   bool   `mapstructure:"list"`
	Format string `mapstructure:"format"`

	// ModInfo is an optional mod.xml descriptor path reported before extraction
	ModInfo string `mapstructure:"mod_info"`

	LogLevel     string `mapstructure:"log_level"`
	LogOutputDir string `mapstructure:"log_output_dir"`
}

// Validate checks values that flags cannot constrain
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return fmt.Errorf("input archive path is required")
	}

	switch iro.Backend(c.Backend) {
	case "", iro.BackendBuffered, iro.BackendMmap:
	default:
		return fmt.Errorf("%w: %q", iro.ErrUnknownBackend, c.Backend)
	}

	if c.Format != "" && !slices.Contains([]string{FormatText, FormatJSON, FormatYAML}, c.Format) {
		return fmt.Errorf("unknown list format %q", c.Format)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}

	return nil
}

// ReaderOptions maps config to archive open options
func (c *Config) ReaderOptions() iro.ReaderOptions {
	return iro.ReaderOptions{
		Backend:  iro.Backend(c.Backend),
		RawNames: c.RawNames,
	}
}

// ExtractOptions maps config to extraction options.
// Include patterns select entries (everything when empty); Exclude patterns win over them.
func (c *Config) ExtractOptions() iro.ExtractOptions {
	rules := make([]pathrules.Rule, 0, len(c.Include)+len(c.Exclude))
	for _, pattern := range c.Include {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: pattern})
	}
	for _, pattern := range c.Exclude {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: pattern})
	}

	defaultAction := pathrules.ActionExclude
	if len(c.Include) == 0 {
		defaultAction = pathrules.ActionInclude
	}

	return iro.ExtractOptions{
		MaxWorkers:    c.Workers,
		SanitizeNames: c.Sanitize,
		Include:       rules,
		IncludeMatcherOptions: pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   defaultAction,
		},
	}
}
