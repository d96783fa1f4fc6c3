// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/snerble/logfan/pkg/severity"
)

// Config is the YAML surface for building a logger from host
// application settings. Zero values fall back to the package
// defaults; FileInfo defaults to enabled when absent.
type Config struct {
	Name         string `yaml:"name"`
	Threshold    string `yaml:"threshold"`
	Format       string `yaml:"format"`
	FileInfo     *bool  `yaml:"file-info"`
	Highlighting bool   `yaml:"highlighting"`
	Silent       bool   `yaml:"silent"`
	Priority     string `yaml:"priority"`
}

// ParseConfig decodes a YAML document into a Config. Unknown keys are
// rejected.
func ParseConfig(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, fmt.Errorf("log: parse config: %w", err)
	}
	return c, nil
}

// Options converts the config into constructor options.
func (c Config) Options() ([]Option, error) {
	var opts []Option
	if c.Threshold != "" {
		level, err := severity.Parse(c.Threshold)
		if err != nil {
			return nil, fmt.Errorf("log: config threshold: %w", err)
		}
		opts = append(opts, WithThreshold(level))
	}
	if c.Format != "" {
		if _, err := parseTemplate(c.Format); err != nil {
			return nil, fmt.Errorf("log: config format: %w", err)
		}
		opts = append(opts, WithFormat(c.Format))
	}
	if c.FileInfo != nil {
		opts = append(opts, WithFileInfo(*c.FileInfo))
	}
	if c.Highlighting {
		opts = append(opts, WithHighlighting(true))
	}
	if c.Silent {
		opts = append(opts, WithSilent(true))
	}
	if c.Priority != "" {
		p, err := ParsePriority(c.Priority)
		if err != nil {
			return nil, fmt.Errorf("log: config priority: %w", err)
		}
		opts = append(opts, WithPriority(p))
	}
	return opts, nil
}

// NewLoggerFromConfig builds and starts a logger from a parsed config.
func NewLoggerFromConfig(c Config, opts ...Option) (*Logger, error) {
	configured, err := c.Options()
	if err != nil {
		return nil, err
	}
	return NewLogger(c.Name, append(configured, opts...)...), nil
}
