// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config manages configuration parsing and validation for syncrc.
// Configs may be written in YAML, JSON or HCL; each format registers a
// Parser and Load picks one by filename.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🎯 Target maps one remote branch (optionally narrowed to a sub-directory)
// onto one local directory.
type Target struct {
	Branch   string   `json:"branch,omitempty" yaml:"branch,omitempty" hcl:"branch,optional"`
	SubDir   string   `json:"sub_dir,omitempty" yaml:"sub_dir,omitempty" hcl:"sub_dir,optional"`
	LocalDir string   `json:"local_dir" yaml:"local_dir" hcl:"local_dir"`
	Ignore   []string `json:"ignore,omitempty" yaml:"ignore,omitempty" hcl:"ignore,optional"`
}

// 🪞 Mirror maps one local source directory onto one local destination.
type Mirror struct {
	Source      string   `json:"source" yaml:"source" hcl:"source"`
	Destination string   `json:"destination" yaml:"destination" hcl:"destination"`
	Ignore      []string `json:"ignore,omitempty" yaml:"ignore,omitempty" hcl:"ignore,optional"`
}

// 📚 Config represents the complete configuration. Credentials are never
// stored here; the token comes from the environment or a flag.
type Config struct {
	Repo    string   `json:"repo" yaml:"repo" hcl:"repo"`
	Targets []Target `json:"targets" yaml:"targets" hcl:"target,block"`
	Mirrors []Mirror `json:"mirrors,omitempty" yaml:"mirrors,omitempty" hcl:"mirror,block"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.Repo == "" {
		return errors.Errorf("repo is required")
	}
	if len(cfg.Targets) == 0 && len(cfg.Mirrors) == 0 {
		return errors.Errorf("at least one target or mirror is required")
	}

	for i := range cfg.Targets {
		target := &cfg.Targets[i]
		if target.LocalDir == "" {
			return errors.Errorf("target %d: local_dir is required", i)
		}
		if target.Branch == "" {
			target.Branch = "main"
		}
		target.LocalDir = filepath.Clean(target.LocalDir)
	}

	for i := range cfg.Mirrors {
		mirror := &cfg.Mirrors[i]
		if mirror.Source == "" {
			return errors.Errorf("mirror %d: source is required", i)
		}
		if mirror.Destination == "" {
			return errors.Errorf("mirror %d: destination is required", i)
		}
		mirror.Source = filepath.Clean(mirror.Source)
		mirror.Destination = filepath.Clean(mirror.Destination)
		if mirror.Source == mirror.Destination {
			return errors.Errorf("mirror %d: source and destination are the same directory", i)
		}
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s (%d targets, %d mirrors)", cfg.Repo, len(cfg.Targets), len(cfg.Mirrors))
}
