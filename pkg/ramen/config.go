// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ramen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	configName    = "ramen.toml"
	configVersion = 1
)

// Config carries per-project defaults for the wrapper binary. It lives in
// a ramen.toml next to (or above) the calling script, so a script can run
// plain `ramen -- "$@"` without embedding the schema path.
type Config struct {
	Version int    `toml:"version,omitempty"`
	Spec    string `toml:"spec,omitempty"`
	Debug   bool   `toml:"debug,omitempty"`
	// OutputPrefix applies only when the schema declares none.
	OutputPrefix string `toml:"output_prefix,omitempty"`
}

// ConfigLocation is a loaded config together with where it was found.
// Relative paths in the config resolve against Dir.
type ConfigLocation struct {
	Path   string
	Dir    string
	Config *Config
}

// SpecPath returns the configured schema path resolved against the config
// file's directory, or "" when none is configured.
func (l *ConfigLocation) SpecPath() string {
	if l == nil || l.Config == nil || l.Config.Spec == "" {
		return ""
	}
	if filepath.IsAbs(l.Config.Spec) {
		return l.Config.Spec
	}
	return filepath.Join(l.Dir, l.Config.Spec)
}

// LoadConfig searches for a ramen.toml starting at the working directory.
// A missing config is not an error; it returns nil, nil.
func LoadConfig() (*ConfigLocation, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return loadConfigFromDir(cwd)
}

func loadConfigFromDir(startDir string) (*ConfigLocation, error) {
	path, err := findConfigPath(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Version == 0 {
		cfg.Version = configVersion
	}
	return &ConfigLocation{Path: path, Dir: filepath.Dir(path), Config: &cfg}, nil
}

func findConfigPath(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		path := filepath.Join(dir, configName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}
