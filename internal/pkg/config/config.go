// Copyright 2026 Red Hat, Inc.
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

package config

import (
	"os"
	"path/filepath"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Log targets.
const (
	TargetStderr   = "stderr"
	TargetJournald = "journald"
)

// Config holds the eshell configuration.
type Config struct {
	Prompt    string        `yaml:"prompt"`
	Quit      string        `yaml:"quit"`
	LogLevel  string        `yaml:"log_level"`
	LogTarget string        `yaml:"log_target"`
	DebugTree bool          `yaml:"debug_tree"`
	Journal   JournalConfig `yaml:"journal"`
}

// JournalConfig controls the exit-report journal. An empty path disables
// it.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Prompt:    "/> ",
		Quit:      "quit",
		LogLevel:  capnslog.NOTICE.String(),
		LogTarget: TargetStderr,
	}
}

// ConfigPath returns the standard config file path.
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "eshell", "config.yaml")
}

// Load reads the config from the standard location
// (~/.config/eshell/config.yaml). If the file doesn't exist, returns the
// default config.
func Load() (*Config, error) {
	if _, err := os.UserHomeDir(); err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config from the given path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrap(err, "read config")
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}

	// Expand ~ in journal path.
	if cfg.Journal.Path != "" && cfg.Journal.Path[0] == '~' {
		home, _ := os.UserHomeDir()
		cfg.Journal.Path = filepath.Join(home, cfg.Journal.Path[1:])
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks the values that have a fixed set of choices.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogTarget {
	case TargetStderr, TargetJournald:
	default:
		return errors.Errorf("unknown log_target %q", c.LogTarget)
	}
	if c.Quit == "" {
		return errors.New("quit must not be empty")
	}
	return nil
}

// Level returns the configured capnslog level.
func (c *Config) Level() (capnslog.LogLevel, error) {
	l, err := capnslog.ParseLevel(c.LogLevel)
	if err != nil {
		return l, errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	return l, nil
}
