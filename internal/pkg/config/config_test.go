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
	"strings"
	"testing"

	"github.com/coreos/pkg/capnslog"
	"github.com/kylelemons/godebug/pretty"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissing(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Compare(DefaultConfig(), cfg); diff != "" {
		t.Errorf("Unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadOverrides(t *testing.T) {
	home, _ := os.UserHomeDir()
	path := writeConfig(t, `
prompt: "$ "
log_level: DEBUG
debug_tree: true
journal:
  path: ~/eshell/journal.json
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Prompt:    "$ ",
		Quit:      "quit",
		LogLevel:  "DEBUG",
		LogTarget: TargetStderr,
		DebugTree: true,
		Journal:   JournalConfig{Path: filepath.Join(home, "eshell", "journal.json")},
	}
	if diff := pretty.Compare(want, cfg); diff != "" {
		t.Errorf("Unexpected config (-want +got):\n%s", diff)
	}
	if l, err := cfg.Level(); err != nil || l != capnslog.DEBUG {
		t.Errorf("Level() = %v, %v", l, err)
	}
}

func TestLoadInvalid(t *testing.T) {
	for _, tt := range []struct {
		body string
		err  string
	}{
		{"prompt: [", "parse config"},
		{"log_level: LOUD", "log_level"},
		{"log_target: syslog", "log_target"},
		{"quit: ''", "quit"},
	} {
		_, err := LoadFrom(writeConfig(t, tt.body))
		if err == nil {
			t.Errorf("%q: loaded", tt.body)
			continue
		}
		if !strings.Contains(err.Error(), tt.err) {
			t.Errorf("%q: error %q does not mention %q", tt.body, err, tt.err)
		}
	}
}
