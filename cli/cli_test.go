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

package cli

import (
	"os"
	"testing"

	"github.com/coreos/pkg/capnslog"
	"github.com/spf13/cobra"
)

func resetLogging(t *testing.T) {
	t.Helper()
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogJournald, "")
	saved, savedJournald := logLevel, logJournald
	t.Cleanup(func() {
		logLevel, logJournald = saved, savedJournald
		capnslog.SetFormatter(capnslog.NewStringFormatter(os.Stderr))
		capnslog.SetGlobalLogLevel(logLevel)
	})
}

func TestExportInheritLogging(t *testing.T) {
	resetLogging(t)
	logLevel = capnslog.DEBUG
	if err := ExportLogging(); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv(EnvLogLevel); got != "DEBUG" {
		t.Errorf("%s = %q", EnvLogLevel, got)
	}
	if got := os.Getenv(EnvLogJournald); got != "" {
		t.Errorf("%s = %q", EnvLogJournald, got)
	}

	// what a re-executed child starts with
	logLevel = capnslog.NOTICE
	if err := InheritLogging(); err != nil {
		t.Fatal(err)
	}
	if logLevel != capnslog.DEBUG {
		t.Errorf("inherited level %s, want DEBUG", logLevel)
	}
}

func TestExportJournald(t *testing.T) {
	resetLogging(t)
	logJournald = true
	if err := ExportLogging(); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv(EnvLogJournald); got != "1" {
		t.Errorf("%s = %q", EnvLogJournald, got)
	}
	// without a journal the child keeps logging to stderr
	if err := InheritLogging(); err != nil {
		t.Fatal(err)
	}
}

func TestInheritBadLevel(t *testing.T) {
	resetLogging(t)
	t.Setenv(EnvLogLevel, "LOUD")
	if err := InheritLogging(); err == nil {
		t.Errorf("InheritLogging accepted level LOUD")
	}
}

func TestSetLevel(t *testing.T) {
	resetLogging(t)
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Var(&logLevel, "log-level", "")

	SetLevel(cmd, capnslog.INFO)
	if logLevel != capnslog.INFO {
		t.Errorf("level %s, want INFO", logLevel)
	}

	if err := cmd.Flags().Set("log-level", "ERROR"); err != nil {
		t.Fatal(err)
	}
	SetLevel(cmd, capnslog.INFO)
	if logLevel != capnslog.ERROR {
		t.Errorf("level %s, want the flag's ERROR", logLevel)
	}
}
