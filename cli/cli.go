// Copyright 2014 CoreOS, Inc.
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

	"github.com/coreos/go-systemd/journal"
	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/coreos/eshell/system/exec"
	"github.com/coreos/eshell/version"
)

var (
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number and exit.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("%s version %s\n",
				cmd.Root().Name(), version.Version)
		},
	}

	logDebug    bool
	logVerbose  bool
	logLevel    = capnslog.NOTICE
	logJournald bool

	plog = capnslog.NewPackageLogger("github.com/coreos/eshell", "cli")
)

// Execute sets up common features that all eshell commands should share
// and then executes the command. It does not return. A command that
// fails with *exec.ExitError exits with its status and nothing is logged.
func Execute(main *cobra.Command) {
	// If we were invoked via a multicall entrypoint run it instead.
	exec.MaybeExec()

	main.AddCommand(versionCmd)

	main.PersistentFlags().Var(&logLevel, "log-level",
		"Set global log level.")
	main.PersistentFlags().BoolVarP(&logVerbose, "verbose", "v", false,
		"Alias for --log-level=INFO")
	main.PersistentFlags().BoolVarP(&logDebug, "debug", "d", false,
		"Alias for --log-level=DEBUG")

	WrapPreRun(main, func(cmd *cobra.Command, args []string) error {
		startLogging(cmd)
		return nil
	})

	if err := main.Execute(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Status)
		}
		plog.Fatal(err)
	}
	os.Exit(0)
}

func startLogging(cmd *cobra.Command) {
	switch {
	case logDebug:
		logLevel = capnslog.DEBUG
	case logVerbose:
		logLevel = capnslog.INFO
	}

	capnslog.SetFormatter(capnslog.NewStringFormatter(cmd.OutOrStderr()))
	capnslog.SetGlobalLogLevel(logLevel)

	plog.Infof("Started logging at level %s", logLevel)
}

// LevelFromFlags reports whether the log level was chosen on the command
// line.
func LevelFromFlags(cmd *cobra.Command) bool {
	return logDebug || logVerbose || cmd.Flags().Changed("log-level")
}

// SetLevel changes the global log level, unless one was chosen on the
// command line.
func SetLevel(cmd *cobra.Command, level capnslog.LogLevel) {
	if LevelFromFlags(cmd) {
		return
	}
	logLevel = level
	capnslog.SetGlobalLogLevel(logLevel)
}

// LogToJournald sends log output to the systemd journal instead of stderr.
func LogToJournald() error {
	if !journal.Enabled() {
		return errors.New("systemd journal is not available")
	}
	f, err := capnslog.NewJournaldFormatter()
	if err != nil {
		return errors.Wrap(err, "creating journald formatter")
	}
	capnslog.SetFormatter(f)
	logJournald = true
	return nil
}

// Environment through which re-executed children inherit the logging
// setup of the interpreter.
const (
	EnvLogLevel    = "ESHELL_LOG_LEVEL"
	EnvLogJournald = "ESHELL_LOG_JOURNALD"
)

// ExportLogging records the logging setup in the environment, for
// InheritLogging to restore in a child.
func ExportLogging() error {
	if err := os.Setenv(EnvLogLevel, logLevel.String()); err != nil {
		return errors.Wrapf(err, "setting %s", EnvLogLevel)
	}
	journald := ""
	if logJournald {
		journald = "1"
	}
	if err := os.Setenv(EnvLogJournald, journald); err != nil {
		return errors.Wrapf(err, "setting %s", EnvLogJournald)
	}
	return nil
}

// InheritLogging sets up logging the way ExportLogging recorded it. A
// child that finds nothing recorded logs to stderr at the default level.
func InheritLogging() error {
	capnslog.SetFormatter(capnslog.NewStringFormatter(os.Stderr))
	if os.Getenv(EnvLogJournald) != "" {
		if err := LogToJournald(); err != nil {
			plog.Warningf("Logging to stderr: %v", err)
		}
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		l, err := capnslog.ParseLevel(lvl)
		if err != nil {
			return errors.Wrapf(err, "parsing %s", EnvLogLevel)
		}
		logLevel = l
	}
	capnslog.SetGlobalLogLevel(logLevel)
	return nil
}

type PreRunEFunc func(cmd *cobra.Command, args []string) error

func WrapPreRun(root *cobra.Command, f PreRunEFunc) {
	preRun, preRunE := root.PersistentPreRun, root.PersistentPreRunE
	root.PersistentPreRun, root.PersistentPreRunE = nil, nil

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := f(cmd, args); err != nil {
			return err
		}
		if preRun != nil {
			preRun(cmd, args)
		} else if preRunE != nil {
			return preRunE(cmd, args)
		}
		return nil
	}
}
