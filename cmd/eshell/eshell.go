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

package main

import (
	"os"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/coreos/eshell/cli"
	"github.com/coreos/eshell/internal/pkg/config"
	"github.com/coreos/eshell/internal/pkg/engine"
	"github.com/coreos/eshell/internal/pkg/journal"
	"github.com/coreos/eshell/internal/pkg/repl"
	"github.com/coreos/eshell/system/exec"
)

var (
	plog = capnslog.NewPackageLogger("github.com/coreos/eshell", "eshell")

	root = &cobra.Command{
		Use:   "eshell",
		Short: "Run command lines of pipelines, lists and subshells",
		Long: `eshell reads command lines and runs them. A line is a command,
a (subshell), a pipeline joined by |, or a list of commands and
pipelines joined by ; (in order) or & (at once). A parallel subshell
that is a later pipeline stage gets a copy of its input on every branch.`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: preRun,
		RunE:              run,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	cfgPath   string
	command   string
	debugTree bool

	cfg *config.Config
)

func init() {
	root.Flags().StringVarP(&command, "command", "c", "",
		"Run a single line and exit with its status")
	root.PersistentFlags().StringVar(&cfgPath, "config", "",
		"Config file (default "+config.ConfigPath()+")")
	root.Flags().BoolVar(&debugTree, "debug-tree", false,
		"Print every parsed command tree")
}

func preRun(cmd *cobra.Command, args []string) error {
	var err error
	if cfgPath != "" {
		cfg, err = config.LoadFrom(cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	cli.SetLevel(cmd, level)
	if cfg.LogTarget == config.TargetJournald {
		if err := cli.LogToJournald(); err != nil {
			plog.Warningf("Logging to stderr: %v", err)
		}
	}

	// The interpreter starts copies of itself; they pick these up.
	if err := cli.ExportLogging(); err != nil {
		return err
	}
	if err := os.Setenv(engine.EnvJournal, cfg.Journal.Path); err != nil {
		return errors.Wrapf(err, "setting %s", engine.EnvJournal)
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	r := &engine.Runner{}
	if j != nil {
		r.Reporter = j
	}
	if debugTree || cfg.DebugTree {
		r.DebugTree = cmd.ErrOrStderr()
	}

	var rep exec.ExitReport
	if cmd.Flags().Changed("command") {
		rep, err = r.RunLine(command)
	} else {
		rep, err = repl.Run(os.Stdin, cmd.OutOrStdout(), r, repl.Options{
			Prompt: cfg.Prompt,
			Quit:   cfg.Quit,
		})
	}
	if err != nil {
		return err
	}
	if !rep.Success() {
		return &exec.ExitError{Status: rep.Status()}
	}
	return nil
}

func main() {
	cli.Execute(root)
}
