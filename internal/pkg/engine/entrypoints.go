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

package engine

import (
	"os"

	"github.com/pkg/errors"

	"github.com/coreos/eshell/cli"
	"github.com/coreos/eshell/internal/pkg/cmdtree"
	"github.com/coreos/eshell/internal/pkg/journal"
	"github.com/coreos/eshell/internal/pkg/parser"
	"github.com/coreos/eshell/system/exec"
)

// Environment handed from the interpreter to the copies of itself it
// starts.
const (
	EnvRunID   = "ESHELL_RUN_ID"
	EnvJournal = "ESHELL_JOURNAL"
)

var (
	// subshellEntry runs a subshell's body.
	subshellEntry exec.Entrypoint
	// broadcastEntry runs a subshell fed by an upstream pipeline stage.
	broadcastEntry exec.Entrypoint
	// pipelineEntry runs a pipeline that is an element of a list.
	pipelineEntry exec.Entrypoint
)

func init() {
	subshellEntry = exec.NewEntrypoint("subshell", runSubshell)
	broadcastEntry = exec.NewEntrypoint("broadcast", runBroadcast)
	pipelineEntry = exec.NewEntrypoint("pipeline", runSubshell)
}

// reexec prepares a copy of the interpreter that will run text through
// entry.
func (r *Runner) reexec(entry exec.Entrypoint, stdio exec.Stdio, text string) *exec.ExecCmd {
	cmd := entry.Command(stdio, text)
	cmd.Env = append(os.Environ(), EnvRunID+"="+r.RunID)
	return cmd
}

func runSubshell(args []string) error {
	return runChild(args, (*Runner).Dispatch)
}

func runBroadcast(args []string) error {
	return runChild(args, (*Runner).broadcast)
}

// runChild is the body of a re-executed interpreter. Its exit status is
// the status of the last element it ran.
func runChild(args []string, run func(*Runner, *cmdtree.Tree) exec.ExitReport) error {
	if len(args) != 1 {
		return errors.Errorf("expected a command line, got %q", args)
	}
	if err := cli.InheritLogging(); err != nil {
		return err
	}

	t, err := parser.Parse(args[0])
	if err != nil {
		return err
	}
	j, err := journal.Open(os.Getenv(EnvJournal))
	if err != nil {
		return err
	}
	defer j.Close()

	r := &Runner{RunID: os.Getenv(EnvRunID)}
	if j != nil {
		r.Reporter = j
	}
	if rep := run(r, t); !rep.Success() {
		return &exec.ExitError{Status: rep.Status()}
	}
	return nil
}
