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

// Package engine runs command trees. Every element runs in a child process
// of its own: commands are executed directly, while subshells and nested
// pipelines run in a copy of the interpreter started through a multicall
// entrypoint. Children are always reaped in the order they were started.
package engine

import (
	"fmt"
	"io"

	"github.com/coreos/pkg/capnslog"
	"github.com/google/uuid"
	"github.com/kylelemons/godebug/pretty"

	"github.com/coreos/eshell/internal/pkg/cmdtree"
	"github.com/coreos/eshell/internal/pkg/parser"
	"github.com/coreos/eshell/system/exec"
)

var plog = capnslog.NewPackageLogger("github.com/coreos/eshell", "engine")

// fatalf ends the interpreter. It is used when a process primitive fails
// or a tree breaks its shape rules, since no exit status can describe
// either.
var fatalf = plog.Fatalf

var newPipe = exec.NewPipe

// Reporter receives the exit report of every child the runner reaps.
type Reporter interface {
	Report(runID, element string, r exec.ExitReport)
}

// Runner dispatches command trees.
type Runner struct {
	// Stdio is handed to top-level elements. Nil entries inherit the
	// interpreter's own streams.
	Stdio exec.Stdio

	// Reporter, if set, is told about every reaped child.
	Reporter Reporter

	// RunID ties the reports of one line together, including those made
	// by re-executed children. RunLine sets a fresh one per line.
	RunID string

	// DebugTree, if set, receives a dump of every parsed tree.
	DebugTree io.Writer
}

// RunLine parses line and dispatches it. Only a syntax error is returned;
// a blank line runs nothing and reports success.
func (r *Runner) RunLine(line string) (exec.ExitReport, error) {
	t, err := parser.Parse(line)
	if err != nil {
		return exec.ExitReport{}, err
	}
	if t.Empty() {
		return exec.ExitReport{Exited: true}, nil
	}
	if r.DebugTree != nil {
		fmt.Fprintf(r.DebugTree, "%s\n", pretty.Sprint(t))
	}
	r.RunID = uuid.New().String()
	return r.Dispatch(t), nil
}

// Dispatch runs t to completion and returns the report of its last
// element. An invalid tree is fatal.
func (r *Runner) Dispatch(t *cmdtree.Tree) exec.ExitReport {
	if err := t.Validate(); err != nil {
		fatalf("invalid command tree %q: %v", t, err)
		return exec.ExitReport{}
	}
	plog.Debugf("dispatching %s tree %q", t.Separator, t)

	switch t.Separator {
	case cmdtree.None:
		return r.wait(r.start(t.Elements[0], r.Stdio, false))
	case cmdtree.Sequential:
		return r.runSequential(t.Elements)
	case cmdtree.Parallel:
		return r.runParallel(t.Elements, r.Stdio)
	case cmdtree.Pipe:
		return r.runPipeline(t.Elements, r.Stdio)
	default:
		fatalf("unknown separator %v", t.Separator)
		return exec.ExitReport{}
	}
}

// child is one started element. cmd is nil when the element could not be
// executed; report then already holds its synthetic status.
type child struct {
	el     cmdtree.Element
	cmd    *exec.ExecCmd
	report exec.ExitReport
}

// start launches el with stdio as its descriptors. A subshell that reads
// from an upstream pipeline stage is started as a broadcaster.
func (r *Runner) start(el cmdtree.Element, stdio exec.Stdio, upstream bool) *child {
	c := &child{el: el}
	switch el.Kind {
	case cmdtree.KindCommand:
		c.cmd = exec.Command(el.Argv, stdio)
	case cmdtree.KindSubshell:
		entry := subshellEntry
		if upstream {
			entry = broadcastEntry
		}
		c.cmd = r.reexec(entry, stdio, el.Text)
	case cmdtree.KindPipeline:
		c.cmd = r.reexec(pipelineEntry, stdio, el.Pipeline.String())
	}

	if err := c.cmd.Start(); err != nil {
		status, ok := exec.ExecFailure(err)
		if !ok {
			fatalf("starting %q: %v", el, err)
		}
		if exec.IsCmdNotFound(err) {
			plog.Errorf("%s: command not found", c.cmd.Args[0])
		} else {
			plog.Errorf("%s: %v", c.cmd.Args[0], err)
		}
		c.cmd = nil
		c.report = exec.Failed(status)
		return c
	}
	plog.Debugf("started pid %d: %s", c.cmd.Pid(), el)
	return c
}

// wait reaps c, or takes its synthetic report, and passes the report on.
func (r *Runner) wait(c *child) exec.ExitReport {
	if c.cmd != nil {
		rep, err := c.cmd.Reap()
		if err != nil {
			fatalf("%v", err)
		}
		c.report = rep
	}
	r.report(c.el, c.report)
	return c.report
}

func (r *Runner) report(el cmdtree.Element, rep exec.ExitReport) {
	switch {
	case rep.Success():
		plog.Debugf("pid %d %s: %s", rep.Pid, rep, el)
	case rep.Exited:
		plog.Noticef("pid %d %s: %s", rep.Pid, rep, el)
	default:
		plog.Warningf("pid %d %s: %s", rep.Pid, rep, el)
	}
	if r.Reporter != nil {
		r.Reporter.Report(r.RunID, el.String(), rep)
	}
}
