// Copyright 2015 CoreOS, Inc.
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

// exec is extension of the standard os.exec package.
// It provides the process primitives the interpreter is built from:
// launching a child on an explicit descriptor table, pipes whose ends have
// a single owner, and reaping a child exactly once.
package exec

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Shell statuses recorded for children that never got to run.
const (
	StatusNotExecutable = 126
	StatusNotFound      = 127
)

// Stdio is the descriptor table of a child: In, Out and Err become its
// fds 0, 1 and 2. A nil entry inherits the interpreter's own stream.
type Stdio struct {
	In  *os.File
	Out *os.File
	Err *os.File
}

func (s Stdio) files() (in, out, err *os.File) {
	in, out, err = s.In, s.Out, s.Err
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if err == nil {
		err = os.Stderr
	}
	return
}

// ExecCmd is a child process handle based on exec.Cmd. Handing *os.File
// values to exec.Cmd makes them the child's descriptors directly, so no
// copying goroutines are involved.
type ExecCmd struct {
	*exec.Cmd
	reaped bool
}

// Command prepares a child that will exec argv[0] with stdio as its
// standard streams. argv must not be empty.
func Command(argv []string, stdio Stdio) *ExecCmd {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = stdio.files()
	return &ExecCmd{Cmd: cmd}
}

// Reap blocks until the child has terminated and classifies how. It must be
// called exactly once per started child; a second call panics.
func (cmd *ExecCmd) Reap() (ExitReport, error) {
	if cmd.reaped {
		panic(fmt.Sprintf("exec: pid %d reaped twice", cmd.Pid()))
	}
	cmd.reaped = true

	// A non-zero exit comes back as *exec.ExitError together with the
	// process state; only a missing state is a real wait failure.
	err := cmd.Cmd.Wait()
	if cmd.ProcessState == nil {
		return ExitReport{}, errors.Wrapf(err, "waiting for pid %d", cmd.Pid())
	}
	return cmd.report(), nil
}

func (cmd *ExecCmd) report() ExitReport {
	if cmd.Signaled() {
		status := cmd.ProcessState.Sys().(syscall.WaitStatus)
		return ExitReport{Pid: cmd.Pid(), Signal: status.Signal()}
	}
	return ExitReport{Pid: cmd.Pid(), Exited: true, Code: cmd.ProcessState.ExitCode()}
}

// Simplified wrapper to know if a process was signaled
func (cmd *ExecCmd) Signaled() bool {
	if cmd.ProcessState == nil {
		return false
	}
	status := cmd.ProcessState.Sys().(syscall.WaitStatus)
	return status.Signaled()
}

func (cmd *ExecCmd) Pid() int {
	return cmd.Process.Pid
}

// ExecFailure reports whether err from Start means the program itself could
// not be executed, and the shell status a forked child would have exited
// with in that case. Any other Start error is a process primitive failure.
func ExecFailure(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	var lookErr *exec.Error
	if errors.As(err, &lookErr) {
		if errors.Is(lookErr.Err, fs.ErrPermission) {
			return StatusNotExecutable, true
		}
		// ErrNotFound, ErrDot and missing paths all mean nothing to run.
		return StatusNotFound, true
	}
	switch {
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENOTDIR):
		return StatusNotFound, true
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.ENOEXEC), errors.Is(err, unix.EISDIR):
		return StatusNotExecutable, true
	}
	return 0, false
}

// IsCmdNotFound reports true if the underlying error was exec.ErrNotFound.
func IsCmdNotFound(err error) bool {
	status, ok := ExecFailure(err)
	return ok && status == StatusNotFound
}
