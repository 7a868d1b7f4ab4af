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

// inspired by github.com/docker/docker/pkg/reexec

package exec

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/pkg/errors"
)

// prefix of first argument if it is defining an entrypoint to be called.
const entryArgPrefix = "_MULTICALL_ENTRYPOINT_"

var exePath string

func init() {
	// save the program path
	var err error
	exePath, err = os.Readlink("/proc/self/exe")
	if err != nil {
		panic("cannot get current executable")
	}
}

type entrypointFn func(args []string) error

var entrypoints = make(map[string]entrypointFn)

// Entrypoint provides the access to a multicall command. This is how the
// interpreter forks itself: the child re-executes the same binary and runs
// fn instead of main.
type Entrypoint string

// NewEntrypoint adds a new multicall command. name is the command name
// and fn is the function that will be executed for the specified
// command. It returns the related Entrypoint. Packages adding new
// multicall commands should call Add in their init function.
func NewEntrypoint(name string, fn entrypointFn) Entrypoint {
	if _, ok := entrypoints[name]; ok {
		panic(fmt.Errorf("command with name %q already exists", name))
	}
	entrypoints[name] = fn
	return Entrypoint(name)
}

// MaybeExec should be called at the start of the program, if the process argv[1] names
// an entrypoint registered with multicall, the related function will be executed.
// MaybeExec never returns in that case: the process exits with the status
// carried by an *ExitError, with 1 after printing any other error to
// stderr, and with 0 otherwise.
func MaybeExec() {
	if len(os.Args) < 2 || !strings.HasPrefix(os.Args[1], entryArgPrefix) {
		return
	}
	name := os.Args[1][len(entryArgPrefix):]
	fn, ok := entrypoints[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown multicall entrypoint %q\n", name)
		os.Exit(1)
	}
	os.Exit(exitStatus(fn(os.Args[2:])))
}

func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Status
	}
	fmt.Fprintln(os.Stderr, err)
	return 1
}

// Command will prepare the *ExecCmd for the given entrypoint, configured with
// the provided stdio and args.
func (e Entrypoint) Command(stdio Stdio, args ...string) *ExecCmd {
	argv := append([]string{exePath, entryArgPrefix + string(e)}, args...)
	cmd := Command(argv, stdio)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Pdeathsig: syscall.SIGTERM,
	}
	return cmd
}
