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

package exec

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// ExitReport is the result of reaping a child: either it exited with Code
// or it was terminated by Signal. Pid is zero for a child that could not be
// executed at all.
type ExitReport struct {
	Pid    int
	Exited bool
	Code   int
	Signal syscall.Signal
}

// Failed returns the report of a child that never ran and would have
// exited with status.
func Failed(status int) ExitReport {
	return ExitReport{Exited: true, Code: status}
}

// Success is true for a zero exit.
func (r ExitReport) Success() bool {
	return r.Exited && r.Code == 0
}

// Status folds the report into a single shell exit status, 128+n for
// signal n.
func (r ExitReport) Status() int {
	if r.Exited {
		return r.Code
	}
	return 128 + int(r.Signal)
}

func (r ExitReport) String() string {
	if r.Exited {
		return fmt.Sprintf("exited %d", r.Code)
	}
	name := unix.SignalName(r.Signal)
	if name == "" {
		name = r.Signal.String()
	}
	return "killed by " + name
}

// ExitError carries a status out of a multicall entrypoint; MaybeExec exits
// with it without printing anything.
type ExitError struct {
	Status int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Status)
}
