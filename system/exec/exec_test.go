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

package exec

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestReapExited(t *testing.T) {
	r := runReport(t, Command([]string{"sh", "-c", "exit 3"}, Stdio{}))
	if !r.Exited || r.Code != 3 {
		t.Fatalf("Unexpected state: %s", r)
	}
	if r.Success() {
		t.Errorf("exit 3 reported as success")
	}
	if r.Status() != 3 {
		t.Errorf("Status() = %d, want 3", r.Status())
	}
	if r.Pid == 0 {
		t.Errorf("report has no pid")
	}
}

func TestReapSignaled(t *testing.T) {
	cmd := Command([]string{"sh", "-c", "kill -TERM $$"}, Stdio{})
	r := runReport(t, cmd)
	if r.Exited || r.Signal != syscall.SIGTERM {
		t.Fatalf("Unexpected state: %s", r)
	}
	if !cmd.Signaled() {
		t.Errorf("Signaled() = false")
	}
	if r.Status() != 128+int(syscall.SIGTERM) {
		t.Errorf("Status() = %d", r.Status())
	}
	if r.String() != "killed by SIGTERM" {
		t.Errorf("String() = %q", r.String())
	}
}

func TestReapTwicePanics(t *testing.T) {
	cmd := Command([]string{"true"}, Stdio{})
	runReport(t, cmd)

	defer func() {
		if recover() == nil {
			t.Errorf("second Reap did not panic")
		}
	}()
	cmd.Reap()
}

func TestStdioRedirect(t *testing.T) {
	out := tempOut(t)
	runReport(t, Command([]string{"echo", "hello", "world"}, Stdio{Out: out}))
	if got := readOut(t, out); got != "hello world\n" {
		t.Errorf("Unexpected output: %q", got)
	}
}

func TestExecFailure(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain")
	if err := os.WriteFile(plain, []byte("data\n"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, tt := range []struct {
		name   string
		argv   []string
		status int
	}{
		{"missing", []string{"eshell-no-such-program"}, StatusNotFound},
		{"missing-path", []string{filepath.Join(dir, "missing")}, StatusNotFound},
		{"not-executable", []string{plain}, StatusNotExecutable},
		{"directory", []string{dir}, StatusNotExecutable},
	} {
		t.Run(tt.name, func(t *testing.T) {
			err := Command(tt.argv, Stdio{}).Start()
			if err == nil {
				t.Fatal("Start succeeded")
			}
			status, ok := ExecFailure(err)
			if !ok {
				t.Fatalf("%v not classified as exec failure", err)
			}
			if status != tt.status {
				t.Errorf("status %d, want %d", status, tt.status)
			}
		})
	}

	if _, ok := ExecFailure(errors.New("resource temporarily unavailable")); ok {
		t.Errorf("plain error classified as exec failure")
	}
	if !IsCmdNotFound(Command([]string{"eshell-no-such-program"}, Stdio{}).Start()) {
		t.Errorf("IsCmdNotFound = false")
	}
}

func TestFailedReport(t *testing.T) {
	r := Failed(StatusNotFound)
	if r.Success() || r.Status() != StatusNotFound || r.Pid != 0 {
		t.Errorf("Unexpected report: %+v", r)
	}
}
