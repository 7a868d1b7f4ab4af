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

// Package repl reads command lines from a terminal or a script and hands
// them to a runner.
package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/coreos/eshell/system/exec"
)

var plog = capnslog.NewPackageLogger("github.com/coreos/eshell", "repl")

// LineRunner runs one input line. Only a syntax error is returned.
type LineRunner interface {
	RunLine(line string) (exec.ExitReport, error)
}

// Options controls the loop.
type Options struct {
	// Prompt is printed before each line when in is a terminal.
	Prompt string
	// Quit ends the loop when entered as a line on its own.
	Quit string
}

// Run reads lines from in until the quit word or end of input. Prompts and
// syntax errors go to out. The report of the last line that ran is
// returned.
func Run(in *os.File, out io.Writer, r LineRunner, opts Options) (exec.ExitReport, error) {
	interactive := term.IsTerminal(int(in.Fd()))
	last := exec.ExitReport{Exited: true}
	for {
		if interactive {
			fmt.Fprint(out, opts.Prompt)
		}
		line, err := readLine(in)
		if err != nil && err != io.EOF {
			return last, errors.Wrap(err, "reading input")
		}
		eof := err == io.EOF
		if eof && line == "" {
			if interactive {
				fmt.Fprintln(out)
			}
			return last, nil
		}

		line = strings.TrimSpace(line)
		if line == opts.Quit {
			plog.Debugf("quit")
			return last, nil
		}
		if line != "" {
			rep, err := r.RunLine(line)
			if err != nil {
				fmt.Fprintf(out, "PARSE ERROR. LINE: %s\n%v\n", line, err)
			} else {
				last = rep
			}
		}
		if eof {
			return last, nil
		}
	}
}

// readLine reads up to the next newline one byte at a time. The interpreter
// shares its input with the children it starts, so nothing past the line
// may be read ahead.
func readLine(r io.Reader) (string, error) {
	var buf []byte
	b := make([]byte, 1)
	for {
		n, err := r.Read(b)
		if n == 1 {
			if b[0] == '\n' {
				return string(buf), nil
			}
			buf = append(buf, b[0])
		}
		if err != nil {
			return string(buf), err
		}
	}
}
