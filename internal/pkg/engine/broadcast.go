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
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/coreos/eshell/internal/pkg/cmdtree"
	"github.com/coreos/eshell/system/exec"
)

// broadcast runs the branches of a parallel tree so that each of them reads
// everything on the runner's input. The input is read to its end first,
// then written line by line to every branch in turn.
func (r *Runner) broadcast(t *cmdtree.Tree) exec.ExitReport {
	if err := t.Validate(); err != nil {
		fatalf("invalid command tree %q: %v", t, err)
		return exec.ExitReport{}
	}
	if t.Separator != cmdtree.Parallel {
		return r.Dispatch(t)
	}

	in := r.Stdio.In
	if in == nil {
		in = os.Stdin
	}
	lines, err := readLines(in)
	if err != nil {
		fatalf("%v", err)
	}
	plog.Debugf("broadcasting %d lines to %d branches", len(lines), len(t.Elements))

	children := make([]*child, 0, len(t.Elements))
	writers := make([]*exec.End, 0, len(t.Elements))
	for _, el := range t.Elements {
		p, err := newPipe()
		if err != nil {
			fatalf("%v", err)
		}
		sio := r.Stdio
		sio.In = p.R.File()
		children = append(children, r.start(el, sio, false))
		if err := p.R.Release(); err != nil {
			fatalf("%v", err)
		}
		writers = append(writers, p.W)
	}

	for i, w := range writers {
		// A branch may exit without reading all of its input.
		if err := writeLines(w.File(), lines); err != nil {
			plog.Infof("branch %q: %v", t.Elements[i], err)
		}
		if err := w.Release(); err != nil {
			fatalf("%v", err)
		}
	}

	var last exec.ExitReport
	for _, c := range children {
		last = r.wait(c)
	}
	return last
}

// readLines reads r to its end. A final line without a newline is kept.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 && line[len(line)-1] == '\n' {
			line = line[:len(line)-1]
			lines = append(lines, line)
		} else if line != "" {
			lines = append(lines, line)
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, errors.Wrap(err, "reading broadcast input")
		}
	}
}

// writeLines writes every line to w, each ending in a newline.
func writeLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return errors.Wrap(err, "writing broadcast line")
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "writing broadcast line")
		}
	}
	return errors.Wrap(bw.Flush(), "writing broadcast line")
}
