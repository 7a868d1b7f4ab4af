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
	"os"

	"github.com/pkg/errors"
)

// End is one side of a pipe as held by the current process. Both ends are
// created close-on-exec, so a child only ever holds the ends it was handed
// as stdio; the parent drops its own copy with Release.
type End struct {
	f *os.File
}

// File lends the descriptor, typically as a child's stdin or stdout.
func (e *End) File() *os.File {
	if e.f == nil {
		panic("exec: use of released pipe end")
	}
	return e.f
}

// Held reports whether this process still owns the end.
func (e *End) Held() bool {
	return e.f != nil
}

// Release closes the end. It is called once per end; releasing an end
// twice is a bug and panics.
func (e *End) Release() error {
	if e.f == nil {
		panic("exec: pipe end released twice")
	}
	f := e.f
	e.f = nil
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", f.Name())
	}
	return nil
}

// Pipe is a unidirectional byte channel: bytes written to W are read from R.
type Pipe struct {
	R *End
	W *End
}

// NewPipe creates a pipe owned by the calling process.
func NewPipe() (*Pipe, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, errors.Wrap(err, "creating pipe")
	}
	return &Pipe{R: &End{f: r}, W: &End{f: w}}, nil
}

// Release closes whichever ends are still held.
func (p *Pipe) Release() error {
	var first error
	for _, e := range []*End{p.R, p.W} {
		if !e.Held() {
			continue
		}
		if err := e.Release(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
