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

// Package cmdtree is the parsed form of one input line: a separator and the
// ordered elements it joins. Every executor consumes this one
// representation; nested pipelines are trees themselves.
package cmdtree

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
)

// Separator joins the elements of a tree.
type Separator int

const (
	None Separator = iota
	Sequential
	Parallel
	Pipe
)

func (s Separator) String() string {
	switch s {
	case None:
		return "none"
	case Sequential:
		return "sequential"
	case Parallel:
		return "parallel"
	case Pipe:
		return "pipe"
	default:
		return fmt.Sprintf("separator(%d)", int(s))
	}
}

// Token is the input syntax of the separator.
func (s Separator) Token() string {
	switch s {
	case Sequential:
		return ";"
	case Parallel:
		return "&"
	case Pipe:
		return "|"
	default:
		return ""
	}
}

// Kind tags which field of an Element is meaningful.
type Kind int

const (
	KindCommand Kind = iota
	KindSubshell
	KindPipeline
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindSubshell:
		return "subshell"
	case KindPipeline:
		return "pipeline"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Element is one position of a tree.
type Element struct {
	Kind Kind
	// Argv is the program and its arguments for KindCommand.
	Argv []string
	// Text is the raw subshell body for KindSubshell, parsed again only
	// by the process that runs it.
	Text string
	// Pipeline is a Pipe tree for KindPipeline.
	Pipeline *Tree
}

func Command(argv ...string) Element {
	return Element{Kind: KindCommand, Argv: argv}
}

func Subshell(text string) Element {
	return Element{Kind: KindSubshell, Text: text}
}

func Pipeline(stages ...Element) Element {
	return Element{Kind: KindPipeline, Pipeline: &Tree{Separator: Pipe, Elements: stages}}
}

// String renders the element as input the parser accepts back.
func (e Element) String() string {
	switch e.Kind {
	case KindCommand:
		return shellquote.Join(e.Argv...)
	case KindSubshell:
		return "(" + e.Text + ")"
	case KindPipeline:
		if e.Pipeline == nil {
			return ""
		}
		return e.Pipeline.String()
	default:
		return ""
	}
}

// Tree is a parsed line.
type Tree struct {
	Separator Separator
	Elements  []Element
}

// Empty is true when parsing yielded no element, e.g. for a blank line.
func (t *Tree) Empty() bool {
	return t == nil || len(t.Elements) == 0
}

// String renders the tree as input the parser accepts back. This is the
// form in which subtrees are handed to child interpreters.
func (t *Tree) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	switch t.Separator {
	case Sequential, Parallel:
		return strings.Join(parts, " "+t.Separator.Token()+" ")
	case Pipe:
		return strings.Join(parts, " | ")
	default:
		return strings.Join(parts, " ")
	}
}

// Validate checks the shape the executors rely on: separator, element
// count and element kinds agree.
func (t *Tree) Validate() error {
	if t.Empty() {
		return errors.New("tree has no elements")
	}
	n := len(t.Elements)
	switch t.Separator {
	case None:
		if n != 1 {
			return errors.Errorf("%s tree has %d elements, want 1", t.Separator, n)
		}
		return t.checkKinds(KindCommand, KindSubshell)
	case Sequential, Parallel:
		if n < 2 {
			return errors.Errorf("%s tree has %d elements, want more than 1", t.Separator, n)
		}
		return t.checkKinds(KindCommand, KindPipeline)
	case Pipe:
		if n < 2 {
			return errors.Errorf("%s tree has %d elements, want more than 1", t.Separator, n)
		}
		return t.checkKinds(KindCommand, KindSubshell)
	default:
		return errors.Errorf("unknown %s", t.Separator)
	}
}

func (t *Tree) checkKinds(allowed ...Kind) error {
	for i, e := range t.Elements {
		ok := false
		for _, k := range allowed {
			if e.Kind == k {
				ok = true
				break
			}
		}
		if !ok {
			return errors.Errorf("element %d: %s not allowed in %s tree", i, e.Kind, t.Separator)
		}
		if err := e.validate(); err != nil {
			return errors.Wrapf(err, "element %d", i)
		}
	}
	return nil
}

func (e Element) validate() error {
	switch e.Kind {
	case KindCommand:
		if len(e.Argv) == 0 {
			return errors.New("command has no arguments")
		}
	case KindSubshell:
		if strings.TrimSpace(e.Text) == "" {
			return errors.New("empty subshell")
		}
	case KindPipeline:
		if e.Pipeline == nil {
			return errors.New("pipeline has no tree")
		}
		if e.Pipeline.Separator != Pipe {
			return errors.Errorf("pipeline element holds a %s tree", e.Pipeline.Separator)
		}
		return e.Pipeline.Validate()
	}
	return nil
}
