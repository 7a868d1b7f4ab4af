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

// Package parser turns an input line into a cmdtree.Tree.
//
// Lines are parsed as POSIX shell with mvdan.cc/sh and the syntax tree is
// narrowed to what the engine runs: a single command, a `( ... )` subshell,
// a `|` pipeline of commands and subshells, or a list of commands and
// pipelines joined by `;` (one after another) or `&` (all at once). The two
// list separators cannot be mixed on one line, and a trailing one is
// allowed. Anything else the shell language has is a syntax error here.
package parser

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"mvdan.cc/sh/v3/syntax"

	"github.com/coreos/eshell/internal/pkg/cmdtree"
)

// SyntaxError is returned for a line that is not in the grammar.
type SyntaxError struct {
	Line string
	Err  error
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.Err.Error()
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Parse parses one line. A blank line yields an empty tree and no error.
func Parse(line string) (*cmdtree.Tree, error) {
	f, err := syntax.NewParser(syntax.Variant(syntax.LangPOSIX)).Parse(strings.NewReader(line), "")
	if err != nil {
		return nil, &SyntaxError{Line: line, Err: err}
	}
	t, err := (&converter{src: line}).list(f.Stmts)
	if err != nil {
		return nil, &SyntaxError{Line: line, Err: err}
	}
	return t, nil
}

// converter narrows a syntax tree parsed from src.
type converter struct {
	src string
}

// list converts a statement list, the body of a line or of a subshell.
func (c *converter) list(stmts []*syntax.Stmt) (*cmdtree.Tree, error) {
	if len(stmts) == 0 {
		return &cmdtree.Tree{}, nil
	}

	sep := cmdtree.None
	for i, st := range stmts {
		s := separatorOf(st, i == len(stmts)-1)
		if s == cmdtree.None {
			continue
		}
		if sep != cmdtree.None && s != sep {
			return nil, errors.Errorf("cannot mix %q and %q", sep.Token(), s.Token())
		}
		sep = s
	}

	if len(stmts) == 1 {
		return c.single(stmts[0])
	}
	t := &cmdtree.Tree{Separator: sep}
	for _, st := range stmts {
		e, err := c.listItem(st)
		if err != nil {
			return nil, err
		}
		t.Elements = append(t.Elements, e)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// separatorOf is the list separator after st. Statements other than the
// last are always followed by one.
func separatorOf(st *syntax.Stmt, last bool) cmdtree.Separator {
	switch {
	case st.Background:
		return cmdtree.Parallel
	case !last || st.Semicolon.IsValid():
		return cmdtree.Sequential
	default:
		return cmdtree.None
	}
}

// single converts a line that holds one statement: a None tree, or a Pipe
// tree for a pipeline.
func (c *converter) single(st *syntax.Stmt) (*cmdtree.Tree, error) {
	stages, err := c.pipeline(st)
	if err != nil {
		return nil, err
	}
	t := &cmdtree.Tree{Separator: cmdtree.Pipe, Elements: stages}
	if len(stages) == 1 {
		t.Separator = cmdtree.None
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// listItem converts one element of a `;` or `&` list.
func (c *converter) listItem(st *syntax.Stmt) (cmdtree.Element, error) {
	stages, err := c.pipeline(st)
	if err != nil {
		return cmdtree.Element{}, err
	}
	if len(stages) > 1 {
		return cmdtree.Pipeline(stages...), nil
	}
	if stages[0].Kind == cmdtree.KindSubshell {
		return cmdtree.Element{}, errors.Errorf("subshell %s must stand alone or be a pipeline stage", stages[0])
	}
	return stages[0], nil
}

// pipeline flattens a chain of `|` into its stages. A statement that is not
// a pipe is a pipeline of one stage.
func (c *converter) pipeline(st *syntax.Stmt) ([]cmdtree.Element, error) {
	if err := checkStmt(st); err != nil {
		return nil, err
	}
	bin, ok := st.Cmd.(*syntax.BinaryCmd)
	if !ok {
		e, err := c.stage(st)
		if err != nil {
			return nil, err
		}
		return []cmdtree.Element{e}, nil
	}
	if bin.Op != syntax.Pipe {
		return nil, errors.Errorf("%q is not supported", bin.Op.String())
	}
	left, err := c.pipeline(bin.X)
	if err != nil {
		return nil, err
	}
	right, err := c.pipeline(bin.Y)
	if err != nil {
		return nil, err
	}
	return append(left, right...), nil
}

// checkStmt rejects what a statement may carry besides its command.
func checkStmt(st *syntax.Stmt) error {
	switch {
	case len(st.Redirs) > 0:
		return errors.Errorf("redirection in %s is not supported", render(st))
	case st.Negated:
		return errors.New("negation is not supported")
	case st.Coprocess:
		return errors.New("coprocesses are not supported")
	case st.Cmd == nil:
		return errors.New("empty command")
	}
	return nil
}

// stage converts a command or a subshell.
func (c *converter) stage(st *syntax.Stmt) (cmdtree.Element, error) {
	switch cmd := st.Cmd.(type) {
	case *syntax.CallExpr:
		if len(cmd.Assigns) > 0 {
			return cmdtree.Element{}, errors.Errorf("assignment in %s is not supported", render(st))
		}
		argv := make([]string, 0, len(cmd.Args))
		for _, w := range cmd.Args {
			s, err := literal(w)
			if err != nil {
				return cmdtree.Element{}, err
			}
			argv = append(argv, s)
		}
		if len(argv) == 0 {
			return cmdtree.Element{}, errors.New("empty command")
		}
		return cmdtree.Command(argv...), nil

	case *syntax.Subshell:
		if len(cmd.Stmts) == 0 {
			return cmdtree.Element{}, errors.New("empty subshell")
		}
		// The child that runs the body gets the text as typed and parses it
		// again; the body is checked here so a bad line fails before
		// anything is started.
		body := strings.TrimSpace(c.src[cmd.Lparen.Offset()+1 : cmd.Rparen.Offset()])
		if _, err := c.list(cmd.Stmts); err != nil {
			return cmdtree.Element{}, errors.Wrapf(err, "in subshell %q", body)
		}
		return cmdtree.Subshell(body), nil

	default:
		return cmdtree.Element{}, errors.Errorf("%s is not supported", render(cmd))
	}
}

// literal removes the quoting from a word. Words that would need an
// expansion are rejected.
func literal(w *syntax.Word) (string, error) {
	var sb strings.Builder
	for _, part := range w.Parts {
		switch part := part.(type) {
		case *syntax.Lit:
			sb.WriteString(unescape(part.Value, false))
		case *syntax.SglQuoted:
			if part.Dollar {
				return "", errors.Errorf("expansion in %s is not supported", render(w))
			}
			sb.WriteString(part.Value)
		case *syntax.DblQuoted:
			if part.Dollar {
				return "", errors.Errorf("expansion in %s is not supported", render(w))
			}
			for _, p := range part.Parts {
				lit, ok := p.(*syntax.Lit)
				if !ok {
					return "", errors.Errorf("expansion in %s is not supported", render(w))
				}
				sb.WriteString(unescape(lit.Value, true))
			}
		default:
			return "", errors.Errorf("expansion in %s is not supported", render(w))
		}
	}
	return sb.String(), nil
}

// unescape applies backslash quoting to literal text. Inside double quotes
// a backslash only escapes `$`, "`", `"`, `\` and newline.
func unescape(s string, quoted bool) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			sb.WriteByte(s[i])
			continue
		}
		next := s[i+1]
		if quoted && !strings.ContainsRune("$`\"\\\n", rune(next)) {
			sb.WriteByte(s[i])
			continue
		}
		i++
		if next != '\n' {
			sb.WriteByte(next)
		}
	}
	return sb.String()
}

// render prints node as shell source for error messages.
func render(node syntax.Node) string {
	var buf bytes.Buffer
	if err := syntax.NewPrinter(syntax.SingleLine(true)).Print(&buf, node); err != nil {
		return "?"
	}
	return strings.TrimSpace(buf.String())
}
